package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/po-tracker/internal/entity"
)

type fakeProcessor struct {
	mu    sync.Mutex
	calls map[uuid.UUID]string
	block chan struct{}
	err   error
}

func (f *fakeProcessor) ProcessFile(ctx context.Context, fileID uuid.UUID, poNumber string) (uuid.UUID, *entity.PurchaseOrder, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return uuid.Nil, nil, ctx.Err()
		}
	}
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[uuid.UUID]string{}
	}
	f.calls[fileID] = poNumber
	f.mu.Unlock()
	if f.err != nil {
		return uuid.New(), nil, f.err
	}
	return uuid.New(), entity.NewPurchaseOrder(poNumber, time.Now(), nil), nil
}

func TestProcessorQueueProcessesAllJobs(t *testing.T) {
	proc := &fakeProcessor{}
	var mu sync.Mutex
	results := 0
	q := NewProcessorQueue(proc, nil, WithWorkers(3), WithQueueSize(2), WithResultFunc(func(Job, uuid.UUID, *entity.PurchaseOrder, error) {
		mu.Lock()
		results++
		mu.Unlock()
	}))

	want := map[uuid.UUID]string{}
	for i := 0; i < 10; i++ {
		id := uuid.New()
		want[id] = "PO-" + id.String()[:4]
		if err := q.Enqueue(context.Background(), Job{FileID: id, PONumber: want[id]}); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	if len(proc.calls) != len(want) {
		t.Fatalf("processed %d files, want %d", len(proc.calls), len(want))
	}
	for id, po := range want {
		if proc.calls[id] != po {
			t.Errorf("file %s processed with po %q, want %q", id, proc.calls[id], po)
		}
	}
	if results != len(want) {
		t.Errorf("result callbacks = %d, want %d", results, len(want))
	}
}

func TestProcessorQueueReportsErrors(t *testing.T) {
	proc := &fakeProcessor{err: errors.New("ocr failed")}
	var got error
	done := make(chan struct{})
	q := NewProcessorQueue(proc, nil, WithWorkers(1), WithResultFunc(func(_ Job, _ uuid.UUID, _ *entity.PurchaseOrder, err error) {
		got = err
		close(done)
	}))
	defer q.Shutdown(context.Background())

	if err := q.Enqueue(context.Background(), Job{FileID: uuid.New(), PONumber: "PO-1"}); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result")
	}
	if got == nil || got.Error() != "ocr failed" {
		t.Errorf("result error = %v", got)
	}
}

func TestProcessorQueueEnqueueAfterShutdown(t *testing.T) {
	q := NewProcessorQueue(&fakeProcessor{}, nil, WithWorkers(1))
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())

	if err := q.Enqueue(context.Background(), Job{FileID: uuid.New()}); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("Enqueue() error = %v, want ErrQueueClosed", err)
	}
}

func TestProcessorQueueEnqueueRespectsContext(t *testing.T) {
	proc := &fakeProcessor{block: make(chan struct{})}
	q := NewProcessorQueue(proc, nil, WithWorkers(1), WithQueueSize(1))
	defer func() {
		close(proc.block)
		q.Shutdown(context.Background())
	}()

	// one job held by the worker, one buffered
	for i := 0; i < 2; i++ {
		if err := q.Enqueue(context.Background(), Job{FileID: uuid.New()}); err != nil {
			t.Fatalf("Enqueue() error = %v", err)
		}
	}
	deadline := time.Now().Add(2 * time.Second)
	for len(q.ch) != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := q.Enqueue(ctx, Job{FileID: uuid.New()}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Enqueue() error = %v, want DeadlineExceeded", err)
	}
}
