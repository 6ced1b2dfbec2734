package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/joseph-ayodele/po-tracker/constants"
)

type call struct {
	name string
	args []string
}

// fakeRunner answers tesseract with a fixed text and lets tests hook other
// commands.
type fakeRunner struct {
	mu    sync.Mutex
	calls []call
	text  string
	tsv   string
	hook  func(name string, args []string) error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{name: name, args: args})
	f.mu.Unlock()
	if f.hook != nil {
		if err := f.hook(name, args); err != nil {
			return nil, []byte("boom"), err
		}
	}
	if name == "tesseract" {
		if args[len(args)-1] == "tsv" {
			return []byte(f.tsv), nil, nil
		}
		return []byte(f.text), nil, nil
	}
	return nil, nil, nil
}

func (f *fakeRunner) named(name string) []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

const scanText = "Cart Part No Nomenclature\r\nABC-123  USA\tNOS 10 25.50 Bracket\n\n\n\n-----\nAmount"

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func newTestExtractor(t *testing.T, cfg Config, r Runner) *Extractor {
	t.Helper()
	e, err := NewExtractor(cfg, nil, WithRunner(r))
	if err != nil {
		t.Fatalf("NewExtractor() error = %v", err)
	}
	return e
}

func TestExtractImage(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "PO-17.png")
	writePNG(t, img, 40, 20)

	r := &fakeRunner{text: scanText}
	e := newTestExtractor(t, Config{PSM: 6}, r)
	res, err := e.Extract(context.Background(), img)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Method != "image-ocr" || res.SourceType != constants.IMAGE || res.Pages != 1 {
		t.Errorf("result = %+v", res)
	}
	want := "Cart Part No Nomenclature\nABC-123 USA NOS 10 25.50 Bracket\n\n-----\nAmount"
	if res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}

	e = newTestExtractor(t, Config{PSM: 6, DropRulerLines: true}, &fakeRunner{text: scanText})
	res, err = e.Extract(context.Background(), img)
	if err != nil {
		t.Fatalf("Extract(drop rulers) error = %v", err)
	}
	if want := "Cart Part No Nomenclature\nABC-123 USA NOS 10 25.50 Bracket\n\nAmount"; res.Text != want {
		t.Errorf("Text(drop rulers) = %q, want %q", res.Text, want)
	}
	calls := r.named("tesseract")
	if len(calls) != 1 {
		t.Fatalf("tesseract calls = %d, want 1", len(calls))
	}
	args := strings.Join(calls[0].args, " ")
	if !strings.HasPrefix(args, img+" stdout -l eng") || !strings.Contains(args, "--psm 6") {
		t.Errorf("tesseract args = %q", args)
	}
	if res.Confidence < 0.6 {
		t.Errorf("Confidence = %v, want >= 0.6 for a table scan", res.Confidence)
	}
}

func TestExtractImageGrayscale(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "scan.png")
	writePNG(t, img, 40, 20)

	var seen string
	r := &fakeRunner{text: "x"}
	r.hook = func(name string, args []string) error {
		if name == "tesseract" {
			seen = args[0]
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			decoded, err := png.Decode(f)
			if err != nil {
				return err
			}
			if _, ok := decoded.(*image.Gray); !ok {
				return errors.New("not gray")
			}
			if decoded.Bounds().Dx() != MinOCRWidth {
				return errors.New("not upscaled")
			}
		}
		return nil
	}
	e := newTestExtractor(t, Config{Grayscale: true}, r)
	if _, err := e.Extract(context.Background(), img); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if seen == img || filepath.Base(seen) != "gray.png" {
		t.Errorf("tesseract read %q, want the prepared grayscale copy", seen)
	}
}

func TestExtractTSVConfidence(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "scan.png")
	writePNG(t, img, 10, 10)

	tsv := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
		"5\t1\t1\t1\t1\t1\t0\t0\t10\t10\t90\tABC-123\n" +
		"5\t1\t1\t1\t1\t2\t0\t0\t10\t10\t70\tUSA\n" +
		"4\t1\t1\t1\t1\t0\t0\t0\t10\t10\t-1\t\n"
	r := &fakeRunner{text: "ABC-123 USA", tsv: tsv}
	e := newTestExtractor(t, Config{EnableTSVConfidence: true}, r)
	res, err := e.Extract(context.Background(), img)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got := meanTSVConfidence(tsv); got < 0.79 || got > 0.81 {
		t.Errorf("meanTSVConfidence() = %v, want 0.8", got)
	}
	if len(r.named("tesseract")) != 2 {
		t.Errorf("tesseract calls = %d, want 2", len(r.named("tesseract")))
	}
	if res.Confidence <= heuristicConfidence(res.Text) {
		t.Errorf("Confidence = %v, want blended above heuristic", res.Confidence)
	}
}

func TestExtractPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PO-1.txt")
	if err := os.WriteFile(path, []byte("Nomenclature\nＡＢＣ-１２３ USA\nAmount\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	e := newTestExtractor(t, Config{}, &fakeRunner{})
	res, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Method != "plain-text" || res.Text != "Nomenclature\nABC-123 USA\nAmount" {
		t.Errorf("result = %+v", res)
	}
}

func TestExtractScannedPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "PO-22.pdf")
	if err := os.WriteFile(path, []byte("not really a pdf"), 0o600); err != nil {
		t.Fatal(err)
	}
	r := &fakeRunner{text: "page text"}
	r.hook = func(name string, args []string) error {
		if name != "pdftoppm" {
			return nil
		}
		prefix := args[len(args)-1]
		for _, n := range []string{"-1.png", "-2.png"} {
			if err := os.WriteFile(prefix+n, []byte("png"), 0o600); err != nil {
				return err
			}
		}
		return nil
	}
	e := newTestExtractor(t, Config{DPI: 200}, r)
	res, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if res.Method != "pdf-ocr" || res.Pages != 2 || res.SourceType != constants.PDF {
		t.Errorf("result = %+v", res)
	}
	if res.Text != "page text\n\f\npage text" {
		t.Errorf("Text = %q", res.Text)
	}
	pp := r.named("pdftoppm")
	if len(pp) != 1 || pp[0].args[1] != "200" {
		t.Errorf("pdftoppm calls = %+v", pp)
	}
	if len(res.Warnings) == 0 || !strings.HasPrefix(res.Warnings[0], "pdf text layer") {
		t.Errorf("Warnings = %q", res.Warnings)
	}
}

func TestExtractScannedPDFMaxPages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PO.pdf")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	r := &fakeRunner{text: "p"}
	r.hook = func(name string, args []string) error {
		if name == "pdftoppm" {
			prefix := args[len(args)-1]
			for _, n := range []string{"-1.png", "-2.png", "-3.png"} {
				_ = os.WriteFile(prefix+n, nil, 0o600)
			}
		}
		return nil
	}
	e := newTestExtractor(t, Config{MaxPages: 1}, r)
	res, err := e.Extract(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if res.Pages != 1 || len(r.named("tesseract")) != 1 {
		t.Errorf("pages = %d, tesseract calls = %d", res.Pages, len(r.named("tesseract")))
	}
}

func TestExtractPDFNoPagesRendered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PO.pdf")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	e := newTestExtractor(t, Config{}, &fakeRunner{})
	if _, err := e.Extract(context.Background(), path); err == nil {
		t.Fatal("Extract() error = nil, want no pages rendered")
	}
}

func TestExtractHEICCached(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "IMG_0001.heic")
	if err := os.WriteFile(src, []byte("heic"), 0o600); err != nil {
		t.Fatal(err)
	}
	cache := filepath.Join(dir, "cache")

	r := &fakeRunner{text: "ok"}
	r.hook = func(name string, args []string) error {
		if name == "magick" {
			writePNG(t, args[1], 4, 4)
		}
		return nil
	}
	e := newTestExtractor(t, Config{HeicConverter: "magick", ArtifactCacheDir: cache}, r)
	ctx := WithContentHash(context.Background(), "abc123")
	for i := 0; i < 2; i++ {
		if _, err := e.Extract(ctx, src); err != nil {
			t.Fatalf("Extract() #%d error = %v", i, err)
		}
	}
	if n := len(r.named("magick")); n != 1 {
		t.Errorf("magick calls = %d, want 1", n)
	}
	if _, err := os.Stat(filepath.Join(cache, "abc123.png")); err != nil {
		t.Errorf("cached png missing: %v", err)
	}
	if got := r.named("tesseract")[1].args[0]; got != filepath.Join(cache, "abc123.png") {
		t.Errorf("second OCR read %q", got)
	}
}

func TestExtractHEICUnsupportedConverter(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.heif")
	if err := os.WriteFile(src, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	e := newTestExtractor(t, Config{HeicConverter: "gimp"}, &fakeRunner{})
	if _, err := e.Extract(context.Background(), src); err == nil {
		t.Fatal("Extract() error = nil")
	}
}

func TestExtractUnsupportedExtension(t *testing.T) {
	e := newTestExtractor(t, Config{}, &fakeRunner{})
	if _, err := e.Extract(context.Background(), "order.docx"); err == nil {
		t.Fatal("Extract(.docx) error = nil")
	}
}

func TestExtractEngineFailure(t *testing.T) {
	img := filepath.Join(t.TempDir(), "a.jpg")
	if err := os.WriteFile(img, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	r := &fakeRunner{hook: func(string, []string) error { return errors.New("exit status 1") }}
	e := newTestExtractor(t, Config{}, r)
	res, err := e.Extract(context.Background(), img)
	if err == nil {
		t.Fatal("Extract() error = nil")
	}
	if len(res.Warnings) != 1 || res.Warnings[0] != "boom" {
		t.Errorf("Warnings = %q", res.Warnings)
	}
}

func TestNewEngine(t *testing.T) {
	en, err := NewEngine(Config{}, &fakeRunner{})
	if err != nil || en.Name() != "tesseract" {
		t.Fatalf("NewEngine(default) = %v, %v", en, err)
	}
	if _, err := NewEngine(Config{Engine: "paddle"}, nil); err == nil {
		t.Error("NewEngine(paddle) error = nil")
	}

	// an empty config falls back to the tesseract binary and English
	r := &fakeRunner{text: "ABC-123 USA NOS 10 25.50"}
	en, _ = NewEngine(Config{}, r)
	rec, err := en.Recognize(context.Background(), "/scans/po.png")
	if err != nil || rec.Text != "ABC-123 USA NOS 10 25.50" {
		t.Fatalf("Recognize() = %+v, %v", rec, err)
	}
	calls := r.named("tesseract")
	if len(calls) != 1 {
		t.Fatalf("tesseract calls = %d, want 1", len(calls))
	}
	if got := strings.Join(calls[0].args, " "); got != "/scans/po.png stdout -l eng" {
		t.Errorf("tesseract args = %q", got)
	}
}

func TestAdapter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}
	a := NewAdapter(newTestExtractor(t, Config{}, &fakeRunner{}), nil)
	res, err := a.Extract(context.Background(), path)
	if err != nil || res.Text != "hello" || res.SourceType != constants.TXT {
		t.Fatalf("Adapter.Extract() = %+v, %v", res, err)
	}
	if _, err := a.Extract(context.Background(), "x.doc"); err == nil {
		t.Error("Adapter.Extract(x.doc) error = nil")
	}
}
