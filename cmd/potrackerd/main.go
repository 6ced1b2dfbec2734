package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joseph-ayodele/po-tracker/internal/app"
	"github.com/joseph-ayodele/po-tracker/internal/async"
	"github.com/joseph-ayodele/po-tracker/internal/common"
	"github.com/joseph-ayodele/po-tracker/internal/httpapi"
	"github.com/joseph-ayodele/po-tracker/internal/ingest"
	svc "github.com/joseph-ayodele/po-tracker/internal/server"
)

func main() {
	cfg := common.LoadConfig()
	// the daemon logs text without time/level unless LOG_FORMAT says otherwise
	if os.Getenv("LOG_FORMAT") == "" {
		cfg.Log.Format = "text"
	}
	logger := common.NewLogger(os.Stdout, cfg.Log)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	addr := cfg.Server.GRPCAddr
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialise", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := svc.PingDB(ctx, a.DB, logger, 5*time.Second); err != nil {
		os.Exit(1)
	}

	queue := async.NewProcessorQueue(a.Processor, logger,
		async.WithWorkers(cfg.Queue.Workers),
		async.WithQueueSize(cfg.Queue.Size),
		async.WithProcessTimeout(cfg.Queue.ProcessTimeout),
	)

	service := svc.NewPurchaseOrderService(svc.Deps{
		Extractor: a.Extractor,
		Processor: a.Processor,
		Orders:    a.Orders,
		Ingestor:  a.Ingestor,
		Queue:     queue,
		Exporter:  a.Exporter,
	}, logger)
	grpcServer, health := svc.NewGRPCServer(service, logger)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", addr, "error", err)
		os.Exit(1)
	}
	logger.Info("po-tracker grpc listening", "addr", addr)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC serve error", "error", err)
			stop()
		}
	}()

	var httpServer *http.Server
	if cfg.Server.HTTPAddr != "" {
		router := httpapi.NewRouter(&httpapi.Handler{
			Extractor:     a.Extractor,
			TextExtractor: a.OCR,
			Processor:     a.Processor,
			Orders:        a.Orders,
			Deliveries:    a.Deliveries,
			Exporter:      a.Exporter,
			DB:            a.DB,
			Logger:        logger,
		}, logger)
		httpServer = &http.Server{Addr: cfg.Server.HTTPAddr, Handler: router, ReadHeaderTimeout: 10 * time.Second}
		logger.Info("po-tracker http listening", "addr", cfg.Server.HTTPAddr)
		go func() {
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http serve error", "error", err)
				stop()
			}
		}()
	}

	if len(cfg.Watch.Dirs) > 0 {
		if err := watch(ctx, cfg.Watch, a.Ingestor, queue, logger); err != nil {
			logger.Error("failed to start watcher", "dirs", cfg.Watch.Dirs, "error", err)
			os.Exit(1)
		}
	}

	<-ctx.Done()
	logger.Info("shutting down")
	health.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}
	grpcServer.GracefulStop()
	queue.Shutdown(shutdownCtx)
}

// watch ingests new scans under the configured directories and queues them.
func watch(ctx context.Context, cfg common.WatchConfig, ing ingest.Ingestor, queue async.Queue, logger *slog.Logger) error {
	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       cfg.Dirs,
		SkipHidden:  true,
		InitialScan: true,
		Debounce:    cfg.Debounce,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	logger.Info("watching for scans", "dirs", cfg.Dirs)

	go func() {
		for {
			select {
			case path, ok := <-events:
				if !ok {
					return
				}
				r, err := ing.IngestPath(ctx, path, "")
				if err != nil {
					logger.Warn("watch.ingest.failed", "path", path, "error", err)
					continue
				}
				if r.Deduplicated {
					logger.Debug("watch.ingest.duplicate", "path", path, "file_id", r.FileID)
					continue
				}
				job := async.Job{FileID: r.FileID, PONumber: r.PONumber, SubmittedAt: time.Now()}
				if err := queue.Enqueue(ctx, job); err != nil {
					logger.Warn("watch.enqueue.failed", "path", path, "error", err)
				}
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				logger.Warn("watch.error", "error", err)
			}
		}
	}()
	return nil
}
