package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/po-tracker/internal/app"
	"github.com/joseph-ayodele/po-tracker/internal/async"
	"github.com/joseph-ayodele/po-tracker/internal/entity"
)

func newBatchCmd(root *rootOptions) *cobra.Command {
	var (
		dir        string
		out        string
		workers    int
		skipHidden bool
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Ingest a directory of scans and export their items to XLSX",
		Long: `Every supported file under --dir is stored, OCR'd and extracted; the
purchase-order number is the file name without its extension. The
resulting orders are written to one workbook.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dir == "" {
				return fmt.Errorf("--dir is required")
			}
			if out == "" {
				out = filepath.Join(filepath.Dir(filepath.Clean(dir)), "purchase_orders.xlsx")
			}
			cfg := root.config()
			logger := root.logger(cmd, cfg)
			ctx := cmd.Context()

			a, err := app.Build(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			logger.Info("starting ingestion", "dir", dir)
			results, stats, err := a.Ingestor.IngestDirectory(ctx, dir, skipHidden)
			if err != nil {
				return err
			}

			var (
				mu     sync.Mutex
				done   []string
				failed int
			)
			queue := async.NewProcessorQueue(a.Processor, logger,
				async.WithWorkers(workers),
				async.WithProcessTimeout(cfg.Queue.ProcessTimeout),
				async.WithResultFunc(func(job async.Job, _ uuid.UUID, po *entity.PurchaseOrder, err error) {
					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						failed++
						return
					}
					done = append(done, po.PONumber)
				}),
			)
			for _, r := range results {
				if r.Err != "" {
					logger.Warn("ingest failed", "path", r.SourcePath, "error", r.Err)
					continue
				}
				if err := queue.Enqueue(ctx, async.Job{FileID: r.FileID, PONumber: r.PONumber}); err != nil {
					queue.Shutdown(context.Background())
					return err
				}
			}
			queue.Shutdown(context.Background())

			logger.Info("batch complete",
				"scanned", stats.Scanned,
				"ingested", stats.Succeeded,
				"ingest_failed", stats.Failed,
				"processed", len(done),
				"process_failed", failed,
			)
			if len(done) == 0 {
				return fmt.Errorf("no purchase orders extracted from %s", dir)
			}

			sort.Strings(done)
			b, err := a.Exporter.ExportXLSX(ctx, done...)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, b, 0o644); err != nil {
				return err
			}
			cmd.Printf("wrote %d purchase orders to %s\n", len(done), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory of scans (required)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output XLSX path (default: purchase_orders.xlsx next to --dir)")
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent OCR workers")
	cmd.Flags().BoolVar(&skipHidden, "skip-hidden", true, "skip dot files and directories")
	return cmd
}
