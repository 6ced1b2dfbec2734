package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/po-tracker/internal/app"
	"github.com/joseph-ayodele/po-tracker/internal/entity"
	"github.com/joseph-ayodele/po-tracker/internal/export"
	"github.com/joseph-ayodele/po-tracker/internal/ingest"
	"github.com/joseph-ayodele/po-tracker/internal/ocr"
)

func newExtractCmd(root *rootOptions) *cobra.Command {
	var (
		poNumber string
		out      string
		showText bool
	)
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Print the line items of one scan as JSON",
		Long: `Runs OCR on the file (plain .txt files are read as-is) and prints the
purchase order as JSON. Nothing is stored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.config()
			logger := root.logger(cmd, cfg)
			path := args[0]

			if strings.TrimSpace(poNumber) == "" {
				n, err := ingest.PONumberFromPath(path)
				if err != nil {
					return fmt.Errorf("--po not given: %w", err)
				}
				poNumber = n
			}

			extractor, err := app.ExtractorFromConfig(cfg.Extract, logger)
			if err != nil {
				return err
			}
			ocrx, err := ocr.NewExtractor(app.OCRConfig(cfg.OCR), logger)
			if err != nil {
				return err
			}

			text, err := ocr.NewAdapter(ocrx, logger).Extract(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("read %s: %w", filepath.Base(path), err)
			}
			if showText {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), text.Text)
				return err
			}

			res, err := extractor.Run(text.Text, poNumber)
			if err != nil {
				return err
			}
			b, err := export.JSON(entity.NewPurchaseOrder(res.PONumber, time.Now().UTC(), res.Items))
			if err != nil {
				return err
			}
			if out != "" {
				return os.WriteFile(out, b, 0o644)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
	cmd.Flags().StringVar(&poNumber, "po", "", "purchase-order number (default: file name without extension)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write JSON to this file instead of stdout")
	cmd.Flags().BoolVar(&showText, "text", false, "print the recognised text instead of items")
	return cmd
}
