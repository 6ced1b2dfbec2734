package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/po-tracker/internal/app"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	var (
		poNumbers []string
		format    string
		out       string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored purchase orders as XLSX or JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := root.config()
			logger := root.logger(cmd, cfg)
			ctx := cmd.Context()

			a, err := app.Build(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			var b []byte
			switch strings.ToLower(format) {
			case "xlsx":
				if out == "" {
					return fmt.Errorf("--out is required for xlsx")
				}
				b, err = a.Exporter.ExportXLSX(ctx, poNumbers...)
			case "json":
				if len(poNumbers) != 1 {
					return fmt.Errorf("json export takes exactly one --po")
				}
				b, err = a.Exporter.ExportJSON(ctx, poNumbers[0])
			default:
				return fmt.Errorf("unsupported format %q", format)
			}
			if err != nil {
				return err
			}
			if out == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return err
			}
			return os.WriteFile(out, b, 0o644)
		},
	}
	cmd.Flags().StringSliceVar(&poNumbers, "po", nil, "purchase-order numbers (xlsx: all when omitted)")
	cmd.Flags().StringVar(&format, "format", "xlsx", "xlsx or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	return cmd
}
