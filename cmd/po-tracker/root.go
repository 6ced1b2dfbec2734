package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/po-tracker/internal/common"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

type rootOptions struct {
	dbURL     string
	rulesFile string
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "po-tracker",
		Short: "Extract purchase-order line items from scanned documents",
		Long: `po-tracker turns scanned purchase orders (PDF, images, plain text) into
structured line items: part number, country of origin, unit, quantity,
rate and nomenclature.

Example Usage:
  po-tracker extract scan.png --po 4471/2024
  po-tracker batch --dir ./scans --out orders.xlsx
  po-tracker export --po 4471/2024 --format json`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.dbURL, "db", "", "database DSN (postgres://, sqlite:, file:); defaults to $DB_URL, then in-memory SQLite")
	cmd.PersistentFlags().StringVar(&opts.rulesFile, "rules", "", "YAML extraction rules file; defaults to $EXTRACT_RULES_FILE")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error; defaults to $LOG_LEVEL")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "json or text; defaults to $LOG_FORMAT")

	cmd.AddCommand(
		newExtractCmd(opts),
		newBatchCmd(opts),
		newExportCmd(opts),
		newDBHealthCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// config layers the command-line flags over the environment.
func (o *rootOptions) config() *common.Config {
	cfg := common.LoadConfig()
	if o.dbURL != "" {
		cfg.Database.DSN = o.dbURL
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "sqlite::memory:"
	}
	if o.rulesFile != "" {
		cfg.Extract.RulesFile = o.rulesFile
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	return cfg
}

// logger writes to stderr so stdout stays machine-readable.
func (o *rootOptions) logger(cmd *cobra.Command, cfg *common.Config) *slog.Logger {
	logger := common.NewLogger(cmd.ErrOrStderr(), cfg.Log)
	slog.SetDefault(logger)
	return logger
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display the application version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("po-tracker %s\n", Version)
		},
	}
}
