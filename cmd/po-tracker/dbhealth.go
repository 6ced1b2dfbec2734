package main

import (
	"time"

	"github.com/spf13/cobra"

	repo "github.com/joseph-ayodele/po-tracker/internal/repository"
)

func newDBHealthCmd(root *rootOptions) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "dbhealth",
		Short: "Ping the database and list stored purchase orders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := root.config()
			logger := root.logger(cmd, cfg)
			ctx := cmd.Context()

			db, err := repo.Open(ctx, repo.Config{
				DSN:         cfg.Database.DSN,
				MaxConns:    cfg.Database.MaxConns,
				MinConns:    1,
				DialTimeout: cfg.Database.DialTimeout,
			}, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.HealthCheck(ctx, timeout); err != nil {
				cmd.Printf("DB health: FAIL (%v)\n", err)
				return err
			}
			cmd.Println("DB health: OK")

			if err := repo.Migrate(ctx, db); err != nil {
				return err
			}
			orders, err := repo.NewPurchaseOrderRepository(db, logger).List(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("purchase orders: %d\n", len(orders))
			for _, po := range orders {
				cmd.Printf("- %s (qty %d, amount %.2f)\n", po.PONumber, po.TotalQty, po.TotalAmount)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", time.Second, "ping timeout")
	return cmd
}
