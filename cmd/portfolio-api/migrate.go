package main

import (
	"context"
	"fmt"

	"github.com/RinkiBai/portfolio-backend/internal/bootstrap"
	"github.com/RinkiBai/portfolio-backend/internal/contact/repository"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if cfg.Database.URL == "" {
				return fmt.Errorf("DATABASE_URL is required for migrate")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			db, err := bootstrap.OpenSQL(ctx, bootstrap.DBOptions{URL: cfg.Database.URL, MaxConns: 1})
			if err != nil {
				return err
			}
			defer db.Close()

			if err := repository.NewSubmissionRepository(db).Migrate(ctx); err != nil {
				return err
			}
			logger.Info("schema applied")
			return nil
		},
	}
}
