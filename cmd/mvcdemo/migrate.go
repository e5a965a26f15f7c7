package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mvc/core/config"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres session schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var cfg Config
			if err := config.Load(&cfg); err != nil {
				return err
			}
			pool, err := openPostgres(cmd.Context(), newLogger(cfg))
			if err != nil {
				return err
			}
			pool.Close()
			return nil
		},
	}
}
