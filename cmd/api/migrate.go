package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"nany-todo/internal/config"
	"nany-todo/internal/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the todos table if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cfg.Store.Backend != config.BackendSQL {
				return errors.New("migrate only applies to the sql backend")
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(db, cfg.Database.Driver); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "todos table ready (%s)\n", cfg.Database.Driver)
			return nil
		},
	}
}
