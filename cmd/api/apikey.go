package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"nany-todo/internal/config"
	"nany-todo/internal/services"
)

func newAPIKeyCmd() *cobra.Command {
	var (
		role string
		ttl  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Issue an API key for /api/todos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			keys, err := services.NewAPIKeyService(cfg.Auth.JWTSecret)
			if err != nil {
				return err
			}
			key, err := keys.GenerateKey(role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", services.RoleAnon, "key role: anon (read-only) or service_role (read-write)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "key lifetime, 0 for no expiry")
	return cmd
}
