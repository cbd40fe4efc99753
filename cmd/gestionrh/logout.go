package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hongminglow/gestionrh/internal/auth"
	"github.com/hongminglow/gestionrh/internal/config"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget a remembered session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := auth.RemoveTicket(cfg.Session.File); err != nil {
				return fmt.Errorf("remove session ticket: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}
