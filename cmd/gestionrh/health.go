package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hongminglow/gestionrh/internal/storage"
)

// healthReport is the outcome of a single database check.
type healthReport struct {
	Database string
	Status   string
	Latency  time.Duration
}

func checkHealth(ctx context.Context, store storage.Store) (healthReport, error) {
	started := time.Now()
	report := healthReport{Database: store.Name(), Status: "ok"}
	if err := store.Ping(ctx); err != nil {
		report.Status = "unreachable"
		return report, err
	}
	report.Latency = time.Since(started).Truncate(time.Microsecond)
	return report, nil
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the database is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			report, err := checkHealth(cmd.Context(), rt.store)
			if err != nil {
				rt.log.Error().Err(err).Str("database", report.Database).Msg("health check failed")
				return fmt.Errorf("database %s: %w", report.Database, err)
			}
			rt.con.Success("database %s: %s (%s)", report.Database, report.Status, report.Latency)
			return nil
		},
	}
}
