package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/noaa-gefs-stac/internal/config"
	"github.com/couchcryptid/noaa-gefs-stac/internal/observability"
)

// commandContext carries what every subcommand needs once flags are parsed.
type commandContext struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "gefs-stac",
		Short:         "Create STAC collections and items for NOAA GEFS GRIB2 files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newCreateCollectionCommand(ctx))
	rootCmd.AddCommand(newCreateItemCommand(ctx))
	rootCmd.AddCommand(newInspectCommand(ctx))
	rootCmd.AddCommand(newValidateCommand(ctx))

	return rootCmd
}

func (c *commandContext) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	// Logs go to stderr so documents written to stdout stay parseable.
	c.logger = observability.NewLogger(cfg, cmd.ErrOrStderr())
	c.metrics = observability.NewMetrics()
	return nil
}

// flushMetrics exports the run's counters when METRICS_TEXTFILE is set.
func (c *commandContext) flushMetrics() {
	if c.cfg == nil || c.cfg.MetricsTextfile == "" {
		return
	}
	if err := c.metrics.WriteTextfile(c.cfg.MetricsTextfile); err != nil {
		c.logger.Warn("metrics export failed", "path", c.cfg.MetricsTextfile, "error", err)
	}
}
