package main

import (
	"context"
	"fmt"
	"github.com/maxaizer/lead-dorker/internal/config"
	"github.com/maxaizer/lead-dorker/internal/export"
	"github.com/maxaizer/lead-dorker/internal/logger"
	"github.com/maxaizer/lead-dorker/internal/metrics"
	"github.com/maxaizer/lead-dorker/internal/services"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
	"syscall"
)

func run(ctx context.Context, output, schedule string) error {

	cfg := config.GetExport()

	logger.Setup(ctx, cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.Metrics.Address)

	exporter := export.NewExporter(cfg.DB.ConnectionString, cfg.Export)

	if schedule == "" {
		schedule = cfg.Export.Schedule
	}
	if schedule == "" {
		file, err := exporter.Export(ctx, output)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		log.Infof("export completed successfully: %s", file)
		return nil
	}

	scheduler, err := services.NewExportScheduler(ctx, exporter, schedule)
	if err != nil {
		return err
	}

	<-ctx.Done()

	log.Info("Shutting down export scheduler...")
	scheduler.Stop()
	log.Info("Export scheduler stopped.")
	return nil
}

func main() {

	var output, schedule string

	rootCmd := &cobra.Command{
		Use:           "export",
		Short:         "Export the LinkedIn leads store to an Excel workbook",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return run(ctx, output, schedule)
		},
	}
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "workbook path; defaults to a timestamped name in export.output_dir")
	rootCmd.Flags().StringVar(&schedule, "schedule", "", "cron spec for repeated exports, e.g. \"0 * * * *\"")

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
