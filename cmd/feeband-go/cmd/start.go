/*
Copyright © 2023 Tessellated <tessellated.io>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tessellated-io/feeband-go/credentials"
	"github.com/tessellated-io/feeband-go/metrics"
)

var startDryRun bool

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Feeband Service",
	Long:  `Starts the Feeband Service with the given configuration. It runs until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("============================================================")
		fmt.Println("Feeband Go")
		fmt.Println()
		fmt.Println("A Product Of Tessellated // tessellated.io")
		fmt.Println("============================================================")
		fmt.Println("")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		configuration, err := loadConfiguration(startDryRun)
		if err != nil {
			logger.Error().Err(err).Msg("unable to load configuration")
			return
		}
		logConfiguration(configuration, logger)

		// Metrics are only collected when they are served.
		var m *metrics.Metrics
		if configuration.MetricsListenAddress != "" {
			m = metrics.NewMetrics()
			registry, err := metrics.NewRegistry(m)
			if err != nil {
				logger.Error().Err(err).Msg("unable to create a metrics registry")
				return
			}

			go func() {
				err := metrics.Serve(ctx, configuration.MetricsListenAddress, registry, logger)
				if err != nil {
					logger.Error().Err(err).Msg("metrics server stopped")
				}
			}()
		}

		scheduler, err := newScheduler(configuration, m)
		if err != nil {
			logger.Error().Err(err).Msg("unable to create a scheduler")
			return
		}

		// Run!
		err = scheduler.Start(ctx)
		if errors.Is(err, credentials.ErrMissingCredential) {
			// Guidance was already logged.
			return
		}
		if err != nil {
			logger.Error().Err(err).Msg("scheduler stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().BoolVar(&startDryRun, "dry-run", false, "Log new gas price steps instead of writing them")
}
