/*
Copyright © 2023 Tessellated <tessellated.io>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

var reconcileDryRun bool

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run a single reconciliation and exit",
	Run: func(cmd *cobra.Command, args []string) {
		configuration, err := loadConfiguration(reconcileDryRun)
		if err != nil {
			logger.Error().Err(err).Msg("unable to load configuration")
			return
		}
		logConfiguration(configuration, logger)

		scheduler, err := newScheduler(configuration, nil)
		if err != nil {
			logger.Error().Err(err).Msg("unable to create a scheduler")
			return
		}

		// Errors are logged by the scheduler.
		_, _ = scheduler.RunOnce(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().BoolVar(&reconcileDryRun, "dry-run", false, "Log the new gas price step instead of writing it")
}
