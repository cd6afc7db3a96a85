/*
Copyright © 2023 Tessellated <tessellated.io>
*/
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/tessellated-io/feeband-go/log"
)

var (
	rawLogLevel string
	logger      *log.Logger

	configurationDirectory string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "feeband-go",
	Short: "Feeband-Go keeps a chain registry gas price step in line with the live base fee.",
	Long: `Feeband-Go periodically reads a chain's gas price step from a chain registry hosted on GitHub,
derives a new band from the chain's current EIP-1559 base fee and commits it back when it changed.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Get a logger
		logger = log.NewLogger(rawLogLevel)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configurationDirectory, "config-directory", "c", "~/.feeband", "Where to store Feeband-Go's configuration")
	rootCmd.PersistentFlags().StringVarP(&rawLogLevel, "log-level", "l", "info", "Logging level")
}
