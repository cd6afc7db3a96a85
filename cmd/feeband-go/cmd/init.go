/*
Copyright © 2023 Tessellated <tessellated.io>
*/
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tessellated-io/feeband-go/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a configuration directory",
	Run: func(cmd *cobra.Command, args []string) {
		initLogger := logger.ApplyPrefix(" [init]")

		configLoader, err := config.NewConfigurationLoader(configurationDirectory, initLogger)
		if err != nil {
			initLogger.Error().Err(err).Msg("error creating configuration loader")
			return
		}
		initLogger.Info().Str("configuration_directory", configLoader.ConfigurationDirectory()).Msg("initializing configuration directory")

		err = configLoader.Initialize()
		if err != nil {
			initLogger.Error().Err(err).Msg("error writing config")
			return
		}

		initLogger.Info().Str("dotenv_file", configLoader.DotEnvFile()).Msg("finished initializing configuration directory. Put GITHUB_TOKEN in the environment or in the .env file")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
