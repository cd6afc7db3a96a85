/*
Copyright © 2023 Tessellated <tessellated.io>
*/
package cmd

import (
	"fmt"
	"net/http"

	"github.com/tessellated-io/feeband-go/config"
	"github.com/tessellated-io/feeband-go/credentials"
	"github.com/tessellated-io/feeband-go/github"
	"github.com/tessellated-io/feeband-go/health"
	"github.com/tessellated-io/feeband-go/log"
	"github.com/tessellated-io/feeband-go/metrics"
	"github.com/tessellated-io/feeband-go/oracle"
	"github.com/tessellated-io/feeband-go/reconcile"
)

// loadConfiguration reads the configuration file and any .env files next to it or in the working directory.
func loadConfiguration(dryRun bool) (*config.Configuration, error) {
	configurationLoader, err := config.NewConfigurationLoader(configurationDirectory, logger)
	if err != nil {
		return nil, err
	}

	configuration, err := configurationLoader.LoadConfiguration()
	if err != nil {
		return nil, fmt.Errorf("unable to load configuration from %s: %w", configurationLoader.ConfigFile(), err)
	}
	if dryRun {
		configuration.DryRun = true
	}

	loaded, err := credentials.LoadDotEnv(configurationLoader.DotEnvFile(), config.DotEnvFilename)
	if err != nil {
		return nil, err
	}
	for _, file := range loaded {
		logger.Debug().Str("file", file).Msg("loaded environment file")
	}

	return configuration, nil
}

// newScheduler wires every component for the configured chain. m may be nil.
func newScheduler(configuration *config.Configuration, m *metrics.Metrics) (*reconcile.Scheduler, error) {
	prefixedLogger := logger.ApplyPrefix(fmt.Sprintf(" [%s]", configuration.ChainName))

	httpClient := &http.Client{Timeout: configuration.HTTPTimeout()}

	policy, err := configuration.FeePolicy()
	if err != nil {
		return nil, err
	}

	storeFactory := func(token string) (reconcile.DocumentStore, error) {
		return github.NewContentsClient(configuration.GithubAPIURL, configuration.Repository, token, httpClient, prefixedLogger)
	}
	baseFeeClient := oracle.NewBaseFeeClient(configuration.BaseFeeEndpoint, configuration.BaseFeePath, httpClient, prefixedLogger)

	reconciler, err := reconcile.NewReconciler(
		configuration.DocumentPath,
		configuration.CoinMinimalDenom,
		configuration.CommitMessage(),
		configuration.DryRun,
		policy,
		storeFactory,
		baseFeeClient,
		prefixedLogger,
	)
	if err != nil {
		return nil, err
	}

	var healthReporter reconcile.HealthReporter
	if configuration.HealthChecksPingKey != "" {
		healthReporter = health.NewHealthCheckClient(configuration.ChainName, health.DefaultBaseURL, configuration.HealthChecksPingKey, httpClient, prefixedLogger)
	} else {
		prefixedLogger.Info().Msg("not sending healthchecks.io pings as no ping key is configured")
	}

	return reconcile.NewScheduler(
		configuration.ChainName,
		configuration.PollInterval(),
		reconciler,
		credentials.NewEnvProvider(configuration.TokenEnvVar),
		prefixedLogger,
		m,
		healthReporter,
	)
}

func logConfiguration(configuration *config.Configuration, l *log.Logger) {
	l.Info().
		Str("repository", configuration.Repository).
		Str("document_path", configuration.DocumentPath).
		Str("denom", configuration.CoinMinimalDenom).
		Str("base_fee_endpoint", configuration.BaseFeeEndpoint).
		Str("policy", configuration.Policy).
		Str("interval", configuration.PollInterval().String()).
		Bool("dry_run", configuration.DryRun).
		Msg("loaded configuration")
}
