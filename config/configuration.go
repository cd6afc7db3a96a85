package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tessellated-io/feeband-go/credentials"
	"github.com/tessellated-io/feeband-go/feeband"
	"github.com/tessellated-io/feeband-go/github"
	"github.com/tessellated-io/feeband-go/oracle"
)

const (
	DefaultRepository          = "chainapsis/keplr-chain-registry"
	DefaultChainName           = "osmosis"
	DefaultCoinMinimalDenom    = "uosmo"
	DefaultPollIntervalSeconds = 120
)

var ErrInvalidConfiguration = errors.New("invalid configuration")

// Configuration is configuration for the fee band updater
type Configuration struct {
	Repository           string `yaml:"repository" comment:"The GitHub repository holding chain info files, as owner/name"`
	ChainName            string `yaml:"chain_name" comment:"The chain whose fee band is maintained. Ex. 'osmosis'"`
	DocumentPath         string `yaml:"document_path" comment:"Path of the chain info file in the repository. Defaults to cosmos/<chain_name>.json"`
	CoinMinimalDenom     string `yaml:"coin_minimal_denom" comment:"The fee currency to update, by coinMinimalDenom. Ex. 'uosmo'"`
	GithubAPIURL         string `yaml:"github_api_url" comment:"Base URL of the GitHub API"`
	BaseFeeEndpoint      string `yaml:"base_fee_endpoint" comment:"REST endpoint of a node serving the txfees module"`
	BaseFeePath          string `yaml:"base_fee_path" comment:"Path of the current base fee query on the REST endpoint"`
	PollIntervalSeconds  uint   `yaml:"poll_interval_seconds" comment:"How many seconds to wait in between runs"`
	HTTPTimeoutSeconds   uint   `yaml:"http_timeout_seconds" comment:"Timeout for each HTTP request. 0 uses the transport default"`
	Policy               string `yaml:"policy" comment:"Fee band formula: 'threshold' (x1.2 / x1.5 with a floor below 0.025) or 'unconditional' (x1.1 / x2)"`
	TokenEnvVar          string `yaml:"token_env_var" comment:"Environment variable holding the GitHub token"`
	DryRun               bool   `yaml:"dry_run" comment:"If true, new fee bands are logged but never written"`
	HealthChecksPingKey  string `yaml:"health_checks_ping_key" comment:"A healthchecks.io check UUID. If empty, no pings will be delivered."`
	MetricsListenAddress string `yaml:"metrics_listen_address" comment:"Address to serve Prometheus metrics on, ex. ':9100'. If empty, metrics are not served."`
}

// DefaultConfiguration is what `init` writes.
func DefaultConfiguration() *Configuration {
	configuration := &Configuration{}
	configuration.ApplyDefaults()
	return configuration
}

// ApplyDefaults fills every unset field.
func (c *Configuration) ApplyDefaults() {
	if c.Repository == "" {
		c.Repository = DefaultRepository
	}
	if c.ChainName == "" {
		c.ChainName = DefaultChainName
	}
	if c.DocumentPath == "" {
		c.DocumentPath = fmt.Sprintf("cosmos/%s.json", c.ChainName)
	}
	if c.CoinMinimalDenom == "" {
		c.CoinMinimalDenom = DefaultCoinMinimalDenom
	}
	if c.GithubAPIURL == "" {
		c.GithubAPIURL = github.DefaultBaseURL
	}
	if c.BaseFeeEndpoint == "" {
		c.BaseFeeEndpoint = oracle.DefaultEndpoint
	}
	if c.BaseFeePath == "" {
		c.BaseFeePath = oracle.DefaultPath
	}
	if c.PollIntervalSeconds == 0 {
		c.PollIntervalSeconds = DefaultPollIntervalSeconds
	}
	if c.Policy == "" {
		c.Policy = string(feeband.Threshold)
	}
	if c.TokenEnvVar == "" {
		c.TokenEnvVar = credentials.DefaultTokenEnvVar
	}
}

func (c *Configuration) Validate() error {
	parts := strings.Split(c.Repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("%w: repository %q must be of the form owner/name", ErrInvalidConfiguration, c.Repository)
	}
	if c.DocumentPath == "" {
		return fmt.Errorf("%w: document_path is empty", ErrInvalidConfiguration)
	}
	if c.CoinMinimalDenom == "" {
		return fmt.Errorf("%w: coin_minimal_denom is empty", ErrInvalidConfiguration)
	}
	if c.PollIntervalSeconds == 0 {
		return fmt.Errorf("%w: poll_interval_seconds must be positive", ErrInvalidConfiguration)
	}
	if _, err := feeband.PolicyByName(c.Policy); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfiguration, err)
	}
	return nil
}

func (c *Configuration) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c *Configuration) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

func (c *Configuration) CommitMessage() string {
	return fmt.Sprintf("Update %s's gas price step", c.ChainName)
}

func (c *Configuration) FeePolicy() (*feeband.Policy, error) {
	return feeband.PolicyByName(c.Policy)
}
