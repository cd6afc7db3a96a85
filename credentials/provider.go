package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	cmtos "github.com/cometbft/cometbft/libs/os"
	"github.com/joho/godotenv"
)

const DefaultTokenEnvVar = "GITHUB_TOKEN"

var ErrMissingCredential = errors.New("missing credential")

// Provider returns the bearer token used for the GitHub contents API.
type Provider interface {
	Token() (string, error)
	// Guidance tells an operator how to fix a missing credential.
	Guidance() string
}

// EnvProvider reads the token from the environment on every call.
type EnvProvider struct {
	envVar string
	lookup func(string) (string, bool)
}

var _ Provider = (*EnvProvider)(nil)

func NewEnvProvider(envVar string) *EnvProvider {
	return NewEnvProviderWithLookup(envVar, os.LookupEnv)
}

// NewEnvProviderWithLookup allows swapping the environment, mostly for tests.
func NewEnvProviderWithLookup(envVar string, lookup func(string) (string, bool)) *EnvProvider {
	if envVar == "" {
		envVar = DefaultTokenEnvVar
	}
	return &EnvProvider{
		envVar: envVar,
		lookup: lookup,
	}
}

func (p *EnvProvider) Token() (string, error) {
	value, ok := p.lookup(p.envVar)
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: %s is not set", ErrMissingCredential, p.envVar)
	}
	return strings.TrimSpace(value), nil
}

func (p *EnvProvider) Guidance() string {
	return fmt.Sprintf("There is no %s, please set it in the environment or in a .env file", p.envVar)
}

// LoadDotEnv loads every .env file that exists. Variables already set in the environment are not overridden.
// It returns the files that were loaded.
func LoadDotEnv(files ...string) ([]string, error) {
	loaded := []string{}
	for _, file := range files {
		if !cmtos.FileExists(file) {
			continue
		}

		err := godotenv.Load(file)
		if err != nil {
			return loaded, fmt.Errorf("unable to load %s: %w", file, err)
		}
		loaded = append(loaded, file)
	}
	return loaded, nil
}
