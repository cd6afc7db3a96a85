package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	cmtos "github.com/cometbft/cometbft/libs/os"
	"github.com/mitchellh/go-homedir"
	"github.com/tessellated-io/feeband-go/log"
	"gopkg.in/yaml.v2"
)

const (
	ConfigFilename = "feeband.yml"
	DotEnvFilename = ".env"
)

// ConfigurationLoader loads configuration
type ConfigurationLoader struct {
	configurationDirectory string
	logger                 *log.Logger
}

func NewConfigurationLoader(configurationDirectory string, logger *log.Logger) (*ConfigurationLoader, error) {
	expanded, err := ExpandHomeDir(configurationDirectory)
	if err != nil {
		return nil, err
	}

	loader := &ConfigurationLoader{
		configurationDirectory: expanded,
		logger:                 logger,
	}

	return loader, nil
}

// ExpandHomeDir resolves a leading ~ in path.
func ExpandHomeDir(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("unable to expand %s: %w", path, err)
	}
	return expanded, nil
}

func (cl *ConfigurationLoader) LoadConfiguration() (*Configuration, error) {
	configurationFile := cl.ConfigFile()

	data, err := os.ReadFile(configurationFile)
	if err != nil {
		return nil, err
	}

	loaded := &Configuration{}
	err = yaml.UnmarshalStrict(data, loaded)
	if err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", configurationFile, err)
	}
	loaded.ApplyDefaults()

	err = loaded.Validate()
	if err != nil {
		return nil, err
	}

	return loaded, nil
}

// Initialize creates the configuration directory and writes a default configuration file, unless one exists.
func (cl *ConfigurationLoader) Initialize() error {
	err := cmtos.EnsureDir(cl.configurationDirectory, 0o755)
	if err != nil {
		return err
	}

	configFile := cl.ConfigFile()
	if cmtos.FileExists(configFile) {
		cl.logger.Info().Str("config_file", configFile).Msg("configuration file already exists, leaving it untouched")
		return nil
	}

	header := "This is the configuration file for feeband-go"
	data, err := marshalWithComments(DefaultConfiguration(), header)
	if err != nil {
		return err
	}

	err = os.WriteFile(configFile, data, 0o644)
	if err != nil {
		cl.logger.Error().Err(err).Str("config_file", configFile).Msg("error writing file")
		return err
	}

	cl.logger.Info().Str("config_file", configFile).Msg("wrote default configuration")
	return nil
}

func (cl *ConfigurationLoader) ConfigurationDirectory() string {
	return cl.configurationDirectory
}

func (cl *ConfigurationLoader) ConfigFile() string {
	return filepath.Join(cl.configurationDirectory, ConfigFilename)
}

func (cl *ConfigurationLoader) DotEnvFile() string {
	return filepath.Join(cl.configurationDirectory, DotEnvFilename)
}

// marshalWithComments renders each field on its own, preceded by its comment tag.
func marshalWithComments(value interface{}, header string) ([]byte, error) {
	var out bytes.Buffer
	fmt.Fprintf(&out, "# %s\n", header)

	v := reflect.Indirect(reflect.ValueOf(value))
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		key := strings.Split(field.Tag.Get("yaml"), ",")[0]
		if key == "" || key == "-" {
			continue
		}

		rendered, err := yaml.Marshal(yaml.MapSlice{{Key: key, Value: v.Field(i).Interface()}})
		if err != nil {
			return nil, err
		}

		out.WriteString("\n")
		if comment := field.Tag.Get("comment"); comment != "" {
			fmt.Fprintf(&out, "# %s\n", comment)
		}
		out.Write(rendered)
	}

	return out.Bytes(), nil
}
