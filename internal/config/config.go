package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// TokenEnv names the environment variable that overrides auth.token.
const TokenEnv = "OSF_TOKEN"

// Config holds the API client configuration.
type Config struct {
	Host      string
	Namespace string
	Token     string
	Timeout   time.Duration
}

// FileConfig represents the structure of the configuration file.
type FileConfig struct {
	API struct {
		Host      string `yaml:"host"`
		Namespace string `yaml:"namespace"`
		Timeout   string `yaml:"timeout"`
	} `yaml:"api"`

	Auth struct {
		Token string `yaml:"token"`
	} `yaml:"auth"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Host:      "https://api.osf.io",
		Namespace: "v2",
		Timeout:   30 * time.Second,
	}
}

// Load reads a YAML configuration file over the defaults. An empty path
// returns the defaults. The token environment variable, when set, wins
// over the file.
func Load(filePath string) (*Config, error) {
	config := Default()

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, errors.Wrap(err, "error reading config file")
		}

		var fileConfig FileConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, errors.Wrap(err, "error parsing config file")
		}

		if fileConfig.API.Host != "" {
			config.Host = fileConfig.API.Host
		}
		if fileConfig.API.Namespace != "" {
			config.Namespace = fileConfig.API.Namespace
		}
		if fileConfig.API.Timeout != "" {
			d, err := time.ParseDuration(fileConfig.API.Timeout)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid api.timeout %q", fileConfig.API.Timeout)
			}
			config.Timeout = d
		}
		config.Token = fileConfig.Auth.Token
	}

	if tok := os.Getenv(TokenEnv); tok != "" {
		config.Token = tok
	}
	return config, nil
}
