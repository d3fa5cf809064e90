// Package config loads the msgcontent command configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the command configuration.
type Config struct {
	Addr         string `mapstructure:"addr"`
	LogLevel     string `mapstructure:"log_level"`
	Format       string `mapstructure:"format"`
	Filter       string `mapstructure:"filter"`
	FailFast     bool   `mapstructure:"fail_fast"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes"`
}

// EnvPrefix prefixes the environment variables read by Load.
const EnvPrefix = "MSGCONTENT"

// Load reads the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. Without configPath,
// msgcontent.yaml is looked up in the working directory and a missing file
// is not an error.
func Load(configPath string) (*Config, error) {
	return load(viper.New(), configPath)
}

// LoadWith is like Load but starts from v, so that the caller can bind
// command line flags before the configuration is read.
func LoadWith(v *viper.Viper, configPath string) (*Config, error) {
	return load(v, configPath)
}

func load(v *viper.Viper, configPath string) (*Config, error) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("format", "text")
	v.SetDefault("filter", "")
	v.SetDefault("fail_fast", false)
	v.SetDefault("max_body_bytes", 1<<20)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("msgcontent")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
