// Package config loads the engine configuration file.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the engine configuration. Everything has a sensible default;
// the file and environment only override.
type Config struct {
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`
	Post     bool   `mapstructure:"post"`

	// Default search caps, overridable over the protocol.
	MaxDepth int    `mapstructure:"max_depth"`
	MaxNodes uint64 `mapstructure:"max_nodes"`

	// Default time control: moves per period, base time, increment.
	ControlMoves int           `mapstructure:"control_moves"`
	BaseTime     time.Duration `mapstructure:"base_time"`
	IncTime      time.Duration `mapstructure:"inc_time"`
}

// Load reads tamerlane.yaml from the given path (or the working directory
// and ~/.tamerlane when empty), then applies TAMERLANE_* environment
// variables on top. A missing file in the default locations is not an
// error; a missing file at an explicit path is.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("tamerlane")
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.tamerlane")
	}

	v.SetEnvPrefix("tamerlane")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", "warn")
	v.SetDefault("data_dir", "")
	v.SetDefault("post", true)
	v.SetDefault("max_depth", 0)
	v.SetDefault("max_nodes", 0)
	v.SetDefault("control_moves", 0)
	v.SetDefault("base_time", 5*time.Minute)
	v.SetDefault("inc_time", 0)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
