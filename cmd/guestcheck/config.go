package main

import (
	"time"

	"github.com/spf13/viper"
)

// Config describes one check run. All fields can come from a config file,
// flags override the file.
type Config struct {
	// Module is the path to the compiled guest binary.
	Module string `mapstructure:"module"`
	// Input is the text written into the guest's input buffer.
	Input string `mapstructure:"input"`
	// Timeout bounds the whole check, instantiation included.
	Timeout time.Duration `mapstructure:"timeout"`
}

// applyOverrides applies flag values on top of the loaded configuration.
// Zero values mean the flag was not set.
func (c *Config) applyOverrides(module, input string, timeout time.Duration) {
	if module != "" {
		c.Module = module
	}
	if input != "" {
		c.Input = input
	}
	if timeout > 0 {
		c.Timeout = timeout
	}
}

func loadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("input", "World")
	v.SetDefault("timeout", 10*time.Second)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
