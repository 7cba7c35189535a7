package main

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestLoadConfig(t *testing.T) {
	t.Run("should apply defaults without a config file", func(t *testing.T) {
		is := is.New(t)
		cfg, err := loadConfig("")

		is.NoErr(err)
		is.Equal(cfg.Module, "")
		is.Equal(cfg.Input, "World")
		is.Equal(cfg.Timeout, 10*time.Second)
	})

	t.Run("should fail for a missing config file", func(t *testing.T) {
		is := is.New(t)
		_, err := loadConfig("does-not-exist.yaml")

		is.True(err != nil)
	})
}

func TestConfig_ApplyOverrides(t *testing.T) {
	t.Run("should override every set flag", func(t *testing.T) {
		is := is.New(t)
		cfg := &Config{Input: "World", Timeout: 10 * time.Second}

		cfg.applyOverrides("guest.wasm", "hi", 3*time.Second)

		is.Equal(cfg.Module, "guest.wasm")
		is.Equal(cfg.Input, "hi")
		is.Equal(cfg.Timeout, 3*time.Second)
	})

	t.Run("should keep config values for unset flags", func(t *testing.T) {
		is := is.New(t)
		cfg := &Config{Module: "guest.wasm", Input: "World", Timeout: 10 * time.Second}

		cfg.applyOverrides("", "", 0)

		is.Equal(cfg.Module, "guest.wasm")
		is.Equal(cfg.Input, "World")
		is.Equal(cfg.Timeout, 10*time.Second)
	})
}
