// guestcheck verifies that a compiled guest module implements the
// alloc/handle calling convention: it checks both exports and their
// signatures, then runs one round trip and prints the response.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/guestkit/guestkit/host"
)

func main() {
	configPath := flag.String("config", "", "path to a configuration file")
	modulePath := flag.String("module", "", "path to the compiled guest module (overrides the config file)")
	input := flag.String("input", "", "input text written into the guest (overrides the config file)")
	timeout := flag.Duration("timeout", 0, "bound on the whole check (overrides the config file)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", "path", *configPath, "error", err)
		os.Exit(1)
	}
	cfg.applyOverrides(*modulePath, *input, *timeout)

	if cfg.Module == "" {
		fmt.Fprintln(os.Stderr, "usage: guestcheck -module <file.wasm> [-input <text>] [-config <file>]")
		os.Exit(2)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("check failed", "module", cfg.Module, "error", err)
		os.Exit(1)
	}
}

func run(cfg *Config, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	source, err := os.ReadFile(cfg.Module)
	if err != nil {
		return fmt.Errorf("failed to read Wasm file %q: %w", cfg.Module, err)
	}

	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	module, client, err := host.InstantiateModuleAndClient(ctx, r, source, host.WithLogger(logger))
	if err != nil {
		return err
	}
	defer module.Close(ctx)

	logger.Info("exports verified", "module", cfg.Module)

	resp, err := client.Call(ctx, []byte(cfg.Input))
	if err != nil {
		return fmt.Errorf("round trip failed: %w", err)
	}

	fmt.Printf("response (%d bytes): %s\n", len(resp), resp)
	return nil
}
