// Copyright 2026 wasmgreet authors
// Licensed under the MIT License

// wasmhost is a hosting environment for the greeter module. It loads a
// compiled wasm module, runs its entry point, services the module's
// env.eval_script import with a logging console, and can invoke the module's
// exported functions by name.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/wasmgreet/wasmgreet/internal/host"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		modulePath string
		invoke     string
		times      int
		quiet      bool
	)

	flag.StringVar(&configPath, "config", "", "path to a TOML host config")
	flag.StringVar(&modulePath, "module", "", "path to the compiled wasm module")
	flag.StringVar(&invoke, "invoke", "", "exported function to invoke after start")
	flag.IntVar(&times, "times", 1, "how many times to invoke the exported function")
	flag.BoolVar(&quiet, "quiet", false, "suppress host console logging")

	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `usage: wasmhost -module greeter.wasm [-invoke announce [-times n]]

wasmhost loads a wasm module and runs its entry point. The module's stdout and
stderr are passed through; scripts the module hands to env.eval_script land on
the host console. Flags override values from the -config file.

`)
		flag.PrintDefaults()
	}

	flag.Parse()

	cfg := defaultRunnerConfig()
	if configPath != "" {
		var err error
		cfg, err = loadRunnerConfig(configPath)
		if err != nil {
			return err
		}
	}

	// explicit flags win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "module":
			cfg.Module = modulePath
		case "invoke":
			cfg.Invoke = invoke
		case "times":
			cfg.InvokeCount = times
		}
	})

	if cfg.Module == "" {
		return errors.New("a wasm module is required: pass -module or set module in the config")
	}
	if cfg.InvokeCount < 1 {
		return fmt.Errorf("times must be positive, got %d", cfg.InvokeCount)
	}

	logOut := io.Writer(os.Stderr)
	if quiet {
		logOut = io.Discard
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: logOut, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	wasm, err := os.ReadFile(cfg.Module)
	if err != nil {
		return fmt.Errorf("read module: %w", err)
	}

	ctx := context.Background()
	console := host.NewConsole(logger)

	runner, err := host.NewRunner(ctx, wasm, host.Options{
		Eval:   console,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Log:    logger,
	})
	if err != nil {
		return err
	}
	defer runner.Close(ctx)

	if err := runner.Start(ctx); err != nil {
		return err
	}

	if cfg.Invoke == "" {
		return nil
	}
	for i := 0; i < cfg.InvokeCount; i++ {
		if err := runner.Invoke(ctx, cfg.Invoke); err != nil {
			return err
		}
	}

	return nil
}
