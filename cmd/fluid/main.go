package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fluid-lang/fluid/internal/app"
	"github.com/fluid-lang/fluid/internal/cli"
)

// main is the entrypoint for the fluid toolchain.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	code, err := run(os.Stdout, os.Stderr, os.Args[1:])
	if err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(code)
}

// run encapsulates the toolchain logic for easier testing and error
// handling. It returns the process exit code.
func run(outW, errW io.Writer, args []string) (int, error) {
	config, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return 0, err
	}
	if shouldExit {
		return 0, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return 0, err
	}

	fluidApp, err := app.NewApp(outW, errW, cwd, config)
	if err != nil {
		return 0, err
	}

	return fluidApp.Run(context.Background())
}
