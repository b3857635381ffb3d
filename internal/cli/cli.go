package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fluid-lang/fluid/internal/app"
)

// ExitError is an error carrying a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Message
}

const usageText = `Fluid - an ahead-of-time compiled programming language.

Usage:
  fluid                          Start the interactive session.
  fluid run <file.fluid> [args]  Compile and execute a program.
  fluid build <file.fluid>       Compile a program into an object file.
  fluid check <path>             Type-check a file or every source in a directory.

Options:
`

// Parse turns command-line arguments into an application configuration.
// The boolean is true when the program should exit cleanly without
// running anything, e.g. after printing help.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	command := app.CommandRepl
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		switch args[0] {
		case "run":
			command = app.CommandRun
		case "build":
			command = app.CommandBuild
		case "check":
			command = app.CommandCheck
		default:
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q; expected run, build or check", args[0])}
		}
		args = args[1:]
	}

	flagSet := flag.NewFlagSet("fluid", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, usageText)
		flagSet.PrintDefaults()
	}

	emitLLVMFlag := flagSet.Bool("emit-llvm", false, "Write textual IR instead of an object file (build only).")
	optFlag := flagSet.String("O", "", "Optimisation level (O0..O3). Overrides the project file setting.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	switch *optFlag {
	case "", "O0", "O1", "O2", "O3":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid -O: must be one of O0, O1, O2, O3"}
	}

	if *emitLLVMFlag && command != app.CommandBuild {
		return nil, false, &ExitError{Code: 2, Message: "-emit-llvm only applies to the build command"}
	}

	path := ""
	var programArgs []string
	switch command {
	case app.CommandRepl:
		if flagSet.NArg() > 0 {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument %q", flagSet.Arg(0))}
		}
	case app.CommandRun:
		if flagSet.NArg() == 0 {
			return nil, false, &ExitError{Code: 2, Message: "run requires a source file"}
		}
		path = flagSet.Arg(0)
		programArgs = flagSet.Args()[1:]
	case app.CommandBuild, app.CommandCheck:
		if flagSet.NArg() == 0 {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("%s requires a source path", command)}
		}
		if flagSet.NArg() > 1 {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected argument %q", flagSet.Arg(1))}
		}
		path = flagSet.Arg(0)
	}

	config, err := app.NewConfig(app.Config{
		Command:   command,
		Path:      path,
		Args:      programArgs,
		EmitLLVM:  *emitLLVMFlag,
		OptLevel:  *optFlag,
		LogFormat: logFormat,
		LogLevel:  logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "command", command, "path", path)
	return config, false, nil
}
