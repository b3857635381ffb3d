package app

import "errors"

// Command selects which top-level operation the application performs.
type Command string

const (
	// CommandRun compiles a source file and executes it.
	CommandRun Command = "run"
	// CommandBuild compiles a source file into an object file or textual IR.
	CommandBuild Command = "build"
	// CommandCheck type-checks sources without generating code.
	CommandCheck Command = "check"
	// CommandRepl starts the interactive session.
	CommandRepl Command = "repl"
)

// Config holds everything an App instance needs to run.
type Config struct {
	Command Command

	// Path is the source file (run, build) or file/directory (check).
	Path string

	// Args are forwarded to the compiled program for the run command.
	Args []string

	// EmitLLVM makes build write textual IR instead of an object file.
	EmitLLVM bool

	// OptLevel overrides the project file's optimisation level when set.
	OptLevel string

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandRun, CommandBuild, CommandCheck:
		if cfg.Path == "" {
			return nil, errors.New("a source path is required")
		}
	case CommandRepl:
	default:
		return nil, errors.New("unknown command " + string(cfg.Command))
	}

	return &cfg, nil
}
