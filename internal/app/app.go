package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fluid-lang/fluid/internal/config"
	"github.com/fluid-lang/fluid/internal/driver"
)

// App wires the compiler stages, the project configuration and the C
// compiler driver behind the command surface.
type App struct {
	outW   io.Writer
	errW   io.Writer
	logger *slog.Logger

	config *Config
	driver *driver.Driver
}

// NewApp builds an application instance. The project file is read from
// dir; configuration diagnostics are rendered to errW before the error
// returns.
func NewApp(outW, errW io.Writer, dir string, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	logger.Debug("Logger configured successfully.")

	project, diags := config.Load(dir)
	if diags.HasErrors() {
		diags.Render(errW)
		return nil, fmt.Errorf("invalid %s", config.FileName)
	}
	if cfg.OptLevel != "" {
		project.Toolchain.OptLevel = cfg.OptLevel
	}
	logger.Debug("Project configuration loaded.",
		"cc", project.Toolchain.CC,
		"opt_level", project.Toolchain.OptLevel,
	)

	return &App{
		outW:   outW,
		errW:   errW,
		logger: logger,
		config: cfg,
		driver: driver.New(project.Toolchain),
	}, nil
}
