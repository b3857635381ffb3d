package app

import (
	"context"
	"fmt"
	"os"

	"github.com/llir/llvm/ir"

	"github.com/fluid-lang/fluid/internal/ctxlog"
	"github.com/fluid-lang/fluid/internal/driver"
	"github.com/fluid-lang/fluid/internal/fsutil"
	"github.com/fluid-lang/fluid/internal/pipeline"
	"github.com/fluid-lang/fluid/internal/repl"
)

// Run executes the configured command and returns the process exit code.
func (a *App) Run(ctx context.Context) (int, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	switch a.config.Command {
	case CommandRun:
		return a.runProgram(ctx)
	case CommandBuild:
		return a.build(ctx)
	case CommandCheck:
		return a.check(ctx)
	case CommandRepl:
		return 0, repl.Run(ctx, a.outW, a.errW, a.driver)
	}
	return 0, fmt.Errorf("unknown command %s", a.config.Command)
}

// runProgram compiles the source file and executes it, propagating the
// program's exit code.
func (a *App) runProgram(ctx context.Context) (int, error) {
	module, ok, err := a.compileFile(ctx, a.config.Path)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 1, nil
	}

	return a.driver.Execute(ctx, module, a.config.Args)
}

// build compiles the source file into an object file, or textual IR when
// EmitLLVM is set.
func (a *App) build(ctx context.Context) (int, error) {
	module, ok, err := a.compileFile(ctx, a.config.Path)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 1, nil
	}

	if a.config.EmitLLVM {
		out := driver.LLPath(a.config.Path)
		if err := driver.EmitLL(module, out); err != nil {
			return 0, err
		}
		a.logger.Info("Wrote textual IR.", "path", out)
		return 0, nil
	}

	llPath, cleanup, err := a.scratchLL(module)
	if err != nil {
		return 0, err
	}
	defer cleanup()

	out := driver.ObjectPath(a.config.Path)
	if err := a.driver.BuildObject(ctx, llPath, out); err != nil {
		return 0, err
	}
	a.logger.Info("Wrote object file.", "path", out)
	return 0, nil
}

// check runs the front end over every source the path names, without
// generating code.
func (a *App) check(ctx context.Context) (int, error) {
	files, err := fsutil.FindSources(a.config.Path)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no %s files under %s", fsutil.SourceExtension, a.config.Path)
	}

	failed := 0
	for _, file := range files {
		code, err := os.ReadFile(file)
		if err != nil {
			return 0, err
		}

		_, diags := pipeline.Frontend(ctx, string(code), file)
		if diags.HasErrors() {
			diags.Render(a.errW)
			failed++
			continue
		}
		a.logger.Info("Source is valid.", "file", file)
	}

	if failed > 0 {
		return 1, nil
	}
	return 0, nil
}

// compileFile runs the full pipeline on one file. ok is false when the
// source had diagnostics, which were already rendered.
func (a *App) compileFile(ctx context.Context, file string) (*ir.Module, bool, error) {
	code, err := os.ReadFile(file)
	if err != nil {
		return nil, false, err
	}

	m, diags := pipeline.Compile(ctx, string(code), file)
	if diags.HasErrors() {
		diags.Render(a.errW)
		return nil, false, nil
	}
	return m, true, nil
}

// scratchLL writes the module to a temporary .ll file for the C compiler.
func (a *App) scratchLL(module *ir.Module) (string, func(), error) {
	f, err := os.CreateTemp("", "fluid-*.ll")
	if err != nil {
		return "", nil, err
	}
	name := f.Name()
	f.Close()

	if err := driver.EmitLL(module, name); err != nil {
		os.Remove(name)
		return "", nil, err
	}
	return name, func() { os.Remove(name) }, nil
}
