package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/llir/llvm/ir"

	"github.com/fluid-lang/fluid/internal/config"
	"github.com/fluid-lang/fluid/internal/ctxlog"
)

// Driver turns emitted IR into artifacts with the configured C compiler
// and runs the resulting binaries.
type Driver struct {
	toolchain config.Toolchain
}

// New creates a driver for the given toolchain settings.
func New(toolchain config.Toolchain) *Driver {
	return &Driver{toolchain: toolchain}
}

// LLPath derives the textual IR output path from a source path.
func LLPath(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".ll"
}

// ObjectPath derives the object file output path from a source path.
func ObjectPath(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + ".obj"
}

// EmitLL writes the module as textual IR.
func EmitLL(module *ir.Module, path string) error {
	if err := os.WriteFile(path, []byte(module.String()), 0o644); err != nil {
		return fmt.Errorf("writing IR to %s: %w", path, err)
	}
	return nil
}

// BuildObject compiles textual IR into an object file.
func (d *Driver) BuildObject(ctx context.Context, llPath, objPath string) error {
	args := append(d.commonArgs(), "-c", llPath, "-o", objPath)
	return d.runCC(ctx, args)
}

// BuildExecutable compiles and links textual IR into a standalone binary.
func (d *Driver) BuildExecutable(ctx context.Context, llPath, exePath string) error {
	args := append(d.commonArgs(), llPath, "-o", exePath)
	return d.runCC(ctx, args)
}

// Run executes a built binary and returns its exit code. A non-zero exit
// is not an error; only failure to start the process is.
func (d *Driver) Run(ctx context.Context, exePath string, args []string) (int, error) {
	cmd := exec.CommandContext(ctx, exePath, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("running %s: %w", exePath, err)
}

// Execute emits the module to a scratch directory, builds it and runs it,
// returning the program's exit code.
func (d *Driver) Execute(ctx context.Context, module *ir.Module, args []string) (int, error) {
	dir, err := os.MkdirTemp("", "fluid-run-")
	if err != nil {
		return 0, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	llPath := filepath.Join(dir, "program.ll")
	exePath := filepath.Join(dir, "program")

	if err := EmitLL(module, llPath); err != nil {
		return 0, err
	}
	if err := d.BuildExecutable(ctx, llPath, exePath); err != nil {
		return 0, err
	}
	return d.Run(ctx, exePath, args)
}

// commonArgs builds the compiler flags shared by every invocation.
func (d *Driver) commonArgs() []string {
	args := []string{"-" + d.toolchain.OptLevel, "-Wno-override-module"}
	if d.toolchain.Target != "" {
		args = append(args, "-target", d.toolchain.Target)
	}
	return args
}

func (d *Driver) runCC(ctx context.Context, args []string) error {
	logger := ctxlog.FromContext(ctx)

	cc := d.toolchain.CC
	if _, err := exec.LookPath(cc); err != nil {
		return fmt.Errorf("compiler `%s` was not found on PATH; install it or set `cc` in %s", cc, config.FileName)
	}

	logger.Debug("Invoking C compiler.", "cc", cc, "args", args)

	cmd := exec.CommandContext(ctx, cc, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		out := strings.TrimSpace(stderr.String())
		if out != "" {
			return fmt.Errorf("%s failed: %s", cc, out)
		}
		return fmt.Errorf("%s failed: %w", cc, err)
	}
	return nil
}
