package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluid-lang/fluid/internal/app"
)

func parse(t *testing.T, args ...string) (*app.Config, bool, error) {
	t.Helper()
	var out bytes.Buffer
	return Parse(args, &out)
}

func TestNoArgumentsStartsRepl(t *testing.T) {
	cfg, exit, err := parse(t)
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, app.CommandRepl, cfg.Command)
}

func TestRunCommand(t *testing.T) {
	cfg, exit, err := parse(t, "run", "main.fluid")
	require.NoError(t, err)
	require.False(t, exit)
	assert.Equal(t, app.CommandRun, cfg.Command)
	assert.Equal(t, "main.fluid", cfg.Path)
	assert.Empty(t, cfg.Args)
}

func TestRunForwardsProgramArguments(t *testing.T) {
	cfg, _, err := parse(t, "run", "main.fluid", "one", "two")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, cfg.Args)
}

func TestRunWithoutFile(t *testing.T) {
	_, _, err := parse(t, "run")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "source file")
}

func TestBuildCommand(t *testing.T) {
	cfg, _, err := parse(t, "build", "main.fluid")
	require.NoError(t, err)
	assert.Equal(t, app.CommandBuild, cfg.Command)
	assert.False(t, cfg.EmitLLVM)
}

func TestBuildEmitLLVM(t *testing.T) {
	cfg, _, err := parse(t, "build", "-emit-llvm", "main.fluid")
	require.NoError(t, err)
	assert.True(t, cfg.EmitLLVM)
}

func TestEmitLLVMOutsideBuildRejected(t *testing.T) {
	_, _, err := parse(t, "run", "-emit-llvm", "main.fluid")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestCheckCommand(t *testing.T) {
	cfg, _, err := parse(t, "check", "src")
	require.NoError(t, err)
	assert.Equal(t, app.CommandCheck, cfg.Command)
	assert.Equal(t, "src", cfg.Path)
}

func TestCheckRejectsExtraArguments(t *testing.T) {
	_, _, err := parse(t, "check", "src", "extra")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := parse(t, "compile", "main.fluid")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "unknown command")
}

func TestHelpExitsCleanly(t *testing.T) {
	var out bytes.Buffer
	_, exit, err := Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	assert.True(t, exit)
	assert.Contains(t, out.String(), "Usage:")
}

func TestOptLevelOverride(t *testing.T) {
	cfg, _, err := parse(t, "build", "-O", "O2", "main.fluid")
	require.NoError(t, err)
	assert.Equal(t, "O2", cfg.OptLevel)
}

func TestInvalidOptLevel(t *testing.T) {
	_, _, err := parse(t, "build", "-O", "O9", "main.fluid")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "-O")
}

func TestInvalidLogLevel(t *testing.T) {
	_, _, err := parse(t, "check", "-log-level", "loud", "src")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "log-level")
}

func TestInvalidLogFormat(t *testing.T) {
	_, _, err := parse(t, "check", "-log-format", "xml", "src")
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Message, "log-format")
}
