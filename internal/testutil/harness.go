// Package testutil provides the in-process harness the command level
// tests run against: it lays source files out in a temp directory, runs
// the application and captures its output.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fluid-lang/fluid/internal/app"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements io.Writer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements fmt.Stringer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcome of one in-process command run.
type HarnessResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error

	// Dir is the temp directory the sources were written to, for checks
	// on produced artifacts.
	Dir string
}

// RunCommandTest writes the given files into a fresh temp directory and
// runs the application there. Relative paths in files and in cfg.Path are
// resolved against that directory.
func RunCommandTest(t *testing.T, files map[string]string, cfg app.Config) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	if cfg.Path != "" {
		cfg.Path = filepath.Join(tmpDir, cfg.Path)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "error"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	validated, err := app.NewConfig(cfg)
	require.NoError(t, err)

	outW := &SafeBuffer{}
	errW := &SafeBuffer{}

	a, err := app.NewApp(outW, errW, tmpDir, validated)
	if err != nil {
		return &HarnessResult{Stdout: outW.String(), Stderr: errW.String(), Err: err, Dir: tmpDir}
	}

	code, err := a.Run(context.Background())
	return &HarnessResult{
		Stdout:   outW.String(),
		Stderr:   errW.String(),
		ExitCode: code,
		Err:      err,
		Dir:      tmpDir,
	}
}
