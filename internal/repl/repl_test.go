package repl

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluid-lang/fluid/internal/ctxlog"
)

func testSession(t *testing.T) (*session, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &session{ctx: ctx, outW: out, errW: errOut}, out, errOut
}

func TestDeclarationAccumulates(t *testing.T) {
	s, _, errOut := testSession(t)

	s.handle(`function double(x: number) -> number { return x * 2; }`)
	assert.Empty(t, errOut.String())
	require.Len(t, s.decls, 1)

	s.handle(`function quad(x: number) -> number { return double(double(x)); }`)
	assert.Empty(t, errOut.String())
	assert.Len(t, s.decls, 2)
}

func TestBrokenDeclarationIsDiscarded(t *testing.T) {
	s, _, errOut := testSession(t)

	s.handle(`function f() -> number { return missing; }`)
	assert.Contains(t, errOut.String(), "Undefined variable `missing`")
	assert.Empty(t, s.decls)
}

func TestDeclarationConflictKeepsSession(t *testing.T) {
	s, _, errOut := testSession(t)

	s.handle(`function f() -> number { return 1; }`)
	require.Len(t, s.decls, 1)

	s.handle(`function f() -> number { return 2; }`)
	assert.Contains(t, errOut.String(), "already defined")
	assert.Len(t, s.decls, 1)
}

func TestParseErrorIsRendered(t *testing.T) {
	s, _, errOut := testSession(t)

	s.handle(`function f( {`)
	assert.NotEmpty(t, errOut.String())
	assert.Empty(t, s.decls)
}

func TestResetClearsSession(t *testing.T) {
	s, out, _ := testSession(t)

	s.handle(`function f() -> number { return 1; }`)
	require.Len(t, s.decls, 1)

	handled, quit := s.command(".reset")
	assert.True(t, handled)
	assert.False(t, quit)
	assert.Empty(t, s.decls)
	assert.Contains(t, out.String(), "Session reset.")
}

func TestUnknownDotCommand(t *testing.T) {
	s, _, errOut := testSession(t)

	handled, quit := s.command(".foo")
	assert.True(t, handled)
	assert.False(t, quit)
	assert.Contains(t, errOut.String(), "Invalid repl command")
	assert.Empty(t, s.decls)
}

func TestExitCommand(t *testing.T) {
	s, _, _ := testSession(t)

	handled, quit := s.command("exit")
	assert.True(t, handled)
	assert.True(t, quit)
}

func TestOrdinaryInputIsNotACommand(t *testing.T) {
	s, _, _ := testSession(t)

	handled, _ := s.command(`var x: number = 1;`)
	assert.False(t, handled)
}

func TestDeclarationsOnlyClassification(t *testing.T) {
	s, _, _ := testSession(t)

	stmts, ok := s.parse(`var x: number = 1;`)
	require.True(t, ok)
	assert.True(t, declarationsOnly(stmts))

	stmts, ok = s.parse(`1 + 2;`)
	require.True(t, ok)
	assert.False(t, declarationsOnly(stmts))
}
