package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/gookit/color"

	"github.com/fluid-lang/fluid/internal/ast"
	"github.com/fluid-lang/fluid/internal/ctxlog"
	"github.com/fluid-lang/fluid/internal/driver"
	"github.com/fluid-lang/fluid/internal/lexer"
	"github.com/fluid-lang/fluid/internal/parser"
	"github.com/fluid-lang/fluid/internal/pipeline"
)

const (
	prompt      = ">>> "
	historyFile = "./history.txt"
	sourceName  = "<repl>"
)

const helpText = `Enter declarations to add them to the session, or statements to run them.

  function f(x: number) -> number { return x * 2; }   declare a function
  print("hi");                                        run a statement

Commands:
  .reset    discard everything declared so far
  help      show this help
  exit      leave the session (also Ctrl-D)
`

// session accumulates declarations across inputs. Statements run against
// everything declared so far.
type session struct {
	ctx  context.Context
	outW io.Writer
	errW io.Writer
	drv  *driver.Driver

	decls []string
}

// Run starts the interactive session and blocks until the user leaves.
func Run(ctx context.Context, outW, errW io.Writer, drv *driver.Driver) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      prompt,
		HistoryFile: historyFile,
		Stdout:      outW,
		Stderr:      errW,
	})
	if err != nil {
		return fmt.Errorf("starting interactive session: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(outW, color.Yellow.Sprint("Fluid v0.1.0"))
	fmt.Fprintln(outW, color.Green.Sprint("Type help for more information."))

	s := &session{ctx: ctx, outW: outW, errW: errW, drv: drv}

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if handled, quit := s.command(input); handled {
			if quit {
				return nil
			}
			continue
		}

		s.handle(input)
	}
}

// command handles session directives. handled is false for ordinary
// input; quit asks the loop to leave the session.
func (s *session) command(input string) (handled, quit bool) {
	switch input {
	case "help":
		fmt.Fprint(s.outW, helpText)
		return true, false
	case "exit":
		return true, true
	case ".reset":
		s.decls = nil
		fmt.Fprintln(s.outW, "Session reset.")
		return true, false
	}
	if strings.HasPrefix(input, ".") {
		fmt.Fprintln(s.errW, "Invalid repl command")
		return true, false
	}
	return false, false
}

// handle processes one input: declarations join the session, anything else
// is compiled into a scratch program and executed.
func (s *session) handle(input string) {
	stmts, ok := s.parse(input)
	if !ok {
		return
	}

	if declarationsOnly(stmts) {
		s.declare(input)
		return
	}
	s.execute(input)
}

// parse classifies the input without touching the accumulated session.
func (s *session) parse(input string) ([]ast.Stmt, bool) {
	tokens, diags := lexer.New(input, sourceName).Run()
	if diags.HasErrors() {
		diags.Render(s.errW)
		return nil, false
	}
	stmts, diags := parser.New(tokens, input, sourceName).Run()
	if diags.HasErrors() {
		diags.Render(s.errW)
		return nil, false
	}
	return stmts, true
}

func declarationsOnly(stmts []ast.Stmt) bool {
	for _, stmt := range stmts {
		switch stmt.(type) {
		case *ast.FuncDef, *ast.ExternDef, *ast.VarDef:
		default:
			return false
		}
	}
	return true
}

// declare re-checks the whole session with the new input included and
// keeps it only when it still checks.
func (s *session) declare(input string) {
	candidate := append(append([]string{}, s.decls...), input)

	_, diags := pipeline.Frontend(s.ctx, strings.Join(candidate, "\n"), sourceName)
	if diags.HasErrors() {
		diags.Render(s.errW)
		return
	}

	s.decls = candidate
	ctxlog.FromContext(s.ctx).Debug("Declaration added to session.", "total", len(s.decls))
}

// execute wraps the statements in a scratch entry point, compiles the
// session and runs the binary.
func (s *session) execute(input string) {
	var b strings.Builder
	for _, decl := range s.decls {
		b.WriteString(decl)
		b.WriteString("\n")
	}
	b.WriteString("function main(argc: number, argv: string[]) -> number {\n")
	b.WriteString(input)
	b.WriteString("\nreturn 0;\n}\n")

	module, diags := pipeline.Compile(s.ctx, b.String(), sourceName)
	if diags.HasErrors() {
		diags.Render(s.errW)
		return
	}

	code, err := s.drv.Execute(s.ctx, module, nil)
	if err != nil {
		fmt.Fprintln(s.errW, err)
		return
	}
	if code != 0 {
		fmt.Fprintf(s.outW, "Process exited with code %d.\n", code)
	}
}
