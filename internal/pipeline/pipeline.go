// Package pipeline chains the compiler stages. The command layer and the
// interactive session both drive compilation through it.
package pipeline

import (
	"context"

	"github.com/llir/llvm/ir"

	"github.com/fluid-lang/fluid/internal/ast"
	"github.com/fluid-lang/fluid/internal/codegen"
	"github.com/fluid-lang/fluid/internal/ctxlog"
	"github.com/fluid-lang/fluid/internal/diag"
	"github.com/fluid-lang/fluid/internal/lexer"
	"github.com/fluid-lang/fluid/internal/parser"
	"github.com/fluid-lang/fluid/internal/sema"
)

// Frontend runs lexing, parsing and semantic analysis. Each stage only
// runs when the previous one produced no errors, so diagnostics never
// cascade across stages.
func Frontend(ctx context.Context, code, file string) ([]ast.Stmt, diag.List) {
	logger := ctxlog.FromContext(ctx)

	logger.Debug("Lexing source.", "file", file)
	tokens, diags := lexer.New(code, file).Run()
	if diags.HasErrors() {
		return nil, diags
	}

	logger.Debug("Parsing tokens.", "file", file, "tokens", len(tokens))
	stmts, parseDiags := parser.New(tokens, code, file).Run()
	diags = diags.Append(parseDiags)
	if diags.HasErrors() {
		return nil, diags
	}

	logger.Debug("Checking semantics.", "file", file)
	_, semaDiags := sema.Check(stmts, code, file)
	diags = diags.Append(semaDiags)
	if diags.HasErrors() {
		return nil, diags
	}

	return stmts, diags
}

// Compile runs the full pipeline and lowers the unit to an IR module.
func Compile(ctx context.Context, code, file string) (*ir.Module, diag.List) {
	stmts, diags := Frontend(ctx, code, file)
	if diags.HasErrors() {
		return nil, diags
	}

	ctxlog.FromContext(ctx).Debug("Generating code.", "file", file)
	module, genDiags := codegen.New(code, file).Run(stmts)
	diags = diags.Append(genDiags)
	if diags.HasErrors() {
		return nil, diags
	}

	return module, diags
}
