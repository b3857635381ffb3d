package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluid-lang/fluid/internal/ast"
	"github.com/fluid-lang/fluid/internal/diag"
	"github.com/fluid-lang/fluid/internal/lexer"
)

func parse(t *testing.T, source string) ([]ast.Stmt, diag.List) {
	t.Helper()
	tokens, diags := lexer.New(source, "<test>").Run()
	require.False(t, diags.HasErrors(), "lexer diagnostics: %v", diags)
	return New(tokens, source, "<test>").Run()
}

func parseOK(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	stmts, diags := parse(t, source)
	require.False(t, diags.HasErrors(), "parser diagnostics: %v", diags)
	return stmts
}

func TestHelloWorld(t *testing.T) {
	source := `
		extern {
			function print(message: string);
		}

		function main(argc: number, argv: string[]) -> number {
			print("Hello, World!");

			return 0;
		}
	`
	stmts := parseOK(t, source)
	require.Len(t, stmts, 2)

	ext, ok := stmts[0].(*ast.ExternDef)
	require.True(t, ok)
	require.Len(t, ext.Protos, 1)
	assert.Equal(t, "print", ext.Protos[0].Name)
	assert.Equal(t, ast.Type{Kind: ast.String}, ext.Protos[0].Args[0].Type)
	assert.True(t, ext.Protos[0].Return.IsVoid())

	fn, ok := stmts[1].(*ast.FuncDef)
	require.True(t, ok)
	assert.Equal(t, "main", fn.Proto.Name)
	require.Len(t, fn.Proto.Args, 2)
	assert.Equal(t, ast.Type{Kind: ast.Number}, fn.Proto.Args[0].Type)
	assert.Equal(t, ast.Type{Kind: ast.String, Array: true}, fn.Proto.Args[1].Type)
	assert.Equal(t, ast.Type{Kind: ast.Number}, fn.Proto.Return)

	require.Len(t, fn.Body.Stmts, 2)
	call, ok := fn.Body.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok)
	assert.Equal(t, "print", call.X.(*ast.Call).Name)

	ret, ok := fn.Body.Stmts[1].(*ast.Return)
	require.True(t, ok)
	lit := ret.Value.(*ast.Literal)
	assert.Equal(t, ast.LitNumber, lit.Kind)
	assert.Equal(t, int64(0), lit.Int)
}

func TestPrecedenceLadder(t *testing.T) {
	stmts := parseOK(t, "1 + 2 * 3;")

	bin := stmts[0].(*ast.ExprStmt).X.(*ast.Binary)
	assert.Equal(t, ast.OpAdd, bin.Op)
	rhs := bin.Rhs.(*ast.Binary)
	assert.Equal(t, ast.OpMul, rhs.Op)
}

func TestComparisonBindsTighterThanAnd(t *testing.T) {
	stmts := parseOK(t, "a < b && c > d;")

	bin := stmts[0].(*ast.ExprStmt).X.(*ast.Binary)
	assert.Equal(t, ast.OpAnd, bin.Op)
	assert.Equal(t, ast.OpLesser, bin.Lhs.(*ast.Binary).Op)
	assert.Equal(t, ast.OpGreater, bin.Rhs.(*ast.Binary).Op)
}

func TestUnaryChain(t *testing.T) {
	stmts := parseOK(t, "!-x;")

	not := stmts[0].(*ast.ExprStmt).X.(*ast.Unary)
	assert.Equal(t, ast.OpNot, not.Op)
	neg := not.Operand.(*ast.Unary)
	assert.Equal(t, ast.OpNeg, neg.Op)
	assert.Equal(t, "x", neg.Operand.(*ast.VarRef).Name)
}

func TestVarDef(t *testing.T) {
	stmts := parseOK(t, "var answer: number = 41 + 1;")

	def := stmts[0].(*ast.VarDef)
	assert.Equal(t, "answer", def.Name)
	assert.Equal(t, ast.Type{Kind: ast.Number}, def.Type)
	assert.Equal(t, ast.OpAdd, def.Value.(*ast.Binary).Op)
}

func TestAssignment(t *testing.T) {
	stmts := parseOK(t, "x = y = 1;")

	outer := stmts[0].(*ast.ExprStmt).X.(*ast.VarAssign)
	assert.Equal(t, "x", outer.Name)
	inner := outer.Value.(*ast.VarAssign)
	assert.Equal(t, "y", inner.Name)
}

func TestAssignToNonVariableIsError(t *testing.T) {
	_, diags := parse(t, "1 = 2;")

	require.True(t, diags.HasErrors())
	assert.Contains(t, diags[0].Message, "only variables are assignable")
}

func TestIfElseChain(t *testing.T) {
	source := `
		function classify(x: number) -> number {
			if (x < 0) {
				return 0;
			} else if (x == 0) {
				return 1;
			} else {
				return 2;
			}
		}
	`
	stmts := parseOK(t, source)

	fn := stmts[0].(*ast.FuncDef)
	cond := fn.Body.Stmts[0].(*ast.If)
	assert.Equal(t, ast.OpLesser, cond.Cond.(*ast.Binary).Op)

	elif, ok := cond.Else.(*ast.If)
	require.True(t, ok)
	assert.Equal(t, ast.OpEq, elif.Cond.(*ast.Binary).Op)
	_, ok = elif.Else.(*ast.Block)
	assert.True(t, ok)
}

func TestForLoopReportsUnsupported(t *testing.T) {
	_, diags := parse(t, "function f() { for () {} }")

	require.True(t, diags.HasErrors())
	assert.Contains(t, diags[0].Message, "not supported yet")
}

func TestMissingSemicolonRecovers(t *testing.T) {
	source := `
		var a: number = 1
		var b: number = 2;
	`
	stmts, diags := parse(t, source)

	require.True(t, diags.HasErrors())
	assert.Contains(t, diags[0].Message, "Expected `;`")
	// The second declaration still parses after resync.
	require.Len(t, stmts, 1)
	assert.Equal(t, "b", stmts[0].(*ast.VarDef).Name)
}

func TestAllErrorsReported(t *testing.T) {
	source := `
		var : number = 1;
		var b number = 2;
	`
	_, diags := parse(t, source)

	require.True(t, diags.HasErrors())
	assert.GreaterOrEqual(t, len(diags), 2)
}

func TestUnknownTypeIsError(t *testing.T) {
	_, diags := parse(t, "var x: quaternion = 1;")

	require.True(t, diags.HasErrors())
	assert.Contains(t, diags[0].Message, "Unknown type `quaternion`")
}

func TestDiagnosticCarriesSourceLine(t *testing.T) {
	_, diags := parse(t, "var x: number = ;")

	require.True(t, diags.HasErrors())
	assert.Equal(t, 1, diags[0].Line)
	assert.Equal(t, "var x: number = ;", diags[0].Source)
}
