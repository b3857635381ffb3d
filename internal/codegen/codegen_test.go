package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluid-lang/fluid/internal/lexer"
	"github.com/fluid-lang/fluid/internal/parser"
	"github.com/fluid-lang/fluid/internal/sema"
)

// lower runs the full front end on source and returns the printed module.
func lower(t *testing.T, source string) string {
	t.Helper()

	tokens, diags := lexer.New(source, "<test>").Run()
	require.False(t, diags.HasErrors(), "lexer diagnostics: %v", diags)
	stmts, diags := parser.New(tokens, source, "<test>").Run()
	require.False(t, diags.HasErrors(), "parser diagnostics: %v", diags)
	_, diags = sema.Check(stmts, source, "<test>")
	require.False(t, diags.HasErrors(), "sema diagnostics: %v", diags)

	module, diags := New(source, "<test>").Run(stmts)
	require.False(t, diags.HasErrors(), "codegen diagnostics: %v", diags)
	return module.String()
}

func TestHelloWorld(t *testing.T) {
	ir := lower(t, `
		extern {
			function print(message: string);
		}

		function main(argc: number, argv: string[]) -> number {
			print("Hello, World!");

			return 0;
		}
	`)

	assert.Contains(t, ir, "declare void @print(i8* %message)")
	assert.Contains(t, ir, "define i64 @main(i64 %argc, i8** %argv)")
	assert.Contains(t, ir, `c"Hello, World!\00"`)
	assert.Contains(t, ir, "call void @print(")
	assert.Contains(t, ir, "ret i64 0")
}

func TestParametersSpillToStack(t *testing.T) {
	ir := lower(t, `
		function add(a: number, b: number) -> number {
			return a + b;
		}
	`)

	assert.Contains(t, ir, "define i64 @add(i64 %a, i64 %b)")
	assert.Contains(t, ir, "alloca i64")
	assert.Contains(t, ir, "load i64")
	assert.Contains(t, ir, "add i64")
}

func TestFloatArithmeticUsesFloatInstructions(t *testing.T) {
	ir := lower(t, `
		function scale(x: float, y: float) -> float {
			return x * y + x / y;
		}
	`)

	assert.Contains(t, ir, "fmul float")
	assert.Contains(t, ir, "fdiv float")
	assert.Contains(t, ir, "fadd float")
	assert.NotContains(t, ir, "mul i64")
}

func TestComparisonAndLogic(t *testing.T) {
	ir := lower(t, `
		function inRange(x: number, lo: number, hi: number) -> bool {
			return lo < x && x < hi;
		}
	`)

	assert.Contains(t, ir, "icmp slt i64")
	assert.Contains(t, ir, "and i1")
}

func TestIfElseBranches(t *testing.T) {
	ir := lower(t, `
		function sign(x: number) -> number {
			if (x < 0) {
				return -1;
			} else {
				return 1;
			}
		}
	`)

	assert.Contains(t, ir, "br i1")
	assert.Contains(t, ir, "if.then")
	assert.Contains(t, ir, "if.else")
	// Both arms return, so the merge block is only there to keep the IR
	// well formed.
	assert.Contains(t, ir, "unreachable")
}

func TestIfWithoutElseFallsThrough(t *testing.T) {
	ir := lower(t, `
		function clamp(x: number) -> number {
			if (x < 0) {
				x = 0;
			}
			return x;
		}
	`)

	assert.Contains(t, ir, "if.then")
	assert.Contains(t, ir, "if.end")
	assert.NotContains(t, ir, "if.else")
}

func TestVariablesAndAssignment(t *testing.T) {
	ir := lower(t, `
		function f() -> number {
			var x: number = 40;
			x = x + 2;
			return x;
		}
	`)

	assert.Contains(t, ir, "alloca i64")
	assert.Contains(t, ir, "store i64 40")
	assert.Contains(t, ir, "ret i64")
}

func TestUnaryOperators(t *testing.T) {
	ir := lower(t, `
		function f(x: number, b: bool) -> number {
			if (!b) {
				return -x;
			}
			return x;
		}
	`)

	assert.Contains(t, ir, "xor i1")
	assert.Contains(t, ir, "sub i64 0")
}

func TestStringConstantsAreInterned(t *testing.T) {
	ir := lower(t, `
		extern {
			function print(message: string);
		}

		function main(argc: number, argv: string[]) -> number {
			print("one");
			print("two");
			return 0;
		}
	`)

	assert.Contains(t, ir, `c"one\00"`)
	assert.Contains(t, ir, `c"two\00"`)
	assert.Contains(t, ir, "@.str")
	assert.Contains(t, ir, "@.str.1")
}

func TestGlobalVariable(t *testing.T) {
	ir := lower(t, `
		var answer: number = 42;

		function f() -> number {
			return answer;
		}
	`)

	assert.Contains(t, ir, "@answer = global i64 42")
	assert.Contains(t, ir, "load i64")
}

func TestGlobalNeedsConstantInitialiser(t *testing.T) {
	source := `
		function f() -> number {
			return 1;
		}

		var x: number = f();
	`
	tokens, diags := lexer.New(source, "<test>").Run()
	require.False(t, diags.HasErrors())
	stmts, diags := parser.New(tokens, source, "<test>").Run()
	require.False(t, diags.HasErrors())

	_, diags = New(source, "<test>").Run(stmts)
	require.True(t, diags.HasErrors())
	assert.Contains(t, diags[0].Message, "constant initialiser")
}

func TestTopLevelStatementRejected(t *testing.T) {
	source := `1 + 2;`
	tokens, diags := lexer.New(source, "<test>").Run()
	require.False(t, diags.HasErrors())
	stmts, diags := parser.New(tokens, source, "<test>").Run()
	require.False(t, diags.HasErrors())

	_, diags = New(source, "<test>").Run(stmts)
	require.True(t, diags.HasErrors())
	assert.Contains(t, diags[0].Message, "top level")
}

func TestVoidFunctionGetsImplicitReturn(t *testing.T) {
	ir := lower(t, `
		extern {
			function print(message: string);
		}

		function greet() {
			print("hi");
		}
	`)

	assert.Contains(t, ir, "define void @greet()")
	assert.Contains(t, ir, "ret void")
}

func TestSourceFilenameRecorded(t *testing.T) {
	ir := lower(t, `function f() {}`)
	assert.Contains(t, ir, `source_filename = "<test>"`)
}
