package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/fluid-lang/fluid/internal/ast"
	"github.com/fluid-lang/fluid/internal/diag"
	"github.com/fluid-lang/fluid/internal/token"
)

// Generator holds the internal state while lowering a checked AST to an
// LLVM IR module.
type Generator struct {
	file string
	code string

	module *ir.Module

	// fn and block are the current insertion points, nil at the top level.
	fn    *ir.Func
	fnRet ast.Type
	block *ir.Block

	scope *scope

	strCount   int
	blockCount int

	diags diag.List
}

// varRef is a lowered variable: its Fluid type and the pointer (alloca or
// global) holding its storage.
type varRef struct {
	typ ast.Type
	ptr value.Value
}

// funcRef is a lowered function with its Fluid signature.
type funcRef struct {
	args []ast.Type
	ret  ast.Type
	fn   *ir.Func
}

// scope maps names to lowered symbols, chained lexically.
type scope struct {
	parent *scope
	vars   map[string]*varRef
	funcs  map[string]*funcRef
}

func newScope(parent *scope) *scope {
	return &scope{
		parent: parent,
		vars:   make(map[string]*varRef),
		funcs:  make(map[string]*funcRef),
	}
}

func (s *scope) lookupVar(name string) *varRef {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.vars[name]; ok {
			return v
		}
	}
	return nil
}

func (s *scope) lookupFunc(name string) *funcRef {
	for sc := s; sc != nil; sc = sc.parent {
		if f, ok := sc.funcs[name]; ok {
			return f
		}
	}
	return nil
}

// New creates a generator for one translation unit. file becomes the
// module's source filename.
func New(code, file string) *Generator {
	m := ir.NewModule()
	m.SourceFilename = file

	return &Generator{
		file:   file,
		code:   code,
		module: m,
		scope:  newScope(nil),
	}
}

// Run lowers the unit and returns the IR module. The AST must have passed
// semantic analysis; diagnostics from this stage cover only constructs that
// cannot be expressed at the top level of a compiled unit.
func (g *Generator) Run(stmts []ast.Stmt) (*ir.Module, diag.List) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.FuncDef:
			g.genFuncDef(s)
		case *ast.ExternDef:
			g.genExternDef(s)
		case *ast.VarDef:
			g.genGlobalVar(s)
		default:
			g.errorf(stmt.Pos(), "Only declarations are allowed at the top level of a compiled file.")
		}
	}
	return g.module, g.diags
}

// llType lowers a Fluid type. Arrays lower to a pointer to the element
// type, so `string[]` is `i8**` — the shape the C entry point convention
// expects for argv.
func (g *Generator) llType(t ast.Type) types.Type {
	var elem types.Type
	switch t.Kind {
	case ast.Void:
		elem = types.Void
	case ast.Number:
		elem = types.I64
	case ast.Float:
		elem = types.Float
	case ast.String:
		elem = types.NewPointer(types.I8)
	case ast.Bool:
		elem = types.I1
	case ast.Char:
		elem = types.I8
	default:
		elem = types.Void
	}
	if t.Array {
		return types.NewPointer(elem)
	}
	return elem
}

// nextBlock appends a fresh labelled block to the current function.
func (g *Generator) nextBlock(prefix string) *ir.Block {
	g.blockCount++
	return g.fn.NewBlock(fmt.Sprintf("%s.%d", prefix, g.blockCount))
}

func (g *Generator) errorf(pos token.Position, format string, args ...any) {
	g.diags = append(g.diags, &diag.Diagnostic{
		Stage:    diag.StageCodegen,
		Severity: diag.Error,
		Message:  fmt.Sprintf(format, args...),
		File:     g.file,
		Line:     pos.Line,
		Source:   diag.SourceLine(g.code, pos.Line),
	})
}
