package sema

import (
	"fmt"

	"github.com/fluid-lang/fluid/internal/ast"
	"github.com/fluid-lang/fluid/internal/diag"
	"github.com/fluid-lang/fluid/internal/mangle"
	"github.com/fluid-lang/fluid/internal/token"
)

// Checker walks the AST resolving names and verifying types.
type Checker struct {
	file string
	code string

	scope *Scope
	// current is the function whose body is being checked, nil at the top
	// level.
	current *FuncSymbol

	diags diag.List
}

// Check type-checks a parsed unit and returns its diagnostics. The returned
// global scope carries every resolved symbol for code generation.
func Check(stmts []ast.Stmt, code, file string) (*Scope, diag.List) {
	c := &Checker{file: file, code: code, scope: NewScope(nil)}

	for _, stmt := range stmts {
		c.checkStmt(stmt)
	}

	return c.scope, c.diags
}

func (c *Checker) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		c.checkExpr(s.X)
	case *ast.Return:
		c.checkReturn(s)
	case *ast.If:
		c.checkIf(s)
	case *ast.Block:
		c.checkBlock(s)
	case *ast.VarDef:
		c.checkVarDef(s)
	case *ast.FuncDef:
		c.checkFuncDef(s)
	case *ast.ExternDef:
		c.checkExternDef(s)
	}
}

func (c *Checker) checkBlock(block *ast.Block) {
	c.scope = NewScope(c.scope)
	for _, stmt := range block.Stmts {
		c.checkStmt(stmt)
	}
	c.scope = c.scope.parent
}

func (c *Checker) checkFuncDef(fn *ast.FuncDef) {
	args := make([]ast.Type, 0, len(fn.Proto.Args))
	for _, arg := range fn.Proto.Args {
		args = append(args, arg.Type)
	}

	sym := &FuncSymbol{
		Name:   mangle.FunctionName(fn.Proto.Name, args),
		Args:   args,
		Return: fn.Proto.Return,
	}
	if !c.scope.DefineFunc(sym) {
		c.errorf(fn.Proto.Position, "Function `%s` is already defined in this scope.", fn.Proto.Name)
	}

	// Parameters live in the function's own scope, as do its locals.
	outer := c.scope
	c.scope = NewScope(outer)
	for _, arg := range fn.Proto.Args {
		if !c.scope.DefineVar(&VarSymbol{Name: arg.Name, Type: arg.Type, Initialized: true}) {
			c.errorf(fn.Proto.Position, "Duplicate argument name `%s` in function `%s`.", arg.Name, fn.Proto.Name)
		}
	}

	prev := c.current
	c.current = sym
	for _, stmt := range fn.Body.Stmts {
		c.checkStmt(stmt)
	}
	c.current = prev
	c.scope = outer

	if !fn.Proto.Return.IsVoid() && !blockReturns(fn.Body) {
		c.errorf(fn.Proto.Position, "Function `%s` is declared to return `%s` but not all paths return a value.", fn.Proto.Name, fn.Proto.Return)
	}
}

func (c *Checker) checkExternDef(ext *ast.ExternDef) {
	for _, proto := range ext.Protos {
		args := make([]ast.Type, 0, len(proto.Args))
		for _, arg := range proto.Args {
			args = append(args, arg.Type)
		}
		sym := &FuncSymbol{
			Name:   mangle.FunctionName(proto.Name, args),
			Args:   args,
			Return: proto.Return,
			Extern: true,
		}
		if !c.scope.DefineFunc(sym) {
			c.errorf(proto.Position, "Function `%s` is already defined in this scope.", proto.Name)
		}
	}
}

func (c *Checker) checkVarDef(def *ast.VarDef) {
	if def.Type.IsVoid() {
		c.errorf(def.Position, "Variable `%s` cannot have type `void`.", def.Name)
	}

	valueType, ok := c.checkExpr(def.Value)
	if ok && !assignable(def.Type, def.Value, valueType) {
		c.errorf(def.Position, "Variable `%s` is declared as `%s` but its value has type `%s`.", def.Name, def.Type, valueType)
	}

	if !c.scope.DefineVar(&VarSymbol{Name: def.Name, Type: def.Type, Initialized: true}) {
		c.errorf(def.Position, "Variable `%s` is already defined in this scope.", def.Name)
	}
}

func (c *Checker) checkReturn(ret *ast.Return) {
	valueType, ok := c.checkExpr(ret.Value)
	if c.current == nil {
		c.errorf(ret.Position, "`return` outside of a function.")
		return
	}
	if !ok {
		return
	}
	if c.current.Return.IsVoid() {
		c.errorf(ret.Position, "Function `%s` has no return type but returns a value.", c.current.Name)
		return
	}
	if !assignable(c.current.Return, ret.Value, valueType) {
		c.errorf(ret.Position, "Function `%s` returns `%s` but this value has type `%s`.", c.current.Name, c.current.Return, valueType)
	}
}

func (c *Checker) checkIf(stmt *ast.If) {
	condType, ok := c.checkExpr(stmt.Cond)
	if ok && (condType.Kind != ast.Bool || condType.Array) {
		c.errorf(stmt.Position, "The `if` condition must be `bool`, found `%s`.", condType)
	}

	c.checkBlock(stmt.Then)
	if stmt.Else != nil {
		c.checkStmt(stmt.Else)
	}
}

// checkExpr infers and validates an expression's type. The boolean is false
// when the expression was too broken to have a type; a diagnostic has been
// reported in that case.
func (c *Checker) checkExpr(expr ast.Expr) (ast.Type, bool) {
	switch e := expr.(type) {
	case *ast.Literal:
		return literalType(e), true

	case *ast.Paren:
		return c.checkExpr(e.Inner)

	case *ast.VarRef:
		sym := c.scope.LookupVar(e.Name)
		if sym == nil {
			c.errorf(e.Position, "Undefined variable `%s`.", e.Name)
			return ast.Type{}, false
		}
		return sym.Type, true

	case *ast.VarAssign:
		sym := c.scope.LookupVar(e.Name)
		if sym == nil {
			c.errorf(e.Position, "Undefined variable `%s`.", e.Name)
			return ast.Type{}, false
		}
		valueType, ok := c.checkExpr(e.Value)
		if ok && !assignable(sym.Type, e.Value, valueType) {
			c.errorf(e.Position, "Cannot assign `%s` to variable `%s` of type `%s`.", valueType, e.Name, sym.Type)
		}
		return sym.Type, true

	case *ast.Call:
		return c.checkCall(e)

	case *ast.Unary:
		return c.checkUnary(e)

	case *ast.Binary:
		return c.checkBinary(e)
	}

	return ast.Type{}, false
}

func (c *Checker) checkCall(call *ast.Call) (ast.Type, bool) {
	argTypes := make([]ast.Type, 0, len(call.Args))
	allOK := true
	for _, arg := range call.Args {
		t, ok := c.checkExpr(arg)
		if !ok {
			allOK = false
		}
		argTypes = append(argTypes, t)
	}
	if !allOK {
		return ast.Type{}, false
	}

	sym := c.scope.LookupFunc(mangle.FunctionName(call.Name, argTypes))
	if sym == nil {
		// Retry by bare name so arity and argument type problems are
		// reported against the declaration instead of as "undefined".
		sym = c.scope.LookupFunc(call.Name)
	}
	if sym == nil {
		c.errorf(call.Position, "Undefined function `%s`.", call.Name)
		return ast.Type{}, false
	}

	if len(argTypes) != len(sym.Args) {
		c.errorf(call.Position, "Function `%s` takes %d argument(s) but %d were supplied.", call.Name, len(sym.Args), len(argTypes))
		return sym.Return, true
	}
	for i, want := range sym.Args {
		if !assignable(want, call.Args[i], argTypes[i]) {
			c.errorf(call.Position, "Argument %d of `%s` must be `%s`, found `%s`.", i+1, call.Name, want, argTypes[i])
		}
	}

	return sym.Return, true
}

func (c *Checker) checkUnary(e *ast.Unary) (ast.Type, bool) {
	operand, ok := c.checkExpr(e.Operand)
	if !ok {
		return ast.Type{}, false
	}

	switch e.Op {
	case ast.OpNeg:
		if !operand.IsNumeric() {
			c.errorf(e.Position, "Unary `-` requires a numeric operand, found `%s`.", operand)
			return ast.Type{}, false
		}
		return operand, true
	case ast.OpNot:
		if operand.Kind != ast.Bool || operand.Array {
			c.errorf(e.Position, "Unary `!` requires a `bool` operand, found `%s`.", operand)
			return ast.Type{}, false
		}
		return operand, true
	}
	return ast.Type{}, false
}

func (c *Checker) checkBinary(e *ast.Binary) (ast.Type, bool) {
	lhs, lok := c.checkExpr(e.Lhs)
	rhs, rok := c.checkExpr(e.Rhs)
	if !lok || !rok {
		return ast.Type{}, false
	}

	if lhs.IsVoid() || rhs.IsVoid() {
		c.errorf(e.Position, "Operator `%s` cannot be applied to `void` values.", e.Op)
		return ast.Type{}, false
	}

	if lhs != rhs {
		c.errorf(e.Position, "Operator `%s` requires matching operand types, found `%s` and `%s`.", e.Op, lhs, rhs)
		return ast.Type{}, false
	}

	switch e.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
		if !lhs.IsNumeric() {
			c.errorf(e.Position, "Operator `%s` requires numeric operands, found `%s`.", e.Op, lhs)
			return ast.Type{}, false
		}
		return lhs, true

	case ast.OpLesser, ast.OpGreater:
		if !lhs.IsNumeric() {
			c.errorf(e.Position, "Operator `%s` requires numeric operands, found `%s`.", e.Op, lhs)
			return ast.Type{}, false
		}
		return ast.Type{Kind: ast.Bool}, true

	case ast.OpEq, ast.OpNotEq:
		if lhs.Array {
			c.errorf(e.Position, "Operator `%s` cannot compare array values.", e.Op)
			return ast.Type{}, false
		}
		return ast.Type{Kind: ast.Bool}, true

	case ast.OpAnd, ast.OpOr:
		if lhs.Kind != ast.Bool || lhs.Array {
			c.errorf(e.Position, "Operator `%s` requires `bool` operands, found `%s`.", e.Op, lhs)
			return ast.Type{}, false
		}
		return ast.Type{Kind: ast.Bool}, true
	}

	return ast.Type{}, false
}

// literalType maps a literal to its Fluid type. `null` types as `string`,
// the language's only pointer-shaped value.
func literalType(lit *ast.Literal) ast.Type {
	switch lit.Kind {
	case ast.LitBool:
		return ast.Type{Kind: ast.Bool}
	case ast.LitNumber:
		return ast.Type{Kind: ast.Number}
	case ast.LitFloat:
		return ast.Type{Kind: ast.Float}
	case ast.LitString, ast.LitNull:
		return ast.Type{Kind: ast.String}
	case ast.LitChar:
		return ast.Type{Kind: ast.Char}
	}
	return ast.Type{}
}

// assignable reports whether a value of type valueType (produced by value)
// can initialise a slot of type want. It exists so `null` stays assignable
// to `string` slots while other mismatches are rejected.
func assignable(want ast.Type, value ast.Expr, valueType ast.Type) bool {
	if want == valueType {
		return true
	}
	if lit, ok := value.(*ast.Literal); ok && lit.Kind == ast.LitNull {
		return want.Kind == ast.String && !want.Array
	}
	return false
}

// blockReturns reports whether every path through the block ends in a
// return statement.
func blockReturns(block *ast.Block) bool {
	for _, stmt := range block.Stmts {
		if stmtReturns(stmt) {
			return true
		}
	}
	return false
}

func stmtReturns(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.Return:
		return true
	case *ast.Block:
		return blockReturns(s)
	case *ast.If:
		if s.Else == nil {
			return false
		}
		return blockReturns(s.Then) && stmtReturns(s.Else)
	}
	return false
}

func (c *Checker) errorf(pos token.Position, format string, args ...any) {
	c.diags = append(c.diags, &diag.Diagnostic{
		Stage:    diag.StageSema,
		Severity: diag.Error,
		Message:  fmt.Sprintf(format, args...),
		File:     c.file,
		Line:     pos.Line,
		Source:   diag.SourceLine(c.code, pos.Line),
	})
}
