package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/fluid-lang/fluid/internal/ast"
	"github.com/fluid-lang/fluid/internal/mangle"
)

// fluidValue pairs a lowered value with its Fluid type, so operator
// selection (int vs float instructions) does not need the checker.
type fluidValue struct {
	typ   ast.Type
	value value.Value
}

// genExpression lowers an expression into the current block.
func (g *Generator) genExpression(expr ast.Expr) fluidValue {
	switch e := expr.(type) {
	case *ast.Literal:
		return g.genLiteral(e)
	case *ast.Paren:
		return g.genExpression(e.Inner)
	case *ast.VarRef:
		return g.genVarRef(e.Name)
	case *ast.VarAssign:
		return g.genVarAssign(e)
	case *ast.Call:
		return g.genCall(e)
	case *ast.Binary:
		return g.genBinary(e)
	case *ast.Unary:
		return g.genUnary(e)
	}
	panic(fmt.Sprintf("codegen: unhandled expression %T", expr))
}

// genVarRef loads a variable's current value.
func (g *Generator) genVarRef(name string) fluidValue {
	v := g.scope.lookupVar(name)
	load := g.block.NewLoad(g.llType(v.typ), v.ptr)
	load.SetName(name)
	return fluidValue{typ: v.typ, value: load}
}

// genVarAssign stores into a variable and yields the stored value.
func (g *Generator) genVarAssign(e *ast.VarAssign) fluidValue {
	v := g.scope.lookupVar(e.Name)
	val := g.genExpression(e.Value)
	g.block.NewStore(val.value, v.ptr)
	return fluidValue{typ: v.typ, value: val.value}
}

// genUnary lowers `-x` and `!x`.
func (g *Generator) genUnary(e *ast.Unary) fluidValue {
	operand := g.genExpression(e.Operand)

	switch e.Op {
	case ast.OpNeg:
		if operand.typ.Kind == ast.Float {
			return fluidValue{typ: operand.typ, value: g.block.NewFNeg(operand.value)}
		}
		zero := constant.NewInt(types.I64, 0)
		return fluidValue{typ: operand.typ, value: g.block.NewSub(zero, operand.value)}
	case ast.OpNot:
		return fluidValue{typ: operand.typ, value: g.block.NewXor(operand.value, constant.True)}
	}
	panic("codegen: unhandled unary operator")
}

// genBinary lowers an infix operator, selecting integer or floating point
// instructions from the operand type.
func (g *Generator) genBinary(e *ast.Binary) fluidValue {
	lhs := g.genExpression(e.Lhs)
	rhs := g.genExpression(e.Rhs)
	isFloat := lhs.typ.Kind == ast.Float

	boolType := ast.Type{Kind: ast.Bool}

	switch e.Op {
	case ast.OpAdd:
		if isFloat {
			return fluidValue{typ: lhs.typ, value: g.block.NewFAdd(lhs.value, rhs.value)}
		}
		return fluidValue{typ: lhs.typ, value: g.block.NewAdd(lhs.value, rhs.value)}
	case ast.OpSub:
		if isFloat {
			return fluidValue{typ: lhs.typ, value: g.block.NewFSub(lhs.value, rhs.value)}
		}
		return fluidValue{typ: lhs.typ, value: g.block.NewSub(lhs.value, rhs.value)}
	case ast.OpMul:
		if isFloat {
			return fluidValue{typ: lhs.typ, value: g.block.NewFMul(lhs.value, rhs.value)}
		}
		return fluidValue{typ: lhs.typ, value: g.block.NewMul(lhs.value, rhs.value)}
	case ast.OpDiv:
		if isFloat {
			return fluidValue{typ: lhs.typ, value: g.block.NewFDiv(lhs.value, rhs.value)}
		}
		return fluidValue{typ: lhs.typ, value: g.block.NewSDiv(lhs.value, rhs.value)}

	case ast.OpLesser:
		if isFloat {
			return fluidValue{typ: boolType, value: g.block.NewFCmp(enum.FPredOLT, lhs.value, rhs.value)}
		}
		return fluidValue{typ: boolType, value: g.block.NewICmp(enum.IPredSLT, lhs.value, rhs.value)}
	case ast.OpGreater:
		if isFloat {
			return fluidValue{typ: boolType, value: g.block.NewFCmp(enum.FPredOGT, lhs.value, rhs.value)}
		}
		return fluidValue{typ: boolType, value: g.block.NewICmp(enum.IPredSGT, lhs.value, rhs.value)}
	case ast.OpEq:
		if isFloat {
			return fluidValue{typ: boolType, value: g.block.NewFCmp(enum.FPredOEQ, lhs.value, rhs.value)}
		}
		return fluidValue{typ: boolType, value: g.block.NewICmp(enum.IPredEQ, lhs.value, rhs.value)}
	case ast.OpNotEq:
		if isFloat {
			return fluidValue{typ: boolType, value: g.block.NewFCmp(enum.FPredONE, lhs.value, rhs.value)}
		}
		return fluidValue{typ: boolType, value: g.block.NewICmp(enum.IPredNE, lhs.value, rhs.value)}

	case ast.OpAnd:
		return fluidValue{typ: boolType, value: g.block.NewAnd(lhs.value, rhs.value)}
	case ast.OpOr:
		return fluidValue{typ: boolType, value: g.block.NewOr(lhs.value, rhs.value)}
	}
	panic("codegen: unhandled binary operator")
}

// genCall lowers a function call.
func (g *Generator) genCall(call *ast.Call) fluidValue {
	args := make([]fluidValue, 0, len(call.Args))
	argTypes := make([]ast.Type, 0, len(call.Args))
	for _, arg := range call.Args {
		v := g.genExpression(arg)
		args = append(args, v)
		argTypes = append(argTypes, v.typ)
	}

	ref := g.scope.lookupFunc(mangle.FunctionName(call.Name, argTypes))
	if ref == nil {
		ref = g.scope.lookupFunc(call.Name)
	}

	callArgs := make([]value.Value, 0, len(args))
	for _, a := range args {
		callArgs = append(callArgs, a.value)
	}

	return fluidValue{typ: ref.ret, value: g.block.NewCall(ref.fn, callArgs...)}
}

// genLiteral lowers a constant expression.
func (g *Generator) genLiteral(lit *ast.Literal) fluidValue {
	switch lit.Kind {
	case ast.LitNumber:
		return fluidValue{typ: ast.Type{Kind: ast.Number}, value: constant.NewInt(types.I64, lit.Int)}
	case ast.LitFloat:
		return fluidValue{typ: ast.Type{Kind: ast.Float}, value: constant.NewFloat(types.Float, lit.Float)}
	case ast.LitBool:
		return fluidValue{typ: ast.Type{Kind: ast.Bool}, value: constant.NewBool(lit.Bool)}
	case ast.LitChar:
		return fluidValue{typ: ast.Type{Kind: ast.Char}, value: constant.NewInt(types.I8, int64(lit.Char))}
	case ast.LitString:
		return fluidValue{typ: ast.Type{Kind: ast.String}, value: g.stringConstant(lit.String)}
	case ast.LitNull:
		return fluidValue{typ: ast.Type{Kind: ast.String}, value: constant.NewNull(types.NewPointer(types.I8))}
	}
	panic("codegen: unhandled literal kind")
}

// stringConstant interns a NUL-terminated private global for a string
// literal and returns an i8* to its first character.
func (g *Generator) stringConstant(s string) constant.Constant {
	name := ".str"
	if g.strCount > 0 {
		name = fmt.Sprintf(".str.%d", g.strCount)
	}
	g.strCount++

	global := g.module.NewGlobalDef(name, constant.NewCharArrayFromString(s+"\x00"))
	global.Linkage = enum.LinkagePrivate
	global.Immutable = true
	global.UnnamedAddr = enum.UnnamedAddrUnnamedAddr

	zero := constant.NewInt(types.I64, 0)
	return constant.NewGetElementPtr(global.ContentType, global, zero, zero)
}
