package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"

	"github.com/fluid-lang/fluid/internal/ast"
	"github.com/fluid-lang/fluid/internal/mangle"
)

// genPrototype declares a function in the module and registers it in the
// current scope under its mangled name.
func (g *Generator) genPrototype(proto *ast.Prototype) *funcRef {
	argTypes := make([]ast.Type, 0, len(proto.Args))
	params := make([]*ir.Param, 0, len(proto.Args))
	for _, arg := range proto.Args {
		argTypes = append(argTypes, arg.Type)
		params = append(params, ir.NewParam(arg.Name, g.llType(arg.Type)))
	}

	name := mangle.FunctionName(proto.Name, argTypes)
	fn := g.module.NewFunc(name, g.llType(proto.Return), params...)
	fn.Linkage = enum.LinkageExternal

	ref := &funcRef{args: argTypes, ret: proto.Return, fn: fn}
	g.scope.funcs[name] = ref
	return ref
}

// genFuncDef lowers a function definition: prototype, entry block, one
// alloca per parameter, then the body.
func (g *Generator) genFuncDef(def *ast.FuncDef) {
	ref := g.genPrototype(def.Proto)

	outerScope, outerFn, outerRet, outerBlock := g.scope, g.fn, g.fnRet, g.block
	g.scope = newScope(outerScope)
	g.fn = ref.fn
	g.fnRet = def.Proto.Return
	g.block = ref.fn.NewBlock("entry")

	// Parameters are stack slots so they behave like ordinary variables;
	// mem2reg-style cleanups are the optimizer's job.
	for i, arg := range def.Proto.Args {
		param := ref.fn.Params[i]
		slot := g.block.NewAlloca(g.llType(arg.Type))
		slot.SetName(arg.Name)
		g.block.NewStore(param, slot)
		g.scope.vars[arg.Name] = &varRef{typ: arg.Type, ptr: slot}
	}

	for _, stmt := range def.Body.Stmts {
		if g.block.Term != nil {
			// Statements after a return are unreachable; drop them.
			break
		}
		g.genStatement(stmt)
	}

	if g.block.Term == nil {
		if def.Proto.Return.IsVoid() {
			g.block.NewRet(nil)
		} else {
			// Sema guarantees all paths return; this block has no
			// predecessors that fall through.
			g.block.NewUnreachable()
		}
	}

	g.scope, g.fn, g.fnRet, g.block = outerScope, outerFn, outerRet, outerBlock
}

// genExternDef declares every prototype of an extern block.
func (g *Generator) genExternDef(ext *ast.ExternDef) {
	for _, proto := range ext.Protos {
		g.genPrototype(proto)
	}
}

// genGlobalVar lowers a top-level variable. Only literal initialisers can
// become module-level globals.
func (g *Generator) genGlobalVar(def *ast.VarDef) {
	lit, ok := def.Value.(*ast.Literal)
	if !ok {
		g.errorf(def.Position, "Global variable `%s` must have a constant initialiser.", def.Name)
		return
	}

	var init constant.Constant
	switch lit.Kind {
	case ast.LitNumber:
		init = constant.NewInt(types.I64, lit.Int)
	case ast.LitFloat:
		init = constant.NewFloat(types.Float, lit.Float)
	case ast.LitBool:
		init = constant.NewBool(lit.Bool)
	case ast.LitChar:
		init = constant.NewInt(types.I8, int64(lit.Char))
	case ast.LitString:
		init = g.stringConstant(lit.String)
	case ast.LitNull:
		init = constant.NewNull(types.NewPointer(types.I8))
	default:
		g.errorf(def.Position, "Global variable `%s` must have a constant initialiser.", def.Name)
		return
	}

	global := g.module.NewGlobalDef(def.Name, init)
	g.scope.vars[def.Name] = &varRef{typ: def.Type, ptr: global}
}
