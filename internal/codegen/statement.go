package codegen

import "github.com/fluid-lang/fluid/internal/ast"

// genStatement lowers one statement into the current block.
func (g *Generator) genStatement(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		g.genExpression(s.X)
	case *ast.Return:
		g.genReturn(s)
	case *ast.If:
		g.genIf(s)
	case *ast.Block:
		g.genBlock(s)
	case *ast.VarDef:
		g.genVarDef(s)
	case *ast.FuncDef:
		// Nested functions are hoisted to module level; their scope chain
		// still sees the enclosing declarations.
		g.genFuncDefNested(s)
	case *ast.ExternDef:
		g.genExternDef(s)
	}
}

// genFuncDefNested lowers a function declared inside another function.
func (g *Generator) genFuncDefNested(def *ast.FuncDef) {
	// The inner function gets its own insertion point; the caller's block
	// is restored by genFuncDef.
	g.genFuncDef(def)
}

// genBlock lowers a braced block in a child scope.
func (g *Generator) genBlock(block *ast.Block) {
	outer := g.scope
	g.scope = newScope(outer)

	for _, stmt := range block.Stmts {
		if g.block.Term != nil {
			break
		}
		g.genStatement(stmt)
	}

	g.scope = outer
}

// genReturn lowers `return expr;`.
func (g *Generator) genReturn(ret *ast.Return) {
	v := g.genExpression(ret.Value)
	g.block.NewRet(v.value)
}

// genVarDef lowers a local variable: alloca in the current block, store the
// initial value.
func (g *Generator) genVarDef(def *ast.VarDef) {
	value := g.genExpression(def.Value)

	slot := g.block.NewAlloca(g.llType(def.Type))
	slot.SetName(def.Name)
	g.block.NewStore(value.value, slot)

	g.scope.vars[def.Name] = &varRef{typ: def.Type, ptr: slot}
}

// genIf lowers an if/else chain into conditional branches with a common
// merge block.
func (g *Generator) genIf(stmt *ast.If) {
	cond := g.genExpression(stmt.Cond)

	thenBlock := g.nextBlock("if.then")
	mergeBlock := g.nextBlock("if.end")

	if stmt.Else != nil {
		elseBlock := g.nextBlock("if.else")
		g.block.NewCondBr(cond.value, thenBlock, elseBlock)

		g.block = elseBlock
		g.genStatement(stmt.Else)
		if g.block.Term == nil {
			g.block.NewBr(mergeBlock)
		}
	} else {
		g.block.NewCondBr(cond.value, thenBlock, mergeBlock)
	}

	g.block = thenBlock
	g.genBlock(stmt.Then)
	if g.block.Term == nil {
		g.block.NewBr(mergeBlock)
	}

	g.block = mergeBlock
	// Both arms returned: the merge block is unreachable but still needs a
	// terminator to be valid IR.
	if bothArmsReturn(stmt) {
		g.block.NewUnreachable()
	}
}

func bothArmsReturn(stmt *ast.If) bool {
	if stmt.Else == nil {
		return false
	}
	return blockReturns(stmt.Then) && stmtReturnsCG(stmt.Else)
}

func blockReturns(block *ast.Block) bool {
	for _, s := range block.Stmts {
		if stmtReturnsCG(s) {
			return true
		}
	}
	return false
}

func stmtReturnsCG(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.Return:
		return true
	case *ast.Block:
		return blockReturns(s)
	case *ast.If:
		return bothArmsReturn(s)
	}
	return false
}
