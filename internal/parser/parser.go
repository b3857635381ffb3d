package parser

import (
	"fmt"

	"github.com/fluid-lang/fluid/internal/ast"
	"github.com/fluid-lang/fluid/internal/diag"
	"github.com/fluid-lang/fluid/internal/token"
)

// Binary precedence ladder, loosest first:
//
//	assignment   =
//	or           ||
//	and          &&
//	equality     ==  !=
//	comparison   <  >
//	term         +  -
//	factor       *  /
//	unary        -  !
//	primary      literals, identifiers, calls, parens

// Parser holds the internal state while building the AST from the token
// stream.
type Parser struct {
	file string
	code string

	tokens []token.Token
	index  int

	diags diag.List
}

// bailout is the panic payload used to unwind to the nearest recovery
// point after a syntax error has been reported.
type bailout struct{}

// New creates a parser for a token stream. code and file are used only for
// diagnostics.
func New(tokens []token.Token, code, file string) *Parser {
	return &Parser{file: file, code: code, tokens: tokens}
}

// Run parses the whole stream into a list of top-level statements. On a
// syntax error the parser reports a diagnostic and resynchronises at the
// next statement boundary, so all errors in a file surface in one pass.
func (p *Parser) Run() ([]ast.Stmt, diag.List) {
	var stmts []ast.Stmt

	for !p.atEOF() {
		stmt := p.parseStatementRecover()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	return stmts, p.diags
}

// parseStatementRecover parses one statement, converting a reported syntax
// error into a nil statement after skipping to the next boundary.
func (p *Parser) parseStatementRecover() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(bailout); !ok {
				panic(r)
			}
			stmt = nil
			p.synchronize()
		}
	}()
	return p.parseStatement()
}

func (p *Parser) parseStatement() ast.Stmt {
	tok := p.peek()
	switch {
	case tok.IsKeyword(token.KwReturn):
		return p.parseReturn()
	case tok.IsKeyword(token.KwIf):
		return p.parseIf()
	case tok.IsKeyword(token.KwVar):
		return p.parseVarDef()
	case tok.IsKeyword(token.KwFor), tok.IsKeyword(token.KwLoop):
		p.errorf("`%s` loops are not supported yet.", tok.Word)
		p.advance() // consume the keyword so recovery makes progress
		panic(bailout{})
	case tok.IsKeyword(token.KwFn):
		return p.parseFnDef()
	case tok.IsKeyword(token.KwExtern):
		return p.parseExtern()
	case tok.Kind == token.OpenBrace:
		return p.parseBlock()
	default:
		return &ast.ExprStmt{X: p.parseExpressionStatement()}
	}
}

// parseFnDef parses `function name(args) [-> type] { ... }`.
func (p *Parser) parseFnDef() ast.Stmt {
	proto := p.parseProto()
	body := p.parseBlock()

	return &ast.FuncDef{Proto: proto, Body: body}
}

// parseProto parses a function signature, shared by definitions and extern
// blocks. A missing return type defaults to void.
func (p *Parser) parseProto() *ast.Prototype {
	pos := p.peek().Pos
	p.expectKeyword(token.KwFn)

	name := p.expectIdentifier("a function name")
	p.expect(token.OpenParen)

	var args []ast.Arg
	for p.peek().Kind != token.CloseParen {
		argName := p.expectIdentifier("an argument name")
		p.expect(token.Colon)
		argType := p.parseType()

		if p.peek().Kind != token.CloseParen {
			p.expect(token.Comma)
		}

		args = append(args, ast.Arg{Name: argName, Type: argType})
	}
	p.expect(token.CloseParen)

	ret := ast.Type{}
	if p.peek().Kind == token.TArrow {
		p.advance()
		ret = p.parseType()
	}

	return &ast.Prototype{Name: name, Args: args, Return: ret, Position: pos}
}

// parseType parses `void number float string bool char`, optionally
// suffixed with `[]` for array types.
func (p *Parser) parseType() ast.Type {
	tok := p.peek()
	if tok.Kind != token.Identifier {
		p.errorf("Expected a type, found %s.", tok)
		panic(bailout{})
	}

	kind, ok := ast.Basics[tok.Text]
	if !ok {
		p.errorf("Unknown type `%s`.", tok.Text)
		panic(bailout{})
	}
	p.advance()

	typ := ast.Type{Kind: kind}
	if p.peek().Kind == token.OpenBrack {
		p.advance()
		p.expect(token.CloseBrack)
		typ.Array = true
	}
	return typ
}

// parseExtern parses `extern { proto; proto; ... }`.
func (p *Parser) parseExtern() ast.Stmt {
	pos := p.peek().Pos
	p.expectKeyword(token.KwExtern)
	p.expect(token.OpenBrace)

	var protos []*ast.Prototype
	for p.peek().Kind != token.CloseBrace {
		if p.atEOF() {
			p.errorf("Expected `}` to close the extern block.")
			panic(bailout{})
		}
		protos = append(protos, p.parseProto())
		p.expect(token.Semi)
	}
	p.expect(token.CloseBrace)

	return &ast.ExternDef{Protos: protos, Position: pos}
}

func (p *Parser) parseBlock() *ast.Block {
	pos := p.peek().Pos
	p.expect(token.OpenBrace)

	var stmts []ast.Stmt
	for p.peek().Kind != token.CloseBrace {
		if p.atEOF() {
			p.errorf("Expected `}` to close the block.")
			panic(bailout{})
		}
		stmt := p.parseStatementRecover()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.expect(token.CloseBrace)

	return &ast.Block{Stmts: stmts, Position: pos}
}

// parseVarDef parses `var name: type = expr;`.
func (p *Parser) parseVarDef() ast.Stmt {
	pos := p.peek().Pos
	p.expectKeyword(token.KwVar)

	name := p.expectIdentifier("a variable name")
	p.expect(token.Colon)
	typ := p.parseType()
	p.expect(token.Eq)
	value := p.parseExpression()
	p.expect(token.Semi)

	return &ast.VarDef{Name: name, Type: typ, Value: value, Position: pos}
}

// parseIf parses `if (cond) block [else if ... | else block]`.
func (p *Parser) parseIf() ast.Stmt {
	pos := p.peek().Pos
	p.expectKeyword(token.KwIf)

	p.expect(token.OpenParen)
	cond := p.parseExpression()
	p.expect(token.CloseParen)

	body := p.parseBlock()

	var alt ast.Stmt
	if p.peek().IsKeyword(token.KwElse) {
		p.advance()
		alt = p.parseStatement()
	}

	return &ast.If{Cond: cond, Then: body, Else: alt, Position: pos}
}

func (p *Parser) parseReturn() ast.Stmt {
	pos := p.peek().Pos
	p.expectKeyword(token.KwReturn)

	value := p.parseExpression()
	p.expect(token.Semi)

	return &ast.Return{Value: value, Position: pos}
}

func (p *Parser) parseExpressionStatement() ast.Expr {
	expr := p.parseExpression()
	p.expect(token.Semi)
	return expr
}

func (p *Parser) parseExpression() ast.Expr {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() ast.Expr {
	node := p.parseOr()

	if p.peek().Kind == token.Eq {
		p.advance()

		value := p.parseExpression()
		ref, ok := node.(*ast.VarRef)
		if !ok {
			p.errorf("Cannot assign to this expression; only variables are assignable.")
			panic(bailout{})
		}

		return &ast.VarAssign{Name: ref.Name, Value: value, Position: ref.Position}
	}

	return node
}

func (p *Parser) parseOr() ast.Expr {
	node := p.parseAnd()

	for p.peek().Kind == token.PipePipe {
		pos := p.peek().Pos
		p.advance()

		rhs := p.parseAnd()
		node = &ast.Binary{Lhs: node, Op: ast.OpOr, Rhs: rhs, Position: pos}
	}
	return node
}

func (p *Parser) parseAnd() ast.Expr {
	node := p.parseEquality()

	for p.peek().Kind == token.AmpAmp {
		pos := p.peek().Pos
		p.advance()

		rhs := p.parseEquality()
		node = &ast.Binary{Lhs: node, Op: ast.OpAnd, Rhs: rhs, Position: pos}
	}
	return node
}

func (p *Parser) parseEquality() ast.Expr {
	node := p.parseComparison()

	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.EqEq:
			op = ast.OpEq
		case token.BangEq:
			op = ast.OpNotEq
		default:
			return node
		}
		pos := p.peek().Pos
		p.advance()

		rhs := p.parseComparison()
		node = &ast.Binary{Lhs: node, Op: op, Rhs: rhs, Position: pos}
	}
}

func (p *Parser) parseComparison() ast.Expr {
	node := p.parseTerm()

	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.Greater:
			op = ast.OpGreater
		case token.Lesser:
			op = ast.OpLesser
		default:
			return node
		}
		pos := p.peek().Pos
		p.advance()

		rhs := p.parseTerm()
		node = &ast.Binary{Lhs: node, Op: op, Rhs: rhs, Position: pos}
	}
}

func (p *Parser) parseTerm() ast.Expr {
	node := p.parseFactor()

	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.Plus:
			op = ast.OpAdd
		case token.Minus:
			op = ast.OpSub
		default:
			return node
		}
		pos := p.peek().Pos
		p.advance()

		rhs := p.parseFactor()
		node = &ast.Binary{Lhs: node, Op: op, Rhs: rhs, Position: pos}
	}
}

func (p *Parser) parseFactor() ast.Expr {
	node := p.parseUnary()

	for {
		var op ast.BinaryOp
		switch p.peek().Kind {
		case token.Star:
			op = ast.OpMul
		case token.Slash:
			op = ast.OpDiv
		default:
			return node
		}
		pos := p.peek().Pos
		p.advance()

		rhs := p.parseUnary()
		node = &ast.Binary{Lhs: node, Op: op, Rhs: rhs, Position: pos}
	}
}

func (p *Parser) parseUnary() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.Minus:
		p.advance()
		return &ast.Unary{Op: ast.OpNeg, Operand: p.parseUnary(), Position: tok.Pos}
	case token.Bang:
		p.advance()
		return &ast.Unary{Op: ast.OpNot, Operand: p.parseUnary(), Position: tok.Pos}
	default:
		return p.parsePrimary()
	}
}

// parseIdent parses a variable reference or, when followed by parens, a
// function call.
func (p *Parser) parseIdent() ast.Expr {
	tok := p.peek()
	name := p.expectIdentifier("an identifier")

	if p.peek().Kind != token.OpenParen {
		return &ast.VarRef{Name: name, Position: tok.Pos}
	}

	p.expect(token.OpenParen)
	var args []ast.Expr
	for p.peek().Kind != token.CloseParen {
		args = append(args, p.parseExpression())

		if p.peek().Kind != token.CloseParen {
			p.expect(token.Comma)
		}
	}
	p.expect(token.CloseParen)

	return &ast.Call{Name: name, Args: args, Position: tok.Pos}
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.peek()
	lit := &ast.Literal{Position: tok.Pos}

	switch {
	case tok.IsKeyword(token.KwTrue):
		p.advance()
		lit.Kind, lit.Bool = ast.LitBool, true
	case tok.IsKeyword(token.KwFalse):
		p.advance()
		lit.Kind, lit.Bool = ast.LitBool, false
	case tok.IsKeyword(token.KwNull):
		p.advance()
		lit.Kind = ast.LitNull
	case tok.Kind == token.Number:
		p.advance()
		lit.Kind, lit.Int = ast.LitNumber, tok.Int
	case tok.Kind == token.Float:
		p.advance()
		lit.Kind, lit.Float = ast.LitFloat, tok.Fl
	case tok.Kind == token.String:
		p.advance()
		lit.Kind, lit.String = ast.LitString, tok.Text
	case tok.Kind == token.Char:
		p.advance()
		lit.Kind, lit.Char = ast.LitChar, tok.Ch
	case tok.Kind == token.Identifier:
		return p.parseIdent()
	case tok.Kind == token.OpenParen:
		p.advance()
		inner := p.parseExpression()
		p.expect(token.CloseParen)
		return &ast.Paren{Inner: inner, Position: tok.Pos}
	default:
		p.errorf("Expected an expression, found %s.", tok)
		panic(bailout{})
	}

	return lit
}

func (p *Parser) peek() token.Token {
	if p.index >= len(p.tokens) {
		// The lexer always terminates the stream with EOF; guard anyway.
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.index]
}

func (p *Parser) advance() { p.index++ }

func (p *Parser) atEOF() bool { return p.peek().Kind == token.EOF }

// expect consumes the next token when it has the given kind, otherwise
// reports and unwinds.
func (p *Parser) expect(kind token.Kind) token.Token {
	tok := p.peek()
	if tok.Kind != kind {
		p.errorf("Expected `%s`, found %s.", kind, tok)
		panic(bailout{})
	}
	p.advance()
	return tok
}

func (p *Parser) expectKeyword(w token.Word) {
	tok := p.peek()
	if !tok.IsKeyword(w) {
		p.errorf("Expected `%s`, found %s.", w, tok)
		panic(bailout{})
	}
	p.advance()
}

func (p *Parser) expectIdentifier(what string) string {
	tok := p.peek()
	if tok.Kind != token.Identifier {
		p.errorf("Expected %s, found %s.", what, tok)
		panic(bailout{})
	}
	p.advance()
	return tok.Text
}

// synchronize skips tokens until a likely statement boundary: just past a
// semicolon, or just before a token that can start a statement. A keyword
// that starts a statement is only reachable after its statement consumed at
// least one token, and a leading close brace is stepped over, so recovery
// always makes progress.
func (p *Parser) synchronize() {
	first := true
	for !p.atEOF() {
		tok := p.peek()
		if tok.Kind == token.Semi {
			p.advance()
			return
		}
		if tok.Kind == token.CloseBrace && !first {
			return
		}
		if tok.Kind == token.Keyword {
			switch tok.Word {
			case token.KwFn, token.KwExtern, token.KwVar, token.KwIf, token.KwReturn:
				return
			}
		}
		p.advance()
		first = false
	}
}

func (p *Parser) errorf(format string, args ...any) {
	line := p.peek().Pos.Line
	if p.index >= len(p.tokens) && len(p.tokens) > 0 {
		line = p.tokens[len(p.tokens)-1].Pos.Line
	}
	p.diags = append(p.diags, &diag.Diagnostic{
		Stage:    diag.StageParse,
		Severity: diag.Error,
		Message:  fmt.Sprintf(format, args...),
		File:     p.file,
		Line:     line,
		Source:   diag.SourceLine(p.code, line),
	})
}
