package ast

import "github.com/fluid-lang/fluid/internal/token"

// Expr is implemented by every expression node.
type Expr interface {
	exprNode()
	// Pos returns the position of the node's first token.
	Pos() token.Position
}

// Stmt is implemented by every statement node.
type Stmt interface {
	stmtNode()
	Pos() token.Position
}

// VarRef is a read of a named variable.
type VarRef struct {
	Name     string
	Position token.Position
}

// VarAssign assigns Value to the named variable.
type VarAssign struct {
	Name     string
	Value    Expr
	Position token.Position
}

// Call invokes a function with the given arguments.
type Call struct {
	Name     string
	Args     []Expr
	Position token.Position
}

// Binary applies Op to Lhs and Rhs.
type Binary struct {
	Lhs, Rhs Expr
	Op       BinaryOp
	Position token.Position
}

// Unary applies Op to the operand.
type Unary struct {
	Op       UnaryOp
	Operand  Expr
	Position token.Position
}

// Paren is a parenthesised expression. It is kept as a node so positions
// survive for diagnostics.
type Paren struct {
	Inner    Expr
	Position token.Position
}

// Literal is a constant expression.
type Literal struct {
	Kind     LiteralKind
	Position token.Position

	Bool   bool
	Int    int64
	Float  float64
	String string
	Char   rune
}

// LiteralKind discriminates the Literal variants.
type LiteralKind int

const (
	LitBool LiteralKind = iota
	LitNumber
	LitFloat
	LitString
	LitChar
	LitNull
)

// UnaryOp is a prefix operator.
type UnaryOp int

const (
	OpNeg UnaryOp = iota // -
	OpNot                // !
)

// BinaryOp is an infix operator, ordered by the parser's precedence ladder.
type BinaryOp int

const (
	OpAdd BinaryOp = iota // +
	OpSub                 // -
	OpMul                 // *
	OpDiv                 // /
	OpLesser              // <
	OpGreater             // >
	OpEq                  // ==
	OpNotEq               // !=
	OpAnd                 // &&
	OpOr                  // ||
)

func (o BinaryOp) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpLesser:
		return "<"
	case OpGreater:
		return ">"
	case OpEq:
		return "=="
	case OpNotEq:
		return "!="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	}
	return "?"
}

// ExprStmt is an expression evaluated for its effects.
type ExprStmt struct {
	X Expr
}

// Return exits the enclosing function with Value.
type Return struct {
	Value    Expr
	Position token.Position
}

// If executes Then when Cond is true, otherwise Else (which may be another
// If for `else if` chains, or nil).
type If struct {
	Cond     Expr
	Then     *Block
	Else     Stmt
	Position token.Position
}

// Block is a braced statement list introducing a new scope.
type Block struct {
	Stmts    []Stmt
	Position token.Position
}

// VarDef declares a typed variable with an initial value.
type VarDef struct {
	Name     string
	Type     Type
	Value    Expr
	Position token.Position
}

// FuncDef is a function declaration with a body.
type FuncDef struct {
	Proto *Prototype
	Body  *Block
}

// ExternDef declares prototypes of functions defined outside the unit.
type ExternDef struct {
	Protos   []*Prototype
	Position token.Position
}

// Prototype is a function signature.
type Prototype struct {
	Name     string
	Args     []Arg
	Return   Type
	Position token.Position
}

// Arg is a named, typed function parameter.
type Arg struct {
	Name string
	Type Type
}

func (*VarRef) exprNode()    {}
func (*VarAssign) exprNode() {}
func (*Call) exprNode()      {}
func (*Binary) exprNode()    {}
func (*Unary) exprNode()     {}
func (*Paren) exprNode()     {}
func (*Literal) exprNode()   {}

func (*ExprStmt) stmtNode()  {}
func (*Return) stmtNode()    {}
func (*If) stmtNode()        {}
func (*Block) stmtNode()     {}
func (*VarDef) stmtNode()    {}
func (*FuncDef) stmtNode()   {}
func (*ExternDef) stmtNode() {}

func (e *VarRef) Pos() token.Position    { return e.Position }
func (e *VarAssign) Pos() token.Position { return e.Position }
func (e *Call) Pos() token.Position      { return e.Position }
func (e *Binary) Pos() token.Position    { return e.Position }
func (e *Unary) Pos() token.Position     { return e.Position }
func (e *Paren) Pos() token.Position     { return e.Position }
func (e *Literal) Pos() token.Position   { return e.Position }

func (s *ExprStmt) Pos() token.Position  { return s.X.Pos() }
func (s *Return) Pos() token.Position    { return s.Position }
func (s *If) Pos() token.Position        { return s.Position }
func (s *Block) Pos() token.Position     { return s.Position }
func (s *VarDef) Pos() token.Position    { return s.Position }
func (s *FuncDef) Pos() token.Position   { return s.Proto.Position }
func (s *ExternDef) Pos() token.Position { return s.Position }
