package token

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int

const (
	// Single character tokens.
	OpenParen  Kind = iota // (
	CloseParen             // )
	OpenBrace              // {
	CloseBrace             // }
	OpenBrack              // [
	CloseBrack             // ]
	Semi                   // ;
	Comma                  // ,
	Plus                   // +
	Minus                  // -
	Slash                  // /
	Star                   // *
	Eq                     // =
	Bang                   // !
	Colon                  // :
	Greater                // >
	Lesser                 // <
	Question               // ?
	Amp                    // &
	Pipe                   // |
	Hash                   // #

	// Multiple character tokens.
	EqEq     // ==
	BangEq   // !=
	TArrow   // ->
	EArrow   // =>
	AmpAmp   // &&
	PipePipe // ||

	Keyword    // a reserved word, see Word
	Identifier // Text holds the name
	Number     // Int holds the value
	Float      // Fl holds the value
	String     // Text holds the decoded value
	Char       // Ch holds the value

	EOF
)

// Word is a reserved keyword.
type Word int

const (
	KwFn Word = iota // function
	KwExtern
	KwVar
	KwUnsafe
	KwReturn
	KwAs
	KwIf
	KwElse
	KwTrue
	KwFalse
	KwInline
	KwNull
	KwFor
	KwLoop
)

// Keywords maps source spellings to their reserved word.
var Keywords = map[string]Word{
	"function": KwFn,
	"extern":   KwExtern,
	"var":      KwVar,
	"unsafe":   KwUnsafe,
	"return":   KwReturn,
	"as":       KwAs,
	"if":       KwIf,
	"else":     KwElse,
	"true":     KwTrue,
	"false":    KwFalse,
	"inline":   KwInline,
	"null":     KwNull,
	"for":      KwFor,
	"loop":     KwLoop,
}

var kindNames = map[Kind]string{
	OpenParen:  "(",
	CloseParen: ")",
	OpenBrace:  "{",
	CloseBrace: "}",
	OpenBrack:  "[",
	CloseBrack: "]",
	Semi:       ";",
	Comma:      ",",
	Plus:       "+",
	Minus:      "-",
	Slash:      "/",
	Star:       "*",
	Eq:         "=",
	Bang:       "!",
	Colon:      ":",
	Greater:    ">",
	Lesser:     "<",
	Question:   "?",
	Amp:        "&",
	Pipe:       "|",
	Hash:       "#",
	EqEq:       "==",
	BangEq:     "!=",
	TArrow:     "->",
	EArrow:     "=>",
	AmpAmp:     "&&",
	PipePipe:   "||",
	Keyword:    "keyword",
	Identifier: "identifier",
	Number:     "number",
	Float:      "float",
	String:     "string",
	Char:       "character",
	EOF:        "end of file",
}

// String returns a human readable spelling for diagnostics.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var wordNames = map[Word]string{
	KwFn:     "function",
	KwExtern: "extern",
	KwVar:    "var",
	KwUnsafe: "unsafe",
	KwReturn: "return",
	KwAs:     "as",
	KwIf:     "if",
	KwElse:   "else",
	KwTrue:   "true",
	KwFalse:  "false",
	KwInline: "inline",
	KwNull:   "null",
	KwFor:    "for",
	KwLoop:   "loop",
}

// String returns the source spelling of the keyword.
func (w Word) String() string {
	if s, ok := wordNames[w]; ok {
		return s
	}
	return fmt.Sprintf("Word(%d)", int(w))
}

// Position locates a token within its source file.
type Position struct {
	// Start is the rune offset of the first character.
	Start int
	// End is the rune offset one past the last character.
	End int
	// Line is the 1-based line number.
	Line int
}

// Token is a single lexical unit with its location.
type Token struct {
	Kind Kind
	Pos  Position

	// Word is set when Kind is Keyword.
	Word Word
	// Text is set for Identifier and String tokens.
	Text string
	// Int is set for Number tokens.
	Int int64
	// Fl is set for Float tokens.
	Fl float64
	// Ch is set for Char tokens.
	Ch rune
}

// IsKeyword reports whether the token is the given reserved word.
func (t Token) IsKeyword(w Word) bool {
	return t.Kind == Keyword && t.Word == w
}

// String returns the spelling used in "expected X, found Y" diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case Keyword:
		return "`" + t.Word.String() + "`"
	case Identifier:
		return "`" + t.Text + "`"
	case String:
		return "string literal"
	case Char:
		return "character literal"
	case Number, Float:
		return "numeric literal"
	case EOF:
		return "end of file"
	default:
		return "`" + t.Kind.String() + "`"
	}
}
