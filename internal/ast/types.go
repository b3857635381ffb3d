package ast

// BasicKind enumerates the built-in Fluid types.
type BasicKind int

const (
	Void BasicKind = iota
	Number
	Float
	String
	Bool
	Char
)

// Type is a Fluid type: a basic type, optionally an array of it.
// The zero value is `void`.
type Type struct {
	Kind BasicKind
	// Array marks `T[]` types, as in the documented entry point
	// `main(argc: number, argv: string[]) -> number`.
	Array bool
}

// Basics maps source spellings to basic kinds.
var Basics = map[string]BasicKind{
	"void":   Void,
	"number": Number,
	"float":  Float,
	"string": String,
	"bool":   Bool,
	"char":   Char,
}

func (t Type) String() string {
	var name string
	switch t.Kind {
	case Void:
		name = "void"
	case Number:
		name = "number"
	case Float:
		name = "float"
	case String:
		name = "string"
	case Bool:
		name = "bool"
	case Char:
		name = "char"
	default:
		name = "?"
	}
	if t.Array {
		return name + "[]"
	}
	return name
}

// IsVoid reports whether the type is the non-value type.
func (t Type) IsVoid() bool { return t.Kind == Void && !t.Array }

// IsNumeric reports whether arithmetic operators apply to the type.
func (t Type) IsNumeric() bool {
	return !t.Array && (t.Kind == Number || t.Kind == Float)
}
