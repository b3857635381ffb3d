// Package ast defines the abstract syntax tree produced by the parser and
// consumed by semantic analysis and code generation. Nodes carry the
// position of their first token so later stages can report positioned
// diagnostics without re-lexing.
package ast
