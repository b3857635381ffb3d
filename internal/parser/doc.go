// Package parser builds the AST from the lexer's token stream using
// recursive descent. Syntax errors become positioned diagnostics and the
// parser resynchronises at statement boundaries rather than giving up.
package parser
