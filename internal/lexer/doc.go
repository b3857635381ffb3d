// Package lexer turns Fluid source text into a token stream. The scanner
// does not stop at the first problem: bad characters are reported and
// skipped so a single pass surfaces every lexical error in the file.
package lexer
