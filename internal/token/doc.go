// Package token defines the lexical vocabulary of the Fluid language: token
// kinds, reserved words, and source positions shared by the lexer and parser.
package token
