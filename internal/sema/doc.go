// Package sema performs semantic analysis over the AST: scoped name
// resolution through a symbol table and type checking of declarations,
// statements, and expressions. Code generation assumes a unit that passed
// this package without errors.
package sema
