// Package mangle resolves unique link-level names for Fluid entities.
//
// For more about name mangling: https://en.wikipedia.org/wiki/Name_mangling
package mangle

import "github.com/fluid-lang/fluid/internal/ast"

// FunctionName mangles a function name for the given parameter types.
//
// The current scheme is the identity: extern symbols such as `puts` and the
// process entry point `main` must keep their C names, and overloading is not
// part of the language yet. The parameter types stay in the signature so
// call sites are already mangling-aware when a real scheme lands.
func FunctionName(name string, _ []ast.Type) string {
	return name
}
