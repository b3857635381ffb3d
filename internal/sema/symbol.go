package sema

import "github.com/fluid-lang/fluid/internal/ast"

// FuncSymbol is a semantic symbol for a declared or extern function.
type FuncSymbol struct {
	// Name is the mangled name used at the LLVM level.
	Name string
	Args []ast.Type
	// Return is the declared return type.
	Return ast.Type
	// Extern marks prototypes declared in an extern block.
	Extern bool
}

// VarSymbol is a semantic symbol for a variable.
type VarSymbol struct {
	Name string
	Type ast.Type
	// Initialized is true once the variable has a value. Every declaration
	// form in the language initialises, so this is currently always true,
	// matching the reference symbol table.
	Initialized bool
}

// Scope maps names to symbols, with a link to the lexically enclosing
// scope. Functions and variables live in separate namespaces.
type Scope struct {
	parent *Scope

	funcs map[string]*FuncSymbol
	vars  map[string]*VarSymbol
}

// NewScope creates a scope nested in parent. A nil parent makes the global
// scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent: parent,
		funcs:  make(map[string]*FuncSymbol),
		vars:   make(map[string]*VarSymbol),
	}
}

// DefineFunc inserts a function symbol. It reports false when the name is
// already defined in this scope.
func (s *Scope) DefineFunc(sym *FuncSymbol) bool {
	if _, exists := s.funcs[sym.Name]; exists {
		return false
	}
	s.funcs[sym.Name] = sym
	return true
}

// DefineVar inserts a variable symbol. It reports false when the name is
// already defined in this scope; shadowing an outer scope is allowed.
func (s *Scope) DefineVar(sym *VarSymbol) bool {
	if _, exists := s.vars[sym.Name]; exists {
		return false
	}
	s.vars[sym.Name] = sym
	return true
}

// LookupFunc resolves a function name through the scope chain.
func (s *Scope) LookupFunc(name string) *FuncSymbol {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.funcs[name]; ok {
			return sym
		}
	}
	return nil
}

// LookupVar resolves a variable name through the scope chain.
func (s *Scope) LookupVar(name string) *VarSymbol {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.vars[name]; ok {
			return sym
		}
	}
	return nil
}
