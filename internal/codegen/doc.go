// Package codegen lowers a checked AST into an LLVM IR module.
//
// The generator assumes the input passed semantic analysis: types line up,
// every name resolves and every non-void function returns on all paths. It
// only reports diagnostics for constructs that have no lowering at all,
// such as executable statements at the top level of a file.
//
// Type mapping: number is i64, float is float, string is i8*, bool is i1,
// char is i8, and T[] is a pointer to the lowering of T. Variables live in
// allocas so reads and writes are plain loads and stores; promoting them to
// registers is left to the optimizer.
package codegen
