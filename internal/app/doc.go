// Package app ties the toolchain together: it owns the logger, loads the
// project configuration and dispatches the run, build, check and repl
// commands over the compiler pipeline and the C compiler driver.
package app
