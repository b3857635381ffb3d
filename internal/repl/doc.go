// Package repl implements the interactive session. Declarations entered at
// the prompt accumulate; statements are wrapped in a scratch entry point,
// compiled together with the accumulated declarations and executed through
// the C compiler driver. History is kept in ./history.txt.
package repl
