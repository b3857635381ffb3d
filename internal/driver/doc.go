// Package driver handles everything after IR generation: writing textual
// IR to disk, handing it to the configured C compiler for assembly and
// linking, and executing built binaries with their exit code propagated
// back to the caller.
package driver
