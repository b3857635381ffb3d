// Package diag defines the compiler's diagnostic type and its terminal
// rendering. Every stage of the pipeline reports user-facing problems as
// positioned diagnostics rather than errors, so a single bad file produces
// one report per problem instead of stopping at the first.
package diag
