// Package cli parses command-line arguments, validates user input and
// handles process-level concerns like exit codes. It translates the
// command surface into the application's internal configuration.
package cli
