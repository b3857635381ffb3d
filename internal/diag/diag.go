package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
)

// Stage names the pipeline stage a diagnostic originated from. It is shown
// in the report header, e.g. "error[lex]".
type Stage string

const (
	StageLex     Stage = "lex"
	StageParse   Stage = "parse"
	StageSema    Stage = "sema"
	StageCodegen Stage = "codegen"
	StageConfig  Stage = "config"
)

// Severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

// Diagnostic is a single positioned report about a source file.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Message  string

	// File is the path shown to the user, e.g. "main.fluid" or "<stdin>".
	File string
	// Line is the 1-based line the problem was found on, 0 if unknown.
	Line int
	// Source is the full text of the offending line, without its newline.
	Source string
}

// Error implements the error interface so a single Diagnostic can travel
// through error-returning call chains.
func (d *Diagnostic) Error() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", d.File, d.Line, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.File, d.Message)
}

// List is an ordered collection of diagnostics accumulated by a pipeline
// stage.
type List []*Diagnostic

// HasErrors reports whether the list contains at least one error-severity
// diagnostic.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Error implements the error interface by joining the individual reports.
func (l List) Error() string {
	msgs := make([]string, 0, len(l))
	for _, d := range l {
		msgs = append(msgs, d.Error())
	}
	return strings.Join(msgs, "; ")
}

// Append adds diagnostics from another list, preserving order.
func (l List) Append(more List) List {
	return append(l, more...)
}

var (
	errorHeader = color.Style{color.FgRed, color.OpBold}
	warnHeader  = color.Style{color.FgYellow, color.OpBold}
	frame       = color.C256(238)
	gutter      = color.C256(244)
)

// Render writes the human readable report for a single diagnostic:
//
//	error[lex]: Unexpected character `@`.
//	  ───> Source: main.fluid
//	   3 │ var x: number = @;
func (d *Diagnostic) Render(w io.Writer) {
	header := errorHeader.Sprintf("error[%s]", d.Stage)
	if d.Severity == Warning {
		header = warnHeader.Sprintf("warning[%s]", d.Stage)
	}

	fmt.Fprintf(w, "%s: %s\n", header, d.Message)
	fmt.Fprintf(w, "  %s Source: %s\n", frame.Sprint("───>"), d.File)
	if d.Line > 0 {
		fmt.Fprintf(w, "%s %s %s\n", gutter.Sprintf("%4d", d.Line), frame.Sprint("│"), d.Source)
	}
	fmt.Fprintln(w)
}

// Render writes every diagnostic in the list to w.
func (l List) Render(w io.Writer) {
	for _, d := range l {
		d.Render(w)
	}
}

// SourceLine extracts the 1-based line from code for use as the Source
// field. It returns "" when the line is out of range.
func SourceLine(code string, line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(code, "\n")
	if line > len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[line-1], "\r")
}
