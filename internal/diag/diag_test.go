package diag

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderShowsStageFileAndSource(t *testing.T) {
	d := &Diagnostic{
		Stage:    StageLex,
		Severity: Error,
		Message:  "Unexpected character `@`.",
		File:     "main.fluid",
		Line:     3,
		Source:   "var x: number = @;",
	}

	var buf bytes.Buffer
	d.Render(&buf)

	out := buf.String()
	assert.Contains(t, out, "error[lex]")
	assert.Contains(t, out, "Unexpected character `@`.")
	assert.Contains(t, out, "Source: main.fluid")
	assert.Contains(t, out, "3")
	assert.Contains(t, out, "var x: number = @;")
}

func TestRenderWithoutLineOmitsGutter(t *testing.T) {
	d := &Diagnostic{
		Stage:   StageConfig,
		Message: "Invalid optimisation level `O9`.",
		File:    "fluid.hcl",
	}

	var buf bytes.Buffer
	d.Render(&buf)
	assert.Contains(t, buf.String(), "error[config]")
	assert.NotContains(t, buf.String(), "│")
}

func TestHasErrors(t *testing.T) {
	var l List
	assert.False(t, l.HasErrors())

	l = append(l, &Diagnostic{Severity: Warning, Message: "w"})
	assert.False(t, l.HasErrors())

	l = append(l, &Diagnostic{Severity: Error, Message: "e"})
	assert.True(t, l.HasErrors())
}

func TestListError(t *testing.T) {
	l := List{
		{Stage: StageParse, Severity: Error, Message: "first", File: "a.fluid", Line: 1},
		{Stage: StageParse, Severity: Error, Message: "second", File: "a.fluid"},
	}
	assert.Equal(t, "a.fluid:1: first; a.fluid: second", l.Error())
}

func TestSourceLine(t *testing.T) {
	code := "one\ntwo\r\nthree"
	assert.Equal(t, "one", SourceLine(code, 1))
	assert.Equal(t, "two", SourceLine(code, 2))
	assert.Equal(t, "three", SourceLine(code, 3))
	assert.Equal(t, "", SourceLine(code, 0))
	assert.Equal(t, "", SourceLine(code, 9))
}
