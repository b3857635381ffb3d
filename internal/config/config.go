package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/fluid-lang/fluid/internal/diag"
)

// FileName is the project file the loader looks for in the working
// directory.
const FileName = "fluid.hcl"

// Toolchain carries the settings the driver hands to the system C
// compiler.
type Toolchain struct {
	// CC is the compiler used for assembling and linking emitted IR.
	CC string

	// OptLevel is one of O0..O3, passed through as -O<n>.
	OptLevel string

	// Target is an optional cross-compilation triple.
	Target string
}

// Config is the loaded project configuration.
type Config struct {
	Toolchain Toolchain
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	return &Config{
		Toolchain: Toolchain{
			CC:       "clang",
			OptLevel: "O0",
		},
	}
}

var toolchainSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "cc"},
		{Name: "opt_level"},
		{Name: "target"},
	},
}

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "toolchain"},
	},
}

// Load reads the project file from dir. A missing file is not an error;
// the defaults apply.
func Load(dir string) (*Config, diag.List) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, hclDiags := parser.ParseHCLFile(path)
	if hclDiags.HasErrors() {
		return nil, fromHCL(path, hclDiags)
	}

	cfg := Default()
	content, hclDiags := file.Body.Content(rootSchema)
	if hclDiags.HasErrors() {
		return nil, fromHCL(path, hclDiags)
	}

	block, hclDiags := findUniqueBlock(content.Blocks, "toolchain")
	if hclDiags.HasErrors() {
		return nil, fromHCL(path, hclDiags)
	}
	if block == nil {
		return cfg, nil
	}

	attrs, hclDiags := block.Body.Content(toolchainSchema)
	if hclDiags.HasErrors() {
		return nil, fromHCL(path, hclDiags)
	}

	var diags diag.List
	for name, attr := range attrs.Attributes {
		value, hclDiags := attr.Expr.Value(nil)
		if hclDiags.HasErrors() {
			diags = append(diags, fromHCL(path, hclDiags)...)
			continue
		}

		var s string
		if value.Type() != cty.String {
			diags = append(diags, configError(path, attr.Range.Start.Line,
				fmt.Sprintf("Attribute `%s` must be a string.", name)))
			continue
		}
		if err := gocty.FromCtyValue(value, &s); err != nil {
			diags = append(diags, configError(path, attr.Range.Start.Line, err.Error()))
			continue
		}

		switch name {
		case "cc":
			cfg.Toolchain.CC = s
		case "opt_level":
			if !validOptLevel(s) {
				diags = append(diags, configError(path, attr.Range.Start.Line,
					fmt.Sprintf("Invalid optimisation level `%s`; expected one of O0, O1, O2, O3.", s)))
				continue
			}
			cfg.Toolchain.OptLevel = s
		case "target":
			cfg.Toolchain.Target = s
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return cfg, diags
}

func validOptLevel(s string) bool {
	switch s {
	case "O0", "O1", "O2", "O3":
		return true
	}
	return false
}

// findUniqueBlock returns the single block of the given type, diagnosing
// duplicates. No block at all returns nil without error.
func findUniqueBlock(blocks hcl.Blocks, name string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics

	for _, block := range blocks {
		if block.Type != name {
			continue
		}
		if found != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate \"" + name + "\" block",
				Detail:   "Only one \"" + name + "\" block is allowed.",
				Subject:  &block.DefRange,
			})
		}
		found = block
	}

	return found, diags
}

// fromHCL converts HCL diagnostics into the toolchain's own format.
func fromHCL(path string, hclDiags hcl.Diagnostics) diag.List {
	var diags diag.List
	for _, d := range hclDiags {
		message := d.Summary
		if d.Detail != "" {
			message += ": " + d.Detail
		}
		line := 0
		if d.Subject != nil {
			line = d.Subject.Start.Line
		}
		diags = append(diags, &diag.Diagnostic{
			Stage:    diag.StageConfig,
			Severity: diag.Error,
			Message:  message,
			File:     path,
			Line:     line,
		})
	}
	return diags
}

func configError(path string, line int, message string) *diag.Diagnostic {
	return &diag.Diagnostic{
		Stage:    diag.StageConfig,
		Severity: diag.Error,
		Message:  message,
		File:     path,
		Line:     line,
	}
}
