// Package config loads the optional fluid.hcl project file. It only
// carries toolchain settings today: which C compiler drives assembly and
// linking, the optimisation level, and an optional target triple. When no
// project file exists, sensible defaults apply.
package config
