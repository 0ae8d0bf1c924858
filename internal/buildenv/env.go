// Package buildenv models the build context a pre-build hook runs against:
// the variables the outer build system exposes and the mutations the hook
// makes to program name, include paths and source directories.
package buildenv

import (
	"os"
	"strings"
)

// Well-known variable names.
const (
	VarBoard      = "BOARD"
	VarBuildFlags = "BUILD_FLAGS"
	VarBuildDir   = "BUILD_DIR"
	VarProjectDir = "PROJECT_DIR"
)

// maxSubstDepth bounds recursive expansion of self-referencing variables.
const maxSubstDepth = 16

// Env is the build context handed to a pre-build hook by its host.
type Env interface {
	BuildFlags() string
	Board() string
	Subst(s string) string
	SetProgName(name string)
	AppendIncludePath(dirs ...string)
	BuildSources(variantDir, srcDir string)
}

// SourceDir is an additional directory of buildable sources.
type SourceDir struct {
	VariantDir string `json:"variant_dir" yaml:"variant_dir" toml:"variant_dir"`
	SrcDir     string `json:"src_dir" yaml:"src_dir" toml:"src_dir"`
}

// Environment is an in-memory Env. Its exported state is what gets written
// back to the outer build once the hook is done.
type Environment struct {
	Vars       map[string]string `json:"vars" yaml:"vars" toml:"vars"`
	ProgName   string            `json:"prog_name,omitempty" yaml:"prog_name,omitempty" toml:"prog_name,omitempty"`
	CPPPath    []string          `json:"cpppath" yaml:"cpppath" toml:"cpppath"`
	SourceDirs []SourceDir       `json:"source_dirs" yaml:"source_dirs" toml:"source_dirs"`
}

var _ Env = (*Environment)(nil)

// New returns an empty Environment.
func New() *Environment {
	return &Environment{Vars: make(map[string]string)}
}

// Set assigns a variable.
func (e *Environment) Set(name, value string) {
	if e.Vars == nil {
		e.Vars = make(map[string]string)
	}
	e.Vars[name] = value
}

func (e *Environment) BuildFlags() string { return e.Vars[VarBuildFlags] }

func (e *Environment) Board() string { return e.Vars[VarBoard] }

// Subst expands $VAR and ${VAR} references. Values that themselves contain
// references are expanded again. Unknown variables expand to "" and $$ is a
// literal $.
func (e *Environment) Subst(s string) string {
	return e.subst(s, 0)
}

func (e *Environment) subst(s string, depth int) string {
	if depth >= maxSubstDepth || !strings.Contains(s, "$") {
		return s
	}
	parts := strings.Split(s, "$$")
	for i, p := range parts {
		parts[i] = os.Expand(p, func(name string) string {
			return e.subst(e.Vars[name], depth+1)
		})
	}
	return strings.Join(parts, "$")
}

func (e *Environment) SetProgName(name string) { e.ProgName = name }

// AppendIncludePath appends after the existing entries. Duplicates are kept.
func (e *Environment) AppendIncludePath(dirs ...string) {
	e.CPPPath = append(e.CPPPath, dirs...)
}

// BuildSources registers srcDir as a directory of extra sources built into
// variantDir. Registering the same pair twice registers it twice.
func (e *Environment) BuildSources(variantDir, srcDir string) {
	e.SourceDirs = append(e.SourceDirs, SourceDir{VariantDir: variantDir, SrcDir: srcDir})
}
