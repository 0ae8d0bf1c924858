// Package prebuild implements the hook the firmware build runs before
// compiling: it names the firmware image, generates config.h from Kconfig
// and adds the build directory to the include and source paths.
package prebuild

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mavesp8266/prebuild/internal/buildenv"
	"github.com/mavesp8266/prebuild/internal/buildflags"
	"github.com/mavesp8266/prebuild/internal/firmware"
	"github.com/mavesp8266/prebuild/internal/kconfig"
)

// VersionDefine is the build-flag define holding the firmware version.
const VersionDefine = "VERSION_STRING"

// State is how far a hook run got.
type State string

const (
	StateNotStarted      State = "not-started"
	StateFlagsParsed     State = "flags-parsed"
	StateNameSet         State = "name-set"
	StateConfigGenerated State = "config-generated"
	StatePathsRegistered State = "paths-registered"
	StateDone            State = "done"
	StateAborted         State = "aborted"
)

// Generator produces the configuration header.
type Generator interface {
	Generate(ctx context.Context, headerPath string) (*kconfig.Result, error)
}

type Hook struct {
	Generator Generator
	Name      firmware.NameOptions
	Logger    *slog.Logger

	state State
}

// New creates a hook that generates the header with gen.
func New(gen Generator, name firmware.NameOptions, logger *slog.Logger) *Hook {
	return &Hook{Generator: gen, Name: name, Logger: logger, state: StateNotStarted}
}

// State returns the state reached by the last Run.
func (h *Hook) State() State {
	if h.state == "" {
		return StateNotStarted
	}
	return h.state
}

// Run executes the hook against env. The first failing step aborts the run;
// nothing after it touches env.
func (h *Hook) Run(ctx context.Context, env buildenv.Env) error {
	logger := h.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h.state = StateNotStarted

	defines, err := ParseDefines(env.BuildFlags())
	if err != nil {
		return h.abort(fmt.Errorf("parse build flags: %w", err))
	}
	h.advance(logger, StateFlagsParsed, "defines", len(defines))

	name, err := ProgramName(env, defines, h.Name)
	if err != nil {
		return h.abort(fmt.Errorf("firmware name: %w", err))
	}
	env.SetProgName(name)
	h.advance(logger, StateNameSet, "name", name)

	buildDir := env.Subst("$" + buildenv.VarBuildDir)
	if h.Generator == nil {
		return h.abort(fmt.Errorf("generate config: %w", kconfig.ErrNoCommand))
	}
	if _, err := h.Generator.Generate(ctx, kconfig.HeaderPath(buildDir)); err != nil {
		return h.abort(fmt.Errorf("generate config: %w", err))
	}
	h.advance(logger, StateConfigGenerated, "build_dir", buildDir)

	env.AppendIncludePath(buildDir)
	env.BuildSources(buildDir, buildDir)
	h.advance(logger, StatePathsRegistered, "dir", buildDir)

	h.state = StateDone
	logger.Info("Pre-build hook complete", "name", name, "build_dir", buildDir)
	return nil
}

func (h *Hook) advance(logger *slog.Logger, s State, args ...any) {
	h.state = s
	logger.Debug("Pre-build step done", append([]any{"state", string(s)}, args...)...)
}

func (h *Hook) abort(err error) error {
	h.state = StateAborted
	return err
}

// ParseDefines parses raw build flags into the define mapping.
func ParseDefines(rawFlags string) (buildflags.Defines, error) {
	flags, err := buildflags.ParseFlags(rawFlags)
	if err != nil {
		return nil, err
	}
	return flags.Defines(), nil
}

// ProgramName computes the firmware name for env's board from defines.
func ProgramName(env buildenv.Env, defines buildflags.Defines, opts firmware.NameOptions) (string, error) {
	version, ok := defines.Lookup(VersionDefine)
	return firmware.Name(env.Board(), version, ok, opts)
}
