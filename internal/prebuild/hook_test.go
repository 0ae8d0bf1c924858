package prebuild_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mavesp8266/prebuild/internal/buildenv"
	"github.com/mavesp8266/prebuild/internal/buildflags"
	"github.com/mavesp8266/prebuild/internal/firmware"
	"github.com/mavesp8266/prebuild/internal/kconfig"
	"github.com/mavesp8266/prebuild/internal/prebuild"
)

type fakeGenerator struct {
	err     error
	headers []string
}

func (g *fakeGenerator) Generate(_ context.Context, headerPath string) (*kconfig.Result, error) {
	g.headers = append(g.headers, headerPath)
	if g.err != nil {
		return &kconfig.Result{HeaderPath: headerPath}, g.err
	}
	return &kconfig.Result{HeaderPath: headerPath}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEnv(flags string) *buildenv.Environment {
	env := buildenv.New()
	env.Set(buildenv.VarBoard, "esp01m")
	env.Set(buildenv.VarBuildFlags, flags)
	env.Set(buildenv.VarProjectDir, "/src/mavesp")
	env.Set(buildenv.VarBuildDir, "$PROJECT_DIR/.pio/build/$BOARD")
	env.CPPPath = []string{"include", "lib/mavlink"}
	env.SourceDirs = []buildenv.SourceDir{{VariantDir: "src", SrcDir: "src"}}
	return env
}

const buildDir = "/src/mavesp/.pio/build/esp01m"

func TestRunSuccess(t *testing.T) {
	env := newEnv("-DVERSION_STRING=1.2.2 -DMAVLINK_V2 -Os")
	gen := &fakeGenerator{}
	hook := prebuild.New(gen, firmware.NameOptions{}, quietLogger())

	require.NoError(t, hook.Run(context.Background(), env))

	assert.Equal(t, prebuild.StateDone, hook.State())
	assert.Equal(t, "mavesp-esp01m-1.2.2", env.ProgName)
	assert.Equal(t, []string{buildDir + "/config.h"}, gen.headers)
	assert.Equal(t, []string{"include", "lib/mavlink", buildDir}, env.CPPPath)
	assert.Equal(t, []buildenv.SourceDir{
		{VariantDir: "src", SrcDir: "src"},
		{VariantDir: buildDir, SrcDir: buildDir},
	}, env.SourceDirs)
}

func TestRunGeneratorFailureLeavesPathsUntouched(t *testing.T) {
	env := newEnv("-DVERSION_STRING=1.2.2")
	genErr := &kconfig.ExitError{Code: 1, Stderr: "boom"}
	hook := prebuild.New(&fakeGenerator{err: genErr}, firmware.NameOptions{}, quietLogger())

	err := hook.Run(context.Background(), env)
	require.Error(t, err)

	var exitErr *kconfig.ExitError
	assert.True(t, errors.As(err, &exitErr))
	assert.Equal(t, prebuild.StateAborted, hook.State())
	assert.Equal(t, []string{"include", "lib/mavlink"}, env.CPPPath)
	assert.Equal(t, []buildenv.SourceDir{{VariantDir: "src", SrcDir: "src"}}, env.SourceDirs)
	// The name is set before the generator runs.
	assert.Equal(t, "mavesp-esp01m-1.2.2", env.ProgName)
}

func TestRunMissingVersion(t *testing.T) {
	env := newEnv("-DMAVLINK_V2")
	hook := prebuild.New(&fakeGenerator{}, firmware.NameOptions{}, quietLogger())

	require.NoError(t, hook.Run(context.Background(), env))
	assert.Equal(t, "mavesp-esp01m-None", env.ProgName)
}

func TestRunMissingVersionFailPolicy(t *testing.T) {
	env := newEnv("-DMAVLINK_V2")
	gen := &fakeGenerator{}
	hook := prebuild.New(gen, firmware.NameOptions{OnMissing: firmware.MissingFail}, quietLogger())

	err := hook.Run(context.Background(), env)
	assert.ErrorIs(t, err, firmware.ErrMissingVersion)
	assert.Empty(t, gen.headers)
	assert.Empty(t, env.ProgName)
	assert.Equal(t, []string{"include", "lib/mavlink"}, env.CPPPath)
}

func TestRunMalformedFlags(t *testing.T) {
	env := newEnv(`-DVERSION_STRING="1.2.2`)
	gen := &fakeGenerator{}
	hook := prebuild.New(gen, firmware.NameOptions{}, quietLogger())

	err := hook.Run(context.Background(), env)
	assert.ErrorIs(t, err, buildflags.ErrUnterminatedQuote)
	assert.Equal(t, prebuild.StateAborted, hook.State())
	assert.Empty(t, gen.headers)
	assert.Empty(t, env.ProgName)
}

func TestRunTwiceDoesNotDeduplicate(t *testing.T) {
	env := newEnv("-DVERSION_STRING=1.2.2")
	hook := prebuild.New(&fakeGenerator{}, firmware.NameOptions{}, quietLogger())

	require.NoError(t, hook.Run(context.Background(), env))
	require.NoError(t, hook.Run(context.Background(), env))

	assert.Equal(t, []string{"include", "lib/mavlink", buildDir, buildDir}, env.CPPPath)
	assert.Len(t, env.SourceDirs, 3)
	assert.Equal(t, buildDir, env.SourceDirs[2].SrcDir)
}

func TestRunWithoutGenerator(t *testing.T) {
	env := newEnv("-DVERSION_STRING=1.2.2")
	hook := prebuild.New(nil, firmware.NameOptions{}, quietLogger())

	err := hook.Run(context.Background(), env)
	assert.ErrorIs(t, err, kconfig.ErrNoCommand)
	assert.Equal(t, []string{"include", "lib/mavlink"}, env.CPPPath)
}

func TestRunWithNilRunner(t *testing.T) {
	env := newEnv("-DVERSION_STRING=1.2.2")
	var runner *kconfig.Runner
	hook := prebuild.New(runner, firmware.NameOptions{}, quietLogger())

	err := hook.Run(context.Background(), env)
	assert.ErrorIs(t, err, kconfig.ErrNoCommand)
	assert.Equal(t, prebuild.StateAborted, hook.State())
	assert.Equal(t, []string{"include", "lib/mavlink"}, env.CPPPath)
}

func TestProgramName(t *testing.T) {
	env := newEnv("")
	defines := buildflags.Defines{"OTHER": "x", prebuild.VersionDefine: "1.2.2"}

	name, err := prebuild.ProgramName(env, defines, firmware.NameOptions{})
	require.NoError(t, err)
	assert.Equal(t, "mavesp-esp01m-1.2.2", name)
}

func TestStateBeforeRun(t *testing.T) {
	var hook prebuild.Hook
	assert.Equal(t, prebuild.StateNotStarted, hook.State())
}
