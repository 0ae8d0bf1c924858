package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mavesp8266/prebuild/internal/buildenv"
	"github.com/mavesp8266/prebuild/internal/firmware"
	"github.com/mavesp8266/prebuild/internal/kconfig"
)

// EnvOptions describe the build context handed over by the outer build.
// Flags override values from the environment file.
type EnvOptions struct {
	EnvFile    string            `help:"Build environment file (.json, .yaml or .toml)" type:"existingfile" env:"PREBUILD_ENV_FILE"`
	Board      string            `help:"Board identifier, e.g. esp01m" env:"PREBUILD_BOARD"`
	BuildFlags string            `help:"Raw build flags; pass with '=' since the value starts with a dash, e.g. --build-flags='-DVERSION_STRING=1.2.2 -Os'" env:"PREBUILD_BUILD_FLAGS"`
	BuildDir   string            `help:"Build output directory (may reference other variables, e.g. $PROJECT_DIR/.pio/build/$BOARD)" env:"PREBUILD_BUILD_DIR"`
	ProjectDir string            `help:"Project root" env:"PREBUILD_PROJECT_DIR"`
	Include    []string          `help:"Include paths already configured" env:"PREBUILD_INCLUDE"`
	Var        map[string]string `help:"Additional build variables (KEY=VALUE)"`
}

// Environment assembles the build context.
func (o *EnvOptions) Environment() (*buildenv.Environment, error) {
	env := buildenv.New()
	if o.EnvFile != "" {
		loaded, err := buildenv.Load(o.EnvFile)
		if err != nil {
			return nil, err
		}
		env = loaded
	}

	for k, v := range o.Var {
		env.Set(k, v)
	}
	set := func(name, value string) {
		if value != "" {
			env.Set(name, value)
		}
	}
	set(buildenv.VarBoard, o.Board)
	set(buildenv.VarBuildFlags, o.BuildFlags)
	set(buildenv.VarBuildDir, o.BuildDir)
	set(buildenv.VarProjectDir, o.ProjectDir)
	if len(o.Include) > 0 {
		env.CPPPath = append(env.CPPPath, o.Include...)
	}

	if env.Board() == "" {
		return nil, fmt.Errorf("no board given (--board or %s in the environment file)", buildenv.VarBoard)
	}
	return env, nil
}

// NameOptions control how the firmware name is derived.
type NameOptions struct {
	OnMissingVersion   string `help:"What to do when VERSION_STRING is not defined: placeholder or fail" enum:"placeholder,fail" default:"placeholder" env:"PREBUILD_ON_MISSING_VERSION"`
	VersionPlaceholder string `help:"Version text used when VERSION_STRING is not defined" default:"None" env:"PREBUILD_VERSION_PLACEHOLDER"`
	ReplaceVersionDots bool   `help:"Replace dots in the version with underscores" env:"PREBUILD_REPLACE_VERSION_DOTS"`
}

func (o *NameOptions) firmware() firmware.NameOptions {
	return firmware.NameOptions{
		OnMissing:   firmware.MissingPolicy(o.OnMissingVersion),
		Placeholder: o.VersionPlaceholder,
		ReplaceDots: o.ReplaceVersionDots,
	}
}

// GenConfig configures the Kconfig header generator.
type GenConfig struct {
	Command []string      `help:"Generator command and leading arguments" default:"python3,lib/kconfig/genconfig.py" env:"PREBUILD_GENCONFIG_COMMAND"`
	Kconfig string        `help:"Kconfig description file" default:"Kconfig" env:"PREBUILD_GENCONFIG_KCONFIG"`
	PathVar string        `help:"Module search path variable passed to the generator" default:"PYTHONPATH" env:"PREBUILD_GENCONFIG_PATH_VAR"`
	LibDir  string        `help:"Value for the module search path variable" default:"lib/kconfig" env:"PREBUILD_GENCONFIG_LIB_DIR"`
	Dir     string        `help:"Working directory for the generator (default: current)" env:"PREBUILD_GENCONFIG_DIR"`
	Timeout time.Duration `help:"Abort the generator after this long (0 waits forever)" default:"0s" env:"PREBUILD_GENCONFIG_TIMEOUT"`
}

// OutputOptions select where and how results are written.
type OutputOptions struct {
	Format string `help:"Output format: json, yaml or toml" enum:"json,yaml,toml" default:"json" env:"PREBUILD_FORMAT"`
	Output string `help:"Output file (default: stdout)" short:"o" env:"PREBUILD_OUTPUT"`
}

func (o *OutputOptions) write(stdout io.Writer, data []byte) error {
	if o.Output == "" || o.Output == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(o.Output, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (o *OutputOptions) marshal(v any) ([]byte, error) {
	return buildenv.Marshal(v, buildenv.Format(o.Format))
}

func (g *GenConfig) runner() *kconfig.Runner {
	return &kconfig.Runner{
		Command: g.Command,
		Kconfig: g.Kconfig,
		PathVar: g.PathVar,
		LibDir:  g.LibDir,
		Dir:     g.Dir,
		Timeout: g.Timeout,
	}
}

func stdoutOr(w io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return os.Stdout
}
