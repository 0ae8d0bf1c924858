package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mavesp8266/prebuild/internal/prebuild"
)

// Name prints the firmware name without generating anything.
type Name struct {
	EnvOptions  `embed:""`
	NameOptions `embed:""`

	stdout io.Writer
}

func (c *Name) Run(logger *slog.Logger) error {
	env, err := c.Environment()
	if err != nil {
		return err
	}
	defines, err := prebuild.ParseDefines(env.BuildFlags())
	if err != nil {
		return fmt.Errorf("parse build flags: %w", err)
	}
	if _, ok := defines.Lookup(prebuild.VersionDefine); !ok {
		logger.Warn("VERSION_STRING is not defined", "policy", c.OnMissingVersion)
	}

	name, err := prebuild.ProgramName(env, defines, c.NameOptions.firmware())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdoutOr(c.stdout), name)
	return err
}
