package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mavesp8266/prebuild/internal/prebuild"
)

// Defines prints the preprocessor defines found in the build flags.
type Defines struct {
	EnvOptions    `embed:""`
	OutputOptions `embed:""`

	stdout io.Writer
}

func (c *Defines) Run(logger *slog.Logger) error {
	env, err := c.Environment()
	if err != nil {
		return err
	}
	defines, err := prebuild.ParseDefines(env.BuildFlags())
	if err != nil {
		return fmt.Errorf("parse build flags: %w", err)
	}
	logger.Debug("Parsed build flags", "defines", len(defines))

	data, err := c.marshal(map[string]string(defines))
	if err != nil {
		return err
	}
	return c.write(stdoutOr(c.stdout), data)
}
