package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mavesp8266/prebuild/internal/prebuild"
)

// Run executes the full pre-build hook and writes the resulting build
// environment for the outer build to apply.
type Run struct {
	EnvOptions    `embed:""`
	NameOptions   `embed:""`
	OutputOptions `embed:""`
	GenConfig     GenConfig `embed:"" prefix:"genconfig."`

	stdout io.Writer
}

// Run is called by Kong when the run command is executed.
func (c *Run) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := c.Environment()
	if err != nil {
		return err
	}
	logger.Info("Running pre-build hook", "board", env.Board(), "build_dir", env.Subst("$BUILD_DIR"))

	runner := c.GenConfig.runner()
	runner.Logger = logger
	hook := prebuild.New(runner, c.NameOptions.firmware(), logger)
	if err := hook.Run(ctx, env); err != nil {
		logger.Debug("Pre-build hook aborted", "state", string(hook.State()))
		return err
	}

	data, err := c.marshal(env)
	if err != nil {
		return err
	}
	return c.write(stdoutOr(c.stdout), data)
}
