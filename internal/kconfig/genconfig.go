// Package kconfig runs the Kconfig configuration generator that turns the
// project's Kconfig description into a C header.
package kconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

const (
	DefaultKconfig    = "Kconfig"
	DefaultPathVar    = "PYTHONPATH"
	DefaultLibDir     = "lib/kconfig"
	DefaultHeaderName = "config.h"
)

// DefaultCommand runs the generator script bundled with the Kconfig library.
var DefaultCommand = []string{"python3", "lib/kconfig/genconfig.py"}

var ErrNoCommand = errors.New("no generator command configured")

// ExitError reports a generator run that finished with a non-zero status.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("config generator exited with status %d", e.Code)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Result holds what the generator printed.
type Result struct {
	HeaderPath string
	Stdout     string
	Stderr     string
	Duration   time.Duration
}

// Runner invokes the generator. Zero-valued fields fall back to the defaults
// above.
type Runner struct {
	Command []string
	Kconfig string
	PathVar string
	LibDir  string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Timeout of zero waits for the generator indefinitely.
	Timeout time.Duration
	Logger  *slog.Logger
}

// HeaderPath returns where the generated header goes inside buildDir.
func HeaderPath(buildDir string) string {
	return buildDir + "/" + DefaultHeaderName
}

// Args returns the full argument vector for a run writing headerPath.
func (r *Runner) Args(headerPath string) []string {
	command := r.Command
	if len(command) == 0 {
		command = DefaultCommand
	}
	args := make([]string, 0, len(command)+3)
	args = append(args, command...)
	return append(args, or(r.Kconfig, DefaultKconfig), "--header-path", headerPath)
}

// Environ returns the current environment with the library search path
// overridden.
func (r *Runner) Environ() []string {
	// exec uses the last value for duplicate keys.
	return append(os.Environ(), or(r.PathVar, DefaultPathVar)+"="+or(r.LibDir, DefaultLibDir))
}

// Generate runs the generator to completion and writes headerPath. Any
// non-zero exit is returned as *ExitError.
func (r *Runner) Generate(ctx context.Context, headerPath string) (*Result, error) {
	if r == nil {
		return nil, ErrNoCommand
	}
	args := r.Args(headerPath)
	if args[0] == "" {
		return nil, ErrNoCommand
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	logger := r.logger()
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = r.Environ()
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Info("Generating config header", "header", headerPath)
	logger.Debug("Running config generator", "args", args, "dir", r.Dir)

	start := time.Now()
	err := cmd.Run()
	res := &Result{
		HeaderPath: headerPath,
		Stdout:     stdout.String(),
		Stderr:     stderr.String(),
		Duration:   time.Since(start),
	}
	logOutput(logger, "stdout", res.Stdout)
	logOutput(logger, "stderr", res.Stderr)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("config generator: %w", ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return res, &ExitError{Code: exitErr.ExitCode(), Stderr: strings.TrimSpace(res.Stderr)}
		}
		return res, fmt.Errorf("start config generator: %w", err)
	}

	logger.Debug("Config generator finished", "duration", res.Duration)
	return res, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func logOutput(logger *slog.Logger, stream, out string) {
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if line != "" {
			logger.Debug("genconfig", "stream", stream, "line", line)
		}
	}
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
