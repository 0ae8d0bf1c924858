// Package config defines the CLI structure and configuration for prebuild.
package config

import (
	"github.com/alecthomas/kong"

	"github.com/mavesp8266/prebuild/internal/cmd"
)

type Log struct {
	Level string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"PREBUILD_LOG_LEVEL"`
	File  string `help:"Log file path (default: none; logs only to console)" env:"PREBUILD_LOG_FILE"`
}

// CLI is the root command structure for Kong CLI parsing.
type CLI struct {
	Log `embed:"" prefix:"log."`

	Config  string           `help:"Configuration file (json, yaml or toml)" env:"PREBUILD_CONFIG" type:"path"`
	Version kong.VersionFlag `help:"Print version and exit"`

	Run     cmd.Run     `cmd:"" default:"withargs" help:"Run the pre-build hook: name the firmware, generate config.h and register the build directory"`
	Name    cmd.Name    `cmd:"" help:"Print the firmware name for the given board and build flags"`
	Defines cmd.Defines `cmd:"" help:"Print the preprocessor defines found in the build flags"`
}
