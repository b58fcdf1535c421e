// Package config holds the command-line surface of protocpp. Every flag can
// also be set from the environment or a JSON, YAML or TOML config file.
package config

import (
	"github.com/alecthomas/kong"

	"github.com/Alia5/protocpp/internal/cmd"
)

// CLI is the root command.
type CLI struct {
	ConfigFile string           `name:"config" help:"Configuration file (JSON, YAML or TOML)" type:"path" env:"PROTOCPP_CONFIG"`
	Version    kong.VersionFlag `help:"Print version information and exit"`
	Log        cmd.LogFlags     `embed:"" prefix:"log."`

	Generate cmd.Generate      `cmd:"" default:"withargs" help:"Generate C++ bindings for a directory of schema files"`
	Config   cmd.ConfigCommand `cmd:"" help:"Manage configuration files"`
}
