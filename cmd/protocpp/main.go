package main

import (
	"os"

	"github.com/Alia5/protocpp/internal/codegen/common"
	"github.com/Alia5/protocpp/internal/config"
	"github.com/Alia5/protocpp/internal/configpaths"
	"github.com/Alia5/protocpp/internal/log"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {
	userCfg := configpaths.UserConfigPath(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	version, err := common.GetVersion()
	if err != nil {
		version = "unknown"
	}

	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("protocpp"),
		kong.Description("Generate C++ wrapper types and serializers from protobuf schema files"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		// Flags and env override config values; earlier files win.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closeFiles, err := log.NewLogger(log.Options{
		Level:  cli.Log.Level,
		Format: cli.Log.Format,
		File:   cli.Log.File,
	})
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	ctx.Bind(logger)
	err = ctx.Run()
	if err != nil {
		logger.Error("protocpp failed", "error", err)
	}
	ctx.FatalIfErrorf(err)
}
