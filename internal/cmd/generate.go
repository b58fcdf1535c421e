package cmd

import (
	"log/slog"

	"github.com/Alia5/protocpp/internal/codegen/generator"
)

// Generate turns a directory of schema files into a C++ wrapper library.
type Generate struct {
	Input     string   `arg:"" type:"existingdir" help:"Directory containing the schema files"`
	Output    string   `arg:"" type:"path" help:"Output directory; generated entries are replaced when generation succeeds, other entries are kept"`
	Ext       []string `help:"File extensions treated as schema files" default:".proto" env:"PROTOCPP_EXT"`
	Recursive bool     `short:"r" help:"Descend into subdirectories of the input directory" env:"PROTOCPP_RECURSIVE"`
	Namespace string   `help:"Root C++ namespace of the generated wrapper types" default:"wrapper" env:"PROTOCPP_NAMESPACE"`
	Project   string   `help:"CMake project and library target name" default:"protowrap" env:"PROTOCPP_PROJECT"`
	Lang      string   `help:"Target language" default:"cpp" enum:"cpp" env:"PROTOCPP_LANG"`
	DryRun    bool     `help:"Run every step but leave the output directory untouched" env:"PROTOCPP_DRY_RUN"`
}

// Run is called by Kong when the generate command is executed.
func (g *Generate) Run(logger *slog.Logger) error {
	logger.Info("Starting code generation", "input", g.Input, "output", g.Output, "lang", g.Lang)

	gen, err := generator.New(generator.Options{
		InputDir:   g.Input,
		OutputDir:  g.Output,
		Extensions: g.Ext,
		Recursive:  g.Recursive,
		Lang:       g.Lang,
		Namespace:  g.Namespace,
		Project:    g.Project,
		DryRun:     g.DryRun,
	}, logger)
	if err != nil {
		return err
	}
	return gen.Run()
}

// LogFlags configures logging for every command.
type LogFlags struct {
	Level  string `help:"Log level" default:"info" enum:"trace,debug,info,warn,error" env:"PROTOCPP_LOG_LEVEL"`
	Format string `help:"Log record format" default:"text" enum:"text,json" env:"PROTOCPP_LOG_FORMAT"`
	File   string `help:"Also write logs to this file" type:"path" env:"PROTOCPP_LOG_FILE"`
}
