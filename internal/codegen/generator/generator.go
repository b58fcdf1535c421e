package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"

	"github.com/Alia5/protocpp/internal/codegen/common"
	"github.com/Alia5/protocpp/internal/codegen/generator/cpp"
	"github.com/Alia5/protocpp/internal/codegen/meta"
	"github.com/Alia5/protocpp/internal/log"
	"github.com/Alia5/protocpp/internal/registry"
	"github.com/Alia5/protocpp/internal/resolve"
	"github.com/Alia5/protocpp/internal/schema"
	"github.com/Alia5/protocpp/internal/stage"
)

// Options configures one generator run.
type Options struct {
	InputDir   string
	OutputDir  string
	Extensions []string
	Recursive  bool
	Lang       string
	Namespace  string
	Project    string
	DryRun     bool
}

// RendererFactory builds the renderer of one target language.
type RendererFactory func(opts Options) (meta.Renderer, error)

var renderers = map[string]RendererFactory{
	"cpp": func(opts Options) (meta.Renderer, error) {
		return cpp.New(cpp.Options{Namespace: opts.Namespace, Project: opts.Project})
	},
}

// Languages returns the supported target languages, sorted.
func Languages() []string {
	var out []string
	for k := range renderers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type Generator struct {
	opts     Options
	logger   *slog.Logger
	renderer meta.Renderer
}

// New returns a Generator for opts.Lang.
func New(opts Options, logger *slog.Logger) (*Generator, error) {
	if opts.Lang == "" {
		opts.Lang = "cpp"
	}
	factory, ok := renderers[opts.Lang]
	if !ok {
		return nil, fmt.Errorf("unsupported language '%s' (supported: %v)", opts.Lang, Languages())
	}
	r, err := factory(opts)
	if err != nil {
		return nil, fmt.Errorf("create %s renderer: %w", opts.Lang, err)
	}
	return NewWithRenderer(opts, logger, r), nil
}

// NewWithRenderer returns a Generator using r.
func NewWithRenderer(opts Options, logger *slog.Logger, r meta.Renderer) *Generator {
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".proto"}
	}
	return &Generator{opts: opts, logger: logger, renderer: r}
}

// Run loads, resolves and renders the whole input directory and then
// replaces the generated entries of the output directory with the result.
// Other entries of the output directory are kept. Nothing is written to the
// output directory unless every step succeeds.
func (g *Generator) Run() error {
	batch, sources, err := g.Load()
	if err != nil {
		return err
	}

	st, err := stage.New(g.opts.OutputDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Discard(); err != nil {
			g.logger.Warn("Failed to clean up staging directory", "dir", st.Dir(), "error", err)
		}
	}()

	if err := g.Emit(batch, sources, st); err != nil {
		return err
	}

	if g.opts.DryRun {
		for _, p := range st.Written() {
			g.logger.Info("Would write", "path", path.Join(st.Dest(), p))
		}
		g.logger.Info("Dry run complete, output left untouched", "output", st.Dest())
		return nil
	}

	if err := st.Commit(); err != nil {
		return err
	}
	g.logger.Info("Code generation complete", "output", st.Dest(), "files", len(batch.Files))
	return nil
}

// Load runs every check that can fail on input: output placement,
// discovery, parsing, output name collisions, registry build and type resolution. Errors of one phase
// are reported together.
func (g *Generator) Load() (*meta.Batch, []Source, error) {
	if err := CheckOutputDir(g.opts.InputDir, g.opts.OutputDir); err != nil {
		return nil, nil, err
	}
	sources, err := g.Discover()
	if err != nil {
		return nil, nil, err
	}
	if len(sources) == 0 {
		return nil, nil, fmt.Errorf("no schema files with extension %v found in %s", g.opts.Extensions, g.opts.InputDir)
	}
	g.logger.Info("Found schema files", "count", len(sources), "dir", g.opts.InputDir)

	if err := CheckCollisions(sources); err != nil {
		return nil, nil, err
	}

	files := make([]*schema.File, 0, len(sources))
	var errs []error
	for _, src := range sources {
		g.logger.Debug("Parsing schema file", "file", src.RelPath)
		f, err := schema.ParseFile(src.Path, src.RelPath)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		f.Name = src.Stem()
		files = append(files, f)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, nil, err
	}

	reg, err := registry.Build(files)
	if err != nil {
		return nil, nil, err
	}
	g.logger.Debug("Built definition registry", "packages", reg.Packages())

	res, err := resolve.ResolveAll(files, reg)
	if err != nil {
		return nil, nil, err
	}
	g.traceBindings(files, res)

	batch := meta.NewBatch(files, reg, res)
	batch.InputDir = g.opts.InputDir
	batch.Namespace = g.opts.Namespace
	batch.Project = g.opts.Project
	return batch, sources, nil
}

func (g *Generator) traceBindings(files []*schema.File, res *resolve.Resolution) {
	ctx := context.Background()
	if !g.logger.Enabled(ctx, log.LevelTrace) {
		return
	}
	for _, f := range files {
		for _, e := range resolve.CompletionOrder(f) {
			for _, fd := range e.Fields {
				ft := res.Field(fd)
				g.logger.Log(ctx, log.LevelTrace, "Resolved field",
					"file", f.RelPath, "message", e.QualifiedName(), "field", fd.Name,
					"type", ft.Value.String(), "by_reference", ft.ByReference)
			}
		}
	}
}

// Emit renders every artifact of batch into st: one header and source per
// file, then the serializer header, build manifest and README over the same
// filename list, then the verbatim schema copies.
func (g *Generator) Emit(batch *meta.Batch, sources []Source, st *stage.Stage) error {
	for _, dir := range []string{"inc", "src", "proto"} {
		if err := st.Mkdir(dir); err != nil {
			return err
		}
	}

	for _, f := range batch.Files {
		g.logger.Info("Generating files", "schema", f.RelPath)
		if err := g.emitFile(meta.Header, f, batch, st, path.Join("inc", f.Name+".h")); err != nil {
			return err
		}
		if err := g.emitFile(meta.Source, f, batch, st, path.Join("src", f.Name+".cpp")); err != nil {
			return err
		}
	}

	filenames := batch.Filenames
	if err := g.emitAggregate(meta.Serializers, filenames, batch, st, "serializers.h"); err != nil {
		return err
	}
	if err := g.emitAggregate(meta.BuildManifest, filenames, batch, st, "CMakeLists.txt"); err != nil {
		return err
	}
	readme, err := common.Readme(batch.Project, batch.Namespace, filenames)
	if err != nil {
		return fmt.Errorf("render README: %w", err)
	}
	if err := st.WriteFile("README.md", readme); err != nil {
		return err
	}

	for _, src := range sources {
		if err := st.CopyFile(path.Join("proto", src.RelPath), src.Path); err != nil {
			return err
		}
	}
	g.logger.Info("Copied schema files", "count", len(sources), "dir", path.Join(st.Dest(), "proto"))
	return nil
}

func (g *Generator) emitFile(kind meta.ArtifactKind, f *schema.File, batch *meta.Batch, st *stage.Stage, rel string) error {
	data, err := g.renderer.RenderFile(kind, f, batch)
	if err != nil {
		return fmt.Errorf("render %s for %s: %w", kind, f.RelPath, err)
	}
	if err := st.WriteFile(rel, data); err != nil {
		return err
	}
	g.logger.Debug("Generated "+kind.String()+" file", "path", path.Join(st.Dest(), rel))
	return nil
}

func (g *Generator) emitAggregate(kind meta.ArtifactKind, filenames []string, batch *meta.Batch, st *stage.Stage, rel string) error {
	data, err := g.renderer.RenderAggregate(kind, filenames, batch)
	if err != nil {
		return fmt.Errorf("render %s: %w", kind, err)
	}
	if err := st.WriteFile(rel, data); err != nil {
		return err
	}
	g.logger.Info("Generated "+kind.String(), "path", path.Join(st.Dest(), rel), "files", len(filenames))
	return nil
}
