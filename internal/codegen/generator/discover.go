package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Source is one schema file found in the input directory.
type Source struct {
	Path    string // filesystem path
	RelPath string // slash separated, relative to the input directory
	Ext     string // the configured extension the file matched
}

// Stem is the output name of the file: its base name without the matched
// extension.
func (s Source) Stem() string {
	base := filepath.Base(s.Path)
	if s.Ext != "" {
		return strings.TrimSuffix(base, s.Ext)
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputCollisionError reports two schema files that would generate the
// same artifact names.
type OutputCollisionError struct {
	Stem   string
	First  string
	Second string
}

func (e *OutputCollisionError) Error() string {
	return fmt.Sprintf("%s and %s both generate %q", e.First, e.Second, e.Stem)
}

// CheckOutputDir rejects an output directory that is, or contains, the input
// directory.
func CheckOutputDir(input, output string) error {
	in, err := canonical(input)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	out, err := canonical(output)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	rel, err := filepath.Rel(out, in)
	if err != nil {
		return nil
	}
	if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
		return fmt.Errorf("output directory %s contains input directory %s", output, input)
	}
	return nil
}

// canonical returns the absolute path of p with symlinks resolved as far as
// the path exists.
func canonical(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	rest := ""
	for dir := abs; ; dir = filepath.Dir(dir) {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(resolved, rest), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(dir), rest)
	}
}

// match returns the longest configured extension name ends with. A name
// that is nothing but the extension does not match.
func (g *Generator) match(name string) (string, bool) {
	best := ""
	for _, ext := range g.opts.Extensions {
		if ext != "" && len(name) > len(ext) && strings.HasSuffix(name, ext) && len(ext) > len(best) {
			best = ext
		}
	}
	return best, best != ""
}

// Discover lists the schema files of the input directory in directory
// order. Subdirectories are walked only with Options.Recursive; the output
// directory is never descended into.
func (g *Generator) Discover() ([]Source, error) {
	info, err := os.Stat(g.opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input %s is not a directory", g.opts.InputDir)
	}

	if !g.opts.Recursive {
		entries, err := os.ReadDir(g.opts.InputDir)
		if err != nil {
			return nil, fmt.Errorf("read input directory: %w", err)
		}
		var out []Source
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext, ok := g.match(e.Name())
			if !ok {
				continue
			}
			out = append(out, Source{Path: filepath.Join(g.opts.InputDir, e.Name()), RelPath: e.Name(), Ext: ext})
		}
		return out, nil
	}

	skip := ""
	if g.opts.OutputDir != "" {
		if abs, err := filepath.Abs(g.opts.OutputDir); err == nil {
			skip = abs
		}
	}
	var out []Source
	err = filepath.WalkDir(g.opts.InputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == g.opts.InputDir {
				return nil
			}
			if abs, err := filepath.Abs(p); err == nil && abs == skip {
				return filepath.SkipDir
			}
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ext, ok := g.match(d.Name())
		if !ok {
			return nil
		}
		rel, err := filepath.Rel(g.opts.InputDir, p)
		if err != nil {
			return err
		}
		out = append(out, Source{Path: p, RelPath: filepath.ToSlash(rel), Ext: ext})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk input directory: %w", err)
	}
	return out, nil
}

// CheckCollisions rejects sources whose stems are equal, or equal ignoring
// case, since their artifacts would overwrite each other on some
// filesystems. Every collision is reported, each against the first source
// claiming the stem.
func CheckCollisions(sources []Source) error {
	seen := make(map[string]Source, len(sources))
	var errs []error
	for _, s := range sources {
		key := strings.ToLower(s.Stem())
		if first, ok := seen[key]; ok {
			errs = append(errs, &OutputCollisionError{Stem: s.Stem(), First: first.RelPath, Second: s.RelPath})
			continue
		}
		seen[key] = s
	}
	return errors.Join(errs...)
}
