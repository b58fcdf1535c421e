// Package stage builds an output tree in a scratch directory next to its
// destination and then swaps each top-level entry it wrote into place. Entries
// of the destination the stage did not write are never touched, and a failed
// run never leaves a half-written destination behind.
package stage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Stage is a scratch output tree for one destination directory.
type Stage struct {
	dir     string
	dest    string
	written []string
	owned   map[string]bool
}

// New creates the scratch directory as a hidden sibling of dest. The parent of
// dest is created if missing.
func New(dest string) (*Stage, error) {
	abs, err := filepath.Abs(dest)
	if err != nil {
		return nil, fmt.Errorf("resolve output path: %w", err)
	}
	if fi, err := os.Stat(abs); err == nil && !fi.IsDir() {
		return nil, fmt.Errorf("output path %s exists and is not a directory", abs)
	}
	parent := filepath.Dir(abs)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, fmt.Errorf("create output parent directory: %w", err)
	}
	dir, err := os.MkdirTemp(parent, "."+filepath.Base(abs)+".staging-")
	if err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	return &Stage{dir: dir, dest: abs, owned: map[string]bool{}}, nil
}

// Dir returns the scratch directory.
func (s *Stage) Dir() string { return s.dir }

// Dest returns the absolute destination directory.
func (s *Stage) Dest() string { return s.dest }

// Mkdir creates rel (and parents) inside the stage.
func (s *Stage) Mkdir(rel string) error {
	if err := os.MkdirAll(filepath.Join(s.dir, rel), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", rel, err)
	}
	s.own(rel)
	return nil
}

// own records the top-level entry of rel as one the stage replaces on
// Commit.
func (s *Stage) own(rel string) {
	top := strings.SplitN(filepath.ToSlash(filepath.Clean(rel)), "/", 2)[0]
	if top != "" && top != "." && top != ".." {
		s.owned[top] = true
	}
}

// Owned returns the top-level entry names Commit replaces, sorted.
func (s *Stage) Owned() []string {
	out := make([]string, 0, len(s.owned))
	for name := range s.owned {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// WriteFile writes data to rel inside the stage, creating parent directories.
func (s *Stage) WriteFile(rel string, data []byte) error {
	path := filepath.Join(s.dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	s.written = append(s.written, filepath.ToSlash(rel))
	s.own(rel)
	return nil
}

// CopyFile copies the file at src verbatim to rel inside the stage.
func (s *Stage) CopyFile(rel, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	path := filepath.Join(s.dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", rel, err)
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", rel, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", rel, err)
	}
	s.written = append(s.written, filepath.ToSlash(rel))
	s.own(rel)
	return nil
}

// Written returns the slash-separated paths written so far, sorted.
func (s *Stage) Written() []string {
	out := append([]string(nil), s.written...)
	sort.Strings(out)
	return out
}

// Commit moves every staged top-level entry into the destination,
// replacing an entry of the same name. Other entries of the destination are
// left alone. Replaced entries are moved aside first; if any step fails, the
// entries already swapped are put back and the destination is as it was.
func (s *Stage) Commit() error {
	if err := os.MkdirAll(s.dest, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	backup := s.dir + ".previous"
	if err := os.Mkdir(backup, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	var done []swap
	for _, name := range s.Owned() {
		sw := swap{name: name}
		target := filepath.Join(s.dest, name)
		if _, err := os.Lstat(target); err == nil {
			if err := os.Rename(target, filepath.Join(backup, name)); err != nil {
				return s.rollback(done, backup, fmt.Errorf("move previous %s aside: %w", name, err))
			}
			sw.replaced = true
		} else if !errors.Is(err, os.ErrNotExist) {
			return s.rollback(done, backup, fmt.Errorf("stat %s: %w", target, err))
		}
		done = append(done, sw)
		if err := os.Rename(filepath.Join(s.dir, name), target); err != nil {
			return s.rollback(done, backup, fmt.Errorf("move staged %s into place: %w", name, err))
		}
		done[len(done)-1].installed = true
	}

	var errs []error
	if err := os.RemoveAll(backup); err != nil {
		errs = append(errs, fmt.Errorf("remove previous output %s: %w", backup, err))
	}
	if err := os.RemoveAll(s.dir); err != nil {
		errs = append(errs, fmt.Errorf("remove staging directory: %w", err))
	}
	return errors.Join(errs...)
}

type swap struct {
	name      string
	replaced  bool
	installed bool
}

// rollback undoes done in reverse order. The backup directory is kept when
// anything could not be restored.
func (s *Stage) rollback(done []swap, backup string, cause error) error {
	errs := []error{cause}
	restored := true
	for i := len(done) - 1; i >= 0; i-- {
		sw := done[i]
		target := filepath.Join(s.dest, sw.name)
		if sw.installed {
			if err := os.RemoveAll(target); err != nil {
				errs = append(errs, fmt.Errorf("remove new %s: %w", sw.name, err))
				restored = false
				continue
			}
		}
		if sw.replaced {
			if err := os.Rename(filepath.Join(backup, sw.name), target); err != nil {
				errs = append(errs, fmt.Errorf("restore %s from %s: %w", sw.name, backup, err))
				restored = false
			}
		}
	}
	if restored {
		_ = os.RemoveAll(backup)
	}
	return errors.Join(errs...)
}

// Discard removes the scratch directory. It is safe to call after Commit.
func (s *Stage) Discard() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("remove staging directory: %w", err)
	}
	return nil
}
