// Package registry indexes every top-level declaration of a batch of schema
// files by package, so a field in one file can name a type declared in another.
//
// A Registry is built once from the complete batch and is read-only afterwards.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Alia5/protocpp/internal/schema"
)

// DuplicateDeclarationError reports two files of one package declaring the
// same top-level name.
type DuplicateDeclarationError struct {
	Package string
	Name    string
	First   string
	Second  string
}

func (e *DuplicateDeclarationError) Error() string {
	pkg := e.Package
	if pkg == "" {
		pkg = "<default>"
	}
	return fmt.Sprintf("package %s: %q declared in both %s and %s", pkg, e.Name, e.First, e.Second)
}

// Package is the union of the top-level declarations of every file sharing a
// package name.
type Package struct {
	Name     string
	Files    []*schema.File
	Elements []*schema.Element
	byName   map[string]*schema.Element
}

// Lookup returns the top-level element name declared in the package.
func (p *Package) Lookup(name string) (*schema.Element, bool) {
	e, ok := p.byName[name]
	return e, ok
}

// Registry maps package names to their declarations.
type Registry struct {
	packages map[string]*Package
	names    []string
}

// Build indexes files in order. Every duplicate top-level name within a
// package is reported; the first declaration never silently wins.
func Build(files []*schema.File) (*Registry, error) {
	r := &Registry{packages: make(map[string]*Package)}
	var errs []error

	for _, f := range files {
		pkg, ok := r.packages[f.Package]
		if !ok {
			pkg = &Package{Name: f.Package, byName: make(map[string]*schema.Element)}
			r.packages[f.Package] = pkg
			r.names = append(r.names, f.Package)
		}
		pkg.Files = append(pkg.Files, f)

		for _, e := range f.Elements {
			if prev, dup := pkg.byName[e.Name]; dup {
				errs = append(errs, &DuplicateDeclarationError{
					Package: f.Package,
					Name:    e.Name,
					First:   prev.File.Path,
					Second:  f.Path,
				})
				continue
			}
			pkg.byName[e.Name] = e
			pkg.Elements = append(pkg.Elements, e)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	sort.Strings(r.names)
	return r, nil
}

// Package returns the named package.
func (r *Registry) Package(name string) (*Package, bool) {
	p, ok := r.packages[name]
	return p, ok
}

// Packages returns all package names, sorted.
func (r *Registry) Packages() []string {
	return append([]string(nil), r.names...)
}

// Lookup resolves a dotted path relative to a package: the first segment is a
// top-level declaration and the remaining segments walk nested types.
func (r *Registry) Lookup(pkg string, path []string) (*schema.Element, bool) {
	p, ok := r.packages[pkg]
	if !ok || len(path) == 0 {
		return nil, false
	}
	e, ok := p.Lookup(path[0])
	for _, seg := range path[1:] {
		if !ok {
			return nil, false
		}
		e, ok = e.Lookup(seg)
	}
	return e, ok
}

// LookupQualified splits a package-qualified name and resolves it, preferring
// the longest matching package prefix ("a.b.C.D" tries package "a.b.C", then
// "a.b", then "a", then the default package).
func (r *Registry) LookupQualified(name string) (*Package, *schema.Element, bool) {
	segs := strings.Split(name, ".")
	for i := len(segs) - 1; i >= 0; i-- {
		pkg := strings.Join(segs[:i], ".")
		if e, ok := r.Lookup(pkg, segs[i:]); ok {
			return r.packages[pkg], e, true
		}
	}
	return nil, nil, false
}
