package schema

import (
	"errors"
	"fmt"
)

// DuplicateNameError reports two declarations sharing a name in one scope.
type DuplicateNameError struct {
	Path     string
	Scope    string // enclosing message/enum/service, empty for file scope
	What     string // "field", "type", "enum value", "service", "method"
	Name     string
	Position Position
}

func (e *DuplicateNameError) Error() string {
	scope := e.Scope
	if scope == "" {
		scope = "file scope"
	}
	return fmt.Sprintf("%s:%s: duplicate %s %q in %s", e.Path, e.Position, e.What, e.Name, scope)
}

// Validate checks the name-uniqueness rules of a single file: field and nested
// type names within a message, top-level type names, enum value names and
// service/method names. All violations are returned joined.
func Validate(f *File) error {
	var errs []error

	top := map[string]bool{}
	for _, e := range f.Elements {
		if top[e.Name] {
			errs = append(errs, &DuplicateNameError{Path: f.Path, What: "type", Name: e.Name, Position: e.Position})
		}
		top[e.Name] = true
	}

	f.Walk(func(e *Element) {
		switch e.Kind {
		case KindMessage:
			fields := map[string]bool{}
			for _, fd := range e.Fields {
				if fields[fd.Name] {
					errs = append(errs, &DuplicateNameError{Path: f.Path, Scope: e.FullName(), What: "field", Name: fd.Name, Position: fd.Position})
				}
				fields[fd.Name] = true
			}
			nested := map[string]bool{}
			for _, n := range e.Nested {
				if nested[n.Name] {
					errs = append(errs, &DuplicateNameError{Path: f.Path, Scope: e.FullName(), What: "type", Name: n.Name, Position: n.Position})
				}
				nested[n.Name] = true
			}
		case KindEnum:
			values := map[string]bool{}
			for _, v := range e.Values {
				if values[v.Name] {
					errs = append(errs, &DuplicateNameError{Path: f.Path, Scope: e.FullName(), What: "enum value", Name: v.Name, Position: v.Position})
				}
				values[v.Name] = true
			}
		}
	})

	services := map[string]bool{}
	for _, s := range f.Services {
		if services[s.Name] || top[s.Name] {
			errs = append(errs, &DuplicateNameError{Path: f.Path, What: "service", Name: s.Name, Position: s.Position})
		}
		services[s.Name] = true
		methods := map[string]bool{}
		for _, m := range s.Methods {
			if methods[m.Name] {
				errs = append(errs, &DuplicateNameError{Path: f.Path, Scope: s.Name, What: "method", Name: m.Name, Position: m.Position})
			}
			methods[m.Name] = true
		}
	}

	return errors.Join(errs...)
}
