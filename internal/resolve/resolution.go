package resolve

import (
	"errors"

	"github.com/Alia5/protocpp/internal/registry"
	"github.com/Alia5/protocpp/internal/schema"
)

// Resolution is the result of resolving a whole batch.
type Resolution struct {
	fields  map[*schema.Field]FieldType
	methods map[*schema.Method]MethodTypes
	deps    map[*schema.File][]*schema.File
}

// Field returns the resolved type of f.
func (r *Resolution) Field(f *schema.Field) FieldType {
	return r.fields[f]
}

// Method returns the resolved request and response of m.
func (r *Resolution) Method(m *schema.Method) MethodTypes {
	return r.methods[m]
}

// Dependencies lists the other files whose declarations f references, in
// order of first reference.
func (r *Resolution) Dependencies(f *schema.File) []*schema.File {
	return r.deps[f]
}

// ResolveAll resolves every field and RPC of every file against reg. It does
// not stop at the first failure: all resolution errors of the batch are
// returned joined.
func ResolveAll(files []*schema.File, reg *registry.Registry) (*Resolution, error) {
	r := New(reg)
	res := &Resolution{
		fields:  make(map[*schema.Field]FieldType),
		methods: make(map[*schema.Method]MethodTypes),
		deps:    make(map[*schema.File][]*schema.File),
	}
	var errs []error

	for _, file := range files {
		seen := map[*schema.File]bool{}
		addDep := func(b Binding) {
			if !b.IsForeign() || seen[b.Ref.File] {
				return
			}
			seen[b.Ref.File] = true
			res.deps[file] = append(res.deps[file], b.Ref.File)
		}

		file.Walk(func(e *schema.Element) {
			if !e.IsMessage() {
				return
			}
			for _, f := range e.Fields {
				ft, err := r.ResolveField(file, e, f)
				if err != nil {
					errs = append(errs, flatten(err)...)
					continue
				}
				res.fields[f] = ft
				addDep(ft.Value)
			}
		})

		for _, svc := range file.Services {
			for _, m := range svc.Methods {
				mt, err := r.ResolveMethod(file, svc, m)
				if err != nil {
					errs = append(errs, flatten(err)...)
					continue
				}
				res.methods[m] = mt
				addDep(mt.Request)
				addDep(mt.Response)
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return res, nil
}

// flatten unpacks a joined error so the batch error lists every problem
// at one level.
func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
