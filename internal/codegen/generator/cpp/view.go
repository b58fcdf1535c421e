package cpp

import (
	"fmt"

	"github.com/Alia5/protocpp/internal/codegen/common"
	"github.com/Alia5/protocpp/internal/codegen/meta"
	"github.com/Alia5/protocpp/internal/resolve"
	"github.com/Alia5/protocpp/internal/schema"
)

// The views below flatten a resolved schema file into exactly what the
// templates print; no resolution happens inside a template.

type fileView struct {
	Header      string
	Stem        string
	ProtoHeader string
	Includes    []string
	Namespace   string
	Enums       []enumView
	Messages    []messageView
	Services    []serviceView
}

type enumView struct {
	Name   string
	Values []schema.EnumValue
}

type aliasView struct {
	Name   string
	Target string
}

type messageView struct {
	Name      string // flat name inside Namespace
	Type      string // fully qualified wrapper type
	ProtoType string
	ProtoName string // dotted schema name
	Convert   string // namespace holding to_proto/from_proto
	Aliases   []aliasView
	Fields    []fieldView
}

type fieldView struct {
	Member     string
	Accessor   string
	Type       string // declared member type
	Init       bool   // member needs a value initializer
	Container  string // "single", "repeated", "map"
	Kind       string // "scalar", "enum", "message"
	Presence   string // "", "optional", "ref"
	Value      string // wrapper value type
	ProtoValue string // protoc value type, used for enum casts
	Convert    string // namespace holding to_proto/from_proto for message values
}

type serviceView struct {
	Name    string
	Methods []methodView
}

type methodView struct {
	Name            string
	Request         string
	Response        string
	ClientStreaming bool
	ServerStreaming bool
}

type aggregateView struct {
	Header    string
	Namespace string
	Project   string
	Filenames []string
	Protos    []string
	Messages  []messageView
}

func (r *Renderer) fileView(f *schema.File, b *meta.Batch) (*fileView, error) {
	if b.Resolution == nil {
		return nil, fmt.Errorf("render %s: batch is not resolved", f.Path)
	}
	v := &fileView{
		Header:      common.FileHeader("//", f.RelPath),
		Stem:        f.Name,
		ProtoHeader: protoHeader(f),
		Namespace:   wrapperNamespace(r.namespace, f.Package),
	}
	for _, dep := range b.Resolution.Dependencies(f) {
		v.Includes = append(v.Includes, dep.Name)
	}

	for _, e := range resolve.CompletionOrder(f) {
		if e.IsEnum() {
			v.Enums = append(v.Enums, enumView{Name: e.FlatName(), Values: e.Values})
			continue
		}
		v.Messages = append(v.Messages, r.messageView(e, b.Resolution))
	}

	for _, svc := range f.Services {
		sv := serviceView{Name: identifier(svc.Name)}
		for _, m := range svc.Methods {
			mt := b.Resolution.Method(m)
			sv.Methods = append(sv.Methods, methodView{
				Name:            identifier(m.Name),
				Request:         wrapperType(r.namespace, mt.Request.Ref),
				Response:        wrapperType(r.namespace, mt.Response.Ref),
				ClientStreaming: m.ClientStreaming,
				ServerStreaming: m.ServerStreaming,
			})
		}
		v.Services = append(v.Services, sv)
	}
	return v, nil
}

func (r *Renderer) messageView(e *schema.Element, res *resolve.Resolution) messageView {
	mv := messageView{
		Name:      e.FlatName(),
		Type:      wrapperType(r.namespace, e),
		ProtoType: protoType(e),
	}
	for _, n := range e.Nested {
		mv.Aliases = append(mv.Aliases, aliasView{Name: identifier(n.Name), Target: wrapperType(r.namespace, n)})
	}
	for _, f := range e.Fields {
		mv.Fields = append(mv.Fields, r.fieldView(f, res.Field(f)))
	}
	return mv
}

func (r *Renderer) fieldView(f *schema.Field, ft resolve.FieldType) fieldView {
	fv := fieldView{
		Member:   identifier(f.Name),
		Accessor: accessor(f.Name),
		Value:    r.valueType(ft.Value),
	}
	switch {
	case ft.Value.IsEnum():
		fv.Kind = "enum"
		fv.ProtoValue = protoType(ft.Value.Ref)
	case ft.Value.IsMessage():
		fv.Kind = "message"
		fv.ProtoValue = protoType(ft.Value.Ref)
		fv.Convert = "::" + wrapperNamespace(r.namespace, ft.Value.Ref.File.Package)
	default:
		fv.Kind = "scalar"
		fv.ProtoValue = fv.Value
	}

	switch ft.Container {
	case resolve.Repeated:
		fv.Container = "repeated"
		fv.Type = "std::vector<" + fv.Value + ">"
	case resolve.Map:
		fv.Container = "map"
		fv.Type = "std::map<" + r.valueType(ft.Key) + ", " + fv.Value + ">"
	default:
		fv.Container = "single"
		switch {
		case ft.ByReference:
			fv.Presence = "ref"
			fv.Type = "std::shared_ptr<" + fv.Value + ">"
		case ft.Optional:
			fv.Presence = "optional"
			fv.Type = "std::optional<" + fv.Value + ">"
		default:
			fv.Type = fv.Value
			fv.Init = needsInit(ft.Value)
		}
	}
	return fv
}

func (r *Renderer) valueType(b resolve.Binding) string {
	if b.IsScalar() {
		return scalarCppType(b.Scalar)
	}
	return wrapperType(r.namespace, b.Ref)
}

func (r *Renderer) aggregateView(filenames []string, b *meta.Batch) (*aggregateView, error) {
	v := &aggregateView{
		Header:    common.FileHeader("//", ""),
		Namespace: r.namespace,
		Project:   r.project,
		Filenames: filenames,
	}
	for _, name := range filenames {
		f, ok := b.File(name)
		if !ok {
			return nil, fmt.Errorf("no schema file generates %q", name)
		}
		v.Protos = append(v.Protos, f.RelPath)
		for _, e := range resolve.CompletionOrder(f) {
			if e.IsMessage() {
				v.Messages = append(v.Messages, messageView{
					Name:      e.FlatName(),
					Type:      wrapperType(r.namespace, e),
					ProtoType: protoType(e),
					ProtoName: e.QualifiedName(),
					Convert:   "::" + wrapperNamespace(r.namespace, f.Package),
				})
			}
		}
	}
	return v, nil
}
