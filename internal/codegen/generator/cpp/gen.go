package cpp

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/Alia5/protocpp/internal/codegen/meta"
	"github.com/Alia5/protocpp/internal/schema"
)

// Options configures the C++ renderer.
type Options struct {
	Namespace string // root namespace of the wrapper types, e.g. "wrapper" or "acme::wire"
	Project   string // CMake project and library target name
}

// Renderer renders resolved schema files into C++ wrapper sources.
type Renderer struct {
	namespace string
	project   string

	header      *template.Template
	source      *template.Template
	serializers *template.Template
	cmake       *template.Template
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// New validates opts and parses the templates.
func New(opts Options) (*Renderer, error) {
	if opts.Namespace == "" {
		return nil, fmt.Errorf("namespace must not be empty")
	}
	for _, part := range strings.Split(opts.Namespace, "::") {
		if !identRe.MatchString(part) || cppKeywords[part] {
			return nil, fmt.Errorf("invalid namespace %q", opts.Namespace)
		}
	}
	if !identRe.MatchString(opts.Project) {
		return nil, fmt.Errorf("invalid project name %q", opts.Project)
	}

	r := &Renderer{namespace: opts.Namespace, project: opts.Project}
	funcs := tplFuncs()
	r.header = template.Must(template.New("header").Funcs(funcs).Parse(headerTemplate))
	r.source = template.Must(template.New("source").Funcs(funcs).Parse(sourceTemplate))
	r.serializers = template.Must(template.New("serializers").Funcs(funcs).Parse(serializersTemplate))
	r.cmake = template.Must(template.New("cmake").Funcs(funcs).Parse(cmakeTemplate))
	return r, nil
}

func tplFuncs() template.FuncMap {
	return template.FuncMap{
		"ident": identifier,
		"fromProto": func(f fieldView, expr string) string {
			switch f.Kind {
			case "enum":
				return "static_cast<" + f.Value + ">(" + expr + ")"
			case "message":
				return f.Convert + "::from_proto(" + expr + ")"
			default:
				return expr
			}
		},
		"toProto": func(f fieldView, expr string) string {
			if f.Kind == "enum" {
				return "static_cast<" + f.ProtoValue + ">(" + expr + ")"
			}
			return expr
		},
	}
}

// RenderFile renders the header or source of one schema file.
func (r *Renderer) RenderFile(kind meta.ArtifactKind, f *schema.File, b *meta.Batch) ([]byte, error) {
	var tmpl *template.Template
	switch kind {
	case meta.Header:
		tmpl = r.header
	case meta.Source:
		tmpl = r.source
	default:
		return nil, fmt.Errorf("%s is not a per-file artifact", kind)
	}

	view, err := r.fileView(f, b)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("execute %s template for %s: %w", kind, f.Path, err)
	}
	return buf.Bytes(), nil
}

// RenderAggregate renders serializers.h or CMakeLists.txt for filenames.
func (r *Renderer) RenderAggregate(kind meta.ArtifactKind, filenames []string, b *meta.Batch) ([]byte, error) {
	var tmpl *template.Template
	switch kind {
	case meta.Serializers:
		tmpl = r.serializers
	case meta.BuildManifest:
		tmpl = r.cmake
	default:
		return nil, fmt.Errorf("%s is not an aggregate artifact", kind)
	}

	view, err := r.aggregateView(filenames, b)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("execute %s template: %w", kind, err)
	}
	return buf.Bytes(), nil
}
