package meta

import (
	"github.com/Alia5/protocpp/internal/registry"
	"github.com/Alia5/protocpp/internal/resolve"
	"github.com/Alia5/protocpp/internal/schema"
)

// ArtifactKind names one of the generated artifact families.
type ArtifactKind int

const (
	Header ArtifactKind = iota
	Source
	Serializers
	BuildManifest
)

func (k ArtifactKind) String() string {
	switch k {
	case Header:
		return "header"
	case Source:
		return "source"
	case Serializers:
		return "serializers"
	case BuildManifest:
		return "build manifest"
	default:
		return "unknown"
	}
}

// Batch is the complete, resolved context of one generator run.
// Shared between the orchestrator and the renderers.
type Batch struct {
	InputDir   string
	Files      []*schema.File // input order
	Filenames  []string       // artifact stems, same order as Files
	Registry   *registry.Registry
	Resolution *resolve.Resolution
	Namespace  string // root C++ namespace of the wrappers
	Project    string // build manifest project/target name
	byName     map[string]*schema.File
}

// NewBatch computes the filename list once from files.
func NewBatch(files []*schema.File, reg *registry.Registry, res *resolve.Resolution) *Batch {
	b := &Batch{
		Files:      files,
		Filenames:  make([]string, 0, len(files)),
		Registry:   reg,
		Resolution: res,
		byName:     make(map[string]*schema.File, len(files)),
	}
	for _, f := range files {
		b.Filenames = append(b.Filenames, f.Name)
		b.byName[f.Name] = f
	}
	return b
}

// File returns the schema file generating artifacts under stem.
func (b *Batch) File(stem string) (*schema.File, bool) {
	f, ok := b.byName[stem]
	return f, ok
}

// Renderer turns resolved schema files into artifact text.
type Renderer interface {
	RenderFile(kind ArtifactKind, file *schema.File, b *Batch) ([]byte, error)
	RenderAggregate(kind ArtifactKind, filenames []string, b *Batch) ([]byte, error)
}
