// Package resolve binds every type token used by a schema batch to the
// declaration it names.
package resolve

import (
	"fmt"

	"github.com/Alia5/protocpp/internal/schema"
)

// Kind classifies a resolved type.
type Kind int

const (
	Scalar Kind = iota
	LocalEnum
	LocalMessage
	ForeignEnum
	ForeignMessage
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case LocalEnum:
		return "local enum"
	case LocalMessage:
		return "local message"
	case ForeignEnum:
		return "foreign enum"
	case ForeignMessage:
		return "foreign message"
	default:
		return "unknown"
	}
}

// Binding is the resolved meaning of one type token. Local bindings refer to
// declarations of the same file; foreign bindings carry the declaring package.
type Binding struct {
	Kind    Kind
	Scalar  schema.Scalar
	Package string
	Ref     *schema.Element
}

func (b Binding) IsScalar() bool  { return b.Kind == Scalar }
func (b Binding) IsEnum() bool    { return b.Kind == LocalEnum || b.Kind == ForeignEnum }
func (b Binding) IsMessage() bool { return b.Kind == LocalMessage || b.Kind == ForeignMessage }
func (b Binding) IsForeign() bool { return b.Kind == ForeignEnum || b.Kind == ForeignMessage }

func (b Binding) String() string {
	switch b.Kind {
	case Scalar:
		return fmt.Sprintf("scalar(%s)", b.Scalar)
	case LocalEnum, LocalMessage:
		return fmt.Sprintf("%s(%s)", b.Kind, b.Ref.FullName())
	default:
		return fmt.Sprintf("%s(%s, %s)", b.Kind, b.Package, b.Ref.FullName())
	}
}

// Container is the shape wrapping a field's value type.
type Container int

const (
	Single Container = iota
	Repeated
	Map
)

// FieldType is the fully resolved type of a field.
type FieldType struct {
	Container Container
	Key       Binding // maps only
	Value     Binding
	Optional  bool
	// ByReference is set on singular message fields whose target is not a
	// complete type where the field is declared: the enclosing message itself,
	// one of its ancestors, or a later declaration of the same file.
	ByReference bool
}

// MethodTypes holds the resolved request and response of an RPC.
type MethodTypes struct {
	Request  Binding
	Response Binding
}
