package schema

// Scalar is one of the built-in scalar keywords of the schema language.
type Scalar string

const (
	Double   Scalar = "double"
	Float    Scalar = "float"
	Int32    Scalar = "int32"
	Int64    Scalar = "int64"
	Uint32   Scalar = "uint32"
	Uint64   Scalar = "uint64"
	Sint32   Scalar = "sint32"
	Sint64   Scalar = "sint64"
	Fixed32  Scalar = "fixed32"
	Fixed64  Scalar = "fixed64"
	Sfixed32 Scalar = "sfixed32"
	Sfixed64 Scalar = "sfixed64"
	Bool     Scalar = "bool"
	String   Scalar = "string"
	Bytes    Scalar = "bytes"
)

var scalars = map[string]Scalar{
	"double":   Double,
	"float":    Float,
	"int32":    Int32,
	"int64":    Int64,
	"uint32":   Uint32,
	"uint64":   Uint64,
	"sint32":   Sint32,
	"sint64":   Sint64,
	"fixed32":  Fixed32,
	"fixed64":  Fixed64,
	"sfixed32": Sfixed32,
	"sfixed64": Sfixed64,
	"bool":     Bool,
	"string":   String,
	"bytes":    Bytes,
}

// LookupScalar returns the scalar named by token, if it is one.
func LookupScalar(token string) (Scalar, bool) {
	s, ok := scalars[token]
	return s, ok
}

// ValidMapKey reports whether s may be used as a map key: any integral kind,
// bool or string. Floating point and bytes are rejected.
func (s Scalar) ValidMapKey() bool {
	switch s {
	case Float, Double, Bytes:
		return false
	default:
		_, ok := scalars[string(s)]
		return ok
	}
}
