// Package schema holds the in-memory model of parsed .proto files.
//
// A File owns an ordered tree of Elements: messages own their fields and their
// nested messages/enums, so name lookup can walk from the innermost enclosing
// message outwards without reconstructing scopes from dotted strings.
package schema

import (
	"fmt"
	"strings"
)

// ElementKind distinguishes messages from enums.
type ElementKind int

const (
	KindMessage ElementKind = iota
	KindEnum
)

func (k ElementKind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Label is the cardinality of a field.
type Label int

const (
	LabelSingular Label = iota
	LabelOptional
	LabelRepeated
	LabelMap
)

func (l Label) String() string {
	switch l {
	case LabelSingular:
		return "singular"
	case LabelOptional:
		return "optional"
	case LabelRepeated:
		return "repeated"
	case LabelMap:
		return "map"
	default:
		return "unknown"
	}
}

// Position locates a declaration in its source file.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// File is one parsed schema file.
type File struct {
	Name     string // base name without extension, used as the artifact stem
	Path     string
	RelPath  string // path relative to the input root
	Package  string
	Syntax   string
	Imports  []string
	Elements []*Element
	Services []*Service
}

// Lookup returns the top-level element with the given name.
func (f *File) Lookup(name string) (*Element, bool) {
	for _, e := range f.Elements {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

// Walk visits every element of the file in declaration order, parents before
// their nested elements.
func (f *File) Walk(fn func(*Element)) {
	for _, e := range f.Elements {
		e.Walk(fn)
	}
}

// Element is a message or enum declaration.
type Element struct {
	Kind     ElementKind
	Name     string
	Parent   *Element // enclosing message, nil at top level
	File     *File
	Fields   []*Field
	Nested   []*Element
	Values   []EnumValue
	Position Position
}

// IsMessage reports whether the element is a message.
func (e *Element) IsMessage() bool { return e.Kind == KindMessage }

// IsEnum reports whether the element is an enum.
func (e *Element) IsEnum() bool { return e.Kind == KindEnum }

// Lookup returns the nested element with the given name.
func (e *Element) Lookup(name string) (*Element, bool) {
	for _, n := range e.Nested {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}

// Walk visits e and then its nested elements depth-first.
func (e *Element) Walk(fn func(*Element)) {
	fn(e)
	for _, n := range e.Nested {
		n.Walk(fn)
	}
}

// Path returns the names from the outermost enclosing message down to e.
func (e *Element) Path() []string {
	var parts []string
	for cur := e; cur != nil; cur = cur.Parent {
		parts = append(parts, cur.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return parts
}

// FullName is the dotted name of e within its package, e.g. "Outer.Inner".
func (e *Element) FullName() string {
	return strings.Join(e.Path(), ".")
}

// QualifiedName prefixes FullName with the package, if any.
func (e *Element) QualifiedName() string {
	if e.File == nil || e.File.Package == "" {
		return e.FullName()
	}
	return e.File.Package + "." + e.FullName()
}

// FlatName mirrors protoc's C++ naming of nested types: "Outer_Inner".
func (e *Element) FlatName() string {
	return strings.Join(e.Path(), "_")
}

// IsAncestorOf reports whether e encloses other (directly or transitively).
func (e *Element) IsAncestorOf(other *Element) bool {
	for cur := other.Parent; cur != nil; cur = cur.Parent {
		if cur == e {
			return true
		}
	}
	return false
}

// Field is a message field as written in the schema.
type Field struct {
	Name     string
	Number   int
	Type     string // value type token; for maps the value type
	KeyType  string // map key type token
	Label    Label
	Oneof    string
	Position Position
}

// EnumValue is one enum constant.
type EnumValue struct {
	Name     string
	Number   int
	Position Position
}

// Service is an RPC service declaration.
type Service struct {
	Name     string
	Methods  []*Method
	Position Position
}

// Method is one RPC of a service.
type Method struct {
	Name            string
	RequestType     string
	ResponseType    string
	ClientStreaming bool
	ServerStreaming bool
	Position        Position
}
