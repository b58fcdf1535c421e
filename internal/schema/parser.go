package schema

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/scanner"

	"github.com/emicklei/proto"
)

// ParseError wraps a syntax error reported for one schema file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnsupportedError reports a construct the model cannot represent.
type UnsupportedError struct {
	Path     string
	Position Position
	What     string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s:%s: unsupported %s", e.Path, e.Position, e.What)
}

// ParseFile reads and parses the schema file at path. relPath is the file's
// location relative to the input root and is kept for passthrough copies.
func ParseFile(path, relPath string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema file: %w", err)
	}
	defer f.Close()

	file, err := Parse(f, path)
	if err != nil {
		return nil, err
	}
	file.RelPath = relPath
	return file, nil
}

// Parse builds a File from schema text. path names the source in errors and
// determines the artifact stem.
func Parse(r io.Reader, path string) (*File, error) {
	p := proto.NewParser(r)
	p.Filename(path)
	def, err := p.Parse()
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	base := filepath.Base(path)
	file := &File{
		Name:    strings.TrimSuffix(base, filepath.Ext(base)),
		Path:    path,
		RelPath: base,
		Syntax:  "proto2",
	}

	b := builder{file: file}
	for _, v := range def.Elements {
		switch el := v.(type) {
		case *proto.Syntax:
			file.Syntax = el.Value
		case *proto.Package:
			file.Package = el.Name
		case *proto.Import:
			file.Imports = append(file.Imports, el.Filename)
		case *proto.Message:
			if el.IsExtend {
				continue
			}
			msg, err := b.message(el, nil)
			if err != nil {
				return nil, err
			}
			file.Elements = append(file.Elements, msg)
		case *proto.Enum:
			file.Elements = append(file.Elements, b.enum(el, nil))
		case *proto.Service:
			file.Services = append(file.Services, b.service(el))
		}
	}

	if err := Validate(file); err != nil {
		return nil, err
	}
	return file, nil
}

type builder struct {
	file *File
}

func position(p scanner.Position) Position {
	return Position{Line: p.Line, Column: p.Column}
}

func (b *builder) message(m *proto.Message, parent *Element) (*Element, error) {
	el := &Element{
		Kind:     KindMessage,
		Name:     m.Name,
		Parent:   parent,
		File:     b.file,
		Position: position(m.Position),
	}
	for _, v := range m.Elements {
		switch f := v.(type) {
		case *proto.NormalField:
			label := LabelSingular
			switch {
			case f.Repeated:
				label = LabelRepeated
			case f.Optional || f.Required:
				label = LabelOptional
			}
			el.Fields = append(el.Fields, b.field(f.Field, label, ""))
		case *proto.MapField:
			field := b.field(f.Field, LabelMap, "")
			field.KeyType = f.KeyType
			el.Fields = append(el.Fields, field)
		case *proto.Oneof:
			for _, ov := range f.Elements {
				switch of := ov.(type) {
				case *proto.OneOfField:
					el.Fields = append(el.Fields, b.field(of.Field, LabelOptional, f.Name))
				case *proto.Group:
					return nil, &UnsupportedError{Path: b.file.Path, Position: position(of.Position), What: "group " + of.Name}
				}
			}
		case *proto.Message:
			if f.IsExtend {
				continue
			}
			nested, err := b.message(f, el)
			if err != nil {
				return nil, err
			}
			el.Nested = append(el.Nested, nested)
		case *proto.Enum:
			el.Nested = append(el.Nested, b.enum(f, el))
		case *proto.Group:
			return nil, &UnsupportedError{Path: b.file.Path, Position: position(f.Position), What: "group " + f.Name}
		}
	}
	return el, nil
}

func (b *builder) field(f *proto.Field, label Label, oneof string) *Field {
	return &Field{
		Name:     f.Name,
		Number:   f.Sequence,
		Type:     f.Type,
		Label:    label,
		Oneof:    oneof,
		Position: position(f.Position),
	}
}

func (b *builder) enum(e *proto.Enum, parent *Element) *Element {
	el := &Element{
		Kind:     KindEnum,
		Name:     e.Name,
		Parent:   parent,
		File:     b.file,
		Position: position(e.Position),
	}
	for _, v := range e.Elements {
		if ef, ok := v.(*proto.EnumField); ok {
			el.Values = append(el.Values, EnumValue{Name: ef.Name, Number: ef.Integer, Position: position(ef.Position)})
		}
	}
	return el
}

func (b *builder) service(s *proto.Service) *Service {
	svc := &Service{Name: s.Name, Position: position(s.Position)}
	for _, v := range s.Elements {
		if rpc, ok := v.(*proto.RPC); ok {
			svc.Methods = append(svc.Methods, &Method{
				Name:            rpc.Name,
				RequestType:     rpc.RequestType,
				ResponseType:    rpc.ReturnsType,
				ClientStreaming: rpc.StreamsRequest,
				ServerStreaming: rpc.StreamsReturns,
				Position:        position(rpc.Position),
			})
		}
	}
	return svc
}
