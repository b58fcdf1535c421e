package resolve

import (
	"errors"
	"strings"

	"github.com/Alia5/protocpp/internal/registry"
	"github.com/Alia5/protocpp/internal/schema"
)

// Scope is the lexical context of a token: the file and, for fields, the
// innermost enclosing message.
type Scope struct {
	File    *schema.File
	Message *schema.Element
}

type cacheKey struct {
	file  *schema.File
	msg   *schema.Element
	token string
}

type cacheEntry struct {
	binding Binding
	ok      bool
}

// Resolver resolves tokens against one immutable Registry. Results are cached
// per (scope, token).
type Resolver struct {
	reg        *registry.Registry
	cache      map[cacheKey]cacheEntry
	completion map[*schema.File]map[*schema.Element]int
}

// New returns a Resolver over reg.
func New(reg *registry.Registry) *Resolver {
	return &Resolver{
		reg:        reg,
		cache:      make(map[cacheKey]cacheEntry),
		completion: make(map[*schema.File]map[*schema.Element]int),
	}
}

// Resolve binds token in scope. Lookup order:
//  1. built-in scalar keywords
//  2. nested types of the enclosing messages, innermost first, then the
//     file's top-level types (dotted tokens walk nested types from the
//     first match)
//  3. the registry, relative to the file's package and each of its parent
//     packages, ending with the token taken as fully qualified
//
// A leading dot marks a fully qualified token and skips step 2.
func (r *Resolver) Resolve(token string, scope Scope) (Binding, bool) {
	key := cacheKey{file: scope.File, msg: scope.Message, token: token}
	if c, ok := r.cache[key]; ok {
		return c.binding, c.ok
	}
	b, ok := r.resolve(token, scope)
	r.cache[key] = cacheEntry{binding: b, ok: ok}
	return b, ok
}

func (r *Resolver) resolve(token string, scope Scope) (Binding, bool) {
	if s, ok := schema.LookupScalar(token); ok {
		return Binding{Kind: Scalar, Scalar: s}, true
	}
	if token == "" {
		return Binding{}, false
	}
	if strings.HasPrefix(token, ".") {
		return r.qualified(scope.File, token[1:])
	}

	segs := strings.Split(token, ".")
	for m := scope.Message; m != nil; m = m.Parent {
		if first, ok := m.Lookup(segs[0]); ok {
			if e, ok := descend(first, segs[1:]); ok {
				return r.bind(scope.File, e), true
			}
		}
	}
	if first, ok := scope.File.Lookup(segs[0]); ok {
		if e, ok := descend(first, segs[1:]); ok {
			return r.bind(scope.File, e), true
		}
	}

	pkg := scope.File.Package
	for pkg != "" {
		if b, ok := r.qualified(scope.File, pkg+"."+token); ok {
			return b, true
		}
		pkg = parentPackage(pkg)
	}
	return r.qualified(scope.File, token)
}

func (r *Resolver) qualified(file *schema.File, name string) (Binding, bool) {
	_, e, ok := r.reg.LookupQualified(name)
	if !ok {
		return Binding{}, false
	}
	return r.bind(file, e), true
}

func (r *Resolver) bind(file *schema.File, e *schema.Element) Binding {
	if e.File == file {
		if e.IsEnum() {
			return Binding{Kind: LocalEnum, Ref: e}
		}
		return Binding{Kind: LocalMessage, Ref: e}
	}
	if e.IsEnum() {
		return Binding{Kind: ForeignEnum, Package: e.File.Package, Ref: e}
	}
	return Binding{Kind: ForeignMessage, Package: e.File.Package, Ref: e}
}

func descend(e *schema.Element, path []string) (*schema.Element, bool) {
	for _, seg := range path {
		next, ok := e.Lookup(seg)
		if !ok {
			return nil, false
		}
		e = next
	}
	return e, true
}

func parentPackage(pkg string) string {
	if i := strings.LastIndexByte(pkg, '.'); i >= 0 {
		return pkg[:i]
	}
	return ""
}

// ResolveField resolves the value (and for maps the key) type of a field
// declared in msg. For maps both tokens are checked and their errors joined.
func (r *Resolver) ResolveField(file *schema.File, msg *schema.Element, f *schema.Field) (FieldType, error) {
	scope := Scope{File: file, Message: msg}
	ft := FieldType{Optional: f.Label == schema.LabelOptional}
	var errs []error

	value, ok := r.Resolve(f.Type, scope)
	if !ok {
		errs = append(errs, &UnresolvedTypeError{File: file.Path, Message: msg.FullName(), Field: f.Name, Token: f.Type, Position: f.Position})
	}
	ft.Value = value

	switch f.Label {
	case schema.LabelRepeated:
		ft.Container = Repeated
	case schema.LabelMap:
		ft.Container = Map
		key, ok := r.Resolve(f.KeyType, scope)
		switch {
		case !ok:
			errs = append(errs, &UnresolvedTypeError{File: file.Path, Message: msg.FullName(), Field: f.Name, Token: f.KeyType, Position: f.Position})
		case !key.IsScalar() || !key.Scalar.ValidMapKey():
			errs = append(errs, &MapKeyError{File: file.Path, Message: msg.FullName(), Field: f.Name, KeyType: f.KeyType, Resolved: key, Position: f.Position})
		default:
			ft.Key = key
		}
	default:
		ft.Container = Single
		if value.Kind == LocalMessage {
			order := r.completionOrder(file)
			ft.ByReference = order[value.Ref] >= order[msg]
		}
	}
	if err := errors.Join(errs...); err != nil {
		return FieldType{}, err
	}
	return ft, nil
}

// ResolveMethod resolves an RPC's request and response; both must be messages.
func (r *Resolver) ResolveMethod(file *schema.File, svc *schema.Service, m *schema.Method) (MethodTypes, error) {
	var errs []error
	var out MethodTypes
	for _, side := range []struct {
		token string
		dst   *Binding
	}{{m.RequestType, &out.Request}, {m.ResponseType, &out.Response}} {
		b, ok := r.Resolve(side.token, Scope{File: file})
		switch {
		case !ok:
			errs = append(errs, &UnresolvedTypeError{File: file.Path, Message: svc.Name, Field: m.Name, Token: side.token, Position: m.Position})
		case !b.IsMessage():
			errs = append(errs, &MethodTypeError{File: file.Path, Service: svc.Name, Method: m.Name, Token: side.token, Resolved: b, Position: m.Position})
		default:
			*side.dst = b
		}
	}
	if err := errors.Join(errs...); err != nil {
		return MethodTypes{}, err
	}
	return out, nil
}

func (r *Resolver) completionOrder(file *schema.File) map[*schema.Element]int {
	if order, ok := r.completion[file]; ok {
		return order
	}
	order := make(map[*schema.Element]int)
	for i, e := range CompletionOrder(file) {
		order[e] = i
	}
	r.completion[file] = order
	return order
}

// CompletionOrder lists the elements of file in post-order: an element's
// definition is complete once all of its nested elements are, which is the
// order flattened C++ definitions are emitted in.
func CompletionOrder(file *schema.File) []*schema.Element {
	var out []*schema.Element
	var visit func(e *schema.Element)
	visit = func(e *schema.Element) {
		for _, n := range e.Nested {
			visit(n)
		}
		out = append(out, e)
	}
	for _, e := range file.Elements {
		visit(e)
	}
	return out
}
