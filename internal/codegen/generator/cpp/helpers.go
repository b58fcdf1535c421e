package cpp

import (
	"strings"

	"github.com/Alia5/protocpp/internal/resolve"
	"github.com/Alia5/protocpp/internal/schema"
)

func scalarCppType(s schema.Scalar) string {
	switch s {
	case schema.Double:
		return "double"
	case schema.Float:
		return "float"
	case schema.Int32, schema.Sint32, schema.Sfixed32:
		return "std::int32_t"
	case schema.Int64, schema.Sint64, schema.Sfixed64:
		return "std::int64_t"
	case schema.Uint32, schema.Fixed32:
		return "std::uint32_t"
	case schema.Uint64, schema.Fixed64:
		return "std::uint64_t"
	case schema.Bool:
		return "bool"
	case schema.String, schema.Bytes:
		return "std::string"
	default:
		return "void"
	}
}

// needsInit reports whether a plain member of this type is left
// indeterminate without a value initializer.
func needsInit(b resolve.Binding) bool {
	if b.IsEnum() {
		return true
	}
	return b.IsScalar() && b.Scalar != schema.String && b.Scalar != schema.Bytes
}

// namespacePath turns a dotted package into a C++ namespace path: "a.b" -> "a::b".
func namespacePath(pkg string) string {
	if pkg == "" {
		return ""
	}
	parts := strings.Split(pkg, ".")
	for i, p := range parts {
		parts[i] = identifier(p)
	}
	return strings.Join(parts, "::")
}

// wrapperNamespace is the namespace the wrapper structs of pkg live in,
// without leading "::".
func wrapperNamespace(root, pkg string) string {
	ns := namespacePath(pkg)
	switch {
	case root == "":
		return ns
	case ns == "":
		return root
	default:
		return root + "::" + ns
	}
}

// protoNamespace is the fully qualified namespace protoc generates for pkg.
func protoNamespace(pkg string) string {
	return "::" + namespacePath(pkg)
}

func qualify(ns, name string) string {
	if ns == "" || ns == "::" {
		return "::" + name
	}
	if strings.HasPrefix(ns, "::") {
		return ns + "::" + name
	}
	return "::" + ns + "::" + name
}

// wrapperType is the fully qualified wrapper struct/enum for e.
func wrapperType(root string, e *schema.Element) string {
	return qualify(wrapperNamespace(root, e.File.Package), e.FlatName())
}

// protoType is the fully qualified protoc class/enum for e.
func protoType(e *schema.Element) string {
	return qualify(protoNamespace(e.File.Package), e.FlatName())
}

// accessor mirrors protoc's accessor naming: lower-cased field name, with a
// trailing underscore when that collides with a C++ keyword.
func accessor(field string) string {
	return identifier(strings.ToLower(field))
}

// identifier escapes C++ keywords the way protoc does.
func identifier(name string) string {
	if cppKeywords[name] {
		return name + "_"
	}
	return name
}

// protoHeader is the header protoc generates for a schema file. Like protoc,
// only a ".protodevel" or ".proto" suffix is stripped.
func protoHeader(f *schema.File) string {
	name := f.RelPath
	for _, suffix := range []string{".protodevel", ".proto"} {
		if strings.HasSuffix(name, suffix) {
			name = strings.TrimSuffix(name, suffix)
			break
		}
	}
	return name + ".pb.h"
}

var cppKeywords = map[string]bool{
	"alignas": true, "alignof": true, "and": true, "and_eq": true, "asm": true,
	"auto": true, "bitand": true, "bitor": true, "bool": true, "break": true,
	"case": true, "catch": true, "char": true, "char8_t": true, "char16_t": true,
	"char32_t": true, "class": true, "compl": true, "concept": true, "const": true,
	"consteval": true, "constexpr": true, "constinit": true, "const_cast": true,
	"continue": true, "co_await": true, "co_return": true, "co_yield": true,
	"decltype": true, "default": true, "delete": true, "do": true, "double": true,
	"dynamic_cast": true, "else": true, "enum": true, "explicit": true, "export": true,
	"extern": true, "false": true, "float": true, "for": true, "friend": true,
	"goto": true, "if": true, "inline": true, "int": true, "long": true,
	"mutable": true, "namespace": true, "new": true, "noexcept": true, "not": true,
	"not_eq": true, "nullptr": true, "operator": true, "or": true, "or_eq": true,
	"private": true, "protected": true, "public": true, "register": true,
	"reinterpret_cast": true, "requires": true, "return": true, "short": true,
	"signed": true, "sizeof": true, "static": true, "static_assert": true,
	"static_cast": true, "struct": true, "switch": true, "template": true,
	"this": true, "thread_local": true, "throw": true, "true": true, "try": true,
	"typedef": true, "typeid": true, "typename": true, "union": true,
	"unsigned": true, "using": true, "virtual": true, "void": true,
	"volatile": true, "wchar_t": true, "while": true, "xor": true, "xor_eq": true,
	"NULL": true,
}
