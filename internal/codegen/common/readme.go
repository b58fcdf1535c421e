package common

import (
	"bytes"
	"text/template"
)

const readmeTemplate = `# {{.Project}}

C++ wrapper library generated by protocpp {{.Version}} from {{len .Filenames}} schema file(s).
Do not edit; regenerate instead.

## Layout

- ` + "`inc/`" + `: one header per schema file, wrapper types in namespace ` + "`{{.Namespace}}`" + `
- ` + "`src/`" + `: conversions between wrapper types and protobuf messages
- ` + "`serializers.h`" + `: ` + "`serialize`/`deserialize`" + ` for every wrapper message
- ` + "`proto/`" + `: the schema files the library was generated from

## Schema files
{{range .Filenames}}
- {{.}}
{{- end}}

## Building

    cmake -S . -B build
    cmake --build build

Requires CMake 3.16+, a C++17 compiler and protobuf with its CMake package.
`

var readmeTmpl = template.Must(template.New("readme").Parse(readmeTemplate))

// Readme renders the README placed at the root of the generated library.
func Readme(project, namespace string, filenames []string) ([]byte, error) {
	version, err := GetVersion()
	if err != nil {
		version = "unknown"
	}
	var buf bytes.Buffer
	err = readmeTmpl.Execute(&buf, struct {
		Project   string
		Namespace string
		Version   string
		Filenames []string
	}{project, namespace, version, filenames})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
