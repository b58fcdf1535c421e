package cpp

const headerTemplate = `{{.Header -}}
#pragma once

#include <cstdint>
#include <functional>
#include <map>
#include <memory>
#include <optional>
#include <string>
#include <vector>

#include "{{.ProtoHeader}}"
{{- range .Includes}}
#include "{{.}}.h"
{{- end}}

namespace {{.Namespace}} {
{{- range .Enums}}

enum class {{.Name}} : int {
{{- range .Values}}
    {{ident .Name}} = {{.Number}},
{{- end}}
};
{{- end}}
{{- if .Messages}}
{{range .Messages}}
struct {{.Name}};
{{- end}}
{{- end}}
{{- range .Messages}}

struct {{.Name}} {
{{- range .Aliases}}
    using {{.Name}} = {{.Target}};
{{- end}}
{{- range .Fields}}
    {{.Type}} {{.Member}}{{if .Init}}{}{{end}};
{{- end}}
};

void to_proto(const {{.Name}}& in, {{.ProtoType}}* out);
{{.Name}} from_proto(const {{.ProtoType}}& in);
{{- end}}
{{- range .Services}}

class {{.Name}} {
public:
    virtual ~{{.Name}}() = default;
{{- range .Methods}}
{{- if and .ClientStreaming .ServerStreaming}}
    virtual void {{.Name}}(const std::vector<{{.Request}}>& requests, const std::function<void(const {{.Response}}&)>& send) = 0;
{{- else if .ClientStreaming}}
    virtual {{.Response}} {{.Name}}(const std::vector<{{.Request}}>& requests) = 0;
{{- else if .ServerStreaming}}
    virtual void {{.Name}}(const {{.Request}}& request, const std::function<void(const {{.Response}}&)>& send) = 0;
{{- else}}
    virtual {{.Response}} {{.Name}}(const {{.Request}}& request) = 0;
{{- end}}
{{- end}}
};
{{- end}}

} // namespace {{.Namespace}}
`
