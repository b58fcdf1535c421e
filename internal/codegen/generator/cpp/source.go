package cpp

const sourceTemplate = `{{.Header -}}
#include "{{.Stem}}.h"

namespace {{.Namespace}} {
{{- range .Messages}}

void to_proto(const {{.Name}}& in, {{.ProtoType}}* out) {
{{- if not .Fields}}
    (void)in;
    (void)out;
{{- end}}
{{- range .Fields}}
{{- if eq .Container "map"}}
    for (const auto& [key, value] : in.{{.Member}}) {
{{- if eq .Kind "message"}}
        {{.Convert}}::to_proto(value, &(*out->mutable_{{.Accessor}}())[key]);
{{- else}}
        (*out->mutable_{{.Accessor}}())[key] = {{toProto . "value"}};
{{- end}}
    }
{{- else if eq .Container "repeated"}}
    for (const auto& value : in.{{.Member}}) {
{{- if eq .Kind "message"}}
        {{.Convert}}::to_proto(value, out->add_{{.Accessor}}());
{{- else}}
        out->add_{{.Accessor}}({{toProto . "value"}});
{{- end}}
    }
{{- else if .Presence}}
    if (in.{{.Member}}) {
{{- if eq .Kind "message"}}
        {{.Convert}}::to_proto(*in.{{.Member}}, out->mutable_{{.Accessor}}());
{{- else}}
        out->set_{{.Accessor}}({{toProto . (printf "*in.%s" .Member)}});
{{- end}}
    }
{{- else if eq .Kind "message"}}
    {{.Convert}}::to_proto(in.{{.Member}}, out->mutable_{{.Accessor}}());
{{- else}}
    out->set_{{.Accessor}}({{toProto . (printf "in.%s" .Member)}});
{{- end}}
{{- end}}
}

{{.Name}} from_proto(const {{.ProtoType}}& in) {
    {{.Name}} out;
{{- if not .Fields}}
    (void)in;
{{- end}}
{{- range .Fields}}
{{- if eq .Container "map"}}
    for (const auto& [key, value] : in.{{.Accessor}}()) {
        out.{{.Member}}.emplace(key, {{fromProto . "value"}});
    }
{{- else if eq .Container "repeated"}}
    out.{{.Member}}.reserve(in.{{.Accessor}}_size());
    for (const auto& value : in.{{.Accessor}}()) {
        out.{{.Member}}.push_back({{fromProto . "value"}});
    }
{{- else if eq .Presence "ref"}}
    if (in.has_{{.Accessor}}()) {
        out.{{.Member}} = std::make_shared<{{.Value}}>({{fromProto . (printf "in.%s()" .Accessor)}});
    }
{{- else if eq .Presence "optional"}}
    if (in.has_{{.Accessor}}()) {
        out.{{.Member}} = {{fromProto . (printf "in.%s()" .Accessor)}};
    }
{{- else}}
    out.{{.Member}} = {{fromProto . (printf "in.%s()" .Accessor)}};
{{- end}}
{{- end}}
    return out;
}
{{- end}}

} // namespace {{.Namespace}}
`
