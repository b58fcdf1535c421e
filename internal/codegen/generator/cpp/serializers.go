package cpp

const serializersTemplate = `{{.Header -}}
#pragma once

#include <stdexcept>
#include <string>
#include <string_view>
{{range .Filenames}}
#include "{{.}}.h"
{{- end}}

namespace {{.Namespace}} {

inline constexpr std::string_view generated_files[] = {
{{- range .Filenames}}
    "{{.}}",
{{- end}}
};

template <typename T>
struct serializer;
{{- range .Messages}}

template <>
struct serializer<{{.Type}}> {
    using proto_type = {{.ProtoType}};
    static constexpr std::string_view name = "{{.ProtoName}}";
    static void to_proto(const {{.Type}}& value, proto_type* out) { {{.Convert}}::to_proto(value, out); }
    static {{.Type}} from_proto(const proto_type& msg) { return {{.Convert}}::from_proto(msg); }
};
{{- end}}

template <typename T>
std::string serialize(const T& value) {
    typename serializer<T>::proto_type msg;
    serializer<T>::to_proto(value, &msg);
    return msg.SerializeAsString();
}

template <typename T>
T deserialize(const std::string& data) {
    typename serializer<T>::proto_type msg;
    if (!msg.ParseFromString(data)) {
        throw std::runtime_error(std::string("failed to parse ") + std::string(serializer<T>::name));
    }
    return serializer<T>::from_proto(msg);
}

} // namespace {{.Namespace}}
`
