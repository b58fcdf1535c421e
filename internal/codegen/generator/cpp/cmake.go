package cpp

const cmakeTemplate = `{{.Header -}}
cmake_minimum_required(VERSION 3.16)
project({{.Project}} CXX)

set(CMAKE_CXX_STANDARD 17)
set(CMAKE_CXX_STANDARD_REQUIRED ON)

find_package(Protobuf CONFIG REQUIRED)

set({{.Project}}_PROTOS
{{- range .Protos}}
    ${CMAKE_CURRENT_SOURCE_DIR}/proto/{{.}}
{{- end}}
)

# Library source files
add_library({{.Project}} STATIC
{{- range .Filenames}}
    src/{{.}}.cpp
{{- end}}
    {{printf "${%s_PROTOS}" .Project}}
)

protobuf_generate(
    TARGET {{.Project}}
    LANGUAGE cpp
    IMPORT_DIRS ${CMAKE_CURRENT_SOURCE_DIR}/proto
    PROTOC_OUT_DIR ${CMAKE_CURRENT_BINARY_DIR}/gen
)

# Include directories
target_include_directories({{.Project}} PUBLIC
    ${CMAKE_CURRENT_SOURCE_DIR}
    ${CMAKE_CURRENT_SOURCE_DIR}/inc
    ${CMAKE_CURRENT_BINARY_DIR}/gen
)

target_link_libraries({{.Project}} PUBLIC protobuf::libprotobuf)

# Installation
install(TARGETS {{.Project}}
    LIBRARY DESTINATION lib
    ARCHIVE DESTINATION lib
)

install(DIRECTORY inc/
    DESTINATION include/{{.Project}}
)
install(FILES serializers.h
    DESTINATION include/{{.Project}}
)
`
