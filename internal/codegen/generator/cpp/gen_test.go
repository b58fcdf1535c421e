package cpp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/protocpp/internal/codegen/meta"
	"github.com/Alia5/protocpp/internal/registry"
	"github.com/Alia5/protocpp/internal/resolve"
	"github.com/Alia5/protocpp/internal/schema"
)

const commonProto = `syntax = "proto3";
package common;

message Money {
  int64 units = 1;
  string currency = 2;
}
`

const shopProto = `syntax = "proto3";
package shop;

import "common.proto";

enum Status {
  UNKNOWN = 0;
  ACTIVE = 1;
}

message Order {
  message Line {
    string sku = 1;
    int32 qty = 2;
  }
  repeated Line lines = 1;
  map<string, int64> totals = 2;
  optional Status status = 3;
  Customer customer = 4;
  common.Money price = 5;
  Order parent = 6;
}

message Customer {
  string name = 1;
  int32 class = 2;
}

service Orders {
  rpc Place(Order) returns (Customer);
  rpc Watch(Order) returns (stream Customer);
}
`

func testBatch(t *testing.T, sources ...[2]string) *meta.Batch {
	t.Helper()
	var files []*schema.File
	for _, s := range sources {
		f, err := schema.Parse(strings.NewReader(s[1]), s[0])
		require.NoError(t, err)
		files = append(files, f)
	}
	reg, err := registry.Build(files)
	require.NoError(t, err)
	res, err := resolve.ResolveAll(files, reg)
	require.NoError(t, err)
	b := meta.NewBatch(files, reg, res)
	b.Namespace = "wrapper"
	b.Project = "protowrap"
	return b
}

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(Options{Namespace: "wrapper", Project: "protowrap"})
	require.NoError(t, err)
	return r
}

func TestRenderHeader(t *testing.T) {
	b := testBatch(t, [2]string{"common.proto", commonProto}, [2]string{"shop.proto", shopProto})
	shop, ok := b.File("shop")
	require.True(t, ok)

	out, err := testRenderer(t).RenderFile(meta.Header, shop, b)
	require.NoError(t, err)
	h := string(out)

	assert.True(t, strings.HasPrefix(h, "// Code generated by protocpp"))
	for _, want := range []string{
		"// source: shop.proto",
		`#include "shop.pb.h"`,
		`#include "common.h"`,
		"namespace wrapper::shop {",
		"enum class Status : int {",
		"    ACTIVE = 1,",
		"struct Order_Line;\nstruct Order;\nstruct Customer;",
		"    using Line = ::wrapper::shop::Order_Line;",
		"    std::vector<::wrapper::shop::Order_Line> lines;",
		"    std::map<std::string, std::int64_t> totals;",
		"    std::optional<::wrapper::shop::Status> status;",
		"    std::shared_ptr<::wrapper::shop::Customer> customer;",
		"    ::wrapper::common::Money price;",
		"    std::shared_ptr<::wrapper::shop::Order> parent;",
		"    std::int32_t qty{};",
		"    std::int32_t class_{};",
		"void to_proto(const Order& in, ::shop::Order* out);",
		"Order_Line from_proto(const ::shop::Order_Line& in);",
		"class Orders {",
		"    virtual ::wrapper::shop::Customer Place(const ::wrapper::shop::Order& request) = 0;",
		"    virtual void Watch(const ::wrapper::shop::Order& request, const std::function<void(const ::wrapper::shop::Customer&)>& send) = 0;",
		"} // namespace wrapper::shop",
	} {
		assert.Contains(t, h, want)
	}

	// Nested definitions precede their enclosing message.
	assert.Less(t, strings.Index(h, "struct Order_Line {"), strings.Index(h, "struct Order {"))
	assert.NotContains(t, h, `#include "shop.h"`)
}

func TestRenderSource(t *testing.T) {
	b := testBatch(t, [2]string{"common.proto", commonProto}, [2]string{"shop.proto", shopProto})
	shop, _ := b.File("shop")

	out, err := testRenderer(t).RenderFile(meta.Source, shop, b)
	require.NoError(t, err)
	s := string(out)

	for _, want := range []string{
		`#include "shop.h"`,
		"        ::wrapper::shop::to_proto(value, out->add_lines());",
		"        (*out->mutable_totals())[key] = value;",
		"        out->set_status(static_cast<::shop::Status>(*in.status));",
		"        ::wrapper::shop::to_proto(*in.customer, out->mutable_customer());",
		"    ::wrapper::common::to_proto(in.price, out->mutable_price());",
		"    out->set_class_(in.class_);",
		"        out.lines.push_back(::wrapper::shop::from_proto(value));",
		"        out.totals.emplace(key, value);",
		"        out.status = static_cast<::wrapper::shop::Status>(in.status());",
		"        out.customer = std::make_shared<::wrapper::shop::Customer>(::wrapper::shop::from_proto(in.customer()));",
		"    out.price = ::wrapper::common::from_proto(in.price());",
	} {
		assert.Contains(t, s, want)
	}
}

func TestRenderEmptyMessage(t *testing.T) {
	b := testBatch(t, [2]string{"e.proto", `syntax = "proto3"; message Empty {}`})
	f, _ := b.File("e")

	out, err := testRenderer(t).RenderFile(meta.Source, f, b)
	require.NoError(t, err)
	assert.Contains(t, string(out), "namespace wrapper {")
	assert.Contains(t, string(out), "void to_proto(const Empty& in, ::Empty* out) {\n    (void)in;\n    (void)out;\n}")
}

func TestRenderAggregates(t *testing.T) {
	b := testBatch(t, [2]string{"common.proto", commonProto}, [2]string{"shop.proto", shopProto})
	r := testRenderer(t)

	ser, err := r.RenderAggregate(meta.Serializers, b.Filenames, b)
	require.NoError(t, err)
	s := string(ser)
	assert.Contains(t, s, "#include \"common.h\"\n#include \"shop.h\"")
	assert.Contains(t, s, "inline constexpr std::string_view generated_files[] = {\n    \"common\",\n    \"shop\",\n};")
	assert.Contains(t, s, "struct serializer<::wrapper::common::Money> {")
	assert.Contains(t, s, `static constexpr std::string_view name = "shop.Order.Line";`)
	assert.Contains(t, s, "return ::wrapper::shop::from_proto(msg);")
	assert.NotContains(t, s, "serializer<::wrapper::shop::Status>")

	cm, err := r.RenderAggregate(meta.BuildManifest, b.Filenames, b)
	require.NoError(t, err)
	c := string(cm)
	assert.Contains(t, c, "project(protowrap CXX)")
	assert.Contains(t, c, "    src/common.cpp\n    src/shop.cpp\n")
	assert.Contains(t, c, "    ${CMAKE_CURRENT_SOURCE_DIR}/proto/common.proto\n    ${CMAKE_CURRENT_SOURCE_DIR}/proto/shop.proto\n")
	assert.Contains(t, c, "    ${protowrap_PROTOS}\n")
	assert.Contains(t, c, "target_link_libraries(protowrap PUBLIC protobuf::libprotobuf)")
}

func TestRenderErrors(t *testing.T) {
	b := testBatch(t, [2]string{"common.proto", commonProto})
	r := testRenderer(t)
	f, _ := b.File("common")

	_, err := r.RenderFile(meta.Serializers, f, b)
	assert.Error(t, err)

	_, err = r.RenderAggregate(meta.Header, b.Filenames, b)
	assert.Error(t, err)

	_, err = r.RenderAggregate(meta.Serializers, []string{"common", "missing"}, b)
	assert.ErrorContains(t, err, `"missing"`)
}

func TestNewValidatesOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{name: "defaults", opts: Options{Namespace: "wrapper", Project: "protowrap"}},
		{name: "nested namespace", opts: Options{Namespace: "acme::wire", Project: "wire"}},
		{name: "empty namespace", opts: Options{Namespace: "", Project: "p"}, wantErr: true},
		{name: "keyword namespace", opts: Options{Namespace: "class", Project: "p"}, wantErr: true},
		{name: "dangling separator", opts: Options{Namespace: "acme::", Project: "p"}, wantErr: true},
		{name: "leading digit", opts: Options{Namespace: "1st", Project: "p"}, wantErr: true},
		{name: "bad project", opts: Options{Namespace: "wrapper", Project: "my-lib"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "wrapper::a::b", wrapperNamespace("wrapper", "a.b"))
	assert.Equal(t, "wrapper", wrapperNamespace("wrapper", ""))
	assert.Equal(t, "::a::b", protoNamespace("a.b"))
	assert.Equal(t, "::Foo", qualify("::", "Foo"))
	assert.Equal(t, "delete_", accessor("Delete"))
	assert.Equal(t, "sub/x.pb.h", protoHeader(&schema.File{RelPath: "sub/x.proto"}))
	assert.Equal(t, "a.proto.txt.pb.h", protoHeader(&schema.File{RelPath: "a.proto.txt"}))
	assert.Equal(t, "a.proto3.pb.h", protoHeader(&schema.File{RelPath: "a.proto3"}))
}
