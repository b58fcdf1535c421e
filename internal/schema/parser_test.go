package schema_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/protocpp/internal/schema"
)

const shopProto = `syntax = "proto3";

package shop.v1;

import "common.proto";

message Order {
  message Line {
    string sku = 1;
    uint32 quantity = 2;
  }
  enum State {
    STATE_UNKNOWN = 0;
    STATE_PAID = 1;
  }
  string id = 1;
  repeated Line lines = 2;
  map<string, int64> totals = 3;
  State state = 4;
  oneof payment {
    string card = 5;
    string voucher = 6;
  }
  optional common.Money discount = 7;
}

enum Currency {
  CURRENCY_UNKNOWN = 0;
  CURRENCY_EUR = 1;
}

service Orders {
  rpc Get (Order) returns (Order);
  rpc Watch (Order) returns (stream Order);
}
`

func TestParse(t *testing.T) {
	f, err := schema.Parse(strings.NewReader(shopProto), "protos/shop.proto")
	require.NoError(t, err)

	assert.Equal(t, "shop", f.Name)
	assert.Equal(t, "shop.v1", f.Package)
	assert.Equal(t, "proto3", f.Syntax)
	assert.Equal(t, []string{"common.proto"}, f.Imports)

	require.Len(t, f.Elements, 2)
	order := f.Elements[0]
	assert.Equal(t, "Order", order.Name)
	assert.True(t, order.IsMessage())
	assert.Nil(t, order.Parent)
	assert.Same(t, f, order.File)

	require.Len(t, order.Nested, 2)
	line := order.Nested[0]
	assert.Equal(t, "Order.Line", line.FullName())
	assert.Equal(t, "shop.v1.Order.Line", line.QualifiedName())
	assert.Equal(t, "Order_Line", line.FlatName())
	assert.Same(t, order, line.Parent)
	assert.True(t, order.IsAncestorOf(line))
	assert.True(t, order.Nested[1].IsEnum())
	values := order.Nested[1].Values
	require.Len(t, values, 2)
	assert.Equal(t, "STATE_UNKNOWN", values[0].Name)
	assert.Equal(t, 0, values[0].Number)
	assert.Equal(t, 13, values[0].Position.Line)
	assert.Equal(t, "STATE_PAID", values[1].Name)
	assert.Equal(t, 1, values[1].Number)
	assert.Equal(t, 14, values[1].Position.Line)

	names := make([]string, 0, len(order.Fields))
	for _, fd := range order.Fields {
		names = append(names, fd.Name)
	}
	assert.Equal(t, []string{"id", "lines", "totals", "state", "card", "voucher", "discount"}, names)

	assert.Equal(t, schema.LabelRepeated, order.Fields[1].Label)
	assert.Equal(t, schema.LabelMap, order.Fields[2].Label)
	assert.Equal(t, "string", order.Fields[2].KeyType)
	assert.Equal(t, "int64", order.Fields[2].Type)
	assert.Equal(t, "payment", order.Fields[4].Oneof)
	assert.Equal(t, schema.LabelOptional, order.Fields[6].Label)
	assert.Equal(t, "common.Money", order.Fields[6].Type)
	assert.Equal(t, 7, order.Fields[6].Number)

	require.Len(t, f.Services, 1)
	require.Len(t, f.Services[0].Methods, 2)
	watch := f.Services[0].Methods[1]
	assert.Equal(t, "Order", watch.RequestType)
	assert.True(t, watch.ServerStreaming)
	assert.False(t, watch.ClientStreaming)
}

func TestParseDuplicates(t *testing.T) {
	tests := []struct {
		name string
		src  string
		what string
	}{
		{
			name: "duplicate field",
			src:  `syntax = "proto3"; message A { string x = 1; int32 x = 2; }`,
			what: "field",
		},
		{
			name: "duplicate nested type",
			src:  `syntax = "proto3"; message A { message B {} enum B { Z = 0; } }`,
			what: "type",
		},
		{
			name: "duplicate top-level type",
			src:  `syntax = "proto3"; message A {} enum A { Z = 0; }`,
			what: "type",
		},
		{
			name: "duplicate enum value",
			src:  `syntax = "proto3"; enum E { Z = 0; Z = 1; }`,
			what: "enum value",
		},
		{
			name: "duplicate method",
			src:  `syntax = "proto3"; message A {} service S { rpc M (A) returns (A); rpc M (A) returns (A); }`,
			what: "method",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Parse(strings.NewReader(tt.src), "dup.proto")
			require.Error(t, err)
			var dup *schema.DuplicateNameError
			require.True(t, errors.As(err, &dup), "expected DuplicateNameError, got %v", err)
			assert.Equal(t, tt.what, dup.What)
			assert.Equal(t, "dup.proto", dup.Path)
		})
	}
}

func TestParseDuplicateEnumValuePosition(t *testing.T) {
	src := "syntax = \"proto3\";\nenum E {\n  Z = 0;\n  Y = 1;\n  Z = 2;\n}\n"
	_, err := schema.Parse(strings.NewReader(src), "dup.proto")

	var dup *schema.DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Z", dup.Name)
	assert.Equal(t, 5, dup.Position.Line)
	assert.Contains(t, err.Error(), "dup.proto:5:")
}

func TestParseSyntaxError(t *testing.T) {
	_, err := schema.Parse(strings.NewReader(`syntax = "proto3"; message A { string x = ; }`), "broken.proto")
	require.Error(t, err)
	var pe *schema.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "broken.proto", pe.Path)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.proto")
	require.NoError(t, os.WriteFile(path, []byte(`syntax = "proto3"; package p;`), 0o644))

	f, err := schema.ParseFile(path, "empty.proto")
	require.NoError(t, err)
	assert.Equal(t, "empty", f.Name)
	assert.Equal(t, "p", f.Package)
	assert.Empty(t, f.Elements)

	_, err = schema.ParseFile(filepath.Join(dir, "missing.proto"), "missing.proto")
	assert.Error(t, err)
}

func TestValidMapKey(t *testing.T) {
	for _, s := range []schema.Scalar{schema.Int32, schema.Uint64, schema.Sfixed32, schema.Bool, schema.String} {
		assert.True(t, s.ValidMapKey(), s)
	}
	for _, s := range []schema.Scalar{schema.Float, schema.Double, schema.Bytes, schema.Scalar("Foo")} {
		assert.False(t, s.ValidMapKey(), s)
	}
}
