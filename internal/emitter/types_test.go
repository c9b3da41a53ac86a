package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vasilecampeanu/openapi-codegen/internal/spec"
)

func TestPrimitive(t *testing.T) {
	t.Parallel()
	cases := []struct{ typ, format, want string }{
		{"integer", "int64", "number"},
		{"number", "", "number"},
		{"string", "", "string"},
		{"string", "date-time", "string"},
		{"string", "binary", "Blob"},
		{"file", "", "Blob"},
		{"boolean", "", "boolean"},
		{"object", "", "Record<string, any>"},
		{"array", "", "Array<any>"},
		{"", "", "any"},
		{"uuid", "", "any"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Primitive(c.typ, c.format), "%s/%s", c.typ, c.format)
	}
}

func TestOptionsType(t *testing.T) {
	t.Parallel()
	o := Options{}.WithDefaults()
	ref := func(n string) *spec.Schema { return &spec.Schema{Ref: "#/definitions/" + n} }

	tests := []struct {
		name string
		in   *spec.Schema
		expr string
		deps []string
	}{
		{name: "nil", in: nil, expr: "any"},
		{name: "ref", in: ref("Ns.User"), expr: "User", deps: []string{"Ns.User"}},
		{name: "array of ref", in: &spec.Schema{Type: "array", Items: ref("User")}, expr: "User[]", deps: []string{"User"}},
		{name: "array of primitive", in: &spec.Schema{Type: "array", Items: &spec.Schema{Type: "integer"}}, expr: "number[]"},
		{name: "bare array", in: &spec.Schema{Type: "array"}, expr: "Array<any>"},
		{name: "nested array", in: &spec.Schema{Type: "array", Items: &spec.Schema{Type: "object"}}, expr: "Array<Record<string, any>>"},
		{name: "map of ref", in: &spec.Schema{Type: "object", AdditionalProperties: ref("Tag")}, expr: "Record<string, Tag>", deps: []string{"Tag"}},
		{name: "allOf wrapper", in: &spec.Schema{AllOf: []*spec.Schema{ref("A"), ref("B")}}, expr: "A & B", deps: []string{"A", "B"}},
		{name: "oneOf", in: &spec.Schema{OneOf: []*spec.Schema{ref("A"), {Type: "string"}}}, expr: "A | string", deps: []string{"A"}},
		{name: "array of union", in: &spec.Schema{Type: "array", Items: &spec.Schema{AnyOf: []*spec.Schema{ref("A"), ref("A")}}}, expr: "Array<A | A>", deps: []string{"A"}},
		{name: "binary", in: &spec.Schema{Type: "string", Format: "binary"}, expr: "Blob"},
	}
	for _, tt := range tests {
		got := o.Type(tt.in)
		assert.Equal(t, tt.expr, got.Expr, tt.name)
		assert.Equal(t, tt.deps, got.Deps, tt.name)
	}
}

func TestOptionsType_CollectionWrapperRef(t *testing.T) {
	t.Parallel()
	o := Options{}.WithDefaults()

	got := o.Type(&spec.Schema{Ref: "#/definitions/IEnumerable[Shop.Item]"})
	assert.Equal(t, "Item[]", got.Expr)
	assert.Equal(t, []string{"Shop.Item"}, got.Deps)

	inner, ok := CollectionElement("List[Foo]")
	assert.True(t, ok)
	assert.Equal(t, "Foo", inner)
	_, ok = CollectionElement("Foo")
	assert.False(t, ok)
}
