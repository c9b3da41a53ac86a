package emitter

import (
	"strings"

	"github.com/vasilecampeanu/openapi-codegen/internal/spec"
)

// TypeScript spellings of the mapped primitives.
const (
	TSNumber  = "number"
	TSString  = "string"
	TSBlob    = "Blob"
	TSBoolean = "boolean"
	TSMap     = "Record<string, any>"
	TSArray   = "Array<any>"
	TSAny     = "any"
)

// Primitive maps an OpenAPI type and format. It is total: unknown types map
// to any.
func Primitive(typ, format string) string {
	switch typ {
	case "integer", "number":
		return TSNumber
	case "string":
		if format == "binary" {
			return TSBlob
		}
		return TSString
	case "file":
		return TSBlob
	case "boolean":
		return TSBoolean
	case "object":
		return TSMap
	case "array":
		return TSArray
	default:
		return TSAny
	}
}

// TypeExpr is a mapped TypeScript type plus the models it refers to, in the
// order they appear.
type TypeExpr struct {
	Expr string
	Deps []string
}

// Type maps a schema to a TypeScript type expression.
func (o Options) Type(s *spec.Schema) TypeExpr {
	var t TypeExpr
	t.Expr = o.typeExpr(s, &t.Deps)
	return t
}

func (o Options) typeExpr(s *spec.Schema, deps *[]string) string {
	if s == nil {
		return TSAny
	}
	if s.Ref != "" {
		name := spec.RefName(s.Ref)
		if inner, ok := CollectionElement(name); ok {
			addDep(deps, inner)
			return o.TypeName(inner) + "[]"
		}
		addDep(deps, name)
		return o.TypeName(name)
	}
	switch s.Type {
	case "array":
		if s.Items == nil {
			return TSArray
		}
		item := o.typeExpr(s.Items, deps)
		if strings.ContainsAny(item, " |&<") {
			return "Array<" + item + ">"
		}
		return item + "[]"
	case "object":
		if s.AdditionalProperties != nil {
			return "Record<string, " + o.typeExpr(s.AdditionalProperties, deps) + ">"
		}
		return TSMap
	case "":
		// Untyped property wrappers such as {allOf: [{$ref: X}]}.
		if expr := o.compositionExpr(s, deps); expr != "" {
			return expr
		}
		if len(s.Properties) > 0 || s.AdditionalProperties != nil {
			return o.typeExpr(&spec.Schema{Type: "object", AdditionalProperties: s.AdditionalProperties}, deps)
		}
		return TSAny
	default:
		return Primitive(s.Type, s.Format)
	}
}

func (o Options) compositionExpr(s *spec.Schema, deps *[]string) string {
	join := func(members []*spec.Schema, sep string) string {
		parts := make([]string, 0, len(members))
		for _, m := range members {
			parts = append(parts, o.typeExpr(m, deps))
		}
		return strings.Join(parts, sep)
	}
	switch {
	case len(s.AllOf) > 0:
		return join(s.AllOf, " & ")
	case len(s.OneOf) > 0:
		return join(s.OneOf, " | ")
	case len(s.AnyOf) > 0:
		return join(s.AnyOf, " | ")
	}
	return ""
}

func addDep(deps *[]string, name string) {
	for _, d := range *deps {
		if d == name {
			return
		}
	}
	*deps = append(*deps, name)
}
