package emitter

import (
	"github.com/vasilecampeanu/openapi-codegen/internal/spec"
)

// Field is a schema property resolved for emission.
type Field struct {
	Name     string // property name as declared in the document
	Member   string // sanitized member name
	Schema   *spec.Schema
	Optional bool
	Nullable bool
}

// NewField applies the optionality rule: a property is optional when it is not
// required or when it is nullable.
func NewField(p spec.Property, required bool) Field {
	nullable := p.Schema != nil && p.Schema.Nullable
	return Field{
		Name:     p.Name,
		Member:   PropertyName(p.Name),
		Schema:   p.Schema,
		Optional: !required || nullable,
		Nullable: nullable,
	}
}

// OwnFields returns the properties a model declares itself: its direct
// properties followed by those of inline (non-$ref) allOf members.
func OwnFields(s *spec.Schema) []Field {
	if s == nil {
		return nil
	}
	var out []Field
	seen := map[string]struct{}{}
	add := func(holder *spec.Schema) {
		for _, p := range holder.Properties {
			if _, dup := seen[p.Name]; dup {
				continue
			}
			seen[p.Name] = struct{}{}
			out = append(out, NewField(p, holder.IsRequired(p.Name) || s.IsRequired(p.Name)))
		}
	}
	add(s)
	for _, m := range s.AllOf {
		if m != nil && m.Ref == "" {
			add(m)
		}
	}
	return out
}

// Parents returns the model names a schema inherits from through allOf.
func Parents(s *spec.Schema) []string {
	if s == nil {
		return nil
	}
	var out []string
	for _, m := range s.AllOf {
		if m != nil && m.Ref != "" {
			out = append(out, spec.RefName(m.Ref))
		}
	}
	return out
}

// AllFields returns every property of a model including inherited ones,
// parents first in allOf order, then the model's own. This is the member set
// the model declaration exposes.
func AllFields(doc *spec.Document, s *spec.Schema) []Field {
	var out []Field
	seen := map[string]struct{}{}
	visiting := map[string]struct{}{}
	var walk func(*spec.Schema)
	walk = func(s *spec.Schema) {
		if s == nil {
			return
		}
		if s.Ref != "" {
			name := spec.RefName(s.Ref)
			if _, ok := visiting[name]; ok {
				return
			}
			visiting[name] = struct{}{}
			target, _ := doc.Schema(name)
			walk(target)
			return
		}
		for _, parent := range Parents(s) {
			walk(&spec.Schema{Ref: parent})
		}
		for _, f := range OwnFields(s) {
			if _, dup := seen[f.Name]; dup {
				continue
			}
			seen[f.Name] = struct{}{}
			out = append(out, f)
		}
	}
	walk(s)
	return out
}

// MemberType renders a field's type, widening it in strict mode.
func (o Options) MemberType(f Field) TypeExpr {
	t := o.Type(f.Schema)
	if o.Strict {
		if f.Nullable {
			t.Expr += " | null"
		}
		if f.Optional {
			t.Expr += " | undefined"
		}
	}
	return t
}
