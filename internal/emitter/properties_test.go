package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vasilecampeanu/openapi-codegen/internal/spec"
)

func TestNewField_Optionality(t *testing.T) {
	t.Parallel()
	str := &spec.Schema{Type: "string"}
	nullable := &spec.Schema{Type: "string", Nullable: true}

	assert.False(t, NewField(spec.Property{Name: "a", Schema: str}, true).Optional, "required and not nullable")
	assert.True(t, NewField(spec.Property{Name: "b", Schema: str}, false).Optional, "not required")
	assert.True(t, NewField(spec.Property{Name: "c", Schema: nullable}, true).Optional, "required but nullable")
	assert.True(t, NewField(spec.Property{Name: "d", Schema: nullable}, false).Optional)
}

func TestMemberType_Strict(t *testing.T) {
	t.Parallel()
	f := NewField(spec.Property{Name: "n", Schema: &spec.Schema{Type: "integer", Nullable: true}}, true)

	loose := Options{}.WithDefaults()
	assert.Equal(t, "number", loose.MemberType(f).Expr)

	strict := Options{Strict: true}.WithDefaults()
	assert.Equal(t, "number | null | undefined", strict.MemberType(f).Expr)

	req := NewField(spec.Property{Name: "r", Schema: &spec.Schema{Type: "string"}}, true)
	assert.Equal(t, "string", strict.MemberType(req).Expr)
}

func TestFieldsAndParents(t *testing.T) {
	t.Parallel()
	doc := &spec.Document{Schemas: map[string]*spec.Schema{
		"Base": {
			Type:       "object",
			Required:   []string{"id"},
			Properties: []spec.Property{{Name: "id", Schema: &spec.Schema{Type: "integer"}}},
		},
		"Audit": {
			Type:       "object",
			Properties: []spec.Property{{Name: "created", Schema: &spec.Schema{Type: "string"}}},
		},
		"User": {
			AllOf: []*spec.Schema{
				{Ref: "#/definitions/Base"},
				{Ref: "#/definitions/Audit"},
				{Type: "object", Required: []string{"name"}, Properties: []spec.Property{
					{Name: "name", Schema: &spec.Schema{Type: "string"}},
					{Name: "id", Schema: &spec.Schema{Type: "string"}},
				}},
			},
		},
		// Loop through inheritance must not hang.
		"Loop": {AllOf: []*spec.Schema{{Ref: "#/definitions/Loop"}}},
	}}
	user, _ := doc.Schema("User")

	assert.Equal(t, []string{"Base", "Audit"}, Parents(user))

	own := OwnFields(user)
	require.Len(t, own, 2)
	assert.Equal(t, "name", own[0].Name)
	assert.False(t, own[0].Optional)

	all := AllFields(doc, user)
	names := make([]string, 0, len(all))
	for _, f := range all {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"id", "created", "name"}, names, "parents first, first declaration wins")
	assert.False(t, all[0].Optional)
	assert.True(t, all[1].Optional)

	loop, _ := doc.Schema("Loop")
	assert.Empty(t, AllFields(doc, loop))
}
