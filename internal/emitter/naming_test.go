package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseModelName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		dir  []string
		leaf string
	}{
		{in: "User", leaf: "User"},
		{in: "Namespace.Sub.Model", dir: []string{"Namespace", "Sub"}, leaf: "Model"},
		{in: "IEnumerable[Shop.Item]", dir: []string{"Shop"}, leaf: "Item"},
		{in: "List[Foo]", leaf: "Foo"},
		{in: "System.Collections.Generic.IEnumerable`1[[Billing.Invoice, Billing.Api]]", dir: []string{"Billing"}, leaf: "Invoice"},
		{in: "Odd-Name", leaf: "Odd_Name"},
	}
	for _, tt := range tests {
		mn := ParseModelName(tt.in, ".")
		assert.Equal(t, tt.dir, mn.Dir, tt.in)
		assert.Equal(t, tt.leaf, mn.Leaf, tt.in)
		assert.Equal(t, tt.in, mn.Qualified)
	}
}

func TestParseModelName_CustomDivider(t *testing.T) {
	t.Parallel()
	mn := ParseModelName("Api::V1::User", "::")
	assert.Equal(t, []string{"Api", "V1"}, mn.Dir)
	assert.Equal(t, "User", mn.Leaf)
}

func TestModelLocation(t *testing.T) {
	t.Parallel()
	o := Options{}.WithDefaults()
	dir, file := o.ModelLocation("Namespace.Sub.Model")
	assert.Equal(t, "models/Namespace/Sub", dir)
	assert.Equal(t, "Model.ts", file)
	assert.Equal(t, "Model", o.TypeName("Namespace.Sub.Model"))
}

func TestImportPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "./Address", ImportPath("models", "models", "Address.ts"))
	assert.Equal(t, "../Shared/Money", ImportPath("models/Billing", "models/Shared", "Money.ts"))
	assert.Equal(t, "../../../models/User", ImportPath("requests/api/users", "models", "User.ts"))
	assert.Equal(t, "./Sub/Model", ImportPath("models", "models/Sub", "Model.ts"))
}

func TestIdentifier(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "first_name", Identifier("first-name"))
	assert.Equal(t, "$ref", Identifier("$ref"))
	assert.Equal(t, "_2fa", Identifier("2fa"))
	assert.Equal(t, "_", Identifier(""))
	assert.Equal(t, "a_b_c", PropertyName("a.b c"))
}

func TestCasing(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "String", Capitalize("string"))
	assert.Equal(t, "XMLHttp", Capitalize("xMLHttp"))
	assert.Equal(t, "Login", PascalCase("Login"))
	assert.Equal(t, "UserProfiles", PascalCase("user-profiles"))
	assert.Equal(t, "Get", PascalCase("get"))

	assert.Equal(t, "api", DirSegment("API"))
	assert.Equal(t, "userAccounts", DirSegment("UserAccounts"))
	assert.Equal(t, "auth", DirSegment("auth"))
	assert.Equal(t, "v2", DirSegment("V2"))
}
