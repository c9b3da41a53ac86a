package spec

// mergeLegacyBody folds the payload parameters of a Swagger 2 operation into a
// single body parameter so both dialects expose one request body. A lone body
// parameter is left untouched. Several body parameters, or any formData
// parameters, become one object schema with a property per parameter; the
// merged parameter is placed first.
func mergeLegacyBody(params []Parameter) []Parameter {
	var payload, rest []Parameter
	hasForm := false
	for _, p := range params {
		switch p.In {
		case "body":
			payload = append(payload, p)
		case "formData":
			payload = append(payload, p)
			hasForm = true
		default:
			rest = append(rest, p)
		}
	}
	if len(payload) == 0 || (len(payload) == 1 && !hasForm) {
		return params
	}

	merged := &Schema{Type: "object"}
	for _, p := range payload {
		name := p.Name
		if name == "" {
			name = "field"
		}
		merged.Properties = append(merged.Properties, Property{Name: name, Schema: payloadSchema(p)})
		if p.Required {
			merged.Required = append(merged.Required, name)
		}
	}
	out := make([]Parameter, 0, len(rest)+1)
	out = append(out, Parameter{
		Name:     "body",
		In:       "body",
		Required: len(merged.Required) > 0,
		Schema:   merged,
	})
	return append(out, rest...)
}

// payloadSchema returns the schema of a body parameter, or synthesizes one from
// the primitive type of a formData parameter. Untyped parameters fall back to
// string.
func payloadSchema(p Parameter) *Schema {
	if p.Schema != nil {
		return p.Schema
	}
	typ := p.Type
	if typ == "" {
		typ = "string"
	}
	return &Schema{Type: typ, Format: p.Format, Items: p.Items, Description: p.Description}
}
