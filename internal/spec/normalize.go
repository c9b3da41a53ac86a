package spec

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi3"
)

// normalizer converts kin-openapi documents into the Document view. It carries
// the key-order index so maps come out in declaration order.
type normalizer struct {
	order KeyOrder
}

// FromOpenAPI3 builds the normalized view of an OpenAPI 3 document. order may
// be nil, in which case map keys are emitted in lexical order.
func FromOpenAPI3(doc *openapi3.T, order KeyOrder) *Document {
	n := normalizer{order: order}
	out := &Document{
		Dialect: OpenAPI3,
		Title:   safeStr(doc.Info.Title),
		Version: safeStr(doc.Info.Version),
		Schemas: map[string]*Schema{},
	}
	if len(doc.Servers) > 0 && doc.Servers[0] != nil {
		out.BasePath = basePathFromServer(doc.Servers[0].URL)
	}

	var comps *openapi3.Components
	if doc.Components != nil {
		comps = doc.Components
		for _, name := range Keys(n.order, "/components/schemas", comps.Schemas) {
			s := n.schema3(comps.Schemas[name], Pointer("/components/schemas", name))
			if s == nil {
				continue
			}
			out.Schemas[name] = s
			out.SchemaNames = append(out.SchemaNames, name)
		}
	}

	for _, p := range Keys(n.order, "/paths", doc.Paths) {
		item := doc.Paths[p]
		if item == nil {
			continue
		}
		itemPtr := Pointer("/paths", p)
		pi := PathItem{Path: p}
		pi.Parameters = n.params3(item.Parameters, Pointer(itemPtr, "parameters"), comps)

		ops := []struct {
			m HttpMethod
			o *openapi3.Operation
		}{
			{GET, item.Get},
			{POST, item.Post},
			{PUT, item.Put},
			{DELETE, item.Delete},
			{PATCH, item.Patch},
			{HEAD, item.Head},
			{OPTIONS, item.Options},
			{TRACE, item.Trace},
		}
		for _, pair := range ops {
			if pair.o == nil {
				continue
			}
			opPtr := Pointer(itemPtr, string(pair.m))
			op := Operation{
				Method:      pair.m,
				Path:        p,
				OperationID: safeStr(pair.o.OperationID),
				Summary:     safeStr(pair.o.Summary),
				Description: safeStr(pair.o.Description),
				Tags:        append([]string(nil), pair.o.Tags...),
				Parameters:  n.params3(pair.o.Parameters, Pointer(opPtr, "parameters"), comps),
			}
			if rb := pair.o.RequestBody; rb != nil {
				bodyPtr := Pointer(opPtr, "requestBody")
				body := rb.Value
				if rb.Ref != "" && comps != nil {
					name := RefName(rb.Ref)
					bodyPtr = Pointer("/components/requestBodies", name)
					body = nil
					if r := comps.RequestBodies[name]; r != nil {
						body = r.Value
					}
				}
				if body != nil {
					op.RequestBody = n.content3(body.Content, Pointer(bodyPtr, "content"))
				}
			}
			respPtr := Pointer(opPtr, "responses")
			for _, code := range Keys(n.order, respPtr, pair.o.Responses) {
				rref := pair.o.Responses[code]
				if rref == nil {
					continue
				}
				ptr := Pointer(respPtr, code)
				resp := rref.Value
				if rref.Ref != "" && comps != nil {
					name := RefName(rref.Ref)
					ptr = Pointer("/components/responses", name)
					resp = nil
					if r := comps.Responses[name]; r != nil {
						resp = r.Value
					}
				}
				if resp == nil {
					op.Responses = append(op.Responses, Response{Status: code})
					continue
				}
				desc := ""
				if resp.Description != nil {
					desc = safeStr(*resp.Description)
				}
				op.Responses = append(op.Responses, Response{
					Status:      code,
					Description: desc,
					Content:     n.content3(resp.Content, Pointer(ptr, "content")),
				})
			}
			pi.Operations = append(pi.Operations, op)
		}
		out.Paths = append(out.Paths, pi)
	}
	return out
}

func (n normalizer) params3(params openapi3.Parameters, ptr string, comps *openapi3.Components) []Parameter {
	var out []Parameter
	for i, pref := range params {
		if pref == nil {
			continue
		}
		p := pref.Value
		pPtr := Pointer(ptr, strconv.Itoa(i))
		if pref.Ref != "" && comps != nil {
			name := RefName(pref.Ref)
			pPtr = Pointer("/components/parameters", name)
			p = nil
			if r := comps.Parameters[name]; r != nil {
				p = r.Value
			}
		}
		if p == nil {
			continue
		}
		pm := Parameter{
			Name:        safeStr(p.Name),
			In:          safeStr(p.In),
			Required:    p.Required,
			Description: safeStr(p.Description),
			Schema:      n.schema3(p.Schema, Pointer(pPtr, "schema")),
		}
		if pm.Schema != nil {
			pm.Type = pm.Schema.Type
			pm.Format = pm.Schema.Format
			pm.Items = pm.Schema.Items
		}
		out = append(out, pm)
	}
	return out
}

func (n normalizer) content3(content openapi3.Content, ptr string) []Media {
	var out []Media
	for _, mime := range Keys(n.order, ptr, content) {
		mt := content[mime]
		if mt == nil {
			continue
		}
		out = append(out, Media{
			Mime:   mime,
			Schema: n.schema3(mt.Schema, Pointer(ptr, mime, "schema")),
		})
	}
	return out
}

func (n normalizer) schema3(ref *openapi3.SchemaRef, ptr string) *Schema {
	if ref == nil {
		return nil
	}
	if ref.Ref != "" {
		return &Schema{Ref: ref.Ref}
	}
	v := ref.Value
	if v == nil {
		return nil
	}
	s := &Schema{
		Type:        safeStr(v.Type),
		Format:      safeStr(v.Format),
		Description: safeStr(v.Description),
		Nullable:    v.Nullable,
		Required:    append([]string(nil), v.Required...),
		Items:       n.schema3(v.Items, Pointer(ptr, "items")),
	}
	if len(v.Enum) > 0 {
		s.Enum = append([]any(nil), v.Enum...)
	}
	if v.AdditionalProperties.Has != nil {
		allowed := *v.AdditionalProperties.Has
		s.AdditionalPropertiesAllowed = &allowed
	}
	if v.AdditionalProperties.Schema != nil {
		s.AdditionalProperties = n.schema3(v.AdditionalProperties.Schema, Pointer(ptr, "additionalProperties"))
	}
	propsPtr := Pointer(ptr, "properties")
	for _, name := range Keys(n.order, propsPtr, v.Properties) {
		if ps := n.schema3(v.Properties[name], Pointer(propsPtr, name)); ps != nil {
			s.Properties = append(s.Properties, Property{Name: name, Schema: ps})
		}
	}
	s.AllOf = n.schemas3(v.AllOf, Pointer(ptr, "allOf"))
	s.OneOf = n.schemas3(v.OneOf, Pointer(ptr, "oneOf"))
	s.AnyOf = n.schemas3(v.AnyOf, Pointer(ptr, "anyOf"))
	return s
}

func (n normalizer) schemas3(refs openapi3.SchemaRefs, ptr string) []*Schema {
	var out []*Schema
	for i, r := range refs {
		if s := n.schema3(r, Pointer(ptr, strconv.Itoa(i))); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// FromSwagger2 builds the normalized view of a Swagger 2.0 document. Body
// parameters are kept as parameters, with formData and repeated body
// parameters merged into one; responses carry their single schema as a media
// entry without a mime type.
func FromSwagger2(doc *openapi2.T, order KeyOrder) *Document {
	n := normalizer{order: order}
	out := &Document{
		Dialect:  Swagger2,
		Title:    safeStr(doc.Info.Title),
		Version:  safeStr(doc.Info.Version),
		BasePath: strings.TrimRight(safeStr(doc.BasePath), "/"),
		Schemas:  map[string]*Schema{},
	}
	for _, name := range Keys(n.order, "/definitions", doc.Definitions) {
		s := n.schema3(doc.Definitions[name], Pointer("/definitions", name))
		if s == nil {
			continue
		}
		out.Schemas[name] = s
		out.SchemaNames = append(out.SchemaNames, name)
	}

	for _, p := range Keys(n.order, "/paths", doc.Paths) {
		item := doc.Paths[p]
		if item == nil {
			continue
		}
		itemPtr := Pointer("/paths", p)
		pi := PathItem{Path: p}
		pi.Parameters = n.params2(doc, item.Parameters, Pointer(itemPtr, "parameters"))

		ops := []struct {
			m HttpMethod
			o *openapi2.Operation
		}{
			{GET, item.Get},
			{POST, item.Post},
			{PUT, item.Put},
			{DELETE, item.Delete},
			{PATCH, item.Patch},
			{HEAD, item.Head},
			{OPTIONS, item.Options},
		}
		for _, pair := range ops {
			if pair.o == nil {
				continue
			}
			opPtr := Pointer(itemPtr, string(pair.m))
			op := Operation{
				Method:      pair.m,
				Path:        p,
				OperationID: safeStr(pair.o.OperationID),
				Summary:     safeStr(pair.o.Summary),
				Description: safeStr(pair.o.Description),
				Tags:        append([]string(nil), pair.o.Tags...),
				Parameters:  mergeLegacyBody(n.params2(doc, pair.o.Parameters, Pointer(opPtr, "parameters"))),
			}
			respPtr := Pointer(opPtr, "responses")
			for _, code := range Keys(n.order, respPtr, pair.o.Responses) {
				resp := pair.o.Responses[code]
				if resp == nil {
					continue
				}
				ptr := Pointer(respPtr, code)
				if resp.Ref != "" {
					name := RefName(resp.Ref)
					ptr = Pointer("/responses", name)
					resp = doc.Responses[name]
					if resp == nil {
						op.Responses = append(op.Responses, Response{Status: code})
						continue
					}
				}
				r := Response{Status: code, Description: safeStr(resp.Description)}
				if s := n.schema3(resp.Schema, Pointer(ptr, "schema")); s != nil {
					r.Content = []Media{{Schema: s}}
				}
				op.Responses = append(op.Responses, r)
			}
			pi.Operations = append(pi.Operations, op)
		}
		out.Paths = append(out.Paths, pi)
	}
	return out
}

func (n normalizer) params2(doc *openapi2.T, params openapi2.Parameters, ptr string) []Parameter {
	var out []Parameter
	for i, p := range params {
		if p == nil {
			continue
		}
		pPtr := Pointer(ptr, strconv.Itoa(i))
		if p.Ref != "" {
			name := RefName(p.Ref)
			pPtr = Pointer("/parameters", name)
			p = doc.Parameters[name]
			if p == nil {
				continue
			}
		}
		out = append(out, Parameter{
			Name:        safeStr(p.Name),
			In:          safeStr(p.In),
			Required:    p.Required,
			Description: safeStr(p.Description),
			Type:        safeStr(p.Type),
			Format:      safeStr(p.Format),
			Items:       n.schema3(p.Items, Pointer(pPtr, "items")),
			Schema:      n.schema3(p.Schema, Pointer(pPtr, "schema")),
		})
	}
	return out
}

// basePathFromServer extracts the path portion of a server URL. Relative URLs
// and URLs with template variables in the host are handled.
func basePathFromServer(raw string) string {
	raw = safeStr(raw)
	if raw == "" {
		return ""
	}
	if !strings.HasPrefix(raw, "/") {
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			raw = u.Path
		} else if i := strings.Index(raw, "://"); i >= 0 {
			rest := raw[i+3:]
			if j := strings.Index(rest, "/"); j >= 0 {
				raw = rest[j:]
			} else {
				raw = ""
			}
		}
	}
	return strings.TrimRight(raw, "/")
}

func safeStr(s string) string { return strings.TrimSpace(s) }
