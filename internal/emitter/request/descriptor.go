// Package request renders one TypeScript request-wrapper class per endpoint
// and method. Read-style and write-style wrappers are the only two variants.
package request

import (
	"strings"

	"github.com/vasilecampeanu/openapi-codegen/internal/emitter"
	"github.com/vasilecampeanu/openapi-codegen/internal/output"
	"github.com/vasilecampeanu/openapi-codegen/internal/spec"
)

// NoContent is the response type of operations that declare no schema.
const NoContent = "NoContent"

// streamMarker flags a response type as a file download when it appears in
// the type name. Kept for compatibility with existing generated clients; it is
// a name heuristic, not schema-driven.
const streamMarker = "Stream"

// Emitter is implemented by the read-style and write-style variants.
type Emitter interface {
	Method() spec.HttpMethod
	Resolve(filter *spec.PathFilter) []Descriptor
	Emit(d Descriptor, basePath string) (*output.Record, error)
}

// Param is a parameter normalized across dialects.
type Param struct {
	Name        string // as declared
	Member      string // sanitized member name
	In          string
	Required    bool
	Description string
	Type        emitter.TypeExpr
	Array       bool
}

// ResponseType describes what the first declared response yields.
type ResponseType struct {
	// Name is the model name, a capitalized primitive placeholder or NoContent.
	Name string
	// Model is the qualified model name when the response references one.
	Model string
	Array bool
	// Expr is the TypeScript type used as the generic argument.
	Expr string
}

// IsFile reports whether the response is treated as a binary download.
func (r ResponseType) IsFile() bool { return strings.Contains(r.Name, streamMarker) }

// HasGeneric reports whether the wrapper's base class takes the response type
// as a generic argument.
func (r ResponseType) HasGeneric() bool { return r.Name != NoContent && !r.IsFile() }

// Descriptor is one endpoint/method pair ready for emission.
type Descriptor struct {
	Method    spec.HttpMethod
	Path      string
	Operation spec.Operation
	Params    []Param
	Response  ResponseType
	Body      *spec.Schema
}

// QueryOrPath returns parameters that are written into the URL.
func (d Descriptor) QueryOrPath() []Param {
	var out []Param
	for _, p := range d.Params {
		if p.In == "path" || p.In == "query" {
			out = append(out, p)
		}
	}
	return out
}

// Headers returns header parameters.
func (d Descriptor) Headers() []Param {
	var out []Param
	for _, p := range d.Params {
		if p.In == "header" {
			out = append(out, p)
		}
	}
	return out
}

// resolve selects paths matching filter and extracts the operation for
// method.
func resolve(doc *spec.Document, opts emitter.Options, method spec.HttpMethod, filter *spec.PathFilter) []Descriptor {
	var out []Descriptor
	for _, item := range doc.MatchingPaths(filter) {
		op, ok := item.Operation(method)
		if !ok {
			continue
		}
		out = append(out, Descriptor{
			Method:    method,
			Path:      item.Path,
			Operation: op,
			Params:    normalizeParams(opts, item.Parameters, op.Parameters),
			Response:  responseType(opts, op),
			Body:      op.BodySchema(),
		})
	}
	return out
}

// normalizeParams merges path-level and operation-level parameters. An
// operation-level parameter replaces the path-level one with the same location
// and name, keeping its position. Body and form parameters are left out.
func normalizeParams(opts emitter.Options, pathLevel, opLevel []spec.Parameter) []Param {
	var merged []spec.Parameter
	index := map[string]int{}
	for _, group := range [][]spec.Parameter{pathLevel, opLevel} {
		for _, p := range group {
			key := p.In + ":" + p.Name
			if i, ok := index[key]; ok {
				merged[i] = p
				continue
			}
			index[key] = len(merged)
			merged = append(merged, p)
		}
	}
	out := make([]Param, 0, len(merged))
	for _, p := range merged {
		switch p.In {
		case "path", "query", "header":
		default:
			continue
		}
		s := p.Schema
		if s == nil {
			s = &spec.Schema{Type: p.Type, Format: p.Format, Items: p.Items}
		}
		out = append(out, Param{
			Name:        p.Name,
			Member:      emitter.PropertyName(p.Name),
			In:          p.In,
			Required:    p.Required || p.In == "path",
			Description: p.Description,
			Type:        opts.Type(s),
			Array:       s.Type == "array",
		})
	}
	return out
}

// responseType inspects the first declared response and its first media type.
func responseType(opts emitter.Options, op spec.Operation) ResponseType {
	if len(op.Responses) == 0 || len(op.Responses[0].Content) == 0 {
		return ResponseType{Name: NoContent}
	}
	s := op.Responses[0].Content[0].Schema
	if s == nil {
		return ResponseType{Name: NoContent}
	}
	if s.Ref != "" {
		model := spec.RefName(s.Ref)
		if inner, ok := emitter.CollectionElement(model); ok {
			name := opts.TypeName(inner)
			return ResponseType{Name: name, Model: inner, Array: true, Expr: name + "[]"}
		}
		name := opts.TypeName(model)
		return ResponseType{Name: name, Model: model, Expr: name}
	}
	if s.Type == "array" && s.Items != nil && s.Items.Ref != "" {
		model := spec.RefName(s.Items.Ref)
		name := opts.TypeName(model)
		return ResponseType{Name: name, Model: model, Array: true, Expr: name + "[]"}
	}
	placeholder := "Any"
	if s.Type != "" {
		placeholder = emitter.Capitalize(s.Type)
	}
	return ResponseType{Name: placeholder, Expr: opts.Type(s).Expr}
}

// Location returns the output directory, file name and class name of a
// wrapper. The base path and endpoint path are split on '/'; empty segments
// are dropped, the last literal segment names the class and the literal
// segments before it become directories. Parameters following the last
// literal segment are appended as "By<Param>" so /users and /users/{id} get
// distinct classes.
func Location(opts emitter.Options, method spec.HttpMethod, basePath, path string) (dir, filename, class string) {
	var segs, trailing []string
	for _, s := range strings.Split(strings.Trim(basePath, "/")+"/"+strings.Trim(path, "/"), "/") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
			trailing = append(trailing, emitter.PascalCase(s[1:len(s)-1]))
			continue
		}
		segs = append(segs, s)
		trailing = nil
	}
	leaf := "Root"
	if len(segs) > 0 {
		leaf = segs[len(segs)-1]
		segs = segs[:len(segs)-1]
	}
	parts := []string{opts.RequestsDir}
	for _, s := range segs {
		parts = append(parts, emitter.DirSegment(emitter.Identifier(s)))
	}
	class = emitter.PascalCase(string(method)) + emitter.PascalCase(leaf)
	if class == emitter.PascalCase(string(method)) {
		class += "Root"
	}
	if len(trailing) > 0 {
		class += "By" + strings.Join(trailing, "And")
	}
	return strings.Join(parts, "/"), class + ".ts", class
}

// URLTemplate joins the base path and the endpoint path.
func URLTemplate(basePath, path string) string {
	base := strings.TrimRight(basePath, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
