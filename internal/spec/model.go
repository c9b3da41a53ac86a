package spec

import "strings"

// Normalized document view used by the walker and the emitters. It is built once
// per parsed document and never mutated afterwards.

type HttpMethod string

const (
	GET     HttpMethod = "get"
	POST    HttpMethod = "post"
	PUT     HttpMethod = "put"
	DELETE  HttpMethod = "delete"
	PATCH   HttpMethod = "patch"
	HEAD    HttpMethod = "head"
	OPTIONS HttpMethod = "options"
	TRACE   HttpMethod = "trace"
)

// Methods lists every method in the order operations are read from a path item.
var Methods = []HttpMethod{GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS, TRACE}

// Dialect identifies which OpenAPI flavour a document was written in.
type Dialect int

const (
	Swagger2 Dialect = 2
	OpenAPI3 Dialect = 3
)

func (d Dialect) String() string {
	switch d {
	case Swagger2:
		return "swagger 2.0"
	case OpenAPI3:
		return "openapi 3.0"
	default:
		return "unknown"
	}
}

// Document is the dialect-independent view of a parsed spec.
type Document struct {
	Dialect  Dialect
	Title    string
	Version  string
	BasePath string
	Paths    []PathItem
	// Schemas is the schema dictionary (definitions or components.schemas).
	Schemas map[string]*Schema
	// SchemaNames keeps dictionary keys in document order.
	SchemaNames []string
}

// Schema looks up a dictionary entry by name.
func (d *Document) Schema(name string) (*Schema, bool) {
	if d == nil || d.Schemas == nil {
		return nil, false
	}
	s, ok := d.Schemas[name]
	return s, ok && s != nil
}

// Deref follows s while it is a $ref. It returns nil when a reference cannot be
// resolved. A reference chain that loops back on itself also yields nil.
func (d *Document) Deref(s *Schema) *Schema {
	seen := map[string]struct{}{}
	for s != nil && s.Ref != "" {
		name := RefName(s.Ref)
		if _, ok := seen[name]; ok {
			return nil
		}
		seen[name] = struct{}{}
		next, ok := d.Schema(name)
		if !ok {
			return nil
		}
		s = next
	}
	return s
}

type PathItem struct {
	Path       string
	Parameters []Parameter
	Operations []Operation
}

// Operation returns the operation defined for method, if any.
func (p PathItem) Operation(method HttpMethod) (Operation, bool) {
	for _, op := range p.Operations {
		if op.Method == method {
			return op, true
		}
	}
	return Operation{}, false
}

type Operation struct {
	Method      HttpMethod
	Path        string
	OperationID string
	Summary     string
	Description string
	Tags        []string
	Parameters  []Parameter
	// RequestBody is only populated for OpenAPI 3 documents; Swagger 2 bodies
	// stay in Parameters with In == "body".
	RequestBody []Media
	Responses   []Response
}

// BodySchema returns the request payload schema regardless of dialect.
func (o Operation) BodySchema() *Schema {
	for _, m := range o.RequestBody {
		if m.Schema != nil {
			return m.Schema
		}
	}
	for _, p := range o.Parameters {
		if p.In == "body" && p.Schema != nil {
			return p.Schema
		}
	}
	return nil
}

type Parameter struct {
	Name        string
	In          string // path|query|header|cookie|body|formData
	Required    bool
	Description string
	// Type and Format are set directly for Swagger 2 non-body parameters.
	Type   string
	Format string
	Items  *Schema
	Schema *Schema
}

type Response struct {
	Status      string
	Description string
	// Content holds one entry per media type. Swagger 2 responses produce a
	// single entry with an empty Mime.
	Content []Media
}

type Media struct {
	Mime   string
	Schema *Schema
}

type Property struct {
	Name   string
	Schema *Schema
}

type Schema struct {
	Ref         string
	Type        string
	Format      string
	Description string
	Properties  []Property
	Required    []string
	Nullable    bool
	Items       *Schema
	// AdditionalProperties holds the map value schema. The boolean form is kept
	// separately and never walked.
	AdditionalProperties        *Schema
	AdditionalPropertiesAllowed *bool
	AllOf                       []*Schema
	OneOf                       []*Schema
	AnyOf                       []*Schema
	Enum                        []any
}

// IsRequired reports whether name is listed in Required.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Property returns the named property schema.
func (s *Schema) Property(name string) (*Schema, bool) {
	if s == nil {
		return nil, false
	}
	for _, p := range s.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// Composition returns allOf, oneOf and anyOf members in that order.
func (s *Schema) Composition() []*Schema {
	if s == nil {
		return nil
	}
	out := make([]*Schema, 0, len(s.AllOf)+len(s.OneOf)+len(s.AnyOf))
	out = append(out, s.AllOf...)
	out = append(out, s.OneOf...)
	return append(out, s.AnyOf...)
}

// RefName extracts the model name from a reference string: the text after the
// last '/'.
func RefName(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
