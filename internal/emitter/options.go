// Package emitter holds what the model and request emitters share: options,
// model-name parsing, identifier rules and the primitive type mapping.
package emitter

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/vasilecampeanu/openapi-codegen/internal/source"
)

// Options controls how TypeScript output is rendered.
type Options struct {
	Indent int  // spaces per level; defaults to 2, floor 1
	Docs   bool // emit documentation comments
	// Strict renders optional members as "T | undefined" and nullable members
	// as "T | null".
	Strict bool
	// Divider separates namespace segments in model names.
	Divider       string
	ModelsDir     string
	RequestsDir   string
	RuntimeImport string // module providing the request base classes
	Logger        logrus.FieldLogger
}

// Header opens every generated file.
const Header = "// Generated by openapi-codegen. Do not edit."

const (
	DefaultDivider       = "."
	DefaultModelsDir     = "models"
	DefaultRequestsDir   = "requests"
	DefaultRuntimeImport = "@api/runtime"
)

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.Indent == 0 {
		o.Indent = source.DefaultIndent
	}
	if o.Indent < 1 {
		o.Indent = 1
	}
	if o.Divider == "" {
		o.Divider = DefaultDivider
	}
	if o.ModelsDir == "" {
		o.ModelsDir = DefaultModelsDir
	}
	if o.RequestsDir == "" {
		o.RequestsDir = DefaultRequestsDir
	}
	if o.RuntimeImport == "" {
		o.RuntimeImport = DefaultRuntimeImport
	}
	if o.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		o.Logger = l
	}
	return o
}

// NewBuilder returns a source builder using the configured indent.
func (o Options) NewBuilder() *source.Builder {
	return source.New(o.Indent)
}
