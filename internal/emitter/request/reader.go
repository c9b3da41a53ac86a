package request

import (
	"fmt"

	"github.com/vasilecampeanu/openapi-codegen/internal/emitter"
	"github.com/vasilecampeanu/openapi-codegen/internal/output"
	"github.com/vasilecampeanu/openapi-codegen/internal/source"
	"github.com/vasilecampeanu/openapi-codegen/internal/spec"
)

// Reader emits wrappers for methods without a request body (GET, DELETE).
type Reader struct {
	base
}

// NewReader returns the read-style emitter for method.
func NewReader(method spec.HttpMethod, doc *spec.Document, opts emitter.Options) (*Reader, error) {
	switch method {
	case spec.GET, spec.DELETE:
	default:
		return nil, fmt.Errorf("%s is not a read-style method", method)
	}
	return &Reader{base: newBase(doc, method, opts)}, nil
}

// Emit renders the wrapper file for d.
func (r *Reader) Emit(d Descriptor, basePath string) (*output.Record, error) {
	if err := r.check(d); err != nil {
		return nil, err
	}
	w := r.newWrapper(d, basePath)
	paramsType, paramsOptional := w.paramsShape()
	extends := w.baseClass()

	class := r.opts.NewBuilder()
	w.classDoc(class)
	class.Class(w.class, extends, func(out *source.Builder) {
		out.Block("constructor("+constructorArgs("", paramsType, paramsOptional)+")", func(out *source.Builder) {
			out.Line(fmt.Sprintf("super('%s');", w.url))
		})
		w.populateURL(out)
		w.populateHeaders(out)
	})
	return w.finish(class), nil
}
