package request

import (
	"fmt"
	"strings"

	"github.com/vasilecampeanu/openapi-codegen/internal/emitter"
	"github.com/vasilecampeanu/openapi-codegen/internal/output"
	"github.com/vasilecampeanu/openapi-codegen/internal/source"
	"github.com/vasilecampeanu/openapi-codegen/internal/spec"
)

// untypedBody is the payload type of write-style wrappers whose body schema is
// absent or cannot be resolved.
const untypedBody = "Record<string, unknown>"

// Writer emits wrappers for methods carrying a request body (POST, PUT, PATCH).
type Writer struct {
	base
}

// NewWriter returns the write-style emitter for method.
func NewWriter(method spec.HttpMethod, doc *spec.Document, opts emitter.Options) (*Writer, error) {
	switch method {
	case spec.POST, spec.PUT, spec.PATCH:
	default:
		return nil, fmt.Errorf("%s is not a write-style method", method)
	}
	return &Writer{base: newBase(doc, method, opts)}, nil
}

// Emit renders the wrapper file for d. The body-population routine is always
// present; it copies every property the payload model declares, inherited
// ones included.
func (wr *Writer) Emit(d Descriptor, basePath string) (*output.Record, error) {
	if err := wr.check(d); err != nil {
		return nil, err
	}
	w := wr.newWrapper(d, basePath)
	bodyType, fields := wr.body(w)
	paramsType, paramsOptional := w.paramsShape()
	extends := w.baseClass(bodyType)

	class := wr.opts.NewBuilder()
	w.classDoc(class)
	class.Class(w.class, extends, func(out *source.Builder) {
		out.Block("constructor("+constructorArgs(bodyType, paramsType, paramsOptional)+")", func(out *source.Builder) {
			out.Line(fmt.Sprintf("super('%s');", w.url))
		})
		w.populateURL(out)
		w.populateHeaders(out)
		out.Blank()
		out.Block("protected populateBody(payload: Record<string, unknown>): void", func(out *source.Builder) {
			for _, f := range fields {
				field := "this.body." + f.Member
				out.Block("if ("+field+" !== undefined)", func(out *source.Builder) {
					out.Line(fmt.Sprintf("payload['%s'] = %s;", quote(f.Name), field))
				})
			}
		})
	})
	return w.finish(class), nil
}

// body resolves the payload type and the fields the population routine copies.
// An inline object body is declared in the wrapper file as <Class>Body.
func (wr *Writer) body(w *wrapper) (string, []emitter.Field) {
	s := w.d.Body
	switch {
	case s == nil:
		return untypedBody, nil
	case s.Ref != "" && !isCollection(s.Ref):
		model := spec.RefName(s.Ref)
		if !w.importModels(model) {
			return untypedBody, nil
		}
		target, _ := wr.doc.Schema(model)
		return wr.opts.TypeName(model), emitter.AllFields(wr.doc, target)
	case len(s.Properties) > 0 || len(s.AllOf) > 0:
		fields := emitter.AllFields(wr.doc, s)
		members := make([]source.Member, 0, len(fields))
		for _, f := range fields {
			t := wr.opts.MemberType(f)
			w.importModels(t.Deps...)
			m := source.Member{Name: f.Member, Type: t.Expr, Optional: f.Optional}
			if wr.opts.Docs && f.Schema != nil {
				m.Doc = f.Schema.Description
			}
			members = append(members, m)
		}
		name := w.class + "Body"
		w.decls.Interface(name, nil, members)
		w.decls.Blank()
		return name, fields
	default:
		t := wr.opts.Type(s)
		w.importModels(t.Deps...)
		return t.Expr, nil
	}
}

func isCollection(ref string) bool {
	_, ok := emitter.CollectionElement(spec.RefName(ref))
	return ok
}

func quote(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

// Variants returns the emitters for every supported method: read-style for GET
// and DELETE, write-style for POST, PUT and PATCH.
func Variants(doc *spec.Document, opts emitter.Options) []Emitter {
	var out []Emitter
	for _, m := range []spec.HttpMethod{spec.GET, spec.DELETE} {
		r, _ := NewReader(m, doc, opts)
		out = append(out, r)
	}
	for _, m := range []spec.HttpMethod{spec.POST, spec.PUT, spec.PATCH} {
		w, _ := NewWriter(m, doc, opts)
		out = append(out, w)
	}
	return out
}
