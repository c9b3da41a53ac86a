package request

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vasilecampeanu/openapi-codegen/internal/emitter"
	"github.com/vasilecampeanu/openapi-codegen/internal/output"
	"github.com/vasilecampeanu/openapi-codegen/internal/source"
	"github.com/vasilecampeanu/openapi-codegen/internal/spec"
)

// base carries what both variants share.
type base struct {
	doc    *spec.Document
	opts   emitter.Options
	method spec.HttpMethod
}

func newBase(doc *spec.Document, method spec.HttpMethod, opts emitter.Options) base {
	return base{doc: doc, opts: opts.WithDefaults(), method: method}
}

func (b base) Method() spec.HttpMethod { return b.method }

func (b base) Resolve(filter *spec.PathFilter) []Descriptor {
	return resolve(b.doc, b.opts, b.method, filter)
}

func (b base) check(d Descriptor) error {
	if d.Method != b.method {
		return fmt.Errorf("%s emitter cannot emit %s %s", b.method, d.Method, d.Path)
	}
	return nil
}

// wrapper collects the pieces of one wrapper file while it is rendered.
type wrapper struct {
	b       base
	d       Descriptor
	dir     string
	file    string
	class   string
	url     string
	imports []source.Import
	decls   *source.Builder
}

func (b base) newWrapper(d Descriptor, basePath string) *wrapper {
	dir, file, class := Location(b.opts, d.Method, basePath, d.Path)
	return &wrapper{
		b:     b,
		d:     d,
		dir:   dir,
		file:  file,
		class: class,
		url:   URLTemplate(basePath, d.Path),
		decls: b.opts.NewBuilder(),
	}
}

func (w *wrapper) log() logrus.FieldLogger {
	return w.b.opts.Logger.WithFields(logrus.Fields{"method": w.d.Method, "path": w.d.Path})
}

// importModels adds imports for models that exist in the dictionary. It
// returns false when any of them is missing.
func (w *wrapper) importModels(models ...string) bool {
	ok := true
	for _, m := range models {
		if _, found := w.b.doc.Schema(m); !found {
			w.log().WithField("model", m).Warn("reference to missing schema, import omitted")
			ok = false
			continue
		}
		dir, file := w.b.opts.ModelLocation(m)
		w.imports = append(w.imports, source.Import{
			Name: w.b.opts.TypeName(m),
			From: emitter.ImportPath(w.dir, dir, file),
		})
	}
	return ok
}

// baseClass names the runtime class the wrapper extends, e.g. GetRequest or
// FilePostRequest, and imports it.
func (w *wrapper) baseClass(generics ...string) string {
	name := emitter.PascalCase(string(w.d.Method)) + "Request"
	if w.d.Response.IsFile() {
		name = "File" + name
	}
	w.imports = append([]source.Import{{Name: name, From: w.b.opts.RuntimeImport}}, w.imports...)
	if w.d.Response.HasGeneric() {
		if w.d.Response.Model != "" {
			w.importModels(w.d.Response.Model)
		}
		generics = append(generics, w.d.Response.Expr)
	}
	if len(generics) == 0 {
		return name
	}
	return name + "<" + strings.Join(generics, ", ") + ">"
}

// paramsShape declares the parameters interface and returns its name, or ""
// when the endpoint has no URL or header parameters.
func (w *wrapper) paramsShape() (name string, allOptional bool) {
	if len(w.d.Params) == 0 {
		return "", false
	}
	name = w.class + "Params"
	allOptional = true
	members := make([]source.Member, 0, len(w.d.Params))
	for _, p := range w.d.Params {
		w.importModels(p.Type.Deps...)
		t := p.Type.Expr
		if p.Required {
			allOptional = false
		} else if w.b.opts.Strict {
			t += " | undefined"
		}
		m := source.Member{Name: p.Member, Type: t, Optional: !p.Required}
		if w.b.opts.Docs {
			m.Doc = p.Description
		}
		members = append(members, m)
	}
	w.decls.Interface(name, nil, members)
	w.decls.Blank()
	return name, allOptional
}

// classDoc documents the wrapper with the operation summary and description.
func (w *wrapper) classDoc(out *source.Builder) {
	if !w.b.opts.Docs {
		return
	}
	var lines []string
	if w.d.Operation.Summary != "" {
		lines = append(lines, w.d.Operation.Summary)
	}
	if w.d.Operation.Description != "" && w.d.Operation.Description != w.d.Operation.Summary {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, w.d.Operation.Description)
	}
	route := strings.ToUpper(string(w.d.Method)) + " " + w.url
	lines = append(lines, "", route)
	out.Doc(lines...)
}

// populateURL writes path substitutions and conditional query appends.
func (w *wrapper) populateURL(out *source.Builder) {
	params := w.d.QueryOrPath()
	if len(params) == 0 {
		return
	}
	out.Blank()
	out.Block("protected populateUrl(url: URL): void", func(out *source.Builder) {
		for _, p := range params {
			field := "this.params." + p.Member
			out.Block("if ("+field+" !== undefined)", func(out *source.Builder) {
				switch {
				case p.In == "path":
					out.Line(fmt.Sprintf("url.pathname = url.pathname.replace('{%s}', encodeURIComponent(String(%s)));", quote(p.Name), field))
				case p.Array:
					out.Block("for (const value of "+field+")", func(out *source.Builder) {
						out.Line(fmt.Sprintf("url.searchParams.append('%s', String(value));", quote(p.Name)))
					})
				default:
					out.Line(fmt.Sprintf("url.searchParams.append('%s', String(%s));", quote(p.Name), field))
				}
			})
		}
	})
}

// populateHeaders copies header parameters that are set.
func (w *wrapper) populateHeaders(out *source.Builder) {
	headers := w.d.Headers()
	if len(headers) == 0 {
		return
	}
	out.Blank()
	out.Block("protected populateHeaders(headers: Headers): void", func(out *source.Builder) {
		for _, p := range headers {
			field := "this.params." + p.Member
			out.Block("if ("+field+" !== undefined)", func(out *source.Builder) {
				out.Line(fmt.Sprintf("headers.set('%s', String(%s));", quote(p.Name), field))
			})
		}
	})
}

// constructorArgs renders the constructor parameter list.
func constructorArgs(bodyType, paramsType string, paramsOptional bool) string {
	var args []string
	if bodyType != "" {
		args = append(args, "public body: "+bodyType)
	}
	if paramsType != "" {
		arg := "public params: " + paramsType
		if paramsOptional {
			arg += " = {}"
		}
		args = append(args, arg)
	}
	return strings.Join(args, ", ")
}

// finish assembles header, imports, declarations and the class.
func (w *wrapper) finish(class *source.Builder) *output.Record {
	out := w.b.opts.NewBuilder()
	out.Lines(emitter.Header)
	out.Blank()
	out.Imports(w.imports)
	if decls := w.decls.Build(); decls != "" {
		out.Lines(strings.TrimSuffix(decls, "\n"))
		out.Blank()
	}
	out.Lines(strings.TrimSuffix(class.Build(), "\n"))
	return &output.Record{Content: out.Build(), Path: w.dir, Filename: w.file}
}
