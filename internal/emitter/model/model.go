// Package model renders one TypeScript declaration file per data model.
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vasilecampeanu/openapi-codegen/internal/emitter"
	"github.com/vasilecampeanu/openapi-codegen/internal/output"
	"github.com/vasilecampeanu/openapi-codegen/internal/source"
	"github.com/vasilecampeanu/openapi-codegen/internal/spec"
)

// ErrMissingSchema is returned when a model name has no dictionary entry.
var ErrMissingSchema = errors.New("missing schema")

// Emitter turns model names into declaration records. processed is permanent
// for the lifetime of the emitter; inFlight only holds names whose emission is
// on the current call stack.
type Emitter struct {
	doc  *spec.Document
	opts emitter.Options
	log  logrus.FieldLogger

	processed map[string]struct{}
	inFlight  map[string]struct{}
	records   []output.Record
}

func New(doc *spec.Document, opts emitter.Options) *Emitter {
	opts = opts.WithDefaults()
	return &Emitter{
		doc:       doc,
		opts:      opts,
		log:       opts.Logger,
		processed: map[string]struct{}{},
		inFlight:  map[string]struct{}{},
	}
}

// Emit renders name after its parents and property dependencies. It returns
// nil without error when name was already emitted or is being emitted further
// up the stack. A collection wrapper name emits its element model instead.
func (e *Emitter) Emit(name string) (*output.Record, error) {
	if _, ok := e.processed[name]; ok {
		return nil, nil
	}
	if inner, ok := emitter.CollectionElement(name); ok {
		e.processed[name] = struct{}{}
		if _, found := e.doc.Schema(inner); !found {
			return nil, nil
		}
		return e.Emit(inner)
	}
	if _, ok := e.inFlight[name]; ok {
		return nil, nil
	}
	e.inFlight[name] = struct{}{}
	defer delete(e.inFlight, name)

	s, ok := e.doc.Schema(name)
	if !ok {
		e.processed[name] = struct{}{}
		return nil, fmt.Errorf("model %q: %w", name, ErrMissingSchema)
	}

	for _, parent := range emitter.Parents(s) {
		e.emitDependency(name, parent)
	}

	rec, deps := e.render(name, s)
	for _, dep := range deps {
		e.emitDependency(name, dep)
	}
	e.processed[name] = struct{}{}
	e.records = append(e.records, rec)
	return &rec, nil
}

// EmitAll emits every name in order and returns the new records,
// dependencies before dependents. Missing schemas are logged and skipped.
func (e *Emitter) EmitAll(names []string) []output.Record {
	for _, n := range names {
		if _, err := e.Emit(n); err != nil {
			e.log.WithField("model", n).WithError(err).Warn("skipping model")
		}
	}
	return e.Drain()
}

// Drain returns the records emitted since the previous call, dependencies
// before dependents.
func (e *Emitter) Drain() []output.Record {
	out := e.records
	e.records = nil
	return out
}

// Emitted reports whether name has been rendered.
func (e *Emitter) Emitted(name string) bool {
	_, ok := e.processed[name]
	return ok
}

func (e *Emitter) emitDependency(from, dep string) {
	if dep == from {
		return
	}
	// A missing dependency is reported once, where render omits its import.
	if _, err := e.Emit(dep); err != nil && !errors.Is(err, ErrMissingSchema) {
		e.log.WithFields(logrus.Fields{"model": dep, "referencedBy": from}).WithError(err).Warn("skipping model")
	}
}

// render builds the declaration for one model. The returned deps are the
// models it imports, in first-use order.
func (e *Emitter) render(name string, s *spec.Schema) (output.Record, []string) {
	o := e.opts
	typeName := o.TypeName(name)
	dir, file := o.ModelLocation(name)

	var deps []string
	addDeps := func(ds []string) {
		for _, d := range ds {
			if d == name {
				continue
			}
			dup := false
			for _, have := range deps {
				if have == d {
					dup = true
					break
				}
			}
			if !dup {
				deps = append(deps, d)
			}
		}
	}

	body := o.NewBuilder()
	if o.Docs {
		body.Doc(s.Description)
	}

	parents := emitter.Parents(s)
	switch {
	case len(parents) > 0:
		addDeps(parents)
		bases := make([]string, 0, len(parents))
		for _, p := range parents {
			bases = append(bases, o.TypeName(p))
		}
		members, mdeps := e.members(emitter.OwnFields(s))
		addDeps(mdeps)
		body.Alias(typeName, strings.Join(bases, " & "), members)
	case len(s.Enum) > 0 && s.Type != "object":
		body.Alias(typeName, enumUnion(s.Enum), nil)
	case isObject(s):
		members, mdeps := e.members(emitter.OwnFields(s))
		addDeps(mdeps)
		if len(members) == 0 && s.AdditionalProperties != nil {
			t := o.Type(s)
			addDeps(t.Deps)
			body.Alias(typeName, t.Expr, nil)
			break
		}
		body.Interface(typeName, nil, members)
	default:
		t := o.Type(s)
		addDeps(t.Deps)
		body.Alias(typeName, t.Expr, nil)
	}

	// Imports are resolved last so missing dependencies can be dropped.
	var imports []source.Import
	var kept []string
	for _, d := range deps {
		if _, ok := e.doc.Schema(d); !ok {
			e.log.WithFields(logrus.Fields{"model": d, "referencedBy": name}).Warn("reference to missing schema, import omitted")
			continue
		}
		depDir, depFile := o.ModelLocation(d)
		imports = append(imports, source.Import{
			Name: o.TypeName(d),
			From: emitter.ImportPath(dir, depDir, depFile),
		})
		kept = append(kept, d)
	}

	out := o.NewBuilder()
	out.Lines(emitter.Header)
	out.Blank()
	out.Imports(imports)
	out.Lines(body.Build())

	return output.Record{Content: out.Build(), Path: dir, Filename: file}, kept
}

func (e *Emitter) members(fields []emitter.Field) ([]source.Member, []string) {
	var deps []string
	members := make([]source.Member, 0, len(fields))
	for _, f := range fields {
		t := e.opts.MemberType(f)
		deps = append(deps, t.Deps...)
		m := source.Member{Name: f.Member, Type: t.Expr, Optional: f.Optional}
		if e.opts.Docs && f.Schema != nil {
			m.Doc = f.Schema.Description
		}
		members = append(members, m)
	}
	return members, deps
}

func isObject(s *spec.Schema) bool {
	if s.Type == "object" {
		return true
	}
	return s.Type == "" && s.Ref == "" && len(s.OneOf) == 0 && len(s.AnyOf) == 0
}

func enumUnion(values []any) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		switch x := v.(type) {
		case string:
			parts = append(parts, "'"+strings.ReplaceAll(x, "'", "\\'")+"'")
		case float64:
			parts = append(parts, strconv.FormatFloat(x, 'f', -1, 64))
		case int:
			parts = append(parts, strconv.Itoa(x))
		case bool:
			parts = append(parts, strconv.FormatBool(x))
		case nil:
			parts = append(parts, "null")
		default:
			parts = append(parts, fmt.Sprintf("'%v'", x))
		}
	}
	return strings.Join(parts, " | ")
}
