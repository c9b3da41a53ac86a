// Package discover finds every model reachable from a filtered set of
// endpoints by walking $ref edges through the schema dictionary.
package discover

import (
	"github.com/vasilecampeanu/openapi-codegen/internal/spec"
)

// Set is an idempotent collection of model names. Names are also kept in
// first-insertion order so callers can produce reproducible output.
type Set struct {
	names []string
	index map[string]struct{}
}

func NewSet() *Set {
	return &Set{index: map[string]struct{}{}}
}

// Add records name. Adding a name twice is a no-op; the return value reports
// whether the name was new.
func (s *Set) Add(name string) bool {
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = struct{}{}
	s.names = append(s.names, name)
	return true
}

func (s *Set) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

func (s *Set) Len() int { return len(s.names) }

// Names returns the members in first-insertion order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Walker accumulates references for one discovery run. expanded is keyed by
// model name and only ever grows, which is what bounds the walk on cyclic
// schema graphs.
type Walker struct {
	doc      *spec.Document
	refs     *Set
	expanded map[string]struct{}
}

func NewWalker(doc *spec.Document) *Walker {
	return &Walker{
		doc:      doc,
		refs:     NewSet(),
		expanded: map[string]struct{}{},
	}
}

// Discover returns the names of every model reachable from the operations of
// paths matched by filter. A nil filter selects all paths.
func Discover(doc *spec.Document, filter *spec.PathFilter) *Set {
	w := NewWalker(doc)
	w.WalkPaths(filter)
	return w.Refs()
}

// Refs returns the names collected so far.
func (w *Walker) Refs() *Set { return w.refs }

// WalkPaths visits every operation of the paths matched by filter.
func (w *Walker) WalkPaths(filter *spec.PathFilter) {
	for _, item := range w.doc.MatchingPaths(filter) {
		for _, op := range item.Operations {
			w.WalkOperation(item, op)
		}
	}
}

// WalkOperation visits parameters (path-level then operation-level), request
// body media and every response's media.
func (w *Walker) WalkOperation(item spec.PathItem, op spec.Operation) {
	for _, p := range item.Parameters {
		w.walkParameter(p)
	}
	for _, p := range op.Parameters {
		w.walkParameter(p)
	}
	for _, m := range op.RequestBody {
		w.Visit(m.Schema)
	}
	for _, r := range op.Responses {
		for _, m := range r.Content {
			w.Visit(m.Schema)
		}
	}
}

func (w *Walker) walkParameter(p spec.Parameter) {
	w.Visit(p.Schema)
	if p.Schema == nil {
		w.Visit(p.Items)
	}
}

// Visit walks one schema node.
func (w *Walker) Visit(s *spec.Schema) {
	if s == nil {
		return
	}
	if s.Ref != "" {
		name := spec.RefName(s.Ref)
		w.refs.Add(name)
		if _, done := w.expanded[name]; done {
			return
		}
		w.expanded[name] = struct{}{}
		if target, ok := w.doc.Schema(name); ok {
			w.Visit(target)
		}
		return
	}
	if s.Type == "array" {
		w.Visit(s.Items)
	}
	for _, member := range s.Composition() {
		w.Visit(member)
	}
	if s.AdditionalProperties != nil {
		w.Visit(s.AdditionalProperties)
	}
	for _, p := range s.Properties {
		w.Visit(p.Schema)
	}
}
