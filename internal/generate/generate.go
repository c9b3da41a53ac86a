// Package generate sequences discovery, model emission and endpoint emission
// for one endpoint group and hands the records to a writer.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vasilecampeanu/openapi-codegen/internal/discover"
	"github.com/vasilecampeanu/openapi-codegen/internal/emitter"
	"github.com/vasilecampeanu/openapi-codegen/internal/emitter/model"
	"github.com/vasilecampeanu/openapi-codegen/internal/emitter/request"
	"github.com/vasilecampeanu/openapi-codegen/internal/output"
	"github.com/vasilecampeanu/openapi-codegen/internal/spec"
)

// Group is one spec URL and the path patterns generated from it.
type Group struct {
	URL   string   `yaml:"url"`
	Paths []string `yaml:"paths"`
}

// PatternError reports a pattern whose generation failed. Other patterns of
// the same group are unaffected.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Report summarizes one Run.
type Report struct {
	Models   []string // relative paths of model files
	Requests []string // relative paths of wrapper files
	Failed   []*PatternError
	// WriteFailures counts records the writer rejected.
	WriteFailures int
}

// Written returns every relative path handed to the writer successfully.
func (r *Report) Written() []string {
	out := make([]string, 0, len(r.Models)+len(r.Requests))
	out = append(out, r.Models...)
	return append(out, r.Requests...)
}

// Err joins pattern failures, or returns nil.
func (r *Report) Err() error {
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

// Run generates every pattern against doc. The walker and the model emitter
// are created here, so state never leaks between runs; models shared by
// several patterns are emitted once. The returned error is non-nil only when
// ctx is cancelled.
func Run(ctx context.Context, doc *spec.Document, patterns []string, w output.Writer, opts emitter.Options) (*Report, error) {
	opts = opts.WithDefaults()
	r := &run{
		doc:      doc,
		opts:     opts,
		log:      opts.Logger,
		w:        w,
		models:   model.New(doc, opts),
		variants: request.Variants(doc, opts),
		owners:   map[string]string{},
		report:   &Report{},
	}
	if len(patterns) == 0 {
		patterns = []string{""}
	}
	for _, p := range patterns {
		if err := ctx.Err(); err != nil {
			return r.report, err
		}
		if err := r.pattern(p); err != nil {
			r.log.WithField("pattern", p).WithError(err).Error("pattern failed")
			r.report.Failed = append(r.report.Failed, &PatternError{Pattern: p, Err: err})
		}
	}
	return r.report, nil
}

type run struct {
	doc      *spec.Document
	opts     emitter.Options
	log      logrus.FieldLogger
	w        output.Writer
	models   *model.Emitter
	variants []request.Emitter
	// owners maps a wrapper file to the "METHOD path" endpoint that produced it.
	owners map[string]string
	report *Report
}

func (r *run) pattern(p string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	filter, err := spec.CompilePathFilter(p)
	if err != nil {
		return err
	}
	log := r.log.WithField("pattern", filter.String())

	refs := discover.Discover(r.doc, filter)
	log.WithField("models", refs.Len()).Debug("discovered models")
	for _, rec := range r.models.EmitAll(refs.Names()) {
		if r.write(rec) {
			r.report.Models = append(r.report.Models, rec.RelPath())
		}
	}

	for _, v := range r.variants {
		for _, d := range v.Resolve(filter) {
			rec, err := v.Emit(d, r.doc.BasePath)
			if err != nil {
				log.WithFields(logrus.Fields{"method": d.Method, "path": d.Path}).WithError(err).Warn("skipping endpoint")
				continue
			}
			endpoint := strings.ToUpper(string(d.Method)) + " " + d.Path
			if owner, dup := r.owners[rec.RelPath()]; dup {
				if owner != endpoint {
					log.WithFields(logrus.Fields{
						"method": d.Method,
						"path":   d.Path,
						"file":   rec.RelPath(),
						"owner":  owner,
					}).Warn("wrapper file already generated for another endpoint, skipping")
				}
				continue
			}
			r.owners[rec.RelPath()] = endpoint
			if r.write(*rec) {
				r.report.Requests = append(r.report.Requests, rec.RelPath())
			}
		}
	}
	return nil
}

func (r *run) write(rec output.Record) bool {
	if err := r.w.Write(rec); err != nil {
		r.log.WithField("path", rec.RelPath()).WithError(err).Error("write failed")
		r.report.WriteFailures++
		return false
	}
	return true
}
