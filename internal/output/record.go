// Package output defines generated file records and the collaborators that
// persist them.
package output

import (
	"fmt"
	"path"
	"sort"
)

// Record is one generated file. Path is relative to the output root and uses
// forward slashes.
type Record struct {
	Content  string
	Path     string
	Filename string
}

// RelPath joins Path and Filename.
func (r Record) RelPath() string {
	return path.Join(r.Path, r.Filename)
}

// Writer receives records produced by the generator.
type Writer interface {
	Write(Record) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(Record) error

func (f WriterFunc) Write(r Record) error { return f(r) }

// Collector keeps records in memory. It backs dry runs and tests.
type Collector struct {
	Records []Record
}

func (c *Collector) Write(r Record) error {
	c.Records = append(c.Records, r)
	return nil
}

// Find returns the record at relPath.
func (c *Collector) Find(relPath string) (Record, bool) {
	for _, r := range c.Records {
		if r.RelPath() == relPath {
			return r, true
		}
	}
	return Record{}, false
}

// Paths returns the relative paths of all records, sorted.
func (c *Collector) Paths() []string {
	out := make([]string, 0, len(c.Records))
	for _, r := range c.Records {
		out = append(out, r.RelPath())
	}
	sort.Strings(out)
	return out
}

// WriteError reports a failure to persist one record.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }
