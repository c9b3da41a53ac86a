package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DiskWriter writes records under Root using temp file + rename. It remembers
// every path it wrote so a later Cleanup can tell fresh files from stale ones.
type DiskWriter struct {
	Root   string
	Logger logrus.FieldLogger

	written map[string]struct{}
}

func NewDiskWriter(root string, logger logrus.FieldLogger) *DiskWriter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DiskWriter{Root: root, Logger: logger, written: map[string]struct{}{}}
}

func (w *DiskWriter) Write(r Record) error {
	rel := r.RelPath()
	p := filepath.Join(w.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return &WriteError{Path: rel, Err: fmt.Errorf("mkdir: %w", err)}
	}
	tmp := p + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, []byte(r.Content), 0o644); err != nil {
		return &WriteError{Path: rel, Err: err}
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return &WriteError{Path: rel, Err: err}
	}
	w.written[rel] = struct{}{}
	w.Logger.WithField("path", rel).Debug("wrote file")
	return nil
}

// Written returns the relative paths written so far, sorted.
func (w *DiskWriter) Written() []string {
	out := make([]string, 0, len(w.written))
	for p := range w.written {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
