package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// ManifestName is the file, relative to the output root, listing what the
// last run wrote.
const ManifestName = ".openapi-codegen.json"

type Manifest struct {
	Generator string   `json:"generator"`
	Files     []string `json:"files"`
}

// ReadManifest loads the manifest under root. A missing manifest yields an
// empty one.
func ReadManifest(root string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(filepath.Join(root, ManifestName))
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return m, fmt.Errorf("read manifest: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("decode manifest: %w", err)
	}
	return m, nil
}

// WriteManifest stores m under root with its file list sorted.
func WriteManifest(root string, m Manifest) error {
	m.Files = append([]string(nil), m.Files...)
	sort.Strings(m.Files)
	data, err := json.Marshal(m, jsontext.WithIndent("  "))
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(root, ManifestName), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Keep reports whether rel matches an entry of the allow-list. Entries are
// exact relative paths, directory prefixes ending in '/', or path.Match
// patterns.
func Keep(rel string, keep []string) bool {
	for _, k := range keep {
		k = strings.TrimSpace(filepath.ToSlash(k))
		if k == "" {
			continue
		}
		if k == rel {
			return true
		}
		if strings.HasSuffix(k, "/") && strings.HasPrefix(rel, k) {
			return true
		}
		if ok, _ := path.Match(k, rel); ok {
			return true
		}
	}
	return false
}

// Cleanup removes files listed in previous that are not in current and not
// kept. It returns the removed paths; failures are joined into err but do not
// stop the sweep.
func Cleanup(root string, previous, current, keep []string) ([]string, error) {
	fresh := make(map[string]struct{}, len(current))
	for _, c := range current {
		fresh[c] = struct{}{}
	}
	var removed []string
	var errs []error
	for _, rel := range previous {
		if _, ok := fresh[rel]; ok || Keep(rel, keep) {
			continue
		}
		err := os.Remove(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, &WriteError{Path: rel, Err: err})
			continue
		}
		removed = append(removed, rel)
	}
	return removed, errors.Join(errs...)
}
