package spec

import (
	"fmt"
	"regexp"
	"strings"
)

// PathFilter selects endpoint paths with an implicitly anchored regular
// expression. A nil filter matches every path.
type PathFilter struct {
	pattern string
	re      *regexp.Regexp
}

// CompilePathFilter anchors pattern at both ends. An empty pattern yields a nil
// filter.
func CompilePathFilter(pattern string) (*PathFilter, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return nil, fmt.Errorf("path filter %q: %w", pattern, err)
	}
	return &PathFilter{pattern: pattern, re: re}, nil
}

// MustCompilePathFilter is like CompilePathFilter but panics on error.
func MustCompilePathFilter(pattern string) *PathFilter {
	f, err := CompilePathFilter(pattern)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *PathFilter) Match(path string) bool {
	if f == nil {
		return true
	}
	return f.re.MatchString(path)
}

func (f *PathFilter) String() string {
	if f == nil {
		return ".*"
	}
	return f.pattern
}

// MatchingPaths returns the path items selected by f, in document order.
func (d *Document) MatchingPaths(f *PathFilter) []PathItem {
	var out []PathItem
	for _, p := range d.Paths {
		if f.Match(p.Path) {
			out = append(out, p)
		}
	}
	return out
}
