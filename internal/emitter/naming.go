package emitter

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// collectionWrapper matches .NET style enumerable names such as
// "IEnumerable[Foo]" or "System.Collections.Generic.List`1[[Ns.Foo, Asm]]".
var collectionWrapper = regexp.MustCompile("^(?:[\\w.]*\\.)?(?:IEnumerable|IList|ICollection|IReadOnlyList|IReadOnlyCollection|List)(?:`1)?\\[\\[?\\s*([^\\[\\],\\s]+)")

// ModelName is a qualified model name split into its output location.
type ModelName struct {
	Qualified string
	Dir       []string
	Leaf      string
}

// UnwrapCollection returns the element name of a collection wrapper name, or
// name unchanged.
func UnwrapCollection(name string) string {
	if m := collectionWrapper.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return name
}

// CollectionElement returns the element name of a collection wrapper name and
// whether name is one. Wrapper names never get a file of their own; references
// to them are typed as arrays of the element.
func CollectionElement(name string) (string, bool) {
	inner := UnwrapCollection(name)
	return inner, inner != name
}

// ParseModelName splits name on the last divider. Namespace segments become
// directories.
func ParseModelName(name, divider string) ModelName {
	if divider == "" {
		divider = DefaultDivider
	}
	inner := UnwrapCollection(name)
	mn := ModelName{Qualified: name, Leaf: inner}
	if i := strings.LastIndex(inner, divider); i >= 0 {
		mn.Leaf = inner[i+len(divider):]
		for _, seg := range strings.Split(inner[:i], divider) {
			if seg = strings.TrimSpace(seg); seg != "" {
				mn.Dir = append(mn.Dir, Identifier(seg))
			}
		}
	}
	mn.Leaf = Identifier(mn.Leaf)
	return mn
}

// TypeName returns the declared identifier for a model name.
func (o Options) TypeName(model string) string {
	return ParseModelName(model, o.Divider).Leaf
}

// ModelLocation returns the output directory and file name of a model.
func (o Options) ModelLocation(model string) (dir, filename string) {
	mn := ParseModelName(model, o.Divider)
	parts := append([]string{o.ModelsDir}, mn.Dir...)
	return path.Join(parts...), mn.Leaf + ".ts"
}

// ImportPath returns the module specifier used by a file in fromDir to import
// the file toDir/toFile.
func ImportPath(fromDir, toDir, toFile string) string {
	target := path.Join(toDir, strings.TrimSuffix(toFile, ".ts"))
	rel, err := filepath.Rel(filepath.FromSlash(fromDir), filepath.FromSlash(target))
	if err != nil {
		return "./" + path.Base(target)
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

// Identifier replaces characters that are not valid in a TypeScript
// identifier with '_' and prefixes a leading digit.
func Identifier(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if out == "" {
		return "_"
	}
	if unicode.IsDigit([]rune(out)[0]) {
		out = "_" + out
	}
	return out
}

// PropertyName sanitizes a schema property name for use as a member name.
func PropertyName(s string) string { return Identifier(s) }

// Capitalize upper-cases the first letter of each word and keeps the rest.
// Casers are stateful, so one is built per call.
func Capitalize(s string) string {
	return cases.Title(language.Und, cases.NoLower).String(s)
}

// PascalCase joins the alphanumeric words of s, each capitalized.
func PascalCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, w := range words {
		b.WriteString(Capitalize(w))
	}
	return b.String()
}

// DirSegment normalizes one URL segment for use as a directory name. An
// all-uppercase segment is lower-cased; anything else gets a lowercase first
// letter.
func DirSegment(s string) string {
	if s == "" {
		return s
	}
	if isAllUpper(s) {
		return cases.Lower(language.Und).String(s)
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
