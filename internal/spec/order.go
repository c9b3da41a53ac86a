package spec

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// KeyOrder records the declaration order of every mapping in a document, keyed
// by JSON pointer. kin-openapi decodes paths, responses, content and properties
// into Go maps, so this index is what keeps generated output in source order.
type KeyOrder map[string][]string

// BuildKeyOrder indexes the mapping keys of a YAML or JSON document.
func BuildKeyOrder(data []byte) (KeyOrder, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("index key order: %w", err)
	}
	order := KeyOrder{}
	if len(root.Content) > 0 {
		order.index("", root.Content[0])
	}
	return order, nil
}

func (k KeyOrder) index(ptr string, n *yaml.Node) {
	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias != nil {
			k.index(ptr, n.Alias)
		}
	case yaml.MappingNode:
		keys := make([]string, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			keys = append(keys, key)
			k.index(Pointer(ptr, key), n.Content[i+1])
		}
		k[ptr] = keys
	case yaml.SequenceNode:
		for i, c := range n.Content {
			k.index(Pointer(ptr, strconv.Itoa(i)), c)
		}
	}
}

// Keys returns the keys of m in the order recorded at ptr. Keys unknown to the
// index are appended in lexical order.
func Keys[V any](k KeyOrder, ptr string, m map[string]V) []string {
	out := make([]string, 0, len(m))
	seen := make(map[string]struct{}, len(m))
	for _, key := range k[ptr] {
		if _, ok := m[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	var rest []string
	for key := range m {
		if _, ok := seen[key]; !ok {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Pointer appends escaped reference tokens to a JSON pointer.
func Pointer(base string, tokens ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(t))
	}
	return b.String()
}
