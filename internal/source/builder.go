// Package source assembles TypeScript text with consistent indentation. A
// Builder is a plain buffer: it knows nothing about schemas or endpoints.
package source

import (
	"strings"
)

// DefaultIndent is the indentation width used when none is configured.
const DefaultIndent = 2

// Import describes one imported item. Default marks a default import.
type Import struct {
	Name    string
	From    string
	Default bool
}

// Builder accumulates lines at the current indentation level.
type Builder struct {
	width int
	depth int
	lines []string
}

// New returns a Builder indenting by width spaces. Widths below 1 are raised
// to 1.
func New(width int) *Builder {
	if width < 1 {
		width = 1
	}
	return &Builder{width: width}
}

func (b *Builder) prefix() string {
	return strings.Repeat(" ", b.width*b.depth)
}

// Line appends one line at the current indent. An empty string produces a
// blank line with no trailing whitespace.
func (b *Builder) Line(s string) *Builder {
	if s == "" {
		b.lines = append(b.lines, "")
		return b
	}
	b.lines = append(b.lines, b.prefix()+s)
	return b
}

// Lines appends each element as its own line. Elements containing newlines
// are split.
func (b *Builder) Lines(lines ...string) *Builder {
	for _, l := range lines {
		for _, part := range strings.Split(l, "\n") {
			b.Line(part)
		}
	}
	return b
}

// Blank appends an empty line unless the buffer is empty or already ends
// with one.
func (b *Builder) Blank() *Builder {
	if len(b.lines) == 0 || b.lines[len(b.lines)-1] == "" {
		return b
	}
	b.lines = append(b.lines, "")
	return b
}

func (b *Builder) Indent() *Builder {
	b.depth++
	return b
}

func (b *Builder) Dedent() *Builder {
	if b.depth > 0 {
		b.depth--
	}
	return b
}

// Open writes "header {" and indents.
func (b *Builder) Open(header string) *Builder {
	if header == "" {
		b.Line("{")
	} else {
		b.Line(header + " {")
	}
	return b.Indent()
}

// Close dedents and writes "}" followed by suffix.
func (b *Builder) Close(suffix string) *Builder {
	b.Dedent()
	return b.Line("}" + suffix)
}

// Block writes header, runs body one level deeper and closes the brace.
func (b *Builder) Block(header string, body func(*Builder)) *Builder {
	b.Open(header)
	if body != nil {
		body(b)
	}
	return b.Close("")
}

// Doc writes a documentation block. Empty input writes nothing; a single line
// is rendered inline.
func (b *Builder) Doc(lines ...string) *Builder {
	var text []string
	for _, l := range lines {
		for _, part := range strings.Split(l, "\n") {
			part = strings.TrimRight(part, " \t\r")
			part = strings.ReplaceAll(part, "*/", "*\\/")
			text = append(text, part)
		}
	}
	for len(text) > 0 && strings.TrimSpace(text[0]) == "" {
		text = text[1:]
	}
	for len(text) > 0 && strings.TrimSpace(text[len(text)-1]) == "" {
		text = text[:len(text)-1]
	}
	if len(text) == 0 {
		return b
	}
	if len(text) == 1 {
		return b.Line("/** " + strings.TrimSpace(text[0]) + " */")
	}
	b.Line("/**")
	for _, t := range text {
		if t == "" {
			b.Line(" *")
			continue
		}
		b.Line(" * " + t)
	}
	return b.Line(" */")
}

// Imports writes one import statement per source path, in first-seen order.
// Within a path the default import precedes the named group; duplicate names
// are dropped.
func (b *Builder) Imports(items []Import) *Builder {
	type group struct {
		def   string
		named []string
		seen  map[string]struct{}
	}
	var order []string
	groups := map[string]*group{}
	for _, it := range items {
		if it.Name == "" || it.From == "" {
			continue
		}
		g, ok := groups[it.From]
		if !ok {
			g = &group{seen: map[string]struct{}{}}
			groups[it.From] = g
			order = append(order, it.From)
		}
		if it.Default {
			if g.def == "" {
				g.def = it.Name
			}
			continue
		}
		if _, dup := g.seen[it.Name]; dup {
			continue
		}
		g.seen[it.Name] = struct{}{}
		g.named = append(g.named, it.Name)
	}
	for _, from := range order {
		g := groups[from]
		var parts []string
		if g.def != "" {
			parts = append(parts, g.def)
		}
		if len(g.named) > 0 {
			parts = append(parts, "{ "+strings.Join(g.named, ", ")+" }")
		}
		b.Line("import " + strings.Join(parts, ", ") + " from '" + from + "';")
	}
	if len(order) > 0 {
		b.Blank()
	}
	return b
}

// Member is one field of an interface or object type literal.
type Member struct {
	Name     string
	Type     string
	Optional bool
	Doc      string
}

func (m Member) String() string {
	opt := ""
	if m.Optional {
		opt = "?"
	}
	return m.Name + opt + ": " + m.Type + ";"
}

// Interface writes an exported interface declaration.
func (b *Builder) Interface(name string, extends []string, members []Member) *Builder {
	header := "export interface " + name
	if len(extends) > 0 {
		header += " extends " + strings.Join(extends, ", ")
	}
	if len(members) == 0 {
		return b.Line(header + " {}")
	}
	b.Open(header)
	b.members(members)
	return b.Close("")
}

// Alias writes "export type name = expr;". When members are given they are
// rendered as an object literal intersected with expr.
func (b *Builder) Alias(name, expr string, members []Member) *Builder {
	if len(members) == 0 {
		return b.Line("export type " + name + " = " + expr + ";")
	}
	head := "export type " + name + " ="
	if expr != "" {
		head += " " + expr + " &"
	}
	b.Open(head)
	b.members(members)
	return b.Close(";")
}

// Class writes an exported class. body runs inside the class braces.
func (b *Builder) Class(name, extends string, body func(*Builder)) *Builder {
	header := "export class " + name
	if extends != "" {
		header += " extends " + extends
	}
	return b.Block(header, body)
}

func (b *Builder) members(members []Member) {
	for _, m := range members {
		if m.Doc != "" {
			b.Doc(m.Doc)
		}
		b.Line(m.String())
	}
}

// Build returns the accumulated text, terminated by a single newline, and
// resets the builder.
func (b *Builder) Build() string {
	lines := b.lines
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	out := ""
	if len(lines) > 0 {
		out = strings.Join(lines, "\n") + "\n"
	}
	b.lines = nil
	b.depth = 0
	return out
}
