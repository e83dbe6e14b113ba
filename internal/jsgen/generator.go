// Package jsgen translates a route tree into client-side JavaScript
// reversal code. Two writers are provided: SimpleWriter emits a bare nested
// object of reversal functions, ClassWriter wraps the same tree in a
// resolver class with a qualified-name reverse method. Both support ES5 and
// modern output.
package jsgen

import (
	"fmt"
	"strings"
)

// Generator carries the shared output machinery: indentation depth, the
// indent sequence and the output buffer. A nil indent sequence collapses
// output onto a single line.
type Generator struct {
	buf    strings.Builder
	level  int
	indent string
	nl     string
	es5    bool
}

// Options configure a Generator.
type Options struct {
	// Depth is the starting indentation level.
	Depth int
	// Indent is the sequence prepended per level. Empty disables newlines
	// entirely, producing single line output.
	Indent string
	// ES5 selects legacy JavaScript output instead of template literals,
	// arrow functions and default parameters.
	ES5 bool
}

// NewGenerator returns a Generator for the given options. The zero Options
// value indents with a tab.
func NewGenerator(opts Options) *Generator {
	indent := opts.Indent
	nl := "\n"
	if indent == "" {
		nl = ""
	}
	return &Generator{level: opts.Depth, indent: indent, nl: nl, es5: opts.ES5}
}

// Indent increases the indentation level.
func (g *Generator) Indent(incr int) { g.level += incr }

// Outdent decreases the indentation level, clamping at zero.
func (g *Generator) Outdent(decr int) {
	g.level -= decr
	if g.level < 0 {
		g.level = 0
	}
}

// WriteLine emits one line at the current indentation level.
func (g *Generator) WriteLine(line string) {
	g.buf.WriteString(strings.Repeat(g.indent, g.level))
	g.buf.WriteString(line)
	g.buf.WriteString(g.nl)
}

// ES5 reports whether legacy output was requested.
func (g *Generator) ES5() bool { return g.es5 }

// String returns everything written so far.
func (g *Generator) String() string { return g.buf.String() }

// gen lets writers satisfy the TreeWriter interface through embedding.
func (g *Generator) gen() *Generator { return g }

// Substitute marks an argument splice point in a reversed path. Name is set
// for keyword arguments, otherwise Index refers to a positional argument.
type Substitute struct {
	Name  string
	Index int
}

// Component is one piece of a reversed path: either a literal string or a
// substitution marker.
type Component struct {
	Literal string
	Sub     *Substitute
}

func (g *Generator) subToString(sub *Substitute) string {
	if sub.Name == "" {
		if g.es5 {
			return fmt.Sprintf(`"+args[%d].toString()+"`, sub.Index)
		}
		return fmt.Sprintf("${args[%d]}", sub.Index)
	}
	if g.es5 {
		return fmt.Sprintf(`"+kwargs["%s"].toString()+"`, sub.Name)
	}
	return fmt.Sprintf(`${kwargs["%s"]}`, sub.Name)
}

func (g *Generator) joinPath(path []Component) string {
	var joined strings.Builder
	for _, comp := range path {
		if comp.Sub != nil {
			joined.WriteString(g.subToString(comp.Sub))
		} else {
			joined.WriteString(comp.Literal)
		}
	}
	return joined.String()
}

func countArgs(path []Component) int {
	n := 0
	for _, comp := range path {
		if comp.Sub != nil {
			n++
		}
	}
	return n
}

func quoteNames(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = "'" + name + "'"
	}
	return strings.Join(quoted, ",")
}
