package jsgen

import (
	"fmt"
	"strings"
)

func lastSegment(qname string) string {
	if idx := strings.LastIndexByte(qname, ':'); idx >= 0 {
		return qname[idx+1:]
	}
	return qname
}

// SimpleWriter emits a plain nested object literal whose leaves are
// reversal functions taking (kwargs, args). Intended to be embedded into a
// surrounding assignment by the template that invokes it.
type SimpleWriter struct {
	*Generator
}

// NewSimpleWriter returns a SimpleWriter over a fresh Generator.
func NewSimpleWriter(opts Options) *SimpleWriter {
	return &SimpleWriter{Generator: NewGenerator(opts)}
}

func (w *SimpleWriter) Begin() {}
func (w *SimpleWriter) End()   {}

func (w *SimpleWriter) EnterNamespace(namespace string) {
	w.WriteLine(fmt.Sprintf("%q: {", namespace))
	w.Indent(1)
}

func (w *SimpleWriter) ExitNamespace(namespace string) {
	w.Outdent(1)
	w.WriteLine("},")
}

func (w *SimpleWriter) EnterGroup(qname string) {
	if w.ES5() {
		w.WriteLine(fmt.Sprintf("%q: function(kwargs, args) {", lastSegment(qname)))
		w.Indent(1)
		w.WriteLine("kwargs = kwargs || {};")
		w.WriteLine("args = args || [];")
		return
	}
	w.WriteLine(fmt.Sprintf("%q: function(kwargs={}, args=[]) {", lastSegment(qname)))
	w.Indent(1)
}

func (w *SimpleWriter) ExitGroup(qname string) {
	w.WriteLine(fmt.Sprintf(
		"throw new TypeError(\"No reversal available for parameters at path: %s\");", qname,
	))
	w.Outdent(1)
	w.WriteLine("},")
}

func (w *SimpleWriter) WritePath(path []Component, kwargNames []string) {
	switch {
	case len(path) == 1 && path[0].Sub == nil:
		w.WriteLine("if (Object.keys(kwargs).length === 0 && args.length === 0)")
		w.Indent(1)
		w.WriteLine(fmt.Sprintf("return \"/%s\";", path[0].Literal))
		w.Outdent(1)
	case len(kwargNames) == 0:
		quote := "`"
		if w.ES5() {
			quote = `"`
		}
		w.WriteLine(fmt.Sprintf("if (args.length === %d)", countArgs(path)))
		w.Indent(1)
		w.WriteLine(fmt.Sprintf("return %s/%s%s;", quote, w.joinPath(path), quote))
		w.Outdent(1)
	default:
		if w.ES5() {
			w.WriteLine(fmt.Sprintf(
				"if (Object.keys(kwargs).length === %d && [%s].every("+
					"function(value) { return kwargs.hasOwnProperty(value);}))",
				len(kwargNames), quoteNames(kwargNames),
			))
			w.Indent(1)
			w.WriteLine(fmt.Sprintf("return \"/%s\";", w.joinPath(path)))
			w.Outdent(1)
			return
		}
		w.WriteLine(fmt.Sprintf(
			"if (Object.keys(kwargs).length === %d && [%s].every(value => kwargs.hasOwnProperty(value)))",
			len(kwargNames), quoteNames(kwargNames),
		))
		w.Indent(1)
		w.WriteLine(fmt.Sprintf("return `/%s`;", w.joinPath(path)))
		w.Outdent(1)
	}
}

// ClassWriter emits a resolver class exposing match/reverse methods over a
// nested urls object, so client code reverses by qualified name:
//
//	const resolver = new URLResolver();
//	resolver.reverse("blog:detail", {slug: "first-post"});
type ClassWriter struct {
	*Generator
	className       string
	raiseOnNotFound bool
}

// ClassOptions extend Options with class specific knobs.
type ClassOptions struct {
	Options
	// ClassName overrides the default "URLResolver".
	ClassName string
	// SilentNotFound suppresses the TypeError thrown when reverse is called
	// with an unknown qualified name.
	SilentNotFound bool
}

// NewClassWriter returns a ClassWriter over a fresh Generator.
func NewClassWriter(opts ClassOptions) *ClassWriter {
	name := opts.ClassName
	if name == "" {
		name = "URLResolver"
	}
	return &ClassWriter{
		Generator:       NewGenerator(opts.Options),
		className:       name,
		raiseOnNotFound: !opts.SilentNotFound,
	}
}

func (w *ClassWriter) Begin() {
	if w.ES5() {
		w.beginES5()
		return
	}
	w.WriteLine(fmt.Sprintf("class %s {", w.className))
	w.Indent(1)
	w.WriteLine("")
	w.WriteLine("match(kwargs, args, expected) {")
	w.Indent(1)
	w.WriteLine("if (Array.isArray(expected))")
	w.Indent(1)
	w.WriteLine("return Object.keys(kwargs).length === expected.length && " +
		"expected.every(value => kwargs.hasOwnProperty(value));")
	w.Outdent(1)
	w.WriteLine("else if (expected)")
	w.Indent(1)
	w.WriteLine("return args.length === expected;")
	w.Outdent(1)
	w.WriteLine("else")
	w.Indent(1)
	w.WriteLine("return Object.keys(kwargs).length === 0 && args.length === 0;")
	w.Outdent(2)
	w.WriteLine("}")
	w.WriteLine("")
	w.WriteLine("reverse(qname, kwargs={}, args=[]) {")
	w.Indent(1)
	w.WriteLine("let url = this.urls;")
	w.WriteLine("for (const ns of qname.split(':')) {")
	w.Indent(1)
	w.WriteLine("if (ns && url) url = url.hasOwnProperty(ns) ? url[ns] : null;")
	w.Outdent(1)
	w.WriteLine("}")
	w.WriteLine("if (url) return url(kwargs, args);")
	if w.raiseOnNotFound {
		w.WriteLine("throw new TypeError(" +
			"`No reversal available for parameters at path: ${qname}`);")
	}
	w.Outdent(1)
	w.WriteLine("}")
	w.WriteLine("")
	w.WriteLine("urls = {")
}

func (w *ClassWriter) beginES5() {
	w.WriteLine(fmt.Sprintf("%s = function() {};", w.className))
	w.WriteLine("")
	w.WriteLine(fmt.Sprintf("%s.prototype = {", w.className))
	w.Indent(1)
	w.WriteLine("match: function(kwargs, args, expected) {")
	w.Indent(1)
	w.WriteLine("if (Array.isArray(expected))")
	w.Indent(1)
	w.WriteLine("return (Object.keys(kwargs).length === expected.length && " +
		"expected.every(function(value) { return kwargs.hasOwnProperty(value); }))")
	w.Outdent(1)
	w.WriteLine("else if (expected)")
	w.Indent(1)
	w.WriteLine("return args.length === expected;")
	w.Outdent(1)
	w.WriteLine("else")
	w.Indent(1)
	w.WriteLine("return Object.keys(kwargs).length === 0 && args.length === 0;")
	w.Outdent(2)
	w.WriteLine("},")
	w.WriteLine("reverse: function(qname, kwargs, args) {")
	w.Indent(1)
	w.WriteLine("kwargs = kwargs || {};")
	w.WriteLine("args = args || [];")
	w.WriteLine("let url = this.urls;")
	w.WriteLine("qname.split(':').forEach(function(ns) {")
	w.Indent(1)
	w.WriteLine("if (ns && url) url = url.hasOwnProperty(ns) ? url[ns] : null;")
	w.Outdent(1)
	w.WriteLine("});")
	w.WriteLine("if (url) return url.call(this, kwargs, args);")
	if w.raiseOnNotFound {
		w.WriteLine("throw new TypeError(\"No reversal available for parameters at path: \"+qname);")
	}
	w.Outdent(1)
	w.WriteLine("},")
	w.WriteLine("urls: {")
}

func (w *ClassWriter) End() {
	w.WriteLine("}")
	w.Outdent(1)
	w.WriteLine("};")
}

func (w *ClassWriter) EnterNamespace(namespace string) {
	w.WriteLine(fmt.Sprintf("%q: {", namespace))
	w.Indent(1)
}

func (w *ClassWriter) ExitNamespace(namespace string) {
	w.Outdent(1)
	w.WriteLine("},")
}

func (w *ClassWriter) EnterGroup(qname string) {
	if w.ES5() {
		w.WriteLine(fmt.Sprintf("%q: function(kwargs, args) {", lastSegment(qname)))
		w.Indent(1)
		w.WriteLine("kwargs = kwargs || {};")
		w.WriteLine("args = args || [];")
		return
	}
	w.WriteLine(fmt.Sprintf("%q: (kwargs={}, args=[]) => {", lastSegment(qname)))
	w.Indent(1)
}

func (w *ClassWriter) ExitGroup(qname string) {
	w.Outdent(1)
	w.WriteLine("},")
}

func (w *ClassWriter) WritePath(path []Component, kwargNames []string) {
	quote := "`"
	if w.ES5() {
		quote = `"`
	}
	switch {
	case len(path) == 1 && path[0].Sub == nil:
		w.WriteLine(fmt.Sprintf(
			"if (this.match(kwargs, args)) return \"/%s\";", path[0].Literal,
		))
	case len(kwargNames) == 0:
		w.WriteLine(fmt.Sprintf(
			"if (this.match(kwargs, args, %d)) return %s/%s%s;",
			countArgs(path), quote, w.joinPath(path), quote,
		))
	default:
		w.WriteLine(fmt.Sprintf(
			"if (this.match(kwargs, args, [%s])) return %s/%s%s;",
			quoteNames(kwargNames), quote, w.joinPath(path), quote,
		))
	}
}
