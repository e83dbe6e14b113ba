// Package urls models an application's named route table and implements URL
// reversal over it. A route table is a tree of patterns and namespaced
// includes, mirroring the registration order of the host application's
// router. The same table drives server-side reversal and the client-side
// JavaScript reversal code emitted by the jsgen package.
package urls

import (
	"fmt"
	"regexp"
	"strings"
)

// PatternKind discriminates route-syntax patterns from raw regex patterns.
type PatternKind int

const (
	// RouteKind patterns use converter route syntax: "articles/<int:year>/".
	RouteKind PatternKind = iota
	// RegexKind patterns are raw regular expressions with named or unnamed
	// capture groups.
	RegexKind
)

// Param is a named path parameter of a pattern. Converter is nil for
// parameters captured by raw regex groups.
type Param struct {
	Name      string
	Converter *Converter
}

type segment struct {
	literal string
	param   int // index into params, -1 for literal segments
}

// Pattern is a single named route. Patterns are immutable once constructed.
type Pattern struct {
	name   string
	kind   PatternKind
	source string // route syntax or raw regex, as written

	regex    *regexp.Regexp
	params   []Param
	segments []segment // reversal template: literals and param references
	unnamed  int       // count of unnamed capture groups (RegexKind only)
}

// NewPath parses a route-syntax pattern. Routes are written without a
// leading slash: "articles/<int:year>/detail/".
func NewPath(route, name string) (*Pattern, error) {
	p := &Pattern{name: name, kind: RouteKind, source: route}
	var rx strings.Builder
	rx.WriteString("^")
	rest := route
	for {
		open := strings.IndexByte(rest, '<')
		if open < 0 {
			p.pushLiteral(rest)
			rx.WriteString(regexp.QuoteMeta(rest))
			break
		}
		p.pushLiteral(rest[:open])
		rx.WriteString(regexp.QuoteMeta(rest[:open]))
		rest = rest[open+1:]
		closing := strings.IndexByte(rest, '>')
		if closing < 0 {
			return nil, &PatternError{Pattern: route, Reason: "unterminated '<' parameter"}
		}
		spec := rest[:closing]
		rest = rest[closing+1:]

		convName, varName := "str", spec
		if idx := strings.IndexByte(spec, ':'); idx >= 0 {
			convName, varName = spec[:idx], spec[idx+1:]
		}
		if varName == "" {
			return nil, &PatternError{Pattern: route, Reason: "empty parameter name"}
		}
		conv, ok := GetConverter(convName)
		if !ok {
			return nil, &PatternError{
				Pattern: route,
				Reason:  fmt.Sprintf("unknown converter %q", convName),
			}
		}
		p.segments = append(p.segments, segment{param: len(p.params)})
		p.params = append(p.params, Param{Name: varName, Converter: conv})
		fmt.Fprintf(&rx, "(?P<%s>%s)", varName, conv.Regex)
	}
	rx.WriteString("$")
	compiled, err := regexp.Compile(rx.String())
	if err != nil {
		return nil, &PatternError{Pattern: route, Reason: err.Error()}
	}
	p.regex = compiled
	return p, nil
}

// Path is NewPath for statically known routes; it panics on parse failure.
func Path(route, name string) *Pattern {
	p, err := NewPath(route, name)
	if err != nil {
		panic(err)
	}
	return p
}

// NewRe parses a raw regex pattern. Leading "^" and trailing "$" anchors are
// implied and stripped if present. Group syntax follows Go's regexp package;
// named groups become named parameters.
func NewRe(expr, name string) (*Pattern, error) {
	p := &Pattern{name: name, kind: RegexKind, source: expr}
	body := strings.TrimSuffix(strings.TrimPrefix(expr, "^"), "$")
	compiled, err := regexp.Compile("^(?:" + body + ")$")
	if err != nil {
		return nil, &PatternError{Pattern: expr, Reason: err.Error()}
	}
	p.regex = compiled
	for _, groupName := range compiled.SubexpNames()[1:] {
		if groupName == "" {
			p.unnamed++
		} else {
			p.params = append(p.params, Param{Name: groupName})
		}
	}
	p.segments, err = regexTemplate(body)
	if err != nil {
		// Patterns we cannot build a reversal template for are matchable
		// but not reversible.
		p.segments = nil
	}
	return p, nil
}

// Re is NewRe for statically known expressions; it panics on parse failure.
func Re(expr, name string) *Pattern {
	p, err := NewRe(expr, name)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pattern) pushLiteral(lit string) {
	if lit != "" {
		p.segments = append(p.segments, segment{literal: lit, param: -1})
	}
}

// Name returns the url name this pattern was registered under.
func (p *Pattern) Name() string { return p.name }

// Kind returns the pattern kind.
func (p *Pattern) Kind() PatternKind { return p.kind }

// Source returns the pattern as written.
func (p *Pattern) Source() string { return p.source }

// Regex returns the compiled, fully anchored expression over the
// leading-slash-stripped request path.
func (p *Pattern) Regex() *regexp.Regexp { return p.regex }

// Params returns the named parameters in capture order.
func (p *Pattern) Params() []Param { return p.params }

// Unnamed reports whether the pattern captures only unnamed groups.
func (p *Pattern) Unnamed() bool {
	return p.regex.NumSubexp() > 0 && len(p.params) == 0
}

// Reversible reports whether the pattern can be reversed at all. Patterns
// mixing named and unnamed capture groups cannot.
func (p *Pattern) Reversible() bool {
	named := len(p.params)
	if named > 0 && named != p.regex.NumSubexp() {
		return false
	}
	return p.segments != nil || p.regex.NumSubexp() == 0 || p.kind == RouteKind
}

// Reverse substitutes kwargs (or positional args) into the pattern and
// returns the path without its leading slash. Exactly the parameters the
// pattern declares must be supplied, and the result must round-trip through
// the pattern's regex.
func (p *Pattern) Reverse(kwargs map[string]any, args []any) (string, error) {
	if !p.Reversible() {
		return "", &NoReverseMatchError{QName: p.name, Kwargs: kwargs, Args: args}
	}
	values, err := p.bindValues(kwargs, args)
	if err != nil {
		return "", err
	}
	var path strings.Builder
	argIdx := 0
	for _, seg := range p.segments {
		if seg.param < 0 {
			path.WriteString(seg.literal)
			continue
		}
		var raw any
		var conv *Converter
		if p.kind == RouteKind || len(p.params) > 0 {
			param := p.params[seg.param]
			raw = values[param.Name]
			conv = param.Converter
		} else {
			raw = args[argIdx]
			argIdx++
		}
		text, err := stringify(raw, conv)
		if err != nil {
			return "", &NoReverseMatchError{QName: p.name, Kwargs: kwargs, Args: args}
		}
		path.WriteString(text)
	}
	candidate := path.String()
	if !p.regex.MatchString(candidate) {
		return "", &NoReverseMatchError{QName: p.name, Kwargs: kwargs, Args: args}
	}
	return candidate, nil
}

func (p *Pattern) bindValues(kwargs map[string]any, args []any) (map[string]any, error) {
	if p.Unnamed() {
		if len(kwargs) > 0 || len(args) != p.regex.NumSubexp() {
			return nil, &NoReverseMatchError{QName: p.name, Kwargs: kwargs, Args: args}
		}
		return nil, nil
	}
	values := map[string]any{}
	switch {
	case len(args) > 0:
		if len(kwargs) > 0 || len(args) != len(p.params) {
			return nil, &NoReverseMatchError{QName: p.name, Kwargs: kwargs, Args: args}
		}
		for i, param := range p.params {
			values[param.Name] = args[i]
		}
	default:
		if len(kwargs) != len(p.params) {
			return nil, &NoReverseMatchError{QName: p.name, Kwargs: kwargs, Args: args}
		}
		for _, param := range p.params {
			value, ok := kwargs[param.Name]
			if !ok {
				return nil, &NoReverseMatchError{QName: p.name, Kwargs: kwargs, Args: args}
			}
			values[param.Name] = value
		}
	}
	return values, nil
}

func stringify(value any, conv *Converter) (string, error) {
	if conv != nil {
		return conv.str(value)
	}
	return fmt.Sprint(value), nil
}

// withPrefix flattens an include prefix onto the pattern, producing a new
// standalone pattern. Regex patterns only accept literal prefixes.
func (p *Pattern) withPrefix(prefix string) (*Pattern, error) {
	if prefix == "" {
		return p, nil
	}
	switch p.kind {
	case RouteKind:
		return NewPath(prefix+p.source, p.name)
	default:
		if strings.ContainsRune(prefix, '<') {
			return nil, &PatternError{
				Pattern: p.source,
				Reason:  fmt.Sprintf("regex pattern cannot be included under parameterized prefix %q", prefix),
			}
		}
		body := strings.TrimSuffix(strings.TrimPrefix(p.source, "^"), "$")
		return NewRe(regexp.QuoteMeta(prefix)+body, p.name)
	}
}

// regexTemplate derives a reversal template from a regex source: top level
// literals are kept, capture groups become parameter references. Expressions
// using top level character classes, alternation or repetition have no
// unambiguous reversal and return an error.
func regexTemplate(body string) ([]segment, error) {
	var segs []segment
	var lit strings.Builder
	group := 0
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{literal: lit.String(), param: -1})
			lit.Reset()
		}
	}
	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch ch {
		case '\\':
			if i+1 >= len(body) {
				return nil, fmt.Errorf("trailing escape")
			}
			next := body[i+1]
			if (next >= 'a' && next <= 'z') || (next >= 'A' && next <= 'Z') || (next >= '0' && next <= '9') {
				return nil, fmt.Errorf("character class escape \\%c outside a group", next)
			}
			lit.WriteByte(next)
			i++
		case '(':
			end, err := matchParen(body, i)
			if err != nil {
				return nil, err
			}
			if strings.HasPrefix(body[i:], "(?:") || strings.HasPrefix(body[i:], "(?i") {
				return nil, fmt.Errorf("non-capturing group has no reversal")
			}
			flush()
			segs = append(segs, segment{param: group})
			group++
			i = end
		case '[', ']', '|', '*', '+', '?', '.', '{', '}':
			return nil, fmt.Errorf("metacharacter %q outside a group", ch)
		case '^', '$':
			// anchors contribute nothing to the path
		default:
			lit.WriteByte(ch)
		}
	}
	flush()
	return segs, nil
}

func matchParen(s string, open int) (int, error) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unbalanced parentheses")
}
