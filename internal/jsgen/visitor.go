package jsgen

import (
	"fmt"

	"github.com/renderstatic/renderstatic/internal/urls"
)

// URLGenerationError is returned when no registered placeholder set can
// reverse a parameterized pattern, leaving its JavaScript unwritable.
type URLGenerationError struct {
	QName   string
	Pattern string
	Err     error
}

func (e *URLGenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"unable to generate url for %q from pattern %q: %v",
			e.QName, e.Pattern, e.Err,
		)
	}
	return fmt.Sprintf("unable to generate url for %q from pattern %q", e.QName, e.Pattern)
}

func (e *URLGenerationError) Unwrap() error { return e.Err }

// TreeWriter is the writer side of a tree walk. WriteTree drives the
// traversal and argument-span discovery; implementations only decide what
// JavaScript the structure maps to.
type TreeWriter interface {
	Begin()
	End()
	EnterNamespace(namespace string)
	ExitNamespace(namespace string)
	EnterGroup(qname string)
	ExitGroup(qname string)
	WritePath(path []Component, kwargNames []string)

	gen() *Generator
}

// WriteTree walks the branch tree through the writer and returns the
// generated JavaScript.
func WriteTree(w TreeWriter, root *urls.Branch) (string, error) {
	g := w.gen()
	w.Begin()
	g.Indent(1)
	if err := writeBranch(w, root, ""); err != nil {
		return "", err
	}
	g.Outdent(1)
	w.End()
	return g.String(), nil
}

func writeBranch(w TreeWriter, branch *urls.Branch, parentQName string) error {
	for _, group := range branch.Groups {
		qname := group.Name
		if parentQName != "" {
			qname = parentQName + ":" + group.Name
		}
		w.EnterGroup(qname)
		for _, pattern := range group.Patterns {
			if err := writePattern(w, pattern, qname, branch.AppName); err != nil {
				return err
			}
		}
		w.ExitGroup(qname)
	}
	for _, child := range branch.Children {
		childQName := child.Namespace
		if parentQName != "" {
			childQName = parentQName + ":" + child.Namespace
		}
		w.EnterNamespace(child.Namespace)
		if err := writeBranch(w, child, childQName); err != nil {
			return err
		}
		w.ExitNamespace(child.Namespace)
	}
	return nil
}

// writePattern reverses the pattern once with registered placeholder
// samples, locates the argument spans in the produced path and hands the
// literal/substitution component list to the writer.
func writePattern(w TreeWriter, pattern *urls.Pattern, qname, appName string) error {
	if !pattern.Reversible() {
		w.gen().WriteLine("/* this path is not reversible */")
		return nil
	}

	params := pattern.Params()
	if len(params) == 0 && !pattern.Unnamed() {
		path, err := pattern.Reverse(nil, nil)
		if err != nil {
			return &URLGenerationError{QName: qname, Pattern: pattern.Source(), Err: err}
		}
		w.WritePath([]Component{{Literal: path}}, nil)
		return nil
	}

	if pattern.Unnamed() {
		candidates, err := urls.ResolveUnnamedPlaceholders(pattern.Name(), appName)
		if err != nil {
			return &URLGenerationError{QName: qname, Pattern: pattern.Source(), Err: err}
		}
		for _, args := range candidates {
			if tryCandidate(w, pattern, nil, args) {
				return nil
			}
		}
		return &URLGenerationError{QName: qname, Pattern: pattern.Source()}
	}

	sets := make([][]any, len(params))
	for i, param := range params {
		candidates, err := urls.ResolvePlaceholders(param, appName)
		if err != nil {
			return &URLGenerationError{QName: qname, Pattern: pattern.Source(), Err: err}
		}
		sets[i] = candidates
	}
	found := false
	forEachProduct(sets, func(choice []any) bool {
		kwargs := make(map[string]any, len(params))
		for i, param := range params {
			kwargs[param.Name] = choice[i]
		}
		if tryCandidate(w, pattern, kwargs, nil) {
			found = true
			return false
		}
		return true
	})
	if !found {
		return &URLGenerationError{QName: qname, Pattern: pattern.Source()}
	}
	return nil
}

// tryCandidate reverses the pattern with one placeholder set and, when the
// reversal round-trips, emits the componentized path. Returns true when the
// path was written.
func tryCandidate(w TreeWriter, pattern *urls.Pattern, kwargs map[string]any, args []any) bool {
	reversed, err := pattern.Reverse(kwargs, args)
	if err != nil {
		return false
	}
	match := pattern.Regex().FindStringSubmatchIndex(reversed)
	if match == nil {
		return false
	}
	names := pattern.Regex().SubexpNames()

	var path []Component
	var kwargNames []string
	cursor := 0
	argIdx := 0
	for group := 1; group <= pattern.Regex().NumSubexp(); group++ {
		start, end := match[2*group], match[2*group+1]
		if start < 0 {
			continue
		}
		if start > cursor {
			path = append(path, Component{Literal: reversed[cursor:start]})
		}
		if names[group] != "" {
			path = append(path, Component{Sub: &Substitute{Name: names[group]}})
			kwargNames = append(kwargNames, names[group])
		} else {
			path = append(path, Component{Sub: &Substitute{Index: argIdx}})
			argIdx++
		}
		cursor = end
	}
	if cursor < len(reversed) {
		path = append(path, Component{Literal: reversed[cursor:]})
	}
	w.WritePath(path, kwargNames)
	return true
}

// forEachProduct iterates the cartesian product of the candidate sets,
// stopping early when visit returns false.
func forEachProduct(sets [][]any, visit func(choice []any) bool) {
	if len(sets) == 0 {
		return
	}
	indices := make([]int, len(sets))
	choice := make([]any, len(sets))
	for {
		for i, idx := range indices {
			choice[i] = sets[i][idx]
		}
		if !visit(choice) {
			return
		}
		pos := len(indices) - 1
		for pos >= 0 {
			indices[pos]++
			if indices[pos] < len(sets[pos]) {
				break
			}
			indices[pos] = 0
			pos--
		}
		if pos < 0 {
			return
		}
	}
}
