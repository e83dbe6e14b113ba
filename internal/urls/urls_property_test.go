//go:build property
// +build property

package urls

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestReversalProperties tests that reversal always round-trips through the
// pattern's own regex
func TestReversalProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("int reversal round-trips", prop.ForAll(
		func(year int, month int) bool {
			if year < 0 || month < 0 {
				return true // converter regex only matches non-negative values
			}
			p, err := NewPath("articles/<int:year>/<int:month>/", "archive")
			if err != nil {
				return false
			}
			path, err := p.Reverse(map[string]any{"year": year, "month": month}, nil)
			if err != nil {
				return false
			}
			if !p.Regex().MatchString(path) {
				return false
			}
			match := p.Regex().FindStringSubmatch(path)
			return match[1] == fmt.Sprint(year) && match[2] == fmt.Sprint(month)
		},
		gen.IntRange(0, 1<<31),
		gen.IntRange(0, 1<<31),
	))

	properties.Property("slug reversal round-trips", prop.ForAll(
		func(slug string) bool {
			if slug == "" {
				return true
			}
			p, err := NewPath("tags/<slug:tag>/", "tag")
			if err != nil {
				return false
			}
			path, err := p.Reverse(map[string]any{"tag": slug}, nil)
			if err != nil {
				return false
			}
			return path == "tags/"+slug+"/" && p.Regex().MatchString(path)
		},
		gen.RegexMatch("[-a-zA-Z0-9_]+"),
	))

	properties.Property("str values containing separators never reverse", prop.ForAll(
		func(value string) bool {
			p, err := NewPath("users/<username>/", "user")
			if err != nil {
				return false
			}
			_, err = p.Reverse(map[string]any{"username": value}, nil)
			if strings.Contains(value, "/") || value == "" {
				return err != nil
			}
			return err == nil
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

// TestTreeFilterProperties tests include/exclude pruning invariants
func TestTreeFilterProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	conf := New("site",
		Path("", "home"),
		Path("articles/<int:year>/", "archive"),
		Mount("blog/", "blog", New("blog",
			Path("", "index"),
			Path("post/<slug:slug>/", "post"),
		)),
	)
	qnames := []string{"home", "archive", "blog", "blog:index", "blog:post"}

	properties.Property("excluded names never survive", prop.ForAll(
		func(idx int) bool {
			exclude := qnames[idx%len(qnames)]
			root, _, err := BuildTree(conf, TreeFilter{Exclude: []string{exclude}})
			if err != nil {
				return false
			}
			return !treeContains(root, "", exclude)
		},
		gen.IntRange(0, len(qnames)-1),
	))

	properties.Property("filtered tree is a subset of the full tree", prop.ForAll(
		func(idx int) bool {
			include := qnames[idx%len(qnames)]
			full, fullCount, err := BuildTree(conf, TreeFilter{})
			if err != nil {
				return false
			}
			_ = full
			_, count, err := BuildTree(conf, TreeFilter{Include: []string{include}})
			return err == nil && count > 0 && count <= fullCount
		},
		gen.IntRange(0, len(qnames)-1),
	))

	properties.TestingRun(t)
}

func treeContains(branch *Branch, qname, target string) bool {
	for _, group := range branch.Groups {
		name := group.Name
		if qname != "" {
			name = qname + ":" + name
		}
		if name == target {
			return true
		}
	}
	for _, child := range branch.Children {
		ns := child.Namespace
		if qname != "" {
			ns = qname + ":" + ns
		}
		if ns == target {
			return true
		}
		if treeContains(child, ns, target) {
			return true
		}
	}
	return false
}
