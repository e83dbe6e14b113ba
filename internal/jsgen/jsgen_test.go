package jsgen

import (
	"os"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renderstatic/renderstatic/internal/urls"
)

func TestMain(m *testing.M) {
	code := m.Run()
	snaps.Clean(m)
	os.Exit(code)
}

func fixtureTree(t *testing.T) *urls.Branch {
	t.Helper()
	conf := urls.New("site",
		urls.Path("", "home"),
		urls.Path("articles/<int:year>/", "archive"),
		urls.Path("articles/<int:year>/<int:month>/", "archive"),
		urls.Mount("blog/", "blog", urls.New("blog",
			urls.Path("", "index"),
			urls.Path("post/<slug:slug>/", "post"),
		)),
	)
	root, _, err := urls.BuildTree(conf, urls.TreeFilter{})
	require.NoError(t, err)
	return root
}

func TestSimpleWriterOutput(t *testing.T) {
	root := fixtureTree(t)

	js, err := WriteTree(NewSimpleWriter(Options{Indent: "    "}), root)
	require.NoError(t, err)

	assert.Contains(t, js, `"home": function(kwargs={}, args=[]) {`)
	assert.Contains(t, js, `return "/";`)
	assert.Contains(t, js, "return `/articles/${kwargs[\"year\"]}/`;")
	assert.Contains(t, js, "return `/articles/${kwargs[\"year\"]}/${kwargs[\"month\"]}/`;")
	assert.Contains(t, js, `"blog": {`)
	assert.Contains(t, js, "return `/blog/post/${kwargs[\"slug\"]}/`;")
	assert.Contains(t, js, "throw new TypeError(\"No reversal available for parameters at path: blog:post\");")

	snaps.WithConfig(snaps.Ext(".js")).MatchSnapshot(t, js)
}

func TestSimpleWriterES5Output(t *testing.T) {
	root := fixtureTree(t)

	js, err := WriteTree(NewSimpleWriter(Options{Indent: "    ", ES5: true}), root)
	require.NoError(t, err)

	assert.Contains(t, js, `"archive": function(kwargs, args) {`)
	assert.Contains(t, js, "kwargs = kwargs || {};")
	assert.Contains(t, js, `return "/articles/"+kwargs["year"].toString()+"/";`)
	assert.NotContains(t, js, "${")
	assert.NotContains(t, js, "=>")

	snaps.WithConfig(snaps.Ext(".js")).MatchSnapshot(t, js)
}

func TestClassWriterOutput(t *testing.T) {
	root := fixtureTree(t)

	js, err := WriteTree(NewClassWriter(ClassOptions{Options: Options{Indent: "    "}}), root)
	require.NoError(t, err)

	assert.Contains(t, js, "class URLResolver {")
	assert.Contains(t, js, "match(kwargs, args, expected) {")
	assert.Contains(t, js, "reverse(qname, kwargs={}, args=[]) {")
	assert.Contains(t, js, "urls = {")
	assert.Contains(t, js, `if (this.match(kwargs, args)) return "/";`)
	assert.Contains(t, js, "if (this.match(kwargs, args, ['year'])) return `/articles/${kwargs[\"year\"]}/`;")
	assert.Contains(t, js, "throw new TypeError(")

	snaps.WithConfig(snaps.Ext(".js")).MatchSnapshot(t, js)
}

func TestClassWriterES5Output(t *testing.T) {
	root := fixtureTree(t)

	js, err := WriteTree(NewClassWriter(ClassOptions{
		Options:   Options{Indent: "    ", ES5: true},
		ClassName: "Reverser",
	}), root)
	require.NoError(t, err)

	assert.Contains(t, js, "Reverser = function() {};")
	assert.Contains(t, js, "Reverser.prototype = {")
	assert.Contains(t, js, "reverse: function(qname, kwargs, args) {")
	assert.NotContains(t, js, "class ")
	assert.NotContains(t, js, "=>")

	snaps.WithConfig(snaps.Ext(".js")).MatchSnapshot(t, js)
}

func TestClassWriterSilentNotFound(t *testing.T) {
	root := fixtureTree(t)

	js, err := WriteTree(NewClassWriter(ClassOptions{
		Options:        Options{Indent: "  "},
		SilentNotFound: true,
	}), root)
	require.NoError(t, err)
	assert.NotContains(t, js, "throw")
}

func TestSingleLineOutput(t *testing.T) {
	root := fixtureTree(t)

	js, err := WriteTree(NewSimpleWriter(Options{}), root)
	require.NoError(t, err)
	assert.NotContains(t, js, "\n")
	assert.Contains(t, js, `"home": function(kwargs={}, args=[]) {`)
}

func TestDepthOffsetsIndentation(t *testing.T) {
	root := fixtureTree(t)

	js, err := WriteTree(NewSimpleWriter(Options{Indent: "\t", Depth: 2}), root)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(js, "\t\t\t\""), "output should start one level below the requested depth")
}

func TestRegexPatternsUseRegisteredPlaceholders(t *testing.T) {
	urls.RegisterVariablePlaceholder("chapter", 1, "")

	conf := urls.New("docs",
		urls.Re(`^docs/(?P<chapter>[0-9]+)/$`, "chapter"),
	)
	root, _, err := urls.BuildTree(conf, urls.TreeFilter{})
	require.NoError(t, err)

	js, err := WriteTree(NewSimpleWriter(Options{Indent: "  "}), root)
	require.NoError(t, err)
	assert.Contains(t, js, "return `/docs/${kwargs[\"chapter\"]}/`;")
}

func TestUnnamedGroupsEmitPositionalArgs(t *testing.T) {
	urls.RegisterUnnamedPlaceholders("legacy", []any{1954, 6}, "")

	conf := urls.New("site",
		urls.Re(`^archive/([0-9]{4})/([0-9]{1,2})/$`, "legacy"),
	)
	root, _, err := urls.BuildTree(conf, urls.TreeFilter{})
	require.NoError(t, err)

	js, err := WriteTree(NewSimpleWriter(Options{Indent: "  "}), root)
	require.NoError(t, err)
	assert.Contains(t, js, "if (args.length === 2)")
	assert.Contains(t, js, "return `/archive/${args[0]}/${args[1]}/`;")

	es5, err := WriteTree(NewSimpleWriter(Options{Indent: "  ", ES5: true}), root)
	require.NoError(t, err)
	assert.Contains(t, es5, `return "/archive/"+args[0].toString()+"/"+args[1].toString()+"/";`)
}

func TestNonReversiblePatternEmitsComment(t *testing.T) {
	conf := urls.New("site",
		urls.Re(`^mixed/(?P<year>[0-9]{4})/([0-9]{1,2})/$`, "mixed"),
	)
	root, _, err := urls.BuildTree(conf, urls.TreeFilter{})
	require.NoError(t, err)

	js, err := WriteTree(NewSimpleWriter(Options{Indent: "  "}), root)
	require.NoError(t, err)
	assert.Contains(t, js, "/* this path is not reversible */")
}

func TestMissingPlaceholderFailsGeneration(t *testing.T) {
	conf := urls.New("site",
		urls.Re(`^things/(?P<thingseries>[A-Z]+)/$`, "thing"),
	)
	root, _, err := urls.BuildTree(conf, urls.TreeFilter{})
	require.NoError(t, err)

	_, err = WriteTree(NewSimpleWriter(Options{Indent: "  "}), root)
	require.Error(t, err)
	var genErr *URLGenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "thing", genErr.QName)

	var pnf *urls.PlaceholderNotFoundError
	assert.ErrorAs(t, err, &pnf)
}

func TestPlaceholderCandidatesTriedInOrder(t *testing.T) {
	// first candidate fails the pattern regex, the second reverses
	urls.RegisterVariablePlaceholder("isbn", "not-an-isbn", "")
	urls.RegisterVariablePlaceholder("isbn", "9780134190440", "")

	conf := urls.New("books",
		urls.Re(`^books/(?P<isbn>[0-9]{13})/$`, "detail"),
	)
	root, _, err := urls.BuildTree(conf, urls.TreeFilter{})
	require.NoError(t, err)

	js, err := WriteTree(NewSimpleWriter(Options{Indent: "  "}), root)
	require.NoError(t, err)
	assert.Contains(t, js, "return `/books/${kwargs[\"isbn\"]}/`;")
}

func TestForEachProduct(t *testing.T) {
	var seen [][]any
	forEachProduct([][]any{{1, 2}, {"a", "b"}}, func(choice []any) bool {
		dup := make([]any, len(choice))
		copy(dup, choice)
		seen = append(seen, dup)
		return true
	})
	assert.Equal(t, [][]any{
		{1, "a"}, {1, "b"},
		{2, "a"}, {2, "b"},
	}, seen)

	count := 0
	forEachProduct([][]any{{1, 2, 3}}, func(choice []any) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}
