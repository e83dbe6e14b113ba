package loaders

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func TestFilesystemLoad(t *testing.T) {
	fs := seedFs(t, map[string]string{
		"templates/base.html":        "base from templates",
		"overrides/base.html":        "base from overrides",
		"templates/sub/page.html":    "page",
		"templates/plain/robots.txt": "User-agent: *",
	})
	loader := NewFilesystem(fs, []string{"overrides", "templates"})

	source, origin, err := loader.Load("base.html")
	require.NoError(t, err)
	assert.Equal(t, "base from overrides", source)
	assert.Equal(t, "overrides/base.html", origin.Name)
	assert.Equal(t, "base.html", origin.TemplateName)
	assert.Nil(t, origin.App)

	source, _, err = loader.Load("sub/page.html")
	require.NoError(t, err)
	assert.Equal(t, "page", source)
}

func TestFilesystemLoadNotFound(t *testing.T) {
	fs := seedFs(t, nil)
	loader := NewFilesystem(fs, []string{"a", "b"})

	_, _, err := loader.Load("missing.html")
	var notFound *TemplateNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing.html", notFound.Name)
	assert.Len(t, notFound.Tried, 2)
	assert.Contains(t, err.Error(), "tried:")
}

func TestFilesystemSelect(t *testing.T) {
	fs := seedFs(t, map[string]string{
		"templates/base.html":      "x",
		"templates/sub/page.html":  "x",
		"templates/sub/other.html": "x",
		"overrides/base.html":      "x",
	})
	loader := NewFilesystem(fs, []string{"overrides", "templates"})

	testCases := []struct {
		name     string
		selector string
		want     [][]string
	}{
		{
			name:     "exact name groups by directory precedence",
			selector: "base.html",
			want:     [][]string{{"base.html"}, {"base.html"}},
		},
		{
			name:     "directory selector walks beneath it",
			selector: "sub",
			want:     [][]string{{"sub/other.html", "sub/page.html"}},
		},
		{
			name:     "glob within a segment",
			selector: "sub/*.html",
			want:     [][]string{{"sub/other.html", "sub/page.html"}},
		},
		{
			name:     "double star spans segments",
			selector: "**",
			want: [][]string{
				{"base.html"},
				{"base.html", "plain/robots.txt", "sub/other.html", "sub/page.html"},
			},
		},
		{
			name:     "no match",
			selector: "nope/*.js",
			want:     nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, loader.Select(tc.selector))
		})
	}
}

func TestAppDirsLoad(t *testing.T) {
	fs := seedFs(t, map[string]string{
		"apps/blog/static_templates/urls.js":  "blog urls",
		"apps/shop/static_templates/urls.js":  "shop urls",
		"apps/shop/static_templates/cart.js":  "cart",
		"apps/blog/templates_custom/alt.html": "alt",
	})
	apps := []App{
		{Label: "blog", Path: "apps/blog"},
		{Label: "shop", Path: "apps/shop"},
	}
	loader := NewAppDirs(fs, apps, "")

	source, origin, err := loader.Load("urls.js")
	require.NoError(t, err)
	assert.Equal(t, "blog urls", source)
	require.NotNil(t, origin.App)
	assert.Equal(t, "blog", origin.App.Label)

	source, origin, err = loader.Load("cart.js")
	require.NoError(t, err)
	assert.Equal(t, "cart", source)
	assert.Equal(t, "shop", origin.App.Label)
}

func TestAppDirsCustomDirname(t *testing.T) {
	fs := seedFs(t, map[string]string{
		"apps/blog/templates_custom/alt.html": "alt",
	})
	loader := NewAppDirs(fs, []App{{Label: "blog", Path: "apps/blog"}}, "templates_custom")

	source, _, err := loader.Load("alt.html")
	require.NoError(t, err)
	assert.Equal(t, "alt", source)
}

func TestAppDirsSelectAndAppFor(t *testing.T) {
	fs := seedFs(t, map[string]string{
		"apps/blog/static_templates/urls.js": "x",
		"apps/shop/static_templates/urls.js": "x",
		"apps/shop/static_templates/cart.js": "x",
	})
	apps := []App{
		{Label: "blog", Path: "apps/blog"},
		{Label: "shop", Path: "apps/shop"},
	}
	loader := NewAppDirs(fs, apps, "")

	groups := loader.Select("*.js")
	assert.Equal(t, [][]string{
		{"urls.js"},
		{"cart.js", "urls.js"},
	}, groups)

	app := loader.AppFor("cart.js")
	require.NotNil(t, app)
	assert.Equal(t, "shop", app.Label)

	assert.Nil(t, loader.AppFor("missing.js"))
}

func TestLocMem(t *testing.T) {
	loader := NewLocMem(map[string]string{
		"urls.js":        "x",
		"defines.js":     "x",
		"deep/config.js": "x",
	})

	source, origin, err := loader.Load("urls.js")
	require.NoError(t, err)
	assert.Equal(t, "x", source)
	assert.Equal(t, "urls.js", origin.Name)

	_, _, err = loader.Load("missing.js")
	var notFound *TemplateNotFoundError
	require.ErrorAs(t, err, &notFound)

	assert.Equal(t, [][]string{{"defines.js", "urls.js"}}, loader.Select("*.js"))
	assert.Equal(t, [][]string{{"deep/config.js", "defines.js", "urls.js"}}, loader.Select("**"))
	assert.Nil(t, loader.Select("*.css"))
}

func TestMatchSelector(t *testing.T) {
	testCases := []struct {
		selector string
		name     string
		want     bool
	}{
		{"urls.js", "urls.js", true},
		{"*.js", "urls.js", true},
		{"*.js", "sub/urls.js", false},
		{"sub/*.js", "sub/urls.js", true},
		{"**", "a/b/c.js", true},
		{"**/c.js", "a/b/c.js", true},
		{"a/**", "a/b/c.js", true},
		{"a/**/d.js", "a/b/c.js", false},
		{"a/**/c.js", "a/c.js", true},
		{"[.js", "anything", false},
	}

	for _, tc := range testCases {
		t.Run(tc.selector+"~"+tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, matchSelector(tc.selector, tc.name))
		})
	}
}
