package context

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestResolveLiterals(t *testing.T) {
	fs := afero.NewMemMapFs()

	ctx, err := Resolve(fs, nil)
	require.NoError(t, err)
	assert.Empty(t, ctx)

	ctx, err = Resolve(fs, map[string]any{"title": "Home"})
	require.NoError(t, err)
	assert.Equal(t, "Home", ctx["title"])

	// yaml decoders can hand back interface keyed maps
	ctx, err = Resolve(fs, map[any]any{"title": "Home", 1: "one"})
	require.NoError(t, err)
	assert.Equal(t, "Home", ctx["title"])
	assert.Equal(t, "one", ctx["1"])
}

func TestResolveCallables(t *testing.T) {
	fs := afero.NewMemMapFs()

	ctx, err := Resolve(fs, func() (map[string]any, error) {
		return map[string]any{"generated": true}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, true, ctx["generated"])

	ctx, err = Resolve(fs, Provider(func() (map[string]any, error) {
		return map[string]any{"provided": 1}, nil
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, ctx["provided"])
}

func TestResolveRegisteredProvider(t *testing.T) {
	fs := afero.NewMemMapFs()
	RegisterProvider("build_meta", func() (map[string]any, error) {
		return map[string]any{"commit": "abc123"}, nil
	})

	ctx, err := Resolve(fs, "build_meta")
	require.NoError(t, err)
	assert.Equal(t, "abc123", ctx["commit"])
}

func TestResolveJSONFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "ctx.json", `{"title": "Docs", "version": 2}`)

	ctx, err := Resolve(fs, "ctx.json")
	require.NoError(t, err)
	assert.Equal(t, "Docs", ctx["title"])
	assert.Equal(t, float64(2), ctx["version"])
}

func TestResolveJSONSelector(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "site.json", `{
		"pages": {
			"home": {"title": "Home"},
			"about": {"title": "About", "team": ["ana", "bo"]}
		}
	}`)

	ctx, err := Resolve(fs, "site.json#pages.about")
	require.NoError(t, err)
	assert.Equal(t, "About", ctx["title"])
	assert.Equal(t, []any{"ana", "bo"}, ctx["team"])

	_, err = Resolve(fs, "site.json#pages.missing")
	var invalid *InvalidContextError
	require.ErrorAs(t, err, &invalid)
	assert.Contains(t, invalid.Reason, "matched nothing")

	// selector must land on an object
	_, err = Resolve(fs, "site.json#pages.about.title")
	require.ErrorAs(t, err, &invalid)
}

func TestResolveYAMLFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "ctx.yaml", "title: Docs\nitems:\n  - a\n  - b\n")

	ctx, err := Resolve(fs, "ctx.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Docs", ctx["title"])
	assert.Equal(t, []any{"a", "b"}, ctx["items"])

	// sub-selection only applies to json
	_, err = Resolve(fs, "ctx.yaml#title")
	var invalid *InvalidContextError
	require.ErrorAs(t, err, &invalid)
}

func TestResolveExtensionlessSniffing(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "jsonctx", `{"kind": "json"}`)
	writeFile(t, fs, "yamlctx", "kind: yaml\n")
	writeFile(t, fs, "binctx", "\x00\x01not structured")

	ctx, err := Resolve(fs, "jsonctx")
	require.NoError(t, err)
	assert.Equal(t, "json", ctx["kind"])

	ctx, err = Resolve(fs, "yamlctx")
	require.NoError(t, err)
	assert.Equal(t, "yaml", ctx["kind"])

	_, err = Resolve(fs, "binctx")
	require.Error(t, err)
}

func TestResolveErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "bad.json", `{"title": `)

	testCases := []struct {
		name string
		spec any
	}{
		{name: "missing file", spec: "missing.json"},
		{name: "invalid json", spec: "bad.json"},
		{name: "unsupported type", spec: 42},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(fs, tc.spec)
			var invalid *InvalidContextError
			require.ErrorAs(t, err, &invalid)
		})
	}
}
