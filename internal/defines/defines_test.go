package defines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryAddAndGet(t *testing.T) {
	r := NewRegistry()
	r.Add(Group{Name: "Defines", Pairs: []Pair{{Key: "VERSION", Value: 1}}})

	group, ok := r.Get("Defines")
	require.True(t, ok)
	assert.Equal(t, "Defines", group.Name)
	require.Len(t, group.Pairs, 1)
	assert.Equal(t, "VERSION", group.Pairs[0].Key)

	_, ok = r.Get("Missing")
	assert.False(t, ok)
}

func TestRegistryAddReplacesByName(t *testing.T) {
	r := NewRegistry()
	r.Add(Group{Name: "Defines", Pairs: []Pair{{Key: "A", Value: 1}}})
	r.Add(Group{Name: "Other", Pairs: []Pair{{Key: "B", Value: 2}}})
	r.Add(Group{Name: "Defines", Pairs: []Pair{{Key: "A", Value: 3}}})

	all := r.All()
	require.Len(t, all, 2)
	// replacement keeps the original position
	assert.Equal(t, "Defines", all[0].Name)
	assert.Equal(t, 3, all[0].Pairs[0].Value)
}

func TestAddStruct(t *testing.T) {
	type FeatureFlags struct {
		DarkMode   bool
		MaxUploads int
		internal   string
	}

	r := NewRegistry()
	err := r.AddStruct("", FeatureFlags{DarkMode: true, MaxUploads: 5, internal: "x"}, "")
	require.NoError(t, err)

	group, ok := r.Get("FeatureFlags")
	require.True(t, ok)
	require.Len(t, group.Pairs, 2)
	assert.Equal(t, Pair{Key: "DarkMode", Value: true}, group.Pairs[0])
	assert.Equal(t, Pair{Key: "MaxUploads", Value: 5}, group.Pairs[1])
}

func TestAddStructPointerAndErrors(t *testing.T) {
	type Flags struct{ Enabled bool }

	r := NewRegistry()
	require.NoError(t, r.AddStruct("Custom", &Flags{Enabled: true}, ""))
	_, ok := r.Get("Custom")
	assert.True(t, ok)

	err := r.AddStruct("", 42, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected a struct")
}

func TestAddMapSortsKeys(t *testing.T) {
	r := NewRegistry()
	r.AddMap("Choices", map[string]any{"ZULU": 3, "ALPHA": 1, "MIKE": 2}, "")

	group, _ := r.Get("Choices")
	require.Len(t, group.Pairs, 3)
	assert.Equal(t, "ALPHA", group.Pairs[0].Key)
	assert.Equal(t, "MIKE", group.Pairs[1].Key)
	assert.Equal(t, "ZULU", group.Pairs[2].Key)
}

func TestToJS(t *testing.T) {
	groups := []Group{
		{Name: "Defines", Pairs: []Pair{
			{Key: "VERSION", Value: 2},
			{Key: "NAME", Value: "site"},
		}},
	}

	js, err := ToJS(groups, "  ")
	require.NoError(t, err)
	assert.Equal(t, "  Defines: { \n       VERSION: 2,\n       NAME: \"site\"\n  },\n\n", js)
}

func TestToJSInheritance(t *testing.T) {
	groups := []Group{
		{Name: "Base", Pairs: []Pair{{Key: "SHARED", Value: "yes"}}},
		{Name: "Child", Parent: "Base", Pairs: []Pair{{Key: "OWN", Value: 1}}},
	}

	js, err := ToJS(groups, "")
	require.NoError(t, err)
	assert.Contains(t, js, "Child: { \n     SHARED: \"yes\",\n     OWN: 1\n}")

	// grandparent pairs come first
	groups = append(groups, Group{
		Name: "GrandChild", Parent: "Child",
		Pairs: []Pair{{Key: "LEAF", Value: true}},
	})
	js, err = ToJS(groups, "")
	require.NoError(t, err)
	assert.Contains(t, js, "GrandChild: { \n     SHARED: \"yes\",\n     OWN: 1,\n     LEAF: true\n}")
}

func TestToJSErrors(t *testing.T) {
	_, err := ToJS([]Group{
		{Name: "Orphan", Parent: "Missing", Pairs: []Pair{{Key: "A", Value: 1}}},
	}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `inherits unknown group "Missing"`)

	_, err = ToJS([]Group{
		{Name: "Bad", Pairs: []Pair{{Key: "FN", Value: func() {}}}},
	}, "")
	require.Error(t, err)
}

func TestToJSCyclicParentage(t *testing.T) {
	_, err := ToJS([]Group{
		{Name: "A", Parent: "B", Pairs: []Pair{{Key: "X", Value: 1}}},
		{Name: "B", Parent: "A", Pairs: []Pair{{Key: "Y", Value: 2}}},
	}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cyclic group parentage")

	// self-parented group
	_, err = ToJS([]Group{
		{Name: "Self", Parent: "Self", Pairs: []Pair{{Key: "X", Value: 1}}},
	}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cyclic group parentage")
}

func TestToJSSkipsEmptyGroups(t *testing.T) {
	js, err := ToJS([]Group{{Name: "Empty"}}, "")
	require.NoError(t, err)
	assert.Empty(t, js)
}

func TestToJSValueEncoding(t *testing.T) {
	groups := []Group{
		{Name: "Types", Pairs: []Pair{
			{Key: "LIST", Value: []int{1, 2, 3}},
			{Key: "NESTED", Value: map[string]any{"a": 1}},
			{Key: "NULL", Value: nil},
		}},
	}
	js, err := ToJS(groups, "")
	require.NoError(t, err)
	assert.Contains(t, js, "LIST: [1,2,3],")
	assert.Contains(t, js, `NESTED: {"a":1},`)
	assert.Contains(t, js, "NULL: null")
}
