package registry

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMultipleFiles(t *testing.T) {
	r, err := Load(filepath.Join("testdata", "simple_types.yaml"), filepath.Join("testdata", "extra.json"))
	require.NoError(t, err)

	assert.Equal(t, 5, r.Len())
	assert.Equal(t, []string{"java/lang/String", "java/util/Random", "java/util/UUID", "java/util/Collection", "java/util/Map"}, r.Types())

	rule, m := r.Resolve("java/util/Random", nil)
	require.Equal(t, Direct, m)
	assert.Equal(t, Name{Local: "random", Static: "RANDOM"}, rule.Name)
	assert.True(t, rule.Exclusive)
	assert.Equal(t, 4, rule.Line)

	rule, _ = r.Resolve("java/util/UUID", nil)
	assert.Equal(t, []Name{
		{Local: "identifier", Static: "IDENTIFIER"},
		{Local: "uuid", Static: "UUID"},
	}, rule.Fallback)
}

func TestResolve(t *testing.T) {
	r, err := Load(filepath.Join("testdata", "simple_types.yaml"))
	require.NoError(t, err)

	rule, m := r.Resolve("java/lang/String", nil)
	assert.Equal(t, Direct, m)
	assert.Equal(t, "string", rule.Name.Local)

	rule, m = r.Resolve("java/util/ArrayList", []string{"java/util/AbstractList", "java/util/List", "java/util/Collection"})
	assert.Equal(t, Inherited, m)
	assert.Equal(t, "collection", rule.Name.Local)

	// String is not inheritable
	_, m = r.Resolve("a/b", []string{"java/lang/String"})
	assert.Equal(t, NoMatch, m)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		key  string
		line int
	}{
		{"missing local name", "a/B:\n  static_name: B\n", "a/B", 2},
		{"missing static name", "a/B:\n  local_name: b\n", "a/B", 2},
		{"invalid identifier", "a/B:\n  local_name: class\n  static_name: B\n", "a/B", 2},
		{"invalid fallback", "a/B:\n  local_name: b\n  static_name: B\n  fallback: [\"not valid\"]\n", "a/B", 2},
		{"unknown field", "a/B:\n  local_name: b\n  static_name: B\n  suffix: x\n", "a/B", 4},
		{"bad bool", "a/B:\n  local_name: b\n  static_name: B\n  inherit: maybe\n", "a/B", 4},
		{"rule not a mapping", "a/B: b\n", "a/B", 1},
		{"top level list", "- a\n", "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			err := r.Parse("inline.yaml", []byte(tt.doc))
			require.Error(t, err)

			var le *LoadError
			require.True(t, errors.As(err, &le), "expected *LoadError, got %T", err)
			assert.Equal(t, "inline.yaml", le.Path)
			assert.Equal(t, tt.key, le.Key)
			assert.Equal(t, tt.line, le.Line)
			assert.Equal(t, 0, r.Len(), "registry must stay empty after a failed load")
		})
	}
}

func TestDuplicateKeys(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "duplicate.yaml"))
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "java/lang/String", le.Key)
	assert.Equal(t, 4, le.Line)

	// Same key in two files
	_, err = Load(filepath.Join("testdata", "simple_types.yaml"), filepath.Join("testdata", "simple_types.yaml"))
	require.True(t, errors.As(err, &le))
	assert.Contains(t, err.Error(), "already defined")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.yaml"))
	require.Error(t, err)
	var le *LoadError
	assert.False(t, errors.As(err, &le))
}

func TestEmptyDocument(t *testing.T) {
	r := New()
	require.NoError(t, r.Parse("empty.yaml", nil))
	assert.Equal(t, 0, r.Len())
}

func TestResolverMemoizesAndFallsBack(t *testing.T) {
	r, err := Load(filepath.Join("testdata", "simple_types.yaml"))
	require.NoError(t, err)

	calls := 0
	res := NewResolver(r, func(typ string) []string {
		calls++
		return []string{"java/util/AbstractList", "java/util/Collection"}
	})

	rule, m := res.Resolve("java/util/ArrayList")
	assert.Equal(t, Inherited, m)
	assert.Equal(t, "collection", rule.Name.Local)
	_, m = res.Resolve("java/util/ArrayList")
	assert.Equal(t, Inherited, m)
	assert.Equal(t, 1, calls, "the hierarchy is walked once per type")

	assert.Equal(t, []string{"identifier", "uuid"}, res.Fallbacks("java/util/UUID"))
	assert.Nil(t, res.Fallbacks("java/lang/Object"), "no rule, no fallbacks")

	_, m = NewResolver(nil, nil).Resolve("java/util/UUID")
	assert.Equal(t, NoMatch, m)
}
