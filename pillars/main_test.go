package pillars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogShape(t *testing.T) {
	catalog := Catalog()
	require.Len(t, catalog, Count)

	seen := map[string]bool{}
	for _, p := range catalog {
		assert.NotEmpty(t, p.Key)
		assert.NotEmpty(t, p.Label)
		assert.NotEmpty(t, p.Description)
		assert.NotEmpty(t, p.Suggestions)
		assert.False(t, seen[p.Key], "duplicate key %q", p.Key)
		seen[p.Key] = true
	}
}

func TestByKey(t *testing.T) {
	p, ok := ByKey("sleep")
	require.True(t, ok)
	assert.Equal(t, "Sleep", p.Label)

	_, ok = ByKey("chakras")
	assert.False(t, ok)
}

func TestLabelByKeyFallsBackToKey(t *testing.T) {
	assert.Equal(t, "Exercise & Movement", LabelByKey("movement"))
	assert.Equal(t, "mystery", LabelByKey("mystery"))
}

func TestResolve(t *testing.T) {
	cases := []struct {
		in   string
		key  string
		ok   bool
	}{
		{"sleep", "sleep", true},
		{"SLEEP", "sleep", true},
		{"Emotional Regulation", "emotions", true},
		{"  exercise & movement  ", "movement", true},
		{"nutrition & gut", "nutrition", true},
		{"regulation", "emotions", true},
		{"gut", "nutrition", true},
		{"both", "", false},
		{"", "", false},
		{"astrology", "", false},
	}

	for _, tc := range cases {
		key, ok := Resolve(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		assert.Equal(t, tc.key, key, "input %q", tc.in)
	}
}

// An ambiguous fragment resolves to the earliest catalog match, every time.
func TestResolveAmbiguousFragmentIsDeterministic(t *testing.T) {
	// "s" is a substring of several labels; catalog order decides.
	first, ok := Resolve("s")
	require.True(t, ok)
	for i := 0; i < 20; i++ {
		key, ok := Resolve("s")
		require.True(t, ok)
		assert.Equal(t, first, key)
	}
	assert.Equal(t, Catalog()[0].Key, first)
}
