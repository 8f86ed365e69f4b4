package corrector

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rime/rimecore/pkg/prism"
	"github.com/rime/rimecore/pkg/spelling"
)

func buildPrism(t *testing.T, keys map[string]spelling.SyllableId) *prism.Prism {
	entries := make([]prism.SpellingEntry, 0, len(keys))
	for k, id := range keys {
		entries = append(entries, prism.SpellingEntry{Key: k, Id: id, Props: spelling.Properties{Type: spelling.Normal}})
	}
	p, err := prism.Build(entries)
	require.NoError(t, err)
	return p
}

func TestToleranceSearchExactMatchIsFree(t *testing.T) {
	p := buildPrism(t, map[string]spelling.SyllableId{"wo": 1})
	c := New(p)

	matches := c.ToleranceSearch("wo", 2)
	m, ok := matches[1]
	require.True(t, ok)
	require.Equal(t, 0, m.Distance)
}

func TestToleranceSearchKeyboardAdjacentSubstitution(t *testing.T) {
	p := buildPrism(t, map[string]spelling.SyllableId{"wo": 1})
	c := New(p)

	// "p" is adjacent to "o" on a QWERTY row, so "wp" should reach "wo"
	// at distance 1.
	matches := c.ToleranceSearch("wp", 2)
	m, ok := matches[1]
	require.True(t, ok)
	require.Equal(t, 1, m.Distance)
}

func TestToleranceSearchRejectsBeyondTolerance(t *testing.T) {
	p := buildPrism(t, map[string]spelling.SyllableId{"zhong": 1})
	c := New(p)

	matches := c.ToleranceSearch("qqqqq", 1)
	_, ok := matches[1]
	require.False(t, ok)
}

func TestToleranceSearchPrefersShorterDistance(t *testing.T) {
	p := buildPrism(t, map[string]spelling.SyllableId{"wo": 1})
	c := New(p)

	matches := c.ToleranceSearch("wo", 2)
	require.Equal(t, 0, matches[1].Distance)
}

func TestToleranceSearchFindsMatchWithDroppedLetter(t *testing.T) {
	p := buildPrism(t, map[string]spelling.SyllableId{"zhong": 1})
	c := New(p)

	// "zhog" dropped the "n" from "zhong"; only reachable if the search
	// can advance a trie edge without consuming an input byte.
	matches := c.ToleranceSearch("zhog", 2)
	m, ok := matches[1]
	require.True(t, ok)
	require.Equal(t, 2, m.Distance)
}
