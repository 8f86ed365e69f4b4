package prism

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rime/rimecore/pkg/spelling"
)

func normal(credibility float64) spelling.Properties {
	return spelling.Properties{Type: spelling.Normal, Credibility: credibility}
}

func TestCommonPrefixSearchOrdersByLength(t *testing.T) {
	p, err := Build([]SpellingEntry{
		{Key: "a", Id: 1, Props: normal(0)},
		{Key: "b", Id: 2, Props: normal(0)},
		{Key: "ab", Id: 3, Props: normal(0)},
	})
	require.NoError(t, err)

	matches := p.CommonPrefixSearch("ab")
	require.Equal(t, []Match{
		{Value: 1, Length: 1},
		{Value: 3, Length: 2},
	}, matches)
}

func TestGetValue(t *testing.T) {
	p, err := Build([]SpellingEntry{
		{Key: "zhong", Id: 1, Props: normal(0)},
		{Key: "zhongguo", Id: 2, Props: normal(0)},
	})
	require.NoError(t, err)

	id, ok := p.GetValue("zhong")
	require.True(t, ok)
	require.Equal(t, spelling.SyllableId(1), id)

	_, ok = p.GetValue("zho")
	require.False(t, ok)
}

func TestExpandSearch(t *testing.T) {
	p, err := Build([]SpellingEntry{
		{Key: "zhong", Id: 1, Props: normal(0)},
		{Key: "zhongguo", Id: 2, Props: normal(0)},
		{Key: "zhongwen", Id: 3, Props: normal(0)},
		{Key: "zhou", Id: 4, Props: normal(0)},
	})
	require.NoError(t, err)

	matches := p.ExpandSearch("zhon", 10)
	ids := make(map[spelling.SyllableId]bool)
	for _, m := range matches {
		ids[m.Value] = true
	}
	require.True(t, ids[1])
	require.True(t, ids[2])
	require.True(t, ids[3])
	require.False(t, ids[4])
}

func TestQuerySpellingAccumulatesAlternatives(t *testing.T) {
	p, err := Build([]SpellingEntry{
		{Key: "zhi", Id: 1, Props: normal(0)},
		{Key: "zi", Id: 1, Props: spelling.Properties{Type: spelling.Fuzzy, Credibility: -1}},
	})
	require.NoError(t, err)

	props := p.QuerySpelling(1)
	require.Len(t, props, 2)
}

func TestSaveOpenRoundTrip(t *testing.T) {
	p, err := Build([]SpellingEntry{
		{Key: "a", Id: 1, Props: normal(0)},
		{Key: "ab", Id: 2, Props: spelling.Properties{Type: spelling.Normal, Credibility: -0.5, Tips: "typo", IsCorrection: true}},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "test.prism")
	require.NoError(t, p.Save(path, 0xabcd1234, 0x1))

	loaded, err := Open(path)
	require.NoError(t, err)

	require.Equal(t, uint32(0xabcd1234), loaded.DictChecksum())
	require.Equal(t, uint32(0x1), loaded.SchemaChecksum())

	id, ok := loaded.GetValue("ab")
	require.True(t, ok)
	require.Equal(t, spelling.SyllableId(2), id)

	props := loaded.QuerySpelling(2)
	require.Len(t, props, 1)
	require.Equal(t, "typo", props[0].Tips)
	require.True(t, props[0].IsCorrection)
	require.InDelta(t, -0.5, props[0].Credibility, 1e-9)

	matches := loaded.CommonPrefixSearch("ab")
	require.Equal(t, []Match{{Value: 1, Length: 1}, {Value: 2, Length: 2}}, matches)
}
