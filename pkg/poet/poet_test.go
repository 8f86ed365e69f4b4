package poet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rime/rimecore/pkg/table"
)

func TestMakeSentencePrefersHigherWeightPath(t *testing.T) {
	// Input "zhongguo" (length 8): either "zhong"+"guo" as one compound
	// entry worth more than "zhong"+"guo" as two separate words.
	wg := WordGraph{
		0: {
			5: {{Entry: table.Entry{Text: "中"}, Weight: 1.0}},
			8: {{Entry: table.Entry{Text: "中国"}, Weight: 5.0}},
		},
		5: {
			8: {{Entry: table.Entry{Text: "国"}, Weight: 1.0}},
		},
	}

	s, ok := MakeSentence(wg, 8)
	require.True(t, ok)
	require.Equal(t, 5.0, s.Weight)
	entries := s.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, "中国", entries[0].Text)
}

func TestMakeSentenceComposesMultipleEntries(t *testing.T) {
	wg := WordGraph{
		0: {5: {{Entry: table.Entry{Text: "中"}, Weight: 1.0}}},
		5: {8: {{Entry: table.Entry{Text: "国"}, Weight: 1.0}}},
	}

	s, ok := MakeSentence(wg, 8)
	require.True(t, ok)
	require.Equal(t, 2.0, s.Weight)
	entries := s.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, "中", entries[0].Text)
	require.Equal(t, "国", entries[1].Text)

	preedit := s.Preedit("zhongguo", '\'')
	require.Equal(t, "zhong'guo", preedit)
}

func TestMakeSentenceNoPathToEnd(t *testing.T) {
	wg := WordGraph{
		0: {3: {{Entry: table.Entry{Text: "x"}, Weight: 1.0}}},
	}
	_, ok := MakeSentence(wg, 8)
	require.False(t, ok)
}
