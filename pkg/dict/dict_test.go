package dict

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rime/rimecore/pkg/graph"
	"github.com/rime/rimecore/pkg/prism"
	"github.com/rime/rimecore/pkg/spelling"
	"github.com/rime/rimecore/pkg/table"
)

func TestLookupGroupsAndOrdersByEndPosition(t *testing.T) {
	p, err := prism.Build([]prism.SpellingEntry{
		{Key: "A", Id: 0, Props: spelling.Properties{Type: spelling.Normal}},
		{Key: "B", Id: 1, Props: spelling.Properties{Type: spelling.Normal}},
		{Key: "C", Id: 2, Props: spelling.Properties{Type: spelling.Normal}},
	})
	require.NoError(t, err)

	tbl := table.Build([]string{"A", "B", "C"}, []table.VocabEntry{
		{Code: spelling.Code{0}, Entry: table.Entry{Text: "A", Weight: 1.0, Code: spelling.Code{0}}},
		{Code: spelling.Code{0, 1}, Entry: table.Entry{Text: "AB", Weight: 2.0, Code: spelling.Code{0, 1}}},
		{Code: spelling.Code{0, 1, 2}, Entry: table.Entry{Text: "ABC", Weight: 4.0, Code: spelling.Code{0, 1, 2}}},
	})

	d := New(p, tbl)

	g := graph.New(3)
	g.AddEdge(0, 1, 0, spelling.Properties{Type: spelling.Normal, EndPos: 1})
	g.AddEdge(1, 2, 1, spelling.Properties{Type: spelling.Normal, EndPos: 2})
	g.AddEdge(2, 3, 2, spelling.Properties{Type: spelling.Normal, EndPos: 3})
	g.InterpretedLength = 3
	g.BuildIndices()

	collector := d.Lookup(g, 0, 0)
	require.Contains(t, collector.Groups, 1)
	require.Contains(t, collector.Groups, 2)
	require.Contains(t, collector.Groups, 3)
	require.Equal(t, "ABC", collector.Groups[3][0].Entry.Text)
}

func TestLookupMarksCompletionEdgeWithRemainingCodeLength(t *testing.T) {
	p, err := prism.Build([]prism.SpellingEntry{
		{Key: "zhong", Id: 0, Props: spelling.Properties{Type: spelling.Normal}},
	})
	require.NoError(t, err)

	tbl := table.Build([]string{"zhong"}, []table.VocabEntry{
		{Code: spelling.Code{0}, Entry: table.Entry{Text: "中", Weight: 5.0, Code: spelling.Code{0}}},
	})
	d := New(p, tbl)

	g := graph.New(2)
	g.AddEdge(0, 2, 0, spelling.Properties{Type: spelling.Completion, EndPos: 2, Credibility: -1})
	g.InterpretedLength = 2
	g.BuildIndices()

	collector := d.Lookup(g, 0, 0)
	require.Contains(t, collector.Groups, 2)
	require.Greater(t, collector.Groups[2][0].RemainingCodeLength, 0)
}

func TestLookupWordsExactAndPredictive(t *testing.T) {
	p, err := prism.Build([]prism.SpellingEntry{
		{Key: "zhong", Id: 0, Props: spelling.Properties{Type: spelling.Normal}},
		{Key: "zhongwen", Id: 1, Props: spelling.Properties{Type: spelling.Normal}},
	})
	require.NoError(t, err)

	tbl := table.Build([]string{"zhong", "zhongwen"}, []table.VocabEntry{
		{Code: spelling.Code{0}, Entry: table.Entry{Text: "中", Weight: 5.0, Code: spelling.Code{0}}},
		{Code: spelling.Code{1}, Entry: table.Entry{Text: "中文", Weight: 3.0, Code: spelling.Code{1}}},
	})
	d := New(p, tbl)

	exact := d.LookupWords("zhong", false, 10)
	require.Len(t, exact, 1)
	require.Equal(t, "中", exact[0].Entry.Text)
	require.Equal(t, 0, exact[0].RemainingCodeLength)

	predictive := d.LookupWords("zh", true, 10)
	require.Len(t, predictive, 2)
}
