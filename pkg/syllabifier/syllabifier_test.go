package syllabifier

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rime/rimecore/pkg/prism"
	"github.com/rime/rimecore/pkg/spelling"
)

func buildPrism(t *testing.T, entries []prism.SpellingEntry) *prism.Prism {
	p, err := prism.Build(entries)
	require.NoError(t, err)
	return p
}

func TestBuildExactMatchCoversWholeInput(t *testing.T) {
	p := buildPrism(t, []prism.SpellingEntry{
		{Key: "zhong", Id: 1, Props: spelling.Properties{Type: spelling.Normal}},
	})
	g := Build("zhong", p, Options{})
	require.Equal(t, len("zhong"), g.InterpretedLength)
}

func TestBuildPrunesAbbreviationWhenNormalReachesFarthest(t *testing.T) {
	p := buildPrism(t, []prism.SpellingEntry{
		{Key: "y", Id: 1, Props: spelling.Properties{Type: spelling.Abbreviation}},
		{Key: "yi", Id: 2, Props: spelling.Properties{Type: spelling.Normal}},
	})
	g := Build("yi", p, Options{})

	require.Equal(t, 2, g.InterpretedLength)
	_, hasAbbrev := g.Edges[0][1]
	require.False(t, hasAbbrev, "abbreviation edge 0->1 should be pruned")
	_, hasNormal := g.Edges[0][2]
	require.True(t, hasNormal, "normal edge 0->2 should survive")
}

func TestBuildCompletionCoversWholeInput(t *testing.T) {
	p := buildPrism(t, []prism.SpellingEntry{
		{Key: "zhong", Id: 1, Props: spelling.Properties{Type: spelling.Normal}},
		{Key: "zhongwen", Id: 2, Props: spelling.Properties{Type: spelling.Normal}},
	})
	g := Build("zh", p, Options{EnableCompletion: true})

	require.Equal(t, 2, g.InterpretedLength)
	bySyllable, ok := g.Edges[0][2]
	require.True(t, ok)
	for _, props := range bySyllable {
		require.Equal(t, spelling.Completion, props.Type)
	}
}

func TestBuildWithDelimiters(t *testing.T) {
	p := buildPrism(t, []prism.SpellingEntry{
		{Key: "zhong", Id: 1, Props: spelling.Properties{Type: spelling.Normal}},
		{Key: "guo", Id: 2, Props: spelling.Properties{Type: spelling.Normal}},
	})
	g := Build("zhong'guo", p, Options{Delimiters: " '"})
	require.Equal(t, len("zhong'guo"), g.InterpretedLength)
}
