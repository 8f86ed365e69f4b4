package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rime/rimecore/pkg/spelling"
)

func TestAddEdgeMergesSameSyllableViaUpdate(t *testing.T) {
	g := New(5)
	g.AddEdge(0, 2, 1, spelling.Properties{Type: spelling.Fuzzy, Credibility: -1})
	g.AddEdge(0, 2, 1, spelling.Properties{Type: spelling.Normal, Credibility: -5})

	props := g.Edges[0][2][1]
	require.Equal(t, spelling.Normal, props.Type)
	require.Equal(t, -1.0, props.Credibility, "Update keeps the larger credibility between the two")
}

func TestEdgesFromOrdersAscending(t *testing.T) {
	g := New(5)
	g.AddEdge(0, 3, 0, spelling.Properties{})
	g.AddEdge(0, 1, 1, spelling.Properties{})
	g.AddEdge(0, 2, 2, spelling.Properties{})

	require.Equal(t, []int{1, 2, 3}, g.EdgesFrom(0))
}

func TestBuildIndicesOrdersByDescendingEnd(t *testing.T) {
	g := New(5)
	g.AddEdge(0, 1, 0, spelling.Properties{EndPos: 1})
	g.AddEdge(0, 3, 0, spelling.Properties{EndPos: 3})
	g.BuildIndices()

	spellings := g.SpellingsAt(0, 0)
	require.Len(t, spellings, 2)
	require.Equal(t, uint32(3), spellings[0].EndPos)
	require.Equal(t, uint32(1), spellings[1].EndPos)
}

func TestHasVertex(t *testing.T) {
	g := New(5)
	require.False(t, g.HasVertex(0))
	g.Vertices[0] = spelling.Normal
	require.True(t, g.HasVertex(0))
}
