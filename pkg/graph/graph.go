// Package graph defines the syllable graph: a DAG over input byte
// positions whose edges carry a multiset of spellings. It is immutable
// once built by pkg/syllabifier, owned by a single translation, and
// dropped when that translation is exhausted.
package graph

import (
	"sort"

	"github.com/rime/rimecore/pkg/spelling"
)

// Graph is the syllabification result for one input string.
type Graph struct {
	InputLength       int
	InterpretedLength int

	// Vertices maps a reached position to the best spelling type of any
	// path reaching it.
	Vertices map[int]spelling.Type

	// Edges maps start -> end -> syllable id -> properties.
	Edges map[int]map[int]map[spelling.SyllableId]spelling.Properties

	// Indices is edges transposed: start -> syllable id -> properties
	// ordered by descending end position, i.e. longer matches first.
	Indices map[int]map[spelling.SyllableId][]*spelling.Properties
}

// New returns an empty graph for an input of the given byte length.
func New(inputLength int) *Graph {
	return &Graph{
		InputLength: inputLength,
		Vertices:    make(map[int]spelling.Type),
		Edges:       make(map[int]map[int]map[spelling.SyllableId]spelling.Properties),
		Indices:     make(map[int]map[spelling.SyllableId][]*spelling.Properties),
	}
}

// AddEdge inserts or updates (via the Update algebra) the properties of
// syllable s on edge start->end.
func (g *Graph) AddEdge(start, end int, s spelling.SyllableId, props spelling.Properties) {
	byEnd, ok := g.Edges[start]
	if !ok {
		byEnd = make(map[int]map[spelling.SyllableId]spelling.Properties)
		g.Edges[start] = byEnd
	}
	bySyllable, ok := byEnd[end]
	if !ok {
		bySyllable = make(map[spelling.SyllableId]spelling.Properties)
		byEnd[end] = bySyllable
	}
	if existing, ok := bySyllable[s]; ok {
		bySyllable[s] = spelling.Update(existing, props)
	} else {
		bySyllable[s] = props
	}
}

// EdgesFrom returns the end positions reachable directly from start.
func (g *Graph) EdgesFrom(start int) []int {
	byEnd, ok := g.Edges[start]
	if !ok {
		return nil
	}
	ends := make([]int, 0, len(byEnd))
	for end := range byEnd {
		ends = append(ends, end)
	}
	sort.Ints(ends)
	return ends
}

// HasVertex reports whether position has been recorded.
func (g *Graph) HasVertex(pos int) bool {
	_, ok := g.Vertices[pos]
	return ok
}

// BuildIndices transposes Edges into Indices, grouping by start then by
// syllable id, each group ordered by descending end position so the
// longest match comes first — the order the table query walks in.
func (g *Graph) BuildIndices() {
	g.Indices = make(map[int]map[spelling.SyllableId][]*spelling.Properties)
	for start, byEnd := range g.Edges {
		bySyllable := make(map[spelling.SyllableId][]*spelling.Properties)
		// Iterate ends in descending order so each syllable's slice is
		// built already in descending-end order without a second sort.
		ends := make([]int, 0, len(byEnd))
		for end := range byEnd {
			ends = append(ends, end)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(ends)))
		for _, end := range ends {
			for s, props := range byEnd[end] {
				p := props
				bySyllable[s] = append(bySyllable[s], &p)
			}
		}
		g.Indices[start] = bySyllable
	}
}

// SyllablesAt returns the syllable ids with an outgoing edge from pos,
// per the transposed index, in no particular order (callers that need
// length order use SpellingsAt).
func (g *Graph) SyllablesAt(pos int) []spelling.SyllableId {
	bySyllable, ok := g.Indices[pos]
	if !ok {
		return nil
	}
	out := make([]spelling.SyllableId, 0, len(bySyllable))
	for s := range bySyllable {
		out = append(out, s)
	}
	return out
}

// SpellingsAt returns the spellings of syllable s starting at pos,
// ordered by descending end position.
func (g *Graph) SpellingsAt(pos int, s spelling.SyllableId) []*spelling.Properties {
	bySyllable, ok := g.Indices[pos]
	if !ok {
		return nil
	}
	return bySyllable[s]
}
