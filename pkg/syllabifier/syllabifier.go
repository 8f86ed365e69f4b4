// Package syllabifier builds the syllable graph: a forward best-first
// search over a prism (with an optional corrector attached) that
// produces a DAG of every valid syllabification of an input string,
// followed by backward pruning and an optional predictive-completion
// pass.
package syllabifier

import (
	"container/heap"
	"math"
	"strings"

	"github.com/rime/rimecore/pkg/corrector"
	"github.com/rime/rimecore/pkg/graph"
	"github.com/rime/rimecore/pkg/prism"
	"github.com/rime/rimecore/pkg/spelling"
)

// Options configures one Build call.
type Options struct {
	Delimiters       string
	EnableCompletion bool
	StrictSpelling   bool

	// Corrector, if non-nil, is consulted alongside CommonPrefixSearch
	// at every vertex, within Tolerance.
	Corrector *corrector.Corrector
	Tolerance int
}

type vertexItem struct {
	typ spelling.Type
	pos int
}

// vertexHeap is a min-heap ordered by (SpellingType, position): best
// types come first, matching the forward best-first traversal order.
type vertexHeap []vertexItem

func (h vertexHeap) Len() int { return len(h) }
func (h vertexHeap) Less(i, j int) bool {
	if h[i].typ != h[j].typ {
		return h[i].typ < h[j].typ
	}
	return h[i].pos < h[j].pos
}
func (h vertexHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *vertexHeap) Push(x any)   { *h = append(*h, x.(vertexItem)) }
func (h *vertexHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

const correctionCredibility = 0.01 // log(0.01) applied to correction edges
const completionDemotionFactor = 0.5
const ambiguousJointPenalty = 1e-10

// Build runs the 8-step forward/backward syllabification algorithm over
// input, producing an immutable graph ready for table queries.
func Build(input string, p *prism.Prism, opts Options) *graph.Graph {
	g := graph.New(len(input))
	visited := make(map[int]bool)

	pq := &vertexHeap{{typ: spelling.Normal, pos: 0}}
	heap.Init(pq)

	farthest := 0

	for pq.Len() > 0 {
		item := heap.Pop(pq).(vertexItem)
		pos := item.pos
		if visited[pos] {
			continue
		}
		visited[pos] = true
		g.Vertices[pos] = item.typ

		for _, edge := range matchesAt(input, pos, p, opts) {
			endPos := pos + edge.length
			for endPos < len(input) && strings.IndexByte(opts.Delimiters, input[endPos]) >= 0 {
				endPos++
			}

			endVertexType := spelling.Invalid
			for _, props := range edge.properties(p) {
				if opts.StrictSpelling && endPos == len(input) && props.Type != spelling.Normal {
					continue
				}
				props.EndPos = uint32(endPos)
				g.AddEdge(pos, endPos, edge.id, props)
				if !props.IsCorrection && props.Type < endVertexType {
					endVertexType = props.Type
				}
			}
			if endVertexType == spelling.Invalid || endVertexType < item.typ {
				endVertexType = item.typ
			}

			if endPos > farthest {
				farthest = endPos
			}
			if !visited[endPos] {
				heap.Push(pq, vertexItem{typ: endVertexType, pos: endPos})
			}
		}
	}
	g.InterpretedLength = farthest

	pruneBackward(g, farthest)

	if opts.EnableCompletion && farthest < len(input) {
		if applyCompletion(g, p, input, farthest) {
			g.InterpretedLength = len(input)
		}
	}

	g.BuildIndices()
	return g
}

type candidateEdge struct {
	id           spelling.SyllableId
	length       int
	isCorrection bool
}

func (e candidateEdge) properties(p *prism.Prism) []spelling.Properties {
	if e.isCorrection {
		return []spelling.Properties{{
			Type:         spelling.Normal,
			Credibility:  math.Log(correctionCredibility),
			IsCorrection: true,
		}}
	}
	return p.QuerySpelling(e.id)
}

func matchesAt(input string, pos int, p *prism.Prism, opts Options) []candidateEdge {
	var out []candidateEdge
	for _, m := range p.CommonPrefixSearch(input[pos:]) {
		out = append(out, candidateEdge{id: m.Value, length: m.Length})
	}
	if opts.Corrector != nil {
		for id, m := range opts.Corrector.ToleranceSearch(input[pos:], opts.Tolerance) {
			out = append(out, candidateEdge{id: id, length: m.Length, isCorrection: true})
		}
	}
	return out
}

// pruneBackward walks backward from farthest, dropping vertices not
// connected to it and, on retained edges, per-syllable entries whose
// type exceeds max(vertex_type_at_farthest, Fuzzy) — correction entries
// are exempt. It then applies the ambiguous-joint credibility penalty.
func pruneBackward(g *graph.Graph, farthest int) {
	threshold := g.Vertices[farthest]
	if spelling.Fuzzy > threshold {
		threshold = spelling.Fuzzy
	}

	reachable := map[int]bool{farthest: true}
	for changed := true; changed; {
		changed = false
		for start, byEnd := range g.Edges {
			if reachable[start] {
				continue
			}
			for end := range byEnd {
				if reachable[end] {
					reachable[start] = true
					changed = true
					break
				}
			}
		}
	}

	for pos := range g.Vertices {
		if !reachable[pos] {
			delete(g.Vertices, pos)
		}
	}
	for start, byEnd := range g.Edges {
		if !reachable[start] {
			delete(g.Edges, start)
			continue
		}
		for end, bySyllable := range byEnd {
			if !reachable[end] {
				delete(byEnd, end)
				continue
			}
			for s, props := range bySyllable {
				if !props.IsCorrection && props.Type > threshold {
					delete(bySyllable, s)
				}
			}
			if len(bySyllable) == 0 {
				delete(byEnd, end)
			}
		}
		if len(byEnd) == 0 {
			delete(g.Edges, start)
		}
	}

	applyAmbiguousJointPenalty(g)
}

// applyAmbiguousJointPenalty finds, for every retained edge whose best
// type is better than Abbreviation, any vertex j that offers an
// alternate two-hop path covering the same span and penalizes the
// joint edge's credibility, marking j Ambiguous.
func applyAmbiguousJointPenalty(g *graph.Graph) {
	for start, byEnd := range g.Edges {
		for end, bySyllable := range byEnd {
			best := spelling.Invalid
			for _, props := range bySyllable {
				if props.Type < best {
					best = props.Type
				}
			}
			if best >= spelling.Abbreviation {
				continue
			}
			for j := start + 1; j < end; j++ {
				if !g.HasVertex(j) {
					continue
				}
				if _, ok := g.Edges[start][j]; !ok {
					continue
				}
				jointTargets, ok := g.Edges[j]
				if !ok {
					continue
				}
				joint, ok := jointTargets[end]
				if !ok {
					continue
				}
				for s, props := range joint {
					props.Credibility += math.Log(ambiguousJointPenalty)
					joint[s] = props
				}
				g.Vertices[j] = spelling.Ambiguous
			}
		}
	}
}

// applyCompletion runs ExpandSearch over the unconsumed input tail and
// installs a single completion edge farthest->len(input) for every
// match long enough to cover the remaining input. Returns whether any
// edge was installed.
func applyCompletion(g *graph.Graph, p *prism.Prism, input string, farthest int) bool {
	inputLength := len(input)
	remaining := inputLength - farthest
	installed := false
	for _, m := range p.ExpandSearch(input[farthest:], 512) {
		if m.Length < remaining {
			continue
		}
		for _, sp := range p.QuerySpelling(m.Value) {
			if sp.Type == spelling.Abbreviation {
				continue
			}
			props := sp
			props.Type = spelling.Completion
			props.Credibility += math.Log(completionDemotionFactor)
			props.EndPos = uint32(inputLength)
			g.AddEdge(farthest, inputLength, m.Value, props)
			installed = true
		}
	}
	return installed
}
