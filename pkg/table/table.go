// Package table implements the four-level code trie (head/trunk/tail)
// holding dictionary entries keyed by syllable-id code, and the
// DAG-driven query that walks it over a syllable graph.
package table

import (
	"sort"

	"github.com/rime/rimecore/pkg/graph"
	"github.com/rime/rimecore/pkg/spelling"
)

// Magic and MinVersion are the on-disk envelope constants for table files.
const (
	Magic      = "Rime::Table/"
	MinVersion = "4.0"
)

// Entry is one dictionary record. Weight is a float64 both in memory
// and on disk; Comment holds a pre-rendered annotation. The remaining
// code length of a match is not stored here: pkg/dict computes it at
// query time (dict.ScoredEntry.RemainingCodeLength).
type Entry struct {
	Text       string
	Weight     float64
	Comment    string
	CustomCode string
	Code       spelling.Code
}

// LongEntry is a tail-index record: an entry whose code is longer than
// spelling.IndexCodeMaxLength, with the overflow stored verbatim.
type LongEntry struct {
	ExtraCode spelling.Code
	Entry     Entry
}

// VocabEntry is one (code, entry) pair fed to Build.
type VocabEntry struct {
	Code  spelling.Code
	Entry Entry
}

type node struct {
	entries  []Entry
	tail     []LongEntry
	children map[spelling.SyllableId]*node
}

func newNode() *node {
	return &node{children: make(map[spelling.SyllableId]*node)}
}

// Table is an immutable, built or opened code trie plus syllabary.
type Table struct {
	root         *node
	syllabary    []string
	dictChecksum uint32
}

// Build constructs a Table from a syllabary (id -> canonical string,
// position defines id) and a vocabulary of (code, entry) pairs.
func Build(syllabary []string, vocab []VocabEntry) *Table {
	t := &Table{root: newNode(), syllabary: syllabary}
	for _, v := range vocab {
		t.insert(v.Code, v.Entry)
	}
	return t
}

func (t *Table) insert(code spelling.Code, e Entry) {
	idx := code.IndexPart()
	tail := code.TailPart()
	n := t.root
	for _, s := range idx {
		child, ok := n.children[s]
		if !ok {
			child = newNode()
			n.children[s] = child
		}
		n = child
	}
	if len(tail) == 0 {
		n.entries = append(n.entries, e)
	} else {
		n.tail = append(n.tail, LongEntry{ExtraCode: tail, Entry: e})
	}
}

// Decode resolves each syllable id in code to its canonical string.
func (t *Table) Decode(code spelling.Code) ([]string, bool) {
	out := make([]string, len(code))
	for i, id := range code {
		if int(id) < 0 || int(id) >= len(t.syllabary) {
			return nil, false
		}
		out[i] = t.syllabary[id]
	}
	return out, true
}

// QueryWords returns the single-syllable entries at id (the head
// index's own entries, i.e. depth-1 terminals).
func (t *Table) QueryWords(id spelling.SyllableId) []Entry {
	child, ok := t.root.children[id]
	if !ok {
		return nil
	}
	return child.entries
}

// QueryResult is one group of entries reached by the table walk,
// attached to the graph edge credibility that produced it. Type is the
// worst (per spelling.Type ordering) spelling type among the edges the
// walk crossed to reach this group, so a group reached partly or
// wholly through a spelling.Completion edge carries that type even
// when every other hop on the path was spelling.Normal.
type QueryResult struct {
	Entries     []Entry
	Credibility float64
	Type        spelling.Type
}

// Query walks graph from start through the code trie, returning every
// reached group of entries indexed by ending position.
func (t *Table) Query(g *graph.Graph, start int) map[int][]QueryResult {
	results := make(map[int][]QueryResult)
	t.walk(g, t.root, start, 0, 0, spelling.Normal, results)
	return results
}

func (t *Table) walk(g *graph.Graph, n *node, pos, depth int, credibility float64, typ spelling.Type, results map[int][]QueryResult) {
	for _, s := range g.SyllablesAt(pos) {
		child, ok := n.children[s]
		if !ok {
			continue
		}
		for _, props := range g.SpellingsAt(pos, s) {
			end := int(props.EndPos)
			cred := credibility + props.Credibility
			edgeType := typ
			if props.Type > edgeType {
				edgeType = props.Type
			}

			if len(child.entries) > 0 {
				results[end] = append(results[end], QueryResult{
					Entries:     child.entries,
					Credibility: cred,
					Type:        edgeType,
				})
			}
			for _, le := range child.tail {
				if endPos, tailType, ok := t.matchExtraCode(g, end, le.ExtraCode, edgeType); ok {
					results[endPos] = append(results[endPos], QueryResult{
						Entries:     []Entry{le.Entry},
						Credibility: cred,
						Type:        tailType,
					})
				}
			}
			if depth+1 < spelling.IndexCodeMaxLength && end < g.InterpretedLength {
				t.walk(g, child, end, depth+1, cred, edgeType, results)
			}
		}
	}
}

// matchExtraCode recursively resolves a tail entry's overflow code
// against the remaining graph, requiring each extra syllable to match
// an outgoing edge, and returns the farthest end position reachable —
// the best match among any path that consumes every extra syllable —
// along with the worst spelling type crossed along that path.
func (t *Table) matchExtraCode(g *graph.Graph, pos int, extra spelling.Code, typ spelling.Type) (int, spelling.Type, bool) {
	if len(extra) == 0 {
		return pos, typ, true
	}
	best, bestType, found := -1, typ, false
	for _, props := range g.SpellingsAt(pos, extra[0]) {
		edgeType := typ
		if props.Type > edgeType {
			edgeType = props.Type
		}
		if endPos, resolvedType, ok := t.matchExtraCode(g, int(props.EndPos), extra[1:], edgeType); ok && endPos > best {
			best, bestType, found = endPos, resolvedType, true
		}
	}
	return best, bestType, found
}

// sortedChildren returns a node's children ordered by ascending
// syllable id, the order Save serializes them in so Build output is
// deterministic regardless of map iteration order.
func sortedChildren(n *node) []spelling.SyllableId {
	ids := make([]spelling.SyllableId, 0, len(n.children))
	for id := range n.children {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
