// Package corrector implements a tolerance-bounded near-search over a
// prism, correcting typos against a US-QWERTY keyboard-adjacency cost
// model. Scoring texture (bonus/penalty shape, single forward scan per
// candidate) is adapted from a flat fuzzy-matcher scan into a BFS over
// trie states.
package corrector

import (
	"github.com/rime/rimecore/pkg/prism"
	"github.com/rime/rimecore/pkg/spelling"
)

// Match is one correction: reaching Value at Distance after consuming
// Length bytes of the searched input.
type Match struct {
	Value    spelling.SyllableId
	Distance int
	Length   int
}

// qwertyRows defines adjacency on the US-QWERTY lower row plus the two
// rows above it, used to score a substitution as "keyboard-adjacent"
// (cost 1) versus an arbitrary substitution (cost 2).
var qwertyRows = []string{
	"qwertyuiop",
	"asdfghjkl",
	"zxcvbnm",
}

var adjacency = buildAdjacency()

func buildAdjacency() map[byte]map[byte]bool {
	m := make(map[byte]map[byte]bool)
	add := func(a, b byte) {
		if m[a] == nil {
			m[a] = make(map[byte]bool)
		}
		m[a][b] = true
	}
	for _, row := range qwertyRows {
		for i := 0; i < len(row); i++ {
			if i > 0 {
				add(row[i], row[i-1])
				add(row[i-1], row[i])
			}
		}
	}
	for r := 0; r+1 < len(qwertyRows); r++ {
		top, bottom := qwertyRows[r], qwertyRows[r+1]
		for i := 0; i < len(top) && i < len(bottom); i++ {
			add(top[i], bottom[i])
			add(bottom[i], top[i])
		}
	}
	return m
}

func isAdjacent(a, b byte) bool {
	return adjacency[a] != nil && adjacency[a][b]
}

const alphabetLowercase = "abcdefghijklmnopqrstuvwxyz"

// Corrector runs ToleranceSearch over an opened prism.
type Corrector struct {
	prism *prism.Prism
}

// New wraps p for tolerance-bounded correction.
func New(p *prism.Prism) *Corrector {
	return &Corrector{prism: p}
}

type state struct {
	node     int32
	idx      int
	distance int
}

// ToleranceSearch returns the best (lowest-distance) match reaching
// each syllable id within tolerance of input, scanning substitutions,
// deletions, insertions, and adjacent transpositions per the edit-cost
// model: exact match costs 0, a keyboard-adjacent substitution costs 1,
// any other substitution, deletion, or insertion costs 2, and swapping
// two adjacent input bytes costs 2.
func (c *Corrector) ToleranceSearch(input string, tolerance int) map[spelling.SyllableId]Match {
	best := make(map[spelling.SyllableId]Match)
	seen := make(map[state]bool)
	queue := []state{{node: c.prism.Root(), idx: 0, distance: 0}}

	record := func(id spelling.SyllableId, distance, length int) {
		cur, ok := best[id]
		if !ok || distance < cur.Distance {
			best[id] = Match{Value: id, Distance: distance, Length: length}
		}
	}

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if seen[s] {
			continue
		}
		seen[s] = true

		if id, ok := c.prism.TerminalAt(s.node); ok && s.idx > 0 {
			record(id, s.distance, s.idx)
		}
		if s.idx >= len(input) || s.distance > tolerance {
			continue
		}
		ch := input[s.idx]

		if next, ok := c.prism.Step(s.node, ch); ok {
			queue = append(queue, state{node: next, idx: s.idx + 1, distance: s.distance})
		}

		if s.distance+1 <= tolerance {
			for adj := range adjacency[ch] {
				if adj == ch {
					continue
				}
				if next, ok := c.prism.Step(s.node, adj); ok {
					queue = append(queue, state{node: next, idx: s.idx + 1, distance: s.distance + 1})
				}
			}
		}

		if s.distance+2 <= tolerance {
			// Generic substitution: any lowercase byte not already
			// covered as exact or keyboard-adjacent.
			for i := 0; i < len(alphabetLowercase); i++ {
				sub := alphabetLowercase[i]
				if sub == ch || isAdjacent(ch, sub) {
					continue
				}
				if next, ok := c.prism.Step(s.node, sub); ok {
					queue = append(queue, state{node: next, idx: s.idx + 1, distance: s.distance + 2})
				}
			}
			// Deletion: skip this input byte without consuming a trie edge.
			queue = append(queue, state{node: s.node, idx: s.idx + 1, distance: s.distance + 2})

			// Insertion: advance a trie edge without consuming an input
			// byte, for a code the typed text dropped a letter from.
			// Only explored while input remains, so a drop in the last
			// letter or two of a code (input exhausted) isn't corrected.
			for i := 0; i < len(alphabetLowercase); i++ {
				ins := alphabetLowercase[i]
				if next, ok := c.prism.Step(s.node, ins); ok {
					queue = append(queue, state{node: next, idx: s.idx, distance: s.distance + 2})
				}
			}

			// Adjacent transposition.
			if s.idx+1 < len(input) {
				swapped := input[s.idx+1]
				if next, ok := c.prism.Step(s.node, swapped); ok {
					if next2, ok := c.prism.Step(next, ch); ok {
						queue = append(queue, state{node: next2, idx: s.idx + 2, distance: s.distance + 2})
					}
				}
			}
		}
	}
	return best
}
