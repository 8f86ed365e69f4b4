// Package poet implements the sentence maker: a Viterbi recursion over
// a word graph that finds the highest-weighted entry composition
// spanning the full interpreted input.
package poet

import (
	"sort"
	"strings"

	"github.com/rime/rimecore/pkg/table"
)

// Candidate is one dictionary entry available on a word-graph edge.
type Candidate struct {
	Entry  table.Entry
	Weight float64
}

// WordGraph maps start position -> end position -> the candidates
// available on that edge.
type WordGraph map[int]map[int][]Candidate

// Sentence is a linked list of entries, most recent first via Prev,
// with the cumulative weight of the path ending here.
type Sentence struct {
	Prev   *Sentence
	Entry  table.Entry
	Start  int
	End    int
	Weight float64
}

// Entries returns the sentence's entries in input order (start to end).
func (s *Sentence) Entries() []table.Entry {
	var rev []table.Entry
	for n := s; n != nil && n.Entry.Text != ""; n = n.Prev {
		rev = append(rev, n.Entry)
	}
	out := make([]table.Entry, len(rev))
	for i, e := range rev {
		out[len(rev)-1-i] = e
	}
	return out
}

// Preedit renders input's syllable spans joined by delimiter, one
// segment per entry in the sentence.
func (s *Sentence) Preedit(input string, delimiter byte) string {
	var spans []string
	var walk []*Sentence
	for n := s; n != nil && n.Entry.Text != ""; n = n.Prev {
		walk = append(walk, n)
		if n.Prev == nil {
			break
		}
	}
	for i := len(walk) - 1; i >= 0; i-- {
		n := walk[i]
		if n.Start < 0 || n.End > len(input) || n.Start > n.End {
			continue
		}
		spans = append(spans, input[n.Start:n.End])
	}
	return strings.Join(spans, string(delimiter))
}

// MakeSentence runs the Viterbi recursion over wg, returning the
// best-weighted sentence ending at interpretedLength, if any path
// reaches it.
func MakeSentence(wg WordGraph, interpretedLength int) (*Sentence, bool) {
	best := map[int]*Sentence{0: {Weight: 0}}

	starts := make([]int, 0, len(wg))
	for start := range wg {
		starts = append(starts, start)
	}
	sort.Ints(starts)

	for _, start := range starts {
		cur, ok := best[start]
		if !ok {
			continue
		}
		ends := make([]int, 0, len(wg[start]))
		for end := range wg[start] {
			ends = append(ends, end)
		}
		sort.Ints(ends)

		for _, end := range ends {
			for _, cand := range wg[start][end] {
				newWeight := cur.Weight + cand.Weight
				if existing, ok := best[end]; !ok || newWeight > existing.Weight {
					best[end] = &Sentence{
						Prev:   cur,
						Entry:  cand.Entry,
						Start:  start,
						End:    end,
						Weight: newWeight,
					}
				}
			}
		}
	}

	s, ok := best[interpretedLength]
	if !ok || s.Entry.Text == "" {
		return nil, false
	}
	return s, true
}
