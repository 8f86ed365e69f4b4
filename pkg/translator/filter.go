package translator

import (
	"fmt"
	"unicode"

	"github.com/tchap/go-patricia/v2/patricia"
)

// CharsetPredicate reports whether r belongs to the permitted output
// charset. A nil predicate behaves as an accept-all filter.
type CharsetPredicate func(r rune) bool

// Han restricts output to CJK ideographs and ASCII characters below
// U+007F (letters, digits and punctuation alike), a reasonable default
// predicate for a Chinese input method core.
func Han(r rune) bool {
	return unicode.Is(unicode.Han, r) || r < unicode.MaxASCII
}

// CharsetFilter drops candidates whose entry text contains a rune
// failing predicate.
type CharsetFilter struct {
	Predicate CharsetPredicate
}

func NewCharsetFilter(predicate CharsetPredicate) *CharsetFilter {
	return &CharsetFilter{Predicate: predicate}
}

func (f *CharsetFilter) Apply(candidates []Candidate) []Candidate {
	if f.Predicate == nil {
		return candidates
	}
	out := candidates[:0:0]
	for _, c := range candidates {
		if allRunesPass(c.Entry.Text, f.Predicate) {
			out = append(out, c)
		}
	}
	return out
}

func allRunesPass(s string, predicate CharsetPredicate) bool {
	for _, r := range s {
		if !predicate(r) {
			return false
		}
	}
	return true
}

// dedupKey encodes a candidate's (text, start, end) span, per spec.md's
// dedup key, as a patricia.Prefix so the seen-set can be kept in a
// prefix trie rather than a plain map.
func dedupKey(c Candidate) patricia.Prefix {
	return patricia.Prefix(fmt.Sprintf("%d\x00%d\x00%s", c.Start, c.End, c.Entry.Text))
}

// DistinctFilter deduplicates candidates by (text, start, end) with a
// bounded, LRU-evicted seen-set kept in a patricia.Trie keyed on the
// encoded span, the same bounded-trie-plus-monotonic-access-counter
// eviction discipline as the teacher's HotCache, here repurposed from
// caching hot completions to bounding dedup memory across a long
// candidate stream instead.
type DistinctFilter struct {
	seen        *patricia.Trie
	entries     int
	accessCount int64
	maxEntries  int
}

func NewDistinctFilter(maxEntries int) *DistinctFilter {
	return &DistinctFilter{
		seen:       patricia.NewTrie(),
		maxEntries: maxEntries,
	}
}

func (f *DistinctFilter) Apply(candidates []Candidate) []Candidate {
	out := candidates[:0:0]
	for _, c := range candidates {
		key := dedupKey(c)
		if f.seen.Get(key) != nil {
			continue
		}
		if f.entries >= f.maxEntries {
			f.evictLRU()
		}
		f.accessCount++
		f.seen.Insert(key, f.accessCount)
		f.entries++
		out = append(out, c)
	}
	return out
}

func (f *DistinctFilter) evictLRU() {
	var oldestKey patricia.Prefix
	oldestTime := int64(-1)
	f.seen.Visit(func(prefix patricia.Prefix, item patricia.Item) error {
		if t := item.(int64); oldestTime == -1 || t < oldestTime {
			oldestTime = t
			oldestKey = append(patricia.Prefix(nil), prefix...)
		}
		return nil
	})
	if oldestTime != -1 {
		f.seen.Delete(oldestKey)
		f.entries--
	}
}
