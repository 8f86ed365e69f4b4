// Package dict composes a prism and one or more tables into the
// dictionary facade consumed by the translator: Lookup over a
// syllable graph, predictive word lookup, and code decoding.
package dict

import (
	"math"
	"sort"

	"github.com/rime/rimecore/pkg/graph"
	"github.com/rime/rimecore/pkg/prism"
	"github.com/rime/rimecore/pkg/spelling"
	"github.com/rime/rimecore/pkg/table"
)

// weightNormalization is subtracted (in log domain) from every raw
// table weight before chunk credibility is added, per the entry
// scoring rule.
const weightNormalization = 1e8

func normalizeWeight(w float64) float64 {
	return w - math.Log(weightNormalization)
}

// ScoredEntry is one dictionary hit with its accumulated path
// credibility and a RemainingCodeLength that is 0 for exact matches.
// For LookupWords' predictive matches it is the length of syllable
// string past the queried prefix; Lookup sets it to the input span
// (end - start) of a group reached through a completion edge, so there
// it marks completions without measuring the unconsumed syllable.
type ScoredEntry struct {
	Entry               table.Entry
	Credibility         float64
	RemainingCodeLength int
}

// Score is the ranking key the partial-sort invariant is defined over:
// remaining code length ascending, then credibility+weight descending.
func (s ScoredEntry) Score() float64 {
	return s.Credibility + normalizeWeight(s.Entry.Weight)
}

// Collector holds Lookup's result: entries grouped by ending position,
// each group already sorted per the partial-sort invariant.
type Collector struct {
	Groups map[int][]ScoredEntry
}

// Dict composes one prism and one or more tables (a primary plus
// optional packs).
type Dict struct {
	Prism  *prism.Prism
	Tables []*table.Table
}

// New returns a Dict over prism p with primary as its first table.
func New(p *prism.Prism, primary *table.Table) *Dict {
	return &Dict{Prism: p, Tables: []*table.Table{primary}}
}

// AddPack appends an additional table consulted alongside the primary.
func (d *Dict) AddPack(t *table.Table) {
	d.Tables = append(d.Tables, t)
}

// Lookup runs Query on every table and groups the resulting chunks by
// ending position, each group sorted by the partial-sort invariant.
func (d *Dict) Lookup(g *graph.Graph, start int, initialCredibility float64) *Collector {
	c := &Collector{Groups: make(map[int][]ScoredEntry)}
	for _, tbl := range d.Tables {
		for end, group := range tbl.Query(g, start) {
			for _, r := range group {
				remaining := 0
				if r.Type == spelling.Completion {
					remaining = end - start
				}
				for _, e := range r.Entries {
					c.Groups[end] = append(c.Groups[end], ScoredEntry{
						Entry:               e,
						Credibility:         initialCredibility + r.Credibility,
						RemainingCodeLength: remaining,
					})
				}
			}
		}
	}
	for end := range c.Groups {
		sortByInvariant(c.Groups[end])
	}
	return c
}

func sortByInvariant(entries []ScoredEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].RemainingCodeLength != entries[j].RemainingCodeLength {
			return entries[i].RemainingCodeLength < entries[j].RemainingCodeLength
		}
		return entries[i].Score() > entries[j].Score()
	})
}

// LookupWords resolves prefix via the prism — exactly if predictive is
// false, by ExpandSearch bounded to limit if true — then collects each
// matched syllable's word entries across every table.
func (d *Dict) LookupWords(prefix string, predictive bool, limit int) []ScoredEntry {
	var out []ScoredEntry
	if predictive {
		for _, m := range d.Prism.ExpandSearch(prefix, limit) {
			remaining := m.Length - len(prefix)
			for _, tbl := range d.Tables {
				for _, e := range tbl.QueryWords(m.Value) {
					out = append(out, ScoredEntry{Entry: e, RemainingCodeLength: remaining})
				}
			}
		}
	} else {
		id, ok := d.Prism.GetValue(prefix)
		if !ok {
			return nil
		}
		for _, tbl := range d.Tables {
			for _, e := range tbl.QueryWords(id) {
				out = append(out, ScoredEntry{Entry: e})
			}
		}
	}
	sortByInvariant(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Decode resolves code against the primary table's syllabary.
func (d *Dict) Decode(code spelling.Code) ([]string, bool) {
	if len(d.Tables) == 0 {
		return nil, false
	}
	return d.Tables[0].Decode(code)
}
