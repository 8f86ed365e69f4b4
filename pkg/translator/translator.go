package translator

import (
	"math"
	"sort"

	"github.com/rime/rimecore/pkg/corrector"
	"github.com/rime/rimecore/pkg/dict"
	"github.com/rime/rimecore/pkg/graph"
	"github.com/rime/rimecore/pkg/poet"
	"github.com/rime/rimecore/pkg/prism"
	"github.com/rime/rimecore/pkg/spelling"
	"github.com/rime/rimecore/pkg/syllabifier"
	"github.com/rime/rimecore/pkg/table"
)

// kPenaltyForAmbiguousSyllable is applied to a word-graph lookup
// starting from an ambiguous joint, same constant as the syllabifier's
// own ambiguous-joint penalty.
var kPenaltyForAmbiguousSyllable = math.Log(1e-10)

// Candidate is one emitted translation result.
type Candidate struct {
	Type    string // "phrase", "completion", or "sentence"
	Start   int
	End     int
	Entry   table.Entry
	Preedit string
	Comment string
	Quality float64
}

// Core is the concrete Translator: syllabify, look up phrase and user
// candidates, fall back to a sentence when coverage is incomplete, and
// interleave the two candidate streams.
type Core struct {
	Prism     *prism.Prism
	Dict      *dict.Dict
	User      UserDictionary
	Corrector *corrector.Corrector
	Config    ConfigProvider
}

// New returns a Core with no user dictionary attached.
func New(p *prism.Prism, d *dict.Dict, cfg ConfigProvider) *Core {
	return &Core{Prism: p, Dict: d, User: NoUserDictionary{}, Config: cfg}
}

func (c *Core) getBool(path string, def bool) bool {
	if v, ok := c.Config.GetBool(path); ok {
		return v
	}
	return def
}

func (c *Core) getDouble(path string, def float64) float64 {
	if v, ok := c.Config.GetDouble(path); ok {
		return v
	}
	return def
}

func (c *Core) getString(path string, def string) string {
	if v, ok := c.Config.GetString(path); ok {
		return v
	}
	return def
}

// Query runs the five-step translation algorithm over input, treated
// as starting at segmentStart in the caller's coordinate space.
func (c *Core) Query(input string, segmentStart int) []Candidate {
	opts := syllabifier.Options{
		Delimiters:       c.getString("translation/delimiters", " '"),
		EnableCompletion: c.getBool("translation/enable_completion", true),
		StrictSpelling:   c.getBool("translation/strict_spelling", false),
		Corrector:        c.Corrector,
	}
	g := syllabifier.Build(input, c.Prism, opts)

	phrase := c.Dict.Lookup(g, 0, 0)
	userPhrase := c.userLookup(g, 0, 0)

	if len(phrase.Groups) == 0 && len(userPhrase.Groups) == 0 {
		return nil
	}

	translatedLen := maxKey(phrase.Groups)
	if u := maxKey(userPhrase.Groups); u > translatedLen {
		translatedLen = u
	}

	var sentence *poet.Sentence
	if c.getBool("translation/enable_sentence", true) &&
		translatedLen < g.InterpretedLength && len(g.Vertices) >= 2 {
		wg := c.buildWordGraph(g)
		sentence, _ = poet.MakeSentence(wg, g.InterpretedLength)
	}

	initialQuality := c.getDouble("translation/initial_quality", 0)
	sentenceOverCompletion := c.getBool("translation/sentence_over_completion", true)

	var out []Candidate
	if sentence != nil {
		out = append(out, c.sentenceCandidate(sentence, input, segmentStart, initialQuality))
	}

	userList := flatten(userPhrase.Groups)
	phraseList := flatten(phrase.Groups)

	out = append(out, c.interleave(userList, phraseList, input, segmentStart, initialQuality,
		sentence != nil && sentenceOverCompletion)...)
	return out
}

func (c *Core) userLookup(g *graph.Graph, start int, initialCredibility float64) *dict.Collector {
	if c.User == nil {
		return &dict.Collector{Groups: map[int][]dict.ScoredEntry{}}
	}
	return c.User.Lookup(g, start, initialCredibility)
}

// buildWordGraph unions, for every reachable start position, the
// phrase and user lookups into a poet.WordGraph, applying the
// ambiguous-joint penalty when a start is itself an ambiguous vertex.
func (c *Core) buildWordGraph(g *graph.Graph) poet.WordGraph {
	wg := make(poet.WordGraph)
	for start := range g.Edges {
		credibility := 0.0
		if g.Vertices[start] == spelling.Ambiguous {
			credibility = kPenaltyForAmbiguousSyllable
		}
		for end, list := range c.Dict.Lookup(g, start, credibility).Groups {
			for _, se := range list {
				addWordGraphCandidate(wg, start, end, se)
			}
		}
		for end, list := range c.userLookup(g, start, credibility).Groups {
			for _, se := range list {
				addWordGraphCandidate(wg, start, end, se)
			}
		}
	}
	return wg
}

func addWordGraphCandidate(wg poet.WordGraph, start, end int, se dict.ScoredEntry) {
	if wg[start] == nil {
		wg[start] = make(map[int][]poet.Candidate)
	}
	wg[start][end] = append(wg[start][end], poet.Candidate{
		Entry:  se.Entry,
		Weight: se.Credibility + se.Entry.Weight,
	})
}

func maxKey(groups map[int][]dict.ScoredEntry) int {
	max := 0
	for k := range groups {
		if k > max {
			max = k
		}
	}
	return max
}

type entryAtEnd struct {
	end   int
	entry dict.ScoredEntry
}

// flatten orders a Collector's groups by descending end position
// (longer matches first), keeping each group's internal partial-sort
// order from dict.Lookup.
func flatten(groups map[int][]dict.ScoredEntry) []entryAtEnd {
	ends := make([]int, 0, len(groups))
	for e := range groups {
		ends = append(ends, e)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ends)))
	var out []entryAtEnd
	for _, e := range ends {
		for _, se := range groups[e] {
			out = append(out, entryAtEnd{end: e, entry: se})
		}
	}
	return out
}

// interleave merges the user and phrase streams by descending matched
// length, preferring user on ties except when the user entry still
// has unconsumed code but the phrase entry is exact. completion
// candidates are dropped when a full-coverage sentence already covers
// the segment and sentence_over_completion is set.
func (c *Core) interleave(user, phrase []entryAtEnd, input string, segmentStart int,
	initialQuality float64, dropCompletion bool) []Candidate {
	var out []Candidate
	i, j := 0, 0
	for i < len(user) || j < len(phrase) {
		takeUser := false
		switch {
		case i >= len(user):
			takeUser = false
		case j >= len(phrase):
			takeUser = true
		case user[i].end != phrase[j].end:
			takeUser = user[i].end > phrase[j].end
		default:
			takeUser = !(user[i].entry.RemainingCodeLength > 0 && phrase[j].entry.RemainingCodeLength == 0)
		}

		var item entryAtEnd
		isUser := takeUser
		if takeUser {
			item = user[i]
			i++
		} else {
			item = phrase[j]
			j++
		}

		typ := "phrase"
		if item.entry.RemainingCodeLength > 0 {
			typ = "completion"
		}
		if typ == "completion" && dropCompletion {
			continue
		}

		out = append(out, c.phraseCandidate(typ, item.end, item.entry, input, segmentStart, initialQuality, isUser))
	}
	return out
}

func (c *Core) phraseCandidate(typ string, end int, se dict.ScoredEntry, input string, segmentStart int,
	initialQuality float64, user bool) Candidate {
	quality := se.Entry.Weight + initialQuality
	if se.Credibility != 0 {
		quality -= 1
	}
	if user {
		quality += 0.5
	}
	preeditEnd := end
	if preeditEnd > len(input) {
		preeditEnd = len(input)
	}
	return Candidate{
		Type:    typ,
		Start:   segmentStart,
		End:     segmentStart + end,
		Entry:   se.Entry,
		Preedit: input[:preeditEnd],
		Comment: se.Entry.Comment,
		Quality: quality,
	}
}

func (c *Core) sentenceCandidate(s *poet.Sentence, input string, segmentStart int, initialQuality float64) Candidate {
	entries := s.Entries()
	var text string
	for _, e := range entries {
		text += e.Text
	}
	delim := byte(' ')
	if d := c.getString("translation/delimiters", " '"); d != "" {
		delim = d[0]
	}
	return Candidate{
		Type:    "sentence",
		Start:   segmentStart,
		End:     segmentStart + len(input),
		Entry:   table.Entry{Text: text, Weight: s.Weight},
		Preedit: s.Preedit(input, delim),
		Quality: s.Weight + initialQuality,
	}
}
