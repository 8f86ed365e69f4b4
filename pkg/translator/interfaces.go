// Package translator orchestrates syllabification, dictionary lookup,
// and sentence-making into a ranked candidate stream for one input
// segment.
package translator

import (
	"github.com/rime/rimecore/pkg/dict"
	"github.com/rime/rimecore/pkg/graph"
)

// UserDictionary is the external collaborator spec.md describes: a
// lookup over a syllable graph shaped exactly like dict.Dict.Lookup.
// The editor/session layer that would back a real implementation is
// out of scope here; Core accepts any UserDictionary, defaulting to
// NoUserDictionary.
type UserDictionary interface {
	Lookup(g *graph.Graph, start int, initialCredibility float64) *dict.Collector
}

// NoUserDictionary is the zero-value collaborator: it never has
// entries, letting Core run with phrase-only lookups.
type NoUserDictionary struct{}

func (NoUserDictionary) Lookup(_ *graph.Graph, _ int, _ float64) *dict.Collector {
	return &dict.Collector{Groups: map[int][]dict.ScoredEntry{}}
}

// ConfigProvider models the schema-configuration collaborator
// (Config.Get*(path)) as a set of typed, path-keyed lookups, mirroring
// how the original configuration tree is addressed by dotted/slashed
// path rather than by Go struct field.
type ConfigProvider interface {
	GetBool(path string) (value bool, ok bool)
	GetInt(path string) (value int, ok bool)
	GetDouble(path string) (value float64, ok bool)
	GetString(path string) (value string, ok bool)
}

// Translator models the collaborator spec.md's glossary calls out as
// the Query entry point other engine components invoke per segment.
type Translator interface {
	Query(input string, segmentStart int) []Candidate
}
