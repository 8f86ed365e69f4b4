// Package spelling defines the value types shared by every layer of the
// conversion core: syllable identifiers, codes, spelling types, and the
// composition/update algebra that combines spelling properties as a
// syllable graph and table query accumulate them.
package spelling

import "fmt"

// SyllableId names a canonical syllable. EndOfCode is reserved as a
// trie key meaning "end of code / word boundary".
type SyllableId int32

// EndOfCode marks the end of a code when used as a trie key.
const EndOfCode SyllableId = -1

// IndexCodeMaxLength is the number of leading code positions the table
// indexes directly (K in the design notes); positions beyond this are
// stored verbatim in the tail array.
const IndexCodeMaxLength = 3

// Code is an ordered sequence of syllable ids identifying a phrase.
type Code []SyllableId

// IndexPart returns the leading (up to IndexCodeMaxLength) syllables of
// the code, the portion the table's head/trunk index is keyed on.
func (c Code) IndexPart() Code {
	if len(c) <= IndexCodeMaxLength {
		return c
	}
	return c[:IndexCodeMaxLength]
}

// TailPart returns the syllables beyond IndexCodeMaxLength, stored
// verbatim in the tail array. Empty if the code fits in the index.
func (c Code) TailPart() Code {
	if len(c) <= IndexCodeMaxLength {
		return nil
	}
	return c[IndexCodeMaxLength:]
}

// Type is a totally ordered spelling quality. Smaller is better.
type Type int

const (
	Normal Type = iota
	Fuzzy
	Abbreviation
	Completion
	Ambiguous
	Invalid
)

func (t Type) String() string {
	switch t {
	case Normal:
		return "normal"
	case Fuzzy:
		return "fuzzy"
	case Abbreviation:
		return "abbreviation"
	case Completion:
		return "completion"
	case Ambiguous:
		return "ambiguous"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Properties are the metadata a syllable graph edge or a prism terminal
// carries about one spelling of a syllable.
type Properties struct {
	Type         Type
	EndPos       uint32
	Credibility  float64 // log-domain, always <= 0
	Tips         string
	IsCorrection bool
}

// Compose applies delta on top of p, the algebra spec.md calls
// "composition": the resulting type is never better than either input,
// credibility accumulates additively, the correction flag is sticky,
// and a non-empty delta tip overrides.
func (p Properties) Compose(delta Properties) Properties {
	out := p
	if delta.Type > out.Type {
		out.Type = delta.Type
	}
	out.Credibility += delta.Credibility
	out.IsCorrection = out.IsCorrection || delta.IsCorrection
	if delta.Tips != "" {
		out.Tips = delta.Tips
	}
	return out
}

// Update merges two alternative spellings of the same syllable found on
// the same graph edge: the better (smaller) type wins; ties AND the
// correction flags; the larger (less negative) credibility always
// wins; tips are dropped since there is no single "right" alternative
// to attribute them to anymore.
func Update(existing, candidate Properties) Properties {
	out := existing
	switch {
	case candidate.Type < existing.Type:
		out.Type = candidate.Type
		out.IsCorrection = candidate.IsCorrection
	case candidate.Type == existing.Type:
		out.IsCorrection = existing.IsCorrection && candidate.IsCorrection
	}
	if candidate.Credibility > existing.Credibility {
		out.Credibility = candidate.Credibility
	}
	out.Tips = ""
	if candidate.EndPos != 0 {
		out.EndPos = candidate.EndPos
	}
	return out
}
