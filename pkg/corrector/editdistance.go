package corrector

import (
	"github.com/rime/rimecore/pkg/prism"
	"github.com/rime/rimecore/pkg/spelling"
)

// EditDistanceCorrector is the deletion-variant near-search described
// as an optional, disabled-by-default path: it queries a secondary
// prism built over deletion-variants of the syllabary (every syllable
// with one character removed, for sub-linear near-search) rather than
// running a BFS over the primary prism. Nothing in pkg/translator's
// default wiring constructs one; it exists for callers that want to
// opt into the secondary-prism strategy explicitly.
type EditDistanceCorrector struct {
	deletions *prism.Prism
}

// BuildEditDistance wraps a prism already compiled over
// deletion-variant keys. The caller is responsible for building that
// prism (pkg/compiler does not do this by default).
func BuildEditDistance(deletionVariantPrism *prism.Prism) *EditDistanceCorrector {
	return &EditDistanceCorrector{deletions: deletionVariantPrism}
}

// Correct looks up input directly against the deletion-variant prism:
// a hit means input is one deletion away from some syllable key.
func (e *EditDistanceCorrector) Correct(input string) (spelling.SyllableId, bool) {
	return e.deletions.GetValue(input)
}
