package spelling

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeIndexAndTailParts(t *testing.T) {
	short := Code{1, 2}
	require.Equal(t, Code{1, 2}, short.IndexPart())
	require.Nil(t, short.TailPart())

	long := Code{1, 2, 3, 4, 5}
	require.Equal(t, Code{1, 2, 3}, long.IndexPart())
	require.Equal(t, Code{4, 5}, long.TailPart())
}

func TestComposeAccumulatesAndNeverImproves(t *testing.T) {
	base := Properties{Type: Normal, Credibility: -1}
	out := base.Compose(Properties{Type: Fuzzy, Credibility: -2})
	require.Equal(t, Fuzzy, out.Type)
	require.Equal(t, -3.0, out.Credibility)

	out2 := out.Compose(Properties{Type: Normal, Credibility: -1})
	require.Equal(t, Fuzzy, out2.Type, "composing a better type never downgrades the accumulated type")
}

func TestComposeStickyCorrectionAndTipsOverride(t *testing.T) {
	base := Properties{IsCorrection: true, Tips: "orig"}
	out := base.Compose(Properties{IsCorrection: false})
	require.True(t, out.IsCorrection)
	require.Equal(t, "orig", out.Tips)

	out2 := base.Compose(Properties{Tips: "new"})
	require.Equal(t, "new", out2.Tips)
}

func TestUpdatePrefersBetterType(t *testing.T) {
	existing := Properties{Type: Fuzzy, Credibility: -5, IsCorrection: true}
	candidate := Properties{Type: Normal, Credibility: -10, IsCorrection: false}

	out := Update(existing, candidate)
	require.Equal(t, Normal, out.Type)
	require.False(t, out.IsCorrection)
	require.Equal(t, -5.0, out.Credibility, "credibility keeps the larger (less negative) of the two")
}

func TestUpdateTiedTypeAndsCorrectionFlags(t *testing.T) {
	existing := Properties{Type: Normal, Credibility: -1, IsCorrection: true}
	candidate := Properties{Type: Normal, Credibility: -2, IsCorrection: false}

	out := Update(existing, candidate)
	require.False(t, out.IsCorrection)
	require.Equal(t, -1.0, out.Credibility)
}

func TestUpdateDropsTips(t *testing.T) {
	existing := Properties{Tips: "a"}
	candidate := Properties{Tips: "b"}
	out := Update(existing, candidate)
	require.Equal(t, "", out.Tips)
}
