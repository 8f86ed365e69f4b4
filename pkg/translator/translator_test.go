package translator

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/rime/rimecore/pkg/config"
	"github.com/rime/rimecore/pkg/dict"
	"github.com/rime/rimecore/pkg/prism"
	"github.com/rime/rimecore/pkg/spelling"
	"github.com/rime/rimecore/pkg/table"
)

func normal() spelling.Properties {
	return spelling.Properties{Type: spelling.Normal}
}

func buildCore(t *testing.T) *Core {
	t.Helper()
	p, err := prism.Build([]prism.SpellingEntry{
		{Key: "zhong", Id: 0, Props: normal()},
		{Key: "guo", Id: 1, Props: normal()},
	})
	require.NoError(t, err)

	tbl := table.Build([]string{"zhong", "guo"}, []table.VocabEntry{
		{Code: spelling.Code{0}, Entry: table.Entry{Text: "中", Weight: 10.0, Code: spelling.Code{0}}},
		{Code: spelling.Code{1}, Entry: table.Entry{Text: "国", Weight: 8.0, Code: spelling.Code{1}}},
		{Code: spelling.Code{0, 1}, Entry: table.Entry{Text: "中国", Weight: 20.0, Code: spelling.Code{0, 1}}},
	})

	d := dict.New(p, tbl)
	cfg := StaticConfig{Cfg: config.DefaultConfig()}
	return New(p, d, cfg)
}

func TestQueryReturnsWholeWordCandidate(t *testing.T) {
	c := buildCore(t)
	candidates := c.Query("zhongguo", 0)
	require.NotEmpty(t, candidates)

	var sawWhole bool
	for _, cand := range candidates {
		if cand.Entry.Text == "中国" {
			sawWhole = true
			require.Equal(t, "phrase", cand.Type)
			require.Equal(t, 8, cand.End)
		}
	}
	require.True(t, sawWhole)
}

func TestQueryUnmatchedInputReturnsNil(t *testing.T) {
	c := buildCore(t)
	candidates := c.Query("xyz", 0)
	require.Nil(t, candidates)
}

func TestQueryMarksPredictiveMatchAsCompletion(t *testing.T) {
	c := buildCore(t)
	candidates := c.Query("zh", 0)
	require.NotEmpty(t, candidates)

	var sawCompletion bool
	for _, cand := range candidates {
		if cand.Type == "completion" {
			sawCompletion = true
			require.Equal(t, "中", cand.Entry.Text)
		}
	}
	require.True(t, sawCompletion, "a predictive match for an incomplete syllable should surface as a completion candidate")
}

func TestIPCRoundTrip(t *testing.T) {
	c := buildCore(t)
	candidates := c.Query("zhongguo", 0)
	require.NotEmpty(t, candidates)

	var buf bytes.Buffer
	require.NoError(t, EncodeCandidates(&buf, "req-1", candidates))

	var resp Response
	require.NoError(t, msgpack.Unmarshal(buf.Bytes(), &resp))
	require.Equal(t, "req-1", resp.Id)
	require.Len(t, resp.Candidates, len(candidates))
}
