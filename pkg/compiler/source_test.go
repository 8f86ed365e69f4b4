package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSourceWithHeader(t *testing.T) {
	text := strings.Join([]string{
		"---",
		"name: test_dict",
		"version: \"1.0\"",
		"...",
		"# a comment",
		"",
		"中\tzhong\t10",
		"国\tguo\t8",
		"中国\tzhong guo\t20",
	}, "\n")

	src, err := ParseSource(strings.NewReader(text))
	require.NoError(t, err)
	require.Equal(t, "test_dict", src.Header.Name)
	require.Len(t, src.Rows, 3)
	require.Equal(t, []string{"zhong", "guo"}, src.Rows[2].Code)
	require.Equal(t, 20.0, src.Rows[2].Weight)
}

func TestParseSourceWithoutHeader(t *testing.T) {
	text := "中\tzhong\n国\tguo\n"
	src, err := ParseSource(strings.NewReader(text))
	require.NoError(t, err)
	require.Equal(t, "", src.Header.Name)
	require.Len(t, src.Rows, 2)
	require.Equal(t, 0.0, src.Rows[0].Weight)
}

func TestParseSourceMalformedRow(t *testing.T) {
	_, err := ParseSource(strings.NewReader("onlytext\n"))
	require.Error(t, err)
}
