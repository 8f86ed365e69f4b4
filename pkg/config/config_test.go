package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitConfigCreatesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rime.config.yaml")
	cfg, err := InitConfig(path)
	require.NoError(t, err)
	require.Equal(t, " '", cfg.Translation.Delimiters)
	require.True(t, cfg.Translation.EnableCompletion)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Translation, loaded.Translation)
}

func TestUpdatePersistsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rime.config.yaml")
	cfg, err := InitConfig(path)
	require.NoError(t, err)

	strict := true
	quality := 2.5
	require.NoError(t, cfg.Update(path, nil, &strict, nil, &quality))

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	require.True(t, reloaded.Translation.StrictSpelling)
	require.Equal(t, 2.5, reloaded.Translation.InitialQuality)
}

func TestCompileAndApplyFormatter(t *testing.T) {
	cf, err := Compile([]FormatRule{
		{Pattern: "o", Replacement: "0"},
	})
	require.NoError(t, err)

	out, err := cf.Apply("foo")
	require.NoError(t, err)
	require.Equal(t, "f00", out)
}
