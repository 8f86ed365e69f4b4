package translator

import "github.com/rime/rimecore/pkg/config"

// StaticConfig adapts a *config.Config into the path-keyed
// ConfigProvider collaborator Core queries, for the known translation
// settings spec.md names.
type StaticConfig struct {
	Cfg *config.Config
}

func (s StaticConfig) GetBool(path string) (bool, bool) {
	switch path {
	case "translation/enable_completion":
		return s.Cfg.Translation.EnableCompletion, true
	case "translation/strict_spelling":
		return s.Cfg.Translation.StrictSpelling, true
	case "translation/enable_charset_filter":
		return s.Cfg.Translation.EnableCharsetFilter, true
	case "translation/enable_sentence":
		return s.Cfg.Translation.EnableSentence, true
	case "translation/sentence_over_completion":
		return s.Cfg.Translation.SentenceOverCompletion, true
	}
	return false, false
}

func (s StaticConfig) GetInt(path string) (int, bool) {
	if path == "translation/spelling_hints" {
		return s.Cfg.Translation.SpellingHints, true
	}
	return 0, false
}

func (s StaticConfig) GetDouble(path string) (float64, bool) {
	if path == "translation/initial_quality" {
		return s.Cfg.Translation.InitialQuality, true
	}
	return 0, false
}

func (s StaticConfig) GetString(path string) (string, bool) {
	if path == "translation/delimiters" {
		return s.Cfg.Translation.Delimiters, true
	}
	return "", false
}
