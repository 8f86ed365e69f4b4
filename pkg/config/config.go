/*
Package config manages the YAML-backed schema configuration consumed
by pkg/translator and pkg/syllabifier: delimiters, fuzzy/completion
toggles, quality weights, and preedit/comment formatting rules.

InitConfig handles automatic config file creation and loading with
fallback to defaults. LoadConfig and SaveConfig provide direct access
for runtime changes. Update allows targeted parameter changes with
persistence.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/dlclark/regexp2"
	"gopkg.in/yaml.v3"
)

// Config holds the entire schema configuration.
type Config struct {
	Translation TranslationConfig `yaml:"translation"`
	Format      FormatConfig      `yaml:"format"`
}

// TranslationConfig controls syllabification and candidate generation.
type TranslationConfig struct {
	Delimiters             string  `yaml:"delimiters"`
	EnableCompletion       bool    `yaml:"enable_completion"`
	StrictSpelling         bool    `yaml:"strict_spelling"`
	SpellingHints          int     `yaml:"spelling_hints"`
	EnableCharsetFilter    bool    `yaml:"enable_charset_filter"`
	EnableSentence         bool    `yaml:"enable_sentence"`
	SentenceOverCompletion bool    `yaml:"sentence_over_completion"`
	InitialQuality         float64 `yaml:"initial_quality"`
}

// FormatRule is one pattern/replacement pair in a preedit or comment
// formatter table, applied in list order.
type FormatRule struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// FormatConfig holds the preedit and comment formatter tables. Rules use
// .NET-flavored regex (lookahead/lookbehind) via regexp2, which Go's
// RE2-based regexp cannot express.
type FormatConfig struct {
	PreeditFormatter []FormatRule `yaml:"preedit_formatter"`
	CommentFormatter []FormatRule `yaml:"comment_formatter"`
}

// DefaultConfig returns a Config with spec-aligned default values.
func DefaultConfig() *Config {
	return &Config{
		Translation: TranslationConfig{
			Delimiters:             " '",
			EnableCompletion:       true,
			StrictSpelling:         false,
			SpellingHints:          0,
			EnableCharsetFilter:    false,
			EnableSentence:         true,
			SentenceOverCompletion: true,
			InitialQuality:         0,
		},
	}
}

// InitConfig loads config from file or creates default if missing.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, err
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, configPath); err != nil {
			return nil, err
		}
		log.Debugf("created default schema config at %s", configPath)
		return cfg, nil
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("failed to load schema config, using defaults: %v", err)
		return DefaultConfig(), nil
	}
	return cfg, nil
}

// LoadConfig loads from a YAML file.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		log.Errorf("failed to read schema config: %v", err)
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Errorf("failed to decode schema config: %v", err)
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig saves into a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		log.Errorf("failed to encode schema config: %v", err)
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

// Update changes translation config values and saves to file.
func (c *Config) Update(configPath string, enableCompletion, strictSpelling, enableSentence *bool, initialQuality *float64) error {
	t := &c.Translation
	if enableCompletion != nil {
		t.EnableCompletion = *enableCompletion
	}
	if strictSpelling != nil {
		t.StrictSpelling = *strictSpelling
	}
	if enableSentence != nil {
		t.EnableSentence = *enableSentence
	}
	if initialQuality != nil {
		t.InitialQuality = *initialQuality
	}
	return SaveConfig(c, configPath)
}

// CompiledFormatter is a FormatConfig table compiled into regexp2
// matchers ready to apply in order.
type CompiledFormatter struct {
	rules []compiledRule
}

type compiledRule struct {
	re          *regexp2.Regexp
	replacement string
}

// Compile builds a CompiledFormatter from rules, in list order.
func Compile(rules []FormatRule) (*CompiledFormatter, error) {
	cf := &CompiledFormatter{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		re, err := regexp2.Compile(r.Pattern, regexp2.None)
		if err != nil {
			return nil, err
		}
		cf.rules = append(cf.rules, compiledRule{re: re, replacement: r.Replacement})
	}
	return cf, nil
}

// Apply runs every rule against s in order, each operating on the
// previous rule's output.
func (cf *CompiledFormatter) Apply(s string) (string, error) {
	out := s
	for _, r := range cf.rules {
		replaced, err := r.re.Replace(out, r.replacement, -1, -1)
		if err != nil {
			return "", err
		}
		out = replaced
	}
	return out, nil
}
