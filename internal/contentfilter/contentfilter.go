// Package contentfilter masks or blocks banned words in generated text.
package contentfilter

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// FilterMode determines how the filter handles violations
type FilterMode string

const (
	ModeReplace FilterMode = "REPLACE" // Replace banned words with asterisks
	ModeBlock   FilterMode = "BLOCK"   // Reject the entire text
)

// Config holds the content filter configuration
type Config struct {
	Enabled     bool       `yaml:"enabled"`
	Mode        FilterMode `yaml:"mode"`
	BannedWords []string   `yaml:"banned_words"`
}

// Result contains the outcome of filtering a text
type Result struct {
	Filtered     string   // The filtered text (with replacements if REPLACE mode)
	Violated     bool     // Whether any banned words were found
	MatchedWords []string // List of banned words that were matched
}

// ContentFilter handles word filtering for narration
type ContentFilter struct {
	enabled  bool
	mode     FilterMode
	patterns []*wordPattern // Pre-compiled patterns for each banned word
}

// wordPattern holds a compiled regex and the original word
type wordPattern struct {
	word    string
	pattern *regexp.Regexp
}

// New creates a new ContentFilter from a Config
func New(cfg *Config) *ContentFilter {
	if cfg == nil {
		return &ContentFilter{enabled: false}
	}

	cf := &ContentFilter{
		enabled:  cfg.Enabled,
		mode:     cfg.Mode,
		patterns: make([]*wordPattern, 0, len(cfg.BannedWords)),
	}

	// Pre-compile patterns for each banned word
	for _, word := range cfg.BannedWords {
		if word == "" {
			continue
		}
		// Create case-insensitive word boundary pattern
		// \b matches word boundaries (spaces, punctuation, start/end of string)
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
		cf.patterns = append(cf.patterns, &wordPattern{
			word:    word,
			pattern: pattern,
		})
	}

	return cf
}

// LoadConfig loads content filter configuration from a YAML file
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse content filter: %w", err)
	}

	// Default to REPLACE mode if not specified
	cfg.Mode = FilterMode(strings.ToUpper(string(cfg.Mode)))
	switch cfg.Mode {
	case "":
		cfg.Mode = ModeReplace
	case ModeReplace, ModeBlock:
	default:
		return nil, fmt.Errorf("content filter: unknown mode %q", cfg.Mode)
	}

	return &cfg, nil
}

// Check filters a text and returns the result. A nil filter allows
// everything.
func (cf *ContentFilter) Check(message string) Result {
	result := Result{
		Filtered:     message,
		Violated:     false,
		MatchedWords: []string{},
	}

	// If filter is disabled, return text unchanged
	if cf == nil || !cf.enabled || len(cf.patterns) == 0 {
		return result
	}

	// Check each pattern against the message
	for _, wp := range cf.patterns {
		if wp.pattern.MatchString(message) {
			result.Violated = true
			result.MatchedWords = append(result.MatchedWords, wp.word)

			// In REPLACE mode, substitute the word with asterisks
			if cf.mode == ModeReplace {
				result.Filtered = wp.pattern.ReplaceAllStringFunc(result.Filtered, func(match string) string {
					return strings.Repeat("*", len(match))
				})
			}
		}
	}

	return result
}

// IsEnabled returns whether the filter is enabled
func (cf *ContentFilter) IsEnabled() bool {
	return cf.enabled
}

// Mode returns the current filter mode
func (cf *ContentFilter) Mode() FilterMode {
	return cf.mode
}

// IsBlockMode returns true if the filter is in BLOCK mode
func (cf *ContentFilter) IsBlockMode() bool {
	return cf != nil && cf.mode == ModeBlock
}

// IsReplaceMode returns true if the filter is in REPLACE mode
func (cf *ContentFilter) IsReplaceMode() bool {
	return cf.mode == ModeReplace
}
