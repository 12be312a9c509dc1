// Package namefilter validates the names players choose for their knight.
package namefilter

import (
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// DefaultMaxLength applies when the config leaves max_length at zero.
const DefaultMaxLength = 24

// Config holds the name filter configuration
type Config struct {
	Enabled     bool     `yaml:"enabled"`
	MaxLength   int      `yaml:"max_length"`
	BannedWords []string `yaml:"banned_words"`
	BannedNames []string `yaml:"banned_names"`
}

// Result contains the outcome of checking a name
type Result struct {
	Allowed bool   // Whether the name is allowed
	Reason  string // Reason for rejection (if not allowed)
}

// NameFilter handles name validation against banned words and names
// Length and character rules apply even when the filter is disabled.
type NameFilter struct {
	enabled     bool
	maxLength   int
	bannedWords []string // Lowercase banned words (partial match)
	bannedNames []string // Lowercase banned names (exact match)
}

// New creates a new NameFilter from a Config
func New(cfg *Config) *NameFilter {
	if cfg == nil {
		return &NameFilter{enabled: false, maxLength: DefaultMaxLength}
	}

	nf := &NameFilter{
		enabled:     cfg.Enabled,
		maxLength:   cfg.MaxLength,
		bannedWords: make([]string, 0, len(cfg.BannedWords)),
		bannedNames: make([]string, 0, len(cfg.BannedNames)),
	}

	// Store lowercase versions for case-insensitive matching
	for _, word := range cfg.BannedWords {
		if word != "" {
			nf.bannedWords = append(nf.bannedWords, strings.ToLower(word))
		}
	}

	for _, name := range cfg.BannedNames {
		if name != "" {
			nf.bannedNames = append(nf.bannedNames, strings.ToLower(name))
		}
	}

	if nf.maxLength <= 0 {
		nf.maxLength = DefaultMaxLength
	}

	return nf
}

// LoadConfig loads name filter configuration from a YAML file
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse name filter: %w", err)
	}

	return &cfg, nil
}

// Clean trims a name and collapses runs of whitespace to single spaces.
func Clean(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// Check validates a cleaned name against the filter rules
func (nf *NameFilter) Check(name string) Result {
	if name == "" {
		return Result{Allowed: false, Reason: "Your name cannot be empty."}
	}
	if n := utf8.RuneCountInString(name); n > nf.maxLength {
		return Result{
			Allowed: false,
			Reason:  fmt.Sprintf("Your name must be at most %d characters.", nf.maxLength),
		}
	}
	for _, r := range name {
		if !validRune(r) {
			return Result{
				Allowed: false,
				Reason:  "Your name may only contain letters, digits, spaces, hyphens, apostrophes and underscores.",
			}
		}
	}

	// Banned lists only apply when the filter is enabled
	if !nf.enabled {
		return Result{Allowed: true}
	}

	nameLower := strings.ToLower(name)

	// Check for exact banned names
	for _, banned := range nf.bannedNames {
		if nameLower == banned {
			return Result{
				Allowed: false,
				Reason:  "That name is not allowed.",
			}
		}
	}

	// Check for banned words (partial match)
	for _, word := range nf.bannedWords {
		if strings.Contains(nameLower, word) {
			return Result{
				Allowed: false,
				Reason:  "That name contains a word that is not allowed.",
			}
		}
	}

	return Result{Allowed: true}
}

// IsEnabled returns whether the filter is enabled
func (nf *NameFilter) IsEnabled() bool {
	return nf.enabled
}

func validRune(r rune) bool {
	switch r {
	case ' ', '-', '\'', '_':
		return true
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
