// Package help provides command help loaded from YAML files.
package help

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed help.yaml
var builtin []byte

// Topic represents a single help topic with aliases and text.
type Topic struct {
	Aliases []string `yaml:"aliases"`
	Text    string   `yaml:"text"`
}

// HelpData represents the structure of a help file.
type HelpData struct {
	Topics      map[string]Topic `yaml:"topics"`
	GeneralHelp string           `yaml:"general_help"`
}

// Help provides help text lookup. It is read-only after loading.
type Help struct {
	data        HelpData
	aliasLookup map[string]string // alias -> topic name
}

// Load loads help data from a YAML file.
func Load(path string) (*Help, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read help file: %w", err)
	}
	return Parse(data)
}

// Parse builds help from YAML content.
func Parse(data []byte) (*Help, error) {
	var helpData HelpData
	if err := yaml.Unmarshal(data, &helpData); err != nil {
		return nil, fmt.Errorf("failed to parse help file: %w", err)
	}
	if strings.TrimSpace(helpData.GeneralHelp) == "" {
		return nil, fmt.Errorf("help file has no general_help")
	}

	h := &Help{
		data:        helpData,
		aliasLookup: make(map[string]string),
	}
	for topicName, topic := range helpData.Topics {
		h.aliasLookup[strings.ToLower(topicName)] = topicName
		for _, alias := range topic.Aliases {
			h.aliasLookup[strings.ToLower(alias)] = topicName
		}
	}
	return h, nil
}

// Default returns the help shipped with the game.
func Default() *Help {
	h, err := Parse(builtin)
	if err != nil {
		panic(fmt.Sprintf("help: built-in help is invalid: %v", err))
	}
	return h
}

// GetTopic returns help text for a topic name or alias, or "" if unknown.
func (h *Help) GetTopic(topic string) string {
	topicName, ok := h.aliasLookup[strings.ToLower(strings.TrimSpace(topic))]
	if !ok {
		return ""
	}
	return strings.TrimSpace(h.data.Topics[topicName].Text)
}

// GetGeneralHelp returns the command overview.
func (h *Help) GetGeneralHelp() string {
	return strings.TrimSpace(h.data.GeneralHelp)
}

// GetHelpText returns help for a topic, or the overview if topic is empty.
func (h *Help) GetHelpText(topic string) string {
	if strings.TrimSpace(topic) == "" {
		return h.GetGeneralHelp()
	}

	text := h.GetTopic(topic)
	if text == "" {
		return fmt.Sprintf("No help available for '%s'.\nType 'help' for a list of commands.", topic)
	}
	return text
}
