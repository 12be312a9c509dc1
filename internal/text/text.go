// Package text provides loading and lookup for externalized narration text.
//
// Every section holds a list of variants. Lookups fall back to built-in
// strings when a section or key is missing so the game always has something
// to print.
package text

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// TextData represents the structure of the narrative.yaml file.
type TextData struct {
	Opening []string            `yaml:"opening"`
	Rooms   map[string][]string `yaml:"rooms"`
	Monster []string            `yaml:"monster"`
	Boss    []string            `yaml:"boss"`
	Item    []string            `yaml:"item"`
	Actions map[string][]string `yaml:"actions"`
	Rest    []string            `yaml:"rest"`
	Victory []string            `yaml:"victory"`
	Defeat  []string            `yaml:"defeat"`
}

// Text provides text lookup functionality.
type Text struct {
	data *TextData
	mu   sync.RWMutex
}

// builtin is used for anything narrative.yaml leaves out.
var builtin = TextData{
	Opening: []string{"You descend into the dungeon to reclaim the gear the goblins stole from you."},
	Rooms: map[string][]string{
		"empty":   {"You enter {theme}. Nothing stirs."},
		"loot":    {"You enter {theme}. Something glints in the dust."},
		"monster": {"You enter {theme}. Something is waiting for you."},
		"boss":    {"You enter {theme}. The air grows heavy; this is the lair of something terrible."},
	},
	Monster: []string{"A {monster} blocks your path."},
	Boss:    []string{"{monster} rises before you."},
	Item:    []string{"You find {item}."},
	Actions: map[string][]string{
		"attack":      {"You strike the {monster} for {dealt} damage."},
		"use_ability": {"You use {ability} on the {monster} for {dealt} damage."},
		"use_item":    {"You use {item}."},
		"flee":        {"You try to get away from the {monster}."},
	},
	Rest:    []string{"You kneel and pray. Warmth returns to your limbs."},
	Victory: []string{"The dungeon falls silent. You have won."},
	Defeat:  []string{"Your vision fades. The dungeon claims another knight."},
}

// Load loads text data from a YAML file.
func Load(path string) (*Text, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}

	var textData TextData
	if err := yaml.Unmarshal(data, &textData); err != nil {
		return nil, fmt.Errorf("failed to parse text file: %w", err)
	}

	return &Text{data: &textData}, nil
}

// Default returns text backed only by the built-in strings.
func Default() *Text {
	return &Text{data: &TextData{}}
}

// Variants returns the variants for a section. Sections with keys (rooms,
// actions) are addressed as "rooms.loot" or "actions.attack". Unknown
// sections return nil.
func (t *Text) Variants(section string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if v := lookup(t.data, section); len(v) > 0 {
		return v
	}
	return lookup(&builtin, section)
}

// Pick returns variant n of a section, wrapping around. It returns "" when
// the section is unknown.
func (t *Text) Pick(section string, n int) string {
	variants := t.Variants(section)
	if len(variants) == 0 {
		return ""
	}
	if n < 0 {
		n = -n
	}
	return strings.TrimSpace(variants[n%len(variants)])
}

func lookup(d *TextData, section string) []string {
	name, key, _ := strings.Cut(strings.ToLower(section), ".")
	switch name {
	case "opening":
		return d.Opening
	case "rooms":
		return d.Rooms[key]
	case "monster":
		return d.Monster
	case "boss":
		return d.Boss
	case "item":
		return d.Item
	case "actions":
		return d.Actions[key]
	case "rest":
		return d.Rest
	case "victory":
		return d.Victory
	case "defeat":
		return d.Defeat
	}
	return nil
}

// Render substitutes {name} placeholders in a template. Unknown placeholders
// are left as they are.
func Render(template string, vars map[string]string) string {
	if len(vars) == 0 {
		return template
	}
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
