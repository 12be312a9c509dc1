// Package abilities provides combat ability definitions and the registry they
// are loaded into.
package abilities

import (
	"fmt"
	"os"
	"sort"

	"github.com/zenithstorm/comp645-team1-game/internal/dice"
	"gopkg.in/yaml.v3"
)

// EffectType represents what an ability does when used.
type EffectType string

const (
	EffectDamage EffectType = "damage"
	// EffectBlock cancels the monster's counter-attack for the turn. It may
	// also deal damage if Power is set.
	EffectBlock EffectType = "guaranteed_block"
)

// Unlock is the condition under which an ability is granted. Every set
// threshold must be met. An ability with no condition is only ever a
// starting ability.
type Unlock struct {
	Level int  `yaml:"level,omitempty"`
	Kills int  `yaml:"kills,omitempty"`
	Boss  bool `yaml:"boss,omitempty"`
}

// IsZero reports whether the unlock has no condition.
func (u Unlock) IsZero() bool {
	return u.Level == 0 && u.Kills == 0 && !u.Boss
}

// Met reports whether a player with the given progress satisfies the condition.
func (u Unlock) Met(level, kills, bosses int) bool {
	if u.IsZero() {
		return false
	}
	if u.Level > 0 && level < u.Level {
		return false
	}
	if u.Kills > 0 && kills < u.Kills {
		return false
	}
	if u.Boss && bosses == 0 {
		return false
	}
	return true
}

// Ability is an immutable ability definition.
type Ability struct {
	ID          string
	Name        string
	Description string
	Effect      EffectType
	Power       int            // flat damage added to the player's attack
	Dice        *dice.Notation // optional extra damage roll
	Unlock      Unlock

	// Granted names the equipment the unlock represents (e.g. "shield"),
	// used in narration.
	Granted string
}

// Blocks reports whether the ability cancels the counter-attack.
func (a *Ability) Blocks() bool {
	return a.Effect == EffectBlock
}

// DealsDamage reports whether the ability strikes the monster.
func (a *Ability) DealsDamage() bool {
	return a.Effect == EffectDamage || a.Power > 0 || a.Dice != nil
}

// abilityDefinition is the YAML shape of an ability.
type abilityDefinition struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Effect      string `yaml:"effect"`
	Power       int    `yaml:"power"`
	Dice        string `yaml:"dice,omitempty"`
	Unlock      Unlock `yaml:"unlock,omitempty"`
	Granted     string `yaml:"granted,omitempty"`
}

type abilitiesFile struct {
	Abilities map[string]abilityDefinition `yaml:"abilities"`
}

// Registry holds all loaded abilities.
type Registry struct {
	abilities map[string]*Ability
	order     []string
}

// NewRegistry creates a registry from already built abilities.
func NewRegistry(list ...*Ability) *Registry {
	r := &Registry{abilities: make(map[string]*Ability, len(list))}
	for _, a := range list {
		r.abilities[a.ID] = a
		r.order = append(r.order, a.ID)
	}
	r.sortOrder()
	return r
}

// LoadRegistry reads ability definitions from a YAML file.
func LoadRegistry(filename string) (*Registry, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read abilities file: %w", err)
	}
	return ParseRegistry(data)
}

// ParseRegistry parses ability definitions from YAML bytes.
func ParseRegistry(data []byte) (*Registry, error) {
	var file abilitiesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse abilities YAML: %w", err)
	}

	list := make([]*Ability, 0, len(file.Abilities))
	for id, def := range file.Abilities {
		a, err := fromDefinition(id, def)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return NewRegistry(list...), nil
}

func fromDefinition(id string, def abilityDefinition) (*Ability, error) {
	effect := EffectType(def.Effect)
	switch effect {
	case EffectDamage, EffectBlock:
	case "":
		effect = EffectDamage
	default:
		return nil, fmt.Errorf("ability %s: unknown effect %q", id, def.Effect)
	}
	if def.Power < 0 {
		return nil, fmt.Errorf("ability %s: power must not be negative", id)
	}

	a := &Ability{
		ID:          id,
		Name:        def.Name,
		Description: def.Description,
		Effect:      effect,
		Power:       def.Power,
		Unlock:      def.Unlock,
		Granted:     def.Granted,
	}
	if a.Name == "" {
		a.Name = id
	}
	if def.Dice != "" {
		n, err := dice.ParseNotation(def.Dice)
		if err != nil {
			return nil, fmt.Errorf("ability %s: %w", id, err)
		}
		a.Dice = &n
	}
	return a, nil
}

// Get returns an ability by its ID.
func (r *Registry) Get(id string) (*Ability, bool) {
	a, ok := r.abilities[id]
	return a, ok
}

// All returns every ability ordered by unlock level, then kills, then ID.
func (r *Registry) All() []*Ability {
	out := make([]*Ability, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.abilities[id])
	}
	return out
}

func (r *Registry) sortOrder() {
	sort.Slice(r.order, func(i, j int) bool {
		a, b := r.abilities[r.order[i]].Unlock, r.abilities[r.order[j]].Unlock
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		if a.Kills != b.Kills {
			return a.Kills < b.Kills
		}
		return r.order[i] < r.order[j]
	})
}
