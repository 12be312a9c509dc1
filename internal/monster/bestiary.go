package monster

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/zenithstorm/comp645-team1-game/internal/config"
	"github.com/zenithstorm/comp645-team1-game/internal/dice"
	"gopkg.in/yaml.v3"
)

// ErrNoTemplate is returned when the bestiary has nothing to spawn.
var ErrNoTemplate = errors.New("no monster template available")

// Template is a bestiary entry as written in monsters.yaml. Zero stats are
// rolled from the configured ranges at spawn time.
type Template struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Tier        int      `yaml:"tier"` // lowest tier the monster appears at
	Health      int      `yaml:"health"`
	Attack      int      `yaml:"attack"`
	Defense     int      `yaml:"defense"`
	Experience  int      `yaml:"experience"`
	LootTable   string   `yaml:"loot_table"`
	Weaknesses  []string `yaml:"weaknesses"`
	Boss        bool     `yaml:"boss"`
}

type monstersFile struct {
	Monsters map[string]Template `yaml:"monsters"`
}

// Bestiary spawns monsters from templates.
type Bestiary struct {
	templates map[string]Template
	regular   []string // sorted IDs
	bosses    []string // sorted IDs
	ranges    config.MonsterConfig
}

// NewBestiary builds a bestiary from templates keyed by ID.
func NewBestiary(templates map[string]Template, ranges config.MonsterConfig) *Bestiary {
	b := &Bestiary{templates: templates, ranges: ranges}
	for id, t := range templates {
		if t.Boss {
			b.bosses = append(b.bosses, id)
		} else {
			b.regular = append(b.regular, id)
		}
	}
	sort.Strings(b.regular)
	sort.Strings(b.bosses)
	return b
}

// LoadBestiary reads monster templates from a YAML file.
func LoadBestiary(filename string, ranges config.MonsterConfig) (*Bestiary, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read monsters file: %w", err)
	}

	var file monstersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse monsters YAML: %w", err)
	}

	for id, t := range file.Monsters {
		if t.Health < 0 || t.Attack < 0 || t.Defense < 0 || t.Experience < 0 {
			return nil, fmt.Errorf("monster %s: stats must not be negative", id)
		}
		if t.Name == "" {
			return nil, fmt.Errorf("monster %s: missing name", id)
		}
	}
	b := NewBestiary(file.Monsters, ranges)
	if len(b.regular) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrNoTemplate)
	}
	if len(b.bosses) == 0 {
		return nil, fmt.Errorf("%s: no boss defined: %w", filename, ErrNoTemplate)
	}
	return b, nil
}

// Spawn creates a regular monster for the given tier. Templates whose tier is
// above the requested tier are skipped; if none qualify every regular
// template is eligible.
func (b *Bestiary) Spawn(tier int, stream *dice.Stream) (*Monster, error) {
	if tier < 1 {
		tier = 1
	}
	var candidates []string
	for _, id := range b.regular {
		if b.templates[id].Tier <= tier {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		candidates = b.regular
	}
	if len(candidates) == 0 {
		return nil, ErrNoTemplate
	}

	id := candidates[stream.Intn(len(candidates))]
	return b.build(id, tier, stream)
}

// SpawnBoss creates the boss. Boss stats are taken from the template as
// written and are not scaled.
func (b *Bestiary) SpawnBoss(stream *dice.Stream) (*Monster, error) {
	if len(b.bosses) == 0 {
		return nil, ErrNoTemplate
	}
	id := b.bosses[stream.Intn(len(b.bosses))]
	tier := b.ranges.MaxTier
	if tier < 1 {
		tier = 1
	}
	return b.build(id, tier, stream)
}

func (b *Bestiary) build(id string, tier int, stream *dice.Stream) (*Monster, error) {
	t := b.templates[id]
	r := b.ranges

	health := t.Health
	if health == 0 {
		health = stream.Between(r.HealthMin, r.HealthMax)
	}
	attack := t.Attack
	if attack == 0 {
		attack = stream.Between(r.AttackMin, r.AttackMax)
	}
	defense := t.Defense
	if defense == 0 && r.DefenseMax > 0 {
		defense = stream.Between(r.DefenseMin, r.DefenseMax)
	}
	xp := t.Experience

	if !t.Boss {
		health = ScaleHealth(health, tier, r.HealthPerTier)
		attack = ScaleAttack(attack, tier, r.AttackPerTier)
		xp = ScaleXP(xp, tier)
	}

	m, err := New(t.Name, Stats{
		Health:     health,
		MaxHealth:  health,
		Attack:     attack,
		Defense:    defense,
		Experience: xp,
	})
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", id, err)
	}
	m.ID = id
	m.Description = t.Description
	m.Tier = tier
	m.Boss = t.Boss
	m.LootTable = t.LootTable
	m.Weaknesses = append([]string(nil), t.Weaknesses...)
	return m, nil
}

// IDs returns every template ID, regular monsters first, each group sorted.
func (b *Bestiary) IDs() []string {
	ids := make([]string, 0, len(b.regular)+len(b.bosses))
	ids = append(ids, b.regular...)
	return append(ids, b.bosses...)
}

// Template returns the template with the given ID.
func (b *Bestiary) Template(id string) (Template, bool) {
	t, ok := b.templates[id]
	return t, ok
}

// Len returns the number of regular templates.
func (b *Bestiary) Len() int {
	return len(b.regular)
}

// ScaleHealth adds perTier health for each tier above 1
func ScaleHealth(base, tier, perTier int) int {
	if tier <= 1 {
		return base
	}
	return base + (tier-1)*perTier
}

// ScaleAttack adds perTier attack for each tier above 1
func ScaleAttack(base, tier, perTier int) int {
	if tier <= 1 {
		return base
	}
	return base + (tier-1)*perTier
}

// ScaleXP calculates the experience reward for a tier
// Formula: base_xp * (1 + (tier-1) * 0.5)
func ScaleXP(baseXP, tier int) int {
	if tier <= 1 {
		return baseXP
	}
	multiplier := 1.0 + float64(tier-1)*0.5
	return int(float64(baseXP) * multiplier)
}
