// Package monster holds the monsters a player meets and the bestiary they
// are spawned from.
package monster

import (
	"fmt"

	"github.com/zenithstorm/comp645-team1-game/internal/gameerr"
)

// Stats are the combat numbers a monster is created with.
type Stats struct {
	Health     int
	MaxHealth  int
	Attack     int
	Defense    int
	Experience int
}

// Monster is the opponent of one encounter. It is discarded when the
// encounter ends.
type Monster struct {
	ID          string // bestiary key
	Name        string
	Description string
	Tier        int
	Boss        bool

	Health     int
	MaxHealth  int
	Attack     int
	Defense    int
	Experience int

	// LootTable names the table rolled when the monster is defeated.
	LootTable string

	// Weaknesses lists ability IDs that deal bonus damage.
	Weaknesses []string
}

// New creates a monster with validated stats. It fails with an
// InvalidStatError if a stat is negative, max health is not positive, or
// health exceeds max health.
func New(name string, s Stats) (*Monster, error) {
	switch {
	case s.MaxHealth <= 0:
		return nil, &gameerr.InvalidStatError{Entity: "monster", Field: "max_health", Value: s.MaxHealth}
	case s.Health < 0 || s.Health > s.MaxHealth:
		return nil, &gameerr.InvalidStatError{Entity: "monster", Field: "health", Value: s.Health}
	case s.Attack < 0:
		return nil, &gameerr.InvalidStatError{Entity: "monster", Field: "attack", Value: s.Attack}
	case s.Defense < 0:
		return nil, &gameerr.InvalidStatError{Entity: "monster", Field: "defense", Value: s.Defense}
	case s.Experience < 0:
		return nil, &gameerr.InvalidStatError{Entity: "monster", Field: "experience", Value: s.Experience}
	}
	return &Monster{
		Name:       name,
		Tier:       1,
		Health:     s.Health,
		MaxHealth:  s.MaxHealth,
		Attack:     s.Attack,
		Defense:    s.Defense,
		Experience: s.Experience,
	}, nil
}

// ApplyDamage lowers health by amount, never below zero, and returns the
// damage actually taken. Negative amounts are treated as zero.
func (m *Monster) ApplyDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > m.Health {
		amount = m.Health
	}
	m.Health -= amount
	return amount
}

// Heal restores health, capped at MaxHealth, and returns the amount healed.
func (m *Monster) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	if missing := m.MaxHealth - m.Health; amount > missing {
		amount = missing
	}
	m.Health += amount
	return amount
}

// IsAlive returns true if the monster has health remaining
func (m *Monster) IsAlive() bool {
	return m.Health > 0
}

// IsWeakTo reports whether the ability deals bonus damage to this monster.
func (m *Monster) IsWeakTo(abilityID string) bool {
	for _, w := range m.Weaknesses {
		if w == abilityID {
			return true
		}
	}
	return false
}

// String returns a short status line
func (m *Monster) String() string {
	return fmt.Sprintf("%s [%d/%d]", m.Name, m.Health, m.MaxHealth)
}

// TierName returns a human-readable name for a tier
func TierName(tier int) string {
	switch tier {
	case 1:
		return "Easy"
	case 2:
		return "Medium"
	case 3:
		return "Hard"
	case 4:
		return "Elite"
	default:
		return "Unknown"
	}
}
