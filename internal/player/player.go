// Package player holds the player character for one run.
package player

import (
	"strings"

	"github.com/zenithstorm/comp645-team1-game/internal/abilities"
	"github.com/zenithstorm/comp645-team1-game/internal/gameerr"
	"github.com/zenithstorm/comp645-team1-game/internal/items"
)

// Stats are the combat numbers a player is created with.
type Stats struct {
	Health    int
	MaxHealth int
	Attack    int
	Defense   int
}

// Player is the single adventurer of a run. It is owned by one game and is
// never persisted.
type Player struct {
	Name string

	Health    int
	MaxHealth int
	Attack    int
	Defense   int

	Level      int
	Experience int
	Gold       int

	Kills          int
	BossesDefeated int

	Inventory *items.Inventory

	// Equipment holds armor and weapons in pickup order. Bonuses apply for
	// as long as the item is held.
	Equipment []*items.Item

	Stats *Statistics

	slots    int
	equipped []*abilities.Ability
	known    []*abilities.Ability
}

// New creates a level 1 player. It fails with an InvalidStatError if a stat
// is negative, max health is not positive, or health exceeds max health.
func New(name string, s Stats, abilitySlots, inventoryLimit int) (*Player, error) {
	if err := validate(s); err != nil {
		return nil, err
	}
	if abilitySlots <= 0 {
		return nil, &gameerr.InvalidStatError{Entity: "player", Field: "ability_slots", Value: abilitySlots}
	}
	return &Player{
		Name:      name,
		Health:    s.Health,
		MaxHealth: s.MaxHealth,
		Attack:    s.Attack,
		Defense:   s.Defense,
		Level:     1,
		Inventory: items.NewInventory(inventoryLimit),
		Stats:     NewStatistics(),
		slots:     abilitySlots,
	}, nil
}

func validate(s Stats) error {
	switch {
	case s.MaxHealth <= 0:
		return &gameerr.InvalidStatError{Entity: "player", Field: "max_health", Value: s.MaxHealth}
	case s.Health < 0 || s.Health > s.MaxHealth:
		return &gameerr.InvalidStatError{Entity: "player", Field: "health", Value: s.Health}
	case s.Attack < 0:
		return &gameerr.InvalidStatError{Entity: "player", Field: "attack", Value: s.Attack}
	case s.Defense < 0:
		return &gameerr.InvalidStatError{Entity: "player", Field: "defense", Value: s.Defense}
	}
	return nil
}

// ApplyDamage lowers health by amount, never below zero, and returns the
// damage actually taken. Negative amounts are treated as zero.
func (p *Player) ApplyDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount > p.Health {
		amount = p.Health
	}
	p.Health -= amount
	return amount
}

// Heal restores health, capped at MaxHealth, and returns the amount healed.
func (p *Player) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	if missing := p.MaxHealth - p.Health; amount > missing {
		amount = missing
	}
	p.Health += amount
	return amount
}

// HealToFull restores the player to full health, returns amount healed
func (p *Player) HealToFull() int {
	return p.Heal(p.MaxHealth - p.Health)
}

// IsAlive returns true if the player has health remaining
func (p *Player) IsAlive() bool {
	return p.Health > 0
}

// Power is the player's attack including weapon bonuses.
func (p *Player) Power() int {
	power := p.Attack
	for _, it := range p.Equipment {
		power += it.AttackBonus
	}
	return power
}

// Armor is the player's defense including armor bonuses.
func (p *Player) Armor() int {
	armor := p.Defense
	for _, it := range p.Equipment {
		armor += it.DefenseBonus
	}
	return armor
}

// Owns reports whether the player holds the item as equipment or inventory.
func (p *Player) Owns(id string) bool {
	for _, it := range p.Equipment {
		if it.ID == id {
			return true
		}
	}
	return p.Inventory.Count(id) > 0
}

// Equip wears an armor or weapon piece. A unique piece already owned is
// refused and false is returned.
func (p *Player) Equip(item *items.Item) bool {
	if !item.Kind.IsEquipment() {
		return false
	}
	if item.Unique && p.Owns(item.ID) {
		return false
	}
	p.Equipment = append(p.Equipment, item)
	return true
}

// AddGold adds gold to the player. Non-positive amounts are ignored.
func (p *Player) AddGold(amount int) {
	if amount <= 0 {
		return
	}
	p.Gold += amount
	p.Stats.GoldEarned += amount
}

// RecordKill counts a defeated monster.
func (p *Player) RecordKill(name string, boss bool) {
	p.Kills++
	if boss {
		p.BossesDefeated++
	}
	p.Stats.RecordKill(name)
}

// Learn grants an ability. It is equipped if a slot is free, otherwise it is
// kept as known. Returns true if the ability was equipped. Learning an
// ability twice does nothing.
func (p *Player) Learn(a *abilities.Ability) bool {
	if p.Knows(a.ID) {
		return false
	}
	if len(p.equipped) < p.slots {
		p.equipped = append(p.equipped, a)
		return true
	}
	p.known = append(p.known, a)
	return false
}

// Knows reports whether the ability is equipped or known.
func (p *Player) Knows(id string) bool {
	if _, ok := p.Ability(id); ok {
		return true
	}
	for _, a := range p.known {
		if a.ID == id {
			return true
		}
	}
	return false
}

// Ability returns an equipped ability by ID.
func (p *Player) Ability(id string) (*abilities.Ability, bool) {
	for _, a := range p.equipped {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// FindAbility resolves a reference to a learned ability by ID or name,
// case-insensitively. The second result reports whether it is in a slot.
func (p *Player) FindAbility(query string) (*abilities.Ability, bool, bool) {
	query = strings.TrimSpace(strings.ToLower(query))
	id := strings.ReplaceAll(query, " ", "_")
	match := func(candidate *abilities.Ability) bool {
		return candidate.ID == id || strings.EqualFold(candidate.Name, query)
	}
	for _, a := range p.equipped {
		if match(a) {
			return a, true, true
		}
	}
	for _, a := range p.known {
		if match(a) {
			return a, false, true
		}
	}
	return nil, false, false
}

// Abilities returns the equipped abilities in the order they were learned.
func (p *Player) Abilities() []*abilities.Ability {
	out := make([]*abilities.Ability, len(p.equipped))
	copy(out, p.equipped)
	return out
}

// KnownAbilities returns learned abilities that did not fit in a slot.
func (p *Player) KnownAbilities() []*abilities.Ability {
	out := make([]*abilities.Ability, len(p.known))
	copy(out, p.known)
	return out
}

// Slots returns the ability capacity.
func (p *Player) Slots() int {
	return p.slots
}
