package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// GameConfig holds the balance tables and server settings loaded at startup.
// It is treated as immutable once the game starts.
type GameConfig struct {
	Player      PlayerConfig      `yaml:"player"`
	Monsters    MonsterConfig     `yaml:"monsters"`
	Boss        BossConfig        `yaml:"boss"`
	Combat      CombatConfig      `yaml:"combat"`
	Rooms       RoomConfig        `yaml:"rooms"`
	Progression ProgressionConfig `yaml:"progression"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
}

// PlayerConfig is the starting character.
type PlayerConfig struct {
	MaxHealth int `yaml:"max_health"`

	// StartingHealth lets a run begin injured. 0 means full health.
	StartingHealth int `yaml:"starting_health"`

	Attack  int `yaml:"attack"`
	Defense int `yaml:"defense"`

	// AbilitySlots caps how many abilities can be equipped at once.
	AbilitySlots int `yaml:"ability_slots"`

	// InventoryLimit caps distinct item stacks. 0 means unbounded.
	InventoryLimit int `yaml:"inventory_limit"`

	StartingItems     []string `yaml:"starting_items"`
	StartingAbilities []string `yaml:"starting_abilities"`
}

// MonsterConfig holds the stat ranges rolled for templates that leave a stat unset,
// plus per-tier scaling.
type MonsterConfig struct {
	HealthMin  int `yaml:"health_min"`
	HealthMax  int `yaml:"health_max"`
	AttackMin  int `yaml:"attack_min"`
	AttackMax  int `yaml:"attack_max"`
	DefenseMin int `yaml:"defense_min"`
	DefenseMax int `yaml:"defense_max"`

	// RoomsPerTier raises the monster tier every N rooms. 0 keeps every monster at tier 1.
	RoomsPerTier int `yaml:"rooms_per_tier"`
	MaxTier      int `yaml:"max_tier"`

	// Per tier above 1.
	HealthPerTier int `yaml:"health_per_tier"`
	AttackPerTier int `yaml:"attack_per_tier"`
}

// BossConfig controls when the boss room can appear.
type BossConfig struct {
	// MinDefeated is the number of kills before the boss can spawn.
	MinDefeated int `yaml:"min_defeated"`

	// Chance is the probability a monster room becomes the boss room once
	// MinDefeated is reached.
	Chance float64 `yaml:"chance"`

	// ForceAfterRooms makes the next room the boss room once this many rooms
	// have been entered and MinDefeated is met. 0 disables.
	ForceAfterRooms int `yaml:"force_after_rooms"`
}

// CombatConfig holds turn resolution constants.
type CombatConfig struct {
	FleeChance            float64 `yaml:"flee_chance"`
	MonsterAttackVariance int     `yaml:"monster_attack_variance"`
	WeaknessBonus         int     `yaml:"weakness_bonus"`
}

// RoomWeight is one entry of the room type table.
type RoomWeight struct {
	Type   string  `yaml:"type"`
	Weight float64 `yaml:"weight"`
}

// Room types understood by the dungeon.
const (
	RoomEmpty   = "empty"
	RoomLoot    = "loot"
	RoomMonster = "monster"
)

// RoomConfig holds the room type table and themes used for narration.
type RoomConfig struct {
	Weights []RoomWeight `yaml:"weights"`
	Themes  []string     `yaml:"themes"`
}

// ProgressionConfig is the experience curve and per-level stat gains.
type ProgressionConfig struct {
	XPBase          float64 `yaml:"xp_base"`
	XPExponent      float64 `yaml:"xp_exponent"`
	MaxLevel        int     `yaml:"max_level"`
	HealthPerLevel  int     `yaml:"health_per_level"`
	AttackPerLevel  int     `yaml:"attack_per_level"`
	DefensePerLevel int     `yaml:"defense_per_level"`
}

// WebSocketConfig holds settings for the browser play server.
type WebSocketConfig struct {
	// AllowedOrigins lists origins allowed to connect. Empty enforces
	// same-origin and "*" allows all.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum inbound message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`

	// MaxSessions caps concurrent games. 0 means unlimited.
	MaxSessions int `yaml:"max_sessions"`

	// MaxPerIP caps concurrent games from one address. 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxCommands is how many commands a session may send per
	// CommandWindowSeconds. 0 disables the flood limit.
	MaxCommands          int `yaml:"max_commands"`
	CommandWindowSeconds int `yaml:"command_window_seconds"`
}

// DefaultConfig returns the balance table the game ships with.
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Player: PlayerConfig{
			MaxHealth:         20,
			StartingHealth:    10, // ambushed before the run begins
			Attack:            5,
			Defense:           1,
			AbilitySlots:      3,
			StartingAbilities: []string{"holy_smite"},
		},
		Monsters: MonsterConfig{
			HealthMin:     16,
			HealthMax:     26,
			AttackMin:     3,
			AttackMax:     7,
			RoomsPerTier:  5,
			MaxTier:       3,
			HealthPerTier: 4,
			AttackPerTier: 1,
		},
		Boss: BossConfig{
			MinDefeated:     3,
			Chance:          0.2,
			ForceAfterRooms: 25,
		},
		Combat: CombatConfig{
			FleeChance:            0.5,
			MonsterAttackVariance: 2,
			WeaknessBonus:         5,
		},
		Rooms: RoomConfig{
			Weights: []RoomWeight{
				{Type: RoomEmpty, Weight: 0.1},
				{Type: RoomLoot, Weight: 0.1},
				{Type: RoomMonster, Weight: 0.8},
			},
			Themes: []string{"a ruined sanctum", "a flooded crypt", "a collapsed mine", "a bone-strewn cavern"},
		},
		Progression: ProgressionConfig{
			XPBase:          100,
			XPExponent:      1.5,
			MaxLevel:        10,
			HealthPerLevel:  5,
			AttackPerLevel:  1,
			DefensePerLevel: 0,
		},
		WebSocket: WebSocketConfig{
			AllowedOrigins: []string{},
			MaxMessageSize: 4096,
			MaxSessions:    50,
			MaxPerIP:       5,

			MaxCommands:          20,
			CommandWindowSeconds: 10,
		},
	}
}

// LoadConfig loads the game configuration from a YAML file. Sections left out
// of the file keep their defaults. A missing file yields the defaults; a file
// that fails to parse or validate is an error.
func LoadConfig(path string) (*GameConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Validate rejects balance values the engine cannot run with.
func (c *GameConfig) Validate() error {
	p := c.Player
	if p.MaxHealth <= 0 {
		return fmt.Errorf("player.max_health must be positive, got %d", p.MaxHealth)
	}
	if p.StartingHealth < 0 || p.StartingHealth > p.MaxHealth {
		return fmt.Errorf("player.starting_health must be in [0, %d], got %d", p.MaxHealth, p.StartingHealth)
	}
	if p.Attack < 0 || p.Defense < 0 {
		return fmt.Errorf("player attack and defense must not be negative")
	}
	if p.AbilitySlots <= 0 {
		return fmt.Errorf("player.ability_slots must be positive, got %d", p.AbilitySlots)
	}
	if p.InventoryLimit < 0 {
		return fmt.Errorf("player.inventory_limit must not be negative")
	}

	m := c.Monsters
	if m.HealthMin <= 0 || m.HealthMax < m.HealthMin {
		return fmt.Errorf("monsters health range [%d, %d] is invalid", m.HealthMin, m.HealthMax)
	}
	if m.AttackMin < 0 || m.AttackMax < m.AttackMin {
		return fmt.Errorf("monsters attack range [%d, %d] is invalid", m.AttackMin, m.AttackMax)
	}
	if m.DefenseMin < 0 || m.DefenseMax < m.DefenseMin {
		return fmt.Errorf("monsters defense range [%d, %d] is invalid", m.DefenseMin, m.DefenseMax)
	}
	if m.RoomsPerTier < 0 || m.HealthPerTier < 0 || m.AttackPerTier < 0 {
		return fmt.Errorf("monster tier scaling must not be negative")
	}

	if c.Boss.MinDefeated < 0 || c.Boss.ForceAfterRooms < 0 {
		return fmt.Errorf("boss thresholds must not be negative")
	}
	if c.Boss.Chance < 0 || c.Boss.Chance > 1 {
		return fmt.Errorf("boss.chance must be in [0, 1], got %v", c.Boss.Chance)
	}

	if c.Combat.FleeChance < 0 || c.Combat.FleeChance > 1 {
		return fmt.Errorf("combat.flee_chance must be in [0, 1], got %v", c.Combat.FleeChance)
	}
	if c.Combat.MonsterAttackVariance < 0 || c.Combat.WeaknessBonus < 0 {
		return fmt.Errorf("combat variance and weakness bonus must not be negative")
	}

	if err := c.Rooms.validate(); err != nil {
		return err
	}

	g := c.Progression
	if g.XPBase <= 0 || g.XPExponent <= 0 {
		return fmt.Errorf("progression curve must be positive (base %v, exponent %v)", g.XPBase, g.XPExponent)
	}
	if g.MaxLevel < 1 {
		return fmt.Errorf("progression.max_level must be at least 1, got %d", g.MaxLevel)
	}
	if g.HealthPerLevel < 0 || g.AttackPerLevel < 0 || g.DefensePerLevel < 0 {
		return fmt.Errorf("per-level gains must not be negative")
	}

	ws := c.WebSocket
	if ws.MaxSessions < 0 || ws.MaxPerIP < 0 || ws.MaxCommands < 0 {
		return fmt.Errorf("websocket limits must not be negative")
	}
	if ws.MaxCommands > 0 && ws.CommandWindowSeconds <= 0 {
		return fmt.Errorf("websocket.command_window_seconds must be positive when max_commands is set")
	}
	return nil
}

func (r RoomConfig) validate() error {
	if len(r.Weights) == 0 {
		return fmt.Errorf("rooms.weights must not be empty")
	}
	total := 0.0
	for _, w := range r.Weights {
		switch w.Type {
		case RoomEmpty, RoomLoot, RoomMonster:
		default:
			return fmt.Errorf("unknown room type %q", w.Type)
		}
		if w.Weight < 0 {
			return fmt.Errorf("room weight for %s must not be negative", w.Type)
		}
		total += w.Weight
	}
	if total <= 0 {
		return fmt.Errorf("room weights must sum to a positive value")
	}
	return nil
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return sameOrigin(origin, requestHost)
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func sameOrigin(origin, requestHost string) bool {
	// Non-browser clients send no Origin header
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, requestHost)
}
