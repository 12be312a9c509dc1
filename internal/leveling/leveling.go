// Package leveling awards experience, raises levels and grants abilities.
package leveling

import (
	"math"

	"github.com/zenithstorm/comp645-team1-game/internal/abilities"
	"github.com/zenithstorm/comp645-team1-game/internal/config"
	"github.com/zenithstorm/comp645-team1-game/internal/player"
)

// Curve is the experience curve and per-level stat gains.
type Curve struct {
	Base            float64
	Exponent        float64
	MaxLevel        int
	HealthPerLevel  int
	AttackPerLevel  int
	DefensePerLevel int
}

// NewCurve builds a curve from the progression config.
func NewCurve(c config.ProgressionConfig) Curve {
	return Curve{
		Base:            c.XPBase,
		Exponent:        c.XPExponent,
		MaxLevel:        c.MaxLevel,
		HealthPerLevel:  c.HealthPerLevel,
		AttackPerLevel:  c.AttackPerLevel,
		DefensePerLevel: c.DefensePerLevel,
	}
}

// XPForLevel returns the total XP required to reach a given level.
// Uses polynomial curve: base * level^exponent
func (c Curve) XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return int(c.Base * math.Pow(float64(level), c.Exponent))
}

// XPToNextLevel returns XP needed from current level to next level.
func (c Curve) XPToNextLevel(currentLevel int) int {
	if currentLevel >= c.MaxLevel {
		return 0
	}
	return c.XPForLevel(currentLevel+1) - c.XPForLevel(currentLevel)
}

// LevelForXP returns the level a total amount of XP corresponds to.
func (c Curve) LevelForXP(xp int) int {
	level := 1
	for level < c.MaxLevel && xp >= c.XPForLevel(level+1) {
		level++
	}
	return level
}

// LevelUpInfo contains information about a level-up event
type LevelUpInfo struct {
	NewLevel    int
	HealthGain  int
	AttackGain  int
	DefenseGain int
}

// Award adds experience and applies every level gained. Each level adds the
// configured stat gains and fully heals. Non-positive XP is ignored. Level
// never decreases and never exceeds MaxLevel.
func (c Curve) Award(p *player.Player, xp int) []LevelUpInfo {
	if xp <= 0 {
		return nil
	}
	p.Experience += xp

	var levelUps []LevelUpInfo
	for target := c.LevelForXP(p.Experience); p.Level < target; {
		levelUps = append(levelUps, c.levelUp(p))
	}
	return levelUps
}

// levelUp advances the player one level and returns the level-up info
func (c Curve) levelUp(p *player.Player) LevelUpInfo {
	p.Level++

	p.MaxHealth += c.HealthPerLevel
	p.Attack += c.AttackPerLevel
	p.Defense += c.DefensePerLevel

	// Fully restore on level up
	p.Health = p.MaxHealth

	return LevelUpInfo{
		NewLevel:    p.Level,
		HealthGain:  c.HealthPerLevel,
		AttackGain:  c.AttackPerLevel,
		DefenseGain: c.DefensePerLevel,
	}
}

// Unlocked is an ability granted by Unlock.
type Unlocked struct {
	Ability  *abilities.Ability
	Equipped bool // false when every slot was already taken
}

// Unlock grants every ability whose condition the player now meets and
// that the player does not already know, in registry order.
func Unlock(p *player.Player, registry *abilities.Registry) []Unlocked {
	var out []Unlocked
	for _, a := range registry.All() {
		if p.Knows(a.ID) || !a.Unlock.Met(p.Level, p.Kills, p.BossesDefeated) {
			continue
		}
		out = append(out, Unlocked{Ability: a, Equipped: p.Learn(a)})
	}
	return out
}
