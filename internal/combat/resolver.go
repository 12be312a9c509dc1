// Package combat resolves one exchange between the player and a monster.
package combat

import (
	"github.com/zenithstorm/comp645-team1-game/internal/abilities"
	"github.com/zenithstorm/comp645-team1-game/internal/config"
	"github.com/zenithstorm/comp645-team1-game/internal/dice"
	"github.com/zenithstorm/comp645-team1-game/internal/gameerr"
	"github.com/zenithstorm/comp645-team1-game/internal/items"
	"github.com/zenithstorm/comp645-team1-game/internal/monster"
	"github.com/zenithstorm/comp645-team1-game/internal/player"
)

// Resolver holds the balance constants for turn resolution.
type Resolver struct {
	FleeChance            float64
	MonsterAttackVariance int
	WeaknessBonus         int
}

// NewResolver builds a resolver from the combat config.
func NewResolver(c config.CombatConfig) Resolver {
	return Resolver{
		FleeChance:            c.FleeChance,
		MonsterAttackVariance: c.MonsterAttackVariance,
		WeaknessBonus:         c.WeaknessBonus,
	}
}

// Damage is max(0, power - defense).
func Damage(power, defense int) int {
	if d := power - defense; d > 0 {
		return d
	}
	return 0
}

// Resolve plays the player's action and, unless the encounter ended, the
// monster's counter. An illegal action returns an IllegalActionError and
// changes nothing. Only the two combatants, the consumed item stack and the
// stream are touched.
func (r Resolver) Resolve(p *player.Player, m *monster.Monster, a Action, stream *dice.Stream) (Outcome, error) {
	if !p.IsAlive() {
		return Outcome{}, gameerr.Illegal(a.Kind.String(), "you are dead")
	}
	if !m.IsAlive() {
		return Outcome{}, gameerr.Illegal(a.Kind.String(), "%s is already dead", m.Name)
	}

	out := Outcome{Action: a}

	switch a.Kind {
	case Attack:
		out.DamageDealt = m.ApplyDamage(Damage(p.Power(), m.Defense))

	case UseAbility:
		ability, err := legalAbility(p, a.Ref)
		if err != nil {
			return Outcome{}, err
		}
		out.Ability = ability
		out.Blocked = ability.Blocks()
		if ability.DealsDamage() {
			power := p.Power() + ability.Power
			if ability.Dice != nil {
				power += stream.RollNotation(*ability.Dice)
			}
			if m.IsWeakTo(ability.ID) {
				power += r.WeaknessBonus
				out.Weakness = true
			}
			out.DamageDealt = m.ApplyDamage(Damage(power, m.Defense))
		}

	case UseItem:
		item, err := legalItem(p, a.Ref)
		if err != nil {
			return Outcome{}, err
		}
		if err := p.Inventory.Remove(item.ID, 1); err != nil {
			return Outcome{}, gameerr.Illegal("use", "you have no %s", item.Name)
		}
		out.Item = item
		if item.Escape {
			out.Escaped = true
			out.Ended = true
			out.Kind = Fled
			return out, nil
		}
		if item.FullHeal {
			out.Healed = p.HealToFull()
		} else {
			out.Healed = p.Heal(item.Heal)
		}

	case Flee:
		if stream.Chance(r.FleeChance) {
			out.Ended = true
			out.Kind = Fled
			return out, nil
		}

	default:
		return Outcome{}, gameerr.Illegal("act", "unknown action")
	}

	if !m.IsAlive() {
		out.Ended = true
		out.Kind = Victory
		return out, nil
	}

	r.counter(p, m, &out, stream)
	if !p.IsAlive() {
		out.Ended = true
		out.Kind = Defeat
	}
	return out, nil
}

// counter resolves the monster's attack on the player.
func (r Resolver) counter(p *player.Player, m *monster.Monster, out *Outcome, stream *dice.Stream) {
	out.Countered = true
	if out.Blocked {
		return
	}
	power := m.Attack
	if r.MonsterAttackVariance > 0 {
		power += stream.Intn(r.MonsterAttackVariance + 1)
	}
	out.DamageTaken = p.ApplyDamage(Damage(power, p.Armor()))
}

func legalAbility(p *player.Player, ref string) (*abilities.Ability, error) {
	ability, equipped, ok := p.FindAbility(ref)
	if !ok {
		return nil, gameerr.Illegal("use", "you don't know %q", ref)
	}
	if !equipped {
		return nil, gameerr.Illegal("use", "%s is not equipped", ability.Name)
	}
	return ability, nil
}

func legalItem(p *player.Player, ref string) (*items.Item, error) {
	item, ok := p.Inventory.Find(ref)
	if !ok || p.Inventory.Count(item.ID) == 0 {
		return nil, gameerr.Illegal("use", "you have no %q", ref)
	}
	if !item.UsableInCombat() {
		return nil, gameerr.Illegal("use", "%s can't be used in combat", item.Name)
	}
	if !item.Escape && p.Health >= p.MaxHealth {
		return nil, gameerr.Illegal("use", "you are already at full health")
	}
	return item, nil
}
