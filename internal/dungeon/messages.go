package dungeon

import (
	"fmt"
	"strings"

	"github.com/zenithstorm/comp645-team1-game/internal/combat"
	"github.com/zenithstorm/comp645-team1-game/internal/monster"
)

// outcomeMessages states what an exchange did in plain numbers.
func outcomeMessages(out combat.Outcome, m *monster.Monster) []string {
	var msgs []string

	switch out.Action.Kind {
	case combat.Attack:
		if out.DamageDealt > 0 {
			msgs = append(msgs, fmt.Sprintf("You hit the %s for %d damage.", m.Name, out.DamageDealt))
		} else {
			msgs = append(msgs, fmt.Sprintf("Your attack glances off the %s.", m.Name))
		}
	case combat.UseAbility:
		name := out.Ability.Name
		switch {
		case out.DamageDealt > 0:
			msgs = append(msgs, fmt.Sprintf("You use %s on the %s for %d damage.", name, m.Name, out.DamageDealt))
		case out.Ability.DealsDamage():
			msgs = append(msgs, fmt.Sprintf("Your %s does no harm to the %s.", name, m.Name))
		default:
			msgs = append(msgs, fmt.Sprintf("You use %s.", name))
		}
		if out.Weakness {
			msgs = append(msgs, fmt.Sprintf("The %s is weak to %s!", m.Name, name))
		}
	case combat.UseItem:
		if out.Escaped {
			msgs = append(msgs, fmt.Sprintf("You use the %s and vanish from the fight.", out.Item.Name))
		} else {
			msgs = append(msgs, fmt.Sprintf("You use the %s and recover %d health.", out.Item.Name, out.Healed))
		}
	case combat.Flee:
		if out.Kind == combat.Fled {
			msgs = append(msgs, fmt.Sprintf("You escape from the %s.", m.Name))
		} else {
			msgs = append(msgs, "You fail to get away!")
		}
	}

	if out.Countered {
		if out.Blocked {
			msgs = append(msgs, fmt.Sprintf("You block the %s's attack.", m.Name))
		} else if out.DamageTaken > 0 {
			msgs = append(msgs, fmt.Sprintf("The %s hits you for %d damage.", m.Name, out.DamageTaken))
		} else {
			msgs = append(msgs, fmt.Sprintf("The %s's attack bounces off your armor.", m.Name))
		}
	}

	switch out.Kind {
	case combat.Victory:
		msgs = append(msgs, fmt.Sprintf("You defeated the %s!", m.Name))
	case combat.Defeat:
		msgs = append(msgs, fmt.Sprintf("You have been slain by the %s.", m.Name))
	}
	return msgs
}

// bonusText formats equipment bonuses as " (+2 defense)".
func bonusText(attack, defense int) string {
	var parts []string
	if attack != 0 {
		parts = append(parts, fmt.Sprintf("%+d attack", attack))
	}
	if defense != 0 {
		parts = append(parts, fmt.Sprintf("%+d defense", defense))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
