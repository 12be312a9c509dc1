package narrative

import (
	"fmt"
	"strings"
)

// systemPrompt frames every request to the model.
const systemPrompt = `You are the narrator of a dark fantasy dungeon crawler. The player is a holy knight whose gear was stolen by goblin bandits during an ambush; any armor found in the dungeon is the knight's own stolen equipment.

Rules:
- Write in second person, present tense.
- Describe only what the game state below says happened. Do not invent damage, items, or outcomes.
- Never mention numbers, hit points, or game mechanics.
- Keep it to two or three vivid sentences.`

// buildPrompt turns a Context into the user message for one request.
func buildPrompt(c Context) string {
	var b strings.Builder

	switch c.Kind {
	case KindOpening:
		b.WriteString("The knight descends into the dungeon for the first time. Set the scene.")
	case KindRoom:
		fmt.Fprintf(&b, "The knight enters a new room: %s.", orDefault(c.Theme, "a dark chamber"))
		switch {
		case c.Boss:
			b.WriteString(" This is the lair of the dungeon's master. Build dread.")
		case c.RoomType == "loot":
			b.WriteString(" Something of value lies here.")
		case c.RoomType == "monster":
			b.WriteString(" Something hostile waits here.")
		default:
			b.WriteString(" The room is empty.")
		}
	case KindMonster:
		fmt.Fprintf(&b, "A monster appears: %s.", c.Monster)
		if c.MonsterDescription != "" {
			fmt.Fprintf(&b, " Known traits: %s", c.MonsterDescription)
		}
		if c.Boss {
			b.WriteString(" It is the master of this dungeon.")
		}
		fmt.Fprintf(&b, " The surroundings: %s.", orDefault(c.Theme, "a dark chamber"))
	case KindItem:
		fmt.Fprintf(&b, "The knight finds %s.", c.Item)
		if c.ItemDescription != "" {
			fmt.Fprintf(&b, " %s", c.ItemDescription)
		}
		b.WriteString(" Describe it in one or two sentences.")
	case KindAction:
		b.WriteString(describeAction(c))
	case KindRest:
		b.WriteString("Out of danger for a moment, the knight kneels and prays. Their wounds close.")
	case KindVictory:
		fmt.Fprintf(&b, "The knight has slain %s, master of the dungeon. Narrate the triumphant end of the run.", orDefault(c.Monster, "the dungeon's master"))
	case KindDefeat:
		fmt.Fprintf(&b, "The knight has fallen to %s. Narrate the grim end of the run.", orDefault(c.Monster, "the dungeon"))
	default:
		fmt.Fprintf(&b, "Describe: %s.", c.Kind)
	}

	return b.String()
}

func describeAction(c Context) string {
	var parts []string

	switch c.Action {
	case "attack":
		parts = append(parts, fmt.Sprintf("The knight attacks the %s.", c.Monster))
	case "use_ability":
		parts = append(parts, fmt.Sprintf("The knight uses %s against the %s.", c.Ability, c.Monster))
	case "use_item":
		parts = append(parts, fmt.Sprintf("The knight uses %s.", c.Item))
	case "flee":
		parts = append(parts, fmt.Sprintf("The knight tries to flee from the %s.", c.Monster))
	}

	if c.Weakness {
		parts = append(parts, "The blow strikes the monster's weakness.")
	}
	switch {
	case c.DamageDealt >= 8:
		parts = append(parts, "It lands a heavy blow.")
	case c.DamageDealt > 0:
		parts = append(parts, "It wounds the monster.")
	case c.Action == "attack" || (c.Action == "use_ability" && !c.Blocked):
		parts = append(parts, "It glances off harmlessly.")
	}
	if c.Healed > 0 {
		parts = append(parts, "Warmth floods back into the knight's body.")
	}
	if c.Blocked {
		parts = append(parts, "The monster's counterattack is turned aside completely.")
	} else if c.DamageTaken > 0 {
		parts = append(parts, "The monster strikes back and wounds the knight.")
	}

	switch c.Result {
	case "victory":
		parts = append(parts, fmt.Sprintf("The %s falls.", c.Monster))
	case "defeat":
		parts = append(parts, "The knight collapses.")
	case "fled":
		parts = append(parts, "The knight escapes.")
	}

	return strings.Join(parts, " ")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
