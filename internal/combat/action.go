package combat

import (
	"github.com/zenithstorm/comp645-team1-game/internal/abilities"
	"github.com/zenithstorm/comp645-team1-game/internal/items"
)

// ActionKind is what the player chose to do this turn.
type ActionKind int

const (
	Attack ActionKind = iota
	UseItem
	UseAbility
	Flee
)

// String returns the command name of the action
func (k ActionKind) String() string {
	switch k {
	case Attack:
		return "attack"
	case UseItem:
		return "use_item"
	case UseAbility:
		return "use_ability"
	case Flee:
		return "flee"
	default:
		return "unknown"
	}
}

// Action is one player choice. Ref names the item or ability for UseItem
// and UseAbility.
type Action struct {
	Kind ActionKind
	Ref  string
}

// OutcomeKind is how the exchange left the encounter.
type OutcomeKind int

const (
	Continue OutcomeKind = iota
	Victory
	Defeat
	Fled
)

// String returns the string representation of an OutcomeKind
func (k OutcomeKind) String() string {
	switch k {
	case Continue:
		return "continue"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	case Fled:
		return "fled"
	default:
		return "unknown"
	}
}

// Outcome records what one exchange did. Amounts are what was actually
// applied after clamping.
type Outcome struct {
	Action  Action
	Item    *items.Item
	Ability *abilities.Ability

	DamageDealt int
	DamageTaken int
	Healed      int

	// Countered is true when the monster took its turn.
	Countered bool
	Blocked   bool
	Weakness  bool

	// Escaped is true when an item guaranteed the flee.
	Escaped bool

	Ended bool
	Kind  OutcomeKind
}
