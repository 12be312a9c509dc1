package dungeon

// State is where the game is in its lifecycle.
type State int

const (
	Exploring State = iota
	InEncounter
	Won
	Lost
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case Exploring:
		return "exploring"
	case InEncounter:
		return "in_encounter"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further command is accepted.
func (s State) IsTerminal() bool {
	return s == Won || s == Lost
}

// Room is the room the player is standing in.
type Room struct {
	Index int // 0 is the entrance
	Type  string
	Theme string
	Tier  int
	Boss  bool

	// Rested is set once the player prayed here.
	Rested bool
}

// CommandKind names a player command.
type CommandKind string

const (
	Move       CommandKind = "move"
	Attack     CommandKind = "attack"
	UseItem    CommandKind = "use_item"
	UseAbility CommandKind = "use_ability"
	Flee       CommandKind = "flee"
	Rest       CommandKind = "rest"
	Look       CommandKind = "look"
	Status     CommandKind = "status"
	Quit       CommandKind = "quit"
)

// Command is one discrete player command. Ref names the item or ability for
// UseItem and UseAbility.
type Command struct {
	Kind CommandKind
	Ref  string
}
