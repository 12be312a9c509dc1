// Package command turns typed lines into game commands and game snapshots
// into text.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zenithstorm/comp645-team1-game/internal/dungeon"
)

// ErrUnknownCommand is returned for a verb that is not recognised.
var ErrUnknownCommand = errors.New("unknown command")

// ErrEmpty is returned for a blank line.
var ErrEmpty = errors.New("empty command")

// Command is one parsed line of input.
type Command struct {
	Name string
	Args []string
}

// ParseCommand splits input into a lower-cased verb and its arguments.
func ParseCommand(input string) *Command {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Name: "", Args: []string{}}
	}

	return &Command{
		Name: strings.ToLower(parts[0]),
		Args: parts[1:],
	}
}

// RequireArgs checks if the command has at least the minimum number of arguments
// Returns an error with the usage message if not enough arguments are provided
func (c *Command) RequireArgs(min int, usage string) error {
	if len(c.Args) < min {
		return errors.New(usage)
	}
	return nil
}

// GetTargetName joins all arguments into a single name (for multi-word items)
func (c *Command) GetTargetName() string {
	return strings.Join(c.Args, " ")
}

// IsHelp reports whether the command asks for help rather than acting.
func (c *Command) IsHelp() bool {
	switch c.Name {
	case "help", "h", "?", "commands":
		return true
	}
	return false
}

// HelpTopic returns the topic after "help", if any.
func (c *Command) HelpTopic() string {
	return strings.ToLower(c.GetTargetName())
}

// verbs maps every accepted word to its game command.
var verbs = map[string]dungeon.CommandKind{
	"move":    dungeon.Move,
	"go":      dungeon.Move,
	"explore": dungeon.Move,
	"next":    dungeon.Move,
	"forward": dungeon.Move,
	"m":       dungeon.Move,

	"attack": dungeon.Attack,
	"a":      dungeon.Attack,
	"hit":    dungeon.Attack,
	"kill":   dungeon.Attack,
	"fight":  dungeon.Attack,

	"use":   dungeon.UseItem,
	"drink": dungeon.UseItem,
	"quaff": dungeon.UseItem,
	"read":  dungeon.UseItem,
	"u":     dungeon.UseItem,

	"ability": dungeon.UseAbility,
	"ab":      dungeon.UseAbility,
	"cast":    dungeon.UseAbility,
	"skill":   dungeon.UseAbility,

	"flee":   dungeon.Flee,
	"run":    dungeon.Flee,
	"escape": dungeon.Flee,
	"f":      dungeon.Flee,

	"rest": dungeon.Rest,
	"pray": dungeon.Rest,
	"r":    dungeon.Rest,

	"look": dungeon.Look,
	"l":    dungeon.Look,

	"status":    dungeon.Status,
	"stats":     dungeon.Status,
	"st":        dungeon.Status,
	"score":     dungeon.Status,
	"inventory": dungeon.Status,
	"inv":       dungeon.Status,
	"i":         dungeon.Status,
	"abilities": dungeon.Status,

	"quit": dungeon.Quit,
	"q":    dungeon.Quit,
	"exit": dungeon.Quit,
}

// ToGame converts the parsed line into a game command.
func (c *Command) ToGame() (dungeon.Command, error) {
	if c.Name == "" {
		return dungeon.Command{}, ErrEmpty
	}
	kind, ok := verbs[c.Name]
	if !ok {
		return dungeon.Command{}, fmt.Errorf("%w: %q (type 'help' for a list)", ErrUnknownCommand, c.Name)
	}

	cmd := dungeon.Command{Kind: kind}
	switch kind {
	case dungeon.UseItem:
		if err := c.RequireArgs(1, "Use what? (e.g. 'use health potion')"); err != nil {
			return dungeon.Command{}, err
		}
		cmd.Ref = c.GetTargetName()
	case dungeon.UseAbility:
		if err := c.RequireArgs(1, "Use which ability? (e.g. 'ability holy smite')"); err != nil {
			return dungeon.Command{}, err
		}
		cmd.Ref = c.GetTargetName()
	}
	return cmd, nil
}

// Parse parses a line straight into a game command.
func Parse(input string) (dungeon.Command, error) {
	return ParseCommand(input).ToGame()
}
