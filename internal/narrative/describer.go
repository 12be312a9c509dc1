// Package narrative produces flavor text for rooms, monsters, items and
// combat exchanges. Text comes from an external describer when one is
// configured and falls back to local templates otherwise. Narration never
// changes game state and its failures never reach the caller.
package narrative

import (
	"context"
	"errors"
	"strconv"
)

// ErrUnavailable is returned by a Describer that could not produce text.
var ErrUnavailable = errors.New("narrative unavailable")

// ErrBlocked means the content filter rejected generated text.
var ErrBlocked = errors.New("narrative blocked by content filter")

// Kind is what a piece of narration describes.
type Kind string

const (
	KindOpening Kind = "opening"
	KindRoom    Kind = "room"
	KindMonster Kind = "monster"
	KindItem    Kind = "item"
	KindAction  Kind = "action"
	KindRest    Kind = "rest"
	KindVictory Kind = "victory"
	KindDefeat  Kind = "defeat"
)

// Context is the structured description request. Only the fields relevant
// to Kind are set.
type Context struct {
	Kind     Kind
	Tier     int
	Theme    string
	RoomType string

	Monster            string
	MonsterDescription string
	Boss               bool

	Item            string
	ItemDescription string

	// Action is the combat action name (attack, use_item, use_ability, flee)
	// and Result its outcome (continue, victory, defeat, fled).
	Action  string
	Result  string
	Ability string

	DamageDealt int
	DamageTaken int
	Healed      int
	Weakness    bool
	Blocked     bool

	PlayerHealth    int
	PlayerMaxHealth int
}

// Describer turns a Context into text. Implementations may be slow or fail;
// failures should wrap ErrUnavailable.
type Describer interface {
	Describe(ctx context.Context, c Context) (string, error)
}

// DescriberFunc adapts a function to the Describer interface.
type DescriberFunc func(ctx context.Context, c Context) (string, error)

func (f DescriberFunc) Describe(ctx context.Context, c Context) (string, error) {
	return f(ctx, c)
}

// vars returns the template placeholders for c.
func (c Context) vars() map[string]string {
	theme := c.Theme
	if theme == "" {
		theme = "a dark chamber"
	}
	return map[string]string{
		"theme":   theme,
		"tier":    strconv.Itoa(c.Tier),
		"monster": c.Monster,
		"item":    c.Item,
		"ability": c.Ability,
		"action":  c.Action,
		"result":  c.Result,
		"dealt":   strconv.Itoa(c.DamageDealt),
		"taken":   strconv.Itoa(c.DamageTaken),
		"healed":  strconv.Itoa(c.Healed),
		"health":  strconv.Itoa(c.PlayerHealth),
		"max":     strconv.Itoa(c.PlayerMaxHealth),
	}
}

// section maps c onto a narrative.yaml section name.
func (c Context) section() string {
	switch c.Kind {
	case KindRoom:
		if c.Boss {
			return "rooms.boss"
		}
		return "rooms." + c.RoomType
	case KindMonster:
		if c.Boss {
			return "boss"
		}
		return "monster"
	case KindAction:
		return "actions." + c.Action
	}
	return string(c.Kind)
}
