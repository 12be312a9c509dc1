// Package gameerr defines the error taxonomy shared by the engine packages.
//
// InvalidStatError is raised while building entities and is fatal at startup.
// IllegalActionError and GameOverError are returned by command handling and
// leave the game unchanged; callers surface them to the player.
package gameerr

import (
	"errors"
	"fmt"
)

// InvalidStatError reports an entity constructed with an impossible stat.
type InvalidStatError struct {
	Entity string // "player", "monster", ...
	Field  string
	Value  int
}

func (e *InvalidStatError) Error() string {
	return fmt.Sprintf("invalid %s stat %s=%d", e.Entity, e.Field, e.Value)
}

// IllegalActionError reports a command that is not legal in the current state.
type IllegalActionError struct {
	Action string
	Reason string
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("cannot %s: %s", e.Action, e.Reason)
}

// GameOverError is returned for any command issued after the game ended.
type GameOverError struct {
	State string
}

func (e *GameOverError) Error() string {
	return fmt.Sprintf("game is over (%s)", e.State)
}

// Illegal builds an IllegalActionError.
func Illegal(action, format string, args ...any) error {
	return &IllegalActionError{Action: action, Reason: fmt.Sprintf(format, args...)}
}

// IsIllegalAction reports whether err is or wraps an IllegalActionError.
func IsIllegalAction(err error) bool {
	var target *IllegalActionError
	return errors.As(err, &target)
}

// IsGameOver reports whether err is or wraps a GameOverError.
func IsGameOver(err error) bool {
	var target *GameOverError
	return errors.As(err, &target)
}

// IsInvalidStat reports whether err is or wraps an InvalidStatError.
func IsInvalidStat(err error) bool {
	var target *InvalidStatError
	return errors.As(err, &target)
}
