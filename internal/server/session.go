// Package server runs games for connected players, one game per session,
// over the console or WebSocket.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zenithstorm/comp645-team1-game/internal/antispam"
	"github.com/zenithstorm/comp645-team1-game/internal/command"
	"github.com/zenithstorm/comp645-team1-game/internal/dungeon"
	"github.com/zenithstorm/comp645-team1-game/internal/gameerr"
	"github.com/zenithstorm/comp645-team1-game/internal/help"
	"github.com/zenithstorm/comp645-team1-game/internal/logger"
)

const welcome = "Type 'help' for a list of commands."

// prompter is implemented by clients that show an input prompt.
type prompter interface {
	Prompt(text string) error
}

// Session is one player's game over one client.
type Session struct {
	ID     string
	client Client
	game   *dungeon.Game
	help   *help.Help
	flood  *antispam.Tracker // nil means unlimited
	log    *slog.Logger
	width  int
}

// NewSession binds a game to a client. A nil h uses the built-in help.
func NewSession(client Client, game *dungeon.Game, h *help.Help) *Session {
	if h == nil {
		h = help.Default()
	}
	id := uuid.NewString()
	return &Session{
		ID:     id,
		client: client,
		game:   game,
		help:   h,
		log:    logger.With("session", id, "remote_addr", client.RemoteAddr(), "seed", game.Seed()),
		width:  command.DefaultWidth,
	}
}

// Run plays the game until it ends, the client goes away or ctx is
// cancelled. A client disconnecting is not an error.
func (s *Session) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		s.client.Close()
	})
	defer stop()

	s.log.Info("Session started")
	defer func() {
		s.log.Info("Session ended", "state", s.game.State().String())
	}()

	opening := command.Render(s.game.Start(ctx), s.width)
	if err := s.client.WriteLine(opening + "\n" + welcome); err != nil {
		return fmt.Errorf("session %s: %w", s.ID, err)
	}

	for {
		if p, ok := s.client.(prompter); ok {
			if err := p.Prompt("> "); err != nil {
				return fmt.Errorf("session %s: %w", s.ID, err)
			}
		}

		line, err := s.client.ReadLine()
		if err != nil {
			if ctx.Err() != nil || disconnected(err) {
				s.log.Debug("Client disconnected", "error", err)
				return nil
			}
			return fmt.Errorf("session %s: read: %w", s.ID, err)
		}

		reply, done := s.handle(ctx, line)
		if reply != "" {
			if err := s.client.WriteLine(reply); err != nil {
				return fmt.Errorf("session %s: write: %w", s.ID, err)
			}
		}
		if done {
			return nil
		}
	}
}

// handle runs one line of input and returns the text to send back and
// whether the game has ended.
func (s *Session) handle(ctx context.Context, line string) (string, bool) {
	parsed := command.ParseCommand(line)
	if parsed.Name == "" {
		return "", false
	}
	if result := s.flood.Check(); !result.Allowed {
		s.log.Debug("Command dropped by flood limit", "wait_seconds", result.WaitSeconds)
		return result.Reason, false
	}
	if parsed.IsHelp() {
		return s.help.GetHelpText(parsed.HelpTopic()), false
	}

	cmd, err := parsed.ToGame()
	if err != nil {
		return command.RenderError(err), false
	}

	snap, err := s.game.Handle(ctx, cmd)
	switch {
	case gameerr.IsGameOver(err):
		return "The game is over.", true
	case gameerr.IsIllegalAction(err):
		return command.RenderError(err), false
	case err != nil:
		s.log.Error("Command failed", "command", string(cmd.Kind), "error", err)
		return "Something went wrong.", false
	}

	s.log.Debug("Command handled", "command", string(cmd.Kind), "ref", cmd.Ref, "state", snap.State.String())

	switch cmd.Kind {
	case dungeon.Look:
		return command.RenderLook(snap, s.width), false
	case dungeon.Status:
		return command.RenderStatus(snap.Player), false
	}
	return command.Render(snap, s.width), snap.State.IsTerminal()
}

// disconnected reports whether err means the other side went away.
func disconnected(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, net.ErrClosed) ||
		websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}
