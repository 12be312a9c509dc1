package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zenithstorm/comp645-team1-game/internal/antispam"
	"github.com/zenithstorm/comp645-team1-game/internal/config"
	"github.com/zenithstorm/comp645-team1-game/internal/dungeon"
	"github.com/zenithstorm/comp645-team1-game/internal/help"
	"github.com/zenithstorm/comp645-team1-game/internal/logger"
	"github.com/zenithstorm/comp645-team1-game/internal/namefilter"
)

// GameFactory builds a fresh game for a new session. name may be empty.
type GameFactory func(name string) (*dungeon.Game, error)

// Server hosts one independent game per WebSocket connection.
type Server struct {
	cfg      config.WebSocketConfig
	newGame  GameFactory
	help     *help.Help
	names    *namefilter.NameFilter
	flood    antispam.Config
	limiter  *SessionLimiter
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]*Session

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer creates a server. Sessions are stopped by Close. A nil h uses
// the built-in help and a nil names only enforces the basic name rules.
func NewServer(cfg config.WebSocketConfig, newGame GameFactory, h *help.Help, names *namefilter.NameFilter) *Server {
	if h == nil {
		h = help.Default()
	}
	if names == nil {
		names = namefilter.New(nil)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:      cfg,
		newGame:  newGame,
		help:     h,
		names:    names,
		flood:    antispam.ConfigFromYAML(cfg.MaxCommands, cfg.CommandWindowSeconds),
		limiter:  NewSessionLimiter(cfg),
		sessions: make(map[string]*Session),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			allowed := s.cfg.IsOriginAllowed(origin, r.Host)
			if !allowed {
				logger.Warning("WebSocket connection rejected - origin not allowed",
					"origin", origin,
					"host", r.Host,
					"remote_addr", r.RemoteAddr)
			}
			return allowed
		},
	}
	return s
}

// Handler returns the HTTP routes: /ws for play and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocketUpgrade)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "ok %d\n", s.ActiveSessions())
	})
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down and ends
// every session.
func (s *Server) ListenAndServe(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("WebSocket server listening", "address", address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	logger.Info("WebSocket server stopped")
	return err
}

// Close ends all sessions and waits for them to finish.
func (s *Server) Close() {
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
}

// ActiveSessions returns the number of running games.
func (s *Server) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// handleWebSocketUpgrade upgrades an HTTP connection and plays a game on it.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := realIP(r)

	if !s.limiter.TryAcquire(clientIP) {
		logger.Warning("WebSocket connection rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP)
		http.Error(w, "Too many games in progress. Please try again later.", http.StatusTooManyRequests)
		return
	}
	defer s.limiter.Release(clientIP)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warning("WebSocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	client := NewWebSocketClient(conn, s.cfg.MaxMessageSize)
	defer client.Close()

	if err := s.Serve(client, r.URL.Query().Get("name")); err != nil {
		logger.Error("Session failed", "remote_addr", r.RemoteAddr, "error", err)
	}
}

// Serve plays one new game on client and returns when it is over. A
// rejected name ends the connection without starting a game.
func (s *Server) Serve(client Client, name string) error {
	s.mu.Lock()
	if err := s.ctx.Err(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	if name = namefilter.Clean(name); name != "" {
		if result := s.names.Check(name); !result.Allowed {
			logger.Info("Player name rejected", "name", name, "remote_addr", client.RemoteAddr())
			return client.WriteLine(result.Reason + " Please reconnect with a different name.")
		}
	}

	game, err := s.newGame(name)
	if err != nil {
		client.WriteLine("The dungeon could not be prepared. Please try again later.")
		return fmt.Errorf("new game: %w", err)
	}

	session := NewSession(client, game, s.help)
	session.flood = antispam.NewTracker(s.flood)
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.sessions, session.ID)
		s.mu.Unlock()
	}()

	return session.Run(s.ctx)
}
