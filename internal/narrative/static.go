package narrative

import (
	"context"
	"sync"

	"github.com/zenithstorm/comp645-team1-game/internal/text"
)

// Static describes from local templates. It never fails and cycles through
// the variants of each section in order, so it does not touch the game's
// random stream.
type Static struct {
	text *text.Text

	mu   sync.Mutex
	next map[string]int
}

// NewStatic creates a template describer. A nil text uses the built-in
// strings.
func NewStatic(t *text.Text) *Static {
	if t == nil {
		t = text.Default()
	}
	return &Static{text: t, next: make(map[string]int)}
}

// Describe renders the next variant for c.
func (s *Static) Describe(_ context.Context, c Context) (string, error) {
	section := c.section()

	s.mu.Lock()
	n := s.next[section]
	s.next[section] = n + 1
	s.mu.Unlock()

	return text.Render(s.text.Pick(section, n), c.vars()), nil
}
