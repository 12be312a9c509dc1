package narrative

import (
	"context"
	"strings"
	"time"

	"github.com/zenithstorm/comp645-team1-game/internal/contentfilter"
	"github.com/zenithstorm/comp645-team1-game/internal/logger"
)

// DefaultTimeout bounds a describe call when none is configured.
const DefaultTimeout = 8 * time.Second

// Narrator asks the primary describer for text and falls back to templates
// on error, empty output or timeout.
type Narrator struct {
	primary  Describer
	fallback *Static
	timeout  time.Duration
	filter   *contentfilter.ContentFilter
}

// NewNarrator creates a narrator. primary may be nil, in which case only
// templates are used. A non-positive timeout uses DefaultTimeout.
func NewNarrator(primary Describer, fallback *Static, timeout time.Duration) *Narrator {
	if fallback == nil {
		fallback = NewStatic(nil)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Narrator{primary: primary, fallback: fallback, timeout: timeout}
}

// WithFilter screens the primary describer's text through f. In block mode
// a flagged text is replaced by the template.
func (n *Narrator) WithFilter(f *contentfilter.ContentFilter) *Narrator {
	n.filter = f
	return n
}

// Timeout returns the bound on a single describe call.
func (n *Narrator) Timeout() time.Duration {
	return n.timeout
}

type result struct {
	text string
	err  error
}

// Narrate returns text for c and never blocks longer than the configured
// timeout or past ctx's deadline. Once ctx is done the primary describer is
// not called at all. The result is empty only if no template covers c.
func (n *Narrator) Narrate(ctx context.Context, c Context) string {
	if n.primary == nil {
		return n.templated(ctx, c)
	}
	if err := ctx.Err(); err != nil {
		logger.Debug("Narrative skipped", "kind", string(c.Kind), "error", err)
		return n.templated(context.Background(), c)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	// The describer runs on its own goroutine so one that ignores ctx
	// still cannot hold the game past the deadline.
	done := make(chan result, 1)
	go func() {
		s, err := n.primary.Describe(ctx, c)
		done <- result{text: s, err: err}
	}()

	select {
	case r := <-done:
		if r.err == nil && strings.TrimSpace(r.text) != "" {
			checked := n.filter.Check(strings.TrimSpace(r.text))
			if !checked.Violated {
				return checked.Filtered
			}
			logger.Warning("Narration flagged by content filter", "kind", string(c.Kind), "words", checked.MatchedWords)
			if !n.filter.IsBlockMode() {
				return checked.Filtered
			}
			r.err = ErrBlocked
		}
		if r.err == nil {
			r.err = ErrUnavailable
		}
		logger.Warning("Narrative fallback", "kind", string(c.Kind), "error", r.err)
	case <-ctx.Done():
		logger.Warning("Narrative fallback", "kind", string(c.Kind), "error", ctx.Err())
	}
	return n.templated(context.Background(), c)
}

func (n *Narrator) templated(ctx context.Context, c Context) string {
	s, _ := n.fallback.Describe(ctx, c)
	return s
}
