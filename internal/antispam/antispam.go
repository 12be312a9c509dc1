// Package antispam limits how fast a session may send commands.
package antispam

import (
	"sync"
	"time"
)

// Config holds flood limit configuration
type Config struct {
	Enabled     bool          // Whether the limit is enforced
	MaxCommands int           // Max commands allowed in the time window
	TimeWindow  time.Duration // Time window for rate limiting
}

// DefaultConfig returns the limits used when none are configured
func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		MaxCommands: 20,
		TimeWindow:  10 * time.Second,
	}
}

// ConfigFromYAML creates a Config from YAML-loaded values. A zero
// maxCommands disables the limit.
func ConfigFromYAML(maxCommands, timeWindowSeconds int) Config {
	cfg := DefaultConfig()
	cfg.Enabled = maxCommands > 0
	if maxCommands > 0 {
		cfg.MaxCommands = maxCommands
	}
	if timeWindowSeconds > 0 {
		cfg.TimeWindow = time.Duration(timeWindowSeconds) * time.Second
	}
	return cfg
}

// Tracker tracks command activity for a single session
type Tracker struct {
	mu           sync.Mutex
	config       Config
	commandTimes []time.Time // Timestamps of recent commands
	now          func() time.Time
}

// NewTracker creates a new tracker with the given config
func NewTracker(config Config) *Tracker {
	return &Tracker{
		config:       config,
		commandTimes: make([]time.Time, 0, max(config.MaxCommands, 0)),
		now:          time.Now,
	}
}

// CheckResult contains the result of a flood check
type CheckResult struct {
	Allowed     bool
	Reason      string
	WaitSeconds int // How long to wait before trying again (if not allowed)
}

// Check records a command and reports whether it may run
func (t *Tracker) Check() CheckResult {
	if t == nil || !t.config.Enabled {
		return CheckResult{Allowed: true}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.cleanup(now)

	if len(t.commandTimes) >= t.config.MaxCommands {
		oldest := t.commandTimes[0]
		remaining := oldest.Add(t.config.TimeWindow).Sub(now)
		return CheckResult{
			Allowed:     false,
			Reason:      "You're sending commands too quickly. Please slow down.",
			WaitSeconds: int(remaining.Seconds()) + 1,
		}
	}

	t.commandTimes = append(t.commandTimes, now)
	return CheckResult{Allowed: true}
}

// cleanup removes timestamps outside the time window
func (t *Tracker) cleanup(now time.Time) {
	cutoff := now.Add(-t.config.TimeWindow)
	kept := t.commandTimes[:0]
	for _, ts := range t.commandTimes {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	t.commandTimes = kept
}

// Reset clears all tracking data
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.commandTimes = t.commandTimes[:0]
}
