package narrative

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/zenithstorm/comp645-team1-game/internal/contentfilter"
	"github.com/zenithstorm/comp645-team1-game/internal/logger"
	"github.com/zenithstorm/comp645-team1-game/internal/text"
)

func TestStaticCyclesVariants(t *testing.T) {
	s := NewStatic(nil)
	c := Context{Kind: KindRoom, RoomType: "empty", Theme: "a flooded crypt"}

	got, err := s.Describe(context.Background(), c)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if !strings.Contains(got, "a flooded crypt") {
		t.Errorf("expected theme in %q", got)
	}
	if strings.Contains(got, "{") {
		t.Errorf("unrendered placeholder in %q", got)
	}
}

func TestStaticSections(t *testing.T) {
	s := NewStatic(text.Default())
	tests := []struct {
		name string
		ctx  Context
		want string
	}{
		{"monster", Context{Kind: KindMonster, Monster: "Giant Rat"}, "Giant Rat"},
		{"boss", Context{Kind: KindMonster, Monster: "Grave Tyrant", Boss: true}, "Grave Tyrant"},
		{"boss room", Context{Kind: KindRoom, RoomType: "monster", Boss: true}, "lair"},
		{"attack", Context{Kind: KindAction, Action: "attack", Monster: "Wraith", DamageDealt: 4}, "4 damage"},
		{"item", Context{Kind: KindItem, Item: "Health Potion"}, "Health Potion"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := s.Describe(context.Background(), tt.ctx)
			if !strings.Contains(got, tt.want) {
				t.Errorf("Describe = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestNarratorWithoutPrimaryUsesTemplates(t *testing.T) {
	n := NewNarrator(nil, nil, 0)
	got := n.Narrate(context.Background(), Context{Kind: KindOpening})
	if got == "" {
		t.Error("expected template text")
	}
}

func TestNarratorUsesPrimary(t *testing.T) {
	primary := DescriberFunc(func(ctx context.Context, c Context) (string, error) {
		return "  The rat hisses.  ", nil
	})
	n := NewNarrator(primary, nil, time.Second)

	if got := n.Narrate(context.Background(), Context{Kind: KindMonster, Monster: "Giant Rat"}); got != "The rat hisses." {
		t.Errorf("Narrate = %q", got)
	}
}

func TestNarratorFallsBackOnError(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf, "text", "WARN")
	defer logger.Discard()

	primary := DescriberFunc(func(ctx context.Context, c Context) (string, error) {
		return "", ErrUnavailable
	})
	n := NewNarrator(primary, nil, time.Second)

	got := n.Narrate(context.Background(), Context{Kind: KindMonster, Monster: "Wraith"})
	if !strings.Contains(got, "Wraith") {
		t.Errorf("expected fallback text naming the monster, got %q", got)
	}
	if !strings.Contains(buf.String(), "Narrative fallback") {
		t.Errorf("expected a warning to be logged, got %q", buf.String())
	}
}

func TestNarratorContentFilter(t *testing.T) {
	logger.Discard()
	primary := DescriberFunc(func(ctx context.Context, c Context) (string, error) {
		return "The Wraith spills gore across the floor.", nil
	})
	words := []string{"gore"}

	tests := []struct {
		name   string
		filter *contentfilter.ContentFilter
		want   string
	}{
		{"no filter", nil, "The Wraith spills gore across the floor."},
		{"replace", contentfilter.New(&contentfilter.Config{Enabled: true, Mode: contentfilter.ModeReplace, BannedWords: words}),
			"The Wraith spills **** across the floor."},
		{"disabled", contentfilter.New(&contentfilter.Config{Enabled: false, BannedWords: words}),
			"The Wraith spills gore across the floor."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNarrator(primary, nil, time.Second).WithFilter(tt.filter)
			if got := n.Narrate(context.Background(), Context{Kind: KindMonster, Monster: "Wraith"}); got != tt.want {
				t.Errorf("Narrate = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("block", func(t *testing.T) {
		block := contentfilter.New(&contentfilter.Config{Enabled: true, Mode: contentfilter.ModeBlock, BannedWords: words})
		n := NewNarrator(primary, nil, time.Second).WithFilter(block)
		got := n.Narrate(context.Background(), Context{Kind: KindMonster, Monster: "Wraith"})
		if strings.Contains(got, "gore") || !strings.Contains(got, "Wraith") {
			t.Errorf("expected template text instead of the blocked narration, got %q", got)
		}
	})
}

func TestNarratorFallsBackOnEmptyText(t *testing.T) {
	logger.Discard()
	primary := DescriberFunc(func(ctx context.Context, c Context) (string, error) {
		return "   ", nil
	})
	n := NewNarrator(primary, nil, time.Second)

	if got := n.Narrate(context.Background(), Context{Kind: KindRest}); strings.TrimSpace(got) == "" {
		t.Error("expected fallback for blank narration")
	}
}

func TestNarratorTimeout(t *testing.T) {
	logger.Discard()
	release := make(chan struct{})
	defer close(release)

	// Ignores ctx entirely
	primary := DescriberFunc(func(ctx context.Context, c Context) (string, error) {
		<-release
		return "too late", nil
	})
	n := NewNarrator(primary, nil, 20*time.Millisecond)

	start := time.Now()
	got := n.Narrate(context.Background(), Context{Kind: KindRoom, RoomType: "loot"})
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Narrate blocked for %v", elapsed)
	}
	if got == "too late" || got == "" {
		t.Errorf("expected fallback text, got %q", got)
	}
}

func TestNarratorSkipsPrimaryAfterDeadline(t *testing.T) {
	logger.Discard()
	called := false
	primary := DescriberFunc(func(ctx context.Context, c Context) (string, error) {
		called = true
		return "should not be used", nil
	})
	n := NewNarrator(primary, nil, time.Second)
	if n.Timeout() != time.Second {
		t.Errorf("Timeout() = %v, want 1s", n.Timeout())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := n.Narrate(ctx, Context{Kind: KindRoom, RoomType: "empty", Theme: "a cold vault"})
	if called {
		t.Error("primary describer called with a finished context")
	}
	if !strings.Contains(got, "a cold vault") {
		t.Errorf("expected template text, got %q", got)
	}
}

func TestNarratorFallbackCoversAllKinds(t *testing.T) {
	logger.Discard()
	primary := DescriberFunc(func(ctx context.Context, c Context) (string, error) {
		return "", errors.New("connection refused")
	})
	n := NewNarrator(primary, NewStatic(nil), time.Second)

	for _, k := range []Kind{KindOpening, KindRoom, KindMonster, KindItem, KindAction, KindRest, KindVictory, KindDefeat} {
		if got := n.Narrate(context.Background(), Context{Kind: k, RoomType: "empty", Action: "attack"}); got == "" {
			t.Errorf("no fallback text for %s", k)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	tests := []struct {
		name string
		ctx  Context
		want []string
	}{
		{"room", Context{Kind: KindRoom, RoomType: "loot", Theme: "a ruined chapel"}, []string{"a ruined chapel", "value"}},
		{"boss room", Context{Kind: KindRoom, Boss: true}, []string{"lair"}},
		{"monster", Context{Kind: KindMonster, Monster: "Skeleton", MonsterDescription: "rattling bones"}, []string{"Skeleton", "rattling bones"}},
		{"weakness", Context{Kind: KindAction, Action: "use_ability", Ability: "Holy Smite", Monster: "Wraith", DamageDealt: 12, Weakness: true}, []string{"Holy Smite", "weakness", "heavy blow"}},
		{"block", Context{Kind: KindAction, Action: "use_ability", Ability: "Shield Wall", Monster: "Rat", Blocked: true}, []string{"turned aside"}},
		{"victory", Context{Kind: KindAction, Action: "attack", Monster: "Rat", DamageDealt: 3, Result: "victory"}, []string{"Rat falls"}},
		{"defeat", Context{Kind: KindDefeat, Monster: "Grave Tyrant"}, []string{"Grave Tyrant"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildPrompt(tt.ctx)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("prompt %q missing %q", got, w)
				}
			}
		})
	}
}
