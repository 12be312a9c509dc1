// Package balance is a Monte Carlo simulator for game balance. It plays
// many seeded games with a scripted player and summarises the outcomes.
package balance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/zenithstorm/comp645-team1-game/internal/dungeon"
	"github.com/zenithstorm/comp645-team1-game/internal/gameerr"
	"github.com/zenithstorm/comp645-team1-game/internal/items"
)

// Strategy is how the scripted player behaves.
type Strategy string

const (
	// Cautious prays whenever it can, drinks potions at half health,
	// rotates through its abilities and flees when nearly dead.
	Cautious Strategy = "cautious"

	// Reckless only attacks and moves on, drinking a potion at the last
	// moment.
	Reckless Strategy = "reckless"
)

// ParseStrategy validates a strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(s)) {
	case Cautious:
		return Cautious, nil
	case Reckless:
		return Reckless, nil
	}
	return "", fmt.Errorf("unknown strategy %q (want cautious or reckless)", s)
}

// DefaultMaxTurns stops a game that neither ends nor makes progress.
const DefaultMaxTurns = 5000

// Options configures a simulation.
type Options struct {
	Runs     int
	BaseSeed int64 // game i uses BaseSeed+i
	Strategy Strategy
	Workers  int // 0 or less runs one game at a time
	MaxTurns int // 0 uses DefaultMaxTurns
}

// GameResult is the outcome of one simulated game.
type GameResult struct {
	Seed     int64
	State    dungeon.State
	Turns    int
	Rooms    int
	Level    int
	Kills    int
	Flees    int
	Gold     int
	KilledBy string // monster that ended a lost game, if any
}

// Summary aggregates many games.
type Summary struct {
	Runs       int
	Wins       int
	Losses     int
	Unfinished int
	WinRate    float64 // percent

	AvgRooms float64
	AvgLevel float64
	AvgKills float64
	AvgTurns float64
	AvgGold  float64
	MinRooms int
	MaxRooms int

	DeathsBy map[string]int
}

// Killers returns the monsters that ended games, most deadly first.
func (s Summary) Killers() []string {
	names := make([]string, 0, len(s.DeathsBy))
	for name := range s.DeathsBy {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if s.DeathsBy[names[i]] != s.DeathsBy[names[j]] {
			return s.DeathsBy[names[i]] > s.DeathsBy[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// Run plays opts.Runs games and returns the summary and every result in
// seed order.
func Run(ctx context.Context, tables *dungeon.Tables, opts Options) (Summary, []GameResult, error) {
	if opts.Runs <= 0 {
		return Summary{}, nil, fmt.Errorf("runs must be positive, got %d", opts.Runs)
	}
	if opts.Strategy == "" {
		opts.Strategy = Cautious
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}

	results := make([]GameResult, opts.Runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Workers, 1))
	for i := range results {
		seed := opts.BaseSeed + int64(i)
		g.Go(func() error {
			r, err := PlayGame(ctx, tables, seed, opts.Strategy, opts.MaxTurns)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, nil, err
	}
	return Summarize(results), results, nil
}

// PlayGame plays a single game to the end or until maxTurns commands have
// been sent.
func PlayGame(ctx context.Context, tables *dungeon.Tables, seed int64, strategy Strategy, maxTurns int) (GameResult, error) {
	game, err := dungeon.New(tables, nil, dungeon.Options{PlayerName: "Bot", Seed: seed})
	if err != nil {
		return GameResult{}, err
	}

	snap := game.Start(ctx)
	result := GameResult{Seed: seed}
	var lastMonster string

	for result.Turns < maxTurns && !snap.State.IsTerminal() {
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}
		if snap.Monster != nil {
			lastMonster = snap.Monster.Name
		}

		cmd := nextCommand(snap, strategy, result.Turns)
		next, err := game.Handle(ctx, cmd)
		if gameerr.IsIllegalAction(err) {
			// Fall back to the plainest legal move.
			cmd = dungeon.Command{Kind: dungeon.Move}
			if snap.State == dungeon.InEncounter {
				cmd = dungeon.Command{Kind: dungeon.Attack}
			}
			next, err = game.Handle(ctx, cmd)
		}
		if err != nil {
			return GameResult{}, fmt.Errorf("turn %d %s: %w", result.Turns, cmd.Kind, err)
		}
		snap = next
		result.Turns++
	}

	p := snap.Player
	result.State = snap.State
	result.Rooms = p.Stats.RoomsEntered
	result.Level = p.Level
	result.Kills = p.Stats.TotalKills()
	result.Flees = p.Stats.Flees
	result.Gold = p.Gold
	if snap.State == dungeon.Lost {
		result.KilledBy = lastMonster
	}
	return result, nil
}

// nextCommand picks the scripted player's next command.
func nextCommand(s dungeon.Snapshot, strategy Strategy, turn int) dungeon.Command {
	p := s.Player
	hp := float64(p.Health) / float64(max(p.MaxHealth, 1))

	if s.State != dungeon.InEncounter {
		if strategy == Cautious {
			if p.Health < p.MaxHealth && !s.Room.Rested {
				return dungeon.Command{Kind: dungeon.Rest}
			}
			if hp < 0.5 {
				if potion := findItem(p.Inventory, (*items.Item).UsableOutOfCombat); potion != "" {
					return dungeon.Command{Kind: dungeon.UseItem, Ref: potion}
				}
			}
		}
		return dungeon.Command{Kind: dungeon.Move}
	}

	switch strategy {
	case Reckless:
		if hp < 0.2 {
			if potion := findItem(p.Inventory, isHealing); potion != "" {
				return dungeon.Command{Kind: dungeon.UseItem, Ref: potion}
			}
		}
		return dungeon.Command{Kind: dungeon.Attack}

	default:
		if hp < 0.5 {
			if potion := findItem(p.Inventory, isHealing); potion != "" {
				return dungeon.Command{Kind: dungeon.UseItem, Ref: potion}
			}
		}
		if hp < 0.25 && (s.Monster == nil || !s.Monster.Boss) {
			if scroll := findItem(p.Inventory, isEscape); scroll != "" {
				return dungeon.Command{Kind: dungeon.UseItem, Ref: scroll}
			}
			return dungeon.Command{Kind: dungeon.Flee}
		}
		if len(p.Abilities) > 0 {
			return dungeon.Command{Kind: dungeon.UseAbility, Ref: p.Abilities[turn%len(p.Abilities)]}
		}
		return dungeon.Command{Kind: dungeon.Attack}
	}
}

func isHealing(i *items.Item) bool { return i.Kind == items.Potion }

func isEscape(i *items.Item) bool { return i.Escape }

// findItem returns the name of the first carried item matching ok.
func findItem(inv []items.Stack, ok func(*items.Item) bool) string {
	for _, s := range inv {
		if s.Count > 0 && s.Item != nil && ok(s.Item) {
			return s.Item.Name
		}
	}
	return ""
}

// Summarize aggregates game results.
func Summarize(results []GameResult) Summary {
	s := Summary{Runs: len(results), DeathsBy: make(map[string]int)}
	if len(results) == 0 {
		return s
	}

	s.MinRooms = results[0].Rooms
	var rooms, levels, kills, turns, gold int
	for _, r := range results {
		switch r.State {
		case dungeon.Won:
			s.Wins++
		case dungeon.Lost:
			s.Losses++
			if r.KilledBy != "" {
				s.DeathsBy[r.KilledBy]++
			}
		default:
			s.Unfinished++
		}
		rooms += r.Rooms
		levels += r.Level
		kills += r.Kills
		turns += r.Turns
		gold += r.Gold
		s.MinRooms = min(s.MinRooms, r.Rooms)
		s.MaxRooms = max(s.MaxRooms, r.Rooms)
	}

	n := float64(len(results))
	s.WinRate = float64(s.Wins) / n * 100
	s.AvgRooms = float64(rooms) / n
	s.AvgLevel = float64(levels) / n
	s.AvgKills = float64(kills) / n
	s.AvgTurns = float64(turns) / n
	s.AvgGold = float64(gold) / n
	return s
}

// ErrNoGames is returned by Compare when given no strategies.
var ErrNoGames = errors.New("no strategies to compare")

// Compare runs the same seeds under each strategy.
func Compare(ctx context.Context, tables *dungeon.Tables, opts Options, strategies []Strategy) (map[Strategy]Summary, error) {
	if len(strategies) == 0 {
		return nil, ErrNoGames
	}
	out := make(map[Strategy]Summary, len(strategies))
	for _, st := range strategies {
		o := opts
		o.Strategy = st
		sum, _, err := Run(ctx, tables, o)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", st, err)
		}
		out[st] = sum
	}
	return out, nil
}
