// balance is a Monte Carlo simulator for testing dungeon balance.
//
// Usage:
//
//	balance [command] [options]
//
// Commands:
//
//	run      - Play many games with one scripted strategy
//	compare  - Play the same seeds with every strategy
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/zenithstorm/comp645-team1-game/internal/dice"
	"github.com/zenithstorm/comp645-team1-game/internal/dungeon"
	"github.com/zenithstorm/comp645-team1-game/internal/logger"
	"github.com/zenithstorm/comp645-team1-game/utilities/balance"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "run":
		err = runSim(ctx, os.Args[2:])
	case "compare":
		err = runCompare(ctx, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Dungeon Balance Simulator

A Monte Carlo simulator for testing game balance. Games are played by a
scripted knight against the real game tables.

Usage: balance <command> [options]

Commands:
  run       Play many games with one strategy
  compare   Play the same seeds with every strategy

Examples:
  balance run -runs=5000 -strategy=cautious
  balance run -config=data/balance.yaml -seed=42 -runs=200
  balance compare -runs=2000 -workers=8`)
}

// simFlags are the options shared by every command.
type simFlags struct {
	paths   dungeon.Paths
	runs    *int
	seed    *int64
	workers *int
	turns   *int
	verbose *bool
}

func addSimFlags(fs *flag.FlagSet) *simFlags {
	f := &simFlags{}
	fs.StringVar(&f.paths.Config, "config", "data/balance.yaml", "Path to balance config YAML file")
	fs.StringVar(&f.paths.Items, "items", "data/items.yaml", "Path to items YAML file")
	fs.StringVar(&f.paths.Monsters, "monsters", "data/monsters.yaml", "Path to monsters YAML file")
	fs.StringVar(&f.paths.Abilities, "abilities", "data/abilities.yaml", "Path to abilities YAML file")
	fs.StringVar(&f.paths.Loot, "loot", "data/loot.yaml", "Path to loot tables YAML file")
	f.runs = fs.Int("runs", 1000, "Number of games to play")
	f.seed = fs.Int64("seed", 0, "Seed of the first game (default: random)")
	f.workers = fs.Int("workers", 4, "Games played in parallel")
	f.turns = fs.Int("max-turns", balance.DefaultMaxTurns, "Give up on a game after this many commands")
	f.verbose = fs.Bool("v", false, "Show game logs")
	return f
}

func (f *simFlags) setup() (*dungeon.Tables, balance.Options, error) {
	if *f.verbose {
		logger.SetOutput(os.Stderr, "text", "DEBUG")
	} else {
		logger.Discard()
	}

	tables, err := dungeon.LoadTables(f.paths)
	if err != nil {
		return nil, balance.Options{}, err
	}

	seed := *f.seed
	if seed == 0 {
		if seed, err = dice.NewSeed(); err != nil {
			return nil, balance.Options{}, err
		}
	}
	return tables, balance.Options{
		Runs:     *f.runs,
		BaseSeed: seed,
		Workers:  *f.workers,
		MaxTurns: *f.turns,
	}, nil
}

func runSim(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	f := addSimFlags(fs)
	strategy := fs.String("strategy", string(balance.Cautious), "Scripted player: cautious or reckless")
	fs.Parse(args)

	tables, opts, err := f.setup()
	if err != nil {
		return err
	}
	if opts.Strategy, err = balance.ParseStrategy(*strategy); err != nil {
		return err
	}

	fmt.Println("=== Dungeon Run Simulation ===")
	fmt.Printf("Strategy: %s | Games: %s | Seeds: %d..%d\n\n",
		opts.Strategy, humanize.Comma(int64(opts.Runs)), opts.BaseSeed, opts.BaseSeed+int64(opts.Runs)-1)

	start := time.Now()
	sum, _, err := balance.Run(ctx, tables, opts)
	if err != nil {
		return err
	}
	printSummary(sum)
	fmt.Println()
	assessBalance(sum.WinRate)
	fmt.Printf("\nFinished in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}

func runCompare(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	f := addSimFlags(fs)
	fs.Parse(args)

	tables, opts, err := f.setup()
	if err != nil {
		return err
	}

	strategies := []balance.Strategy{balance.Cautious, balance.Reckless}
	results, err := balance.Compare(ctx, tables, opts, strategies)
	if err != nil {
		return err
	}

	fmt.Println("=== Strategy Comparison ===")
	fmt.Printf("Games per strategy: %s\n\n", humanize.Comma(int64(opts.Runs)))
	fmt.Println("Strategy  | Win Rate | Avg Rooms | Avg Level | Avg Kills | Avg Gold")
	fmt.Println("----------|----------|-----------|-----------|-----------|---------")
	for _, st := range strategies {
		s := results[st]
		fmt.Printf("%-9s | %7.1f%% | %9.1f | %9.1f | %9.1f | %8.1f\n",
			st, s.WinRate, s.AvgRooms, s.AvgLevel, s.AvgKills, s.AvgGold)
	}
	return nil
}

func printSummary(s balance.Summary) {
	fmt.Printf("Results (%s games):\n", humanize.Comma(int64(s.Runs)))
	fmt.Printf("  Win Rate:   %.1f%% (%s wins, %s losses, %d unfinished)\n",
		s.WinRate, humanize.Comma(int64(s.Wins)), humanize.Comma(int64(s.Losses)), s.Unfinished)
	fmt.Printf("  Avg Rooms:  %.1f (min: %d, max: %d)\n", s.AvgRooms, s.MinRooms, s.MaxRooms)
	fmt.Printf("  Avg Level:  %.2f\n", s.AvgLevel)
	fmt.Printf("  Avg Kills:  %.1f\n", s.AvgKills)
	fmt.Printf("  Avg Turns:  %.1f\n", s.AvgTurns)
	fmt.Printf("  Avg Gold:   %.1f\n", s.AvgGold)

	if killers := s.Killers(); len(killers) > 0 {
		fmt.Println("  Deaths by:")
		for _, name := range killers {
			n := s.DeathsBy[name]
			fmt.Printf("    %-20s %s (%.1f%%)\n", name, humanize.Comma(int64(n)), float64(n)/float64(s.Losses)*100)
		}
	}
}

func assessBalance(winRate float64) {
	var assessment string
	switch {
	case winRate < 30:
		assessment = "TOO HARD"
	case winRate < 50:
		assessment = "CHALLENGING"
	case winRate < 70:
		assessment = "BALANCED"
	case winRate < 85:
		assessment = "EASY"
	default:
		assessment = "TOO EASY"
	}

	// Color-code if stdout is a terminal
	color := ""
	reset := ""
	if isTerminal() {
		switch assessment {
		case "TOO HARD", "TOO EASY":
			color = "\033[31m" // Red
		case "CHALLENGING", "EASY":
			color = "\033[33m" // Yellow
		case "BALANCED":
			color = "\033[32m" // Green
		}
		reset = "\033[0m"
	}

	fmt.Printf("Assessment: %s%s%s\n", color, assessment, reset)
}

func isTerminal() bool {
	if strings.Contains(os.Getenv("TERM"), "dumb") {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
