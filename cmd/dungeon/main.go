package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/zenithstorm/comp645-team1-game/internal/config"
	"github.com/zenithstorm/comp645-team1-game/internal/contentfilter"
	"github.com/zenithstorm/comp645-team1-game/internal/dice"
	"github.com/zenithstorm/comp645-team1-game/internal/dungeon"
	"github.com/zenithstorm/comp645-team1-game/internal/help"
	"github.com/zenithstorm/comp645-team1-game/internal/logger"
	"github.com/zenithstorm/comp645-team1-game/internal/namefilter"
	"github.com/zenithstorm/comp645-team1-game/internal/narrative"
	"github.com/zenithstorm/comp645-team1-game/internal/server"
	"github.com/zenithstorm/comp645-team1-game/internal/text"
)

func main() {
	// Parse command-line flags
	configFile := flag.String("config", "data/balance.yaml", "Path to balance config YAML file")
	itemsFile := flag.String("items", "data/items.yaml", "Path to items YAML file")
	monstersFile := flag.String("monsters", "data/monsters.yaml", "Path to monsters YAML file")
	abilitiesFile := flag.String("abilities", "data/abilities.yaml", "Path to abilities YAML file")
	lootFile := flag.String("loot", "data/loot.yaml", "Path to loot tables YAML file")
	textFile := flag.String("text", "data/narrative.yaml", "Path to narrative text YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	helpFile := flag.String("help", "", "Path to help YAML file (default: built-in help)")
	nameFilterFile := flag.String("names", "data/name_filter.yaml", "Path to player name filter YAML file")
	contentFilterFile := flag.String("filter", "data/content_filter.yaml", "Path to narration content filter YAML file")
	seed := flag.Int64("seed", 0, "Game seed (default: random). With -ws every session after the first gets a fresh seed")
	wsAddr := flag.String("ws", "", "Serve browser play over WebSocket on this address (e.g. :8080) instead of the console")
	offline := flag.Bool("offline", false, "Never call the language model; use template narration only")
	name := flag.String("name", "", "Name of your knight")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, err := logger.LoadConfig(*loggingConfig)
	if err != nil {
		log.Printf("Failed to load logging config, using defaults: %v", err)
	}
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	tables, err := dungeon.LoadTables(dungeon.Paths{
		Config:    *configFile,
		Items:     *itemsFile,
		Monsters:  *monstersFile,
		Abilities: *abilitiesFile,
		Loot:      *lootFile,
	})
	if err != nil {
		log.Fatalf("Failed to load game data: %v", err)
	}
	logger.Info("Game data loaded",
		"items", tables.Items.Len(),
		"monsters", tables.Monsters.Len(),
		"abilities", len(tables.Abilities.All()))

	// Load text system
	texts, err := text.Load(*textFile)
	if err != nil {
		logger.Warning("Failed to load narrative text, using fallback text", "path", *textFile, "error", err)
		texts = text.Default()
	}

	helpText := help.Default()
	if *helpFile != "" {
		if helpText, err = help.Load(*helpFile); err != nil {
			logger.Warning("Failed to load help, using built-in help", "path", *helpFile, "error", err)
			helpText = help.Default()
		}
	}

	// Load name filter config
	var nameFilter *namefilter.NameFilter
	if nfConfig, err := namefilter.LoadConfig(*nameFilterFile); err != nil {
		logger.Warning("Failed to load name filter config, only basic name rules apply", "path", *nameFilterFile, "error", err)
		nameFilter = namefilter.New(nil)
	} else {
		nameFilter = namefilter.New(nfConfig)
		logger.Info("Name filter loaded", "enabled", nameFilter.IsEnabled())
	}

	*name = namefilter.Clean(*name)
	if *name != "" {
		if result := nameFilter.Check(*name); !result.Allowed {
			log.Fatalf("Invalid -name: %s", result.Reason)
		}
	}

	narrativeCfg, err := config.LoadNarrativeConfig()
	if err != nil {
		log.Fatalf("Failed to load narrative config: %v", err)
	}
	useModel := narrativeCfg.Enabled() && !*offline
	var contentFilter *contentfilter.ContentFilter
	if useModel {
		logger.Info("Narrative model enabled", "model", narrativeCfg.Model, "timeout", narrativeCfg.Timeout)

		if cfConfig, err := contentfilter.LoadConfig(*contentFilterFile); err != nil {
			logger.Warning("Failed to load content filter config, model narration is unfiltered", "path", *contentFilterFile, "error", err)
		} else {
			contentFilter = contentfilter.New(cfConfig)
			logger.Info("Content filter loaded", "enabled", contentFilter.IsEnabled(), "mode", string(contentFilter.Mode()))
		}
	} else {
		logger.Info("Narrative model disabled, using templates")
	}

	var firstSeed atomic.Int64
	firstSeed.Store(*seed)
	newGame := func(playerName string) (*dungeon.Game, error) {
		s := firstSeed.Swap(0)
		if s == 0 {
			fresh, err := dice.NewSeed()
			if err != nil {
				return nil, err
			}
			s = fresh
		}

		var primary narrative.Describer
		if useModel {
			d, err := narrative.NewOpenAIDescriber(narrativeCfg)
			if err != nil {
				return nil, err
			}
			primary = d
		}
		narrator := narrative.NewNarrator(primary, narrative.NewStatic(texts), narrativeCfg.Timeout).WithFilter(contentFilter)

		if playerName == "" {
			playerName = *name
		}
		return dungeon.New(tables, narrator, dungeon.Options{PlayerName: playerName, Seed: s})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *wsAddr != "" {
		srv := server.NewServer(tables.Config.WebSocket, newGame, helpText, nameFilter)
		if len(tables.Config.WebSocket.AllowedOrigins) == 0 {
			logger.Info("WebSocket CORS policy", "mode", "same-origin")
		} else {
			logger.Info("WebSocket CORS policy", "allowed_origins", tables.Config.WebSocket.AllowedOrigins)
		}
		if err := srv.ListenAndServe(ctx, *wsAddr); err != nil {
			log.Fatalf("WebSocket server error: %v", err)
		}
		return
	}

	game, err := newGame("")
	if err != nil {
		log.Fatalf("Failed to start game: %v", err)
	}
	client := server.NewConsoleClient(os.Stdin, os.Stdout)
	if err := server.NewSession(client, game, helpText).Run(ctx); err != nil {
		log.Fatalf("Game error: %v", err)
	}
}
