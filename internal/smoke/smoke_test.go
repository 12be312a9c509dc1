package smoke

import (
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/zenithstorm/comp645-team1-game/internal/dungeon"
	"github.com/zenithstorm/comp645-team1-game/internal/logger"
	"github.com/zenithstorm/comp645-team1-game/internal/namefilter"
	"github.com/zenithstorm/comp645-team1-game/internal/server"
)

func startServer(t *testing.T) string {
	t.Helper()
	logger.Discard()

	tables, err := dungeon.LoadTables(dungeon.Paths{
		Config:    "../../data/balance.yaml",
		Items:     "../../data/items.yaml",
		Monsters:  "../../data/monsters.yaml",
		Abilities: "../../data/abilities.yaml",
		Loot:      "../../data/loot.yaml",
	})
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}
	nfConfig, err := namefilter.LoadConfig("../../data/name_filter.yaml")
	if err != nil {
		t.Fatalf("namefilter.LoadConfig: %v", err)
	}

	var seed atomic.Int64
	newGame := func(name string) (*dungeon.Game, error) {
		return dungeon.New(tables, nil, dungeon.Options{PlayerName: name, Seed: seed.Add(1)})
	}
	srv := server.NewServer(tables.Config.WebSocket, newGame, nil, namefilter.New(nfConfig))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func TestScenarios(t *testing.T) {
	for _, r := range RunAllTests(startServer(t)) {
		if !r.Passed {
			t.Errorf("%s: %s", r.Name, r.Message)
		}
	}
}

func TestCounterToLetters(t *testing.T) {
	tests := map[uint64]string{0: "a", 1: "a", 2: "b", 26: "z", 27: "aa", 28: "ab", 52: "az", 53: "ba"}
	for n, want := range tests {
		if got := counterToLetters(n); got != want {
			t.Errorf("counterToLetters(%d) = %q, want %q", n, got, want)
		}
	}
}
