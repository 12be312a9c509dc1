package dungeon

import (
	"fmt"

	"github.com/zenithstorm/comp645-team1-game/internal/abilities"
	"github.com/zenithstorm/comp645-team1-game/internal/config"
	"github.com/zenithstorm/comp645-team1-game/internal/items"
	"github.com/zenithstorm/comp645-team1-game/internal/loot"
	"github.com/zenithstorm/comp645-team1-game/internal/monster"
)

// RoomLootTable is the loot table rolled in loot rooms.
const RoomLootTable = "room"

// Tables is the static data a game is built from. It is loaded once at
// startup and shared read-only by every game.
type Tables struct {
	Config    *config.GameConfig
	Items     *items.Catalog
	Monsters  *monster.Bestiary
	Loot      *loot.Generator
	Abilities *abilities.Registry
}

// Paths names the data files LoadTables reads.
type Paths struct {
	Config    string
	Items     string
	Monsters  string
	Abilities string
	Loot      string
}

// LoadTables reads and cross-checks every data file.
func LoadTables(p Paths) (*Tables, error) {
	cfg, err := config.LoadConfig(p.Config)
	if err != nil {
		return nil, err
	}
	catalog, err := items.LoadCatalog(p.Items)
	if err != nil {
		return nil, err
	}
	bestiary, err := monster.LoadBestiary(p.Monsters, cfg.Monsters)
	if err != nil {
		return nil, err
	}
	registry, err := abilities.LoadRegistry(p.Abilities)
	if err != nil {
		return nil, err
	}
	gen, err := loot.LoadGenerator(p.Loot, catalog)
	if err != nil {
		return nil, err
	}

	t := &Tables{
		Config:    cfg,
		Items:     catalog,
		Monsters:  bestiary,
		Loot:      gen,
		Abilities: registry,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that the tables refer to each other consistently.
func (t *Tables) Validate() error {
	if t.Config == nil || t.Items == nil || t.Monsters == nil || t.Loot == nil || t.Abilities == nil {
		return fmt.Errorf("tables: every table must be loaded")
	}
	for _, id := range t.Config.Player.StartingItems {
		if _, ok := t.Items.Get(id); !ok {
			return fmt.Errorf("tables: starting item %q is not in the catalog", id)
		}
	}
	for _, id := range t.Config.Player.StartingAbilities {
		if _, ok := t.Abilities.Get(id); !ok {
			return fmt.Errorf("tables: starting ability %q is not defined", id)
		}
	}
	for _, id := range t.Monsters.IDs() {
		m, _ := t.Monsters.Template(id)
		switch {
		case m.LootTable == "":
			return fmt.Errorf("tables: monster %s has no loot table", id)
		case !t.Loot.Has(m.LootTable):
			return fmt.Errorf("tables: monster loot table %q is not defined", m.LootTable)
		case m.Boss && !t.Loot.AlwaysDrops(m.LootTable):
			return fmt.Errorf("tables: boss %s loot table %q must be guaranteed and able to drop gold or a non-unique item", id, m.LootTable)
		}
	}
	if hasRoomType(t.Config.Rooms, config.RoomLoot) && !t.Loot.Has(RoomLootTable) {
		return fmt.Errorf("tables: loot rooms are enabled but loot table %q is not defined", RoomLootTable)
	}
	return nil
}

func hasRoomType(r config.RoomConfig, roomType string) bool {
	for _, w := range r.Weights {
		if w.Type == roomType && w.Weight > 0 {
			return true
		}
	}
	return false
}
