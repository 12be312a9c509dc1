// Package loot rolls weighted drop tables.
package loot

import (
	"errors"
	"fmt"
	"os"

	"github.com/zenithstorm/comp645-team1-game/internal/dice"
	"github.com/zenithstorm/comp645-team1-game/internal/items"
	"gopkg.in/yaml.v3"
)

// ErrUnknownTable is returned when rolling a table that was never loaded.
var ErrUnknownTable = errors.New("unknown loot table")

// Entry is one weighted outcome of a table. An entry with Item set drops that
// item; one with Pick set drops one of the listed items chosen uniformly; one
// with GoldMax set drops gold; anything else drops nothing.
type Entry struct {
	Weight  float64  `yaml:"weight"`
	Item    string   `yaml:"item,omitempty"`
	Pick    []string `yaml:"pick,omitempty"`
	GoldMin int      `yaml:"gold_min,omitempty"`
	GoldMax int      `yaml:"gold_max,omitempty"`
}

// IsNothing reports whether the entry drops nothing.
func (e Entry) IsNothing() bool {
	return e.Item == "" && len(e.Pick) == 0 && e.GoldMax <= 0
}

// Table is a named drop table.
type Table struct {
	Rolls int `yaml:"rolls"`

	// Guaranteed tables always yield at least one drop while any droppable
	// entry remains.
	Guaranteed bool    `yaml:"guaranteed"`
	Entries    []Entry `yaml:"entries"`
}

// Drop is the result of a single roll.
type Drop struct {
	Item *items.Item
	Gold int
}

// Owner is what a roll needs to know about the player to exclude unique
// items already owned.
type Owner interface {
	Owns(itemID string) bool
}

type tablesFile struct {
	Tables map[string]*Table `yaml:"loot_tables"`
}

// Generator rolls loot tables against an item catalog.
type Generator struct {
	tables  map[string]*Table
	catalog *items.Catalog
}

// NewGenerator checks every referenced item exists in the catalog.
func NewGenerator(tables map[string]*Table, catalog *items.Catalog) (*Generator, error) {
	for name, t := range tables {
		if t == nil {
			return nil, fmt.Errorf("loot table %s is empty", name)
		}
		if t.Rolls <= 0 {
			t.Rolls = 1
		}
		for i, e := range t.Entries {
			if e.Weight < 0 {
				return nil, fmt.Errorf("loot table %s entry %d: negative weight", name, i)
			}
			if e.GoldMin < 0 || e.GoldMax < e.GoldMin {
				return nil, fmt.Errorf("loot table %s entry %d: bad gold range [%d, %d]", name, i, e.GoldMin, e.GoldMax)
			}
			refs := e.Pick
			if e.Item != "" {
				refs = append([]string{e.Item}, refs...)
			}
			for _, id := range refs {
				if _, ok := catalog.Get(id); !ok {
					return nil, fmt.Errorf("loot table %s entry %d: unknown item %q", name, i, id)
				}
			}
		}
	}
	return &Generator{tables: tables, catalog: catalog}, nil
}

// LoadGenerator reads loot tables from a YAML file.
func LoadGenerator(filename string, catalog *items.Catalog) (*Generator, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read loot file: %w", err)
	}
	var file tablesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse loot YAML: %w", err)
	}
	return NewGenerator(file.Tables, catalog)
}

// Has reports whether a table exists.
func (g *Generator) Has(name string) bool {
	_, ok := g.tables[name]
	return ok
}

// AlwaysDrops reports whether rolling the named table can never come up
// empty: it must be guaranteed and hold a weighted gold entry or an item
// that is not unique, since unique items may already be owned.
func (g *Generator) AlwaysDrops(name string) bool {
	t, ok := g.tables[name]
	if !ok || !t.Guaranteed {
		return false
	}
	for _, e := range t.Entries {
		if e.Weight <= 0 {
			continue
		}
		if e.GoldMax > 0 {
			return true
		}
		for _, it := range g.available(e, func(string) bool { return true }) {
			if !it.Unique {
				return true
			}
		}
	}
	return false
}

// Roll rolls the named table. Each roll takes one uniform draw mapped onto
// the cumulative weights (plus one more to choose within a pick entry).
// Unique items the owner already holds, or that dropped earlier in this
// call, are excluded and their weight goes to nothing.
func (g *Generator) Roll(name string, owner Owner, stream *dice.Stream) ([]Drop, error) {
	t, ok := g.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}

	dropped := make(map[string]bool)
	owns := func(id string) bool {
		if dropped[id] {
			return true
		}
		return owner != nil && owner.Owns(id)
	}

	var drops []Drop
	for i := 0; i < t.Rolls; i++ {
		if d, ok := g.rollOnce(t, owns, false, stream); ok {
			drops = append(drops, d)
			if d.Item != nil && d.Item.Unique {
				dropped[d.Item.ID] = true
			}
		}
	}

	if len(drops) == 0 && t.Guaranteed {
		if d, ok := g.rollOnce(t, owns, true, stream); ok {
			drops = append(drops, d)
		}
	}
	return drops, nil
}

func (g *Generator) rollOnce(t *Table, owns func(string) bool, skipNothing bool, stream *dice.Stream) (Drop, bool) {
	// One extra slot at the end collects weight from excluded entries.
	weights := make([]float64, len(t.Entries)+1)
	choices := make([][]*items.Item, len(t.Entries))

	for i, e := range t.Entries {
		if e.IsNothing() {
			if !skipNothing {
				weights[i] = e.Weight
			}
			continue
		}
		if e.GoldMax > 0 {
			weights[i] = e.Weight
			continue
		}
		available := g.available(e, owns)
		if len(available) == 0 {
			if !skipNothing {
				weights[len(t.Entries)] += e.Weight
			}
			continue
		}
		choices[i] = available
		weights[i] = e.Weight
	}

	idx := stream.Weighted(weights)
	if idx < 0 || idx == len(t.Entries) {
		return Drop{}, false
	}

	e := t.Entries[idx]
	switch {
	case e.GoldMax > 0:
		return Drop{Gold: stream.Between(e.GoldMin, e.GoldMax)}, true
	case choices[idx] != nil:
		pool := choices[idx]
		if len(pool) == 1 {
			return Drop{Item: pool[0]}, true
		}
		return Drop{Item: pool[stream.Intn(len(pool))]}, true
	default:
		return Drop{}, false
	}
}

func (g *Generator) available(e Entry, owns func(string) bool) []*items.Item {
	ids := e.Pick
	if e.Item != "" {
		ids = []string{e.Item}
	}
	var out []*items.Item
	for _, id := range ids {
		it, ok := g.catalog.Get(id)
		if !ok {
			continue
		}
		if it.Unique && owns(id) {
			continue
		}
		out = append(out, it)
	}
	return out
}
