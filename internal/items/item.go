package items

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Item is an immutable item definition. Inventories hold counts of these,
// never modified copies.
type Item struct {
	ID          string // key from items.yaml (e.g., "health_potion")
	Name        string
	Description string
	Kind        Kind
	Tier        int

	// Consumable effects
	Heal     int  // hit points restored
	FullHeal bool // restores to max regardless of Heal
	Escape   bool // ends the encounter as a guaranteed flee

	// Equipment bonuses, applied once on pickup
	AttackBonus  int
	DefenseBonus int

	// Unique items drop at most once per run
	Unique bool
}

// UsableInCombat reports whether the item can be used during an encounter.
func (i *Item) UsableInCombat() bool {
	return i.Kind == Potion || (i.Kind == Scroll && i.Escape)
}

// UsableOutOfCombat reports whether the item does anything while exploring.
func (i *Item) UsableOutOfCombat() bool {
	return i.Kind == Potion
}

// definition is the YAML shape of an item
type definition struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Kind         string `yaml:"kind"`
	Tier         int    `yaml:"tier,omitempty"`
	Heal         int    `yaml:"heal,omitempty"`
	FullHeal     bool   `yaml:"full_heal,omitempty"`
	Escape       bool   `yaml:"escape,omitempty"`
	AttackBonus  int    `yaml:"attack_bonus,omitempty"`
	DefenseBonus int    `yaml:"defense_bonus,omitempty"`
	Unique       bool   `yaml:"unique,omitempty"`
}

type itemsFile struct {
	Items map[string]definition `yaml:"items"`
}

// Catalog is the set of item definitions known to the game.
type Catalog struct {
	byID map[string]*Item
	ids  []string
}

// NewCatalog builds a catalog from already constructed items.
func NewCatalog(list ...*Item) *Catalog {
	c := &Catalog{byID: make(map[string]*Item, len(list))}
	for _, it := range list {
		c.byID[it.ID] = it
		c.ids = append(c.ids, it.ID)
	}
	sort.Strings(c.ids)
	return c
}

// LoadCatalog reads item definitions from a YAML file.
func LoadCatalog(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read items file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses item definitions from YAML bytes.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file itemsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse items YAML: %w", err)
	}

	list := make([]*Item, 0, len(file.Items))
	for id, def := range file.Items {
		kind, ok := ParseKind(def.Kind)
		if !ok {
			return nil, fmt.Errorf("item %s: unknown kind %q", id, def.Kind)
		}
		if def.Heal < 0 || def.AttackBonus < 0 || def.DefenseBonus < 0 {
			return nil, fmt.Errorf("item %s: effects must not be negative", id)
		}
		name := def.Name
		if name == "" {
			name = strings.ReplaceAll(id, "_", " ")
		}
		list = append(list, &Item{
			ID:           id,
			Name:         name,
			Description:  def.Description,
			Kind:         kind,
			Tier:         def.Tier,
			Heal:         def.Heal,
			FullHeal:     def.FullHeal,
			Escape:       def.Escape,
			AttackBonus:  def.AttackBonus,
			DefenseBonus: def.DefenseBonus,
			Unique:       def.Unique,
		})
	}
	return NewCatalog(list...), nil
}

// Get returns the item with the given ID.
func (c *Catalog) Get(id string) (*Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// IDs returns every item ID in sorted order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.ids)
}
