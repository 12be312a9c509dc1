package items

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestItem(id, name string, kind Kind) *Item {
	return &Item{ID: id, Name: name, Kind: kind}
}

func TestInventoryAddAndCount(t *testing.T) {
	inv := NewInventory(0)
	potion := newTestItem("health_potion", "Health Potion", Potion)

	if err := inv.Add(potion, 2); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := inv.Add(potion, 1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got := inv.Count("health_potion"); got != 3 {
		t.Errorf("Count = %d, want 3", got)
	}
	if inv.Len() != 1 {
		t.Errorf("Len = %d, want 1 stack", inv.Len())
	}
	if err := inv.Add(potion, 0); err != nil {
		t.Errorf("Add(0) should be a no-op, got %v", err)
	}
	if err := inv.Add(potion, -4); err != nil || inv.Count("health_potion") != 3 {
		t.Errorf("Add(-4) changed the count to %d (err %v)", inv.Count("health_potion"), err)
	}
}

func TestInventoryRemove(t *testing.T) {
	inv := NewInventory(0)
	potion := newTestItem("health_potion", "Health Potion", Potion)
	scroll := newTestItem("escape_scroll", "Escape Scroll", Scroll)
	_ = inv.Add(potion, 1)
	_ = inv.Add(scroll, 1)

	if err := inv.Remove("health_potion", 1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if inv.Count("health_potion") != 0 {
		t.Error("expected potion stack to be gone")
	}
	if inv.Len() != 1 {
		t.Errorf("empty stacks should be dropped, Len = %d", inv.Len())
	}

	err := inv.Remove("health_potion", 1)
	if !errors.Is(err, ErrNotEnough) {
		t.Errorf("expected ErrNotEnough, got %v", err)
	}

	err = inv.Remove("escape_scroll", 2)
	if !errors.Is(err, ErrNotEnough) {
		t.Errorf("expected ErrNotEnough, got %v", err)
	}
	if inv.Count("escape_scroll") != 1 {
		t.Errorf("failed removal must not change the count, got %d", inv.Count("escape_scroll"))
	}
}

func TestInventoryLimit(t *testing.T) {
	inv := NewInventory(1)
	potion := newTestItem("health_potion", "Health Potion", Potion)
	scroll := newTestItem("escape_scroll", "Escape Scroll", Scroll)

	if err := inv.Add(potion, 1); err != nil {
		t.Fatal(err)
	}
	if err := inv.Add(potion, 5); err != nil {
		t.Errorf("stacking onto an existing stack should not hit the limit: %v", err)
	}
	if err := inv.Add(scroll, 1); !errors.Is(err, ErrInventoryFull) {
		t.Errorf("expected ErrInventoryFull, got %v", err)
	}
}

func TestInventoryFind(t *testing.T) {
	inv := NewInventory(0)
	_ = inv.Add(newTestItem("health_potion", "Health Potion", Potion), 1)
	_ = inv.Add(newTestItem("escape_scroll", "Escape Scroll", Scroll), 1)

	tests := []struct {
		query string
		want  string
		found bool
	}{
		{"health_potion", "health_potion", true},
		{"health potion", "health_potion", true},
		{"ESCAPE SCROLL", "escape_scroll", true},
		{"scroll", "escape_scroll", true},
		{"pot", "health_potion", true},
		{"sword", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			item, ok := inv.Find(tt.query)
			if ok != tt.found {
				t.Fatalf("Find(%q) found = %v, want %v", tt.query, ok, tt.found)
			}
			if ok && item.ID != tt.want {
				t.Errorf("Find(%q) = %s, want %s", tt.query, item.ID, tt.want)
			}
		})
	}
}

func TestInventoryStacksIsCopy(t *testing.T) {
	inv := NewInventory(0)
	_ = inv.Add(newTestItem("health_potion", "Health Potion", Potion), 2)

	stacks := inv.Stacks()
	stacks[0].Count = 99

	if inv.Count("health_potion") != 2 {
		t.Error("mutating Stacks() result leaked into the inventory")
	}
}

func TestUsability(t *testing.T) {
	tests := []struct {
		item      *Item
		inCombat  bool
		outCombat bool
	}{
		{&Item{Kind: Potion, FullHeal: true}, true, true},
		{&Item{Kind: Scroll, Escape: true}, true, false},
		{&Item{Kind: Scroll}, false, false},
		{&Item{Kind: Armor, DefenseBonus: 2}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.item.Kind.String(), func(t *testing.T) {
			if got := tt.item.UsableInCombat(); got != tt.inCombat {
				t.Errorf("UsableInCombat = %v, want %v", got, tt.inCombat)
			}
			if got := tt.item.UsableOutOfCombat(); got != tt.outCombat {
				t.Errorf("UsableOutOfCombat = %v, want %v", got, tt.outCombat)
			}
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.yaml")
	content := `items:
  health_potion:
    name: Health Potion
    kind: potion
    full_heal: true
  helm:
    kind: armor
    defense_bonus: 2
    unique: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if catalog.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", catalog.Len())
	}
	if ids := catalog.IDs(); ids[0] != "health_potion" || ids[1] != "helm" {
		t.Errorf("IDs not sorted: %v", ids)
	}

	helm, ok := catalog.Get("helm")
	if !ok {
		t.Fatal("helm missing")
	}
	if helm.Name != "helm" {
		t.Errorf("name should default from id, got %q", helm.Name)
	}
	if !helm.Unique || helm.DefenseBonus != 2 || !helm.Kind.IsEquipment() {
		t.Errorf("helm decoded wrong: %+v", helm)
	}
}

func TestParseCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad kind", "items:\n  x:\n    kind: food\n"},
		{"negative heal", "items:\n  x:\n    kind: potion\n    heal: -1\n"},
		{"malformed", "items: [oops"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
