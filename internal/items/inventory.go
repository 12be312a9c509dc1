package items

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInventoryFull is returned when a new stack would exceed the limit.
	ErrInventoryFull = errors.New("inventory full")

	// ErrNotEnough is returned when removing more than the stack holds.
	ErrNotEnough = errors.New("not enough items")
)

// Stack is a count of one item definition.
type Stack struct {
	Item  *Item
	Count int
}

// Inventory is an ordered collection of item stacks. Counts are always
// positive; a stack that reaches zero is removed.
type Inventory struct {
	stacks []*Stack
	limit  int
}

// NewInventory returns an empty inventory holding at most limit distinct
// stacks. limit 0 means unbounded.
func NewInventory(limit int) *Inventory {
	return &Inventory{limit: limit}
}

// Add puts n copies of item into the inventory. n <= 0 is a no-op.
func (inv *Inventory) Add(item *Item, n int) error {
	if n <= 0 {
		return nil
	}
	if s := inv.stack(item.ID); s != nil {
		s.Count += n
		return nil
	}
	if inv.limit > 0 && len(inv.stacks) >= inv.limit {
		return fmt.Errorf("add %s: %w", item.ID, ErrInventoryFull)
	}
	inv.stacks = append(inv.stacks, &Stack{Item: item, Count: n})
	return nil
}

// Remove takes n copies of the item with the given ID. If fewer than n are
// held, nothing changes and ErrNotEnough is returned.
func (inv *Inventory) Remove(id string, n int) error {
	if n <= 0 {
		return nil
	}
	for i, s := range inv.stacks {
		if s.Item.ID != id {
			continue
		}
		if s.Count < n {
			return fmt.Errorf("remove %d %s: %w", n, id, ErrNotEnough)
		}
		s.Count -= n
		if s.Count == 0 {
			inv.stacks = append(inv.stacks[:i], inv.stacks[i+1:]...)
		}
		return nil
	}
	return fmt.Errorf("remove %d %s: %w", n, id, ErrNotEnough)
}

// Count returns how many copies of the item are held.
func (inv *Inventory) Count(id string) int {
	if s := inv.stack(id); s != nil {
		return s.Count
	}
	return 0
}

// Find resolves a player's reference to a held item: exact ID, then exact
// name, then partial name match (case-insensitive).
func (inv *Inventory) Find(query string) (*Item, bool) {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return nil, false
	}
	underscored := strings.ReplaceAll(query, " ", "_")

	for _, s := range inv.stacks {
		if s.Item.ID == query || s.Item.ID == underscored {
			return s.Item, true
		}
	}
	for _, s := range inv.stacks {
		if strings.EqualFold(s.Item.Name, query) {
			return s.Item, true
		}
	}
	for _, s := range inv.stacks {
		if strings.Contains(strings.ToLower(s.Item.Name), query) {
			return s.Item, true
		}
	}
	return nil, false
}

// Stacks returns a copy of the stacks in acquisition order.
func (inv *Inventory) Stacks() []Stack {
	out := make([]Stack, len(inv.stacks))
	for i, s := range inv.stacks {
		out[i] = *s
	}
	return out
}

// Len returns the number of distinct stacks.
func (inv *Inventory) Len() int {
	return len(inv.stacks)
}

func (inv *Inventory) stack(id string) *Stack {
	for _, s := range inv.stacks {
		if s.Item.ID == id {
			return s
		}
	}
	return nil
}
