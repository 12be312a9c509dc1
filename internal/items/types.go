package items

// Kind represents the category of an item
type Kind int

const (
	Misc Kind = iota
	Potion
	Scroll
	Armor
	Weapon
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case Potion:
		return "potion"
	case Scroll:
		return "scroll"
	case Armor:
		return "armor"
	case Weapon:
		return "weapon"
	case Misc:
		return "misc"
	default:
		return "unknown"
	}
}

// ParseKind converts a string to a Kind
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "potion":
		return Potion, true
	case "scroll":
		return Scroll, true
	case "armor":
		return Armor, true
	case "weapon":
		return Weapon, true
	case "misc":
		return Misc, true
	default:
		return Misc, false
	}
}

// IsEquipment returns true for kinds that are worn on pickup rather than carried
func (k Kind) IsEquipment() bool {
	return k == Armor || k == Weapon
}

// IsConsumable returns true for kinds that are used up from the inventory
func (k Kind) IsConsumable() bool {
	return k == Potion || k == Scroll
}
