package player

import (
	"testing"

	"github.com/zenithstorm/comp645-team1-game/internal/abilities"
	"github.com/zenithstorm/comp645-team1-game/internal/gameerr"
	"github.com/zenithstorm/comp645-team1-game/internal/items"
)

// createTestPlayer creates the default starting character
func createTestPlayer(t *testing.T) *Player {
	t.Helper()
	p, err := New("tester", Stats{Health: 20, MaxHealth: 20, Attack: 5, Defense: 2}, 2, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestNewValidates(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		field string
	}{
		{"zero max health", Stats{Health: 0, MaxHealth: 0, Attack: 1}, "max_health"},
		{"negative health", Stats{Health: -1, MaxHealth: 10}, "health"},
		{"health above max", Stats{Health: 11, MaxHealth: 10}, "health"},
		{"negative attack", Stats{Health: 10, MaxHealth: 10, Attack: -1}, "attack"},
		{"negative defense", Stats{Health: 10, MaxHealth: 10, Defense: -3}, "defense"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("x", tt.stats, 1, 0)
			if !gameerr.IsInvalidStat(err) {
				t.Fatalf("expected InvalidStatError, got %v", err)
			}
			statErr := err.(*gameerr.InvalidStatError)
			if statErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", statErr.Field, tt.field)
			}
		})
	}

	if _, err := New("x", Stats{Health: 5, MaxHealth: 5}, 0, 0); !gameerr.IsInvalidStat(err) {
		t.Errorf("zero ability slots should be rejected, got %v", err)
	}
}

func TestNewStartsAtLevelOne(t *testing.T) {
	p := createTestPlayer(t)
	if p.Level != 1 || p.Experience != 0 {
		t.Errorf("expected level 1 with 0 XP, got %d/%d", p.Level, p.Experience)
	}
	if p.Inventory == nil || p.Stats == nil {
		t.Fatal("inventory and statistics must be initialised")
	}
}

func TestApplyDamageClamps(t *testing.T) {
	tests := []struct {
		name       string
		health     int
		damage     int
		wantTaken  int
		wantHealth int
	}{
		{"normal", 20, 5, 5, 15},
		{"exact kill", 5, 5, 5, 0},
		{"overkill", 3, 5, 3, 0},
		{"zero", 20, 0, 0, 20},
		{"negative", 20, -4, 0, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := createTestPlayer(t)
			p.Health = tt.health
			taken := p.ApplyDamage(tt.damage)
			if taken != tt.wantTaken {
				t.Errorf("ApplyDamage(%d) = %d, want %d", tt.damage, taken, tt.wantTaken)
			}
			if p.Health != tt.wantHealth {
				t.Errorf("Health = %d, want %d", p.Health, tt.wantHealth)
			}
		})
	}
}

func TestHealClamps(t *testing.T) {
	p := createTestPlayer(t)
	p.Health = 15

	if healed := p.Heal(10); healed != 5 {
		t.Errorf("Heal(10) = %d, want 5", healed)
	}
	if p.Health != p.MaxHealth {
		t.Errorf("Health = %d, want %d", p.Health, p.MaxHealth)
	}
	if healed := p.Heal(-3); healed != 0 {
		t.Errorf("Heal(-3) = %d, want 0", healed)
	}

	p.Health = 4
	if healed := p.HealToFull(); healed != 16 || p.Health != 20 {
		t.Errorf("HealToFull healed %d to %d", healed, p.Health)
	}
}

func TestEquipmentBonuses(t *testing.T) {
	p := createTestPlayer(t)
	helm := &items.Item{ID: "helm", Kind: items.Armor, DefenseBonus: 2, Unique: true}
	blade := &items.Item{ID: "blade", Kind: items.Weapon, AttackBonus: 3}
	potion := &items.Item{ID: "health_potion", Kind: items.Potion}

	if !p.Equip(helm) {
		t.Fatal("expected helm to be equipped")
	}
	if p.Equip(helm) {
		t.Error("unique helm should not be equipped twice")
	}
	if !p.Equip(blade) {
		t.Fatal("expected blade to be equipped")
	}
	if p.Equip(potion) {
		t.Error("potions are not equipment")
	}

	if p.Armor() != 4 {
		t.Errorf("Armor() = %d, want 4", p.Armor())
	}
	if p.Power() != 8 {
		t.Errorf("Power() = %d, want 8", p.Power())
	}
	if !p.Owns("helm") || p.Owns("health_potion") {
		t.Error("Owns reported wrong ownership")
	}
}

func TestLearnRespectsSlots(t *testing.T) {
	p := createTestPlayer(t) // 2 slots
	smite := &abilities.Ability{ID: "holy_smite"}
	bash := &abilities.Ability{ID: "shield_bash"}
	slash := &abilities.Ability{ID: "sword_slash"}

	if !p.Learn(smite) || !p.Learn(bash) {
		t.Fatal("first two abilities should be equipped")
	}
	if p.Learn(slash) {
		t.Error("third ability should not fit")
	}
	if !p.Knows("sword_slash") {
		t.Error("overflow ability should be known")
	}
	if _, ok := p.Ability("sword_slash"); ok {
		t.Error("overflow ability must not be equipped")
	}
	if p.Learn(smite) {
		t.Error("learning twice should be a no-op")
	}
	if len(p.Abilities()) != 2 || len(p.KnownAbilities()) != 1 {
		t.Errorf("equipped=%d known=%d", len(p.Abilities()), len(p.KnownAbilities()))
	}
}

func TestGoldAndKills(t *testing.T) {
	p := createTestPlayer(t)
	p.AddGold(12)
	p.AddGold(-5)
	if p.Gold != 12 || p.Stats.GoldEarned != 12 {
		t.Errorf("gold = %d, earned = %d", p.Gold, p.Stats.GoldEarned)
	}

	p.RecordKill("Giant Rat", false)
	p.RecordKill("Giant Rat", false)
	p.RecordKill("Grave Tyrant", true)
	if p.Kills != 3 || p.BossesDefeated != 1 {
		t.Errorf("kills=%d bosses=%d", p.Kills, p.BossesDefeated)
	}
	if p.Stats.TotalKills() != 3 {
		t.Errorf("TotalKills = %d", p.Stats.TotalKills())
	}
	names := p.Stats.KillNames()
	if len(names) != 2 || names[0] != "Giant Rat" {
		t.Errorf("KillNames = %v", names)
	}
}

func TestFindAbility(t *testing.T) {
	p, err := New("x", Stats{Health: 5, MaxHealth: 5}, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	p.Learn(&abilities.Ability{ID: "holy_smite", Name: "Holy Smite"})
	p.Learn(&abilities.Ability{ID: "sword_slash", Name: "Sword Slash"})

	a, equipped, ok := p.FindAbility("Holy Smite")
	if !ok || !equipped || a.ID != "holy_smite" {
		t.Errorf("FindAbility by name = %v %v %v", a, equipped, ok)
	}
	a, equipped, ok = p.FindAbility("sword slash")
	if !ok || equipped || a.ID != "sword_slash" {
		t.Errorf("known ability should resolve unequipped, got %v %v %v", a, equipped, ok)
	}
	if _, _, ok := p.FindAbility("fireball"); ok {
		t.Error("unknown ability resolved")
	}
}
