package combat

import (
	"math"
	"testing"

	"github.com/zenithstorm/comp645-team1-game/internal/abilities"
	"github.com/zenithstorm/comp645-team1-game/internal/dice"
	"github.com/zenithstorm/comp645-team1-game/internal/gameerr"
	"github.com/zenithstorm/comp645-team1-game/internal/items"
	"github.com/zenithstorm/comp645-team1-game/internal/monster"
	"github.com/zenithstorm/comp645-team1-game/internal/player"
)

var (
	healthPotion = &items.Item{ID: "health_potion", Name: "Health Potion", Kind: items.Potion, FullHeal: true}
	smallPotion  = &items.Item{ID: "small_potion", Name: "Small Potion", Kind: items.Potion, Heal: 4}
	escapeScroll = &items.Item{ID: "escape_scroll", Name: "Escape Scroll", Kind: items.Scroll, Escape: true}
	helm         = &items.Item{ID: "helm", Name: "Helm", Kind: items.Armor, DefenseBonus: 2}
)

// exact has no variance so expected numbers are fixed
var exact = Resolver{FleeChance: 0.5, MonsterAttackVariance: 0, WeaknessBonus: 5}

func newPlayer(t *testing.T, health, max, attack, defense int) *player.Player {
	t.Helper()
	p, err := player.New("tester", player.Stats{Health: health, MaxHealth: max, Attack: attack, Defense: defense}, 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func newMonster(t *testing.T, health, attack, defense int) *monster.Monster {
	t.Helper()
	m, err := monster.New("Skeleton", monster.Stats{Health: health, MaxHealth: health, Attack: attack, Defense: defense})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestAttackScenario(t *testing.T) {
	p := newPlayer(t, 20, 20, 5, 2)
	m := newMonster(t, 10, 4, 1)

	out, err := exact.Resolve(p, m, Action{Kind: Attack}, dice.New(1))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.DamageDealt != 4 {
		t.Errorf("DamageDealt = %d, want 4", out.DamageDealt)
	}
	if m.Health != 6 {
		t.Errorf("monster health = %d, want 6", m.Health)
	}
	if out.Ended || out.Kind != Continue {
		t.Errorf("encounter should continue, got %v", out.Kind)
	}
	if !out.Countered {
		t.Error("monster should counter")
	}
	if out.DamageTaken != 2 || p.Health != 18 {
		t.Errorf("counter dealt %d, player health %d", out.DamageTaken, p.Health)
	}
}

func TestDefeatScenario(t *testing.T) {
	p := newPlayer(t, 3, 20, 1, 0)
	m := newMonster(t, 30, 5, 5)

	out, err := exact.Resolve(p, m, Action{Kind: Attack}, dice.New(1))
	if err != nil {
		t.Fatal(err)
	}
	if p.Health != 0 {
		t.Errorf("player health = %d, want 0", p.Health)
	}
	if out.DamageTaken != 3 {
		t.Errorf("DamageTaken = %d, want the clamped 3", out.DamageTaken)
	}
	if !out.Ended || out.Kind != Defeat {
		t.Errorf("expected defeat, got %v", out.Kind)
	}

	_, err = exact.Resolve(p, m, Action{Kind: Attack}, dice.New(1))
	if !gameerr.IsIllegalAction(err) {
		t.Errorf("dead player acting should be illegal, got %v", err)
	}
}

func TestDamageFormula(t *testing.T) {
	tests := []struct {
		power, defense, want int
	}{
		{5, 1, 4},
		{5, 5, 0},
		{2, 7, 0},
		{0, 0, 0},
	}
	for _, tt := range tests {
		if got := Damage(tt.power, tt.defense); got != tt.want {
			t.Errorf("Damage(%d, %d) = %d, want %d", tt.power, tt.defense, got, tt.want)
		}
	}
}

func TestAttackDamageProperty(t *testing.T) {
	stream := dice.New(77)
	for power := 0; power <= 10; power++ {
		for defense := 0; defense <= 10; defense++ {
			p := newPlayer(t, 50, 50, power, 0)
			m := newMonster(t, 100, 0, defense)
			out, err := exact.Resolve(p, m, Action{Kind: Attack}, stream)
			if err != nil {
				t.Fatal(err)
			}
			want := 0
			if power > defense {
				want = power - defense
			}
			if out.DamageDealt != want {
				t.Fatalf("power %d vs defense %d dealt %d, want %d", power, defense, out.DamageDealt, want)
			}
			if m.Health < 0 || m.Health > m.MaxHealth || p.Health < 0 || p.Health > p.MaxHealth {
				t.Fatal("health left its bounds")
			}
		}
	}
}

func TestVictoryHasNoCounter(t *testing.T) {
	p := newPlayer(t, 20, 20, 10, 0)
	m := newMonster(t, 5, 9, 0)

	out, err := exact.Resolve(p, m, Action{Kind: Attack}, dice.New(1))
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != Victory || !out.Ended {
		t.Fatalf("expected victory, got %v", out.Kind)
	}
	if out.Countered || out.DamageTaken != 0 || p.Health != 20 {
		t.Error("defeated monster must not counter")
	}
	if out.DamageDealt != 5 {
		t.Errorf("overkill should be clamped to 5, got %d", out.DamageDealt)
	}
}

func TestArmorReducesCounter(t *testing.T) {
	p := newPlayer(t, 20, 20, 1, 1)
	p.Equip(helm)
	m := newMonster(t, 50, 6, 0)

	out, _ := exact.Resolve(p, m, Action{Kind: Attack}, dice.New(1))
	if out.DamageTaken != 3 {
		t.Errorf("DamageTaken = %d, want 6-(1+2)=3", out.DamageTaken)
	}
}

func TestCounterVarianceBounds(t *testing.T) {
	r := Resolver{MonsterAttackVariance: 2}
	stream := dice.New(9)
	for i := 0; i < 200; i++ {
		p := newPlayer(t, 50, 50, 0, 0)
		m := newMonster(t, 50, 4, 0)
		out, _ := r.Resolve(p, m, Action{Kind: Attack}, stream)
		if out.DamageTaken < 4 || out.DamageTaken > 6 {
			t.Fatalf("counter %d outside [4, 6]", out.DamageTaken)
		}
	}
}

func TestAbilityDamageAndWeakness(t *testing.T) {
	smite := &abilities.Ability{ID: "holy_smite", Name: "Holy Smite", Effect: abilities.EffectDamage, Power: 6}
	slash := &abilities.Ability{ID: "sword_slash", Name: "Sword Slash", Effect: abilities.EffectDamage, Power: 8}

	p := newPlayer(t, 20, 20, 5, 0)
	p.Learn(smite)
	p.Learn(slash)

	m := newMonster(t, 100, 0, 1)
	m.Weaknesses = []string{"holy_smite"}

	out, err := exact.Resolve(p, m, Action{Kind: UseAbility, Ref: "holy_smite"}, dice.New(1))
	if err != nil {
		t.Fatal(err)
	}
	if out.DamageDealt != 15 || !out.Weakness {
		t.Errorf("smite dealt %d (weakness %v), want 5+6+5-1=15", out.DamageDealt, out.Weakness)
	}

	out, err = exact.Resolve(p, m, Action{Kind: UseAbility, Ref: "Sword Slash"}, dice.New(1))
	if err != nil {
		t.Fatal(err)
	}
	if out.DamageDealt != 12 || out.Weakness {
		t.Errorf("slash dealt %d (weakness %v), want 5+8-1=12", out.DamageDealt, out.Weakness)
	}
	if out.Ability != slash {
		t.Error("outcome should record the ability")
	}
}

func TestGuaranteedBlock(t *testing.T) {
	wall := &abilities.Ability{ID: "shield_wall", Name: "Shield Wall", Effect: abilities.EffectBlock}
	p := newPlayer(t, 20, 20, 5, 0)
	p.Learn(wall)
	m := newMonster(t, 30, 50, 0)

	out, err := exact.Resolve(p, m, Action{Kind: UseAbility, Ref: "shield_wall"}, dice.New(1))
	if err != nil {
		t.Fatal(err)
	}
	if !out.Blocked || !out.Countered {
		t.Errorf("expected a blocked counter, got %+v", out)
	}
	if out.DamageTaken != 0 || p.Health != 20 {
		t.Errorf("blocked counter still dealt %d", out.DamageTaken)
	}
	if out.DamageDealt != 0 || m.Health != 30 {
		t.Error("pure block should not damage the monster")
	}
}

func TestIllegalAbility(t *testing.T) {
	p := newPlayer(t, 20, 20, 5, 0)
	p2, _ := player.New("y", player.Stats{Health: 20, MaxHealth: 20, Attack: 5}, 1, 0)
	p2.Learn(&abilities.Ability{ID: "holy_smite", Name: "Holy Smite"})
	p2.Learn(&abilities.Ability{ID: "sword_slash", Name: "Sword Slash"})
	m := newMonster(t, 30, 5, 0)
	stream := dice.New(1)

	if _, err := exact.Resolve(p, m, Action{Kind: UseAbility, Ref: "fireball"}, stream); !gameerr.IsIllegalAction(err) {
		t.Errorf("unknown ability: got %v", err)
	}
	if _, err := exact.Resolve(p2, m, Action{Kind: UseAbility, Ref: "sword_slash"}, stream); !gameerr.IsIllegalAction(err) {
		t.Errorf("unequipped ability: got %v", err)
	}
	if m.Health != 30 || p.Health != 20 || p2.Health != 20 {
		t.Error("illegal action changed state")
	}
	if stream.Draws() != 0 {
		t.Errorf("illegal action consumed %d draws", stream.Draws())
	}
}

func TestPotionHealsThenCounter(t *testing.T) {
	p := newPlayer(t, 5, 20, 5, 0)
	_ = p.Inventory.Add(healthPotion, 1)
	m := newMonster(t, 30, 3, 0)

	out, err := exact.Resolve(p, m, Action{Kind: UseItem, Ref: "health potion"}, dice.New(1))
	if err != nil {
		t.Fatal(err)
	}
	if out.Healed != 15 {
		t.Errorf("Healed = %d, want 15", out.Healed)
	}
	if out.DamageDealt != 0 || m.Health != 30 {
		t.Error("potion must not damage the monster")
	}
	if out.DamageTaken != 3 || p.Health != 17 {
		t.Errorf("counter after potion: took %d, health %d", out.DamageTaken, p.Health)
	}
	if p.Inventory.Count("health_potion") != 0 {
		t.Error("potion not consumed")
	}
}

func TestPartialPotion(t *testing.T) {
	p := newPlayer(t, 18, 20, 5, 0)
	_ = p.Inventory.Add(smallPotion, 1)
	m := newMonster(t, 30, 0, 0)

	out, _ := exact.Resolve(p, m, Action{Kind: UseItem, Ref: "small_potion"}, dice.New(1))
	if out.Healed != 2 {
		t.Errorf("Healed = %d, want clamped 2", out.Healed)
	}
}

func TestIllegalItemUse(t *testing.T) {
	p := newPlayer(t, 20, 20, 5, 0)
	_ = p.Inventory.Add(healthPotion, 1)
	_ = p.Inventory.Add(helm, 1)
	m := newMonster(t, 30, 5, 0)

	tests := []struct {
		name string
		ref  string
	}{
		{"missing", "escape_scroll"},
		{"not usable", "helm"},
		{"full health", "health_potion"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := exact.Resolve(p, m, Action{Kind: UseItem, Ref: tt.ref}, dice.New(1))
			if !gameerr.IsIllegalAction(err) {
				t.Errorf("expected IllegalActionError, got %v", err)
			}
		})
	}
	if p.Inventory.Count("health_potion") != 1 || m.Health != 30 || p.Health != 20 {
		t.Error("illegal item use changed state")
	}
}

func TestEscapeScrollGuaranteesFlee(t *testing.T) {
	r := Resolver{FleeChance: 0}
	p := newPlayer(t, 20, 20, 5, 0)
	_ = p.Inventory.Add(escapeScroll, 1)
	m := newMonster(t, 30, 9, 0)

	out, err := r.Resolve(p, m, Action{Kind: UseItem, Ref: "escape scroll"}, dice.New(1))
	if err != nil {
		t.Fatal(err)
	}
	if out.Kind != Fled || !out.Ended || !out.Escaped {
		t.Errorf("expected guaranteed flee, got %+v", out)
	}
	if out.Countered || p.Health != 20 {
		t.Error("escape must not allow a counter")
	}
	if p.Inventory.Count("escape_scroll") != 0 {
		t.Error("scroll not consumed")
	}
}

func TestFleeFailureAllowsCounter(t *testing.T) {
	r := Resolver{FleeChance: 0}
	p := newPlayer(t, 20, 20, 5, 0)
	m := newMonster(t, 30, 4, 0)

	out, _ := r.Resolve(p, m, Action{Kind: Flee}, dice.New(1))
	if out.Ended || out.Kind != Continue {
		t.Fatalf("flee with chance 0 succeeded")
	}
	if !out.Countered || out.DamageTaken != 4 {
		t.Errorf("failed flee should be countered, took %d", out.DamageTaken)
	}
	if out.DamageDealt != 0 {
		t.Error("fleeing deals no damage")
	}
}

func TestFleeSuccessEndsWithoutCounter(t *testing.T) {
	r := Resolver{FleeChance: 1}
	p := newPlayer(t, 20, 20, 5, 0)
	m := newMonster(t, 30, 4, 0)

	out, _ := r.Resolve(p, m, Action{Kind: Flee}, dice.New(1))
	if out.Kind != Fled || out.Countered || p.Health != 20 {
		t.Errorf("expected clean flee, got %+v", out)
	}
}

func TestFleeRateConverges(t *testing.T) {
	r := Resolver{FleeChance: 0.5}
	stream := dice.New(20240601)

	const trials = 10000
	fled := 0
	for i := 0; i < trials; i++ {
		p := newPlayer(t, 100, 100, 0, 100)
		m := newMonster(t, 10, 0, 0)
		out, err := r.Resolve(p, m, Action{Kind: Flee}, stream)
		if err != nil {
			t.Fatal(err)
		}
		if out.Kind == Fled {
			fled++
		}
	}
	rate := float64(fled) / trials
	// Four standard deviations of a fair coin over 10k trials is 0.02
	if math.Abs(rate-0.5) > 0.02 {
		t.Errorf("flee rate = %.4f, want 0.5 +/- 0.02", rate)
	}
}

func TestDeadMonsterIsIllegalTarget(t *testing.T) {
	p := newPlayer(t, 20, 20, 5, 0)
	m := newMonster(t, 5, 0, 0)
	m.ApplyDamage(5)

	if _, err := exact.Resolve(p, m, Action{Kind: Attack}, dice.New(1)); !gameerr.IsIllegalAction(err) {
		t.Errorf("expected IllegalActionError, got %v", err)
	}
}
