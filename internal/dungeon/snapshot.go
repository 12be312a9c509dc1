package dungeon

import (
	"github.com/zenithstorm/comp645-team1-game/internal/combat"
	"github.com/zenithstorm/comp645-team1-game/internal/items"
	"github.com/zenithstorm/comp645-team1-game/internal/monster"
	"github.com/zenithstorm/comp645-team1-game/internal/player"
)

// Snapshot is a renderable copy of the game after a command. It shares no
// mutable state with the game.
type Snapshot struct {
	State           State
	Room            Room
	RoomDescription string

	Player  PlayerView
	Monster *MonsterView // nil outside an encounter

	// LastOutcome is the combat exchange resolved by this command, if any.
	LastOutcome *combat.Outcome

	// Messages are the mechanical results of the command, Narration the
	// flavor text requested after it was applied.
	Messages  []string
	Narration []string
}

// PlayerView is the player as shown to the user.
type PlayerView struct {
	Name       string
	Health     int
	MaxHealth  int
	Attack     int
	Defense    int
	Power      int
	Armor      int
	Level      int
	Experience int
	NextLevel  int // total XP for the next level, 0 at the cap
	Gold       int

	Kills          int
	BossesDefeated int

	Inventory []items.Stack
	Equipment []string
	Abilities []string
	Known     []string

	Stats player.Statistics
}

// MonsterView is the current opponent.
type MonsterView struct {
	Name        string
	Description string
	Tier        int
	Boss        bool
	Health      int
	MaxHealth   int
	Attack      int
	Defense     int
}

func viewPlayer(p *player.Player, nextLevel int) PlayerView {
	v := PlayerView{
		Name:           p.Name,
		Health:         p.Health,
		MaxHealth:      p.MaxHealth,
		Attack:         p.Attack,
		Defense:        p.Defense,
		Power:          p.Power(),
		Armor:          p.Armor(),
		Level:          p.Level,
		Experience:     p.Experience,
		NextLevel:      nextLevel,
		Gold:           p.Gold,
		Kills:          p.Kills,
		BossesDefeated: p.BossesDefeated,
		Inventory:      p.Inventory.Stacks(),
		Stats:          *p.Stats,
	}
	v.Stats.MobKills = make(map[string]int, len(p.Stats.MobKills))
	for name, n := range p.Stats.MobKills {
		v.Stats.MobKills[name] = n
	}
	for _, it := range p.Equipment {
		v.Equipment = append(v.Equipment, it.Name)
	}
	for _, a := range p.Abilities() {
		v.Abilities = append(v.Abilities, a.Name)
	}
	for _, a := range p.KnownAbilities() {
		v.Known = append(v.Known, a.Name)
	}
	return v
}

func viewMonster(m *monster.Monster) *MonsterView {
	if m == nil {
		return nil
	}
	return &MonsterView{
		Name:        m.Name,
		Description: m.Description,
		Tier:        m.Tier,
		Boss:        m.Boss,
		Health:      m.Health,
		MaxHealth:   m.MaxHealth,
		Attack:      m.Attack,
		Defense:     m.Defense,
	}
}
