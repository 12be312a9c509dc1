// Package dungeon runs one game: rooms, encounters and the win/loss state
// machine. A Game handles one command at a time; narration is requested only
// after a command's effects are applied.
package dungeon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/zenithstorm/comp645-team1-game/internal/combat"
	"github.com/zenithstorm/comp645-team1-game/internal/config"
	"github.com/zenithstorm/comp645-team1-game/internal/dice"
	"github.com/zenithstorm/comp645-team1-game/internal/gameerr"
	"github.com/zenithstorm/comp645-team1-game/internal/leveling"
	"github.com/zenithstorm/comp645-team1-game/internal/logger"
	"github.com/zenithstorm/comp645-team1-game/internal/loot"
	"github.com/zenithstorm/comp645-team1-game/internal/monster"
	"github.com/zenithstorm/comp645-team1-game/internal/narrative"
	"github.com/zenithstorm/comp645-team1-game/internal/player"
)

// DefaultPlayerName is used when Options leaves the name empty.
const DefaultPlayerName = "Knight"

const entranceTheme = "the dungeon entrance"

// Options configures a new game.
type Options struct {
	PlayerName string
	Seed       int64
	Logger     *slog.Logger // defaults to the package logger tagged with the seed
}

// Game is a single run. It owns its player, its monster and its random
// stream; nothing is shared with other games except the read-only tables.
type Game struct {
	mu sync.Mutex

	tables   *Tables
	resolver combat.Resolver
	curve    leveling.Curve
	narrator *narrative.Narrator
	stream   *dice.Stream
	log      *slog.Logger

	player      *player.Player
	monster     *monster.Monster
	room        Room
	state       State
	description string
}

// turn collects what one command did, for the snapshot and for narration.
type turn struct {
	outcome   *combat.Outcome
	messages  []string
	narration []narrative.Context
}

func (t *turn) say(format string, args ...any) {
	t.messages = append(t.messages, fmt.Sprintf(format, args...))
}

func (t *turn) narrate(c narrative.Context) {
	t.narration = append(t.narration, c)
}

// New creates a game at the dungeon entrance. A nil narrator uses templates
// only. It fails if the tables are inconsistent or the configured player
// stats are invalid.
func New(tables *Tables, narrator *narrative.Narrator, opts Options) (*Game, error) {
	if tables == nil {
		return nil, fmt.Errorf("new game: no tables")
	}
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	pc := tables.Config.Player
	health := pc.StartingHealth
	if health == 0 {
		health = pc.MaxHealth
	}
	name := opts.PlayerName
	if name == "" {
		name = DefaultPlayerName
	}

	p, err := player.New(name, player.Stats{
		Health:    health,
		MaxHealth: pc.MaxHealth,
		Attack:    pc.Attack,
		Defense:   pc.Defense,
	}, pc.AbilitySlots, pc.InventoryLimit)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	for _, id := range pc.StartingItems {
		item, _ := tables.Items.Get(id)
		if err := p.Inventory.Add(item, 1); err != nil {
			return nil, fmt.Errorf("new game: starting item %s: %w", id, err)
		}
	}
	for _, id := range pc.StartingAbilities {
		a, _ := tables.Abilities.Get(id)
		p.Learn(a)
	}

	if narrator == nil {
		narrator = narrative.NewNarrator(nil, nil, 0)
	}
	log := opts.Logger
	if log == nil {
		log = logger.With("seed", opts.Seed)
	}

	g := &Game{
		tables:   tables,
		resolver: combat.NewResolver(tables.Config.Combat),
		curve:    leveling.NewCurve(tables.Config.Progression),
		narrator: narrator,
		stream:   dice.New(opts.Seed),
		log:      log,
		player:   p,
		room:     Room{Type: config.RoomEmpty, Theme: entranceTheme, Tier: 1},
		state:    Exploring,
	}
	log.Info("Game started", "player", name, "health", p.Health, "max_health", p.MaxHealth)
	return g, nil
}

// Start narrates the opening and returns the first snapshot.
func (g *Game) Start(ctx context.Context) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	t := &turn{}
	t.narrate(narrative.Context{
		Kind:            narrative.KindOpening,
		Theme:           g.room.Theme,
		Tier:            g.room.Tier,
		PlayerHealth:    g.player.Health,
		PlayerMaxHealth: g.player.MaxHealth,
	})
	return g.finish(ctx, t)
}

// Handle applies one command. Illegal commands return an IllegalActionError
// and commands after the game ended return a GameOverError; in both cases
// the game is unchanged and the snapshot shows the current state.
func (g *Game) Handle(ctx context.Context, cmd Command) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.IsTerminal() {
		return g.snapshot(nil), &gameerr.GameOverError{State: g.state.String()}
	}

	t := &turn{}
	var err error
	switch cmd.Kind {
	case Move:
		err = g.move(t)
	case Attack:
		err = g.fight(t, combat.Action{Kind: combat.Attack})
	case UseAbility:
		if cmd.Ref == "" {
			return g.snapshot(nil), gameerr.Illegal("use", "use which ability?")
		}
		err = g.fight(t, combat.Action{Kind: combat.UseAbility, Ref: cmd.Ref})
	case UseItem:
		if cmd.Ref == "" {
			return g.snapshot(nil), gameerr.Illegal("use", "use which item?")
		}
		if g.state == InEncounter {
			err = g.fight(t, combat.Action{Kind: combat.UseItem, Ref: cmd.Ref})
		} else {
			err = g.useItem(t, cmd.Ref)
		}
	case Flee:
		err = g.fight(t, combat.Action{Kind: combat.Flee})
	case Rest:
		err = g.rest(t)
	case Look, Status:
	case Quit:
		g.quit(t)
	default:
		err = gameerr.Illegal(string(cmd.Kind), "unknown command")
	}
	if err != nil {
		g.log.Debug("Command rejected", "command", string(cmd.Kind), "ref", cmd.Ref, "error", err)
		return g.snapshot(nil), err
	}

	return g.finish(ctx, t), nil
}

// Snapshot returns the current state without doing anything.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot(nil)
}

// State returns the lifecycle state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Seed returns the seed of the game's random stream.
func (g *Game) Seed() int64 {
	return g.stream.Seed()
}

// finish narrates a committed turn and builds its snapshot.
func (g *Game) finish(ctx context.Context, t *turn) Snapshot {
	narration := g.narrate(ctx, t.narration)
	s := g.snapshot(t.outcome)
	s.Messages = t.messages
	s.Narration = narration
	return s
}

// narrate runs every request of a turn under one shared narrator timeout.
func (g *Game) narrate(ctx context.Context, reqs []narrative.Context) []string {
	if len(reqs) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, g.narrator.Timeout())
	defer cancel()

	out := make([]string, 0, len(reqs))
	for _, c := range reqs {
		text := g.narrator.Narrate(ctx, c)
		if text == "" {
			continue
		}
		if c.Kind == narrative.KindRoom || c.Kind == narrative.KindOpening {
			g.description = text
		}
		out = append(out, text)
	}
	return out
}

func (g *Game) snapshot(outcome *combat.Outcome) Snapshot {
	s := Snapshot{
		State:           g.state,
		Room:            g.room,
		RoomDescription: g.description,
		Player:          viewPlayer(g.player, g.curve.XPToNextLevel(g.player.Level)),
		Monster:         viewMonster(g.monster),
	}
	if outcome != nil {
		out := *outcome
		s.LastOutcome = &out
	}
	return s
}

// move leaves the current room for the next one.
func (g *Game) move(t *turn) error {
	if g.state == InEncounter {
		return gameerr.Illegal("move", "the %s blocks your way", g.monster.Name)
	}
	return g.enterRoom(t)
}

// enterRoom rolls the next room and applies whatever is in it. A spawn
// failure leaves the player in the current room, but the theme and room
// type draws have already been taken from the stream.
func (g *Game) enterRoom(t *turn) error {
	cfg := g.tables.Config
	p := g.player

	index := g.room.Index + 1
	room := Room{Index: index, Tier: g.tierFor(index), Theme: entranceTheme}
	if themes := cfg.Rooms.Themes; len(themes) > 0 {
		room.Theme = themes[g.stream.Intn(len(themes))]
	}

	if g.bossForced(index) {
		room.Type = config.RoomMonster
		room.Boss = true
	} else {
		room.Type = g.rollRoomType()
		if room.Type == config.RoomMonster && p.Kills >= cfg.Boss.MinDefeated && g.stream.Chance(cfg.Boss.Chance) {
			room.Boss = true
		}
	}

	var m *monster.Monster
	if room.Type == config.RoomMonster {
		var err error
		if room.Boss {
			m, err = g.tables.Monsters.SpawnBoss(g.stream)
		} else {
			m, err = g.tables.Monsters.Spawn(room.Tier, g.stream)
		}
		if err != nil {
			g.log.Error("Spawn failed", "room", index, "boss", room.Boss, "error", err)
			return fmt.Errorf("enter room %d: %w", index, err)
		}
	}

	g.room = room
	p.Stats.RoomsEntered++
	g.log.Info("Entered room", "room", index, "type", room.Type, "tier", room.Tier, "boss", room.Boss)

	t.narrate(narrative.Context{
		Kind:            narrative.KindRoom,
		Tier:            room.Tier,
		Theme:           room.Theme,
		RoomType:        room.Type,
		Boss:            room.Boss,
		PlayerHealth:    p.Health,
		PlayerMaxHealth: p.MaxHealth,
	})

	switch room.Type {
	case config.RoomMonster:
		g.monster = m
		g.state = InEncounter
		if m.Boss {
			t.say("%s, master of this dungeon, bars your way!", m.Name)
		} else {
			t.say("A %s attacks!", m.Name)
		}
		g.log.Info("Encounter started", "monster", m.Name, "tier", m.Tier, "health", m.Health, "attack", m.Attack, "boss", m.Boss)
		t.narrate(narrative.Context{
			Kind:               narrative.KindMonster,
			Tier:               m.Tier,
			Theme:              room.Theme,
			Monster:            m.Name,
			MonsterDescription: m.Description,
			Boss:               m.Boss,
		})
	case config.RoomLoot:
		drops, err := g.tables.Loot.Roll(RoomLootTable, p, g.stream)
		if err != nil {
			g.log.Error("Loot roll failed", "table", RoomLootTable, "error", err)
		}
		if len(drops) == 0 {
			t.say("You search the room but find nothing of use.")
		}
		g.collect(t, drops)
	default:
		t.say("The room is empty.")
	}
	return nil
}

// tierFor returns the monster tier for a room index.
func (g *Game) tierFor(index int) int {
	mc := g.tables.Config.Monsters
	tier := 1
	if mc.RoomsPerTier > 0 && index > 0 {
		tier = 1 + (index-1)/mc.RoomsPerTier
	}
	if mc.MaxTier > 0 && tier > mc.MaxTier {
		tier = mc.MaxTier
	}
	return tier
}

// bossForced reports whether the boss room can no longer be put off.
func (g *Game) bossForced(index int) bool {
	limit := g.tables.Config.Boss.ForceAfterRooms
	return limit > 0 && index > limit
}

func (g *Game) rollRoomType() string {
	weights := g.tables.Config.Rooms.Weights
	ws := make([]float64, len(weights))
	for i, w := range weights {
		ws[i] = w.Weight
	}
	i := g.stream.Weighted(ws)
	if i < 0 {
		return config.RoomEmpty
	}
	return weights[i].Type
}

// fight resolves one combat exchange and the transitions it causes.
func (g *Game) fight(t *turn, a combat.Action) error {
	if g.state != InEncounter || g.monster == nil {
		return gameerr.Illegal(a.Kind.String(), "there is nothing to fight here")
	}
	m := g.monster
	p := g.player

	out, err := g.resolver.Resolve(p, m, a, g.stream)
	if err != nil {
		return err
	}
	t.outcome = &out

	p.Stats.RecordExchange(out.DamageDealt, out.DamageTaken, out.Healed)
	if out.Item != nil {
		p.Stats.ItemsUsed++
	}
	t.messages = append(t.messages, outcomeMessages(out, m)...)
	g.log.Debug("Combat exchange",
		"action", a.Kind.String(),
		"dealt", out.DamageDealt,
		"taken", out.DamageTaken,
		"healed", out.Healed,
		"result", out.Kind.String(),
	)

	c := narrative.Context{
		Kind:               narrative.KindAction,
		Tier:               m.Tier,
		Theme:              g.room.Theme,
		Monster:            m.Name,
		MonsterDescription: m.Description,
		Boss:               m.Boss,
		Action:             a.Kind.String(),
		Result:             out.Kind.String(),
		DamageDealt:        out.DamageDealt,
		DamageTaken:        out.DamageTaken,
		Healed:             out.Healed,
		Weakness:           out.Weakness,
		Blocked:            out.Blocked,
		PlayerHealth:       p.Health,
		PlayerMaxHealth:    p.MaxHealth,
	}
	if out.Ability != nil {
		c.Ability = out.Ability.Name
	}
	if out.Item != nil {
		c.Item = out.Item.Name
	}
	t.narrate(c)

	switch out.Kind {
	case combat.Victory:
		g.victory(t, m)
	case combat.Defeat:
		g.state = Lost
		g.log.Info("Player defeated", "monster", m.Name, "room", g.room.Index, "level", p.Level)
		t.narrate(narrative.Context{Kind: narrative.KindDefeat, Monster: m.Name, Theme: g.room.Theme})
	case combat.Fled:
		p.Stats.Flees++
		g.monster = nil
		g.state = Exploring
		g.log.Info("Player fled", "monster", m.Name, "escaped", out.Escaped)
	}
	return nil
}

// victory pays out a defeated monster: loot first, then experience, then
// the kill count and any abilities it unlocks.
func (g *Game) victory(t *turn, m *monster.Monster) {
	p := g.player

	drops, err := g.tables.Loot.Roll(m.LootTable, p, g.stream)
	if err != nil {
		g.log.Error("Loot roll failed", "table", m.LootTable, "error", err)
	}
	g.collect(t, drops)

	if m.Experience > 0 {
		t.say("You gain %d experience.", m.Experience)
	}
	for _, up := range g.curve.Award(p, m.Experience) {
		t.say("You reached level %d! (+%d max health, +%d attack, +%d defense)",
			up.NewLevel, up.HealthGain, up.AttackGain, up.DefenseGain)
		g.log.Info("Level up", "level", up.NewLevel, "max_health", p.MaxHealth)
	}

	p.RecordKill(m.Name, m.Boss)

	for _, u := range leveling.Unlock(p, g.tables.Abilities) {
		if u.Ability.Granted != "" {
			t.say("You recover your %s.", u.Ability.Granted)
			t.narrate(narrative.Context{Kind: narrative.KindItem, Item: u.Ability.Granted, Theme: g.room.Theme})
		}
		if u.Equipped {
			t.say("You can now use %s.", u.Ability.Name)
		} else {
			t.say("You learned %s, but have no free ability slot.", u.Ability.Name)
		}
		g.log.Info("Ability unlocked", "ability", u.Ability.ID, "equipped", u.Equipped)
	}

	g.monster = nil
	if m.Boss {
		g.state = Won
		g.log.Info("Boss defeated", "monster", m.Name, "room", g.room.Index, "level", p.Level)
		t.narrate(narrative.Context{Kind: narrative.KindVictory, Monster: m.Name, Theme: g.room.Theme})
		return
	}
	g.state = Exploring
}

// collect hands dropped loot to the player. Armor and weapons are worn at
// once; everything else goes into the inventory.
func (g *Game) collect(t *turn, drops []loot.Drop) {
	p := g.player
	for _, d := range drops {
		if d.Gold > 0 {
			p.AddGold(d.Gold)
			t.say("You find %d gold.", d.Gold)
		}
		item := d.Item
		if item == nil {
			continue
		}
		if item.Kind.IsEquipment() {
			if !p.Equip(item) {
				t.say("You already have the %s.", item.Name)
				continue
			}
			t.say("You recover your %s%s.", item.Name, bonusText(item.AttackBonus, item.DefenseBonus))
		} else {
			if err := p.Inventory.Add(item, 1); err != nil {
				t.say("You find a %s but have no room to carry it.", item.Name)
				continue
			}
			t.say("You find a %s.", item.Name)
		}
		t.narrate(narrative.Context{
			Kind:            narrative.KindItem,
			Item:            item.Name,
			ItemDescription: item.Description,
			Theme:           g.room.Theme,
		})
	}
}

// useItem drinks a potion outside combat.
func (g *Game) useItem(t *turn, ref string) error {
	p := g.player
	item, ok := p.Inventory.Find(ref)
	if !ok || p.Inventory.Count(item.ID) == 0 {
		return gameerr.Illegal("use", "you have no %q", ref)
	}
	if !item.UsableOutOfCombat() {
		return gameerr.Illegal("use", "%s can only be used in combat", item.Name)
	}
	if p.Health >= p.MaxHealth {
		return gameerr.Illegal("use", "you are already at full health")
	}
	if err := p.Inventory.Remove(item.ID, 1); err != nil {
		return gameerr.Illegal("use", "you have no %s", item.Name)
	}

	var healed int
	if item.FullHeal {
		healed = p.HealToFull()
	} else {
		healed = p.Heal(item.Heal)
	}
	p.Stats.Healed += healed
	p.Stats.ItemsUsed++
	t.say("You use the %s and recover %d health.", item.Name, healed)
	t.narrate(narrative.Context{
		Kind:            narrative.KindAction,
		Action:          string(UseItem),
		Item:            item.Name,
		Healed:          healed,
		Theme:           g.room.Theme,
		PlayerHealth:    p.Health,
		PlayerMaxHealth: p.MaxHealth,
	})
	return nil
}

// rest prays for a full heal, once per room and never in combat.
func (g *Game) rest(t *turn) error {
	if g.state == InEncounter {
		return gameerr.Illegal("rest", "you cannot pray with the %s in front of you", g.monster.Name)
	}
	if g.room.Rested {
		return gameerr.Illegal("rest", "you have already prayed in this room")
	}
	p := g.player
	healed := p.HealToFull()
	p.Stats.Healed += healed
	g.room.Rested = true

	if healed > 0 {
		t.say("You pray and recover %d health.", healed)
	} else {
		t.say("You pray. Your strength is already whole.")
	}
	t.narrate(narrative.Context{
		Kind:            narrative.KindRest,
		Theme:           g.room.Theme,
		Healed:          healed,
		PlayerHealth:    p.Health,
		PlayerMaxHealth: p.MaxHealth,
	})
	return nil
}

// quit abandons the run; it counts as a loss.
func (g *Game) quit(t *turn) {
	g.state = Lost
	t.say("You abandon your quest.")
	g.log.Info("Player quit", "room", g.room.Index, "level", g.player.Level)
	c := narrative.Context{Kind: narrative.KindDefeat, Theme: g.room.Theme}
	if g.monster != nil {
		c.Monster = g.monster.Name
	}
	t.narrate(c)
}
