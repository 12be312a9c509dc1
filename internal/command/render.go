package command

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/zenithstorm/comp645-team1-game/internal/dungeon"
)

// DefaultWidth is the column width used when the client does not report one.
const DefaultWidth = 78

// labelWidth is the column the status values line up at.
const labelWidth = 12

// Render formats the result of a command: narration first, then what
// mechanically happened, then the status line.
func Render(s dungeon.Snapshot, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	var b strings.Builder
	for _, n := range s.Narration {
		writeParagraph(&b, n, width)
	}
	for _, m := range s.Messages {
		b.WriteString(Wrap(m, width))
		b.WriteString("\n")
	}
	if len(s.Messages) > 0 {
		b.WriteString("\n")
	}

	if s.Monster != nil {
		b.WriteString(MonsterLine(*s.Monster))
		b.WriteString("\n")
	}
	b.WriteString(StatusLine(s.Player))
	b.WriteString("\n")

	if s.State.IsTerminal() {
		b.WriteString("\n")
		b.WriteString(Summary(s))
	}
	return b.String()
}

// RenderLook shows the current room again.
func RenderLook(s dungeon.Snapshot, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	var b strings.Builder
	if s.Room.Index == 0 {
		b.WriteString("[Entrance]\n")
	} else {
		b.WriteString(fmt.Sprintf("[Room %d - %s, tier %d]\n", s.Room.Index, s.Room.Theme, s.Room.Tier))
	}
	if s.RoomDescription != "" {
		writeParagraph(&b, s.RoomDescription, width)
	}
	if s.Monster != nil {
		if s.Monster.Description != "" {
			writeParagraph(&b, s.Monster.Description, width)
		}
		b.WriteString(MonsterLine(*s.Monster))
		b.WriteString("\n")
	}
	b.WriteString(StatusLine(s.Player))
	b.WriteString("\n")
	return b.String()
}

// StatusLine is the one-line summary shown after every command.
func StatusLine(p dungeon.PlayerView) string {
	xp := fmt.Sprintf("%d/%d", p.Experience, p.NextLevel)
	if p.NextLevel == 0 {
		xp = fmt.Sprintf("%d (max)", p.Experience)
	}
	return fmt.Sprintf("[HP %d/%d | Lvl %d | XP %s | Gold %d]", p.Health, p.MaxHealth, p.Level, xp, p.Gold)
}

// MonsterLine shows the opponent's health.
func MonsterLine(m dungeon.MonsterView) string {
	name := m.Name
	if m.Boss {
		name += " (boss)"
	}
	return fmt.Sprintf("<%s: HP %d/%d>", name, m.Health, m.MaxHealth)
}

// RenderStatus formats the full character sheet.
func RenderStatus(p dungeon.PlayerView) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("=== %s ===\n", p.Name))
	row(&b, "Level", fmt.Sprintf("%d", p.Level))
	if p.NextLevel > 0 {
		row(&b, "Experience", fmt.Sprintf("%d / %d", p.Experience, p.NextLevel))
	} else {
		row(&b, "Experience", fmt.Sprintf("%d (max level)", p.Experience))
	}
	row(&b, "Health", fmt.Sprintf("%d / %d", p.Health, p.MaxHealth))
	row(&b, "Attack", fmt.Sprintf("%d (%d base)", p.Power, p.Attack))
	row(&b, "Defense", fmt.Sprintf("%d (%d base)", p.Armor, p.Defense))
	row(&b, "Gold", fmt.Sprintf("%d", p.Gold))
	row(&b, "Kills", fmt.Sprintf("%d", p.Kills))

	row(&b, "Equipment", listOrNone(p.Equipment))
	row(&b, "Abilities", listOrNone(p.Abilities))
	if len(p.Known) > 0 {
		row(&b, "Stored", listOrNone(p.Known))
	}

	var inv []string
	for _, st := range p.Inventory {
		if st.Count > 1 {
			inv = append(inv, fmt.Sprintf("%s x%d", st.Item.Name, st.Count))
		} else {
			inv = append(inv, st.Item.Name)
		}
	}
	row(&b, "Inventory", listOrNone(inv))
	return b.String()
}

// Summary is shown once the run has ended.
func Summary(s dungeon.Snapshot) string {
	var b strings.Builder
	switch s.State {
	case dungeon.Won:
		b.WriteString("*** VICTORY ***\n")
		b.WriteString("The master of the dungeon is dead and your holy relics are yours again.\n")
	case dungeon.Lost:
		b.WriteString("*** YOUR QUEST HAS ENDED ***\n")
	}
	st := s.Player.Stats
	row(&b, "Level", fmt.Sprintf("%d", s.Player.Level))
	row(&b, "Rooms", fmt.Sprintf("%d", st.RoomsEntered))
	row(&b, "Kills", fmt.Sprintf("%d", st.TotalKills()))
	for _, name := range st.KillNames() {
		row(&b, "", fmt.Sprintf("%s x%d", name, st.MobKills[name]))
	}
	row(&b, "Dealt", fmt.Sprintf("%d", st.DamageDealt))
	row(&b, "Taken", fmt.Sprintf("%d", st.DamageTaken))
	row(&b, "Healed", fmt.Sprintf("%d", st.Healed))
	row(&b, "Items used", fmt.Sprintf("%d", st.ItemsUsed))
	row(&b, "Gold", fmt.Sprintf("%d", st.GoldEarned))
	row(&b, "Flees", fmt.Sprintf("%d", st.Flees))
	return b.String()
}

// RenderError formats a rejected command as a sentence.
func RenderError(err error) string {
	msg := err.Error()
	r, size := utf8.DecodeRuneInString(msg)
	if size == 0 {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}

// Wrap breaks text on spaces so no line is wider than width columns. Words
// wider than the line are left whole.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var b strings.Builder
	lineWidth := 0
	for _, word := range strings.Fields(text) {
		w := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+w > width {
			b.WriteString("\n")
			lineWidth = 0
		}
		if lineWidth > 0 {
			b.WriteString(" ")
			lineWidth++
		}
		b.WriteString(word)
		lineWidth += w
	}
	return b.String()
}

func writeParagraph(b *strings.Builder, text string, width int) {
	b.WriteString(Wrap(text, width))
	b.WriteString("\n\n")
}

func row(b *strings.Builder, label, value string) {
	if label != "" {
		label += ":"
	}
	b.WriteString(runewidth.FillRight(label, labelWidth))
	b.WriteString(value)
	b.WriteString("\n")
}

func listOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}
