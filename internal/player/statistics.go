package player

import "sort"

// Statistics tracks what happened during one run, for the ending summary.
type Statistics struct {
	MobKills     map[string]int // monster name -> count
	DamageDealt  int
	DamageTaken  int
	Healed       int
	RoomsEntered int
	ItemsUsed    int
	GoldEarned   int
	Flees        int
}

// NewStatistics creates an empty tracker.
func NewStatistics() *Statistics {
	return &Statistics{MobKills: make(map[string]int)}
}

// RecordKill increments the kill count for a monster.
func (s *Statistics) RecordKill(name string) {
	if s.MobKills == nil {
		s.MobKills = make(map[string]int)
	}
	s.MobKills[name]++
}

// RecordExchange adds the damage and healing of one combat turn.
func (s *Statistics) RecordExchange(dealt, taken, healed int) {
	s.DamageDealt += dealt
	s.DamageTaken += taken
	s.Healed += healed
}

// TotalKills returns the number of monsters defeated.
func (s *Statistics) TotalKills() int {
	total := 0
	for _, n := range s.MobKills {
		total += n
	}
	return total
}

// KillNames returns the defeated monster names, sorted.
func (s *Statistics) KillNames() []string {
	names := make([]string, 0, len(s.MobKills))
	for name := range s.MobKills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
