// Package dice provides the seedable random stream every game-affecting roll
// draws from. A Stream is owned by one game and is not safe for concurrent use.
package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
)

// Stream is a deterministic source of rolls for a fixed seed.
type Stream struct {
	seed  int64
	rng   *rand.Rand
	draws int
}

// New returns a stream seeded with seed.
func New(seed int64) *Stream {
	return &Stream{seed: seed, rng: rand.New(rand.NewSource(seed))}
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Seed returns the seed the stream was created with.
func (s *Stream) Seed() int64 {
	return s.seed
}

// Draws returns how many values have been taken from the stream.
func (s *Stream) Draws() int {
	return s.draws
}

// Intn returns a value in [0, n). n <= 0 returns 0 without drawing.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	s.draws++
	return s.rng.Intn(n)
}

// Float64 returns a value in [0, 1).
func (s *Stream) Float64() float64 {
	s.draws++
	return s.rng.Float64()
}

// Chance returns true with probability p. p <= 0 never succeeds and p >= 1
// always does. Every call consumes exactly one draw.
func (s *Stream) Chance(p float64) bool {
	return s.Float64() < p
}

// Between returns a value in [min, max]. If max < min, min is returned.
func (s *Stream) Between(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.Intn(max-min+1)
}

// Roll rolls n dice with the specified number of sides and returns the total
func (s *Stream) Roll(n, sides int) int {
	total := 0
	for i := 0; i < n; i++ {
		total += s.Intn(sides) + 1
	}
	return total
}

// Weighted draws one uniform value in [0, total weight) and returns the index
// of the entry whose cumulative interval contains it. Non-positive weights
// never win. Returns -1 when no weight is positive.
func (s *Stream) Weighted(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}

	roll := s.Float64() * total
	running := 0.0
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		running += w
		last = i
		if roll < running {
			return i
		}
	}
	// Floating point rounding can leave roll == total
	return last
}

// diceNotationRegex matches dice notation like "1d6", "2d4+1", "1d8-2"
var diceNotationRegex = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?$`)

// Notation is a parsed dice expression.
type Notation struct {
	Count int
	Sides int
	Bonus int
}

// ParseNotation parses "NdS", "NdS+B" or "NdS-B". A plain integer is accepted
// as a constant.
func ParseNotation(notation string) (Notation, error) {
	if n, err := strconv.Atoi(notation); err == nil {
		return Notation{Bonus: n}, nil
	}
	matches := diceNotationRegex.FindStringSubmatch(notation)
	if matches == nil {
		return Notation{}, fmt.Errorf("invalid dice notation %q", notation)
	}

	count, _ := strconv.Atoi(matches[1])
	sides, _ := strconv.Atoi(matches[2])
	if sides == 0 {
		return Notation{}, fmt.Errorf("invalid dice notation %q: zero-sided die", notation)
	}

	bonus := 0
	if matches[3] != "" {
		bonus, _ = strconv.Atoi(matches[3])
	}
	return Notation{Count: count, Sides: sides, Bonus: bonus}, nil
}

// Min returns the lowest possible total.
func (n Notation) Min() int {
	return n.Count + n.Bonus
}

// Max returns the highest possible total.
func (n Notation) Max() int {
	return n.Count*n.Sides + n.Bonus
}

// String renders the notation back to text.
func (n Notation) String() string {
	if n.Count == 0 {
		return strconv.Itoa(n.Bonus)
	}
	switch {
	case n.Bonus > 0:
		return fmt.Sprintf("%dd%d+%d", n.Count, n.Sides, n.Bonus)
	case n.Bonus < 0:
		return fmt.Sprintf("%dd%d%d", n.Count, n.Sides, n.Bonus)
	default:
		return fmt.Sprintf("%dd%d", n.Count, n.Sides)
	}
}

// RollNotation rolls a parsed notation on the stream.
func (s *Stream) RollNotation(n Notation) int {
	return s.Roll(n.Count, n.Sides) + n.Bonus
}
