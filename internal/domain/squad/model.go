package squad

import "github.com/riskibarqy/squad-builder/internal/domain/player"

// Entry is one selected player plus the country it was picked from.
type Entry struct {
	Player  player.Player
	Country string
}

// Counts holds the aggregates derived from a squad.
type Counts struct {
	Total     int
	Countries map[string]int
	Positions map[player.Position]int
}

// CountEntries derives per-country and per-position counts from entries.
// Every known position is present in Positions, zero or not.
func CountEntries(entries []Entry) Counts {
	counts := Counts{
		Total:     len(entries),
		Countries: make(map[string]int),
		Positions: make(map[player.Position]int, len(player.Positions)),
	}
	for _, pos := range player.Positions {
		counts.Positions[pos] = 0
	}

	for _, entry := range entries {
		counts.Countries[entry.Country]++
		counts.Positions[entry.Player.Position]++
	}

	return counts
}

func (c Counts) Country(name string) int {
	return c.Countries[name]
}

func (c Counts) Position(pos player.Position) int {
	return c.Positions[pos]
}

// Equal reports whether both aggregates hold the same values.
func (c Counts) Equal(other Counts) bool {
	if c.Total != other.Total {
		return false
	}
	if !equalCounter(c.Countries, other.Countries) {
		return false
	}
	return equalCounter(c.Positions, other.Positions)
}

func (c Counts) clone() Counts {
	out := Counts{
		Total:     c.Total,
		Countries: make(map[string]int, len(c.Countries)),
		Positions: make(map[player.Position]int, len(c.Positions)),
	}
	for k, v := range c.Countries {
		out.Countries[k] = v
	}
	for k, v := range c.Positions {
		out.Positions[k] = v
	}

	return out
}

func equalCounter[K comparable](a, b map[K]int) bool {
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	for k, v := range b {
		if a[k] != v {
			return false
		}
	}

	return true
}
