package player

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPool     = errors.New("invalid candidate pool")
	ErrDuplicatePlayer = errors.New("duplicate player id in pool")
)

// Country is one national pool in its original order.
type Country struct {
	Name    string
	Players []Player
}

// Pool is the static set of candidates grouped by country.
type Pool struct {
	Countries []Country
}

// Candidate is a pool player together with the country it was listed under.
type Candidate struct {
	Player  Player
	Country string
}

func (p Pool) Validate() error {
	if len(p.Countries) == 0 {
		return fmt.Errorf("%w: at least one country is required", ErrInvalidPool)
	}

	countries := make(map[string]struct{}, len(p.Countries))
	ids := make(map[int64]string)
	for _, c := range p.Countries {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("%w: country name is required", ErrInvalidPool)
		}
		if name != c.Name {
			return fmt.Errorf("%w: country name %q has surrounding whitespace", ErrInvalidPool, c.Name)
		}
		if _, exists := countries[name]; exists {
			return fmt.Errorf("%w: country %s listed twice", ErrInvalidPool, name)
		}
		countries[name] = struct{}{}

		for _, pl := range c.Players {
			if err := pl.Validate(); err != nil {
				return fmt.Errorf("%w: country=%s: %v", ErrInvalidPool, name, err)
			}
			if owner, exists := ids[pl.ID]; exists {
				return fmt.Errorf("%w: id=%d in %s and %s", ErrDuplicatePlayer, pl.ID, owner, name)
			}
			ids[pl.ID] = name
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one player is required", ErrInvalidPool)
	}

	return nil
}

// Find returns the candidate with the given player id.
func (p Pool) Find(playerID int64) (Candidate, bool) {
	for _, c := range p.Countries {
		for _, pl := range c.Players {
			if pl.ID == playerID {
				return Candidate{Player: pl, Country: c.Name}, true
			}
		}
	}

	return Candidate{}, false
}

// Candidates flattens the pool preserving country then player order.
func (p Pool) Candidates() []Candidate {
	out := make([]Candidate, 0, p.Size())
	for _, c := range p.Countries {
		for _, pl := range c.Players {
			out = append(out, Candidate{Player: pl, Country: c.Name})
		}
	}

	return out
}

func (p Pool) Size() int {
	total := 0
	for _, c := range p.Countries {
		total += len(c.Players)
	}

	return total
}

// Clone returns a deep copy so callers cannot mutate a shared pool.
func (p Pool) Clone() Pool {
	out := Pool{Countries: make([]Country, 0, len(p.Countries))}
	for _, c := range p.Countries {
		out.Countries = append(out.Countries, Country{
			Name:    c.Name,
			Players: append([]Player(nil), c.Players...),
		})
	}

	return out
}
