package squad

import (
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/squad-builder/internal/domain/player"
)

var (
	ErrSquadFull             = errors.New("squad is full")
	ErrCountryQuotaExceeded  = errors.New("country quota exceeded")
	ErrPositionQuotaExceeded = errors.New("position quota exceeded")
	ErrDuplicatePlayer       = errors.New("player already in squad")
	ErrPlayerNotInSquad      = errors.New("player not in squad")
	ErrInvalidCandidate      = errors.New("invalid candidate")
	ErrInvalidLimits         = errors.New("invalid squad limits")
)

// Limits stores the squad quotas.
type Limits struct {
	MaxSquadSize   int
	MaxPerCountry  int
	PositionLimits map[player.Position]int
}

func DefaultLimits() Limits {
	return Limits{
		MaxSquadSize:  15,
		MaxPerCountry: 4,
		PositionLimits: map[player.Position]int{
			player.PositionGoalkeeper: 2,
			player.PositionDefender:   5,
			player.PositionMidfielder: 5,
			player.PositionForward:    5,
		},
	}
}

// Validate checks that the limits are positive and that the position quotas
// can fill a full squad.
func (l Limits) Validate() error {
	if l.MaxSquadSize <= 0 {
		return fmt.Errorf("%w: max squad size must be greater than zero", ErrInvalidLimits)
	}
	if l.MaxPerCountry <= 0 {
		return fmt.Errorf("%w: max per country must be greater than zero", ErrInvalidLimits)
	}

	total := 0
	for _, pos := range player.Positions {
		limit, ok := l.PositionLimits[pos]
		if !ok {
			return fmt.Errorf("%w: missing limit for position %s", ErrInvalidLimits, pos)
		}
		if limit < 0 {
			return fmt.Errorf("%w: negative limit for position %s", ErrInvalidLimits, pos)
		}
		total += limit
	}
	for pos := range l.PositionLimits {
		if !pos.Valid() {
			return fmt.Errorf("%w: unknown position %s", ErrInvalidLimits, pos)
		}
	}
	if total < l.MaxSquadSize {
		return fmt.Errorf("%w: position limits sum to %d, below squad size %d", ErrInvalidLimits, total, l.MaxSquadSize)
	}

	return nil
}

func (l Limits) PositionLimit(pos player.Position) int {
	return l.PositionLimits[pos]
}

func (l Limits) clone() Limits {
	out := l
	out.PositionLimits = make(map[player.Position]int, len(l.PositionLimits))
	for k, v := range l.PositionLimits {
		out.PositionLimits[k] = v
	}
	return out
}

// RuleName identifies one add precondition.
type RuleName string

const (
	RuleSquadSize     RuleName = "squad_size"
	RuleCountryQuota  RuleName = "country_quota"
	RulePositionQuota RuleName = "position_quota"
	RuleDuplicate     RuleName = "duplicate_player"
)

// Snapshot is the read-only selection state a rule is evaluated against.
type Snapshot struct {
	Entries []Entry
	Counts  Counts
}

func (s Snapshot) Contains(playerID int64) bool {
	for _, entry := range s.Entries {
		if entry.Player.ID == playerID {
			return true
		}
	}
	return false
}

// Rule is one add precondition. Check returns a *Violation when the
// candidate would break the rule.
type Rule struct {
	Name  RuleName
	Check func(s Snapshot, limits Limits, p player.Player, country string) error
}

// Violation describes a failed rule for a given candidate.
type Violation struct {
	Rule    RuleName
	Player  player.Player
	Country string
	Limit   int
	err     error
}

func (v *Violation) Error() string {
	switch v.Rule {
	case RuleSquadSize:
		return fmt.Sprintf("%s: max=%d", v.err, v.Limit)
	case RuleCountryQuota:
		return fmt.Sprintf("%s: country=%s max=%d", v.err, v.Country, v.Limit)
	case RulePositionQuota:
		return fmt.Sprintf("%s: pos=%s max=%d", v.err, v.Player.Position, v.Limit)
	default:
		return fmt.Sprintf("%s: player_id=%d", v.err, v.Player.ID)
	}
}

func (v *Violation) Unwrap() error {
	return v.err
}

// Message is the user-facing notification text for the violation.
func (v *Violation) Message() string {
	switch v.Rule {
	case RuleSquadSize:
		return fmt.Sprintf("Your squad is full! (%d players maximum)", v.Limit)
	case RuleCountryQuota:
		return fmt.Sprintf("You can't select more than %d players from %s.", v.Limit, v.Country)
	case RulePositionQuota:
		return fmt.Sprintf("You can't select more than %d %ss.", v.Limit, v.Player.Position)
	default:
		return fmt.Sprintf("%s is already in your squad.", v.Player.Name)
	}
}

// OrderedRules returns the add preconditions in evaluation order.
// Size is checked before country, country before position, position before duplicate.
func OrderedRules() []Rule {
	return []Rule{
		{Name: RuleSquadSize, Check: checkSquadSize},
		{Name: RuleCountryQuota, Check: checkCountryQuota},
		{Name: RulePositionQuota, Check: checkPositionQuota},
		{Name: RuleDuplicate, Check: checkDuplicate},
	}
}

func checkSquadSize(s Snapshot, limits Limits, p player.Player, country string) error {
	if s.Counts.Total < limits.MaxSquadSize {
		return nil
	}
	return &Violation{Rule: RuleSquadSize, Player: p, Country: country, Limit: limits.MaxSquadSize, err: ErrSquadFull}
}

func checkCountryQuota(s Snapshot, limits Limits, p player.Player, country string) error {
	if s.Counts.Country(country) < limits.MaxPerCountry {
		return nil
	}
	return &Violation{Rule: RuleCountryQuota, Player: p, Country: country, Limit: limits.MaxPerCountry, err: ErrCountryQuotaExceeded}
}

func checkPositionQuota(s Snapshot, limits Limits, p player.Player, country string) error {
	limit := limits.PositionLimit(p.Position)
	if s.Counts.Position(p.Position) < limit {
		return nil
	}
	return &Violation{Rule: RulePositionQuota, Player: p, Country: country, Limit: limit, err: ErrPositionQuotaExceeded}
}

func checkDuplicate(s Snapshot, _ Limits, p player.Player, country string) error {
	if !s.Contains(p.ID) {
		return nil
	}
	return &Violation{Rule: RuleDuplicate, Player: p, Country: country, err: ErrDuplicatePlayer}
}

func validateCandidate(p player.Player, country string) error {
	if p.ID <= 0 {
		return fmt.Errorf("%w: player id must be greater than zero", ErrInvalidCandidate)
	}
	if !p.Position.Valid() {
		return fmt.Errorf("%w: unknown position %q for player_id=%d", ErrInvalidCandidate, p.Position, p.ID)
	}
	if strings.TrimSpace(country) == "" {
		return fmt.Errorf("%w: country is required for player_id=%d", ErrInvalidCandidate, p.ID)
	}
	return nil
}
