package squad

import (
	"errors"
	"fmt"
)

var ErrInvariantBroken = errors.New("squad invariant broken")

// Audit recomputes the aggregates from scratch and checks every quota and
// the uniqueness of player ids against the engine's reported state.
func (e *Engine) Audit() error {
	entries := e.Entries()
	reported := e.Counts()
	fresh := CountEntries(entries)

	if !reported.Equal(fresh) {
		return fmt.Errorf("%w: reported counts drifted from squad", ErrInvariantBroken)
	}
	if len(entries) > e.limits.MaxSquadSize {
		return fmt.Errorf("%w: size=%d max=%d", ErrInvariantBroken, len(entries), e.limits.MaxSquadSize)
	}

	seen := make(map[int64]struct{}, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.Player.ID]; ok {
			return fmt.Errorf("%w: duplicate player_id=%d", ErrInvariantBroken, entry.Player.ID)
		}
		seen[entry.Player.ID] = struct{}{}
	}

	countrySum := 0
	for country, n := range fresh.Countries {
		if n > e.limits.MaxPerCountry {
			return fmt.Errorf("%w: country=%s count=%d max=%d", ErrInvariantBroken, country, n, e.limits.MaxPerCountry)
		}
		countrySum += n
	}
	positionSum := 0
	for pos, n := range fresh.Positions {
		if limit := e.limits.PositionLimit(pos); n > limit {
			return fmt.Errorf("%w: pos=%s count=%d max=%d", ErrInvariantBroken, pos, n, limit)
		}
		positionSum += n
	}
	if countrySum != len(entries) || positionSum != len(entries) {
		return fmt.Errorf("%w: countries=%d positions=%d size=%d", ErrInvariantBroken, countrySum, positionSum, len(entries))
	}

	return nil
}
