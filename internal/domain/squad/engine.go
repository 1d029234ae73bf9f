package squad

import (
	"fmt"

	"github.com/riskibarqy/squad-builder/internal/domain/player"
)

// Engine owns the selection state of one session. It is not safe for
// concurrent use; callers serialise access.
type Engine struct {
	limits  Limits
	rules   []Rule
	entries []Entry
	counts  *Counts
}

func NewEngine(limits Limits) (*Engine, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		limits: limits.clone(),
		rules:  OrderedRules(),
	}, nil
}

func (e *Engine) Limits() Limits {
	return e.limits.clone()
}

// Add appends the player to the squad when every rule passes. The first
// failing rule is returned and the squad is left untouched.
func (e *Engine) Add(p player.Player, country string) (Outcome, error) {
	if err := validateCandidate(p, country); err != nil {
		return OutcomeFor(err), err
	}

	snapshot := e.snapshot()
	for _, rule := range e.rules {
		if err := rule.Check(snapshot, e.limits, p, country); err != nil {
			return OutcomeFor(err), err
		}
	}

	e.entries = append(e.entries, Entry{Player: p, Country: country})
	e.invalidate()

	return Outcome{
		Kind:    OutcomeSuccess,
		Message: fmt.Sprintf("%s has been added to your squad!", p.Name),
	}, nil
}

// Remove drops the entry for playerID keeping the order of the others.
func (e *Engine) Remove(playerID int64) (Outcome, error) {
	idx := e.indexOf(playerID)
	if idx < 0 {
		err := fmt.Errorf("%w: player_id=%d", ErrPlayerNotInSquad, playerID)
		return OutcomeFor(err), err
	}

	removed := e.entries[idx]
	next := make([]Entry, 0, len(e.entries)-1)
	next = append(next, e.entries[:idx]...)
	next = append(next, e.entries[idx+1:]...)
	e.entries = next
	e.invalidate()

	return Outcome{
		Kind:    OutcomeInfo,
		Message: fmt.Sprintf("%s has been removed.", removed.Player.Name),
	}, nil
}

// Reset empties the squad.
func (e *Engine) Reset() {
	e.entries = nil
	e.invalidate()
}

// Eligibility evaluates every rule for a hypothetical add and returns all
// failures in rule order. An empty result means the add would succeed.
func (e *Engine) Eligibility(p player.Player, country string) []error {
	if err := validateCandidate(p, country); err != nil {
		return []error{err}
	}

	snapshot := e.snapshot()
	var failures []error
	for _, rule := range e.rules {
		if err := rule.Check(snapshot, e.limits, p, country); err != nil {
			failures = append(failures, err)
		}
	}

	return failures
}

func (e *Engine) IsEligible(p player.Player, country string) bool {
	return len(e.Eligibility(p, country)) == 0
}

// Entries returns a copy of the squad in selection order.
func (e *Engine) Entries() []Entry {
	return append([]Entry(nil), e.entries...)
}

func (e *Engine) Size() int {
	return len(e.entries)
}

func (e *Engine) Contains(playerID int64) bool {
	return e.indexOf(playerID) >= 0
}

// Counts returns the aggregates for the current squad.
func (e *Engine) Counts() Counts {
	return e.currentCounts().clone()
}

func (e *Engine) snapshot() Snapshot {
	return Snapshot{
		Entries: e.entries,
		Counts:  e.currentCounts(),
	}
}

func (e *Engine) currentCounts() Counts {
	if e.counts == nil {
		counts := CountEntries(e.entries)
		e.counts = &counts
	}
	return *e.counts
}

// invalidate drops the memoised counts; call after every change to entries.
func (e *Engine) invalidate() {
	e.counts = nil
}

func (e *Engine) indexOf(playerID int64) int {
	for i, entry := range e.entries {
		if entry.Player.ID == playerID {
			return i
		}
	}
	return -1
}
