package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/squad-builder/internal/domain/player"
	"github.com/riskibarqy/squad-builder/internal/domain/squad"
	"github.com/riskibarqy/squad-builder/internal/platform/logging"
)

const (
	defaultSimulationSteps   = 200
	defaultSimulationWorkers = 4
	maxSimulationWorkers     = 64

	// Share of steps that try an add; the rest remove a random member.
	simulationAddWeight = 0.7
)

type SimulationInput struct {
	Sessions int
	Steps    int
	Workers  int
	Seed     uint64
}

type SessionResult struct {
	Session    int
	Steps      int
	Accepted   int
	Rejected   int
	Removed    int
	FinalSize  int
	DurationMs int64
	Violation  string
}

type SimulationResult struct {
	Sessions      []SessionResult
	TotalAccepted int
	TotalRejected int
	TotalRemoved  int
	FailedCount   int
}

// Simulator drives many independent engines with random operations and
// audits the squad after every step.
type Simulator struct {
	candidates []player.Candidate
	limits     squad.Limits
	logger     *logging.Logger
}

func NewSimulator(pool player.Pool, limits squad.Limits, logger *logging.Logger) (*Simulator, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if err := pool.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := limits.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	candidates := pool.Candidates()
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: pool has no candidates", ErrInvalidInput)
	}

	return &Simulator{
		candidates: candidates,
		limits:     limits,
		logger:     logger,
	}, nil
}

func (s *Simulator) RunSimulation(ctx context.Context, input SimulationInput) (SimulationResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.Simulator.RunSimulation")
	defer span.End()

	if input.Sessions <= 0 {
		return SimulationResult{}, fmt.Errorf("%w: sessions must be greater than zero", ErrInvalidInput)
	}
	steps := input.Steps
	if steps <= 0 {
		steps = defaultSimulationSteps
	}
	workerCount := input.Workers
	if workerCount <= 0 {
		workerCount = defaultSimulationWorkers
	}
	if workerCount > maxSimulationWorkers {
		workerCount = maxSimulationWorkers
	}
	if workerCount > input.Sessions {
		workerCount = input.Sessions
	}

	results := make(chan SessionResult, input.Sessions)

	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return SimulationResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for session := range input.Sessions {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			rng := rand.New(rand.NewPCG(input.Seed, uint64(session)))
			row := s.runSession(ctx, session, steps, rng)
			row.DurationMs = time.Since(start).Milliseconds()
			if row.Violation != "" {
				failedCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			workers.Wait()
			return SimulationResult{}, fmt.Errorf("submit session to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)
	if err := ctx.Err(); err != nil {
		return SimulationResult{}, fmt.Errorf("simulation interrupted: %w", err)
	}

	result := SimulationResult{Sessions: make([]SessionResult, 0, input.Sessions)}
	for row := range results {
		result.Sessions = append(result.Sessions, row)
		result.TotalAccepted += row.Accepted
		result.TotalRejected += row.Rejected
		result.TotalRemoved += row.Removed
	}
	sort.Slice(result.Sessions, func(i, j int) bool {
		return result.Sessions[i].Session < result.Sessions[j].Session
	})
	result.FailedCount = int(failedCount.Load())
	if len(result.Sessions) != input.Sessions {
		return result, fmt.Errorf("%w: %d of %d sessions reported a result", ErrSimulationIncomplete, len(result.Sessions), input.Sessions)
	}

	s.logger.InfoContext(ctx, "simulation finished",
		"sessions", input.Sessions,
		"steps", steps,
		"workers", workerCount,
		"accepted", result.TotalAccepted,
		"rejected", result.TotalRejected,
		"removed", result.TotalRemoved,
		"failed", result.FailedCount,
	)

	return result, nil
}

func (s *Simulator) runSession(ctx context.Context, session, steps int, rng *rand.Rand) SessionResult {
	row := SessionResult{Session: session}

	engine, err := squad.NewEngine(s.limits)
	if err != nil {
		row.Violation = err.Error()
		return row
	}

	for step := range steps {
		if ctx.Err() != nil {
			break
		}
		row.Steps = step + 1

		var stepErr error
		if engine.Size() == 0 || rng.Float64() < simulationAddWeight {
			stepErr = s.stepAdd(engine, rng, &row)
		} else {
			stepErr = s.stepRemove(engine, rng, &row)
		}
		if stepErr == nil {
			stepErr = engine.Audit()
		}
		if stepErr != nil {
			row.Violation = fmt.Sprintf("step %d: %v", step, stepErr)
			s.logger.WarnContext(ctx, "simulation invariant violated",
				"session", session,
				"step", step,
				"error", stepErr,
			)
			break
		}
	}

	row.FinalSize = engine.Size()
	return row
}

func (s *Simulator) stepAdd(engine *squad.Engine, rng *rand.Rand, row *SessionResult) error {
	candidate := s.candidates[rng.IntN(len(s.candidates))]
	before := engine.Counts()
	eligible := engine.IsEligible(candidate.Player, candidate.Country)

	_, err := engine.Add(candidate.Player, candidate.Country)
	if err != nil {
		row.Rejected++
		if _, ok := squad.RuleOf(err); !ok {
			return fmt.Errorf("add player_id=%d failed outside the rules: %w", candidate.Player.ID, err)
		}
		if eligible {
			return fmt.Errorf("%w: player_id=%d eligible but rejected", squad.ErrInvariantBroken, candidate.Player.ID)
		}
		if !engine.Counts().Equal(before) {
			return fmt.Errorf("%w: rejected add changed counts", squad.ErrInvariantBroken)
		}
		return nil
	}

	row.Accepted++
	if !eligible {
		return fmt.Errorf("%w: player_id=%d ineligible but accepted", squad.ErrInvariantBroken, candidate.Player.ID)
	}

	// Occasionally undo the add and check the counts come back.
	if rng.IntN(10) == 0 {
		if _, err := engine.Remove(candidate.Player.ID); err != nil {
			return fmt.Errorf("round trip remove: %w", err)
		}
		if !engine.Counts().Equal(before) {
			return fmt.Errorf("%w: add and remove did not restore counts", squad.ErrInvariantBroken)
		}
		if _, err := engine.Add(candidate.Player, candidate.Country); err != nil {
			return fmt.Errorf("round trip re-add: %w", err)
		}
	}

	return nil
}

func (s *Simulator) stepRemove(engine *squad.Engine, rng *rand.Rand, row *SessionResult) error {
	entries := engine.Entries()
	target := entries[rng.IntN(len(entries))]

	if _, err := engine.Remove(target.Player.ID); err != nil {
		return fmt.Errorf("remove member player_id=%d: %w", target.Player.ID, err)
	}
	row.Removed++

	if engine.Contains(target.Player.ID) {
		return fmt.Errorf("%w: player_id=%d still present after remove", squad.ErrInvariantBroken, target.Player.ID)
	}
	if _, err := engine.Remove(target.Player.ID); !errors.Is(err, squad.ErrPlayerNotInSquad) {
		return fmt.Errorf("%w: second remove returned %v", squad.ErrInvariantBroken, err)
	}

	return nil
}
