package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/squad-builder/internal/domain/player"
	"github.com/riskibarqy/squad-builder/internal/domain/squad"
	idgen "github.com/riskibarqy/squad-builder/internal/platform/id"
	"github.com/riskibarqy/squad-builder/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// SquadView is the read model of the current session.
type SquadView struct {
	SessionID string
	StartedAt time.Time
	Entries   []squad.Entry
	Counts    squad.Counts
	Limits    squad.Limits
}

// SquadResult pairs the notification of a mutating call with the squad
// after the call.
type SquadResult struct {
	Outcome squad.Outcome
	Squad   SquadView
}

// CandidateView is one pool player annotated for the add button.
type CandidateView struct {
	Player    player.Player
	Country   string
	Selected  bool
	Eligible  bool
	BlockedBy []squad.RuleName
}

type CountryView struct {
	Name       string
	Selected   int
	Max        int
	Candidates []CandidateView
}

type PoolView struct {
	SessionID string
	Countries []CountryView
}

// SquadService owns the squad of one session. Calls are serialised so the
// engine only ever sees one operation at a time.
type SquadService struct {
	mu        sync.Mutex
	poolRepo  player.Repository
	limits    squad.Limits
	engine    *squad.Engine
	sessionID string
	startedAt time.Time
	idGen     idgen.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewSquadService(
	poolRepo player.Repository,
	limits squad.Limits,
	idGen idgen.Generator,
	logger *logging.Logger,
) (*SquadService, error) {
	if logger == nil {
		logger = logging.Default()
	}

	s := &SquadService{
		poolRepo:  poolRepo,
		limits:    limits,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
	if err := s.startSession(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *SquadService) GetSquad(ctx context.Context) SquadView {
	_, span := startUsecaseSpan(ctx, "usecase.SquadService.GetSquad")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.viewLocked()
}

func (s *SquadService) ListCandidates(ctx context.Context) (PoolView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.ListCandidates")
	defer span.End()

	pool, err := s.loadPool(ctx)
	if err != nil {
		return PoolView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	counts := s.engine.Counts()
	view := PoolView{
		SessionID: s.sessionID,
		Countries: make([]CountryView, 0, len(pool.Countries)),
	}
	for _, c := range pool.Countries {
		country := CountryView{
			Name:       c.Name,
			Selected:   counts.Country(c.Name),
			Max:        s.limits.MaxPerCountry,
			Candidates: make([]CandidateView, 0, len(c.Players)),
		}
		for _, p := range c.Players {
			country.Candidates = append(country.Candidates, s.candidateLocked(p, c.Name))
		}
		view.Countries = append(view.Countries, country)
	}

	return view, nil
}

func (s *SquadService) AddPlayer(ctx context.Context, playerID int64) (SquadResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.AddPlayer", attribute.Int64("player.id", playerID))
	defer span.End()

	if playerID <= 0 {
		return SquadResult{}, fmt.Errorf("%w: player id must be greater than zero", ErrInvalidInput)
	}

	candidate, exists, err := s.poolRepo.GetCandidate(ctx, playerID)
	if err != nil {
		return SquadResult{}, fmt.Errorf("%w: get candidate: %v", ErrDependencyUnavailable, err)
	}
	if !exists {
		return SquadResult{}, fmt.Errorf("%w: player_id=%d is not in the pool", ErrNotFound, playerID)
	}

	s.mu.Lock()
	outcome, addErr := s.engine.Add(candidate.Player, candidate.Country)
	result := SquadResult{Outcome: outcome, Squad: s.viewLocked()}
	s.mu.Unlock()

	recordOutcome(span, string(outcome.Kind), addErr)
	if addErr != nil {
		rule, _ := squad.RuleOf(addErr)
		s.logger.WarnContext(ctx, "squad add rejected",
			"session_id", result.Squad.SessionID,
			"player_id", playerID,
			"country", candidate.Country,
			"position", string(candidate.Player.Position),
			"rule", string(rule),
			"error", addErr,
		)
		return result, fmt.Errorf("add player: %w", addErr)
	}

	s.logger.InfoContext(ctx, "squad player added",
		"session_id", result.Squad.SessionID,
		"player_id", playerID,
		"country", candidate.Country,
		"position", string(candidate.Player.Position),
		"squad_size", len(result.Squad.Entries),
	)

	return result, nil
}

func (s *SquadService) RemovePlayer(ctx context.Context, playerID int64) (SquadResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.RemovePlayer", attribute.Int64("player.id", playerID))
	defer span.End()

	if playerID <= 0 {
		return SquadResult{}, fmt.Errorf("%w: player id must be greater than zero", ErrInvalidInput)
	}

	s.mu.Lock()
	outcome, removeErr := s.engine.Remove(playerID)
	result := SquadResult{Outcome: outcome, Squad: s.viewLocked()}
	s.mu.Unlock()

	recordOutcome(span, string(outcome.Kind), removeErr)
	if removeErr != nil {
		s.logger.InfoContext(ctx, "squad remove ignored",
			"session_id", result.Squad.SessionID,
			"player_id", playerID,
			"error", removeErr,
		)
		if errors.Is(removeErr, squad.ErrPlayerNotInSquad) {
			return result, fmt.Errorf("%w: %w", ErrNotFound, removeErr)
		}
		return result, fmt.Errorf("remove player: %w", removeErr)
	}

	s.logger.InfoContext(ctx, "squad player removed",
		"session_id", result.Squad.SessionID,
		"player_id", playerID,
		"squad_size", len(result.Squad.Entries),
	)

	return result, nil
}

// Reset discards the current squad and starts a new session.
func (s *SquadService) Reset(ctx context.Context) (SquadView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.Reset")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.sessionID
	if err := s.startSessionLocked(); err != nil {
		return SquadView{}, err
	}

	s.logger.InfoContext(ctx, "squad session reset",
		"previous_session_id", previous,
		"session_id", s.sessionID,
	)

	return s.viewLocked(), nil
}

func (s *SquadService) startSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.startSessionLocked()
}

func (s *SquadService) startSessionLocked() error {
	engine, err := squad.NewEngine(s.limits)
	if err != nil {
		return fmt.Errorf("create squad engine: %w", err)
	}
	sessionID, err := s.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate session id: %w", err)
	}

	s.engine = engine
	s.sessionID = sessionID
	s.startedAt = s.now().UTC()
	return nil
}

func (s *SquadService) loadPool(ctx context.Context) (player.Pool, error) {
	pool, err := s.poolRepo.GetPool(ctx)
	if err != nil {
		return player.Pool{}, fmt.Errorf("%w: load pool: %v", ErrDependencyUnavailable, err)
	}

	return pool, nil
}

func (s *SquadService) candidateLocked(p player.Player, country string) CandidateView {
	view := CandidateView{
		Player:   p,
		Country:  country,
		Selected: s.engine.Contains(p.ID),
	}

	failures := s.engine.Eligibility(p, country)
	view.Eligible = len(failures) == 0
	for _, failure := range failures {
		if rule, ok := squad.RuleOf(failure); ok {
			view.BlockedBy = append(view.BlockedBy, rule)
		}
	}

	return view
}

func (s *SquadService) viewLocked() SquadView {
	return SquadView{
		SessionID: s.sessionID,
		StartedAt: s.startedAt,
		Entries:   s.engine.Entries(),
		Counts:    s.engine.Counts(),
		Limits:    s.engine.Limits(),
	}
}
