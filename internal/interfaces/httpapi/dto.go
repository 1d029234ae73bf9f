package httpapi

import (
	"context"
	"time"

	"github.com/riskibarqy/squad-builder/internal/domain/player"
	"github.com/riskibarqy/squad-builder/internal/domain/squad"
	"github.com/riskibarqy/squad-builder/internal/usecase"
)

type squadPlayerDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Country  string `json:"country"`
}

type quotaDTO struct {
	Name     string `json:"name"`
	Selected int    `json:"selected"`
	Max      int    `json:"max"`
}

type squadDTO struct {
	SessionID    string           `json:"session_id"`
	StartedAtUTC string           `json:"started_at_utc"`
	Size         int              `json:"size"`
	MaxSize      int              `json:"max_size"`
	Players      []squadPlayerDTO `json:"players"`
	Countries    []quotaDTO       `json:"countries"`
	Positions    []quotaDTO       `json:"positions"`
}

type outcomeDTO struct {
	Kind              string `json:"kind"`
	Message           string `json:"message"`
	NotificationTTLMs int64  `json:"notification_ttl_ms"`
}

type squadMutationDTO struct {
	Outcome outcomeDTO `json:"outcome"`
	Squad   squadDTO   `json:"squad"`
}

type candidateDTO struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Position  string   `json:"position"`
	Selected  bool     `json:"selected"`
	Eligible  bool     `json:"eligible"`
	BlockedBy []string `json:"blocked_by"`
}

type poolCountryDTO struct {
	Name     string         `json:"name"`
	Selected int            `json:"selected"`
	Max      int            `json:"max"`
	Players  []candidateDTO `json:"players"`
}

type poolDTO struct {
	SessionID string           `json:"session_id"`
	Countries []poolCountryDTO `json:"countries"`
}

func squadToDTO(ctx context.Context, v usecase.SquadView) squadDTO {
	_, span := startSpan(ctx, "httpapi.squadToDTO")
	defer span.End()

	players := make([]squadPlayerDTO, 0, len(v.Entries))
	countries := make([]quotaDTO, 0)
	seen := make(map[string]struct{})
	for _, entry := range v.Entries {
		players = append(players, squadPlayerDTO{
			ID:       entry.Player.ID,
			Name:     entry.Player.Name,
			Position: string(entry.Player.Position),
			Country:  entry.Country,
		})
		if _, ok := seen[entry.Country]; ok {
			continue
		}
		seen[entry.Country] = struct{}{}
		countries = append(countries, quotaDTO{
			Name:     entry.Country,
			Selected: v.Counts.Country(entry.Country),
			Max:      v.Limits.MaxPerCountry,
		})
	}

	positions := make([]quotaDTO, 0, len(player.Positions))
	for _, pos := range player.Positions {
		positions = append(positions, quotaDTO{
			Name:     string(pos),
			Selected: v.Counts.Position(pos),
			Max:      v.Limits.PositionLimit(pos),
		})
	}

	return squadDTO{
		SessionID:    v.SessionID,
		StartedAtUTC: v.StartedAt.UTC().Format(time.RFC3339),
		Size:         len(v.Entries),
		MaxSize:      v.Limits.MaxSquadSize,
		Players:      players,
		Countries:    countries,
		Positions:    positions,
	}
}

func outcomeToDTO(v squad.Outcome, ttl time.Duration) outcomeDTO {
	return outcomeDTO{
		Kind:              string(v.Kind),
		Message:           v.Message,
		NotificationTTLMs: ttl.Milliseconds(),
	}
}

func poolToDTO(ctx context.Context, v usecase.PoolView) poolDTO {
	_, span := startSpan(ctx, "httpapi.poolToDTO")
	defer span.End()

	countries := make([]poolCountryDTO, 0, len(v.Countries))
	for _, c := range v.Countries {
		players := make([]candidateDTO, 0, len(c.Candidates))
		for _, candidate := range c.Candidates {
			blockedBy := make([]string, 0, len(candidate.BlockedBy))
			for _, rule := range candidate.BlockedBy {
				blockedBy = append(blockedBy, string(rule))
			}
			players = append(players, candidateDTO{
				ID:        candidate.Player.ID,
				Name:      candidate.Player.Name,
				Position:  string(candidate.Player.Position),
				Selected:  candidate.Selected,
				Eligible:  candidate.Eligible,
				BlockedBy: blockedBy,
			})
		}
		countries = append(countries, poolCountryDTO{
			Name:     c.Name,
			Selected: c.Selected,
			Max:      c.Max,
			Players:  players,
		})
	}

	return poolDTO{
		SessionID: v.SessionID,
		Countries: countries,
	}
}
