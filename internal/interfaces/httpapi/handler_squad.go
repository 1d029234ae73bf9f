package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/squad-builder/internal/domain/squad"
	"github.com/riskibarqy/squad-builder/internal/usecase"
)

func (h *Handler) GetSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSquad")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(ctx, h.squadService.GetSquad(ctx)))
}

func (h *Handler) ListPool(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPool")
	defer span.End()

	pool, err := h.squadService.ListCandidates(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list pool failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, poolToDTO(ctx, pool))
}

func (h *Handler) AddPlayerToSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddPlayerToSquad")
	defer span.End()

	var req addPlayerRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.squadService.AddPlayer(ctx, req.PlayerID)
	if err != nil {
		if _, isRule := squad.RuleOf(err); !isRule {
			h.logger.WarnContext(ctx, "add player failed", "player_id", req.PlayerID, "error", err)
		}
		writeNotificationError(ctx, w, err, h.notificationTTL)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadMutationDTO{
		Outcome: outcomeToDTO(result.Outcome, h.notificationTTL),
		Squad:   squadToDTO(ctx, result.Squad),
	})
}

func (h *Handler) RemovePlayerFromSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemovePlayerFromSquad")
	defer span.End()

	rawID := strings.TrimSpace(r.PathValue("playerID"))
	playerID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid player id %q", usecase.ErrInvalidInput, rawID))
		return
	}

	result, err := h.squadService.RemovePlayer(ctx, playerID)
	if err != nil {
		writeNotificationError(ctx, w, err, h.notificationTTL)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadMutationDTO{
		Outcome: outcomeToDTO(result.Outcome, h.notificationTTL),
		Squad:   squadToDTO(ctx, result.Squad),
	})
}

func (h *Handler) ResetSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResetSquad")
	defer span.End()

	view, err := h.squadService.Reset(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "reset squad failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(ctx, view))
}
