package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/squad-builder/internal/platform/logging"
	"github.com/riskibarqy/squad-builder/internal/usecase"
)

type Handler struct {
	squadService    *usecase.SquadService
	notificationTTL time.Duration
	logger          *logging.Logger
	validator       *validator.Validate
}

// NewHandler wires the squad endpoints. notificationTTL is how long clients
// should keep an outcome message on screen.
func NewHandler(
	squadService *usecase.SquadService,
	notificationTTL time.Duration,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		squadService:    squadService,
		notificationTTL: notificationTTL,
		logger:          logger,
		validator:       validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type addPlayerRequest struct {
	PlayerID int64 `json:"player_id" validate:"required,gt=0"`
}
