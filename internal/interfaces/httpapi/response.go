package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/squad-builder/internal/domain/squad"
	"github.com/riskibarqy/squad-builder/internal/usecase"
	"github.com/valyala/bytebufferpool"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "squad-builder"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code              int               `json:"code"`
	Message           string            `json:"message"`
	Status            string            `json:"status"`
	Kind              string            `json:"kind,omitempty"`
	NotificationTTLMs int64             `json:"notification_ttl_ms,omitempty"`
	Errors            []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

// writeJSON encodes into a pooled buffer first so an encoding failure can
// still become a clean 500.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		span.RecordError(err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"apiVersion":"2.0","error":{"code":500,"message":"internal server error","status":"INTERNAL"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	writeNotificationError(ctx, w, err, 0)
}

// writeNotificationError renders squad rejections with the user facing
// message at the top level and the technical detail in errors[].
func writeNotificationError(ctx context.Context, w http.ResponseWriter, err error, ttl time.Duration) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	body := &googleErrorBody{
		Code:    mapped.HTTPStatus,
		Message: err.Error(),
		Status:  mapped.Status,
		Errors: []googleErrorItem{
			{
				Domain:  errorDomain,
				Reason:  mapped.Reason,
				Message: err.Error(),
			},
		},
	}
	if isSquadNotification(err) {
		outcome := squad.OutcomeFor(err)
		body.Message = outcome.Message
		body.Kind = string(outcome.Kind)
		body.NotificationTTLMs = ttl.Milliseconds()
	}

	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error:      body,
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	const msg = "internal server error"

	writeJSON(ctx, w, http.StatusInternalServerError, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    http.StatusInternalServerError,
			Message: msg,
			Status:  "INTERNAL",
			Errors: []googleErrorItem{
				{
					Domain:  errorDomain,
					Reason:  "internalError",
					Message: msg,
				},
			},
		},
	})
}

func isSquadNotification(err error) bool {
	if _, ok := squad.RuleOf(err); ok {
		return true
	}
	return errors.Is(err, squad.ErrPlayerNotInSquad)
}

func mapError(ctx context.Context, err error) mappedError {
	_, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	switch {
	case errors.Is(err, squad.ErrSquadFull):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "squadFull",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, squad.ErrCountryQuotaExceeded):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "countryQuotaExceeded",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, squad.ErrPositionQuotaExceeded):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "positionQuotaExceeded",
			Status:     "FAILED_PRECONDITION",
		}
	case errors.Is(err, squad.ErrDuplicatePlayer):
		return mappedError{
			HTTPStatus: http.StatusConflict,
			Reason:     "duplicatePlayer",
			Status:     "ALREADY_EXISTS",
		}
	case errors.Is(err, squad.ErrPlayerNotInSquad):
		return mappedError{
			HTTPStatus: http.StatusNotFound,
			Reason:     "playerNotInSquad",
			Status:     "NOT_FOUND",
		}
	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, squad.ErrInvalidCandidate):
		return mappedError{
			HTTPStatus: http.StatusBadRequest,
			Reason:     "invalidInput",
			Status:     "INVALID_ARGUMENT",
		}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{
			HTTPStatus: http.StatusNotFound,
			Reason:     "notFound",
			Status:     "NOT_FOUND",
		}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{
			HTTPStatus: http.StatusServiceUnavailable,
			Reason:     "dependencyUnavailable",
			Status:     "UNAVAILABLE",
		}
	default:
		return mappedError{
			HTTPStatus: http.StatusInternalServerError,
			Reason:     "internalError",
			Status:     "INTERNAL",
		}
	}
}
