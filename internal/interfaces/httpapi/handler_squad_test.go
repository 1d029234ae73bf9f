package httpapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/squad-builder/internal/domain/squad"
	"github.com/riskibarqy/squad-builder/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/squad-builder/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/squad-builder/internal/platform/id"
	"github.com/riskibarqy/squad-builder/internal/usecase"
)

type testEnvelope[T any] struct {
	APIVersion string           `json:"apiVersion"`
	Data       T                `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	repo, err := memory.NewPoolRepository(memory.SeedPool())
	if err != nil {
		t.Fatalf("new pool repository: %v", err)
	}
	service, err := usecase.NewSquadService(
		cache.NewPoolRepository(repo, time.Minute),
		squad.DefaultLimits(),
		idgen.NewRandomGenerator("sess_"),
		nil,
	)
	if err != nil {
		t.Fatalf("new squad service: %v", err)
	}

	handler := NewHandler(service, 3*time.Second, nil)
	return NewRouter(handler, nil, RouterOptions{SwaggerEnabled: true, CORSAllowedOrigins: []string{"*"}})
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) testEnvelope[T] {
	t.Helper()

	var out testEnvelope[T]
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response body: %v (body=%s)", err, rec.Body.String())
	}
	return out
}

func addPlayer(t *testing.T, router http.Handler, id int64) *httptest.ResponseRecorder {
	t.Helper()
	return doRequest(t, router, http.MethodPost, "/v1/squad/players", fmt.Sprintf(`{"player_id":%d}`, id))
}

func TestHandler_AddPlayerFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := addPlayer(t, router, 1)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody[squadMutationDTO](t, rec)
	if body.Data.Outcome.Kind != "success" || body.Data.Outcome.Message != "Alisson has been added to your squad!" {
		t.Fatalf("unexpected outcome: %+v", body.Data.Outcome)
	}
	if body.Data.Outcome.NotificationTTLMs != 3000 {
		t.Fatalf("unexpected notification ttl: %d", body.Data.Outcome.NotificationTTLMs)
	}
	if body.Data.Squad.Size != 1 || body.Data.Squad.MaxSize != 15 {
		t.Fatalf("unexpected squad size: %d/%d", body.Data.Squad.Size, body.Data.Squad.MaxSize)
	}
	if len(body.Data.Squad.Positions) != 4 || body.Data.Squad.Positions[0].Name != "Goalkeeper" || body.Data.Squad.Positions[0].Selected != 1 {
		t.Fatalf("unexpected positions: %+v", body.Data.Squad.Positions)
	}

	rec = doRequest(t, router, http.MethodGet, "/v1/squad", "")
	squadBody := decodeBody[squadDTO](t, rec)
	if len(squadBody.Data.Players) != 1 || squadBody.Data.Players[0].Country != "Brazil" {
		t.Fatalf("unexpected squad players: %+v", squadBody.Data.Players)
	}
}

func TestHandler_AddPlayerRuleViolationsReturnConflict(t *testing.T) {
	tests := []struct {
		name       string
		setup      []int64
		playerID   int64
		wantReason string
		wantMsg    string
	}{
		{name: "position quota", setup: []int64{1, 7}, playerID: 13, wantReason: "positionQuotaExceeded", wantMsg: "You can't select more than 2 Goalkeepers."},
		{name: "country quota", setup: []int64{2, 3, 4, 5}, playerID: 6, wantReason: "countryQuotaExceeded", wantMsg: "You can't select more than 4 players from Brazil."},
		{name: "duplicate", setup: []int64{11}, playerID: 11, wantReason: "duplicatePlayer", wantMsg: "Lionel Messi is already in your squad."},
		{
			name:       "squad full",
			setup:      []int64{1, 2, 3, 4, 7, 8, 9, 10, 14, 16, 17, 18, 22, 23, 24},
			playerID:   11,
			wantReason: "squadFull",
			wantMsg:    "Your squad is full! (15 players maximum)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t)
			for _, id := range tt.setup {
				if rec := addPlayer(t, router, id); rec.Code != http.StatusOK {
					t.Fatalf("setup add %d: status %d body=%s", id, rec.Code, rec.Body.String())
				}
			}

			rec := addPlayer(t, router, tt.playerID)
			if rec.Code != http.StatusConflict {
				t.Fatalf("expected status 409, got %d body=%s", rec.Code, rec.Body.String())
			}
			body := decodeBody[any](t, rec)
			if body.Error == nil || len(body.Error.Errors) == 0 {
				t.Fatalf("expected error body, got %s", rec.Body.String())
			}
			if body.Error.Errors[0].Reason != tt.wantReason {
				t.Fatalf("unexpected reason: %s", body.Error.Errors[0].Reason)
			}
			if body.Error.Message != tt.wantMsg {
				t.Fatalf("unexpected message: %q", body.Error.Message)
			}
		})
	}
}

func TestHandler_AddPlayerBadRequests(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "malformed json", body: `{"player_id":`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"player_id":1,"country":"Brazil"}`, wantStatus: http.StatusBadRequest},
		{name: "zero id", body: `{"player_id":0}`, wantStatus: http.StatusBadRequest},
		{name: "unknown player", body: `{"player_id":999}`, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/v1/squad/players", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d body=%s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandler_RemovePlayer(t *testing.T) {
	router := newTestRouter(t)
	addPlayer(t, router, 1)
	addPlayer(t, router, 11)

	rec := doRequest(t, router, http.MethodDelete, "/v1/squad/players/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody[squadMutationDTO](t, rec)
	if body.Data.Outcome.Kind != "info" || body.Data.Outcome.Message != "Alisson has been removed." {
		t.Fatalf("unexpected outcome: %+v", body.Data.Outcome)
	}
	if len(body.Data.Squad.Players) != 1 || body.Data.Squad.Players[0].ID != 11 {
		t.Fatalf("unexpected squad after remove: %+v", body.Data.Squad.Players)
	}

	rec = doRequest(t, router, http.MethodDelete, "/v1/squad/players/1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	errBody := decodeBody[any](t, rec)
	if errBody.Error == nil || errBody.Error.Message != "That player is not in your squad." {
		t.Fatalf("unexpected error body: %s", rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodDelete, "/v1/squad/players/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestHandler_ListPoolAndReset(t *testing.T) {
	router := newTestRouter(t)
	for _, id := range []int64{1, 2, 3, 4} {
		addPlayer(t, router, id)
	}

	rec := doRequest(t, router, http.MethodGet, "/v1/pool", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	pool := decodeBody[poolDTO](t, rec)
	if len(pool.Data.Countries) != 4 {
		t.Fatalf("unexpected country count: %d", len(pool.Data.Countries))
	}
	brazil := pool.Data.Countries[0]
	if brazil.Name != "Brazil" || brazil.Selected != 4 || brazil.Max != 4 {
		t.Fatalf("unexpected brazil summary: %+v", brazil)
	}
	neymar := brazil.Players[4]
	if neymar.ID != 5 || neymar.Eligible || len(neymar.BlockedBy) != 1 || neymar.BlockedBy[0] != "country_quota" {
		t.Fatalf("unexpected neymar candidate: %+v", neymar)
	}

	rec = doRequest(t, router, http.MethodPost, "/v1/squad/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	reset := decodeBody[squadDTO](t, rec)
	if reset.Data.Size != 0 || reset.Data.SessionID == pool.Data.SessionID {
		t.Fatalf("expected empty squad in a new session, got %+v", reset.Data)
	}
}

func TestHandler_SystemRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/openapi.yaml", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "/v1/squad/players") {
		t.Fatalf("unexpected openapi response: status=%d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodGet, "/docs", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "swagger-ui") {
		t.Fatalf("unexpected docs response: status=%d", rec.Code)
	}
}
