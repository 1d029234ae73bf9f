package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/riskibarqy/squad-builder/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		ServiceName:        "squad-builder-test",
		HTTPAddr:           ":0",
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		CORSAllowedOrigins: []string{"*"},
		CacheTTL:           time.Minute,
		NotificationTTL:    3 * time.Second,
	}
}

func TestLoadPool_DefaultsToSeed(t *testing.T) {
	pool, err := LoadPool("", nil)
	if err != nil {
		t.Fatalf("load pool: %v", err)
	}
	if len(pool.Countries) != 4 || pool.Size() != 24 {
		t.Fatalf("unexpected seed pool: countries=%d players=%d", len(pool.Countries), pool.Size())
	}
}

func TestLoadPool_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.json")
	doc := `{"countries":[{"name":"Spain","players":[{"id":1,"name":"Unai Simón","position":"Goalkeeper"},{"id":2,"name":"Rodri","position":"Midfielder"}]}]}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write pool file: %v", err)
	}

	pool, err := LoadPool(path, nil)
	if err != nil {
		t.Fatalf("load pool: %v", err)
	}
	if pool.Size() != 2 || pool.Countries[0].Name != "Spain" {
		t.Fatalf("unexpected pool: %+v", pool)
	}

	if _, err := LoadPool(filepath.Join(t.TempDir(), "missing.json"), nil); err == nil {
		t.Fatalf("expected error for missing pool file")
	}
}

func TestNewHTTPServer(t *testing.T) {
	cfg := testConfig()
	srv, err := NewHTTPServer(cfg, nil)
	if err != nil {
		t.Fatalf("new http server: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/pool", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	cfg.HTTPAddr = " "
	if _, err := NewHTTPServer(cfg, nil); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
