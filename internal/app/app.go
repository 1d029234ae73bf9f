package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/squad-builder/internal/config"
	"github.com/riskibarqy/squad-builder/internal/domain/player"
	"github.com/riskibarqy/squad-builder/internal/domain/squad"
	"github.com/riskibarqy/squad-builder/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/squad-builder/internal/infrastructure/repository/jsonfile"
	"github.com/riskibarqy/squad-builder/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/squad-builder/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/squad-builder/internal/platform/id"
	"github.com/riskibarqy/squad-builder/internal/platform/logging"
	"github.com/riskibarqy/squad-builder/internal/usecase"
)

// LoadPool reads the pool from path, or returns the built-in pool when path
// is empty.
func LoadPool(path string, logger *logging.Logger) (player.Pool, error) {
	if logger == nil {
		logger = logging.Default()
	}

	path = strings.TrimSpace(path)
	if path == "" {
		pool := memory.SeedPool()
		logger.Info("using built-in player pool", "countries", len(pool.Countries), "players", pool.Size())
		return pool, nil
	}

	pool, err := jsonfile.NewLoader().LoadFile(path)
	if err != nil {
		return player.Pool{}, fmt.Errorf("load pool file: %w", err)
	}
	logger.Info("loaded player pool", "path", path, "countries", len(pool.Countries), "players", pool.Size())

	return pool, nil
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	pool, err := LoadPool(cfg.PoolFile, logger)
	if err != nil {
		return nil, err
	}
	poolRepo, err := memory.NewPoolRepository(pool)
	if err != nil {
		return nil, fmt.Errorf("build pool repository: %w", err)
	}

	squadSvc, err := usecase.NewSquadService(
		cache.NewPoolRepository(poolRepo, cfg.CacheTTL),
		squad.DefaultLimits(),
		idgen.NewRandomGenerator("sess_"),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("build squad service: %w", err)
	}

	handler := httpapi.NewHandler(squadSvc, cfg.NotificationTTL, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterOptions{
		ServiceName:        cfg.ServiceName,
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
