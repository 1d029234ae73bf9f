package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/squad-builder/internal/app"
	"github.com/riskibarqy/squad-builder/internal/domain/squad"
	"github.com/riskibarqy/squad-builder/internal/platform/logging"
	"github.com/riskibarqy/squad-builder/internal/usecase"
)

func main() {
	var (
		sessions = flag.Int("sessions", 100, "number of independent squad sessions")
		steps    = flag.Int("steps", 500, "random add/remove steps per session")
		workers  = flag.Int("workers", 8, "worker pool size")
		seed     = flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
		poolPath = flag.String("pool", "", "path to a JSON or YAML player pool (built-in pool when empty)")
		logLevel = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	logger := logging.New(logging.Options{
		Level:  logging.ParseLevel(*logLevel),
		Format: logging.FormatConsole,
		Output: os.Stderr,
	})
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if err := run(logger, *poolPath, usecase.SimulationInput{
		Sessions: *sessions,
		Steps:    *steps,
		Workers:  *workers,
		Seed:     *seed,
	}); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("simulation interrupted before all sessions finished")
			_ = logger.Sync()
			os.Exit(130)
		}
		logger.Error("simulation failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(logger *logging.Logger, poolPath string, input usecase.SimulationInput) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := app.LoadPool(poolPath, logger)
	if err != nil {
		return err
	}
	sim, err := usecase.NewSimulator(pool, squad.DefaultLimits(), logger)
	if err != nil {
		return err
	}

	logger.Info("simulation starting",
		"sessions", input.Sessions,
		"steps", input.Steps,
		"workers", input.Workers,
		"seed", input.Seed,
	)
	result, err := sim.RunSimulation(ctx, input)
	if err != nil {
		return err
	}

	for _, row := range result.Sessions {
		if row.Violation == "" {
			continue
		}
		fmt.Fprintf(os.Stdout, "session %d: %s\n", row.Session, row.Violation)
	}
	fmt.Fprintf(os.Stdout, "sessions=%d accepted=%d rejected=%d removed=%d failed=%d seed=%d\n",
		len(result.Sessions), result.TotalAccepted, result.TotalRejected, result.TotalRemoved, result.FailedCount, input.Seed)

	if result.FailedCount > 0 {
		return fmt.Errorf("%d of %d sessions broke an invariant", result.FailedCount, len(result.Sessions))
	}
	return nil
}
