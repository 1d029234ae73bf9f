package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/squad-builder/internal/domain/player"
)

type PoolRepository struct {
	mu    sync.RWMutex
	pool  player.Pool
	index map[int64]player.Candidate
}

func NewPoolRepository(pool player.Pool) (*PoolRepository, error) {
	if err := pool.Validate(); err != nil {
		return nil, fmt.Errorf("validate pool: %w", err)
	}

	pool = pool.Clone()
	index := make(map[int64]player.Candidate, pool.Size())
	for _, c := range pool.Candidates() {
		index[c.Player.ID] = c
	}

	return &PoolRepository{
		pool:  pool,
		index: index,
	}, nil
}

func (r *PoolRepository) GetPool(_ context.Context) (player.Pool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.pool.Clone(), nil
}

func (r *PoolRepository) GetCandidate(_ context.Context, playerID int64) (player.Candidate, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.index[playerID]
	return c, ok, nil
}
