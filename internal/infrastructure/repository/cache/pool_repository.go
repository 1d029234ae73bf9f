package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/squad-builder/internal/domain/player"
	basecache "github.com/riskibarqy/squad-builder/internal/platform/cache"
)

const poolKey = "pool"

// PoolRepository caches a player.Repository. Concurrent misses for the same
// key are collapsed into one call to next.
type PoolRepository struct {
	next       player.Repository
	pools      *basecache.Store[player.Pool]
	candidates *basecache.Store[cachedCandidate]
}

type cachedCandidate struct {
	value  player.Candidate
	exists bool
}

func NewPoolRepository(next player.Repository, ttl time.Duration) *PoolRepository {
	return &PoolRepository{
		next:       next,
		pools:      basecache.NewStore[player.Pool](ttl),
		candidates: basecache.NewStore[cachedCandidate](ttl),
	}
}

func (r *PoolRepository) GetPool(ctx context.Context) (player.Pool, error) {
	pool, err := r.pools.GetOrLoad(ctx, poolKey, r.next.GetPool)
	if err != nil {
		return player.Pool{}, err
	}

	return pool.Clone(), nil
}

func (r *PoolRepository) GetCandidate(ctx context.Context, playerID int64) (player.Candidate, bool, error) {
	key := "candidate:" + strconv.FormatInt(playerID, 10)
	cached, err := r.candidates.GetOrLoad(ctx, key, func(ctx context.Context) (cachedCandidate, error) {
		item, exists, err := r.next.GetCandidate(ctx, playerID)
		if err != nil {
			return cachedCandidate{}, err
		}
		return cachedCandidate{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Candidate{}, false, err
	}

	return cached.value, cached.exists, nil
}
