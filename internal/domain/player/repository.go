package player

import "context"

// Repository describes candidate pool access needs from use cases.
type Repository interface {
	GetPool(ctx context.Context) (Pool, error)
	GetCandidate(ctx context.Context, playerID int64) (Candidate, bool, error)
}
