package round

import (
	"context"

	"github.com/kopeyka/casino/pkg/entities"
)

// Store holds each user's in-progress blackjack round between actions.
// Rounds are private to a user's own sequential requests, so the contract
// is simply last-write-wins per user.
type Store interface {
	// GetRound retrieves a user's round, or nil when none is in progress
	GetRound(ctx context.Context, userID string) (*entities.Round, error)

	// PutRound stores a user's round, replacing any previous one
	PutRound(ctx context.Context, userID string, r *entities.Round) error

	// ClearRound discards a user's round if present
	ClearRound(ctx context.Context, userID string) error

	// Close closes any resources used by the store
	Close() error
}
