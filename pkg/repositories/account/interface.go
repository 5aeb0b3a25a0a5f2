package account

import (
	"context"
	"errors"

	"github.com/kopeyka/casino/pkg/entities"
)

var (
	// ErrAccountNotFound is returned when no account exists for a user
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientBalance is returned when a settlement would drive a
	// balance below zero. The engine checks bets before resolving, so
	// hitting this means a concurrent settlement won the race.
	ErrInsufficientBalance = errors.New("insufficient balance for settlement")
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_account

// Repository defines storage operations for accounts and round history.
// Implementations must make SettleRound atomic: the balance change and the
// history append land together or not at all.
type Repository interface {
	// GetAccount retrieves an account by user ID
	GetAccount(ctx context.Context, userID string) (*entities.Account, error)

	// CreateAccount stores a new account
	CreateAccount(ctx context.Context, account *entities.Account) error

	// SettleRound applies a balance delta and appends one history record
	// as a single unit, returning the new balance. A delta that would
	// make the balance negative fails with ErrInsufficientBalance and
	// changes nothing.
	SettleRound(ctx context.Context, userID string, delta int64, record *entities.HistoryRecord) (int64, error)

	// GetHistory retrieves recent history records, most recent first
	GetHistory(ctx context.Context, userID string, limit int) ([]*entities.HistoryRecord, error)

	// ResetAccount restores the starting balance and clears history
	ResetAccount(ctx context.Context, userID string) error

	// Close closes any resources used by the repository
	Close() error
}
