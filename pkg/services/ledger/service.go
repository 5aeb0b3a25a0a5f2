// Package ledger is the only component that touches persisted user state.
// Each settled round applies exactly one net balance delta and appends
// exactly one history record, atomically.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/kopeyka/casino/pkg/entities"
	accountRepo "github.com/kopeyka/casino/pkg/repositories/account"
)

// Archiver receives settled rounds for analytics. Archiving failures are
// logged, never propagated: the repository is the source of truth.
type Archiver interface {
	IndexRound(ctx context.Context, record *entities.HistoryRecord) error
}

// Service handles settlement and account lifecycle
type Service struct {
	repo     accountRepo.Repository
	archiver Archiver
	logger   *log.Logger
}

// NewService creates a new ledger service
func NewService(repo accountRepo.Repository, logger *log.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.WithPrefix("ledger"),
	}
}

// AttachArchiver enables best-effort round archiving
func (s *Service) AttachArchiver(a Archiver) {
	s.archiver = a
}

// GetOrCreateAccount retrieves an account or opens a new one with the
// starting balance. The second return reports whether the account was
// just created.
func (s *Service) GetOrCreateAccount(ctx context.Context, userID string) (*entities.Account, bool, error) {
	acct, err := s.repo.GetAccount(ctx, userID)
	if err == nil {
		return acct, false, nil
	}
	if !errors.Is(err, accountRepo.ErrAccountNotFound) {
		return nil, false, err
	}

	now := time.Now()
	newAcct := &entities.Account{
		UserID:      userID,
		Balance:     entities.StartingBalance,
		CreatedAt:   now,
		LastUpdated: now,
	}

	if err := s.repo.CreateAccount(ctx, newAcct); err != nil {
		return nil, false, fmt.Errorf("error creating account: %w", err)
	}

	s.logger.Info("opened account", "user", userID, "balance", newAcct.Balance)
	return newAcct, true, nil
}

// Settle applies the round's net delta and appends its history record as
// one unit, returning the new balance. Storage failures propagate and
// leave nothing half-applied.
func (s *Service) Settle(ctx context.Context, userID string, gameType entities.GameType, bet, win int64, result entities.ResultTag, delta int64) (int64, error) {
	record := &entities.HistoryRecord{
		ID:        uuid.New().String(),
		UserID:    userID,
		GameType:  gameType,
		BetAmount: bet,
		WinAmount: win,
		Result:    result,
		Timestamp: time.Now(),
	}

	balance, err := s.repo.SettleRound(ctx, userID, delta, record)
	if err != nil {
		return 0, fmt.Errorf("error settling round: %w", err)
	}

	s.logger.Info("settled round",
		"user", userID,
		"game", gameType,
		"bet", bet,
		"result", result,
		"delta", delta,
		"balance", balance,
	)

	if s.archiver != nil {
		if err := s.archiver.IndexRound(ctx, record); err != nil {
			s.logger.Warn("failed to archive round", "user", userID, "round", record.ID, "error", err)
		}
	}

	return balance, nil
}

// History retrieves a user's recent settled rounds, most recent first
func (s *Service) History(ctx context.Context, userID string, limit int) ([]*entities.HistoryRecord, error) {
	return s.repo.GetHistory(ctx, userID, limit)
}

// Reset restores the starting balance and clears history. Resetting an
// account that was never used opens it first.
func (s *Service) Reset(ctx context.Context, userID string) error {
	if _, _, err := s.GetOrCreateAccount(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.ResetAccount(ctx, userID); err != nil {
		return fmt.Errorf("error resetting account: %w", err)
	}

	s.logger.Info("reset account", "user", userID)
	return nil
}
