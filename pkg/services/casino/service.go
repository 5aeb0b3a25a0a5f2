// Package casino is the engine facade: it serializes rounds per user,
// runs the resolvers and the blackjack state machine, and hands outcomes
// to the ledger for settlement.
package casino

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/kopeyka/casino/pkg/entities"
	roundStore "github.com/kopeyka/casino/pkg/repositories/round"
	"github.com/kopeyka/casino/pkg/services/coinflip"
	"github.com/kopeyka/casino/pkg/services/dice"
	"github.com/kopeyka/casino/pkg/services/ledger"
	"github.com/kopeyka/casino/pkg/services/slots"
)

var (
	// ErrInsufficientFunds rejects a bet larger than the balance before
	// any draw happens; nothing is mutated and no history is written.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidBet rejects a zero or negative bet
	ErrInvalidBet = errors.New("bet must be positive")

	// ErrInvalidAction rejects a blackjack action submitted in the wrong
	// phase
	ErrInvalidAction = errors.New("invalid action for current game state")
)

// MessageKeyInsufficientFunds is the presentation key for a rejected bet.
// Settled rounds use their result tag as the message key.
const MessageKeyInsufficientFunds = "insufficient_funds"

// Randomizer produces the random draws for each game. Tests substitute a
// fixed implementation to force outcomes.
type Randomizer interface {
	SpinReels() [3]slots.Symbol
	FlipCoin() coinflip.Side
	RollDice() [2]int
	NewRound() *entities.Round
}

type defaultRandomizer struct{}

func (defaultRandomizer) SpinReels() [3]slots.Symbol { return slots.Spin() }

func (defaultRandomizer) FlipCoin() coinflip.Side { return coinflip.Flip() }

func (defaultRandomizer) RollDice() [2]int { return dice.Roll() }

func (defaultRandomizer) NewRound() *entities.Round { return entities.NewRound() }

// Service orchestrates all four games against the ledger
type Service struct {
	ledger *ledger.Service
	rounds roundStore.Store
	rand   Randomizer
	logger *log.Logger

	mu    sync.Mutex
	locks map[string]*userLock
}

// NewService creates a new engine
func NewService(ledgerSvc *ledger.Service, rounds roundStore.Store, logger *log.Logger) *Service {
	return &Service{
		ledger: ledgerSvc,
		rounds: rounds,
		rand:   defaultRandomizer{},
		logger: logger.WithPrefix("casino"),
		locks:  make(map[string]*userLock),
	}
}

// SetRandomizer replaces the draw source; used by tests to force draws
func (s *Service) SetRandomizer(r Randomizer) {
	s.rand = r
}

// userLock is one user's round mutex plus the count of goroutines
// holding or waiting on it. The entry is evicted once that count reaches
// zero, since user ids are minted per anonymous session and the table
// would otherwise grow for the life of the process.
type userLock struct {
	mu   sync.Mutex
	refs int
}

// lockUser serializes all rounds for one user: a round runs
// bet -> resolve -> settle while the lock is held, so two rounds for the
// same user can never interleave. The returned func releases the lock
// and drops the table entry when no one else is waiting on it.
func (s *Service) lockUser(userID string) (unlock func()) {
	s.mu.Lock()
	l, exists := s.locks[userID]
	if !exists {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.mu.Unlock()
	}
}

// GameResult is the settled outcome of a slots, coinflip, or dice round
type GameResult struct {
	Slots      *slots.Outcome    `json:"slots,omitempty"`
	Coinflip   *coinflip.Outcome `json:"coinflip,omitempty"`
	Dice       *dice.Outcome     `json:"dice,omitempty"`
	Balance    int64             `json:"balance"`
	MessageKey string            `json:"message_key"`
}

// PlaySlots runs one slots round to settlement
func (s *Service) PlaySlots(ctx context.Context, userID string, bet int64) (*GameResult, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	acct, _, err := s.ledger.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := validateBet(bet, acct.Balance); err != nil {
		return nil, err
	}

	outcome := slots.Resolve(bet, s.rand.SpinReels())
	balance, err := s.ledger.Settle(ctx, userID, entities.GameSlots, bet, outcome.WinAmount, outcome.Result, outcome.NetDelta)
	if err != nil {
		return nil, err
	}

	return &GameResult{
		Slots:      outcome,
		Balance:    balance,
		MessageKey: string(outcome.Result),
	}, nil
}

// PlayCoinflip runs one coinflip round to settlement
func (s *Service) PlayCoinflip(ctx context.Context, userID string, bet int64, choice coinflip.Side) (*GameResult, error) {
	if choice != coinflip.Heads && choice != coinflip.Tails {
		return nil, coinflip.ErrInvalidSide
	}

	unlock := s.lockUser(userID)
	defer unlock()

	acct, _, err := s.ledger.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := validateBet(bet, acct.Balance); err != nil {
		return nil, err
	}

	outcome := coinflip.Resolve(bet, choice, s.rand.FlipCoin())
	balance, err := s.ledger.Settle(ctx, userID, entities.GameCoinflip, bet, outcome.WinAmount, outcome.Result, outcome.NetDelta)
	if err != nil {
		return nil, err
	}

	return &GameResult{
		Coinflip:   outcome,
		Balance:    balance,
		MessageKey: string(outcome.Result),
	}, nil
}

// PlayDice runs one dice round to settlement
func (s *Service) PlayDice(ctx context.Context, userID string, bet int64) (*GameResult, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	acct, _, err := s.ledger.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := validateBet(bet, acct.Balance); err != nil {
		return nil, err
	}

	outcome := dice.Resolve(bet, s.rand.RollDice(), s.rand.RollDice())
	balance, err := s.ledger.Settle(ctx, userID, entities.GameDice, bet, outcome.WinAmount, outcome.Result, outcome.NetDelta)
	if err != nil {
		return nil, err
	}

	return &GameResult{
		Dice:       outcome,
		Balance:    balance,
		MessageKey: string(outcome.Result),
	}, nil
}

// Balance retrieves (opening if needed) the user's balance
func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	acct, _, err := s.ledger.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

// History retrieves the user's recent settled rounds, most recent first
func (s *Service) History(ctx context.Context, userID string, limit int) ([]*entities.HistoryRecord, error) {
	return s.ledger.History(ctx, userID, limit)
}

// Reset restores the starting balance, clears history, and discards any
// in-progress blackjack round
func (s *Service) Reset(ctx context.Context, userID string) error {
	unlock := s.lockUser(userID)
	defer unlock()

	if err := s.ledger.Reset(ctx, userID); err != nil {
		return err
	}
	if err := s.rounds.ClearRound(ctx, userID); err != nil {
		return fmt.Errorf("error clearing round: %w", err)
	}
	return nil
}

func validateBet(bet, balance int64) error {
	if bet <= 0 {
		return ErrInvalidBet
	}
	if bet > balance {
		return ErrInsufficientFunds
	}
	return nil
}
