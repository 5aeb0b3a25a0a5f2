package casino

import (
	"context"
	"errors"
	"fmt"

	"github.com/kopeyka/casino/pkg/entities"
	"github.com/kopeyka/casino/pkg/services/blackjack"
)

// BlackjackView is the player-facing round state. While the round is in
// player_turn the dealer's hole card is withheld and DealerScore covers
// the visible cards only.
type BlackjackView struct {
	Phase        entities.RoundPhase `json:"phase"`
	Bet          int64               `json:"bet"`
	PlayerHand   []entities.Card     `json:"player_hand"`
	PlayerScore  int                 `json:"player_score"`
	DealerHand   []entities.Card     `json:"dealer_hand"`
	DealerScore  int                 `json:"dealer_score"`
	DealerMasked bool                `json:"dealer_masked"`
	Balance      int64               `json:"balance"`
	Outcome      *blackjack.Outcome  `json:"outcome,omitempty"`
	MessageKey   string              `json:"message_key,omitempty"`
}

// BlackjackState returns the user's current round, starting a fresh one
// in the betting phase if none is in progress
func (s *Service) BlackjackState(ctx context.Context, userID string) (*BlackjackView, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	acct, _, err := s.ledger.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	r, err := s.loadOrStartRound(ctx, userID)
	if err != nil {
		return nil, err
	}

	return buildView(r, acct.Balance, nil), nil
}

// PlaceBlackjackBet accepts a bet while the round is in the betting
// phase, deals the opening hands, and, on a dealt 21, settles the round
// immediately. A bet placed after a finished round starts a fresh one.
func (s *Service) PlaceBlackjackBet(ctx context.Context, userID string, bet int64) (*BlackjackView, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	acct, _, err := s.ledger.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	r, err := s.loadOrStartRound(ctx, userID)
	if err != nil {
		return nil, err
	}
	if r.Phase == entities.PhaseGameOver {
		r = s.rand.NewRound()
	}

	outcome, err := blackjack.PlaceBet(r, bet, acct.Balance)
	if err != nil {
		return nil, translateError(err)
	}

	return s.storeAndSettle(ctx, userID, r, acct.Balance, outcome)
}

// BlackjackHit draws one card for the player, settling the round if the
// hand busts
func (s *Service) BlackjackHit(ctx context.Context, userID string) (*BlackjackView, error) {
	return s.blackjackAction(ctx, userID, blackjack.Hit)
}

// BlackjackStand ends the player's turn, plays the dealer, and settles
func (s *Service) BlackjackStand(ctx context.Context, userID string) (*BlackjackView, error) {
	return s.blackjackAction(ctx, userID, blackjack.Stand)
}

// NewBlackjackRound discards any round in progress and starts over in the
// betting phase
func (s *Service) NewBlackjackRound(ctx context.Context, userID string) (*BlackjackView, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	acct, _, err := s.ledger.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	r := s.rand.NewRound()
	if err := s.rounds.PutRound(ctx, userID, r); err != nil {
		return nil, fmt.Errorf("error storing round: %w", err)
	}

	return buildView(r, acct.Balance, nil), nil
}

func (s *Service) blackjackAction(ctx context.Context, userID string, action func(*entities.Round) (*blackjack.Outcome, error)) (*BlackjackView, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	acct, _, err := s.ledger.GetOrCreateAccount(ctx, userID)
	if err != nil {
		return nil, err
	}

	r, err := s.rounds.GetRound(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading round: %w", err)
	}
	if r == nil {
		return nil, ErrInvalidAction
	}

	outcome, err := action(r)
	if err != nil {
		return nil, translateError(err)
	}

	return s.storeAndSettle(ctx, userID, r, acct.Balance, outcome)
}

// storeAndSettle persists the advanced round and, when the round reached
// a terminal phase, settles its net delta through the ledger. The round
// state is stored before settlement so a settlement failure never loses
// the played-out hands.
func (s *Service) storeAndSettle(ctx context.Context, userID string, r *entities.Round, balance int64, outcome *blackjack.Outcome) (*BlackjackView, error) {
	if err := s.rounds.PutRound(ctx, userID, r); err != nil {
		return nil, fmt.Errorf("error storing round: %w", err)
	}

	if outcome == nil {
		return buildView(r, balance, nil), nil
	}

	newBalance, err := s.ledger.Settle(ctx, userID, entities.GameBlackjack, r.Bet, outcome.WinAmount, outcome.Result, outcome.NetDelta)
	if err != nil {
		return nil, err
	}

	return buildView(r, newBalance, outcome), nil
}

// loadOrStartRound fetches the stored round or begins a fresh one
func (s *Service) loadOrStartRound(ctx context.Context, userID string) (*entities.Round, error) {
	r, err := s.rounds.GetRound(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading round: %w", err)
	}
	if r == nil {
		r = s.rand.NewRound()
		if err := s.rounds.PutRound(ctx, userID, r); err != nil {
			return nil, fmt.Errorf("error storing round: %w", err)
		}
	}
	return r, nil
}

func buildView(r *entities.Round, balance int64, outcome *blackjack.Outcome) *BlackjackView {
	visible := blackjack.VisibleDealerCards(r)
	masked := len(visible) < len(r.Dealer)

	view := &BlackjackView{
		Phase:        r.Phase,
		Bet:          r.Bet,
		PlayerHand:   r.Player,
		PlayerScore:  blackjack.HandValue(r.Player),
		DealerHand:   visible,
		DealerScore:  blackjack.HandValue(visible),
		DealerMasked: masked,
		Balance:      balance,
		Outcome:      outcome,
	}
	if outcome != nil {
		view.MessageKey = string(outcome.Result)
	}
	return view
}

// translateError maps blackjack package errors onto the engine's surface
func translateError(err error) error {
	switch {
	case errors.Is(err, blackjack.ErrInsufficientFunds):
		return ErrInsufficientFunds
	case errors.Is(err, blackjack.ErrInvalidBet):
		return ErrInvalidBet
	case errors.Is(err, blackjack.ErrInvalidAction):
		return ErrInvalidAction
	default:
		return err
	}
}
