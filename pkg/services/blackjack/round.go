// Package blackjack implements the single-player blackjack round state
// machine: betting -> player_turn -> dealer_turn -> game_over. The package
// mutates the round context only; balance changes are the ledger's job,
// applied once from the terminal Outcome.
package blackjack

import (
	"errors"

	"github.com/kopeyka/casino/pkg/entities"
)

var (
	ErrInvalidAction     = errors.New("invalid action for current round phase")
	ErrInvalidBet        = errors.New("bet must be positive")
	ErrInsufficientFunds = errors.New("bet exceeds current balance")
)

// Outcome is the terminal result of a round. NetDelta is the single
// balance mutation for the whole round relative to the pre-bet balance;
// WinAmount is what the history record reports as winnings.
type Outcome struct {
	Result      entities.ResultTag `json:"result"`
	WinAmount   int64              `json:"win_amount"`
	NetDelta    int64              `json:"net_delta"`
	PlayerScore int                `json:"player_score"`
	DealerScore int                `json:"dealer_score"`
}

// PlaceBet validates the bet against the balance, deals two cards each to
// player and dealer, and moves to player_turn. Nothing is debited here:
// the wager only moves the balance when the round settles. A dealt 21
// resolves immediately, returning a terminal Outcome.
func PlaceBet(r *entities.Round, bet, balance int64) (*Outcome, error) {
	if r.Phase != entities.PhaseBetting {
		return nil, ErrInvalidAction
	}
	if bet <= 0 {
		return nil, ErrInvalidBet
	}
	if bet > balance {
		return nil, ErrInsufficientFunds
	}

	r.Bet = bet
	for i := 0; i < 2; i++ {
		card, err := r.Deck.Draw()
		if err != nil {
			return nil, err
		}
		r.Player = append(r.Player, card)
	}
	for i := 0; i < 2; i++ {
		card, err := r.Deck.Draw()
		if err != nil {
			return nil, err
		}
		r.Dealer = append(r.Dealer, card)
	}

	r.Phase = entities.PhasePlayerTurn

	if HandValue(r.Player) == 21 {
		return resolveNatural(r)
	}
	return nil, nil
}

// Hit draws one card into the player's hand. Going over 21 ends the round
// as a bust; otherwise the phase stays at player_turn and the returned
// Outcome is nil.
func Hit(r *entities.Round) (*Outcome, error) {
	if r.Phase != entities.PhasePlayerTurn {
		return nil, ErrInvalidAction
	}

	card, err := r.Deck.Draw()
	if err != nil {
		return nil, err
	}
	r.Player = append(r.Player, card)

	if IsBust(r.Player) {
		r.Phase = entities.PhaseGameOver
		return &Outcome{
			Result:      entities.ResultBust,
			WinAmount:   0,
			NetDelta:    -r.Bet,
			PlayerScore: HandValue(r.Player),
			DealerScore: HandValue(r.Dealer),
		}, nil
	}
	return nil, nil
}

// Stand ends the player's turn, plays out the dealer, and settles the
// comparison.
func Stand(r *entities.Round) (*Outcome, error) {
	if r.Phase != entities.PhasePlayerTurn {
		return nil, ErrInvalidAction
	}

	if err := playDealer(r); err != nil {
		return nil, err
	}

	outcome := compareHands(r)
	r.Phase = entities.PhaseGameOver
	return outcome, nil
}

// VisibleDealerCards returns the dealer cards the player may see. The hole
// card stays hidden until the dealer's turn begins.
func VisibleDealerCards(r *entities.Round) []entities.Card {
	if r.Phase == entities.PhaseDealerTurn || r.Phase == entities.PhaseGameOver {
		return r.Dealer
	}
	if len(r.Dealer) > 1 {
		return r.Dealer[:1]
	}
	return r.Dealer
}

// playDealer executes the dealer's turn: hit below 17, stand on 17 and
// above, soft 17 included.
func playDealer(r *entities.Round) error {
	r.Phase = entities.PhaseDealerTurn

	for HandValue(r.Dealer) < DealerStandThreshold {
		card, err := r.Deck.Draw()
		if err != nil {
			return err
		}
		r.Dealer = append(r.Dealer, card)
	}
	return nil
}

// resolveNatural handles a 21 dealt straight to the player: the dealer
// completes its turn, then the round pays 3:2 unless the dealer also
// reaches 21.
func resolveNatural(r *entities.Round) (*Outcome, error) {
	if err := playDealer(r); err != nil {
		return nil, err
	}
	r.Phase = entities.PhaseGameOver

	dealerScore := HandValue(r.Dealer)
	if dealerScore == 21 {
		return &Outcome{
			Result:      entities.ResultPush,
			WinAmount:   0,
			NetDelta:    0,
			PlayerScore: 21,
			DealerScore: dealerScore,
		}, nil
	}

	// 3:2 payout, floored: profit = floor(bet*2.5) - bet
	profit := r.Bet*5/2 - r.Bet
	return &Outcome{
		Result:      entities.ResultBlackjack,
		WinAmount:   profit,
		NetDelta:    profit,
		PlayerScore: 21,
		DealerScore: dealerScore,
	}, nil
}

// compareHands settles a stood hand against the finished dealer hand:
// dealer bust loses to any standing hand, otherwise higher total wins and
// equal totals push.
func compareHands(r *entities.Round) *Outcome {
	playerScore := HandValue(r.Player)
	dealerScore := HandValue(r.Dealer)

	outcome := &Outcome{
		PlayerScore: playerScore,
		DealerScore: dealerScore,
	}

	switch {
	case dealerScore > 21 || playerScore > dealerScore:
		outcome.Result = entities.ResultWin
		outcome.WinAmount = r.Bet
		outcome.NetDelta = r.Bet
	case playerScore < dealerScore:
		outcome.Result = entities.ResultLose
		outcome.WinAmount = 0
		outcome.NetDelta = -r.Bet
	default:
		outcome.Result = entities.ResultPush
		outcome.WinAmount = 0
		outcome.NetDelta = 0
	}
	return outcome
}
