// Package coinflip implements the heads-or-tails resolver.
package coinflip

import (
	"errors"
	"math/rand/v2"

	"github.com/kopeyka/casino/pkg/entities"
)

// Side is one face of the coin
type Side string

const (
	Heads Side = "heads"
	Tails Side = "tails"
)

// ErrInvalidSide is returned when the player's pick is neither side.
var ErrInvalidSide = errors.New("side must be heads or tails")

const winMultiplier = 2

// Outcome is the resolved result of one flip
type Outcome struct {
	Choice    Side               `json:"choice"`
	Flip      Side               `json:"flip"`
	Payout    int64              `json:"payout"`     // gross amount returned to the balance
	WinAmount int64              `json:"win_amount"` // winnings reported in history (net of the stake)
	NetDelta  int64              `json:"net_delta"`  // balance change for the round
	Result    entities.ResultTag `json:"result"`
}

// ParseSide validates a player-supplied side
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case Heads, Tails:
		return Side(s), nil
	default:
		return "", ErrInvalidSide
	}
}

// Flip draws one side uniformly
func Flip() Side {
	if rand.IntN(2) == 0 {
		return Heads
	}
	return Tails
}

// Resolve settles a flip against the player's pick: a match pays 2x the
// bet, so the round nets +bet on a win and -bet on a loss. Pure function.
func Resolve(bet int64, choice, flip Side) *Outcome {
	outcome := &Outcome{Choice: choice, Flip: flip}

	if choice == flip {
		outcome.Payout = bet * winMultiplier
		outcome.WinAmount = outcome.Payout - bet
		outcome.Result = entities.ResultWin
	} else {
		outcome.Result = entities.ResultLose
	}
	outcome.NetDelta = outcome.Payout - bet
	return outcome
}
