// Package dice implements the two-dice-per-side resolver: player rolls
// against the house, higher sum wins.
package dice

import (
	"math/rand/v2"

	"github.com/kopeyka/casino/pkg/entities"
)

const (
	doubleMultiplier = 3 // winning with equal dice
	winMultiplier    = 2
)

// Outcome is the resolved result of one dice round
type Outcome struct {
	PlayerDice  [2]int             `json:"player_dice"`
	DealerDice  [2]int             `json:"dealer_dice"`
	PlayerScore int                `json:"player_score"`
	DealerScore int                `json:"dealer_score"`
	Multiplier  int64              `json:"multiplier"`
	Payout      int64              `json:"payout"`     // gross amount returned to the balance
	WinAmount   int64              `json:"win_amount"` // winnings reported in history (net of the stake)
	NetDelta    int64              `json:"net_delta"`  // balance change for the round; 0 on a push
	Result      entities.ResultTag `json:"result"`
}

// Roll draws two independent six-sided dice
func Roll() [2]int {
	return [2]int{rand.IntN(6) + 1, rand.IntN(6) + 1}
}

// Resolve settles the player's roll against the dealer's. A winning
// double pays 3x, a plain win 2x, a lower total loses the bet, and equal
// totals push with the bet fully returned. Pure function.
func Resolve(bet int64, player, dealer [2]int) *Outcome {
	outcome := &Outcome{
		PlayerDice:  player,
		DealerDice:  dealer,
		PlayerScore: player[0] + player[1],
		DealerScore: dealer[0] + dealer[1],
	}

	switch {
	case outcome.PlayerScore > outcome.DealerScore:
		outcome.Multiplier = winMultiplier
		if player[0] == player[1] {
			outcome.Multiplier = doubleMultiplier
		}
		outcome.Payout = bet * outcome.Multiplier
		outcome.WinAmount = outcome.Payout - bet
		outcome.NetDelta = outcome.Payout - bet
		outcome.Result = entities.ResultWin
	case outcome.PlayerScore < outcome.DealerScore:
		outcome.NetDelta = -bet
		outcome.Result = entities.ResultLose
	default:
		// push: the bet never leaves the balance
		outcome.Payout = bet
		outcome.Result = entities.ResultPush
	}
	return outcome
}
