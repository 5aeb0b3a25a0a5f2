// Package slots implements the three-reel slot machine resolver.
package slots

import (
	"math/rand/v2"

	"github.com/kopeyka/casino/pkg/entities"
)

// Symbol is one slot reel symbol
type Symbol string

const (
	SymbolCherry  Symbol = "🍒"
	SymbolLemon   Symbol = "🍋"
	SymbolOrange  Symbol = "🍊"
	SymbolStar    Symbol = "⭐"
	SymbolBell    Symbol = "🔔"
	SymbolDiamond Symbol = "💎"
)

// TopTier is the symbol whose triple pays the jackpot multiplier.
const TopTier = SymbolDiamond

// Alphabet is the fixed reel alphabet; each reel draws from it uniformly.
var Alphabet = []Symbol{
	SymbolCherry,
	SymbolLemon,
	SymbolOrange,
	SymbolStar,
	SymbolBell,
	SymbolDiamond,
}

const (
	tripleTopMultiplier = 10
	tripleMultiplier    = 5
	pairMultiplier      = 2
)

// Outcome is the resolved result of one spin
type Outcome struct {
	Reels      [3]Symbol          `json:"reels"`
	Multiplier int64              `json:"multiplier"`
	Payout     int64              `json:"payout"`     // gross amount returned to the balance, bet * Multiplier
	WinAmount  int64              `json:"win_amount"` // winnings reported in history (net of the stake)
	NetDelta   int64              `json:"net_delta"`  // balance change for the round: Payout - bet
	Result     entities.ResultTag `json:"result"`
}

// Spin draws three independent symbols uniformly from the alphabet
func Spin() [3]Symbol {
	var reels [3]Symbol
	for i := range reels {
		reels[i] = Alphabet[rand.IntN(len(Alphabet))]
	}
	return reels
}

// Resolve maps a spin to its payout. Three of a kind pays 10x for the top
// tier symbol and 5x otherwise; an adjacent pair (first two or last two)
// pays 2x. The non-adjacent pair with a different middle symbol pays
// nothing. Pure function, no draws, no side effects.
func Resolve(bet int64, reels [3]Symbol) *Outcome {
	outcome := &Outcome{Reels: reels}

	switch {
	case reels[0] == reels[1] && reels[1] == reels[2]:
		if reels[0] == TopTier {
			outcome.Multiplier = tripleTopMultiplier
		} else {
			outcome.Multiplier = tripleMultiplier
		}
	case reels[0] == reels[1] || reels[1] == reels[2]:
		outcome.Multiplier = pairMultiplier
	}

	outcome.Payout = bet * outcome.Multiplier
	outcome.NetDelta = outcome.Payout - bet
	if outcome.Payout > 0 {
		outcome.WinAmount = outcome.Payout - bet
		outcome.Result = entities.ResultWin
	} else {
		outcome.Result = entities.ResultLose
	}
	return outcome
}
