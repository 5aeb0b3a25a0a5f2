package blackjack

import (
	"strconv"

	"github.com/kopeyka/casino/pkg/entities"
)

// DealerStandThreshold is the value the dealer stands on, soft hands
// included.
const DealerStandThreshold = 17

func CardValue(card entities.Card) int {
	switch card.Rank {
	case entities.Ace:
		return 11
	case entities.Jack, entities.Queen, entities.King:
		return 10
	default:
		val, _ := strconv.Atoi(string(card.Rank))
		return val
	}
}

func IsAce(card entities.Card) bool {
	return card.Rank == entities.Ace
}

// HandValue returns the best score for a hand. Aces count 11 until the
// total would bust, then downgrade to 1 one at a time. The result is the
// minimal bust-avoiding total, or the minimal total if every arrangement
// busts.
func HandValue(cards []entities.Card) int {
	value := 0
	aces := 0

	for _, card := range cards {
		if IsAce(card) {
			aces++
		}
		value += CardValue(card)
	}

	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}

	return value
}

// IsBust checks if a hand exceeds 21
func IsBust(cards []entities.Card) bool {
	return HandValue(cards) > 21
}
