package blackjack

import (
	"testing"

	"github.com/kopeyka/casino/pkg/entities"
	"github.com/stretchr/testify/assert"
)

func TestCardValue(t *testing.T) {
	tests := []struct {
		rank entities.Rank
		want int
	}{
		{entities.Ace, 11},
		{entities.Two, 2},
		{entities.Nine, 9},
		{entities.Ten, 10},
		{entities.Jack, 10},
		{entities.Queen, 10},
		{entities.King, 10},
	}

	for _, tt := range tests {
		card := entities.NewCard(entities.Spades, tt.rank)
		assert.Equal(t, tt.want, CardValue(card), "rank %s", tt.rank)
	}
}

func TestHandValue(t *testing.T) {
	tests := []struct {
		name  string
		ranks []entities.Rank
		want  int
	}{
		{"two aces", []entities.Rank{entities.Ace, entities.Ace}, 12},
		{"natural", []entities.Rank{entities.Ace, entities.King}, 21},
		{"soft downgrade", []entities.Rank{entities.Ace, entities.Ace, entities.Nine}, 21},
		{"hard bust", []entities.Rank{entities.King, entities.Queen, entities.Two}, 22},
		{"soft seventeen", []entities.Rank{entities.Ace, entities.Six}, 17},
		{"ace saves hand", []entities.Rank{entities.Ace, entities.Nine, entities.Five}, 15},
		{"empty hand", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HandValue(hand(tt.ranks...)))
		})
	}
}

func TestIsBust(t *testing.T) {
	assert.False(t, IsBust(hand(entities.Ace, entities.King)))
	assert.False(t, IsBust(hand(entities.King, entities.Ace, entities.King)))
	assert.True(t, IsBust(hand(entities.King, entities.Queen, entities.Two)))
}

// hand builds a hand of spades from the given ranks
func hand(ranks ...entities.Rank) []entities.Card {
	cards := make([]entities.Card, 0, len(ranks))
	for _, rank := range ranks {
		cards = append(cards, entities.NewCard(entities.Spades, rank))
	}
	return cards
}
