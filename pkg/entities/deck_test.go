package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck(t *testing.T) {
	deck := NewDeck()

	assert.Equal(t, 52, deck.Remaining())

	seen := make(map[Card]bool)
	for _, card := range deck.Cards {
		assert.False(t, seen[card], "duplicate card: %s", card)
		seen[card] = true
	}
	assert.Len(t, seen, 52)
}

func TestDeckDraw(t *testing.T) {
	deck := NewDeck()
	top := deck.Cards[len(deck.Cards)-1]

	card, err := deck.Draw()
	require.NoError(t, err)
	assert.Equal(t, top, card)
	assert.Equal(t, 51, deck.Remaining())
}

func TestDeckDrawExhausted(t *testing.T) {
	deck := NewDeck()

	drawn := make(map[Card]bool)
	for i := 0; i < 52; i++ {
		card, err := deck.Draw()
		require.NoError(t, err)
		drawn[card] = true
	}

	assert.Len(t, drawn, 52)
	assert.Equal(t, 0, deck.Remaining())

	_, err := deck.Draw()
	assert.ErrorIs(t, err, ErrEmptyDeck)
}

func TestShuffleKeepsAllCards(t *testing.T) {
	deck := NewShuffledDeck()

	require.Equal(t, 52, deck.Remaining())

	seen := make(map[Card]bool)
	for _, card := range deck.Cards {
		seen[card] = true
	}
	assert.Len(t, seen, 52)
}

func TestNewRound(t *testing.T) {
	r := NewRound()

	assert.Equal(t, PhaseBetting, r.Phase)
	assert.Equal(t, 52, r.Deck.Remaining())
	assert.Empty(t, r.Player)
	assert.Empty(t, r.Dealer)
	assert.Zero(t, r.Bet)
}
