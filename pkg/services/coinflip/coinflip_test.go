package coinflip

import (
	"testing"

	"github.com/kopeyka/casino/pkg/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSide(t *testing.T) {
	side, err := ParseSide("heads")
	require.NoError(t, err)
	assert.Equal(t, Heads, side)

	side, err = ParseSide("tails")
	require.NoError(t, err)
	assert.Equal(t, Tails, side)

	_, err = ParseSide("edge")
	assert.ErrorIs(t, err, ErrInvalidSide)

	_, err = ParseSide("")
	assert.ErrorIs(t, err, ErrInvalidSide)
}

func TestFlip(t *testing.T) {
	for i := 0; i < 100; i++ {
		side := Flip()
		assert.Contains(t, []Side{Heads, Tails}, side)
	}
}

func TestResolveWin(t *testing.T) {
	outcome := Resolve(100, Heads, Heads)

	assert.Equal(t, entities.ResultWin, outcome.Result)
	assert.Equal(t, int64(200), outcome.Payout)
	assert.Equal(t, int64(100), outcome.WinAmount)
	assert.Equal(t, int64(100), outcome.NetDelta)
}

func TestResolveLose(t *testing.T) {
	outcome := Resolve(100, Heads, Tails)

	assert.Equal(t, entities.ResultLose, outcome.Result)
	assert.Zero(t, outcome.Payout)
	assert.Zero(t, outcome.WinAmount)
	assert.Equal(t, int64(-100), outcome.NetDelta)
}
