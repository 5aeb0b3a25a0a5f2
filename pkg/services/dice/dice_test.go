package dice

import (
	"testing"

	"github.com/kopeyka/casino/pkg/entities"
	"github.com/stretchr/testify/assert"
)

func TestRoll(t *testing.T) {
	for i := 0; i < 100; i++ {
		roll := Roll()
		for _, die := range roll {
			assert.GreaterOrEqual(t, die, 1)
			assert.LessOrEqual(t, die, 6)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		player   [2]int
		dealer   [2]int
		result   entities.ResultTag
		payout   int64
		netDelta int64
	}{
		{"plain win", [2]int{5, 4}, [2]int{3, 2}, entities.ResultWin, 200, 100},
		{"double win pays triple", [2]int{4, 4}, [2]int{3, 2}, entities.ResultWin, 300, 200},
		{"dealer double does not matter", [2]int{6, 5}, [2]int{2, 2}, entities.ResultWin, 200, 100},
		{"lose", [2]int{2, 3}, [2]int{6, 4}, entities.ResultLose, 0, -100},
		{"losing double still loses", [2]int{2, 2}, [2]int{6, 4}, entities.ResultLose, 0, -100},
		{"push", [2]int{3, 4}, [2]int{5, 2}, entities.ResultPush, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := Resolve(100, tt.player, tt.dealer)

			assert.Equal(t, tt.result, outcome.Result)
			assert.Equal(t, tt.payout, outcome.Payout)
			assert.Equal(t, tt.netDelta, outcome.NetDelta)
			assert.Equal(t, tt.player[0]+tt.player[1], outcome.PlayerScore)
			assert.Equal(t, tt.dealer[0]+tt.dealer[1], outcome.DealerScore)
		})
	}
}
