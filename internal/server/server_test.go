package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/kopeyka/casino/pkg/entities"
	accountRepo "github.com/kopeyka/casino/pkg/repositories/account"
	roundStore "github.com/kopeyka/casino/pkg/repositories/round"
	"github.com/kopeyka/casino/pkg/services/casino"
	"github.com/kopeyka/casino/pkg/services/coinflip"
	"github.com/kopeyka/casino/pkg/services/dice"
	"github.com/kopeyka/casino/pkg/services/ledger"
	"github.com/kopeyka/casino/pkg/services/slots"
	"github.com/kopeyka/casino/pkg/services/statistics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRandomizer struct {
	reels [3]slots.Symbol
	flip  coinflip.Side
	roll  [2]int
}

func (f *fixedRandomizer) SpinReels() [3]slots.Symbol { return f.reels }

func (f *fixedRandomizer) FlipCoin() coinflip.Side { return f.flip }

func (f *fixedRandomizer) RollDice() [2]int { return f.roll }

func (f *fixedRandomizer) NewRound() *entities.Round { return entities.NewRound() }

// client wraps a test server and carries the session cookie between
// requests so every call acts as the same user
type client struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func newTestClient(t *testing.T, rand casino.Randomizer) *client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := log.New(io.Discard)
	ledgerSvc := ledger.NewService(accountRepo.NewMemoryRepository(), logger)
	engine := casino.NewService(ledgerSvc, roundStore.NewMemoryStore(), logger)
	if rand != nil {
		engine.SetRandomizer(rand)
	}
	stats := statistics.NewService(ledgerSvc)

	srv := NewServer(":0", engine, stats, logger, true)
	return &client{t: t, handler: srv.http.Handler}
}

func (c *client) do(method, path, body string) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestBalanceEndpoint(t *testing.T) {
	c := newTestClient(t, nil)

	rec := c.do(http.MethodGet, "/api/balance", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, float64(entities.StartingBalance), body["balance"])
	assert.NotEmpty(t, c.cookies, "first request must mint a session cookie")
}

func TestSessionPersistsAcrossRequests(t *testing.T) {
	c := newTestClient(t, &fixedRandomizer{flip: coinflip.Heads})

	rec := c.do(http.MethodPost, "/api/coinflip/play", `{"bet":100,"choice":"heads"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/api/balance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1100), decode(t, rec)["balance"])
}

func TestCoinflipEndpoint(t *testing.T) {
	c := newTestClient(t, &fixedRandomizer{flip: coinflip.Tails})

	rec := c.do(http.MethodPost, "/api/coinflip/play", `{"bet":100,"choice":"heads"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, float64(900), body["balance"])
	assert.Equal(t, "lose", body["message_key"])
}

func TestCoinflipInvalidSide(t *testing.T) {
	c := newTestClient(t, nil)

	rec := c.do(http.MethodPost, "/api/coinflip/play", `{"bet":100,"choice":"edge"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSlotsEndpoint(t *testing.T) {
	c := newTestClient(t, &fixedRandomizer{
		reels: [3]slots.Symbol{slots.SymbolDiamond, slots.SymbolDiamond, slots.SymbolDiamond},
	})

	rec := c.do(http.MethodPost, "/api/slots/spin", `{"bet":100}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, float64(1900), body["balance"])
	assert.Equal(t, "win", body["message_key"])
}

func TestDiceEndpoint(t *testing.T) {
	c := newTestClient(t, &fixedRandomizer{roll: [2]int{3, 3}})

	rec := c.do(http.MethodPost, "/api/dice/play", `{"bet":100}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Dice    *dice.Outcome `json:"dice"`
		Balance int64         `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	// Both sides roll the same stub, so every dice round pushes
	require.NotNil(t, result.Dice)
	assert.Equal(t, entities.ResultPush, result.Dice.Result)
	assert.Equal(t, int64(1000), result.Balance)
}

func TestInsufficientFundsResponse(t *testing.T) {
	c := newTestClient(t, nil)

	rec := c.do(http.MethodPost, "/api/slots/spin", `{"bet":5000}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, casino.MessageKeyInsufficientFunds, body["message_key"])
}

func TestMissingBetResponse(t *testing.T) {
	c := newTestClient(t, nil)

	rec := c.do(http.MethodPost, "/api/slots/spin", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBlackjackFlow(t *testing.T) {
	c := newTestClient(t, nil)

	rec := c.do(http.MethodGet, "/api/blackjack", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(entities.PhaseBetting), decode(t, rec)["phase"])

	rec = c.do(http.MethodPost, "/api/blackjack/bet", `{"bet":100}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var view struct {
		Phase        string          `json:"phase"`
		PlayerHand   []entities.Card `json:"player_hand"`
		DealerHand   []entities.Card `json:"dealer_hand"`
		DealerMasked bool            `json:"dealer_masked"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))

	if view.Phase == string(entities.PhasePlayerTurn) {
		assert.Len(t, view.PlayerHand, 2)
		assert.Len(t, view.DealerHand, 1)
		assert.True(t, view.DealerMasked)

		rec = c.do(http.MethodPost, "/api/blackjack/stand", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, string(entities.PhaseGameOver), decode(t, rec)["phase"])
	} else {
		// Dealt 21 settles immediately
		assert.Equal(t, string(entities.PhaseGameOver), view.Phase)
	}
}

func TestBlackjackActionWithoutRound(t *testing.T) {
	c := newTestClient(t, nil)

	rec := c.do(http.MethodPost, "/api/blackjack/hit", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	c := newTestClient(t, &fixedRandomizer{flip: coinflip.Heads})

	rec := c.do(http.MethodPost, "/api/coinflip/play", `{"bet":100,"choice":"heads"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		History []*entities.HistoryRecord `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.History, 1)
	assert.Equal(t, entities.GameCoinflip, body.History[0].GameType)
	assert.Equal(t, int64(100), body.History[0].WinAmount)
}

func TestHistoryOversizedLimitIsClamped(t *testing.T) {
	c := newTestClient(t, &fixedRandomizer{flip: coinflip.Heads})

	rec := c.do(http.MethodPost, "/api/coinflip/play", `{"bet":100,"choice":"heads"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/api/history?limit=1152921504606846976", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		History []*entities.HistoryRecord `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.History, 1)
}

func TestHistoryBadLimit(t *testing.T) {
	c := newTestClient(t, nil)

	rec := c.do(http.MethodGet, "/api/history?limit=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodGet, "/api/history?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatisticsEndpoint(t *testing.T) {
	c := newTestClient(t, &fixedRandomizer{flip: coinflip.Heads})

	rec := c.do(http.MethodPost, "/api/coinflip/play", `{"bet":100,"choice":"heads"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/api/statistics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, float64(1), body["rounds"])
	assert.Equal(t, float64(100), body["net_profit"])
	assert.Equal(t, float64(100), body["win_rate"])
}

func TestResetEndpoint(t *testing.T) {
	c := newTestClient(t, &fixedRandomizer{flip: coinflip.Tails})

	rec := c.do(http.MethodPost, "/api/coinflip/play", `{"bet":400,"choice":"heads"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodPost, "/api/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(entities.StartingBalance), decode(t, rec)["balance"])

	rec = c.do(http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		History []*entities.HistoryRecord `json:"history"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.History)
}

func TestHealthEndpoint(t *testing.T) {
	c := newTestClient(t, nil)

	rec := c.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
