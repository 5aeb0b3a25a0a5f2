package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kopeyka/casino/pkg/services/casino"
	"github.com/kopeyka/casino/pkg/services/coinflip"
)

const (
	defaultHistoryLimit = 50

	// maxHistoryLimit bounds the caller-supplied page size; the limit
	// flows into storage allocations, so it must not be open-ended.
	maxHistoryLimit = 1000
)

type betRequest struct {
	Bet int64 `json:"bet" binding:"required"`
}

type coinflipRequest struct {
	Bet    int64  `json:"bet" binding:"required"`
	Choice string `json:"choice" binding:"required"`
}

func (s *Server) handleBalance(c *gin.Context) {
	balance, err := s.engine.Balance(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (s *Server) handleHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(parsed, maxHistoryLimit)
	}

	records, err := s.engine.History(c.Request.Context(), currentUserID(c), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": records})
}

func (s *Server) handleStatistics(c *gin.Context) {
	stats, err := s.stats.GetPlayerStatistics(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":    stats.UserID,
		"rounds":     stats.Rounds,
		"net_profit": stats.NetProfit,
		"win_rate":   stats.WinRate(),
		"per_game":   stats.PerGame,
	})
}

func (s *Server) handleReset(c *gin.Context) {
	userID := currentUserID(c)
	if err := s.engine.Reset(c.Request.Context(), userID); err != nil {
		s.respondError(c, err)
		return
	}

	balance, err := s.engine.Balance(c.Request.Context(), userID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (s *Server) handleSlots(c *gin.Context) {
	var req betRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bet is required"})
		return
	}

	result, err := s.engine.PlaySlots(c.Request.Context(), currentUserID(c), req.Bet)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleCoinflip(c *gin.Context) {
	var req coinflipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bet and choice are required"})
		return
	}

	choice, err := coinflip.ParseSide(req.Choice)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.engine.PlayCoinflip(c.Request.Context(), currentUserID(c), req.Bet, choice)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleDice(c *gin.Context) {
	var req betRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bet is required"})
		return
	}

	result, err := s.engine.PlayDice(c.Request.Context(), currentUserID(c), req.Bet)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleBlackjackState(c *gin.Context) {
	view, err := s.engine.BlackjackState(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleBlackjackBet(c *gin.Context) {
	var req betRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bet is required"})
		return
	}

	view, err := s.engine.PlaceBlackjackBet(c.Request.Context(), currentUserID(c), req.Bet)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleBlackjackHit(c *gin.Context) {
	view, err := s.engine.BlackjackHit(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleBlackjackStand(c *gin.Context) {
	view, err := s.engine.BlackjackStand(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleBlackjackNew(c *gin.Context) {
	view, err := s.engine.NewBlackjackRound(c.Request.Context(), currentUserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// respondError maps engine errors onto HTTP status codes. Rejected bets
// are client errors and carry a message key the UI can translate;
// anything unexpected is a 500 with the detail kept in the logs.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, casino.ErrInsufficientFunds):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       err.Error(),
			"message_key": casino.MessageKeyInsufficientFunds,
		})
	case errors.Is(err, casino.ErrInvalidBet),
		errors.Is(err, casino.ErrInvalidAction),
		errors.Is(err, coinflip.ErrInvalidSide):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
