// Package server is the thin HTTP adapter over the engine: it parses
// requests, trusts the session-supplied user id, and serializes
// structured outcomes. No game rules live here.
package server

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/kopeyka/casino/pkg/services/casino"
	"github.com/kopeyka/casino/pkg/services/statistics"
)

// Server hosts the JSON API
type Server struct {
	engine *casino.Service
	stats  *statistics.Service
	logger *log.Logger
	http   *http.Server
}

// NewServer wires the routes onto a gin router
func NewServer(addr string, engine *casino.Service, stats *statistics.Service, logger *log.Logger, development bool) *Server {
	if !development {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine: engine,
		stats:  stats,
		logger: logger.WithPrefix("server"),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(sessionMiddleware())

	api := router.Group("/api")
	{
		api.GET("/balance", s.handleBalance)
		api.GET("/history", s.handleHistory)
		api.GET("/statistics", s.handleStatistics)
		api.POST("/reset", s.handleReset)

		api.POST("/slots/spin", s.handleSlots)
		api.POST("/coinflip/play", s.handleCoinflip)
		api.POST("/dice/play", s.handleDice)

		api.GET("/blackjack", s.handleBlackjackState)
		api.POST("/blackjack/bet", s.handleBlackjackBet)
		api.POST("/blackjack/hit", s.handleBlackjackHit)
		api.POST("/blackjack/stand", s.handleBlackjackStand)
		api.POST("/blackjack/new", s.handleBlackjackNew)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.http = &http.Server{
		Addr:    addr,
		Handler: router,
	}
	return s
}

// Start serves until Stop is called
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.http.Shutdown(ctx)
}
