// Package statistics aggregates a player's settled rounds into per-game
// summaries.
package statistics

import (
	"context"

	"github.com/kopeyka/casino/pkg/entities"
	"github.com/kopeyka/casino/pkg/services/ledger"
)

// historyWindow bounds how many settled rounds feed the aggregates.
const historyWindow = 1000

// GameSummary aggregates one user's rounds for a single game
type GameSummary struct {
	GameType  entities.GameType
	Rounds    int
	Wins      int
	Losses    int
	Pushes    int
	Busts     int
	TotalBet  int64
	TotalWon  int64
	NetProfit int64
}

// PlayerStatistics aggregates all of a user's settled rounds
type PlayerStatistics struct {
	UserID    string
	Rounds    int
	NetProfit int64
	PerGame   map[entities.GameType]*GameSummary
}

// WinRate returns the percentage of rounds the player won
func (s *PlayerStatistics) WinRate() float64 {
	if s.Rounds == 0 {
		return 0.0
	}
	wins := 0
	for _, g := range s.PerGame {
		wins += g.Wins
	}
	return float64(wins) / float64(s.Rounds) * 100.0
}

// Service computes statistics from the ledger's history
type Service struct {
	ledger *ledger.Service
}

// NewService creates a new statistics service
func NewService(ledgerSvc *ledger.Service) *Service {
	return &Service{ledger: ledgerSvc}
}

// GetPlayerStatistics folds the user's recent history into aggregates
func (s *Service) GetPlayerStatistics(ctx context.Context, userID string) (*PlayerStatistics, error) {
	records, err := s.ledger.History(ctx, userID, historyWindow)
	if err != nil {
		return nil, err
	}

	stats := &PlayerStatistics{
		UserID:  userID,
		PerGame: make(map[entities.GameType]*GameSummary),
	}

	for _, rec := range records {
		summary, exists := stats.PerGame[rec.GameType]
		if !exists {
			summary = &GameSummary{GameType: rec.GameType}
			stats.PerGame[rec.GameType] = summary
		}

		summary.Rounds++
		summary.TotalBet += rec.BetAmount
		stats.Rounds++

		switch rec.Result {
		case entities.ResultWin, entities.ResultBlackjack:
			summary.Wins++
			summary.TotalWon += rec.WinAmount
			summary.NetProfit += rec.WinAmount
		case entities.ResultLose:
			summary.Losses++
			summary.NetProfit -= rec.BetAmount
		case entities.ResultBust:
			summary.Busts++
			summary.NetProfit -= rec.BetAmount
		case entities.ResultPush:
			summary.Pushes++
		}
	}

	for _, summary := range stats.PerGame {
		stats.NetProfit += summary.NetProfit
	}
	return stats, nil
}
