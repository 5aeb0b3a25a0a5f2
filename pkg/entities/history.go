package entities

import "time"

// GameType identifies which game a round belongs to
type GameType string

const (
	GameSlots     GameType = "slots"
	GameBlackjack GameType = "blackjack"
	GameCoinflip  GameType = "coinflip"
	GameDice      GameType = "dice"
)

// ResultTag is the outcome label recorded with a settled round and used by
// the presentation layer to pick a message.
type ResultTag string

const (
	ResultWin       ResultTag = "win"
	ResultLose      ResultTag = "lose"
	ResultPush      ResultTag = "push"
	ResultBust      ResultTag = "bust"
	ResultBlackjack ResultTag = "blackjack"
)

// HistoryRecord is an immutable, append-only record of one settled round.
// WinAmount is the amount credited as winnings, not the net delta: a lost
// round records 0, a pushed round records 0 with the bet returned.
type HistoryRecord struct {
	ID        string    `json:"id"`         // Unique identifier
	UserID    string    `json:"user_id"`    // Account the round settled against
	GameType  GameType  `json:"game_type"`  // Which game was played
	BetAmount int64     `json:"bet_amount"` // Amount wagered
	WinAmount int64     `json:"win_amount"` // Winnings recorded for the round
	Result    ResultTag `json:"result"`     // Outcome label
	Timestamp time.Time `json:"timestamp"`  // When the round settled
}
