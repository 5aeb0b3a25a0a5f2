package entities

// RoundPhase is the blackjack state machine phase
type RoundPhase string

const (
	PhaseBetting    RoundPhase = "betting"
	PhasePlayerTurn RoundPhase = "player_turn"
	PhaseDealerTurn RoundPhase = "dealer_turn"
	PhaseGameOver   RoundPhase = "game_over"
)

// Round is the in-progress blackjack state for a single user, held by the
// round store between actions. It is a plain value object; the blackjack
// service owns the transition rules.
type Round struct {
	Deck   *Deck      `json:"deck"`
	Player []Card     `json:"player"`
	Dealer []Card     `json:"dealer"`
	Bet    int64      `json:"bet"`
	Phase  RoundPhase `json:"phase"`
}

// NewRound creates a fresh round in the betting phase with a newly
// shuffled deck. One deck is allocated per round, so a 52-card deck can
// never run out inside a single round.
func NewRound() *Round {
	return &Round{
		Deck:   NewShuffledDeck(),
		Player: make([]Card, 0, 2),
		Dealer: make([]Card, 0, 2),
		Phase:  PhaseBetting,
	}
}
