package entities

import "time"

// StartingBalance is the balance every new account opens with. Reset
// restores an account to this value.
const StartingBalance int64 = 1000

// Account represents a player's persistent credit balance
type Account struct {
	UserID      string    // Stable id supplied by the session layer
	Balance     int64     // Current balance in credits, never negative
	CreatedAt   time.Time // When the account was first seen
	LastUpdated time.Time // When the balance last changed
}
