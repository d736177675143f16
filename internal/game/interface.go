// Package game defines the common game interface, the registry for
// single-shot games, and the Ledger collaborator consumed by the engines.
package game

import "context"

// Result represents the outcome of a single-shot game play.
type Result struct {
	Payout  int64          // Net payout (positive = win, negative = loss)
	Outcome string         // Human-readable result description
	Details map[string]any // Additional game-specific details
}

// Game is the interface implemented by instant games (dice, colors) that
// resolve in a single call. Session games (mines, roulette) have their own
// engines and do not implement it.
type Game interface {
	// Name returns the game's display name.
	Name() string

	// Command returns the text command prefix that triggers this game.
	Command() string

	// Description returns a brief description of the game.
	Description() string

	// MinBet returns the minimum allowed bet for this game.
	MinBet() int64

	// ValidateBet checks the bet amount and parameters.
	ValidateBet(bet int64, params map[string]any) error

	// Play resolves the game and returns the net result.
	Play(ctx context.Context, userID int64, bet int64, params map[string]any) (*Result, error)
}
