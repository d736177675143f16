package game

import "context"

// Ledger is the external balance store the engines settle against.
// Debits happen at wager acceptance, credits after resolution; a round's
// net effect may instead be applied as a single signed delta.
type Ledger interface {
	// Balance returns the user's current balance.
	Balance(ctx context.Context, userID int64) (int64, error)

	// Debit subtracts amount (positive) from the user's balance.
	Debit(ctx context.Context, userID int64, amount int64, txType string) error

	// Credit adds amount (positive) to the user's balance.
	Credit(ctx context.Context, userID int64, amount int64, txType string) error

	// Apply adjusts the balance by a signed delta in one call.
	Apply(ctx context.Context, userID int64, delta int64, txType string) error

	// IncrementGames bumps the user's completed-game counter.
	IncrementGames(ctx context.Context, userID int64) error
}
