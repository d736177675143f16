// Package model defines the data models for the casino bot.
package model

import "time"

// User represents a Telegram user account in the casino.
type User struct {
	TelegramID  int64     `db:"telegram_id"`
	Username    string    `db:"username"`
	Balance     int64     `db:"balance"`
	GamesPlayed int64     `db:"games_played"`
	Banned      bool      `db:"banned"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Transaction represents a single balance change record.
type Transaction struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Amount      int64     `db:"amount"`
	Type        string    `db:"type"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// PromoCode represents an admin-created promo code with a fixed reward
// and a maximum number of activations.
type PromoCode struct {
	Code           string    `db:"code"`
	Reward         int64     `db:"reward"`
	MaxActivations int64     `db:"max_activations"`
	Activations    int64     `db:"activations"`
	CreatedAt      time.Time `db:"created_at"`
}

// Transaction types for categorizing balance changes.
const (
	TxTypePromo       = "promo"        // Promo code reward
	TxTypeMinesBet    = "mines_bet"    // Mine-field wager debit at session creation
	TxTypeMinesWin    = "mines_win"    // Mine-field cash-out or full clear payout
	TxTypeMinesRefund = "mines_refund" // Mine-field cancel before first open
	TxTypeRoulette    = "roulette"     // Roulette net round settlement
	TxTypeDice        = "dice"         // Dice game net result
	TxTypeColors      = "colors"       // Color game net result
	TxTypeAdminAdd    = "admin_add"    // Admin added balance
	TxTypeAdminSet    = "admin_set"    // Admin set balance
)

// GameTransactionTypes returns the transaction types produced by game
// settlement, used for statistics queries.
func GameTransactionTypes() []string {
	return []string{TxTypeMinesBet, TxTypeMinesWin, TxTypeRoulette, TxTypeDice, TxTypeColors}
}
