// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"telegram-casino-bot/internal/repository"
)

// ErrInvalidAmount is returned for non-positive debit/credit amounts.
var ErrInvalidAmount = errors.New("amount must be positive")

// LedgerService implements the game.Ledger interface over the user and
// transaction repositories: balance reads and writes go to the users table,
// and every change leaves a journal record.
type LedgerService struct {
	userRepo *repository.UserRepository
	txRepo   *repository.TransactionRepository
}

// NewLedgerService creates a new LedgerService instance.
func NewLedgerService(userRepo *repository.UserRepository, txRepo *repository.TransactionRepository) *LedgerService {
	return &LedgerService{userRepo: userRepo, txRepo: txRepo}
}

// Balance returns the user's current balance.
func (s *LedgerService) Balance(ctx context.Context, userID int64) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return user.Balance, nil
}

// Debit subtracts amount from the user's balance.
func (s *LedgerService) Debit(ctx context.Context, userID int64, amount int64, txType string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.adjust(ctx, userID, -amount, txType)
}

// Credit adds amount to the user's balance.
func (s *LedgerService) Credit(ctx context.Context, userID int64, amount int64, txType string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.adjust(ctx, userID, amount, txType)
}

// Apply adjusts the balance by a signed delta in one call. Used for round
// settlement where the net effect must hit the ledger exactly once.
func (s *LedgerService) Apply(ctx context.Context, userID int64, delta int64, txType string) error {
	return s.adjust(ctx, userID, delta, txType)
}

// IncrementGames bumps the user's completed-game counter.
func (s *LedgerService) IncrementGames(ctx context.Context, userID int64) error {
	return s.userRepo.IncrementGamesPlayed(ctx, userID)
}

func (s *LedgerService) adjust(ctx context.Context, userID, delta int64, txType string) error {
	if _, err := s.userRepo.UpdateBalance(ctx, userID, delta); err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}

	if _, err := s.txRepo.Create(ctx, userID, delta, txType, nil); err != nil {
		// The balance was already updated; a missing journal record is a
		// reporting gap, not a balance error.
		log.Warn().Err(err).
			Int64("user_id", userID).
			Int64("delta", delta).
			Str("tx_type", txType).
			Msg("Failed to record transaction")
	}
	return nil
}
