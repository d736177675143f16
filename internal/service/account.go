package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"telegram-casino-bot/internal/model"
	"telegram-casino-bot/internal/repository"
)

// ErrEmptyPromoCode is returned when a promo code is blank after trimming.
var ErrEmptyPromoCode = errors.New("promo code must not be empty")

// AccountService handles user accounts, promo codes and admin adjustments.
type AccountService struct {
	userRepo  *repository.UserRepository
	txRepo    *repository.TransactionRepository
	promoRepo *repository.PromoRepository
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(
	userRepo *repository.UserRepository,
	txRepo *repository.TransactionRepository,
	promoRepo *repository.PromoRepository,
) *AccountService {
	return &AccountService{
		userRepo:  userRepo,
		txRepo:    txRepo,
		promoRepo: promoRepo,
	}
}

// EnsureUser ensures a user exists, creating one if necessary.
// Returns the user and whether it was newly created.
func (s *AccountService) EnsureUser(ctx context.Context, telegramID int64, username string) (*model.User, bool, error) {
	user, created, err := s.userRepo.GetOrCreate(ctx, telegramID, username)
	if err != nil {
		return nil, false, fmt.Errorf("failed to ensure user: %w", err)
	}

	if !created && user.Username != username && username != "" {
		if err := s.userRepo.UpdateUsername(ctx, telegramID, username); err == nil {
			user.Username = username
		}
	}

	return user, created, nil
}

// GetUser retrieves a user by their Telegram ID.
func (s *AccountService) GetUser(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, telegramID)
}

// GetBalance retrieves a user's current balance.
func (s *AccountService) GetBalance(ctx context.Context, telegramID int64) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, telegramID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return user.Balance, nil
}

// CreatePromo stores a new promo code.
func (s *AccountService) CreatePromo(ctx context.Context, code string, reward, maxActivations int64) (*model.PromoCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyPromoCode
	}
	if reward <= 0 || maxActivations <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.promoRepo.Create(ctx, code, reward, maxActivations)
}

// ActivatePromo redeems a promo code for the user and credits the reward.
// Returns the credited amount.
func (s *AccountService) ActivatePromo(ctx context.Context, telegramID int64, code string) (int64, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, ErrEmptyPromoCode
	}

	reward, err := s.promoRepo.Activate(ctx, code, telegramID)
	if err != nil {
		return 0, err
	}

	if _, err := s.userRepo.UpdateBalance(ctx, telegramID, reward); err != nil {
		return 0, fmt.Errorf("failed to credit promo reward: %w", err)
	}
	desc := fmt.Sprintf("promo %s", code)
	_, _ = s.txRepo.Create(ctx, telegramID, reward, model.TxTypePromo, &desc)

	return reward, nil
}

// SetBanned updates a user's ban flag.
func (s *AccountService) SetBanned(ctx context.Context, telegramID int64, banned bool) error {
	return s.userRepo.SetBanned(ctx, telegramID, banned)
}

// AdminAdjust adds (or subtracts) balance as an admin operation.
func (s *AccountService) AdminAdjust(ctx context.Context, telegramID, delta int64) (*model.User, error) {
	user, err := s.userRepo.UpdateBalance(ctx, telegramID, delta)
	if err != nil {
		return nil, err
	}
	_, _ = s.txRepo.Create(ctx, telegramID, delta, model.TxTypeAdminAdd, nil)
	return user, nil
}

// AdminSet sets a user's balance to an exact value.
func (s *AccountService) AdminSet(ctx context.Context, telegramID, balance int64) (*model.User, error) {
	user, err := s.userRepo.SetBalance(ctx, telegramID, balance)
	if err != nil {
		return nil, err
	}
	_, _ = s.txRepo.Create(ctx, telegramID, balance, model.TxTypeAdminSet, nil)
	return user, nil
}

// GameNet returns the user's lifetime net result across all games, computed
// from the transaction journal.
func (s *AccountService) GameNet(ctx context.Context, telegramID int64) (int64, error) {
	return s.txRepo.SumByUserAndTypes(ctx, telegramID, model.GameTransactionTypes())
}

// GetTopUsers retrieves the top users by balance.
func (s *AccountService) GetTopUsers(ctx context.Context, limit int) ([]*model.User, error) {
	return s.userRepo.GetTopUsers(ctx, limit)
}
