package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"telegram-casino-bot/internal/model"
)

// Promo-code errors.
var (
	ErrPromoNotFound         = errors.New("promo code not found")
	ErrPromoExhausted        = errors.New("promo code activation limit reached")
	ErrPromoAlreadyActivated = errors.New("promo code already activated by this user")
)

// PromoRepository handles promo code persistence and activation accounting.
type PromoRepository struct {
	pool *pgxpool.Pool
}

// NewPromoRepository creates a new PromoRepository instance.
func NewPromoRepository(pool *pgxpool.Pool) *PromoRepository {
	return &PromoRepository{pool: pool}
}

// Create stores a new promo code.
func (r *PromoRepository) Create(ctx context.Context, code string, reward, maxActivations int64) (*model.PromoCode, error) {
	const query = `
		INSERT INTO promo_codes (code, reward, max_activations, activations, created_at)
		VALUES ($1, $2, $3, 0, NOW())
		RETURNING code, reward, max_activations, activations, created_at
	`

	var promo model.PromoCode
	err := r.pool.QueryRow(ctx, query, code, reward, maxActivations).Scan(
		&promo.Code,
		&promo.Reward,
		&promo.MaxActivations,
		&promo.Activations,
		&promo.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create promo code: %w", err)
	}

	return &promo, nil
}

// Get retrieves a promo code by its code string.
func (r *PromoRepository) Get(ctx context.Context, code string) (*model.PromoCode, error) {
	const query = `
		SELECT code, reward, max_activations, activations, created_at
		FROM promo_codes
		WHERE code = $1
	`

	var promo model.PromoCode
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&promo.Code,
		&promo.Reward,
		&promo.MaxActivations,
		&promo.Activations,
		&promo.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPromoNotFound
		}
		return nil, fmt.Errorf("failed to get promo code: %w", err)
	}

	return &promo, nil
}

// Activate records an activation for the user and returns the reward amount.
// Fails with ErrPromoAlreadyActivated if the user has used the code before,
// or ErrPromoExhausted when the activation limit is reached.
func (r *PromoRepository) Activate(ctx context.Context, code string, userID int64) (int64, error) {
	promo, err := r.Get(ctx, code)
	if err != nil {
		return 0, err
	}
	if promo.Activations >= promo.MaxActivations {
		return 0, ErrPromoExhausted
	}

	const insertQuery = `
		INSERT INTO promo_activations (code, user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (code, user_id) DO NOTHING
	`
	result, err := r.pool.Exec(ctx, insertQuery, code, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to record promo activation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return 0, ErrPromoAlreadyActivated
	}

	const bumpQuery = `
		UPDATE promo_codes
		SET activations = activations + 1
		WHERE code = $1
	`
	if _, err := r.pool.Exec(ctx, bumpQuery, code); err != nil {
		return 0, fmt.Errorf("failed to bump promo activations: %w", err)
	}

	return promo.Reward, nil
}

// Delete removes a promo code and its activation records.
func (r *PromoRepository) Delete(ctx context.Context, code string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM promo_activations WHERE code = $1`, code); err != nil {
		return fmt.Errorf("failed to delete promo activations: %w", err)
	}

	result, err := r.pool.Exec(ctx, `DELETE FROM promo_codes WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("failed to delete promo code: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPromoNotFound
	}
	return nil
}
