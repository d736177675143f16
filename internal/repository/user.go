// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"telegram-casino-bot/internal/model"
)

// Common errors for repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
)

const userColumns = "telegram_id, username, balance, games_played, banned, created_at, updated_at"

// UserRepository handles user account persistence: balances, game counters
// and ban state.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.TelegramID,
		&user.Username,
		&user.Balance,
		&user.GamesPlayed,
		&user.Banned,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create creates a new user with a zero starting balance.
func (r *UserRepository) Create(ctx context.Context, telegramID int64, username string) (*model.User, error) {
	query := fmt.Sprintf(`
		INSERT INTO users (telegram_id, username, balance, games_played, banned, created_at, updated_at)
		VALUES ($1, $2, 0, 0, FALSE, NOW(), NOW())
		RETURNING %s
	`, userColumns)

	user, err := scanUser(r.pool.QueryRow(ctx, query, telegramID, username))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by their Telegram ID.
// Returns ErrUserNotFound if the user does not exist.
func (r *UserRepository) GetByID(ctx context.Context, telegramID int64) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE telegram_id = $1`, userColumns)

	user, err := scanUser(r.pool.QueryRow(ctx, query, telegramID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetOrCreate retrieves a user by Telegram ID, creating one if it doesn't exist.
func (r *UserRepository) GetOrCreate(ctx context.Context, telegramID int64, username string) (*model.User, bool, error) {
	user, err := r.GetByID(ctx, telegramID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	user, err = r.Create(ctx, telegramID, username)
	if err != nil {
		// Handle race condition: another request might have created the user.
		user, err = r.GetByID(ctx, telegramID)
		if err != nil {
			return nil, false, err
		}
		return user, false, nil
	}

	return user, true, nil
}

// UpdateBalance updates a user's balance by adding the specified amount.
// The amount can be negative to subtract from the balance.
// Returns the updated user.
func (r *UserRepository) UpdateBalance(ctx context.Context, telegramID int64, amount int64) (*model.User, error) {
	query := fmt.Sprintf(`
		UPDATE users
		SET balance = balance + $2, updated_at = NOW()
		WHERE telegram_id = $1
		RETURNING %s
	`, userColumns)

	user, err := scanUser(r.pool.QueryRow(ctx, query, telegramID, amount))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}
	return user, nil
}

// SetBalance sets a user's balance to an exact value.
// Used primarily for admin operations.
func (r *UserRepository) SetBalance(ctx context.Context, telegramID int64, balance int64) (*model.User, error) {
	query := fmt.Sprintf(`
		UPDATE users
		SET balance = $2, updated_at = NOW()
		WHERE telegram_id = $1
		RETURNING %s
	`, userColumns)

	user, err := scanUser(r.pool.QueryRow(ctx, query, telegramID, balance))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to set balance: %w", err)
	}
	return user, nil
}

// IncrementGamesPlayed bumps the user's completed-game counter.
func (r *UserRepository) IncrementGamesPlayed(ctx context.Context, telegramID int64) error {
	const query = `
		UPDATE users
		SET games_played = games_played + 1, updated_at = NOW()
		WHERE telegram_id = $1
	`

	result, err := r.pool.Exec(ctx, query, telegramID)
	if err != nil {
		return fmt.Errorf("failed to increment games played: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetBanned updates the user's ban flag.
func (r *UserRepository) SetBanned(ctx context.Context, telegramID int64, banned bool) error {
	const query = `
		UPDATE users
		SET banned = $2, updated_at = NOW()
		WHERE telegram_id = $1
	`

	result, err := r.pool.Exec(ctx, query, telegramID, banned)
	if err != nil {
		return fmt.Errorf("failed to set ban state: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateUsername updates a user's username.
func (r *UserRepository) UpdateUsername(ctx context.Context, telegramID int64, username string) error {
	const query = `
		UPDATE users
		SET username = $2, updated_at = NOW()
		WHERE telegram_id = $1
	`

	result, err := r.pool.Exec(ctx, query, telegramID, username)
	if err != nil {
		return fmt.Errorf("failed to update username: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetTopUsers retrieves the top N users by balance.
func (r *UserRepository) GetTopUsers(ctx context.Context, limit int) ([]*model.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		ORDER BY balance DESC
		LIMIT $1
	`, userColumns)

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
