// Package main is the entry point for the Telegram casino bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"telegram-casino-bot/internal/bot"
	"telegram-casino-bot/internal/config"
	"telegram-casino-bot/internal/game"
	"telegram-casino-bot/internal/game/colors"
	"telegram-casino-bot/internal/game/dice"
	"telegram-casino-bot/internal/game/mines"
	"telegram-casino-bot/internal/game/roulette"
	"telegram-casino-bot/internal/pkg/db"
	"telegram-casino-bot/internal/pkg/lock"
	"telegram-casino-bot/internal/pkg/random"
	"telegram-casino-bot/internal/repository"
	"telegram-casino-bot/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbPool.Pool)
	txRepo := repository.NewTransactionRepository(dbPool.Pool)
	promoRepo := repository.NewPromoRepository(dbPool.Pool)

	// Initialize services
	ledger := service.NewLedgerService(userRepo, txRepo)
	accountService := service.NewAccountService(userRepo, txRepo, promoRepo)

	// Initialize user lock and random source
	userLock := lock.NewUserLock()
	rng := random.New()

	// Initialize session-based game engines
	minesEngine := mines.New(&mines.Config{
		MinBet: cfg.Games.Mines.MinBet,
	}, ledger, rng, userLock)

	rouletteEngine := roulette.New(&roulette.Config{
		MinBet:      cfg.Games.Roulette.MinBet,
		MaxBets:     cfg.Games.Roulette.MaxBets,
		Cooldown:    time.Duration(cfg.Games.Roulette.CooldownSeconds) * time.Second,
		HistorySize: cfg.Games.Roulette.HistorySize,
	}, ledger, rng, userLock)

	// Initialize game registry and register instant games
	gameRegistry := game.NewRegistry()

	diceGame := dice.New(&dice.Config{MinBet: cfg.Games.Dice.MinBet}, rng)
	if err := gameRegistry.Register(diceGame); err != nil {
		log.Fatal().Err(err).Msg("Failed to register dice game")
	}

	colorsGame := colors.New(&colors.Config{MinBet: cfg.Games.Colors.MinBet}, rng)
	if err := gameRegistry.Register(colorsGame); err != nil {
		log.Fatal().Err(err).Msg("Failed to register colors game")
	}

	log.Info().
		Int("game_count", gameRegistry.Count()).
		Strs("games", gameRegistry.Commands()).
		Msg("Games registered")

	// Create bot dependencies
	deps := &bot.Dependencies{
		Config:         cfg,
		AccountService: accountService,
		Ledger:         ledger,
		GameRegistry:   gameRegistry,
		MinesEngine:    minesEngine,
		RouletteEngine: rouletteEngine,
		UserLock:       userLock,
	}

	// Initialize bot
	telegramBot, err := bot.New(deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start bot in a goroutine
	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start()
	}()

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Graceful shutdown
	telegramBot.Stop()
	log.Info().Msg("Bot stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create users table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			telegram_id BIGINT PRIMARY KEY,
			username VARCHAR(255) NOT NULL,
			balance BIGINT NOT NULL DEFAULT 0,
			games_played BIGINT NOT NULL DEFAULT 0,
			banned BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_users_balance ON users(balance DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: users table created")

	// Migration 2: Create transactions table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(telegram_id) ON DELETE CASCADE,
			amount BIGINT NOT NULL,
			type VARCHAR(50) NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_transactions_user_time ON transactions(user_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_transactions_type_time ON transactions(type, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: transactions table created")

	// Migration 3: Create promo code tables
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS promo_codes (
			code VARCHAR(64) PRIMARY KEY,
			reward BIGINT NOT NULL,
			max_activations BIGINT NOT NULL,
			activations BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS promo_activations (
			code VARCHAR(64) NOT NULL REFERENCES promo_codes(code) ON DELETE CASCADE,
			user_id BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (code, user_id)
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: promo code tables created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
