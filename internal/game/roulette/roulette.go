package roulette

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"telegram-casino-bot/internal/game"
	"telegram-casino-bot/internal/game/session"
	"telegram-casino-bot/internal/model"
	"telegram-casino-bot/internal/pkg/lock"
	"telegram-casino-bot/internal/pkg/random"
)

// Defaults for the round engine.
const (
	DefaultMinBet      = 10
	DefaultMaxBets     = 16
	DefaultCooldown    = 15 * time.Second
	DefaultHistorySize = 100

	settleAttempts = 3
)

// Errors for the roulette round engine.
var (
	ErrBetBelowMinimum            = errors.New("bet is below the minimum")
	ErrInsufficientFunds          = errors.New("insufficient funds to start a round")
	ErrInsufficientVirtualBalance = errors.New("bet exceeds remaining round balance")
	ErrBetLimit                   = errors.New("bet limit reached for this round")
	ErrNoBets                     = errors.New("no bets placed")
	ErrRoundSpinning              = errors.New("the wheel is already spinning")
)

// CooldownError is returned when a spin is attempted before the inter-round
// interval has elapsed. It carries the remaining wait.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active, %d seconds remaining", int(e.Remaining.Seconds()+0.999))
}

// Status of a round.
type Status int

const (
	// StatusAccepting means bets may still be added.
	StatusAccepting Status = iota
	// StatusSpinning means the outcome draw has begun; no late bets.
	StatusSpinning
)

// Round is one user's in-progress betting round. The Balance field is the
// virtual mirror: the ledger balance at round start minus all bets placed
// this round. The real ledger is untouched until the spin resolves.
type Round struct {
	UserID    int64
	StartedAt time.Time
	Status    Status
	Balance   int64
	TotalBet  int64
	Bets      []*Bet
}

// Ack acknowledges an accepted bet.
type Ack struct {
	Bet       *Bet
	BetCount  int
	TotalBet  int64
	Remaining int64
}

// SpinResult is the settled outcome of a round.
type SpinResult struct {
	Number      int
	Color       Color
	BetCount    int
	TotalBet    int64
	TotalPayout int64
	Net         int64
	Wins        []*Bet
}

// RoundView is a read-only snapshot for rendering.
type RoundView struct {
	Bets      []*Bet
	TotalBet  int64
	Remaining int64
}

// Config holds roulette engine configuration.
type Config struct {
	MinBet      int64
	MaxBets     int
	Cooldown    time.Duration
	HistorySize int
}

// Engine runs roulette rounds against the ledger.
type Engine struct {
	minBet   int64
	maxBets  int
	cooldown time.Duration

	ledger  game.Ledger
	rng     random.Source
	rounds  *session.Registry[Round]
	locks   *lock.UserLock
	history *History

	mu        sync.Mutex
	lastSpins map[int64]time.Time
}

// New creates a roulette engine.
func New(cfg *Config, ledger game.Ledger, rng random.Source, locks *lock.UserLock) *Engine {
	e := &Engine{
		minBet:    DefaultMinBet,
		maxBets:   DefaultMaxBets,
		cooldown:  DefaultCooldown,
		ledger:    ledger,
		rng:       rng,
		rounds:    session.NewRegistry[Round](),
		locks:     locks,
		history:   NewHistory(DefaultHistorySize),
		lastSpins: make(map[int64]time.Time),
	}
	if cfg != nil {
		if cfg.MinBet > 0 {
			e.minBet = cfg.MinBet
		}
		if cfg.MaxBets > 0 {
			e.maxBets = cfg.MaxBets
		}
		if cfg.Cooldown > 0 {
			e.cooldown = cfg.Cooldown
		}
		if cfg.HistorySize > 0 {
			e.history = NewHistory(cfg.HistorySize)
		}
	}
	return e
}

// MinBet returns the minimum bet amount.
func (e *Engine) MinBet() int64 {
	return e.minBet
}

// PlaceBet parses and records a bet. The first bet of a round snapshots the
// ledger balance into the virtual mirror; every bet is debited from the
// mirror only. The real ledger sees nothing until the spin.
func (e *Engine) PlaceBet(ctx context.Context, userID, amount int64, spec string) (*Ack, error) {
	var ack *Ack
	err := e.locks.WithLock(userID, func() error {
		round, err := e.rounds.Get(userID)
		if errors.Is(err, session.ErrNoSession) {
			balance, berr := e.ledger.Balance(ctx, userID)
			if berr != nil {
				return berr
			}
			if balance < e.minBet {
				return ErrInsufficientFunds
			}
			round = &Round{
				UserID:    userID,
				StartedAt: time.Now(),
				Status:    StatusAccepting,
				Balance:   balance,
			}
			if cerr := e.rounds.Create(userID, round); cerr != nil {
				return cerr
			}
		} else if err != nil {
			return err
		}

		if round.Status != StatusAccepting {
			return ErrRoundSpinning
		}
		if amount < e.minBet {
			return ErrBetBelowMinimum
		}
		if amount > round.Balance {
			return ErrInsufficientVirtualBalance
		}
		if len(round.Bets) >= e.maxBets {
			return ErrBetLimit
		}

		bet, err := Parse(spec, amount)
		if err != nil {
			return err
		}

		round.Bets = append(round.Bets, bet)
		round.Balance -= amount
		round.TotalBet += amount

		ack = &Ack{
			Bet:       bet,
			BetCount:  len(round.Bets),
			TotalBet:  round.TotalBet,
			Remaining: round.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ack, nil
}

// Spin resolves the round: one number is drawn, every bet is tested against
// its covered set, and the ledger receives exactly one signed delta of
// totalPayout-totalBet. The outcome is drawn synchronously here, before any
// animation the caller may render.
func (e *Engine) Spin(ctx context.Context, userID int64) (*SpinResult, error) {
	var result *SpinResult
	err := e.locks.WithLock(userID, func() error {
		if remaining := e.cooldownRemaining(userID); remaining > 0 {
			return &CooldownError{Remaining: remaining}
		}

		round, err := e.rounds.Get(userID)
		if err != nil {
			return err
		}
		if len(round.Bets) == 0 {
			return ErrNoBets
		}
		if round.Status != StatusAccepting {
			return ErrRoundSpinning
		}

		round.Status = StatusSpinning

		number := e.rng.Intn(37)
		color := ColorOf(number)

		var totalPayout int64
		var wins []*Bet
		for _, bet := range round.Bets {
			if bet.Covers(number) {
				totalPayout += bet.Payout()
				wins = append(wins, bet)
			}
		}
		net := totalPayout - round.TotalBet

		// One signed adjustment, applied once, after resolution.
		e.applyNet(ctx, userID, net)
		if err := e.ledger.IncrementGames(ctx, userID); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("Failed to increment game counter")
		}

		e.history.Add(number, color)
		e.stampSpin(userID)
		e.rounds.Remove(userID)

		result = &SpinResult{
			Number:      number,
			Color:       color,
			BetCount:    len(round.Bets),
			TotalBet:    round.TotalBet,
			TotalPayout: totalPayout,
			Net:         net,
			Wins:        wins,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel destroys the round. No ledger effect: bets only ever debited the
// virtual mirror, so there is nothing to refund for real. Returns the total
// that was staged, for display.
func (e *Engine) Cancel(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := e.locks.WithLock(userID, func() error {
		round, err := e.rounds.Get(userID)
		if err != nil {
			return err
		}
		if round.Status != StatusAccepting {
			return ErrRoundSpinning
		}
		total = round.TotalBet
		e.rounds.Remove(userID)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Snapshot returns the user's current round for rendering.
func (e *Engine) Snapshot(userID int64) (*RoundView, error) {
	var view *RoundView
	err := e.locks.WithLock(userID, func() error {
		round, err := e.rounds.Get(userID)
		if err != nil {
			return err
		}
		bets := make([]*Bet, len(round.Bets))
		copy(bets, round.Bets)
		view = &RoundView{
			Bets:      bets,
			TotalBet:  round.TotalBet,
			Remaining: round.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// History returns up to n past outcomes, newest first.
func (e *Engine) History(n int) []Entry {
	return e.history.Last(n)
}

func (e *Engine) cooldownRemaining(userID int64) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()

	last, ok := e.lastSpins[userID]
	if !ok {
		return 0
	}
	remaining := e.cooldown - time.Since(last)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (e *Engine) stampSpin(userID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSpins[userID] = time.Now()
}

// applyNet settles the round's single ledger delta. The outcome already
// stands, so failures are retried rather than dropped.
func (e *Engine) applyNet(ctx context.Context, userID, net int64) {
	var err error
	for attempt := 1; attempt <= settleAttempts; attempt++ {
		if err = e.ledger.Apply(ctx, userID, net, model.TxTypeRoulette); err == nil {
			return
		}
		log.Warn().Err(err).
			Int64("user_id", userID).
			Int64("net", net).
			Int("attempt", attempt).
			Msg("Ledger adjustment failed, retrying")
	}
	log.Error().Err(err).
		Int64("user_id", userID).
		Int64("net", net).
		Msg("Ledger adjustment failed after retries, settlement not applied")
}
