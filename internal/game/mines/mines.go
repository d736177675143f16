// Package mines implements the mine-field game: a 5x5 grid hides 6 mines,
// each safe reveal raises the multiplier, and the player chooses between
// cashing out and risking the next cell.
package mines

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"telegram-casino-bot/internal/game"
	"telegram-casino-bot/internal/game/session"
	"telegram-casino-bot/internal/model"
	"telegram-casino-bot/internal/pkg/lock"
	"telegram-casino-bot/internal/pkg/random"
)

const (
	// GridSize is the board edge length.
	GridSize = 5

	// MineCount is the number of hidden mines per session.
	MineCount = 6

	// SafeCells is the number of cells that can be opened without busting.
	SafeCells = GridSize*GridSize - MineCount

	// DefaultMinBet is the minimum wager.
	DefaultMinBet = 10

	// Multiplier bookkeeping is integer hundredths: start at 1.00, +0.35 per
	// safe reveal. Payouts truncate toward zero at credit time.
	multiplierBase = 100
	multiplierStep = 35

	settleAttempts = 3
)

// Errors for the mine-field game.
var (
	ErrBetBelowMinimum   = errors.New("bet is below the minimum")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCellOutOfRange    = errors.New("cell coordinates out of range")
	ErrCellAlreadyOpen   = errors.New("cell already open")
	ErrNoProgress        = errors.New("no cells opened yet")
	ErrCancelUnavailable = errors.New("cannot cancel after opening a cell")
)

// Cell is a board coordinate.
type Cell struct {
	X int
	Y int
}

// Session is one user's in-progress mine-field game.
type Session struct {
	UserID    int64
	Wager     int64
	StartedAt time.Time

	mines  map[Cell]struct{}
	opened map[Cell]struct{}
}

func (s *Session) multiplierHundredths() int64 {
	return multiplierBase + multiplierStep*int64(len(s.opened))
}

// Multiplier returns the current multiplier for display.
func (s *Session) Multiplier() float64 {
	return float64(s.multiplierHundredths()) / 100
}

// Potential returns the payout a cash-out would credit right now,
// truncated toward zero.
func (s *Session) Potential() int64 {
	return s.Wager * s.multiplierHundredths() / 100
}

// OpenedCount returns how many safe cells have been revealed.
func (s *Session) OpenedCount() int {
	return len(s.opened)
}

// Outcome classifies the result of opening a cell.
type Outcome int

const (
	// OutcomeSafe means the cell was safe and the game continues.
	OutcomeSafe Outcome = iota
	// OutcomeBust means the cell hid a mine; the wager is forfeited.
	OutcomeBust
	// OutcomeCleared means all safe cells are open; the payout was credited.
	OutcomeCleared
)

// OpenResult describes the effect of an Open call.
type OpenResult struct {
	Outcome    Outcome
	Cell       Cell
	Opened     int
	Multiplier float64
	Potential  int64
	Payout     int64 // credited amount; non-zero only for OutcomeCleared

	// Final is the board at the moment the game ended, for rendering with
	// the mines revealed. Set only on bust and full clear.
	Final *View
}

// CashOutResult describes a successful cash-out.
type CashOutResult struct {
	Wager      int64
	Opened     int
	Multiplier float64
	Payout     int64
}

// View is a read-only snapshot of a session for rendering.
type View struct {
	UserID     int64
	Wager      int64
	Opened     map[Cell]bool
	Mines      map[Cell]bool
	Multiplier float64
	Potential  int64
	CanCancel  bool
}

// Config holds mine-field engine configuration.
type Config struct {
	MinBet int64
}

// Engine runs mine-field sessions against the ledger.
type Engine struct {
	minBet   int64
	ledger   game.Ledger
	rng      random.Source
	sessions *session.Registry[Session]
	locks    *lock.UserLock
}

// New creates a mine-field engine.
func New(cfg *Config, ledger game.Ledger, rng random.Source, locks *lock.UserLock) *Engine {
	minBet := int64(DefaultMinBet)
	if cfg != nil && cfg.MinBet > 0 {
		minBet = cfg.MinBet
	}
	return &Engine{
		minBet:   minBet,
		ledger:   ledger,
		rng:      rng,
		sessions: session.NewRegistry[Session](),
		locks:    locks,
	}
}

// MinBet returns the minimum wager.
func (e *Engine) MinBet() int64 {
	return e.minBet
}

// Create debits the wager and starts a new session with freshly drawn mines.
// The debit happens before any randomness, so a ledger failure here leaves
// nothing to roll back.
func (e *Engine) Create(ctx context.Context, userID, wager int64) (*View, error) {
	var view *View
	err := e.locks.WithLock(userID, func() error {
		if wager < e.minBet {
			return ErrBetBelowMinimum
		}
		if _, err := e.sessions.Get(userID); err == nil {
			return session.ErrSessionActive
		}

		balance, err := e.ledger.Balance(ctx, userID)
		if err != nil {
			return err
		}
		if wager > balance {
			return ErrInsufficientFunds
		}

		if err := e.ledger.Debit(ctx, userID, wager, model.TxTypeMinesBet); err != nil {
			return err
		}

		s := &Session{
			UserID:    userID,
			Wager:     wager,
			StartedAt: time.Now(),
			mines:     drawMines(e.rng),
			opened:    make(map[Cell]struct{}),
		}
		if err := e.sessions.Create(userID, s); err != nil {
			// Session appeared between the check and the create; refund the
			// debit so the wager is not charged twice.
			e.settle(ctx, userID, wager, model.TxTypeMinesRefund)
			return err
		}

		view = snapshot(s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// drawMines samples MineCount distinct cells from the grid.
func drawMines(rng random.Source) map[Cell]struct{} {
	mines := make(map[Cell]struct{}, MineCount)
	for _, idx := range rng.Sample(GridSize*GridSize, MineCount) {
		mines[Cell{X: idx / GridSize, Y: idx % GridSize}] = struct{}{}
	}
	return mines
}

// Open reveals a cell. A mine busts the session and forfeits the wager; the
// 19th safe reveal auto-settles the win.
func (e *Engine) Open(ctx context.Context, userID int64, x, y int) (*OpenResult, error) {
	var result *OpenResult
	err := e.locks.WithLock(userID, func() error {
		s, err := e.sessions.Get(userID)
		if err != nil {
			return err
		}

		if x < 0 || x >= GridSize || y < 0 || y >= GridSize {
			return ErrCellOutOfRange
		}
		cell := Cell{X: x, Y: y}
		if _, open := s.opened[cell]; open {
			return ErrCellAlreadyOpen
		}

		if _, mined := s.mines[cell]; mined {
			// Bust: wager stays forfeited, no credit.
			final := snapshot(s)
			e.sessions.Remove(userID)
			if err := e.ledger.IncrementGames(ctx, userID); err != nil {
				log.Error().Err(err).Int64("user_id", userID).Msg("Failed to increment game counter")
			}
			result = &OpenResult{
				Outcome:    OutcomeBust,
				Cell:       cell,
				Opened:     len(s.opened),
				Multiplier: s.Multiplier(),
				Final:      final,
			}
			return nil
		}

		s.opened[cell] = struct{}{}

		if len(s.opened) == SafeCells {
			payout := s.Potential()
			final := snapshot(s)
			e.sessions.Remove(userID)
			e.settle(ctx, userID, payout, model.TxTypeMinesWin)
			if err := e.ledger.IncrementGames(ctx, userID); err != nil {
				log.Error().Err(err).Int64("user_id", userID).Msg("Failed to increment game counter")
			}
			result = &OpenResult{
				Outcome:    OutcomeCleared,
				Cell:       cell,
				Opened:     len(s.opened),
				Multiplier: s.Multiplier(),
				Payout:     payout,
				Final:      final,
			}
			return nil
		}

		result = &OpenResult{
			Outcome:    OutcomeSafe,
			Cell:       cell,
			Opened:     len(s.opened),
			Multiplier: s.Multiplier(),
			Potential:  s.Potential(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CashOut settles the session at the current multiplier. Requires at least
// one opened cell.
func (e *Engine) CashOut(ctx context.Context, userID int64) (*CashOutResult, error) {
	var result *CashOutResult
	err := e.locks.WithLock(userID, func() error {
		s, err := e.sessions.Get(userID)
		if err != nil {
			return err
		}
		if len(s.opened) == 0 {
			return ErrNoProgress
		}

		payout := s.Potential()
		e.sessions.Remove(userID)
		e.settle(ctx, userID, payout, model.TxTypeMinesWin)
		if err := e.ledger.IncrementGames(ctx, userID); err != nil {
			log.Error().Err(err).Int64("user_id", userID).Msg("Failed to increment game counter")
		}

		result = &CashOutResult{
			Wager:      s.Wager,
			Opened:     len(s.opened),
			Multiplier: s.Multiplier(),
			Payout:     payout,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel refunds the wager in full. Only valid before the first reveal; the
// check lives here, not in the UI, so a stale cancel button cannot refund a
// session that already made progress.
func (e *Engine) Cancel(ctx context.Context, userID int64) (int64, error) {
	var refunded int64
	err := e.locks.WithLock(userID, func() error {
		s, err := e.sessions.Get(userID)
		if err != nil {
			return err
		}
		if len(s.opened) > 0 {
			return ErrCancelUnavailable
		}

		if err := e.ledger.Credit(ctx, userID, s.Wager, model.TxTypeMinesRefund); err != nil {
			// Keep the session alive so the user can retry the cancel; the
			// wager was debited and must not evaporate.
			return err
		}
		e.sessions.Remove(userID)
		refunded = s.Wager
		return nil
	})
	if err != nil {
		return 0, err
	}
	return refunded, nil
}

// Snapshot returns a rendering view of the user's session.
func (e *Engine) Snapshot(userID int64) (*View, error) {
	var view *View
	err := e.locks.WithLock(userID, func() error {
		s, err := e.sessions.Get(userID)
		if err != nil {
			return err
		}
		view = snapshot(s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func snapshot(s *Session) *View {
	opened := make(map[Cell]bool, len(s.opened))
	for c := range s.opened {
		opened[c] = true
	}
	mines := make(map[Cell]bool, len(s.mines))
	for c := range s.mines {
		mines[c] = true
	}
	return &View{
		UserID:     s.UserID,
		Wager:      s.Wager,
		Opened:     opened,
		Mines:      mines,
		Multiplier: s.Multiplier(),
		Potential:  s.Potential(),
		CanCancel:  len(s.opened) == 0,
	}
}

// settle credits a resolved payout. The outcome already stands at this point,
// so the credit is retried rather than dropped; exhausting the retries is
// logged loudly for manual follow-up.
func (e *Engine) settle(ctx context.Context, userID, amount int64, txType string) {
	var err error
	for attempt := 1; attempt <= settleAttempts; attempt++ {
		if err = e.ledger.Credit(ctx, userID, amount, txType); err == nil {
			return
		}
		log.Warn().Err(err).
			Int64("user_id", userID).
			Int64("amount", amount).
			Int("attempt", attempt).
			Msg("Ledger credit failed, retrying")
	}
	log.Error().Err(err).
		Int64("user_id", userID).
		Int64("amount", amount).
		Str("tx_type", txType).
		Msg("Ledger credit failed after retries, payout not applied")
}
