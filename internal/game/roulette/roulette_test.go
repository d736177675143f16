package roulette

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-casino-bot/internal/game/session"
	"telegram-casino-bot/internal/pkg/lock"
)

// fakeLedger is an in-memory Ledger for engine tests.
type fakeLedger struct {
	mu       sync.Mutex
	balances map[int64]int64
	games    map[int64]int

	applyCalls  int
	applyDeltas []int64
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		balances: make(map[int64]int64),
		games:    make(map[int64]int),
	}
}

func (l *fakeLedger) Balance(_ context.Context, userID int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[userID], nil
}

func (l *fakeLedger) Debit(_ context.Context, userID int64, amount int64, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[userID] -= amount
	return nil
}

func (l *fakeLedger) Credit(_ context.Context, userID int64, amount int64, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[userID] += amount
	return nil
}

func (l *fakeLedger) Apply(_ context.Context, userID int64, delta int64, _ string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.applyCalls++
	l.applyDeltas = append(l.applyDeltas, delta)
	l.balances[userID] += delta
	return nil
}

func (l *fakeLedger) IncrementGames(_ context.Context, userID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.games[userID]++
	return nil
}

// scriptedSource replays fixed draws.
type scriptedSource struct {
	ints []int
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptedSource) Sample(n, k int) []int {
	out := make([]int, k)
	for i := range out {
		out[i] = i
	}
	return out
}

// noCooldown disables the inter-round wait so tests can spin freely.
var noCooldown = &Config{Cooldown: time.Nanosecond}

func newTestEngine(ledger *fakeLedger, rng *scriptedSource, cfg *Config) *Engine {
	return New(cfg, ledger, rng, lock.NewUserLock())
}

func TestEngine_PlaceBet(t *testing.T) {
	ctx := context.Background()

	t.Run("first bet snapshots the balance into the mirror", func(t *testing.T) {
		ledger := newFakeLedger()
		ledger.balances[1] = 1000
		engine := newTestEngine(ledger, &scriptedSource{}, noCooldown)

		ack, err := engine.PlaceBet(ctx, 1, 100, "красное")
		require.NoError(t, err)

		assert.Equal(t, 1, ack.BetCount)
		assert.Equal(t, int64(100), ack.TotalBet)
		assert.Equal(t, int64(900), ack.Remaining)
		// The real ledger is untouched until the spin.
		assert.Equal(t, int64(1000), ledger.balances[1])
	})

	t.Run("bets accumulate independently, never merged", func(t *testing.T) {
		ledger := newFakeLedger()
		ledger.balances[1] = 1000
		engine := newTestEngine(ledger, &scriptedSource{}, noCooldown)

		_, err := engine.PlaceBet(ctx, 1, 100, "красное")
		require.NoError(t, err)
		ack, err := engine.PlaceBet(ctx, 1, 50, "красное")
		require.NoError(t, err)

		assert.Equal(t, 2, ack.BetCount)
		assert.Equal(t, int64(150), ack.TotalBet)
		assert.Equal(t, int64(850), ack.Remaining)
	})

	t.Run("rejects below minimum", func(t *testing.T) {
		ledger := newFakeLedger()
		ledger.balances[1] = 1000
		engine := newTestEngine(ledger, &scriptedSource{}, noCooldown)

		_, err := engine.PlaceBet(ctx, 1, 5, "красное")
		assert.ErrorIs(t, err, ErrBetBelowMinimum)
	})

	t.Run("rejects a user who cannot afford the minimum", func(t *testing.T) {
		ledger := newFakeLedger()
		ledger.balances[1] = 5
		engine := newTestEngine(ledger, &scriptedSource{}, noCooldown)

		_, err := engine.PlaceBet(ctx, 1, 10, "красное")
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})

	t.Run("enforces the virtual balance across bets", func(t *testing.T) {
		ledger := newFakeLedger()
		ledger.balances[1] = 100
		engine := newTestEngine(ledger, &scriptedSource{}, noCooldown)

		_, err := engine.PlaceBet(ctx, 1, 60, "красное")
		require.NoError(t, err)

		// 60 already staged; only 40 remains even though the ledger still
		// reports 100.
		_, err = engine.PlaceBet(ctx, 1, 60, "черное")
		assert.ErrorIs(t, err, ErrInsufficientVirtualBalance)

		_, err = engine.PlaceBet(ctx, 1, 40, "черное")
		assert.NoError(t, err)
	})

	t.Run("enforces the bet limit", func(t *testing.T) {
		ledger := newFakeLedger()
		ledger.balances[1] = 1_000_000
		engine := newTestEngine(ledger, &scriptedSource{}, noCooldown)

		for i := 0; i < DefaultMaxBets; i++ {
			_, err := engine.PlaceBet(ctx, 1, 10, "красное")
			require.NoError(t, err)
		}

		_, err := engine.PlaceBet(ctx, 1, 10, "красное")
		assert.ErrorIs(t, err, ErrBetLimit)
	})

	t.Run("rejects an unknown bet type without touching the round", func(t *testing.T) {
		ledger := newFakeLedger()
		ledger.balances[1] = 1000
		engine := newTestEngine(ledger, &scriptedSource{}, noCooldown)

		_, err := engine.PlaceBet(ctx, 1, 100, "красное")
		require.NoError(t, err)

		_, err = engine.PlaceBet(ctx, 1, 100, "банан")
		assert.ErrorIs(t, err, ErrUnrecognizedBet)

		view, err := engine.Snapshot(1)
		require.NoError(t, err)
		assert.Len(t, view.Bets, 1)
		assert.Equal(t, int64(100), view.TotalBet)
	})

	t.Run("rejects bets once spinning", func(t *testing.T) {
		ledger := newFakeLedger()
		ledger.balances[1] = 1000
		engine := newTestEngine(ledger, &scriptedSource{}, noCooldown)

		_, err := engine.PlaceBet(ctx, 1, 100, "красное")
		require.NoError(t, err)

		round, err := engine.rounds.Get(1)
		require.NoError(t, err)
		round.Status = StatusSpinning

		_, err = engine.PlaceBet(ctx, 1, 100, "черное")
		assert.ErrorIs(t, err, ErrRoundSpinning)
	})
}

func TestEngine_Spin(t *testing.T) {
	ctx := context.Background()

	t.Run("losing red plus winning single settles one net delta", func(t *testing.T) {
		ledger := newFakeLedger()
		ledger.balances[1] = 1000
		// Draw 17 (black).
		engine := newTestEngine(ledger, &scriptedSource{ints: []int{17}}, noCooldown)

		_, err := engine.PlaceBet(ctx, 1, 20, "красное")
		require.NoError(t, err)
		_, err = engine.PlaceBet(ctx, 1, 10, "17")
		require.NoError(t, err)

		result, err := engine.Spin(ctx, 1)
		require.NoError(t, err)

		assert.Equal(t, 17, result.Number)
		assert.Equal(t, Black, result.Color)
		assert.Equal(t, 2, result.BetCount)
		assert.Equal(t, int64(30), result.TotalBet)
		// Single pays 10*36 = 360; the red bet loses.
		assert.Equal(t, int64(360), result.TotalPayout)
		assert.Equal(t, int64(330), result.Net)
		require.Len(t, result.Wins, 1)
		assert.Equal(t, KindSingle, result.Wins[0].Kind)

		// Exactly one signed ledger adjustment.
		assert.Equal(t, 1, ledger.applyCalls)
		assert.Equal(t, []int64{330}, ledger.applyDeltas)
		assert.Equal(t, int64(1330), ledger.balances[1])
		assert.Equal(t, 1, ledger.games[1])

		// The round is gone.
		_, err = engine.Snapshot(1)
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("dozen bet pays triple", func(t *testing.T) {
		ledger := newFakeLedger()
		ledger.balances[1] = 1000
		engine := newTestEngine(ledger, &scriptedSource{ints: []int{30}}, noCooldown)

		_, err := engine.PlaceBet(ctx, 1, 100, "25-36")
		require.NoError(t, err)

		result, err := engine.Spin(ctx, 1)
		require.NoError(t, err)

		assert.Equal(t, int64(300), result.TotalPayout)
		assert.Equal(t, int64(200), result.Net)
		assert.Equal(t, int64(1200), ledger.balances[1])
	})

	t.Run("zero wipes every outside bet", func(t *testing.T) {
		ledger := newFakeLedger()
		ledger.balances[1] = 1000
		engine := newTestEngine(ledger, &scriptedSource{ints: []int{0}}, noCooldown)

		for _, spec := range []string{"красное", "черное", "чет", "нечет", "1-18", "19-36"} {
			_, err := engine.PlaceBet(ctx, 1, 10, spec)
			require.NoError(t, err)
		}

		result, err := engine.Spin(ctx, 1)
		require.NoError(t, err)

		assert.Equal(t, Green, result.Color)
		assert.Equal(t, int64(0), result.TotalPayout)
		assert.Equal(t, int64(-60), result.Net)
		assert.Empty(t, result.Wins)
		assert.Equal(t, int64(940), ledger.balances[1])
	})

	t.Run("requires a round with bets", func(t *testing.T) {
		ledger := newFakeLedger()
		engine := newTestEngine(ledger, &scriptedSource{}, noCooldown)

		_, err := engine.Spin(ctx, 1)
		assert.ErrorIs(t, err, session.ErrNoSession)

		require.NoError(t, engine.rounds.Create(1, &Round{UserID: 1, Status: StatusAccepting}))
		_, err = engine.Spin(ctx, 1)
		assert.ErrorIs(t, err, ErrNoBets)
	})

	t.Run("second spin inside the cooldown fails", func(t *testing.T) {
		ledger := newFakeLedger()
		ledger.balances[1] = 1000
		engine := newTestEngine(ledger, &scriptedSource{ints: []int{17, 17}}, &Config{Cooldown: time.Hour})

		_, err := engine.PlaceBet(ctx, 1, 100, "красное")
		require.NoError(t, err)
		_, err = engine.Spin(ctx, 1)
		require.NoError(t, err)

		_, err = engine.PlaceBet(ctx, 1, 100, "красное")
		require.NoError(t, err)

		_, err = engine.Spin(ctx, 1)
		var cooldownErr *CooldownError
		require.ErrorAs(t, err, &cooldownErr)
		assert.Greater(t, cooldownErr.Remaining, time.Duration(0))

		// The staged round survives the refusal.
		view, verr := engine.Snapshot(1)
		require.NoError(t, verr)
		assert.Equal(t, int64(100), view.TotalBet)
	})

	t.Run("cooldown does not couple users", func(t *testing.T) {
		ledger := newFakeLedger()
		ledger.balances[1] = 1000
		ledger.balances[2] = 1000
		engine := newTestEngine(ledger, &scriptedSource{ints: []int{17, 17}}, &Config{Cooldown: time.Hour})

		_, err := engine.PlaceBet(ctx, 1, 100, "красное")
		require.NoError(t, err)
		_, err = engine.Spin(ctx, 1)
		require.NoError(t, err)

		_, err = engine.PlaceBet(ctx, 2, 100, "красное")
		require.NoError(t, err)
		_, err = engine.Spin(ctx, 2)
		assert.NoError(t, err)
	})

	t.Run("records history newest first", func(t *testing.T) {
		ledger := newFakeLedger()
		ledger.balances[1] = 1000
		engine := newTestEngine(ledger, &scriptedSource{ints: []int{17, 0, 3}}, noCooldown)

		for i := 0; i < 3; i++ {
			_, err := engine.PlaceBet(ctx, 1, 10, "красное")
			require.NoError(t, err)
			_, err = engine.Spin(ctx, 1)
			require.NoError(t, err)
			engine.mu.Lock()
			delete(engine.lastSpins, 1)
			engine.mu.Unlock()
		}

		entries := engine.History(20)
		require.Len(t, entries, 3)
		assert.Equal(t, 3, entries[0].Number)
		assert.Equal(t, 0, entries[1].Number)
		assert.Equal(t, 17, entries[2].Number)
	})
}

func TestEngine_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("destroys the round without touching the ledger", func(t *testing.T) {
		ledger := newFakeLedger()
		ledger.balances[1] = 1000
		engine := newTestEngine(ledger, &scriptedSource{}, noCooldown)

		_, err := engine.PlaceBet(ctx, 1, 100, "красное")
		require.NoError(t, err)
		_, err = engine.PlaceBet(ctx, 1, 50, "17")
		require.NoError(t, err)

		total, err := engine.Cancel(ctx, 1)
		require.NoError(t, err)

		assert.Equal(t, int64(150), total)
		assert.Equal(t, int64(1000), ledger.balances[1])
		assert.Equal(t, 0, ledger.applyCalls)

		_, err = engine.Snapshot(1)
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("requires an active round", func(t *testing.T) {
		engine := newTestEngine(newFakeLedger(), &scriptedSource{}, noCooldown)

		_, err := engine.Cancel(ctx, 1)
		assert.ErrorIs(t, err, session.ErrNoSession)
	})

	t.Run("a fresh round can be opened after cancel", func(t *testing.T) {
		ledger := newFakeLedger()
		ledger.balances[1] = 1000
		engine := newTestEngine(ledger, &scriptedSource{}, noCooldown)

		_, err := engine.PlaceBet(ctx, 1, 100, "красное")
		require.NoError(t, err)
		_, err = engine.Cancel(ctx, 1)
		require.NoError(t, err)

		ack, err := engine.PlaceBet(ctx, 1, 200, "черное")
		require.NoError(t, err)
		assert.Equal(t, 1, ack.BetCount)
		assert.Equal(t, int64(800), ack.Remaining)
	})
}

func TestHistory(t *testing.T) {
	t.Run("caps at capacity, evicting the oldest", func(t *testing.T) {
		h := NewHistory(3)
		for n := 1; n <= 5; n++ {
			h.Add(n, ColorOf(n))
		}

		assert.Equal(t, 3, h.Len())
		entries := h.Last(10)
		require.Len(t, entries, 3)
		assert.Equal(t, 5, entries[0].Number)
		assert.Equal(t, 4, entries[1].Number)
		assert.Equal(t, 3, entries[2].Number)
	})

	t.Run("last returns at most n entries", func(t *testing.T) {
		h := NewHistory(100)
		for n := 0; n < 10; n++ {
			h.Add(n, ColorOf(n))
		}

		entries := h.Last(4)
		require.Len(t, entries, 4)
		assert.Equal(t, 9, entries[0].Number)
		assert.Equal(t, 6, entries[3].Number)
	})

	t.Run("empty history yields nothing", func(t *testing.T) {
		h := NewHistory(10)
		assert.Empty(t, h.Last(5))
	})
}
