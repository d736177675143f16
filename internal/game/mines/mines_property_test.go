package mines

import (
	"context"
	"testing"

	"pgregory.net/rapid"

	"telegram-casino-bot/internal/pkg/lock"
	"telegram-casino-bot/internal/pkg/random"
)

// TestMinePlacementProperty checks that every session hides exactly six
// distinct mines inside the grid.
func TestMinePlacementProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		rng := random.NewSeeded(seed)

		mines := drawMines(rng)

		if len(mines) != MineCount {
			t.Fatalf("expected %d distinct mines, got %d", MineCount, len(mines))
		}
		for cell := range mines {
			if cell.X < 0 || cell.X >= GridSize || cell.Y < 0 || cell.Y >= GridSize {
				t.Fatalf("mine out of grid: %+v", cell)
			}
		}
	})
}

// TestCashOutPayoutProperty checks the payout formula for any wager and any
// number of opened cells: wager * (100 + 35*opened) / 100, truncated.
func TestCashOutPayoutProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		wager := rapid.Int64Range(10, 1_000_000).Draw(t, "wager")
		opened := rapid.IntRange(0, SafeCells).Draw(t, "opened")

		s := &Session{Wager: wager, opened: make(map[Cell]struct{})}
		for i := 0; i < opened; i++ {
			s.opened[Cell{X: i / GridSize, Y: i % GridSize}] = struct{}{}
		}

		want := wager * (100 + 35*int64(opened)) / 100
		if got := s.Potential(); got != want {
			t.Fatalf("Potential() = %d, want %d (wager=%d opened=%d)", got, want, wager, opened)
		}
	})
}

// TestBalanceConservationProperty plays random full games against the fake
// ledger and checks the balance moves exactly by the session's net result:
// -wager on a bust, payout-wager on a cash-out, zero on a cancel.
func TestBalanceConservationProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()

		start := rapid.Int64Range(1_000, 1_000_000).Draw(t, "start")
		wager := rapid.Int64Range(10, start).Draw(t, "wager")
		seed := rapid.Int64().Draw(t, "seed")

		ledger := newFakeLedger()
		ledger.balances[1] = start
		engine := New(nil, ledger, random.NewSeeded(seed), lock.NewUserLock())

		view, err := engine.Create(ctx, 1, wager)
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		action := rapid.IntRange(0, 2).Draw(t, "action")
		switch action {
		case 0: // cancel immediately
			if _, err := engine.Cancel(ctx, 1); err != nil {
				t.Fatalf("Cancel failed: %v", err)
			}
			if got := ledger.balances[1]; got != start {
				t.Fatalf("cancel should restore the balance: got %d, want %d", got, start)
			}

		case 1: // open cells until bust or a cash-out point
			target := rapid.IntRange(1, SafeCells).Draw(t, "target")
			opened := 0
			busted := false
			cleared := false
			var payout int64
			for x := 0; x < GridSize && opened < target && !busted && !cleared; x++ {
				for y := 0; y < GridSize && opened < target; y++ {
					result, err := engine.Open(ctx, 1, x, y)
					if err != nil {
						t.Fatalf("Open failed: %v", err)
					}
					if result.Outcome == OutcomeBust {
						busted = true
						break
					}
					opened++
					if result.Outcome == OutcomeCleared {
						cleared = true
						payout = result.Payout
						break
					}
				}
			}

			switch {
			case busted:
				if got := ledger.balances[1]; got != start-wager {
					t.Fatalf("bust should forfeit the wager: got %d, want %d", got, start-wager)
				}
			case cleared:
				if got := ledger.balances[1]; got != start-wager+payout {
					t.Fatalf("cleared balance mismatch: got %d, want %d", got, start-wager+payout)
				}
			default:
				result, err := engine.CashOut(ctx, 1)
				if err != nil {
					t.Fatalf("CashOut failed: %v", err)
				}
				want := start - wager + result.Payout
				if got := ledger.balances[1]; got != want {
					t.Fatalf("cash-out balance mismatch: got %d, want %d", got, want)
				}
				if result.Payout != wager*(100+35*int64(opened))/100 {
					t.Fatalf("payout formula mismatch: got %d (wager=%d opened=%d)", result.Payout, wager, opened)
				}
			}

		case 2: // abandon without acting; only the debit happened
			_ = view
			if got := ledger.balances[1]; got != start-wager {
				t.Fatalf("open session should hold the wager: got %d, want %d", got, start-wager)
			}
		}
	})
}
