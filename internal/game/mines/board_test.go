package mines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCallback(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantAction string
		wantX      int
		wantY      int
		wantOK     bool
	}{
		{"open cell", "mines_open_2_3", actionOpen, 2, 3, true},
		{"open origin", "mines_open_0_0", actionOpen, 0, 0, true},
		{"cash out", "mines_cashout", actionCashOut, 0, 0, true},
		{"cancel", "mines_cancel", actionCancel, 0, 0, true},
		{"foreign prefix", "shop_buy_1", "", 0, 0, false},
		{"garbage coordinates", "mines_open_a_b", "", 0, 0, false},
		{"missing coordinate", "mines_open_1", "", 0, 0, false},
		{"unknown action", "mines_explode_1_1", "", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, x, y, ok := DecodeCallback(tt.data)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantAction, action)
			assert.Equal(t, tt.wantX, x)
			assert.Equal(t, tt.wantY, y)
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for x := 0; x < GridSize; x++ {
		for y := 0; y < GridSize; y++ {
			action, px, py, ok := DecodeCallback(EncodeOpen(x, y))
			require.True(t, ok)
			assert.True(t, IsOpen(action))
			assert.Equal(t, x, px)
			assert.Equal(t, y, py)
		}
	}

	action, _, _, ok := DecodeCallback(EncodeCashOut())
	require.True(t, ok)
	assert.True(t, IsCashOut(action))

	action, _, _, ok = DecodeCallback(EncodeCancel())
	require.True(t, ok)
	assert.True(t, IsCancel(action))
}

func TestBuildBoard(t *testing.T) {
	view := &View{
		Wager:     100,
		Opened:    map[Cell]bool{{X: 1, Y: 1}: true},
		Mines:     map[Cell]bool{{X: 0, Y: 0}: true},
		CanCancel: false,
	}

	t.Run("hides mines during play", func(t *testing.T) {
		markup := BuildBoard(view, false)
		require.Len(t, markup.InlineKeyboard, GridSize+1)

		assert.Equal(t, "❓", markup.InlineKeyboard[0][0].Text)
		assert.Equal(t, "✅", markup.InlineKeyboard[1][1].Text)
		// Progress was made, so the action row offers a cash-out.
		assert.Equal(t, EncodeCashOut(), markup.InlineKeyboard[GridSize][0].Data)
	})

	t.Run("reveals mines on terminal render", func(t *testing.T) {
		markup := BuildBoard(view, true)
		assert.Equal(t, "💣", markup.InlineKeyboard[0][0].Text)
		// A finished game offers no actions.
		require.Len(t, markup.InlineKeyboard, GridSize)
	})

	t.Run("offers cancel before the first reveal", func(t *testing.T) {
		fresh := &View{
			Wager:     100,
			Opened:    map[Cell]bool{},
			Mines:     map[Cell]bool{{X: 0, Y: 0}: true},
			CanCancel: true,
		}
		markup := BuildBoard(fresh, false)
		assert.Equal(t, EncodeCancel(), markup.InlineKeyboard[GridSize][0].Data)
	})
}
