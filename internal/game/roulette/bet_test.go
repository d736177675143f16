package roulette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		spec        string
		wantKind    Kind
		wantNumbers int
		wantErr     bool
	}{
		{"single zero", "0", KindSingle, 1, false},
		{"single mid", "17", KindSingle, 1, false},
		{"single max", "36", KindSingle, 1, false},
		{"single out of range", "37", "", 0, true},
		{"single negative", "-1", "", 0, true},

		{"red russian", "красное", KindRed, 18, false},
		{"red short", "крас", KindRed, 18, false},
		{"red english", "red", KindRed, 18, false},
		{"black russian", "черное", KindBlack, 18, false},
		{"black yo", "чёрное", KindBlack, 18, false},
		{"black english", "black", KindBlack, 18, false},

		{"odd russian", "нечет", KindOdd, 18, false},
		{"odd yo", "нечёт", KindOdd, 18, false},
		{"odd english", "odd", KindOdd, 18, false},
		{"even russian", "чет", KindEven, 18, false},
		{"even word", "четное", KindEven, 18, false},
		{"even english", "even", KindEven, 18, false},

		{"low word", "малое", KindLow, 18, false},
		{"low slash", "1/18", KindLow, 18, false},
		{"low range", "1-18", KindLow, 18, false},
		{"high word", "большое", KindHigh, 18, false},
		{"high slash", "19/36", KindHigh, 18, false},
		{"high range", "19-36", KindHigh, 18, false},

		{"dozen1 slash", "1/12", KindDozen1, 12, false},
		{"dozen1 range", "1-12", KindDozen1, 12, false},
		{"dozen2 range", "13-24", KindDozen2, 12, false},
		{"dozen3 range", "25-36", KindDozen3, 12, false},

		{"column1", "колонка1", KindColumn1, 12, false},
		{"column2 words", "вторая колонка", KindColumn2, 12, false},
		{"column3 english", "column3", KindColumn3, 12, false},

		{"custom range", "5-9", KindRange, 5, false},
		{"degenerate range", "7-7", KindRange, 1, false},
		{"inverted range", "9-5", "", 0, true},
		{"range past table", "30-40", "", 0, true},

		{"split pair", "5,6", KindSplit, 2, false},
		{"split trio", "1, 2, 3", KindSplit, 3, false},
		{"split with zero", "0,32", KindSplit, 2, false},

		{"empty", "", "", 0, true},
		{"gibberish", "банан", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bet, err := Parse(tt.spec, 100)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnrecognizedBet)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, bet.Kind)
			assert.Len(t, bet.Numbers, tt.wantNumbers)
			assert.Equal(t, int64(100), bet.Amount)
		})
	}
}

// "нечет" contains "чет"; the parser must try odd first or every odd bet
// would silently become an even bet.
func TestParse_OddBeforeEven(t *testing.T) {
	bet, err := Parse("нечет", 100)
	require.NoError(t, err)
	assert.Equal(t, KindOdd, bet.Kind)
	assert.True(t, bet.Covers(1))
	assert.False(t, bet.Covers(2))
}

func TestParse_ZeroExcludedFromOutsideBets(t *testing.T) {
	for _, spec := range []string{"красное", "черное", "чет", "нечет", "1-18", "19-36"} {
		bet, err := Parse(spec, 100)
		require.NoError(t, err)
		assert.False(t, bet.Covers(0), "bet %q must not cover zero", spec)
	}
}

func TestParse_SplitDropsOutOfRange(t *testing.T) {
	bet, err := Parse("5,40,6", 100)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6}, bet.Numbers)

	_, err = Parse("40,50", 100)
	assert.ErrorIs(t, err, ErrUnrecognizedBet)
}

func TestParse_SplitDeduplicates(t *testing.T) {
	bet, err := Parse("5,5,6", 100)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6}, bet.Numbers)
	assert.Equal(t, int64(100*36/2), bet.Payout())
}

func TestBet_Payout(t *testing.T) {
	tests := []struct {
		spec       string
		amount     int64
		multiplier float64
		payout     int64
	}{
		{"17", 10, 36, 360},
		{"красное", 100, 2, 200},
		{"нечет", 100, 2, 200},
		{"1-18", 100, 2, 200},
		{"1-12", 100, 3, 300},
		{"колонка1", 100, 3, 300},
		{"5,6", 100, 18, 1800},
		{"5-9", 100, 7.2, 720},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			bet, err := Parse(tt.spec, tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.multiplier, bet.Multiplier())
			assert.Equal(t, tt.payout, bet.Payout())
		})
	}
}

func TestColorOf(t *testing.T) {
	assert.Equal(t, Green, ColorOf(0))

	reds := 0
	blacks := 0
	for n := 1; n <= 36; n++ {
		switch ColorOf(n) {
		case Red:
			reds++
		case Black:
			blacks++
		}
	}
	assert.Equal(t, 18, reds)
	assert.Equal(t, 18, blacks)

	// Spot checks against the table layout.
	assert.Equal(t, Red, ColorOf(1))
	assert.Equal(t, Black, ColorOf(17))
	assert.Equal(t, Red, ColorOf(36))
	assert.Equal(t, Black, ColorOf(35))
}
