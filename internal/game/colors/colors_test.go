package colors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource replays fixed draws.
type scriptedSource struct {
	ints []int
}

func (s *scriptedSource) Intn(n int) int {
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptedSource) Sample(n, k int) []int { return nil }

func TestParseColor(t *testing.T) {
	tests := []struct {
		input   string
		want    Color
		wantErr bool
	}{
		{"красный", Red, false},
		{"ред", Red, false},
		{"red", Red, false},
		{"черный", Black, false},
		{"чёрный", Black, false},
		{"блек", Black, false},
		{"black", Black, false},
		{"красное", "", true},
		{"черное", "", true},
		{"зеленый", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColor(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownColor)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestColorsGame_ValidateBet(t *testing.T) {
	g := New(nil, &scriptedSource{})
	params := map[string]any{"color": "красный"}

	tests := []struct {
		name    string
		bet     int64
		params  map[string]any
		wantErr error
	}{
		{"valid", 100, params, nil},
		{"zero", 0, params, ErrInvalidBet},
		{"below minimum", 5, params, ErrBetBelowMin},
		{"missing color", 100, nil, ErrMissingColor},
		{"unknown color", 100, map[string]any{"color": "красное"}, ErrUnknownColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.ValidateBet(tt.bet, tt.params)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestColorsGame_Play(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		draw   int // 0 = red, 1 = black
		pick   string
		payout int64
	}{
		{"red pick wins on red", 0, "красный", 100},
		{"red pick loses on black", 1, "красный", -100},
		{"black pick wins on black", 1, "черный", 100},
		{"black pick loses on red", 0, "черный", -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(nil, &scriptedSource{ints: []int{tt.draw}})

			result, err := g.Play(ctx, 1, 100, map[string]any{"color": tt.pick})
			require.NoError(t, err)
			assert.Equal(t, tt.payout, result.Payout)
		})
	}
}
