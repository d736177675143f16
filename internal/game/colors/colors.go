// Package colors implements the red-or-black color game: a coin-flip color
// draw, a correct guess pays double.
package colors

import (
	"context"
	"errors"
	"fmt"

	"telegram-casino-bot/internal/game"
	"telegram-casino-bot/internal/pkg/random"
)

// DefaultMinBet is the minimum wager.
const DefaultMinBet = 10

// Errors for the color game.
var (
	ErrInvalidBet   = errors.New("bet amount must be positive")
	ErrBetBelowMin  = errors.New("bet is below the minimum")
	ErrUnknownColor = errors.New("unknown color")
	ErrMissingColor = errors.New("color is required")
)

// Color is the player's pick.
type Color string

// Colors.
const (
	Red   Color = "red"
	Black Color = "black"
)

// Emoji returns the display marker for a color.
func (c Color) Emoji() string {
	if c == Red {
		return "🔴"
	}
	return "⚫"
}

// ParseColor recognizes the masculine color-game synonyms. The neuter forms
// ("красное", "черное") belong to the roulette bet grammar and are rejected
// here so the two games never claim the same words.
func ParseColor(s string) (Color, error) {
	switch s {
	case "красный", "ред", "red":
		return Red, nil
	case "черный", "чёрный", "блек", "black":
		return Black, nil
	}
	return "", ErrUnknownColor
}

// ColorsGame implements the Game interface.
type ColorsGame struct {
	minBet int64
	rng    random.Source
}

// Config holds configuration for the color game.
type Config struct {
	MinBet int64
}

// New creates a new ColorsGame.
func New(cfg *Config, rng random.Source) *ColorsGame {
	minBet := int64(DefaultMinBet)
	if cfg != nil && cfg.MinBet > 0 {
		minBet = cfg.MinBet
	}
	return &ColorsGame{minBet: minBet, rng: rng}
}

// Name returns the game's display name.
func (g *ColorsGame) Name() string {
	return "Цвета"
}

// Command returns the command that triggers this game.
func (g *ColorsGame) Command() string {
	return "colors"
}

// Description returns a brief description of the game.
func (g *ColorsGame) Description() string {
	return "Угадай цвет: 🔴 или ⚫, выигрыш x2."
}

// MinBet returns the minimum allowed bet.
func (g *ColorsGame) MinBet() int64 {
	return g.minBet
}

// ValidateBet checks the bet amount and color parameter.
func (g *ColorsGame) ValidateBet(bet int64, params map[string]any) error {
	if bet <= 0 {
		return ErrInvalidBet
	}
	if bet < g.minBet {
		return fmt.Errorf("%w: minimum is %d", ErrBetBelowMin, g.minBet)
	}
	if _, err := extractColor(params); err != nil {
		return err
	}
	return nil
}

// Play draws a color and resolves the pick. The payout is the net result:
// +bet on a win, -bet on a loss.
func (g *ColorsGame) Play(ctx context.Context, userID int64, bet int64, params map[string]any) (*game.Result, error) {
	if err := g.ValidateBet(bet, params); err != nil {
		return nil, err
	}

	pick, err := extractColor(params)
	if err != nil {
		return nil, err
	}

	drawn := Black
	if g.rng.Intn(2) == 0 {
		drawn = Red
	}

	payout := -bet
	outcome := fmt.Sprintf("🎲 Выпало: %s - проигрыш %d ⭐", drawn.Emoji(), bet)
	if pick == drawn {
		payout = bet
		outcome = fmt.Sprintf("🎲 Выпало: %s - выигрыш %d ⭐", drawn.Emoji(), bet*2)
	}

	return &game.Result{
		Payout:  payout,
		Outcome: outcome,
		Details: map[string]any{
			"drawn": string(drawn),
			"pick":  string(pick),
			"bet":   bet,
		},
	}, nil
}

func extractColor(params map[string]any) (Color, error) {
	if params == nil {
		return "", ErrMissingColor
	}
	v, ok := params["color"]
	if !ok {
		return "", ErrMissingColor
	}
	switch c := v.(type) {
	case Color:
		return c, nil
	case string:
		return ParseColor(c)
	default:
		return "", ErrMissingColor
	}
}
