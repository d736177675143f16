// Package dice implements the single-die guessing game: the player picks
// higher/lower or even/odd, one die is rolled, a correct guess pays double.
package dice

import (
	"context"
	"errors"
	"fmt"

	"telegram-casino-bot/internal/game"
	"telegram-casino-bot/internal/pkg/random"
)

// DefaultMinBet is the minimum wager.
const DefaultMinBet = 10

// Errors for the dice game.
var (
	ErrInvalidBet    = errors.New("bet amount must be positive")
	ErrBetBelowMin   = errors.New("bet is below the minimum")
	ErrUnknownChoice = errors.New("unknown dice choice")
	ErrMissingChoice = errors.New("dice choice is required")
)

// Choice is the player's guess.
type Choice string

// Choices.
const (
	ChoiceHigher Choice = "higher"
	ChoiceLower  Choice = "lower"
	ChoiceEven   Choice = "even"
	ChoiceOdd    Choice = "odd"
)

// ParseChoice recognizes the Russian and English choice synonyms.
func ParseChoice(s string) (Choice, error) {
	switch s {
	case "больше", "большая", "выше", "high", "higher":
		return ChoiceHigher, nil
	case "меньше", "меньшая", "ниже", "low", "lower":
		return ChoiceLower, nil
	case "чет", "четное", "четная", "even":
		return ChoiceEven, nil
	case "нечет", "нечетное", "нечетная", "odd":
		return ChoiceOdd, nil
	}
	return "", ErrUnknownChoice
}

// Wins reports whether the choice beats the rolled value.
func (c Choice) Wins(value int) bool {
	switch c {
	case ChoiceHigher:
		return value >= 4
	case ChoiceLower:
		return value <= 3
	case ChoiceEven:
		return value%2 == 0
	case ChoiceOdd:
		return value%2 == 1
	}
	return false
}

// DiceGame implements the Game interface.
type DiceGame struct {
	minBet int64
	rng    random.Source
}

// Config holds configuration for the dice game.
type Config struct {
	MinBet int64
}

// New creates a new DiceGame.
func New(cfg *Config, rng random.Source) *DiceGame {
	minBet := int64(DefaultMinBet)
	if cfg != nil && cfg.MinBet > 0 {
		minBet = cfg.MinBet
	}
	return &DiceGame{minBet: minBet, rng: rng}
}

// Name returns the game's display name.
func (d *DiceGame) Name() string {
	return "Кубик"
}

// Command returns the command that triggers this game.
func (d *DiceGame) Command() string {
	return "dice"
}

// Description returns a brief description of the game.
func (d *DiceGame) Description() string {
	return "Угадай исход броска: больше/меньше или чет/нечет, выигрыш x2."
}

// MinBet returns the minimum allowed bet.
func (d *DiceGame) MinBet() int64 {
	return d.minBet
}

// ValidateBet checks the bet amount and choice parameter.
func (d *DiceGame) ValidateBet(bet int64, params map[string]any) error {
	if bet <= 0 {
		return ErrInvalidBet
	}
	if bet < d.minBet {
		return fmt.Errorf("%w: minimum is %d", ErrBetBelowMin, d.minBet)
	}
	if _, err := extractChoice(params); err != nil {
		return err
	}
	return nil
}

// Play rolls one die and resolves the guess. The payout is the net result:
// +bet on a win, -bet on a loss.
func (d *DiceGame) Play(ctx context.Context, userID int64, bet int64, params map[string]any) (*game.Result, error) {
	if err := d.ValidateBet(bet, params); err != nil {
		return nil, err
	}

	choice, err := extractChoice(params)
	if err != nil {
		return nil, err
	}

	value := d.rng.Intn(6) + 1

	payout := -bet
	outcome := fmt.Sprintf("🎲 Выпало: %d - проигрыш %d ⭐", value, bet)
	if choice.Wins(value) {
		payout = bet
		outcome = fmt.Sprintf("🎲 Выпало: %d - выигрыш %d ⭐", value, bet*2)
	}

	return &game.Result{
		Payout:  payout,
		Outcome: outcome,
		Details: map[string]any{
			"value":  value,
			"choice": string(choice),
			"bet":    bet,
		},
	}, nil
}

func extractChoice(params map[string]any) (Choice, error) {
	if params == nil {
		return "", ErrMissingChoice
	}
	v, ok := params["choice"]
	if !ok {
		return "", ErrMissingChoice
	}
	switch c := v.(type) {
	case Choice:
		return c, nil
	case string:
		return ParseChoice(c)
	default:
		return "", ErrMissingChoice
	}
}
