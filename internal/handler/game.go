// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"telegram-casino-bot/internal/game"
	"telegram-casino-bot/internal/game/colors"
	"telegram-casino-bot/internal/game/dice"
	"telegram-casino-bot/internal/model"
	"telegram-casino-bot/internal/pkg/lock"
	"telegram-casino-bot/internal/service"
)

// GameHandler handles the instant games (dice, colors) and routes free-text
// game commands.
type GameHandler struct {
	accountService *service.AccountService
	ledger         game.Ledger
	registry       *game.Registry
	userLock       *lock.UserLock
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(
	accountService *service.AccountService,
	ledger game.Ledger,
	registry *game.Registry,
	userLock *lock.UserLock,
) *GameHandler {
	return &GameHandler{
		accountService: accountService,
		ledger:         ledger,
		registry:       registry,
		userLock:       userLock,
	}
}

// HandleDiceText handles "кубик <amount> <choice>" style messages.
func (h *GameHandler) HandleDiceText(c tele.Context) error {
	parts := strings.Fields(strings.ToLower(c.Text()))
	if len(parts) < 3 {
		return c.Reply("❌ Формат: кубик [сумма] [больше/меньше/чет/нечет]")
	}

	bet, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || bet <= 0 {
		return c.Reply("❌ Сумма ставки должна быть числом")
	}

	if _, err := dice.ParseChoice(parts[2]); err != nil {
		return c.Reply("❌ Формат: кубик [сумма] [больше/меньше/чет/нечет]")
	}

	return h.playInstant(c, "dice", bet, map[string]any{"choice": parts[2]}, model.TxTypeDice)
}

// HandleColorsText handles "<красный|черный> <amount>" style messages. The
// router only sends messages whose first word is a color-game synonym.
func (h *GameHandler) HandleColorsText(c tele.Context) error {
	parts := strings.Fields(strings.ToLower(c.Text()))
	if len(parts) < 2 {
		return c.Reply("❌ Формат: красный/черный [сумма]")
	}

	if _, err := colors.ParseColor(parts[0]); err != nil {
		return c.Reply("❌ Укажите цвет: 🔴 красный или ⚫ черный")
	}

	bet, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || bet <= 0 {
		return c.Reply("❌ Сумма ставки должна быть числом")
	}

	return h.playInstant(c, "colors", bet, map[string]any{"color": parts[0]}, model.TxTypeColors)
}

// playInstant runs a registered single-shot game: debit the wager, draw the
// outcome, credit any winnings, all under the user's lock.
func (h *GameHandler) playInstant(c tele.Context, command string, bet int64, params map[string]any, txType string) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	g, ok := h.registry.Get(command)
	if !ok {
		return c.Reply("❌ Игра недоступна")
	}

	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}
	if _, _, err := h.accountService.EnsureUser(ctx, sender.ID, username); err != nil {
		return c.Reply("❌ Произошла ошибка. Попробуйте еще раз.")
	}

	if err := g.ValidateBet(bet, params); err != nil {
		return c.Reply(fmt.Sprintf("❌ Минимальная ставка - %d⭐", g.MinBet()))
	}

	var result *game.Result
	err := h.userLock.WithLock(sender.ID, func() error {
		balance, err := h.ledger.Balance(ctx, sender.ID)
		if err != nil {
			return err
		}
		if bet > balance {
			return fmt.Errorf("insufficient balance: have %d, want %d", balance, bet)
		}

		// Debit before any randomness is drawn.
		if err := h.ledger.Debit(ctx, sender.ID, bet, txType); err != nil {
			return err
		}

		result, err = g.Play(ctx, sender.ID, bet, params)
		if err != nil {
			// No outcome was drawn; return the wager.
			if rerr := h.ledger.Credit(ctx, sender.ID, bet, txType); rerr != nil {
				log.Error().Err(rerr).Int64("user_id", sender.ID).Msg("Failed to refund wager")
			}
			return err
		}

		if result.Payout > 0 {
			// Wager already debited, so the credit is stake plus winnings.
			if err := h.ledger.Credit(ctx, sender.ID, bet+result.Payout, txType); err != nil {
				log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to credit winnings")
			}
		}
		if err := h.ledger.IncrementGames(ctx, sender.ID); err != nil {
			log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to increment game counter")
		}
		return nil
	})
	if err != nil {
		return c.Reply("❌ Недостаточно средств или произошла ошибка")
	}

	// Presentation only; the outcome is already settled.
	animMsg, _ := c.Bot().Send(c.Chat(), "🎰 Крутим...")
	time.Sleep(2 * time.Second)
	if animMsg != nil {
		_ = c.Bot().Delete(animMsg)
	}

	newBalance, _ := h.ledger.Balance(ctx, sender.ID)
	return c.Reply(fmt.Sprintf("%s • @%s\n%s\n💰 Баланс: %d ⭐", g.Name(), username, result.Outcome, newBalance))
}
