package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"telegram-casino-bot/internal/game/roulette"
	"telegram-casino-bot/internal/game/session"
	"telegram-casino-bot/internal/service"
)

const historyDisplayCount = 20

// RouletteHandler routes the free-text roulette commands: bets in the form
// "<amount> <bet>", plus go/log/cancel.
type RouletteHandler struct {
	accountService *service.AccountService
	engine         *roulette.Engine
}

// NewRouletteHandler creates a new RouletteHandler.
func NewRouletteHandler(accountService *service.AccountService, engine *roulette.Engine) *RouletteHandler {
	return &RouletteHandler{
		accountService: accountService,
		engine:         engine,
	}
}

// HandleText processes a roulette-related message. Returns (true, err) when
// the message was consumed by the roulette game.
func (h *RouletteHandler) HandleText(c tele.Context) (bool, error) {
	sender := c.Sender()
	if sender == nil {
		return false, nil
	}

	text := strings.ToLower(strings.TrimSpace(c.Text()))

	switch text {
	case "го", "go":
		return true, h.handleSpin(c)
	case "лог", "log":
		return true, h.handleHistory(c)
	case "отмена", "стоп", "cancel", "stop":
		return true, h.handleCancel(c)
	}

	// Bet format: "<amount> <bet specifier>".
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return false, nil
	}
	amount, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return false, nil
	}

	return true, h.handleBet(c, amount, strings.Join(parts[1:], " "))
}

func (h *RouletteHandler) handleBet(c tele.Context, amount int64, spec string) error {
	ctx := context.Background()
	sender := c.Sender()

	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}
	if _, _, err := h.accountService.EnsureUser(ctx, sender.ID, username); err != nil {
		return c.Reply("❌ Произошла ошибка. Попробуйте еще раз.")
	}

	ack, err := h.engine.PlaceBet(ctx, sender.ID, amount, spec)
	if err != nil {
		switch {
		case errors.Is(err, roulette.ErrInsufficientFunds):
			return c.Reply(fmt.Sprintf("❌ Минимальный баланс для игры - %d⭐", h.engine.MinBet()))
		case errors.Is(err, roulette.ErrBetBelowMinimum):
			return c.Reply(fmt.Sprintf("❌ Минимальная ставка - %d⭐", h.engine.MinBet()))
		case errors.Is(err, roulette.ErrInsufficientVirtualBalance):
			return c.Reply("❌ Недостаточно средств!")
		case errors.Is(err, roulette.ErrBetLimit):
			return c.Reply("❌ Достигнут лимит ставок за раунд")
		case errors.Is(err, roulette.ErrRoundSpinning):
			return c.Reply("❌ Нельзя сделать ставку во время вращения рулетки")
		case errors.Is(err, roulette.ErrUnrecognizedBet):
			return c.Reply("❌ Неизвестный тип ставки!")
		default:
			return c.Reply("❌ Произошла ошибка. Попробуйте еще раз.")
		}
	}

	return c.Reply(fmt.Sprintf("✅ Ставка принята: %d⭐ на %s", ack.Bet.Amount, ack.Bet.Name))
}

func (h *RouletteHandler) handleSpin(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()

	// The outcome is drawn and settled inside Spin, before any animation
	// frame below; a crash mid-animation cannot desynchronize the result.
	result, err := h.engine.Spin(ctx, sender.ID)
	if err != nil {
		var cooldownErr *roulette.CooldownError
		switch {
		case errors.As(err, &cooldownErr):
			return c.Reply(fmt.Sprintf("⏳ Подождите %d секунд перед запуском!", int(cooldownErr.Remaining.Seconds()+0.999)))
		case errors.Is(err, session.ErrNoSession):
			return c.Reply("❌ Сначала сделайте ставку!\nПример: 100 красное")
		case errors.Is(err, roulette.ErrNoBets):
			return c.Reply("❌ Сначала сделайте хотя бы одну ставку!")
		case errors.Is(err, roulette.ErrRoundSpinning):
			return c.Reply("❌ Рулетка уже вращается!")
		default:
			return c.Reply("❌ Произошла ошибка. Попробуйте еще раз.")
		}
	}

	// Spin animation is presentation only.
	animMsg, sendErr := c.Bot().Send(c.Chat(), "🎰 Р У Л Е Т К А • Вращается...")
	if sendErr == nil {
		for i := 1; i <= 3; i++ {
			time.Sleep(700 * time.Millisecond)
			animMsg, _ = c.Bot().Edit(animMsg, fmt.Sprintf("🎰 Р У Л Е Т К А • Вращается%s", strings.Repeat("!", i)))
		}
		time.Sleep(time.Second)
	}

	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}
	newBalance, _ := h.accountService.GetBalance(ctx, sender.ID)

	sign := ""
	if result.Net > 0 {
		sign = "+"
	}
	text := fmt.Sprintf(
		"🎰 Р У Л Е Т К А • @%s\n\n📊 ИТОГ:\n├ 🎲 Выпало: %d %s\n├ 📉 Чистый результат: %s%d⭐\n├ 💰 Всего выиграно: %d⭐\n├ 💸 Всего ставок: %d⭐\n└ 🏦 Баланс: %d⭐",
		username, result.Number, result.Color.Emoji(), sign, result.Net, result.TotalPayout, result.TotalBet, newBalance,
	)

	// Final render is derived from the settled result value, so re-sending
	// it is always safe.
	if animMsg != nil {
		if _, err := c.Bot().Edit(animMsg, text); err == nil {
			return nil
		}
	}
	return c.Reply(text)
}

func (h *RouletteHandler) handleHistory(c tele.Context) error {
	entries := h.engine.History(historyDisplayCount)
	if len(entries) == 0 {
		return c.Reply("📊 История выпавших чисел:\n\nПока нет данных")
	}

	var sb strings.Builder
	sb.WriteString("📊 Лог:\n\n")
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%s %d\n", e.Color.Emoji(), e.Number))
	}
	return c.Reply(sb.String())
}

func (h *RouletteHandler) handleCancel(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()

	total, err := h.engine.Cancel(ctx, sender.ID)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoSession):
			return c.Reply("❌ Нет активной игры для отмены")
		case errors.Is(err, roulette.ErrRoundSpinning):
			return c.Reply("❌ Рулетка уже вращается!")
		default:
			return c.Reply("❌ Произошла ошибка. Попробуйте еще раз.")
		}
	}

	if total > 0 {
		return c.Reply(fmt.Sprintf("❌ ИГРА ОТМЕНЕНА\n\nВозвращено: %d ⭐", total))
	}
	return c.Reply("✅ Игра отменена\n\nСтавок не было сделано.")
}
