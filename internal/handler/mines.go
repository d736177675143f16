package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"telegram-casino-bot/internal/game/mines"
	"telegram-casino-bot/internal/game/session"
	"telegram-casino-bot/internal/service"
)

// MinesHandler handles the mine-field game: text command to start, inline
// button callbacks to open cells, cash out or cancel.
type MinesHandler struct {
	accountService *service.AccountService
	engine         *mines.Engine
}

// NewMinesHandler creates a new MinesHandler.
func NewMinesHandler(accountService *service.AccountService, engine *mines.Engine) *MinesHandler {
	return &MinesHandler{
		accountService: accountService,
		engine:         engine,
	}
}

// HandleStart handles "мины <amount>" messages.
func (h *MinesHandler) HandleStart(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	parts := strings.Fields(strings.ToLower(c.Text()))
	if len(parts) < 2 {
		return c.Reply("❌ Формат: мины [сумма]\nПример: мины 100")
	}
	wager, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || wager <= 0 {
		return c.Reply("❌ Сумма ставки должна быть числом")
	}

	username := sender.Username
	if username == "" {
		username = sender.FirstName
	}
	if _, _, err := h.accountService.EnsureUser(ctx, sender.ID, username); err != nil {
		return c.Reply("❌ Произошла ошибка. Попробуйте еще раз.")
	}

	view, err := h.engine.Create(ctx, sender.ID, wager)
	if err != nil {
		switch {
		case errors.Is(err, mines.ErrBetBelowMinimum):
			return c.Reply(fmt.Sprintf("❌ Минимальная ставка - %d⭐", h.engine.MinBet()))
		case errors.Is(err, mines.ErrInsufficientFunds):
			return c.Reply("❌ У вас недостаточно средств!")
		case errors.Is(err, session.ErrSessionActive):
			return c.Reply("❌ У вас уже есть активная игра в мины")
		default:
			return c.Reply("❌ Произошла ошибка. Попробуйте еще раз.")
		}
	}

	msg := fmt.Sprintf(
		"🎮 %s, вы начали игру Минное поле!\n\n💰 Ставка: %d ⭐\n📈 Множитель: x%.2f",
		username, view.Wager, view.Multiplier,
	)
	return c.Reply(msg, mines.BuildBoard(view, false))
}

// HandleCallback handles all mines_* inline button presses.
func (h *MinesHandler) HandleCallback(c tele.Context) error {
	callback := c.Callback()
	sender := c.Sender()
	if callback == nil || sender == nil {
		return nil
	}

	data := strings.TrimPrefix(callback.Data, "\f")
	action, x, y, ok := mines.DecodeCallback(data)
	if !ok {
		return c.Respond(&tele.CallbackResponse{Text: "❌ Неизвестное действие"})
	}

	switch {
	case mines.IsCancel(action):
		return h.handleCancel(c, sender.ID)
	case mines.IsCashOut(action):
		return h.handleCashOut(c, sender.ID)
	case mines.IsOpen(action):
		return h.handleOpen(c, sender.ID, x, y)
	}
	return c.Respond(&tele.CallbackResponse{})
}

func (h *MinesHandler) handleCancel(c tele.Context, userID int64) error {
	ctx := context.Background()

	refunded, err := h.engine.Cancel(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoSession):
			return c.Respond(&tele.CallbackResponse{Text: "❌ Игра не найдена или завершена", ShowAlert: true})
		case errors.Is(err, mines.ErrCancelUnavailable):
			return c.Respond(&tele.CallbackResponse{Text: "❌ Отмена недоступна после открытия ячейки", ShowAlert: true})
		default:
			return c.Respond(&tele.CallbackResponse{Text: "❌ Произошла ошибка", ShowAlert: true})
		}
	}

	_, _ = c.Bot().Edit(callbackMessage(c), fmt.Sprintf("✅ Игра отменена. Возвращено %d ⭐.", refunded))
	return c.Respond(&tele.CallbackResponse{})
}

func (h *MinesHandler) handleCashOut(c tele.Context, userID int64) error {
	ctx := context.Background()

	result, err := h.engine.CashOut(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoSession):
			return c.Respond(&tele.CallbackResponse{Text: "❌ Игра не найдена или завершена", ShowAlert: true})
		case errors.Is(err, mines.ErrNoProgress):
			return c.Respond(&tele.CallbackResponse{Text: "❌ Откройте хотя бы одну ячейку", ShowAlert: true})
		default:
			return c.Respond(&tele.CallbackResponse{Text: "❌ Произошла ошибка", ShowAlert: true})
		}
	}

	text := fmt.Sprintf(
		"💎 Игра завершена!\n\n🎉 Вы успешно забрали выигрыш!\n\n💰 Ставка: %d ⭐\n📈 Множитель: x%.2f\n🏆 Выигрыш: %d ⭐",
		result.Wager, result.Multiplier, result.Payout,
	)
	_, _ = c.Bot().Edit(callbackMessage(c), text)
	return c.Respond(&tele.CallbackResponse{})
}

func (h *MinesHandler) handleOpen(c tele.Context, userID int64, x, y int) error {
	ctx := context.Background()

	result, err := h.engine.Open(ctx, userID, x, y)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoSession):
			return c.Respond(&tele.CallbackResponse{Text: "❌ Игра не найдена или завершена", ShowAlert: true})
		case errors.Is(err, mines.ErrCellAlreadyOpen):
			// Non-fatal: acknowledge and leave the board as is.
			return c.Respond(&tele.CallbackResponse{Text: "❌ Эта ячейка уже открыта"})
		case errors.Is(err, mines.ErrCellOutOfRange):
			return c.Respond(&tele.CallbackResponse{Text: "❌ Неверная ячейка", ShowAlert: true})
		default:
			return c.Respond(&tele.CallbackResponse{Text: "❌ Произошла ошибка", ShowAlert: true})
		}
	}

	switch result.Outcome {
	case mines.OutcomeBust:
		text := "💥 Игра завершена!\n\n😔 Вы наткнулись на мину!\n\n💰 Ставка была проиграна."
		_, _ = c.Bot().Edit(callbackMessage(c), text, mines.BuildBoard(result.Final, true))
		return c.Respond(&tele.CallbackResponse{})

	case mines.OutcomeCleared:
		text := fmt.Sprintf(
			"🎮 Игра завершена!\n\n🎉 Все мины успешно обойдены!\n\n📈 Множитель: x%.2f\n🏆 Выигрыш: %d ⭐",
			result.Multiplier, result.Payout,
		)
		_, _ = c.Bot().Edit(callbackMessage(c), text, mines.BuildBoard(result.Final, true))
		return c.Respond(&tele.CallbackResponse{})

	default:
		view, err := h.engine.Snapshot(userID)
		if err != nil {
			return c.Respond(&tele.CallbackResponse{})
		}
		text := fmt.Sprintf(
			"🎮 Мины\n\n💰 Ставка: %d ⭐\n📈 Множитель: x%.2f\n💵 Выигрыш: %d ⭐",
			view.Wager, view.Multiplier, view.Potential,
		)
		_, _ = c.Bot().Edit(callbackMessage(c), text, mines.BuildBoard(view, false))
		return c.Respond(&tele.CallbackResponse{})
	}
}

// callbackMessage returns an editable reference to the message the callback
// originated from.
func callbackMessage(c tele.Context) *tele.Message {
	if cb := c.Callback(); cb != nil && cb.Message != nil {
		return cb.Message
	}
	return nil
}
