package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v3"

	"telegram-casino-bot/internal/repository"
	"telegram-casino-bot/internal/service"
)

// AdminHandler serves balance and moderation commands restricted to admins.
type AdminHandler struct {
	accountService *service.AccountService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(accountService *service.AccountService) *AdminHandler {
	return &AdminHandler{accountService: accountService}
}

// HandleAddBalance handles "/addbalance <user_id> <amount>". Negative amounts
// deduct.
func (h *AdminHandler) HandleAddBalance(c tele.Context) error {
	userID, amount, ok := parseIDAmount(c.Args())
	if !ok {
		return c.Reply("📝 Использование: /addbalance <id> <сумма>")
	}

	user, err := h.accountService.AdminAdjust(context.Background(), userID, amount)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.Reply("❌ Пользователь не найден")
		}
		return c.Reply("❌ Произошла ошибка. Попробуйте еще раз.")
	}
	return c.Reply(fmt.Sprintf("✅ Баланс пользователя %d изменен на %d⭐\n🏦 Новый баланс: %d⭐", userID, amount, user.Balance))
}

// HandleSetBalance handles "/setbalance <user_id> <amount>".
func (h *AdminHandler) HandleSetBalance(c tele.Context) error {
	userID, amount, ok := parseIDAmount(c.Args())
	if !ok || amount < 0 {
		return c.Reply("📝 Использование: /setbalance <id> <сумма>")
	}

	user, err := h.accountService.AdminSet(context.Background(), userID, amount)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.Reply("❌ Пользователь не найден")
		}
		return c.Reply("❌ Произошла ошибка. Попробуйте еще раз.")
	}
	return c.Reply(fmt.Sprintf("✅ Баланс пользователя %d установлен: %d⭐", userID, user.Balance))
}

// HandleBan handles "/ban <user_id>".
func (h *AdminHandler) HandleBan(c tele.Context) error {
	return h.setBanned(c, true)
}

// HandleUnban handles "/unban <user_id>".
func (h *AdminHandler) HandleUnban(c tele.Context) error {
	return h.setBanned(c, false)
}

func (h *AdminHandler) setBanned(c tele.Context, banned bool) error {
	args := c.Args()
	if len(args) != 1 {
		if banned {
			return c.Reply("📝 Использование: /ban <id>")
		}
		return c.Reply("📝 Использование: /unban <id>")
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Reply("❌ Неверный ID пользователя")
	}

	if err := h.accountService.SetBanned(context.Background(), userID, banned); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.Reply("❌ Пользователь не найден")
		}
		return c.Reply("❌ Произошла ошибка. Попробуйте еще раз.")
	}
	if banned {
		return c.Reply(fmt.Sprintf("🚫 Пользователь %d заблокирован", userID))
	}
	return c.Reply(fmt.Sprintf("✅ Пользователь %d разблокирован", userID))
}

// HandleCreatePromo handles "/createpromo <code> <reward> <max_activations>".
func (h *AdminHandler) HandleCreatePromo(c tele.Context) error {
	args := c.Args()
	if len(args) != 3 {
		return c.Reply("📝 Использование: /createpromo <код> <награда> <активаций>")
	}
	reward, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || reward <= 0 {
		return c.Reply("❌ Неверная сумма награды")
	}
	maxActivations, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil || maxActivations <= 0 {
		return c.Reply("❌ Неверное число активаций")
	}

	promo, err := h.accountService.CreatePromo(context.Background(), args[0], reward, maxActivations)
	if err != nil {
		if errors.Is(err, service.ErrEmptyPromoCode) {
			return c.Reply("❌ Код не может быть пустым")
		}
		return c.Reply("❌ Произошла ошибка. Попробуйте еще раз.")
	}
	return c.Reply(fmt.Sprintf("✅ Промокод создан\n\n├ 🎟 Код: %s\n├ 💰 Награда: %d⭐\n└ 🔢 Активаций: %d", promo.Code, promo.Reward, promo.MaxActivations))
}

func parseIDAmount(args []string) (int64, int64, bool) {
	if len(args) != 2 {
		return 0, 0, false
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return 0, 0, false
	}
	return userID, amount, true
}
