package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v3"

	"telegram-casino-bot/internal/game"
	"telegram-casino-bot/internal/repository"
	"telegram-casino-bot/internal/service"
)

// AccountHandler serves profile and promo commands.
type AccountHandler struct {
	accountService *service.AccountService
	registry       *game.Registry
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *service.AccountService, registry *game.Registry) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		registry:       registry,
	}
}

// HandleStart greets the user and registers them on first contact.
func (h *AccountHandler) HandleStart(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()

	user, created, err := h.accountService.EnsureUser(ctx, sender.ID, senderName(sender))
	if err != nil {
		return c.Reply("❌ Произошла ошибка. Попробуйте еще раз.")
	}

	var sb strings.Builder
	if created {
		sb.WriteString("🎰 Добро пожаловать в казино!\n\n")
	} else {
		sb.WriteString("🎰 С возвращением!\n\n")
	}
	sb.WriteString(fmt.Sprintf("💰 Баланс: %d⭐\n\n", user.Balance))
	sb.WriteString("🎮 Доступные игры:\n")
	sb.WriteString("• мины <ставка> - минное поле\n")
	sb.WriteString("• <ставка> <тип> - рулетка (го для запуска)\n")
	for _, g := range h.registry.List() {
		sb.WriteString(fmt.Sprintf("• %s - %s\n", g.Command(), g.Description()))
	}
	sb.WriteString("\n")
	sb.WriteString("📋 Команды: /balance /profile /top /promo")

	return c.Reply(sb.String())
}

// HandleBalance replies with the current balance.
func (h *AccountHandler) HandleBalance(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()

	if _, _, err := h.accountService.EnsureUser(ctx, sender.ID, senderName(sender)); err != nil {
		return c.Reply("❌ Произошла ошибка. Попробуйте еще раз.")
	}
	balance, err := h.accountService.GetBalance(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Произошла ошибка. Попробуйте еще раз.")
	}
	return c.Reply(fmt.Sprintf("💰 Ваш баланс: %d⭐", balance))
}

// HandleProfile shows the user profile card.
func (h *AccountHandler) HandleProfile(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()

	user, _, err := h.accountService.EnsureUser(ctx, sender.ID, senderName(sender))
	if err != nil {
		return c.Reply("❌ Произошла ошибка. Попробуйте еще раз.")
	}

	net, err := h.accountService.GameNet(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Произошла ошибка. Попробуйте еще раз.")
	}

	text := fmt.Sprintf(
		"👤 Профиль\n\n├ 🆔 ID: %d\n├ 💰 Баланс: %d⭐\n├ 🎮 Игр сыграно: %d\n├ 📊 Итог в играх: %+d⭐\n└ 📅 Регистрация: %s",
		user.TelegramID, user.Balance, user.GamesPlayed, net, user.CreatedAt.Format("02.01.2006"),
	)
	return c.Reply(text)
}

// HandleTop shows the leaderboard by balance.
func (h *AccountHandler) HandleTop(c tele.Context) error {
	ctx := context.Background()

	users, err := h.accountService.GetTopUsers(ctx, 10)
	if err != nil {
		return c.Reply("❌ Произошла ошибка. Попробуйте еще раз.")
	}
	if len(users) == 0 {
		return c.Reply("🏆 Топ игроков пока пуст")
	}

	medals := []string{"🥇", "🥈", "🥉"}
	var sb strings.Builder
	sb.WriteString("🏆 Топ игроков:\n\n")
	for i, u := range users {
		prefix := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			prefix = medals[i]
		}
		name := u.Username
		if name == "" {
			name = fmt.Sprintf("id%d", u.TelegramID)
		}
		sb.WriteString(fmt.Sprintf("%s %s - %d⭐\n", prefix, name, u.Balance))
	}
	return c.Reply(sb.String())
}

// HandlePromo activates a promo code: "/promo <code>".
func (h *AccountHandler) HandlePromo(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()

	if _, _, err := h.accountService.EnsureUser(ctx, sender.ID, senderName(sender)); err != nil {
		return c.Reply("❌ Произошла ошибка. Попробуйте еще раз.")
	}

	args := c.Args()
	if len(args) != 1 {
		return c.Reply("📝 Использование: /promo <код>")
	}

	reward, err := h.accountService.ActivatePromo(ctx, sender.ID, args[0])
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPromoNotFound):
			return c.Reply("❌ Промокод не найден")
		case errors.Is(err, repository.ErrPromoExhausted):
			return c.Reply("❌ Промокод больше не действует")
		case errors.Is(err, repository.ErrPromoAlreadyActivated):
			return c.Reply("❌ Вы уже активировали этот промокод")
		case errors.Is(err, service.ErrEmptyPromoCode):
			return c.Reply("📝 Использование: /promo <код>")
		default:
			return c.Reply("❌ Произошла ошибка. Попробуйте еще раз.")
		}
	}

	balance, _ := h.accountService.GetBalance(ctx, sender.ID)
	return c.Reply(fmt.Sprintf("🎉 Промокод активирован!\n\n💰 Начислено: %d⭐\n🏦 Баланс: %d⭐", reward, balance))
}

func senderName(sender *tele.User) string {
	if sender.Username != "" {
		return sender.Username
	}
	return sender.FirstName
}
