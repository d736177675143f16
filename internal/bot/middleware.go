// Package bot provides middleware for the Telegram bot.
package bot

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"telegram-casino-bot/internal/config"
	"telegram-casino-bot/internal/repository"
	"telegram-casino-bot/internal/service"
)

// BanMiddleware silently drops updates from banned users.
func BanMiddleware(accountService *service.AccountService) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return nil
			}

			user, err := accountService.GetUser(context.Background(), sender.ID)
			if err != nil {
				// Unknown users are not banned; let handlers register them.
				if errors.Is(err, repository.ErrUserNotFound) {
					return next(c)
				}
				log.Warn().Err(err).Int64("user_id", sender.ID).Msg("Ban check failed")
				return next(c)
			}
			if user.Banned {
				log.Debug().Int64("user_id", sender.ID).Msg("Ignoring banned user")
				return nil
			}

			return next(c)
		}
	}
}

// AdminMiddleware creates a middleware that checks if the user is an admin.
func AdminMiddleware(cfg *config.Config) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return nil
			}

			if !cfg.IsAdmin(sender.ID) {
				log.Warn().
					Int64("user_id", sender.ID).
					Str("command", c.Text()).
					Msg("Non-admin attempted admin command")
				return c.Reply("❌ Недостаточно прав")
			}

			return next(c)
		}
	}
}

// LoggingMiddleware creates a middleware that logs all incoming messages.
func LoggingMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			chat := c.Chat()

			logEvent := log.Debug()
			if sender != nil {
				logEvent = logEvent.
					Int64("user_id", sender.ID).
					Str("username", sender.Username)
			}
			if chat != nil {
				logEvent = logEvent.
					Int64("chat_id", chat.ID).
					Str("chat_type", string(chat.Type))
			}
			logEvent.
				Str("text", c.Text()).
				Msg("Received message")

			return next(c)
		}
	}
}

// RecoveryMiddleware creates a middleware that recovers from panics.
func RecoveryMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Interface("panic", r).
						Msg("Recovered from panic in handler")
					_ = c.Reply("❌ Произошла внутренняя ошибка. Попробуйте позже.")
				}
			}()
			return next(c)
		}
	}
}
