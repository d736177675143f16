// Package bot provides the Telegram bot initialization and handler routing.
package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"telegram-casino-bot/internal/config"
	"telegram-casino-bot/internal/game"
	"telegram-casino-bot/internal/game/mines"
	"telegram-casino-bot/internal/game/roulette"
	"telegram-casino-bot/internal/handler"
	"telegram-casino-bot/internal/pkg/lock"
	"telegram-casino-bot/internal/service"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot            *tele.Bot
	cfg            *config.Config
	accountService *service.AccountService
	ledger         game.Ledger
	gameRegistry   *game.Registry
	minesEngine    *mines.Engine
	rouletteEngine *roulette.Engine
	userLock       *lock.UserLock

	// Handlers
	accountHandler  *handler.AccountHandler
	adminHandler    *handler.AdminHandler
	gameHandler     *handler.GameHandler
	minesHandler    *handler.MinesHandler
	rouletteHandler *handler.RouletteHandler
}

// Dependencies holds all the dependencies needed by the bot handlers.
type Dependencies struct {
	Config         *config.Config
	AccountService *service.AccountService
	Ledger         game.Ledger
	GameRegistry   *game.Registry
	MinesEngine    *mines.Engine
	RouletteEngine *roulette.Engine
	UserLock       *lock.UserLock
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot:            teleBot,
		cfg:            deps.Config,
		accountService: deps.AccountService,
		ledger:         deps.Ledger,
		gameRegistry:   deps.GameRegistry,
		minesEngine:    deps.MinesEngine,
		rouletteEngine: deps.RouletteEngine,
		userLock:       deps.UserLock,
	}

	b.accountHandler = handler.NewAccountHandler(deps.AccountService, deps.GameRegistry)
	b.adminHandler = handler.NewAdminHandler(deps.AccountService)
	b.gameHandler = handler.NewGameHandler(deps.AccountService, deps.Ledger, deps.GameRegistry, deps.UserLock)
	b.minesHandler = handler.NewMinesHandler(deps.AccountService, deps.MinesEngine)
	b.rouletteHandler = handler.NewRouletteHandler(deps.AccountService, deps.RouletteEngine)

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(LoggingMiddleware())
	b.bot.Use(BanMiddleware(b.accountService))
}

// registerHandlers registers all command, text and callback handlers.
func (b *Bot) registerHandlers() {
	// Account handlers
	b.bot.Handle("/start", b.accountHandler.HandleStart)
	b.bot.Handle("/balance", b.accountHandler.HandleBalance)
	b.bot.Handle("/profile", b.accountHandler.HandleProfile)
	b.bot.Handle("/top", b.accountHandler.HandleTop)
	b.bot.Handle("/promo", b.accountHandler.HandlePromo)

	// Admin handlers (with admin middleware)
	adminGroup := b.bot.Group()
	adminGroup.Use(AdminMiddleware(b.cfg))
	adminGroup.Handle("/addbalance", b.adminHandler.HandleAddBalance)
	adminGroup.Handle("/setbalance", b.adminHandler.HandleSetBalance)
	adminGroup.Handle("/ban", b.adminHandler.HandleBan)
	adminGroup.Handle("/unban", b.adminHandler.HandleUnban)
	adminGroup.Handle("/createpromo", b.adminHandler.HandleCreatePromo)

	// Game commands live in free text, not slash commands
	b.bot.Handle(tele.OnText, b.handleText)

	// Mine-field board buttons
	b.bot.Handle(tele.OnCallback, b.handleCallback)
}

// Text command prefixes for the word-routed games. The color game triggers
// only on the masculine first-token forms; the neuter "красное"/"черное" are
// roulette outside bets, so "100 красное" must fall through to the roulette
// grammar.
var (
	dicePrefixes  = []string{"кубик", "кости", "кость", "dice"}
	minesPrefixes = []string{"мины", "мина", "mines"}
	colorPrefixes = []string{"красный", "черный", "чёрный", "ред", "блек", "red", "black"}
)

type textRoute int

const (
	routeNone textRoute = iota
	routeDice
	routeMines
	routeColors
	routeRoulette
)

// resolveTextRoute classifies a normalized message by its first word.
// Everything unclaimed goes to the roulette grammar, which reports whether it
// consumed the message.
func resolveTextRoute(text string) textRoute {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return routeNone
	}

	first := fields[0]
	switch {
	case containsString(dicePrefixes, first):
		return routeDice
	case containsString(minesPrefixes, first):
		return routeMines
	case containsString(colorPrefixes, first):
		return routeColors
	}
	return routeRoulette
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// handleText routes free-text game commands.
func (b *Bot) handleText(c tele.Context) error {
	text := strings.ToLower(strings.TrimSpace(c.Text()))

	switch resolveTextRoute(text) {
	case routeDice:
		return b.gameHandler.HandleDiceText(c)
	case routeMines:
		return b.minesHandler.HandleStart(c)
	case routeColors:
		return b.gameHandler.HandleColorsText(c)
	case routeRoulette:
		handled, err := b.rouletteHandler.HandleText(c)
		if handled {
			return err
		}
	}
	return nil
}

// handleCallback routes inline keyboard callbacks.
func (b *Bot) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}

	data := strings.TrimPrefix(callback.Data, "\f")
	if strings.HasPrefix(data, mines.CallbackPrefix) {
		return b.minesHandler.HandleCallback(c)
	}

	log.Debug().Str("data", data).Msg("Unrouted callback")
	return nil
}

// Start starts the bot polling.
func (b *Bot) Start() {
	log.Info().Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}

// GetBot returns the underlying telebot instance.
func (b *Bot) GetBot() *tele.Bot {
	return b.bot
}
