// Package bot is the Telegram admin bot: read-only fleet lookups for the configured admin.
package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"taxiservice/config"
	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/service"
)

// queryTimeout bounds the storage work done for a single update.
const queryTimeout = 10 * time.Second

// maxListed keeps replies well under Telegram's 4096 character limit.
const maxListed = 40

const (
	btnManufacturers = "🏭 Manufacturers"
	btnCars          = "🚗 Cars"
	btnDrivers       = "👤 Drivers"
	btnStats         = "📊 Statistics"
)

var messages = map[string]string{
	"welcome":          "👋 Taxi service admin bot.\nUse /manufacturers, /cars or /drivers followed by an optional search term.",
	"no_entry":         "🚫 This bot is for the service administrator only.",
	"no_manufacturers": "📭 No manufacturers found.",
	"no_cars":          "📭 No cars found.",
	"no_drivers":       "📭 No drivers found.",
	"failed":           "⚠️ Something went wrong, check the server logs.",
	"stats":            "📊 STATISTICS\n\nManufacturers: %d\nCars: %d\nDrivers: %d",
}

type Bot struct {
	Bot     *tele.Bot
	Svc     service.IServiceManager
	Log     logger.ILogger
	AdminID int64

	// ctx lives until Stop or until the parent passed to New is cancelled.
	ctx    context.Context
	cancel context.CancelFunc
}

func New(ctx context.Context, cfg *config.Config, svc service.IServiceManager, log logger.ILogger) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.AdminBotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}
	bot := newBot(ctx, b, svc, log, cfg.AdminID)
	bot.registerHandlers()
	return bot, nil
}

func newBot(parent context.Context, b *tele.Bot, svc service.IServiceManager, log logger.ILogger, adminID int64) *Bot {
	ctx, cancel := context.WithCancel(parent)
	return &Bot{
		Bot:     b,
		Svc:     svc,
		Log:     log,
		AdminID: adminID,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// queryContext scopes one update's storage calls to the bot's lifetime.
func (b *Bot) queryContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(b.ctx, queryTimeout)
}

func (b *Bot) Start() {
	b.Log.Info("🤖 admin bot started", logger.String("username", b.Bot.Me.Username))
	b.Bot.Start()
}

// Stop cancels in-flight queries, then stops polling.
func (b *Bot) Stop() {
	b.cancel()
	b.Bot.Stop()
}

func (b *Bot) registerHandlers() {
	b.Bot.Use(b.adminOnly)

	b.Bot.Handle("/start", b.handleStart)
	b.Bot.Handle("/manufacturers", b.handleManufacturers)
	b.Bot.Handle("/cars", b.handleCars)
	b.Bot.Handle("/drivers", b.handleDrivers)
	b.Bot.Handle("/stats", b.handleStats)

	b.Bot.Handle(btnManufacturers, b.handleManufacturers)
	b.Bot.Handle(btnCars, b.handleCars)
	b.Bot.Handle(btnDrivers, b.handleDrivers)
	b.Bot.Handle(btnStats, b.handleStats)
}

func (b *Bot) isAdmin(senderID int64) bool {
	return b.AdminID != 0 && senderID == b.AdminID
}

func (b *Bot) adminOnly(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Sender() == nil || !b.isAdmin(c.Sender().ID) {
			if c.Sender() != nil {
				b.Log.Warning("admin bot: rejected sender", logger.Int64("sender_id", c.Sender().ID))
			}
			return c.Send(messages["no_entry"])
		}
		return next(c)
	}
}

func (b *Bot) handleStart(c tele.Context) error {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(
		menu.Row(menu.Text(btnManufacturers), menu.Text(btnCars)),
		menu.Row(menu.Text(btnDrivers), menu.Text(btnStats)),
	)
	return c.Send(messages["welcome"], menu)
}

// searchTerm is the command payload; menu buttons carry none.
func searchTerm(c tele.Context) string {
	if c.Message() == nil {
		return ""
	}
	return strings.TrimSpace(c.Message().Payload)
}

func (b *Bot) fail(c tele.Context, what string, err error) error {
	b.Log.Error("admin bot: "+what, logger.Error(err))
	return c.Send(messages["failed"])
}

func (b *Bot) handleManufacturers(c tele.Context) error {
	ctx, cancel := b.queryContext()
	defer cancel()

	list, err := b.Svc.Manufacturer().List(ctx, searchTerm(c))
	if err != nil {
		return b.fail(c, "list manufacturers", err)
	}
	return c.Send(formatManufacturers(list))
}

func (b *Bot) handleCars(c tele.Context) error {
	ctx, cancel := b.queryContext()
	defer cancel()

	list, err := b.Svc.Car().List(ctx, searchTerm(c))
	if err != nil {
		return b.fail(c, "list cars", err)
	}
	return c.Send(formatCars(list))
}

func (b *Bot) handleDrivers(c tele.Context) error {
	ctx, cancel := b.queryContext()
	defer cancel()

	list, err := b.Svc.Driver().List(ctx, searchTerm(c))
	if err != nil {
		return b.fail(c, "list drivers", err)
	}
	return c.Send(formatDrivers(list))
}

func (b *Bot) handleStats(c tele.Context) error {
	ctx, cancel := b.queryContext()
	defer cancel()

	manufacturers, err := b.Svc.Manufacturer().Count(ctx)
	if err != nil {
		return b.fail(c, "count manufacturers", err)
	}
	cars, err := b.Svc.Car().Count(ctx)
	if err != nil {
		return b.fail(c, "count cars", err)
	}
	drivers, err := b.Svc.Driver().Count(ctx)
	if err != nil {
		return b.fail(c, "count drivers", err)
	}
	return c.Send(fmt.Sprintf(messages["stats"], manufacturers, cars, drivers))
}

func formatList(lines []string, empty string) string {
	if len(lines) == 0 {
		return messages[empty]
	}
	var sb strings.Builder
	for i, line := range lines {
		if i == maxListed {
			fmt.Fprintf(&sb, "… and %d more", len(lines)-maxListed)
			break
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatManufacturers(list []*models.Manufacturer) string {
	lines := make([]string, 0, len(list))
	for _, m := range list {
		lines = append(lines, fmt.Sprintf("🏭 #%d %s (%s)", m.ID, m.Name, m.Country))
	}
	return formatList(lines, "no_manufacturers")
}

func formatCars(list []*models.Car) string {
	lines := make([]string, 0, len(list))
	for _, car := range list {
		line := fmt.Sprintf("🚗 #%d %s", car.ID, car.Model)
		if car.Manufacturer != nil {
			line += " | " + car.Manufacturer.Name
		}
		lines = append(lines, line)
	}
	return formatList(lines, "no_cars")
}

func formatDrivers(list []*models.Driver) string {
	lines := make([]string, 0, len(list))
	for _, d := range list {
		license := d.LicenseNumber
		if license == "" {
			license = "-"
		}
		lines = append(lines, fmt.Sprintf("👤 #%d %s\n🪪 %s", d.ID, d, license))
	}
	return formatList(lines, "no_drivers")
}
