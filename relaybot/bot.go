package relaybot

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"

	"github.com/mintcall/relaybot/internal/domain/reminders"
	"github.com/mintcall/relaybot/relaybot/database"
	"github.com/mintcall/relaybot/relaybot/database/repositories"
	"github.com/mintcall/relaybot/relaybot/services"
	"github.com/mintcall/relaybot/relaybot/utils"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
		Processes: utils.NewBackgroundProcessManager(),
	}
}

type Bot struct {
	Cfg                Config
	Client             bot.Client
	Paginator          *paginator.Manager
	Version            string
	Commit             string
	DB                 *database.DB
	ReminderRepository repositories.ReminderRepository
	Reminders          *reminders.Service
	Scheduler          *reminders.Scheduler
	Fragments          *services.FragmentCache
	Relay              *services.AnnouncementRelay
	Processes          *utils.BackgroundProcessManager
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(
			gateway.IntentGuilds,
			gateway.IntentGuildMessages,
			gateway.IntentMessageContent,
		)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds, cache.FlagChannels)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("Relay bot is now ready",
		slog.String("version", b.Version),
		slog.String("commit", b.Commit),
		slog.String("origin_channel", b.Cfg.Bot.OriginChannel.String()),
		slog.Int("destinations", len(b.Cfg.Bot.DestinationChannels)))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithWatchingActivity("upcoming mints"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}
}
