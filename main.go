package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/joho/godotenv"

	"github.com/mintcall/relaybot/internal/domain/reminders"
	"github.com/mintcall/relaybot/relaybot"
	"github.com/mintcall/relaybot/relaybot/commands"
	"github.com/mintcall/relaybot/relaybot/config"
	"github.com/mintcall/relaybot/relaybot/database"
	"github.com/mintcall/relaybot/relaybot/database/repositories"
	"github.com/mintcall/relaybot/relaybot/handlers"
	"github.com/mintcall/relaybot/relaybot/logger"
	"github.com/mintcall/relaybot/relaybot/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	envFile := flag.String("env", ".env", "optional .env file with overrides")
	flag.Parse()

	slog.SetDefault(slog.New(logger.NewHandler(logger.Options{Level: slog.LevelInfo})))

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load env file", slog.String("path", *envFile), slog.Any("error", err))
	}

	cfg, err := relaybot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.SetDefault(slog.New(logger.NewHandler(logger.Options{
		Level:     cfg.Log.Level,
		AddSource: cfg.Log.AddSource,
		NoColor:   cfg.Log.NoColor,
	})))

	slog.Info("Starting relay bot",
		slog.String("version", version),
		slog.String("commit", commit))

	dbStartTime := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.Any("error", err),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	if err = db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema", slog.Any("error", err))
		os.Exit(-1)
	}
	logger.LogSystem("Database ready", slog.Duration("took", time.Since(dbStartTime)))

	b := relaybot.New(*cfg, version, commit)
	b.DB = db
	b.ReminderRepository = repositories.NewReminderRepository(db.BunDB())

	schedulerCfg := cfg.Reminders.Scheduler()
	b.Reminders = reminders.NewService(b.ReminderRepository, schedulerCfg)

	if b.Fragments, err = services.NewFragmentCache(cfg.Reminders.CacheSize()); err != nil {
		slog.Error("Failed to create fragment cache", slog.Any("error", err))
		os.Exit(-1)
	}

	h := handler.New()
	h.Command("/version", commands.VersionHandler(b))
	h.Command("/reminders", handlers.WrapWithLogging("reminders", commands.RemindersHandler(b)))
	h.Component("/remind/{key}/{section}", handlers.WrapComponentWithLogging("remind", handlers.RemindHandler(b)))

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady), handlers.MessageHandler(b)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)))
		os.Exit(-1)
	}

	b.Relay = services.NewAnnouncementRelay(b.Client, cfg.Bot.DestinationChannels, b.Fragments)
	b.Scheduler = reminders.NewScheduler(b.ReminderRepository, services.NewReminderNotifier(b.Client.Rest()), schedulerCfg)

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err))
		}
	}

	gatewayCtx, gatewayCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gatewayCancel()
	if err = b.Client.OpenGateway(gatewayCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	b.Scheduler.Start(b.Processes)
	for _, p := range b.Processes.ListProcesses() {
		logger.LogSystem("Background process running",
			slog.String("name", p.Name),
			slog.String("description", p.Description))
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")

	if err = b.Processes.Shutdown(config.ShutdownTimeout); err != nil {
		logger.LogError("Background processes did not stop in time", err)
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer closeCancel()
	b.Client.Close(closeCtx)
}
