package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/mintcall/relaybot/relaybot"
	"github.com/mintcall/relaybot/relaybot/database"
	"github.com/mintcall/relaybot/relaybot/logger"
)

// Creates or upgrades the reminders schema without starting the bot.
func main() {
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	slog.SetDefault(slog.New(logger.NewHandler(logger.Options{Level: slog.LevelDebug})))

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env", slog.Any("error", err))
	}

	cfg, err := relaybot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err = db.InitializeSchema(ctx); err != nil {
		slog.Error("Migration failed", slog.Any("error", err))
		db.Close()
		os.Exit(1)
	}

	slog.Info("Migration completed successfully!")
}
