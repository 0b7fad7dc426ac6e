// Command bot runs the Telegram bot that opens the shift exchange mini app.
package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"shiftswap/internal/bot"
	"shiftswap/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN is required")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}
	log.Printf("Authorized on account %s", api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := bot.New(api, bot.Config{
		MiniAppURL:  cfg.MiniAppURL,
		AdminChatID: cfg.AdminChatID,
	})

	err = b.Run(ctx, updates)
	api.StopReceivingUpdates()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Bot stopped: %v", err)
	}
	log.Println("Bot stopped")
}
