// Package bot runs the Telegram entry point that opens the shift-swap mini app.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"shiftswap/internal/middleware"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// API is the subset of *tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
}

type Config struct {
	MiniAppURL  string
	AdminChatID int64
}

type Bot struct {
	api API
	cfg Config
}

func New(api API, cfg Config) *Bot {
	return &Bot{api: api, cfg: cfg}
}

const (
	startText = "👋 Welcome to the shift exchange!\n\n" +
		"Here you can:\n" +
		"• 📤 Offer one of your shifts\n" +
		"• 📋 Browse shifts others are giving away\n" +
		"• 🔔 Track requests on your shifts\n\n" +
		"Tap the button below to get started."

	openAppLabel = "🔄 Open shift exchange"

	helpText = "📚 <b>Help</b>\n\n" +
		"<b>How to use:</b>\n" +
		"1. Open the app\n" +
		"2. Sign in with your LDAP login\n" +
		"3. Post your shift or take an available one\n\n" +
		"<b>Shift types:</b>\n" +
		"🌅 <b>Day:</b> 06:00-18:00\n" +
		"🌙 <b>Night:</b> 18:00-06:00\n" +
		"⏰ <b>Hours:</b> custom window\n\n" +
		"Questions? Contact the administrator."

	unknownText = "Unknown command. Use /help to see available commands."
)

// Run consumes updates until ctx is cancelled or the channel closes.
func (b *Bot) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	if b.cfg.AdminChatID != 0 {
		if _, err := b.api.Send(tgbotapi.NewMessage(b.cfg.AdminChatID, "Shift exchange bot started")); err != nil {
			middleware.Logger.Warn("failed to notify admin chat", slog.String("error", err.Error()))
		}
	}

	middleware.Logger.Info("bot started")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			if err := b.HandleMessage(update.Message); err != nil {
				middleware.Logger.Error("failed to handle message",
					slog.Int64("chat_id", update.Message.Chat.ID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// HandleMessage answers a single incoming message. Plain text is ignored.
func (b *Bot) HandleMessage(msg *tgbotapi.Message) error {
	if msg == nil || msg.Chat == nil || !msg.IsCommand() {
		return nil
	}

	switch msg.Command() {
	case "start":
		return b.sendStart(msg.Chat.ID)
	case "help":
		reply := tgbotapi.NewMessage(msg.Chat.ID, helpText)
		reply.ParseMode = tgbotapi.ModeHTML
		_, err := b.api.Send(reply)
		return err
	default:
		_, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, unknownText))
		return err
	}
}

type webAppInfo struct {
	URL string `json:"url"`
}

type webAppButton struct {
	Text   string     `json:"text"`
	WebApp webAppInfo `json:"web_app"`
}

type webAppKeyboard struct {
	InlineKeyboard [][]webAppButton `json:"inline_keyboard"`
}

// sendStart posts the welcome text with a button launching the mini app.
// The pinned client predates web_app buttons, so the request is built by hand.
func (b *Bot) sendStart(chatID int64) error {
	url := strings.TrimSpace(b.cfg.MiniAppURL)
	if url == "" {
		_, err := b.api.Send(tgbotapi.NewMessage(chatID, startText))
		return err
	}

	params := tgbotapi.Params{}
	params.AddNonZero64("chat_id", chatID)
	params.AddNonEmpty("text", startText)
	if err := params.AddInterface("reply_markup", webAppKeyboard{
		InlineKeyboard: [][]webAppButton{{{Text: openAppLabel, WebApp: webAppInfo{URL: url}}}},
	}); err != nil {
		return fmt.Errorf("encode keyboard: %w", err)
	}

	resp, err := b.api.MakeRequest("sendMessage", params)
	if err != nil {
		return err
	}
	if !resp.Ok {
		return fmt.Errorf("sendMessage failed: %s", resp.Description)
	}
	return nil
}
