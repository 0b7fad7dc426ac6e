package bot

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	sent     []tgbotapi.MessageConfig
	requests []tgbotapi.Params
	sendErr  error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.sendErr
}

func (f *fakeAPI) MakeRequest(_ string, params tgbotapi.Params) (*tgbotapi.APIResponse, error) {
	f.requests = append(f.requests, params)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func command(chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(text)},
		},
	}
}

func TestHandleMessage_StartSendsWebAppButton(t *testing.T) {
	api := &fakeAPI{}
	b := New(api, Config{MiniAppURL: "https://shifts.example.com/app"})

	require.NoError(t, b.HandleMessage(command(42, "/start")))
	require.Len(t, api.requests, 1)
	assert.Empty(t, api.sent)

	params := api.requests[0]
	assert.Equal(t, "42", params["chat_id"])
	assert.Contains(t, params["text"], "Welcome")

	var markup webAppKeyboard
	require.NoError(t, json.Unmarshal([]byte(params["reply_markup"]), &markup))
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 1)
	assert.Equal(t, "https://shifts.example.com/app", markup.InlineKeyboard[0][0].WebApp.URL)
}

func TestHandleMessage_StartWithoutMiniApp(t *testing.T) {
	api := &fakeAPI{}
	b := New(api, Config{})

	require.NoError(t, b.HandleMessage(command(42, "/start")))
	assert.Empty(t, api.requests)
	require.Len(t, api.sent, 1)
	assert.Equal(t, startText, api.sent[0].Text)
}

func TestHandleMessage_HelpListsShiftTypes(t *testing.T) {
	api := &fakeAPI{}
	b := New(api, Config{})

	require.NoError(t, b.HandleMessage(command(7, "/help")))
	require.Len(t, api.sent, 1)
	msg := api.sent[0]
	assert.Equal(t, int64(7), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "06:00-18:00")
	assert.Contains(t, msg.Text, "18:00-06:00")
	assert.Contains(t, msg.Text, "custom window")
}

func TestHandleMessage_UnknownAndPlainText(t *testing.T) {
	api := &fakeAPI{}
	b := New(api, Config{})

	require.NoError(t, b.HandleMessage(command(7, "/shifts")))
	require.Len(t, api.sent, 1)
	assert.Equal(t, unknownText, api.sent[0].Text)

	require.NoError(t, b.HandleMessage(&tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}, Text: "hello"}))
	require.NoError(t, b.HandleMessage(nil))
	assert.Len(t, api.sent, 1)
}

func TestRun_StopsWhenChannelCloses(t *testing.T) {
	api := &fakeAPI{}
	b := New(api, Config{AdminChatID: 99})

	updates := make(chan tgbotapi.Update, 3)
	updates <- tgbotapi.Update{Message: command(1, "/help")}
	updates <- tgbotapi.Update{}
	updates <- tgbotapi.Update{Message: command(2, "/help")}
	close(updates)

	require.NoError(t, b.Run(context.Background(), updates))
	require.Len(t, api.sent, 3)
	assert.Equal(t, int64(99), api.sent[0].ChatID)
	assert.Equal(t, int64(1), api.sent[1].ChatID)
	assert.Equal(t, int64(2), api.sent[2].ChatID)
}

func TestRun_StopsOnCancel(t *testing.T) {
	api := &fakeAPI{sendErr: errors.New("telegram down")}
	b := New(api, Config{AdminChatID: 99})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := b.Run(ctx, make(chan tgbotapi.Update))
	assert.ErrorIs(t, err, context.Canceled)
}
