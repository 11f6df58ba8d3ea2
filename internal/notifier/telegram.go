package notifier

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/logger"
)

var log = logger.With("notifier")

// retryBase is the first backoff delay; it doubles on every attempt.
var retryBase = time.Second

// Telegram sends messages via the Telegram Bot API.
type Telegram struct {
	api    *tgbotapi.BotAPI
	ChatID int64
}

// NewTelegram connects to the Bot API with optional proxy support.
func NewTelegram(botToken string, chatID int64, proxyURL string) (*Telegram, error) {
	client := collector.NewHTTPClient(proxyURL, 60*time.Second)
	api, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("connect telegram: %w", err)
	}
	log.Infof("authorized on account %s", api.Self.UserName)
	return &Telegram{api: api, ChatID: chatID}, nil
}

// Send sends an HTML message to the configured chat.
func (t *Telegram) Send(text string) error {
	return t.sendTo(t.ChatID, text)
}

func (t *Telegram) sendTo(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendPhoto sends a PNG with an HTML caption to the configured chat.
func (t *Telegram) SendPhoto(name string, png []byte, caption string) error {
	photo := tgbotapi.NewPhoto(t.ChatID, tgbotapi.FileBytes{Name: name, Bytes: png})
	photo.Caption = caption
	photo.ParseMode = tgbotapi.ModeHTML
	if _, err := t.api.Send(photo); err != nil {
		return fmt.Errorf("send photo: %w", err)
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *Telegram) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	return retry(ctx, maxRetries, func() error { return t.Send(text) })
}

func retry(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := fn(); err != nil {
			lastErr = err
			if i == maxRetries {
				break
			}
			backoff := retryBase << uint(i)
			log.Warnf("telegram send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}

// CommandHandler is called when a user command is received. An empty reply
// sends nothing.
type CommandHandler func(ctx context.Context, command string) string

// StartPolling long-polls for commands and answers each in the chat it came
// from. Blocks until ctx is cancelled.
func (t *Telegram) StartPolling(ctx context.Context, handler CommandHandler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.api.GetUpdatesChan(u)
	defer t.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			log.Info("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			log.Infof("received command: %s", update.Message.Text)
			reply := handler(ctx, update.Message.Text)
			if reply == "" {
				continue
			}
			if err := t.sendTo(update.Message.Chat.ID, reply); err != nil {
				log.Errorf("send reply: %v", err)
			}
		}
	}
}
