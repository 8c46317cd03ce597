package notify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Spok95/pool-tracker/internal/observability"
)

// Sender — часть *tgbotapi.BotAPI, которая нам нужна.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Telegram struct {
	bot     Sender
	chatIDs []int64
	log     *zap.Logger
}

func NewTelegram(token string, chatIDs []int64, log *zap.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	log.Info("telegram notifier ready", zap.String("bot", bot.Self.UserName), zap.Int("chats", len(chatIDs)))
	return NewTelegramWithSender(bot, chatIDs, log), nil
}

func NewTelegramWithSender(s Sender, chatIDs []int64, log *zap.Logger) *Telegram {
	return &Telegram{bot: s, chatIDs: chatIDs, log: log}
}

// Notify шлёт текст во все чаты; ошибка одного чата не мешает остальным.
func (t *Telegram) Notify(ctx context.Context, text string) error {
	var errs []error
	for _, chatID := range t.chatIDs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := t.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			if isSystemErr(err) {
				observability.CaptureErr(err)
			}
			t.log.Warn("telegram send failed", zap.Int64("chat_id", chatID), zap.Error(err))
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
		}
	}
	return errors.Join(errs...)
}

// Системными считаем 5xx, 429 и таймауты. Типичные 400-ки Telegram в Sentry не шлём.
func isSystemErr(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	// ответ без кода (например, html от прокси): смотрим на текст статуса
	s := strings.ToLower(err.Error())
	for _, marker := range []string{"timeout", "too many requests", "bad gateway", "service unavailable", "internal server error"} {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
