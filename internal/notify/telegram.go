package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/vistara-fest/backend/pkg/queue"
)

// Alerter tells the organisers about new registrations.
type Alerter interface {
	NewRegistration(ctx context.Context, p queue.RegistrationPayload) error
}

// NewAlerter returns a Telegram alerter, or a logging one when the bot is not configured.
func NewAlerter(token string, chatID int64, logger *zap.Logger) (Alerter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if token == "" || chatID == 0 {
		logger.Info("telegram alerts disabled")
		return &logAlerter{logger: logger}, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	logger.Info("telegram alerts enabled", zap.String("bot", bot.Self.UserName))
	return &telegramAlerter{bot: bot, chatID: chatID, logger: logger}, nil
}

type telegramAlerter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

func (t *telegramAlerter) NewRegistration(_ context.Context, p queue.RegistrationPayload) error {
	msg := tgbotapi.NewMessage(t.chatID, RegistrationAlertText(p))
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

type logAlerter struct {
	logger *zap.Logger
}

func (l *logAlerter) NewRegistration(_ context.Context, p queue.RegistrationPayload) error {
	l.logger.Info("new registration", zap.String("registration_id", p.RegistrationID), zap.String("event", p.EventName))
	return nil
}

// RegistrationAlertText is the plain-text alert posted to the organisers' chat.
func RegistrationAlertText(p queue.RegistrationPayload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New registration: %s\n", p.EventName)
	if p.ParticipationType == "Team" {
		fmt.Fprintf(&b, "Team: %s (%d members)\n", p.TeamName, p.TeamSize)
	} else {
		fmt.Fprintf(&b, "Name: %s\n", p.Name)
	}
	fmt.Fprintf(&b, "Email: %s\n", p.Email)
	if p.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", p.Phone)
	}
	fmt.Fprintf(&b, "College: %s, year %s\n", p.College, p.Year)
	fmt.Fprintf(&b, "Payment proof: %s\n", p.PaymentProofURL)
	b.WriteString("Status: pending verification")
	return b.String()
}
