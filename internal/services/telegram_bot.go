package services

import (
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"cipherhaven/internal/models"
)

// TelegramNotifier posts intake notices to the admin chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

func NewTelegramNotifier(botToken string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	logger.Info("[tg] authorized", zap.String("bot", bot.Self.UserName))
	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}, nil
}

func (t *TelegramNotifier) NotifyIncident(report models.IncidentReport) error {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(t.chatID, IncidentNotice(report))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram sendMessage failed: %w", err)
	}
	t.logger.Debug("[tg][send] incident notice sent", zap.Int64("chat_id", t.chatID))
	return nil
}

// IncidentNotice omits the situation text; staff read it from the report itself.
func IncidentNotice(r models.IncidentReport) string {
	var b strings.Builder
	b.WriteString("<b>New incident report</b>\n")
	fmt.Fprintf(&b, "From: %s\n", html.EscapeString(r.Name))
	fmt.Fprintf(&b, "Frequency: %s\n", html.EscapeString(r.Frequency))
	fmt.Fprintf(&b, "Visible injuries: %s\n", html.EscapeString(r.VisibleInjuries))
	fmt.Fprintf(&b, "Contact via: %s", html.EscapeString(strings.Join(r.PreferredContact, ", ")))
	if r.WantsContact(models.ContactPhone) && r.Phone != "" {
		fmt.Fprintf(&b, " (%s)", html.EscapeString(r.Phone))
	}
	return b.String()
}
