package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier relays preformatted messages to a fixed operator
// channel. Delivery is fire-and-forget from the booking flow's point of
// view: callers never block a booking on it.
type TelegramNotifier struct {
	bot       *tgbotapi.BotAPI
	channelID int64
}

func NewTelegramNotifier(token string, channelID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram authorization failed: %w", err)
	}
	log.Printf("Telegram notifier authorized as %s", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, channelID: channelID}, nil
}

// Send forwards the message verbatim with HTML parse mode and returns
// the provider's message id.
func (n *TelegramNotifier) Send(message string) (int, error) {
	msg := tgbotapi.NewMessage(n.channelID, message)
	msg.ParseMode = tgbotapi.ModeHTML

	sent, err := n.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to send telegram message: %w", err)
	}
	return sent.MessageID, nil
}
