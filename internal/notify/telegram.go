// Package notify forwards booking events to hotel staff.
package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/queue"
)

// Sender is the part of *tgbotapi.BotAPI the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts one message per booking event to a staff chat.
type TelegramNotifier struct {
	bot    Sender
	chatID int64
}

// NewTelegramNotifier authorises the bot token against the Telegram API.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("telegram: chat id is required")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// NewTelegramNotifierWith uses an existing sender.
func NewTelegramNotifierWith(bot Sender, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

// Notify implements queue.Notifier.
func (n *TelegramNotifier) Notify(ev queue.BookingEvent) error {
	msg := tgbotapi.NewMessage(n.chatID, FormatBookingMessage(ev))
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

var titles = map[string]string{
	queue.EventBookingCreated:   "New booking",
	queue.EventBookingConfirmed: "Booking confirmed",
	queue.EventBookingCancelled: "Booking cancelled",
}

// FormatBookingMessage renders ev as plain text.
func FormatBookingMessage(ev queue.BookingEvent) string {
	title, ok := titles[ev.Type]
	if !ok {
		title = ev.Type
	}
	room := ev.RoomNumber
	if room == "" {
		room = fmt.Sprintf("#%d", ev.RoomID)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s #%d\n", title, ev.BookingID)
	fmt.Fprintf(&b, "Room: %s (%s)\n", room, ev.RoomType)
	fmt.Fprintf(&b, "Guest: %s <%s>\n", ev.GuestName, ev.GuestEmail)
	fmt.Fprintf(&b, "Stay: %s to %s, %d night(s)\n", ev.CheckIn, ev.CheckOut, ev.Nights)
	fmt.Fprintf(&b, "Total: %s\n", model.FormatCents(ev.TotalCents))
	fmt.Fprintf(&b, "Status: %s\nRef: %s", ev.Status, ev.Reference)
	return b.String()
}
