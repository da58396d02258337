package queue // queue consumer side: reads booking events from RabbitMQ

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// Notifier receives every consumed booking event after it has been logged.
type Notifier interface {
	Notify(ev BookingEvent) error
}

// Consumer appends booking events to a log file and forwards them to an
// optional Notifier.
type Consumer struct {
	URL      string
	LogPath  string
	Notifier Notifier
}

// Run connects to RabbitMQ, declares the queue and consumes until ctx is
// cancelled.  Broker failures are retried with exponential backoff; a bad
// message is rejected without requeueing so the loop keeps going.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.Printf("booking-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("booking-consumer: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("booking-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(BookingQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(BookingQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.HandleMessage(d.Body); err != nil {
				log.Printf("booking-consumer: handle message failed: %v", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one event, appends it to the log file and passes
// it to the notifier.  A notifier failure is logged but does not reject
// the message: the event is already on disk.
func (c *Consumer) HandleMessage(body []byte) error {
	var ev BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := appendLine(c.LogPath, FormatLogLine(ev)); err != nil {
		return err
	}
	if c.Notifier != nil {
		if err := c.Notifier.Notify(ev); err != nil {
			log.Printf("booking-consumer: notify %s for booking %d failed: %v", ev.Type, ev.BookingID, err)
		}
	}
	return nil
}

// FormatLogLine renders an event as one human readable log line.
func FormatLogLine(ev BookingEvent) string {
	return fmt.Sprintf("[%s] %s | booking_id=%d | ref=%s | room=%q | guest=%q | stay=%s..%s | nights=%d | total=%s | status=%s\n",
		ev.OccurredAt, ev.Type, ev.BookingID, ev.Reference, ev.RoomNumber, ev.GuestName,
		ev.CheckIn, ev.CheckOut, ev.Nights, model.FormatCents(ev.TotalCents), ev.Status)
}

func appendLine(path, line string) error {
	if path == "" {
		path = filepath.Join("logs", "booking.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
