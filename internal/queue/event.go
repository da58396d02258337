// Package queue defines message payloads exchanged over the message broker
// and the publisher/consumer pair that moves them.
package queue

import (
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// BookingQueueName is the durable queue every booking event goes to.
const BookingQueueName = "hotel.bookings"

// Event types.
const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is published whenever a booking changes state.  It carries
// enough information for downstream consumers to log or notify without
// querying the primary database.
type BookingEvent struct {
	Type       string `json:"type"`
	BookingID  uint64 `json:"booking_id"`
	Reference  string `json:"reference"`
	RoomID     uint64 `json:"room_id"`
	RoomNumber string `json:"room_number"`
	RoomType   string `json:"room_type"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Nights     int    `json:"nights"`
	TotalCents int64  `json:"total_cents"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
}

// NewBookingEvent snapshots a booking and its room.  room may be nil.
func NewBookingEvent(typ string, b *model.Booking, room *model.Room, at time.Time) BookingEvent {
	ev := BookingEvent{
		Type:       typ,
		BookingID:  b.ID,
		Reference:  b.Reference,
		RoomID:     b.RoomID,
		RoomType:   b.RoomType,
		GuestName:  b.GuestName,
		GuestEmail: b.GuestEmail,
		CheckIn:    b.CheckIn.String(),
		CheckOut:   b.CheckOut.String(),
		Nights:     b.Nights,
		TotalCents: b.TotalCents,
		Status:     b.Status,
		OccurredAt: at.UTC().Format(time.RFC3339),
	}
	if room != nil {
		ev.RoomNumber = room.Number
	}
	return ev
}
