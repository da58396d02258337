package model

import (
	"fmt"
)

// RoomStatus values stored in rooms.status.
const (
	RoomAvailable = "available"
	RoomBooked    = "booked"
)

// Room represents a bookable unit of the hotel.  A room owns zero or more
// bookings; rooms.status mirrors whether any of them is still active.
//
// Fields:
//
//	ID          – primary key identifier.
//	Number      – unique room number or name shown to guests.
//	RoomType    – category (Standard, Deluxe, Suite ...).
//	PriceCents  – nightly rate in cents.
//	MinGuests   – lower occupancy bound.
//	MaxGuests   – upper occupancy bound.
//	MaxAdults   – adult limit (0 when unspecified).
//	MaxChildren – child limit (0 when unspecified).
//	Description – free text shown on the detail page.
//	Photo       – image path or URL.
//	Status      – available or booked.
//	CreatedAt   – creation timestamp.
//	UpdatedAt   – last update timestamp.
type Room struct {
	ID          uint64    `db:"id"`           // rooms.id
	Number      string    `db:"number"`       // rooms.number
	RoomType    string    `db:"room_type"`    // rooms.room_type
	PriceCents  int64     `db:"price_cents"`  // rooms.price_cents
	MinGuests   int       `db:"min_guests"`   // rooms.min_guests
	MaxGuests   int       `db:"max_guests"`   // rooms.max_guests
	MaxAdults   int       `db:"max_adults"`   // rooms.max_adults
	MaxChildren int       `db:"max_children"` // rooms.max_children
	Description string    `db:"description"`  // rooms.description
	Photo       string    `db:"photo"`        // rooms.photo
	Status      string    `db:"status"`       // rooms.status
	CreatedAt   Timestamp `db:"created_at"`   // rooms.created_at
	UpdatedAt   Timestamp `db:"updated_at"`   // rooms.updated_at
}

// Available reports whether the room currently has no active booking.
func (r *Room) Available() bool { return r.Status == RoomAvailable }

// Price formats the nightly rate for display.
func (r *Room) Price() string { return FormatCents(r.PriceCents) }

// FormatCents renders an amount in cents as a decimal string ("100.00").
func FormatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}
