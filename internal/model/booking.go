package model

import "strings"

// Booking status values stored in bookings.status.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
)

// Payment methods accepted on the payment form.
var PaymentMethods = []string{"credit_card", "debit_card", "paypal", "cash"}

// Booking is a guest's reservation of a room for a date range.  The room
// type and nightly price are copied from the room when the booking is
// created so later edits to the room never change a historical booking.
//
// Fields:
//
//	ID            – primary key identifier.
//	Reference     – confirmation code handed to the guest.
//	RoomID        – booked room.
//	GuestName     – name on the booking.
//	GuestEmail    – contact email.
//	GuestPhone    – contact phone.
//	RoomType      – room type at booking time.
//	PriceCents    – nightly rate at booking time.
//	Nights        – number of nights between check-in and check-out.
//	TotalCents    – PriceCents × Nights.
//	CheckIn       – arrival date.
//	CheckOut      – departure date (after CheckIn).
//	PaymentMethod – method chosen on the payment form (empty until paid).
//	Status        – pending, confirmed or cancelled.
//	CreatedAt     – creation timestamp.
//	UpdatedAt     – last update timestamp.
type Booking struct {
	ID            uint64    `db:"id"`             // bookings.id
	Reference     string    `db:"reference"`      // bookings.reference
	RoomID        uint64    `db:"room_id"`        // bookings.room_id
	GuestName     string    `db:"guest_name"`     // bookings.guest_name
	GuestEmail    string    `db:"guest_email"`    // bookings.guest_email
	GuestPhone    string    `db:"guest_phone"`    // bookings.guest_phone
	RoomType      string    `db:"room_type"`      // bookings.room_type
	PriceCents    int64     `db:"price_cents"`    // bookings.price_cents
	Nights        int       `db:"nights"`         // bookings.nights
	TotalCents    int64     `db:"total_cents"`    // bookings.total_cents
	CheckIn       Date      `db:"check_in"`       // bookings.check_in
	CheckOut      Date      `db:"check_out"`      // bookings.check_out
	PaymentMethod string    `db:"payment_method"` // bookings.payment_method
	Status        string    `db:"status"`         // bookings.status
	CreatedAt     Timestamp `db:"created_at"`     // bookings.created_at
	UpdatedAt     Timestamp `db:"updated_at"`     // bookings.updated_at
}

// Active reports whether the booking still holds its room.
func (b *Booking) Active() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// Total formats the booking total for display.
func (b *Booking) Total() string { return FormatCents(b.TotalCents) }

// Price formats the nightly rate captured at booking time.
func (b *Booking) Price() string { return FormatCents(b.PriceCents) }

// NormalizeBookingStatus maps user supplied labels onto the stored values.
// "paid" is what the payment flow called a confirmed booking.  Unknown
// labels come back unchanged so callers can reject them.
func NormalizeBookingStatus(s string) string {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "paid", BookingConfirmed:
		return BookingConfirmed
	case "canceled", BookingCancelled:
		return BookingCancelled
	default:
		return v
	}
}

// ValidPaymentMethod reports whether m is one of PaymentMethods.
func ValidPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}
