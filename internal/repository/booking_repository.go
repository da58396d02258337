package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/hotel-booking/internal/model"
)

const bookingColumns = `id, reference, room_id, guest_name, guest_email, guest_phone,
	room_type, price_cents, nights, total_cents, check_in, check_out,
	payment_method, status, created_at, updated_at`

// BookingRepo provides CRUD operations for bookings.  Dates are stored as
// calendar days; timestamps are UTC.
type BookingRepo struct {
	q       sqlx.ExtContext
	dialect string
	locking bool
}

// Create inserts a booking and populates its generated ID and timestamps.
// Status defaults to pending.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	now := model.Now()
	if b.Status == "" {
		b.Status = model.BookingPending
	}
	const q = `INSERT INTO bookings (reference, room_id, guest_name, guest_email, guest_phone,
		room_type, price_cents, nights, total_cents, check_in, check_out,
		payment_method, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := insertID(ctx, r.q, r.dialect, q,
		b.Reference, b.RoomID, b.GuestName, b.GuestEmail, b.GuestPhone,
		b.RoomType, b.PriceCents, b.Nights, b.TotalCents, b.CheckIn, b.CheckOut,
		b.PaymentMethod, b.Status, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return err
	}
	b.ID = id
	b.CreatedAt, b.UpdatedAt = now, now
	return nil
}

// GetByID returns a single booking or ErrNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	return r.get(ctx, id, "")
}

// GetByIDForUpdate is GetByID with a row lock inside a transaction.
func (r *BookingRepo) GetByIDForUpdate(ctx context.Context, id uint64) (*model.Booking, error) {
	return r.get(ctx, id, forUpdate(r.dialect, r.locking))
}

func (r *BookingRepo) get(ctx context.Context, id uint64, suffix string) (*model.Booking, error) {
	var b model.Booking
	q := "SELECT " + bookingColumns + " FROM bookings WHERE id = ?" + suffix
	if err := sqlx.GetContext(ctx, r.q, &b, r.q.Rebind(q), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// List returns every booking, newest first.
func (r *BookingRepo) List(ctx context.Context) ([]*model.Booking, error) {
	var out []*model.Booking
	q := "SELECT " + bookingColumns + " FROM bookings ORDER BY id DESC"
	if err := sqlx.SelectContext(ctx, r.q, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByRoom returns the bookings of one room ordered by check-in.
func (r *BookingRepo) ListByRoom(ctx context.Context, roomID uint64) ([]*model.Booking, error) {
	var out []*model.Booking
	q := "SELECT " + bookingColumns + " FROM bookings WHERE room_id = ? ORDER BY check_in, id"
	if err := sqlx.SelectContext(ctx, r.q, &out, r.q.Rebind(q), roomID); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByRoom counts all bookings referencing a room, whatever their status.
func (r *BookingRepo) CountByRoom(ctx context.Context, roomID uint64) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.q, &n, r.q.Rebind(`SELECT COUNT(*) FROM bookings WHERE room_id = ?`), roomID)
	return n, err
}

// CountActiveByRoom counts the pending and confirmed bookings of a room.
func (r *BookingRepo) CountActiveByRoom(ctx context.Context, roomID uint64) (int, error) {
	var n int
	const q = `SELECT COUNT(*) FROM bookings WHERE room_id = ? AND status IN (?, ?)`
	err := sqlx.GetContext(ctx, r.q, &n, r.q.Rebind(q), roomID, model.BookingPending, model.BookingConfirmed)
	return n, err
}

// HasOverlap reports whether an active booking of the room intersects the
// half-open range [checkIn, checkOut).  Back-to-back stays do not overlap.
func (r *BookingRepo) HasOverlap(ctx context.Context, roomID uint64, checkIn, checkOut model.Date) (bool, error) {
	var n int
	const q = `SELECT COUNT(*) FROM bookings
		WHERE room_id = ? AND status IN (?, ?) AND check_in < ? AND check_out > ?`
	err := sqlx.GetContext(ctx, r.q, &n, r.q.Rebind(q),
		roomID, model.BookingPending, model.BookingConfirmed, checkOut, checkIn)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateStatus overwrites the status.  A non-empty paymentMethod is
// recorded as well.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, status, paymentMethod string) error {
	var (
		res sql.Result
		err error
	)
	if paymentMethod != "" {
		const q = `UPDATE bookings SET status = ?, payment_method = ?, updated_at = ? WHERE id = ?`
		res, err = r.q.ExecContext(ctx, r.q.Rebind(q), status, paymentMethod, model.Now(), id)
	} else {
		const q = `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
		res, err = r.q.ExecContext(ctx, r.q.Rebind(q), status, model.Now(), id)
	}
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// Delete removes a booking.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM bookings WHERE id = ?`), id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}
