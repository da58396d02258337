package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking/internal/database"
	"github.com/iliyamo/hotel-booking/internal/model"
)

func newStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := database.Open(database.SQLite, "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	return NewSQLStore(db)
}

func seedRoom(t *testing.T, s Store, number string) *model.Room {
	t.Helper()
	r := &model.Room{Number: number, RoomType: "Deluxe", PriceCents: 10000, MinGuests: 1, MaxGuests: 2}
	require.NoError(t, s.Rooms().Create(context.Background(), r))
	return r
}

func seedBooking(t *testing.T, s Store, roomID uint64, in, out string, status string) *model.Booking {
	t.Helper()
	ci, err := model.ParseDate(in)
	require.NoError(t, err)
	co, err := model.ParseDate(out)
	require.NoError(t, err)
	b := &model.Booking{
		Reference: "ref-" + in + "-" + status, RoomID: roomID,
		GuestName: "Ann", GuestEmail: "ann@example.com", GuestPhone: "555",
		RoomType: "Deluxe", PriceCents: 10000, Nights: ci.DaysUntil(co), TotalCents: 10000 * int64(ci.DaysUntil(co)),
		CheckIn: ci, CheckOut: co, Status: status,
	}
	require.NoError(t, s.Bookings().Create(context.Background(), b))
	return b
}

func TestRoomCRUD(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	r := seedRoom(t, s, "101")
	assert.NotZero(t, r.ID)
	assert.Equal(t, model.RoomAvailable, r.Status)

	dup := &model.Room{Number: "101", RoomType: "Single", PriceCents: 5000}
	assert.ErrorIs(t, s.Rooms().Create(ctx, dup), ErrDuplicate)

	got, err := s.Rooms().GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deluxe", got.RoomType)
	assert.Equal(t, int64(10000), got.PriceCents)
	assert.False(t, got.CreatedAt.IsZero())

	got.RoomType = "Suite"
	got.PriceCents = 25000
	require.NoError(t, s.Rooms().Update(ctx, got))
	got, err = s.Rooms().GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Suite", got.RoomType)

	require.NoError(t, s.Rooms().UpdateStatus(ctx, r.ID, model.RoomBooked))
	avail, err := s.Rooms().ListByStatus(ctx, model.RoomAvailable)
	require.NoError(t, err)
	assert.Empty(t, avail)

	assert.ErrorIs(t, s.Rooms().UpdateStatus(ctx, 999, model.RoomBooked), ErrNotFound)
	_, err = s.Rooms().GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Rooms().Delete(ctx, r.ID))
	assert.ErrorIs(t, s.Rooms().Delete(ctx, r.ID), ErrNotFound)
}

func TestDeleteReferencedRoomIsConflict(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	r := seedRoom(t, s, "101")
	seedBooking(t, s, r.ID, "2025-01-01", "2025-01-03", model.BookingCancelled)

	assert.ErrorIs(t, s.Rooms().Delete(ctx, r.ID), ErrConflict)
	_, err := s.Rooms().GetByID(ctx, r.ID)
	assert.NoError(t, err)
}

func TestBookingForUnknownRoom(t *testing.T) {
	s := newStore(t)
	b := &model.Booking{Reference: "x", RoomID: 42, GuestName: "A", GuestEmail: "a@b.c", GuestPhone: "1",
		RoomType: "Deluxe", PriceCents: 1, Nights: 1, TotalCents: 1,
		CheckIn: model.NewDate(2025, 1, 1), CheckOut: model.NewDate(2025, 1, 2), Status: model.BookingPending}
	assert.ErrorIs(t, s.Bookings().Create(context.Background(), b), ErrNotFound)
}

func TestHasOverlapIsHalfOpen(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	r := seedRoom(t, s, "101")
	seedBooking(t, s, r.ID, "2025-03-10", "2025-03-15", model.BookingPending)
	seedBooking(t, s, r.ID, "2025-04-01", "2025-04-05", model.BookingCancelled)

	overlap := func(in, out string) bool {
		ci, _ := model.ParseDate(in)
		co, _ := model.ParseDate(out)
		ok, err := s.Bookings().HasOverlap(ctx, r.ID, ci, co)
		require.NoError(t, err)
		return ok
	}
	assert.True(t, overlap("2025-03-12", "2025-03-13"))
	assert.True(t, overlap("2025-03-01", "2025-03-11"))
	assert.True(t, overlap("2025-03-14", "2025-03-20"))
	assert.False(t, overlap("2025-03-15", "2025-03-18"), "check-in on the previous check-out day")
	assert.False(t, overlap("2025-03-05", "2025-03-10"), "check-out on the next check-in day")
	assert.False(t, overlap("2025-04-02", "2025-04-03"), "cancelled bookings do not block")
}

func TestBookingQueries(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	r := seedRoom(t, s, "101")
	b1 := seedBooking(t, s, r.ID, "2025-05-01", "2025-05-03", model.BookingPending)
	b2 := seedBooking(t, s, r.ID, "2025-06-01", "2025-06-02", model.BookingCancelled)

	got, err := s.Bookings().GetByID(ctx, b1.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-05-01", got.CheckIn.String())
	assert.Equal(t, 2, got.Nights)

	all, err := s.Bookings().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b2.ID, all[0].ID, "newest first")

	n, err := s.Bookings().CountByRoom(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = s.Bookings().CountActiveByRoom(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.Bookings().UpdateStatus(ctx, b1.ID, model.BookingConfirmed, "paypal"))
	got, err = s.Bookings().GetByID(ctx, b1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, got.Status)
	assert.Equal(t, "paypal", got.PaymentMethod)

	// an unchanged row still counts as found
	require.NoError(t, s.Bookings().UpdateStatus(ctx, b1.ID, model.BookingConfirmed, ""))
	assert.ErrorIs(t, s.Bookings().UpdateStatus(ctx, 999, model.BookingConfirmed, ""), ErrNotFound)

	require.NoError(t, s.Bookings().Delete(ctx, b2.ID))
	_, err = s.Bookings().GetByID(ctx, b2.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx Store) error {
		seedRoom(t, tx, "201")
		return boom
	})
	assert.ErrorIs(t, err, boom)
	rooms, err := s.Rooms().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rooms)

	require.NoError(t, s.WithTx(ctx, func(tx Store) error {
		seedRoom(t, tx, "202")
		return tx.WithTx(ctx, func(inner Store) error {
			seedRoom(t, inner, "203")
			return nil
		})
	}))
	rooms, err = s.Rooms().List(ctx)
	require.NoError(t, err)
	assert.Len(t, rooms, 2)
}
