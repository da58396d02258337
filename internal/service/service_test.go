package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hotel-booking/internal/database"
	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/queue"
	"github.com/iliyamo/hotel-booking/internal/repository"
)

type recorder struct {
	mu     sync.Mutex
	events []queue.BookingEvent
	err    error
}

func (r *recorder) Publish(_ context.Context, ev queue.BookingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

type fixture struct {
	store    *repository.SQLStore
	rooms    *RoomService
	bookings *BookingService
	events   *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(database.SQLite, "file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db))
	store := repository.NewSQLStore(db)
	ev := &recorder{}
	return &fixture{
		store:    store,
		rooms:    NewRoomService(store),
		bookings: NewBookingService(store, ev),
		events:   ev,
	}
}

func (f *fixture) room(t *testing.T, number string, cents int64) *model.Room {
	t.Helper()
	r, err := f.rooms.Create(context.Background(), RoomInput{
		Number: number, RoomType: "Deluxe", PriceCents: cents, MinGuests: 1, MaxGuests: 2,
	})
	require.NoError(t, err)
	return r
}

func request(roomID uint64, in, out string) BookingRequest {
	ci, _ := model.ParseDate(in)
	co, _ := model.ParseDate(out)
	return BookingRequest{
		RoomID: roomID, GuestName: "Ann Lee", GuestEmail: "Ann@Example.com", GuestPhone: "+1 555 0100",
		CheckIn: ci, CheckOut: co,
	}
}

func (f *fixture) roomStatus(t *testing.T, id uint64) string {
	t.Helper()
	r, err := f.rooms.Get(context.Background(), id)
	require.NoError(t, err)
	return r.Status
}

func TestBookingLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := f.room(t, "101", 10000)

	b, err := f.bookings.Create(ctx, request(room.ID, "2025-07-01", "2025-07-04"))
	require.NoError(t, err)
	assert.Equal(t, model.BookingPending, b.Status)
	assert.Equal(t, 3, b.Nights)
	assert.Equal(t, int64(30000), b.TotalCents)
	assert.Equal(t, "ann@example.com", b.GuestEmail)
	assert.NotEmpty(t, b.Reference)
	assert.Equal(t, model.RoomBooked, f.roomStatus(t, room.ID))

	avail, err := f.rooms.ListAvailable(ctx)
	require.NoError(t, err)
	assert.Empty(t, avail)

	paid, err := f.bookings.Pay(ctx, b.ID, "Credit_Card")
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, paid.Status)
	assert.Equal(t, "credit_card", paid.PaymentMethod)
	assert.Equal(t, model.RoomBooked, f.roomStatus(t, room.ID))

	cancelled, err := f.bookings.Cancel(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, cancelled.Status)
	assert.Equal(t, model.RoomAvailable, f.roomStatus(t, room.ID))

	avail, err = f.rooms.ListAvailable(ctx)
	require.NoError(t, err)
	require.Len(t, avail, 1)
	assert.Equal(t, room.ID, avail[0].ID)

	assert.Equal(t, []string{
		queue.EventBookingCreated, queue.EventBookingConfirmed, queue.EventBookingCancelled,
	}, f.events.types())
	assert.Equal(t, "101", f.events.events[0].RoomNumber)
}

func TestCreateUnknownRoomWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.bookings.Create(ctx, request(0, "2025-07-01", "2025-07-02"))
	assert.ErrorIs(t, err, ErrNotFound)

	// unknown room wins over invalid fields
	req := request(77, "2025-07-02", "2025-07-01")
	req.GuestName = ""
	_, err = f.bookings.Create(ctx, req)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := f.bookings.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, f.events.types())
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := f.room(t, "101", 10000)

	pricey := f.room(t, "102", 5_000_000_000_000_000_000)

	cases := []struct {
		name   string
		field  string
		room   uint64
		mutate func(r *BookingRequest)
	}{
		{"blank name", "guest_name", room.ID, func(r *BookingRequest) { r.GuestName = "  " }},
		{"bad email", "guest_email", room.ID, func(r *BookingRequest) { r.GuestEmail = "not-an-email" }},
		{"no phone", "guest_phone", room.ID, func(r *BookingRequest) { r.GuestPhone = "" }},
		{"empty stay", "check_out", room.ID, func(r *BookingRequest) { r.CheckOut = r.CheckIn }},
		{"unknown payment", "payment_method", room.ID, func(r *BookingRequest) { r.PaymentMethod = "barter" }},
		{"stay over a year", "check_out", room.ID, func(r *BookingRequest) {
			r.CheckOut = model.NewDate(2026, time.July, 2)
		}},
		{"stay over centuries", "check_out", room.ID, func(r *BookingRequest) {
			r.CheckIn, r.CheckOut = model.NewDate(1000, time.January, 1), model.NewDate(9999, time.January, 3)
		}},
		{"total overflows", "check_out", pricey.ID, func(r *BookingRequest) {}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := request(tc.room, "2025-07-01", "2025-07-03")
			tc.mutate(&req)
			_, err := f.bookings.Create(ctx, req)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Equal(t, model.RoomAvailable, f.roomStatus(t, room.ID))
	assert.Equal(t, model.RoomAvailable, f.roomStatus(t, pricey.ID))

	b, err := f.bookings.Create(ctx, request(room.ID, "2025-07-01", "2026-07-01"))
	require.NoError(t, err)
	assert.Equal(t, MaxStayNights, b.Nights)
	assert.Equal(t, int64(10000*MaxStayNights), b.TotalCents)
}

func TestOverlappingBookingIsConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := f.room(t, "101", 10000)

	_, err := f.bookings.Create(ctx, request(room.ID, "2025-08-10", "2025-08-15"))
	require.NoError(t, err)

	_, err = f.bookings.Create(ctx, request(room.ID, "2025-08-14", "2025-08-16"))
	assert.ErrorIs(t, err, ErrConflict)

	// back-to-back is fine
	_, err = f.bookings.Create(ctx, request(room.ID, "2025-08-15", "2025-08-17"))
	assert.NoError(t, err)
}

func TestConcurrentCreatesBookOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := f.room(t, "101", 10000)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok, clash int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.bookings.Create(ctx, request(room.ID, "2025-09-01", "2025-09-05"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrConflict):
				clash++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, clash)
}

func TestPriceIsSnapshotted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := f.room(t, "101", 10000)

	b, err := f.bookings.Create(ctx, request(room.ID, "2025-07-01", "2025-07-03"))
	require.NoError(t, err)

	_, err = f.rooms.Update(ctx, room.ID, RoomInput{Number: "101", RoomType: "Suite", PriceCents: 99900})
	require.NoError(t, err)

	got, err := f.bookings.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), got.PriceCents)
	assert.Equal(t, int64(20000), got.TotalCents)
	assert.Equal(t, "Deluxe", got.RoomType)
}

func TestPay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := f.room(t, "101", 10000)
	b, err := f.bookings.Create(ctx, request(room.ID, "2025-07-01", "2025-07-03"))
	require.NoError(t, err)

	_, err = f.bookings.Pay(ctx, b.ID, "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.bookings.Pay(ctx, b.ID, "gold")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.bookings.Pay(ctx, b.ID, "cash")
	require.NoError(t, err)
	again, err := f.bookings.Pay(ctx, b.ID, "paypal")
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, again.Status)
	assert.Equal(t, "cash", again.PaymentMethod, "second payment changes nothing")
	assert.Equal(t, []string{queue.EventBookingCreated, queue.EventBookingConfirmed}, f.events.types())

	_, err = f.bookings.Pay(ctx, 999, "cash")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.bookings.Cancel(ctx, b.ID)
	require.NoError(t, err)
	_, err = f.bookings.Pay(ctx, b.ID, "cash")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestConfirmLeavesRoomAlone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := f.room(t, "101", 10000)
	b, err := f.bookings.Create(ctx, request(room.ID, "2025-07-01", "2025-07-03"))
	require.NoError(t, err)

	// an admin forced the room back to available by hand
	require.NoError(t, f.store.Rooms().UpdateStatus(ctx, room.ID, model.RoomAvailable))

	got, err := f.bookings.Confirm(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, got.Status)
	assert.Empty(t, got.PaymentMethod)
	assert.Equal(t, model.RoomAvailable, f.roomStatus(t, room.ID))

	_, err = f.bookings.Cancel(ctx, b.ID)
	require.NoError(t, err)
	_, err = f.bookings.Confirm(ctx, b.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCancelKeepsRoomBookedWhileOtherBookingActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := f.room(t, "101", 10000)
	first, err := f.bookings.Create(ctx, request(room.ID, "2025-07-01", "2025-07-03"))
	require.NoError(t, err)
	_, err = f.bookings.Create(ctx, request(room.ID, "2025-07-10", "2025-07-12"))
	require.NoError(t, err)

	_, err = f.bookings.Cancel(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoomBooked, f.roomStatus(t, room.ID))

	// cancelling twice is a no-op
	_, err = f.bookings.Cancel(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, f.events.types(), 3)
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := f.room(t, "101", 10000)
	b, err := f.bookings.Create(ctx, request(room.ID, "2025-07-01", "2025-07-03"))
	require.NoError(t, err)

	_, err = f.bookings.SetStatus(ctx, b.ID, "archived")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.bookings.SetStatus(ctx, b.ID, "")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.bookings.SetStatus(ctx, 999, "paid")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.bookings.SetStatus(ctx, b.ID, "Paid")
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, got.Status)

	got, err = f.bookings.SetStatus(ctx, b.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, got.Status)
	assert.Equal(t, model.RoomAvailable, f.roomStatus(t, room.ID))
}

func TestDeleteBookingReleasesRoom(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := f.room(t, "101", 10000)
	b, err := f.bookings.Create(ctx, request(room.ID, "2025-07-01", "2025-07-03"))
	require.NoError(t, err)

	require.NoError(t, f.bookings.Delete(ctx, b.ID))
	assert.Equal(t, model.RoomAvailable, f.roomStatus(t, room.ID))
	assert.ErrorIs(t, f.bookings.Delete(ctx, b.ID), ErrNotFound)

	// with the booking gone the room can be deleted
	require.NoError(t, f.rooms.Delete(ctx, room.ID))
}

func TestPublishFailureDoesNotFailBooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.events.err = errors.New("broker down")
	room := f.room(t, "101", 10000)

	b, err := f.bookings.Create(ctx, request(room.ID, "2025-07-01", "2025-07-03"))
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
}

func TestNilPublisher(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewBookingService(f.store, nil)
	svc.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	room := f.room(t, "101", 10000)

	b, err := svc.Create(ctx, request(room.ID, "2025-07-01", "2025-07-03"))
	require.NoError(t, err)
	_, err = svc.Pay(ctx, b.ID, "cash")
	require.NoError(t, err)
}
