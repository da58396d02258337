package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/queue"
	"github.com/iliyamo/hotel-booking/internal/repository"
)

// MaxStayNights caps a single booking.
const MaxStayNights = 365

// EventPublisher delivers booking events.  queue.Publisher is the
// production implementation.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// BookingService owns the booking lifecycle:
//
//	pending -> confirmed   (payment or admin confirm)
//	pending -> cancelled   (admin cancel)
//	confirmed -> cancelled (admin cancel)
//
// cancelled is terminal.  Every transition runs in one transaction and
// keeps rooms.status in line with the room's active bookings.
type BookingService struct {
	store  repository.Store
	events EventPublisher
	now    func() time.Time
}

// NewBookingService wires the service.  events may be nil, in which case
// no events are emitted.
func NewBookingService(store repository.Store, events EventPublisher) *BookingService {
	if store == nil {
		panic("nil store passed to NewBookingService")
	}
	return &BookingService{store: store, events: events, now: time.Now}
}

// BookingRequest is a guest's booking form after the boundary parse.
type BookingRequest struct {
	RoomID        uint64
	GuestName     string
	GuestEmail    string
	GuestPhone    string
	CheckIn       model.Date
	CheckOut      model.Date
	PaymentMethod string
}

func (r *BookingRequest) normalize() {
	r.GuestName = strings.TrimSpace(r.GuestName)
	r.GuestEmail = strings.ToLower(strings.TrimSpace(r.GuestEmail))
	r.GuestPhone = strings.TrimSpace(r.GuestPhone)
	r.PaymentMethod = strings.ToLower(strings.TrimSpace(r.PaymentMethod))
}

func (r *BookingRequest) validate() error {
	if r.GuestName == "" {
		return invalid("guest_name", "is required")
	}
	if len(r.GuestName) > 100 {
		return invalid("guest_name", "is too long")
	}
	if r.GuestEmail == "" {
		return invalid("guest_email", "is required")
	}
	if _, err := mail.ParseAddress(r.GuestEmail); err != nil {
		return invalid("guest_email", "is not a valid email address")
	}
	if r.GuestPhone == "" {
		return invalid("guest_phone", "is required")
	}
	if len(r.GuestPhone) > 20 {
		return invalid("guest_phone", "is too long")
	}
	if r.CheckIn.IsZero() {
		return invalid("check_in", "is required")
	}
	if r.CheckOut.IsZero() {
		return invalid("check_out", "is required")
	}
	if !r.CheckIn.Before(r.CheckOut) {
		return invalid("check_out", "must be after check-in")
	}
	if r.CheckIn.DaysUntil(r.CheckOut) > MaxStayNights {
		return invalid("check_out", fmt.Sprintf("stays are limited to %d nights", MaxStayNights))
	}
	if r.PaymentMethod != "" && !model.ValidPaymentMethod(r.PaymentMethod) {
		return invalid("payment_method", "is not supported")
	}
	return nil
}

// Create books a room.  The room is looked up first so an unknown id is
// always reported as ErrNotFound, then the form is validated, then the
// room row is locked while overlap is checked, the booking inserted and
// the room marked booked.  Nothing is written unless all steps succeed.
func (s *BookingService) Create(ctx context.Context, req BookingRequest) (*model.Booking, error) {
	req.normalize()
	if req.RoomID == 0 {
		return nil, fmt.Errorf("room: %w", ErrNotFound)
	}

	var (
		booking *model.Booking
		room    *model.Room
	)
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		rm, err := tx.Rooms().GetByIDForUpdate(ctx, req.RoomID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFound("room", req.RoomID)
			}
			return err
		}
		if err := req.validate(); err != nil {
			return err
		}
		overlap, err := tx.Bookings().HasOverlap(ctx, rm.ID, req.CheckIn, req.CheckOut)
		if err != nil {
			return err
		}
		if overlap {
			return fmt.Errorf("room %s is already booked between %s and %s: %w",
				rm.Number, req.CheckIn, req.CheckOut, ErrConflict)
		}

		nights := req.CheckIn.DaysUntil(req.CheckOut)
		if rm.PriceCents > math.MaxInt64/int64(nights) {
			return invalid("check_out", "stay total is too large")
		}
		b := &model.Booking{
			Reference:     uuid.NewString(),
			RoomID:        rm.ID,
			GuestName:     req.GuestName,
			GuestEmail:    req.GuestEmail,
			GuestPhone:    req.GuestPhone,
			RoomType:      rm.RoomType,
			PriceCents:    rm.PriceCents,
			Nights:        nights,
			TotalCents:    rm.PriceCents * int64(nights),
			CheckIn:       req.CheckIn,
			CheckOut:      req.CheckOut,
			PaymentMethod: req.PaymentMethod,
			Status:        model.BookingPending,
		}
		if err := tx.Bookings().Create(ctx, b); err != nil {
			return err
		}
		if rm.Status != model.RoomBooked {
			if err := tx.Rooms().UpdateStatus(ctx, rm.ID, model.RoomBooked); err != nil {
				return err
			}
			rm.Status = model.RoomBooked
		}
		booking, room = b, rm
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, queue.EventBookingCreated, booking, room)
	return booking, nil
}

// Get returns one booking or ErrNotFound.
func (s *BookingService) Get(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := s.store.Bookings().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("booking", id)
		}
		return nil, err
	}
	return b, nil
}

// List returns all bookings, newest first.
func (s *BookingService) List(ctx context.Context) ([]*model.Booking, error) {
	return s.store.Bookings().List(ctx)
}

// ListByRoom returns the bookings of one room.
func (s *BookingService) ListByRoom(ctx context.Context, roomID uint64) ([]*model.Booking, error) {
	return s.store.Bookings().ListByRoom(ctx, roomID)
}

// Pay records the payment method and confirms a pending booking.  Paying
// an already confirmed booking returns it unchanged without side effects;
// paying a cancelled booking is a conflict.  No money moves.
func (s *BookingService) Pay(ctx context.Context, id uint64, method string) (*model.Booking, error) {
	method = strings.ToLower(strings.TrimSpace(method))
	return s.transition(ctx, id, queue.EventBookingConfirmed, func(tx repository.Store, b *model.Booking) (bool, error) {
		switch b.Status {
		case model.BookingConfirmed:
			return false, nil
		case model.BookingCancelled:
			return false, fmt.Errorf("booking %d is cancelled and cannot be paid: %w", b.ID, ErrConflict)
		}
		if method == "" {
			return false, invalid("payment_method", "is required")
		}
		if !model.ValidPaymentMethod(method) {
			return false, invalid("payment_method", "is not supported")
		}
		if err := tx.Bookings().UpdateStatus(ctx, b.ID, model.BookingConfirmed, method); err != nil {
			return false, err
		}
		b.Status, b.PaymentMethod = model.BookingConfirmed, method
		return true, nil
	})
}

// Confirm is the admin override of the payment step.  It never touches
// the room: the room was already marked booked when the booking was made.
func (s *BookingService) Confirm(ctx context.Context, id uint64) (*model.Booking, error) {
	return s.transition(ctx, id, queue.EventBookingConfirmed, func(tx repository.Store, b *model.Booking) (bool, error) {
		switch b.Status {
		case model.BookingConfirmed:
			return false, nil
		case model.BookingCancelled:
			return false, fmt.Errorf("booking %d is cancelled and cannot be confirmed: %w", b.ID, ErrConflict)
		}
		if err := tx.Bookings().UpdateStatus(ctx, b.ID, model.BookingConfirmed, ""); err != nil {
			return false, err
		}
		b.Status = model.BookingConfirmed
		return true, nil
	})
}

// Cancel moves a pending or confirmed booking to cancelled and releases
// the room when no other active booking holds it.  Cancelling twice is a
// no-op.
func (s *BookingService) Cancel(ctx context.Context, id uint64) (*model.Booking, error) {
	return s.transition(ctx, id, queue.EventBookingCancelled, func(tx repository.Store, b *model.Booking) (bool, error) {
		if b.Status == model.BookingCancelled {
			return false, nil
		}
		if err := tx.Bookings().UpdateStatus(ctx, b.ID, model.BookingCancelled, ""); err != nil {
			return false, err
		}
		b.Status = model.BookingCancelled
		return true, syncRoomStatus(ctx, tx, b.RoomID)
	})
}

// SetStatus applies an admin chosen status label.  Only the confirmed
// (or "paid") and cancelled targets are transitions; anything else is a
// validation error.
func (s *BookingService) SetStatus(ctx context.Context, id uint64, status string) (*model.Booking, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	switch model.NormalizeBookingStatus(status) {
	case model.BookingConfirmed:
		return s.Confirm(ctx, id)
	case model.BookingCancelled:
		return s.Cancel(ctx, id)
	case "":
		return nil, invalid("status", "is required")
	default:
		return nil, invalid("status", fmt.Sprintf("cannot change a booking to %q", status))
	}
}

// Delete removes a booking and re-derives its room's status.
func (s *BookingService) Delete(ctx context.Context, id uint64) error {
	return s.store.WithTx(ctx, func(tx repository.Store) error {
		b, err := tx.Bookings().GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFound("booking", id)
			}
			return err
		}
		if err := tx.Bookings().Delete(ctx, b.ID); err != nil {
			return err
		}
		return syncRoomStatus(ctx, tx, b.RoomID)
	})
}

// transition loads the booking under lock, lets apply mutate it and
// publishes evType after commit when apply reports a change.
func (s *BookingService) transition(ctx context.Context, id uint64, evType string,
	apply func(tx repository.Store, b *model.Booking) (bool, error)) (*model.Booking, error) {
	var (
		booking *model.Booking
		room    *model.Room
		changed bool
	)
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		b, err := tx.Bookings().GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFound("booking", id)
			}
			return err
		}
		if changed, err = apply(tx, b); err != nil {
			return err
		}
		booking = b
		if changed && s.events != nil {
			if rm, err := tx.Rooms().GetByID(ctx, b.RoomID); err == nil {
				room = rm
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.publish(ctx, evType, booking, room)
	}
	return booking, nil
}

// syncRoomStatus sets the room booked while it has an active booking and
// available otherwise.
func syncRoomStatus(ctx context.Context, tx repository.Store, roomID uint64) error {
	n, err := tx.Bookings().CountActiveByRoom(ctx, roomID)
	if err != nil {
		return err
	}
	status := model.RoomAvailable
	if n > 0 {
		status = model.RoomBooked
	}
	if err := tx.Rooms().UpdateStatus(ctx, roomID, status); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// publish is best effort: the booking is committed whatever the broker
// does.
func (s *BookingService) publish(ctx context.Context, evType string, b *model.Booking, room *model.Room) {
	if s.events == nil {
		return
	}
	ev := queue.NewBookingEvent(evType, b, room, s.now())
	if err := s.events.Publish(ctx, ev); err != nil {
		log.Printf("booking %d: publish %s: %v", b.ID, evType, err)
	}
}
