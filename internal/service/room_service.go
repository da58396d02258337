package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/repository"
)

// RoomService manages the room inventory on behalf of the admin panel and
// serves the public listings.
type RoomService struct {
	store repository.Store
}

// NewRoomService wires the service.
func NewRoomService(store repository.Store) *RoomService {
	if store == nil {
		panic("nil store passed to NewRoomService")
	}
	return &RoomService{store: store}
}

// RoomInput carries the editable attributes of a room.
type RoomInput struct {
	Number      string
	RoomType    string
	PriceCents  int64
	MinGuests   int
	MaxGuests   int
	MaxAdults   int
	MaxChildren int
	Description string
	Photo       string
}

func (in *RoomInput) normalize() {
	in.Number = strings.TrimSpace(in.Number)
	in.RoomType = strings.TrimSpace(in.RoomType)
	in.Description = strings.TrimSpace(in.Description)
	in.Photo = strings.TrimSpace(in.Photo)
	if in.MinGuests == 0 {
		in.MinGuests = 1
	}
	if in.MaxGuests == 0 {
		in.MaxGuests = in.MinGuests
		if in.MaxGuests < 2 {
			in.MaxGuests = 2
		}
	}
}

func (in *RoomInput) validate() error {
	switch {
	case in.Number == "":
		return invalid("number", "is required")
	case len(in.Number) > 100:
		return invalid("number", "is too long")
	case in.RoomType == "":
		return invalid("room_type", "is required")
	case len(in.RoomType) > 100:
		return invalid("room_type", "is too long")
	case in.PriceCents <= 0:
		return invalid("price", "must be greater than zero")
	case in.MinGuests < 1:
		return invalid("min_guests", "must be at least 1")
	case in.MaxGuests < in.MinGuests:
		return invalid("max_guests", "must not be below min_guests")
	case in.MaxAdults < 0 || in.MaxAdults > in.MaxGuests:
		return invalid("max_adults", "must be between 0 and max_guests")
	case in.MaxChildren < 0 || in.MaxChildren > in.MaxGuests:
		return invalid("max_children", "must be between 0 and max_guests")
	}
	return nil
}

func (in *RoomInput) apply(r *model.Room) {
	r.Number = in.Number
	r.RoomType = in.RoomType
	r.PriceCents = in.PriceCents
	r.MinGuests = in.MinGuests
	r.MaxGuests = in.MaxGuests
	r.MaxAdults = in.MaxAdults
	r.MaxChildren = in.MaxChildren
	r.Description = in.Description
	r.Photo = in.Photo
}

// Create adds an available room.  A taken room number is a conflict.
func (s *RoomService) Create(ctx context.Context, in RoomInput) (*model.Room, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	r := &model.Room{Status: model.RoomAvailable}
	in.apply(r)
	if err := s.store.Rooms().Create(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("room number %q already exists: %w", in.Number, ErrConflict)
		}
		return nil, err
	}
	return r, nil
}

// Get returns one room or ErrNotFound.
func (s *RoomService) Get(ctx context.Context, id uint64) (*model.Room, error) {
	r, err := s.store.Rooms().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("room", id)
		}
		return nil, err
	}
	return r, nil
}

// List returns every room ordered by id.
func (s *RoomService) List(ctx context.Context) ([]*model.Room, error) {
	return s.store.Rooms().List(ctx)
}

// ListAvailable returns the rooms without an active booking.
func (s *RoomService) ListAvailable(ctx context.Context) ([]*model.Room, error) {
	return s.store.Rooms().ListByStatus(ctx, model.RoomAvailable)
}

// Update edits a room.  Bookings keep the price and type they were made
// with.
func (s *RoomService) Update(ctx context.Context, id uint64, in RoomInput) (*model.Room, error) {
	in.normalize()
	var room *model.Room
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		r, err := tx.Rooms().GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFound("room", id)
			}
			return err
		}
		if err := in.validate(); err != nil {
			return err
		}
		in.apply(r)
		if err := tx.Rooms().Update(ctx, r); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return fmt.Errorf("room number %q already exists: %w", in.Number, ErrConflict)
			}
			return err
		}
		room = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// Delete removes a room that no booking references.  Bookings must be
// deleted first; a room is never deleted out from under one.
func (s *RoomService) Delete(ctx context.Context, id uint64) error {
	return s.store.WithTx(ctx, func(tx repository.Store) error {
		r, err := tx.Rooms().GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFound("room", id)
			}
			return err
		}
		n, err := tx.Bookings().CountByRoom(ctx, r.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("room %s still has %d booking(s): %w", r.Number, n, ErrConflict)
		}
		return tx.Rooms().Delete(ctx, r.ID)
	})
}
