package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/hotel-booking/internal/model"
)

const roomColumns = `id, number, room_type, price_cents, min_guests, max_guests,
	max_adults, max_children, description, photo, status, created_at, updated_at`

// RoomRepo encapsulates all database queries related to rooms.  It runs
// either on the pool or inside a transaction depending on how the Store
// created it.
type RoomRepo struct {
	q       sqlx.ExtContext
	dialect string
	locking bool
}

// Create inserts a new room.  On success ID, Status and the timestamps
// are populated.  A taken room number yields ErrDuplicate.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	now := model.Now()
	if rm.Status == "" {
		rm.Status = model.RoomAvailable
	}
	const q = `INSERT INTO rooms (number, room_type, price_cents, min_guests, max_guests,
		max_adults, max_children, description, photo, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := insertID(ctx, r.q, r.dialect, q,
		rm.Number, rm.RoomType, rm.PriceCents, rm.MinGuests, rm.MaxGuests,
		rm.MaxAdults, rm.MaxChildren, rm.Description, rm.Photo, rm.Status, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	rm.ID = id
	rm.CreatedAt, rm.UpdatedAt = now, now
	return nil
}

// GetByID fetches a room by its ID.  It returns ErrNotFound if no row
// is found.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	return r.get(ctx, id, "")
}

// GetByIDForUpdate is GetByID with a row lock when running in a
// transaction on MySQL or Postgres.
func (r *RoomRepo) GetByIDForUpdate(ctx context.Context, id uint64) (*model.Room, error) {
	return r.get(ctx, id, forUpdate(r.dialect, r.locking))
}

func (r *RoomRepo) get(ctx context.Context, id uint64, suffix string) (*model.Room, error) {
	var rm model.Room
	q := "SELECT " + roomColumns + " FROM rooms WHERE id = ?" + suffix
	if err := sqlx.GetContext(ctx, r.q, &rm, r.q.Rebind(q), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// List returns all rooms ordered by id.
func (r *RoomRepo) List(ctx context.Context) ([]*model.Room, error) {
	var out []*model.Room
	q := "SELECT " + roomColumns + " FROM rooms ORDER BY id"
	if err := sqlx.SelectContext(ctx, r.q, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByStatus returns the rooms with the given status ordered by id.
func (r *RoomRepo) ListByStatus(ctx context.Context, status string) ([]*model.Room, error) {
	var out []*model.Room
	q := "SELECT " + roomColumns + " FROM rooms WHERE status = ? ORDER BY id"
	if err := sqlx.SelectContext(ctx, r.q, &out, r.q.Rebind(q), status); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the descriptive attributes of a room.  Status is left
// alone; it follows the room's bookings.
func (r *RoomRepo) Update(ctx context.Context, rm *model.Room) error {
	now := model.Now()
	const q = `UPDATE rooms SET number = ?, room_type = ?, price_cents = ?, min_guests = ?,
		max_guests = ?, max_adults = ?, max_children = ?, description = ?, photo = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.q.ExecContext(ctx, r.q.Rebind(q),
		rm.Number, rm.RoomType, rm.PriceCents, rm.MinGuests, rm.MaxGuests,
		rm.MaxAdults, rm.MaxChildren, rm.Description, rm.Photo, now, rm.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	if err := mustAffect(res); err != nil {
		return err
	}
	rm.UpdatedAt = now
	return nil
}

// UpdateStatus sets rooms.status.
func (r *RoomRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	const q = `UPDATE rooms SET status = ?, updated_at = ? WHERE id = ?`
	res, err := r.q.ExecContext(ctx, r.q.Rebind(q), status, model.Now(), id)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// Delete removes a room.  A room still referenced by bookings is refused
// by the foreign key and reported as ErrConflict.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM rooms WHERE id = ?`), id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrConflict
		}
		return err
	}
	return mustAffect(res)
}
