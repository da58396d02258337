package repository // repository holds data access logic for rooms and bookings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/hotel-booking/internal/database"
	"github.com/iliyamo/hotel-booking/internal/model"
)

// RoomRepository is the persistence contract for rooms.
type RoomRepository interface {
	Create(ctx context.Context, r *model.Room) error
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
	// GetByIDForUpdate loads a room and locks its row until the enclosing
	// transaction ends.  Outside a transaction it behaves like GetByID.
	GetByIDForUpdate(ctx context.Context, id uint64) (*model.Room, error)
	List(ctx context.Context) ([]*model.Room, error)
	ListByStatus(ctx context.Context, status string) ([]*model.Room, error)
	Update(ctx context.Context, r *model.Room) error
	UpdateStatus(ctx context.Context, id uint64, status string) error
	Delete(ctx context.Context, id uint64) error
}

// BookingRepository is the persistence contract for bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	GetByIDForUpdate(ctx context.Context, id uint64) (*model.Booking, error)
	List(ctx context.Context) ([]*model.Booking, error)
	ListByRoom(ctx context.Context, roomID uint64) ([]*model.Booking, error)
	CountByRoom(ctx context.Context, roomID uint64) (int, error)
	CountActiveByRoom(ctx context.Context, roomID uint64) (int, error)
	HasOverlap(ctx context.Context, roomID uint64, checkIn, checkOut model.Date) (bool, error)
	UpdateStatus(ctx context.Context, id uint64, status, paymentMethod string) error
	Delete(ctx context.Context, id uint64) error
}

// Store hands out repositories and scopes a unit of work in a
// transaction.  Handlers and services receive a Store rather than a
// package level database handle.
type Store interface {
	Rooms() RoomRepository
	Bookings() BookingRepository
	// WithTx runs fn inside a transaction.  The transaction commits when
	// fn returns nil and rolls back on any error or panic.  Calling WithTx
	// on a Store that is already transactional reuses the transaction.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

// SQLStore is the sqlx backed Store used by the application.
type SQLStore struct {
	db      *sqlx.DB
	q       sqlx.ExtContext
	inTx    bool
	dialect string
}

// NewSQLStore wraps an open database.  The driver name selects
// placeholder rebinding, insert id retrieval and row locking syntax.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db, q: db, dialect: db.DriverName()}
}

// DB exposes the underlying handle for health checks.
func (s *SQLStore) DB() *sqlx.DB { return s.db }

func (s *SQLStore) Rooms() RoomRepository {
	return &RoomRepo{q: s.q, dialect: s.dialect, locking: s.inTx}
}

func (s *SQLStore) Bookings() BookingRepository {
	return &BookingRepo{q: s.q, dialect: s.dialect, locking: s.inTx}
}

func (s *SQLStore) WithTx(ctx context.Context, fn func(tx Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err = fn(&SQLStore{db: s.db, q: tx, inTx: true, dialect: s.dialect}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}

// forUpdate returns the row locking clause for the dialect.  SQLite has
// no row locks; its single pooled connection already serialises writers.
func forUpdate(dialect string, locking bool) string {
	if !locking || dialect == database.SQLite {
		return ""
	}
	return " FOR UPDATE"
}

// insertID executes an INSERT and returns the generated id.  Postgres has
// no LastInsertId so the statement is extended with RETURNING id.
func insertID(ctx context.Context, q sqlx.ExtContext, dialect, query string, args ...any) (uint64, error) {
	if dialect == database.Postgres {
		var id uint64
		if err := sqlx.GetContext(ctx, q, &id, q.Rebind(query+" RETURNING id"), args...); err != nil {
			return 0, err
		}
		return id, nil
	}
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// mustAffect turns a zero row update into ErrNotFound.
func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
