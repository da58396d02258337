package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// The rooms and bookings tables per dialect.  bookings.room_id is a
// restricting foreign key: a room cannot disappear from under a booking.
var schemas = map[string][]string{
	SQLite: {
		`CREATE TABLE IF NOT EXISTS rooms (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			number TEXT NOT NULL UNIQUE,
			room_type TEXT NOT NULL,
			price_cents INTEGER NOT NULL,
			min_guests INTEGER NOT NULL DEFAULT 1,
			max_guests INTEGER NOT NULL DEFAULT 2,
			max_adults INTEGER NOT NULL DEFAULT 0,
			max_children INTEGER NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			photo TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'available',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			reference TEXT NOT NULL UNIQUE,
			room_id INTEGER NOT NULL REFERENCES rooms(id) ON DELETE RESTRICT,
			guest_name TEXT NOT NULL,
			guest_email TEXT NOT NULL,
			guest_phone TEXT NOT NULL,
			room_type TEXT NOT NULL,
			price_cents INTEGER NOT NULL,
			nights INTEGER NOT NULL,
			total_cents INTEGER NOT NULL,
			check_in TEXT NOT NULL,
			check_out TEXT NOT NULL,
			payment_method TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_room ON bookings(room_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_rooms_status ON rooms(status)`,
	},
	MySQL: {
		`CREATE TABLE IF NOT EXISTS rooms (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			number VARCHAR(100) NOT NULL UNIQUE,
			room_type VARCHAR(100) NOT NULL,
			price_cents BIGINT NOT NULL,
			min_guests INT NOT NULL DEFAULT 1,
			max_guests INT NOT NULL DEFAULT 2,
			max_adults INT NOT NULL DEFAULT 0,
			max_children INT NOT NULL DEFAULT 0,
			description TEXT NOT NULL,
			photo VARCHAR(255) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'available',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			INDEX idx_rooms_status (status)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			reference CHAR(36) NOT NULL UNIQUE,
			room_id BIGINT UNSIGNED NOT NULL,
			guest_name VARCHAR(100) NOT NULL,
			guest_email VARCHAR(120) NOT NULL,
			guest_phone VARCHAR(20) NOT NULL,
			room_type VARCHAR(100) NOT NULL,
			price_cents BIGINT NOT NULL,
			nights INT NOT NULL,
			total_cents BIGINT NOT NULL,
			check_in DATE NOT NULL,
			check_out DATE NOT NULL,
			payment_method VARCHAR(50) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			INDEX idx_bookings_room (room_id, status),
			CONSTRAINT fk_bookings_room FOREIGN KEY (room_id) REFERENCES rooms(id) ON DELETE RESTRICT
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	},
	Postgres: {
		`CREATE TABLE IF NOT EXISTS rooms (
			id BIGSERIAL PRIMARY KEY,
			number VARCHAR(100) NOT NULL UNIQUE,
			room_type VARCHAR(100) NOT NULL,
			price_cents BIGINT NOT NULL,
			min_guests INT NOT NULL DEFAULT 1,
			max_guests INT NOT NULL DEFAULT 2,
			max_adults INT NOT NULL DEFAULT 0,
			max_children INT NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			photo VARCHAR(255) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'available',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id BIGSERIAL PRIMARY KEY,
			reference CHAR(36) NOT NULL UNIQUE,
			room_id BIGINT NOT NULL REFERENCES rooms(id) ON DELETE RESTRICT,
			guest_name VARCHAR(100) NOT NULL,
			guest_email VARCHAR(120) NOT NULL,
			guest_phone VARCHAR(20) NOT NULL,
			room_type VARCHAR(100) NOT NULL,
			price_cents BIGINT NOT NULL,
			nights INT NOT NULL,
			total_cents BIGINT NOT NULL,
			check_in DATE NOT NULL,
			check_out DATE NOT NULL,
			payment_method VARCHAR(50) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_room ON bookings(room_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_rooms_status ON rooms(status)`,
	},
}

// Migrate creates the tables if they do not exist yet.  Every statement is
// idempotent so it runs on each start.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	stmts, ok := schemas[db.DriverName()]
	if !ok {
		return fmt.Errorf("database: no schema for driver %q", db.DriverName())
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("database: migrate: %w", err)
		}
	}
	return nil
}
