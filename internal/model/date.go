package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of a calendar date.
const DateLayout = "2006-01-02"

// Date is a calendar day without a time of day.  Check-in and check-out
// dates use it everywhere so the store, the forms and the templates agree
// on one representation.  It is stored as YYYY-MM-DD text on SQLite and
// as a DATE column on MySQL and Postgres.
type Date struct {
	time.Time
}

// NewDate returns the date of t in UTC with the clock zeroed.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string as submitted by an HTML date input.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }

// DaysUntil returns the whole number of days from d to o.
func (d Date) DaysUntil(o Date) int {
	return int(o.dayNumber() - d.dayNumber())
}

// dayNumber counts days since the Unix epoch, flooring for earlier dates.
func (d Date) dayNumber() int64 {
	u := d.Unix()
	n := u / secondsPerDay
	if u%secondsPerDay < 0 {
		n--
	}
	return n
}

const secondsPerDay = 24 * 60 * 60

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Format(DateLayout), nil
}

// Scan implements sql.Scanner.  MySQL (parseTime=true) and Postgres hand
// back time.Time, SQLite hands back text.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v.Year(), v.Month(), v.Day())
		return nil
	case string:
		return d.scanText(v)
	case []byte:
		return d.scanText(string(v))
	}
	return fmt.Errorf("model: cannot scan %T into Date", src)
}

func (d *Date) scanText(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	p, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = p
	return nil
}

// Timestamp is a UTC instant that scans from every supported driver.
// SQLite keeps timestamps as text, so the database/sql default conversion
// into time.Time is not enough there.
type Timestamp struct {
	time.Time
}

// Now returns the current time truncated to seconds.
func Now() Timestamp {
	return Timestamp{time.Now().UTC().Truncate(time.Second)}
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05",
	DateLayout,
}

// Value implements driver.Valuer.
func (t Timestamp) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.UTC().Format("2006-01-02 15:04:05"), nil
}

// Scan implements sql.Scanner.
func (t *Timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Timestamp{}
		return nil
	case time.Time:
		*t = Timestamp{v.UTC()}
		return nil
	case string:
		return t.scanText(v)
	case []byte:
		return t.scanText(string(v))
	}
	return fmt.Errorf("model: cannot scan %T into Timestamp", src)
}

func (t *Timestamp) scanText(s string) error {
	for _, layout := range timestampLayouts {
		if p, err := time.Parse(layout, s); err == nil {
			*t = Timestamp{p.UTC()}
			return nil
		}
	}
	return fmt.Errorf("model: unrecognised timestamp %q", s)
}
