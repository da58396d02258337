package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// ParseCents converts a decimal amount such as "100", "100.5" or
// "100.50" into cents.  More than two decimals, signs and empty input
// are rejected.
func ParseCents(field, s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, invalid(field, "is required")
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if hasFrac && (len(frac) == 0 || len(frac) > 2) {
		return 0, invalid(field, "must have at most two decimals")
	}
	for len(frac) < 2 {
		frac += "0"
	}
	w, err := strconv.ParseUint(whole, 10, 62)
	if err != nil {
		return 0, invalid(field, "must be a positive amount")
	}
	if w > (math.MaxInt64-99)/100 {
		return 0, invalid(field, "is too large")
	}
	f, err := strconv.ParseUint(frac, 10, 8)
	if err != nil {
		return 0, invalid(field, "must be a positive amount")
	}
	return int64(w)*100 + int64(f), nil
}

// ParseStay parses the check-in and check-out form values.  The range
// itself is checked when the booking is created.
func ParseStay(checkIn, checkOut string) (model.Date, model.Date, error) {
	in, err := parseDateField("check_in", checkIn)
	if err != nil {
		return model.Date{}, model.Date{}, err
	}
	out, err := parseDateField("check_out", checkOut)
	if err != nil {
		return model.Date{}, model.Date{}, err
	}
	return in, out, nil
}

func parseDateField(field, s string) (model.Date, error) {
	if strings.TrimSpace(s) == "" {
		return model.Date{}, invalid(field, "is required")
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, invalid(field, "must be a date in YYYY-MM-DD form")
	}
	return d, nil
}

// ParseOptionalInt reads a non-negative integer form value; empty means 0.
func ParseOptionalInt(field, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, invalid(field, "must be a whole number")
	}
	return n, nil
}
