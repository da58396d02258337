package service

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// Sheet names of the booking export.
const (
	BookingsSheet = "Bookings"
	RoomsSheet    = "Rooms"
)

var (
	bookingHeader = []any{"ID", "Reference", "Room", "Room type", "Guest", "Email", "Phone",
		"Check-in", "Check-out", "Nights", "Nightly rate", "Total", "Payment", "Status", "Created"}
	roomHeader = []any{"ID", "Number", "Type", "Nightly rate", "Min guests", "Max guests", "Status"}
)

// WriteBookingsXLSX writes a workbook with one row per booking on the
// Bookings sheet and one row per room on the Rooms sheet.
func WriteBookingsXLSX(w io.Writer, rooms []*model.Room, bookings []*model.Booking) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", BookingsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(RoomsSheet); err != nil {
		return err
	}

	numbers := make(map[uint64]string, len(rooms))
	for _, r := range rooms {
		numbers[r.ID] = r.Number
	}

	if err := f.SetSheetRow(BookingsSheet, "A1", &bookingHeader); err != nil {
		return err
	}
	for i, b := range bookings {
		room := numbers[b.RoomID]
		if room == "" {
			room = fmt.Sprintf("#%d", b.RoomID)
		}
		row := []any{b.ID, b.Reference, room, b.RoomType, b.GuestName, b.GuestEmail, b.GuestPhone,
			b.CheckIn.String(), b.CheckOut.String(), b.Nights, b.Price(), b.Total(),
			b.PaymentMethod, b.Status, b.CreatedAt.Format("2006-01-02 15:04")}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(BookingsSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetSheetRow(RoomsSheet, "A1", &roomHeader); err != nil {
		return err
	}
	for i, r := range rooms {
		row := []any{r.ID, r.Number, r.RoomType, r.Price(), r.MinGuests, r.MaxGuests, r.Status}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(RoomsSheet, cell, &row); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}
