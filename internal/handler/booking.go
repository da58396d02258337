package handler // handler package contains the guest booking and payment handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/service"
)

// BookingHandler drives the guest flow: form, payment, confirmation.
type BookingHandler struct {
	View     *View
	Rooms    *service.RoomService
	Bookings *service.BookingService
}

// NewBookingHandler panics on nil dependencies.
func NewBookingHandler(v *View, rooms *service.RoomService, bookings *service.BookingService) *BookingHandler {
	if v == nil || rooms == nil || bookings == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{View: v, Rooms: rooms, Bookings: bookings}
}

// bookingForm holds the raw form values so they can be shown again.
type bookingForm struct {
	RoomID     string
	GuestName  string
	GuestEmail string
	GuestPhone string
	CheckIn    string
	CheckOut   string
}

func readBookingForm(c echo.Context) bookingForm {
	return bookingForm{
		RoomID:     strings.TrimSpace(c.FormValue("room_id")),
		GuestName:  c.FormValue("guest_name"),
		GuestEmail: c.FormValue("guest_email"),
		GuestPhone: c.FormValue("guest_phone"),
		CheckIn:    c.FormValue("check_in"),
		CheckOut:   c.FormValue("check_out"),
	}
}

// NewForm renders the booking form with a room picker.  ?room_id=
// preselects a room.
func (h *BookingHandler) NewForm(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	rooms, err := h.Rooms.ListAvailable(ctx)
	if err != nil {
		return fail(err)
	}
	form := bookingForm{RoomID: c.QueryParam("room_id")}
	return h.View.Render(c, http.StatusOK, "booking_form", "Book a room", map[string]any{
		"Rooms": rooms, "Form": form, "Action": "/booking",
	})
}

// Create books the room named by the room_id form field.
func (h *BookingHandler) Create(c echo.Context) error {
	form := readBookingForm(c)
	id, _ := strconv.ParseUint(form.RoomID, 10, 64)
	return h.create(c, id, form, func(ctx context.Context) map[string]any {
		rooms, _ := h.Rooms.ListAvailable(ctx)
		return map[string]any{"Rooms": rooms, "Form": form, "Action": "/booking"}
	})
}

// RoomForm renders the booking form for one room.
func (h *BookingHandler) RoomForm(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	room, err := h.Rooms.Get(ctx, id)
	if err != nil {
		return fail(err)
	}
	return h.View.Render(c, http.StatusOK, "booking_form", "Book room "+room.Number, map[string]any{
		"Room": room, "Form": bookingForm{}, "Action": fmt.Sprintf("/book/%d", room.ID),
	})
}

// BookRoom books the room in the path.
func (h *BookingHandler) BookRoom(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	form := readBookingForm(c)
	return h.create(c, id, form, func(ctx context.Context) map[string]any {
		room, _ := h.Rooms.Get(ctx, id)
		return map[string]any{"Room": room, "Form": form, "Action": fmt.Sprintf("/book/%d", id)}
	})
}

// create runs the booking and redirects to payment.  Validation and
// conflict errors re-render the form via formData; an unknown room is a
// 404 even when the rest of the form is invalid.
func (h *BookingHandler) create(c echo.Context, roomID uint64, form bookingForm,
	formData func(ctx context.Context) map[string]any) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	req := service.BookingRequest{
		RoomID:     roomID,
		GuestName:  form.GuestName,
		GuestEmail: form.GuestEmail,
		GuestPhone: form.GuestPhone,
	}
	var err error
	req.CheckIn, req.CheckOut, err = service.ParseStay(form.CheckIn, form.CheckOut)
	if err == nil {
		var b *model.Booking
		if b, err = h.Bookings.Create(ctx, req); err == nil {
			return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/payment/%d", b.ID))
		}
	} else if roomID == 0 {
		err = fmt.Errorf("room: %w", service.ErrNotFound)
	} else if _, rerr := h.Rooms.Get(ctx, roomID); rerr != nil {
		err = rerr
	}
	if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrConflict) {
		return h.View.RenderError(c, err, "booking_form", "Book a room", formData(ctx))
	}
	return fail(err)
}

// PaymentForm shows the booking summary and the payment method picker.
func (h *BookingHandler) PaymentForm(c echo.Context) error {
	b, err := h.booking(c)
	if err != nil {
		return err
	}
	return h.View.Render(c, http.StatusOK, "payment", "Payment", map[string]any{
		"Booking": b, "PaymentMethods": model.PaymentMethods,
	})
}

// Pay confirms the booking with the chosen method.  Paying twice just
// lands on the confirmation page again.
func (h *BookingHandler) Pay(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	b, err := h.Bookings.Pay(ctx, id, c.FormValue("payment_method"))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			if cur, gerr := h.Bookings.Get(ctx, id); gerr == nil {
				return h.View.RenderError(c, err, "payment", "Payment", map[string]any{
					"Booking": cur, "PaymentMethods": model.PaymentMethods,
				})
			}
		}
		return fail(err)
	}
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/booking/confirmation/%d", b.ID))
}

// Confirmation shows the booking after payment.
func (h *BookingHandler) Confirmation(c echo.Context) error {
	b, err := h.booking(c)
	if err != nil {
		return err
	}
	return h.View.Render(c, http.StatusOK, "confirmation", "Booking confirmation", map[string]any{"Booking": b})
}

func (h *BookingHandler) booking(c echo.Context) (*model.Booking, error) {
	id, err := idParam(c, "id")
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	b, err := h.Bookings.Get(ctx, id)
	if err != nil {
		return nil, fail(err)
	}
	return b, nil
}
