package handler // handler package contains the admin panel handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/middleware"
	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/service"
	"github.com/iliyamo/hotel-booking/internal/utils"
)

// AdminHandler serves the admin login and the back office pages.
type AdminHandler struct {
	View       *View
	Rooms      *service.RoomService
	Bookings   *service.BookingService
	Verifier   service.CredentialVerifier
	Secret     string
	SessionTTL time.Duration
	// SecureCookie marks the session cookie Secure (HTTPS only).
	SecureCookie bool
}

// NewAdminHandler panics on nil dependencies or an empty secret.
func NewAdminHandler(v *View, rooms *service.RoomService, bookings *service.BookingService,
	verifier service.CredentialVerifier, secret string, ttl time.Duration) *AdminHandler {
	if v == nil || rooms == nil || bookings == nil || verifier == nil || secret == "" {
		panic("nil dependency passed to NewAdminHandler")
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &AdminHandler{View: v, Rooms: rooms, Bookings: bookings, Verifier: verifier, Secret: secret, SessionTTL: ttl}
}

// LoginForm renders the login page, or skips it for a live session.
func (h *AdminHandler) LoginForm(c echo.Context) error {
	if ck, err := c.Cookie(middleware.SessionCookie); err == nil {
		if _, err := utils.ParseSessionToken(h.Secret, ck.Value); err == nil {
			return c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		}
	}
	return h.View.Render(c, http.StatusOK, "admin_login", "Admin login", nil)
}

// Login checks the credentials and starts a session.
func (h *AdminHandler) Login(c echo.Context) error {
	username := c.FormValue("username")
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Verifier.Verify(ctx, username, c.FormValue("password")); err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			return fail(err)
		}
		c.Logger().Warnf("admin login failed for %q from %s", username, c.RealIP())
		return h.View.RenderError(c, err, "admin_login", "Admin login", map[string]any{"Username": username})
	}
	tok, err := utils.NewSessionToken(h.Secret, username, h.SessionTTL)
	if err != nil {
		return fail(err)
	}
	middleware.SetSession(c, tok, h.SecureCookie)
	return c.Redirect(http.StatusSeeOther, "/admin/dashboard")
}

// Logout ends the session.
func (h *AdminHandler) Logout(c echo.Context) error {
	middleware.ClearSession(c)
	return c.Redirect(http.StatusSeeOther, "/admin?done=logged_out")
}

// Dashboard lists every room and booking.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	rooms, err := h.Rooms.List(ctx)
	if err != nil {
		return fail(err)
	}
	bookings, err := h.Bookings.List(ctx)
	if err != nil {
		return fail(err)
	}
	return h.View.Render(c, http.StatusOK, "admin_dashboard", "Dashboard", map[string]any{
		"Rooms": rooms, "Bookings": bookings,
	})
}

// roomForm holds the raw room form values so they can be shown again.
type roomForm struct {
	Number      string
	RoomType    string
	Price       string
	MinGuests   string
	MaxGuests   string
	MaxAdults   string
	MaxChildren string
	Description string
	Photo       string
}

func readRoomForm(c echo.Context) roomForm {
	return roomForm{
		Number:      c.FormValue("number"),
		RoomType:    c.FormValue("room_type"),
		Price:       c.FormValue("price"),
		MinGuests:   c.FormValue("min_guests"),
		MaxGuests:   c.FormValue("max_guests"),
		MaxAdults:   c.FormValue("max_adults"),
		MaxChildren: c.FormValue("max_children"),
		Description: c.FormValue("description"),
		Photo:       c.FormValue("photo"),
	}
}

func roomFormOf(r *model.Room) roomForm {
	return roomForm{
		Number:      r.Number,
		RoomType:    r.RoomType,
		Price:       model.FormatCents(r.PriceCents),
		MinGuests:   strconv.Itoa(r.MinGuests),
		MaxGuests:   strconv.Itoa(r.MaxGuests),
		MaxAdults:   strconv.Itoa(r.MaxAdults),
		MaxChildren: strconv.Itoa(r.MaxChildren),
		Description: r.Description,
		Photo:       r.Photo,
	}
}

func (f roomForm) input() (service.RoomInput, error) {
	in := service.RoomInput{
		Number:      f.Number,
		RoomType:    f.RoomType,
		Description: f.Description,
		Photo:       f.Photo,
	}
	var err error
	if in.PriceCents, err = service.ParseCents("price", f.Price); err != nil {
		return in, err
	}
	if in.MinGuests, err = service.ParseOptionalInt("min_guests", f.MinGuests); err != nil {
		return in, err
	}
	if in.MaxGuests, err = service.ParseOptionalInt("max_guests", f.MaxGuests); err != nil {
		return in, err
	}
	if in.MaxAdults, err = service.ParseOptionalInt("max_adults", f.MaxAdults); err != nil {
		return in, err
	}
	if in.MaxChildren, err = service.ParseOptionalInt("max_children", f.MaxChildren); err != nil {
		return in, err
	}
	return in, nil
}

// NewRoomForm renders an empty room form.
func (h *AdminHandler) NewRoomForm(c echo.Context) error {
	return h.View.Render(c, http.StatusOK, "room_form", "Add room", map[string]any{
		"Form": roomForm{MinGuests: "1", MaxGuests: "2"}, "Action": "/admin/rooms",
	})
}

// CreateRoom adds a room.
func (h *AdminHandler) CreateRoom(c echo.Context) error {
	form := readRoomForm(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	in, err := form.input()
	if err == nil {
		if _, err = h.Rooms.Create(ctx, in); err == nil {
			return c.Redirect(http.StatusSeeOther, "/admin/dashboard?done=room_created")
		}
	}
	if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrConflict) {
		return h.View.RenderError(c, err, "room_form", "Add room", map[string]any{
			"Form": form, "Action": "/admin/rooms",
		})
	}
	return fail(err)
}

// EditRoomForm renders the room form filled with the current values.
func (h *AdminHandler) EditRoomForm(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	r, err := h.Rooms.Get(ctx, id)
	if err != nil {
		return fail(err)
	}
	return h.View.Render(c, http.StatusOK, "room_form", "Edit room", map[string]any{
		"RoomID": r.ID, "Form": roomFormOf(r), "Action": fmt.Sprintf("/admin/rooms/%d", r.ID),
	})
}

// UpdateRoom saves the room form.  An unknown room is a 404 before the
// form is looked at.
func (h *AdminHandler) UpdateRoom(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	form := readRoomForm(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	in, err := form.input()
	if err == nil {
		if _, err = h.Rooms.Update(ctx, id, in); err == nil {
			return c.Redirect(http.StatusSeeOther, "/admin/dashboard?done=room_updated")
		}
	} else if _, rerr := h.Rooms.Get(ctx, id); rerr != nil {
		err = rerr
	}
	if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrConflict) {
		return h.View.RenderError(c, err, "room_form", "Edit room", map[string]any{
			"RoomID": id, "Form": form, "Action": fmt.Sprintf("/admin/rooms/%d", id),
		})
	}
	return fail(err)
}

// DeleteRoom removes a room without bookings.
func (h *AdminHandler) DeleteRoom(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Rooms.Delete(ctx, id); err != nil {
		return fail(err)
	}
	return c.Redirect(http.StatusSeeOther, "/admin/dashboard?done=room_deleted")
}

// ViewBooking shows one booking with its room.
func (h *AdminHandler) ViewBooking(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	b, err := h.Bookings.Get(ctx, id)
	if err != nil {
		return fail(err)
	}
	data := map[string]any{"Booking": b}
	if r, err := h.Rooms.Get(ctx, b.RoomID); err == nil {
		data["Room"] = r
	}
	return h.View.Render(c, http.StatusOK, "view_booking", fmt.Sprintf("Booking %d", b.ID), data)
}

// ConfirmBooking confirms a pending booking.
func (h *AdminHandler) ConfirmBooking(c echo.Context) error {
	return h.lifecycle(c, "booking_confirmed", h.Bookings.Confirm)
}

// CancelBooking cancels a booking and frees its room.
func (h *AdminHandler) CancelBooking(c echo.Context) error {
	return h.lifecycle(c, "booking_cancelled", h.Bookings.Cancel)
}

// SetBookingStatus applies the status form field ("confirmed", "paid" or
// "cancelled").
func (h *AdminHandler) SetBookingStatus(c echo.Context) error {
	status := c.FormValue("status")
	return h.lifecycle(c, "", func(ctx context.Context, id uint64) (*model.Booking, error) {
		return h.Bookings.SetStatus(ctx, id, status)
	})
}

// DeleteBooking removes a booking.
func (h *AdminHandler) DeleteBooking(c echo.Context) error {
	return h.lifecycle(c, "booking_deleted", func(ctx context.Context, id uint64) (*model.Booking, error) {
		return nil, h.Bookings.Delete(ctx, id)
	})
}

func (h *AdminHandler) lifecycle(c echo.Context, done string,
	apply func(ctx context.Context, id uint64) (*model.Booking, error)) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	b, err := apply(ctx, id)
	if err != nil {
		return fail(err)
	}
	if done == "" && b != nil {
		done = "booking_" + b.Status
	}
	return c.Redirect(http.StatusSeeOther, "/admin/dashboard?done="+done)
}

// ExportBookings downloads every booking and room as an XLSX workbook.
func (h *AdminHandler) ExportBookings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()
	rooms, err := h.Rooms.List(ctx)
	if err != nil {
		return fail(err)
	}
	bookings, err := h.Bookings.List(ctx)
	if err != nil {
		return fail(err)
	}
	var buf bytes.Buffer
	if err := service.WriteBookingsXLSX(&buf, rooms, bookings); err != nil {
		return fail(err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="bookings.xlsx"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
