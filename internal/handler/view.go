package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/config"
	"github.com/iliyamo/hotel-booking/internal/middleware"
	"github.com/iliyamo/hotel-booking/internal/service"
)

// Page is the data every template receives.
type Page struct {
	Title string
	Hotel config.Hotel
	Admin string
	Flash string
	Error string
	Data  map[string]any
}

// View renders pages with the hotel details filled in.
type View struct {
	Hotel config.Hotel
}

// NewView returns a View for hotel.
func NewView(hotel config.Hotel) *View {
	return &View{Hotel: hotel}
}

// flashes are the confirmation messages a redirect can ask for via ?done=.
var flashes = map[string]string{
	"room_created":      "Room added.",
	"room_updated":      "Room updated.",
	"room_deleted":      "Room deleted.",
	"booking_confirmed": "Booking confirmed.",
	"booking_cancelled": "Booking cancelled.",
	"booking_deleted":   "Booking deleted.",
	"logged_out":        "You have been logged out.",
}

// Render writes the named template with status.
func (v *View) Render(c echo.Context, status int, name, title string, data map[string]any) error {
	return v.render(c, status, name, Page{Title: title, Data: data})
}

// RenderError re-renders a form page with err shown above it.
func (v *View) RenderError(c echo.Context, err error, name, title string, data map[string]any) error {
	return v.render(c, statusOf(err), name, Page{Title: title, Error: userMessage(err), Data: data})
}

func (v *View) render(c echo.Context, status int, name string, p Page) error {
	p.Hotel = v.Hotel
	p.Admin = middleware.AdminUser(c)
	if p.Flash == "" {
		p.Flash = flashes[c.QueryParam("done")]
	}
	if p.Data == nil {
		p.Data = map[string]any{}
	}
	return c.Render(status, name, p)
}

// ErrorHandler is installed as echo's HTTPErrorHandler.  It renders the
// error page for every failed request and logs server errors.
func (v *View) ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		he = fail(err).(*echo.HTTPError)
	}
	if he.Code >= http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	msg, ok := he.Message.(string)
	if !ok || he.Code >= http.StatusInternalServerError {
		msg = "Something went wrong. Please try again later."
	}
	data := map[string]any{
		"Status":     he.Code,
		"StatusText": http.StatusText(he.Code),
		"Message":    msg,
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(he.Code)
	} else {
		err = v.render(c, he.Code, "error", Page{Title: http.StatusText(he.Code), Data: data})
	}
	if err != nil {
		c.Logger().Errorf("render error page: %v", err)
	}
}

// fail converts a service error into an *echo.HTTPError for ErrorHandler.
func fail(err error) error {
	code := statusOf(err)
	msg := userMessage(err)
	if code >= http.StatusInternalServerError {
		msg = http.StatusText(code)
	}
	return echo.NewHTTPError(code, msg).SetInternal(err)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func userMessage(err error) string {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		label := strings.ReplaceAll(ve.Field, "_", " ")
		return strings.ToUpper(label[:1]) + label[1:] + " " + ve.Msg + "."
	case errors.Is(err, service.ErrNotFound):
		return "The page or record you asked for does not exist."
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid username or password."
	case errors.Is(err, service.ErrConflict):
		return conflictMessage(err)
	}
	return "Something went wrong. Please try again later."
}

// conflictMessage keeps the context the service wrapped around
// ErrConflict and drops the sentinel text.
func conflictMessage(err error) string {
	s := strings.TrimSuffix(err.Error(), ": "+service.ErrConflict.Error())
	if s == "" || s == service.ErrConflict.Error() {
		return "The request conflicts with the current state."
	}
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

// idParam parses a numeric path parameter.  Anything unparsable maps to
// ErrNotFound because no record can have that id.
func idParam(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "The page or record you asked for does not exist.")
	}
	return id, nil
}
