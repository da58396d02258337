package router // package router registers every HTTP route of the hotel site

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/handler"
	"github.com/iliyamo/hotel-booking/internal/middleware"
)

// Handlers bundles the guest facing handlers.
type Handlers struct {
	Pages    *handler.PageHandler
	Rooms    *handler.RoomHandler
	Bookings *handler.BookingHandler
}

// Middlewares are the optional Redis backed layers.  Nil entries are
// skipped.
type Middlewares struct {
	// PageCache wraps the informational pages only; listings and forms
	// always render fresh.
	PageCache echo.MiddlewareFunc
	// RateLimit guards the form posts.
	RateLimit echo.MiddlewareFunc
}

// RegisterRoutes registers the health check.
func RegisterRoutes(e *echo.Echo, health echo.HandlerFunc) {
	e.GET("/healthz", health)
}

// RegisterPublic registers the guest facing pages and the booking flow.
func RegisterPublic(e *echo.Echo, h Handlers, mw Middlewares) {
	cached := use(mw.PageCache)
	limited := use(mw.RateLimit)

	e.GET("/", h.Pages.Index(), cached...)
	e.GET("/about", h.Pages.About(), cached...)
	e.GET("/gallery", h.Pages.Gallery(), cached...)
	e.GET("/room", h.Pages.Room(), cached...)
	e.GET("/service", h.Pages.Service(), cached...)
	e.GET("/dining", h.Pages.Dining(), cached...)
	e.GET("/events", h.Pages.Events(), cached...)

	// Legacy links point at the same listing under three names.
	e.GET("/rooms", h.Rooms.Available)
	e.GET("/customer", h.Rooms.Available)
	e.GET("/room_details", h.Rooms.Available)
	e.GET("/rooms/:id", h.Rooms.Detail)

	e.GET("/booking", h.Bookings.NewForm)
	e.POST("/booking", h.Bookings.Create, limited...)
	e.GET("/book/:id", h.Bookings.RoomForm)
	e.POST("/book/:id", h.Bookings.BookRoom, limited...)
	e.GET("/payment/:id", h.Bookings.PaymentForm)
	e.POST("/payment/:id", h.Bookings.Pay, limited...)
	e.GET("/booking/confirmation/:id", h.Bookings.Confirmation)
}

// RegisterAdmin registers the login routes and the admin group guarded by
// the session cookie.  Every state change is a POST.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, mw Middlewares) {
	e.GET("/admin", a.LoginForm)
	e.POST("/admin", a.Login, use(mw.RateLimit)...)
	e.GET("/admin/logout", a.Logout)
	e.GET("/logout", a.Logout)

	g := e.Group("/admin", middleware.RequireAdmin(a.Secret))
	g.GET("/dashboard", a.Dashboard)

	g.GET("/rooms/new", a.NewRoomForm)
	g.POST("/rooms", a.CreateRoom)
	g.GET("/rooms/:id/edit", a.EditRoomForm)
	g.POST("/rooms/:id", a.UpdateRoom)
	g.POST("/rooms/:id/delete", a.DeleteRoom)

	g.GET("/bookings/export", a.ExportBookings)
	g.GET("/bookings/:id", a.ViewBooking)
	g.POST("/bookings/:id/confirm", a.ConfirmBooking)
	g.POST("/bookings/:id/cancel", a.CancelBooking)
	g.POST("/bookings/:id/delete", a.DeleteBooking)
	g.POST("/bookings/:id/status", a.SetBookingStatus)
}

func use(mw echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if mw == nil {
		return nil
	}
	return []echo.MiddlewareFunc{mw}
}
