package handler // handler package contains the public room listing handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/service"
)

// RoomHandler serves the public room listing and detail pages.
type RoomHandler struct {
	View  *View
	Rooms *service.RoomService
}

// NewRoomHandler panics on nil dependencies.
func NewRoomHandler(v *View, rooms *service.RoomService) *RoomHandler {
	if v == nil || rooms == nil {
		panic("nil dependency passed to NewRoomHandler")
	}
	return &RoomHandler{View: v, Rooms: rooms}
}

// Available lists every room that can be booked right now.
func (h *RoomHandler) Available(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second) // bound the DB work to the request
	defer cancel()
	rooms, err := h.Rooms.ListAvailable(ctx) // rooms without an active booking
	if err != nil {
		return fail(err) // rendered by the central error handler
	}
	return h.View.Render(c, http.StatusOK, "rooms", "Available rooms", map[string]any{"Rooms": rooms})
}

// Detail shows one room.
func (h *RoomHandler) Detail(c echo.Context) error {
	id, err := idParam(c, "id") // a malformed id is a 404, not a 400
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	room, err := h.Rooms.Get(ctx, id)
	if err != nil {
		return fail(err) // ErrNotFound maps to 404
	}
	return h.View.Render(c, http.StatusOK, "room_detail", "Room "+room.Number, map[string]any{"Room": room})
}
