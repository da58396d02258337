package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PageHandler serves the informational pages.
type PageHandler struct {
	View *View
}

// NewPageHandler panics on a nil view.
func NewPageHandler(v *View) *PageHandler {
	if v == nil {
		panic("nil view passed to NewPageHandler")
	}
	return &PageHandler{View: v}
}

func (h *PageHandler) static(name, title string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h.View.Render(c, http.StatusOK, name, title, nil)
	}
}

func (h *PageHandler) Index() echo.HandlerFunc   { return h.static("index", "") }
func (h *PageHandler) About() echo.HandlerFunc   { return h.static("about", "About") }
func (h *PageHandler) Gallery() echo.HandlerFunc { return h.static("gallery", "Gallery") }
func (h *PageHandler) Room() echo.HandlerFunc    { return h.static("room", "Rooms") }
func (h *PageHandler) Service() echo.HandlerFunc { return h.static("services", "Services") }
func (h *PageHandler) Dining() echo.HandlerFunc  { return h.static("dining", "Dining") }
func (h *PageHandler) Events() echo.HandlerFunc  { return h.static("events", "Events") }
