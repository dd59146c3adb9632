package router

import (
	"github.com/labstack/echo/v4"

	"github.com/marlett/reservations/internal/handler"
)

// RegisterBooking registers the customer endpoints.  There is no login:
// customers are told apart by the X-Client-ID header set by the
// ClientIdentity middleware, and both booking flows are rate limited.
func RegisterBooking(e *echo.Echo, h *handler.BookingHandler, limit echo.MiddlewareFunc) {
	e.POST("/v1/reservations", h.CreateRegular, limit)
	e.POST("/v1/despechos/reservations", h.CreateDespechos, limit)

	g := e.Group("/v1/my")
	g.GET("/reservations", h.Mine)
	g.GET("/reservations/:id/pdf", h.PDF)
}
