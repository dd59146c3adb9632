package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/marlett/reservations/internal/handler"
	"github.com/marlett/reservations/internal/middleware"
	"github.com/marlett/reservations/internal/model"
)

// RegisterAdmin registers the admin panel endpoints under /v1/admin.
// All routes require a valid JWT and the ADMIN role.
func RegisterAdmin(e *echo.Echo, r *handler.AdminReservationHandler, s *handler.AdminSettingsHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// ---- Reservations ----
	// static paths first so they do not match /:id
	g.GET("/reservations", r.List)
	g.GET("/reservations/stats", r.Stats)
	g.GET("/reservations/export.csv", r.ExportCSV)
	g.GET("/reservations/export.xlsx", r.ExportXLSX)
	g.POST("/reservations/prune", r.Prune)
	g.GET("/reservations/:id", r.Get)
	g.PATCH("/reservations/:id", r.Update)
	g.PATCH("/reservations/:id/status", r.UpdateStatus)
	g.DELETE("/reservations/:id", r.Delete)
	g.GET("/reservations/:id/pdf", r.PDF)

	// ---- Pricing ----
	g.GET("/pricing", s.Pricing())
	g.PUT("/pricing", s.UpdatePricing())
	g.POST("/pricing/reset", s.ResetPricing())
	g.GET("/pricing/preview", s.PricingPreview())

	// ---- Capacity ----
	g.GET("/capacity", s.Capacity())
	g.PUT("/capacity", s.UpdateCapacity())
	g.POST("/capacity/reset", s.ResetCapacity())

	// ---- Event types ----
	g.GET("/event-types", s.EventTypes())
	g.POST("/event-types", s.CreateEventType())
	g.POST("/event-types/reset", s.ResetEventTypes())
	g.PATCH("/event-types/:id", s.UpdateEventType())
	g.DELETE("/event-types/:id", s.DeleteEventType())

	// ---- Despechos ----
	g.GET("/despechos", s.Despechos())
	g.POST("/despechos", s.CreateDespechos())
	g.POST("/despechos/reset", s.ResetDespechos())
	g.PATCH("/despechos/:id", s.UpdateDespechos())
	g.DELETE("/despechos/:id", s.DeleteDespechos())
}
