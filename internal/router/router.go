package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marlett/reservations/internal/handler"
	"github.com/marlett/reservations/internal/middleware"
)

// RegisterRoutes registers the operational endpoints: the health check and
// the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo, deps map[string]handler.Pinger, metrics http.Handler) {
	e.GET("/healthz", handler.Health(deps))
	e.GET("/metrics", echo.WrapHandler(metrics))
}

// RegisterAuth registers the administrator session endpoints.  Login,
// refresh and logout live under /v1/auth and need no access token; /v1/me
// does.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	// rotates the refresh token
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterCatalog registers the public catalog.  The read-only listings go
// through the response cache; adding a custom event type is rate limited.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, cache, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/catalog")
	g.GET("/event-types", h.EventTypes, cache)
	g.GET("/despechos", h.Despechos, cache)
	g.GET("/rooms", h.Rooms, cache)
	g.GET("/pricing", h.Pricing, cache)
	g.GET("/rooms-advice", h.RoomsAdvice)

	e.POST("/v1/quotes", h.Quote)
	e.POST("/v1/event-types/custom", h.AddCustomEventType, limit)
}
