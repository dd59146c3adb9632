package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is a dependency whose reachability is reported by the health check.
type Pinger func(ctx context.Context) error

// Health reports "ok" and the state of each named dependency.  The service
// stays healthy when a dependency is down, since every store has a local
// fallback.
func Health(deps map[string]Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := make(map[string]string, len(deps))
		for name, ping := range deps {
			if err := ping(ctx); err != nil {
				status[name] = "down"
			} else {
				status[name] = "up"
			}
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "dependencies": status})
	}
}
