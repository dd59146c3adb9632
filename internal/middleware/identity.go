package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HeaderClientID carries the anonymous customer identity.  Browsers keep
// the value they are given and send it back on every request.
const HeaderClientID = "X-Client-ID"

const ctxClientID = "client_id"

// ClientIdentity resolves the anonymous client id of the request.  A
// missing or malformed X-Client-ID gets a fresh UUID.  The id in use is
// always echoed in the response header.
func ClientIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(HeaderClientID)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			c.Set(ctxClientID, id)
			c.Response().Header().Set(HeaderClientID, id)
			return next(c)
		}
	}
}

// ClientID returns the id resolved by ClientIdentity, or "".
func ClientID(c echo.Context) string {
	id, _ := c.Get(ctxClientID).(string)
	return id
}
