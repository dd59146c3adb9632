// Package handler implements the HTTP endpoints.
package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marlett/reservations/internal/lib/logger/sl"
	"github.com/marlett/reservations/internal/service"
)

// requestTimeout bounds the store calls of one request.
const requestTimeout = 5 * time.Second

func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// bindValid binds the JSON body into dst and runs the echo validator.
func bindValid(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return &service.ValidationError{Field: "body", Message: "Cuerpo de la solicitud inválido."}
	}
	return c.Validate(dst)
}

// readBody returns the raw request body for JSON merge patches.
func readBody(c echo.Context) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(c.Request().Body, 1<<20))
	if err != nil {
		return nil, &service.ValidationError{Field: "body", Message: "Cuerpo de la solicitud inválido."}
	}
	return b, nil
}

// fail maps a service error to its HTTP response.  Unexpected errors are
// logged and reported as a generic 500.
func fail(c echo.Context, log *slog.Logger, err error) error {
	var verr *service.ValidationError
	var cerr *service.CapacityError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Message, "field": verr.Field})
	case errors.As(err, &cerr):
		return c.JSON(http.StatusConflict, echo.Map{"error": cerr.Message})
	case errors.Is(err, service.ErrCapacity):
		return c.JSON(http.StatusConflict, echo.Map{"error": "capacity exceeded"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("request timed out", slog.String("path", c.Path()), sl.Err(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable"})
	}
	log.Error("request failed", slog.String("path", c.Path()), sl.Err(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// attachment sets the download headers for a generated file.
func attachment(c echo.Context, contentType, filename string, body []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, contentType, body)
}
