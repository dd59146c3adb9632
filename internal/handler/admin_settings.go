package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marlett/reservations/internal/service"
)

// AdminSettingsHandler manages prices, capacity limits and both event
// catalogs.  Every change drops the cached catalog responses.
type AdminSettingsHandler struct {
	log      *slog.Logger
	settings *service.Settings
	cache    CacheInvalidator
}

// NewAdminSettingsHandler builds the handler.  cache may be nil.
func NewAdminSettingsHandler(log *slog.Logger, settings *service.Settings, cache CacheInvalidator) *AdminSettingsHandler {
	if cache == nil {
		cache = noCache{}
	}
	return &AdminSettingsHandler{log: log, settings: settings, cache: cache}
}

// read serves a settings getter.
func read[T any](h *AdminSettingsHandler, fn func(context.Context) (T, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := withTimeout(c)
		defer cancel()

		v, err := fn(ctx)
		if err != nil {
			return fail(c, h.log, err)
		}
		return c.JSON(http.StatusOK, v)
	}
}

// mutate serves a settings change that takes the raw JSON body.
func mutate[T any](h *AdminSettingsHandler, status int, fn func(context.Context, echo.Context, []byte) (T, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		body, err := readBody(c)
		if err != nil {
			return fail(c, h.log, err)
		}

		ctx, cancel := withTimeout(c)
		defer cancel()

		v, err := fn(ctx, c, body)
		if err != nil {
			return fail(c, h.log, err)
		}
		invalidate(ctx, h.log, h.cache)
		return c.JSON(status, v)
	}
}

// reset serves a restore-defaults endpoint.
func reset[T any](h *AdminSettingsHandler, fn func(context.Context) (T, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := withTimeout(c)
		defer cancel()

		v, err := fn(ctx)
		if err != nil {
			return fail(c, h.log, err)
		}
		invalidate(ctx, h.log, h.cache)
		return c.JSON(http.StatusOK, v)
	}
}

// remove serves a catalog entry deletion.
func remove(h *AdminSettingsHandler, fn func(context.Context, string) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := withTimeout(c)
		defer cancel()

		if err := fn(ctx, c.Param("id")); err != nil {
			return fail(c, h.log, err)
		}
		invalidate(ctx, h.log, h.cache)
		return c.NoContent(http.StatusNoContent)
	}
}

// ----- pricing -----

func (h *AdminSettingsHandler) Pricing() echo.HandlerFunc {
	return read(h, h.settings.Pricing)
}

// UpdatePricing handles PUT /v1/admin/pricing.  The body may carry any
// subset of the rates.
func (h *AdminSettingsHandler) UpdatePricing() echo.HandlerFunc {
	return mutate(h, http.StatusOK, func(ctx context.Context, _ echo.Context, body []byte) (any, error) {
		return h.settings.UpdatePricing(ctx, body)
	})
}

func (h *AdminSettingsHandler) ResetPricing() echo.HandlerFunc {
	return reset(h, h.settings.ResetPricing)
}

func (h *AdminSettingsHandler) PricingPreview() echo.HandlerFunc {
	return read(h, h.settings.PricingPreview)
}

// ----- capacity -----

func (h *AdminSettingsHandler) Capacity() echo.HandlerFunc {
	return read(h, h.settings.Capacity)
}

func (h *AdminSettingsHandler) UpdateCapacity() echo.HandlerFunc {
	return mutate(h, http.StatusOK, func(ctx context.Context, _ echo.Context, body []byte) (any, error) {
		return h.settings.UpdateCapacity(ctx, body)
	})
}

func (h *AdminSettingsHandler) ResetCapacity() echo.HandlerFunc {
	return reset(h, h.settings.ResetCapacity)
}

// ----- event types -----

// EventTypes lists the whole catalog, inactive types included.
func (h *AdminSettingsHandler) EventTypes() echo.HandlerFunc {
	return read(h, h.settings.EventTypes)
}

func (h *AdminSettingsHandler) CreateEventType() echo.HandlerFunc {
	return mutate(h, http.StatusCreated, func(ctx context.Context, _ echo.Context, body []byte) (any, error) {
		return h.settings.CreateEventType(ctx, body)
	})
}

func (h *AdminSettingsHandler) UpdateEventType() echo.HandlerFunc {
	return mutate(h, http.StatusOK, func(ctx context.Context, c echo.Context, body []byte) (any, error) {
		return h.settings.UpdateEventType(ctx, c.Param("id"), body)
	})
}

func (h *AdminSettingsHandler) DeleteEventType() echo.HandlerFunc {
	return remove(h, h.settings.DeleteEventType)
}

func (h *AdminSettingsHandler) ResetEventTypes() echo.HandlerFunc {
	return reset(h, h.settings.ResetEventTypes)
}

// ----- despechos -----

func (h *AdminSettingsHandler) Despechos() echo.HandlerFunc {
	return read(h, h.settings.DespechosEvents)
}

func (h *AdminSettingsHandler) CreateDespechos() echo.HandlerFunc {
	return mutate(h, http.StatusCreated, func(ctx context.Context, _ echo.Context, body []byte) (any, error) {
		return h.settings.CreateDespechosEvent(ctx, body)
	})
}

func (h *AdminSettingsHandler) UpdateDespechos() echo.HandlerFunc {
	return mutate(h, http.StatusOK, func(ctx context.Context, c echo.Context, body []byte) (any, error) {
		return h.settings.UpdateDespechosEvent(ctx, c.Param("id"), body)
	})
}

func (h *AdminSettingsHandler) DeleteDespechos() echo.HandlerFunc {
	return remove(h, h.settings.DeleteDespechosEvent)
}

func (h *AdminSettingsHandler) ResetDespechos() echo.HandlerFunc {
	return reset(h, h.settings.ResetDespechosEvents)
}
