package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/marlett/reservations/internal/lib/logger/sl"
	"github.com/marlett/reservations/internal/model"
	"github.com/marlett/reservations/internal/pricing"
	"github.com/marlett/reservations/internal/service"
)

// CacheInvalidator drops every cached catalog response.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type noCache struct{}

func (noCache) Invalidate(context.Context) error { return nil }

// CatalogHandler serves the public catalog: event types, despechos
// packages, rooms, prices and quotes.
type CatalogHandler struct {
	log          *slog.Logger
	settings     *service.Settings
	reservations *service.Reservations
	cache        CacheInvalidator
}

// NewCatalogHandler builds the handler.  cache may be nil.
func NewCatalogHandler(log *slog.Logger, settings *service.Settings, reservations *service.Reservations, cache CacheInvalidator) *CatalogHandler {
	if cache == nil {
		cache = noCache{}
	}
	return &CatalogHandler{log: log, settings: settings, reservations: reservations, cache: cache}
}

// invalidate is best effort: a stale cache entry expires with its TTL.
func invalidate(ctx context.Context, log *slog.Logger, cache CacheInvalidator) {
	if err := cache.Invalidate(ctx); err != nil {
		log.Warn("cache invalidation failed", sl.Err(err))
	}
}

func (h *CatalogHandler) EventTypes(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	list, err := h.settings.ActiveEventTypes(ctx)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CatalogHandler) Despechos(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	list, err := h.settings.ActiveDespechosEvents(ctx)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CatalogHandler) Rooms(c echo.Context) error {
	return c.JSON(http.StatusOK, model.DefaultRooms())
}

func (h *CatalogHandler) Pricing(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	p, err := h.settings.Pricing(ctx)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// RoomsAdvice handles GET /v1/catalog/rooms-advice?guests=N.
func (h *CatalogHandler) RoomsAdvice(c echo.Context) error {
	guests, err := strconv.Atoi(c.QueryParam("guests"))
	if err != nil || guests <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid guests", "field": "guests"})
	}
	return c.JSON(http.StatusOK, pricing.RoomsAdvice(guests))
}

type quoteReq struct {
	Variant     string  `json:"variant" validate:"omitempty,oneof=regular despechos"`
	EventTypeID string  `json:"eventTypeId" validate:"required"`
	Guests      int     `json:"guests" validate:"required,gt=0"`
	Duration    float64 `json:"duration" validate:"required,gt=0"`
	Rooms       int     `json:"rooms" validate:"gte=0"`
}

// Quote handles POST /v1/quotes.  Nothing is stored.
func (h *CatalogHandler) Quote(c echo.Context) error {
	var req quoteReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	q, err := h.reservations.Quote(ctx, service.QuoteInput{
		Variant:     model.Variant(req.Variant),
		EventTypeID: req.EventTypeID,
		Guests:      req.Guests,
		Duration:    req.Duration,
		Rooms:       req.Rooms,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, q)
}

type customEventReq struct {
	Name string `json:"name"`
}

// AddCustomEventType handles POST /v1/event-types/custom.
func (h *CatalogHandler) AddCustomEventType(c echo.Context) error {
	var req customEventReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	et, err := h.settings.AddCustomEventType(ctx, req.Name)
	if err != nil {
		return fail(c, h.log, err)
	}
	invalidate(ctx, h.log, h.cache)
	return c.JSON(http.StatusCreated, et)
}
