package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/marlett/reservations/internal/export"
	"github.com/marlett/reservations/internal/middleware"
	"github.com/marlett/reservations/internal/model"
	"github.com/marlett/reservations/internal/service"
)

// BookingHandler serves the customer side: both booking flows, the
// customer's own reservations and their PDF.  Customers are identified by
// the X-Client-ID header.
type BookingHandler struct {
	log          *slog.Logger
	reservations *service.Reservations
	settings     *service.Settings
}

func NewBookingHandler(log *slog.Logger, reservations *service.Reservations, settings *service.Settings) *BookingHandler {
	return &BookingHandler{log: log, reservations: reservations, settings: settings}
}

type bookingReq struct {
	EventTypeID string   `json:"eventTypeId" validate:"required"`
	Anonymous   bool     `json:"isAnonymous"`
	Name        string   `json:"name"`
	Email       string   `json:"email" validate:"omitempty,email"`
	Phone       string   `json:"phone"`
	Date        string   `json:"date" validate:"required"`
	Time        string   `json:"time" validate:"required"`
	Guests      int      `json:"guests" validate:"required"`
	Duration    float64  `json:"duration" validate:"required"`
	Rooms       []string `json:"rooms"`
	Notes       []string `json:"notes"`
}

func (req bookingReq) input(owner string) (service.BookingInput, error) {
	day, err := model.ParseDate(req.Date)
	if err != nil {
		return service.BookingInput{}, &service.ValidationError{Field: "date", Message: "Fecha inválida."}
	}
	in := service.BookingInput{
		OwnerID:     owner,
		EventTypeID: strings.TrimSpace(req.EventTypeID),
		Anonymous:   req.Anonymous,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Date:        day,
		Time:        strings.TrimSpace(req.Time),
		Guests:      req.Guests,
		Duration:    req.Duration,
		Rooms:       req.Rooms,
		Notes:       req.Notes,
	}
	if in.Anonymous {
		in.Email = ""
	}
	return in, nil
}

func (h *BookingHandler) bind(c echo.Context) (service.BookingInput, error) {
	var req bookingReq
	if err := bindValid(c, &req); err != nil {
		return service.BookingInput{}, err
	}
	return req.input(middleware.ClientID(c))
}

// CreateRegular handles POST /v1/reservations.
func (h *BookingHandler) CreateRegular(c echo.Context) error {
	in, err := h.bind(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	res, err := h.reservations.CreateRegular(ctx, in)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// CreateDespechos handles POST /v1/despechos/reservations.
func (h *BookingHandler) CreateDespechos(c echo.Context) error {
	in, err := h.bind(c)
	if err != nil {
		return fail(c, h.log, err)
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	res, err := h.reservations.CreateDespechos(ctx, in)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Mine handles GET /v1/my/reservations?q=.
func (h *BookingHandler) Mine(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	list, err := h.reservations.ListMine(ctx, middleware.ClientID(c), c.QueryParam("q"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

// PDF handles GET /v1/my/reservations/:id/pdf.  Only the client that booked
// the reservation may download it.
func (h *BookingHandler) PDF(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	res, err := h.reservations.GetOwned(ctx, c.Param("id"), middleware.ClientID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	p, err := h.settings.Pricing(ctx)
	if err != nil {
		return fail(c, h.log, err)
	}

	var buf bytes.Buffer
	if err := export.CustomerPDF(&buf, res, p); err != nil {
		return fail(c, h.log, err)
	}
	return attachment(c, "application/pdf", export.CustomerPDFName(res.ID), buf.Bytes())
}
