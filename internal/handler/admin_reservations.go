package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/marlett/reservations/internal/export"
	"github.com/marlett/reservations/internal/model"
	"github.com/marlett/reservations/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminReservationHandler groups the reservation management endpoints of
// the admin panel.  JWT authentication and the ADMIN role are enforced by
// middleware.
type AdminReservationHandler struct {
	log          *slog.Logger
	reservations *service.Reservations
	settings     *service.Settings
}

func NewAdminReservationHandler(log *slog.Logger, reservations *service.Reservations, settings *service.Settings) *AdminReservationHandler {
	return &AdminReservationHandler{log: log, reservations: reservations, settings: settings}
}

func filterFrom(c echo.Context) service.Filter {
	active, _ := strconv.ParseBool(c.QueryParam("active"))
	return service.Filter{
		Query:      c.QueryParam("q"),
		Status:     strings.TrimSpace(c.QueryParam("status")),
		ActiveOnly: active,
	}
}

// List handles GET /v1/admin/reservations?q=&status=&active=.
func (h *AdminReservationHandler) List(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	list, err := h.reservations.List(ctx, filterFrom(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AdminReservationHandler) Stats(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	st, err := h.reservations.Stats(ctx)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, st)
}

// ExportCSV and ExportXLSX honour the same query filters as List.
func (h *AdminReservationHandler) ExportCSV(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	list, err := h.reservations.List(ctx, filterFrom(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	var buf bytes.Buffer
	if err := export.CSV(&buf, list); err != nil {
		return fail(c, h.log, err)
	}
	return attachment(c, "text/csv; charset=utf-8", export.CSVFilename, buf.Bytes())
}

func (h *AdminReservationHandler) ExportXLSX(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	list, err := h.reservations.List(ctx, filterFrom(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	var buf bytes.Buffer
	if err := export.XLSX(&buf, list); err != nil {
		return fail(c, h.log, err)
	}
	return attachment(c, xlsxContentType, export.XLSXFilename, buf.Bytes())
}

func (h *AdminReservationHandler) Get(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	res, err := h.reservations.Get(ctx, c.Param("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

type editReq struct {
	Name     *string       `json:"name"`
	Email    *string       `json:"email" validate:"omitempty,email"`
	Phone    *string       `json:"phone"`
	Date     *model.Date   `json:"date"`
	Time     *string       `json:"time"`
	Guests   *int          `json:"guests" validate:"omitempty,gt=0"`
	Duration *float64      `json:"duration" validate:"omitempty,gt=0"`
	Status   *model.Status `json:"status"`
	Notes    []string      `json:"notes"`
}

// Update handles PATCH /v1/admin/reservations/:id.  Absent fields are left
// unchanged.
func (h *AdminReservationHandler) Update(c echo.Context) error {
	var req editReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	res, err := h.reservations.Edit(ctx, c.Param("id"), service.EditInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Date:     req.Date,
		Time:     req.Time,
		Guests:   req.Guests,
		Duration: req.Duration,
		Status:   req.Status,
		Notes:    req.Notes,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

type statusReq struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus handles PATCH /v1/admin/reservations/:id/status.
func (h *AdminReservationHandler) UpdateStatus(c echo.Context) error {
	var req statusReq
	if err := bindValid(c, &req); err != nil {
		return fail(c, h.log, err)
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	res, err := h.reservations.UpdateStatus(ctx, c.Param("id"), model.Status(req.Status))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AdminReservationHandler) Delete(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	if err := h.reservations.Delete(ctx, c.Param("id")); err != nil {
		return fail(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PDF handles GET /v1/admin/reservations/:id/pdf, the internal event
// summary with the real contact data.
func (h *AdminReservationHandler) PDF(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	res, err := h.reservations.Get(ctx, c.Param("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	p, err := h.settings.Pricing(ctx)
	if err != nil {
		return fail(c, h.log, err)
	}

	var buf bytes.Buffer
	if err := export.AdminPDF(&buf, res, p); err != nil {
		return fail(c, h.log, err)
	}
	return attachment(c, "application/pdf", export.AdminPDFName(res.ID), buf.Bytes())
}

// Prune handles POST /v1/admin/reservations/prune: reservations dated
// before today are deleted.
func (h *AdminReservationHandler) Prune(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	n, err := h.reservations.PrunePast(ctx, h.reservations.Today())
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}
