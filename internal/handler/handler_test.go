package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlett/reservations/internal/metrics"
	"github.com/marlett/reservations/internal/middleware"
	"github.com/marlett/reservations/internal/model"
	"github.com/marlett/reservations/internal/service"
	"github.com/marlett/reservations/internal/store"
)

const secret = "test-secret"

type countingCache struct{ n int }

func (c *countingCache) Invalidate(context.Context) error {
	c.n++
	return nil
}

type server struct {
	e     *echo.Echo
	cache *countingCache
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newServer(t *testing.T) server {
	t.Helper()
	kv := store.NewMemoryKV(100)
	t.Cleanup(kv.Stop)

	log := discard()
	m := metrics.New()
	settings := service.NewSettings(log, nil, store.NewSettings(kv), m)
	reservations := service.NewReservations(log, nil, store.NewReservations(kv), settings, nil, m, time.UTC)

	users, err := store.NewEnvUsers("admin@marlett.com", "s3cret!", 4)
	require.NoError(t, err)

	cache := &countingCache{}
	e := echo.New()
	e.Validator = NewRequestValidator()
	e.Use(middleware.ClientIdentity())

	auth := NewAuthHandler(log, TokenSettings{Secret: secret, AccessTTLMin: 5, RefreshTTLDays: 1}, users, store.NewTokens(kv))
	e.POST("/login", auth.Login)
	e.POST("/refresh", auth.Refresh)
	e.POST("/refresh-access", auth.RefreshAccess)
	e.POST("/logout", auth.Logout)
	e.GET("/me", auth.Me, middleware.JWTAuth(secret))

	catalog := NewCatalogHandler(log, settings, reservations, cache)
	e.GET("/catalog/event-types", catalog.EventTypes)
	e.GET("/catalog/rooms-advice", catalog.RoomsAdvice)
	e.POST("/quotes", catalog.Quote)
	e.POST("/event-types/custom", catalog.AddCustomEventType)

	booking := NewBookingHandler(log, reservations, settings)
	e.POST("/reservations", booking.CreateRegular)
	e.POST("/despechos/reservations", booking.CreateDespechos)
	e.GET("/my/reservations", booking.Mine)
	e.GET("/my/reservations/:id/pdf", booking.PDF)

	admin := NewAdminReservationHandler(log, reservations, settings)
	e.GET("/admin/reservations", admin.List)
	e.GET("/admin/reservations/stats", admin.Stats)
	e.GET("/admin/reservations/export.csv", admin.ExportCSV)
	e.GET("/admin/reservations/:id", admin.Get)
	e.PATCH("/admin/reservations/:id", admin.Update)
	e.PATCH("/admin/reservations/:id/status", admin.UpdateStatus)
	e.DELETE("/admin/reservations/:id", admin.Delete)
	e.GET("/admin/reservations/:id/pdf", admin.PDF)

	s := NewAdminSettingsHandler(log, settings, cache)
	e.GET("/admin/pricing", s.Pricing())
	e.PUT("/admin/pricing", s.UpdatePricing())
	e.POST("/admin/pricing/reset", s.ResetPricing())
	e.GET("/admin/event-types", s.EventTypes())
	e.PATCH("/admin/event-types/:id", s.UpdateEventType())
	e.DELETE("/admin/event-types/:id", s.DeleteEventType())

	return server{e: e, cache: cache}
}

func (s server) do(method, path, body string, header http.Header) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func bookingBody(date string) string {
	return `{"eventTypeId":"boda","name":"Fernanda López","email":"fernanda@example.com",` +
		`"phone":"555-0101","date":"` + date + `","time":"18:30","guests":100,"duration":4}`
}

func TestFail(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", &service.ValidationError{Field: "guests", Message: "bad"}, http.StatusBadRequest},
		{"capacity", &service.CapacityError{Message: "full"}, http.StatusConflict},
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"timeout", context.DeadlineExceeded, http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
			require.NoError(t, fail(c, discard(), tt.err))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestRequestValidator(t *testing.T) {
	v := NewRequestValidator()

	err := v.Validate(&loginReq{Email: "nope", Password: "x"})
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)

	err = v.Validate(&loginReq{Email: "a@b.com"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)

	assert.NoError(t, v.Validate(&loginReq{Email: "a@b.com", Password: "x"}))
}

func TestHealth(t *testing.T) {
	e := echo.New()
	e.GET("/healthz", Health(map[string]Pinger{
		"mysql": func(context.Context) error { return errors.New("down") },
		"redis": func(context.Context) error { return nil },
	}))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[struct {
		Status       string            `json:"status"`
		Dependencies map[string]string `json:"dependencies"`
	}](t, rec)
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, map[string]string{"mysql": "down", "redis": "up"}, got.Dependencies)
}

func TestAuthFlow(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodPost, "/login", `{"email":"admin@marlett.com","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/login", `{"email":"nobody@marlett.com","password":"s3cret!"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/login", `{"email":"x"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/login", `{"email":"Admin@Marlett.com","password":"s3cret!"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[authResp](t, rec)
	assert.Equal(t, model.RoleAdmin, first.User.Role)
	assert.NotEmpty(t, first.Access.Token)
	assert.NotEmpty(t, first.Refresh.Token)

	rec = s.do(http.MethodGet, "/me", "", http.Header{"Authorization": {"Bearer " + first.Access.Token}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin@marlett.com", decode[userPart](t, rec).Email)

	refreshBody := `{"refresh_token":"` + first.Refresh.Token + `"}`
	rec = s.do(http.MethodPost, "/refresh-access", refreshBody, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/refresh", refreshBody, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[authResp](t, rec)
	assert.NotEqual(t, first.Refresh.Token, second.Refresh.Token)

	// rotated tokens cannot be reused
	rec = s.do(http.MethodPost, "/refresh", refreshBody, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/refresh", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/logout", `{"refresh_token":"`+second.Refresh.Token+`"}`, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodPost, "/refresh-access", `{"refresh_token":"`+second.Refresh.Token+`"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/logout", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalog(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/catalog/event-types", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.EventType](t, rec), 6)

	rec = s.do(http.MethodGet, "/catalog/rooms-advice?guests=150", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"rooms":2,"max":200,"ok":true}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/catalog/rooms-advice?guests=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/quotes", `{"eventTypeId":"boda","guests":100,"duration":4}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	q := decode[struct {
		Rooms int   `json:"rooms"`
		Total int64 `json:"total"`
	}](t, rec)
	assert.Equal(t, 2, q.Rooms)
	assert.Equal(t, int64(21300), q.Total)

	rec = s.do(http.MethodPost, "/quotes", `{"eventTypeId":"nope","guests":100,"duration":4}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/event-types/custom", `{"name":"Graduación"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, s.cache.n)

	rec = s.do(http.MethodPost, "/event-types/custom", `{"name":"graduación"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, s.cache.n)
}

func TestBookingFlow(t *testing.T) {
	s := newServer(t)
	client := uuid.NewString()
	h := http.Header{middleware.HeaderClientID: {client}}

	rec := s.do(http.MethodPost, "/reservations", bookingBody(futureDate(10)), h)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[model.Reservation](t, rec)
	assert.Equal(t, client, res.OwnerID)
	assert.Equal(t, model.StatusPending, res.Status)
	assert.Equal(t, int64(21300), res.TotalPrice)

	rec = s.do(http.MethodPost, "/reservations", bookingBody("not-a-date"), h)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "date", decode[map[string]string](t, rec)["field"])

	rec = s.do(http.MethodPost, "/reservations", bookingBody(futureDate(-2)), h)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/despechos/reservations",
		`{"eventTypeId":"despecho-promedio","isAnonymous":true,"date":"`+futureDate(3)+`","time":"21:00","guests":4,"duration":2}`, h)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	desp := decode[model.Reservation](t, rec)
	assert.True(t, strings.HasPrefix(desp.ID, "despechos_"))
	assert.Equal(t, "Evento Anónimo", desp.Name)

	rec = s.do(http.MethodGet, "/my/reservations", "", h)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Reservation](t, rec), 2)

	other := http.Header{middleware.HeaderClientID: {uuid.NewString()}}
	rec = s.do(http.MethodGet, "/my/reservations", "", other)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]model.Reservation](t, rec))

	rec = s.do(http.MethodGet, "/my/reservations/"+res.ID+"/pdf", "", h)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "reserva-"+res.ID+".pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = s.do(http.MethodGet, "/my/reservations/"+res.ID+"/pdf", "", other)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminReservations(t *testing.T) {
	s := newServer(t)
	h := http.Header{middleware.HeaderClientID: {uuid.NewString()}}

	rec := s.do(http.MethodPost, "/reservations", bookingBody(futureDate(20)), h)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[model.Reservation](t, rec)

	rec = s.do(http.MethodGet, "/admin/reservations?q=fernanda&status=pending&active=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Reservation](t, rec), 1)

	rec = s.do(http.MethodGet, "/admin/reservations?status=confirmed", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]model.Reservation](t, rec))

	rec = s.do(http.MethodPatch, "/admin/reservations/"+res.ID+"/status", `{"status":"confirmed"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.StatusConfirmed, decode[model.Reservation](t, rec).Status)

	rec = s.do(http.MethodPatch, "/admin/reservations/"+res.ID+"/status", `{"status":"archived"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPatch, "/admin/reservations/"+res.ID, `{"guests":120,"notes":["Mesa de dulces"]}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	edited := decode[model.Reservation](t, rec)
	assert.Equal(t, 120, edited.Guests)
	assert.Greater(t, edited.TotalPrice, res.TotalPrice)
	assert.Equal(t, []string{"Mesa de dulces"}, edited.Notes)

	rec = s.do(http.MethodGet, "/admin/reservations/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[service.Stats](t, rec)
	assert.Equal(t, 1, st.Total)
	assert.Equal(t, 1, st.Confirmed)
	assert.Equal(t, edited.TotalPrice, st.TotalRevenue)

	rec = s.do(http.MethodGet, "/admin/reservations/export.csv", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "reservas.csv")
	assert.Contains(t, rec.Body.String(), res.ID)

	rec = s.do(http.MethodGet, "/admin/reservations/"+res.ID+"/pdf", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "admin-reserva-"+res.ID+".pdf")

	rec = s.do(http.MethodDelete, "/admin/reservations/"+res.ID, "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/admin/reservations/"+res.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminSettings(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodPut, "/admin/pricing", `{"catering":20}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p := decode[model.PricingConfig](t, rec)
	assert.Equal(t, int64(20), p.Catering)
	assert.Equal(t, model.DefaultPricing().Salones, p.Salones)
	assert.Equal(t, 1, s.cache.n)

	rec = s.do(http.MethodPut, "/admin/pricing", `{"catering":-1}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, s.cache.n)

	rec = s.do(http.MethodPost, "/admin/pricing/reset", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.DefaultPricing(), decode[model.PricingConfig](t, rec))

	rec = s.do(http.MethodPatch, "/admin/event-types/gala", `{"isActive":false}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/catalog/event-types", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.EventType](t, rec), 5)

	rec = s.do(http.MethodGet, "/admin/event-types", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.EventType](t, rec), 6)

	rec = s.do(http.MethodDelete, "/admin/event-types/gala", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(http.MethodDelete, "/admin/event-types/gala", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
