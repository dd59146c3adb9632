package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlett/reservations/internal/handler"
	"github.com/marlett/reservations/internal/metrics"
	"github.com/marlett/reservations/internal/middleware"
	"github.com/marlett/reservations/internal/model"
	"github.com/marlett/reservations/internal/service"
	"github.com/marlett/reservations/internal/store"
	"github.com/marlett/reservations/internal/utils"
)

const secret = "router-secret"

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	kv := store.NewMemoryKV(100)
	t.Cleanup(kv.Stop)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()
	settings := service.NewSettings(log, nil, store.NewSettings(kv), m)
	reservations := service.NewReservations(log, nil, store.NewReservations(kv), settings, nil, m, time.UTC)
	users, err := store.NewEnvUsers("admin@marlett.com", "pw", 4)
	require.NoError(t, err)

	passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }

	e := echo.New()
	e.Validator = handler.NewRequestValidator()
	e.Use(middleware.ClientIdentity())
	RegisterRoutes(e, map[string]handler.Pinger{}, m.Handler())
	RegisterAuth(e, handler.NewAuthHandler(log, handler.TokenSettings{Secret: secret, AccessTTLMin: 5, RefreshTTLDays: 1}, users, store.NewTokens(kv)), secret)
	RegisterCatalog(e, handler.NewCatalogHandler(log, settings, reservations, nil), passthrough, passthrough)
	RegisterBooking(e, handler.NewBookingHandler(log, reservations, settings), passthrough)
	RegisterAdmin(e,
		handler.NewAdminReservationHandler(log, reservations, settings),
		handler.NewAdminSettingsHandler(log, settings, nil),
		secret)
	return e
}

func get(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouteTable(t *testing.T) {
	e := newEcho(t)

	have := map[string]bool{}
	for _, r := range e.Routes() {
		have[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"GET /metrics",
		"GET /v1/catalog/event-types",
		"GET /v1/catalog/rooms-advice",
		"POST /v1/quotes",
		"POST /v1/event-types/custom",
		"POST /v1/reservations",
		"POST /v1/despechos/reservations",
		"GET /v1/my/reservations/:id/pdf",
		"POST /v1/auth/refresh-access",
		"GET /v1/me",
		"GET /v1/admin/reservations/export.xlsx",
		"PATCH /v1/admin/reservations/:id/status",
		"POST /v1/admin/reservations/prune",
		"GET /v1/admin/pricing/preview",
		"POST /v1/admin/capacity/reset",
		"DELETE /v1/admin/despechos/:id",
	} {
		assert.True(t, have[want], want)
	}
}

func TestAdminRequiresAdminRole(t *testing.T) {
	e := newEcho(t)

	assert.Equal(t, http.StatusUnauthorized, get(e, "/v1/admin/reservations", "").Code)

	other, err := utils.NewAccessToken(secret, 9, "STAFF", 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, get(e, "/v1/admin/reservations", other.Token).Code)

	admin, err := utils.NewAccessToken(secret, store.EnvAdminID, model.RoleAdmin, 5)
	require.NoError(t, err)
	rec := get(e, "/v1/admin/reservations/stats", admin.Token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(e, "/v1/admin/pricing/preview", admin.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"guests":100`)
}

func TestPublicRoutes(t *testing.T) {
	e := newEcho(t)

	rec := get(e, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderClientID))

	rec = get(e, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(e, "/v1/catalog/rooms", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Salón Privado A")
}
