package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlett/reservations/internal/metrics"
	"github.com/marlett/reservations/internal/model"
	"github.com/marlett/reservations/internal/queue"
	"github.com/marlett/reservations/internal/store"
)

var (
	errDown  = errors.New("connection refused")
	fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
)

// downReservations is a remote store whose every call fails.
type downReservations struct{}

func (downReservations) List(context.Context) ([]model.Reservation, error) { return nil, errDown }
func (downReservations) ListByOwner(context.Context, string) ([]model.Reservation, error) {
	return nil, errDown
}
func (downReservations) Get(context.Context, string) (model.Reservation, error) {
	return model.Reservation{}, errDown
}
func (downReservations) Insert(context.Context, model.Reservation) error { return errDown }
func (downReservations) Update(context.Context, model.Reservation) error { return errDown }
func (downReservations) UpdateStatus(context.Context, string, model.Status) error {
	return errDown
}
func (downReservations) Delete(context.Context, string) error { return errDown }
func (downReservations) DeleteBefore(context.Context, model.Date) (int, error) {
	return 0, errDown
}
func (downReservations) CountOnDate(context.Context, model.Date, string) (int, error) {
	return 0, errDown
}
func (downReservations) MarkInProgress(context.Context, model.Date) (int, error) {
	return 0, errDown
}

// downSettings is a remote settings store whose every call fails.
type downSettings struct{}

func (downSettings) GetPricing(context.Context) (model.PricingConfig, error) {
	return model.PricingConfig{}, errDown
}
func (downSettings) SavePricing(context.Context, model.PricingConfig) error { return errDown }
func (downSettings) GetCapacity(context.Context) (model.CapacityConfig, error) {
	return model.CapacityConfig{}, errDown
}
func (downSettings) SaveCapacity(context.Context, model.CapacityConfig) error { return errDown }
func (downSettings) GetEventTypes(context.Context) ([]model.EventType, error) {
	return nil, errDown
}
func (downSettings) SaveEventTypes(context.Context, []model.EventType) error { return errDown }
func (downSettings) GetDespechosEvents(context.Context) ([]model.DespechosEvent, error) {
	return nil, errDown
}
func (downSettings) SaveDespechosEvents(context.Context, []model.DespechosEvent) error {
	return errDown
}

type recordedEvents struct {
	mu     sync.Mutex
	events []queue.ReservationEvent
}

func (r *recordedEvents) Publish(_ context.Context, ev queue.ReservationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

type fixture struct {
	svc      *Reservations
	settings *Settings
	local    *store.Reservations
	events   *recordedEvents
	metrics  *metrics.Metrics
}

func newFixture(t *testing.T, remoteDown bool) fixture {
	t.Helper()
	if remoteDown {
		return newFixtureWith(t, downSettings{}, downReservations{})
	}
	return newFixtureWith(t, nil, nil)
}

func newFixtureWith(t *testing.T, rs RemoteSettings, rr RemoteReservations) fixture {
	t.Helper()
	kv := store.NewMemoryKV(100)
	t.Cleanup(kv.Stop)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()

	settings := NewSettings(log, rs, store.NewSettings(kv), m)
	settings.now = func() time.Time { return fixedNow }
	local := store.NewReservations(kv)
	events := &recordedEvents{}
	svc := NewReservations(log, rr, local, settings, events, m, time.UTC)
	svc.now = func() time.Time { return fixedNow }
	return fixture{svc: svc, settings: settings, local: local, events: events, metrics: m}
}

func inDays(n int) model.Date { return model.NewDate(fixedNow).AddDays(n) }

func regularInput() BookingInput {
	return BookingInput{
		OwnerID:     "client-1",
		EventTypeID: "boda",
		Name:        "Fernanda López",
		Email:       "Fernanda@Example.com",
		Phone:       gofakeit.Phone(),
		Date:        inDays(7),
		Time:        "18:30",
		Guests:      100,
		Duration:    4,
	}
}

func TestCreateRegular(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	res, err := f.svc.CreateRegular(ctx, regularInput())
	require.NoError(t, err)

	assert.NotEmpty(t, res.ID)
	assert.Equal(t, model.VariantRegular, res.Variant)
	assert.Equal(t, model.StatusPending, res.Status)
	assert.Equal(t, "Boda y Celebración", res.EventType)
	assert.Equal(t, "fernanda@example.com", res.Email)
	assert.Equal(t, "FL", res.Avatar)
	assert.Equal(t, []string{"room1", "room2"}, res.Rooms)
	assert.Equal(t, []string{"Menú completo", "Cóctel de bienvenida"}, res.CateringSelection)
	// 4500 base + 12000 hourly + 1800 rooms + 1500 + 800 + 500 per guest + 200 setup
	assert.EqualValues(t, 21300, res.TotalPrice)
	assert.Equal(t, res.PriceBreakdown.Total(), res.TotalPrice)

	stored, err := f.local.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, stored.ID)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, queue.EventCreated, f.events.events[0].Type)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReservationsCreated.WithLabelValues("regular")))
}

func TestCreateRegular_Anonymous(t *testing.T) {
	f := newFixture(t, false)
	in := regularInput()
	in.Anonymous = true

	res, err := f.svc.CreateRegular(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, anonymousName, res.Name)
	assert.Equal(t, anonymousEmail, res.Email)
	assert.Equal(t, anonymousPhone, res.Phone)
	assert.Equal(t, anonymousAvatar, res.Avatar)
	assert.Equal(t, "Fernanda López", res.RealName)
}

func TestCreateRegular_Validation(t *testing.T) {
	cases := map[string]struct {
		mutate func(*BookingInput)
		field  string
	}{
		"missing event type": {func(in *BookingInput) { in.EventTypeID = "" }, "eventTypeId"},
		"unknown event type": {func(in *BookingInput) { in.EventTypeID = "nope" }, "eventTypeId"},
		"bad time":           {func(in *BookingInput) { in.Time = "25:00" }, "time"},
		"past date":          {func(in *BookingInput) { in.Date = inDays(-1) }, "date"},
		"missing contact":    {func(in *BookingInput) { in.Phone = "" }, "name"},
		"profane name":       {func(in *BookingInput) { in.Name = "what the hell" }, "name"},
		"too few guests":     {func(in *BookingInput) { in.Guests = 5 }, "guests"},
		"too long":           {func(in *BookingInput) { in.Duration = 20 }, "duration"},
		"unknown room":       {func(in *BookingInput) { in.Rooms = []string{"room9"} }, "rooms"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, false)
			in := regularInput()
			tc.mutate(&in)

			_, err := f.svc.CreateRegular(context.Background(), in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			assert.NotEmpty(t, verr.Message)
		})
	}
}

func TestCreateRegular_DayFull(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	for i := 0; i < model.DefaultCapacity().MaxEventsPerDay; i++ {
		_, err := f.svc.CreateRegular(ctx, regularInput())
		require.NoError(t, err)
	}
	_, err := f.svc.CreateRegular(ctx, regularInput())
	require.ErrorIs(t, err, ErrCapacity)

	// Cancelled bookings free the slot.
	list, err := f.local.List(ctx)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, list[0].ID, model.StatusCancelled)
	require.NoError(t, err)
	_, err = f.svc.CreateRegular(ctx, regularInput())
	require.NoError(t, err)
}

func TestCreateRegular_Overbooking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	in := regularInput()
	in.Guests = 460
	in.Rooms = []string{"room1", "room2", "room3", "room4"}
	// Lift the catalog maximum so only the venue ceiling applies.
	_, err := f.settings.UpdateEventType(ctx, "boda", []byte(`{"maxCapacity": 600}`))
	require.NoError(t, err)

	_, err = f.svc.CreateRegular(ctx, in)
	require.ErrorIs(t, err, ErrCapacity)

	_, err = f.settings.UpdateCapacity(ctx, []byte(`{"allowOverbooking": true}`))
	require.NoError(t, err)
	_, err = f.svc.CreateRegular(ctx, in)
	require.NoError(t, err)
}

func TestCreateDespechos(t *testing.T) {
	f := newFixture(t, false)
	in := BookingInput{
		OwnerID:     "client-2",
		EventTypeID: "despecho-visita-corta",
		Name:        "anaruiz",
		Email:       "ana@example.com",
		Phone:       "5512345678",
		Date:        inDays(2),
		Time:        "21:00",
		Guests:      2,
		Duration:    1,
		Notes:       []string{" mesa cerca del escenario ", "", "  "},
	}

	res, err := f.svc.CreateDespechos(context.Background(), in)
	require.NoError(t, err)
	assert.Contains(t, res.ID, "despechos_")
	assert.Equal(t, model.VariantDespechos, res.Variant)
	assert.Equal(t, "Ana Ruiz", res.Name)
	assert.Equal(t, []string{"mesa cerca del escenario"}, res.Notes)
	assert.Len(t, res.CateringSelection, 3)
	// 300 cover + 3000 hourly + 900 room + 30 + 16 + 10 per guest
	assert.EqualValues(t, 4256, res.TotalPrice)
}

func TestRemoteDown_FallsBackToLocal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	res, err := f.svc.CreateRegular(ctx, regularInput())
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, got.ID)

	list, err := f.svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.Positive(t, testutil.ToFloat64(f.metrics.StoreFallbacks.WithLabelValues("service.Reservations.CreateRegular")))
}

func TestGetOwned(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	res, err := f.svc.CreateRegular(ctx, regularInput())
	require.NoError(t, err)

	_, err = f.svc.GetOwned(ctx, res.ID, "client-1")
	require.NoError(t, err)
	_, err = f.svc.GetOwned(ctx, res.ID, "someone-else")
	require.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.GetOwned(ctx, "missing", "client-1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	a, err := f.svc.CreateRegular(ctx, regularInput())
	require.NoError(t, err)
	in := regularInput()
	in.EventTypeID = "corporativo"
	in.OwnerID = "client-9"
	in.Guests = 40
	in.Date = inDays(10)
	b, err := f.svc.CreateRegular(ctx, in)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, b.ID, model.StatusConfirmed)
	require.NoError(t, err)

	list, err := f.svc.List(ctx, Filter{Query: "corporativo"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	list, err = f.svc.List(ctx, Filter{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	mine, err := f.svc.ListMine(ctx, "client-9", inDays(10).Display())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, b.ID, mine[0].ID)

	mine, err = f.svc.ListMine(ctx, "", "")
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestStats(t *testing.T) {
	st := ComputeStats([]model.Reservation{
		{Status: model.StatusConfirmed, TotalPrice: 100},
		{Status: model.StatusCompleted, TotalPrice: 50},
		{Status: model.StatusPending, TotalPrice: 999},
		{Status: model.StatusCancelled, TotalPrice: 999},
		{Status: model.StatusInProgress, TotalPrice: 999},
	})
	assert.Equal(t, Stats{Total: 5, Confirmed: 1, Pending: 1, Cancelled: 1, InProgress: 1, Completed: 1, TotalRevenue: 150}, st)
}

func TestUpdateStatus_Invalid(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.svc.UpdateStatus(context.Background(), "x", model.Status("archived"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)
}

func TestEdit_RepricesOnGuests(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	res, err := f.svc.CreateRegular(ctx, regularInput())
	require.NoError(t, err)

	guests := 150
	notes := []string{"llegan temprano", ""}
	edited, err := f.svc.Edit(ctx, res.ID, EditInput{Guests: &guests, Notes: notes})
	require.NoError(t, err)
	assert.Equal(t, 150, edited.Guests)
	assert.Greater(t, edited.TotalPrice, res.TotalPrice)
	assert.Equal(t, []string{"llegan temprano"}, edited.Notes)
	assert.Equal(t, queue.EventUpdated, f.events.events[len(f.events.events)-1].Type)

	bad := "7pm"
	_, err = f.svc.Edit(ctx, res.ID, EditInput{Time: &bad})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestEdit_AnonymousKeepsMask(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	in := regularInput()
	in.Anonymous = true
	res, err := f.svc.CreateRegular(ctx, in)
	require.NoError(t, err)

	name := "Lucía Pérez"
	edited, err := f.svc.Edit(ctx, res.ID, EditInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, anonymousName, edited.Name)
	assert.Equal(t, name, edited.RealName)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	res, err := f.svc.CreateRegular(ctx, regularInput())
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, res.ID))
	_, err = f.svc.Get(ctx, res.ID)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, f.svc.Delete(ctx, res.ID), ErrNotFound)
}

func TestPruneAndStart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	today := model.NewDate(fixedNow)

	old := model.Reservation{ID: "old", Date: today.AddDays(-3), Status: model.StatusConfirmed, CreatedAt: fixedNow}
	running := model.Reservation{ID: "run", Date: today, Status: model.StatusConfirmed, CreatedAt: fixedNow}
	waiting := model.Reservation{ID: "wait", Date: today, Status: model.StatusPending, CreatedAt: fixedNow}
	for _, r := range []model.Reservation{old, running, waiting} {
		require.NoError(t, f.local.Insert(ctx, r))
	}

	n, err := f.svc.PrunePast(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = f.svc.StartToday(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.local.Get(ctx, "run")
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, got.Status)
	got, err = f.local.Get(ctx, "wait")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReservationsPruned))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ReservationsStarted))
}

func TestQuote(t *testing.T) {
	f := newFixture(t, false)

	q, err := f.svc.Quote(context.Background(), QuoteInput{EventTypeID: "boda", Guests: 100, Duration: 4})
	require.NoError(t, err)
	assert.Equal(t, 2, q.Rooms)
	assert.EqualValues(t, 21300, q.Total)

	_, err = f.svc.Quote(context.Background(), QuoteInput{Variant: model.VariantDespechos, EventTypeID: "boda", Guests: 2, Duration: 1})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSettings_PricingFallback(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	p, err := f.settings.UpdatePricing(ctx, []byte(`{"salones": 1000}`))
	require.NoError(t, err)
	assert.EqualValues(t, 1000, p.Salones)

	p, err = f.settings.Pricing(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1000, p.Salones)

	_, err = f.settings.UpdatePricing(ctx, []byte(`{"catering": -1}`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = f.settings.UpdatePricing(ctx, []byte(`not json`))
	require.ErrorAs(t, err, &verr)

	p, err = f.settings.ResetPricing(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPricing(), p)
}

func TestSettings_EventTypeCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	et, err := f.settings.CreateEventType(ctx, []byte(`{"name": "Graduación", "id": "ignored"}`))
	require.NoError(t, err)
	assert.Contains(t, et.ID, "event_")
	assert.Equal(t, "Graduación", et.Name)

	_, err = f.settings.UpdateEventType(ctx, et.ID, []byte(`{"isActive": false}`))
	require.NoError(t, err)
	active, err := f.settings.ActiveEventTypes(ctx)
	require.NoError(t, err)
	for _, a := range active {
		assert.NotEqual(t, et.ID, a.ID)
	}

	require.NoError(t, f.settings.DeleteEventType(ctx, et.ID))
	require.ErrorIs(t, f.settings.DeleteEventType(ctx, et.ID), ErrNotFound)

	list, err := f.settings.ResetEventTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(model.DefaultEventTypes()))
}

func TestSettings_AddCustomEventType(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	et, err := f.settings.AddCustomEventType(ctx, "Graduación")
	require.NoError(t, err)
	assert.Contains(t, et.ID, "custom_")
	assert.Equal(t, "Evento personalizado", et.Description)

	_, err = f.settings.AddCustomEventType(ctx, "graduación")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = f.settings.AddCustomEventType(ctx, "   ")
	require.ErrorAs(t, err, &verr)

	_, err = f.settings.AddCustomEventType(ctx, "what the hell")
	require.ErrorAs(t, err, &verr)

	// A custom type is bookable right away.
	in := regularInput()
	in.EventTypeID = et.ID
	in.Guests = 30
	_, err = f.svc.CreateRegular(ctx, in)
	require.NoError(t, err)
}

func TestSettings_Despechos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	ev, err := f.settings.CreateDespechosEvent(ctx, []byte(`{"name": "Noche de Boleros"}`))
	require.NoError(t, err)
	assert.Contains(t, ev.ID, "despechos_")

	_, err = f.settings.UpdateDespechosEvent(ctx, ev.ID, []byte(`{"minCapacity": 20, "maxCapacity": 10}`))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	got, err := f.settings.DespechosEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Noche de Boleros", got.Name)

	_, err = f.settings.UpdateDespechosEvent(ctx, "missing", []byte(`{}`))
	require.ErrorIs(t, err, ErrNotFound)
}
