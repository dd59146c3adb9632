package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlett/reservations/internal/model"
)

func newRedisKV(t *testing.T) (*RedisKV, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisKV(rdb, "local:"), mr
}

func newMemoryKV(t *testing.T) *MemoryKV {
	t.Helper()
	kv := NewMemoryKV(100)
	t.Cleanup(kv.Stop)
	return kv
}

func fakeReservation(id string, day model.Date) model.Reservation {
	return model.Reservation{
		ID:        id,
		Name:      gofakeit.Name(),
		Email:     gofakeit.Email(),
		Phone:     gofakeit.Phone(),
		Date:      day,
		Time:      "19:00",
		Duration:  4,
		EventType: "Boda",
		Variant:   model.VariantRegular,
		Status:    model.StatusPending,
		Guests:    gofakeit.IntRange(10, 80),
		Rooms:     []string{"room1"},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestRedisKV_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv, mr := newRedisKV(t)

	_, err := kv.Get(ctx, "k")
	require.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Set(ctx, "k", []byte("v")))
	assert.True(t, mr.Exists("local:k"))
	assert.Zero(t, mr.TTL("local:k"))

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, kv.Delete(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemoryKV_CopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV(t)

	in := []byte("abc")
	require.NoError(t, kv.Set(ctx, "k", in))
	in[0] = 'x'

	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	require.NoError(t, kv.Delete(ctx, "k"))
	_, err = kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestReservations_CRUD(t *testing.T) {
	ctx := context.Background()
	kv, _ := newRedisKV(t)
	s := NewReservations(kv)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	day := model.NewDate(time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC))
	a := fakeReservation("a", day)
	b := fakeReservation("b", day)
	require.NoError(t, s.Insert(ctx, a))
	require.NoError(t, s.Insert(ctx, b))

	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)

	a.Status = model.StatusConfirmed
	require.NoError(t, s.Update(ctx, a))
	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, got.Status)

	assert.ErrorIs(t, s.Update(ctx, fakeReservation("zzz", day)), ErrNotFound)

	require.NoError(t, s.Delete(ctx, "a"))
	assert.ErrorIs(t, s.Delete(ctx, "a"), ErrNotFound)
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
}

func TestReservations_DeleteBefore(t *testing.T) {
	ctx := context.Background()
	s := NewReservations(newMemoryKV(t))

	today := model.NewDate(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
	require.NoError(t, s.Insert(ctx, fakeReservation("old", today.AddDays(-3))))
	require.NoError(t, s.Insert(ctx, fakeReservation("yesterday", today.AddDays(-1))))
	require.NoError(t, s.Insert(ctx, fakeReservation("today", today)))
	require.NoError(t, s.Insert(ctx, fakeReservation("next", today.AddDays(7))))

	n, err := s.DeleteBefore(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := s.List(ctx)
	require.NoError(t, err)
	var ids []string
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"today", "next"}, ids)
}

func TestReservations_Merge(t *testing.T) {
	ctx := context.Background()
	s := NewReservations(newMemoryKV(t))
	day := model.NewDate(time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, s.Insert(ctx, fakeReservation("shared", day)))
	require.NoError(t, s.Insert(ctx, fakeReservation("offline", day)))

	remote := fakeReservation("shared", day)
	remote.Status = model.StatusConfirmed
	pending, err := s.Merge(ctx, []model.Reservation{remote, fakeReservation("remote", day)})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "offline", pending[0].ID)

	list, err := s.List(ctx)
	require.NoError(t, err)
	var ids []string
	for _, r := range list {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"shared", "remote", "offline"}, ids)
	assert.Equal(t, model.StatusConfirmed, list[0].Status)

	pending, err = s.Merge(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, pending, 3)
	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestSettings_Defaults(t *testing.T) {
	ctx := context.Background()
	s := NewSettings(newMemoryKV(t))

	p, err := s.Pricing(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPricing(), p)

	c, err := s.Capacity(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCapacity(), c)

	et, err := s.EventTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, et, len(model.DefaultEventTypes()))

	de, err := s.DespechosEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, de, len(model.DefaultDespechosEvents()))
}

func TestSettings_CapacityMergesOverDefaults(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV(t)
	s := NewSettings(kv)

	require.NoError(t, kv.Set(ctx, KeyCapacity, []byte(`{"maxEventsPerDay":5,"allowOverbooking":true}`)))

	c, err := s.Capacity(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, c.MaxEventsPerDay)
	assert.True(t, c.AllowOverbooking)
	assert.Equal(t, 450, c.MaxGuestsPerEvent)
	assert.Equal(t, 50, c.OverbookingLimit)
}

func TestSettings_CorruptBlobFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV(t)
	s := NewSettings(kv)

	require.NoError(t, kv.Set(ctx, KeyPricing, []byte("{not json")))
	require.NoError(t, kv.Set(ctx, KeyEventTypes, []byte(`{"id":1}`)))

	p, err := s.Pricing(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPricing(), p)

	et, err := s.EventTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultEventTypes(), et)
}

func TestSettings_SaveAndRead(t *testing.T) {
	ctx := context.Background()
	kv, _ := newRedisKV(t)
	s := NewSettings(kv)

	p := model.DefaultPricing()
	p.HourlyRate = 3500
	require.NoError(t, s.SavePricing(ctx, p))
	got, err := s.Pricing(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3500), got.HourlyRate)

	types := model.DefaultEventTypes()[:2]
	require.NoError(t, s.SaveEventTypes(ctx, types))
	gotTypes, err := s.EventTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, types, gotTypes)
}

func TestTokens_Lifecycle(t *testing.T) {
	ctx := context.Background()
	tok := NewTokens(newMemoryKV(t))
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	tok.now = func() time.Time { return now }

	require.NoError(t, tok.StoreRefresh(ctx, EnvAdminID, "h1", now.Add(time.Hour)))
	uid, err := tok.ValidateRefresh(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, EnvAdminID, uid)

	_, err = tok.ValidateRefresh(ctx, "missing")
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, tok.RevokeByHash(ctx, "h1"))
	_, err = tok.ValidateRefresh(ctx, "h1")
	assert.ErrorIs(t, err, ErrInvalidToken)
	require.NoError(t, tok.RevokeByHash(ctx, "missing"))

	require.NoError(t, tok.StoreRefresh(ctx, EnvAdminID, "h2", now.Add(-time.Minute)))
	_, err = tok.ValidateRefresh(ctx, "h2")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEnvUsers(t *testing.T) {
	ctx := context.Background()
	u, err := NewEnvUsers("  Admin@Marlett.com ", "secret", 4)
	require.NoError(t, err)

	got, err := u.GetByEmail(ctx, "admin@marlett.com")
	require.NoError(t, err)
	assert.Equal(t, EnvAdminID, got.ID)
	assert.Equal(t, model.RoleAdmin, got.Role)
	assert.NotEqual(t, "secret", got.PasswordHash)

	_, err = u.GetByEmail(ctx, "other@marlett.com")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err = u.GetByID(ctx, EnvAdminID)
	require.NoError(t, err)
	assert.Equal(t, "admin@marlett.com", got.Email)

	empty, err := NewEnvUsers("", "", 4)
	require.NoError(t, err)
	_, err = empty.GetByID(ctx, EnvAdminID)
	assert.ErrorIs(t, err, ErrNotFound)
}
