package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/marlett/reservations/internal/model"
)

// Settings holds the locally stored configuration records.  Reads never
// fail on a missing or corrupt blob: the defaults are returned instead.
// Backend errors are still reported so callers can tell a failing store
// from an empty one.
type Settings struct {
	kv KV
}

func NewSettings(kv KV) *Settings { return &Settings{kv: kv} }

func (s *Settings) Pricing(ctx context.Context) (model.PricingConfig, error) {
	var p model.PricingConfig
	if err := s.read(ctx, KeyPricing, &p); err != nil {
		return model.DefaultPricing(), ignoreDecode(err)
	}
	return p, nil
}

func (s *Settings) SavePricing(ctx context.Context, p model.PricingConfig) error {
	return setJSON(ctx, s.kv, KeyPricing, p)
}

// Capacity decodes the stored object over the defaults, so fields added
// after the blob was written keep their default values.
func (s *Settings) Capacity(ctx context.Context) (model.CapacityConfig, error) {
	c := model.DefaultCapacity()
	if err := s.read(ctx, KeyCapacity, &c); err != nil {
		return model.DefaultCapacity(), ignoreDecode(err)
	}
	return c, nil
}

func (s *Settings) SaveCapacity(ctx context.Context, c model.CapacityConfig) error {
	return setJSON(ctx, s.kv, KeyCapacity, c)
}

func (s *Settings) EventTypes(ctx context.Context) ([]model.EventType, error) {
	var list []model.EventType
	if err := s.read(ctx, KeyEventTypes, &list); err != nil || list == nil {
		return model.DefaultEventTypes(), ignoreDecode(err)
	}
	return list, nil
}

func (s *Settings) SaveEventTypes(ctx context.Context, list []model.EventType) error {
	return setJSON(ctx, s.kv, KeyEventTypes, list)
}

func (s *Settings) DespechosEvents(ctx context.Context) ([]model.DespechosEvent, error) {
	var list []model.DespechosEvent
	if err := s.read(ctx, KeyDespechosEvents, &list); err != nil || list == nil {
		return model.DefaultDespechosEvents(), ignoreDecode(err)
	}
	return list, nil
}

func (s *Settings) SaveDespechosEvents(ctx context.Context, list []model.DespechosEvent) error {
	return setJSON(ctx, s.kv, KeyDespechosEvents, list)
}

func (s *Settings) read(ctx context.Context, key string, dst any) error {
	return getJSON(ctx, s.kv, key, dst)
}

// ignoreDecode drops misses and malformed blobs, keeping backend failures.
func ignoreDecode(err error) error {
	if err == nil || errors.Is(err, ErrMiss) {
		return nil
	}
	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	if errors.As(err, &syn) || errors.As(err, &typ) {
		return nil
	}
	return err
}
