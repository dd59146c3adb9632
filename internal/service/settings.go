package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/marlett/reservations/internal/lib/logger/sl"
	"github.com/marlett/reservations/internal/metrics"
	"github.com/marlett/reservations/internal/model"
	"github.com/marlett/reservations/internal/pricing"
	"github.com/marlett/reservations/internal/profanity"
	"github.com/marlett/reservations/internal/repository"
)

// RemoteSettings is the MySQL settings store.
type RemoteSettings interface {
	GetPricing(ctx context.Context) (model.PricingConfig, error)
	SavePricing(ctx context.Context, p model.PricingConfig) error
	GetCapacity(ctx context.Context) (model.CapacityConfig, error)
	SaveCapacity(ctx context.Context, c model.CapacityConfig) error
	GetEventTypes(ctx context.Context) ([]model.EventType, error)
	SaveEventTypes(ctx context.Context, list []model.EventType) error
	GetDespechosEvents(ctx context.Context) ([]model.DespechosEvent, error)
	SaveDespechosEvents(ctx context.Context, list []model.DespechosEvent) error
}

// LocalSettings is the local settings copy.  Reads return defaults for
// missing records.
type LocalSettings interface {
	Pricing(ctx context.Context) (model.PricingConfig, error)
	SavePricing(ctx context.Context, p model.PricingConfig) error
	Capacity(ctx context.Context) (model.CapacityConfig, error)
	SaveCapacity(ctx context.Context, c model.CapacityConfig) error
	EventTypes(ctx context.Context) ([]model.EventType, error)
	SaveEventTypes(ctx context.Context, list []model.EventType) error
	DespechosEvents(ctx context.Context) ([]model.DespechosEvent, error)
	SaveDespechosEvents(ctx context.Context, list []model.DespechosEvent) error
}

// Settings manages the admin-editable configuration: pricing, capacity and
// both event catalogs.  Reads go to the remote store first and fall back
// to the local copy; writes go to both.
type Settings struct {
	log     *slog.Logger
	remote  RemoteSettings
	local   LocalSettings
	metrics *metrics.Metrics
	now     func() time.Time

	// serializes read-modify-write cycles on the catalogs
	mu sync.Mutex
}

// NewSettings builds the service.  remote may be nil to run on the local
// copy only.
func NewSettings(log *slog.Logger, remote RemoteSettings, local LocalSettings, m *metrics.Metrics) *Settings {
	return &Settings{log: log, remote: remote, local: local, metrics: m, now: time.Now}
}

// readThrough loads a record remotely, mirrors it locally and falls back to
// the local copy when the remote store fails or has no such record.
func readThrough[T any](ctx context.Context, s *Settings, op string,
	remote func(context.Context) (T, error),
	local func(context.Context) (T, error),
	mirror func(context.Context, T) error,
) (T, error) {
	if s.remote != nil {
		v, err := remote(ctx)
		if err == nil {
			if merr := mirror(ctx, v); merr != nil {
				s.log.Warn("local mirror failed", slog.String("op", op), sl.Err(merr))
			}
			return v, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("remote read failed, using local copy", slog.String("op", op), sl.Err(err))
			s.metrics.Fallback(op)
		}
	}
	v, err := local(ctx)
	if err != nil {
		return v, fmt.Errorf("%s: %w", op, err)
	}
	return v, nil
}

// writeThrough saves remotely and locally.  It fails only when neither
// store accepted the write.
func writeThrough[T any](ctx context.Context, s *Settings, op string, v T,
	remote func(context.Context, T) error,
	local func(context.Context, T) error,
) error {
	var remoteErr error
	if s.remote != nil {
		if remoteErr = remote(ctx, v); remoteErr != nil {
			s.log.Warn("remote write failed, saving locally", slog.String("op", op), sl.Err(remoteErr))
			s.metrics.Fallback(op)
		}
	}
	if err := local(ctx, v); err != nil {
		if s.remote != nil && remoteErr == nil {
			s.log.Warn("local mirror failed", slog.String("op", op), sl.Err(err))
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ----- pricing -----

func (s *Settings) Pricing(ctx context.Context) (model.PricingConfig, error) {
	return readThrough(ctx, s, "settings.pricing",
		func(ctx context.Context) (model.PricingConfig, error) { return s.remote.GetPricing(ctx) },
		s.local.Pricing, s.local.SavePricing)
}

func (s *Settings) savePricing(ctx context.Context, p model.PricingConfig) error {
	return writeThrough(ctx, s, "settings.save_pricing", p,
		func(ctx context.Context, p model.PricingConfig) error { return s.remote.SavePricing(ctx, p) },
		s.local.SavePricing)
}

// UpdatePricing merges the JSON object patch over the current table.
func (s *Settings) UpdatePricing(ctx context.Context, patch []byte) (model.PricingConfig, error) {
	const op = "service.Settings.UpdatePricing"

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Pricing(ctx)
	if err != nil {
		return p, fmt.Errorf("%s: %w", op, err)
	}
	if err := mergeJSON(patch, &p); err != nil {
		return p, err
	}
	if err := validatePricing(p); err != nil {
		return p, err
	}
	if err := s.savePricing(ctx, p); err != nil {
		return p, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s *Settings) ResetPricing(ctx context.Context) (model.PricingConfig, error) {
	p := model.DefaultPricing()
	return p, s.savePricing(ctx, p)
}

// PricingPreview prices the fixed admin preview scenario with the current table.
func (s *Settings) PricingPreview(ctx context.Context) (pricing.Quote, error) {
	p, err := s.Pricing(ctx)
	if err != nil {
		return pricing.Quote{}, err
	}
	return pricing.Preview(p), nil
}

func validatePricing(p model.PricingConfig) error {
	for field, v := range map[string]int64{
		"salones": p.Salones, "catering": p.Catering, "decoracion": p.Decoracion,
		"audioVisual": p.AudioVisual, "setup": p.Setup, "hourlyRate": p.HourlyRate,
	} {
		if v < 0 {
			return invalid(field, "El valor no puede ser negativo.")
		}
	}
	return nil
}

// ----- capacity -----

func (s *Settings) Capacity(ctx context.Context) (model.CapacityConfig, error) {
	return readThrough(ctx, s, "settings.capacity",
		func(ctx context.Context) (model.CapacityConfig, error) { return s.remote.GetCapacity(ctx) },
		s.local.Capacity, s.local.SaveCapacity)
}

func (s *Settings) saveCapacity(ctx context.Context, c model.CapacityConfig) error {
	return writeThrough(ctx, s, "settings.save_capacity", c,
		func(ctx context.Context, c model.CapacityConfig) error { return s.remote.SaveCapacity(ctx, c) },
		s.local.SaveCapacity)
}

// UpdateCapacity merges the JSON object patch over the current limits.
func (s *Settings) UpdateCapacity(ctx context.Context, patch []byte) (model.CapacityConfig, error) {
	const op = "service.Settings.UpdateCapacity"

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.Capacity(ctx)
	if err != nil {
		return c, fmt.Errorf("%s: %w", op, err)
	}
	if err := mergeJSON(patch, &c); err != nil {
		return c, err
	}
	switch {
	case c.MaxGuestsPerEvent < 1:
		return c, invalid("maxGuestsPerEvent", "Debe ser al menos 1.")
	case c.MaxEventsPerDay < 1:
		return c, invalid("maxEventsPerDay", "Debe ser al menos 1.")
	case c.MaxGuestsPerHour < 0:
		return c, invalid("maxGuestsPerHour", "El valor no puede ser negativo.")
	case c.OverbookingLimit < 0:
		return c, invalid("overbookingLimit", "El valor no puede ser negativo.")
	}
	if err := s.saveCapacity(ctx, c); err != nil {
		return c, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s *Settings) ResetCapacity(ctx context.Context) (model.CapacityConfig, error) {
	c := model.DefaultCapacity()
	return c, s.saveCapacity(ctx, c)
}

// ----- regular event types -----

func (s *Settings) EventTypes(ctx context.Context) ([]model.EventType, error) {
	return readThrough(ctx, s, "settings.event_types",
		func(ctx context.Context) ([]model.EventType, error) {
			list, err := s.remote.GetEventTypes(ctx)
			if err == nil && list == nil {
				return nil, repository.ErrNotFound
			}
			return list, err
		},
		s.local.EventTypes, s.local.SaveEventTypes)
}

// ActiveEventTypes lists the event types customers may book.
func (s *Settings) ActiveEventTypes(ctx context.Context) ([]model.EventType, error) {
	list, err := s.EventTypes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.EventType, 0, len(list))
	for _, et := range list {
		if et.IsActive {
			out = append(out, et)
		}
	}
	return out, nil
}

func (s *Settings) EventType(ctx context.Context, id string) (model.EventType, error) {
	list, err := s.EventTypes(ctx)
	if err != nil {
		return model.EventType{}, err
	}
	for _, et := range list {
		if et.ID == id {
			return et, nil
		}
	}
	return model.EventType{}, ErrNotFound
}

func (s *Settings) saveEventTypes(ctx context.Context, list []model.EventType) error {
	return writeThrough(ctx, s, "settings.save_event_types", list,
		func(ctx context.Context, l []model.EventType) error { return s.remote.SaveEventTypes(ctx, l) },
		s.local.SaveEventTypes)
}

// newEventType returns the defaults of an event type created from the admin screen.
func newEventType(now time.Time) model.EventType {
	return model.EventType{
		ID:                  fmt.Sprintf("event_%d", now.UnixMilli()),
		IsActive:            true,
		MaxCapacity:         50,
		MinCapacity:         10,
		BasePrice:           30,
		HourlyRate:          2000,
		MinHours:            2,
		MaxHours:            6,
		SpecialRequirements: []string{},
		CateringOptions:     []string{},
		DecorationOptions:   []string{},
		AudioVisualOptions:  []string{},
		Icon:                "Star",
		Color:               "#3b82f6",
	}
}

// CreateEventType adds an event type built from the JSON object body over
// the admin defaults.
func (s *Settings) CreateEventType(ctx context.Context, body []byte) (model.EventType, error) {
	const op = "service.Settings.CreateEventType"

	et := newEventType(s.now())
	id := et.ID
	if err := mergeJSON(body, &et); err != nil {
		return et, err
	}
	et.ID = id
	if err := validateCatalogEntry(et.Name, et.MinCapacity, et.MaxCapacity, et.MinHours, et.MaxHours, et.BasePrice); err != nil {
		return et, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.EventTypes(ctx)
	if err != nil {
		return et, fmt.Errorf("%s: %w", op, err)
	}
	list = append(list, et)
	if err := s.saveEventTypes(ctx, list); err != nil {
		return et, fmt.Errorf("%s: %w", op, err)
	}
	return et, nil
}

// UpdateEventType merges the JSON object patch over the stored event type.
// The id never changes.
func (s *Settings) UpdateEventType(ctx context.Context, id string, patch []byte) (model.EventType, error) {
	const op = "service.Settings.UpdateEventType"

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.EventTypes(ctx)
	if err != nil {
		return model.EventType{}, fmt.Errorf("%s: %w", op, err)
	}
	for i := range list {
		if list[i].ID != id {
			continue
		}
		et := list[i]
		if err := mergeJSON(patch, &et); err != nil {
			return et, err
		}
		et.ID = id
		if err := validateCatalogEntry(et.Name, et.MinCapacity, et.MaxCapacity, et.MinHours, et.MaxHours, et.BasePrice); err != nil {
			return et, err
		}
		list[i] = et
		if err := s.saveEventTypes(ctx, list); err != nil {
			return et, fmt.Errorf("%s: %w", op, err)
		}
		return et, nil
	}
	return model.EventType{}, ErrNotFound
}

func (s *Settings) DeleteEventType(ctx context.Context, id string) error {
	const op = "service.Settings.DeleteEventType"

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.EventTypes(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	out := make([]model.EventType, 0, len(list))
	for _, et := range list {
		if et.ID != id {
			out = append(out, et)
		}
	}
	if len(out) == len(list) {
		return ErrNotFound
	}
	return s.saveEventTypes(ctx, out)
}

func (s *Settings) ResetEventTypes(ctx context.Context) ([]model.EventType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := model.DefaultEventTypes()
	return list, s.saveEventTypes(ctx, list)
}

// AddCustomEventType registers an event type proposed by a customer.  The
// name must pass the content filter and must not duplicate an existing
// type (case-insensitive).
func (s *Settings) AddCustomEventType(ctx context.Context, name string) (model.EventType, error) {
	const op = "service.Settings.AddCustomEventType"

	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return model.EventType{}, invalid("name", msgCustomEmpty)
	case profanity.ContainsInappropriate(trimmed):
		return model.EventType{}, invalid("name", msgCustomProfanity)
	case !profanity.IsValidEventType(trimmed):
		return model.EventType{}, invalid("name", msgCustomInvalid)
	}

	p, err := s.Pricing(ctx)
	if err != nil {
		return model.EventType{}, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.EventTypes(ctx)
	if err != nil {
		return model.EventType{}, fmt.Errorf("%s: %w", op, err)
	}
	for _, et := range list {
		if strings.EqualFold(et.Name, trimmed) {
			return model.EventType{}, invalid("name", msgCustomDuplicate)
		}
	}

	et := model.EventType{
		ID:                  fmt.Sprintf("custom_%d", s.now().UnixMilli()),
		Name:                profanity.Sanitize(trimmed),
		Description:         "Evento personalizado",
		IsActive:            true,
		MaxCapacity:         450,
		MinCapacity:         10,
		BasePrice:           40,
		HourlyRate:          p.HourlyRate,
		MinHours:            2,
		MaxHours:            10,
		SpecialRequirements: []string{"Configuración personalizada"},
		CateringOptions:     []string{"Menú personalizado", "Bebidas"},
		DecorationOptions:   []string{"Decoración personalizada"},
		AudioVisualOptions:  []string{"Música personalizada", "Iluminación básica"},
		Icon:                "Star",
		Color:               "#3b82f6",
	}
	list = append(list, et)
	if err := s.saveEventTypes(ctx, list); err != nil {
		return et, fmt.Errorf("%s: %w", op, err)
	}
	return et, nil
}

// ----- despechos events -----

func (s *Settings) DespechosEvents(ctx context.Context) ([]model.DespechosEvent, error) {
	return readThrough(ctx, s, "settings.despechos_events",
		func(ctx context.Context) ([]model.DespechosEvent, error) {
			list, err := s.remote.GetDespechosEvents(ctx)
			if err == nil && list == nil {
				return nil, repository.ErrNotFound
			}
			return list, err
		},
		s.local.DespechosEvents, s.local.SaveDespechosEvents)
}

func (s *Settings) ActiveDespechosEvents(ctx context.Context) ([]model.DespechosEvent, error) {
	list, err := s.DespechosEvents(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.DespechosEvent, 0, len(list))
	for _, ev := range list {
		if ev.IsActive {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *Settings) DespechosEvent(ctx context.Context, id string) (model.DespechosEvent, error) {
	list, err := s.DespechosEvents(ctx)
	if err != nil {
		return model.DespechosEvent{}, err
	}
	for _, ev := range list {
		if ev.ID == id {
			return ev, nil
		}
	}
	return model.DespechosEvent{}, ErrNotFound
}

func (s *Settings) saveDespechosEvents(ctx context.Context, list []model.DespechosEvent) error {
	return writeThrough(ctx, s, "settings.save_despechos_events", list,
		func(ctx context.Context, l []model.DespechosEvent) error { return s.remote.SaveDespechosEvents(ctx, l) },
		s.local.SaveDespechosEvents)
}

func newDespechosEvent(now time.Time) model.DespechosEvent {
	return model.DespechosEvent{
		ID:                  fmt.Sprintf("despechos_%d", now.UnixMilli()),
		IsActive:            true,
		MaxCapacity:         10,
		MinCapacity:         1,
		CoverPrice:          200,
		MinHours:            1,
		MaxHours:            3,
		SpecialRequirements: []string{},
		CateringOptions:     []string{},
		DecorationOptions:   []string{},
		AudioVisualOptions:  []string{},
		Icon:                "Users",
		Color:               "#ef4444",
	}
}

func (s *Settings) CreateDespechosEvent(ctx context.Context, body []byte) (model.DespechosEvent, error) {
	const op = "service.Settings.CreateDespechosEvent"

	ev := newDespechosEvent(s.now())
	id := ev.ID
	if err := mergeJSON(body, &ev); err != nil {
		return ev, err
	}
	ev.ID = id
	if err := validateDespechos(ev); err != nil {
		return ev, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.DespechosEvents(ctx)
	if err != nil {
		return ev, fmt.Errorf("%s: %w", op, err)
	}
	list = append(list, ev)
	if err := s.saveDespechosEvents(ctx, list); err != nil {
		return ev, fmt.Errorf("%s: %w", op, err)
	}
	return ev, nil
}

func (s *Settings) UpdateDespechosEvent(ctx context.Context, id string, patch []byte) (model.DespechosEvent, error) {
	const op = "service.Settings.UpdateDespechosEvent"

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.DespechosEvents(ctx)
	if err != nil {
		return model.DespechosEvent{}, fmt.Errorf("%s: %w", op, err)
	}
	for i := range list {
		if list[i].ID != id {
			continue
		}
		ev := list[i]
		if err := mergeJSON(patch, &ev); err != nil {
			return ev, err
		}
		ev.ID = id
		if err := validateDespechos(ev); err != nil {
			return ev, err
		}
		list[i] = ev
		if err := s.saveDespechosEvents(ctx, list); err != nil {
			return ev, fmt.Errorf("%s: %w", op, err)
		}
		return ev, nil
	}
	return model.DespechosEvent{}, ErrNotFound
}

func (s *Settings) DeleteDespechosEvent(ctx context.Context, id string) error {
	const op = "service.Settings.DeleteDespechosEvent"

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.DespechosEvents(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	out := make([]model.DespechosEvent, 0, len(list))
	for _, ev := range list {
		if ev.ID != id {
			out = append(out, ev)
		}
	}
	if len(out) == len(list) {
		return ErrNotFound
	}
	return s.saveDespechosEvents(ctx, out)
}

func (s *Settings) ResetDespechosEvents(ctx context.Context) ([]model.DespechosEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := model.DefaultDespechosEvents()
	return list, s.saveDespechosEvents(ctx, list)
}

func validateDespechos(ev model.DespechosEvent) error {
	if err := validateCatalogEntry(ev.Name, ev.MinCapacity, ev.MaxCapacity, ev.MinHours, ev.MaxHours, ev.CoverPrice); err != nil {
		return err
	}
	if ev.AdditionalCosts < 0 {
		return invalid("additionalCosts", "El valor no puede ser negativo.")
	}
	return nil
}

func validateCatalogEntry(name string, minCap, maxCap int, minHours, maxHours float64, price int64) error {
	switch {
	case strings.TrimSpace(name) == "":
		return invalid("name", "El nombre es obligatorio.")
	case minCap < 1:
		return invalid("minCapacity", "La capacidad mínima debe ser al menos 1.")
	case maxCap < minCap:
		return invalid("maxCapacity", "La capacidad máxima no puede ser menor que la mínima.")
	case minHours <= 0:
		return invalid("minHours", "Las horas mínimas deben ser mayores a 0.")
	case maxHours < minHours:
		return invalid("maxHours", "Las horas máximas no pueden ser menores que las mínimas.")
	case price < 0:
		return invalid("price", "El precio no puede ser negativo.")
	}
	return nil
}

// mergeJSON decodes the JSON object patch over dst, keeping fields the patch
// does not mention.
func mergeJSON(patch []byte, dst any) error {
	if len(patch) == 0 {
		return nil
	}
	if err := json.Unmarshal(patch, dst); err != nil {
		return invalid("body", "Cuerpo de la solicitud inválido.")
	}
	return nil
}
