package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/marlett/reservations/internal/model"
)

// Keys of the system_settings rows.
const (
	SettingCapacity        = "capacity"
	SettingEventTypes      = "event_types"
	SettingDespechosEvents = "despechos_events"
)

// SettingsRepo stores the pricing table in `pricing_config` (a single row
// with id 1) and the remaining configuration records as JSON documents in
// `system_settings`.
type SettingsRepo struct{ DB *sql.DB }

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{DB: db} }

// GetPricing reads the pricing row.  NULL columns take their default value.
// ErrNotFound is returned when the row does not exist yet.
func (r *SettingsRepo) GetPricing(ctx context.Context) (model.PricingConfig, error) {
	var salones, catering, decoracion, audioVisual, setup, hourly sql.NullInt64
	err := r.DB.QueryRowContext(ctx,
		"SELECT salones, catering, decoracion, audio_visual, setup, hourly_rate FROM pricing_config WHERE id=1 LIMIT 1",
	).Scan(&salones, &catering, &decoracion, &audioVisual, &setup, &hourly)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PricingConfig{}, ErrNotFound
	}
	if err != nil {
		return model.PricingConfig{}, err
	}
	def := model.DefaultPricing()
	pick := func(v sql.NullInt64, d int64) int64 {
		if v.Valid {
			return v.Int64
		}
		return d
	}
	return model.PricingConfig{
		Salones:     pick(salones, def.Salones),
		Catering:    pick(catering, def.Catering),
		Decoracion:  pick(decoracion, def.Decoracion),
		AudioVisual: pick(audioVisual, def.AudioVisual),
		Setup:       pick(setup, def.Setup),
		HourlyRate:  pick(hourly, def.HourlyRate),
	}, nil
}

// SavePricing upserts the pricing row.
func (r *SettingsRepo) SavePricing(ctx context.Context, p model.PricingConfig) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO pricing_config (id, salones, catering, decoracion, audio_visual, setup, hourly_rate)
		 VALUES (1,?,?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE salones=VALUES(salones), catering=VALUES(catering), decoracion=VALUES(decoracion),
		   audio_visual=VALUES(audio_visual), setup=VALUES(setup), hourly_rate=VALUES(hourly_rate)`,
		p.Salones, p.Catering, p.Decoracion, p.AudioVisual, p.Setup, p.HourlyRate)
	return err
}

// GetSetting decodes the JSON document stored under key into dst.
func (r *SettingsRepo) GetSetting(ctx context.Context, key string, dst any) error {
	var raw []byte
	err := r.DB.QueryRowContext(ctx,
		"SELECT value FROM system_settings WHERE `key`=? LIMIT 1", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

// SaveSetting stores v as the JSON document of key.
func (r *SettingsRepo) SaveSetting(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO system_settings (`key`, value) VALUES (?,?) ON DUPLICATE KEY UPDATE value=VALUES(value)",
		key, raw)
	return err
}

func (r *SettingsRepo) GetCapacity(ctx context.Context) (model.CapacityConfig, error) {
	c := model.DefaultCapacity()
	err := r.GetSetting(ctx, SettingCapacity, &c)
	return c, err
}

func (r *SettingsRepo) SaveCapacity(ctx context.Context, c model.CapacityConfig) error {
	return r.SaveSetting(ctx, SettingCapacity, c)
}

func (r *SettingsRepo) GetEventTypes(ctx context.Context) ([]model.EventType, error) {
	var list []model.EventType
	err := r.GetSetting(ctx, SettingEventTypes, &list)
	return list, err
}

func (r *SettingsRepo) SaveEventTypes(ctx context.Context, list []model.EventType) error {
	return r.SaveSetting(ctx, SettingEventTypes, list)
}

func (r *SettingsRepo) GetDespechosEvents(ctx context.Context) ([]model.DespechosEvent, error) {
	var list []model.DespechosEvent
	err := r.GetSetting(ctx, SettingDespechosEvents, &list)
	return list, err
}

func (r *SettingsRepo) SaveDespechosEvents(ctx context.Context, list []model.DespechosEvent) error {
	return r.SaveSetting(ctx, SettingDespechosEvents, list)
}
