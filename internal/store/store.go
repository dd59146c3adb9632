// Package store keeps the local copy of reservations and configuration.
// Records are kept as JSON blobs under fixed keys in a key-value backend
// (Redis, memcached or an in-process cache), the same layout a browser
// client keeps in local storage.  The service falls back to this copy
// whenever the remote MySQL store is unavailable.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys of the blobs kept in the local store.
const (
	KeyReservations    = "marlett-reservations"
	KeyPricing         = "marlett-pricing-config"
	KeyCapacity        = "marlett-capacity-config"
	KeyEventTypes      = "marlett-event-types-config"
	KeyDespechosEvents = "marlett-despechos-events-config"
	keyRefreshPrefix   = "marlett-refresh:"
)

// ErrMiss is returned by KV.Get when the key holds no value.
var ErrMiss = errors.New("store: key not found")

// KV is the minimal key-value backend the local store needs.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

func getJSON(ctx context.Context, kv KV, key string, dst any) error {
	const op = "store.getJSON"

	raw, err := kv.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%s: %s: %w", op, key, err)
	}
	return nil
}

func setJSON(ctx context.Context, kv KV, key string, v any) error {
	const op = "store.setJSON"

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, key, err)
	}
	return kv.Set(ctx, key, raw)
}
