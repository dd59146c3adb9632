package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/marlett/reservations/internal/model"
)

// ErrNotFound is returned when no record has the requested id.
var ErrNotFound = errors.New("store: not found")

// Reservations is the local reservation list, kept as one JSON array under
// KeyReservations.  Every mutation rewrites the whole array.
type Reservations struct {
	kv KV
	mu sync.Mutex
}

func NewReservations(kv KV) *Reservations { return &Reservations{kv: kv} }

// List returns every stored reservation in insertion order.
func (s *Reservations) List(ctx context.Context) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *Reservations) Get(ctx context.Context, id string) (model.Reservation, error) {
	list, err := s.List(ctx)
	if err != nil {
		return model.Reservation{}, err
	}
	for _, r := range list {
		if r.ID == id {
			return r, nil
		}
	}
	return model.Reservation{}, ErrNotFound
}

// Insert appends r.  An existing record with the same id is replaced.
func (s *Reservations) Insert(ctx context.Context, r model.Reservation) error {
	return s.modify(ctx, func(list []model.Reservation) ([]model.Reservation, error) {
		for i := range list {
			if list[i].ID == r.ID {
				list[i] = r
				return list, nil
			}
		}
		return append(list, r), nil
	})
}

func (s *Reservations) Update(ctx context.Context, r model.Reservation) error {
	return s.modify(ctx, func(list []model.Reservation) ([]model.Reservation, error) {
		for i := range list {
			if list[i].ID == r.ID {
				list[i] = r
				return list, nil
			}
		}
		return nil, ErrNotFound
	})
}

func (s *Reservations) Delete(ctx context.Context, id string) error {
	return s.modify(ctx, func(list []model.Reservation) ([]model.Reservation, error) {
		out := list[:0]
		for _, r := range list {
			if r.ID != id {
				out = append(out, r)
			}
		}
		if len(out) == len(list) {
			return nil, ErrNotFound
		}
		return out, nil
	})
}

// DeleteBefore removes reservations dated before day and returns how many
// were removed.
func (s *Reservations) DeleteBefore(ctx context.Context, day model.Date) (int, error) {
	removed := 0
	err := s.modify(ctx, func(list []model.Reservation) ([]model.Reservation, error) {
		out := list[:0]
		for _, r := range list {
			if r.Date.Before(day) {
				removed++
				continue
			}
			out = append(out, r)
		}
		return out, nil
	})
	return removed, err
}

// Merge mirrors the remote list.  Records held only locally are kept after
// it and returned so the caller can replay them to the remote store.
func (s *Reservations) Merge(ctx context.Context, remote []model.Reservation) ([]model.Reservation, error) {
	var pending []model.Reservation
	err := s.modify(ctx, func(local []model.Reservation) ([]model.Reservation, error) {
		known := make(map[string]bool, len(remote))
		for _, r := range remote {
			known[r.ID] = true
		}
		out := make([]model.Reservation, 0, len(remote))
		out = append(out, remote...)
		for _, r := range local {
			if !known[r.ID] {
				pending = append(pending, r)
				out = append(out, r)
			}
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return pending, nil
}

func (s *Reservations) modify(ctx context.Context, fn func([]model.Reservation) ([]model.Reservation, error)) error {
	const op = "store.Reservations.modify"

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	list, err = fn(list)
	if err != nil {
		return err
	}
	if err := setJSON(ctx, s.kv, KeyReservations, list); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// load reads the array; a missing key is an empty list.
func (s *Reservations) load(ctx context.Context) ([]model.Reservation, error) {
	var list []model.Reservation
	err := getJSON(ctx, s.kv, KeyReservations, &list)
	if errors.Is(err, ErrMiss) {
		return []model.Reservation{}, nil
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}
