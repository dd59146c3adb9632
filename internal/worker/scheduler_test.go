package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/marlett/reservations/internal/model"
)

type countingMaintainer struct {
	prunes, sweeps atomic.Int32
	fail           bool
}

func (m *countingMaintainer) Today() model.Date { return model.NewDate(time.Now()) }

func (m *countingMaintainer) PrunePast(context.Context, model.Date) (int, error) {
	m.prunes.Add(1)
	if m.fail {
		return 0, errors.New("boom")
	}
	return 2, nil
}

func (m *countingMaintainer) StartToday(context.Context, model.Date) (int, error) {
	m.sweeps.Add(1)
	return 1, nil
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	m := &countingMaintainer{}
	s := NewScheduler(discard(), m, time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	assert.Eventually(t, func() bool {
		return m.prunes.Load() == 1 && m.sweeps.Load() == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() { s.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_Ticks(t *testing.T) {
	m := &countingMaintainer{fail: true}
	s := NewScheduler(discard(), m, 0, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() { cancel(); s.Wait() }()
	s.Start(ctx)

	assert.Eventually(t, func() bool { return m.prunes.Load() >= 3 }, time.Second, 5*time.Millisecond)
	assert.Zero(t, m.sweeps.Load())
}
