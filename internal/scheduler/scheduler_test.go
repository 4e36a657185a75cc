package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRunOnStartAndSerializedTicks(t *testing.T) {
	s := New(Options{Interval: 10 * time.Millisecond, RunOnStart: true}, zerolog.Nop())

	var inFlight, maxInFlight, calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := s.Run(ctx, func(ctx context.Context, at time.Time) error {
		cur := inFlight.Add(1)
		defer inFlight.Add(-1)
		if cur > maxInFlight.Load() {
			maxInFlight.Store(cur)
		}
		// slower than the interval so overlapping ticks would show up
		time.Sleep(25 * time.Millisecond)
		if calls.Add(1) == 4 {
			cancel()
		}
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	require.EqualValues(t, 4, calls.Load())
	require.EqualValues(t, 1, maxInFlight.Load())
}

func TestTickErrorsDoNotStopScheduler(t *testing.T) {
	s := New(Options{Interval: 5 * time.Millisecond}, zerolog.Nop())

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := s.Run(ctx, func(ctx context.Context, at time.Time) error {
		if calls.Add(1) >= 3 {
			cancel()
		}
		return errors.New("store unavailable")
	})
	require.ErrorIs(t, err, context.Canceled)
	require.EqualValues(t, 3, calls.Load())
}

func TestStartupDelayHonoursCancel(t *testing.T) {
	s := New(Options{Interval: time.Hour, StartupDelay: time.Hour, RunOnStart: true}, zerolog.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := s.Run(ctx, func(context.Context, time.Time) error {
		t.Fatal("tick must not run before the startup delay")
		return nil
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNextTickAlignment(t *testing.T) {
	s := New(Options{Interval: 5 * time.Minute, AlignToStart: true}, zerolog.Nop())
	now := time.Date(2024, 5, 1, 12, 3, 10, 0, time.UTC)
	require.Equal(t, time.Date(2024, 5, 1, 12, 5, 0, 0, time.UTC), s.nextTick(now))

	s = New(Options{Interval: 5 * time.Minute}, zerolog.Nop())
	require.Equal(t, now.Add(5*time.Minute), s.nextTick(now))
}

func TestNewPanicsOnInvalidInterval(t *testing.T) {
	require.Panics(t, func() { New(Options{}, zerolog.Nop()) })
}
