package app

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 15 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 15 * time.Second},
		{"negative failures", -1, 15 * time.Second},
		{"one failure", 1, 30 * time.Second},
		{"two failures", 2, time.Minute},
		{"three failures", 3, 2 * time.Minute},
		{"four failures", 4, 4 * time.Minute},
		{"five failures capped", 5, 5 * time.Minute}, // Would be 8m, capped to 5m
		{"many failures capped", 40, 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 80; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

func TestCalculateBackoff_LongIntervalNotShortened(t *testing.T) {
	base := 10 * time.Minute
	if got := calculateBackoff(3, base); got != base {
		t.Fatalf("calculateBackoff(3, %v) = %v, want %v", base, got, base)
	}
}

type countingRefresher struct {
	mu       sync.Mutex
	loads    int
	failures int
	loaded   chan struct{}
}

func (c *countingRefresher) LoadAll(context.Context) {
	c.mu.Lock()
	c.loads++
	c.mu.Unlock()
	select {
	case c.loaded <- struct{}{}:
	default:
	}
}

func (c *countingRefresher) MaxConsecutiveFailures() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures
}

func TestStartPoller_LoadsImmediatelyAndRepeats(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &countingRefresher{loaded: make(chan struct{}, 8)}
	StartPoller(ctx, r, 10*time.Millisecond, zerolog.Nop())

	for i := 0; i < 3; i++ {
		select {
		case <-r.loaded:
		case <-time.After(2 * time.Second):
			t.Fatalf("poll %d did not happen", i+1)
		}
	}
}

func TestStartPoller_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	r := &funcRefresher{load: func() { calls.Add(1) }}
	StartPoller(ctx, r, time.Hour, zerolog.Nop())

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	time.Sleep(20 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Fatalf("LoadAll called %d times, want 1", got)
	}
}

type funcRefresher struct{ load func() }

func (f *funcRefresher) LoadAll(context.Context)     { f.load() }
func (f *funcRefresher) MaxConsecutiveFailures() int { return 0 }
