package throttle

import (
	"context"
	"testing"
	"time"
)

func at(hour int) time.Time {
	return time.Date(2024, 3, 14, hour, 30, 0, 0, time.UTC)
}

func TestPermittedAt(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		hour       int
		want       bool
	}{
		{"inside day window", 9, 18, 12, true},
		{"at window start", 9, 18, 9, true},
		{"at window end", 9, 18, 18, false},
		{"before window", 9, 18, 7, false},
		{"after window", 9, 18, 22, false},
		{"overnight late side", 20, 2, 23, true},
		{"overnight early side", 20, 2, 1, true},
		{"overnight closed", 20, 2, 12, false},
		{"window disabled", 0, 0, 4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := New(tt.start, tt.end, 0, 0)
			if got := th.PermittedAt(at(tt.hour)); got != tt.want {
				t.Errorf("PermittedAt(hour=%d) window [%d,%d) = %v, want %v",
					tt.hour, tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestDelayWithinRange(t *testing.T) {
	th := New(0, 0, 50*time.Millisecond, 150*time.Millisecond)
	for i := 0; i < 100; i++ {
		d := th.delay()
		if d < 50*time.Millisecond || d > 150*time.Millisecond {
			t.Fatalf("delay %v outside [50ms, 150ms]", d)
		}
	}
}

func TestWaitHonoursCancellation(t *testing.T) {
	th := New(0, 0, time.Hour, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- th.Wait(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Wait returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after cancellation")
	}
}

func TestWaitZeroDelayReturnsImmediately(t *testing.T) {
	th := New(0, 0, 0, 0)
	start := time.Now()
	if err := th.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("zero-delay Wait took %v", elapsed)
	}
}
