// Package throttle paces a campaign run: it gates sending to the configured
// business-hours window and spaces consecutive sends by a randomized delay.
package throttle

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"
)

// Throttle holds the send window and the inter-send delay range. The two are
// independent controls: the window decides whether a run may proceed at all,
// the delay fires once per processed contact regardless of outcome.
type Throttle struct {
	startHour int
	endHour   int
	minDelay  time.Duration
	maxDelay  time.Duration
}

// New creates a Throttle. The window is [startHour, endHour) in local time;
// startHour > endHour describes an overnight window, startHour == endHour
// disables the window entirely.
func New(startHour, endHour int, minDelay, maxDelay time.Duration) *Throttle {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Throttle{
		startHour: startHour,
		endHour:   endHour,
		minDelay:  minDelay,
		maxDelay:  maxDelay,
	}
}

// PermittedAt reports whether now falls inside the allowed sending window.
func (t *Throttle) PermittedAt(now time.Time) bool {
	h := now.Hour()
	switch {
	case t.startHour == t.endHour:
		return true
	case t.startHour < t.endHour:
		return h >= t.startHour && h < t.endHour
	default: // overnight window, e.g. 20 -> 02
		return h >= t.startHour || h < t.endHour
	}
}

// Wait suspends for a duration drawn uniformly from [minDelay, maxDelay].
// It returns early with ctx.Err() if the context is cancelled.
func (t *Throttle) Wait(ctx context.Context) error {
	d := t.delay()
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// delay picks a random duration in [minDelay, maxDelay].
func (t *Throttle) delay() time.Duration {
	spread := int64(t.maxDelay - t.minDelay)
	if spread <= 0 {
		return t.minDelay
	}
	n, err := rand.Int(rand.Reader, big.NewInt(spread+1))
	if err != nil {
		return t.minDelay
	}
	return t.minDelay + time.Duration(n.Int64())
}
