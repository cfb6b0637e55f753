package browser

import (
	"context"
	"math/rand"
	"time"

	"redscrape/pkg/config"
)

// WaitStrategy decides how long to pause after a scroll command so that
// lazily loaded content can render. It returns the page height observed
// after the wait and whether the page grew past lastHeight.
type WaitStrategy interface {
	WaitForContent(ctx context.Context, d Driver, lastHeight int64) (newHeight int64, grew bool, err error)
}

// HeightSettle polls the page height until it grows past the pre-scroll
// value or MaxWait elapses. Reacting to actual render progress instead of
// sleeping a fixed interval makes short feeds finish fast and slow feeds
// still load fully.
type HeightSettle struct {
	// PollInterval is the delay between height probes.
	PollInterval time.Duration
	// MaxWait bounds the total wait; an unchanged height after MaxWait is
	// reported as grew == false, not as an error.
	MaxWait time.Duration
}

// WaitForContent polls until the height grows or the deadline passes.
func (h *HeightSettle) WaitForContent(ctx context.Context, d Driver, lastHeight int64) (int64, bool, error) {
	deadline := time.Now().Add(h.MaxWait)

	for {
		if err := sleep(ctx, h.PollInterval); err != nil {
			return lastHeight, false, err
		}

		height, err := d.PageHeight(ctx)
		if err != nil {
			return lastHeight, false, err
		}
		if height > lastHeight {
			return height, true, nil
		}
		if time.Now().After(deadline) {
			return height, false, nil
		}
	}
}

// RandomDelay sleeps a uniformly random duration between Min and Max and
// then reads the height once. This is the classic jittered fixed wait;
// HeightSettle is the better default but this keeps the old pacing
// available for feeds that re-render without growing.
type RandomDelay struct {
	Min time.Duration
	Max time.Duration
}

// WaitForContent sleeps the jittered delay and probes the height once.
func (r *RandomDelay) WaitForContent(ctx context.Context, d Driver, lastHeight int64) (int64, bool, error) {
	delay := r.Min
	if r.Max > r.Min {
		delay += time.Duration(rand.Int63n(int64(r.Max - r.Min)))
	}

	if err := sleep(ctx, delay); err != nil {
		return lastHeight, false, err
	}

	height, err := d.PageHeight(ctx)
	if err != nil {
		return lastHeight, false, err
	}
	return height, height > lastHeight, nil
}

// NewWaitStrategy builds the configured strategy. Unknown names fall back
// to HeightSettle; config validation rejects them before this runs.
func NewWaitStrategy(cfg *config.ScrollConfig) WaitStrategy {
	switch cfg.WaitStrategy {
	case config.WaitStrategyRandomDelay:
		return &RandomDelay{Min: cfg.MinWait, Max: cfg.MaxWait}
	default:
		return &HeightSettle{PollInterval: cfg.PollInterval, MaxWait: cfg.MaxWait}
	}
}

// sleep waits for the duration or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
