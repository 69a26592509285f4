// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kortschak/phase/easing"
)

// DefaultInterval is the tick interval used by NewTicker when a
// non-positive interval is requested. It is approximately 60 frames
// per second.
const DefaultInterval = 16 * time.Millisecond

// Ticker is a real-time Driver. Each run is stepped by its own goroutine
// at a fixed interval using the monotonic clock.
type Ticker struct {
	interval time.Duration
	log      *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTicker returns a new Ticker stepping runs every interval. Runs are
// terminated when ctx is cancelled or Close is called.
func NewTicker(ctx context.Context, interval time.Duration, log *slog.Logger) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Ticker{
		interval: interval,
		log:      log.With(slog.String("component", "phase.driver.ticker")),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start implements the Driver interface.
func (t *Ticker) Start(d time.Duration, e easing.Interpolator, tick func(v float64) error) Run {
	r := newRun(d, e, tick)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer r.finish(nil)

		if d <= 0 {
			t.step(r, 1)
			return
		}

		start := time.Now()
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-t.ctx.Done():
				r.finish(t.ctx.Err())
				return
			case <-r.stop:
				return
			case now := <-ticker.C:
				// A stop may race with the ticker; prefer the stop.
				if r.stopped() {
					return
				}
				p := Progress(now.Sub(start), d)
				if t.step(r, p) != nil || p >= 1 {
					return
				}
			}
		}
	}()
	return r
}

func (t *Ticker) step(r *run, p float64) error {
	err := r.step(p)
	if err != nil {
		t.log.LogAttrs(t.ctx, slog.LevelWarn, "tick failed", slog.Float64("progress", p), slog.Any("error", err))
	}
	return err
}

// Close terminates all the receiver's runs and waits for their goroutines
// to return.
func (t *Ticker) Close() error {
	t.cancel()
	t.wg.Wait()
	return nil
}
