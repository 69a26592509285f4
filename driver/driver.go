// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package driver provides time sources that step easing runs.
//
// A Driver is the host animation scheduler for an animator. Given a
// duration and an easing curve it repeatedly calls a tick function with
// the curve's output at monotonically increasing normalized time until the
// normalized time reaches 1, then stops.
package driver

import (
	"sync"
	"time"

	"github.com/kortschak/phase/easing"
)

// Driver starts timed easing runs.
type Driver interface {
	// Start starts a run of duration d evaluating e. The tick function
	// is called with e's value at each step, the final step being at
	// normalized time 1. A non-nil error returned by tick terminates
	// the run and is reported by the run's Err method and by the
	// driver's stepping method if it has one.
	//
	// Implementations must treat a non-positive d as immediately
	// complete, delivering a single terminal tick.
	Start(d time.Duration, e easing.Interpolator, tick func(v float64) error) Run
}

// Run is a single active easing run.
type Run interface {
	// Stop abandons the run. No tick is started after Stop
	// returns, though a tick already in flight may complete.
	Stop()
	// Done returns a channel that is closed when the run has
	// completed or been stopped.
	Done() <-chan struct{}
	// Err returns the error that terminated the run, if any.
	// Err returns nil while the run is active.
	Err() error
}

// Progress returns the normalized time for elapsed within a run of
// duration d, clamped to [0,1]. A non-positive d is complete.
func Progress(elapsed, d time.Duration) float64 {
	if d <= 0 || elapsed >= d {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed) / float64(d)
}

// run is the bookkeeping shared by the driver implementations.
type run struct {
	d    time.Duration
	e    easing.Interpolator
	tick func(float64) error

	stopOnce sync.Once
	stop     chan struct{}

	doneOnce sync.Once
	done     chan struct{}
	err      error
}

func newRun(d time.Duration, e easing.Interpolator, tick func(float64) error) *run {
	return &run{
		d:    d,
		e:    e,
		tick: tick,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// step evaluates the curve at p and delivers the tick, finishing the run
// when p is terminal or the tick fails. It returns the tick error.
func (r *run) step(p float64) error {
	err := r.tick(r.e.Ease(p))
	if err != nil || p >= 1 {
		r.finish(err)
	}
	return err
}

func (r *run) finish(err error) {
	r.doneOnce.Do(func() {
		r.err = err
		close(r.done)
	})
}

func (r *run) stopped() bool {
	select {
	case <-r.stop:
		return true
	default:
		return false
	}
}

func (r *run) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
	r.finish(nil)
}

func (r *run) Done() <-chan struct{} { return r.done }

func (r *run) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}
