// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package animator provides a two axis phase animator for progressively
// revealing chart data.
//
// An Animator holds an X and a Y phase, each a scalar normally in [0,1]
// that a renderer uses to decide how much of the data on that axis to
// draw. Animations drive a phase from 0 to 1 over a duration along an
// easing curve, notifying a Listener as the phase changes.
package animator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kortschak/phase/driver"
	"github.com/kortschak/phase/easing"
	"github.com/kortschak/phase/internal/slogext"
)

// Listener is called after each phase update of a notifying run. The
// listener is expected to read the current phases from the Animator
// itself. An error returned by a Listener is propagated to the caller
// that delivered the tick.
type Listener func(a *Animator) error

// Options are options for an Animator. A zero Options consists entirely
// of default values.
type Options struct {
	// Clamp causes curve outputs to be clamped to [0,1] on every
	// tick. By default curve outputs are stored unmodified so that
	// overshooting curves are visible to renderers.
	Clamp bool

	// Log is the logger used by the animator. A nil Log discards
	// log records.
	Log *slog.Logger
}

// Animator drives an X and Y phase. Phases may be read concurrently with
// an animation being driven. Both phases are initially 1, fully revealed.
type Animator struct {
	driver   driver.Driver
	listener Listener
	clamp    bool
	log      *slog.Logger

	x, y axis
}

// axis is the state of a single phase axis.
type axis struct {
	name  string
	phase atomic.Uint64 // float64 bits.

	// gen is the generation of the current run. Ticks
	// from runs of earlier generations are discarded.
	gen atomic.Uint64

	mu  sync.Mutex
	run driver.Run
}

func (ax *axis) load() float64 {
	return math.Float64frombits(ax.phase.Load())
}

func (ax *axis) store(v float64) {
	ax.phase.Store(math.Float64bits(v))
}

// New returns a new Animator using d to drive animations. If l is not nil
// it is called on updates. If opts is nil, the default options are used.
func New(d driver.Driver, l Listener, opts *Options) *Animator {
	if opts == nil {
		opts = &Options{}
	}
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	a := &Animator{
		driver:   d,
		listener: l,
		clamp:    opts.Clamp,
		log:      log.With(slog.String("component", "phase.animator")),
	}
	a.x.name = "x"
	a.y.name = "y"
	a.x.store(1)
	a.y.store(1)
	return a
}

// PhaseX returns the current X phase.
func (a *Animator) PhaseX() float64 { return a.x.load() }

// PhaseY returns the current Y phase.
func (a *Animator) PhaseY() float64 { return a.y.load() }

// SetPhaseX sets the X phase, clamping v to [0,1]. It does not affect a
// running animation, which will overwrite the value at its next tick.
func (a *Animator) SetPhaseX(v float64) { a.x.store(clamp(v)) }

// SetPhaseY sets the Y phase, clamping v to [0,1]. It does not affect a
// running animation, which will overwrite the value at its next tick.
func (a *Animator) SetPhaseY(v float64) { a.y.store(clamp(v)) }

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < 0, math.IsNaN(v):
		return 0
	default:
		return v
	}
}

// AnimateX animates the X phase from 0 to 1 over d using the easing curve
// e. A nil e is easing.Linear. The listener is notified on each tick of
// the run.
//
// Starting an animation abandons any animation already running on the
// axis. If d is not positive, the phase is set to 1 and the listener is
// called once before AnimateX returns, and any listener error is returned.
// An error wrapping easing.ErrUnknownCurve is returned if e is an invalid
// easing.Curve.
func (a *Animator) AnimateX(d time.Duration, e easing.Interpolator) error {
	e, err := interpolator(e)
	if err != nil {
		return err
	}
	return a.animate(&a.x, d, e, true)
}

// AnimateY animates the Y phase from 0 to 1 over d using the easing curve
// e. It is otherwise identical to AnimateX.
func (a *Animator) AnimateY(d time.Duration, e easing.Interpolator) error {
	e, err := interpolator(e)
	if err != nil {
		return err
	}
	return a.animate(&a.y, d, e, true)
}

// AnimateXY animates the X and Y phases concurrently, X over dx using ex
// and Y over dy using ey. Nil easing curves are easing.Linear.
//
// Only the run with the strictly longer duration notifies the listener;
// when the durations are equal the Y run notifies. Both runs update their
// phases, so a listener should read both phases on each call.
func (a *Animator) AnimateXY(dx, dy time.Duration, ex, ey easing.Interpolator) error {
	ex, err := interpolator(ex)
	if err != nil {
		return fmt.Errorf("x axis: %w", err)
	}
	ey, err = interpolator(ey)
	if err != nil {
		return fmt.Errorf("y axis: %w", err)
	}
	notifyX := dx > dy
	return errors.Join(
		a.animate(&a.x, dx, ex, notifyX),
		a.animate(&a.y, dy, ey, !notifyX),
	)
}

// interpolator returns the easing to use for e, or an error if e is an
// invalid catalog curve.
func interpolator(e easing.Interpolator) (easing.Interpolator, error) {
	switch e := e.(type) {
	case nil:
		return easing.Linear, nil
	case easing.Curve:
		if !e.Valid() {
			return nil, fmt.Errorf("%w: %v", easing.ErrUnknownCurve, e)
		}
	}
	return e, nil
}

func (a *Animator) animate(ax *axis, d time.Duration, e easing.Interpolator, notify bool) error {
	ctx := context.Background()
	a.log.LogAttrs(ctx, slog.LevelDebug, "animate", slog.Any("run", slogext.Run{
		Axis: ax.name, Duration: d, Easing: e, Notify: notify,
	}))

	ax.mu.Lock()
	gen := ax.gen.Add(1)
	if ax.run != nil {
		ax.run.Stop()
		ax.run = nil
	}
	tick := a.tick(ax, gen, notify)
	if d <= 0 {
		ax.mu.Unlock()
		return tick(1)
	}
	// The phase restarts from the curve origin without
	// notification; the driver's first tick will notify.
	v := e.Ease(0)
	if a.clamp {
		v = clamp(v)
	}
	ax.store(v)
	ax.run = a.driver.Start(d, e, tick)
	ax.mu.Unlock()
	return nil
}

// tick returns the tick function for a run of the given generation on ax.
func (a *Animator) tick(ax *axis, gen uint64, notify bool) func(float64) error {
	return func(v float64) error {
		if ax.gen.Load() != gen {
			// Superseded.
			return nil
		}
		if a.clamp {
			v = clamp(v)
		}
		ax.store(v)
		if !notify || a.listener == nil {
			return nil
		}
		err := a.listener(a)
		if err != nil {
			a.log.LogAttrs(context.Background(), slog.LevelWarn, "listener failed", slog.String("axis", ax.name), slog.Any("error", err))
		}
		return err
	}
}

// Wait blocks until the current runs on both axes are done or ctx is
// cancelled, returning any run errors joined, or the context's error.
func (a *Animator) Wait(ctx context.Context) error {
	var errs []error
	for _, ax := range []*axis{&a.x, &a.y} {
		ax.mu.Lock()
		r := ax.run
		ax.mu.Unlock()
		if r == nil {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.Done():
			errs = append(errs, r.Err())
		}
	}
	return errors.Join(errs...)
}
