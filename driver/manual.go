// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package driver

import (
	"errors"
	"sync"
	"time"

	"github.com/kortschak/phase/easing"
)

// Manual is a deterministic Driver that only steps its runs when asked
// to. It is intended for frame-stepped rendering and for tests. The zero
// value is ready to use.
//
// Runs are stepped in the order they were started. Runs started during a
// call to Advance or Step, for example by a tick function starting a new
// animation, are not stepped until the next call.
type Manual struct {
	mu   sync.Mutex
	runs []*manualRun
}

type manualRun struct {
	*run
	elapsed  time.Duration
	progress float64
}

// Start implements the Driver interface.
func (m *Manual) Start(d time.Duration, e easing.Interpolator, tick func(v float64) error) Run {
	r := &manualRun{run: newRun(d, e, tick)}
	m.mu.Lock()
	m.runs = append(m.runs, r)
	m.mu.Unlock()
	return r
}

// Advance moves the clock of every active run forward by dt and delivers
// a tick to each. A negative dt is treated as zero. Errors returned by
// tick functions are joined and returned after all runs have been stepped.
func (m *Manual) Advance(dt time.Duration) error {
	dt = max(dt, 0)
	return m.step(func(r *manualRun) float64 {
		r.elapsed += dt
		return Progress(r.elapsed, r.d)
	})
}

// Step drives every active run to normalized progress p, delivering a
// tick to each. Progress never moves backwards; a run already past p is
// ticked at its current progress. p is clamped to [0,1].
func (m *Manual) Step(p float64) error {
	p = min(max(p, 0), 1)
	return m.step(func(r *manualRun) float64 {
		if r.d <= 0 {
			return 1
		}
		return max(p, r.progress)
	})
}

func (m *Manual) step(next func(*manualRun) float64) error {
	m.mu.Lock()
	runs := make([]*manualRun, len(m.runs))
	copy(runs, m.runs)
	m.mu.Unlock()

	var errs []error
	for _, r := range runs {
		if r.stopped() {
			continue
		}
		r.progress = next(r)
		err := r.run.step(r.progress)
		if err != nil {
			errs = append(errs, err)
		}
	}

	m.mu.Lock()
	active := m.runs[:0]
	for _, r := range m.runs {
		select {
		case <-r.done:
		default:
			active = append(active, r)
		}
	}
	clear(m.runs[len(active):])
	m.runs = active
	m.mu.Unlock()

	return errors.Join(errs...)
}

// Active returns the number of runs that have not completed or been
// stopped.
func (m *Manual) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int
	for _, r := range m.runs {
		select {
		case <-r.done:
		default:
			n++
		}
	}
	return n
}
