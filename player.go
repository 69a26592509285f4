// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kortschak/phase/animator"
	"github.com/kortschak/phase/driver"
	"github.com/kortschak/phase/easing"
	"github.com/kortschak/phase/internal/config"
	"github.com/kortschak/phase/internal/plot"
	"github.com/kortschak/phase/internal/render"
	"github.com/kortschak/phase/internal/trace"
)

// player renders and plays scenes.
type player struct {
	out   string
	plot  bool
	trace *trace.DB
	log   *slog.Logger
}

// render renders the scene to a GIF in dir, stepping the animation at the
// scene's frame rate.
func (p player) render(ctx context.Context, s *config.Scene, dir string) error {
	ex, ey, err := easings(s, p.log)
	if err != nil {
		return err
	}
	chart, err := render.NewChart(s.Data, render.Options{
		Width:    s.Width,
		Height:   s.Height,
		Title:    s.Title,
		BarWidth: s.BarWidth,
		Inverted: s.Inverted,
	})
	if err != nil {
		return err
	}
	rec := render.NewRecorder(chart, s.FPS, p.log)

	// Traced renders are timed by the animation clock.
	var elapsed time.Duration
	start := time.Now()
	listener, err := p.traced(s, rec.Listener(), start, func() time.Time {
		return start.Add(elapsed)
	})
	if err != nil {
		return err
	}

	var m driver.Manual
	a := animator.New(&m, listener, &animator.Options{Clamp: s.Clamp, Log: p.log})
	err = animate(a, s, ex, ey)
	if err != nil {
		return err
	}
	if (s.X == nil && s.Y == nil) || m.Active() != 0 {
		// Initial frame.
		rec.Capture(a.PhaseX(), a.PhaseY())
	}
	step := time.Second / time.Duration(s.FPS)
	for m.Active() != 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		elapsed += step
		err = m.Advance(step)
		if err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	err = rec.Encode(&buf)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, s.Name+".gif")
	err = os.WriteFile(path, buf.Bytes(), 0o644)
	if err != nil {
		return err
	}
	p.log.LogAttrs(ctx, slog.LevelInfo, "rendered", slog.String("component", "phase.main"), slog.String("path", path), slog.Int("frames", rec.Len()))

	if p.plot {
		var curves []easing.Interpolator
		switch {
		case s.X != nil && s.Y != nil && s.X.Easing != s.Y.Easing:
			curves = []easing.Interpolator{ex, ey}
		case s.X != nil:
			curves = []easing.Interpolator{ex}
		case s.Y != nil:
			curves = []easing.Interpolator{ey}
		default:
			return nil
		}
		buf.Reset()
		err = plot.Curves(&buf, curves, nil)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, s.Name+".svg")
		err = os.WriteFile(path, buf.Bytes(), 0o644)
		if err != nil {
			return err
		}
		p.log.LogAttrs(ctx, slog.LevelInfo, "plotted", slog.String("component", "phase.main"), slog.String("path", path))
	}
	return nil
}

// live plays the scene in real time, printing the phases at each
// notification.
func (p player) live(ctx context.Context, s *config.Scene) error {
	ex, ey, err := easings(s, p.log)
	if err != nil {
		return err
	}
	show := func(a *animator.Animator) error {
		_, err := fmt.Printf("%s x=%.3f y=%.3f\n", s.Name, a.PhaseX(), a.PhaseY())
		return err
	}
	listener, err := p.traced(s, show, time.Now(), nil)
	if err != nil {
		return err
	}

	tk := driver.NewTicker(ctx, driver.DefaultInterval, p.log)
	defer tk.Close()
	a := animator.New(tk, listener, &animator.Options{Clamp: s.Clamp, Log: p.log})
	err = animate(a, s, ex, ey)
	if err != nil {
		return err
	}
	err = a.Wait(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Printf("%s done x=%.3f y=%.3f\n", s.Name, a.PhaseX(), a.PhaseY())
	return err
}

// traced returns l wrapped to record ticks if the player has a trace
// store.
func (p player) traced(s *config.Scene, l animator.Listener, start time.Time, now func() time.Time) (animator.Listener, error) {
	if p.trace == nil {
		return l, nil
	}
	run, err := p.trace.Begin(s.Name, s.Sum.String(), start, now)
	if err != nil {
		return nil, err
	}
	return run.Listener(l), nil
}

// easings returns the scene's X and Y easing curves.
func easings(s *config.Scene, log *slog.Logger) (x, y easing.Interpolator, err error) {
	x, err = s.Easing(s.X, log)
	if err != nil {
		return nil, nil, fmt.Errorf("x axis: %w", err)
	}
	y, err = s.Easing(s.Y, log)
	if err != nil {
		return nil, nil, fmt.Errorf("y axis: %w", err)
	}
	return x, y, nil
}

// animate starts the scene's axis animations on a.
func animate(a *animator.Animator, s *config.Scene, ex, ey easing.Interpolator) error {
	switch {
	case s.X != nil && s.Y != nil:
		return a.AnimateXY(s.X.Duration, s.Y.Duration, ex, ey)
	case s.X != nil:
		return a.AnimateX(s.X.Duration, ex)
	case s.Y != nil:
		return a.AnimateY(s.Y.Duration, ey)
	default:
		return nil
	}
}
