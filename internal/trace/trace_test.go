// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import (
	"bytes"
	"errors"
	"flag"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kortschak/phase/animator"
	"github.com/kortschak/phase/driver"
	"github.com/kortschak/phase/internal/slogext"
)

var verbose = flag.Bool("verbose_log", false, "print full logging")

// clock is a manually advanced time source.
type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func TestTrace(t *testing.T) {
	var logBuf bytes.Buffer
	log := slog.New(slogext.NewJSONHandler(&logBuf, &slogext.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	defer func() {
		if *verbose {
			t.Logf("log:\n%s\n", &logBuf)
		}
	}()

	path := filepath.Join(t.TempDir(), "trace.db")
	db, err := Open(path, log)
	if err != nil {
		t.Fatalf("unexpected error opening db: %v", err)
	}

	start := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	clk := &clock{now: start}
	run, err := db.Begin("bars", "abcd", start, clk.Now)
	if err != nil {
		t.Fatalf("unexpected error beginning run: %v", err)
	}

	var m driver.Manual
	var calls int
	a := animator.New(&m, run.Listener(func(*animator.Animator) error {
		calls++
		return nil
	}), nil)
	err = a.AnimateY(400*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for m.Active() != 0 {
		clk.now = clk.now.Add(100 * time.Millisecond)
		err = m.Advance(100 * time.Millisecond)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 4 {
		t.Errorf("unexpected number of chained listener calls: got:%d want:4", calls)
	}

	err = db.Close()
	if err != nil {
		t.Fatalf("unexpected error closing db: %v", err)
	}
	db, err = Open(path, log)
	if err != nil {
		t.Fatalf("unexpected error reopening db: %v", err)
	}
	defer db.Close()

	runs, err := db.Runs()
	if err != nil {
		t.Fatalf("unexpected error getting runs: %v", err)
	}
	wantRuns := []RunInfo{{ID: run.ID(), Scene: "bars", Sum: "abcd", Start: start}}
	if !cmp.Equal(wantRuns, runs) {
		t.Errorf("unexpected runs:\n--- want:\n+++ got:\n%s", cmp.Diff(wantRuns, runs))
	}

	ticks, err := db.Ticks(run.ID())
	if err != nil {
		t.Fatalf("unexpected error getting ticks: %v", err)
	}
	wantTicks := []Tick{
		{Seq: 0, Elapsed: 100 * time.Millisecond, PhaseX: 1, PhaseY: 0.25},
		{Seq: 1, Elapsed: 200 * time.Millisecond, PhaseX: 1, PhaseY: 0.5},
		{Seq: 2, Elapsed: 300 * time.Millisecond, PhaseX: 1, PhaseY: 0.75},
		{Seq: 3, Elapsed: 400 * time.Millisecond, PhaseX: 1, PhaseY: 1},
	}
	if !cmp.Equal(wantTicks, ticks) {
		t.Errorf("unexpected ticks:\n--- want:\n+++ got:\n%s", cmp.Diff(wantTicks, ticks))
	}
}

func TestListenerError(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "trace.db"), nil)
	if err != nil {
		t.Fatalf("unexpected error opening db: %v", err)
	}
	defer db.Close()
	run, err := db.Begin("bars", "", time.Now(), nil)
	if err != nil {
		t.Fatalf("unexpected error beginning run: %v", err)
	}

	errDraw := errors.New("draw failed")
	var m driver.Manual
	a := animator.New(&m, run.Listener(func(*animator.Animator) error {
		return errDraw
	}), nil)
	err = a.AnimateX(0, nil)
	if !errors.Is(err, errDraw) {
		t.Errorf("unexpected error: got:%v want:%v", err, errDraw)
	}
	ticks, err := db.Ticks(run.ID())
	if err != nil {
		t.Fatalf("unexpected error getting ticks: %v", err)
	}
	if len(ticks) != 1 {
		t.Errorf("unexpected number of ticks: got:%d want:1", len(ticks))
	}
}
