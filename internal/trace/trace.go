// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trace provides persistence of animation listener ticks.
package trace

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/kortschak/phase/animator"

	// For sql.DB registration.
	_ "modernc.org/sqlite"
)

// DB is a persistent tick store.
type DB struct {
	mu    sync.Mutex
	store *sql.DB
	log   *slog.Logger
}

// Schema is the DB schema. Elapsed times are in nanoseconds from the start
// of the run.
const Schema = `
create table if not exists runs(
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	scene TEXT NOT NULL,
	sum   TEXT NOT NULL,
	start TEXT NOT NULL
);
create table if not exists ticks(
	run     INTEGER NOT NULL REFERENCES runs(id),
	seq     INTEGER NOT NULL,
	elapsed INTEGER NOT NULL,
	phase_x REAL NOT NULL,
	phase_y REAL NOT NULL,
	PRIMARY KEY(run, seq)
);
`

const (
	insertRun = `
insert into runs(scene, sum, start) values(?, ?, ?);
`

	insertTick = `
insert into ticks values(?, ?, ?, ?, ?);
`

	getRuns = `
select id, scene, sum, start from runs order by id;
`

	getTicks = `
select seq, elapsed, phase_x, phase_y from ticks where run is ? order by seq;
`
)

// Open opens a DB, creating the tables if required.
// See https://pkg.go.dev/modernc.org/sqlite#Driver.Open for name handling
// details.
func Open(name string, log *slog.Logger) (*DB, error) {
	db, err := sql.Open("sqlite", name)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(Schema)
	if err != nil {
		db.Close()
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &DB{store: db, log: log.With(slog.String("component", "phase.trace"))}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.store.Close()
}

// RunInfo is a recorded run.
type RunInfo struct {
	ID    int64
	Scene string
	Sum   string
	Start time.Time
}

// Tick is a recorded listener tick.
type Tick struct {
	Seq     int
	Elapsed time.Duration
	PhaseX  float64
	PhaseY  float64
}

// Run is an animation run being recorded.
type Run struct {
	db    *DB
	id    int64
	start time.Time
	now   func() time.Time

	mu  sync.Mutex
	seq int
}

// Begin starts recording a run of the named scene with the given semantic
// hash. Elapsed times for the run are measured from start using now.
// If now is nil, time.Now is used.
func (db *DB) Begin(scene, sum string, start time.Time, now func() time.Time) (*Run, error) {
	ctx := context.Background()
	if now == nil {
		now = time.Now
	}
	db.mu.Lock()
	res, err := db.store.Exec(insertRun, scene, sum, start.UTC().Format(time.RFC3339Nano))
	db.mu.Unlock()
	if err != nil {
		db.log.LogAttrs(ctx, slog.LevelError, "begin", slog.String("scene", scene), slog.Any("error", err))
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	db.log.LogAttrs(ctx, slog.LevelDebug, "begin", slog.String("scene", scene), slog.Int64("run", id))
	return &Run{db: db, id: id, start: start, now: now}, nil
}

// ID returns the run's identifier.
func (r *Run) ID() int64 { return r.id }

// Record records a tick with the given phases.
func (r *Run) Record(phaseX, phaseY float64) error {
	elapsed := r.now().Sub(r.start)
	r.mu.Lock()
	seq := r.seq
	r.seq++
	r.mu.Unlock()

	r.db.mu.Lock()
	_, err := r.db.store.Exec(insertTick, r.id, seq, int64(elapsed), phaseX, phaseY)
	r.db.mu.Unlock()
	if err != nil {
		r.db.log.LogAttrs(context.Background(), slog.LevelError, "record", slog.Int64("run", r.id), slog.Int("seq", seq), slog.Any("error", err))
	}
	return err
}

// Listener returns an animator.Listener that records each notification
// and then calls next if it is not nil.
func (r *Run) Listener(next animator.Listener) animator.Listener {
	return func(a *animator.Animator) error {
		err := r.Record(a.PhaseX(), a.PhaseY())
		if next != nil {
			err = errors.Join(err, next(a))
		}
		return err
	}
}

// Runs returns all recorded runs in order.
func (db *DB) Runs() ([]RunInfo, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	rows, err := db.store.Query(getRuns)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []RunInfo
	for rows.Next() {
		var (
			r     RunInfo
			start string
		)
		err = rows.Scan(&r.ID, &r.Scene, &r.Sum, &start)
		if err != nil {
			return nil, err
		}
		r.Start, err = time.Parse(time.RFC3339Nano, start)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Ticks returns the ticks recorded for the run in order.
func (db *DB) Ticks(run int64) ([]Tick, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	rows, err := db.store.Query(getTicks, run)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ticks []Tick
	for rows.Next() {
		var (
			t       Tick
			elapsed int64
		)
		err = rows.Scan(&t.Seq, &elapsed, &t.PhaseX, &t.PhaseY)
		if err != nil {
			return nil, err
		}
		t.Elapsed = time.Duration(elapsed)
		ticks = append(ticks, t)
	}
	return ticks, rows.Err()
}
