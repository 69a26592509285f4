// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileDebounce is the default duration we wait for the contents to have
// stabilised to work around some editors writing an empty file and then the
// buffer.
const FileDebounce = 10 * time.Millisecond

// Change is a scene change identified by a Watcher. A Change with a nil
// Scene and a nil Err is a removal.
type Change struct {
	Event []fsnotify.Event
	Scene *Scene
	Err   error
}

// Op returns an aggregated fsnotify.Op for all elements of the receivers'
// Event field.
func (c Change) Op() fsnotify.Op {
	var op fsnotify.Op
	for _, o := range c.Event {
		op |= o.Op
	}
	return op
}

// Watcher collects raw fsnotify.Events and aggregates and filters for
// semantically meaningful scene changes.
type Watcher struct {
	dir      string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	done     chan struct{}
	changes  chan<- Change
	hashes   map[string]Sum
	log      *slog.Logger
}

// NewWatcher starts an fsnotify.Watcher for the provided directory, sending
// change events on the changes channel. All scene files in dir are sent as
// create changes when the watcher is started. The debounce parameter
// specifies how long to wait after an fsnotify.Event before reading the
// file. If it is less than zero, FileDebounce is used.
func NewWatcher(ctx context.Context, dir string, changes chan<- Change, debounce time.Duration, log *slog.Logger) (*Watcher, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, &fs.PathError{Op: "watch", Path: dir, Err: errors.New("not a directory")}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	err = watcher.Add(dir)
	if err != nil {
		watcher.Close()
		return nil, err
	}

	if debounce < 0 {
		debounce = FileDebounce
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	w := &Watcher{
		dir:      dir,
		debounce: debounce,
		watcher:  watcher,
		changes:  changes,
		hashes:   make(map[string]Sum),
		log:      log.With(slog.String("component", "phase.config.watcher")),
	}
	return w.init(ctx)
}

// init performs an initial scan of the watcher's directory, sending create
// changes for all scene files found in the directory.
func (w *Watcher) init(ctx context.Context) (*Watcher, error) {
	de, err := os.ReadDir(w.dir)
	if err != nil {
		w.watcher.Close()
		return nil, err
	}
	w.done = make(chan struct{})
	go func() {
		defer close(w.done)
		for _, e := range de {
			name := e.Name()
			if e.IsDir() || filepath.Ext(name) != ".toml" {
				continue
			}
			path := filepath.Join(w.dir, name)
			c, ok := w.read(ctx, path)
			if !ok {
				continue
			}
			c.Event = []fsnotify.Event{{Name: path, Op: fsnotify.Create}}
			if !w.send(ctx, c) {
				return
			}
		}
	}()
	return w, nil
}

// ErrWatcherClosed is returned by Watch when the underlying
// fsnotify.Watcher stops delivering events before the context is
// cancelled.
var ErrWatcherClosed = errors.New("watcher closed")

// Watch processes fsnotify events until ctx is cancelled. It closes the
// underlying fsnotify.Watcher before returning.
func (w *Watcher) Watch(ctx context.Context) error {
	defer w.watcher.Close()
	select {
	case <-ctx.Done():
		return nil
	case <-w.done:
	}

	// Renames are seen as a rename/create pair and
	// are matched by the content hash of the file.
	renames := make(map[Sum]fsnotify.Event)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			if !w.send(ctx, Change{Err: err}) {
				return nil
			}
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if filepath.Ext(ev.Name) != ".toml" {
				continue
			}
			switch {
			case ev.Has(fsnotify.Write):
				w.log.LogAttrs(ctx, slog.LevelDebug, "write", slog.String("name", ev.Name))
				time.Sleep(w.debounce)
				c, ok := w.read(ctx, ev.Name)
				if !ok {
					continue
				}
				c.Event = []fsnotify.Event{ev}
				if !w.send(ctx, c) {
					return nil
				}

			case ev.Has(fsnotify.Rename):
				w.log.LogAttrs(ctx, slog.LevelDebug, "rename", slog.String("name", ev.Name))
				sum, ok := w.hashes[ev.Name]
				if !ok {
					continue
				}
				w.log.LogAttrs(ctx, slog.LevelDebug, "set renames", slog.Any("sum", sumValue{sum}), slog.Any("renames", renamesValue{renames}))
				renames[sum] = ev
				delete(w.hashes, ev.Name)

			case ev.Has(fsnotify.Create):
				// Create events independent of a write are not
				// informative unless they complete a rename.
				w.log.LogAttrs(ctx, slog.LevelDebug, "create", slog.String("name", ev.Name))
				b, err := os.ReadFile(ev.Name)
				if err != nil || len(b) == 0 {
					continue
				}
				s, sum, err := Decode(b)
				prev, ok := renames[sum]
				if !ok {
					w.log.LogAttrs(ctx, slog.LevelDebug, "no renames", slog.Any("sum", sumValue{sum}), slog.Any("renames", renamesValue{renames}))
					continue
				}
				delete(renames, sum)
				w.hashes[ev.Name] = sum
				if s != nil {
					s.Name = sceneName(ev.Name)
				}
				if !w.send(ctx, Change{Event: []fsnotify.Event{prev, ev}, Scene: s, Err: err}) {
					return nil
				}

			case ev.Has(fsnotify.Remove):
				w.log.LogAttrs(ctx, slog.LevelDebug, "remove", slog.String("name", ev.Name))
				if _, ok := w.hashes[ev.Name]; !ok {
					continue
				}
				delete(w.hashes, ev.Name)
				if !w.send(ctx, Change{Event: []fsnotify.Event{ev}}) {
					return nil
				}
			}
		}
	}
}

// read reads and decodes the scene file at path, reporting whether the
// result is a change. Empty files and files with unchanged semantic hashes
// are not changes.
func (w *Watcher) read(ctx context.Context, path string) (Change, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Change{}, false
		}
		w.log.LogAttrs(ctx, slog.LevelError, "read file", slog.Any("error", err))
		return Change{Err: err}, true
	}
	if len(b) == 0 {
		w.log.LogAttrs(ctx, slog.LevelDebug, "empty file", slog.String("name", path))
		return Change{}, false
	}
	s, sum, err := Decode(b)
	if prev, ok := w.hashes[path]; ok && prev == sum {
		w.log.LogAttrs(ctx, slog.LevelDebug, "no change", slog.Any("sum", sumValue{sum}), slog.Any("existing_hashes", hashesValue{w.hashes}))
		return Change{}, false
	}
	w.log.LogAttrs(ctx, slog.LevelDebug, "set hash", slog.String("name", path), slog.Any("sum", sumValue{sum}))
	w.hashes[path] = sum
	if s != nil {
		s.Name = sceneName(path)
	}
	return Change{Scene: s, Err: err}, true
}

// send sends c on the changes channel, reporting false if ctx was
// cancelled first.
func (w *Watcher) send(ctx context.Context, c Change) bool {
	w.log.LogAttrs(ctx, slog.LevelDebug, "change", slog.Any("change", changeValue{c}))
	select {
	case <-ctx.Done():
		return false
	case w.changes <- c:
		return true
	}
}
