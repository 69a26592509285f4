// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The phase command renders animated bar chart scenes.
//
// Scenes are described in TOML files and are rendered to animated GIFs
// with the X and Y animation phases of the chart driven by easing curves.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/kortschak/phase/easing"
	"github.com/kortschak/phase/internal/config"
	"github.com/kortschak/phase/internal/slogext"
	"github.com/kortschak/phase/internal/trace"
	"github.com/kortschak/phase/internal/version"
)

// Exit status codes.
const (
	success         = 0
	internalError   = 1
	invocationError = 2
)

func main() { os.Exit(Main()) }

// Main is the phase command.
func Main() int {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage of %s:

  %[1]s [options] <scene.toml|dir>

Scenes are rendered to <name>.gif in the output directory. If no output
directory is given, the directory holding the scene file is used.

`, filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	logging := flag.String("log", "info", "logging level (debug, info, warn or error)")
	lines := flag.Bool("lines", false, "display source line details in logs")
	out := flag.String("o", "", "output directory")
	watch := flag.Bool("watch", false, "re-render scenes in a directory when they change")
	live := flag.Bool("live", false, "play scenes in real time, printing phases")
	tracePath := flag.String("trace", "", "record listener ticks to an sqlite database")
	plot := flag.Bool("plot", false, "also write an SVG plot of the scene's easing curves")
	list := flag.Bool("list", false, "list the easing curve catalog and exit")
	v := flag.Bool("version", false, "print version and exit")
	flag.Parse()
	if *v {
		err := version.Print(os.Stdout)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return internalError
		}
		return success
	}
	if *list {
		for _, c := range easing.Curves() {
			if easing.Overshoots(c) {
				fmt.Printf("%s\tovershoots\n", c)
			} else {
				fmt.Println(c)
			}
		}
		return success
	}
	if flag.NArg() != 1 || (*watch && *live) {
		flag.Usage()
		return invocationError
	}

	var level slog.LevelVar
	err := level.UnmarshalText([]byte(*logging))
	if err != nil {
		flag.Usage()
		return invocationError
	}

	// log is the root logger.
	log := slog.New(slogext.GoID{Handler: slogext.NewJSONHandler(os.Stderr, &slogext.HandlerOptions{
		Level:     &level,
		AddSource: slogext.NewAtomicBool(*lines),
	})})
	// mlog is the logger for main.
	mlog := log.With(slog.String("component", "phase.main"))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	path := flag.Arg(0)
	fi, err := os.Stat(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return invocationError
	}
	if *watch && !fi.IsDir() {
		fmt.Fprintf(os.Stderr, "%s: watch requires a directory\n", path)
		return invocationError
	}

	p := player{
		out:  *out,
		plot: *plot,
		log:  log,
	}
	if *tracePath != "" {
		p.trace, err = trace.Open(*tracePath, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open trace store: %v\n", err)
			return internalError
		}
		defer p.trace.Close()
	}

	if *watch {
		return p.watch(ctx, path, mlog)
	}

	paths := []string{path}
	if fi.IsDir() {
		paths, err = config.Glob(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return invocationError
		}
	}
	status := success
	for _, path := range paths {
		s, err := config.Load(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			status = invocationError
			continue
		}
		if *live {
			err = p.live(ctx, s)
		} else {
			err = p.render(ctx, s, sceneDir(p.out, path))
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			if errors.Is(err, context.Canceled) {
				return internalError
			}
			status = internalError
		}
	}
	return status
}

// sceneDir returns the output directory for the scene file at path.
func sceneDir(out, path string) string {
	if out != "" {
		return out
	}
	return filepath.Dir(path)
}

// watch renders scenes in dir each time they change until ctx is
// cancelled. Only one watcher may run for a directory.
func (p player) watch(ctx context.Context, dir string, log *slog.Logger) int {
	lockPath := filepath.Join(dir, ".phase.lock")
	fl := flock.New(lockPath)
	ok, err := fl.TryLock()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return internalError
	}
	if !ok {
		fmt.Fprintf(os.Stderr, "phase is already watching %s\n", dir)
		return internalError
	}
	defer func() {
		fl.Unlock()
		os.Remove(lockPath)
	}()

	changes := make(chan config.Change)
	w, err := config.NewWatcher(ctx, dir, changes, -1, p.log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return internalError
	}
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx)
	}()
	log.LogAttrs(ctx, slog.LevelInfo, "watching", slog.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			log.LogAttrs(ctx, slog.LevelInfo, "terminating")
			<-done
			return success
		case err := <-done:
			if ctx.Err() != nil {
				log.LogAttrs(ctx, slog.LevelInfo, "terminating")
				return success
			}
			log.LogAttrs(ctx, slog.LevelError, "watcher failed", slog.Any("error", err))
			return internalError
		case c := <-changes:
			switch {
			case c.Err != nil:
				log.LogAttrs(ctx, slog.LevelWarn, "scene error", slog.Any("events", c.Event), slog.Any("error", c.Err))
			case c.Scene == nil:
				log.LogAttrs(ctx, slog.LevelInfo, "scene removed", slog.Any("events", c.Event))
			default:
				err := p.render(ctx, c.Scene, sceneDir(p.out, filepath.Join(dir, c.Scene.Name)))
				if err != nil {
					log.LogAttrs(ctx, slog.LevelWarn, "render failed", slog.String("scene", c.Scene.Name), slog.Any("error", err))
				}
			}
		}
	}
}
