// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slogext

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kortschak/phase/easing"
)

func TestJSONHandlerAddSource(t *testing.T) {
	var buf bytes.Buffer
	addSource := NewAtomicBool(false)
	log := slog.New(NewJSONHandler(&buf, &HandlerOptions{AddSource: addSource}))

	log.Info("without")
	addSource.Store(true)
	log.Info("with")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte{'\n'})
	if len(lines) != 2 {
		t.Fatalf("unexpected number of log lines: got:%d want:2\n%s", len(lines), buf.Bytes())
	}
	for i, want := range []bool{false, true} {
		var rec map[string]any
		err := json.Unmarshal(lines[i], &rec)
		if err != nil {
			t.Fatalf("unexpected error unmarshaling log line: %v", err)
		}
		_, got := rec[slog.SourceKey]
		if got != want {
			t.Errorf("unexpected source presence for line %d: got:%t want:%t", i, got, want)
		}
	}
}

func TestRunLogValue(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(GoID{NewJSONHandler(&buf, nil)})
	log.LogAttrs(context.Background(), slog.LevelInfo, "animate", slog.Any("run", Run{
		Axis:     "x",
		Duration: time.Second,
		Easing:   easing.EaseOutBounce,
		Notify:   true,
	}), slog.Any("custom", Easing{easing.Func(func(t float64) float64 { return t })}))

	var rec struct {
		GoID int64 `json:"goid"`
		Run  struct {
			Axis     string `json:"axis"`
			Duration int64  `json:"duration"`
			Easing   string `json:"easing"`
			Notify   bool   `json:"notify"`
		} `json:"run"`
		Custom string `json:"custom"`
	}
	err := json.Unmarshal(buf.Bytes(), &rec)
	if err != nil {
		t.Fatalf("unexpected error unmarshaling log line: %v", err)
	}
	if rec.GoID == 0 {
		t.Error("missing goid")
	}
	got := []any{rec.Run.Axis, rec.Run.Duration, rec.Run.Easing, rec.Run.Notify, rec.Custom}
	want := []any{"x", int64(time.Second), "EaseOutBounce", true, "easing.Func"}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected log value:\n--- want:\n+++ got:\n%s", cmp.Diff(want, got))
	}
}
