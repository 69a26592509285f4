// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

type changeValue struct {
	Change
}

func (v changeValue) LogValue() slog.Value {
	events := make([]eventValue, len(v.Event))
	for i, e := range v.Event {
		events[i] = eventValue{
			Name: e.Name,
			Op:   e.Op.String(),
			Code: int(e.Op),
		}
	}
	var scene, sum string
	if v.Scene != nil {
		scene = v.Scene.Name
		sum = v.Scene.Sum.String()
	}
	var err string
	if v.Err != nil {
		err = v.Err.Error()
	}
	return slog.AnyValue(struct {
		Event []eventValue `json:"event"`
		Scene string       `json:"scene,omitempty"`
		Sum   string       `json:"sum,omitempty"`
		Err   string       `json:"err,omitempty"`
	}{
		Event: events,
		Scene: scene,
		Sum:   sum,
		Err:   err,
	})
}

type eventValue struct {
	Name string `json:"name"`
	Op   string `json:"op"`
	Code int    `json:"op_code"`
}

type sumValue struct {
	sum Sum
}

func (v sumValue) LogValue() slog.Value {
	return slog.StringValue(v.sum.String())
}

type hashesValue struct {
	m map[string]Sum
}

func (v hashesValue) LogValue() slog.Value {
	m := make(map[string]string, len(v.m))
	for p, h := range v.m {
		m[p] = h.String()
	}
	return slog.AnyValue(m)
}

type renamesValue struct {
	m map[Sum]fsnotify.Event
}

func (v renamesValue) LogValue() slog.Value {
	m := make(map[string]string, len(v.m))
	for s, e := range v.m {
		m[s.String()] = e.String()
	}
	return slog.AnyValue(m)
}
