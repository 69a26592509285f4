// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buffer

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBufferLimits(t *testing.T) {
	b := New(8)
	if b.Size() != 8 {
		t.Errorf("unexpected size: got:%d want:8", b.Size())
	}
	if x, y := b.Phases(); x != 1 || y != 1 {
		t.Errorf("unexpected default phases: x=%v y=%v", x, y)
	}
	b.LimitFrom(-3)
	b.LimitTo(-1)
	if from, to := b.Limits(); from != 0 || to != 0 {
		t.Errorf("negative limits not clamped: from=%d to=%d", from, to)
	}
	b.LimitFrom(2)
	b.LimitTo(5)
	if from, to := b.Limits(); from != 2 || to != 5 {
		t.Errorf("unexpected limits: from=%d to=%d", from, to)
	}
}

var entries = []Entry{
	{X: 0, Y: 4},
	{X: 1, Y: -2},
	{X: 2, Y: 8},
	{X: 3, Y: 0},
}

var barTests = []struct {
	name     string
	phaseX   float64
	phaseY   float64
	inverted bool
	from, to int
	want     []float64
}{
	{
		name:   "full",
		phaseX: 1, phaseY: 1,
		want: []float64{
			-0.25, 4, 0.25, 0,
			0.75, 0, 1.25, -2,
			1.75, 8, 2.25, 0,
			2.75, 0, 3.25, 0,
		},
	},
	{
		name:   "half_y",
		phaseX: 1, phaseY: 0.5,
		want: []float64{
			-0.25, 2, 0.25, 0,
			0.75, 0, 1.25, -1,
			1.75, 4, 2.25, 0,
			2.75, 0, 3.25, 0,
		},
	},
	{
		name:   "partial_x",
		phaseX: 0.3, phaseY: 1,
		want: []float64{
			-0.25, 4, 0.25, 0,
			0.75, 0, 1.25, -2,
		},
	},
	{
		name:   "zero_x",
		phaseX: 0, phaseY: 1,
		want:   []float64{},
	},
	{
		name:   "overshoot",
		phaseX: 1.2, phaseY: 1.5,
		want: []float64{
			-0.25, 6, 0.25, 0,
			0.75, 0, 1.25, -3,
			1.75, 12, 2.25, 0,
			2.75, 0, 3.25, 0,
		},
	},
	{
		name:   "inverted",
		phaseX: 1, phaseY: 0.5, inverted: true,
		want: []float64{
			-0.25, 0, 0.25, 2,
			0.75, -1, 1.25, 0,
			1.75, 0, 2.25, 4,
			2.75, 0, 3.25, 0,
		},
	},
	{
		name:   "nan_x",
		phaseX: math.NaN(), phaseY: 1,
		want:   []float64{},
	},
	{
		name:   "nan_y",
		phaseX: 1, phaseY: math.NaN(),
		want: []float64{
			-0.25, 0, 0.25, 0,
			0.75, 0, 1.25, 0,
			1.75, 0, 2.25, 0,
			2.75, 0, 3.25, 0,
		},
	},
	{
		name:   "inf_y",
		phaseX: 1, phaseY: math.Inf(1),
		want: []float64{
			-0.25, 0, 0.25, 0,
			0.75, 0, 1.25, 0,
			1.75, 0, 2.25, 0,
			2.75, 0, 3.25, 0,
		},
	},
	{
		name:   "limited",
		phaseX: 1, phaseY: 1,
		from:   1, to: 3,
		want: []float64{
			0.75, 0, 1.25, -2,
			1.75, 8, 2.25, 0,
		},
	},
}

func TestBarBufferFeed(t *testing.T) {
	for _, test := range barTests {
		t.Run(test.name, func(t *testing.T) {
			b := NewBarBuffer(len(entries), 0.5)
			b.Inverted = test.inverted
			b.LimitFrom(test.from)
			b.LimitTo(test.to)
			b.SetPhases(test.phaseX, test.phaseY)

			// Feed twice to check the buffer is reusable.
			for range 2 {
				n := b.Feed(entries)
				got := b.Data[:n]
				if !cmp.Equal(got, test.want) {
					t.Errorf("unexpected bars:\n--- want:\n+++ got:\n%s", cmp.Diff(test.want, got))
				}
			}
			if b.Size() != 4*len(entries) {
				t.Errorf("buffer reallocated: got size %d want %d", b.Size(), 4*len(entries))
			}
		})
	}
}

func TestBarBufferGrow(t *testing.T) {
	b := NewBarBuffer(1, 1)
	n := b.Feed(entries)
	if n != 4*len(entries) {
		t.Errorf("unexpected number of values: got:%d want:%d", n, 4*len(entries))
	}
	if b.Size() < n {
		t.Errorf("buffer did not grow: size=%d n=%d", b.Size(), n)
	}
}
