// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package buffer

import "math"

// Entry is a single bar value.
type Entry struct {
	X, Y float64
}

// BarBuffer materialises bar rectangles as left, top, right, bottom
// quadruples in data space.
type BarBuffer struct {
	Buffer

	// BarWidth is the width of each bar in x units.
	BarWidth float64

	// Inverted flips the y axis so that positive values
	// extend downwards from zero.
	Inverted bool
}

// NewBarBuffer returns a BarBuffer sized for n entries.
func NewBarBuffer(n int, barWidth float64) *BarBuffer {
	b := &BarBuffer{BarWidth: barWidth}
	b.init(4 * n)
	return b
}

// Feed writes the bars for the visible entries and returns the number of
// values written. Only the leading fraction of the visible entries given
// by the X phase is written, and bar heights are scaled by the Y phase.
// Non-finite phases are treated as zero. The write index is reset after
// feeding.
func (b *BarBuffer) Feed(entries []Entry) int {
	from, to := b.window(len(entries))
	entries = entries[from:to]

	px := min(max(finite(b.phaseX), 0), 1)
	py := finite(b.phaseY)
	n := int(math.Ceil(float64(len(entries)) * px))

	half := b.BarWidth / 2
	for _, e := range entries[:n] {
		var top, bottom float64
		if b.Inverted {
			bottom = math.Max(e.Y, 0)
			top = math.Min(e.Y, 0)
		} else {
			top = math.Max(e.Y, 0)
			bottom = math.Min(e.Y, 0)
		}
		// One of top and bottom is zero.
		b.put(e.X-half, top*py, e.X+half, bottom*py)
	}
	written := b.index
	b.Reset()
	return written
}

// finite returns v, or zero if v is NaN or infinite.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
