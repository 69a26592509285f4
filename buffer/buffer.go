// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package buffer provides reusable float buffers that materialise chart
// geometry for renderers, scaled by animation phases.
//
// Buffers are replaced rather than recreated: a renderer feeds the same
// buffer on every frame after setting the current phases.
package buffer

// Buffer is the reusable storage shared by concrete buffers. Data holds
// the values most recently fed.
type Buffer struct {
	Data []float64

	index int

	phaseX, phaseY float64

	// from and to limit the visible entries.
	// A zero to is the end of the data.
	from, to int
}

// New returns a Buffer holding size values, with both phases at 1.
func New(size int) *Buffer {
	b := &Buffer{}
	b.init(size)
	return b
}

func (b *Buffer) init(size int) {
	b.Data = make([]float64, max(size, 0))
	b.phaseX = 1
	b.phaseY = 1
}

// Reset returns the write index to the start of the buffer so that it
// can be reused.
func (b *Buffer) Reset() { b.index = 0 }

// Size returns the length of the underlying storage.
func (b *Buffer) Size() int { return len(b.Data) }

// LimitFrom sets the first visible entry. Negative values are treated
// as zero.
func (b *Buffer) LimitFrom(from int) { b.from = max(from, 0) }

// LimitTo sets the end of the visible entries. Negative values are
// treated as zero, which means no limit.
func (b *Buffer) LimitTo(to int) { b.to = max(to, 0) }

// Limits returns the visible entry limits.
func (b *Buffer) Limits() (from, to int) { return b.from, b.to }

// SetPhases sets the animation phases used by the next feed.
func (b *Buffer) SetPhases(x, y float64) {
	b.phaseX = x
	b.phaseY = y
}

// Phases returns the animation phases.
func (b *Buffer) Phases() (x, y float64) { return b.phaseX, b.phaseY }

// window returns the visible sub-slice bounds of n entries.
func (b *Buffer) window(n int) (from, to int) {
	to = n
	if b.to != 0 {
		to = min(b.to, n)
	}
	from = min(b.from, to)
	return from, to
}

// put writes v at the write index, growing the storage if needed.
func (b *Buffer) put(v ...float64) {
	if need := b.index + len(v); need > len(b.Data) {
		b.Data = append(b.Data, make([]float64, need-len(b.Data))...)
	}
	b.index += copy(b.Data[b.index:], v)
}
