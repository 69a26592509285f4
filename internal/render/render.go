// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package render provides rasterisation of animated bar charts.
package render

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/image/draw"

	"github.com/kortschak/phase/animator"
	"github.com/kortschak/phase/buffer"
)

// Palette indices used for chart frames.
const (
	Background = iota
	Foreground
	Positive
	Negative
)

// DefaultPalette is the palette used when Options.Palette is nil.
var DefaultPalette = color.Palette{
	Background: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	Foreground: color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff},
	Positive:   color.RGBA{R: 0x46, G: 0x82, B: 0xb4, A: 0xff},
	Negative:   color.RGBA{R: 0xb2, G: 0x22, B: 0x22, A: 0xff},
}

// padding is the space in pixels around the plot area.
const padding = 4

// Options are chart rendering options.
type Options struct {
	Width, Height int
	Title         string
	BarWidth      float64
	Inverted      bool

	// Palette must have at least four colors, indexed by
	// Background, Foreground, Positive and Negative.
	Palette color.Palette
}

// Chart renders frames of a bar chart at animation phases. A Chart reuses
// its bar buffer between frames, so it must not be drawn concurrently.
type Chart struct {
	bounds image.Rectangle
	plot   image.Rectangle
	pal    color.Palette

	title    []string
	inverted bool

	entries []buffer.Entry
	buf     *buffer.BarBuffer

	// lo and hi are the data limits
	// of the y axis including zero.
	lo, hi float64
}

// NewChart returns a Chart for the given data values.
func NewChart(data []float64, opts Options) (*Chart, error) {
	if opts.Width <= 2*padding || opts.Height <= 2*padding {
		return nil, errors.New("chart too small")
	}
	pal := opts.Palette
	if pal == nil {
		pal = DefaultPalette
	}
	if len(pal) < 4 {
		return nil, errors.New("palette too small")
	}
	c := &Chart{
		bounds:   image.Rect(0, 0, opts.Width, opts.Height),
		pal:      pal,
		inverted: opts.Inverted,
		entries:  make([]buffer.Entry, len(data)),
		buf:      buffer.NewBarBuffer(len(data), opts.BarWidth),
	}
	c.buf.Inverted = opts.Inverted
	for i, y := range data {
		c.entries[i] = buffer.Entry{X: float64(i), Y: y}
		c.lo = min(c.lo, y)
		c.hi = max(c.hi, y)
	}
	if c.lo == c.hi {
		c.hi = c.lo + 1
	}

	c.plot = c.bounds.Inset(padding)
	c.title = wrapText(opts.Title, 2, c.plot.Dx()/face.Width)
	if len(c.title) != 0 {
		c.plot.Min.Y += len(c.title)*face.Height + padding
	}
	if c.plot.Empty() {
		return nil, errors.New("no space for plot")
	}
	return c, nil
}

// Bounds returns the bounds of rendered frames.
func (c *Chart) Bounds() image.Rectangle { return c.bounds }

// Frame returns the chart rendered with the given phases.
func (c *Chart) Frame(phaseX, phaseY float64) *image.Paletted {
	dst := image.NewPaletted(c.bounds, c.pal)
	c.Draw(dst, phaseX, phaseY)
	return dst
}

// Draw renders the chart with the given phases into dst.
func (c *Chart) Draw(dst draw.Image, phaseX, phaseY float64) {
	draw.Draw(dst, c.bounds, &image.Uniform{c.pal[Background]}, image.Point{}, draw.Src)
	drawLines(dst, c.bounds.Inset(padding), c.title, c.pal[Foreground])

	c.buf.SetPhases(phaseX, phaseY)
	n := c.buf.Feed(c.entries)
	for i := 0; i+4 <= n; i += 4 {
		left, top, right, bottom := c.buf.Data[i], c.buf.Data[i+1], c.buf.Data[i+2], c.buf.Data[i+3]
		var col color.Color
		switch v := top + bottom; {
		case v > 0:
			col = c.pal[Positive]
		case v < 0:
			col = c.pal[Negative]
		default:
			continue
		}
		bar := image.Rect(c.px(left), c.py(top), c.px(right), c.py(bottom)).Intersect(c.plot)
		draw.Draw(dst, bar, &image.Uniform{col}, image.Point{}, draw.Src)
	}

	zero := c.py(0)
	axis := image.Rect(c.plot.Min.X, zero, c.plot.Max.X, zero+1).Intersect(c.plot)
	draw.Draw(dst, axis, &image.Uniform{c.pal[Foreground]}, image.Point{}, draw.Src)
}

// px returns the pixel column of the data x value.
func (c *Chart) px(x float64) int {
	n := float64(max(len(c.entries), 1))
	return c.plot.Min.X + int((x+0.5)/n*float64(c.plot.Dx()))
}

// py returns the pixel row of the data y value.
func (c *Chart) py(y float64) int {
	f := (y - c.lo) / (c.hi - c.lo) * float64(c.plot.Dy()-1)
	if c.inverted {
		return c.plot.Min.Y + int(f)
	}
	return c.plot.Max.Y - 1 - int(f)
}

// Recorder collects chart frames into an animated GIF.
type Recorder struct {
	chart *Chart
	log   *slog.Logger

	mu  sync.Mutex
	gif gif.GIF
	// delay is the frame delay
	// in hundredths of a second.
	delay int
}

// NewRecorder returns a Recorder for the chart with frames played at fps
// frames per second.
func NewRecorder(c *Chart, fps int, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Recorder{
		chart: c,
		log:   log.With(slog.String("component", "phase.render")),
		gif: gif.GIF{
			Config: image.Config{
				ColorModel: c.pal,
				Width:      c.bounds.Dx(),
				Height:     c.bounds.Dy(),
			},
			BackgroundIndex: Background,
		},
		delay: max(100/max(fps, 1), 2),
	}
}

// Capture appends a frame rendered at the given phases.
func (r *Recorder) Capture(phaseX, phaseY float64) {
	img := r.chart.Frame(phaseX, phaseY)
	r.mu.Lock()
	r.gif.Image = append(r.gif.Image, img)
	r.gif.Delay = append(r.gif.Delay, r.delay)
	n := len(r.gif.Image)
	r.mu.Unlock()
	r.log.LogAttrs(context.Background(), slog.LevelDebug, "capture", slog.Int("frame", n), slog.Float64("phase_x", phaseX), slog.Float64("phase_y", phaseY))
}

// Listener returns an animator.Listener that captures a frame at each
// notification.
func (r *Recorder) Listener() animator.Listener {
	return func(a *animator.Animator) error {
		r.Capture(a.PhaseX(), a.PhaseY())
		return nil
	}
}

// Len returns the number of frames captured.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.gif.Image)
}

// Encode writes the captured frames to w as an animated GIF. The final
// frame is held for one second before the animation loops.
func (r *Recorder) Encode(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.gif.Image) == 0 {
		return errors.New("no frames captured")
	}
	g := r.gif
	g.Delay = slices.Clone(g.Delay)
	g.Delay[len(g.Delay)-1] = 100
	return gif.EncodeAll(w, &g)
}
