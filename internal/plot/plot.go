// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plot provides SVG plots of easing curves.
package plot

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/kortschak/phase/easing"
)

// Options are plot options. A zero Options consists entirely of default
// values.
type Options struct {
	// Width and Height are the plot dimensions in
	// millimetres. The defaults are 120 by 80.
	Width, Height float64

	// Samples is the number of points at which each
	// curve is evaluated. The default is 200.
	Samples int
}

// Colors cycled through for curves.
var colors = []color.Color{
	color.RGBA{R: 0x46, G: 0x82, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xb2, G: 0x22, B: 0x22, A: 0xff},
	color.RGBA{R: 0x22, G: 0x8b, B: 0x22, A: 0xff},
	color.RGBA{R: 0xda, G: 0xa5, B: 0x20, A: 0xff},
	color.RGBA{R: 0x6a, G: 0x5a, B: 0xcd, A: 0xff},
}

// margin is the space around the plot area in millimetres.
const margin = 5

// Curves writes an SVG plot of the curves over [0,1] to w. The vertical
// range covers [0,1] and any overshoot. Lines are drawn at 0 and 1.
func Curves(w io.Writer, curves []easing.Interpolator, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = 120
	}
	if height <= 0 {
		height = 80
	}
	n := opts.Samples
	if n < 2 {
		n = 200
	}

	samples := make([][]float64, len(curves))
	lo, hi := 0.0, 1.0
	for i, c := range curves {
		samples[i] = make([]float64, n)
		for j := range samples[i] {
			v := c.Ease(float64(j) / float64(n-1))
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("curve %d %v: non-finite value at sample %d", i, c, j)
			}
			samples[i][j] = v
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetFillColor(canvas.White)
	ctx.DrawPath(0, 0, canvas.Rectangle(width, height))

	pw, ph := width-2*margin, height-2*margin
	x := func(t float64) float64 { return margin + t*pw }
	y := func(v float64) float64 { return margin + (v-lo)/(hi-lo)*ph }

	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(canvas.Lightgray)
	ctx.SetStrokeWidth(0.3)
	for _, v := range []float64{0, 1} {
		p := &canvas.Path{}
		p.MoveTo(x(0), y(v))
		p.LineTo(x(1), y(v))
		ctx.DrawPath(0, 0, p)
	}
	ctx.SetStrokeColor(canvas.Black)
	ctx.DrawPath(margin, margin, canvas.Rectangle(pw, ph))

	ctx.SetStrokeWidth(0.5)
	for i, s := range samples {
		ctx.SetStrokeColor(colors[i%len(colors)])
		p := &canvas.Path{}
		for j, v := range s {
			t := float64(j) / float64(n-1)
			if j == 0 {
				p.MoveTo(x(t), y(v))
			} else {
				p.LineTo(x(t), y(v))
			}
		}
		ctx.DrawPath(0, 0, p)
	}

	r := svg.New(w, width, height, nil)
	c.RenderTo(r)
	return r.Close()
}
