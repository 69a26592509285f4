// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package render

import (
	"image"
	"image/color"
	"strings"

	"github.com/bbrks/wrap/v2"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// face is the font used for chart text.
var face = basicfont.Face7x13

// wrapText returns text broken into at most rows lines of at most cols
// characters, breaking at word boundaries where possible. Text that does
// not fit is truncated with an ellipsis.
func wrapText(text string, rows, cols int) []string {
	if rows < 1 || cols < 1 || strings.TrimSpace(text) == "" {
		return nil
	}
	wrapper := wrap.NewWrapper()
	wrapper.StripTrailingNewline = true
	wrapper.CutLongWords = true
	lines := strings.Split(wrapper.Wrap(text, cols), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	if len(lines) > rows {
		lines = lines[:rows]
		last := []rune(lines[rows-1])
		const ellipsis = "..."
		if len(last) > cols-len(ellipsis) {
			last = last[:max(cols-len(ellipsis), 0)]
		}
		lines[rows-1] = string(last) + ellipsis
	}
	return lines
}

// drawLines draws lines centered horizontally in bound, starting at the
// top of bound.
func drawLines(dst draw.Image, bound image.Rectangle, lines []string, col color.Color) {
	fg := &image.Uniform{col}
	for i, l := range lines {
		w := font.MeasureString(face, l).Ceil()
		x := bound.Min.X + (bound.Dx()-w)/2
		drawer := font.Drawer{
			Dst:  dst,
			Src:  fg,
			Face: face,
			Dot:  fixed.P(x, bound.Min.Y+face.Ascent+face.Height*i),
		}
		drawer.DrawString(l)
	}
}
