// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package easing provides a catalog of easing curves for driving
// animation phases.
//
// Each curve maps a normalized time t in [0,1] to a normalized output.
// Every curve is anchored so that f(0) == 0 and f(1) == 1 exactly. The
// back and elastic families overshoot the [0,1] range at interior points.
// Inputs outside [0,1] are extrapolated by the curve's formula.
package easing

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCurve is returned when a curve name or value is not in the
// catalog.
var ErrUnknownCurve = errors.New("unknown easing curve")

// Interpolator is the single capability shared by all easing curves.
type Interpolator interface {
	// Ease returns the curve value at normalized time t.
	Ease(t float64) float64
}

// Func is a function adapter for the Interpolator interface.
type Func func(t float64) float64

// Ease returns f(t).
func (f Func) Ease(t float64) float64 { return f(t) }

// Curve is a named curve from the catalog. The zero Curve is Linear.
type Curve int

// The curve catalog.
const (
	Linear Curve = iota
	EaseInQuad
	EaseOutQuad
	EaseInOutQuad
	EaseInCubic
	EaseOutCubic
	EaseInOutCubic
	EaseInQuart
	EaseOutQuart
	EaseInOutQuart
	EaseInSine
	EaseOutSine
	EaseInOutSine
	EaseInExpo
	EaseOutExpo
	EaseInOutExpo
	EaseInCirc
	EaseOutCirc
	EaseInOutCirc
	EaseInElastic
	EaseOutElastic
	EaseInOutElastic
	EaseInBack
	EaseOutBack
	EaseInOutBack
	EaseInBounce
	EaseOutBounce
	EaseInOutBounce

	numCurves
)

var catalog = [numCurves]struct {
	name string
	fn   func(float64) float64
}{
	Linear:           {"Linear", linear},
	EaseInQuad:       {"EaseInQuad", inQuad},
	EaseOutQuad:      {"EaseOutQuad", outQuad},
	EaseInOutQuad:    {"EaseInOutQuad", inOutQuad},
	EaseInCubic:      {"EaseInCubic", inCubic},
	EaseOutCubic:     {"EaseOutCubic", outCubic},
	EaseInOutCubic:   {"EaseInOutCubic", inOutCubic},
	EaseInQuart:      {"EaseInQuart", inQuart},
	EaseOutQuart:     {"EaseOutQuart", outQuart},
	EaseInOutQuart:   {"EaseInOutQuart", inOutQuart},
	EaseInSine:       {"EaseInSine", inSine},
	EaseOutSine:      {"EaseOutSine", outSine},
	EaseInOutSine:    {"EaseInOutSine", inOutSine},
	EaseInExpo:       {"EaseInExpo", inExpo},
	EaseOutExpo:      {"EaseOutExpo", outExpo},
	EaseInOutExpo:    {"EaseInOutExpo", inOutExpo},
	EaseInCirc:       {"EaseInCirc", inCirc},
	EaseOutCirc:      {"EaseOutCirc", outCirc},
	EaseInOutCirc:    {"EaseInOutCirc", inOutCirc},
	EaseInElastic:    {"EaseInElastic", inElastic},
	EaseOutElastic:   {"EaseOutElastic", outElastic},
	EaseInOutElastic: {"EaseInOutElastic", inOutElastic},
	EaseInBack:       {"EaseInBack", inBack},
	EaseOutBack:      {"EaseOutBack", outBack},
	EaseInOutBack:    {"EaseInOutBack", inOutBack},
	EaseInBounce:     {"EaseInBounce", inBounce},
	EaseOutBounce:    {"EaseOutBounce", outBounce},
	EaseInOutBounce:  {"EaseInOutBounce", inOutBounce},
}

// lookup is keyed by lower-cased curve name.
var lookup = func() map[string]Curve {
	m := make(map[string]Curve, numCurves)
	for c, e := range catalog {
		m[strings.ToLower(e.name)] = Curve(c)
	}
	return m
}()

// Curves returns all the curves in the catalog in declaration order.
func Curves() []Curve {
	c := make([]Curve, numCurves)
	for i := range c {
		c[i] = Curve(i)
	}
	return c
}

// Parse returns the curve with the given name. Names are matched without
// regard to case. Parse returns an error wrapping ErrUnknownCurve if the
// name is not in the catalog.
func Parse(name string) (Curve, error) {
	c, ok := lookup[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
	}
	return c, nil
}

// Valid returns whether c is in the catalog.
func (c Curve) Valid() bool {
	return 0 <= c && c < numCurves
}

// Ease returns the value of the curve at t. Ease panics if c is not valid.
func (c Curve) Ease(t float64) float64 {
	if !c.Valid() {
		panic(fmt.Sprintf("easing: %v", c))
	}
	return anchored(catalog[c].fn, t)
}

// String returns the catalog name of c.
func (c Curve) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Curve(%d)", int(c))
	}
	return catalog[c].name
}

// MarshalText implements the encoding.TextMarshaler interface.
func (c Curve) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCurve, int(c))
	}
	return []byte(catalog[c].name), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (c *Curve) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Overshoots returns whether the curve leaves the [0,1] range at interior
// points. Only the back and elastic families overshoot.
func Overshoots(c Curve) bool {
	switch c {
	case EaseInElastic, EaseOutElastic, EaseInOutElastic,
		EaseInBack, EaseOutBack, EaseInOutBack:
		return true
	default:
		return false
	}
}
