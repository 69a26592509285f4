// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package easing

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const tol = 1e-6

func samples(n int) []float64 {
	t := make([]float64, n+1)
	for i := range t {
		t[i] = float64(i) / float64(n)
	}
	return t
}

func TestEndPoints(t *testing.T) {
	for _, c := range Curves() {
		t.Run(c.String(), func(t *testing.T) {
			if got := c.Ease(0); math.Abs(got) > tol {
				t.Errorf("unexpected value at 0: got:%v want:0", got)
			}
			if got := c.Ease(1); math.Abs(got-1) > tol {
				t.Errorf("unexpected value at 1: got:%v want:1", got)
			}
		})
	}
}

func TestUnanchoredEndPoints(t *testing.T) {
	// The catalog functions themselves must agree with the anchors
	// to within tolerance so that the anchoring does not introduce
	// a discontinuity.
	for c, e := range catalog {
		t.Run(e.name, func(t *testing.T) {
			if got := e.fn(0); math.Abs(got) > tol {
				t.Errorf("unexpected raw value at 0 for %v: got:%v want:0", Curve(c), got)
			}
			if got := e.fn(1); math.Abs(got-1) > tol {
				t.Errorf("unexpected raw value at 1 for %v: got:%v want:1", Curve(c), got)
			}
		})
	}
}

func TestLinear(t *testing.T) {
	for _, x := range samples(64) {
		if got := Linear.Ease(x); got != x {
			t.Errorf("unexpected linear value: got:%v want:%v", got, x)
		}
	}
}

func TestBounceSymmetry(t *testing.T) {
	for _, x := range samples(200) {
		got := EaseInBounce.Ease(x)
		want := 1 - EaseOutBounce.Ease(1-x)
		if got != want {
			t.Errorf("unexpected in-bounce value at %v: got:%v want:%v", x, got, want)
		}
	}
}

func TestOutBounceTerminal(t *testing.T) {
	if got := EaseOutBounce.Ease(1); got != 1 {
		t.Errorf("unexpected terminal value: got:%v want:1", got)
	}
	// Approach the end through the last branch.
	x := 1 - 1e-9
	if got := outBounce(x); math.Abs(got-1) > tol {
		t.Errorf("unexpected value near terminal: got:%v want:~1", got)
	}
	if x < 2.5/2.75 {
		t.Fatal("sample not in terminal branch")
	}
}

func TestInOutContinuity(t *testing.T) {
	for _, c := range []Curve{
		EaseInOutQuad, EaseInOutCubic, EaseInOutQuart, EaseInOutBack,
		EaseInOutSine, EaseInOutExpo, EaseInOutCirc, EaseInOutElastic, EaseInOutBounce,
	} {
		t.Run(c.String(), func(t *testing.T) {
			mid := c.Ease(0.5)
			if math.Abs(mid-0.5) > tol {
				t.Errorf("unexpected midpoint value: got:%v want:0.5", mid)
			}
			const eps = 1e-13
			left, right := c.Ease(0.5-eps), c.Ease(0.5+eps)
			if math.Abs(left-mid) > tol || math.Abs(right-mid) > tol {
				t.Errorf("discontinuity at midpoint: left:%v mid:%v right:%v", left, mid, right)
			}
		})
	}
}

func TestOvershoot(t *testing.T) {
	for _, c := range Curves() {
		var lo, hi float64
		for _, x := range samples(1000) {
			v := c.Ease(x)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		leaves := lo < -tol || hi > 1+tol
		if leaves != Overshoots(c) {
			t.Errorf("unexpected overshoot classification for %v: got range [%v,%v] overshoots=%t", c, lo, hi, Overshoots(c))
		}
	}
}

func TestMonotonic(t *testing.T) {
	for _, c := range []Curve{
		Linear,
		EaseInQuad, EaseOutQuad, EaseInOutQuad,
		EaseInCubic, EaseOutCubic, EaseInOutCubic,
		EaseInQuart, EaseOutQuart, EaseInOutQuart,
		EaseInSine, EaseOutSine, EaseInOutSine,
		EaseInExpo, EaseOutExpo, EaseInOutExpo,
		EaseInCirc, EaseOutCirc, EaseInOutCirc,
	} {
		last := math.Inf(-1)
		for _, x := range samples(500) {
			v := c.Ease(x)
			if v < last-1e-12 {
				t.Errorf("%v not monotonic at %v: %v < %v", c, x, v, last)
				break
			}
			last = v
		}
	}
}

var parseTests = []struct {
	name    string
	want    Curve
	wantErr error
}{
	{name: "Linear", want: Linear},
	{name: "EaseOutBounce", want: EaseOutBounce},
	{name: "easeinoutelastic", want: EaseInOutElastic},
	{name: "EASEINBACK", want: EaseInBack},
	{name: "Bouncy", wantErr: ErrUnknownCurve},
	{name: "", wantErr: ErrUnknownCurve},
}

func TestParse(t *testing.T) {
	for _, test := range parseTests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Parse(test.name)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("unexpected error: got:%v want:%v", err, test.wantErr)
			}
			if err != nil {
				return
			}
			if got != test.want {
				t.Errorf("unexpected curve: got:%v want:%v", got, test.want)
			}
		})
	}
}

func TestTextRoundTrip(t *testing.T) {
	var got []Curve
	for _, c := range Curves() {
		b, err := c.MarshalText()
		if err != nil {
			t.Fatalf("unexpected error marshaling %v: %v", c, err)
		}
		var u Curve
		err = u.UnmarshalText(b)
		if err != nil {
			t.Fatalf("unexpected error unmarshaling %s: %v", b, err)
		}
		got = append(got, u)
	}
	if !cmp.Equal(got, Curves()) {
		t.Errorf("unexpected round trip result:\n--- want:\n+++ got:\n%s", cmp.Diff(Curves(), got))
	}
}

func TestInvalid(t *testing.T) {
	c := Curve(numCurves)
	if c.Valid() {
		t.Error("out of range curve reported valid")
	}
	if _, err := c.MarshalText(); !errors.Is(err, ErrUnknownCurve) {
		t.Errorf("unexpected error: got:%v want:%v", err, ErrUnknownCurve)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic evaluating invalid curve")
		}
	}()
	c.Ease(0.5)
}

func TestFunc(t *testing.T) {
	var e Interpolator = Func(func(t float64) float64 { return t * t })
	if got := e.Ease(0.5); got != 0.25 {
		t.Errorf("unexpected value: got:%v want:0.25", got)
	}
}
