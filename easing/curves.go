// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package easing

import "math"

func linear(t float64) float64 { return t }

func inQuad(t float64) float64 { return t * t }

func outQuad(t float64) float64 { return -t * (t - 2) }

func inOutQuad(t float64) float64 {
	t *= 2
	if t < 1 {
		return 0.5 * t * t
	}
	t--
	return -0.5 * (t*(t-2) - 1)
}

func inCubic(t float64) float64 { return t * t * t }

func outCubic(t float64) float64 {
	t--
	return t*t*t + 1
}

func inOutCubic(t float64) float64 {
	t *= 2
	if t < 1 {
		return 0.5 * t * t * t
	}
	t -= 2
	return 0.5 * (t*t*t + 2)
}

func inQuart(t float64) float64 { return t * t * t * t }

func outQuart(t float64) float64 {
	t--
	return -(t*t*t*t - 1)
}

func inOutQuart(t float64) float64 {
	t *= 2
	if t < 1 {
		return 0.5 * t * t * t * t
	}
	t -= 2
	return -0.5 * (t*t*t*t - 2)
}

func inSine(t float64) float64 { return 1 - math.Cos(t*math.Pi/2) }

func outSine(t float64) float64 { return math.Sin(t * math.Pi / 2) }

func inOutSine(t float64) float64 { return -0.5 * (math.Cos(math.Pi*t) - 1) }

// The exponential curves never reach their end points, so
// they are pinned explicitly rather than relying on 2^-10.

func inExpo(t float64) float64 {
	if t == 0 {
		return 0
	}
	return math.Pow(2, 10*(t-1))
}

func outExpo(t float64) float64 {
	if t == 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}

func inOutExpo(t float64) float64 {
	switch t {
	case 0:
		return 0
	case 1:
		return 1
	}
	t *= 2
	if t < 1 {
		return 0.5 * math.Pow(2, 10*(t-1))
	}
	return 0.5 * (2 - math.Pow(2, -10*(t-1)))
}

func inCirc(t float64) float64 { return -(math.Sqrt(1-t*t) - 1) }

func outCirc(t float64) float64 {
	t--
	return math.Sqrt(1 - t*t)
}

func inOutCirc(t float64) float64 {
	t *= 2
	if t < 1 {
		return -0.5 * (math.Sqrt(1-t*t) - 1)
	}
	t -= 2
	return 0.5 * (math.Sqrt(1-t*t) + 1)
}

const (
	// elasticPeriod is the period of the in and out elastic curves.
	elasticPeriod = 0.3
	// elasticInOutPeriod is the period of the in-out elastic curve,
	// the reciprocal of the 1/0.45 frequency multiplier.
	elasticInOutPeriod = 0.45
)

// elasticShift returns the phase offset for an elastic curve with period p.
func elasticShift(p float64) float64 { return p / (2 * math.Pi) * math.Asin(1) }

func inElastic(t float64) float64 {
	switch t {
	case 0:
		return 0
	case 1:
		return 1
	}
	const p = elasticPeriod
	s := elasticShift(p)
	t--
	return -(math.Pow(2, 10*t) * math.Sin((t-s)*2*math.Pi/p))
}

func outElastic(t float64) float64 {
	switch t {
	case 0:
		return 0
	case 1:
		return 1
	}
	const p = elasticPeriod
	s := elasticShift(p)
	return math.Pow(2, -10*t)*math.Sin((t-s)*2*math.Pi/p) + 1
}

func inOutElastic(t float64) float64 {
	if t == 0 {
		return 0
	}
	t *= 2
	if t == 2 {
		return 1
	}
	const p = elasticInOutPeriod
	s := elasticShift(p)
	t--
	if t < 0 {
		return -0.5 * (math.Pow(2, 10*t) * math.Sin((t-s)*2*math.Pi/p))
	}
	return 0.5*math.Pow(2, -10*t)*math.Sin((t-s)*2*math.Pi/p) + 1
}

const (
	// backOvershoot gives a 10% overshoot for the back curves.
	backOvershoot = 1.70158
	// backInOutScale scales backOvershoot for each half of
	// the in-out back curve.
	backInOutScale = 1.525
)

func inBack(t float64) float64 {
	const s = backOvershoot
	return t * t * ((s+1)*t - s)
}

func outBack(t float64) float64 {
	const s = backOvershoot
	t--
	return t*t*((s+1)*t+s) + 1
}

func inOutBack(t float64) float64 {
	const s = backOvershoot * backInOutScale
	t *= 2
	if t < 1 {
		return 0.5 * (t * t * ((s+1)*t - s))
	}
	t -= 2
	return 0.5 * (t*t*((s+1)*t+s) + 2)
}

// anchored returns fn(t) pinned to the end points, matching Curve.Ease.
func anchored(fn func(float64) float64, t float64) float64 {
	switch t {
	case 0:
		return 0
	case 1:
		return 1
	}
	return fn(t)
}

func inBounce(t float64) float64 { return 1 - anchored(outBounce, 1-t) }

func outBounce(t float64) float64 {
	const s = 7.5625
	switch {
	case t < 1/2.75:
		return s * t * t
	case t < 2/2.75:
		t -= 1.5 / 2.75
		return s*t*t + 0.75
	case t < 2.5/2.75:
		t -= 2.25 / 2.75
		return s*t*t + 0.9375
	default:
		t -= 2.625 / 2.75
		return s*t*t + 0.984375
	}
}

func inOutBounce(t float64) float64 {
	if t < 0.5 {
		return anchored(inBounce, t*2) * 0.5
	}
	return anchored(outBounce, t*2-1)*0.5 + 0.5
}
