// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package celcurve provides easing curves defined by CEL expressions.
//
// A curve expression is evaluated with the double variable t, the
// normalized progress of an animation, and must evaluate to a double.
// Curves may use the functions described in [Lib] and may refer to the
// catalog curves by name.
//
// Examples:
//
//	t*t*(3.0-2.0*t)
//	1.0 - ease("EaseOutBounce", 1.0-t)
//	t < 0.5 ? ease("EaseInQuad", 2.0*t)/2.0 : 0.5 + (t-0.5)
package celcurve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
)

// ErrNotFinite is returned by Compile when a curve does not have a finite
// value at a probe point.
var ErrNotFinite = errors.New("curve value not finite")

// probes are the progress values at which compiled curves are checked.
var probes = []float64{0, 0.25, 0.5, 0.75, 1}

// Curve is an easing curve computed by a CEL program. Curve implements
// easing.Interpolator.
type Curve struct {
	name string
	src  string
	prg  cel.Program
	log  *slog.Logger
}

// Compile returns a Curve with the given name computed by the CEL
// expression src. Compile checks that the expression is a double and
// that it evaluates to a finite value at a set of probe points in [0,1].
func Compile(name, src string, log *slog.Logger) (*Curve, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With(slog.String("component", "phase.celcurve"), slog.String("curve", name))

	env, err := cel.NewEnv(
		cel.Variable("t", cel.DoubleType),
		Lib(log),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create env: %v", err)
	}

	ast, iss := env.Compile(src)
	if iss.Err() != nil {
		return nil, fmt.Errorf("failed compilation: %v", iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.DoubleType) {
		return nil, fmt.Errorf("curve %s: expression type is %s not double", name, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed program instantiation: %v", err)
	}

	c := &Curve{name: name, src: src, prg: prg, log: log}
	for _, t := range probes {
		v, err := c.eval(t)
		if err != nil {
			return nil, fmt.Errorf("curve %s: failed eval at t=%v: %v", name, t, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("curve %s: %w at t=%v: %v", name, ErrNotFinite, t, v)
		}
	}
	return c, nil
}

// Ease returns the value of the curve at t. Evaluation errors are logged
// and result in NaN.
func (c *Curve) Ease(t float64) float64 {
	v, err := c.eval(t)
	if err != nil {
		c.log.LogAttrs(context.Background(), slog.LevelWarn, "curve eval failed", slog.Float64("t", t), slog.Any("error", err))
		return math.NaN()
	}
	return v
}

func (c *Curve) eval(t float64) (float64, error) {
	out, _, err := c.prg.Eval(map[string]any{"t": t})
	if err != nil {
		return math.NaN(), err
	}
	v, ok := out.(types.Double)
	if !ok {
		return math.NaN(), fmt.Errorf("unexpected result type: %T", out)
	}
	return float64(v), nil
}

// String returns the name of the curve.
func (c *Curve) String() string { return c.name }

// Source returns the CEL source of the curve.
func (c *Curve) Source() string { return c.src }
