// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package celcurve

import (
	"context"
	"log/slog"
	"math"
	"reflect"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/kortschak/phase/easing"
)

// Lib returns a cel.EnvOption to configure functions for writing easing
// curves.
//
// # Constants
//
// The constant pi is the ratio of a circle's circumference to its diameter.
//
// # Trigonometry
//
// Sine and cosine of an angle in radians:
//
//	sin(<double>) -> <double>
//	cos(<double>) -> <double>
//
// # Powers
//
// Square root, power and natural exponent:
//
//	sqrt(<double>) -> <double>
//	pow(<double>, <double>) -> <double>
//	exp(<double>) -> <double>
//
// Examples:
//
//	pow(2.0, 10.0*(t-1.0))  // return 2^(10(t-1))
//
// # Clamp
//
// Returns the first parameter limited to the closed interval of the
// second and third:
//
//	clamp(<double>, <double>, <double>) -> <double>
//
// Examples:
//
//	clamp(1.2, 0.0, 1.0)  // return 1.0
//
// # Ease
//
// Returns the value of a named catalog easing curve:
//
//	ease(<string>, <double>) -> <double>
//
// Examples:
//
//	ease("EaseOutBounce", t)  // return the out bounce curve value at t
//	ease("nothing", t)        // return an error
//
// # Debug
//
// The second parameter is returned unaltered and the value is logged to the
// lib's logger:
//
//	debug(<string>, <dyn>) -> <dyn>
//
// Examples:
//
//	debug("tag", expr) // return expr even if it is an error and logs with "tag".
func Lib(log *slog.Logger) cel.EnvOption {
	return cel.Lib(lib{log: log})
}

type lib struct {
	log *slog.Logger
}

func (l lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		cel.Constant("pi", cel.DoubleType, types.Double(math.Pi)),
		unary("sin", math.Sin),
		unary("cos", math.Cos),
		unary("sqrt", math.Sqrt),
		unary("exp", math.Exp),
		cel.Function("pow",
			cel.Overload(
				"pow_double_double",
				[]*cel.Type{cel.DoubleType, cel.DoubleType},
				cel.DoubleType,
				cel.BinaryBinding(pow),
			),
		),
		cel.Function("clamp",
			cel.Overload(
				"clamp_double_double_double",
				[]*cel.Type{cel.DoubleType, cel.DoubleType, cel.DoubleType},
				cel.DoubleType,
				cel.FunctionBinding(clamp),
			),
		),
		cel.Function("ease",
			cel.Overload(
				"ease_string_double",
				[]*cel.Type{cel.StringType, cel.DoubleType},
				cel.DoubleType,
				cel.BinaryBinding(ease),
			),
		),
		cel.Function("debug",
			cel.Overload(
				"debug_string_dyn",
				[]*cel.Type{cel.StringType, cel.DynType},
				cel.DynType,
				cel.BinaryBinding(l.logDebug),
				cel.OverloadIsNonStrict(),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption { return nil }

func unary(name string, fn func(float64) float64) cel.EnvOption {
	return cel.Function(name,
		cel.Overload(
			name+"_double",
			[]*cel.Type{cel.DoubleType},
			cel.DoubleType,
			cel.UnaryBinding(func(arg ref.Val) ref.Val {
				x, ok := arg.(types.Double)
				if !ok {
					return types.ValOrErr(x, "no such overload")
				}
				return types.Double(fn(float64(x)))
			}),
		),
	)
}

func pow(arg0, arg1 ref.Val) ref.Val {
	x, ok := arg0.(types.Double)
	if !ok {
		return types.ValOrErr(x, "no such overload")
	}
	y, ok := arg1.(types.Double)
	if !ok {
		return types.ValOrErr(y, "no such overload")
	}
	return types.Double(math.Pow(float64(x), float64(y)))
}

func clamp(args ...ref.Val) ref.Val {
	if len(args) != 3 {
		return types.NewErr("no such overload")
	}
	var v [3]float64
	for i, a := range args {
		x, ok := a.(types.Double)
		if !ok {
			return types.ValOrErr(x, "no such overload")
		}
		v[i] = float64(x)
	}
	if v[1] > v[2] {
		return types.NewErr("invalid clamp interval [%v,%v]", v[1], v[2])
	}
	return types.Double(min(max(v[0], v[1]), v[2]))
}

func ease(arg0, arg1 ref.Val) ref.Val {
	name, ok := arg0.(types.String)
	if !ok {
		return types.ValOrErr(name, "no such overload")
	}
	t, ok := arg1.(types.Double)
	if !ok {
		return types.ValOrErr(t, "no such overload")
	}
	c, err := easing.Parse(string(name))
	if err != nil {
		return types.NewErr("%v", err)
	}
	return types.Double(c.Ease(float64(t)))
}

func (l lib) logDebug(arg0, arg1 ref.Val) ref.Val {
	tag, ok := arg0.(types.String)
	if !ok {
		return types.ValOrErr(tag, "no such overload")
	}
	if l.log == nil {
		return arg1
	}
	val, err := arg1.ConvertToNative(reflect.TypeOf((*structpb.Value)(nil)))
	if err != nil {
		l.log.LogAttrs(context.Background(), slog.LevelError, "cel debug log error", slog.String("tag", string(tag)), slog.Any("error", err))
	} else {
		l.log.LogAttrs(context.Background(), slog.LevelDebug, "cel debug log", slog.String("tag", string(tag)), slog.Any("value", val))
	}
	return arg1
}
