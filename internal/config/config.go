// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config provides scene file decoding, validation and live
// reloading.
package config

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/kortschak/phase/easing"
	"github.com/kortschak/phase/internal/celcurve"
)

// Scene is an animated bar chart description.
type Scene struct {
	// Name is the name of the scene, the base name
	// of the file it was loaded from without extension.
	Name string `json:"-" toml:"-"`

	Title    string    `json:"title,omitempty" toml:"title"`
	Width    int       `json:"width" toml:"width"`
	Height   int       `json:"height" toml:"height"`
	FPS      int       `json:"fps" toml:"fps"`
	BarWidth float64   `json:"bar_width" toml:"bar_width"`
	Inverted bool      `json:"inverted" toml:"inverted"`
	Clamp    bool      `json:"clamp" toml:"clamp"`
	Data     []float64 `json:"data" toml:"data"`

	// X and Y are the axis animations. A nil
	// axis is not animated and is fully revealed.
	X *Axis `json:"x,omitempty" toml:"x"`
	Y *Axis `json:"y,omitempty" toml:"y"`

	// Curves are user-defined easing curves keyed
	// by the name used to refer to them in an Axis.
	Curves map[string]Curve `json:"curve,omitempty" toml:"curve"`

	// Sum is the semantic hash of the scene.
	Sum *Sum `json:"-" toml:"-"`
}

// Axis is a single axis animation.
type Axis struct {
	Duration time.Duration `json:"duration" toml:"duration"`
	// Easing is the name of a catalog curve or of
	// a scene curve. An empty Easing is linear.
	Easing string `json:"easing,omitempty" toml:"easing"`
}

// Curve is a user-defined easing curve.
type Curve struct {
	// Expr is a CEL expression over the double t.
	Expr string `json:"expr" toml:"expr"`
}

// Scene defaults applied to unset fields before validation.
const (
	DefaultWidth    = 240
	DefaultHeight   = 160
	DefaultFPS      = 25
	DefaultBarWidth = 0.8
)

// Schema is the schema for a valid scene.
const Schema = `
{
	title?:    string
	width:     int & >=16 & <=4096
	height:    int & >=16 & <=4096
	fps:       int & >=1 & <=100
	bar_width: number & >0 & <=1
	inverted:  bool
	clamp:     bool
	data:      [number, ...number]
	x?:        _#axis
	y?:        _#axis
	curve?:    close({[=~"^[a-z_][a-z0-9_]*$"]: _#curve})
}

_#axis: {
	duration: int & >=0 & <=60_000_000_000 // Up to one minute.
	easing?:  =~"^[A-Za-z_][A-Za-z0-9_]*$"
}

_#curve: {
	expr: !=""
}
`

// Decode returns the scene described by the TOML in b, and its semantic
// hash. Unset fields are given their default values before the scene is
// validated against Schema. Axis easing names must name a catalog curve
// or one of the scene's curves. If the scene is invalid, the returned
// error includes the invalid paths and the returned Sum is the hash of b.
func Decode(b []byte) (*Scene, Sum, error) {
	var s Scene
	md, err := toml.Decode(string(b), &s)
	if err != nil {
		return nil, sha1.Sum(b), err
	}
	if undec := md.Undecoded(); len(undec) != 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return nil, sha1.Sum(b), fmt.Errorf("unknown scene keys: %s", strings.Join(keys, ", "))
	}
	s.defaults()

	_, err = Validate(Schema, &s)
	if err != nil {
		return nil, sha1.Sum(b), err
	}
	for name := range s.Curves {
		_, err := easing.Parse(name)
		if err == nil {
			return nil, sha1.Sum(b), fmt.Errorf("curve %s: shadows catalog curve", name)
		}
	}
	for _, ax := range []struct {
		name string
		*Axis
	}{{"x", s.X}, {"y", s.Y}} {
		if ax.Axis == nil || ax.Easing == "" {
			continue
		}
		if _, ok := s.Curves[ax.Easing]; ok {
			continue
		}
		_, err := easing.Parse(ax.Easing)
		if err != nil {
			return nil, sha1.Sum(b), fmt.Errorf("%s axis: %w", ax.name, err)
		}
	}

	var buf bytes.Buffer
	err = json.NewEncoder(&buf).Encode(&s)
	if err != nil {
		return nil, sha1.Sum(b), err
	}
	sum := Sum(sha1.Sum(buf.Bytes()))
	s.Sum = &sum
	return &s, sum, nil
}

func (s *Scene) defaults() {
	if s.Width == 0 {
		s.Width = DefaultWidth
	}
	if s.Height == 0 {
		s.Height = DefaultHeight
	}
	if s.FPS == 0 {
		s.FPS = DefaultFPS
	}
	if s.BarWidth == 0 {
		s.BarWidth = DefaultBarWidth
	}
}

// Load returns the scene in the TOML file at path. The scene is named
// for the file.
func Load(path string) (*Scene, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, _, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Name = sceneName(path)
	return s, nil
}

func sceneName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// Easing returns the easing curve for an axis of the scene. Scene curves
// are compiled on each call.
func (s *Scene) Easing(a *Axis, log *slog.Logger) (easing.Interpolator, error) {
	if a == nil || a.Easing == "" {
		return easing.Linear, nil
	}
	if c, ok := s.Curves[a.Easing]; ok {
		e, err := celcurve.Compile(a.Easing, c.Expr, log)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
	c, err := easing.Parse(a.Easing)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Duration returns the total run time of the scene's animations.
func (s *Scene) Duration() time.Duration {
	var d time.Duration
	for _, a := range []*Axis{s.X, s.Y} {
		if a != nil {
			d = max(d, a.Duration)
		}
	}
	return d
}

// Sum is a comparable optional SHA-1 sum.
type Sum [sha1.Size]byte

// Equal returns whether s is equal to other.
func (s *Sum) Equal(other *Sum) bool {
	switch {
	case s == other:
		return true
	case s != nil && other != nil:
		return *s == *other
	default:
		return false
	}
}

func (s *Sum) String() string {
	if s == nil {
		return ""
	}
	return hex.EncodeToString(s[:])
}

func (s *Sum) UnmarshalText(text []byte) error {
	if len(text) != hex.EncodedLen(len(s)) {
		return fmt.Errorf("invalid length: %d != %d", len(text), hex.EncodedLen(len(s)))
	}
	_, err := hex.Decode(s[:], text)
	return err
}

func (s *Sum) MarshalText() (text []byte, err error) {
	if s == nil {
		return nil, nil
	}
	text = make([]byte, hex.EncodedLen(len(s)))
	hex.Encode(text, s[:])
	return text, nil
}

// errNoScene is returned when a scene directory holds no scene files.
var errNoScene = errors.New("no scene files")

// Glob returns the scene files in dir.
func Glob(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, errNoScene)
	}
	return paths, nil
}
