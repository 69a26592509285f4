// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package celcurve

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/kortschak/phase/easing"
	"github.com/kortschak/phase/internal/slogext"
)

var update = flag.Bool("update", false, "update testscript output files")

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"curve": curveMain,
	}))
}

func TestScripts(t *testing.T) {
	t.Parallel()

	p := testscript.Params{
		Dir:           filepath.Join("testdata"),
		UpdateScripts: *update,
	}
	testscript.Run(t, p)
}

func curveMain() int {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), `Usage of %s:

  %[1]s [-n <samples>] <src.cel>

`, os.Args[0])
		flag.PrintDefaults()
	}
	n := flag.Int("n", 5, "number of samples in [0,1]")
	flag.Parse()
	if len(flag.Args()) != 1 || *n < 2 {
		flag.Usage()
		return 2
	}

	b, err := os.ReadFile(flag.Args()[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	log := slog.New(slogext.NewJSONHandler(os.Stderr, &slogext.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	c, err := Compile("script", strings.TrimSpace(string(b)), log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for i := range *n {
		t := float64(i) / float64(*n-1)
		fmt.Printf("%.6g %.6g\n", t, c.Ease(t))
	}
	return 0
}

var compileTests = []struct {
	name    string
	src     string
	wantErr bool
	isErr   error
}{
	{name: "identity", src: "t"},
	{name: "smooth", src: "t*t*(3.0-2.0*t)"},
	{name: "catalog", src: `1.0 - ease("EaseOutBounce", 1.0-t)`},
	{name: "trig", src: "sin(t*pi/2.0)"},
	{name: "pow", src: "pow(t, 3.0)"},
	{name: "clamp", src: "clamp(2.0*t, 0.0, 1.0)"},
	{name: "int_result", src: "1", wantErr: true},
	{name: "mixed_arithmetic", src: "3-2*t", wantErr: true},
	{name: "unknown_variable", src: "x*t", wantErr: true},
	{name: "unknown_curve", src: `ease("EaseSideways", t)`, wantErr: true},
	{name: "infinite", src: "1.0/t", wantErr: true, isErr: ErrNotFinite},
	{name: "nan", src: "sqrt(t-1.0)", wantErr: true, isErr: ErrNotFinite},
}

func TestCompile(t *testing.T) {
	for _, test := range compileTests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Compile(test.name, test.src, nil)
			if (err != nil) != test.wantErr {
				t.Fatalf("unexpected error state: got:%v want error:%t", err, test.wantErr)
			}
			if test.isErr != nil && !errors.Is(err, test.isErr) {
				t.Errorf("unexpected error: got:%v want:%v", err, test.isErr)
			}
		})
	}
}

func TestCurveCatalogEquivalence(t *testing.T) {
	c, err := Compile("in_bounce", `ease("EaseInBounce", t)`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.String() != "in_bounce" {
		t.Errorf("unexpected name: got:%q want:%q", c.String(), "in_bounce")
	}
	var e easing.Interpolator = c
	for i := range 11 {
		x := float64(i) / 10
		got := e.Ease(x)
		want := easing.EaseInBounce.Ease(x)
		if got != want {
			t.Errorf("unexpected value at %v: got:%v want:%v", x, got, want)
		}
	}
}

func TestEaseError(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slogext.NewJSONHandler(&buf, nil))
	// Valid at the probe points, but the clamp interval
	// is inverted for t beyond 2.
	c, err := Compile("late", "clamp(t, 0.0, 2.0-t)", log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := c.Ease(3)
	if !math.IsNaN(got) {
		t.Errorf("unexpected value for failed eval: got:%v want:NaN", got)
	}
	if !strings.Contains(buf.String(), "curve eval failed") {
		t.Errorf("missing eval failure log: %s", &buf)
	}
}
