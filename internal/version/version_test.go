// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package version

import (
	"runtime/debug"
	"testing"
)

var formatTests = []struct {
	name string
	bi   debug.BuildInfo
	want string
}{
	{
		name: "no_vcs",
		bi:   debug.BuildInfo{Main: debug.Module{Path: "github.com/kortschak/phase", Version: "(devel)"}},
		want: "github.com/kortschak/phase (devel)",
	},
	{
		name: "clean",
		bi: debug.BuildInfo{
			Main: debug.Module{Path: "github.com/kortschak/phase", Version: "v0.1.0"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123abcd"},
				{Key: "vcs.modified", Value: "false"},
			},
		},
		want: "github.com/kortschak/phase v0.1.0 0123abcd",
	},
	{
		name: "modified",
		bi: debug.BuildInfo{
			Main: debug.Module{Path: "github.com/kortschak/phase", Version: "v0.1.0"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123abcd"},
				{Key: "vcs.modified", Value: "true"},
			},
		},
		want: "github.com/kortschak/phase v0.1.0 0123abcd (modified)",
	},
}

func TestFormat(t *testing.T) {
	for _, test := range formatTests {
		t.Run(test.name, func(t *testing.T) {
			got := format(&test.bi)
			if got != test.want {
				t.Errorf("unexpected version: got:%q want:%q", got, test.want)
			}
		})
	}
}
