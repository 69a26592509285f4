// Copyright ©2023 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/encoding/gocode/gocodec"
	"golang.org/x/exp/constraints"
)

// Validate performs a validation of the provided value, returning a list
// of invalid paths and a CUE errors.Error explaining the issues found if
// the value is invalid according to the provided schema.
func Validate(schema string, v any) (paths [][]string, err error) {
	ctx := cuecontext.New()

	s := ctx.CompileString(schema)
	if s.Err() != nil {
		return nil, s.Err()
	}
	codec := gocodec.New(ctx, nil)

	w, err := codec.Decode(v)
	if err != nil {
		return nil, err
	}

	u := s.Unify(w)
	err = u.Validate(cue.Concrete(true), cue.Final())
	errs := cerrors.Errors(err)
	if len(errs) == 0 {
		return nil, nil
	}
	paths = make([][]string, 0, len(errs))
	for _, err := range errs {
		p := cerrors.Path(err)
		if p != nil {
			paths = append(paths, p)
		}
	}
	return unique(paths), cerrors.Promote(err, "invalid scene")
}

// unique returns paths lexically sorted in ascending order and with repeated
// elements omitted.
func unique(paths [][]string) [][]string {
	if len(paths) < 2 {
		return paths
	}
	slices.SortFunc(paths, compare[string])
	return slices.CompactFunc(paths, func(a, b []string) bool {
		return compare(a, b) == 0
	})
}

func compare[T constraints.Ordered](a, b []T) int {
	for i := range min(len(a), len(b)) {
		switch e1, e2 := a[i], b[i]; {
		case e1 < e2:
			return -1
		case e1 > e2:
			return +1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return +1
	}
	return 0
}
