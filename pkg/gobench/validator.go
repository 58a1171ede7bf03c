// SPDX-License-Identifier: Apache-2.0

package gobench

import (
	"context"
	"math"
	"reflect"

	"github.com/pkg/errors"
)

// EqualFunc compares two workload return values, treating NaN as equal to
// itself unlike Go's default float comparison.
type EqualFunc func(a, b any) bool

// DefaultEqual is deep structural equality with NaN-equality: two float64
// values that are both NaN compare equal. The NaN rule applies only when a
// and b are themselves float64; NaNs nested inside slices, maps or structs
// compare unequal, as under reflect.DeepEqual.
func DefaultEqual(a, b any) bool {
	if af, ok := a.(float64); ok {
		if bf, ok := b.(float64); ok {
			if math.IsNaN(af) && math.IsNaN(bf) {
				return true
			}
		}
	}
	return reflect.DeepEqual(a, b)
}

// ValidationProfiler dry-runs every case of a scene once from OnScene, before
// that scene's cases are measured. Scenes earlier in the cross-product have
// already been measured by then; there is no pass over all scenes ahead of
// the first measurement. If Equality is set, it also asserts that every case
// within a scene returns an equal value; any failure aborts the whole run.
type ValidationProfiler struct {
	BaseProfiler
	Equality EqualFunc
}

// NewValidationProfiler returns a profiler that dry-runs every case, and
// additionally checks equality across cases in a scene when equality is
// non-nil.
func NewValidationProfiler(equality EqualFunc) *ValidationProfiler {
	return &ValidationProfiler{Equality: equality}
}

// OnScene invokes each case once and, when configured, asserts their return
// values agree.
func (v *ValidationProfiler) OnScene(ctx *ProfilingContext, scene *Scene) error {
	var first any
	var firstName string
	haveFirst := false

	for _, c := range scene.Cases() {
		value, err := c.Invoke(context.Background())
		if err != nil {
			return errors.Wrapf(err, "validation failed for case %q", c.Name)
		}
		if v.Equality == nil {
			continue
		}
		if !haveFirst {
			first, firstName, haveFirst = value, c.Name, true
			continue
		}
		if !v.Equality(first, value) {
			return errors.Errorf("validation mismatch: case %q diverges from case %q", c.Name, firstName)
		}
	}
	return nil
}
