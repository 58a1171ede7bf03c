// SPDX-License-Identifier: Apache-2.0

package gobench

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// reservedParamNames cannot be used as a parameter key: they are reserved
// for the variables every flattened result row carries.
var reservedParamNames = map[string]bool{
	"Name":     true,
	"Builder":  true,
	"Executor": true,
}

// ParamValue pairs a raw value (passed into workloads by identity) with the
// display name reporters show for it.
type ParamValue struct {
	Display string
	Raw     any
}

// Param is one named axis of the parameter cross-product, in declaration order.
type Param struct {
	Name   string
	Values []ParamValue
}

// Values builds a Param whose display names are derived from the raw values
// themselves. Use Named when a raw value cannot self-describe a display name.
func Values(name string, values ...any) Param {
	pvs := make([]ParamValue, len(values))
	for i, v := range values {
		pvs[i] = ParamValue{Display: primitiveDisplay(v), Raw: v}
	}
	return Param{Name: name, Values: pvs}
}

// Named builds a Param from explicit display-name/raw-value pairs.
func Named(name string, pairs ...ParamValue) Param {
	return Param{Name: name, Values: append([]ParamValue(nil), pairs...)}
}

func primitiveDisplay(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// ParamAxis is one (name, displayNames) pair surfaced in a RunResult so that
// reporters can re-derive the cross-product order without the raw values.
type ParamAxis struct {
	Name         string
	DisplayNames []string
}

// ParamSet is the resolved, validated form of a parameter definition: two
// parallel ordered lists of (key, values) plus a lazy cross-product iterator.
type ParamSet struct {
	keys    []string
	rawVals map[string][]any
	dispVals map[string][]string
}

// resolveParams validates a parameter definition and builds its ParamSet.
func resolveParams(defs []Param) (*ParamSet, error) {
	ps := &ParamSet{
		rawVals:  make(map[string][]any),
		dispVals: make(map[string][]string),
	}
	for _, def := range defs {
		if strings.TrimSpace(def.Name) == "" {
			return nil, errors.New("parameter name must not be empty")
		}
		if reservedParamNames[def.Name] {
			return nil, errors.Errorf("parameter name %q is reserved", def.Name)
		}
		if _, dup := ps.rawVals[def.Name]; dup {
			return nil, errors.Errorf("duplicate parameter name %q", def.Name)
		}
		if len(def.Values) == 0 {
			return nil, errors.Errorf("parameter %q must have at least one value", def.Name)
		}
		seen := make(map[string]bool, len(def.Values))
		raws := make([]any, len(def.Values))
		disps := make([]string, len(def.Values))
		for i, v := range def.Values {
			if seen[v.Display] {
				return nil, errors.Errorf("parameter %q has duplicate display name %q", def.Name, v.Display)
			}
			seen[v.Display] = true
			raws[i] = v.Raw
			disps[i] = v.Display
		}
		ps.keys = append(ps.keys, def.Name)
		ps.rawVals[def.Name] = raws
		ps.dispVals[def.Name] = disps
	}
	return ps, nil
}

// Size returns the number of combinations the cross-product yields.
func (ps *ParamSet) Size() int {
	size := 1
	for _, k := range ps.keys {
		size *= len(ps.rawVals[k])
	}
	return size
}

// Axes returns the (name, displayNames) pairs in declaration order, for
// embedding in a RunResult's ParamDef.
func (ps *ParamSet) Axes() []ParamAxis {
	axes := make([]ParamAxis, len(ps.keys))
	for i, k := range ps.keys {
		axes[i] = ParamAxis{Name: k, DisplayNames: append([]string(nil), ps.dispVals[k]...)}
	}
	return axes
}

// HasAxis reports whether name is a declared parameter.
func (ps *ParamSet) HasAxis(name string) bool {
	_, ok := ps.rawVals[name]
	return ok
}

// HasDisplayValue reports whether display is one of axis name's display names.
func (ps *ParamSet) HasDisplayValue(name, display string) bool {
	for _, d := range ps.dispVals[name] {
		if d == display {
			return true
		}
	}
	return false
}

// Assignment is one point of the cross-product: a raw-value map usable by
// workloads, and the parallel display-name map surfaced in results.
type Assignment struct {
	Raw     map[string]any
	Display map[string]string
}

// AssignmentIter lazily walks the cross-product major-to-minor: the first
// declared key advances slowest. This order is the package's public contract
// — scene results and note attachment both depend on it.
type AssignmentIter struct {
	ps      *ParamSet
	indices []int
	done    bool
	first   bool
}

// Iterate returns a fresh cross-product iterator over ps.
func (ps *ParamSet) Iterate() *AssignmentIter {
	return &AssignmentIter{
		ps:      ps,
		indices: make([]int, len(ps.keys)),
		first:   true,
	}
}

// Next returns the next assignment, or ok=false once the cross-product is
// exhausted. With zero parameters it yields exactly one empty assignment.
func (it *AssignmentIter) Next() (Assignment, bool) {
	if it.done {
		return Assignment{}, false
	}
	if len(it.ps.keys) == 0 {
		if it.first {
			it.first = false
			it.done = true
			return Assignment{Raw: map[string]any{}, Display: map[string]string{}}, true
		}
		return Assignment{}, false
	}
	if it.first {
		it.first = false
	} else {
		if !it.advance() {
			it.done = true
			return Assignment{}, false
		}
	}
	return it.current(), true
}

// advance increments the mixed-radix counter, last key fastest-changing,
// returning false once every combination has been produced.
func (it *AssignmentIter) advance() bool {
	for i := len(it.indices) - 1; i >= 0; i-- {
		key := it.ps.keys[i]
		it.indices[i]++
		if it.indices[i] < len(it.ps.rawVals[key]) {
			return true
		}
		it.indices[i] = 0
	}
	return false
}

func (it *AssignmentIter) current() Assignment {
	raw := make(map[string]any, len(it.ps.keys))
	disp := make(map[string]string, len(it.ps.keys))
	for i, key := range it.ps.keys {
		raw[key] = it.ps.rawVals[key][it.indices[i]]
		disp[key] = it.ps.dispVals[key][it.indices[i]]
	}
	return Assignment{Raw: raw, Display: disp}
}

// enumerateDisplayCombos regenerates the display-name assignments for a set
// of axes in the same major-to-minor order AssignmentIter would have produced
// them, using only the (name, displayNames) pairs carried in a RunResult —
// the Result Summary needs this because RunResult does not retain raw values.
func enumerateDisplayCombos(axes []ParamAxis) []map[string]string {
	size := 1
	for _, a := range axes {
		size *= len(a.DisplayNames)
	}
	if len(axes) == 0 {
		return []map[string]string{{}}
	}
	combos := make([]map[string]string, 0, size)
	indices := make([]int, len(axes))
	for {
		combo := make(map[string]string, len(axes))
		for i, a := range axes {
			combo[a.Name] = a.DisplayNames[indices[i]]
		}
		combos = append(combos, combo)

		advanced := false
		for i := len(indices) - 1; i >= 0; i-- {
			indices[i]++
			if indices[i] < len(axes[i].DisplayNames) {
				advanced = true
				break
			}
			indices[i] = 0
		}
		if !advanced {
			break
		}
	}
	return combos
}
