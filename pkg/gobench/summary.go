// SPDX-License-Identifier: Apache-2.0

package gobench

import (
	"sort"

	"github.com/pkg/errors"
)

// FlattenedRow is one row of a summarised table: the variable values
// (Name plus optional Builder/Executor plus each user parameter, by display
// name), a reference to the underlying metrics, and its position in the
// summary's sorted order.
type FlattenedRow struct {
	Vars    map[string]string
	Metrics Metrics
	index   int

	attachedNotes []Note
}

// Notes returns the notes attached to this row via caseId offset.
func (r *FlattenedRow) Notes() []Note { return r.attachedNotes }

// Summary flattens a suite's multi-toolchain results into a sortable,
// groupable table indexed by variable coordinates, and re-attaches notes to
// the rows they describe.
type Summary struct {
	rows      []*FlattenedRow
	varOrder  []string
	varValues map[string][]string // observed values per var, insertion order
	varIndex  map[string]map[string]int
	baseline  *Baseline
	notes     []Note
}

// BuildSummary flattens results (one per toolchain) in listed order. Each
// toolchain's scenes are walked in their canonical cross-product order;
// each scene's cases are walked in measurement order. Name is seeded as the
// first variable.
func BuildSummary(results []ToolchainResult) (*Summary, error) {
	s := &Summary{
		varValues: make(map[string][]string),
		varIndex:  make(map[string]map[string]int),
	}
	s.seedVar("Name")

	offset := 0
	for _, tr := range results {
		if tr.Builder != "" {
			s.seedVar("Builder")
		}
		if tr.Executor != "" {
			s.seedVar("Executor")
		}
		for _, axis := range tr.ParamDef {
			s.seedVar(axis.Name)
		}

		combos := enumerateDisplayCombos(tr.ParamDef)
		if len(combos) != len(tr.Scenes) {
			return nil, errors.Errorf("toolchain result has %d scenes but param definition yields %d combinations", len(tr.Scenes), len(combos))
		}

		rowsBefore := len(s.rows)
		for sceneIdx, scene := range tr.Scenes {
			combo := combos[sceneIdx]
			for _, name := range scene.Names() {
				metrics, _ := scene.Get(name)
				vars := map[string]string{"Name": name}
				if tr.Builder != "" {
					vars["Builder"] = tr.Builder
				}
				if tr.Executor != "" {
					vars["Executor"] = tr.Executor
				}
				for k, v := range combo {
					vars[k] = v
				}
				for k, v := range vars {
					s.recordValue(k, v)
				}
				row := &FlattenedRow{Vars: vars, Metrics: metrics}
				s.rows = append(s.rows, row)
			}
		}
		toolchainRowCount := len(s.rows) - rowsBefore

		for _, n := range tr.Notes {
			s.notes = append(s.notes, n)
			if n.CaseID != nil {
				pos := offset + *n.CaseID
				if pos >= 0 && pos < len(s.rows) {
					s.rows[pos].attachedNotes = append(s.rows[pos].attachedNotes, n)
				}
			}
		}
		offset += toolchainRowCount

		// The last toolchain's baseline wins; an earlier, conflicting one is
		// overwritten rather than merged, so the overwrite is surfaced as a
		// note instead of happening silently.
		if tr.Baseline != nil {
			if s.baseline != nil && *s.baseline != *tr.Baseline {
				s.notes = append(s.notes, warnNote(
					"baseline "+formatBaselineRef(*s.baseline)+" was overwritten by "+formatBaselineRef(*tr.Baseline),
					nil,
				))
			}
			s.baseline = tr.Baseline
		}
	}

	for i, row := range s.rows {
		row.index = i
	}
	s.reindex()
	return s, nil
}

func (s *Summary) seedVar(name string) {
	if _, ok := s.varIndex[name]; ok {
		return
	}
	s.varOrder = append(s.varOrder, name)
	s.varIndex[name] = make(map[string]int)
}

func (s *Summary) recordValue(name, value string) {
	idx, ok := s.varIndex[name]
	if !ok {
		s.seedVar(name)
		idx = s.varIndex[name]
	}
	if _, seen := idx[value]; seen {
		return
	}
	idx[value] = len(s.varValues[name])
	s.varValues[name] = append(s.varValues[name], value)
}

func (s *Summary) reindex() {
	for name, values := range s.varValues {
		m := make(map[string]int, len(values))
		for i, v := range values {
			m[v] = i
		}
		s.varIndex[name] = m
	}
}

// Baseline returns the summary's carried-through baseline, or nil if none
// was set by any toolchain result.
func (s *Summary) Baseline() *Baseline { return s.baseline }

// Notes returns every note collected across toolchains, in toolchain order.
func (s *Summary) Notes() []Note { return s.notes }

// Rows returns the summary's rows in build order (not necessarily sorted).
func (s *Summary) Rows() []*FlattenedRow { return s.rows }

// mixedRadixIndex computes a row's position under the given variable order:
// digits are the positions of the row's values in their vars sets, radices
// are vars set sizes, most-significant digit first in varOrder.
func (s *Summary) mixedRadixIndex(row *FlattenedRow, varOrder []string) int {
	index := 0
	for _, name := range varOrder {
		radix := len(s.varValues[name])
		if radix == 0 {
			continue
		}
		value, ok := row.Vars[name]
		pos := 0
		if ok {
			pos = s.varIndex[name][value]
		}
		index = index*radix + pos
	}
	return index
}

// Sort orders rows by the mixed-radix index computed from varOrder, most
// significant digit first, and returns the sorted slice.
func (s *Summary) Sort(varOrder []string) []*FlattenedRow {
	sorted := append([]*FlattenedRow(nil), s.rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return s.mixedRadixIndex(sorted[i], varOrder) < s.mixedRadixIndex(sorted[j], varOrder)
	})
	return sorted
}

// Find returns the first row, in build order, whose variables equal every
// entry of coords, or nil. Variables absent from coords are not compared.
func (s *Summary) Find(coords map[string]string) *FlattenedRow {
	for _, row := range s.rows {
		if coordsMatch(row.Vars, coords) {
			return row
		}
	}
	return nil
}

// FindAll returns the row sequence as axis sweeps its observed values with
// every other coordinate in coords held fixed, in the axis's observed
// value order.
func (s *Summary) FindAll(coords map[string]string, axis string) []*FlattenedRow {
	var out []*FlattenedRow
	for _, value := range s.varValues[axis] {
		full := make(map[string]string, len(coords)+1)
		for k, v := range coords {
			full[k] = v
		}
		full[axis] = value
		if row := s.Find(full); row != nil {
			out = append(out, row)
		}
	}
	return out
}

// Group returns rows keyed by their mixed-radix index with axisToIgnore's
// contribution subtracted, grouping rows that differ only in that axis.
func (s *Summary) Group(axisToIgnore string) map[int][]*FlattenedRow {
	order := make([]string, 0, len(s.varOrder))
	for _, name := range s.varOrder {
		if name != axisToIgnore {
			order = append(order, name)
		}
	}
	groups := make(map[int][]*FlattenedRow)
	for _, row := range s.rows {
		key := s.mixedRadixIndex(row, order)
		groups[key] = append(groups[key], row)
	}
	return groups
}

func formatBaselineRef(b Baseline) string {
	return b.Type + "=" + b.Value
}

func coordsMatch(vars, coords map[string]string) bool {
	for k, v := range coords {
		if vars[k] != v {
			return false
		}
	}
	return true
}
