// SPDX-License-Identifier: Apache-2.0

package gobench

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildTestToolchain(builder string, sizes []string) ToolchainResult {
	paramDef := []ParamAxis{{Name: "size", DisplayNames: sizes}}
	var scenes []*SceneResult
	for range sizes {
		sr := newSceneResult()
		sr.set("For-index", Metrics{"time": Numbers([]float64{1.0})})
		sr.set("For-of", Metrics{"time": Numbers([]float64{2.0})})
		scenes = append(scenes, sr)
	}
	return ToolchainResult{
		RunResult: RunResult{
			Scenes:   scenes,
			ParamDef: paramDef,
		},
		Builder: builder,
	}
}

func TestBuildSummaryFlattensInCrossProductOrder(t *testing.T) {
	tr := buildTestToolchain("esbuild", []string{"0", "100", "1000"})
	s, err := BuildSummary([]ToolchainResult{tr})
	assert.NoError(t, err)
	assert.Len(t, s.Rows(), 6)

	var order []string
	for _, row := range s.Rows() {
		order = append(order, row.Vars["size"]+"/"+row.Vars["Name"])
	}
	assert.Equal(t, []string{
		"0/For-index", "0/For-of",
		"100/For-index", "100/For-of",
		"1000/For-index", "1000/For-of",
	}, order)
}

func TestSummaryFindAllSweepsAxisWithFixedCoords(t *testing.T) {
	tr := buildTestToolchain("esbuild", []string{"0", "100"})
	s, err := BuildSummary([]ToolchainResult{tr})
	assert.NoError(t, err)

	rows := s.FindAll(map[string]string{"Name": "For-index"}, "size")
	assert.Len(t, rows, 2)
	assert.Equal(t, "0", rows[0].Vars["size"])
	assert.Equal(t, "100", rows[1].Vars["size"])
}

func TestSummaryBaselineCarriesThroughLastToolchain(t *testing.T) {
	first := buildTestToolchain("esbuild", []string{"0"})
	first.Baseline = &Baseline{Type: "size", Value: "0"}
	second := buildTestToolchain("swc", []string{"0"})
	second.Baseline = &Baseline{Type: "size", Value: "0"}

	s, err := BuildSummary([]ToolchainResult{first, second})
	assert.NoError(t, err)
	assert.Equal(t, second.Baseline, s.Baseline())
}

func TestSummaryBaselineOverwriteEmitsWarnNote(t *testing.T) {
	first := buildTestToolchain("esbuild", []string{"0"})
	first.Baseline = &Baseline{Type: "size", Value: "0"}
	second := buildTestToolchain("swc", []string{"0"})
	second.Baseline = &Baseline{Type: "size", Value: "100"}

	s, err := BuildSummary([]ToolchainResult{first, second})
	assert.NoError(t, err)
	assert.Len(t, s.Notes(), 1)
	assert.Equal(t, NoteWarn, s.Notes()[0].Type)
}

func TestSummaryGroupIgnoresOneAxis(t *testing.T) {
	tr := buildTestToolchain("esbuild", []string{"0", "100"})
	s, err := BuildSummary([]ToolchainResult{tr})
	assert.NoError(t, err)

	groups := s.Group("size")
	assert.Len(t, groups, 2) // For-index group, For-of group
}
