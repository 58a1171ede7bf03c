// SPDX-License-Identifier: Apache-2.0

package gobench

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func simpleSetup(ctx context.Context, scene *Scene) error {
	return scene.Bench("noop", func(ctx context.Context) (any, error) { return nil, nil })
}

func TestRunSuiteRequiresSetup(t *testing.T) {
	_, err := RunSuite(context.Background(), SuiteDefinition{Timing: TimingOff()}, RunOptions{})
	assert.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestRunSuiteRejectsUnknownBaselineType(t *testing.T) {
	def := SuiteDefinition{
		Setup:    simpleSetup,
		Timing:   TimingOff(),
		Params:   []Param{Values("size", "0")},
		Baseline: &Baseline{Type: "missing", Value: "0"},
	}
	_, err := RunSuite(context.Background(), def, RunOptions{})
	assert.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestRunSuiteBeforeAfterAllBracketTheRun(t *testing.T) {
	var order []string
	def := SuiteDefinition{
		Setup: func(ctx context.Context, scene *Scene) error {
			order = append(order, "setup")
			return scene.Bench("noop", func(ctx context.Context) (any, error) { return nil, nil })
		},
		BeforeAll: func(ctx context.Context) error {
			order = append(order, "before-all")
			return nil
		},
		AfterAll: func(ctx context.Context) error {
			order = append(order, "after-all")
			return nil
		},
		Timing: TimingOff(),
	}

	_, err := RunSuite(context.Background(), def, RunOptions{})
	assert.NoError(t, err)
	assert.Equal(t, []string{"before-all", "setup", "after-all"}, order)
}

func TestRunSuiteAfterAllRunsEvenWhenSetupFails(t *testing.T) {
	afterAllRan := false
	def := SuiteDefinition{
		Setup: func(ctx context.Context, scene *Scene) error {
			return fmt.Errorf("setup exploded")
		},
		AfterAll: func(ctx context.Context) error {
			afterAllRan = true
			return nil
		},
		Params: []Param{Values("size", "0")},
		Timing: TimingOff(),
	}

	_, err := RunSuite(context.Background(), def, RunOptions{})
	assert.Error(t, err)
	assert.True(t, afterAllRan)

	var runErr *RunSuiteError
	assert.ErrorAs(t, err, &runErr)
	assert.Equal(t, "0", runErr.Coords["size"])
}

func TestRunSuiteAfterAllFailureSurfacesWhenRunSucceeded(t *testing.T) {
	def := SuiteDefinition{
		Setup: simpleSetup,
		AfterAll: func(ctx context.Context) error {
			return fmt.Errorf("teardown exploded")
		},
		Timing: TimingOff(),
	}

	_, err := RunSuite(context.Background(), def, RunOptions{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "teardown exploded")
}

func TestRunSuiteCarriesBaselineThrough(t *testing.T) {
	def := SuiteDefinition{
		Setup:    simpleSetup,
		Timing:   TimingOff(),
		Params:   []Param{Values("size", "0")},
		Baseline: &Baseline{Type: "size", Value: "0"},
	}

	res, err := RunSuite(context.Background(), def, RunOptions{})
	assert.NoError(t, err)
	assert.Equal(t, def.Baseline, res.Baseline)
}

func TestNormalizeSuiteAssemblesDefaultProfilerStack(t *testing.T) {
	def := SuiteDefinition{
		Setup:    simpleSetup,
		Timing:   TimingDefault(),
		Validate: Validation{Enabled: true, Equality: DefaultEqual},
	}

	ns, err := normalizeSuite(def)
	assert.NoError(t, err)

	var sawValidation, sawTime bool
	for _, p := range ns.profilers {
		switch p.(type) {
		case *ValidationProfiler:
			sawValidation = true
		case *TimeProfiler:
			sawTime = true
		}
	}
	assert.True(t, sawValidation)
	assert.True(t, sawTime)
}

func TestNormalizeSuiteDropsNilUserProfilers(t *testing.T) {
	def := SuiteDefinition{
		Setup:     simpleSetup,
		Timing:    TimingOff(),
		Profilers: []Profiler{nil, &DefaultEventLogger{}, nil},
	}

	ns, err := normalizeSuite(def)
	assert.NoError(t, err)
	for _, p := range ns.profilers {
		assert.NotNil(t, p)
	}
}
