// SPDX-License-Identifier: Apache-2.0

package gobench

import "context"

// Timing selects the time profiler's configuration for a suite: the zero
// value is "defaults" (timing = true/undefined); Disabled models
// timing = false; Options models an explicit options record.
type Timing struct {
	Disabled bool
	Options  *TimeOptions
}

// TimingDefault requests the time profiler with its documented defaults.
func TimingDefault() Timing { return Timing{} }

// TimingOff disables the time profiler entirely.
func TimingOff() Timing { return Timing{Disabled: true} }

// TimingWith requests the time profiler configured with opts.
func TimingWith(opts TimeOptions) Timing { return Timing{Options: &opts} }

// Validation selects the optional pre-flight validation profiler.
type Validation struct {
	Enabled  bool
	Equality EqualFunc
}

// SuiteDefinition is the value a user suite provides: a setup function, a
// parameter definition, optional lifecycle hooks, optional extra profilers,
// a timing configuration, optional validation, and an optional baseline.
type SuiteDefinition struct {
	Name      string
	Setup     SetupFunc
	BeforeAll func(ctx context.Context) error
	AfterAll  func(ctx context.Context) error
	Profilers []Profiler
	Timing    Timing
	Validate  Validation
	Params    []Param
	Baseline  *Baseline
}

// normalisedSuite is the product of normalising a SuiteDefinition: resolved
// params, the assembled default profiler stack, and the validated baseline.
type normalisedSuite struct {
	def       SuiteDefinition
	params    *ParamSet
	profilers []Profiler
}

// normalizeSuite validates the parameter definition and baseline, and
// assembles the default profiler stack: DefaultEventLogger, optional
// ValidationProfiler, optional TimeProfiler, then the user's profilers —
// falsy entries dropped.
func normalizeSuite(def SuiteDefinition) (*normalisedSuite, error) {
	if def.Setup == nil {
		return nil, newConfigError("suite must provide a setup function")
	}

	params, err := resolveParams(def.Params)
	if err != nil {
		return nil, wrapConfigError(err, "invalid parameter definition: %v", err)
	}

	if def.Baseline != nil {
		if !params.HasAxis(def.Baseline.Type) {
			return nil, newConfigError("baseline type %q is not a declared parameter", def.Baseline.Type)
		}
		if !params.HasDisplayValue(def.Baseline.Type, def.Baseline.Value) {
			return nil, newConfigError("baseline value %q is not a display name of parameter %q", def.Baseline.Value, def.Baseline.Type)
		}
	}

	var profilers []Profiler
	profilers = append(profilers, &DefaultEventLogger{})

	if def.Validate.Enabled {
		profilers = append(profilers, NewValidationProfiler(def.Validate.Equality))
	}

	if !def.Timing.Disabled {
		opts := DefaultTimeOptions()
		if def.Timing.Options != nil {
			opts = *def.Timing.Options
		}
		tp, err := NewTimeProfiler(opts)
		if err != nil {
			return nil, err
		}
		profilers = append(profilers, tp)
	}

	for _, p := range def.Profilers {
		if p != nil {
			profilers = append(profilers, p)
		}
	}

	return &normalisedSuite{def: def, params: params, profilers: profilers}, nil
}
