// SPDX-License-Identifier: Apache-2.0

package gobench

import (
	"context"
	"regexp"
)

// RunOptions configures one invocation of RunSuite: pattern filters case
// names at registration, log is the handler sink (nil uses the context's
// default stdout handler).
type RunOptions struct {
	Log     LogHandler
	Pattern *regexp.Regexp
}

// RunSuiteResult is the outcome of RunSuite: the run result plus the
// resolved baseline, if any.
type RunSuiteResult struct {
	RunResult
}

// RunSuite composes the param resolver, the default profiler stack, and the
// profiling context: it normalises the suite, resolves the baseline,
// drives the context between BeforeAll and AfterAll (AfterAll runs on
// success and on failure), and returns the terminal result. A normalisation
// failure is returned as a *ConfigError before BeforeAll runs; any later
// failure is wrapped as a RunSuiteError carrying the offending scene's
// coordinates when known.
func RunSuite(ctx context.Context, def SuiteDefinition, opts RunOptions) (*RunSuiteResult, error) {
	normalised, err := normalizeSuite(def)
	if err != nil {
		return nil, err
	}

	if def.BeforeAll != nil {
		if err := def.BeforeAll(ctx); err != nil {
			return nil, wrapRunSuiteError(err)
		}
	}

	pc := newProfilingContext(def.Name, def.Setup, normalised.params, opts.Pattern, normalised.profilers, opts.Log)
	result, runErr := pc.Run(ctx)

	if def.AfterAll != nil {
		if afterErr := def.AfterAll(ctx); afterErr != nil && runErr == nil {
			runErr = afterErr
		}
	}

	if runErr != nil {
		return nil, wrapRunSuiteError(runErr)
	}

	result.Baseline = def.Baseline
	return &RunSuiteResult{RunResult: *result}, nil
}
