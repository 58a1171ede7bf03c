// SPDX-License-Identifier: Apache-2.0

package gobench

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
)

const zeroMeasurementWarning = "The function duration is indistinguishable from the empty function duration."

// Iterations selects either an exact inner invocation count or a target
// wall-clock duration per sample; exactly one field is set.
type Iterations struct {
	Fixed    *int
	Duration *time.Duration
}

// FixedIterations returns an Iterations choosing an exact total invocation
// count per sample.
func FixedIterations(n int) Iterations { return Iterations{Fixed: &n} }

// DurationIterations returns an Iterations targeting d of wall-clock time
// per sample, with the inner count calibrated to approximate that.
func DurationIterations(d time.Duration) Iterations { return Iterations{Duration: &d} }

// TimeOptions configures a TimeProfiler.
type TimeOptions struct {
	Warmup           int
	Samples          int
	Iterations       Iterations
	UnrollFactor     int
	EvaluateOverhead bool
	Throughput       string // unit, e.g. "s" or "ms"; empty disables
}

// DefaultTimeOptions returns the profiler's documented defaults.
func DefaultTimeOptions() TimeOptions {
	return TimeOptions{
		Warmup:           5,
		Samples:          10,
		Iterations:       DurationIterations(time.Second),
		UnrollFactor:     16,
		EvaluateOverhead: true,
	}
}

// TimeProfiler is the measurement engine: it calibrates an iteration count,
// runs warm-up and measurement samples, subtracts per-call overhead,
// detects zero-measurements, and converts to throughput when requested.
type TimeProfiler struct {
	BaseProfiler
	opts  TimeOptions
	clock Clock
}

// NewTimeProfiler validates opts and returns a profiler, or a ConfigError if
// the options are invalid.
func NewTimeProfiler(opts TimeOptions) (*TimeProfiler, error) {
	if opts.UnrollFactor < 1 {
		return nil, newConfigError("unrollFactor must be >= 1, got %d", opts.UnrollFactor)
	}
	if opts.Samples < 1 {
		return nil, newConfigError("samples must be >= 1, got %d", opts.Samples)
	}
	if opts.Iterations.Fixed != nil {
		n := *opts.Iterations.Fixed
		if n < 1 {
			return nil, newConfigError("iterations must be >= 1, got %d", n)
		}
		if n%opts.UnrollFactor != 0 {
			return nil, newConfigError("iterations must be a multiple of unrollFactor")
		}
	} else if opts.Iterations.Duration != nil {
		if *opts.Iterations.Duration <= 0 {
			return nil, newConfigError("iterations duration must parse to > 0ms")
		}
	} else {
		opts.Iterations = DurationIterations(time.Second)
	}
	return &TimeProfiler{opts: opts, clock: systemClock{}}, nil
}

// OnStart registers the time/throughput metric descriptor.
func (p *TimeProfiler) OnStart(ctx *ProfilingContext) error {
	if p.opts.Throughput != "" {
		ctx.DefineMetric(MetricDescriptor{
			Key:           "throughput",
			Format:        "{number} ops/" + p.opts.Throughput,
			Analysis:      AnalysisStatistics,
			LowerIsBetter: false,
		})
	} else {
		ctx.DefineMetric(MetricDescriptor{
			Key:           "time",
			Format:        "{duration.ms}",
			Analysis:      AnalysisStatistics,
			LowerIsBetter: true,
		})
	}
	return nil
}

// measureFn times count*unrollFactor workload invocations and returns the
// elapsed milliseconds.
type measureFn func(ctx context.Context, count int) (float64, error)

func (p *TimeProfiler) buildMeasure(c *BenchCase) measureFn {
	unroll := p.opts.UnrollFactor
	hasHooks := c.HasIterationHooks()

	switch {
	case !hasHooks && !c.isAsync:
		return func(ctx context.Context, count int) (float64, error) {
			start := p.clock.Now()
			for i := 0; i < count*unroll; i++ {
				if _, err := c.sync(ctx); err != nil {
					return 0, err
				}
			}
			return elapsedMS(p.clock, start), nil
		}
	case !hasHooks && c.isAsync:
		return func(ctx context.Context, count int) (float64, error) {
			start := p.clock.Now()
			for i := 0; i < count*unroll; i++ {
				res := <-c.async(ctx)
				if res.Err != nil {
					return 0, res.Err
				}
			}
			return elapsedMS(p.clock, start), nil
		}
	case hasHooks && !c.isAsync:
		return func(ctx context.Context, count int) (float64, error) {
			return p.measureHookedSync(ctx, c, count*unroll)
		}
	default:
		return func(ctx context.Context, count int) (float64, error) {
			return p.measureHookedAsync(ctx, c, count*unroll)
		}
	}
}

// measureHookedSync runs before-hooks, times the workload alone, then
// after-hooks, summing only the in-workload time across n logical
// iterations. Unrolling does not apply: hooks must run once per invocation.
func (p *TimeProfiler) measureHookedSync(ctx context.Context, c *BenchCase, n int) (float64, error) {
	var sum float64
	for i := 0; i < n; i++ {
		for _, h := range c.beforeHooks {
			if err := h(ctx); err != nil {
				return 0, err
			}
		}
		start := p.clock.Now()
		_, err := c.sync(ctx)
		sum += elapsedMS(p.clock, start)
		for _, h := range c.afterHooks {
			_ = h(ctx)
		}
		if err != nil {
			return 0, err
		}
	}
	return sum, nil
}

func (p *TimeProfiler) measureHookedAsync(ctx context.Context, c *BenchCase, n int) (float64, error) {
	var sum float64
	for i := 0; i < n; i++ {
		for _, h := range c.beforeHooks {
			if err := h(ctx); err != nil {
				return 0, err
			}
		}
		start := p.clock.Now()
		res := <-c.async(ctx)
		sum += elapsedMS(p.clock, start)
		for _, h := range c.afterHooks {
			_ = h(ctx)
		}
		if res.Err != nil {
			return 0, res.Err
		}
	}
	return sum, nil
}

// noopCase builds a zero-work case of the same sync/async kind as c, used
// to estimate per-call dispatch overhead.
func noopCase(isAsync bool) *BenchCase {
	if isAsync {
		return &BenchCase{
			Name:    "__overhead__",
			isAsync: true,
			async: func(ctx context.Context) <-chan Result {
				ch := make(chan Result, 1)
				ch <- Result{}
				return ch
			},
		}
	}
	return &BenchCase{
		Name: "__overhead__",
		sync: func(ctx context.Context) (any, error) { return nil, nil },
	}
}

// calibrate finds a count such that measure(count) runs approximately
// targetMS of wall-clock time, doubling until the target is first reached or
// exceeded, then scaling linearly from that final sample.
func calibrate(ctx context.Context, measure measureFn, targetMS float64) (int, error) {
	count := 1
	for {
		elapsed, err := measure(ctx, count)
		if err != nil {
			return 0, err
		}
		if elapsed >= targetMS {
			scaled := float64(count) * targetMS / elapsed
			return int(math.Ceil(scaled)), nil
		}
		count *= 2
	}
}

// OnCase runs the full per-case measurement protocol: calibrate, evaluate
// overhead, warm up, sample,
// check for a zero-measurement, and publish either a time or throughput
// metric.
func (p *TimeProfiler) OnCase(ctx *ProfilingContext, c *BenchCase, metrics Metrics) error {
	background := context.Background()
	measure := p.buildMeasure(c)

	count, err := p.resolveCount(background, measure)
	if err != nil {
		return errors.WithStack(err)
	}

	overheadPerCall := 0.0
	if p.opts.EvaluateOverhead && !c.HasIterationHooks() {
		overheadPerCall, err = p.evaluateOverhead(background, c.isAsync, count)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	for i := 0; i < p.opts.Warmup; i++ {
		elapsed, err := measure(background, count)
		if err != nil {
			return errors.WithStack(err)
		}
		ctx.Debug("warmup[%d] case=%s elapsed=%.4fms", i, c.Name, elapsed)
	}

	total := count * p.opts.UnrollFactor
	samples := make([]float64, p.opts.Samples)
	for i := 0; i < p.opts.Samples; i++ {
		elapsed, err := measure(background, count)
		if err != nil {
			return errors.WithStack(err)
		}
		samples[i] = elapsed/float64(total) - overheadPerCall
	}

	allNonPositive := true
	for _, s := range samples {
		if s > 0 {
			allNonPositive = false
			break
		}
	}

	if allNonPositive {
		caseID := c.CaseID
		ctx.Note(NoteWarn, zeroMeasurementWarning, &caseID)
		metrics["time"] = Numbers([]float64{0.0})
		return nil
	}

	if p.opts.Throughput != "" {
		unitMS := throughputUnitMillis(p.opts.Throughput)
		throughput := make([]float64, len(samples))
		for i, s := range samples {
			throughput[i] = unitMS / s
		}
		metrics["throughput"] = Numbers(throughput)
		return nil
	}

	metrics["time"] = Numbers(samples)
	return nil
}

// throughputUnitMillis converts a configured throughput unit string to the
// number of milliseconds in one unit, so unitMS/perCallMS yields ops/unit.
// Unrecognized units are treated as milliseconds.
func throughputUnitMillis(unit string) float64 {
	switch unit {
	case "ns":
		return 1e-6
	case "us", "µs":
		return 1e-3
	case "ms":
		return 1
	case "s":
		return 1000
	case "m":
		return 60 * 1000
	default:
		return 1
	}
}

func (p *TimeProfiler) resolveCount(ctx context.Context, measure measureFn) (int, error) {
	if p.opts.Iterations.Fixed != nil {
		return *p.opts.Iterations.Fixed / p.opts.UnrollFactor, nil
	}
	targetMS := float64(*p.opts.Iterations.Duration) / float64(time.Millisecond)
	return calibrate(ctx, measure, targetMS)
}

// evaluateOverhead times a no-op workload of the same sync/async kind,
// taking Samples samples at the given count, and returns the minimum
// sample's per-call cost. The minimum is used deliberately: system noise
// only inflates measurements, so the lowest sample best estimates pure
// dispatch cost.
func (p *TimeProfiler) evaluateOverhead(ctx context.Context, isAsync bool, count int) (float64, error) {
	noop := noopCase(isAsync)
	measure := p.buildMeasure(noop)

	min := math.Inf(1)
	for i := 0; i < p.opts.Samples; i++ {
		elapsed, err := measure(ctx, count)
		if err != nil {
			return 0, err
		}
		if elapsed < min {
			min = elapsed
		}
	}
	total := float64(count * p.opts.UnrollFactor)
	return min / total, nil
}
