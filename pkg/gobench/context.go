// SPDX-License-Identifier: Apache-2.0

package gobench

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/pkg/errors"
)

type contextState int

const (
	stateFresh contextState = iota
	stateRunning
	stateDone
)

// SetupFunc materialises a scene for one parameter assignment. It is the
// user suite's sole required entry point.
type SetupFunc func(ctx context.Context, scene *Scene) error

// ProfilingContext is the driver. It walks scenes, dispatches named
// lifecycle events to a stack of profilers in registration order, and
// aggregates per-case metrics. A context runs exactly once; attempting to
// run it twice fails.
type ProfilingContext struct {
	suiteName string
	setup     SetupFunc
	params    *ParamSet
	pattern   *regexp.Regexp
	profilers []Profiler
	log       LogHandler

	state contextState

	scenes  []*SceneResult
	notes   []Note
	meta    map[string]MetricDescriptor
	nextID  int

	currentCoords map[string]string
}

func newProfilingContext(suiteName string, setup SetupFunc, params *ParamSet, pattern *regexp.Regexp, profilers []Profiler, log LogHandler) *ProfilingContext {
	if log == nil {
		log = NewColorLogHandler(os.Stdout)
	}
	return &ProfilingContext{
		suiteName: suiteName,
		setup:     setup,
		params:    params,
		pattern:   pattern,
		profilers: profilers,
		log:       log,
		meta:      make(map[string]MetricDescriptor),
	}
}

// Info, Warn, Debug dispatch a log line at the given severity through the
// context's LogHandler.
func (c *ProfilingContext) Info(format string, args ...any)  { c.logf(LevelInfo, format, args...) }
func (c *ProfilingContext) Warn(format string, args ...any)  { c.logf(LevelWarn, format, args...) }
func (c *ProfilingContext) Debug(format string, args ...any) { c.logf(LevelDebug, format, args...) }

func (c *ProfilingContext) logf(level Level, format string, args ...any) {
	c.log.Log(level, sprintf(format, args...))
}

// Note appends a note to the context and emits a log line at the same
// severity.
func (c *ProfilingContext) Note(t NoteType, text string, caseID *int) {
	c.notes = append(c.notes, Note{Type: t, Text: text, CaseID: caseID})
	lvl := LevelInfo
	if t == NoteWarn {
		lvl = LevelWarn
	}
	c.log.Log(lvl, text)
}

// DefineMetric registers a descriptor under its key; the last registration
// wins.
func (c *ProfilingContext) DefineMetric(d MetricDescriptor) {
	c.meta[d.Key] = d
}

// Pattern returns the include-pattern filtering case names at registration,
// or nil if none was set.
func (c *ProfilingContext) Pattern() *regexp.Regexp { return c.pattern }

// Run executes the suite exactly once: onStart on every profiler, then for
// each parameter assignment a fresh scene, setup, onScene, each case's
// onCase in order, then unconditional teardown; finally onFinish.
func (c *ProfilingContext) Run(ctx context.Context) (res *RunResult, err error) {
	if c.state != stateFresh {
		return nil, errors.New("profiling context has already been run")
	}
	c.state = stateRunning
	defer func() { c.state = stateDone }()

	suiteCtx := SuiteContext{
		Info:  c.Info,
		Warn:  c.Warn,
		Debug: c.Debug,
	}

	for _, p := range c.profilers {
		if err := p.OnStart(c); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	it := c.params.Iterate()
	for {
		assignment, ok := it.Next()
		if !ok {
			break
		}
		c.currentCoords = assignment.Display
		sceneResult, err := c.runScene(ctx, suiteCtx, assignment)
		if err != nil {
			return nil, wrapSceneError(assignment.Display, err)
		}
		c.scenes = append(c.scenes, sceneResult)
	}
	c.currentCoords = nil

	for _, p := range c.profilers {
		if err := p.OnFinish(c); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	return &RunResult{
		Scenes:   c.scenes,
		Notes:    c.notes,
		Meta:     c.meta,
		ParamDef: c.params.Axes(),
	}, nil
}

func (c *ProfilingContext) runScene(ctx context.Context, suiteCtx SuiteContext, assignment Assignment) (sr *SceneResult, err error) {
	scene := newScene(assignment, suiteCtx, c.pattern)
	defer scene.runTeardown(ctx)

	if err := c.setup(ctx, scene); err != nil {
		return nil, err
	}
	for _, cs := range scene.cases {
		scene.bindIterationHooks(cs)
	}

	for _, p := range c.profilers {
		if err := p.OnScene(c, scene); err != nil {
			return nil, err
		}
	}

	sceneResult := newSceneResult()
	for _, cs := range scene.cases {
		cs.CaseID = c.nextID
		c.nextID++

		metrics := newMetrics()
		for _, p := range c.profilers {
			if err := p.OnCase(c, cs, metrics); err != nil {
				return nil, err
			}
		}
		sceneResult.set(cs.Name, metrics)
	}

	return sceneResult, nil
}

func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
