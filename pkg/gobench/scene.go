// SPDX-License-Identifier: Apache-2.0

package gobench

import (
	"context"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// SuiteContext is the small capability record a scene is given instead of a
// pointer back to the full profiling context, breaking the cyclic
// scene/context reference a naive port would otherwise introduce.
type SuiteContext struct {
	Info  func(format string, args ...any)
	Warn  func(format string, args ...any)
	Debug func(format string, args ...any)
}

// Scene is a transient object bound to one parameter assignment. It is
// created once per combination produced by the param resolver's
// cross-product, and destroyed after its teardown hooks run.
type Scene struct {
	Params  Assignment
	suite   SuiteContext
	pattern *regexp.Regexp

	cases     []*BenchCase
	caseNames map[string]bool

	beforeIteration []IterHook
	afterIteration  []IterHook
	teardown        []func(ctx context.Context) error
}

func newScene(params Assignment, suite SuiteContext, pattern *regexp.Regexp) *Scene {
	return &Scene{
		Params:    params,
		suite:     suite,
		pattern:   pattern,
		caseNames: make(map[string]bool),
	}
}

// Log, Logf-equivalents, forwarded to the owning context.
func (s *Scene) Info(format string, args ...any)  { s.suite.Info(format, args...) }
func (s *Scene) Warn(format string, args ...any)  { s.suite.Warn(format, args...) }
func (s *Scene) Debug(format string, args ...any) { s.suite.Debug(format, args...) }

// Cases returns the registered cases in registration order.
func (s *Scene) Cases() []*BenchCase { return s.cases }

// Bench registers a synchronous case. Name rules (non-blank, unique in
// scene) are enforced before the include-pattern filter: a case that does
// not match the filter is not added, but a blank or duplicate name still
// fails validation.
func (s *Scene) Bench(name string, w Workload) error {
	if err := s.validateName(name); err != nil {
		return err
	}
	if !s.matches(name) {
		return nil
	}
	c := &BenchCase{Name: name, isAsync: false, sync: w}
	s.addCase(c)
	return nil
}

// BenchAsync registers an asynchronous case. See Bench for name/filter
// ordering rules.
func (s *Scene) BenchAsync(name string, w AsyncWorkload) error {
	if err := s.validateName(name); err != nil {
		return err
	}
	if !s.matches(name) {
		return nil
	}
	c := &BenchCase{Name: name, isAsync: true, async: w}
	s.addCase(c)
	return nil
}

func (s *Scene) validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("case name must not be blank")
	}
	if s.caseNames[name] {
		return errors.Errorf("case name %q is already registered in this scene", name)
	}
	s.caseNames[name] = true
	return nil
}

func (s *Scene) matches(name string) bool {
	if s.pattern == nil {
		return true
	}
	return s.pattern.MatchString(name)
}

func (s *Scene) addCase(c *BenchCase) {
	s.cases = append(s.cases, c)
}

// BeforeIteration appends a hook run immediately before each single workload
// invocation, inside the outer measurement loop.
func (s *Scene) BeforeIteration(h IterHook) { s.beforeIteration = append(s.beforeIteration, h) }

// AfterIteration appends a hook run immediately after each single workload
// invocation.
func (s *Scene) AfterIteration(h IterHook) { s.afterIteration = append(s.afterIteration, h) }

// Teardown appends a hook run unconditionally once the scene finishes, even
// on failure.
func (s *Scene) Teardown(h func(ctx context.Context) error) { s.teardown = append(s.teardown, h) }

func (s *Scene) runTeardown(ctx context.Context) {
	for _, h := range s.teardown {
		_ = h(ctx)
	}
}

// bindIterationHooks copies the scene's before/after-iteration hooks onto a
// case, so the time profiler can treat "has iteration hooks" as a per-case
// property without reaching back into the scene.
func (s *Scene) bindIterationHooks(c *BenchCase) {
	c.beforeHooks = append(c.beforeHooks, s.beforeIteration...)
	c.afterHooks = append(c.afterHooks, s.afterIteration...)
}
