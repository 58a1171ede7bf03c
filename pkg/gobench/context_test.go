// SPDX-License-Identifier: Apache-2.0

package gobench

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// recordingProfiler appends a tag per lifecycle call into a shared log, so
// tests can assert on dispatch order without inspecting private state.
type recordingProfiler struct {
	BaseProfiler
	log         *[]string
	failOnScene bool
}

func (p *recordingProfiler) OnStart(ctx *ProfilingContext) error {
	*p.log = append(*p.log, "start")
	return nil
}

func (p *recordingProfiler) OnScene(ctx *ProfilingContext, scene *Scene) error {
	*p.log = append(*p.log, "scene")
	if p.failOnScene {
		return fmt.Errorf("scene rejected")
	}
	return nil
}

func (p *recordingProfiler) OnCase(ctx *ProfilingContext, c *BenchCase, m Metrics) error {
	*p.log = append(*p.log, fmt.Sprintf("case:%s:%d", c.Name, c.CaseID))
	return nil
}

func (p *recordingProfiler) OnFinish(ctx *ProfilingContext) error {
	*p.log = append(*p.log, "finish")
	return nil
}

func twoCaseSetup(ctx context.Context, scene *Scene) error {
	if err := scene.Bench("A", func(ctx context.Context) (any, error) { return nil, nil }); err != nil {
		return err
	}
	return scene.Bench("B", func(ctx context.Context) (any, error) { return nil, nil })
}

func TestProfilingContextDispatchOrderAndCaseIDContiguity(t *testing.T) {
	var log []string
	rp := &recordingProfiler{log: &log}

	params, err := resolveParams([]Param{Values("size", "0", "1")})
	assert.NoError(t, err)

	pc := newProfilingContext("suite", twoCaseSetup, params, nil, []Profiler{rp}, nil)
	res, err := pc.Run(context.Background())
	assert.NoError(t, err)
	assert.Len(t, res.Scenes, 2)

	assert.Equal(t, []string{
		"start",
		"scene", "case:A:0", "case:B:1",
		"scene", "case:A:2", "case:B:3",
		"finish",
	}, log)
}

func TestProfilingContextRunTwiceFails(t *testing.T) {
	params, err := resolveParams(nil)
	assert.NoError(t, err)
	pc := newProfilingContext("suite", twoCaseSetup, params, nil, nil, nil)

	_, err = pc.Run(context.Background())
	assert.NoError(t, err)

	_, err = pc.Run(context.Background())
	assert.Error(t, err)
}

func TestProfilingContextTeardownRunsOnSetupFailure(t *testing.T) {
	teardownRan := false
	setup := func(ctx context.Context, scene *Scene) error {
		scene.Teardown(func(ctx context.Context) error {
			teardownRan = true
			return nil
		})
		return fmt.Errorf("setup exploded")
	}

	params, err := resolveParams([]Param{Values("size", "0")})
	assert.NoError(t, err)
	pc := newProfilingContext("suite", setup, params, nil, nil, nil)

	_, err = pc.Run(context.Background())
	assert.Error(t, err)
	assert.True(t, teardownRan)

	var sceneErr *SceneError
	assert.ErrorAs(t, err, &sceneErr)
	assert.Equal(t, "0", sceneErr.Coords["size"])
}

func TestProfilingContextTeardownRunsOnProfilerFailure(t *testing.T) {
	teardownRan := false
	setup := func(ctx context.Context, scene *Scene) error {
		scene.Teardown(func(ctx context.Context) error {
			teardownRan = true
			return nil
		})
		return scene.Bench("A", func(ctx context.Context) (any, error) { return nil, nil })
	}

	var log []string
	rp := &recordingProfiler{log: &log, failOnScene: true}

	params, err := resolveParams([]Param{Values("size", "0")})
	assert.NoError(t, err)
	pc := newProfilingContext("suite", setup, params, nil, []Profiler{rp}, nil)

	_, err = pc.Run(context.Background())
	assert.Error(t, err)
	assert.True(t, teardownRan)

	var sceneErr *SceneError
	assert.ErrorAs(t, err, &sceneErr)
	assert.Equal(t, "0", sceneErr.Coords["size"])

	// OnCase must never run once OnScene rejects the scene.
	for _, e := range log {
		assert.NotContains(t, e, "case:")
	}
}

func TestProfilingContextZeroParamsYieldsOneScene(t *testing.T) {
	params, err := resolveParams(nil)
	assert.NoError(t, err)
	pc := newProfilingContext("suite", twoCaseSetup, params, nil, nil, nil)

	res, err := pc.Run(context.Background())
	assert.NoError(t, err)
	assert.Len(t, res.Scenes, 1)
}
