// SPDX-License-Identifier: Apache-2.0

package gobench

// DefaultEventLogger is the first profiler in every default stack: it logs
// each scene and case as the run progresses, giving a live narration even
// when no other profiler is configured.
type DefaultEventLogger struct {
	BaseProfiler
}

func (l *DefaultEventLogger) OnStart(ctx *ProfilingContext) error {
	ctx.Info("run starting")
	return nil
}

func (l *DefaultEventLogger) OnScene(ctx *ProfilingContext, scene *Scene) error {
	ctx.Debug("scene %s", formatCoords(scene.Params.Display))
	return nil
}

func (l *DefaultEventLogger) OnCase(ctx *ProfilingContext, c *BenchCase, metrics Metrics) error {
	ctx.Debug("case %s (id=%d)", c.Name, c.CaseID)
	return nil
}

func (l *DefaultEventLogger) OnFinish(ctx *ProfilingContext) error {
	ctx.Info("run finished")
	return nil
}
