// SPDX-License-Identifier: Apache-2.0

package gobench

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ConfigError signals a bad parameter definition, invalid timing options, or
// an unknown baseline — raised synchronously from suite normalisation, the
// run never starts.
type ConfigError struct {
	Message string
	cause   error
}

func newConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

func wrapConfigError(cause error, format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...), cause: cause}
}

func (e *ConfigError) Error() string { return e.Message }
func (e *ConfigError) Cause() error  { return e.cause }
func (e *ConfigError) Unwrap() error { return e.cause }

// SceneError wraps any failure from setup, a hook, or a workload with the
// display-name coordinates of the scene in progress, so the host can
// identify the failing combination even in a subprocess.
type SceneError struct {
	Coords map[string]string
	cause  error
}

func wrapSceneError(coords map[string]string, cause error) *SceneError {
	return &SceneError{Coords: coords, cause: errors.WithStack(cause)}
}

func (e *SceneError) Error() string {
	return fmt.Sprintf("scene %s: %v", formatCoords(e.Coords), e.cause)
}

func (e *SceneError) Cause() error  { return e.cause }
func (e *SceneError) Unwrap() error { return e.cause }

// RunSuiteError is the single type user-throws become once they cross the
// runner entry boundary. It carries the offending scene's display-name
// coordinates when known.
type RunSuiteError struct {
	Coords map[string]string
	cause  error
}

func wrapRunSuiteError(cause error) *RunSuiteError {
	var sceneErr *SceneError
	if errors.As(cause, &sceneErr) {
		return &RunSuiteError{Coords: sceneErr.Coords, cause: cause}
	}
	return &RunSuiteError{cause: errors.WithStack(cause)}
}

func (e *RunSuiteError) Error() string {
	if len(e.Coords) == 0 {
		return fmt.Sprintf("run suite: %v", e.cause)
	}
	return fmt.Sprintf("run suite at %s: %v", formatCoords(e.Coords), e.cause)
}

func (e *RunSuiteError) Cause() error  { return e.cause }
func (e *RunSuiteError) Unwrap() error { return e.cause }

func formatCoords(coords map[string]string) string {
	if len(coords) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(coords))
	for k, v := range coords {
		parts = append(parts, fmt.Sprintf("%s=%s", k, v))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
