// SPDX-License-Identifier: Apache-2.0

// Package build provides the core's Builder collaborator: it shells out to
// "go build" to compile a suite package into a runnable local entry binary.
package build

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
)

// Builder produces a runnable entry from a suite package's source files.
type Builder interface {
	Build(ctx context.Context, outDir string, files []string) error
}

// LocalBuilder shells out to "go build", optionally reusing a shared build
// cache directory across suites so the --shared CLI flag can skip
// recompiling unchanged dependencies.
type LocalBuilder struct {
	// CacheDir, when non-empty, is passed to "go build" as GOCACHE so
	// repeated builds across suites reuse compiled packages.
	CacheDir string
}

// Build compiles the Go package containing files into outDir/entry.
func (b *LocalBuilder) Build(ctx context.Context, outDir string, files []string) error {
	if len(files) == 0 {
		return errors.New("build: no source files given")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errors.Wrap(err, "build: create output directory")
	}

	pkgDir := filepath.Dir(files[0])
	outBinary := filepath.Join(outDir, "entry")

	cmd := exec.CommandContext(ctx, "go", "build", "-o", outBinary, pkgDir)
	cmd.Env = os.Environ()
	if b.CacheDir != "" {
		cmd.Env = append(cmd.Env, "GOCACHE="+b.CacheDir)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "build: go build failed")
	}
	return nil
}

var _ Builder = (*LocalBuilder)(nil)
