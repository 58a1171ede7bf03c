// SPDX-License-Identifier: Apache-2.0

package persist

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gobench-dev/gobench/pkg/gobench"
)

func TestLoadOnMissingFileReturnsEmptyState(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "state.json"))
	state, err := store.Load()
	assert.NoError(t, err)
	assert.Empty(t, state)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "nested", "state.json"))

	want := map[string][]gobench.ToolchainResult{
		"my-suite": {
			{Builder: "local", Executor: "local", RunResult: gobench.RunResult{}},
		},
	}
	assert.NoError(t, store.Save(want))

	got, err := store.Load()
	assert.NoError(t, err)
	assert.Len(t, got["my-suite"], 1)
	assert.Equal(t, "local", got["my-suite"][0].Builder)
}

func TestSaveOverwritesPreviousState(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "state.json"))

	assert.NoError(t, store.Save(map[string][]gobench.ToolchainResult{
		"a": {{Builder: "local"}},
	}))
	assert.NoError(t, store.Save(map[string][]gobench.ToolchainResult{
		"b": {{Builder: "local"}},
	}))

	got, err := store.Load()
	assert.NoError(t, err)
	_, hasA := got["a"]
	assert.False(t, hasA)
	assert.Len(t, got["b"], 1)
}
