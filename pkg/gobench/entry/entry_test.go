// SPDX-License-Identifier: Apache-2.0

package entry

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gobench-dev/gobench/pkg/gobench"
	"github.com/gobench-dev/gobench/pkg/gobench/message"
)

func minimalSuite() gobench.SuiteDefinition {
	return gobench.SuiteDefinition{
		Name: "entry-suite",
		Setup: func(ctx context.Context, scene *gobench.Scene) error {
			return scene.Bench("noop", func(ctx context.Context) (any, error) { return nil, nil })
		},
		Timing: gobench.TimingOff(),
	}
}

func TestServeWritesResultRecordOnSuccess(t *testing.T) {
	var buf bytes.Buffer
	err := Serve(minimalSuite(), &buf, "")
	assert.NoError(t, err)

	// Log lines from the default event logger precede the terminal record.
	reader := message.NewJSONReader(&buf)
	var rec message.Record
	for {
		next, err := reader.ReadRecord()
		if err == io.EOF {
			break
		}
		if !assert.NoError(t, err) {
			break
		}
		rec = next
	}

	result, ok := rec.(message.ResultRecord)
	assert.True(t, ok)
	assert.Len(t, result.Result.Scenes, 1)
}

func TestServeWritesErrorRecordOnBadPattern(t *testing.T) {
	var buf bytes.Buffer
	err := Serve(minimalSuite(), &buf, "[")
	assert.Error(t, err)

	reader := message.NewJSONReader(&buf)
	rec, err := reader.ReadRecord()
	assert.NoError(t, err)

	_, ok := rec.(message.ErrorRecord)
	assert.True(t, ok)
}
