// SPDX-License-Identifier: Apache-2.0

package message

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJSONReaderWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	writer := NewJSONWriter(buf)
	assert.NoError(t, writer.WriteRecord(LogRecord{Level: "info", TimeUTC: "t0", Message: "hello"}))
	assert.NoError(t, writer.WriteRecord(ErrorRecord{Name: "SceneError", Message: "boom"}))

	reader := NewJSONReader(buf)

	rec, err := reader.ReadRecord()
	assert.NoError(t, err)
	assert.Equal(t, logKind, rec.kind())
	assert.Equal(t, "hello", rec.(LogRecord).Message)

	rec, err = reader.ReadRecord()
	assert.NoError(t, err)
	assert.Equal(t, errorKind, rec.kind())
	assert.Equal(t, "SceneError", rec.(ErrorRecord).Name)
}
