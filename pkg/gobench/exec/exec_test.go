// SPDX-License-Identifier: Apache-2.0

package exec

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gobench-dev/gobench/pkg/gobench/message"
)

// fakeReader replays a fixed sequence of records, then returns io.EOF.
type fakeReader struct {
	records []message.Record
	i       int
}

func (r *fakeReader) Read(p []byte) (int, error) { return 0, io.EOF }

func (r *fakeReader) ReadRecord() (message.Record, error) {
	if r.i >= len(r.records) {
		return nil, io.EOF
	}
	rec := r.records[r.i]
	r.i++
	return rec, nil
}

func TestStreamRecordsStopsAtResultRecord(t *testing.T) {
	reader := &fakeReader{records: []message.Record{
		message.LogRecord{Message: "first"},
		message.ResultRecord{},
		message.LogRecord{Message: "never dispatched"},
	}}

	var got []message.Record
	err := streamRecords(reader, func(rec message.Record) { got = append(got, rec) })
	assert.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestStreamRecordsStopsAtErrorRecord(t *testing.T) {
	reader := &fakeReader{records: []message.Record{
		message.ErrorRecord{Name: "SceneError", Message: "boom"},
		message.LogRecord{Message: "never dispatched"},
	}}

	var got []message.Record
	err := streamRecords(reader, func(rec message.Record) { got = append(got, rec) })
	assert.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStreamRecordsDrainsToEOFWithoutTerminalRecord(t *testing.T) {
	reader := &fakeReader{records: []message.Record{
		message.LogRecord{Message: "a"},
		message.LogRecord{Message: "b"},
	}}

	var got []message.Record
	err := streamRecords(reader, func(rec message.Record) { got = append(got, rec) })
	assert.NoError(t, err)
	assert.Len(t, got, 2)
}
