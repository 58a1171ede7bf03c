// SPDX-License-Identifier: Apache-2.0

// Package message defines the closed alphabet of records an executor
// observes when a suite runs out-of-process: log lines, a terminal error,
// or a terminal result. Its Record/Writer/Reader split lets the same
// line-delimited JSON codec carry either a live progress stream or a
// finished batch.
package message

import (
	"fmt"
	"io"

	"github.com/gobench-dev/gobench/pkg/gobench"
)

// Kind tags which concrete Record a wire entry carries.
type Kind string

const (
	logKind    Kind = "Log"
	errorKind  Kind = "Error"
	resultKind Kind = "Result"
)

// Record is one message variant. Only this package's three record types
// (LogRecord, ErrorRecord, ResultRecord) satisfy it.
type Record interface {
	fmt.Stringer
	kind() Kind
}

// LogRecord is one log line emitted by the running suite.
type LogRecord struct {
	Level   gobench.Level
	TimeUTC string
	Message string
}

func (r LogRecord) kind() Kind { return logKind }
func (r LogRecord) String() string {
	return fmt.Sprintf("[%s] %s %s", r.Level, r.TimeUTC, r.Message)
}

// ErrorRecord is a serialised error: name, message, stack, and cause, so the
// host process can rethrow with useful diagnostics even though the failure
// happened in a child process.
type ErrorRecord struct {
	Name    string
	Message string
	Stack   string
	Cause   string
}

func (r ErrorRecord) kind() Kind { return errorKind }
func (r ErrorRecord) String() string {
	return fmt.Sprintf("%s: %s", r.Name, r.Message)
}

// ResultRecord carries the terminal RunSuiteResult; an executor treats its
// receipt — or an ErrorRecord's — as end-of-run.
type ResultRecord struct {
	Result gobench.RunSuiteResult
}

func (r ResultRecord) kind() Kind { return resultKind }
func (r ResultRecord) String() string {
	return fmt.Sprintf("result: %d scenes", len(r.Result.Scenes))
}

// Writer writes Records to an underlying stream.
type Writer interface {
	io.Writer
	WriteRecord(Record) error
}

// Reader reads Records from an underlying stream.
type Reader interface {
	io.Reader
	ReadRecord() (Record, error)
}

// Copy drains reader into writer until EOF, or the first error.
func Copy(writer Writer, reader Reader) error {
	for {
		rec, err := reader.ReadRecord()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := writer.WriteRecord(rec); err != nil {
			return err
		}
	}
}
