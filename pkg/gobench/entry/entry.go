// SPDX-License-Identifier: Apache-2.0

// Package entry is what a built suite's main function calls: it runs the
// suite and forwards every log line and the terminal result or error over
// the message channel, the concrete realisation of the builder's required
// entry signature.
package entry

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/pkg/errors"

	"github.com/gobench-dev/gobench/pkg/gobench"
	"github.com/gobench-dev/gobench/pkg/gobench/message"
)

// Serve runs def and streams its progress and terminal outcome as
// line-delimited JSON messages to out. It returns the run error (if any)
// after the terminal message has been written, so the caller's own exit
// code can still reflect failure.
func Serve(def gobench.SuiteDefinition, out io.Writer, pattern string) error {
	writer := message.NewJSONWriter(out)

	handler := &channelLogHandler{writer: writer}

	var pat *regexp.Regexp
	if pattern != "" {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			_ = writer.WriteRecord(toErrorRecord(err))
			return err
		}
		pat = compiled
	}

	result, err := gobench.RunSuite(context.Background(), def, gobench.RunOptions{
		Log:     handler,
		Pattern: pat,
	})
	if err != nil {
		_ = writer.WriteRecord(toErrorRecord(err))
		return err
	}

	return writer.WriteRecord(message.ResultRecord{Result: *result})
}

func toErrorRecord(err error) message.ErrorRecord {
	rec := message.ErrorRecord{Message: err.Error()}
	type causer interface{ Cause() error }
	if c, ok := err.(causer); ok && c.Cause() != nil {
		rec.Cause = c.Cause().Error()
	}
	type stackTracer interface{ StackTrace() errors.StackTrace }
	var st stackTracer
	if errors.As(err, &st) {
		rec.Stack = fmt.Sprintf("%+v", st.StackTrace())
	}
	switch err.(type) {
	case *gobench.RunSuiteError:
		rec.Name = "RunSuiteError"
	case *gobench.SceneError:
		rec.Name = "SceneError"
	case *gobench.ConfigError:
		rec.Name = "ConfigError"
	default:
		rec.Name = "Error"
	}
	return rec
}

// channelLogHandler adapts gobench.LogHandler to the message channel.
type channelLogHandler struct {
	writer message.Writer
}

func (h *channelLogHandler) Log(level gobench.Level, msg string) {
	_ = h.writer.WriteRecord(message.LogRecord{
		Level:   level,
		TimeUTC: time.Now().UTC().Format(time.RFC3339Nano),
		Message: msg,
	})
}
