// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/gobench-dev/gobench/pkg/gobench"
)

// NewLogger creates a CLI log handler writing to writer.
func NewLogger(writer io.Writer) *Logger {
	return &Logger{
		writer:     writer,
		bufferPool: newBufferPool(),
		warn:       color.New(color.FgYellow),
		debug:      color.New(color.Faint),
	}
}

// Logger is the CLI's gobench.LogHandler: synchronized, buffer-pooled
// writes with severity-coded color, replacing the progress-spinner UI the
// original command line used for Kubernetes job streaming.
type Logger struct {
	writer     io.Writer
	writerMu   sync.Mutex
	bufferPool *bufferPool

	warn  *color.Color
	debug *color.Color
}

var _ gobench.LogHandler = (*Logger)(nil)

// Log implements gobench.LogHandler.
func (l *Logger) Log(level gobench.Level, message string) {
	buf := l.bufferPool.Get()
	defer l.bufferPool.Put(buf)

	switch level {
	case gobench.LevelWarn:
		l.warn.Fprintf(buf, "warn: %s", message)
	case gobench.LevelDebug:
		l.debug.Fprintf(buf, "debug: %s", message)
	default:
		fmt.Fprint(buf, message)
	}
	l.writeBuffer(buf)
}

func (l *Logger) write(p []byte) (n int, err error) {
	l.writerMu.Lock()
	defer l.writerMu.Unlock()
	return l.writer.Write(p)
}

func (l *Logger) writeBuffer(buf *bytes.Buffer) {
	if buf.Len() == 0 || buf.Bytes()[buf.Len()-1] != '\n' {
		buf.WriteByte('\n')
	}
	_, _ = l.write(buf.Bytes())
}

// bufferPool is a type-safe sync.Pool of *bytes.Buffer, guaranteed to be
// reset before reuse.
type bufferPool struct {
	sync.Pool
}

func newBufferPool() *bufferPool {
	return &bufferPool{
		Pool: sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
}

func (b *bufferPool) Get() *bytes.Buffer {
	return b.Pool.Get().(*bytes.Buffer)
}

func (b *bufferPool) Put(x *bytes.Buffer) {
	if x.Len() > 256 {
		return
	}
	x.Reset()
	b.Pool.Put(x)
}
