// SPDX-License-Identifier: Apache-2.0

// Package exec provides the core's Executor collaborator: it runs a built
// entry binary as a local child process and streams its message channel.
package exec

import (
	"context"
	"io"
	"os/exec"

	"github.com/pkg/errors"

	"github.com/gobench-dev/gobench/pkg/gobench/message"
)

// Spec describes one execution: the entry binary to run, the suite/case
// include pattern, and the sink every decoded message is dispatched to.
type Spec struct {
	EntryPath string
	Pattern   string
	Dispatch  func(message.Record)
}

// Executor runs a built entry in some environment.
type Executor interface {
	Execute(ctx context.Context, spec Spec) error
}

// LocalExecutor runs the entry as a local child process, reading its
// standard output as a line-delimited message channel.
type LocalExecutor struct{}

// Execute implements Executor.
func (LocalExecutor) Execute(ctx context.Context, spec Spec) error {
	args := []string{}
	if spec.Pattern != "" {
		args = append(args, "--pattern", spec.Pattern)
	}
	cmd := exec.CommandContext(ctx, spec.EntryPath, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "exec: attach stdout pipe")
	}
	if err := cmd.Start(); err != nil {
		return errors.Wrap(err, "exec: start entry process")
	}

	reader := message.NewJSONReader(stdout)
	readErr := streamRecords(reader, spec.Dispatch)

	waitErr := cmd.Wait()
	if readErr != nil {
		return readErr
	}
	if waitErr != nil {
		return errors.Wrap(waitErr, "exec: entry process failed")
	}
	return nil
}

// streamRecords reads every record until EOF, an ErrorRecord, or a
// ResultRecord — either of the latter two signals end-of-run.
func streamRecords(reader message.Reader, dispatch func(message.Record)) error {
	for {
		rec, err := reader.ReadRecord()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		dispatch(rec)

		switch rec.(type) {
		case message.ErrorRecord, message.ResultRecord:
			drainReader(reader)
			return nil
		}
	}
}

func drainReader(reader message.Reader) {
	for {
		if _, err := reader.ReadRecord(); err != nil {
			return
		}
	}
}

var _ Executor = LocalExecutor{}
