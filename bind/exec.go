package bind

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/pkg/errors"

	"github.com/br-lewis/continuum/future"
)

// ErrInvalidTimeout is returned by Output when called with a negative
// timeout, adapted from the teacher exec package's identical check.
var ErrInvalidTimeout = errors.New("bind: timeout cannot be negative")

// CommandExecutor streams a running command's combined stdout/stderr
// through Read and completes a future once the process exits, canceled, or
// its context expires. It is the future-returning counterpart of the
// teacher exec package's identically-named type.
type CommandExecutor struct {
	done chan error
	pipe *os.File
}

// Read implements io.Reader over the command's combined stdout/stderr.
func (c *CommandExecutor) Read(p []byte) (int, error) {
	return c.pipe.Read(p)
}

// Run spawns command with arg, returning a CommandExecutor to stream its
// output from and a Future that resolves once the process has finished.
// The future's value is always struct{}{}. A failure is forwarded as-is to
// the future engine's typed-error path rather than reduced to a single
// error value: a non-zero exit arrives as *exec.ExitError (catch it with
// future.OnErrorVoid[*exec.ExitError]), and if ctx is done first the error
// is ctx.Err().
func Run(ctx context.Context, command string, arg []string) (*CommandExecutor, *future.Future[struct{}]) {
	if ctx == nil {
		ctx = context.Background()
	}

	ce := &CommandExecutor{done: make(chan error, 1)}
	promise := future.NewPromise[struct{}]()

	cmd := exec.CommandContext(ctx, command, arg...)

	r, w, err := os.Pipe()
	if err != nil {
		promise.SetError(err)
		return ce, promise.Future()
	}
	cmd.Stdout = w
	cmd.Stderr = w
	ce.pipe = r

	go func() {
		defer w.Close()
		ce.done <- cmd.Run()
	}()

	go func() {
		var err error
		select {
		case <-ctx.Done():
			err = ctx.Err()
		case err = <-ce.done:
		}
		complete(func() {
			if err != nil {
				promise.SetError(err)
				return
			}
			promise.SetValue(struct{}{})
		})
	}()

	return ce, promise.Future()
}

// Output runs command with args to completion and resolves with its
// captured stdout and stderr. If timeout is zero, Output defaults to ten
// seconds; a negative timeout is rejected with ErrInvalidTimeout via the
// returned future's error path.
func Output(ctx context.Context, timeout time.Duration, command string, args ...string) *future.Future[*CommandOutput] {
	promise := future.NewPromise[*CommandOutput]()

	if timeout < 0 {
		promise.SetError(ErrInvalidTimeout)
		return promise.Future()
	}
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)

	cmd := exec.CommandContext(runCtx, command, args...)
	var outbuf, errbuf bytes.Buffer
	cmd.Stdout = &outbuf
	cmd.Stderr = &errbuf

	go func() {
		defer cancel()
		err := cmd.Run()
		complete(func() {
			if err != nil {
				promise.SetError(errors.Wrapf(err, "bind: running %s", command))
				return
			}
			promise.SetValue(&CommandOutput{Stdout: outbuf.Bytes(), Stderr: errbuf.Bytes()})
		})
	}()

	return promise.Future()
}

// CommandOutput holds the captured stdout and stderr of a command run via
// Output.
type CommandOutput struct {
	Stdout []byte
	Stderr []byte
}
