package bind

import (
	"context"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/br-lewis/continuum/executor"
	"github.com/br-lewis/continuum/future"
)

func init() {
	future.SetExecutor(executor.Immediate())
}

func TestRun_Success(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a posix shell")
	}

	ce, f := Run(context.Background(), "sh", []string{"-c", "echo hi"})
	require.NotNil(t, ce)

	select {
	case <-waitReady(f):
	case <-time.After(2 * time.Second):
		t.Fatal("command future did not resolve")
	}
	assert.True(t, f.IsReady())
	assert.Equal(t, struct{}{}, f.Value())
}

func TestRun_NonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a posix shell")
	}

	_, f := Run(context.Background(), "sh", []string{"-c", "exit 3"})

	var gotErr *exec.ExitError
	done := make(chan struct{})
	future.OnErrorVoid[*exec.ExitError](f, func(err *exec.ExitError) {
		gotErr = err
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("expected error future to resolve")
	}
	assert.Error(t, gotErr)
}

func TestOutput_CapturesStdout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a posix shell")
	}

	f := Output(context.Background(), 0, "sh", "-c", "echo hello")

	select {
	case <-waitReady(f):
	case <-time.After(2 * time.Second):
		t.Fatal("output future did not resolve")
	}
	require.True(t, f.IsReady())
	out := f.Value()
	assert.Equal(t, "hello\n", string(out.Stdout))
}

func TestOutput_NegativeTimeout(t *testing.T) {
	f := Output(context.Background(), -1, "sh", "-c", "true")
	assert.True(t, f.IsReady())
}

// waitReady polls a future's readiness on a helper goroutine. The bind
// package completes promises through future.CurrentExecutor, which these
// tests set to executor.Immediate, so completion runs on the worker
// goroutine that saw the command finish.
func waitReady(f interface{ IsReady() bool }) <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		for !f.IsReady() {
			time.Sleep(5 * time.Millisecond)
		}
		close(ch)
	}()
	return ch
}
