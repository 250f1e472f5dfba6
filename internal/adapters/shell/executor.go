// Package shell provides an executor that spawns commands as child processes.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"go.trai.ch/nob/internal/core/domain"
	"go.trai.ch/nob/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec.
//
// Children inherit the environment and, by default, the standard streams of
// the build program. They are started without a context so that cancelling a
// build never kills a command midway.
type Executor struct {
	logger ports.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	stream bool
}

// NewExecutor creates a new Executor attached to the process's standard streams.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// WithStreams replaces the standard streams handed to children.
func (e *Executor) WithStreams(stdin io.Reader, stdout, stderr io.Writer) *Executor {
	e.stdin = stdin
	e.stdout = stdout
	e.stderr = stderr
	return e
}

// WithLogStreaming routes child output through the logger line by line
// instead of the standard streams, keeping structured log output intact.
func (e *Executor) WithLogStreaming(enable bool) *Executor {
	e.stream = enable
	return e
}

// Run spawns the command and waits for it to exit.
func (e *Executor) Run(ctx context.Context, cmd *domain.Command) error {
	if cmd.Empty() {
		return domain.ErrEmptyCommand
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	e.logger.Info("[CMD] " + cmd.String())

	args := cmd.Args()
	name := args[0]

	c := exec.Command(name, args[1:]...) //nolint:gosec,noctx // commands come from the build program itself
	c.Stdin = e.stdin
	c.Stdout = e.stdout
	c.Stderr = e.stderr

	if e.stream {
		stdoutLog := &logWriter{logger: e.logger, level: "info"}
		stderrLog := &logWriter{logger: e.logger, level: "warn"}
		defer func() {
			_ = stdoutLog.Close()
			_ = stderrLog.Close()
		}()
		c.Stdout = stdoutLog
		c.Stderr = stderrLog
	}

	if err := c.Start(); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrCommandFailed, fmt.Sprintf("%s could not be started: %v", name, err)), "exit_code", -1)
	}

	return classify(name, c.Wait())
}

// classify maps the result of Wait onto the domain's failure categories.
func classify(name string, err error) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return zerr.With(zerr.Wrap(domain.ErrCommandFailed, fmt.Sprintf("%s: %v", name, err)), "exit_code", -1)
	}

	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		sig := status.Signal()
		return zerr.With(zerr.Wrap(domain.ErrCommandSignaled, fmt.Sprintf("%s: %s", name, sig)), "signal", sig.String())
	}

	code := exitErr.ExitCode()
	return zerr.With(zerr.Wrap(domain.ErrCommandFailed, fmt.Sprintf("%s exited with code %d", name, code)), "exit_code", code)
}

// logWriter buffers child output and logs it one line at a time.
type logWriter struct {
	logger ports.Logger
	level  string
	buf    []byte
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")

	if w.level == "info" {
		w.logger.Info(msg)
	} else {
		w.logger.Warn(msg)
	}
}
