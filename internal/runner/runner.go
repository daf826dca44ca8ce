// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner executes the external tools zkdocs depends on (zk, pandoc)
// and checks that they are installed.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Executor runs external commands. Production code uses New; tests supply
// fakes that record invocations.
type Executor interface {
	// LookPath resolves an executable on PATH.
	LookPath(file string) (string, error)

	// Output runs name with args inside dir and returns its stdout.
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)

	// Run runs name with args inside dir, streaming stdout to w.
	Run(ctx context.Context, dir, name string, args []string, w io.Writer) error
}

// ExitError reports an external command that could not be started or that
// exited non-zero.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
	Err     error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Command, e.Err)
	if e.Code > 0 {
		msg = fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

// osExecutor is the production executor backed by os/exec.
type osExecutor struct {
	log zerolog.Logger
}

// New returns an Executor that runs real processes and logs each command at
// debug level.
func New(log zerolog.Logger) Executor {
	return &osExecutor{log: log}
}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	var stdout bytes.Buffer
	if err := o.Run(ctx, dir, name, args, &stdout); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

func (o *osExecutor) Run(ctx context.Context, dir, name string, args []string, w io.Writer) error {
	o.log.Debug().Str("dir", dir).Str("cmd", CommandLine(name, args)).Msg("exec")

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = w
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitErr := &ExitError{
			Command: CommandLine(name, args),
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			exitErr.Code = ee.ExitCode()
		}
		return exitErr
	}
	return nil
}

// CommandLine renders name and args as a shell-like string for messages.
// Arguments containing whitespace or quotes are quoted.
func CommandLine(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n\"'") {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

// Require reports an error naming every binary in bins that is not on PATH.
func Require(e Executor, bins ...string) error {
	var missing []string
	for _, bin := range bins {
		if _, err := e.LookPath(bin); err != nil {
			missing = append(missing, bin)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required tools not found on PATH: %s", strings.Join(missing, ", "))
	}
	return nil
}
