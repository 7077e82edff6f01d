// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shell

import (
	"context"
	"errors"
	"io"
	"os/exec"

	"github.com/matt-FFFFFF/mbash/internal/ctxlog"
)

// ErrLaunch is returned when an external program could not be started, e.g.
// it was not found on the search path or is not executable. It is distinct
// from a nonzero exit: the program never ran.
var ErrLaunch = errors.New("could not launch program")

// Outcome is the result of one external program invocation. It is consumed
// immediately for reporting and never retained.
type Outcome struct {
	// ExitCode is the program's exit status. It is -1 when the program
	// never ran.
	ExitCode int
	// Err is non-nil only on launch failure.
	Err error
}

// launch starts the named program with the given arguments and working
// directory, wiring it to the provided streams, and blocks until it exits.
// There is no timeout: a hung child blocks the shell indefinitely.
func launch(name string, args []string, dir string, stdin io.Reader, stdout, stderr io.Writer) Outcome {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()

	var exitErr *exec.ExitError

	switch {
	case err == nil:
		return Outcome{ExitCode: 0}
	case errors.As(err, &exitErr):
		return Outcome{ExitCode: exitErr.ExitCode()}
	default:
		return Outcome{ExitCode: -1, Err: errors.Join(ErrLaunch, err)}
	}
}

// runExternal forwards a command line to the OS as a child process sharing
// the shell's streams and working directory, then reports its outcome. No
// outcome is fatal to the interpreter.
func (s *Shell) runExternal(ctx context.Context, name string, args []string) {
	outcome := launch(name, args, s.session.Cwd(), s.stdin, s.stdout, s.stderr)

	switch {
	case outcome.Err != nil:
		ctxlog.Error(ctx, "failed to launch program", "program", name, "error", outcome.Err)
	case outcome.ExitCode != 0:
		ctxlog.Error(ctx, "command failed", "program", name, "exitCode", outcome.ExitCode)
	default:
		ctxlog.Debug(ctx, "command succeeded", "program", name)
	}
}
