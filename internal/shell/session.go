// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/matt-FFFFFF/mbash/internal/ctxlog"
)

// ErrNoWorkingDirectory is returned when the process's working directory
// cannot be determined.
var ErrNoWorkingDirectory = errors.New("could not determine working directory")

// Session holds the interpreter's state for one run: the current working
// directory and the termination flag. The directory is mutated only by the
// cd built-in (and startup initialization); the flag is set only by the exit
// built-in, end of input, or a fatal directory-fetch failure. The flag is
// atomic so a future asynchronous signal path can read it safely.
type Session struct {
	cwd         string
	terminating atomic.Bool
}

// NewSession creates a Session anchored at the process's current working
// directory. If the directory cannot be determined the session is unusable:
// the termination flag is set and an error is returned.
func NewSession(ctx context.Context) (*Session, error) {
	s := &Session{}
	if err := s.SyncCwd(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// Cwd returns the session's current working directory.
func (s *Session) Cwd() string {
	return s.cwd
}

// SyncCwd re-reads the working directory from the OS. It is never computed
// locally, so symlinks and relative path components cannot cause drift. On
// failure the termination flag is set: the session cannot continue without a
// known location.
func (s *Session) SyncCwd(ctx context.Context) error {
	wd, err := os.Getwd()
	if err != nil {
		ctxlog.Error(ctx, "failed to fetch current directory", "error", err)
		s.terminating.Store(true)

		return fmt.Errorf("%w: %w", ErrNoWorkingDirectory, err)
	}

	s.cwd = wd

	return nil
}

// Terminating reports whether the session is shutting down.
func (s *Session) Terminating() bool {
	return s.terminating.Load()
}

// Terminate sets the termination flag. Calling it when the flag is already
// set is a no-op.
func (s *Session) Terminate(ctx context.Context) {
	if !s.terminating.CompareAndSwap(false, true) {
		return
	}

	ctxlog.Debug(ctx, "session terminating")
}
