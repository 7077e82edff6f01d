// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package shell implements the mbash command interpreter: a sequential loop
// that prompts, reads one line, tokenizes it, classifies it as a built-in
// directive, an internal-namespace command or an external program, executes
// it, and re-checks the termination flag. The only blocking points are the
// line read and the wait for a spawned child process.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matt-FFFFFF/mbash/internal/ctxlog"
	"github.com/matt-FFFFFF/mbash/internal/tracking"
)

// Shell is the interpreter. It owns the session state and the bookkeeping
// collaborator, and runs single-threaded: one command is fully dispatched,
// including waiting for any child process, before the next prompt.
type Shell struct {
	session *Session
	book    *tracking.Book

	in     *bufio.Reader
	out    *bufio.Writer
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// New creates a Shell reading commands from stdin and writing its prompt to
// stdout. Child processes inherit all three streams. The error is fatal: it
// means the initial working directory could not be determined and no session
// baseline exists.
func New(ctx context.Context, book *tracking.Book, stdin io.Reader, stdout, stderr io.Writer) (*Shell, error) {
	session, err := NewSession(ctx)
	if err != nil {
		return nil, err
	}

	s := &Shell{
		session: session,
		book:    book,
		in:      bufio.NewReader(stdin),
		out:     bufio.NewWriter(stdout),
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
	}

	s.loadTracked(ctx)

	return s, nil
}

// Session exposes the session state, primarily for tests.
func (s *Shell) Session() *Session {
	return s.session
}

// loadTracked reports the entries tracked from previous runs. A read failure
// here is not fatal; the user can run "m init" to repair the files.
func (s *Shell) loadTracked(ctx context.Context) {
	entries, err := s.book.Tracked(ctx)
	if err != nil {
		ctxlog.Error(ctx, "failed to load tracking file", "error", err)
		return
	}

	if len(entries) == 0 {
		ctxlog.Debug(ctx, "currently not tracking anything")
		return
	}

	for _, entry := range entries {
		ctxlog.Debug(ctx, "tracking", "entry", entry)
	}
}

// Run drives the interpreter until the termination flag is set, either by
// the exit directive, end of input, context cancellation, or a fatal
// directory-fetch failure. No error originating from command dispatch ever
// unwinds past this loop.
func (s *Shell) Run(ctx context.Context) {
	for !s.session.Terminating() {
		if ctx.Err() != nil {
			s.session.Terminate(ctx)
			continue
		}

		if err := s.prompt(); err != nil {
			ctxlog.Error(ctx, "failed to write prompt", "error", err)
			// A failed flush leaves the buffered writer in a sticky error
			// state; reset it so a transient failure does not disable the
			// prompt for the rest of the session.
			s.out.Reset(s.stdout)

			continue
		}

		line, err := s.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			ctxlog.Error(ctx, "failed to read input", "error", err)
			continue
		}

		if errors.Is(err, io.EOF) {
			// Treat a closed input stream like an exit directive, after
			// dispatching any final unterminated line.
			ctxlog.Debug(ctx, "end of input")
			s.session.Terminate(ctx)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		ctxlog.Debug(ctx, "received input", "line", line)
		s.dispatch(ctx, Classify(Tokenize(line)))
	}
}

// prompt renders "mbash@ <cwd>: " and flushes it so the user sees it before
// the blocking read.
func (s *Shell) prompt() error {
	if _, err := fmt.Fprintf(s.out, "mbash@ %s: ", s.session.Cwd()); err != nil {
		return err
	}

	return s.out.Flush()
}
