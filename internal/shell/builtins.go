// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shell

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/mbash/internal/ctxlog"
)

// runBuiltin executes one of the built-in directives. The name has already
// been matched by the classifier, so the default branch is unreachable.
func (s *Shell) runBuiltin(ctx context.Context, name string, args []string) {
	switch name {
	case "cd":
		s.builtinCd(ctx, args)
	case "exit":
		s.builtinExit(ctx)
	}
}

// builtinCd changes the process's working directory. It requires exactly one
// non-empty path argument; a missing or empty argument is reported and is a
// no-op. On success the session directory is re-synchronized from the OS; on
// failure session state is left unchanged.
func (s *Shell) builtinCd(ctx context.Context, args []string) {
	if len(args) == 0 || args[0] == "" {
		ctxlog.Error(ctx, "cd requires a directory argument [cd <directory>]")
		return
	}

	dir := args[0]

	if err := os.Chdir(dir); err != nil {
		ctxlog.Error(ctx, "failed to change directory", "dir", dir, "error", err)
		return
	}

	ctxlog.Debug(ctx, "changed directory", "dir", dir)

	// SyncCwd sets the termination flag itself if the fetch fails.
	_ = s.session.SyncCwd(ctx)
}

// builtinExit sets the termination flag. It is idempotent and returns
// control to the loop immediately so the flag takes effect before the next
// prompt.
func (s *Shell) builtinExit(ctx context.Context) {
	if s.session.Terminating() {
		return
	}

	s.session.Terminate(ctx)
}

// runInternal executes a command in the reserved internal namespace. Unknown
// names are reported; there is no external fallback for prefixed commands.
func (s *Shell) runInternal(ctx context.Context, name string, args []string) {
	switch name {
	case "init":
		s.internalInit(ctx)
	case "track":
		s.internalTrack(ctx, args)
	case "untrack":
		s.internalUntrack(ctx, args)
	case "list":
		s.internalList(ctx)
	default:
		ctxlog.Error(ctx, "unknown internal command", "command", name)
	}
}

// internalInit ensures the bookkeeping files exist. It is idempotent.
func (s *Shell) internalInit(ctx context.Context) {
	if err := s.book.Init(ctx); err != nil {
		ctxlog.Error(ctx, "failed to initialize bookkeeping files", "error", err)
		return
	}

	ctxlog.Info(ctx, "bookkeeping files ready",
		"tracking", s.book.TrackingPath(), "ignoring", s.book.IgnorePath())
}

func (s *Shell) internalTrack(ctx context.Context, args []string) {
	if len(args) == 0 || args[0] == "" {
		ctxlog.Error(ctx, "track requires a path argument [m track <path>]")
		return
	}

	if err := s.book.Track(ctx, args[0]); err != nil {
		ctxlog.Error(ctx, "failed to track entry", "entry", args[0], "error", err)
		return
	}

	ctxlog.Info(ctx, "tracking entry", "entry", args[0])
}

func (s *Shell) internalUntrack(ctx context.Context, args []string) {
	if len(args) == 0 || args[0] == "" {
		ctxlog.Error(ctx, "untrack requires a path argument [m untrack <path>]")
		return
	}

	if err := s.book.Untrack(ctx, args[0]); err != nil {
		ctxlog.Error(ctx, "failed to untrack entry", "entry", args[0], "error", err)
		return
	}

	ctxlog.Info(ctx, "untracked entry", "entry", args[0])
}

func (s *Shell) internalList(ctx context.Context) {
	entries, err := s.book.Tracked(ctx)
	if err != nil {
		ctxlog.Error(ctx, "failed to read tracking file", "error", err)
		return
	}

	for _, entry := range entries {
		fmt.Fprintln(s.out, entry)
	}

	if err := s.out.Flush(); err != nil {
		ctxlog.Error(ctx, "failed to flush output", "error", err)
	}
}
