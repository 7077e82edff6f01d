// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shell

import (
	"context"

	"github.com/matt-FFFFFF/mbash/internal/ctxlog"
)

// InternalPrefix is the reserved token that routes a command line into the
// internal command namespace. It consumes exactly one leading token: the
// next token is the command name and the rest are its arguments.
const InternalPrefix = "m"

// TargetKind enumerates the classifier's dispatch variants.
type TargetKind int

const (
	// TargetNone means there is nothing to dispatch (e.g. a bare internal
	// prefix with no command name).
	TargetNone TargetKind = iota
	// TargetBuiltin is a directive handled inside the interpreter process.
	TargetBuiltin
	// TargetInternal is a command in the reserved internal namespace.
	TargetInternal
	// TargetExternal is a program to be launched as a child process.
	TargetExternal
)

// Target is the classifier's result for one command line.
type Target struct {
	Kind TargetKind
	Name string
	Args []string
}

// Classify determines the dispatch target for a token sequence. Built-in
// names shadow external programs of the same name unconditionally: an
// external program literally named "cd" or "exit" cannot be invoked through
// the bare name path.
func Classify(tokens []string) Target {
	if len(tokens) == 0 {
		return Target{Kind: TargetNone}
	}

	if tokens[0] == InternalPrefix {
		if len(tokens) == 1 {
			return Target{Kind: TargetNone}
		}

		return Target{Kind: TargetInternal, Name: tokens[1], Args: tokens[2:]}
	}

	name, args := tokens[0], tokens[1:]

	switch name {
	case "cd", "exit":
		return Target{Kind: TargetBuiltin, Name: name, Args: args}
	default:
		return Target{Kind: TargetExternal, Name: name, Args: args}
	}
}

// dispatch executes a classified target. Every path is a dead end: it either
// mutates session state or logs and returns. No error unwinds to the loop.
func (s *Shell) dispatch(ctx context.Context, t Target) {
	switch t.Kind {
	case TargetNone:
		ctxlog.Debug(ctx, "nothing to dispatch")
	case TargetBuiltin:
		s.runBuiltin(ctx, t.Name, t.Args)
	case TargetInternal:
		s.runInternal(ctx, t.Name, t.Args)
	case TargetExternal:
		s.runExternal(ctx, t.Name, t.Args)
	}
}
