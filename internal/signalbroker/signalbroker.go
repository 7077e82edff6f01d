// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package signalbroker provides a way to listen for OS signals and handle
// them gracefully. By default it listens for syscall.SIGINT, syscall.SIGTERM,
// syscall.SIGQUIT and os.Interrupt.
package signalbroker

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matt-FFFFFF/mbash/internal/ctxlog"
)

var termSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGQUIT,
	os.Interrupt,
}

// New creates a new signal broker that listens for OS signals that should
// terminate the process.
func New(ctx context.Context, sigs ...os.Signal) chan os.Signal {
	ch := make(chan os.Signal, 1)

	if len(sigs) == 0 {
		sigs = termSignals
	}

	ctxlog.Debug(ctx, "signalbroker", "detail", "creating signal broker", "signals", sigs)
	signal.Notify(ch, sigs...)

	return ch
}

// Watch blocks until a signal arrives or the context is done. On the first
// signal it calls cancel, which the interpreter observes as a termination
// request at the top of its next iteration. A read blocked on stdin or a
// running child process is not interrupted.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	select {
	case <-ctx.Done():
	case s := <-sigCh:
		ctxlog.Info(ctx, "received signal, shutting down", "signal", s.String())
		cancel()
	}

	signal.Stop(sigCh)
}
