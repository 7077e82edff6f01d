// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/matt-FFFFFF/mbash/internal/ctxlog"
	"github.com/matt-FFFFFF/mbash/internal/tracking"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureHandler records every log record so tests can assert on counts and
// messages.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)

	return nil
}

func (h *captureHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(_ string) slog.Handler      { return h }

func (h *captureHandler) countLevel(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0

	for _, r := range h.records {
		if r.Level == level {
			n++
		}
	}

	return n
}

func (h *captureHandler) messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	msgs := make([]string, 0, len(h.records))
	for _, r := range h.records {
		msgs = append(msgs, r.Message)
	}

	return msgs
}

// testShell builds a Shell over an in-memory bookkeeping filesystem, a
// scripted input, and a capturing logger.
func testShell(t *testing.T, script string) (*Shell, context.Context, *bytes.Buffer, *captureHandler) {
	t.Helper()

	fs := afero.NewMemMapFs()
	stubs := gostub.Stub(&tracking.FsFactory, func() afero.Fs { return fs })
	t.Cleanup(stubs.Reset)

	handler := &captureHandler{}
	ctx := ctxlog.New(context.Background(), slog.New(handler))

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	in := strings.NewReader(script)

	sh, err := New(ctx, tracking.New("", ""), in, out, errOut)
	require.NoError(t, err)

	return sh, ctx, out, handler
}

func TestRun_ExitTerminates(t *testing.T) {
	sh, ctx, out, _ := testShell(t, "exit\n")

	sh.Run(ctx)

	assert.True(t, sh.Session().Terminating())
	assert.Equal(t, 1, strings.Count(out.String(), "mbash@ "), "expected exactly one prompt")
}

func TestRun_EmptyInputReprompts(t *testing.T) {
	sh, ctx, out, _ := testShell(t, "\n   \nexit\n")

	sh.Run(ctx)

	assert.Equal(t, 3, strings.Count(out.String(), "mbash@ "), "each empty line re-prompts")
}

func TestRun_EndOfInputTerminates(t *testing.T) {
	sh, ctx, out, _ := testShell(t, "")

	sh.Run(ctx)

	assert.True(t, sh.Session().Terminating())
	assert.Equal(t, 1, strings.Count(out.String(), "mbash@ "))
}

func TestRun_LaunchFailureContinues(t *testing.T) {
	sh, ctx, out, handler := testShell(t, "nonexistent_binary_xyz\nexit\n")

	sh.Run(ctx)

	assert.Equal(t, 2, strings.Count(out.String(), "mbash@ "), "loop continues after launch failure")
	assert.Equal(t, 1, handler.countLevel(slog.LevelError))
	assert.Contains(t, handler.messages(), "failed to launch program")
}

func TestRun_CdUpdatesPrompt(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "sub"), 0o755))
	t.Chdir(base)

	sh, ctx, out, _ := testShell(t, "cd sub\nexit\n")

	sh.Run(ctx)

	assert.Equal(t, "sub", filepath.Base(sh.Session().Cwd()))
	assert.Contains(t, out.String(), "mbash@ "+sh.Session().Cwd()+": ", "prompt reflects the new directory")
}

func TestRun_InternalInitCreatesBookkeepingFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	stubs := gostub.Stub(&tracking.FsFactory, func() afero.Fs { return fs })
	t.Cleanup(stubs.Reset)

	handler := &captureHandler{}
	ctx := ctxlog.New(context.Background(), slog.New(handler))

	// Running init twice must be idempotent, and a bare prefix must not
	// panic.
	script := "m init\nm init\nm\nexit\n"
	sh, err := New(ctx, tracking.New("", ""), strings.NewReader(script), &bytes.Buffer{}, &bytes.Buffer{})
	require.NoError(t, err)

	sh.Run(ctx)

	for _, path := range []string{tracking.DefaultTrackingFile, tracking.DefaultIgnoreFile} {
		exists, err := afero.Exists(fs, path)
		require.NoError(t, err)
		assert.True(t, exists, "expected %s to exist", path)
	}

	assert.Zero(t, handler.countLevel(slog.LevelError))
}

func TestRun_TrackListUntrack(t *testing.T) {
	sh, ctx, out, handler := testShell(t, "m track foo.txt\nm track bar.txt\nm untrack foo.txt\nm list\nexit\n")

	sh.Run(ctx)

	assert.Zero(t, handler.countLevel(slog.LevelError))
	assert.NotContains(t, out.String(), "foo.txt")
	assert.Contains(t, out.String(), "bar.txt")
}

func TestRun_UnknownInternalCommandIsReported(t *testing.T) {
	sh, ctx, _, handler := testShell(t, "m bogus\nexit\n")

	sh.Run(ctx)

	assert.Equal(t, 1, handler.countLevel(slog.LevelError))
	assert.Contains(t, handler.messages(), "unknown internal command")
}

// failOnceReader fails the first read with a non-EOF error, then serves the
// wrapped reader.
type failOnceReader struct {
	failed bool
	r      io.Reader
}

func (f *failOnceReader) Read(p []byte) (int, error) {
	if !f.failed {
		f.failed = true
		return 0, errors.New("input unavailable")
	}

	return f.r.Read(p)
}

// failOnceWriter fails the first write, then serves the wrapped writer.
type failOnceWriter struct {
	failed bool
	w      io.Writer
}

func (f *failOnceWriter) Write(p []byte) (int, error) {
	if !f.failed {
		f.failed = true
		return 0, errors.New("stdout unavailable")
	}

	return f.w.Write(p)
}

func TestRun_ReadFailureReprompts(t *testing.T) {
	fs := afero.NewMemMapFs()
	stubs := gostub.Stub(&tracking.FsFactory, func() afero.Fs { return fs })
	t.Cleanup(stubs.Reset)

	handler := &captureHandler{}
	ctx := ctxlog.New(context.Background(), slog.New(handler))

	in := &failOnceReader{r: strings.NewReader("exit\n")}
	out := &bytes.Buffer{}

	sh, err := New(ctx, tracking.New("", ""), in, out, &bytes.Buffer{})
	require.NoError(t, err)

	sh.Run(ctx)

	assert.True(t, sh.Session().Terminating())
	assert.Equal(t, 2, strings.Count(out.String(), "mbash@ "), "loop restarts at the prompt after a read failure")
	assert.Equal(t, 1, handler.countLevel(slog.LevelError))
	assert.Contains(t, handler.messages(), "failed to read input")
}

func TestRun_FlushFailureReprompts(t *testing.T) {
	fs := afero.NewMemMapFs()
	stubs := gostub.Stub(&tracking.FsFactory, func() afero.Fs { return fs })
	t.Cleanup(stubs.Reset)

	handler := &captureHandler{}
	ctx := ctxlog.New(context.Background(), slog.New(handler))

	out := &bytes.Buffer{}
	w := &failOnceWriter{w: out}

	sh, err := New(ctx, tracking.New("", ""), strings.NewReader("exit\n"), w, &bytes.Buffer{})
	require.NoError(t, err)

	sh.Run(ctx)

	assert.True(t, sh.Session().Terminating())
	assert.Equal(t, 1, strings.Count(out.String(), "mbash@ "), "the retried prompt reaches the writer")
	assert.Equal(t, 1, handler.countLevel(slog.LevelError))
	assert.Contains(t, handler.messages(), "failed to write prompt")
}

func TestRun_ContextCancellationTerminates(t *testing.T) {
	sh, ctx, _, _ := testShell(t, "exit\n")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	sh.Run(cancelled)

	assert.True(t, sh.Session().Terminating())
}
