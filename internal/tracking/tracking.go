// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tracking owns the shell's persistent bookkeeping files: a tracking
// file listing paths the user is tracking and an ignore file listing paths
// that must never be tracked. Both hold newline-separated entries. The
// interpreter core only ever calls this package; it never touches the file
// format directly.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/mbash/internal/ctxlog"
	"github.com/spf13/afero"
)

const (
	// DefaultTrackingFile is the tracking file created in the directory the
	// shell was started from.
	DefaultTrackingFile = ".mtracking"
	// DefaultIgnoreFile is the ignore file created in the directory the
	// shell was started from.
	DefaultIgnoreFile = ".mignoring"

	filePerm = 0o644
)

var (
	// ErrCreateFile is returned when a bookkeeping file cannot be created.
	ErrCreateFile = errors.New("failed to create bookkeeping file")
	// ErrReadFile is returned when a bookkeeping file cannot be read.
	ErrReadFile = errors.New("failed to read bookkeeping file")
	// ErrWriteFile is returned when a bookkeeping file cannot be written.
	ErrWriteFile = errors.New("failed to write bookkeeping file")
	// ErrIgnored is returned when an entry is present in the ignore file.
	ErrIgnored = errors.New("entry is ignored")
)

// FsFactory is a function that returns the afero filesystem the package
// operates on. Tests replace it with an in-memory filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Book is the bookkeeping collaborator for one shell session.
type Book struct {
	fs           afero.Fs
	trackingPath string
	ignorePath   string
}

// New creates a Book over the given file paths. Empty paths fall back to the
// defaults.
func New(trackingPath, ignorePath string) *Book {
	if trackingPath == "" {
		trackingPath = DefaultTrackingFile
	}

	if ignorePath == "" {
		ignorePath = DefaultIgnoreFile
	}

	return &Book{
		fs:           FsFactory(),
		trackingPath: trackingPath,
		ignorePath:   ignorePath,
	}
}

// TrackingPath returns the path of the tracking file.
func (b *Book) TrackingPath() string {
	return b.trackingPath
}

// IgnorePath returns the path of the ignore file.
func (b *Book) IgnorePath() string {
	return b.ignorePath
}

// Init ensures both bookkeeping files exist, creating empty ones if absent.
// It is idempotent. Failures for the two files are aggregated so one bad
// path does not mask the other.
func (b *Book) Init(ctx context.Context) error {
	var result *multierror.Error

	for _, path := range []string{b.trackingPath, b.ignorePath} {
		if err := b.EnsureExists(ctx, path); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// EnsureExists creates an empty file at path if it does not already exist.
func (b *Book) EnsureExists(ctx context.Context, path string) error {
	exists, err := afero.Exists(b.fs, path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCreateFile, path, err)
	}

	if exists {
		ctxlog.Debug(ctx, "bookkeeping file already exists", "path", path)
		return nil
	}

	f, err := b.fs.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCreateFile, path, err)
	}

	defer f.Close() //nolint:errcheck

	ctxlog.Debug(ctx, "created bookkeeping file", "path", path)

	return nil
}

// Tracked returns the entries of the tracking file.
func (b *Book) Tracked(ctx context.Context) ([]string, error) {
	return b.readLines(ctx, b.trackingPath)
}

// Ignored returns the entries of the ignore file.
func (b *Book) Ignored(ctx context.Context) ([]string, error) {
	return b.readLines(ctx, b.ignorePath)
}

// Track appends entry to the tracking file. Tracking an already-tracked
// entry is a no-op; tracking an ignored entry returns ErrIgnored.
func (b *Book) Track(ctx context.Context, entry string) error {
	ignored, err := b.Ignored(ctx)
	if err != nil {
		return err
	}

	if slices.Contains(ignored, entry) {
		return fmt.Errorf("%w: %s", ErrIgnored, entry)
	}

	tracked, err := b.Tracked(ctx)
	if err != nil {
		return err
	}

	if slices.Contains(tracked, entry) {
		ctxlog.Debug(ctx, "entry already tracked", "entry", entry)
		return nil
	}

	tracked = append(tracked, entry)

	return b.writeLines(ctx, b.trackingPath, tracked)
}

// Untrack removes entry from the tracking file. Removing an absent entry is
// a no-op.
func (b *Book) Untrack(ctx context.Context, entry string) error {
	tracked, err := b.Tracked(ctx)
	if err != nil {
		return err
	}

	remaining := slices.DeleteFunc(tracked, func(s string) bool {
		return s == entry
	})

	if len(remaining) == len(tracked) {
		ctxlog.Debug(ctx, "entry not tracked", "entry", entry)
		return nil
	}

	return b.writeLines(ctx, b.trackingPath, remaining)
}

func (b *Book) readLines(ctx context.Context, path string) ([]string, error) {
	if err := b.EnsureExists(ctx, path); err != nil {
		return nil, err
	}

	contents, err := afero.ReadFile(b.fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFile, path, err)
	}

	var lines []string

	for _, line := range strings.Split(string(contents), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	return lines, nil
}

func (b *Book) writeLines(ctx context.Context, path string, lines []string) error {
	var sb strings.Builder

	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if err := afero.WriteFile(b.fs, path, []byte(sb.String()), filePerm); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFile, path, err)
	}

	ctxlog.Debug(ctx, "wrote bookkeeping file", "path", path, "entries", len(lines))

	return nil
}
