// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads the optional .mbash.yaml configuration file. The file
// is looked up first in the current working directory, then in the user's
// home directory; a missing file yields the zero Config and no error.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/mbash/internal/ctxlog"
)

// FileName is the name of the configuration file.
const FileName = ".mbash.yaml"

// ErrParseConfig is returned when the configuration file cannot be parsed.
var ErrParseConfig = errors.New("failed to parse configuration file")

// Config holds the user-adjustable settings. Empty fields mean "use the
// default".
type Config struct {
	// TrackingFile overrides the path of the tracking bookkeeping file.
	TrackingFile string `yaml:"tracking_file"`
	// IgnoreFile overrides the path of the ignore bookkeeping file.
	IgnoreFile string `yaml:"ignore_file"`
	// LogLevel overrides the log level from the environment
	// (DEBUG, INFO, WARN or ERROR).
	LogLevel string `yaml:"log_level"`
}

// Load reads the configuration file from the working directory or the home
// directory. A parse failure is an error; an absent file is not.
func Load(ctx context.Context) (Config, error) {
	var cfg Config

	path, ok := findFile()
	if !ok {
		ctxlog.Debug(ctx, "no configuration file found", "name", FileName)
		return cfg, nil
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: %s: %w", ErrParseConfig, path, err)
	}

	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		// Discard any fields unmarshaled before the failure: callers that
		// ignore the error must see the same defaults as a missing file.
		return Config{}, fmt.Errorf("%w: %s: %w", ErrParseConfig, path, err)
	}

	ctxlog.Debug(ctx, "loaded configuration file", "path", path)

	return cfg, nil
}

func findFile() (string, bool) {
	if _, err := os.Stat(FileName); err == nil {
		return FileName, true
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}

	path := filepath.Join(home, FileName)
	if _, err := os.Stat(path); err == nil {
		return path, true
	}

	return "", false
}
