// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/mbash/cmd/version"
	"github.com/matt-FFFFFF/mbash/internal/config"
	"github.com/matt-FFFFFF/mbash/internal/ctxlog"
	"github.com/matt-FFFFFF/mbash/internal/shell"
	"github.com/matt-FFFFFF/mbash/internal/tracking"
	"github.com/urfave/cli/v3"
)

const (
	trackingFileFlag = "tracking-file"
	ignoreFileFlag   = "ignore-file"
	logLevelFlag     = "log-level"
)

// RootCmd is the root command for the CLI. Invoked without a subcommand it
// starts the interactive interpreter.
var RootCmd = &cli.Command{
	Commands: []*cli.Command{
		version.VersionCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "mbash",
	Description: `mbash is a minimal interactive command shell. It reads a line of input,
interprets it as a built-in directive (cd, exit), an internal command behind
the reserved "m" prefix (init, track, untrack, list), or an external program,
executes it, and loops until an exit directive is received.`,
	Usage:     "mbash",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  trackingFileFlag,
			Usage: "Path of the tracking bookkeeping file",
		},
		&cli.StringFlag{
			Name:  ignoreFileFlag,
			Usage: "Path of the ignore bookkeeping file",
		},
		&cli.StringFlag{
			Name:  logLevelFlag,
			Usage: "Log level (DEBUG, INFO, WARN, ERROR)",
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		// A broken configuration file is recoverable: run on defaults.
		ctxlog.Warn(ctx, "ignoring configuration file", "error", err)
	}

	if v := cmd.String(trackingFileFlag); v != "" {
		cfg.TrackingFile = v
	}

	if v := cmd.String(ignoreFileFlag); v != "" {
		cfg.IgnoreFile = v
	}

	if v := cmd.String(logLevelFlag); v != "" {
		cfg.LogLevel = v
	}

	if cfg.LogLevel != "" {
		ctxlog.LevelVar.Set(ctxlog.ParseLevel(cfg.LogLevel))
	}

	book := tracking.New(cfg.TrackingFile, cfg.IgnoreFile)

	sh, err := shell.New(ctx, book, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		return cli.Exit(fmt.Sprintf("mbash setup failed: %s", err.Error()), 1)
	}

	sh.Run(ctx)

	return nil
}
