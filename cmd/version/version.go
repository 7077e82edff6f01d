// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package version contains the version subcommand.
package version

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/mbash"
	"github.com/urfave/cli/v3"
)

// VersionCmd prints the build version and commit.
var VersionCmd = &cli.Command{
	Name:        "version",
	Description: "Print the mbash version and exit.",
	Action: func(ctx context.Context, cmd *cli.Command) error {
		fmt.Printf("mbash %s (%s)\n", mbash.Version, mbash.Commit)
		return nil
	},
}
