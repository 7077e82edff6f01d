// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package shell

import "strings"

// Tokenize splits a command line into whitespace-delimited tokens. Leading
// and trailing whitespace is ignored and no token is empty. There is no
// quoting or escaping support.
func Tokenize(line string) []string {
	return strings.Fields(line)
}
