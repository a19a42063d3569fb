// Copyright 2025 The Caladero Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/jcodagnone/caladero/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
