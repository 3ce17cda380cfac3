// Copyright (c) 2026 Keyfleet Team
// Keyfleet - multi-account SSH identity provisioner
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Keyfleet.
//
// Usage:
//
//	go run . [flags]
//	./keyfleet [flags]
//
// This launches the Keyfleet CLI. See --help for options.
package main

import (
	"os"

	"github.com/keyfleet/keyfleet/internal/logging"
	"github.com/keyfleet/keyfleet/ui/cli"
)

// main is the entrypoint for the Keyfleet CLI. All errors surface here and
// map to a non-zero exit code; missing or malformed account manifests exit 1.
func main() {
	if err := cli.Execute(); err != nil {
		logging.Errorf("%v", err)
		os.Exit(1)
	}
}
