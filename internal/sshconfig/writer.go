// Copyright (c) 2026 Keyfleet Team
// Keyfleet - multi-account SSH identity provisioner
// This source code is licensed under the MIT license found in the LICENSE file.

package sshconfig

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileMode keeps the client configuration owner-only.
const FileMode os.FileMode = 0o600

// Path returns the client configuration path under the key directory.
func Path(dir string) string {
	return filepath.Join(dir, "config")
}

// Write replaces the client configuration file in full. Pre-existing content
// is not merged; the file is treated as owned by the provisioner.
func Write(path, content string) error {
	if err := os.WriteFile(path, []byte(content), FileMode); err != nil {
		return fmt.Errorf("could not write SSH config %s: %w", path, err)
	}
	// WriteFile only applies the mode on creation; force it for re-runs.
	if err := os.Chmod(path, FileMode); err != nil {
		return fmt.Errorf("could not set permissions on %s: %w", path, err)
	}
	return nil
}
