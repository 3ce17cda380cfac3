// Copyright (c) 2026 Keyfleet Team
// Keyfleet - multi-account SSH identity provisioner
// This source code is licensed under the MIT license found in the LICENSE file.

// package manifest loads the declarative account list that drives a
// provisioning run.
package manifest

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/keyfleet/keyfleet/internal/model"
)

// Sentinel errors let the CLI boundary map input problems to exit codes
// without string matching.
var (
	// ErrNotFound means the manifest file does not exist.
	ErrNotFound = errors.New("manifest file not found")
	// ErrMalformed means the manifest is not valid YAML.
	ErrMalformed = errors.New("manifest is not valid YAML")
	// ErrNoAccounts means the manifest lacks the required accounts section.
	ErrNoAccounts = errors.New("no 'accounts' section found in manifest")
)

// document mirrors the manifest layout. The pointer distinguishes a missing
// accounts section from an empty one.
type document struct {
	Accounts *[]model.Account `yaml:"accounts"`
}

// Load reads and parses the manifest at path. It returns every record in
// declaration order, including ones missing required fields; validation and
// the skip rule belong to the caller.
func Load(path string) ([]model.Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("could not read manifest %s: %w", path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Accounts == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoAccounts, path)
	}
	return *doc.Accounts, nil
}
