// Copyright (c) 2026 Keyfleet Team
// Keyfleet - multi-account SSH identity provisioner
// This source code is licensed under the MIT license found in the LICENSE file.

// package keystore persists generated key material under the key-storage
// directory with the filesystem modes SSH clients require.
package keystore

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DirMode is enforced on the key-storage directory every run.
	DirMode os.FileMode = 0o700
	// PrivateKeyMode keeps private keys owner-only; sshd refuses looser modes.
	PrivateKeyMode os.FileMode = 0o600
	// PublicKeyMode leaves public keys world-readable.
	PublicKeyMode os.FileMode = 0o644
)

// DefaultDir returns the conventional key-storage directory, ~/.ssh.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".ssh"), nil
}

// Ensure creates the key-storage directory with owner-only permissions, or
// forces those permissions if it already exists.
func Ensure(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, DirMode); err != nil {
			return fmt.Errorf("could not create key directory %s: %w", dir, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("could not stat key directory %s: %w", dir, err)
	case !info.IsDir():
		return fmt.Errorf("key directory path %s exists but is not a directory", dir)
	}
	if err := os.Chmod(dir, DirMode); err != nil {
		return fmt.Errorf("could not enforce permissions on %s: %w", dir, err)
	}
	return nil
}

// PrivateKeyPath returns the deterministic private key path for an account.
func PrivateKeyPath(dir, name string) string {
	return filepath.Join(dir, "id_rsa_"+name)
}

// PublicKeyPath returns the deterministic public key path for an account.
func PublicKeyPath(dir, name string) string {
	return PrivateKeyPath(dir, name) + ".pub"
}

// WriteKeyPair stores a serialized key pair for the named account and returns
// the paths written. File names derive solely from the account name, so a
// duplicate name overwrites earlier output.
func WriteKeyPair(dir, name string, privatePEM, authorizedKey []byte) (privPath, pubPath string, err error) {
	privPath = PrivateKeyPath(dir, name)
	pubPath = PublicKeyPath(dir, name)

	if err := os.WriteFile(privPath, privatePEM, PrivateKeyMode); err != nil {
		return "", "", fmt.Errorf("could not write private key %s: %w", privPath, err)
	}
	// WriteFile only applies the mode on creation; force it for re-runs.
	if err := os.Chmod(privPath, PrivateKeyMode); err != nil {
		return "", "", fmt.Errorf("could not set permissions on %s: %w", privPath, err)
	}

	if err := os.WriteFile(pubPath, authorizedKey, PublicKeyMode); err != nil {
		return "", "", fmt.Errorf("could not write public key %s: %w", pubPath, err)
	}
	if err := os.Chmod(pubPath, PublicKeyMode); err != nil {
		return "", "", fmt.Errorf("could not set permissions on %s: %w", pubPath, err)
	}

	return privPath, pubPath, nil
}
