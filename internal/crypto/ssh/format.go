// Copyright (c) 2026 Keyfleet Team
// Keyfleet - multi-account SSH identity provisioner
// This source code is licensed under the MIT license found in the LICENSE file.

package ssh

import (
	"fmt"

	"golang.org/x/crypto/ssh"
)

// Re-exported from golang.org/x/crypto/ssh for convenience, centralizing the
// SSH-related utilities used throughout Keyfleet.

// NewPublicKey creates a new ssh.PublicKey from a crypto.PublicKey.
var NewPublicKey = ssh.NewPublicKey

// MarshalAuthorizedKey serializes a public key to the authorized_keys wire format.
var MarshalAuthorizedKey = ssh.MarshalAuthorizedKey

// FingerprintSHA256 returns the SHA256 fingerprint of the public key.
var FingerprintSHA256 = ssh.FingerprintSHA256

// Fingerprint parses an authorized_keys line and returns the SHA256
// fingerprint of the key it carries.
func Fingerprint(authorizedKey string) (string, error) {
	pk, _, _, _, err := ssh.ParseAuthorizedKey([]byte(authorizedKey))
	if err != nil {
		return "", fmt.Errorf("failed to parse public key: %w", err)
	}
	return ssh.FingerprintSHA256(pk), nil
}
