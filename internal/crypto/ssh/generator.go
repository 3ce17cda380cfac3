// Copyright (c) 2026 Keyfleet Team
// Keyfleet - multi-account SSH identity provisioner
// This source code is licensed under the MIT license found in the LICENSE file.

// package ssh provides cryptographic helpers for SSH key operations.
// This file contains logic for generating new SSH key pairs.
package ssh

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

// DefaultKeyBits is the modulus size used for provisioned keys. Go's
// rsa.GenerateKey always uses a public exponent of 65537.
const DefaultKeyBits = 4096

// GenerateAndMarshalRSAKey creates a new RSA key pair and returns it as
// formatted strings: the public key in authorized_keys format with the given
// comment appended, and the private key as an unencrypted PKCS#8 PEM block.
// The comment lands only on the public key line, never in key material.
func GenerateAndMarshalRSAKey(bits int, comment string) (publicKeyString string, privateKeyString string, err error) {
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate rsa key pair: %w", err)
	}

	sshPubKey, err := ssh.NewPublicKey(&key.PublicKey)
	if err != nil {
		return "", "", fmt.Errorf("failed to create SSH public key: %w", err)
	}
	pubKeyBytes := ssh.MarshalAuthorizedKey(sshPubKey)
	publicKeyString = strings.TrimSpace(string(pubKeyBytes))
	if comment != "" {
		publicKeyString = fmt.Sprintf("%s %s", publicKeyString, comment)
	}
	publicKeyString += "\n"

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal private key: %w", err)
	}
	pemBlock := &pem.Block{Type: "PRIVATE KEY", Bytes: der}
	privateKeyString = string(pem.EncodeToMemory(pemBlock))

	return publicKeyString, privateKeyString, nil
}
