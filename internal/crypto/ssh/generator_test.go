// Copyright (c) 2026 Keyfleet Team
// Keyfleet - multi-account SSH identity provisioner
// This source code is licensed under the MIT license found in the LICENSE file.

package ssh

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"

	xssh "golang.org/x/crypto/ssh"
)

func TestGenerateAndMarshalRSAKey(t *testing.T) {
	pub, priv, err := GenerateAndMarshalRSAKey(2048, "dev@example.com")
	if err != nil {
		t.Fatalf("GenerateAndMarshalRSAKey failed: %v", err)
	}
	if pub == "" || priv == "" {
		t.Fatal("expected non-empty key strings")
	}
	if !strings.HasPrefix(pub, "ssh-rsa ") {
		t.Errorf("public key line should start with ssh-rsa, got %q", pub[:20])
	}

	pk, comment, _, _, err := xssh.ParseAuthorizedKey([]byte(pub))
	if err != nil {
		t.Fatalf("ParseAuthorizedKey failed: %v", err)
	}
	if comment != "dev@example.com" {
		t.Errorf("unexpected comment: got %q want %q", comment, "dev@example.com")
	}
	if pk.Type() != xssh.KeyAlgoRSA {
		t.Errorf("unexpected key type %q", pk.Type())
	}
}

func TestGenerateAndMarshalRSAKey_PrivateKeyIsPKCS8(t *testing.T) {
	_, priv, err := GenerateAndMarshalRSAKey(2048, "")
	if err != nil {
		t.Fatalf("GenerateAndMarshalRSAKey failed: %v", err)
	}

	block, rest := pem.Decode([]byte(priv))
	if block == nil {
		t.Fatal("private key is not valid PEM")
	}
	if len(rest) != 0 {
		t.Fatalf("unexpected trailing data after PEM block: %d bytes", len(rest))
	}
	if block.Type != "PRIVATE KEY" {
		t.Errorf("PEM type = %q, want PKCS#8 %q", block.Type, "PRIVATE KEY")
	}
	if _, err := x509.ParsePKCS8PrivateKey(block.Bytes); err != nil {
		t.Fatalf("ParsePKCS8PrivateKey failed: %v", err)
	}
}

// The generated pair must actually match: a signature made with the private
// key verifies against the published public key.
func TestGenerateAndMarshalRSAKey_PairMatches(t *testing.T) {
	pub, priv, err := GenerateAndMarshalRSAKey(2048, "")
	if err != nil {
		t.Fatalf("GenerateAndMarshalRSAKey failed: %v", err)
	}

	block, _ := pem.Decode([]byte(priv))
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		t.Fatalf("ParsePKCS8PrivateKey failed: %v", err)
	}
	rsaKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		t.Fatalf("parsed key is %T, want *rsa.PrivateKey", parsed)
	}
	if rsaKey.E != 65537 {
		t.Errorf("public exponent = %d, want 65537", rsaKey.E)
	}

	digest := sha256.Sum256([]byte("keyfleet pair check"))
	sig, err := rsa.SignPKCS1v15(rand.Reader, rsaKey, crypto.SHA256, digest[:])
	if err != nil {
		t.Fatalf("SignPKCS1v15 failed: %v", err)
	}

	pk, _, _, _, err := xssh.ParseAuthorizedKey([]byte(pub))
	if err != nil {
		t.Fatalf("ParseAuthorizedKey failed: %v", err)
	}
	cryptoPub, ok := pk.(xssh.CryptoPublicKey)
	if !ok {
		t.Fatalf("public key %T does not expose a crypto key", pk)
	}
	rsaPub, ok := cryptoPub.CryptoPublicKey().(*rsa.PublicKey)
	if !ok {
		t.Fatalf("crypto public key is %T, want *rsa.PublicKey", cryptoPub.CryptoPublicKey())
	}
	if err := rsa.VerifyPKCS1v15(rsaPub, crypto.SHA256, digest[:], sig); err != nil {
		t.Fatalf("signature does not verify against generated public key: %v", err)
	}
}

func TestFingerprint(t *testing.T) {
	pub, _, err := GenerateAndMarshalRSAKey(2048, "fp-test")
	if err != nil {
		t.Fatalf("GenerateAndMarshalRSAKey failed: %v", err)
	}
	fp, err := Fingerprint(pub)
	if err != nil {
		t.Fatalf("Fingerprint failed: %v", err)
	}
	if !strings.HasPrefix(fp, "SHA256:") {
		t.Errorf("fingerprint = %q, want SHA256: prefix", fp)
	}

	if _, err := Fingerprint("not a key"); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestDefaultKeyBits(t *testing.T) {
	if DefaultKeyBits != 4096 {
		t.Fatalf("DefaultKeyBits = %d, want 4096", DefaultKeyBits)
	}
}
