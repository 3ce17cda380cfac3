// Copyright (c) 2026 Keyfleet Team
// Keyfleet - multi-account SSH identity provisioner
// This source code is licensed under the MIT license found in the LICENSE file.

// package provision orchestrates a run: ensure the key directory, generate
// and persist one key pair per account, then rewrite the client config.
package provision

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	sshcrypto "github.com/keyfleet/keyfleet/internal/crypto/ssh"
	"github.com/keyfleet/keyfleet/internal/i18n"
	"github.com/keyfleet/keyfleet/internal/keystore"
	"github.com/keyfleet/keyfleet/internal/logging"
	"github.com/keyfleet/keyfleet/internal/manifest"
	"github.com/keyfleet/keyfleet/internal/model"
	"github.com/keyfleet/keyfleet/internal/sshconfig"
)

// Options carries the explicit run configuration. Zero values fall back to
// the conventional defaults (resolved in New, not at use sites).
type Options struct {
	KeyDir       string // key-storage directory, default ~/.ssh
	ManifestPath string // declarative account list, default config.yaml
	Host         string // real service hostname, default service.com
	User         string // remote user identity, default git
	KeyBits      int    // RSA modulus size, default 4096
	Clipboard    bool   // copy each generated public key to the clipboard
	Out          io.Writer
}

// Provisioner executes provisioning runs. It holds no state between runs;
// every run re-reads the manifest and regenerates key material.
type Provisioner struct {
	opts Options

	// identityDir is what the config file prints as IdentityFile prefix.
	// The conventional directory is shown as ~/.ssh for portability.
	identityDir string
}

// New resolves defaults and returns a ready Provisioner.
func New(opts Options) (*Provisioner, error) {
	if opts.KeyDir == "" {
		dir, err := keystore.DefaultDir()
		if err != nil {
			return nil, err
		}
		opts.KeyDir = dir
	}
	if opts.ManifestPath == "" {
		opts.ManifestPath = "config.yaml"
	}
	if opts.Host == "" {
		opts.Host = "service.com"
	}
	if opts.User == "" {
		opts.User = "git"
	}
	if opts.KeyBits == 0 {
		opts.KeyBits = sshcrypto.DefaultKeyBits
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	p := &Provisioner{opts: opts, identityDir: opts.KeyDir}
	if dir, err := keystore.DefaultDir(); err == nil && dir == opts.KeyDir {
		p.identityDir = "~/.ssh"
	}
	return p, nil
}

// Run processes every account in the manifest: key generation per valid
// account, then one final full rewrite of the client config. Manifest errors
// are returned as-is so the boundary can map them to exit codes; accounts
// missing required fields are skipped with a log line.
func (p *Provisioner) Run() error {
	if err := keystore.Ensure(p.opts.KeyDir); err != nil {
		return err
	}

	accounts, err := manifest.Load(p.opts.ManifestPath)
	if err != nil {
		return err
	}

	valid := validAccounts(accounts)

	for _, acc := range valid {
		if err := p.provisionAccount(acc); err != nil {
			return err
		}
	}

	cfgPath := sshconfig.Path(p.opts.KeyDir)
	if info, err := os.Stat(cfgPath); err == nil && info.Size() > 0 {
		logging.Warnf("%s", i18n.T("provision.overwrite_warning", cfgPath))
	}
	content := sshconfig.Build(valid, p.opts.Host, p.opts.User, p.identityDir)
	if err := sshconfig.Write(cfgPath, content); err != nil {
		return err
	}

	fmt.Fprintf(p.opts.Out, "\n%s\n", i18n.T("provision.config_updated"))
	fmt.Fprintf(p.opts.Out, "\n%s\n", i18n.T("provision.clone_hint"))
	for _, acc := range valid {
		fmt.Fprintln(p.opts.Out, sshconfig.CloneURL(p.opts.Host, acc.Name))
	}
	return nil
}

// RenderPreview returns the config content a run would write, without
// touching the filesystem beyond reading the manifest.
func (p *Provisioner) RenderPreview() (string, error) {
	accounts, err := manifest.Load(p.opts.ManifestPath)
	if err != nil {
		return "", err
	}
	valid := validAccounts(accounts)
	return sshconfig.Build(valid, p.opts.Host, p.opts.User, p.identityDir), nil
}

// validAccounts applies the skip rule: records missing required fields are
// logged and dropped, the rest are processed in declaration order.
func validAccounts(accounts []model.Account) []model.Account {
	var valid []model.Account
	for _, acc := range accounts {
		if err := acc.Validate(); err != nil {
			logging.Warnf("%s", i18n.T("provision.skipped_account", err))
			continue
		}
		valid = append(valid, acc)
	}
	return valid
}

func (p *Provisioner) provisionAccount(acc model.Account) error {
	fmt.Fprintf(p.opts.Out, "\n%s\n", i18n.T("provision.processing_account", acc.Name))

	pub, priv, err := sshcrypto.GenerateAndMarshalRSAKey(p.opts.KeyBits, acc.Email)
	if err != nil {
		return fmt.Errorf("key generation for %s failed: %w", acc.Name, err)
	}

	if existing := keystore.PrivateKeyPath(p.opts.KeyDir, acc.Name); fileExists(existing) {
		logging.Debugf("replacing existing key material at %s", existing)
	}
	if _, _, err := keystore.WriteKeyPair(p.opts.KeyDir, acc.Name, []byte(priv), []byte(pub)); err != nil {
		return err
	}

	fp := ""
	if f, err := sshcrypto.Fingerprint(pub); err == nil {
		fp = f
	}
	fmt.Fprintln(p.opts.Out, i18n.T("provision.generated_pair", acc.Name, fp))
	fmt.Fprintf(p.opts.Out, "\n%s\n", i18n.T("provision.upload_hint"))
	fmt.Fprint(p.opts.Out, pub)

	if p.opts.Clipboard {
		if err := clipboard.WriteAll(pub); err != nil {
			logging.Warnf("could not copy public key to clipboard: %v", err)
		} else {
			fmt.Fprintln(p.opts.Out, i18n.T("provision.copied_clipboard", acc.Name))
		}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
