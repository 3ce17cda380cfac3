// Copyright (c) 2026 Keyfleet Team
// Keyfleet - multi-account SSH identity provisioner
// This source code is licensed under the MIT license found in the LICENSE file.

// package sshconfig renders and persists the SSH client configuration that
// maps one host alias per account onto the real service host.
package sshconfig

import (
	"fmt"
	"path"
	"strings"

	"github.com/keyfleet/keyfleet/internal/model"
)

// Alias returns the synthetic host alias for an account, e.g.
// "service.com-work". SSH resolves it to the real host via the stanza.
func Alias(host, name string) string {
	return fmt.Sprintf("%s-%s", host, name)
}

// CloneURL returns an example repository URL using the account's alias.
func CloneURL(host, name string) string {
	return fmt.Sprintf("git@%s:username/repository.git", Alias(host, name))
}

// Build constructs the full client configuration content for the given
// accounts. One stanza per account, each pinning the connection to that
// account's identity file. The function is pure and deterministic; callers
// decide what to do with the content.
func Build(accounts []model.Account, host, user, identityDir string) string {
	var sb strings.Builder
	for i, acc := range accounts {
		if i > 0 {
			sb.WriteString("\n")
		}
		identityFile := path.Join(identityDir, "id_rsa_"+acc.Name)
		fmt.Fprintf(&sb, "Host %s\n", Alias(host, acc.Name))
		fmt.Fprintf(&sb, "    HostName %s\n", host)
		fmt.Fprintf(&sb, "    User %s\n", user)
		fmt.Fprintf(&sb, "    IdentityFile %s\n", identityFile)
		sb.WriteString("    IdentitiesOnly yes\n")
	}
	return sb.String()
}
