// Copyright (c) 2026 Keyfleet Team
// Keyfleet - multi-account SSH identity provisioner
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for Keyfleet using the Cobra
// library. It defines the root command, the render subcommand, flags, and
// the Execute entry point.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/keyfleet/keyfleet/internal/config"
	"github.com/keyfleet/keyfleet/internal/i18n"
	"github.com/keyfleet/keyfleet/internal/logging"
	"github.com/keyfleet/keyfleet/internal/provision"
)

var version = "dev" // set by the linker

var (
	cfgFile   string
	verbose   bool
	copyToCB  bool
	appConfig config.Config
)

var defaults = map[string]any{
	"language":     "en",
	"accounts":     "config.yaml",
	"key_dir":      "",
	"service.host": "service.com",
	"service.user": "git",
}

// NewRootCmd creates and configures a new root cobra command. Tests use it
// to get fresh instances without shared flag state.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyfleet",
		Short: "Keyfleet provisions SSH identities for multiple accounts on one hosting service.",
		Long: `Keyfleet reads a declarative account list, generates one SSH key pair per
account, stores the keys with the permissions SSH expects, and rewrites the
client configuration so each account resolves to its own host alias.

Running without a subcommand performs a full provisioning run.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newProvisioner(cmd)
			if err != nil {
				return err
			}
			return p.Run()
		},
	}

	cmd.AddCommand(newRenderCmd())
	cmd.Version = version

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (default is keyfleet.yaml in the user config dir or cwd)")
	cmd.PersistentFlags().String("accounts", "config.yaml", "path to the declarative account list")
	cmd.PersistentFlags().String("ssh-dir", "", "key-storage directory (default ~/.ssh)")
	cmd.PersistentFlags().String("host", "service.com", "real hostname of the hosting service")
	cmd.PersistentFlags().String("user", "git", "remote user for the hosting service")
	cmd.PersistentFlags().String("lang", "en", `output language ("en", "de")`)
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().BoolVar(&copyToCB, "copy", false, "copy each generated public key to the clipboard")

	return cmd
}

// setup loads the settings and initializes logging and localization. It runs
// before every command.
func setup(cmd *cobra.Command, args []string) error {
	logging.SetDebug(verbose)

	var err error
	appConfig, err = config.Load(cmd, defaults, cfgFile)
	if err != nil {
		if errors.As(err, &viper.ConfigFileNotFoundError{}) {
			logging.Debugf("no settings file found, running on defaults")
		} else {
			return fmt.Errorf("error loading settings: %w", err)
		}
	}

	i18n.Init(appConfig.Language)
	return nil
}

// newProvisioner maps the loaded settings onto provisioning options.
func newProvisioner(cmd *cobra.Command) (*provision.Provisioner, error) {
	return provision.New(provision.Options{
		KeyDir:       appConfig.KeyDir,
		ManifestPath: appConfig.Accounts,
		Host:         appConfig.Service.Host,
		User:         appConfig.Service.User,
		Clipboard:    copyToCB,
		Out:          cmd.OutOrStdout(),
	})
}

// newRenderCmd builds the dry-run command: it prints the configuration a
// provisioning run would write, without generating keys or touching files.
func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Print the SSH config that a provisioning run would write",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newProvisioner(cmd)
			if err != nil {
				return err
			}
			content, err := p.RenderPreview()
			if err != nil {
				return err
			}
			if content == "" {
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("render.no_accounts"))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}
}

// Execute runs the CLI entrypoint. The root main package calls this and maps
// the returned error to an exit code.
func Execute() error {
	return NewRootCmd().Execute()
}
