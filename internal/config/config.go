// Copyright (c) 2026 Keyfleet Team
// Keyfleet - multi-account SSH identity provisioner
// This source code is licensed under the MIT license found in the LICENSE file.

// package config loads the tool settings (not the account manifest) from
// flags, environment variables and an optional keyfleet.yaml file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds the tool settings. The account manifest stays a separate
// file; only its path lives here.
type Config struct {
	Language string        `mapstructure:"language" yaml:"language"`
	Accounts string        `mapstructure:"accounts" yaml:"accounts"`
	KeyDir   string        `mapstructure:"key_dir" yaml:"key_dir"`
	Service  ServiceConfig `mapstructure:"service" yaml:"service"`
}

// ServiceConfig identifies the hosting service all aliases resolve to.
type ServiceConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	User string `mapstructure:"user" yaml:"user"`
}

// getConfigPath returns the full path for the settings file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Keyfleet")
		default: // Linux, macOS, etc.
			configDir = "/etc/keyfleet"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "keyfleet")
	}

	return filepath.Join(configDir, "keyfleet.yaml"), nil
}

// Load assembles the settings with the usual precedence: flags > environment
// (KEYFLEET_*) > explicit --config file > discovered keyfleet.yaml > defaults.
func Load(cmd *cobra.Command, defaults map[string]any, explicitFile string) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("keyfleet")
	v.SetConfigType("yaml")

	// An explicit --config file has the highest file-based precedence.
	if explicitFile != "" {
		v.SetConfigFile(explicitFile)
	}

	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing settings file is fine; anything else is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("keyfleet")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Flag names differ from config keys, so bind them explicitly.
	bindings := map[string]string{
		"language":     "lang",
		"accounts":     "accounts",
		"key_dir":      "ssh-dir",
		"service.host": "host",
		"service.user": "user",
	}
	for key, flag := range bindings {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return c, err
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// WriteFile persists the settings to the user (or system) config path,
// creating the directory as needed.
func WriteFile(c *Config, system bool) error {
	path, err := getConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	return os.WriteFile(path, data, 0o600)
}
