// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"moviecat/cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Show or change saved settings",
	Annotations: map[string]string{annOffline: "true"},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path := flags.configPath
		if path == "" {
			if path, err = config.DefaultPath(); err != nil {
				return err
			}
		}
		rows := [][]string{
			{"File", path},
			{"API", cfg.API.BaseURL},
			{"Timeout", cfg.API.Timeout.String()},
			{"Store", cfg.Store},
			{"Log level", cfg.Log.Level},
		}
		return pterm.DefaultTable.WithData(rows).Render()
	},
}

var configSetURLCmd = &cobra.Command{
	Use:   "set-url <base-url>",
	Short: "Save the catalog API base URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateConfig(func(cfg *config.Config) { cfg.API.BaseURL = args[0] })
	},
}

var configSetStoreCmd = &cobra.Command{
	Use:   "set-store <location>",
	Short: "Save the credential store location (keyring, memory, sqlite[:path], postgres://...)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateConfig(func(cfg *config.Config) { cfg.Store = args[0] })
	},
}

// updateConfig applies change to the saved configuration. Flags overriding
// the file are not written back.
func updateConfig(change func(*config.Config)) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	change(cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Save(flags.configPath, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	pterm.Success.Println("Configuration saved")
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetURLCmd, configSetStoreCmd)
}
