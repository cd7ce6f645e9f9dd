// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for moviecat, a client for
// the movie catalog API. Every command except version and config starts by
// restoring the session from the credential store, the way the web app
// restores it on page load.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"moviecat/cli/internal/logging"
)

// Annotations that tune what PersistentPreRunE sets up for a command.
const (
	// annOffline: the command needs neither the API nor the credential store.
	annOffline = "moviecat/offline"
	// annNoReconcile: the command replaces the session itself, so the stored
	// one is not verified first.
	annNoReconcile = "moviecat/no-reconcile"
)

var flags struct {
	configPath string
	apiURL     string
	store      string
	verbose    bool
	logJSON    bool
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "moviecat",
	Short: "Browse the movie catalog from your terminal",
	Long: `moviecat talks to the movie catalog API: browse categories and movies, search,
and keep a watch history once logged in.

Your session is kept in a credential store (the OS keyring by default) and is
restored on every run. With --remember the session lasts 7 days and is trusted
offline; without it the session lasts 1 day and is re-checked with the server
each time.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the CLI application.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	teardown()
	if err != nil {
		if !errors.Is(err, errShown) {
			fmt.Fprintln(os.Stderr, logging.PresentError("Error", err))
		}
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/moviecat/config.yaml)")
	pf.StringVar(&flags.apiURL, "api-url", "", "catalog API base URL (overrides config)")
	pf.StringVar(&flags.store, "store", "", "credential store: keyring, memory, sqlite[:path] or postgres://... (overrides config)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging on stderr")
	pf.BoolVar(&flags.logJSON, "log-json", false, "log as JSON")
}

func hasAnnotation(cmd *cobra.Command, key string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[key] == "true" {
			return true
		}
	}
	return false
}
