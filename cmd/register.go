// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"moviecat/cli/internal/auth"
	"moviecat/cli/internal/terminal"
)

var registerFlags struct {
	username      string
	email         string
	remember      bool
	passwordStdin bool
}

var registerCmd = &cobra.Command{
	Use:         "register",
	Short:       "Create a catalog account and log in",
	Annotations: map[string]string{annNoReconcile: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		email := registerFlags.email
		if email == "" && !registerFlags.passwordStdin {
			var err error
			if email, err = terminal.New().Line("Email", ""); err != nil {
				return err
			}
		}
		if email == "" {
			return errors.New("an email address is required")
		}
		username, password, err := readCredentials(registerFlags.username, registerFlags.passwordStdin)
		if err != nil {
			return err
		}

		stop := startSpinner("Creating account")
		res := a.auth.Register(cmd.Context(), username, password, email, registerFlags.remember)
		stop()

		if !res.Success {
			pterm.Error.Println(res.Message)
			return errors.New("registration failed")
		}
		pterm.Success.Println(res.Message)
		fmt.Println(getRandomLoginGreeting(describeUser(a.auth.Session().Snapshot())))
		fmt.Printf("   Session saved for %s.\n", lifetime(auth.ExpiryFor(registerFlags.remember)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVarP(&registerFlags.username, "username", "u", "", "account username (prompted when empty)")
	registerCmd.Flags().StringVarP(&registerFlags.email, "email", "e", "", "email address (prompted when empty)")
	registerCmd.Flags().BoolVarP(&registerFlags.remember, "remember", "r", false, "remember this session for 7 days")
	registerCmd.Flags().BoolVar(&registerFlags.passwordStdin, "password-stdin", false, "read the password from stdin")
}
