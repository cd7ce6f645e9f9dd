// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// logoutCmd clears the stored session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved session",
	Long: `The logout command removes the session from the credential store and forgets
it for this run. It works offline and is safe to run when not logged in.

This command removes:
- The session token
- The cached user id and username
- The remember-me choice`,
	Annotations: map[string]string{annNoReconcile: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		res := appFrom(cmd).auth.Logout(cmd.Context())
		if !res.Success {
			pterm.Error.Println(res.Message)
			return errors.New("logout incomplete")
		}
		fmt.Println("✅ Session removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
