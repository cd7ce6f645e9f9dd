// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// whoamiCmd prints the account of the restored session.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current authenticated account",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, ok := requireSession(cmd.Context(), appFrom(cmd))
		if !ok {
			return nil
		}
		fmt.Printf("👤 Current user: %s\n", describeUser(st))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
