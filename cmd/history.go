// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"moviecat/cli/internal/terminal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show and edit your watch history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		if _, ok := requireSession(cmd.Context(), a); !ok {
			return nil
		}
		items, err := a.catalog.History(cmd.Context())
		if err != nil {
			return failed(a, "load history", err)
		}
		if len(items) == 0 {
			fmt.Println("Your watch history is empty.")
			return nil
		}
		rows := [][]string{{"ID", "Movie", "Title", "Watched", "Progress"}}
		for _, it := range items {
			rows = append(rows, []string{it.ID.String(), it.MovieID.String(), it.Title, it.WatchTime, strconv.Itoa(it.Progress) + "%"})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

var historyProgress int

var historyAddCmd = &cobra.Command{
	Use:   "add <movie-id>",
	Short: "Record a watched movie",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		movieID, err := parseID(args[0])
		if err != nil {
			return err
		}
		if _, ok := requireSession(cmd.Context(), a); !ok {
			return nil
		}
		it, err := a.catalog.AddHistory(cmd.Context(), movieID, historyProgress)
		if err != nil {
			return failed(a, "add to history", err)
		}
		fmt.Printf("✅ Recorded %s at %d%%\n", orDash(it.Title), it.Progress)
		return nil
	},
}

var historyRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Delete one history entry",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if _, ok := requireSession(cmd.Context(), a); !ok {
			return nil
		}
		if err := a.catalog.RemoveHistory(cmd.Context(), id); err != nil {
			return failed(a, "remove history entry", err)
		}
		fmt.Println("✅ Entry removed")
		return nil
	},
}

var historyClearYes bool

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete your whole watch history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		if _, ok := requireSession(cmd.Context(), a); !ok {
			return nil
		}
		if !historyClearYes {
			ok, err := terminal.New().Confirm("Delete your whole watch history?")
			if err != nil {
				return fmt.Errorf("%w (use --yes to skip the prompt)", err)
			}
			if !ok {
				fmt.Println("Nothing deleted.")
				return nil
			}
		}
		if err := a.catalog.ClearHistory(cmd.Context()); err != nil {
			return failed(a, "clear history", err)
		}
		fmt.Println("✅ History cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyAddCmd, historyRemoveCmd, historyClearCmd)
	historyAddCmd.Flags().IntVarP(&historyProgress, "progress", "p", 0, "watched percentage, 0 to 100")
	historyClearCmd.Flags().BoolVarP(&historyClearYes, "yes", "y", false, "do not ask for confirmation")
}
