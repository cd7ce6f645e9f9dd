// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"moviecat/cli/internal/catalog"
	"moviecat/cli/internal/httperrors"
)

// errShown marks a failure already reported to the user.
var errShown = errors.New("command failed")

// failed presents err and returns errShown so Execute only sets the exit code.
func failed(a *app, action string, err error) error {
	httperrors.Present(err, action, a.host())
	return errShown
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List movie categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		cats, err := a.catalog.Categories(cmd.Context())
		if err != nil {
			return failed(a, "list categories", err)
		}
		rows := [][]string{{"ID", "Name", "Description"}}
		for _, c := range cats {
			rows = append(rows, []string{c.ID.String(), c.Name, c.Description})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

var moviesCategory int

var moviesCmd = &cobra.Command{
	Use:   "movies",
	Short: "List movies, optionally of one category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		movies, err := a.catalog.Movies(cmd.Context(), moviesCategory)
		if err != nil {
			return failed(a, "list movies", err)
		}
		return renderMovies(movies)
	},
}

var movieCmd = &cobra.Command{
	Use:   "movie <id>",
	Short: "Show one movie",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		m, err := a.catalog.Movie(cmd.Context(), id)
		if err != nil {
			return failed(a, "show movie", err)
		}
		pterm.DefaultSection.Println(m.Title)
		rows := [][]string{
			{"ID", m.ID.String()},
			{"Type", m.MovieType},
			{"Director", m.Director},
			{"Released", orDash(m.ReleaseDate)},
			{"Rating", fmt.Sprintf("%.1f", m.Rating)},
			{"Poster", orDash(m.PosterURL)},
		}
		if err := pterm.DefaultTable.WithData(rows).Render(); err != nil {
			return err
		}
		if m.Description != "" {
			fmt.Println()
			fmt.Println(m.Description)
		}
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search movies by title",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		res, err := a.catalog.Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return failed(a, "search", err)
		}
		fmt.Printf("🔎 %d match(es)\n", res.Total)
		return renderMovies(res.Movies)
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd, moviesCmd, movieCmd, searchCmd)
	moviesCmd.Flags().IntVarP(&moviesCategory, "category", "c", 0, "only movies of this category id")
}

func renderMovies(movies []catalog.Movie) error {
	if len(movies) == 0 {
		fmt.Println("No movies found.")
		return nil
	}
	rows := [][]string{{"ID", "Title", "Type", "Released", "Rating"}}
	for _, m := range movies {
		rows = append(rows, []string{m.ID.String(), m.Title, m.MovieType, orDash(m.ReleaseDate), fmt.Sprintf("%.1f", m.Rating)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
