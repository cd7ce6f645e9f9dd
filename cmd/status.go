// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"moviecat/cli/internal/auth"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how the session was restored and when it expires",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		ctx := cmd.Context()
		st := a.auth.Session().Snapshot()
		rec := a.auth.Stored(ctx)

		rows := [][]string{
			{"Store", a.store.String()},
			{"API", a.cfg.API.BaseURL},
			{"Session", st.Phase.String()},
			{"Restored", a.outcome.String()},
		}
		if st.IsLoggedIn() {
			rows = append(rows, []string{"User", describeUser(st)})
			rows = append(rows, []string{"Remember me", fmt.Sprintf("%t", rec.RememberMe)})
			if exp, ok := a.jar.ExpiresAt(ctx, auth.KeyToken); ok {
				rows = append(rows, []string{"Stored until", formatExpiry(exp)})
			}
			if exp, ok := tokenExpiry(st.Credential); ok {
				rows = append(rows, []string{"Token expires", formatExpiry(exp)})
			}
		}
		if err := pterm.DefaultTable.WithData(rows).Render(); err != nil {
			return err
		}

		if flags.verbose {
			return printMetrics(a)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// tokenExpiry reads the exp claim without verifying the signature; the
// server remains the authority on whether the token is valid.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func formatExpiry(t time.Time) string {
	if t.IsZero() {
		return "end of run"
	}
	d := time.Until(t).Round(time.Minute)
	if d <= 0 {
		return t.Local().Format(time.DateTime) + " (expired)"
	}
	return fmt.Sprintf("%s (in %s)", t.Local().Format(time.DateTime), d)
}

func printMetrics(a *app) error {
	counters, err := a.pipe.Metrics()
	if err != nil {
		return err
	}
	if len(counters) == 0 {
		return nil
	}
	sort.Slice(counters, func(i, j int) bool {
		if counters[i].Endpoint != counters[j].Endpoint {
			return counters[i].Endpoint < counters[j].Endpoint
		}
		return counters[i].Outcome < counters[j].Outcome
	})
	rows := [][]string{{"Endpoint", "Outcome", "Requests"}}
	for _, c := range counters {
		rows = append(rows, []string{c.Endpoint, c.Outcome, fmt.Sprintf("%.0f", c.Count)})
	}
	fmt.Println()
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
