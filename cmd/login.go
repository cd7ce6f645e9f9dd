// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"moviecat/cli/internal/auth"
	"moviecat/cli/internal/terminal"
)

var loginFlags struct {
	username      string
	remember      bool
	passwordStdin bool
}

// loginCmd exchanges a username and password for a session.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with your catalog account",
	Long: `The login command asks for your username and password and stores the resulting
session in the credential store. Any session stored before is removed first.

With --remember the session is kept for 7 days and trusted on later runs even
when the server cannot be reached. Without it the session is kept for 1 day and
checked with the server on every run.`,
	Example: `  moviecat login -u alice --remember
  echo "$PASSWORD" | moviecat login -u alice --password-stdin`,
	Annotations: map[string]string{annNoReconcile: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)
		username, password, err := readCredentials(loginFlags.username, loginFlags.passwordStdin)
		if err != nil {
			return err
		}

		stop := startSpinner("Logging in")
		res := a.auth.Login(cmd.Context(), username, password, loginFlags.remember)
		stop()

		if !res.Success {
			pterm.Error.Println(res.Message)
			return errors.New("login failed")
		}
		fmt.Println(getRandomLoginGreeting(describeUser(a.auth.Session().Snapshot())))
		fmt.Printf("   Session saved for %s.\n", lifetime(auth.ExpiryFor(loginFlags.remember)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginFlags.username, "username", "u", "", "account username (prompted when empty)")
	loginCmd.Flags().BoolVarP(&loginFlags.remember, "remember", "r", false, "remember this session for 7 days")
	loginCmd.Flags().BoolVar(&loginFlags.passwordStdin, "password-stdin", false, "read the password from stdin")
}

// readCredentials prompts for whatever was not given on the command line.
func readCredentials(username string, passwordStdin bool) (string, string, error) {
	p := terminal.New()
	if passwordStdin {
		if username == "" {
			return "", "", errors.New("--password-stdin requires --username")
		}
		pw, err := p.Secret()
		return username, pw, err
	}

	var err error
	if username == "" {
		if username, err = p.Line("Username", ""); err != nil {
			return "", "", err
		}
	}
	pw, err := p.Password("Password")
	if err != nil {
		return "", "", err
	}
	if p.IsTerminal() {
		terminal.ClearPreviousLines(os.Stderr, len("Password: "))
	}
	return username, pw, nil
}

func lifetime(d time.Duration) string {
	days := int(d / (24 * time.Hour))
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// getRandomLoginGreeting returns a random greeting phrase with the user's identifier
func getRandomLoginGreeting(identifier string) string {
	greetings := []string{
		"🎉 Welcome back, %s!",
		"✨ Great to see you, %s!",
		"🍿 Grab the popcorn, %s!",
		"🎬 You're in, %s!",
		"✅ Logged in as %s",
	}
	return fmt.Sprintf(greetings[rand.Intn(len(greetings))], identifier)
}
