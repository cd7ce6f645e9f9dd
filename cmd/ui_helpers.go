// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"sync"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"

	"moviecat/cli/internal/auth"
	"moviecat/cli/internal/dsn"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// startSpinner shows text with a rotating frame in a pterm area until the
// returned function is called. The cursor is hidden meanwhile.
func startSpinner(text string) (stop func()) {
	cursor.Hide()
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
	if err != nil {
		cursor.Show()
		return func() {}
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(120 * time.Millisecond)
		defer t.Stop()
		i := 0
		for {
			select {
			case <-t.C:
				i++
				area.Update(fmt.Sprintf("%s %s", spinnerFrames[i%len(spinnerFrames)], text))
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
			_ = area.Stop()
			cursor.Show()
		})
	}
}

func warnf(format string, args ...any) {
	pterm.Warning.Printf(format+"\n", args...)
}

func printNotLoggedIn() {
	fmt.Println("🔒 You're not logged in yet!")
	fmt.Println("   Run 'moviecat login' to get started.")
}

// storeHint explains how to get past a credential store that will not open.
func storeHint(loc dsn.Location) {
	switch loc.Type {
	case dsn.StoreKeyring:
		pterm.Info.Println("The OS keyring could not be opened. Set MOVIECAT_KEYRING_PASSWORD to use the encrypted file keyring, or pass --store sqlite.")
	case dsn.StorePostgreSQL:
		pterm.Info.Printf("Check that %s is reachable and the user may create tables.\n", loc.String())
	}
}

// requireSession returns the current session after checking that another
// process has not logged out in the meantime. ok is false when logged out;
// the user has been told so.
func requireSession(ctx context.Context, a *app) (auth.State, bool) {
	st := a.auth.Guard(ctx)
	if !st.IsLoggedIn() {
		printNotLoggedIn()
		return st, false
	}
	return st, true
}

func describeUser(st auth.State) string {
	if st.Username != "" {
		return fmt.Sprintf("%s (id %s)", st.Username, st.UserID)
	}
	return "id " + st.UserID
}
