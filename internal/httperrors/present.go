// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package httperrors

import (
	"net/http"

	"github.com/pterm/pterm"

	apperrors "moviecat/cli/internal/errors"
	"moviecat/cli/internal/logging"
)

type category int

const (
	catGeneric category = iota
	catTimeout
	catDNS
	catRefused
	catSSL
	catServer
	catUnauthorized
	catRejected
	catMalformed
	catStorage
)

func categorize(err error) category {
	switch apperrors.KindOf(err) {
	case apperrors.NoResponse:
		switch {
		case isTimeoutError(err):
			return catTimeout
		case isDNSError(err):
			return catDNS
		case isConnectionRefusedError(err):
			return catRefused
		case isSSLError(err):
			return catSSL
		}
	case apperrors.Response:
		if s := Status(err); s >= 500 {
			return catServer
		} else if s == http.StatusUnauthorized || s == http.StatusForbidden {
			return catUnauthorized
		}
	case apperrors.Rejected:
		return catRejected
	case apperrors.Malformed:
		return catMalformed
	case apperrors.Storage:
		return catStorage
	}
	return catGeneric
}

// Present prints err for the user. action describes what was being done
// ("loading movies"), host is the API host for network hints.
func Present(err error, action, host string) {
	if err == nil {
		return
	}
	switch categorize(err) {
	case catTimeout:
		pterm.Printf("⏱️  Connection timeout while %s\n", action)
		pterm.Println()
		pterm.Println("The server took too long to respond. This could mean:")
		pterm.Println("  • Slow internet connection")
		pterm.Println("  • Server is under heavy load")
		pterm.Println("  • api.timeout is set too low")
	case catDNS:
		pterm.Printf("🌐 Cannot resolve server address while %s\n", action)
		pterm.Println()
		pterm.Printf("Unable to look up %s. Check your internet connection and the configured API URL.\n", host)
	case catRefused:
		pterm.Printf("🚫 Connection refused while %s\n", action)
		pterm.Println()
		pterm.Printf("Nothing is accepting connections at %s. Is the catalog server running?\n", host)
		pterm.Println("  • moviecat config show    shows the API URL in use")
	case catSSL:
		pterm.Printf("🔒 Secure connection failed while %s\n", action)
		pterm.Println()
		pterm.Println("Try:")
		pterm.Println("  • Check your system date and time")
		pterm.Println("  • Verify network proxy settings")
	case catServer:
		pterm.Printf("⚠️  Server error while %s\n", action)
		pterm.Println()
		pterm.Printf("%s answered with HTTP %d. Please try again in a few minutes.\n", host, Status(err))
	case catUnauthorized:
		pterm.Error.Printf("Not authorized while %s\n", action)
		pterm.Println("Your session is missing or expired. Run: moviecat login")
	case catRejected:
		pterm.Error.Printf("%s\n", logging.Mask(apperrors.MessageOf(err)))
		if Status(err) == http.StatusUnauthorized {
			pterm.Println("Run: moviecat login")
		}
	case catMalformed:
		pterm.Error.Printf("Unexpected answer from %s while %s: server response format error\n", host, action)
	case catStorage:
		pterm.Error.Printf("Credential store failure while %s: %s\n", action, apperrors.MessageOf(err))
		pterm.Println("Try --store sqlite if the OS keyring is unavailable.")
	default:
		pterm.Printf("❌ Failed while %s\n", action)
		pterm.Println()
		pterm.Debug.Printf("Technical details: %s\n", shorten(logging.Mask(err.Error()), 100))
	}
	pterm.Println()
}

func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
