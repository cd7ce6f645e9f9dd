// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors is the single place where transport failures and error
// responses from the API are turned into typed errors, and where those errors
// are turned into user-friendly output.
package httperrors

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"

	apperrors "moviecat/cli/internal/errors"
)

// MsgNetwork is the message carried by every NoResponse error.
const MsgNetwork = "network request failed"

// Classify turns an error returned while sending a request into an *E.
// It returns nil for a nil error and passes an existing *E through untouched.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var e *apperrors.E
	if errors.As(err, &e) {
		return err
	}
	if neverSent(err) {
		return apperrors.Wrap(apperrors.Client, "request could not be sent", err)
	}
	return apperrors.Wrap(apperrors.NoResponse, MsgNetwork, err)
}

// neverSent reports whether err happened before the request left the client.
func neverSent(err error) bool {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		msg := uerr.Err.Error()
		return strings.Contains(msg, "unsupported protocol scheme") ||
			strings.Contains(msg, "no Host in request URL")
	}
	// Errors that are not url.Error never reached http.Client.Do.
	return !errors.Is(err, context.DeadlineExceeded) && !isNetError(err)
}

func isNetError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr)
}

// envelope is the error body the API sends: {"status":"error","message":"..."}.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// FromResponse classifies a non-2xx response. A well-formed error envelope
// becomes a Rejected error carrying the provider message; anything else is a
// Response error carrying the status text.
func FromResponse(status int, body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" && env.Status != "" {
		return &apperrors.E{Kind: apperrors.Rejected, Message: env.Message, Status: status}
	}
	msg := http.StatusText(status)
	if msg == "" {
		msg = "unexpected response"
	}
	return &apperrors.E{Kind: apperrors.Response, Message: strings.ToLower(msg), Status: status}
}

// Status returns the HTTP status carried by err, or zero.
func Status(err error) int {
	var e *apperrors.E
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// Outcome is the short label used for request metrics.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if k := apperrors.KindOf(err); k != "" {
		return string(k)
	}
	return "unknown"
}

func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
