// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure that crosses the request pipeline or the credential store is
// carried as an *E so callers can branch on Kind without string matching, while
// the underlying cause stays reachable through errors.Unwrap.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// NoResponse indicates the request was sent but nothing came back
	// (timeout, DNS failure, refused connection, TLS failure, reset).
	NoResponse Kind = "no_response"
	// Response indicates the server answered with a non-2xx status that did not
	// carry a well-formed provider envelope.
	Response Kind = "response"
	// Client indicates the request never left the client.
	Client Kind = "client"
	// Rejected indicates a well-formed refusal from the provider
	// (bad credentials, expired token).
	Rejected Kind = "rejected"
	// Malformed indicates a success status with required fields missing.
	Malformed Kind = "malformed"
	// Storage indicates the credential store could not be read or written.
	Storage Kind = "storage"
)

// E wraps an error with kind and human-friendly message.
// Status is the HTTP status code when a response was received, zero otherwise.
type E struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the Kind of the first *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// MessageOf returns the Message of the first *E in err's chain.
func MessageOf(err error) string {
	var e *E
	if stderrors.As(err, &e) {
		return e.Message
	}
	return ""
}

// As is errors.As from the standard library, re-exported so callers that
// import this package under the name errors keep access to it.
func As(err error, target any) bool { return stderrors.As(err, target) }

// Is is errors.Is from the standard library.
func Is(err, target error) bool { return stderrors.Is(err, target) }
