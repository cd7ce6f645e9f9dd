// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package credstore

import (
	"context"
	"errors"
	"time"
)

// Entry is one durable name/value pair with its absolute expiry.
type Entry struct {
	Name      string
	Value     string
	ExpiresAt time.Time
}

// Expired reports whether the entry is past its expiry at now.
func (e Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// Backend is the durable medium behind a Jar.
//
// Store and Remove apply all of their entries or none of them; a Backend
// that cannot guarantee this natively must restore previous values itself.
// Load reports a missing name as ok == false with a nil error.
type Backend interface {
	Load(ctx context.Context, name string) (Entry, bool, error)
	Store(ctx context.Context, entries []Entry) error
	Remove(ctx context.Context, names []string) error
	Close() error
}

var errNotFound = errors.New("credstore: key not found")
