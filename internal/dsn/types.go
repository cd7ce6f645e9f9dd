// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dsn resolves the configured credential-store location into a typed
// description the store factory can open.
//
// Accepted forms:
//
//	keyring                     OS credential store (default)
//	memory                      process memory only
//	sqlite                      SQLite file in the XDG data dir
//	sqlite:<path>               SQLite file at path (":memory:" allowed)
//	postgres://user:pw@host/db  PostgreSQL table shared between clients
package dsn

import "fmt"

// StoreType represents the kind of credential store backend.
type StoreType string

const (
	StoreKeyring    StoreType = "keyring"
	StoreMemory     StoreType = "memory"
	StoreSQLite     StoreType = "sqlite"
	StorePostgreSQL StoreType = "postgresql"
	StoreUnknown    StoreType = "unknown"
)

// Location contains parsed information from a store location string.
type Location struct {
	Type StoreType
	// Path is the SQLite database path; empty means the default data-dir file.
	Path string
	// DSN is the PostgreSQL connection string as given.
	DSN string
	// Host and Database are filled for PostgreSQL, for display.
	Host     string
	Database string
	Original string
}

// String returns the location with credentials masked.
func (l *Location) String() string {
	switch l.Type {
	case StorePostgreSQL:
		return fmt.Sprintf("postgresql://%s/%s", l.Host, l.Database)
	case StoreSQLite:
		if l.Path == "" {
			return "sqlite"
		}
		return "sqlite:" + l.Path
	default:
		return string(l.Type)
	}
}

// ParseError represents an error that occurred during location parsing
type ParseError struct {
	Location string
	Reason   string
	Hint     string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid store location: %s\nHint: %s", e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid store location: %s", e.Reason)
}

// NewParseError creates a new ParseError
func NewParseError(location, reason, hint string) *ParseError {
	return &ParseError{
		Location: location,
		Reason:   reason,
		Hint:     hint,
	}
}
