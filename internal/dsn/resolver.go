// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dsn

import (
	"strings"
)

// DetectStoreType detects the store type from a location string.
func DetectStoreType(location string) StoreType {
	lower := strings.ToLower(strings.TrimSpace(location))

	switch {
	case lower == "" || lower == "keyring":
		return StoreKeyring
	case lower == "memory":
		return StoreMemory
	case lower == "sqlite" || strings.HasPrefix(lower, "sqlite:"):
		return StoreSQLite
	case strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://"):
		return StorePostgreSQL
	}
	return StoreUnknown
}

// Parse parses a store location string.
// This is the main entry point for location parsing.
func Parse(location string) (*Location, error) {
	location = strings.TrimSpace(location)

	switch DetectStoreType(location) {
	case StoreKeyring:
		return &Location{Type: StoreKeyring, Original: location}, nil
	case StoreMemory:
		return &Location{Type: StoreMemory, Original: location}, nil
	case StoreSQLite:
		return parseSQLite(location)
	case StorePostgreSQL:
		return parsePostgres(location)
	default:
		return nil, NewParseError(location, "unknown store type", "use keyring, memory, sqlite[:path] or postgres://")
	}
}

func parseSQLite(location string) (*Location, error) {
	loc := &Location{Type: StoreSQLite, Original: location}
	if len(location) > len("sqlite") {
		loc.Path = strings.TrimSpace(location[len("sqlite:"):])
		if loc.Path == "" {
			return nil, NewParseError(location, "empty sqlite path", "use sqlite for the default file or sqlite:/path/to/store.db")
		}
	}
	return loc, nil
}
