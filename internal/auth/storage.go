// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"time"

	"moviecat/cli/internal/credstore"
)

// Store keys of the persistent record.
const (
	KeyToken      = "token"
	KeyUserID     = "user_id"
	KeyUsername   = "username"
	KeyRememberMe = "rememberMe"

	// keyLegacyUserID was written by older clients. It is never read or
	// written, only removed together with the record.
	keyLegacyUserID = "userId"
)

// Expiry of the record in days.
const (
	RememberDays = 7
	SessionDays  = 1
)

// Store is the part of the credential store the record needs.
type Store interface {
	Get(ctx context.Context, name string) (string, bool)
	SetMany(ctx context.Context, values map[string]string, expiryDays int) error
	DeleteMany(ctx context.Context, names ...string) error
}

var _ Store = (*credstore.Jar)(nil)

// Record is the persisted form of a session. Every field may be absent.
type Record struct {
	Token      string
	UserID     string
	Username   string
	RememberMe bool
}

// complete reports whether the record names a session at all.
func (r Record) complete() bool { return r.Token != "" && r.UserID != "" }

// empty reports whether nothing of a session is stored.
func (r Record) empty() bool { return r.Token == "" && r.UserID == "" }

func expiryDays(rememberMe bool) int {
	if rememberMe {
		return RememberDays
	}
	return SessionDays
}

// ExpiryFor returns how long a record written now lives.
func ExpiryFor(rememberMe bool) time.Duration {
	return time.Duration(expiryDays(rememberMe)) * 24 * time.Hour
}

func loadRecord(ctx context.Context, st Store) Record {
	var r Record
	r.Token, _ = st.Get(ctx, KeyToken)
	r.UserID, _ = st.Get(ctx, KeyUserID)
	r.Username, _ = st.Get(ctx, KeyUsername)
	remember, _ := st.Get(ctx, KeyRememberMe)
	r.RememberMe = remember == "true"
	return r
}

// saveRecord writes all four fields as one unit.
func saveRecord(ctx context.Context, st Store, r Record) error {
	remember := "false"
	if r.RememberMe {
		remember = "true"
	}
	return st.SetMany(ctx, map[string]string{
		KeyToken:      r.Token,
		KeyUserID:     r.UserID,
		KeyUsername:   r.Username,
		KeyRememberMe: remember,
	}, expiryDays(r.RememberMe))
}

func clearRecord(ctx context.Context, st Store) error {
	return st.DeleteMany(ctx, KeyToken, KeyUserID, KeyUsername, KeyRememberMe, keyLegacyUserID)
}
