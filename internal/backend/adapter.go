// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend talks to the movie catalog API. It holds the request
// pipeline every call goes through and the identity provider client used by
// the auth package.
package backend

import "context"

// API is the identity provider as the auth package sees it.
// Implementations may call real HTTP endpoints or provide fakes for tests.
type API interface {
	// Login exchanges a username and password for a credential.
	Login(ctx context.Context, username, password string) (LoginResult, error)
	// Register creates an account and logs it in.
	Register(ctx context.Context, username, password, email string) (LoginResult, error)
	// Profile verifies token and returns the account it belongs to.
	Profile(ctx context.Context, token string) (Profile, error)
}

var _ API = (*HTTP)(nil)
