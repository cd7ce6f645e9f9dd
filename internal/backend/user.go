// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"

	apperrors "moviecat/cli/internal/errors"
)

// Profile is the account a credential belongs to.
type Profile struct {
	ID        ID     `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	Avatar    string `json:"avatar"`
}

// Profile calls GET /api/auth/profile with token as the bearer credential,
// independent of whatever credential the pipeline holds.
func (h *HTTP) Profile(ctx context.Context, token string) (Profile, error) {
	var p Profile
	err := h.Call(ctx, Request{Method: http.MethodGet, Path: h.endpoints.Profile, Token: token}, &p)
	if err != nil {
		return Profile{}, err
	}
	if p.ID == "" {
		return Profile{}, apperrors.New(apperrors.Malformed, MsgFormat)
	}
	return p, nil
}
