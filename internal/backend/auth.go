// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	apperrors "moviecat/cli/internal/errors"
)

// MsgLoginFailed is used when the provider refuses without saying why.
const MsgLoginFailed = "login failed"

// LoginResult is the canonical outcome of a successful login or registration.
type LoginResult struct {
	Token    string
	UserID   string
	Username string
	// Message is the provider's own success message, if it sent one.
	Message string
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

// Login calls POST /api/auth/login.
func (h *HTTP) Login(ctx context.Context, username, password string) (LoginResult, error) {
	return h.authenticate(ctx, h.endpoints.Login, credentials{Username: username, Password: password})
}

// Register calls POST /api/auth/register. The API logs the new account in,
// so the response has the same layouts as Login.
func (h *HTTP) Register(ctx context.Context, username, password, email string) (LoginResult, error) {
	return h.authenticate(ctx, h.endpoints.Register, credentials{Username: username, Password: password, Email: email})
}

func (h *HTTP) authenticate(ctx context.Context, path string, in credentials) (LoginResult, error) {
	body, err := h.Raw(ctx, Request{Method: http.MethodPost, Path: path, Body: in})
	if err != nil {
		return LoginResult{}, err
	}

	shape, err := decodeLoginShape(body)
	if err != nil {
		return LoginResult{}, apperrors.Wrap(apperrors.Malformed, MsgFormat, err)
	}
	if !shape.success() {
		msg := shape.message
		if msg == "" {
			msg = MsgLoginFailed
		}
		return LoginResult{}, apperrors.New(apperrors.Rejected, msg)
	}
	if !shape.complete() {
		h.log.Warn("login response missing fields",
			zap.String("shape", shape.kind.String()),
			zap.Bool("has_token", shape.token != ""),
			zap.Bool("has_user_id", shape.userID != ""),
		)
		return LoginResult{}, apperrors.New(apperrors.Malformed, MsgFormat)
	}

	username := shape.username
	if username == "" {
		username = in.Username
	}
	h.log.Debug("login response accepted", zap.String("shape", shape.kind.String()), zap.String("user_id", shape.userID.String()))
	return LoginResult{
		Token:    shape.token,
		UserID:   shape.userID.String(),
		Username: username,
		Message:  shape.message,
	}, nil
}
