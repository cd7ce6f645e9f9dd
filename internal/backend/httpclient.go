// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"moviecat/cli/internal/config"
	apperrors "moviecat/cli/internal/errors"
)

// MsgFormat is the message of every Malformed error.
const MsgFormat = "server response format error"

// HTTP implements API over the REST endpoints. Every request goes through
// the shared Pipeline.
type HTTP struct {
	baseURL   string
	endpoints config.Endpoints
	pipe      *Pipeline
	log       *zap.Logger
}

// Request describes one API call.
type Request struct {
	Method string
	Path   string
	// Label is the metrics label; Path is used when empty. Paths that embed
	// ids should set a fixed label.
	Label string
	Query url.Values
	Body  any
	// Token, when set, is sent instead of the pipeline's credential.
	Token string
}

// Envelope is the wrapper every API response uses.
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Raw sends r and returns the 2xx body undecoded.
func (h *HTTP) Raw(ctx context.Context, r Request) ([]byte, error) {
	var body io.Reader
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.Client, "encode request", err)
		}
		body = bytes.NewReader(b)
	}

	u := h.baseURL + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, u, body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Client, "build request", err)
	}
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.Token != "" {
		req.Header.Set("Authorization", bearer(r.Token))
	}

	label := r.Label
	if label == "" {
		label = r.Path
	}
	return h.pipe.Do(req, label)
}

// Call sends r, checks the {status, data} envelope and decodes data into out.
// A status other than "success" is a Rejected error with the provider message;
// undecodable data is a Malformed error. out may be nil.
func (h *HTTP) Call(ctx context.Context, r Request, out any) error {
	body, err := h.Raw(ctx, r)
	if err != nil {
		return err
	}
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return apperrors.Wrap(apperrors.Malformed, MsgFormat, err)
	}
	if !strings.EqualFold(env.Status, "success") {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return apperrors.New(apperrors.Rejected, msg)
	}
	if out == nil {
		return nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return apperrors.New(apperrors.Malformed, MsgFormat)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperrors.Wrap(apperrors.Malformed, MsgFormat, err)
	}
	return nil
}

// Endpoints returns the endpoint paths in use.
func (h *HTTP) Endpoints() config.Endpoints { return h.endpoints }

// BaseURL returns the API base URL without a trailing slash.
func (h *HTTP) BaseURL() string { return h.baseURL }
