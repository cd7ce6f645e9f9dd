// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"strings"

	"go.uber.org/zap"

	"moviecat/cli/internal/config"
	"moviecat/cli/internal/logging"
)

// New creates the HTTP client for the configured API. All calls share pipe.
func New(api config.API, pipe *Pipeline, log *zap.Logger) *HTTP {
	return &HTTP{
		baseURL:   strings.TrimRight(api.BaseURL, "/"),
		endpoints: api.Endpoints,
		pipe:      pipe,
		log:       logging.OrNop(log),
	}
}
