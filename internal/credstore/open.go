// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package credstore

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"moviecat/cli/internal/dsn"
	"moviecat/cli/internal/logging"
	"moviecat/cli/internal/xdg"
)

// OpenOptions carries what the backends need beyond the location itself.
type OpenOptions struct {
	KeyringPassword string
	Logger          *zap.Logger
	Jar             []Option
}

// Open builds the Backend named by loc and wraps it in a Jar.
func Open(ctx context.Context, loc dsn.Location, opt OpenOptions) (*Jar, error) {
	log := logging.OrNop(opt.Logger)

	var (
		b   Backend
		err error
	)
	switch loc.Type {
	case dsn.StoreMemory:
		b = NewMemoryBackend()
	case dsn.StoreKeyring:
		b, err = OpenKeyring(KeyringOptions{Password: opt.KeyringPassword, Logger: log})
	case dsn.StoreSQLite:
		path := loc.Path
		if path == "" {
			var dir string
			if dir, err = xdg.DataDir(); err != nil {
				return nil, fmt.Errorf("resolve data dir: %w", err)
			}
			path = filepath.Join(dir, "credentials.db")
		}
		b, err = OpenSQL(ctx, DialectSQLite, path)
	case dsn.StorePostgreSQL:
		b, err = OpenSQL(ctx, DialectPostgres, loc.DSN)
	default:
		return nil, fmt.Errorf("unsupported credential store %q", loc.Original)
	}
	if err != nil {
		return nil, err
	}

	log.Debug("credential store opened", zap.Stringer("location", &loc))
	return New(b, append([]Option{WithLogger(log)}, opt.Jar...)...), nil
}
