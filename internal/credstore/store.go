// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package credstore is the persistent credential store: a small cookie-jar
// style key/value store where every entry carries its own expiry.
//
// Entries written with a positive number of days go to the durable Backend
// and survive process restarts until they expire. Entries written with
// SessionOnly live in process memory and vanish when the process exits, the
// CLI counterpart of a browser session cookie. Reads never fail: missing,
// expired and unreadable entries are all reported as absent.
package credstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "moviecat/cli/internal/errors"
	"moviecat/cli/internal/logging"
)

// SessionOnly is the expiry for entries that must not outlive the process.
const SessionOnly = 0

// Jar is the credential store used by every higher layer.
type Jar struct {
	mu      sync.Mutex
	backend Backend
	session map[string]string
	now     func() time.Time
	log     *zap.Logger
}

// Option configures a Jar.
type Option func(*Jar)

// WithClock replaces time.Now, for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(j *Jar) { j.now = now }
}

// WithLogger sets the logger used for backend failures.
func WithLogger(l *zap.Logger) Option {
	return func(j *Jar) { j.log = logging.OrNop(l) }
}

// New wraps backend in a Jar.
func New(backend Backend, opts ...Option) *Jar {
	j := &Jar{
		backend: backend,
		session: make(map[string]string),
		now:     time.Now,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(j)
	}
	return j
}

// Get returns the value stored under name. Missing, expired and unreadable
// entries are reported as ok == false.
func (j *Jar) Get(ctx context.Context, name string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if v, ok := j.session[name]; ok {
		return v, true
	}
	e, ok, err := j.backend.Load(ctx, name)
	if err != nil {
		j.log.Warn("credential store read failed", zap.String("name", name), zap.Error(err))
		return "", false
	}
	if !ok {
		return "", false
	}
	if e.Expired(j.now()) {
		if err := j.backend.Remove(ctx, []string{name}); err != nil {
			j.log.Debug("expired entry not removed", zap.String("name", name), zap.Error(err))
		}
		return "", false
	}
	return e.Value, true
}

// Set stores value under name. expiryDays == SessionOnly keeps the entry in
// memory for the life of the process; a positive value persists it for that
// many days from now; a negative value deletes it.
func (j *Jar) Set(ctx context.Context, name, value string, expiryDays int) error {
	return j.SetMany(ctx, map[string]string{name: value}, expiryDays)
}

// SetMany stores all values with one shared expiry, as a unit: either every
// entry is written or none is.
func (j *Jar) SetMany(ctx context.Context, values map[string]string, expiryDays int) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	if expiryDays < 0 {
		return j.DeleteMany(ctx, names...)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if expiryDays == SessionOnly {
		// A session entry shadows any durable entry of the same name.
		if err := j.backend.Remove(ctx, names); err != nil {
			return apperrors.Wrap(apperrors.Storage, "could not save credentials", err)
		}
		for name, v := range values {
			j.session[name] = v
		}
		return nil
	}

	expires := j.now().Add(time.Duration(expiryDays) * 24 * time.Hour)
	entries := make([]Entry, 0, len(values))
	for name, v := range values {
		entries = append(entries, Entry{Name: name, Value: v, ExpiresAt: expires})
	}
	if err := j.backend.Store(ctx, entries); err != nil {
		return apperrors.Wrap(apperrors.Storage, "could not save credentials", err)
	}
	for _, name := range names {
		delete(j.session, name)
	}
	return nil
}

// Delete removes name from both the session overlay and the backend.
func (j *Jar) Delete(ctx context.Context, name string) error {
	return j.DeleteMany(ctx, name)
}

// DeleteMany removes all names as a unit. Deleting an absent name is not an error.
func (j *Jar) DeleteMany(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.backend.Remove(ctx, names); err != nil {
		return apperrors.Wrap(apperrors.Storage, "could not clear credentials", err)
	}
	for _, name := range names {
		delete(j.session, name)
	}
	return nil
}

// ExpiresAt returns when the durable entry under name expires. Session-only
// and missing entries report ok == false.
func (j *Jar) ExpiresAt(ctx context.Context, name string) (time.Time, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if _, ok := j.session[name]; ok {
		return time.Time{}, false
	}
	e, ok, err := j.backend.Load(ctx, name)
	if err != nil || !ok || e.Expired(j.now()) {
		return time.Time{}, false
	}
	return e.ExpiresAt, true
}

// Close releases the backend.
func (j *Jar) Close() error {
	if err := j.backend.Close(); err != nil {
		return fmt.Errorf("close credential store: %w", err)
	}
	return nil
}
