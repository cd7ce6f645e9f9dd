// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/99designs/keyring"
	"go.uber.org/zap"

	"moviecat/cli/internal/logging"
	"moviecat/cli/internal/xdg"
)

// ServiceName identifies our namespace in the OS credential store.
const ServiceName = "moviecat"

// secretStore is the minimal surface shared by the native macOS backend and
// 99designs/keyring. Get reports a missing key as errNotFound.
type secretStore interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// KeyringOptions configures OpenKeyring.
type KeyringOptions struct {
	// Password unlocks the encrypted file fallback on hosts without a
	// native credential store.
	Password string
	// FileDir overrides where the file fallback keeps its entries.
	FileDir string
	Logger  *zap.Logger
}

// KeyringBackend stores each entry as a JSON envelope in the OS credential store.
type KeyringBackend struct {
	store secretStore
	log   *zap.Logger
}

type envelope struct {
	Value     string `json:"value"`
	ExpiresAt int64  `json:"expires_at"`
}

// OpenKeyring opens the platform credential store. On macOS the native
// security command is preferred and the keyring library is the fallback.
func OpenKeyring(opt KeyringOptions) (*KeyringBackend, error) {
	log := logging.OrNop(opt.Logger)

	if runtime.GOOS == "darwin" {
		native, err := newSecurityBackend(log)
		if err == nil {
			return &KeyringBackend{store: native, log: log}, nil
		}
		log.Debug("native keychain unavailable, falling back to keyring", zap.Error(err))
	}

	ring, err := openRing(opt)
	if err != nil {
		return nil, err
	}
	return NewKeyringBackend(ring, log), nil
}

// NewKeyringBackend wraps an already opened keyring, such as
// keyring.NewArrayKeyring in tests.
func NewKeyringBackend(ring keyring.Keyring, log *zap.Logger) *KeyringBackend {
	return &KeyringBackend{store: ringStore{ring: ring}, log: logging.OrNop(log)}
}

func openRing(opt KeyringOptions) (keyring.Keyring, error) {
	cfg := keyring.Config{
		ServiceName:   ServiceName,
		PassPrefix:    ServiceName,
		WinCredPrefix: ServiceName,
	}

	switch runtime.GOOS {
	case "darwin":
		cfg.AllowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		cfg.AllowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	default:
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		}
		dir := opt.FileDir
		if dir == "" {
			data, err := xdg.DataDir()
			if err != nil {
				return nil, fmt.Errorf("resolve keyring dir: %w", err)
			}
			dir = filepath.Join(data, "keyring")
		}
		cfg.FileDir = dir
		if opt.Password != "" {
			cfg.FilePasswordFunc = keyring.FixedStringPrompt(opt.Password)
		} else {
			cfg.FilePasswordFunc = func(string) (string, error) {
				return "", errors.New("no password for the keyring file; set MOVIECAT_KEYRING_PASSWORD or use --store sqlite")
			}
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. On macOS 26.0+, install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return ring, nil
}

func (k *KeyringBackend) Load(_ context.Context, name string) (Entry, bool, error) {
	raw, err := k.store.Get(name)
	if errors.Is(err, errNotFound) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return Entry{}, false, fmt.Errorf("decode %q: %w", name, err)
	}
	e := Entry{Name: name, Value: env.Value}
	if env.ExpiresAt > 0 {
		e.ExpiresAt = time.Unix(env.ExpiresAt, 0)
	}
	return e, true, nil
}

// Store writes every entry. The OS store has no transactions, so on a
// failed write the previous contents of the keys already written are put back.
func (k *KeyringBackend) Store(_ context.Context, entries []Entry) error {
	var undo []func()
	for _, e := range entries {
		prev, hadPrev, err := k.raw(e.Name)
		if err != nil {
			k.rollback(undo)
			return err
		}
		env := envelope{Value: e.Value}
		if !e.ExpiresAt.IsZero() {
			env.ExpiresAt = e.ExpiresAt.Unix()
		}
		data, err := json.Marshal(env)
		if err != nil {
			k.rollback(undo)
			return err
		}
		if err := k.store.Set(e.Name, string(data)); err != nil {
			k.rollback(undo)
			return fmt.Errorf("store %q: %w", e.Name, err)
		}
		undo = append(undo, k.restorer(e.Name, prev, hadPrev))
	}
	return nil
}

func (k *KeyringBackend) Remove(_ context.Context, names []string) error {
	var undo []func()
	for _, name := range names {
		prev, hadPrev, err := k.raw(name)
		if err != nil {
			k.rollback(undo)
			return err
		}
		if !hadPrev {
			continue
		}
		if err := k.store.Delete(name); err != nil {
			k.rollback(undo)
			return fmt.Errorf("remove %q: %w", name, err)
		}
		undo = append(undo, k.restorer(name, prev, true))
	}
	return nil
}

func (k *KeyringBackend) Close() error { return nil }

func (k *KeyringBackend) raw(name string) (string, bool, error) {
	v, err := k.store.Get(name)
	if errors.Is(err, errNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %q: %w", name, err)
	}
	return v, true, nil
}

func (k *KeyringBackend) restorer(name, prev string, hadPrev bool) func() {
	return func() {
		var err error
		if hadPrev {
			err = k.store.Set(name, prev)
		} else {
			err = k.store.Delete(name)
		}
		if err != nil {
			k.log.Warn("keyring rollback failed", zap.String("name", name), zap.Error(err))
		}
	}
}

func (k *KeyringBackend) rollback(undo []func()) {
	for i := len(undo) - 1; i >= 0; i-- {
		undo[i]()
	}
}

// ringStore adapts keyring.Keyring to secretStore.
type ringStore struct {
	ring keyring.Keyring
}

func (r ringStore) Set(key, value string) error {
	return r.ring.Set(keyring.Item{Key: key, Data: []byte(value), Label: ServiceName + " " + key})
}

func (r ringStore) Get(key string) (string, error) {
	it, err := r.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", errNotFound
	}
	if err != nil {
		return "", err
	}
	return string(it.Data), nil
}

func (r ringStore) Delete(key string) error {
	err := r.ring.Remove(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}
