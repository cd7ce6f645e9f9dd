package credstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKeyringBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	ring := keyring.NewArrayKeyring(nil)
	b := NewKeyringBackend(ring, nil)

	exp := time.Unix(1_750_000_000, 0)
	require.NoError(t, b.Store(ctx, []Entry{{Name: "token", Value: "abc123", ExpiresAt: exp}}))

	it, err := ring.Get("token")
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":"abc123","expires_at":1750000000}`, string(it.Data))

	e, ok, err := b.Load(ctx, "token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc123", e.Value)
	assert.True(t, exp.Equal(e.ExpiresAt))

	require.NoError(t, b.Remove(ctx, []string{"token", "missing"}))
	_, ok, err = b.Load(ctx, "token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeyringBackend_CorruptEnvelope(t *testing.T) {
	ring := keyring.NewArrayKeyring([]keyring.Item{{Key: "token", Data: []byte("not json")}})
	_, ok, err := NewKeyringBackend(ring, nil).Load(context.Background(), "token")
	assert.Error(t, err)
	assert.False(t, ok)
}

// flakyStore fails Set for one key.
type flakyStore struct {
	data   map[string]string
	failOn string
}

func (f *flakyStore) Set(key, value string) error {
	if key == f.failOn {
		return errors.New("keychain locked")
	}
	f.data[key] = value
	return nil
}

func (f *flakyStore) Get(key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", errNotFound
	}
	return v, nil
}

func (f *flakyStore) Delete(key string) error {
	delete(f.data, key)
	return nil
}

func TestKeyringBackend_StoreRollsBack(t *testing.T) {
	ctx := context.Background()
	st := &flakyStore{data: map[string]string{}, failOn: "username"}
	b := &KeyringBackend{store: st, log: zap.NewNop()}

	require.NoError(t, b.Store(ctx, []Entry{{Name: "token", Value: "old"}}))
	before := st.data["token"]

	err := b.Store(ctx, []Entry{
		{Name: "token", Value: "new"},
		{Name: "user_id", Value: "42"},
		{Name: "username", Value: "alice"},
	})
	require.Error(t, err)
	assert.Equal(t, before, st.data["token"], "previous value restored")
	assert.NotContains(t, st.data, "user_id", "new key removed again")
	assert.NotContains(t, st.data, "username")
}
