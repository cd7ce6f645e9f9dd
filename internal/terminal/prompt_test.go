package terminal

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLine(t *testing.T) {
	var out bytes.Buffer
	p := NewFrom(strings.NewReader("alice\n\n"), &out)

	got, err := p.Line("Username", "")
	require.NoError(t, err)
	assert.Equal(t, "alice", got)

	got, err = p.Line("Server", "http://localhost:5000")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", got)
	assert.Equal(t, "Username: Server [http://localhost:5000]: ", out.String())

	_, err = p.Line("More", "")
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestSecretAndPassword(t *testing.T) {
	p := NewFrom(strings.NewReader("s3cret"), io.Discard)
	got, err := p.Secret()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got, "last line without newline is accepted")

	_, err = p.Password("Password")
	assert.ErrorIs(t, err, ErrNotTerminal)
}

func TestConfirm(t *testing.T) {
	p := NewFrom(strings.NewReader("YES\nn\n"), io.Discard)
	ok, err := p.Confirm("Clear history?")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = p.Confirm("Again?")
	require.NoError(t, err)
	assert.False(t, ok)
}
