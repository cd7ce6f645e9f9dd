package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_Observers(t *testing.T) {
	s := NewSession()
	var order []string
	unsubA := s.Subscribe(func(State) { order = append(order, "a") })
	s.Subscribe(func(st State) { order = append(order, "b:"+st.Phase.String()) })

	s.set(State{Phase: Confirmed, UserID: "1", Credential: "t"})
	unsubA()
	s.reset()

	assert.Equal(t, []string{"a", "b:confirmed", "b:logged out"}, order)
}

func TestSession_Invariants(t *testing.T) {
	s := NewSession()

	// logged in without a credential is not representable
	s.set(State{Phase: Confirmed, UserID: "1"})
	assert.Equal(t, State{}, s.Snapshot())

	// logged out never keeps a user id
	s.set(State{Phase: LoggedOut, UserID: "1", Credential: "t"})
	assert.Equal(t, State{}, s.Snapshot())
	assert.False(t, s.Snapshot().IsLoggedIn())
}
