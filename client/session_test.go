package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStore_Empty(t *testing.T) {
	assert.Empty(t, NewSessionStore().Token())
}

func TestSessionStore_PersistentAndSessionSlots(t *testing.T) {
	s := NewSessionStore()

	s.SetToken("remembered", true)
	assert.Equal(t, "remembered", s.Token())

	// A session-scoped login replaces the persistent one
	s.SetToken("temporary", false)
	assert.Equal(t, "temporary", s.Token())

	// And vice versa
	s.SetToken("remembered-again", true)
	assert.Equal(t, "remembered-again", s.Token())
}

func TestSessionStore_IgnoresEmptyToken(t *testing.T) {
	s := NewSessionStore()
	s.SetToken("valid", true)
	s.SetToken("", false)
	assert.Equal(t, "valid", s.Token())
}

func TestSessionStore_Clear(t *testing.T) {
	s := NewSessionStore()
	s.SetToken("valid", true)
	s.Clear()
	assert.Empty(t, s.Token())
}
