package ecdh

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/curve25519"
)

func TestGenerateKeypairProducesSharedSecret(t *testing.T) {
	m := NewManager()

	var clientPrivate [32]byte
	clientPrivate[0] = 1
	clientPublic, err := curve25519.X25519(clientPrivate[:], curve25519.Basepoint)
	require.NoError(t, err)

	serverPublic, err := m.GenerateKeypair(1, clientPublic)
	require.NoError(t, err)
	require.Len(t, serverPublic, 32)

	clientShared, err := curve25519.X25519(clientPrivate[:], serverPublic)
	require.NoError(t, err)

	serverShared, ok := m.SharedSecret(1)
	require.True(t, ok)
	require.Equal(t, clientShared, serverShared)
}

func TestGenerateKeypairRejectsBadPublicKey(t *testing.T) {
	m := NewManager()
	_, err := m.GenerateKeypair(1, []byte{1, 2, 3})
	require.ErrorIs(t, err, ErrInvalidPublicKey)
}

func TestSharedSecretMissing(t *testing.T) {
	m := NewManager()
	_, ok := m.SharedSecret(99)
	require.False(t, ok)
}

func TestRemove(t *testing.T) {
	m := NewManager()
	var clientPrivate [32]byte
	clientPrivate[0] = 2
	clientPublic, err := curve25519.X25519(clientPrivate[:], curve25519.Basepoint)
	require.NoError(t, err)

	_, err = m.GenerateKeypair(5, clientPublic)
	require.NoError(t, err)

	m.Remove(5)
	_, ok := m.SharedSecret(5)
	require.False(t, ok)
}
