// Package ecdh implements the per-connection X25519 key agreement the
// session state machine runs during the ECDH phase (spec §4.5). The
// core never uses the resulting shared secret for symmetric crypto on
// message bodies; it exists for the clients' end-to-end use.
package ecdh

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/curve25519"
)

// ErrInvalidPublicKey is returned when a client's public key is not
// exactly 32 bytes.
var ErrInvalidPublicKey = errors.New("ecdh: public key must be 32 bytes")

// Manager stores the shared secret negotiated for each live connection.
// A single reader-writer lock guards the map, per the shared-store
// discipline in spec §5.
type Manager struct {
	mu      sync.RWMutex
	secrets map[uint64][]byte
}

// NewManager creates an empty ECDH session manager.
func NewManager() *Manager {
	return &Manager{secrets: make(map[uint64][]byte)}
}

// GenerateKeypair validates clientPublic, generates an ephemeral server
// X25519 keypair, computes the shared secret via Diffie-Hellman, stores
// it under connID, and returns the server's public key bytes.
func (m *Manager) GenerateKeypair(connID uint64, clientPublic []byte) ([]byte, error) {
	if len(clientPublic) != 32 {
		return nil, ErrInvalidPublicKey
	}

	var serverPrivate [32]byte
	if _, err := rand.Read(serverPrivate[:]); err != nil {
		return nil, fmt.Errorf("ecdh: generate private key: %w", err)
	}

	serverPublic, err := curve25519.X25519(serverPrivate[:], curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("ecdh: derive public key: %w", err)
	}

	shared, err := curve25519.X25519(serverPrivate[:], clientPublic)
	if err != nil {
		return nil, fmt.Errorf("ecdh: compute shared secret: %w", err)
	}

	m.mu.Lock()
	m.secrets[connID] = shared
	m.mu.Unlock()

	return serverPublic, nil
}

// SharedSecret returns the stored shared secret for connID, if any.
func (m *Manager) SharedSecret(connID uint64) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	secret, ok := m.secrets[connID]
	return secret, ok
}

// Remove drops the stored shared secret for connID, called on
// disconnect cleanup.
func (m *Manager) Remove(connID uint64) {
	m.mu.Lock()
	delete(m.secrets, connID)
	m.mu.Unlock()
}
