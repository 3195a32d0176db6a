package model

import "time"

// StoredMessage is one relayed channel message as the server keeps it:
// opaque ciphertext, never inspected (invariant: the server never logs
// or inspects message content bytes).
type StoredMessage struct {
	ID        uint64            `json:"id"`
	UserID    uint64            `json:"user_id"`
	Username  string            `json:"username"`
	Content   []byte            `json:"content"`
	Nonce     []byte            `json:"nonce,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
