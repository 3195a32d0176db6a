// Package dm implements the optional direct-message and file-transfer
// extension (spec §4.7): a bounded per-pair DM history ring, and a
// file-transfer offer/accept state machine with timeout-based cleanup.
package dm

import (
	"sync"
	"time"
)

// maxPerPair bounds how many direct messages are retained for any
// given pair of users.
const maxPerPair = 100

// Message is one stored direct message. Content and Nonce are opaque
// ciphertext, exactly like channel messages — the core never inspects
// either.
type Message struct {
	ID          uint64
	SenderID    uint64
	RecipientID uint64
	Content     []byte
	Nonce       []byte
	Timestamp   time.Time
	Read        bool
}

func pairKey(a, b uint64) (uint64, uint64) {
	if a < b {
		return a, b
	}
	return b, a
}

// Store owns every pair's direct-message history.
type Store struct {
	mu     sync.Mutex
	byPair map[[2]uint64][]Message
	nextID uint64
}

// NewStore creates an empty direct-message store.
func NewStore() *Store {
	return &Store{byPair: make(map[[2]uint64][]Message), nextID: 1}
}

// StoreMessage records a new direct message between sender and
// recipient, trimming the pair's history to the bounded cap.
func (s *Store) StoreMessage(senderID, recipientID uint64, content, nonce []byte) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := Message{
		ID:          s.nextID,
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		Nonce:       nonce,
		Timestamp:   time.Now().UTC(),
	}
	s.nextID++

	a, b := pairKey(senderID, recipientID)
	key := [2]uint64{a, b}
	list := append(s.byPair[key], msg)
	if len(list) > maxPerPair {
		list = list[len(list)-maxPerPair:]
	}
	s.byPair[key] = list

	return msg
}

// History returns up to limit of the most recent messages between
// userID and otherUserID, oldest first.
func (s *Store) History(userID, otherUserID uint64, limit int) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, b := pairKey(userID, otherUserID)
	list := s.byPair[[2]uint64{a, b}]

	n := len(list)
	if limit > n {
		limit = n
	}
	start := n - limit
	out := make([]Message, limit)
	copy(out, list[start:])
	return out
}

// MarkRead flags a message as read by its recipient. Reports whether
// a message with that id and recipient was found, whether or not it
// was already marked read.
func (s *Store) MarkRead(messageID, recipientID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, list := range s.byPair {
		for i := range list {
			if list[i].ID == messageID && list[i].RecipientID == recipientID {
				list[i].Read = true
				s.byPair[key] = list
				return true
			}
		}
	}
	return false
}
