package dm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreMessageAndHistory(t *testing.T) {
	s := NewStore()
	s.StoreMessage(1, 2, []byte("hi"), nil)
	s.StoreMessage(2, 1, []byte("hello"), nil)

	history := s.History(1, 2, 10)
	require.Len(t, history, 2)
	require.Equal(t, uint64(1), history[0].SenderID)
	require.Equal(t, uint64(2), history[1].SenderID)

	// Symmetric regardless of argument order.
	reverse := s.History(2, 1, 10)
	require.Equal(t, history, reverse)
}

func TestStoreMessageTrimsToCap(t *testing.T) {
	s := NewStore()
	for i := 0; i < 150; i++ {
		s.StoreMessage(1, 2, []byte("x"), nil)
	}
	history := s.History(1, 2, 1000)
	require.Len(t, history, maxPerPair)
	require.Equal(t, uint64(51), history[0].ID)
}

func TestMarkRead(t *testing.T) {
	s := NewStore()
	msg := s.StoreMessage(1, 2, []byte("hi"), nil)

	require.True(t, s.MarkRead(msg.ID, 2))
	require.False(t, s.MarkRead(999, 2))
	require.False(t, s.MarkRead(msg.ID, 3)) // wrong recipient

	history := s.History(1, 2, 10)
	require.True(t, history[0].Read)
}
