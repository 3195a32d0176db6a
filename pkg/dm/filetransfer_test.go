package dm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOfferAcceptTransferComplete(t *testing.T) {
	m := NewTransferManager()
	tr := m.Offer(1, 2, "photo.png", 1024, []byte{1, 2, 3})
	require.Equal(t, TransferOffered, tr.Status)

	require.True(t, m.Accept(tr.ID))
	require.True(t, m.BeginTransferring(tr.ID))
	require.True(t, m.Complete(tr.ID))

	got, ok := m.Get(tr.ID)
	require.True(t, ok)
	require.Equal(t, TransferCompleted, got.Status)
	require.NotNil(t, got.ResolvedAt)
}

func TestRejectIsTerminal(t *testing.T) {
	m := NewTransferManager()
	tr := m.Offer(1, 2, "photo.png", 1024, nil)
	require.True(t, m.Reject(tr.ID))
	require.False(t, m.Accept(tr.ID))
}

func TestTransitionRejectsWrongState(t *testing.T) {
	m := NewTransferManager()
	tr := m.Offer(1, 2, "photo.png", 1024, nil)
	require.False(t, m.BeginTransferring(tr.ID))
	require.False(t, m.Complete(tr.ID))
}

func TestPendingForUser(t *testing.T) {
	m := NewTransferManager()
	tr := m.Offer(1, 2, "a.txt", 10, nil)
	m.Offer(1, 3, "b.txt", 10, nil)

	pending := m.PendingForUser(2)
	require.Len(t, pending, 1)
	require.Equal(t, tr.ID, pending[0].ID)
}

func TestCleanupExpiredRemovesStaleOffers(t *testing.T) {
	m := NewTransferManager()
	tr := m.Offer(1, 2, "a.txt", 10, nil)
	m.transfers[tr.ID].CreatedAt = time.Now().UTC().Add(-pendingTimeout - time.Second)

	m.CleanupExpired()
	_, ok := m.Get(tr.ID)
	require.False(t, ok)
}
