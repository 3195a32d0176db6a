package bans

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBanAndIsBannedPermanent(t *testing.T) {
	m := New()
	expiry := m.BanUser(1, 42, "alice", "admin", 0, "spam")
	require.Nil(t, expiry)
	require.True(t, m.IsBanned(1, 42))
	require.False(t, m.IsBanned(1, 99))
}

func TestBanWithDuration(t *testing.T) {
	m := New()
	expiry := m.BanUser(1, 42, "alice", "admin", time.Hour, "spam")
	require.NotNil(t, expiry)
	require.True(t, m.IsBanned(1, 42))
}

func TestBanExpiryElapsed(t *testing.T) {
	m := New()
	m.BanUser(1, 42, "alice", "admin", time.Nanosecond, "spam")
	time.Sleep(2 * time.Millisecond)
	require.False(t, m.IsBanned(1, 42))
}

func TestUnbanUser(t *testing.T) {
	m := New()
	m.BanUser(1, 42, "alice", "admin", 0, "spam")
	require.True(t, m.UnbanUser(1, 42))
	require.False(t, m.IsBanned(1, 42))
	require.False(t, m.UnbanUser(1, 42))
}

func TestListBansFiltersExpired(t *testing.T) {
	m := New()
	m.BanUser(1, 1, "alice", "admin", 0, "")
	m.BanUser(1, 2, "bob", "admin", time.Nanosecond, "")
	time.Sleep(2 * time.Millisecond)

	list := m.ListBans(1)
	require.Len(t, list, 1)
	require.Equal(t, uint64(1), list[0].UserID)
}

func TestCleanupExpiredRemovesStale(t *testing.T) {
	m := New()
	m.BanUser(1, 1, "alice", "admin", time.Nanosecond, "")
	time.Sleep(2 * time.Millisecond)

	m.CleanupExpired()
	_, ok := m.BanInfo(1, 1)
	require.False(t, ok)
}
