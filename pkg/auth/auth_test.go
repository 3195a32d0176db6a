package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	s := New()
	user, password, err := s.Register("alice")
	require.NoError(t, err)
	require.Equal(t, uint64(1), user.ID)
	require.Contains(t, password, "dr-")

	got, err := s.Login("alice", password)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
}

func TestRegisterRejectsDuplicateAndEmpty(t *testing.T) {
	s := New()
	_, _, err := s.Register("alice")
	require.NoError(t, err)

	_, _, err = s.Register("alice")
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, _, err = s.Register("   ")
	require.ErrorIs(t, err, ErrEmptyUsername)
}

func TestLoginRejectsUnknownUserAndBadPassword(t *testing.T) {
	s := New()
	_, _, err := s.Register("alice")
	require.NoError(t, err)

	_, err = s.Login("bob", "whatever")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.Login("alice", "wrong")
	require.ErrorIs(t, err, ErrInvalidPassword)
}

func TestVerifySpecialKey(t *testing.T) {
	require.True(t, VerifySpecialKey("darkrelay-dev-key", "darkrelay-dev-key"))
	require.False(t, VerifySpecialKey("darkrelay-dev-key", "wrong"))
}
