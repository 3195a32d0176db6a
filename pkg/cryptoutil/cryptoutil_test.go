package cryptoutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConstantTimeEquals(t *testing.T) {
	require.True(t, ConstantTimeEquals("darkrelay-dev-key", "darkrelay-dev-key"))
	require.False(t, ConstantTimeEquals("wrong", "darkrelay-dev-key"))
	require.False(t, ConstantTimeEquals("", "darkrelay-dev-key"))
}

func TestGenerateRegistrationPasswordFormat(t *testing.T) {
	now := time.Unix(0, 123456789)
	got := GenerateRegistrationPassword(now, 42)
	require.Equal(t, "dr-123456789-42", got)
}

func TestChannelPasswordHashAndVerify(t *testing.T) {
	encoded, err := HashChannelPassword("hunter2")
	require.NoError(t, err)
	require.Contains(t, encoded, "$argon2id$")

	require.True(t, VerifyChannelPassword("hunter2", encoded))
	require.False(t, VerifyChannelPassword("wrong", encoded))
}

func TestVerifyChannelPasswordRejectsMalformed(t *testing.T) {
	require.False(t, VerifyChannelPassword("anything", "not-a-valid-hash"))
}

func TestHashChannelPasswordUsesFreshSalt(t *testing.T) {
	a, err := HashChannelPassword("same-password")
	require.NoError(t, err)
	b, err := HashChannelPassword("same-password")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
