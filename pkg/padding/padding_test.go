package padding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddRemoveRoundTrip(t *testing.T) {
	plaintext := []byte("Hello, world!")
	padded, err := Add(plaintext)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(padded), len(plaintext)+4)

	recovered, err := Remove(padded)
	require.NoError(t, err)
	require.Equal(t, plaintext, recovered)
}

func TestRemoveRejectsShortInput(t *testing.T) {
	_, err := Remove([]byte{1, 2, 3})
	require.ErrorIs(t, err, ErrPaddedTooShort)
}

func TestRemoveRejectsInvalidLength(t *testing.T) {
	_, err := Remove([]byte{0, 0, 0, 100, 1, 2, 3})
	require.ErrorIs(t, err, ErrInvalidLength)
}

func TestAddVariesPadding(t *testing.T) {
	plaintext := []byte("test")
	seen := make(map[int]bool)
	for i := 0; i < 10; i++ {
		padded, err := Add(plaintext)
		require.NoError(t, err)
		seen[len(padded)] = true

		recovered, err := Remove(padded)
		require.NoError(t, err)
		require.Equal(t, plaintext, recovered)
	}
	// Random padding should produce more than one distinct size across 10 tries virtually always.
	require.Greater(t, len(seen), 1)
}
