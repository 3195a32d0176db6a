// Package cryptoutil provides the primitive operations DarkRelay's core
// needs: constant-time gate-key comparison, channel-password hashing,
// and the server-generated registration password format. It never
// touches message content — the core relays opaque ciphertext only.
package cryptoutil

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"strconv"
	"time"
)

// ConstantTimeEquals compares the gate key against the process-wide
// special key in constant time, per the recommendation in the design
// notes (prefer this over a plain byte-wise ==).
func ConstantTimeEquals(provided, expected string) bool {
	// ConstantTimeCompare requires equal-length inputs to be
	// meaningful; mismatched lengths are never a valid key regardless.
	if len(provided) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}

// GenerateRegistrationPassword mints the server-generated opaque
// password returned to a client on RegisterUser, in the exact format
// the original implementation used: "dr-" + nanoseconds + "-" + userID.
// This is a plaintext credential compared with GenerateRegistrationPassword's
// output at login time, not an Argon2id hash — distinct from channel
// passwords, which are user-chosen and hashed (see channelpassword.go).
func GenerateRegistrationPassword(now time.Time, userID uint64) string {
	return "dr-" + strconv.FormatInt(now.UnixNano(), 10) + "-" + strconv.FormatUint(userID, 10)
}

// GenerateToken returns a random hex-encoded token, used for any
// out-of-band identifiers the core needs (not part of the core wire
// protocol itself, kept for parity with the ambient auth tooling).
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("cryptoutil: generate token: %w", err)
	}
	return fmt.Sprintf("%x", b), nil
}
