package cryptoutil

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters, matching the teacher's voice-token hashing
// parameters (time=1, memory=64 MiB, 4 threads, 32-byte key).
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

// HashChannelPassword derives an Argon2id hash of password with a fresh
// random salt and returns a self-describing encoded string carrying the
// salt and parameters alongside the digest — golang.org/x/crypto/argon2
// returns only raw derived-key bytes, unlike the Rust argon2 crate's
// PasswordHash type, so this package builds the equivalent PHC-style
// encoding itself: "$argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>".
func HashChannelPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("cryptoutil: generate salt: %w", err)
	}
	hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)
	return encoded, nil
}

// VerifyChannelPassword recomputes the Argon2id digest for password
// using the salt and parameters embedded in encoded, and compares it to
// the stored digest. Returns false (not an error) for any malformed
// encoded string, since a corrupted hash should simply fail to verify.
func VerifyChannelPassword(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	// parts[0] is empty (encoded starts with "$"); parts[1]=="argon2id".
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(want)))
	return len(got) == len(want) && subtle.ConstantTimeCompare(got, want) == 1
}
