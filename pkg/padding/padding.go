// Package padding implements the optional traffic-shaping envelope
// (spec §4.8): a length-prefixed plaintext followed by 0-256 bytes of
// random padding, applied client-side before a message ever reaches
// the core. Kept here for parity with the protocol's reference tooling
// and for server-side test fixtures that need to build padded frames.
package padding

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
)

// maxPadding is the largest number of random padding bytes appended.
const maxPadding = 256

// ErrPaddedTooShort is returned when padded data is too short to carry
// its own length prefix.
var ErrPaddedTooShort = errors.New("padding: padded data too short")

// ErrInvalidLength is returned when the embedded plaintext length
// exceeds the data actually present.
var ErrInvalidLength = errors.New("padding: invalid plaintext length")

// Add wraps plaintext in a padding envelope: a 4-byte big-endian
// length prefix, the plaintext itself, then a random number (0-256)
// of random padding bytes.
func Add(plaintext []byte) ([]byte, error) {
	n, err := randomPaddingLen()
	if err != nil {
		return nil, err
	}

	pad := make([]byte, n)
	if _, err := rand.Read(pad); err != nil {
		return nil, fmt.Errorf("padding: generate padding: %w", err)
	}

	out := make([]byte, 4+len(plaintext)+len(pad))
	binary.BigEndian.PutUint32(out[:4], uint32(len(plaintext)))
	copy(out[4:], plaintext)
	copy(out[4+len(plaintext):], pad)
	return out, nil
}

// Remove strips a padding envelope and returns the original plaintext.
func Remove(padded []byte) ([]byte, error) {
	if len(padded) < 4 {
		return nil, ErrPaddedTooShort
	}
	plaintextLen := int(binary.BigEndian.Uint32(padded[:4]))
	if len(padded) < 4+plaintextLen {
		return nil, ErrInvalidLength
	}
	return padded[4 : 4+plaintextLen], nil
}

func randomPaddingLen() (int, error) {
	var b [2]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("padding: generate length: %w", err)
	}
	return int(binary.BigEndian.Uint16(b[:])) % (maxPadding + 1), nil
}
