// Package wire implements DarkRelay's framed session protocol: a
// 4-byte big-endian length prefix followed by a JSON-encoded tagged
// message value, one ClientMessage per client-to-server frame and one
// ServerMessage per server-to-client frame.
package wire

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxFrameSize is the safe upper bound on a single frame's payload
// length, guarding against a hostile or buggy peer claiming an
// unbounded length.
const MaxFrameSize = 16 * 1024 * 1024 // 16 MiB

var (
	// ErrZeroLengthFrame is returned when a frame declares length 0.
	ErrZeroLengthFrame = errors.New("wire: zero-length frame")
	// ErrFrameTooLarge is returned when a frame's declared length
	// exceeds MaxFrameSize.
	ErrFrameTooLarge = errors.New("wire: frame exceeds maximum size")
)

// WriteFrame writes payload unchanged behind its 4-byte big-endian
// length prefix. payload is already encoded (typically the result of
// json.Marshal on a ClientMessage or ServerMessage).
func WriteFrame(w io.Writer, payload []byte) error {
	if len(payload) == 0 {
		return ErrZeroLengthFrame
	}
	if len(payload) > MaxFrameSize {
		return ErrFrameTooLarge
	}
	var lengthBuf [4]byte
	binary.BigEndian.PutUint32(lengthBuf[:], uint32(len(payload)))
	if _, err := w.Write(lengthBuf[:]); err != nil {
		return fmt.Errorf("wire: write length: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("wire: write payload: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame and returns its raw
// payload bytes.
func ReadFrame(r io.Reader) ([]byte, error) {
	var lengthBuf [4]byte
	if _, err := io.ReadFull(r, lengthBuf[:]); err != nil {
		return nil, err
	}
	length := binary.BigEndian.Uint32(lengthBuf[:])
	if length == 0 {
		return nil, ErrZeroLengthFrame
	}
	if length > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("wire: read payload: %w", err)
	}
	return payload, nil
}

// WriteClientMessage encodes and frames a ClientMessage.
func WriteClientMessage(w io.Writer, msg *ClientMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("wire: encode client message: %w", err)
	}
	return WriteFrame(w, data)
}

// ReadClientMessage reads and decodes one ClientMessage frame.
func ReadClientMessage(r io.Reader) (*ClientMessage, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	var msg ClientMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("wire: decode client message: %w", err)
	}
	return &msg, nil
}

// WriteServerMessage encodes and frames a ServerMessage.
func WriteServerMessage(w io.Writer, msg *ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("wire: encode server message: %w", err)
	}
	return WriteFrame(w, data)
}

// ReadServerMessage reads and decodes one ServerMessage frame.
func ReadServerMessage(r io.Reader) (*ServerMessage, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	var msg ServerMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("wire: decode server message: %w", err)
	}
	return &msg, nil
}
