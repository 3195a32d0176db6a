package wire

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	msg := &ClientMessage{
		Auth: &AuthMsg{
			Meta: MessageMeta{ID: 1, Timestamp: time.Now().UTC().Truncate(time.Second)},
			Key:  "darkrelay-dev-key",
		},
	}

	require.NoError(t, WriteClientMessage(&buf, msg))

	got, err := ReadClientMessage(&buf)
	require.NoError(t, err)
	require.NotNil(t, got.Auth)
	require.Equal(t, msg.Auth.Key, got.Auth.Key)
	require.Equal(t, msg.Auth.Meta.ID, got.Auth.Meta.ID)
}

func TestReadFrameRejectsZeroLength(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0, 0, 0, 0})
	_, err := ReadFrame(buf)
	require.ErrorIs(t, err, ErrZeroLengthFrame)
}

func TestReadFrameRejectsOversize(t *testing.T) {
	lenBuf := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	buf := bytes.NewBuffer(lenBuf)
	_, err := ReadFrame(buf)
	require.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestWriteFrameRejectsZeroLength(t *testing.T) {
	var buf bytes.Buffer
	err := WriteFrame(&buf, nil)
	require.ErrorIs(t, err, ErrZeroLengthFrame)
}

func TestServerMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	msg := &ServerMessage{
		SystemMessage: &SystemMessageMsg{
			Meta: MessageMeta{ID: 7, Timestamp: time.Now().UTC().Truncate(time.Second)},
			Text: "welcome",
		},
	}
	require.NoError(t, WriteServerMessage(&buf, msg))

	got, err := ReadServerMessage(&buf)
	require.NoError(t, err)
	require.NotNil(t, got.SystemMessage)
	require.Equal(t, "welcome", got.SystemMessage.Text)
}
