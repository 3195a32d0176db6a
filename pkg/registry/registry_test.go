package registry

import (
	"testing"
	"time"

	"github.com/darkrelay/darkrelay/pkg/model"
	"github.com/darkrelay/darkrelay/pkg/wire"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndUser(t *testing.T) {
	r := New()
	out := make(chan *wire.ServerMessage, 4)
	r.Register(1, out, nil)

	_, ok := r.User(1)
	require.False(t, ok)

	r.SetUser(1, model.UserInfo{ID: 42, Username: "alice"})
	u, ok := r.User(1)
	require.True(t, ok)
	require.Equal(t, uint64(42), u.ID)
}

func TestChannelAssignment(t *testing.T) {
	r := New()
	out := make(chan *wire.ServerMessage, 4)
	r.Register(1, out, nil)

	_, ok := r.Channel(1)
	require.False(t, ok)

	r.SetChannel(1, "general")
	ch, ok := r.Channel(1)
	require.True(t, ok)
	require.Equal(t, "general", ch)

	r.SetChannel(1, "")
	_, ok = r.Channel(1)
	require.False(t, ok)
}

func TestSendDeliversAndIgnoresUnknown(t *testing.T) {
	r := New()
	out := make(chan *wire.ServerMessage, 4)
	r.Register(1, out, nil)

	msg := &wire.ServerMessage{}
	r.Send(1, msg)
	require.Len(t, out, 1)

	// Unknown id: silent no-op, no panic.
	r.Send(99, msg)
}

func TestSendDisconnectsOnFullQueue(t *testing.T) {
	r := New()
	out := make(chan *wire.ServerMessage, 1)
	closed := make(chan struct{})
	r.Register(1, out, func() { close(closed) })

	r.Send(1, &wire.ServerMessage{})
	r.Send(1, &wire.ServerMessage{})

	require.Len(t, out, 1)
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("expected close to be invoked on overflow")
	}
}

func TestRemove(t *testing.T) {
	r := New()
	out := make(chan *wire.ServerMessage, 1)
	r.Register(1, out, nil)
	r.Remove(1)

	_, ok := r.User(1)
	require.False(t, ok)
}

func TestFindByUserID(t *testing.T) {
	r := New()
	out1 := make(chan *wire.ServerMessage, 1)
	out2 := make(chan *wire.ServerMessage, 1)
	r.Register(1, out1, nil)
	r.Register(2, out2, nil)
	r.SetUser(1, model.UserInfo{ID: 7})
	r.SetUser(2, model.UserInfo{ID: 7})

	ids := r.FindByUserID(7)
	require.ElementsMatch(t, []uint64{1, 2}, ids)
	require.Empty(t, r.FindByUserID(8))
}
