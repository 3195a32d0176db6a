package server

import (
	"net"
	"testing"
	"time"

	"github.com/darkrelay/darkrelay/pkg/model"
	"github.com/darkrelay/darkrelay/pkg/wire"
	"github.com/stretchr/testify/require"
)

const testGateKey = "integration-test-key"

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.SpecialKey = testGateKey
	srv := New(cfg)
	require.NoError(t, srv.channels.EnsureChannel(defaultChannelName, true, ""))
	t.Cleanup(func() { srv.cancel() })
	return srv
}

// dialClient connects a client pipe into srv and returns the client
// side, already past the AuthChallenge read.
func dialClient(t *testing.T, srv *Server) net.Conn {
	t.Helper()
	client, serverSide := net.Pipe()
	go srv.serve(serverSide)
	t.Cleanup(func() { _ = client.Close() })

	msg := readServerMsg(t, client)
	require.NotNil(t, msg.AuthChallenge)
	return client
}

func readServerMsg(t *testing.T, conn net.Conn) *wire.ServerMessage {
	t.Helper()
	msg, err := wire.ReadServerMessage(conn)
	require.NoError(t, err)
	return msg
}

func writeClientMsg(t *testing.T, conn net.Conn, msg *wire.ClientMessage) {
	t.Helper()
	require.NoError(t, wire.WriteClientMessage(conn, msg))
}

func passGate(t *testing.T, conn net.Conn) {
	t.Helper()
	writeClientMsg(t, conn, &wire.ClientMessage{Auth: &wire.AuthMsg{Key: testGateKey}})
	msg := readServerMsg(t, conn)
	require.NotNil(t, msg.SystemMessage)
}

// registerUser drives the gate+register handshake and returns the
// resulting user info.
func registerUser(t *testing.T, conn net.Conn, username string) model.UserInfo {
	t.Helper()
	passGate(t, conn)
	writeClientMsg(t, conn, &wire.ClientMessage{RegisterUser: &wire.RegisterUserMsg{Username: username}})

	success := readServerMsg(t, conn)
	require.NotNil(t, success.AuthSuccess)
	require.Equal(t, username, success.AuthSuccess.User.Username)
	require.NotNil(t, success.AuthSuccess.GeneratedPassword)
	require.Contains(t, *success.AuthSuccess.GeneratedPassword, "dr-")

	list := readServerMsg(t, conn)
	require.NotNil(t, list.ChannelList)

	return success.AuthSuccess.User
}

func joinChannel(t *testing.T, conn net.Conn, name string, password *string) *wire.JoinSuccessMsg {
	t.Helper()
	writeClientMsg(t, conn, &wire.ClientMessage{JoinChannel: &wire.JoinChannelMsg{Name: name, Password: password}})
	reply := readServerMsg(t, conn)
	require.NotNil(t, reply.JoinSuccess, "expected JoinSuccess, got %+v", reply)

	history := readServerMsg(t, conn)
	require.NotNil(t, history.HistoryChunk)
	return reply.JoinSuccess
}

// Scenario 1: gate, register, join, and echo a sent message back to
// its own sender (spec §8).
func TestScenarioGateRegisterJoinEcho(t *testing.T) {
	srv := newTestServer(t)
	conn := dialClient(t, srv)

	user := registerUser(t, conn, "alice")
	require.Equal(t, uint64(1), user.ID)

	joinChannel(t, conn, defaultChannelName, nil)

	writeClientMsg(t, conn, &wire.ClientMessage{SendMessage: &wire.SendMessageMsg{
		Channel: defaultChannelName, Content: []byte("hello"),
	}})

	received := readServerMsg(t, conn)
	require.NotNil(t, received.MessageReceived)
	require.Equal(t, uint64(1), received.MessageReceived.Message.ID)
	require.Equal(t, "alice", received.MessageReceived.Message.Username)
	require.Equal(t, []byte("hello"), received.MessageReceived.Message.Content)
}

// Scenario 2: a message sent by one channel member reaches every
// member, including the sender, exactly once.
func TestScenarioBroadcastFanOut(t *testing.T) {
	srv := newTestServer(t)
	connA := dialClient(t, srv)
	connB := dialClient(t, srv)

	registerUser(t, connA, "alice")
	registerUser(t, connB, "bob")

	joinChannel(t, connA, defaultChannelName, nil)
	joinChannel(t, connB, defaultChannelName, nil)

	// Bob's join broadcasts UserJoined to Alice, who was already a
	// member; drain it before the chat exchange.
	joined := readServerMsg(t, connA)
	require.NotNil(t, joined.UserJoined)
	require.Equal(t, "bob", joined.UserJoined.User.Username)

	writeClientMsg(t, connA, &wire.ClientMessage{SendMessage: &wire.SendMessageMsg{
		Channel: defaultChannelName, Content: []byte("hi all"),
	}})

	forAlice := readServerMsg(t, connA)
	require.NotNil(t, forAlice.MessageReceived)
	forBob := readServerMsg(t, connB)
	require.NotNil(t, forBob.MessageReceived)
	require.Equal(t, forAlice.MessageReceived.Message.ID, forBob.MessageReceived.Message.ID)
}

// Scenario 3: a bad gate key is fatal — AuthFailure, then the
// connection closes.
func TestScenarioBadGateKey(t *testing.T) {
	srv := newTestServer(t)
	conn := dialClient(t, srv)

	writeClientMsg(t, conn, &wire.ClientMessage{Auth: &wire.AuthMsg{Key: "wrong"}})
	failure := readServerMsg(t, conn)
	require.NotNil(t, failure.AuthFailure)
	require.Equal(t, "invalid special key", failure.AuthFailure.Reason)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = wire.ReadServerMessage(conn)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("connection was not closed within 2s of a bad gate key")
	}
}

// Scenario 4: a password-protected channel rejects a mismatched or
// missing password and accepts the correct one.
func TestScenarioChannelPassword(t *testing.T) {
	srv := newTestServer(t)
	connA := dialClient(t, srv)
	connB := dialClient(t, srv)

	registerUser(t, connA, "alice")
	registerUser(t, connB, "bob")

	password := "hunter2"
	joinChannel(t, connA, "secret", &password)

	writeClientMsg(t, connB, &wire.ClientMessage{JoinChannel: &wire.JoinChannelMsg{Name: "secret"}})
	failure := readServerMsg(t, connB)
	require.NotNil(t, failure.JoinFailure)
	require.Equal(t, "invalid channel password", failure.JoinFailure.Reason)

	joinChannel(t, connB, "secret", &password)
}

// Scenario 5: a timed ban blocks rejoining until it expires.
func TestScenarioBanLifecycle(t *testing.T) {
	srv := newTestServer(t)
	connA := dialClient(t, srv)
	connB := dialClient(t, srv)

	registerUser(t, connA, "alice")
	registerUser(t, connB, "bob")

	joinChannel(t, connA, "modchan", nil)
	joinChannel(t, connB, "modchan", nil)

	userJoined := readServerMsg(t, connA)
	require.NotNil(t, userJoined.UserJoined)

	duration := uint64(1)
	writeClientMsg(t, connA, &wire.ClientMessage{BanUser: &wire.BanUserMsg{
		Channel: "modchan", Username: "bob", DurationSeconds: &duration,
	}})

	banned := readServerMsg(t, connA)
	require.NotNil(t, banned.UserBanned)

	sysMsg := readServerMsg(t, connB)
	require.NotNil(t, sysMsg.SystemMessage)

	writeClientMsg(t, connB, &wire.ClientMessage{JoinChannel: &wire.JoinChannelMsg{Name: "modchan"}})
	failure := readServerMsg(t, connB)
	require.NotNil(t, failure.JoinFailure)
	require.Contains(t, failure.JoinFailure.Reason, "Banned until")

	time.Sleep(1100 * time.Millisecond)
	joinChannel(t, connB, "modchan", nil)
}

// Scenario 6: changing a channel to Announcement gates SendMessage to
// SuperAdmin and above.
func TestScenarioAnnouncementSendPermission(t *testing.T) {
	srv := newTestServer(t)
	connA := dialClient(t, srv)
	connB := dialClient(t, srv)

	userA := registerUser(t, connA, "alice")
	userB := registerUser(t, connB, "bob")

	joinChannel(t, connA, "newschan", nil)
	joinChannel(t, connB, "newschan", nil)
	userJoined := readServerMsg(t, connA)
	require.NotNil(t, userJoined.UserJoined)

	writeClientMsg(t, connA, &wire.ClientMessage{ChangeChannelType: &wire.ChangeChannelTypeMsg{
		Channel: "newschan", ChannelType: "announcement",
	}})
	changed := readServerMsg(t, connA)
	require.NotNil(t, changed.ChannelTypeChanged)
	changedForB := readServerMsg(t, connB)
	require.NotNil(t, changedForB.ChannelTypeChanged)

	channelID, ok := srv.channels.ChannelID("newschan")
	require.True(t, ok)
	srv.admin.SetRole(channelID, userB.ID, model.RoleModerator)

	writeClientMsg(t, connB, &wire.ClientMessage{SendMessage: &wire.SendMessageMsg{
		Channel: "newschan", Content: []byte("breaking news"),
	}})
	adminErr := readServerMsg(t, connB)
	require.NotNil(t, adminErr.AdminError)

	srv.admin.SetRole(channelID, userA.ID, model.RoleSuperAdmin)
	writeClientMsg(t, connA, &wire.ClientMessage{SendMessage: &wire.SendMessageMsg{
		Channel: "newschan", Content: []byte("breaking news"),
	}})
	receivedA := readServerMsg(t, connA)
	require.NotNil(t, receivedA.MessageReceived)
	receivedB := readServerMsg(t, connB)
	require.NotNil(t, receivedB.MessageReceived)
}
