package server

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/darkrelay/darkrelay/pkg/wire"
)

// outboundQueueCap bounds each connection's outbound message queue.
// On overflow the connection is disconnected rather than left to grow
// without bound (spec §5, §9(b)).
const outboundQueueCap = 1024

// writerDrainTimeout is how long the writer goroutine is given to
// flush queued messages after the reader exits (spec §4.1).
const writerDrainTimeout = 2 * time.Second

type sessionState int

const (
	stateAwaitGate sessionState = iota
	stateGatePassed
	stateEcdhReady
	stateAuthed
	stateClosing
)

// conn is one connection's session state machine and dispatcher.
type conn struct {
	id  uint64
	srv *Server
	raw net.Conn
	w   *bufio.Writer

	outbound  chan *wire.ServerMessage
	done      chan struct{}
	closeOnce sync.Once

	mu             sync.Mutex
	state          sessionState
	hasUser        bool
	userID         uint64
	username       string
	currentChannel string

	nextMsgID uint64
}

func newConn(srv *Server, id uint64, raw net.Conn) *conn {
	return &conn{
		id:       id,
		srv:      srv,
		raw:      raw,
		w:        bufio.NewWriter(raw),
		outbound: make(chan *wire.ServerMessage, outboundQueueCap),
		done:     make(chan struct{}),
		state:    stateAwaitGate,
	}
}

func (c *conn) meta() wire.MessageMeta {
	id := atomic.AddUint64(&c.nextMsgID, 1)
	return wire.MessageMeta{ID: id, Timestamp: time.Now().UTC()}
}

func (c *conn) getState() sessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *conn) setState(s sessionState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *conn) setUser(userID uint64, username string) {
	c.mu.Lock()
	c.hasUser = true
	c.userID = userID
	c.username = username
	c.mu.Unlock()
}

func (c *conn) user() (uint64, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID, c.username, c.hasUser
}

func (c *conn) setChannel(name string) {
	c.mu.Lock()
	c.currentChannel = name
	c.mu.Unlock()
}

func (c *conn) channel() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentChannel
}

// send enqueues a message to this connection's own outbound queue via
// the registry, which applies the slow-consumer disconnect policy.
func (c *conn) send(msg *wire.ServerMessage) {
	c.srv.registry.Send(c.id, msg)
}

// close triggers disconnect cleanup exactly once.
func (c *conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.raw.Close()
	})
}

// serve runs a connection's reader and writer flows until either
// exits, then performs disconnect cleanup (spec §4.1).
func (s *Server) serve(raw net.Conn) {
	id := atomic.AddUint64(&s.nextConnID, 1)
	c := newConn(s, id, raw)

	s.registry.Register(id, c.outbound, c.close)
	s.metrics.ConnectionsTotal.Inc()
	s.metrics.ConnectionsActive.Inc()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writeLoop()
	}()

	c.send(&wire.ServerMessage{AuthChallenge: &wire.AuthChallengeMsg{
		Meta:    c.meta(),
		Message: "gate key required",
	}})

	c.readLoop()

	// Signal the writer to drain what is queued, and close the transport
	// only once it has finished or the drain budget is spent.
	c.closeOnce.Do(func() { close(c.done) })
	select {
	case <-writerDone:
	case <-time.After(writerDrainTimeout):
	}
	_ = c.raw.Close()

	s.disconnectCleanup(c)
}

func (c *conn) readLoop() {
	for {
		select {
		case <-c.srv.ctx.Done():
			return
		case <-c.done:
			return
		default:
		}

		msg, err := wire.ReadClientMessage(c.raw)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				slog.Debug("read error", "conn", c.id, "err", err)
			}
			return
		}

		c.dispatch(msg)

		if c.getState() == stateClosing {
			return
		}
	}
}

func (c *conn) writeLoop() {
	for {
		select {
		case <-c.done:
			c.drainOutbound()
			return
		case msg, ok := <-c.outbound:
			if !ok {
				return
			}
			if err := wire.WriteServerMessage(c.w, msg); err != nil {
				slog.Debug("write error", "conn", c.id, "err", err)
				c.close()
				return
			}
			if err := c.w.Flush(); err != nil {
				c.close()
				return
			}
		}
	}
}

// drainOutbound flushes whatever is already queued before the writer
// gives up, within the drain budget enforced by the caller.
func (c *conn) drainOutbound() {
	for {
		select {
		case msg, ok := <-c.outbound:
			if !ok {
				return
			}
			if err := wire.WriteServerMessage(c.w, msg); err != nil {
				return
			}
			_ = c.w.Flush()
		default:
			return
		}
	}
}

func (s *Server) disconnectCleanup(c *conn) {
	if chName := c.channel(); chName != "" {
		s.channels.Leave(c.id, chName)
		if userID, username, ok := c.user(); ok {
			s.broadcastUserLeft(chName, userID, username, c.id)
		}
	}
	s.ecdh.Remove(c.id)
	s.registry.Remove(c.id)
	s.metrics.ConnectionsActive.Dec()
	s.metrics.DisconnectsTotal.Inc()
}
