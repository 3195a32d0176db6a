// Package registry tracks every live connection's routing state: its
// outbound message channel, its authenticated user (once known), and
// the channel it currently occupies. The session dispatcher consults
// it to fan out broadcasts and directed sends without holding a
// reference to the net.Conn itself.
package registry

import (
	"sync"

	"github.com/darkrelay/darkrelay/pkg/model"
	"github.com/darkrelay/darkrelay/pkg/wire"
)

// Handle is one connection's routing record.
type Handle struct {
	ID             uint64
	User           *model.UserInfo
	CurrentChannel string
	Outbound       chan<- *wire.ServerMessage
	Close          func()
}

// Registry is the shared connection table. Every method takes and
// releases its lock before returning; callers never hold a reference
// into the map itself.
type Registry struct {
	mu      sync.RWMutex
	clients map[uint64]Handle
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{clients: make(map[uint64]Handle)}
}

// Register adds a freshly accepted connection with no user and no
// channel assigned yet. close is invoked at most once, from Send, if
// the connection's outbound queue is ever found full — the bounded
// queue's slow-consumer disconnect policy (spec §5, §9(b)). It may be
// nil in tests that don't exercise overflow.
func (r *Registry) Register(id uint64, outbound chan<- *wire.ServerMessage, close func()) {
	if close != nil {
		var once sync.Once
		inner := close
		close = func() { once.Do(inner) }
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[id] = Handle{ID: id, Outbound: outbound, Close: close}
}

// Remove drops a connection's routing record, called on disconnect.
func (r *Registry) Remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, id)
}

// SetUser records the authenticated identity for a connection.
func (r *Registry) SetUser(id uint64, user model.UserInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.clients[id]
	if !ok {
		return
	}
	h.User = &user
	r.clients[id] = h
}

// User returns the connection's authenticated identity, if any.
func (r *Registry) User(id uint64) (model.UserInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.clients[id]
	if !ok || h.User == nil {
		return model.UserInfo{}, false
	}
	return *h.User, true
}

// SetChannel records which channel a connection currently occupies.
// Pass "" to clear it (leaving a channel, or not having joined one).
func (r *Registry) SetChannel(id uint64, channel string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.clients[id]
	if !ok {
		return
	}
	h.CurrentChannel = channel
	r.clients[id] = h
}

// Channel returns the channel a connection currently occupies, if any.
func (r *Registry) Channel(id uint64) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.clients[id]
	if !ok || h.CurrentChannel == "" {
		return "", false
	}
	return h.CurrentChannel, true
}

// Send delivers msg to a single connection's outbound queue. A missing
// connection id is a silent no-op — the connection may have just
// disconnected, which is not an error for the caller.
func (r *Registry) Send(id uint64, msg *wire.ServerMessage) {
	r.mu.RLock()
	h, ok := r.clients[id]
	r.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case h.Outbound <- msg:
	default:
		// Full outbound queue: this connection is not draining fast
		// enough. Disconnect it rather than block the sender or grow
		// the queue without bound.
		if h.Close != nil {
			go h.Close()
		}
	}
}

// SendMany delivers msg to every connection id listed.
func (r *Registry) SendMany(ids []uint64, msg *wire.ServerMessage) {
	for _, id := range ids {
		r.Send(id, msg)
	}
}

// FindByUserID returns the connection ids currently authenticated as
// the given user. A user may hold more than one live connection.
func (r *Registry) FindByUserID(userID uint64) []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var ids []uint64
	for _, h := range r.clients {
		if h.User != nil && h.User.ID == userID {
			ids = append(ids, h.ID)
		}
	}
	return ids
}
