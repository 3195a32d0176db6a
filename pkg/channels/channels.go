// Package channels implements the channel registry and membership
// engine (spec §4.2): creating channels on first use, password-gated
// joins, member tracking, and a bounded message history per channel.
package channels

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/darkrelay/darkrelay/pkg/cryptoutil"
	"github.com/darkrelay/darkrelay/pkg/model"
)

// maxHistory bounds how many messages each channel retains; joining a
// channel never replays more than this many past messages.
const maxHistory = 100

// ErrChannelNotFound is returned by operations on a channel name that
// has never been created.
var ErrChannelNotFound = errors.New("channels: channel not found")

// ErrInvalidPassword is returned by Join when a password-protected
// channel's password does not match.
var ErrInvalidPassword = errors.New("channels: invalid channel password")

type channel struct {
	id           uint64
	name         string
	isPublic     bool
	channelType  model.ChannelType
	passwordHash string
	members      map[uint64]struct{}
	messages     []model.StoredMessage
}

func (c *channel) info() model.ChannelInfo {
	return model.ChannelInfo{ID: c.id, Name: c.name, IsPublic: c.isPublic, Type: c.channelType}
}

// Manager owns every channel's data and membership. One lock guards
// the whole table; channel operations are infrequent enough relative
// to message volume that per-channel locks would add complexity
// without a measurable benefit.
type Manager struct {
	mu            sync.Mutex
	byName        map[string]*channel
	nextChannelID uint64
	nextMessageID uint64
}

// New creates an empty channel manager.
func New() *Manager {
	return &Manager{
		byName:        make(map[string]*channel),
		nextChannelID: 1,
		nextMessageID: 1,
	}
}

// EnsureChannel creates the named channel if it does not already
// exist. A non-empty password always makes the channel private,
// regardless of the requested visibility.
func (m *Manager) EnsureChannel(name string, isPublic bool, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensureChannelLocked(name, isPublic, password)
}

func (m *Manager) ensureChannelLocked(name string, isPublic bool, password string) error {
	if _, ok := m.byName[name]; ok {
		return nil
	}

	passwordHash := ""
	if password != "" {
		isPublic = false
		hash, err := cryptoutil.HashChannelPassword(password)
		if err != nil {
			return fmt.Errorf("channels: hash password: %w", err)
		}
		passwordHash = hash
	}

	c := &channel{
		id:           m.nextChannelID,
		name:         name,
		isPublic:     isPublic,
		channelType:  model.ChannelPublic,
		passwordHash: passwordHash,
		members:      make(map[uint64]struct{}),
	}
	m.nextChannelID++
	m.byName[name] = c
	return nil
}

// ListPublic returns every public channel's info, sorted by name.
func (m *Manager) ListPublic() []model.ChannelInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.ChannelInfo
	for _, c := range m.byName {
		if c.isPublic {
			out = append(out, c.info())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Join adds clientID to the named channel's membership, creating the
// channel first if needed. If the channel carries a password, the
// supplied password must match or Join fails with ErrInvalidPassword.
func (m *Manager) Join(clientID uint64, name, password string) (model.ChannelInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byName[name]; !ok {
		if err := m.ensureChannelLocked(name, password == "", password); err != nil {
			return model.ChannelInfo{}, err
		}
	}

	c := m.byName[name]
	if c.passwordHash != "" {
		if !cryptoutil.VerifyChannelPassword(password, c.passwordHash) {
			return model.ChannelInfo{}, ErrInvalidPassword
		}
	}

	c.members[clientID] = struct{}{}
	return c.info(), nil
}

// Leave removes clientID from the named channel's membership. A
// missing channel or membership is a silent no-op.
func (m *Manager) Leave(clientID uint64, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.byName[name]; ok {
		delete(c.members, clientID)
	}
}

// Members returns the connection ids currently in the named channel.
func (m *Manager) Members(name string) []uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byName[name]
	if !ok {
		return nil
	}
	out := make([]uint64, 0, len(c.members))
	for id := range c.members {
		out = append(out, id)
	}
	return out
}

// AddMessage appends a message to the named channel's history,
// assigning it an id and timestamp, and trims the history to the
// bounded cap by dropping the oldest entries first.
func (m *Manager) AddMessage(channelName string, userID uint64, username string, content, nonce []byte, metadata map[string]string) (model.StoredMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.byName[channelName]
	if !ok {
		return model.StoredMessage{}, ErrChannelNotFound
	}

	msg := model.StoredMessage{
		ID:        m.nextMessageID,
		UserID:    userID,
		Username:  username,
		Content:   content,
		Nonce:     nonce,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
	m.nextMessageID++

	c.messages = append(c.messages, msg)
	if len(c.messages) > maxHistory {
		overflow := len(c.messages) - maxHistory
		c.messages = c.messages[overflow:]
	}

	return msg, nil
}

// History returns up to limit of the named channel's most recent
// messages, oldest first.
func (m *Manager) History(channelName string, limit int) []model.StoredMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.byName[channelName]
	if !ok {
		return nil
	}

	n := len(c.messages)
	if limit > n {
		limit = n
	}
	start := n - limit
	out := make([]model.StoredMessage, limit)
	copy(out, c.messages[start:])
	return out
}

// DeleteMessage removes a message by id from the named channel's
// history. Reports whether a message was actually removed.
func (m *Manager) DeleteMessage(channelName string, messageID uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.byName[channelName]
	if !ok {
		return false
	}
	for i, msg := range c.messages {
		if msg.ID == messageID {
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
			return true
		}
	}
	return false
}

// DeleteChannel removes the named channel entirely.
func (m *Manager) DeleteChannel(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byName, name)
}

// SetChannelType updates the named channel's gating type (spec §4.2);
// this governs send-eligibility in pkg/admin, not membership.
func (m *Manager) SetChannelType(name string, t model.ChannelType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byName[name]
	if !ok {
		return ErrChannelNotFound
	}
	c.channelType = t
	return nil
}

// ChannelType returns the named channel's gating type.
func (m *Manager) ChannelType(name string) (model.ChannelType, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byName[name]
	if !ok {
		return model.ChannelPublic, false
	}
	return c.channelType, true
}

// Exists reports whether the named channel has been created.
func (m *Manager) Exists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byName[name]
	return ok
}

// ChannelID returns the named channel's numeric id.
func (m *Manager) ChannelID(name string) (uint64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byName[name]
	if !ok {
		return 0, false
	}
	return c.id, true
}
