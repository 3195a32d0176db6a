package admin

import (
	"sync"
	"time"

	"github.com/darkrelay/darkrelay/pkg/model"
)

// maxLogEntries bounds the append-only log kept per channel.
const maxLogEntries = 1000

type channelState struct {
	roles map[uint64]model.Role
	typ   model.ChannelType
	logs  []model.LogEntry
}

// Manager owns per-channel role assignment, channel-type gating, and
// the moderation action log. It holds no knowledge of connections or
// membership; pkg/channels and pkg/registry own those.
type Manager struct {
	mu       sync.Mutex
	channels map[uint64]*channelState
}

// New creates an empty admin manager.
func New() *Manager {
	return &Manager{channels: make(map[uint64]*channelState)}
}

func (m *Manager) stateFor(channelID uint64) *channelState {
	s, ok := m.channels[channelID]
	if !ok {
		s = &channelState{roles: make(map[uint64]model.Role), typ: model.ChannelPublic}
		m.channels[channelID] = s
	}
	return s
}

// SetChannelCreator seeds the channel's creator as an Admin, the
// default applied the moment a channel is first created.
func (m *Manager) SetChannelCreator(channelID, userID uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stateFor(channelID).roles[userID] = model.RoleAdmin
}

// Role returns a user's role within a channel, defaulting to
// RoleUser if never assigned.
func (m *Manager) Role(channelID, userID uint64) model.Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.channels[channelID]
	if !ok {
		return model.RoleUser
	}
	role, ok := s.roles[userID]
	if !ok {
		return model.RoleUser
	}
	return role
}

// SetRole assigns a user's role within a channel.
func (m *Manager) SetRole(channelID, userID uint64, role model.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stateFor(channelID).roles[userID] = role
}

// HasPermission reports whether userID's role in channelID carries
// the given permission.
func (m *Manager) HasPermission(channelID, userID uint64, permission Permission) bool {
	return HasPermission(m.Role(channelID, userID), permission)
}

// CanSendMessage applies the channel-type gating table (spec §4.2):
// Public/Private channels defer to the SendMessage permission every
// role already carries; AdminOnly/ReadOnly require Admin or above;
// Announcement requires SuperAdmin.
func (m *Manager) CanSendMessage(channelID, userID uint64) bool {
	role := m.Role(channelID, userID)
	switch m.ChannelType(channelID) {
	case model.ChannelPublic, model.ChannelPrivate:
		return HasPermission(role, PermSendMessage)
	case model.ChannelAdminOnly, model.ChannelReadOnly:
		return role >= model.RoleAdmin
	case model.ChannelAnnouncement:
		return role >= model.RoleSuperAdmin
	default:
		return false
	}
}

// SetChannelType records a channel's send-eligibility gating type.
func (m *Manager) SetChannelType(channelID uint64, t model.ChannelType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stateFor(channelID).typ = t
}

// ChannelType returns a channel's gating type, defaulting to Public.
func (m *Manager) ChannelType(channelID uint64) model.ChannelType {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.channels[channelID]
	if !ok {
		return model.ChannelPublic
	}
	return s.typ
}

// ListAdmins returns every user holding Moderator or above in a
// channel, resolved against the supplied user-id-to-username map.
func (m *Manager) ListAdmins(channelID uint64, usernames map[uint64]string) []model.AdminInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.channels[channelID]
	if !ok {
		return nil
	}
	var out []model.AdminInfo
	for userID, role := range s.roles {
		if role < model.RoleModerator {
			continue
		}
		username, ok := usernames[userID]
		if !ok {
			continue
		}
		out = append(out, model.AdminInfo{UserID: userID, Username: username, Role: role})
	}
	return out
}

// LogAction appends an entry to a channel's moderation log, trimming
// to the bounded cap by dropping the oldest entries first.
func (m *Manager) LogAction(channelID, userID uint64, username, action, target, details string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stateFor(channelID)
	s.logs = append(s.logs, model.LogEntry{
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		Username:  username,
		Action:    action,
		Target:    target,
		Details:   details,
	})
	if len(s.logs) > maxLogEntries {
		overflow := len(s.logs) - maxLogEntries
		s.logs = s.logs[overflow:]
	}
}

// Logs returns up to limit of a channel's most recent log entries,
// newest first — the reverse order of channel message history, since
// operators reading an audit trail want the latest action up top.
func (m *Manager) Logs(channelID uint64, limit int) []model.LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.channels[channelID]
	if !ok {
		return nil
	}
	n := len(s.logs)
	if limit > n {
		limit = n
	}
	out := make([]model.LogEntry, limit)
	for i := 0; i < limit; i++ {
		out[i] = s.logs[n-1-i]
	}
	return out
}

// RemoveChannel drops all role, type, and log state for a deleted
// channel.
func (m *Manager) RemoveChannel(channelID uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.channels, channelID)
}
