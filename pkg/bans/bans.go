// Package bans implements the per-channel ban store: permanent or
// timed bans keyed by (channel, user), with a background sweep that
// evicts expired entries (spec §4.3).
package bans

import (
	"sync"
	"time"

	"github.com/darkrelay/darkrelay/pkg/model"
)

// Manager owns every channel's ban table.
type Manager struct {
	mu   sync.Mutex
	bans map[uint64]map[uint64]model.Ban
}

// New creates an empty ban manager.
func New() *Manager {
	return &Manager{bans: make(map[uint64]map[uint64]model.Ban)}
}

// BanUser bans userID from channelID. A zero duration means
// permanent; otherwise the ban expires duration from now. Returns the
// computed expiry, or nil for a permanent ban.
func (m *Manager) BanUser(channelID, userID uint64, username, bannedBy string, duration time.Duration, reason string) *time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expiresAt *time.Time
	if duration > 0 {
		t := time.Now().UTC().Add(duration)
		expiresAt = &t
	}

	ban := model.Ban{
		UserID:    userID,
		Username:  username,
		BannedBy:  bannedBy,
		Reason:    reason,
		ExpiresAt: expiresAt,
	}

	channelBans, ok := m.bans[channelID]
	if !ok {
		channelBans = make(map[uint64]model.Ban)
		m.bans[channelID] = channelBans
	}
	channelBans[userID] = ban

	return expiresAt
}

// UnbanUser removes a ban. Reports whether a ban actually existed.
func (m *Manager) UnbanUser(channelID, userID uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	channelBans, ok := m.bans[channelID]
	if !ok {
		return false
	}
	if _, ok := channelBans[userID]; !ok {
		return false
	}
	delete(channelBans, userID)
	return true
}

// IsBanned reports whether userID is currently banned from channelID.
func (m *Manager) IsBanned(channelID, userID uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	channelBans, ok := m.bans[channelID]
	if !ok {
		return false
	}
	ban, ok := channelBans[userID]
	if !ok {
		return false
	}
	return ban.Active(time.Now().UTC())
}

// BanInfo returns the ban record for userID in channelID, if any.
func (m *Manager) BanInfo(channelID, userID uint64) (model.Ban, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	channelBans, ok := m.bans[channelID]
	if !ok {
		return model.Ban{}, false
	}
	ban, ok := channelBans[userID]
	return ban, ok
}

// ListBans returns every currently active ban in channelID.
func (m *Manager) ListBans(channelID uint64) []model.BanInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	channelBans, ok := m.bans[channelID]
	if !ok {
		return nil
	}

	now := time.Now().UTC()
	var out []model.BanInfo
	for _, ban := range channelBans {
		if !ban.Active(now) {
			continue
		}
		out = append(out, model.BanInfo{
			UserID:    ban.UserID,
			Username:  ban.Username,
			BannedBy:  ban.BannedBy,
			ExpiresAt: ban.ExpiresAt,
		})
	}
	return out
}

// CleanupExpired removes every ban whose expiry has passed. Intended
// to run on a periodic ticker from the server's run loop.
func (m *Manager) CleanupExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	for channelID, channelBans := range m.bans {
		for userID, ban := range channelBans {
			if !ban.Active(now) {
				delete(channelBans, userID)
			}
		}
		if len(channelBans) == 0 {
			delete(m.bans, channelID)
		}
	}
}
