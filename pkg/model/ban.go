package model

import "time"

// Ban is a channel-scoped exclusion. A nil ExpiresAt means permanent.
// Bans store value snapshots of the banned user (id + username), never
// a reference back into the user store.
type Ban struct {
	UserID    uint64     `json:"user_id"`
	Username  string     `json:"username"`
	BannedBy  string     `json:"banned_by"`
	Reason    string     `json:"reason,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Active reports whether the ban is currently in effect: it exists and
// either has no expiry or its expiry is in the future.
func (b Ban) Active(now time.Time) bool {
	return b.ExpiresAt == nil || b.ExpiresAt.After(now)
}

// BanInfo is the client-facing snapshot of a ban.
type BanInfo struct {
	UserID    uint64     `json:"user_id"`
	Username  string     `json:"username"`
	BannedBy  string     `json:"banned_by"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
