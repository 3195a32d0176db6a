package model

import (
	"strings"
	"time"
)

// User is a registered DarkRelay identity. Users live for the server's
// lifetime only; there is no disk persistence (spec: Persistence: None).
type User struct {
	ID       uint64    `json:"id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}

// UserInfo is the client-facing snapshot of a user.
type UserInfo struct {
	ID       uint64    `json:"id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}

// Info returns the client-facing snapshot of a user.
func (u User) Info() UserInfo {
	return UserInfo{ID: u.ID, Username: u.Username, JoinedAt: u.JoinedAt}
}

// ValidateUsername trims and checks a candidate username. It does not
// check uniqueness; callers check that against the auth store.
func ValidateUsername(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || len(trimmed) > 32 {
		return "", false
	}
	return trimmed, true
}
