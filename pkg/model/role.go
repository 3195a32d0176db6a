// Package model holds DarkRelay's core entity types: roles, channel
// types, users, channels, stored messages, bans, and log entries.
package model

// Role is a channel-scoped capability bundle assigned to a user. Roles
// are ordered: a higher role is a strict superset of a lower role's
// permissions, so comparisons use plain integer ordering.
type Role int

const (
	RoleUser Role = iota
	RoleModerator
	RoleAdmin
	RoleSuperAdmin
)

// String returns the lowercase wire/display name of the role.
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleModerator:
		return "moderator"
	case RoleAdmin:
		return "admin"
	case RoleSuperAdmin:
		return "superadmin"
	default:
		return "unknown"
	}
}

// ParseRole converts a wire role name back to a Role, defaulting to
// RoleUser for unrecognized input.
func ParseRole(s string) Role {
	switch s {
	case "moderator":
		return RoleModerator
	case "admin":
		return RoleAdmin
	case "superadmin":
		return RoleSuperAdmin
	default:
		return RoleUser
	}
}
