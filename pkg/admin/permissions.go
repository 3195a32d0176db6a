// Package admin implements per-channel role assignment, the
// permission matrix that gates moderation verbs, channel-type
// send-eligibility, and the append-only action log (spec §4.3, §4.4).
package admin

import "github.com/darkrelay/darkrelay/pkg/model"

// Permission names one moderation-relevant capability a role may hold.
type Permission int

const (
	PermSendMessage Permission = iota
	PermDeleteMessage
	PermManageChannel
	PermBanUser
	PermKickUser
	PermMuteUser
	PermPromoteUser
	PermViewLogs
	PermManageRoles
)

// permissionMatrix mirrors the default permission sets per role,
// expressed as a map of sets rather than a switch, following the
// teacher's rbac package's technique.
var permissionMatrix = map[model.Role]map[Permission]bool{
	model.RoleUser: {
		PermSendMessage: true,
	},
	model.RoleModerator: {
		PermSendMessage:   true,
		PermDeleteMessage: true,
		PermKickUser:      true,
		PermMuteUser:      true,
	},
	model.RoleAdmin: {
		PermSendMessage:   true,
		PermDeleteMessage: true,
		PermKickUser:      true,
		PermMuteUser:      true,
		PermManageChannel: true,
		PermBanUser:       true,
		PermPromoteUser:   true,
		PermViewLogs:      true,
	},
	model.RoleSuperAdmin: {
		PermSendMessage:   true,
		PermDeleteMessage: true,
		PermManageChannel: true,
		PermBanUser:       true,
		PermKickUser:      true,
		PermMuteUser:      true,
		PermPromoteUser:   true,
		PermViewLogs:      true,
		PermManageRoles:   true,
	},
}

// HasPermission reports whether role carries permission by default.
func HasPermission(role model.Role, permission Permission) bool {
	return permissionMatrix[role][permission]
}
