package admin

import (
	"strconv"
	"testing"

	"github.com/darkrelay/darkrelay/pkg/model"
	"github.com/stretchr/testify/require"
)

func TestSetChannelCreatorGrantsAdmin(t *testing.T) {
	m := New()
	m.SetChannelCreator(1, 42)
	require.Equal(t, model.RoleAdmin, m.Role(1, 42))
	require.Equal(t, model.RoleUser, m.Role(1, 99))
}

func TestHasPermissionMatrix(t *testing.T) {
	require.True(t, HasPermission(model.RoleUser, PermSendMessage))
	require.False(t, HasPermission(model.RoleUser, PermBanUser))
	require.True(t, HasPermission(model.RoleModerator, PermKickUser))
	require.False(t, HasPermission(model.RoleModerator, PermBanUser))
	require.True(t, HasPermission(model.RoleAdmin, PermBanUser))
	require.False(t, HasPermission(model.RoleAdmin, PermManageRoles))
	require.True(t, HasPermission(model.RoleSuperAdmin, PermManageRoles))
}

func TestCanSendMessageChannelTypeGating(t *testing.T) {
	m := New()
	m.SetChannelCreator(1, 1) // admin
	m.SetRole(1, 2, model.RoleUser)

	m.SetChannelType(1, model.ChannelPublic)
	require.True(t, m.CanSendMessage(1, 1))
	require.True(t, m.CanSendMessage(1, 2))

	m.SetChannelType(1, model.ChannelAdminOnly)
	require.True(t, m.CanSendMessage(1, 1))
	require.False(t, m.CanSendMessage(1, 2))

	m.SetChannelType(1, model.ChannelAnnouncement)
	require.False(t, m.CanSendMessage(1, 1))
	m.SetRole(1, 1, model.RoleSuperAdmin)
	require.True(t, m.CanSendMessage(1, 1))
}

func TestListAdminsFiltersByRole(t *testing.T) {
	m := New()
	m.SetRole(1, 1, model.RoleAdmin)
	m.SetRole(1, 2, model.RoleUser)
	m.SetRole(1, 3, model.RoleModerator)

	usernames := map[uint64]string{1: "alice", 2: "bob", 3: "carol"}
	admins := m.ListAdmins(1, usernames)
	require.Len(t, admins, 2)
}

func TestLogActionBoundedAndOrdered(t *testing.T) {
	m := New()
	for i := 0; i < maxLogEntries+5; i++ {
		m.LogAction(1, 1, "alice", "ban", strconv.Itoa(i), "")
	}
	logs := m.Logs(1, 2)
	require.Len(t, logs, 2)
	require.Equal(t, strconv.Itoa(maxLogEntries+4), logs[0].Target)
	require.Equal(t, strconv.Itoa(maxLogEntries+3), logs[1].Target)

	all := m.Logs(1, 5000)
	require.Len(t, all, maxLogEntries)
	require.Equal(t, "5", all[len(all)-1].Target)
}

func TestRemoveChannelClearsState(t *testing.T) {
	m := New()
	m.SetChannelCreator(1, 1)
	m.LogAction(1, 1, "alice", "ban", "bob", "")
	m.RemoveChannel(1)

	require.Equal(t, model.RoleUser, m.Role(1, 1))
	require.Empty(t, m.Logs(1, 10))
}
