package server

import (
	"encoding/hex"
	"errors"
	"time"

	"github.com/darkrelay/darkrelay/pkg/admin"
	"github.com/darkrelay/darkrelay/pkg/auth"
	"github.com/darkrelay/darkrelay/pkg/model"
	"github.com/darkrelay/darkrelay/pkg/wire"
)

// dispatch routes one decoded ClientMessage to its handler according
// to the current session state (spec §4.1). Exactly one field of msg
// is non-nil. A frame with no handled field gets the same ProtocolError
// as any other command before the gate or before login, and is ignored
// once the connection is authenticated.
func (c *conn) dispatch(msg *wire.ClientMessage) {
	state := c.getState()

	switch {
	case msg.Auth != nil:
		c.handleAuth(msg.Auth)
		return
	case msg.Disconnect != nil:
		c.setState(stateClosing)
		return
	}

	if state == stateAwaitGate {
		c.send(&wire.ServerMessage{ProtocolError: &wire.ProtocolErrorMsg{
			Meta: c.meta(), Text: "special auth required",
		}})
		return
	}

	if msg.EcdhPublicKey != nil {
		if state < stateGatePassed {
			c.send(&wire.ServerMessage{ProtocolError: &wire.ProtocolErrorMsg{
				Meta: c.meta(), Text: "special auth required",
			}})
			return
		}
		c.handleEcdhPublicKey(msg.EcdhPublicKey)
		return
	}

	switch {
	case msg.RegisterUser != nil:
		c.handleRegisterUser(msg.RegisterUser)
		return
	case msg.Login != nil:
		c.handleLogin(msg.Login)
		return
	}

	if _, _, hasUser := c.user(); !hasUser {
		c.send(&wire.ServerMessage{ProtocolError: &wire.ProtocolErrorMsg{
			Meta: c.meta(), Text: "login/register required",
		}})
		return
	}

	switch {
	case msg.ListChannels != nil:
		c.handleListChannels(msg.ListChannels)
	case msg.JoinChannel != nil:
		c.handleJoinChannel(msg.JoinChannel)
	case msg.SendMessage != nil:
		c.handleSendMessage(msg.SendMessage)
	case msg.GetHistory != nil:
		c.handleGetHistory(msg.GetHistory)
	case msg.DeleteMessage != nil:
		c.handleDeleteMessage(msg.DeleteMessage)
	case msg.PromoteUser != nil:
		c.handlePromoteUser(msg.PromoteUser)
	case msg.DemoteUser != nil:
		c.handleDemoteUser(msg.DemoteUser)
	case msg.BanUser != nil:
		c.handleBanUser(msg.BanUser)
	case msg.UnbanUser != nil:
		c.handleUnbanUser(msg.UnbanUser)
	case msg.KickUser != nil:
		c.handleKickUser(msg.KickUser)
	case msg.ListAdmins != nil:
		c.handleListAdmins(msg.ListAdmins)
	case msg.ListBans != nil:
		c.handleListBans(msg.ListBans)
	case msg.ViewLogs != nil:
		c.handleViewLogs(msg.ViewLogs)
	case msg.ChangeChannelType != nil:
		c.handleChangeChannelType(msg.ChangeChannelType)
	case msg.DeleteChannel != nil:
		c.handleDeleteChannel(msg.DeleteChannel)
	case msg.SendDirectMessage != nil:
		c.handleSendDirectMessage(msg.SendDirectMessage)
	case msg.GetDirectHistory != nil:
		c.handleGetDirectHistory(msg.GetDirectHistory)
	case msg.OfferFile != nil:
		c.handleOfferFile(msg.OfferFile)
	case msg.RespondFile != nil:
		c.handleRespondFile(msg.RespondFile)
	}
}

// handleAuth checks the gate key. A bad key is fatal: the connection
// is told and then closed (spec §4.1, §7).
func (c *conn) handleAuth(m *wire.AuthMsg) {
	if c.getState() != stateAwaitGate {
		return
	}
	if !auth.VerifySpecialKey(c.srv.cfg.SpecialKey, m.Key) {
		c.send(&wire.ServerMessage{AuthFailure: &wire.AuthFailureMsg{
			Meta: c.meta(), Reason: "invalid special key",
		}})
		c.srv.metrics.AuthFailureTotal.Inc()
		c.setState(stateClosing)
		return
	}
	c.setState(stateGatePassed)
	c.send(&wire.ServerMessage{SystemMessage: &wire.SystemMessageMsg{
		Meta: c.meta(), Text: "gate passed",
	}})
}

func (c *conn) handleEcdhPublicKey(m *wire.EcdhPublicKeyMsg) {
	serverPublic, err := c.srv.ecdh.GenerateKeypair(c.id, m.PublicKey)
	if err != nil {
		c.send(&wire.ServerMessage{ProtocolError: &wire.ProtocolErrorMsg{
			Meta: c.meta(), Text: "invalid ecdh public key",
		}})
		return
	}
	if c.getState() == stateGatePassed {
		c.setState(stateEcdhReady)
	}
	c.send(&wire.ServerMessage{EcdhAck: &wire.EcdhAckMsg{
		Meta: c.meta(), PublicKey: serverPublic,
	}})
}

func (c *conn) handleRegisterUser(m *wire.RegisterUserMsg) {
	user, password, err := c.srv.auth.Register(m.Username)
	if err != nil {
		c.srv.metrics.AuthFailureTotal.Inc()
		c.send(&wire.ServerMessage{AuthFailure: &wire.AuthFailureMsg{
			Meta: c.meta(), Reason: registerFailureReason(err),
		}})
		return
	}
	c.authed(user, &password)
}

func (c *conn) handleLogin(m *wire.LoginMsg) {
	user, err := c.srv.auth.Login(m.Username, m.Password)
	if err != nil {
		c.srv.metrics.AuthFailureTotal.Inc()
		c.send(&wire.ServerMessage{AuthFailure: &wire.AuthFailureMsg{
			Meta: c.meta(), Reason: "invalid username or password",
		}})
		return
	}
	c.authed(user, nil)
}

func registerFailureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrUsernameTaken):
		return "username already exists"
	case errors.Is(err, auth.ErrEmptyUsername):
		return "invalid username"
	default:
		return "registration failed"
	}
}

// authed finishes a successful RegisterUser/Login: records the
// connection's identity, advances to AUTHED, and replies with the
// user's channel list alongside AuthSuccess (scenario 1, spec §8).
func (c *conn) authed(user model.User, generatedPassword *string) {
	c.setUser(user.ID, user.Username)
	c.setState(stateAuthed)
	c.srv.registry.SetUser(c.id, user.Info())
	c.srv.metrics.AuthSuccessTotal.Inc()

	c.send(&wire.ServerMessage{AuthSuccess: &wire.AuthSuccessMsg{
		Meta: c.meta(), User: user.Info(), GeneratedPassword: generatedPassword,
	}})
	c.send(&wire.ServerMessage{ChannelList: &wire.ChannelListMsg{
		Meta: c.meta(), Channels: c.srv.channels.ListPublic(),
	}})
}

func (c *conn) handleListChannels(_ *wire.ListChannelsMsg) {
	c.send(&wire.ServerMessage{ChannelList: &wire.ChannelListMsg{
		Meta: c.meta(), Channels: c.srv.channels.ListPublic(),
	}})
}

func (c *conn) handleJoinChannel(m *wire.JoinChannelMsg) {
	userID, username, _ := c.user()

	wasNew := !c.srv.channels.Exists(m.Name)
	password := ""
	if m.Password != nil {
		password = *m.Password
	}

	channelID, _ := c.srv.channels.ChannelID(m.Name)
	if !wasNew && c.srv.bans.IsBanned(channelID, userID) {
		reason := "Permanently banned"
		if ban, ok := c.srv.bans.BanInfo(channelID, userID); ok && ban.ExpiresAt != nil {
			reason = "Banned until " + ban.ExpiresAt.Format(time.RFC3339)
		}
		c.send(&wire.ServerMessage{JoinFailure: &wire.JoinFailureMsg{
			Meta: c.meta(), Channel: m.Name, Reason: reason,
		}})
		return
	}

	info, err := c.srv.channels.Join(c.id, m.Name, password)
	if err != nil {
		c.send(&wire.ServerMessage{JoinFailure: &wire.JoinFailureMsg{
			Meta: c.meta(), Channel: m.Name, Reason: "invalid channel password",
		}})
		return
	}

	if wasNew {
		channelID, _ = c.srv.channels.ChannelID(m.Name)
		c.srv.admin.SetChannelCreator(channelID, userID)
		c.srv.metrics.ChannelsCreatedTotal.Inc()
	}

	if prev := c.channel(); prev != "" && prev != m.Name {
		c.srv.channels.Leave(c.id, prev)
		c.srv.broadcastUserLeft(prev, userID, username, c.id)
	}
	c.setChannel(m.Name)
	c.srv.registry.SetChannel(c.id, m.Name)

	role := c.srv.admin.Role(channelID, userID)
	info.UserRole = &role

	c.send(&wire.ServerMessage{JoinSuccess: &wire.JoinSuccessMsg{
		Meta: c.meta(), Channel: info,
	}})
	c.send(&wire.ServerMessage{HistoryChunk: &wire.HistoryChunkMsg{
		Meta: c.meta(), Channel: m.Name, Messages: c.srv.channels.History(m.Name, 50),
	}})

	c.srv.broadcastToChannel(m.Name, c.id, &wire.ServerMessage{UserJoined: &wire.UserJoinedMsg{
		Meta: c.meta(), Channel: m.Name, User: model.UserInfo{ID: userID, Username: username},
	}})
}

func (c *conn) handleSendMessage(m *wire.SendMessageMsg) {
	userID, username, _ := c.user()

	if c.channel() != m.Channel {
		c.send(&wire.ServerMessage{ProtocolError: &wire.ProtocolErrorMsg{
			Meta: c.meta(), Text: "not a member of that channel",
		}})
		return
	}

	channelID, _ := c.srv.channels.ChannelID(m.Channel)
	if !c.srv.admin.CanSendMessage(channelID, userID) {
		c.send(&wire.ServerMessage{AdminError: &wire.AdminErrorMsg{
			Meta: c.meta(), Reason: "you lack permission to send in this channel",
		}})
		return
	}

	var nonce []byte
	if hexNonce, ok := m.Metadata["nonce"]; ok {
		if decoded, err := hex.DecodeString(hexNonce); err == nil {
			nonce = decoded
		}
	}

	stored, err := c.srv.channels.AddMessage(m.Channel, userID, username, m.Content, nonce, m.Metadata)
	if err != nil {
		c.send(&wire.ServerMessage{ProtocolError: &wire.ProtocolErrorMsg{
			Meta: c.meta(), Text: "channel not found",
		}})
		return
	}

	c.srv.metrics.MessagesRelayedTotal.Inc()
	c.srv.broadcastToChannel(m.Channel, 0, &wire.ServerMessage{MessageReceived: &wire.MessageReceivedMsg{
		Meta: c.meta(), Channel: m.Channel, Message: stored,
	}})
}

func (c *conn) handleGetHistory(m *wire.GetHistoryMsg) {
	limit := int(m.Limit)
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	c.send(&wire.ServerMessage{HistoryChunk: &wire.HistoryChunkMsg{
		Meta: c.meta(), Channel: m.Channel, Messages: c.srv.channels.History(m.Channel, limit),
	}})
}

func (c *conn) handleDeleteMessage(m *wire.DeleteMessageMsg) {
	userID, username, _ := c.user()
	channelID, _ := c.srv.channels.ChannelID(m.Channel)
	if !c.srv.admin.HasPermission(channelID, userID, admin.PermDeleteMessage) {
		c.send(&wire.ServerMessage{AdminError: &wire.AdminErrorMsg{
			Meta: c.meta(), Reason: "you lack permission to delete messages",
		}})
		return
	}
	if !c.srv.channels.DeleteMessage(m.Channel, m.MessageID) {
		c.send(&wire.ServerMessage{AdminError: &wire.AdminErrorMsg{
			Meta: c.meta(), Reason: "message not found",
		}})
		return
	}
	c.srv.admin.LogAction(channelID, userID, username, "delete_message", m.Channel, "")
	c.srv.broadcastToChannel(m.Channel, 0, &wire.ServerMessage{MessageDeleted: &wire.MessageDeletedMsg{
		Meta: c.meta(), Channel: m.Channel, MessageID: m.MessageID, DeletedBy: username,
	}})
}

func (c *conn) handlePromoteUser(m *wire.PromoteUserMsg) {
	userID, username, _ := c.user()
	channelID, _ := c.srv.channels.ChannelID(m.Channel)
	if !c.srv.admin.HasPermission(channelID, userID, admin.PermPromoteUser) {
		c.send(&wire.ServerMessage{AdminError: &wire.AdminErrorMsg{
			Meta: c.meta(), Reason: "you lack permission to promote users",
		}})
		return
	}
	targetID, ok := c.srv.findUserIDByUsername(m.Username)
	if !ok {
		c.send(&wire.ServerMessage{AdminError: &wire.AdminErrorMsg{
			Meta: c.meta(), Reason: "user not found",
		}})
		return
	}
	newRole := model.ParseRole(m.Role)
	c.srv.admin.SetRole(channelID, targetID, newRole)
	c.srv.admin.LogAction(channelID, userID, username, "promote", m.Username, newRole.String())

	c.srv.broadcastToChannel(m.Channel, 0, &wire.ServerMessage{UserPromoted: &wire.UserPromotedMsg{
		Meta: c.meta(), Channel: m.Channel, UserID: targetID, Username: m.Username,
		NewRole: newRole, PromotedBy: username,
	}})
}

func (c *conn) handleDemoteUser(m *wire.DemoteUserMsg) {
	userID, username, _ := c.user()
	channelID, _ := c.srv.channels.ChannelID(m.Channel)
	if !c.srv.admin.HasPermission(channelID, userID, admin.PermManageRoles) &&
		!c.srv.admin.HasPermission(channelID, userID, admin.PermPromoteUser) {
		c.send(&wire.ServerMessage{AdminError: &wire.AdminErrorMsg{
			Meta: c.meta(), Reason: "you lack permission to demote users",
		}})
		return
	}
	targetID, ok := c.srv.findUserIDByUsername(m.Username)
	if !ok {
		c.send(&wire.ServerMessage{AdminError: &wire.AdminErrorMsg{
			Meta: c.meta(), Reason: "user not found",
		}})
		return
	}
	c.srv.admin.SetRole(channelID, targetID, model.RoleUser)
	c.srv.admin.LogAction(channelID, userID, username, "demote", m.Username, "")

	c.srv.broadcastToChannel(m.Channel, 0, &wire.ServerMessage{UserDemoted: &wire.UserDemotedMsg{
		Meta: c.meta(), Channel: m.Channel, UserID: targetID, Username: m.Username, DemotedBy: username,
	}})
}

func (c *conn) handleBanUser(m *wire.BanUserMsg) {
	userID, username, _ := c.user()
	channelID, _ := c.srv.channels.ChannelID(m.Channel)
	if !c.srv.admin.HasPermission(channelID, userID, admin.PermBanUser) {
		c.send(&wire.ServerMessage{AdminError: &wire.AdminErrorMsg{
			Meta: c.meta(), Reason: "you lack permission to ban users",
		}})
		return
	}
	targetID, ok := c.srv.findUserIDByUsername(m.Username)
	if !ok {
		c.send(&wire.ServerMessage{AdminError: &wire.AdminErrorMsg{
			Meta: c.meta(), Reason: "user not found",
		}})
		return
	}

	var duration time.Duration
	if m.DurationSeconds != nil {
		duration = time.Duration(*m.DurationSeconds) * time.Second
	}
	reason := ""
	if m.Reason != nil {
		reason = *m.Reason
	}
	expiresAt := c.srv.bans.BanUser(channelID, targetID, m.Username, username, duration, reason)

	for _, connID := range c.srv.registry.FindByUserID(targetID) {
		c.srv.channels.Leave(connID, m.Channel)
		c.srv.registry.SetChannel(connID, "")
	}

	c.srv.admin.LogAction(channelID, userID, username, "ban", m.Username, reason)
	c.srv.metrics.BansTotal.Inc()

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}
	c.srv.broadcastToChannel(m.Channel, 0, &wire.ServerMessage{UserBanned: &wire.UserBannedMsg{
		Meta: c.meta(), Channel: m.Channel, UserID: targetID, Username: m.Username,
		BannedUntil: expiresAt, BannedBy: username, Reason: reasonPtr,
	}})
	c.srv.registry.SendMany(c.srv.registry.FindByUserID(targetID), &wire.ServerMessage{SystemMessage: &wire.SystemMessageMsg{
		Meta: c.meta(), Text: "you have been banned from " + m.Channel,
	}})
}

func (c *conn) handleUnbanUser(m *wire.UnbanUserMsg) {
	userID, username, _ := c.user()
	channelID, _ := c.srv.channels.ChannelID(m.Channel)
	if !c.srv.admin.HasPermission(channelID, userID, admin.PermBanUser) {
		c.send(&wire.ServerMessage{AdminError: &wire.AdminErrorMsg{
			Meta: c.meta(), Reason: "you lack permission to unban users",
		}})
		return
	}
	targetID, ok := c.srv.findUserIDByUsername(m.Username)
	if !ok || !c.srv.bans.UnbanUser(channelID, targetID) {
		c.send(&wire.ServerMessage{AdminError: &wire.AdminErrorMsg{
			Meta: c.meta(), Reason: "no active ban for that user",
		}})
		return
	}
	c.srv.admin.LogAction(channelID, userID, username, "unban", m.Username, "")
	c.srv.broadcastToChannel(m.Channel, 0, &wire.ServerMessage{UserUnbanned: &wire.UserUnbannedMsg{
		Meta: c.meta(), Channel: m.Channel, Username: m.Username, UnbannedBy: username,
	}})
}

func (c *conn) handleKickUser(m *wire.KickUserMsg) {
	userID, username, _ := c.user()
	channelID, _ := c.srv.channels.ChannelID(m.Channel)
	if !c.srv.admin.HasPermission(channelID, userID, admin.PermKickUser) {
		c.send(&wire.ServerMessage{AdminError: &wire.AdminErrorMsg{
			Meta: c.meta(), Reason: "you lack permission to kick users",
		}})
		return
	}
	targetID, ok := c.srv.findUserIDByUsername(m.Username)
	if !ok {
		c.send(&wire.ServerMessage{AdminError: &wire.AdminErrorMsg{
			Meta: c.meta(), Reason: "user not found",
		}})
		return
	}

	for _, connID := range c.srv.registry.FindByUserID(targetID) {
		c.srv.channels.Leave(connID, m.Channel)
		c.srv.registry.SetChannel(connID, "")
	}
	c.srv.admin.LogAction(channelID, userID, username, "kick", m.Username, "")
	c.srv.metrics.KicksTotal.Inc()

	c.srv.broadcastToChannel(m.Channel, 0, &wire.ServerMessage{UserKicked: &wire.UserKickedMsg{
		Meta: c.meta(), Channel: m.Channel, UserID: targetID, Username: m.Username,
		KickedBy: username, Reason: m.Reason,
	}})
}

func (c *conn) handleListAdmins(m *wire.ListAdminsMsg) {
	channelID, _ := c.srv.channels.ChannelID(m.Channel)
	usernames := c.srv.usernameIndex()
	c.send(&wire.ServerMessage{AdminList: &wire.AdminListMsg{
		Meta: c.meta(), Channel: m.Channel, Admins: c.srv.admin.ListAdmins(channelID, usernames),
	}})
}

func (c *conn) handleListBans(m *wire.ListBansMsg) {
	userID, _, _ := c.user()
	channelID, _ := c.srv.channels.ChannelID(m.Channel)
	if !c.srv.admin.HasPermission(channelID, userID, admin.PermViewLogs) {
		c.send(&wire.ServerMessage{AdminError: &wire.AdminErrorMsg{
			Meta: c.meta(), Reason: "you lack permission to view bans",
		}})
		return
	}
	c.send(&wire.ServerMessage{BanList: &wire.BanListMsg{
		Meta: c.meta(), Channel: m.Channel, Bans: c.srv.bans.ListBans(channelID),
	}})
}

func (c *conn) handleViewLogs(m *wire.ViewLogsMsg) {
	userID, _, _ := c.user()
	channelID, _ := c.srv.channels.ChannelID(m.Channel)
	if !c.srv.admin.HasPermission(channelID, userID, admin.PermViewLogs) {
		c.send(&wire.ServerMessage{AdminError: &wire.AdminErrorMsg{
			Meta: c.meta(), Reason: "you lack permission to view logs",
		}})
		return
	}
	limit := int(m.Limit)
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	c.send(&wire.ServerMessage{LogList: &wire.LogListMsg{
		Meta: c.meta(), Channel: m.Channel, Logs: c.srv.admin.Logs(channelID, limit),
	}})
}

func (c *conn) handleChangeChannelType(m *wire.ChangeChannelTypeMsg) {
	userID, username, _ := c.user()
	channelID, _ := c.srv.channels.ChannelID(m.Channel)
	if !c.srv.admin.HasPermission(channelID, userID, admin.PermManageChannel) {
		c.send(&wire.ServerMessage{AdminError: &wire.AdminErrorMsg{
			Meta: c.meta(), Reason: "you lack permission to change channel type",
		}})
		return
	}
	newType := model.ParseChannelType(m.ChannelType)
	if err := c.srv.channels.SetChannelType(m.Channel, newType); err != nil {
		c.send(&wire.ServerMessage{AdminError: &wire.AdminErrorMsg{
			Meta: c.meta(), Reason: "channel not found",
		}})
		return
	}
	c.srv.admin.SetChannelType(channelID, newType)
	c.srv.admin.LogAction(channelID, userID, username, "change_channel_type", m.Channel, newType.String())

	c.srv.broadcastToChannel(m.Channel, 0, &wire.ServerMessage{ChannelTypeChanged: &wire.ChannelTypeChangedMsg{
		Meta: c.meta(), Channel: m.Channel, NewType: newType, ChangedBy: username,
	}})
}

func (c *conn) handleDeleteChannel(m *wire.DeleteChannelMsg) {
	userID, username, _ := c.user()
	channelID, _ := c.srv.channels.ChannelID(m.Channel)
	if c.srv.admin.Role(channelID, userID) < model.RoleSuperAdmin {
		c.send(&wire.ServerMessage{AdminError: &wire.AdminErrorMsg{
			Meta: c.meta(), Reason: "only a superadmin may delete a channel",
		}})
		return
	}

	members := c.srv.channels.Members(m.Channel)
	for _, memberID := range members {
		c.srv.registry.SetChannel(memberID, "")
	}

	c.srv.channels.DeleteChannel(m.Channel)
	c.srv.admin.RemoveChannel(channelID)
	c.srv.metrics.ChannelsDeletedTotal.Inc()

	c.srv.registry.SendMany(members, &wire.ServerMessage{ChannelDeleted: &wire.ChannelDeletedMsg{
		Meta: c.meta(), Channel: m.Channel, DeletedBy: username,
	}})
}

func (c *conn) handleSendDirectMessage(m *wire.SendDirectMessageMsg) {
	userID, username, _ := c.user()
	stored := c.srv.dmStore.StoreMessage(userID, m.ToUser, m.Content, m.Nonce)

	out := model.StoredMessage{
		ID: stored.ID, UserID: stored.SenderID, Username: username,
		Content: stored.Content, Nonce: stored.Nonce, Timestamp: stored.Timestamp, Metadata: m.Metadata,
	}
	c.srv.registry.SendMany(c.srv.registry.FindByUserID(m.ToUser), &wire.ServerMessage{
		DirectMessageReceived: &wire.DirectMessageReceivedMsg{Meta: c.meta(), Message: out},
	})
	c.send(&wire.ServerMessage{DirectMessageReceived: &wire.DirectMessageReceivedMsg{
		Meta: c.meta(), Message: out,
	}})
}

func (c *conn) handleGetDirectHistory(m *wire.GetDirectHistoryMsg) {
	userID, username, _ := c.user()
	limit := int(m.Limit)
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	history := c.srv.dmStore.History(userID, m.PeerUser, limit)

	out := make([]model.StoredMessage, len(history))
	for i, dmMsg := range history {
		senderName := username
		if dmMsg.SenderID != userID {
			senderName, _ = c.srv.auth.Username(dmMsg.SenderID)
		}
		out[i] = model.StoredMessage{
			ID: dmMsg.ID, UserID: dmMsg.SenderID, Username: senderName,
			Content: dmMsg.Content, Nonce: dmMsg.Nonce, Timestamp: dmMsg.Timestamp,
		}
	}
	c.send(&wire.ServerMessage{DirectHistoryChunk: &wire.DirectHistoryChunkMsg{
		Meta: c.meta(), PeerUser: m.PeerUser, Messages: out,
	}})
}

func (c *conn) handleOfferFile(m *wire.OfferFileMsg) {
	userID, _, _ := c.user()
	transfer := c.srv.transfers.Offer(userID, m.ToUser, m.Filename, m.Size, nil)
	c.srv.registry.SendMany(c.srv.registry.FindByUserID(m.ToUser), &wire.ServerMessage{
		FileOffered: &wire.FileOfferedMsg{
			Meta: c.meta(), TransferID: transfer.ID, FromUser: userID,
			Filename: m.Filename, Size: m.Size,
		},
	})
}

func (c *conn) handleRespondFile(m *wire.RespondFileMsg) {
	userID, _, _ := c.user()
	transfer, ok := c.srv.transfers.Get(m.TransferID)
	if !ok || transfer.RecipientID != userID {
		c.send(&wire.ServerMessage{ProtocolError: &wire.ProtocolErrorMsg{
			Meta: c.meta(), Text: "unknown file transfer",
		}})
		return
	}

	var status string
	if m.Accept {
		c.srv.transfers.Accept(m.TransferID)
		status = "accepted"
	} else {
		c.srv.transfers.Reject(m.TransferID)
		status = "rejected"
	}

	c.srv.registry.SendMany(c.srv.registry.FindByUserID(transfer.SenderID), &wire.ServerMessage{
		FileStatusChanged: &wire.FileStatusChangedMsg{Meta: c.meta(), TransferID: m.TransferID, Status: status},
	})
}

// broadcastToChannel sends msg to every current member of name except
// the connection id given in exclude (0 excludes nobody).
func (s *Server) broadcastToChannel(name string, exclude uint64, msg *wire.ServerMessage) {
	members := s.channels.Members(name)
	ids := make([]uint64, 0, len(members))
	for _, id := range members {
		if id != exclude {
			ids = append(ids, id)
		}
	}
	s.registry.SendMany(ids, msg)
}

func (s *Server) broadcastUserLeft(channelName string, userID uint64, username string, exclude uint64) {
	s.broadcastToChannel(channelName, exclude, &wire.ServerMessage{UserLeft: &wire.UserLeftMsg{
		Meta: s.meta(), Channel: channelName, User: model.UserInfo{ID: userID, Username: username},
	}})
}

func (s *Server) findUserIDByUsername(username string) (uint64, bool) {
	return s.auth.UserIDByUsername(username)
}

func (s *Server) usernameIndex() map[uint64]string {
	return s.auth.AllUsernames()
}
