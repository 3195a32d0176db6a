package wire

import (
	"time"

	"github.com/darkrelay/darkrelay/pkg/model"
)

// MessageMeta is carried by every message in both directions. ID is
// monotonic per sender and exists for correlation and debugging; the
// server never trusts a client-supplied id for anything it assigns
// itself (e.g. a stored message's id).
type MessageMeta struct {
	ID        uint64    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// ClientMessage is the closed set of messages a client may send. Exactly
// one field is non-nil per frame; ReadClientMessage/WriteClientMessage
// round-trip this shape bit-exactly via JSON. Keep variant names and
// field layouts stable — they are part of the wire contract (§4.6).
type ClientMessage struct {
	Connect           *ConnectMsg           `json:"connect,omitempty"`
	Auth              *AuthMsg              `json:"auth,omitempty"`
	EcdhPublicKey     *EcdhPublicKeyMsg     `json:"ecdh_public_key,omitempty"`
	RegisterUser      *RegisterUserMsg      `json:"register_user,omitempty"`
	Login             *LoginMsg             `json:"login,omitempty"`
	JoinChannel       *JoinChannelMsg       `json:"join_channel,omitempty"`
	SendMessage       *SendMessageMsg       `json:"send_message,omitempty"`
	ListChannels      *ListChannelsMsg      `json:"list_channels,omitempty"`
	GetHistory        *GetHistoryMsg        `json:"get_history,omitempty"`
	DeleteMessage     *DeleteMessageMsg     `json:"delete_message,omitempty"`
	PromoteUser       *PromoteUserMsg       `json:"promote_user,omitempty"`
	DemoteUser        *DemoteUserMsg        `json:"demote_user,omitempty"`
	BanUser           *BanUserMsg           `json:"ban_user,omitempty"`
	UnbanUser         *UnbanUserMsg         `json:"unban_user,omitempty"`
	KickUser          *KickUserMsg          `json:"kick_user,omitempty"`
	ListAdmins        *ListAdminsMsg        `json:"list_admins,omitempty"`
	ListBans          *ListBansMsg          `json:"list_bans,omitempty"`
	ViewLogs          *ViewLogsMsg          `json:"view_logs,omitempty"`
	ChangeChannelType *ChangeChannelTypeMsg `json:"change_channel_type,omitempty"`
	DeleteChannel     *DeleteChannelMsg     `json:"delete_channel,omitempty"`
	Disconnect        *DisconnectMsg        `json:"disconnect,omitempty"`

	// Optional DM/file-transfer extension (SPEC_FULL.md §4.7).
	SendDirectMessage *SendDirectMessageMsg `json:"send_direct_message,omitempty"`
	GetDirectHistory  *GetDirectHistoryMsg  `json:"get_direct_history,omitempty"`
	OfferFile         *OfferFileMsg         `json:"offer_file,omitempty"`
	RespondFile       *RespondFileMsg       `json:"respond_file,omitempty"`
}

type ConnectMsg struct {
	Meta          MessageMeta `json:"meta"`
	ClientName    string      `json:"client_name,omitempty"`
	ClientVersion string      `json:"client_version,omitempty"`
}

type AuthMsg struct {
	Meta MessageMeta `json:"meta"`
	Key  string      `json:"key"`
}

type EcdhPublicKeyMsg struct {
	Meta      MessageMeta `json:"meta"`
	PublicKey []byte      `json:"public_key"`
}

type RegisterUserMsg struct {
	Meta     MessageMeta `json:"meta"`
	Username string      `json:"username"`
}

type LoginMsg struct {
	Meta     MessageMeta `json:"meta"`
	Username string      `json:"username"`
	Password string      `json:"password"`
}

type JoinChannelMsg struct {
	Meta     MessageMeta `json:"meta"`
	Name     string      `json:"name"`
	Password *string     `json:"password,omitempty"`
}

type SendMessageMsg struct {
	Meta     MessageMeta       `json:"meta"`
	Channel  string            `json:"channel"`
	Content  []byte            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type ListChannelsMsg struct {
	Meta MessageMeta `json:"meta"`
}

type GetHistoryMsg struct {
	Meta    MessageMeta `json:"meta"`
	Channel string      `json:"channel"`
	Limit   uint16      `json:"limit"`
}

type DeleteMessageMsg struct {
	Meta      MessageMeta `json:"meta"`
	Channel   string      `json:"channel"`
	MessageID uint64      `json:"message_id"`
}

type PromoteUserMsg struct {
	Meta     MessageMeta `json:"meta"`
	Channel  string      `json:"channel"`
	Username string      `json:"username"`
	Role     string      `json:"role"`
}

type DemoteUserMsg struct {
	Meta     MessageMeta `json:"meta"`
	Channel  string      `json:"channel"`
	Username string      `json:"username"`
}

type BanUserMsg struct {
	Meta            MessageMeta `json:"meta"`
	Channel         string      `json:"channel"`
	Username        string      `json:"username"`
	DurationSeconds *uint64     `json:"duration_seconds,omitempty"`
	Reason          *string     `json:"reason,omitempty"`
}

type UnbanUserMsg struct {
	Meta     MessageMeta `json:"meta"`
	Channel  string      `json:"channel"`
	Username string      `json:"username"`
}

type KickUserMsg struct {
	Meta     MessageMeta `json:"meta"`
	Channel  string      `json:"channel"`
	Username string      `json:"username"`
	Reason   *string     `json:"reason,omitempty"`
}

type ListAdminsMsg struct {
	Meta    MessageMeta `json:"meta"`
	Channel string      `json:"channel"`
}

type ListBansMsg struct {
	Meta    MessageMeta `json:"meta"`
	Channel string      `json:"channel"`
}

type ViewLogsMsg struct {
	Meta    MessageMeta `json:"meta"`
	Channel string      `json:"channel"`
	Limit   uint32      `json:"limit"`
}

type ChangeChannelTypeMsg struct {
	Meta        MessageMeta `json:"meta"`
	Channel     string      `json:"channel"`
	ChannelType string      `json:"channel_type"`
}

type DeleteChannelMsg struct {
	Meta    MessageMeta `json:"meta"`
	Channel string      `json:"channel"`
}

type DisconnectMsg struct {
	Meta MessageMeta `json:"meta"`
}

type SendDirectMessageMsg struct {
	Meta     MessageMeta       `json:"meta"`
	ToUser   uint64            `json:"to_user"`
	Content  []byte            `json:"content"`
	Nonce    []byte            `json:"nonce,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type GetDirectHistoryMsg struct {
	Meta     MessageMeta `json:"meta"`
	PeerUser uint64      `json:"peer_user"`
	Limit    uint16      `json:"limit"`
}

type OfferFileMsg struct {
	Meta     MessageMeta `json:"meta"`
	ToUser   uint64      `json:"to_user"`
	Filename string      `json:"filename"`
	Size     uint64      `json:"size"`
}

type RespondFileMsg struct {
	Meta       MessageMeta `json:"meta"`
	TransferID uint64      `json:"transfer_id"`
	Accept     bool        `json:"accept"`
}

// ServerMessage is the closed set of messages the server may send.
// Exactly one field is non-nil per frame.
type ServerMessage struct {
	AuthChallenge      *AuthChallengeMsg      `json:"auth_challenge,omitempty"`
	AuthSuccess        *AuthSuccessMsg        `json:"auth_success,omitempty"`
	AuthFailure        *AuthFailureMsg        `json:"auth_failure,omitempty"`
	EcdhAck            *EcdhAckMsg            `json:"ecdh_ack,omitempty"`
	ChannelList        *ChannelListMsg        `json:"channel_list,omitempty"`
	JoinSuccess        *JoinSuccessMsg        `json:"join_success,omitempty"`
	JoinFailure        *JoinFailureMsg        `json:"join_failure,omitempty"`
	MessageReceived    *MessageReceivedMsg    `json:"message_received,omitempty"`
	HistoryChunk       *HistoryChunkMsg       `json:"history_chunk,omitempty"`
	UserJoined         *UserJoinedMsg         `json:"user_joined,omitempty"`
	UserLeft           *UserLeftMsg           `json:"user_left,omitempty"`
	SystemMessage      *SystemMessageMsg      `json:"system_message,omitempty"`
	ProtocolError      *ProtocolErrorMsg      `json:"protocol_error,omitempty"`
	MessageDeleted     *MessageDeletedMsg     `json:"message_deleted,omitempty"`
	UserPromoted       *UserPromotedMsg       `json:"user_promoted,omitempty"`
	UserDemoted        *UserDemotedMsg        `json:"user_demoted,omitempty"`
	UserBanned         *UserBannedMsg         `json:"user_banned,omitempty"`
	UserUnbanned       *UserUnbannedMsg       `json:"user_unbanned,omitempty"`
	UserKicked         *UserKickedMsg         `json:"user_kicked,omitempty"`
	AdminList          *AdminListMsg          `json:"admin_list,omitempty"`
	BanList            *BanListMsg            `json:"ban_list,omitempty"`
	LogList            *LogListMsg            `json:"log_list,omitempty"`
	ChannelTypeChanged *ChannelTypeChangedMsg `json:"channel_type_changed,omitempty"`
	ChannelDeleted     *ChannelDeletedMsg     `json:"channel_deleted,omitempty"`
	AdminError         *AdminErrorMsg         `json:"admin_error,omitempty"`

	// Optional DM/file-transfer extension (SPEC_FULL.md §4.7).
	DirectMessageReceived *DirectMessageReceivedMsg `json:"direct_message_received,omitempty"`
	DirectHistoryChunk    *DirectHistoryChunkMsg    `json:"direct_history_chunk,omitempty"`
	FileOffered           *FileOfferedMsg           `json:"file_offered,omitempty"`
	FileStatusChanged     *FileStatusChangedMsg     `json:"file_status_changed,omitempty"`
}

type AuthChallengeMsg struct {
	Meta    MessageMeta `json:"meta"`
	Message string      `json:"message"`
}

type AuthSuccessMsg struct {
	Meta              MessageMeta    `json:"meta"`
	User              model.UserInfo `json:"user"`
	GeneratedPassword *string        `json:"generated_password,omitempty"`
}

type AuthFailureMsg struct {
	Meta   MessageMeta `json:"meta"`
	Reason string      `json:"reason"`
}

type EcdhAckMsg struct {
	Meta      MessageMeta `json:"meta"`
	PublicKey []byte      `json:"public_key"`
}

type ChannelListMsg struct {
	Meta     MessageMeta         `json:"meta"`
	Channels []model.ChannelInfo `json:"channels"`
}

type JoinSuccessMsg struct {
	Meta    MessageMeta       `json:"meta"`
	Channel model.ChannelInfo `json:"channel"`
}

type JoinFailureMsg struct {
	Meta    MessageMeta `json:"meta"`
	Channel string      `json:"channel"`
	Reason  string      `json:"reason"`
}

type MessageReceivedMsg struct {
	Meta    MessageMeta         `json:"meta"`
	Channel string              `json:"channel"`
	Message model.StoredMessage `json:"message"`
}

type HistoryChunkMsg struct {
	Meta     MessageMeta           `json:"meta"`
	Channel  string                `json:"channel"`
	Messages []model.StoredMessage `json:"messages"`
}

type UserJoinedMsg struct {
	Meta    MessageMeta    `json:"meta"`
	Channel string         `json:"channel"`
	User    model.UserInfo `json:"user"`
}

type UserLeftMsg struct {
	Meta    MessageMeta    `json:"meta"`
	Channel string         `json:"channel"`
	User    model.UserInfo `json:"user"`
}

type SystemMessageMsg struct {
	Meta MessageMeta `json:"meta"`
	Text string      `json:"text"`
}

type ProtocolErrorMsg struct {
	Meta MessageMeta `json:"meta"`
	Text string      `json:"text"`
}

type MessageDeletedMsg struct {
	Meta      MessageMeta `json:"meta"`
	Channel   string      `json:"channel"`
	MessageID uint64      `json:"message_id"`
	DeletedBy string      `json:"deleted_by"`
}

type UserPromotedMsg struct {
	Meta       MessageMeta `json:"meta"`
	Channel    string      `json:"channel"`
	UserID     uint64      `json:"user_id"`
	Username   string      `json:"username"`
	NewRole    model.Role  `json:"new_role"`
	PromotedBy string      `json:"promoted_by"`
}

type UserDemotedMsg struct {
	Meta      MessageMeta `json:"meta"`
	Channel   string      `json:"channel"`
	UserID    uint64      `json:"user_id"`
	Username  string      `json:"username"`
	DemotedBy string      `json:"demoted_by"`
}

type UserBannedMsg struct {
	Meta        MessageMeta `json:"meta"`
	Channel     string      `json:"channel"`
	UserID      uint64      `json:"user_id"`
	Username    string      `json:"username"`
	BannedUntil *time.Time  `json:"banned_until,omitempty"`
	BannedBy    string      `json:"banned_by"`
	Reason      *string     `json:"reason,omitempty"`
}

type UserUnbannedMsg struct {
	Meta       MessageMeta `json:"meta"`
	Channel    string      `json:"channel"`
	Username   string      `json:"username"`
	UnbannedBy string      `json:"unbanned_by"`
}

type UserKickedMsg struct {
	Meta     MessageMeta `json:"meta"`
	Channel  string      `json:"channel"`
	UserID   uint64      `json:"user_id"`
	Username string      `json:"username"`
	KickedBy string      `json:"kicked_by"`
	Reason   *string     `json:"reason,omitempty"`
}

type AdminListMsg struct {
	Meta    MessageMeta       `json:"meta"`
	Channel string            `json:"channel"`
	Admins  []model.AdminInfo `json:"admins"`
}

type BanListMsg struct {
	Meta    MessageMeta     `json:"meta"`
	Channel string          `json:"channel"`
	Bans    []model.BanInfo `json:"bans"`
}

type LogListMsg struct {
	Meta    MessageMeta      `json:"meta"`
	Channel string           `json:"channel"`
	Logs    []model.LogEntry `json:"logs"`
}

type ChannelTypeChangedMsg struct {
	Meta      MessageMeta       `json:"meta"`
	Channel   string            `json:"channel"`
	NewType   model.ChannelType `json:"new_type"`
	ChangedBy string            `json:"changed_by"`
}

type ChannelDeletedMsg struct {
	Meta      MessageMeta `json:"meta"`
	Channel   string      `json:"channel"`
	DeletedBy string      `json:"deleted_by"`
}

type AdminErrorMsg struct {
	Meta   MessageMeta `json:"meta"`
	Reason string      `json:"reason"`
}

type DirectMessageReceivedMsg struct {
	Meta    MessageMeta         `json:"meta"`
	Message model.StoredMessage `json:"message"`
}

type DirectHistoryChunkMsg struct {
	Meta     MessageMeta           `json:"meta"`
	PeerUser uint64                `json:"peer_user"`
	Messages []model.StoredMessage `json:"messages"`
}

type FileOfferedMsg struct {
	Meta       MessageMeta `json:"meta"`
	TransferID uint64      `json:"transfer_id"`
	FromUser   uint64      `json:"from_user"`
	Filename   string      `json:"filename"`
	Size       uint64      `json:"size"`
}

type FileStatusChangedMsg struct {
	Meta       MessageMeta `json:"meta"`
	TransferID uint64      `json:"transfer_id"`
	Status     string      `json:"status"`
}
