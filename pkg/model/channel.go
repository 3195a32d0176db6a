package model

// ChannelType gates who may send into a channel (see pkg/admin).
// Default is Public. Ordinals match the original protocol definition
// and are part of the wire contract — do not renumber.
type ChannelType int

const (
	ChannelPublic ChannelType = iota
	ChannelPrivate
	ChannelAdminOnly
	ChannelReadOnly
	ChannelAnnouncement
)

// String returns the wire/display name of the channel type.
func (t ChannelType) String() string {
	switch t {
	case ChannelPublic:
		return "public"
	case ChannelPrivate:
		return "private"
	case ChannelAdminOnly:
		return "admin_only"
	case ChannelReadOnly:
		return "read_only"
	case ChannelAnnouncement:
		return "announcement"
	default:
		return "unknown"
	}
}

// ParseChannelType converts a wire name back to a ChannelType, defaulting
// to ChannelPublic for unrecognized input.
func ParseChannelType(s string) ChannelType {
	switch s {
	case "private":
		return ChannelPrivate
	case "admin_only":
		return ChannelAdminOnly
	case "read_only":
		return ChannelReadOnly
	case "announcement":
		return ChannelAnnouncement
	default:
		return ChannelPublic
	}
}

// ChannelInfo is the client-facing snapshot of a channel, with no
// password hash or member connection-ids exposed.
type ChannelInfo struct {
	ID       uint64      `json:"id"`
	Name     string      `json:"name"`
	IsPublic bool        `json:"is_public"`
	Type     ChannelType `json:"channel_type"`
	UserRole *Role       `json:"user_role,omitempty"`
}
