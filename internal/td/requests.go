package td

// GetAuthorizationState queries the current login state. Supported by
// Execute as a synchronous local query.
type GetAuthorizationState struct{}

func (*GetAuthorizationState) RequestType() string { return "getAuthorizationState" }

// SearchPublicChat resolves a public username to a chat record.
type SearchPublicChat struct {
	Username string
}

func (*SearchPublicChat) RequestType() string { return "searchPublicChat" }

// GetChat fetches the basic chat record.
type GetChat struct {
	ChatID int64
}

func (*GetChat) RequestType() string { return "getChat" }

// GetSupergroup fetches the basic supergroup record.
type GetSupergroup struct {
	SupergroupID int64
}

func (*GetSupergroup) RequestType() string { return "getSupergroup" }

// GetSupergroupFullInfo fetches the extended supergroup record.
type GetSupergroupFullInfo struct {
	SupergroupID int64
}

func (*GetSupergroupFullInfo) RequestType() string { return "getSupergroupFullInfo" }

// GetGroupCall fetches the raw group call record.
type GetGroupCall struct {
	GroupCallID int32
}

func (*GetGroupCall) RequestType() string { return "getGroupCall" }

// GetUser fetches the basic user record.
type GetUser struct {
	UserID int64
}

func (*GetUser) RequestType() string { return "getUser" }

// JoinGroupCall joins a video chat bound to a chat and call id. Payload must
// be a non-empty media transport description; the protocol rejects empty
// payloads. InviteHash is optional.
type JoinGroupCall struct {
	GroupCallID   int32
	ChatID        int64
	AudioSourceID int32
	Payload       string
	IsMuted       bool
	InviteHash    string
}

func (*JoinGroupCall) RequestType() string { return "joinGroupCall" }

// JoinVideoChatByInviteLink is the link-bound join entry point, applicable
// when an invite link for the call is known.
type JoinVideoChatByInviteLink struct {
	InviteLink    string
	AudioSourceID int32
	Payload       string
	IsMuted       bool
}

func (*JoinVideoChatByInviteLink) RequestType() string { return "joinVideoChatByInviteLink" }

// LeaveGroupCall leaves a previously joined call.
type LeaveGroupCall struct {
	GroupCallID int32
}

func (*LeaveGroupCall) RequestType() string { return "leaveGroupCall" }
