package td

// UpdateAuthorizationState reports a login state transition.
type UpdateAuthorizationState struct {
	State AuthorizationState
}

func (*UpdateAuthorizationState) UpdateType() string { return "updateAuthorizationState" }

// UpdateGroupCall carries a fresh snapshot of a group call record.
type UpdateGroupCall struct {
	GroupCall *GroupCall
}

func (*UpdateGroupCall) UpdateType() string { return "updateGroupCall" }

// UpdateGroupCallParticipant carries a fresh per-participant record for a
// call.
type UpdateGroupCallParticipant struct {
	GroupCallID int32
	Participant *GroupCallParticipant
}

func (*UpdateGroupCallParticipant) UpdateType() string { return "updateGroupCallParticipant" }

// UpdateChatVideoChat reports that a chat's attached video chat changed.
// A zero GroupCallID means the video chat ended.
type UpdateChatVideoChat struct {
	ChatID      int64
	GroupCallID int32
}

func (*UpdateChatVideoChat) UpdateType() string { return "updateChatVideoChat" }

// UpdateChatTitle reports a chat title change.
type UpdateChatTitle struct {
	ChatID int64
	Title  string
}

func (*UpdateChatTitle) UpdateType() string { return "updateChatTitle" }

// UpdateSupergroup carries a fresh basic supergroup record.
type UpdateSupergroup struct {
	Supergroup *Supergroup
}

func (*UpdateSupergroup) UpdateType() string { return "updateSupergroup" }

// UpdateSupergroupFullInfo carries a fresh extended supergroup record.
type UpdateSupergroupFullInfo struct {
	SupergroupID int64
	FullInfo     *SupergroupFullInfo
}

func (*UpdateSupergroupFullInfo) UpdateType() string { return "updateSupergroupFullInfo" }

// UpdateNewMessage is received but out of scope for this client; the router
// acknowledges it through its default arm.
type UpdateNewMessage struct {
	ChatID int64
}

func (*UpdateNewMessage) UpdateType() string { return "updateNewMessage" }
