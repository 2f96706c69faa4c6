package models

// ChannelUpdateType discriminates ChannelUpdate variants.
type ChannelUpdateType string

const (
	ChannelInfoChanged        ChannelUpdateType = "info_changed"
	ChannelMemberCountChanged ChannelUpdateType = "member_count_changed"
	ChannelVideoChatStarted   ChannelUpdateType = "video_chat_started"
	ChannelVideoChatEnded     ChannelUpdateType = "video_chat_ended"
)

// ChannelUpdate is an ephemeral per-channel event: produced, broadcast and
// consumed, never stored.
type ChannelUpdate struct {
	Type        ChannelUpdateType `json:"type"`
	Info        *ChannelInfo      `json:"info,omitempty"`
	MemberCount int               `json:"member_count,omitempty"`
	CallID      int32             `json:"call_id,omitempty"`
}

// NewChannelInfoChanged builds the InfoChanged variant.
func NewChannelInfoChanged(info ChannelInfo) ChannelUpdate {
	return ChannelUpdate{Type: ChannelInfoChanged, Info: &info}
}

// NewChannelMemberCountChanged builds the MemberCountChanged variant.
func NewChannelMemberCountChanged(count int) ChannelUpdate {
	return ChannelUpdate{Type: ChannelMemberCountChanged, MemberCount: count}
}

// NewChannelVideoChatStarted builds the VideoChatStarted variant.
func NewChannelVideoChatStarted(callID int32) ChannelUpdate {
	return ChannelUpdate{Type: ChannelVideoChatStarted, CallID: callID}
}

// NewChannelVideoChatEnded builds the VideoChatEnded variant.
func NewChannelVideoChatEnded() ChannelUpdate {
	return ChannelUpdate{Type: ChannelVideoChatEnded}
}

// GroupCallUpdateType discriminates GroupCallUpdate variants.
type GroupCallUpdateType string

const (
	CallParticipantJoined        GroupCallUpdateType = "participant_joined"
	CallParticipantLeft          GroupCallUpdateType = "participant_left"
	CallParticipantStatusChanged GroupCallUpdateType = "participant_status_changed"
	CallStatusChanged            GroupCallUpdateType = "status_changed"
	CallEnded                    GroupCallUpdateType = "call_ended"
)

// GroupCallUpdate is an ephemeral per-call event.
type GroupCallUpdate struct {
	Type          GroupCallUpdateType   `json:"type"`
	Participant   *GroupCallParticipant `json:"participant,omitempty"`
	ParticipantID *ParticipantID        `json:"participant_id,omitempty"`
	Call          *GroupCallInfo        `json:"call,omitempty"`
}

// NewParticipantJoined builds the ParticipantJoined variant.
func NewParticipantJoined(p GroupCallParticipant) GroupCallUpdate {
	return GroupCallUpdate{Type: CallParticipantJoined, Participant: &p}
}

// NewParticipantLeft builds the ParticipantLeft variant.
func NewParticipantLeft(id ParticipantID) GroupCallUpdate {
	return GroupCallUpdate{Type: CallParticipantLeft, ParticipantID: &id}
}

// NewParticipantStatusChanged builds the ParticipantStatusChanged variant.
func NewParticipantStatusChanged(p GroupCallParticipant) GroupCallUpdate {
	return GroupCallUpdate{Type: CallParticipantStatusChanged, Participant: &p}
}

// NewCallStatusChanged builds the StatusChanged variant.
func NewCallStatusChanged(call GroupCallInfo) GroupCallUpdate {
	return GroupCallUpdate{Type: CallStatusChanged, Call: &call}
}

// NewCallEnded builds the CallEnded variant.
func NewCallEnded() GroupCallUpdate {
	return GroupCallUpdate{Type: CallEnded}
}
