package models

import "time"

// GroupCallInfo is an immutable snapshot of a group call. IsActive holds the
// composite predicate (raw active flag AND participant count > 0), not the
// raw flag; it is the authoritative "is this call live" value everywhere.
type GroupCallInfo struct {
	ID               int32  `json:"id"`
	Title            string `json:"title"`
	ParticipantCount int    `json:"participant_count"`
	IsActive         bool   `json:"is_active"`
	CanBeManaged     bool   `json:"can_be_managed"`
	IsJoined         bool   `json:"is_joined"`
	InviteLink       string `json:"invite_link,omitempty"`
}

// NewGroupCallInfo builds a snapshot from raw record fields, applying the
// composite-active predicate.
func NewGroupCallInfo(id int32, title string, participantCount int, rawActive, canBeManaged, isJoined bool, inviteLink string) GroupCallInfo {
	if participantCount < 0 {
		participantCount = 0
	}
	return GroupCallInfo{
		ID:               id,
		Title:            title,
		ParticipantCount: participantCount,
		IsActive:         rawActive && participantCount > 0,
		CanBeManaged:     canBeManaged,
		IsJoined:         isJoined,
		InviteLink:       inviteLink,
	}
}

// ParticipantKind tags whether a call participant is a user or a chat.
type ParticipantKind string

const (
	ParticipantUser ParticipantKind = "user"
	ParticipantChat ParticipantKind = "chat"
)

// ParticipantID identifies a call participant. Equality of kind and inner id
// is the sole identity used for diffing participant lists.
type ParticipantID struct {
	Kind ParticipantKind `json:"kind"`
	ID   int64           `json:"id"`
}

// Equal reports identity equality: matching tag and matching inner id.
func (p ParticipantID) Equal(other ParticipantID) bool {
	return p.Kind == other.Kind && p.ID == other.ID
}

// GroupCallParticipant is a resolved snapshot of one call participant.
// JoinedAt is best effort and may be the zero time.
type GroupCallParticipant struct {
	ID              ParticipantID `json:"participant_id"`
	DisplayName     string        `json:"display_name"`
	PhotoRef        string        `json:"photo_ref,omitempty"`
	IsMuted         bool          `json:"is_muted"`
	IsSpeaking      bool          `json:"is_speaking"`
	HasVideo        bool          `json:"has_video"`
	IsScreenSharing bool          `json:"is_screen_sharing"`
	JoinedAt        time.Time     `json:"joined_at,omitempty"`
}
