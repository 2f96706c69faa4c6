package models

import "time"

// ChannelInfo is an immutable snapshot of a public channel. Snapshots are
// replaced wholesale on every fetch or update-driven recomputation, never
// mutated in place.
type ChannelInfo struct {
	ID                 int64  `json:"id"`
	Title              string `json:"title"`
	Username           string `json:"username,omitempty"`
	Description        string `json:"description,omitempty"`
	MemberCount        int    `json:"member_count"`
	PhotoRef           string `json:"photo_ref,omitempty"`
	HasActiveVideoChat bool   `json:"has_active_video_chat"`
	ActiveVideoChatID  int32  `json:"active_video_chat_id,omitempty"`
}

// NewChannelInfo builds a snapshot, enforcing that ActiveVideoChatID is set
// iff HasActiveVideoChat is true.
func NewChannelInfo(id int64, title, username, description string, memberCount int, photoRef string, activeVideoChatID int32) ChannelInfo {
	if memberCount < 0 {
		memberCount = 0
	}
	return ChannelInfo{
		ID:                 id,
		Title:              title,
		Username:           username,
		Description:        description,
		MemberCount:        memberCount,
		PhotoRef:           photoRef,
		HasActiveVideoChat: activeVideoChatID != 0,
		ActiveVideoChatID:  activeVideoChatID,
	}
}

// ChannelLookup records a successful username resolution for the recents
// list. Convenience data only; losing it does not affect call state.
type ChannelLookup struct {
	Username    string    `db:"username" json:"username"`
	ChannelID   int64     `db:"channel_id" json:"channel_id"`
	Title       string    `db:"title" json:"title"`
	MemberCount int       `db:"member_count" json:"member_count"`
	LookedUpAt  time.Time `db:"looked_up_at" json:"looked_up_at"`
}
