// Package calls resolves public channels and drives group call membership
// on top of the request gateway.
package calls

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"tglive/internal/gateway"
	"tglive/internal/media"
	"tglive/internal/models"
	"tglive/internal/td"
)

// Core is the surface handlers and the presenter boundary consume.
type Core interface {
	GetChannel(ctx context.Context, username string) (models.ChannelInfo, error)
	GetChannelFullInfo(ctx context.Context, channelID int64) (models.ChannelInfo, error)
	GetGroupCall(ctx context.Context, callID int32) (*models.GroupCallInfo, error)
	JoinGroupCall(ctx context.Context, channelID int64, callID int32) (*models.GroupCallInfo, error)
	LeaveGroupCall(ctx context.Context, callID int32) error
}

type Service struct {
	gw      *gateway.Gateway
	media   media.Transport
	log     *zap.Logger
	backoff time.Duration
}

var _ Core = (*Service)(nil)

func NewService(gw *gateway.Gateway, transport media.Transport, log *zap.Logger, joinBackoff time.Duration) *Service {
	if joinBackoff <= 0 {
		joinBackoff = defaultJoinBackoff
	}
	return &Service{gw: gw, media: transport, log: log, backoff: joinBackoff}
}

// GetChannel resolves a public username to channel info. The username is
// validated locally first; invalid input never reaches the backend.
func (s *Service) GetChannel(ctx context.Context, username string) (models.ChannelInfo, error) {
	normalized, err := ValidateUsername(username)
	if err != nil {
		return models.ChannelInfo{}, err
	}

	obj, err := s.gw.Call(ctx, &td.SearchPublicChat{Username: normalized})
	if err != nil {
		return models.ChannelInfo{}, classify(err)
	}
	chat, ok := obj.(*td.Chat)
	if !ok {
		return models.ChannelInfo{}, ErrChannelNotFound
	}
	return s.channelInfo(ctx, chat)
}

// GetChannelFullInfo re-resolves an already known channel by chat id.
func (s *Service) GetChannelFullInfo(ctx context.Context, channelID int64) (models.ChannelInfo, error) {
	obj, err := s.gw.Call(ctx, &td.GetChat{ChatID: channelID})
	if err != nil {
		return models.ChannelInfo{}, classify(err)
	}
	chat, ok := obj.(*td.Chat)
	if !ok {
		return models.ChannelInfo{}, ErrChannelNotFound
	}
	return s.channelInfo(ctx, chat)
}

// channelInfo assembles the snapshot. Supergroup and full-info lookups are
// best effort: a failure degrades the result instead of failing the whole
// resolution, since the base chat data is already in hand.
func (s *Service) channelInfo(ctx context.Context, chat *td.Chat) (models.ChannelInfo, error) {
	super, ok := chat.Type.(*td.ChatTypeSupergroup)
	if !ok || !super.IsChannel {
		return models.ChannelInfo{}, ErrNotAChannel
	}

	var (
		username    string
		memberCount int
		description string
		photoRef    string
	)
	if chat.Photo != nil {
		photoRef = chat.Photo.RemoteFileID
	}

	if obj, err := s.gw.Call(ctx, &td.GetSupergroup{SupergroupID: super.SupergroupID}); err == nil {
		if sg, ok := obj.(*td.Supergroup); ok {
			username = sg.Username
			memberCount = sg.MemberCount
		}
	} else {
		s.log.Debug("supergroup lookup degraded", zap.Int64("chat_id", chat.ID), zap.Error(err))
	}

	if obj, err := s.gw.Call(ctx, &td.GetSupergroupFullInfo{SupergroupID: super.SupergroupID}); err == nil {
		if full, ok := obj.(*td.SupergroupFullInfo); ok {
			description = full.Description
			if full.MemberCount > 0 {
				memberCount = full.MemberCount
			}
		}
	} else {
		s.log.Debug("full info lookup degraded", zap.Int64("chat_id", chat.ID), zap.Error(err))
	}

	var activeCallID int32
	if chat.VideoChat != nil {
		activeCallID = chat.VideoChat.GroupCallID
	}
	return models.NewChannelInfo(chat.ID, chat.Title, username, description, memberCount, photoRef, activeCallID), nil
}

// GetGroupCall fetches call state. A call the backend no longer knows about
// yields (nil, nil): callers treat absence as "no call", not as a failure.
func (s *Service) GetGroupCall(ctx context.Context, callID int32) (*models.GroupCallInfo, error) {
	obj, err := s.gw.Call(ctx, &td.GetGroupCall{GroupCallID: callID})
	if err != nil {
		var tdErr *td.Error
		if errors.As(err, &tdErr) && (tdErr.Code == 404 || strings.Contains(tdErr.Message, "GROUPCALL")) {
			return nil, nil
		}
		return nil, classify(err)
	}
	call, ok := obj.(*td.GroupCall)
	if !ok {
		return nil, nil
	}
	info := models.NewGroupCallInfo(call.ID, call.Title, call.ParticipantCount, call.IsActive, call.CanBeManaged, call.IsJoined, call.InviteLink)
	return &info, nil
}

// ResolveParticipant enriches a raw participant with display data. Name and
// photo lookups degrade to zero values on failure.
func (s *Service) ResolveParticipant(ctx context.Context, p *td.GroupCallParticipant) models.GroupCallParticipant {
	out := models.GroupCallParticipant{
		ID:              SenderIdentity(p.ParticipantID),
		IsMuted:         p.IsMuted,
		IsSpeaking:      p.IsSpeaking,
		HasVideo:        p.HasVideo,
		IsScreenSharing: p.IsScreenSharing,
	}
	if p.JoinedDate > 0 {
		out.JoinedAt = time.Unix(p.JoinedDate, 0).UTC()
	}

	switch out.ID.Kind {
	case models.ParticipantUser:
		if obj, err := s.gw.Call(ctx, &td.GetUser{UserID: out.ID.ID}); err == nil {
			if user, ok := obj.(*td.User); ok {
				out.DisplayName = strings.TrimSpace(user.FirstName + " " + user.LastName)
				if user.ProfilePhoto != nil {
					out.PhotoRef = user.ProfilePhoto.RemoteFileID
				}
			}
		}
	case models.ParticipantChat:
		if obj, err := s.gw.Call(ctx, &td.GetChat{ChatID: out.ID.ID}); err == nil {
			if chat, ok := obj.(*td.Chat); ok {
				out.DisplayName = chat.Title
				if chat.Photo != nil {
					out.PhotoRef = chat.Photo.RemoteFileID
				}
			}
		}
	}
	return out
}

// SenderIdentity maps a message sender to a participant identity.
func SenderIdentity(sender td.MessageSender) models.ParticipantID {
	switch s := sender.(type) {
	case *td.MessageSenderUser:
		return models.ParticipantID{Kind: models.ParticipantUser, ID: s.UserID}
	case *td.MessageSenderChat:
		return models.ParticipantID{Kind: models.ParticipantChat, ID: s.ChatID}
	default:
		return models.ParticipantID{}
	}
}
