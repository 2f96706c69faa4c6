package calls

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"tglive/internal/models"
	"tglive/internal/observability"
	"tglive/internal/td"
)

// JoinState describes where a join attempt currently stands.
type JoinState string

const (
	JoinStateNotJoined JoinState = "not_joined"
	JoinStateJoining   JoinState = "joining"
	JoinStateJoined    JoinState = "joined"
	JoinStateFailed    JoinState = "failed"
)

const defaultJoinBackoff = 500 * time.Millisecond

// JoinGroupCall joins the given call as a muted listener. The sequence is:
// verify the call is still active, build a media payload, attempt a direct
// join (with a single retry on protocol errors), and fall back to the invite
// link when the direct path is rejected. "Already joined" responses count as
// success at every step.
func (s *Service) JoinGroupCall(ctx context.Context, channelID int64, callID int32) (*models.GroupCallInfo, error) {
	info, err := s.GetGroupCall(ctx, callID)
	if err != nil {
		observability.IncJoinAttempt("resolve_failed")
		return nil, err
	}
	if info == nil {
		observability.IncJoinAttempt("call_not_found")
		return nil, ErrCallNotFound
	}
	if !info.IsActive {
		observability.IncJoinAttempt("call_not_active")
		return nil, ErrCallNotActive
	}

	payload, err := s.media.JoinPayload(ctx, channelID, callID)
	if err != nil {
		observability.IncJoinAttempt("payload_failed")
		return nil, err
	}
	if payload == "" {
		observability.IncJoinAttempt("payload_failed")
		return nil, errors.New("calls: media transport produced an empty payload")
	}

	req := &td.JoinGroupCall{
		GroupCallID:   callID,
		ChatID:        channelID,
		AudioSourceID: newAudioSourceID(),
		Payload:       payload,
		IsMuted:       true,
		InviteHash:    InviteHash(info.InviteLink),
	}

	_, err = s.gw.Call(ctx, req)
	if err != nil && !alreadyJoined(err) {
		var tdErr *td.Error
		if errors.As(err, &tdErr) {
			s.log.Warn("direct join rejected, retrying",
				zap.Int32("call_id", callID),
				zap.Int("code", tdErr.Code),
				zap.String("message", tdErr.Message))
			if serr := sleep(ctx, s.backoff); serr != nil {
				observability.IncJoinAttempt("canceled")
				return nil, serr
			}
			_, err = s.gw.Call(ctx, req)
		}
	}

	if err != nil && !alreadyJoined(err) && info.InviteLink != "" {
		s.log.Info("falling back to invite link join", zap.Int32("call_id", callID))
		_, err = s.gw.Call(ctx, &td.JoinVideoChatByInviteLink{
			InviteLink:    info.InviteLink,
			AudioSourceID: req.AudioSourceID,
			Payload:       payload,
			IsMuted:       true,
		})
	}

	if err != nil && !alreadyJoined(err) {
		observability.IncJoinAttempt("failed")
		return nil, classify(err)
	}

	observability.IncJoinAttempt("joined")
	joined := *info
	joined.IsJoined = true
	return &joined, nil
}

// LeaveGroupCall leaves the call. Leaving a call we are not in is a no-op.
func (s *Service) LeaveGroupCall(ctx context.Context, callID int32) error {
	_, err := s.gw.Call(ctx, &td.LeaveGroupCall{GroupCallID: callID})
	if err == nil {
		return nil
	}
	var tdErr *td.Error
	if errors.As(err, &tdErr) && strings.Contains(tdErr.Message, "NOT_JOINED") {
		return nil
	}
	return classify(err)
}

// InviteHash extracts the invite hash from a t.me invite link. Returns ""
// when the link carries no hash.
func InviteHash(link string) string {
	const marker = "invite="
	idx := strings.Index(link, marker)
	if idx < 0 {
		return ""
	}
	hash := link[idx+len(marker):]
	if end := strings.IndexAny(hash, "&#"); end >= 0 {
		hash = hash[:end]
	}
	return hash
}

func alreadyJoined(err error) bool {
	var tdErr *td.Error
	if errors.As(err, &tdErr) {
		return strings.Contains(tdErr.Message, "ALREADY")
	}
	return err != nil && strings.Contains(err.Error(), "already joined")
}

func newAudioSourceID() int32 {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 1
	}
	id := int32(binary.BigEndian.Uint32(buf[:]) &^ (1 << 31))
	if id == 0 {
		id = 1
	}
	return id
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
