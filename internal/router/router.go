// Package router dispatches raw backend updates to keyed subscribers.
// Route is called from a single goroutine (the client's handler), which
// gives every subscriber a per-key ordered view of events.
package router

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"tglive/internal/auth"
	"tglive/internal/calls"
	"tglive/internal/models"
	"tglive/internal/observability"
	"tglive/internal/td"
)

const streamBuffer = 32

const resolveTimeout = 10 * time.Second

// Resolver supplies the lookups the router needs to turn raw updates into
// presentable events. Implemented by the calls service.
type Resolver interface {
	GetChannelFullInfo(ctx context.Context, channelID int64) (models.ChannelInfo, error)
	ResolveParticipant(ctx context.Context, p *td.GroupCallParticipant) models.GroupCallParticipant
}

type Router struct {
	log      *zap.Logger
	resolver Resolver
	auth     *auth.Tracker
	paused   atomic.Bool

	mu          sync.RWMutex
	channelSubs map[int64]map[*ChannelSubscription]struct{}
	callSubs    map[int32]map[*CallSubscription]struct{}

	// seen tracks participants per call so join and leave events can be
	// synthesized from bare participant updates.
	seen map[int32]map[models.ParticipantID]struct{}
}

func New(log *zap.Logger) *Router {
	return &Router{
		log:         log,
		channelSubs: make(map[int64]map[*ChannelSubscription]struct{}),
		callSubs:    make(map[int32]map[*CallSubscription]struct{}),
		seen:        make(map[int32]map[models.ParticipantID]struct{}),
	}
}

// SetResolver and SetAuth break the construction cycle: the client needs
// the router's handler before the services built on the client exist.
func (r *Router) SetResolver(res Resolver) { r.resolver = res }

func (r *Router) SetAuth(tracker *auth.Tracker) { r.auth = tracker }

// Pause stops event delivery. Updates arriving while paused are dropped,
// not buffered; Resume delivers only what comes after it.
func (r *Router) Pause() { r.paused.Store(true) }

func (r *Router) Resume() { r.paused.Store(false) }

func (r *Router) Paused() bool { return r.paused.Load() }

// Route is the client's update handler. A panic in one update's handling
// never takes down the dispatch loop.
func (r *Router) Route(upd td.Update) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("panic while routing update",
				zap.String("update_type", upd.UpdateType()),
				zap.Any("panic", rec))
			observability.IncUpdateDropped("panic")
		}
	}()

	if r.paused.Load() {
		observability.IncUpdateDropped("paused")
		return
	}
	observability.IncUpdateRouted(upd.UpdateType())

	switch u := upd.(type) {
	case *td.UpdateAuthorizationState:
		if r.auth != nil {
			r.auth.Apply(u.State)
		}
	case *td.UpdateGroupCall:
		r.routeGroupCall(u)
	case *td.UpdateGroupCallParticipant:
		r.routeParticipant(u)
	case *td.UpdateChatVideoChat:
		r.routeVideoChat(u)
	case *td.UpdateChatTitle:
		r.routeChannelChange(u.ChatID)
	case *td.UpdateSupergroupFullInfo:
		r.broadcastChannel(u.SupergroupID, models.NewChannelMemberCountChanged(u.FullInfo.MemberCount))
	case *td.UpdateSupergroup:
		r.broadcastChannel(u.Supergroup.ID, models.NewChannelMemberCountChanged(u.Supergroup.MemberCount))
	default:
		r.log.Debug("unhandled update", zap.String("update_type", upd.UpdateType()))
	}
}

func (r *Router) routeGroupCall(u *td.UpdateGroupCall) {
	call := u.GroupCall
	info := models.NewGroupCallInfo(call.ID, call.Title, call.ParticipantCount, call.IsActive, call.CanBeManaged, call.IsJoined, call.InviteLink)

	r.broadcastCall(info.ID, models.NewCallStatusChanged(info))
	if !info.IsActive {
		// A call that went inactive is over from the subscriber's point of
		// view, whatever the raw flag said. Emit the terminal event too and
		// forget its participants.
		r.broadcastCall(info.ID, models.NewCallEnded())
		r.mu.Lock()
		delete(r.seen, info.ID)
		r.mu.Unlock()
	}
}

func (r *Router) routeParticipant(u *td.UpdateGroupCallParticipant) {
	p := u.Participant
	id := calls.SenderIdentity(p.ParticipantID)
	if id.Kind == "" {
		observability.IncUpdateDropped("unknown_participant")
		return
	}

	// Empty order means the participant left the call.
	if p.Order == "" {
		r.mu.Lock()
		if set, ok := r.seen[u.GroupCallID]; ok {
			delete(set, id)
		}
		r.mu.Unlock()
		r.broadcastCall(u.GroupCallID, models.NewParticipantLeft(id))
		return
	}

	var resolved models.GroupCallParticipant
	if r.resolver != nil {
		ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
		resolved = r.resolver.ResolveParticipant(ctx, p)
		cancel()
	} else {
		resolved = models.GroupCallParticipant{ID: id}
	}

	r.mu.Lock()
	set, ok := r.seen[u.GroupCallID]
	if !ok {
		set = make(map[models.ParticipantID]struct{})
		r.seen[u.GroupCallID] = set
	}
	_, known := set[id]
	set[id] = struct{}{}
	r.mu.Unlock()

	if known {
		r.broadcastCall(u.GroupCallID, models.NewParticipantStatusChanged(resolved))
	} else {
		r.broadcastCall(u.GroupCallID, models.NewParticipantJoined(resolved))
	}
}

func (r *Router) routeVideoChat(u *td.UpdateChatVideoChat) {
	if u.GroupCallID != 0 {
		r.broadcastChannel(u.ChatID, models.NewChannelVideoChatStarted(u.GroupCallID))
	} else {
		r.broadcastChannel(u.ChatID, models.NewChannelVideoChatEnded())
	}
}

func (r *Router) routeChannelChange(chatID int64) {
	if r.resolver == nil {
		return
	}
	if !r.hasChannelSubs(chatID) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	info, err := r.resolver.GetChannelFullInfo(ctx, chatID)
	cancel()
	if err != nil {
		r.log.Warn("channel refresh failed", zap.Int64("chat_id", chatID), zap.Error(err))
		observability.IncUpdateDropped("resolve_failed")
		return
	}
	r.broadcastChannel(chatID, models.NewChannelInfoChanged(info))
}

func (r *Router) hasChannelSubs(chatID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channelSubs[chatID]) > 0
}
