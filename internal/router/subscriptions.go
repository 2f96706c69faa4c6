package router

import (
	"sync"

	"tglive/internal/models"
	"tglive/internal/observability"
)

// ChannelSubscription is a live stream of events for one channel. Events
// are delivered at most once; a subscriber that falls behind its buffer
// loses events rather than stalling the dispatch loop.
type ChannelSubscription struct {
	router    *Router
	channelID int64
	ch        chan models.ChannelUpdate
	once      sync.Once
}

func (s *ChannelSubscription) Updates() <-chan models.ChannelUpdate { return s.ch }

// Cancel detaches the subscription and closes its channel. Safe to call
// more than once.
func (s *ChannelSubscription) Cancel() {
	s.once.Do(func() {
		s.router.mu.Lock()
		if set, ok := s.router.channelSubs[s.channelID]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(s.router.channelSubs, s.channelID)
			}
		}
		s.router.mu.Unlock()
		close(s.ch)
		observability.DecSubscription("channel")
	})
}

// CallSubscription is a live stream of events for one group call.
type CallSubscription struct {
	router *Router
	callID int32
	ch     chan models.GroupCallUpdate
	once   sync.Once
}

func (s *CallSubscription) Updates() <-chan models.GroupCallUpdate { return s.ch }

func (s *CallSubscription) Cancel() {
	s.once.Do(func() {
		s.router.mu.Lock()
		if set, ok := s.router.callSubs[s.callID]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(s.router.callSubs, s.callID)
			}
		}
		s.router.mu.Unlock()
		close(s.ch)
		observability.DecSubscription("call")
	})
}

// ObserveChannel subscribes to a channel's event stream. The stream starts
// empty: only events arriving after the call are delivered.
func (r *Router) ObserveChannel(channelID int64) *ChannelSubscription {
	sub := &ChannelSubscription{
		router:    r,
		channelID: channelID,
		ch:        make(chan models.ChannelUpdate, streamBuffer),
	}
	r.mu.Lock()
	set, ok := r.channelSubs[channelID]
	if !ok {
		set = make(map[*ChannelSubscription]struct{})
		r.channelSubs[channelID] = set
	}
	set[sub] = struct{}{}
	r.mu.Unlock()
	observability.IncSubscription("channel")
	return sub
}

// ObserveGroupCall subscribes to a call's event stream.
func (r *Router) ObserveGroupCall(callID int32) *CallSubscription {
	sub := &CallSubscription{
		router: r,
		callID: callID,
		ch:     make(chan models.GroupCallUpdate, streamBuffer),
	}
	r.mu.Lock()
	set, ok := r.callSubs[callID]
	if !ok {
		set = make(map[*CallSubscription]struct{})
		r.callSubs[callID] = set
	}
	set[sub] = struct{}{}
	r.mu.Unlock()
	observability.IncSubscription("call")
	return sub
}

// broadcastChannel fans an event out to every subscriber of the channel.
// The read lock is held across the sends so Cancel cannot close a channel
// mid-send; sends never block because the channels are buffered and a full
// buffer drops the event.
func (r *Router) broadcastChannel(channelID int64, upd models.ChannelUpdate) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for sub := range r.channelSubs[channelID] {
		select {
		case sub.ch <- upd:
		default:
			observability.IncUpdateDropped("subscriber_buffer_full")
		}
	}
}

func (r *Router) broadcastCall(callID int32, upd models.GroupCallUpdate) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for sub := range r.callSubs[callID] {
		select {
		case sub.ch <- upd:
		default:
			observability.IncUpdateDropped("subscriber_buffer_full")
		}
	}
}
