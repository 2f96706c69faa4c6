// Package auth tracks the backend client's authorization state from the
// distinguished update subtype and answers "where is login at" queries.
package auth

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"tglive/internal/td"
)

// State is the login progress state.
type State string

const (
	StateUnknown         State = "unknown"
	StateWaitPhoneNumber State = "wait_phone_number"
	StateWaitCode        State = "wait_code"
	StateWaitPassword    State = "wait_password"
	StateReady           State = "ready"
	StateClosed          State = "closed"
)

// fastPathWait bounds the wait for the next asynchronous transition when the
// synchronous query is inconclusive.
const fastPathWait = 2 * time.Second

// Tracker holds the last observed authorization state and wakes waiters on
// transitions. It is fed by the update router.
type Tracker struct {
	client td.Client
	log    *zap.Logger

	mu      sync.Mutex
	current State
	waiters []chan State
}

func NewTracker(client td.Client, log *zap.Logger) *Tracker {
	return &Tracker{
		client:  client,
		log:     log,
		current: StateUnknown,
	}
}

// Apply records a state transition and wakes every pending waiter.
func (t *Tracker) Apply(raw td.AuthorizationState) {
	state := FromObject(raw)

	t.mu.Lock()
	t.current = state
	waiters := t.waiters
	t.waiters = nil
	t.mu.Unlock()

	t.log.Debug("authorization state changed", zap.String("state", string(state)))
	for _, w := range waiters {
		w <- state
	}
}

// Current asks the backend synchronously for the authorization state; if
// that query is inconclusive it falls back to awaiting the next asynchronous
// transition, bounded by a short timeout, and finally to the last state seen.
func (t *Tracker) Current(ctx context.Context) State {
	if obj, err := t.client.Execute(&td.GetAuthorizationState{}); err == nil {
		if raw, ok := obj.(td.AuthorizationState); ok {
			state := FromObject(raw)
			t.mu.Lock()
			t.current = state
			t.mu.Unlock()
			return state
		}
	}
	return t.NextTransition(ctx, fastPathWait)
}

// NextTransition waits up to wait for the next state transition and returns
// it; on timeout or cancellation it returns the last state seen. This is the
// bounded-wait-with-fallback primitive reused by WaitReady.
func (t *Tracker) NextTransition(ctx context.Context, wait time.Duration) State {
	ch := make(chan State, 1)
	t.mu.Lock()
	t.waiters = append(t.waiters, ch)
	t.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case state := <-ch:
		return state
	case <-timer.C:
	case <-ctx.Done():
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.removeWaiterLocked(ch)
	return t.current
}

func (t *Tracker) removeWaiterLocked(ch chan State) {
	for i, w := range t.waiters {
		if w == ch {
			t.waiters = append(t.waiters[:i], t.waiters[i+1:]...)
			return
		}
	}
}

// WaitReady blocks until the terminal Ready state, the Closed sink, or ctx
// cancellation.
func (t *Tracker) WaitReady(ctx context.Context) error {
	for {
		t.mu.Lock()
		current := t.current
		t.mu.Unlock()

		// Before the first transition arrives the tracker knows nothing;
		// ask the backend directly rather than waiting for an update that
		// may never come.
		if current == StateUnknown {
			current = t.Current(ctx)
		}

		switch current {
		case StateReady:
			return nil
		case StateClosed:
			return context.Canceled
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		t.NextTransition(ctx, fastPathWait)
	}
}

// FromObject maps the protocol state object onto the tracker's state enum;
// unrecognized objects land in the Unknown sink.
func FromObject(raw td.AuthorizationState) State {
	switch raw.(type) {
	case *td.AuthorizationStateWaitPhoneNumber:
		return StateWaitPhoneNumber
	case *td.AuthorizationStateWaitCode:
		return StateWaitCode
	case *td.AuthorizationStateWaitPassword:
		return StateWaitPassword
	case *td.AuthorizationStateReady:
		return StateReady
	case *td.AuthorizationStateClosed:
		return StateClosed
	default:
		return StateUnknown
	}
}
