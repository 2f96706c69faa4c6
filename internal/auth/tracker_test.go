package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tglive/internal/td"
)

// staticClient answers the synchronous state query with a fixed object.
type staticClient struct {
	state td.AuthorizationState
	err   error
}

func (c *staticClient) Send(req td.Request, onResult func(td.Object), onError func(*td.Error)) error {
	return errors.New("not used")
}

func (c *staticClient) Execute(req td.Request) (td.Object, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.state, nil
}

func (c *staticClient) Close() error { return nil }

func TestCurrentUsesSynchronousFastPath(t *testing.T) {
	tracker := NewTracker(&staticClient{state: &td.AuthorizationStateReady{}}, zap.NewNop())

	state := tracker.Current(context.Background())

	assert.Equal(t, StateReady, state)
}

func TestCurrentFallsBackToNextTransition(t *testing.T) {
	tracker := NewTracker(&staticClient{err: errors.New("unavailable")}, zap.NewNop())

	go func() {
		time.Sleep(10 * time.Millisecond)
		tracker.Apply(&td.AuthorizationStateWaitCode{})
	}()

	state := tracker.Current(context.Background())

	assert.Equal(t, StateWaitCode, state)
}

func TestCurrentReturnsLastSeenOnTimeout(t *testing.T) {
	tracker := NewTracker(&staticClient{err: errors.New("unavailable")}, zap.NewNop())
	tracker.Apply(&td.AuthorizationStateWaitPassword{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	state := tracker.NextTransition(ctx, 20*time.Millisecond)

	assert.Equal(t, StateWaitPassword, state)
}

func TestApplyWakesAllWaiters(t *testing.T) {
	tracker := NewTracker(&staticClient{err: errors.New("unavailable")}, zap.NewNop())

	const n = 4
	results := make(chan State, n)
	for i := 0; i < n; i++ {
		go func() {
			results <- tracker.NextTransition(context.Background(), time.Second)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	tracker.Apply(&td.AuthorizationStateReady{})

	for i := 0; i < n; i++ {
		select {
		case state := <-results:
			assert.Equal(t, StateReady, state)
		case <-time.After(time.Second):
			t.Fatal("waiter was not woken")
		}
	}
}

func TestWaitReadyReturnsOnReady(t *testing.T) {
	tracker := NewTracker(&staticClient{state: &td.AuthorizationStateReady{}}, zap.NewNop())

	require.NoError(t, tracker.WaitReady(context.Background()))
}

func TestWaitReadyFollowsTransitions(t *testing.T) {
	tracker := NewTracker(&staticClient{err: errors.New("unavailable")}, zap.NewNop())

	go func() {
		tracker.Apply(&td.AuthorizationStateWaitCode{})
		time.Sleep(10 * time.Millisecond)
		tracker.Apply(&td.AuthorizationStateReady{})
	}()

	require.NoError(t, tracker.WaitReady(context.Background()))
}

func TestWaitReadyFailsOnClosed(t *testing.T) {
	tracker := NewTracker(&staticClient{err: errors.New("unavailable")}, zap.NewNop())
	tracker.Apply(&td.AuthorizationStateClosed{})

	require.Error(t, tracker.WaitReady(context.Background()))
}

func TestWaitReadyHonorsContext(t *testing.T) {
	tracker := NewTracker(&staticClient{err: errors.New("unavailable")}, zap.NewNop())
	tracker.Apply(&td.AuthorizationStateWaitPhoneNumber{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, tracker.WaitReady(ctx), context.DeadlineExceeded)
}

func TestFromObjectMapsAllStates(t *testing.T) {
	cases := []struct {
		in   td.AuthorizationState
		want State
	}{
		{&td.AuthorizationStateWaitPhoneNumber{}, StateWaitPhoneNumber},
		{&td.AuthorizationStateWaitCode{}, StateWaitCode},
		{&td.AuthorizationStateWaitPassword{}, StateWaitPassword},
		{&td.AuthorizationStateReady{}, StateReady},
		{&td.AuthorizationStateClosed{}, StateClosed},
		{nil, StateUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FromObject(tc.in))
	}
}
