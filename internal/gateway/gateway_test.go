package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tglive/internal/td"
)

// callbackClient hands the registered callbacks to the test so resolution
// timing can be controlled precisely.
type callbackClient struct {
	mu       sync.Mutex
	sendErr  error
	onResult func(td.Object)
	onError  func(*td.Error)
}

func (c *callbackClient) Send(req td.Request, onResult func(td.Object), onError func(*td.Error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.onResult = onResult
	c.onError = onError
	return nil
}

func (c *callbackClient) resultFn() func(td.Object) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onResult
}

func (c *callbackClient) errorFn() func(*td.Error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.onError
}

func (c *callbackClient) Execute(req td.Request) (td.Object, error) { return nil, nil }

func (c *callbackClient) Close() error { return nil }

func TestCallResolvesWithResult(t *testing.T) {
	client := &callbackClient{}
	gw := New(client, zap.NewNop(), time.Second)

	done := make(chan struct{})
	var obj td.Object
	var err error
	go func() {
		obj, err = gw.Call(context.Background(), &td.GetChat{ChatID: 1})
		close(done)
	}()

	require.Eventually(t, func() bool { return client.resultFn() != nil }, time.Second, time.Millisecond)
	client.resultFn()(&td.Text{Text: "hello"})
	<-done

	require.NoError(t, err)
	text, ok := obj.(*td.Text)
	require.True(t, ok)
	assert.Equal(t, "hello", text.Text)
	assert.Equal(t, 0, gw.Pending())
}

func TestCallResolvesWithProtocolError(t *testing.T) {
	client := &callbackClient{}
	gw := New(client, zap.NewNop(), time.Second)

	done := make(chan struct{})
	var err error
	go func() {
		_, err = gw.Call(context.Background(), &td.GetChat{ChatID: 1})
		close(done)
	}()

	require.Eventually(t, func() bool { return client.errorFn() != nil }, time.Second, time.Millisecond)
	client.errorFn()(&td.Error{Code: 404, Message: "CHAT_NOT_FOUND"})
	<-done

	var tdErr *td.Error
	require.ErrorAs(t, err, &tdErr)
	assert.Equal(t, 404, tdErr.Code)
	assert.Equal(t, 0, gw.Pending())
}

func TestCallSubstitutesNilProtocolError(t *testing.T) {
	client := &callbackClient{}
	gw := New(client, zap.NewNop(), time.Second)

	done := make(chan struct{})
	var err error
	go func() {
		_, err = gw.Call(context.Background(), &td.GetChat{ChatID: 1})
		close(done)
	}()

	require.Eventually(t, func() bool { return client.errorFn() != nil }, time.Second, time.Millisecond)
	client.errorFn()(nil)
	<-done

	// A nil *td.Error from the client must still surface as a usable
	// protocol error, never as a typed-nil that callers would dereference.
	var tdErr *td.Error
	require.ErrorAs(t, err, &tdErr)
	require.NotNil(t, tdErr)
	assert.Equal(t, 500, tdErr.Code)
	assert.Equal(t, 0, gw.Pending())
}

func TestCallTimesOutWhenNoCallbackFires(t *testing.T) {
	client := &callbackClient{}
	gw := New(client, zap.NewNop(), 20*time.Millisecond)

	_, err := gw.Call(context.Background(), &td.GetChat{ChatID: 1})

	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 0, gw.Pending())
}

func TestLateCallbackAfterTimeoutIsDropped(t *testing.T) {
	client := &callbackClient{}
	gw := New(client, zap.NewNop(), 20*time.Millisecond)

	_, err := gw.Call(context.Background(), &td.GetChat{ChatID: 1})
	require.ErrorIs(t, err, ErrTimeout)

	// The slot is gone; a late result must be a no-op.
	require.NotPanics(t, func() { client.resultFn()(&td.Text{Text: "late"}) })
	assert.Equal(t, 0, gw.Pending())
}

func TestCallHonorsContextCancellation(t *testing.T) {
	client := &callbackClient{}
	gw := New(client, zap.NewNop(), time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := gw.Call(ctx, &td.GetChat{ChatID: 1})
		done <- err
	}()

	require.Eventually(t, func() bool { return client.resultFn() != nil }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("call did not return after cancellation")
	}
	assert.Equal(t, 0, gw.Pending())
}

func TestSendFailureResolvesImmediately(t *testing.T) {
	client := &callbackClient{sendErr: errors.New("transport down")}
	gw := New(client, zap.NewNop(), time.Minute)

	start := time.Now()
	_, err := gw.Call(context.Background(), &td.GetChat{ChatID: 1})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "transport down")
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 0, gw.Pending())
}

func TestConcurrentCallsDoNotCollide(t *testing.T) {
	backend := &echoClient{}
	gw := New(backend, zap.NewNop(), time.Second)

	const n = 16
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		go func(id int64) {
			obj, err := gw.Call(context.Background(), &td.GetChat{ChatID: id})
			if err != nil {
				results <- err
				return
			}
			chat, ok := obj.(*td.Chat)
			if !ok || chat.ID != id {
				results <- errors.New("response crossed wires")
				return
			}
			results <- nil
		}(int64(i))
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-results)
	}
	assert.Equal(t, 0, gw.Pending())
}

// echoClient answers GetChat synchronously with a chat carrying the
// requested id.
type echoClient struct{}

func (echoClient) Send(req td.Request, onResult func(td.Object), onError func(*td.Error)) error {
	get, ok := req.(*td.GetChat)
	if !ok {
		onError(&td.Error{Code: 400, Message: "UNSUPPORTED"})
		return nil
	}
	onResult(&td.Chat{ID: get.ChatID})
	return nil
}

func (echoClient) Execute(req td.Request) (td.Object, error) { return nil, nil }

func (echoClient) Close() error { return nil }
