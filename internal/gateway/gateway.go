// Package gateway layers a correlated request/response call convention,
// with per-call timeouts, on top of the backend client's fire-and-forget
// async send primitive.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"tglive/internal/observability"
	"tglive/internal/td"
)

// DefaultTimeout bounds a gateway call when neither callback fires.
const DefaultTimeout = 30 * time.Second

// ErrTimeout is the synthesized response for a call whose callbacks never
// fired within the timeout bound.
var ErrTimeout = errors.New("gateway: request timed out")

// pendingCall is a one-shot result slot. Whichever path resolves it first
// wins; the map removal in resolve makes duplicate resolutions no-ops.
type pendingCall struct {
	done   chan struct{}
	result td.Object
	err    error
}

// Gateway correlates async sends with their responses. It is a pure
// correlation layer: no side effects beyond the backend client call.
type Gateway struct {
	client  td.Client
	log     *zap.Logger
	timeout time.Duration

	nextID  atomic.Uint64
	mu      sync.Mutex
	pending map[uint64]*pendingCall
}

func New(client td.Client, log *zap.Logger, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gateway{
		client:  client,
		log:     log,
		timeout: timeout,
		pending: make(map[uint64]*pendingCall),
	}
}

// Call sends req and blocks the caller until the response, an error, the
// timeout, or ctx cancellation resolves it. Correlation ids are assigned
// internally from a monotonic counter, so concurrent callers can never
// collide on an id.
func (g *Gateway) Call(ctx context.Context, req td.Request) (td.Object, error) {
	id := g.nextID.Add(1)
	pc := &pendingCall{done: make(chan struct{})}

	g.mu.Lock()
	g.pending[id] = pc
	g.mu.Unlock()

	start := time.Now()
	err := g.client.Send(req,
		func(obj td.Object) { g.resolve(id, obj, nil) },
		func(e *td.Error) {
			// A nil *td.Error would still be a non-nil error value once it
			// crosses the interface; substitute a real record.
			if e == nil {
				e = &td.Error{Code: 500, Message: "EMPTY_ERROR"}
			}
			g.resolve(id, nil, e)
		},
	)
	if err != nil {
		// The send itself was rejected; the slot must still resolve.
		g.resolve(id, nil, fmt.Errorf("gateway: send %s: %w", req.RequestType(), err))
	}

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	select {
	case <-pc.done:
	case <-timer.C:
		g.resolve(id, nil, ErrTimeout)
		<-pc.done
	case <-ctx.Done():
		g.resolve(id, nil, ctx.Err())
		<-pc.done
	}

	status := "ok"
	if pc.err != nil {
		status = "error"
		if errors.Is(pc.err, ErrTimeout) {
			status = "timeout"
		}
	}
	observability.ObserveGatewayCall(req.RequestType(), status, time.Since(start))

	return pc.result, pc.err
}

// resolve fulfills the slot for id exactly once. A resolution for an id with
// no registered slot (already resolved, e.g. timed out) is dropped.
func (g *Gateway) resolve(id uint64, obj td.Object, err error) {
	g.mu.Lock()
	pc, ok := g.pending[id]
	if ok {
		delete(g.pending, id)
	}
	g.mu.Unlock()

	if !ok {
		observability.IncUpdateDropped("late_resolution")
		g.log.Debug("dropping late resolution", zap.Uint64("correlation_id", id))
		return
	}

	pc.result = obj
	pc.err = err
	close(pc.done)
}

// Pending reports the number of unresolved calls.
func (g *Gateway) Pending() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}
