// Package td defines the boundary to the backend protocol client: the
// opaque request/response primitive, the closed set of asynchronous update
// kinds the rest of the system consumes, and the subset of protocol record
// shapes it reads. The production transport lives outside this repository;
// everything here programs against the Client interface.
package td

import "fmt"

// Request is a protocol request payload accepted by Send and Execute.
type Request interface {
	RequestType() string
}

// Object is a protocol response or record payload.
type Object interface {
	ObjectType() string
}

// Update is an asynchronous event pushed by the backend client. The set of
// concrete updates in this package is closed; routing switches over it with
// an explicit default arm for kinds that are known but unhandled.
type Update interface {
	UpdateType() string
}

// Handler receives asynchronous updates. The backend client serializes its
// own callbacks: a handler is never invoked reentrantly.
type Handler func(Update)

// Dialer constructs a connected backend client with the given update
// handler registered. The handler is registered exactly once, at
// construction time.
type Dialer func(Handler) (Client, error)

// Client is the backend protocol client. Send is fire-and-forget: the
// response for a request arrives on exactly one of the two callbacks.
// Execute is the synchronous fast path and is only guaranteed to support
// local queries such as GetAuthorizationState.
type Client interface {
	Send(req Request, onResult func(Object), onError func(*Error)) error
	Execute(req Request) (Object, error)
	Close() error
}

// Error is a protocol-level error returned by the backend.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("td: %d %s", e.Code, e.Message)
}

func (e *Error) ObjectType() string { return "error" }
