// Package session owns the lifecycle of a live client: dialing the backend,
// wiring the router, gateway, auth tracker and calls service together, and
// enforcing that at most one session exists at a time.
package session

import (
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"tglive/internal/auth"
	"tglive/internal/calls"
	"tglive/internal/gateway"
	"tglive/internal/media"
	"tglive/internal/router"
	"tglive/internal/td"
)

// ErrSessionActive is returned by New while another session is still open.
var ErrSessionActive = errors.New("session: another session is already active")

var active atomic.Bool

type Options struct {
	GatewayTimeout time.Duration
	JoinBackoff    time.Duration
	Media          media.Transport
	Logger         *zap.Logger
}

type Session struct {
	Client  td.Client
	Gateway *gateway.Gateway
	Auth    *auth.Tracker
	Calls   *calls.Service
	Router  *router.Router

	log *zap.Logger
}

// New dials the backend and assembles the session. The router is created
// first so its Route method can serve as the client's update handler; the
// services that need the client are attached to the router afterwards.
func New(dial td.Dialer, opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Media == nil {
		opts.Media = media.NewWebRTCTransport(opts.Logger)
	}

	if !active.CompareAndSwap(false, true) {
		return nil, ErrSessionActive
	}

	r := router.New(opts.Logger)

	client, err := dial(r.Route)
	if err != nil {
		active.Store(false)
		return nil, err
	}

	gw := gateway.New(client, opts.Logger, opts.GatewayTimeout)
	service := calls.NewService(gw, opts.Media, opts.Logger, opts.JoinBackoff)
	tracker := auth.NewTracker(client, opts.Logger)

	r.SetResolver(service)
	r.SetAuth(tracker)

	return &Session{
		Client:  client,
		Gateway: gw,
		Auth:    tracker,
		Calls:   service,
		Router:  r,
		log:     opts.Logger,
	}, nil
}

// Close shuts the client down and releases the single-session slot.
func (s *Session) Close() error {
	err := s.Client.Close()
	active.Store(false)
	return err
}
