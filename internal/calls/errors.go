package calls

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tglive/internal/gateway"
	"tglive/internal/td"
)

// Typed error kinds surfaced to callers. Public entry points in this package
// never let a raw backend error escape: every failure is one of these or a
// ProtocolError passthrough.
var (
	ErrInvalidUsername = errors.New("invalid channel username")
	ErrChannelNotFound = errors.New("channel not found")
	ErrNotAChannel     = errors.New("not a channel")
	ErrPrivateChannel  = errors.New("channel is private")
	ErrNetwork         = errors.New("network unavailable")
	ErrCallNotFound    = errors.New("group call not found")
	ErrCallNotActive   = errors.New("group call is not active")
)

// ProtocolError carries the raw backend code and message for errors not
// otherwise classified.
type ProtocolError struct {
	Code    int
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error %d: %s", e.Code, e.Message)
}

// classify maps a raw gateway failure onto the typed taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gateway.ErrTimeout) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	var te *td.Error
	if !errors.As(err, &te) {
		// Transport-level failure handing the request to the backend.
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	switch {
	case te.Code == 401, te.Code == 403:
		return ErrPrivateChannel
	case te.Code == 404:
		return ErrChannelNotFound
	case te.Code == 429, te.Code >= 500:
		return fmt.Errorf("%w: %v", ErrNetwork, te)
	case te.Code >= 400 && te.Code < 500:
		msg := strings.ToUpper(te.Message)
		switch {
		case strings.Contains(msg, "USERNAME_INVALID"):
			return ErrInvalidUsername
		case strings.Contains(msg, "USERNAME_NOT_OCCUPIED"):
			return ErrChannelNotFound
		case strings.Contains(msg, "CHAT_NOT_FOUND"),
			strings.Contains(msg, "SUPERGROUP_NOT_FOUND"),
			strings.Contains(msg, "CHANNEL_INVALID"):
			return ErrChannelNotFound
		case strings.Contains(msg, "ADMIN_REQUIRED"):
			return ErrPrivateChannel
		}
	}
	return &ProtocolError{Code: te.Code, Message: te.Message}
}
