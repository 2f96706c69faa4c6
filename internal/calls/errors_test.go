package calls

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tglive/internal/gateway"
	"tglive/internal/td"
)

func TestClassifyProtocolCodes(t *testing.T) {
	cases := []struct {
		name string
		in   *td.Error
		want error
	}{
		{"unauthorized", &td.Error{Code: 401, Message: "AUTH_KEY_UNREGISTERED"}, ErrPrivateChannel},
		{"forbidden", &td.Error{Code: 403, Message: "CHANNEL_PRIVATE"}, ErrPrivateChannel},
		{"not found", &td.Error{Code: 404, Message: "NOT_FOUND"}, ErrChannelNotFound},
		{"flood wait", &td.Error{Code: 429, Message: "FLOOD_WAIT_30"}, ErrNetwork},
		{"internal", &td.Error{Code: 500, Message: "INTERNAL"}, ErrNetwork},
		{"bad gateway", &td.Error{Code: 502, Message: "GATEWAY"}, ErrNetwork},
		{"username invalid", &td.Error{Code: 400, Message: "USERNAME_INVALID"}, ErrInvalidUsername},
		{"username not occupied", &td.Error{Code: 400, Message: "USERNAME_NOT_OCCUPIED"}, ErrChannelNotFound},
		{"chat not found", &td.Error{Code: 400, Message: "CHAT_NOT_FOUND"}, ErrChannelNotFound},
		{"supergroup not found", &td.Error{Code: 400, Message: "SUPERGROUP_NOT_FOUND"}, ErrChannelNotFound},
		{"channel invalid", &td.Error{Code: 400, Message: "CHANNEL_INVALID"}, ErrChannelNotFound},
		{"admin required", &td.Error{Code: 400, Message: "CHAT_ADMIN_REQUIRED"}, ErrPrivateChannel},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tc.in), tc.want)
		})
	}
}

func TestClassifyUnknownBadRequestKeepsCodeAndMessage(t *testing.T) {
	err := classify(&td.Error{Code: 400, Message: "PARTICIPANT_JOIN_MISSING"})

	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, 400, protoErr.Code)
	assert.Equal(t, "PARTICIPANT_JOIN_MISSING", protoErr.Message)
}

func TestClassifyTimeoutKeepsSentinel(t *testing.T) {
	err := classify(fmt.Errorf("call: %w", gateway.ErrTimeout))

	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, gateway.ErrTimeout)
}

func TestClassifyContextErrors(t *testing.T) {
	assert.ErrorIs(t, classify(context.DeadlineExceeded), ErrNetwork)
	assert.ErrorIs(t, classify(context.Canceled), ErrNetwork)
}

func TestClassifyTransportError(t *testing.T) {
	assert.ErrorIs(t, classify(errors.New("connection refused")), ErrNetwork)
}
