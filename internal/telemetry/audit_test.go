package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tglive/internal/mocks"
	"tglive/internal/telemetry"
)

var _ telemetry.Publisher = (*mocks.PublisherMock)(nil)

func TestAuditEmitterPublishesEnvelope(t *testing.T) {
	pub := new(mocks.PublisherMock)
	emitter := telemetry.NewAuditEmitter(pub, "audit.tglive", "tglive", "test", zap.NewNop())

	var captured telemetry.AuditEnvelope
	pub.On("Publish", mock.Anything, "audit.tglive", mock.MatchedBy(func(event any) bool {
		env, ok := event.(telemetry.AuditEnvelope)
		if ok {
			captured = env
		}
		return ok
	})).Return(nil).Once()

	emitter.Emit(context.Background(), "req-1", telemetry.AuditPayload{
		Action:    "channel_lookup",
		ChannelID: 1001,
	})

	pub.AssertExpectations(t)
	require.Equal(t, 1, captured.SchemaVersion)
	require.Equal(t, "audit_log", captured.EventType)
	require.Equal(t, "tglive", captured.Service)
	require.Equal(t, "test", captured.Environment)
	require.Equal(t, "req-1", captured.RequestID)
	require.Equal(t, "channel_lookup", captured.Payload.Action)
	require.Equal(t, int64(1001), captured.Payload.ChannelID)
	require.NotEmpty(t, captured.OccurredAt)
}

func TestAuditEmitterNilSafe(t *testing.T) {
	var emitter *telemetry.AuditEmitter
	require.NotPanics(t, func() {
		emitter.Emit(context.Background(), "req-2", telemetry.AuditPayload{Action: "call_join"})
	})

	withoutPublisher := telemetry.NewAuditEmitter(nil, "audit.tglive", "tglive", "test", zap.NewNop())
	require.NotPanics(t, func() {
		withoutPublisher.Emit(context.Background(), "req-3", telemetry.AuditPayload{Action: "call_leave"})
	})
}

func TestAuditEmitterLogsPublishFailure(t *testing.T) {
	pub := new(mocks.PublisherMock)
	emitter := telemetry.NewAuditEmitter(pub, "audit.tglive", "tglive", "test", zap.NewNop())

	pub.On("Publish", mock.Anything, "audit.tglive", mock.Anything).
		Return(errors.New("broker down")).Once()

	require.NotPanics(t, func() {
		emitter.Emit(context.Background(), "req-4", telemetry.AuditPayload{Action: "call_join", CallID: 42})
	})
	pub.AssertExpectations(t)
}
