package calls

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tglive/internal/gateway"
	"tglive/internal/mocks"
	"tglive/internal/models"
	"tglive/internal/td"
	"tglive/internal/td/loopback"
)

func newLoopbackService(t *testing.T) (*loopback.Backend, *Service) {
	t.Helper()
	backend := loopback.New()
	client, err := backend.Dial(func(td.Update) {})
	require.NoError(t, err)
	gw := gateway.New(client, zap.NewNop(), time.Second)
	return backend, NewService(gw, new(mocks.TransportMock), zap.NewNop(), time.Millisecond)
}

func TestGetChannelSuccess(t *testing.T) {
	backend, svc := newLoopbackService(t)
	backend.AddChannel(1001, "durov", "Durov's Channel", "thoughts", 500, 42)

	info, err := svc.GetChannel(context.Background(), "@durov")

	require.NoError(t, err)
	assert.Equal(t, int64(1001), info.ID)
	assert.Equal(t, "Durov's Channel", info.Title)
	assert.Equal(t, "durov", info.Username)
	assert.Equal(t, "thoughts", info.Description)
	assert.Equal(t, 500, info.MemberCount)
	assert.True(t, info.HasActiveVideoChat)
	assert.Equal(t, int32(42), info.ActiveVideoChatID)
}

func TestGetChannelRepeatLookupIsStable(t *testing.T) {
	backend, svc := newLoopbackService(t)
	backend.AddChannel(1001, "durov", "Durov's Channel", "thoughts", 500, 0)

	first, err := svc.GetChannel(context.Background(), "durov")
	require.NoError(t, err)
	second, err := svc.GetChannel(context.Background(), "durov")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.False(t, second.HasActiveVideoChat)
}

func TestGetChannelUnknownUsername(t *testing.T) {
	_, svc := newLoopbackService(t)

	_, err := svc.GetChannel(context.Background(), "nosuchchannel")

	require.ErrorIs(t, err, ErrChannelNotFound)
}

func TestGetChannelRejectsNonChannelSupergroup(t *testing.T) {
	backend, svc := newLoopbackService(t)
	backend.AddGroup(2002, "somegroup", "Some Group")

	_, err := svc.GetChannel(context.Background(), "somegroup")

	require.ErrorIs(t, err, ErrNotAChannel)
}

func TestGetChannelFullInfoByID(t *testing.T) {
	backend, svc := newLoopbackService(t)
	backend.AddChannel(1001, "durov", "Durov's Channel", "thoughts", 500, 0)

	info, err := svc.GetChannelFullInfo(context.Background(), 1001)

	require.NoError(t, err)
	assert.Equal(t, "durov", info.Username)

	_, err = svc.GetChannelFullInfo(context.Background(), 9999)
	require.ErrorIs(t, err, ErrChannelNotFound)
}

func TestGetChannelDegradesWhenFullInfoFails(t *testing.T) {
	client := new(mocks.BackendClientMock)
	gw := gateway.New(client, zap.NewNop(), time.Second)
	svc := NewService(gw, new(mocks.TransportMock), zap.NewNop(), time.Millisecond)

	chat := &td.Chat{
		ID:    1001,
		Title: "Durov's Channel",
		Type:  &td.ChatTypeSupergroup{SupergroupID: 1001, IsChannel: true},
	}
	client.On("Send", &td.SearchPublicChat{Username: "durov"}).Return(chat, nil, nil).Once()
	client.On("Send", &td.GetSupergroup{SupergroupID: 1001}).
		Return(&td.Supergroup{ID: 1001, Username: "durov", MemberCount: 500, IsChannel: true}, nil, nil).Once()
	client.On("Send", &td.GetSupergroupFullInfo{SupergroupID: 1001}).
		Return(nil, &td.Error{Code: 500, Message: "INTERNAL"}, nil).Once()

	info, err := svc.GetChannel(context.Background(), "durov")

	require.NoError(t, err)
	assert.Equal(t, "durov", info.Username)
	assert.Equal(t, 500, info.MemberCount)
	assert.Empty(t, info.Description)
	client.AssertExpectations(t)
}

func TestGetGroupCallAppliesCompositePredicate(t *testing.T) {
	backend, svc := newLoopbackService(t)
	backend.AddCall(&td.GroupCall{ID: 42, Title: "live", ParticipantCount: 3, IsActive: true})
	backend.AddCall(&td.GroupCall{ID: 43, Title: "empty", ParticipantCount: 0, IsActive: true})
	backend.AddCall(&td.GroupCall{ID: 44, Title: "over", ParticipantCount: 5, IsActive: false})

	live, err := svc.GetGroupCall(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, live)
	assert.True(t, live.IsActive)

	empty, err := svc.GetGroupCall(context.Background(), 43)
	require.NoError(t, err)
	require.NotNil(t, empty)
	assert.False(t, empty.IsActive, "raw active flag without participants must not count as live")

	over, err := svc.GetGroupCall(context.Background(), 44)
	require.NoError(t, err)
	require.NotNil(t, over)
	assert.False(t, over.IsActive)
}

func TestGetGroupCallUnknownIsAbsenceNotFailure(t *testing.T) {
	_, svc := newLoopbackService(t)

	info, err := svc.GetGroupCall(context.Background(), 77)

	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestResolveParticipantUser(t *testing.T) {
	backend, svc := newLoopbackService(t)
	backend.AddUser(&td.User{ID: 7, FirstName: "Pavel", LastName: "D"})

	p := &td.GroupCallParticipant{
		ParticipantID: &td.MessageSenderUser{UserID: 7},
		Order:         "1",
		IsSpeaking:    true,
		JoinedDate:    1700000000,
	}
	out := svc.ResolveParticipant(context.Background(), p)

	assert.Equal(t, models.ParticipantID{Kind: models.ParticipantUser, ID: 7}, out.ID)
	assert.Equal(t, "Pavel D", out.DisplayName)
	assert.True(t, out.IsSpeaking)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), out.JoinedAt)
}

func TestResolveParticipantDegradesOnLookupFailure(t *testing.T) {
	_, svc := newLoopbackService(t)

	p := &td.GroupCallParticipant{
		ParticipantID: &td.MessageSenderUser{UserID: 404},
		Order:         "1",
		IsMuted:       true,
	}
	out := svc.ResolveParticipant(context.Background(), p)

	assert.Equal(t, models.ParticipantID{Kind: models.ParticipantUser, ID: 404}, out.ID)
	assert.Empty(t, out.DisplayName)
	assert.True(t, out.IsMuted)
}

func TestSenderIdentity(t *testing.T) {
	assert.Equal(t, models.ParticipantID{Kind: models.ParticipantUser, ID: 5},
		SenderIdentity(&td.MessageSenderUser{UserID: 5}))
	assert.Equal(t, models.ParticipantID{Kind: models.ParticipantChat, ID: 9},
		SenderIdentity(&td.MessageSenderChat{ChatID: 9}))
	assert.Equal(t, models.ParticipantID{}, SenderIdentity(nil))
}

