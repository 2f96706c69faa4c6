package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tglive/internal/models"
	"tglive/internal/repositories"
	"tglive/internal/td"
)

// BackendClientMock implements td.Client. Send resolves its callbacks
// synchronously from the expectation: Get(0) is the result object, Get(1)
// the protocol error, Error(2) the transport error.
type BackendClientMock struct {
	mock.Mock
}

var _ td.Client = (*BackendClientMock)(nil)

func (m *BackendClientMock) Send(req td.Request, onResult func(td.Object), onError func(*td.Error)) error {
	args := m.Called(req)
	if err := args.Error(2); err != nil {
		return err
	}
	if val := args.Get(1); val != nil {
		if onError != nil {
			onError(val.(*td.Error))
		}
		return nil
	}
	if onResult != nil {
		var obj td.Object
		if val := args.Get(0); val != nil {
			obj = val.(td.Object)
		}
		onResult(obj)
	}
	return nil
}

func (m *BackendClientMock) Execute(req td.Request) (td.Object, error) {
	args := m.Called(req)
	var obj td.Object
	if val := args.Get(0); val != nil {
		obj = val.(td.Object)
	}
	return obj, args.Error(1)
}

func (m *BackendClientMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

type TransportMock struct {
	mock.Mock
}

func (m *TransportMock) JoinPayload(ctx context.Context, channelID int64, callID int32) (string, error) {
	args := m.Called(ctx, channelID, callID)
	return args.String(0), args.Error(1)
}

type ResolverMock struct {
	mock.Mock
}

func (m *ResolverMock) GetChannelFullInfo(ctx context.Context, channelID int64) (models.ChannelInfo, error) {
	args := m.Called(ctx, channelID)
	var info models.ChannelInfo
	if val := args.Get(0); val != nil {
		info = val.(models.ChannelInfo)
	}
	return info, args.Error(1)
}

func (m *ResolverMock) ResolveParticipant(ctx context.Context, p *td.GroupCallParticipant) models.GroupCallParticipant {
	args := m.Called(ctx, p)
	var out models.GroupCallParticipant
	if val := args.Get(0); val != nil {
		out = val.(models.GroupCallParticipant)
	}
	return out
}

type CallCoreMock struct {
	mock.Mock
}

func (m *CallCoreMock) GetChannel(ctx context.Context, username string) (models.ChannelInfo, error) {
	args := m.Called(ctx, username)
	var info models.ChannelInfo
	if val := args.Get(0); val != nil {
		info = val.(models.ChannelInfo)
	}
	return info, args.Error(1)
}

func (m *CallCoreMock) GetChannelFullInfo(ctx context.Context, channelID int64) (models.ChannelInfo, error) {
	args := m.Called(ctx, channelID)
	var info models.ChannelInfo
	if val := args.Get(0); val != nil {
		info = val.(models.ChannelInfo)
	}
	return info, args.Error(1)
}

func (m *CallCoreMock) GetGroupCall(ctx context.Context, callID int32) (*models.GroupCallInfo, error) {
	args := m.Called(ctx, callID)
	var info *models.GroupCallInfo
	if val := args.Get(0); val != nil {
		info = val.(*models.GroupCallInfo)
	}
	return info, args.Error(1)
}

func (m *CallCoreMock) JoinGroupCall(ctx context.Context, channelID int64, callID int32) (*models.GroupCallInfo, error) {
	args := m.Called(ctx, channelID, callID)
	var info *models.GroupCallInfo
	if val := args.Get(0); val != nil {
		info = val.(*models.GroupCallInfo)
	}
	return info, args.Error(1)
}

func (m *CallCoreMock) LeaveGroupCall(ctx context.Context, callID int32) error {
	args := m.Called(ctx, callID)
	return args.Error(0)
}

type LookupRepositoryMock struct {
	mock.Mock
}

var _ repositories.LookupRepository = (*LookupRepositoryMock)(nil)

func (m *LookupRepositoryMock) RecordLookup(ctx context.Context, info models.ChannelInfo) error {
	args := m.Called(ctx, info)
	return args.Error(0)
}

func (m *LookupRepositoryMock) RecentLookups(ctx context.Context, limit int) ([]models.ChannelLookup, error) {
	args := m.Called(ctx, limit)
	var list []models.ChannelLookup
	if val := args.Get(0); val != nil {
		list = val.([]models.ChannelLookup)
	}
	return list, args.Error(1)
}
