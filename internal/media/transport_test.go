package media

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJoinPayloadIsWellFormed(t *testing.T) {
	transport := NewWebRTCTransport(zap.NewNop())

	payload, err := transport.JoinPayload(context.Background(), 1001, 42)

	require.NoError(t, err)
	require.NotEmpty(t, payload)

	var decoded struct {
		Ufrag        string `json:"ufrag"`
		Pwd          string `json:"pwd"`
		Fingerprints []struct {
			Hash        string `json:"hash"`
			Setup       string `json:"setup"`
			Fingerprint string `json:"fingerprint"`
		} `json:"fingerprints"`
		SSRC uint32 `json:"ssrc"`
	}
	require.NoError(t, json.Unmarshal([]byte(payload), &decoded))
	assert.NotEmpty(t, decoded.Ufrag)
	assert.NotEmpty(t, decoded.Pwd)
	require.NotEmpty(t, decoded.Fingerprints)
	assert.Equal(t, "active", decoded.Fingerprints[0].Setup)
	assert.NotEmpty(t, decoded.Fingerprints[0].Fingerprint)
	assert.NotZero(t, decoded.SSRC)
}

func TestJoinPayloadHonorsCanceledContext(t *testing.T) {
	transport := NewWebRTCTransport(zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := transport.JoinPayload(ctx, 1001, 42)
	require.Error(t, err)
}

func TestPayloadFromSDPRejectsMissingCredentials(t *testing.T) {
	_, err := payloadFromSDP("v=0\r\no=- 0 0 IN IP4 127.0.0.1\r\n")
	require.Error(t, err)
}

func TestPayloadFromSDPParsesAttributes(t *testing.T) {
	sdp := "v=0\r\n" +
		"a=ice-ufrag:abcd\r\n" +
		"a=ice-pwd:secretpwd\r\n" +
		"a=fingerprint:sha-256 AA:BB:CC\r\n"

	payload, err := payloadFromSDP(sdp)

	require.NoError(t, err)
	assert.Equal(t, "abcd", payload.Ufrag)
	assert.Equal(t, "secretpwd", payload.Pwd)
	require.Len(t, payload.Fingerprints, 1)
	assert.Equal(t, "sha-256", payload.Fingerprints[0].Hash)
	assert.Equal(t, "AA:BB:CC", payload.Fingerprints[0].Fingerprint)
	assert.NotZero(t, payload.SSRC)
}
