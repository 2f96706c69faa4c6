// Package media produces the join payload the group call protocol expects.
// The payload describes the local media endpoint (ICE credentials, DTLS
// fingerprints, audio SSRC); the protocol layer rejects empty payloads.
package media

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pion/webrtc/v4"
	"go.uber.org/zap"
)

// Transport builds a syntactically valid, non-empty join payload for a call
// bound to a channel.
type Transport interface {
	JoinPayload(ctx context.Context, channelID int64, callID int32) (string, error)
}

type fingerprint struct {
	Hash        string `json:"hash"`
	Setup       string `json:"setup"`
	Fingerprint string `json:"fingerprint"`
}

type joinPayload struct {
	Ufrag        string        `json:"ufrag"`
	Pwd          string        `json:"pwd"`
	Fingerprints []fingerprint `json:"fingerprints"`
	SSRC         uint32        `json:"ssrc"`
}

// WebRTCTransport derives the payload from a locally created peer
// connection offer. No network traffic is involved: only the local ICE
// credentials and certificate fingerprints are read out of the SDP.
type WebRTCTransport struct {
	log *zap.Logger
}

func NewWebRTCTransport(log *zap.Logger) *WebRTCTransport {
	return &WebRTCTransport{log: log}
}

func (t *WebRTCTransport) JoinPayload(ctx context.Context, channelID int64, callID int32) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		return "", fmt.Errorf("media: create peer connection: %w", err)
	}
	defer pc.Close()

	if _, err := pc.AddTransceiverFromKind(webrtc.RTPCodecTypeAudio); err != nil {
		return "", fmt.Errorf("media: add audio transceiver: %w", err)
	}

	offer, err := pc.CreateOffer(nil)
	if err != nil {
		return "", fmt.Errorf("media: create offer: %w", err)
	}

	payload, err := payloadFromSDP(offer.SDP)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("media: encode payload: %w", err)
	}

	t.log.Debug("built join payload",
		zap.Int64("channel_id", channelID),
		zap.Int32("call_id", callID),
		zap.Uint32("ssrc", payload.SSRC))
	return string(body), nil
}

func payloadFromSDP(sdp string) (joinPayload, error) {
	payload := joinPayload{SSRC: newSSRC()}

	for _, line := range strings.Split(sdp, "\r\n") {
		switch {
		case strings.HasPrefix(line, "a=ice-ufrag:"):
			if payload.Ufrag == "" {
				payload.Ufrag = strings.TrimPrefix(line, "a=ice-ufrag:")
			}
		case strings.HasPrefix(line, "a=ice-pwd:"):
			if payload.Pwd == "" {
				payload.Pwd = strings.TrimPrefix(line, "a=ice-pwd:")
			}
		case strings.HasPrefix(line, "a=fingerprint:"):
			rest := strings.TrimPrefix(line, "a=fingerprint:")
			hash, value, found := strings.Cut(rest, " ")
			if found && len(payload.Fingerprints) == 0 {
				payload.Fingerprints = append(payload.Fingerprints, fingerprint{
					Hash:        hash,
					Setup:       "active",
					Fingerprint: value,
				})
			}
		}
	}

	if payload.Ufrag == "" || payload.Pwd == "" || len(payload.Fingerprints) == 0 {
		return joinPayload{}, errors.New("media: offer is missing ICE credentials")
	}
	return payload, nil
}

func newSSRC() uint32 {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 1
	}
	ssrc := binary.BigEndian.Uint32(buf[:])
	if ssrc == 0 {
		ssrc = 1
	}
	return ssrc
}
