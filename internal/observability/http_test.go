package observability

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientMetaFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/ws/channels/1", nil)
	req.RemoteAddr = "203.0.113.9:51234"
	req.Header.Set("X-Device-Id", "dev-1")
	req.Header.Set("X-Request-Id", "req-1")

	meta := ClientMetaFromRequest(req)
	assert.Equal(t, "dev-1", meta.DeviceID)
	assert.Equal(t, "req-1", meta.RequestID)
	assert.Equal(t, "203.0.113.9", meta.IP)
}

func TestClientMetaPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:80"
	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")

	meta := ClientMetaFromRequest(req)
	assert.Equal(t, "198.51.100.7", meta.IP)
}

func TestClientMetaMissingHeaders(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.4:1000"

	meta := ClientMetaFromRequest(req)
	assert.Empty(t, meta.DeviceID)
	assert.Empty(t, meta.RequestID)
	assert.Equal(t, "192.0.2.4", meta.IP)
}
