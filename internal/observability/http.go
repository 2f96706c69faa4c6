package observability

import (
	"net"
	"net/http"
	"strings"
)

// ClientMeta is what stream handlers record about the peer that opened a
// connection. Fields are best-effort: absent headers leave them empty.
type ClientMeta struct {
	DeviceID  string
	RequestID string
	IP        string
}

func ClientMetaFromRequest(r *http.Request) ClientMeta {
	return ClientMeta{
		DeviceID:  r.Header.Get("X-Device-Id"),
		RequestID: r.Header.Get("X-Request-Id"),
		IP:        clientIP(r),
	}
}

// clientIP prefers the first X-Forwarded-For hop so that logs and events
// show the viewer's address rather than the proxy's.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
