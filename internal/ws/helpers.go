package ws

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"tglive/internal/observability"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func newConnID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}

func startHandshakeSpan(c *gin.Context, name string) trace.Span {
	ctx, span := otel.Tracer("tglive/ws").Start(c.Request.Context(), name)
	c.Request = c.Request.WithContext(ctx)
	return span
}

func connInfoFromRequest(c *gin.Context, span trace.Span) ConnInfo {
	meta := observability.ClientMetaFromRequest(c.Request)
	return ConnInfo{
		ConnID:      newConnID(),
		DeviceID:    meta.DeviceID,
		IP:          meta.IP,
		RequestID:   meta.RequestID,
		TraceID:     span.SpanContext().TraceID().String(),
		ConnectedAt: time.Now(),
	}
}

func lifecyclePayload(kind string, resourceID int64, event string, info ConnInfo, reason string) map[string]interface{} {
	return map[string]interface{}{
		"ws": map[string]interface{}{
			"kind":        kind,
			"resource_id": resourceID,
			"event":       event,
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      reason,
		},
		"identity": info.identity(),
	}
}

// watchClose consumes the read side until the peer goes away, then signals
// the write pump. The returned reason is reported in the disconnect event.
func watchClose(conn *websocket.Conn, done chan<- string) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			done <- err.Error()
			return
		}
	}
}
