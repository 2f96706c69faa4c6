package ws

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tglive/internal/models"
	"tglive/internal/observability"
	"tglive/internal/router"
)

// CallWebSocketHandler streams group call events to websocket clients.
type CallWebSocketHandler struct {
	router *router.Router
	log    *zap.Logger
}

func NewCallWebSocketHandler(r *router.Router, log *zap.Logger) *CallWebSocketHandler {
	return &CallWebSocketHandler{router: r, log: log}
}

// Handle upgrades the connection and pumps call events. The stream closes
// itself after delivering a call-ended event.
func (h *CallWebSocketHandler) Handle(c *gin.Context) {
	callID64, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || callID64 == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid call id"})
		return
	}
	callID := int32(callID64)

	span := startHandshakeSpan(c, "ws.call.handshake")
	defer span.End()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	info := connInfoFromRequest(c, span)
	ctx := c.Request.Context()

	sub := h.router.ObserveGroupCall(callID)

	observability.IncWSActive("call")
	observability.IncWSEvent("call", "ws_connect")
	_ = observability.PublishEvent(ctx, "ws_events.calls",
		observability.NewEnvelope("ws_events", "ws_connect",
			lifecyclePayload("call", int64(callID), "ws_connect", info, "")),
		observability.BuildHeaders(info.RequestID, info.TraceID))

	go h.pump(ctx, conn, sub, callID, info)
}

func (h *CallWebSocketHandler) pump(ctx context.Context, conn *websocket.Conn, sub *router.CallSubscription, callID int32, info ConnInfo) {
	closed := make(chan string, 1)
	go watchClose(conn, closed)

	var reason string
	defer func() {
		sub.Cancel()
		conn.Close()
		observability.DecWSActive("call")
		observability.IncWSEvent("call", "ws_disconnect")
		_ = observability.PublishEvent(ctx, "ws_events.calls",
			observability.NewEnvelope("ws_events", "ws_disconnect",
				lifecyclePayload("call", int64(callID), "ws_disconnect", info, reason)),
			observability.BuildHeaders(info.RequestID, info.TraceID))
	}()

	for {
		select {
		case upd, ok := <-sub.Updates():
			if !ok {
				reason = "subscription canceled"
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(upd); err != nil {
				reason = err.Error()
				observability.IncWSEvent("call", "ws_error")
				return
			}
			if upd.Type == models.CallEnded {
				reason = "call ended"
				return
			}
		case reason = <-closed:
			return
		}
	}
}
