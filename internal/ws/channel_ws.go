package ws

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tglive/internal/observability"
	"tglive/internal/router"
)

// ChannelWebSocketHandler streams channel events to websocket clients.
type ChannelWebSocketHandler struct {
	router *router.Router
	log    *zap.Logger
}

func NewChannelWebSocketHandler(r *router.Router, log *zap.Logger) *ChannelWebSocketHandler {
	return &ChannelWebSocketHandler{router: r, log: log}
}

// Handle upgrades the connection, subscribes to the channel's event stream
// and pumps events until the subscription ends or the peer disconnects.
func (h *ChannelWebSocketHandler) Handle(c *gin.Context) {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel id"})
		return
	}

	span := startHandshakeSpan(c, "ws.channel.handshake")
	defer span.End()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	info := connInfoFromRequest(c, span)
	ctx := c.Request.Context()

	sub := h.router.ObserveChannel(channelID)

	observability.IncWSActive("channel")
	observability.IncWSEvent("channel", "ws_connect")
	_ = observability.PublishEvent(ctx, "ws_events.channels",
		observability.NewEnvelope("ws_events", "ws_connect",
			lifecyclePayload("channel", channelID, "ws_connect", info, "")),
		observability.BuildHeaders(info.RequestID, info.TraceID))

	go h.pump(ctx, conn, sub, channelID, info)
}

func (h *ChannelWebSocketHandler) pump(ctx context.Context, conn *websocket.Conn, sub *router.ChannelSubscription, channelID int64, info ConnInfo) {
	closed := make(chan string, 1)
	go watchClose(conn, closed)

	var reason string
	defer func() {
		sub.Cancel()
		conn.Close()
		observability.DecWSActive("channel")
		observability.IncWSEvent("channel", "ws_disconnect")
		_ = observability.PublishEvent(ctx, "ws_events.channels",
			observability.NewEnvelope("ws_events", "ws_disconnect",
				lifecyclePayload("channel", channelID, "ws_disconnect", info, reason)),
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
				observability.IncWSEvent("channel", "ws_error")
				return
			}
		case reason = <-closed:
			return
		}
	}
}
