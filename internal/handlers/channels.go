package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tglive/internal/calls"
	"tglive/internal/gateway"
	"tglive/internal/middleware"
	"tglive/internal/observability"
	"tglive/internal/repositories"
	"tglive/internal/telemetry"
)

// ChannelHandler serves channel resolution endpoints.
type ChannelHandler struct {
	core    calls.Core
	lookups repositories.LookupRepository
	audit   *telemetry.AuditEmitter
	log     *zap.Logger
}

// NewChannelHandler builds a ChannelHandler. lookups may be nil when no
// database is configured; audit may be nil when no broker is configured.
func NewChannelHandler(core calls.Core, lookups repositories.LookupRepository, audit *telemetry.AuditEmitter, log *zap.Logger) *ChannelHandler {
	return &ChannelHandler{core: core, lookups: lookups, audit: audit, log: log}
}

// GetChannel resolves a public username to channel info.
func (h *ChannelHandler) GetChannel(c *gin.Context) {
	username := c.Param("username")

	info, err := h.core.GetChannel(c.Request.Context(), username)
	if err != nil {
		writeCallsError(c, err)
		return
	}

	// Username may be empty when the supergroup lookup degraded; history
	// keys on it, so skip recording rather than storing an empty row.
	if h.lookups != nil && info.Username != "" {
		if err := h.lookups.RecordLookup(c.Request.Context(), info); err != nil {
			h.log.Warn("failed to record lookup", zap.String("username", info.Username), zap.Error(err))
		}
	}
	h.audit.Emit(c.Request.Context(), middleware.GetRequestID(c), telemetry.AuditPayload{
		Action:    "channel_lookup",
		ChannelID: info.ID,
	})
	observability.PublishEvent(c.Request.Context(), "channel.lookup",
		observability.NewEnvelope("channel", "lookup", info),
		observability.BuildHeaders(middleware.GetRequestID(c), ""))

	c.JSON(http.StatusOK, info)
}

// GetChannelByID re-resolves an already known channel.
func (h *ChannelHandler) GetChannelByID(c *gin.Context) {
	channelID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid channel id"})
		return
	}

	info, err := h.core.GetChannelFullInfo(c.Request.Context(), channelID)
	if err != nil {
		writeCallsError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// RecentLookups lists the most recently resolved channels.
func (h *ChannelHandler) RecentLookups(c *gin.Context) {
	if h.lookups == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "lookup history not configured"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	lookups, err := h.lookups.RecentLookups(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("failed to load recent lookups", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recent lookups"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lookups": lookups})
}

// writeCallsError maps the calls error taxonomy onto HTTP statuses.
func writeCallsError(c *gin.Context, err error) {
	var protoErr *calls.ProtocolError
	switch {
	case errors.Is(err, calls.ErrInvalidUsername):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, calls.ErrChannelNotFound), errors.Is(err, calls.ErrCallNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, calls.ErrPrivateChannel):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, calls.ErrNotAChannel):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, calls.ErrCallNotActive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, gateway.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "backend timed out"})
	case errors.Is(err, calls.ErrNetwork):
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
	case errors.As(err, &protoErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "protocol error",
			"code":    protoErr.Code,
			"message": protoErr.Message,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
