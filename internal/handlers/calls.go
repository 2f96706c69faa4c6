package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tglive/internal/calls"
	"tglive/internal/middleware"
	"tglive/internal/observability"
	"tglive/internal/telemetry"
)

// CallHandler serves group call endpoints.
type CallHandler struct {
	core  calls.Core
	audit *telemetry.AuditEmitter
	log   *zap.Logger
}

func NewCallHandler(core calls.Core, audit *telemetry.AuditEmitter, log *zap.Logger) *CallHandler {
	return &CallHandler{core: core, audit: audit, log: log}
}

// GetGroupCall returns the current snapshot of a call.
func (h *CallHandler) GetGroupCall(c *gin.Context) {
	callID, ok := parseCallID(c)
	if !ok {
		return
	}

	info, err := h.core.GetGroupCall(c.Request.Context(), callID)
	if err != nil {
		writeCallsError(c, err)
		return
	}
	if info == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "group call not found"})
		return
	}
	c.JSON(http.StatusOK, info)
}

// JoinGroupCall joins a call as a muted listener.
func (h *CallHandler) JoinGroupCall(c *gin.Context) {
	callID, ok := parseCallID(c)
	if !ok {
		return
	}
	var req struct {
		ChannelID int64 `json:"channel_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	info, err := h.core.JoinGroupCall(c.Request.Context(), req.ChannelID, callID)
	if err != nil {
		writeCallsError(c, err)
		return
	}

	h.audit.Emit(c.Request.Context(), middleware.GetRequestID(c), telemetry.AuditPayload{
		Action:    "call_join",
		ChannelID: req.ChannelID,
		CallID:    callID,
	})
	observability.PublishEvent(c.Request.Context(), "call.joined",
		observability.NewEnvelope("call", "joined", info),
		observability.BuildHeaders(middleware.GetRequestID(c), ""))

	c.JSON(http.StatusOK, info)
}

// LeaveGroupCall leaves a call. Leaving a call we are not in succeeds.
func (h *CallHandler) LeaveGroupCall(c *gin.Context) {
	callID, ok := parseCallID(c)
	if !ok {
		return
	}

	if err := h.core.LeaveGroupCall(c.Request.Context(), callID); err != nil {
		writeCallsError(c, err)
		return
	}

	h.audit.Emit(c.Request.Context(), middleware.GetRequestID(c), telemetry.AuditPayload{
		Action: "call_leave",
		CallID: callID,
	})
	observability.PublishEvent(c.Request.Context(), "call.left",
		observability.NewEnvelope("call", "left", gin.H{"call_id": callID}),
		observability.BuildHeaders(middleware.GetRequestID(c), ""))

	c.JSON(http.StatusOK, gin.H{"status": "left"})
}

func parseCallID(c *gin.Context) (int32, bool) {
	raw, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || raw == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid call id"})
		return 0, false
	}
	return int32(raw), true
}
