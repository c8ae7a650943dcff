package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/timeclock/internal/domain/models"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// TimeTracker records clock events and resolves staff status.
type TimeTracker interface {
	RecordEvent(ctx context.Context, staffID string, action models.Action) (string, error)
	ResolveStatus(ctx context.Context, staffID string) (models.Action, error)
}

// TimeTrackingHandler serves the clock widget endpoints.
type TimeTrackingHandler struct {
	svc    TimeTracker
	logger *zap.Logger
}

// NewTimeTrackingHandler constructs the HTTP handler adapter.
func NewTimeTrackingHandler(svc TimeTracker, logger *zap.Logger) *TimeTrackingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimeTrackingHandler{svc: svc, logger: logger}
}

// Index describes the time tracking API.
func (h *TimeTrackingHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Time tracking API is running",
		"endpoints": gin.H{
			"clock":  "/api/time-tracking/clock",
			"status": "/api/time-tracking/status/:staffId",
		},
	})
}

// ClockInfo documents how to call Clock.
func (h *TimeTrackingHandler) ClockInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":  "Use POST method to clock in/out",
		"endpoint": "/api/time-tracking/clock",
		"required": gin.H{"staffId": "string", "action": "string"},
	})
}

// Clock records one clock event.
func (h *TimeTrackingHandler) Clock(c *gin.Context) {
	var req models.ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.StaffID) == "" {
		h.logger.Warn("invalid clock payload", zap.Error(err))
		badRequest(c, "Missing staffId or action")
		return
	}
	if !req.Action.Valid() {
		badRequest(c, "Invalid action")
		return
	}

	id, err := h.svc.RecordEvent(c.Request.Context(), req.StaffID, req.Action)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.ClockResponse{Success: true, ID: id})
}

// Status returns the staff member's last recorded action.
func (h *TimeTrackingHandler) Status(c *gin.Context) {
	staffID := strings.TrimSpace(c.Param("staffId"))
	if staffID == "" {
		badRequest(c, "Missing staffId")
		return
	}

	action, err := h.svc.ResolveStatus(c.Request.Context(), staffID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.StatusResponse{Success: true, Action: action})
}
