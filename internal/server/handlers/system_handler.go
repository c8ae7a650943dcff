package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/timeclock/internal/config"
	"github.com/mamadbah2/timeclock/internal/domain/models"
)

const probeStaffID = "test-user"

// StoreProber reports store configuration and reachability.
type StoreProber interface {
	StoreStatus(ctx context.Context, hasURI, hasDatabase bool, staffID string) models.StoreStatus
}

// SystemHandler serves diagnostics endpoints.
type SystemHandler struct {
	prober StoreProber
	cfg    config.MongoDBConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewSystemHandler constructs the diagnostics handler.
func NewSystemHandler(prober StoreProber, cfg config.MongoDBConfig, logger *zap.Logger) *SystemHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SystemHandler{prober: prober, cfg: cfg, logger: logger, now: time.Now}
}

// Test echoes the request method and server time.
func (h *SystemHandler) Test(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "API test endpoint is working",
		"timestamp": h.now().UTC().Format(time.RFC3339Nano),
		"method":    c.Request.Method,
	})
}

// StoreStatus probes the store with a status lookup. ?staffId overrides the
// probed staff member.
func (h *SystemHandler) StoreStatus(c *gin.Context) {
	staffID := c.DefaultQuery("staffId", probeStaffID)
	status := h.prober.StoreStatus(c.Request.Context(), h.cfg.URI != "", h.cfg.DBName != "", staffID)
	if !status.Store.Reachable {
		h.logger.Warn("store status probe failed", zap.String("error", status.Store.Error))
	}
	c.JSON(http.StatusOK, status)
}
