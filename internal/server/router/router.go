package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/timeclock/internal/config"
	"github.com/mamadbah2/timeclock/internal/server/handlers"
)

// Handlers groups the HTTP adapters served by the router.
type Handlers struct {
	TimeTracking *handlers.TimeTrackingHandler
	System       *handlers.SystemHandler
	Admin        *handlers.AdminHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, cfg config.ServerConfig, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")

	tracking := api.Group("/time-tracking", corsMiddleware(cfg, http.MethodGet, http.MethodPost))
	{
		tracking.GET("", h.TimeTracking.Index)
		tracking.GET("/clock", h.TimeTracking.ClockInfo)
		tracking.POST("/clock", h.TimeTracking.Clock)
		tracking.GET("/status/:staffId", h.TimeTracking.Status)
		preflight(tracking, cfg, []string{http.MethodGet, http.MethodPost}, "", "/clock", "/status/:staffId")
	}

	system := api.Group("", corsMiddleware(cfg, http.MethodGet))
	{
		system.GET("/test", h.System.Test)
		system.GET("/store-status", h.System.StoreStatus)
		preflight(system, cfg, []string{http.MethodGet}, "/test", "/store-status")
	}

	adminMethods := []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete}
	admin := api.Group("/admin", corsMiddleware(cfg, adminMethods...))
	{
		admin.GET("/entries", h.Admin.ListEntries)
		admin.POST("/entries", h.Admin.CreateEntry)
		admin.PATCH("/entries/:id", h.Admin.UpdateEntry)
		admin.DELETE("/entries/:id", h.Admin.DeleteEntry)
		admin.GET("/staff", h.Admin.ListStaff)
		admin.POST("/staff", h.Admin.AddStaff)
		admin.GET("/analytics", h.Admin.Analytics)
		admin.GET("/summaries", h.Admin.Summaries)
		admin.GET("/reports/:staffId", h.Admin.StaffReport)
		admin.GET("/export", h.Admin.Export)
		preflight(admin, cfg, adminMethods, "/entries", "/entries/:id", "/staff", "/analytics", "/summaries", "/reports/:staffId", "/export")
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	logger.Info("router initialized", zap.Strings("allowed_origins", cfg.AllowedOrigins))

	return r
}

// preflight answers OPTIONS on each path. Requests carrying an Origin are
// answered by the cors middleware before reaching this handler.
func preflight(g *gin.RouterGroup, cfg config.ServerConfig, methods []string, paths ...string) {
	allowMethods := strings.Join(append(append([]string{}, methods...), http.MethodOptions), ", ")
	allowOrigin := "*"
	if !allowsAll(cfg.AllowedOrigins) && len(cfg.AllowedOrigins) > 0 {
		allowOrigin = cfg.AllowedOrigins[0]
	}

	handler := func(c *gin.Context) {
		if c.Writer.Header().Get("Access-Control-Allow-Origin") == "" {
			c.Header("Access-Control-Allow-Origin", allowOrigin)
			c.Header("Access-Control-Allow-Methods", allowMethods)
			c.Header("Access-Control-Allow-Headers", strings.Join(allowHeaders, ", "))
			c.Header("Access-Control-Max-Age", maxAgeSeconds)
		}
		c.Status(http.StatusOK)
	}
	for _, path := range paths {
		g.OPTIONS(path, handler)
	}
}
