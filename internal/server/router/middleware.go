package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/timeclock/internal/config"
	"github.com/mamadbah2/timeclock/internal/server/handlers"
)

const (
	requestIDHeader = "X-Request-ID"
	preflightMaxAge = 24 * time.Hour
	maxAgeSeconds   = "86400"
)

var allowHeaders = []string{"Content-Type", "Authorization"}

func corsMiddleware(cfg config.ServerConfig, methods ...string) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:              append(append([]string{}, methods...), http.MethodOptions),
		AllowHeaders:              allowHeaders,
		ExposeHeaders:             []string{"Content-Disposition", requestIDHeader},
		MaxAge:                    preflightMaxAge,
		OptionsResponseStatusCode: http.StatusOK,
	}
	if allowsAll(cfg.AllowedOrigins) {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	return cors.New(corsCfg)
}

func allowsAll(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(handlers.RequestIDKey, requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("request_id", c.GetString(handlers.RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
