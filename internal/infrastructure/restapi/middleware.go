package restapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Cache-Control values advertised to CDNs in front of the API.
const (
	CacheShort = "s-maxage=60, stale-while-revalidate=300"
	CacheProxy = "s-maxage=120, stale-while-revalidate=60"
)

// ZapLoggerMiddleware logs every request through zap.
func ZapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := []zap.Field{
			zap.Int("status", c.Writer.Status()),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			logger.Error(c.Errors.ByType(gin.ErrorTypePrivate).String(), fields...)
			return
		}
		logger.Info("request", fields...)
	}
}

// CORSMiddleware allows every origin. Pre-flight requests get 200 with no body.
func CORSMiddleware() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsConfig.OptionsResponseStatusCode = 200
	return cors.New(corsConfig)
}

// PreflightMiddleware answers any OPTIONS request with 200 and no body,
// including ones without an Origin header that the CORS middleware ignores.
func PreflightMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

// cacheable marks a successful response as cacheable by shared caches.
func cacheable(c *gin.Context, value string) {
	c.Header("Cache-Control", value)
}
