package middleware

import (
	"time"

	"homeinsight-propcache/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LoggingMiddleware tags each request with an id and logs method, path,
// status and latency once the handler chain finishes.
func LoggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		latency := time.Since(start)
		log.Printf("%s %s %d %v request_id=%s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), latency, requestID)
	}
}
