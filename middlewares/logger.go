package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joy095/taxibooking/logger"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one line per request. Query strings and bodies are left
// out since booking forms carry personal data.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := logger.InfoLogger.WithFields(logrus.Fields{
			"request_id": GetRequestID(c),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"client":     c.ClientIP(),
		})

		switch {
		case status >= 500:
			logger.ErrorLogger.WithFields(entry.Data).Error("HTTP request")
		case status >= 400:
			logger.WarnLogger.WithFields(entry.Data).Warn("HTTP request")
		default:
			entry.Info("HTTP request")
		}
	}
}
