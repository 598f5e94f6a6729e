package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/joy095/taxibooking/logger"
	"github.com/joy095/taxibooking/metrics"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// GlobalRateLimiter caps the combined rate, across all clients, of the routes
// it is mounted on with one token bucket. It returns a pass-through handler
// when rps is not positive.
// onReject writes the response for throttled requests; the chain is aborted
// afterwards either way.
func GlobalRateLimiter(rps float64, burst int, m *metrics.Metrics, onReject gin.HandlerFunc) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		if limiter.Allow() {
			c.Next()
			return
		}

		if m != nil {
			m.Throttled.WithLabelValues("global").Inc()
		}
		logger.WarnLogger.WithFields(logrus.Fields{
			"path":       c.Request.URL.Path,
			"request_id": GetRequestID(c),
		}).Warn("Global rate limit exceeded")

		onReject(c)
		c.Abort()
	}
}
