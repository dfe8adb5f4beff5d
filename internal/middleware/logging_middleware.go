package middleware

import (
	"time"

	"github.com/fooddash/fooddash-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// quietPaths are polled by health checks and scrapers; they only log at debug
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// LoggingMiddleware attaches a request scoped logger and logs each request
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		log := logger.WithContext(map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"ip":         c.ClientIP(),
		})

		c.Set("logger", log)

		c.Next()

		statusCode := c.Writer.Status()
		fields := map[string]interface{}{
			"status_code": statusCode,
			"latency_ms":  time.Since(startTime).Milliseconds(),
			"body_size":   c.Writer.Size(),
		}
		// set by Authenticate when the route is protected
		if userID, ok := GetUserID(c); ok {
			fields["user_id"] = userID
			if role, ok := GetUserRole(c); ok {
				fields["role"] = role
			}
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		const msg = "Request completed"
		switch {
		case statusCode >= 500:
			log.Error(msg, nil, fields)
		case statusCode >= 400:
			log.Warn(msg, fields)
		case quietPaths[c.Request.URL.Path]:
			log.Debug(msg, fields)
		default:
			log.Info(msg, fields)
		}
	}
}

// GetLoggerFromContext returns the request logger, or the global one
func GetLoggerFromContext(c *gin.Context) *logger.Logger {
	if log, exists := c.Get("logger"); exists {
		if l, ok := log.(*logger.Logger); ok {
			return l
		}
	}
	return logger.Get()
}
