package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/runauth/internal/common"
	"github.com/dmitrijs2005/runauth/internal/logging"
	"github.com/dmitrijs2005/runauth/internal/server/metrics"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	userNameKey     = "username"
	unmatchedRoute  = "unmatched"
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(requestIDHeader, reqID)
		c.Header(requestIDHeader, reqID)
		c.Next()
	}
}

func requestLogger(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		// Metric labels use the route template; unknown paths share one
		// label so random URLs cannot create new series.
		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		l.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", route,
			"status", status,
			"latency", latency,
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(requestIDHeader),
		)

		code := strconv.Itoa(status)
		metrics.RequestCount.WithLabelValues(c.Request.Method, route, code).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, route, code).Observe(latency.Seconds())
	}
}

func recovery(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				l.Error(c.Request.Context(), "panic",
					"error", err,
					"path", c.Request.URL.Path,
					"request_id", c.GetString(requestIDHeader),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Detail: detailInternal})
			}
		}()
		c.Next()
	}
}

// bearerAuth resolves the access token in the Authorization header to a
// username and stores it in the gin context.
func (s *Server) bearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c.GetHeader(common.AuthorizationHeaderName))
		if token == "" {
			abortUnauthorized(c, detailInvalidToken)
			return
		}

		userName, err := s.auth.Authenticate(token)
		if err != nil {
			abortUnauthorized(c, detailInvalidToken)
			return
		}

		c.Set(userNameKey, userName)
		c.Next()
	}
}

func extractBearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}
