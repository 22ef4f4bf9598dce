package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/runauth/internal/common"
	"github.com/dmitrijs2005/runauth/internal/server/metrics"
	"github.com/gin-gonic/gin"
)

const (
	detailBadCredentials   = "Incorrect username or password"
	detailInvalidRefresh   = "Invalid refresh token"
	detailInvalidToken     = "Invalid token"
	detailNotAuthenticated = "Not authenticated"
	detailAlreadyExists    = "Username already registered"
	detailInvalidBody      = "Invalid request body"
	detailInvalidInput     = "Invalid input"
	detailUnavailable      = "Service unavailable"
	detailInternal         = "Internal server error"
	wwwAuthenticateHeader  = "WWW-Authenticate"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func abortUnauthorized(c *gin.Context, detail string) {
	c.Header(wwwAuthenticateHeader, common.BearerScheme)
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Detail: detail})
}

// writeError maps a service error to a status code and records the
// outcome of op. unauthorizedDetail is the message used for 401s, which
// differs per endpoint.
func writeError(c *gin.Context, op string, err error, unauthorizedDetail string) {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		observe(op, "unauthorized")
		abortUnauthorized(c, unauthorizedDetail)
	case errors.Is(err, common.ErrorAlreadyExists):
		observe(op, "conflict")
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Detail: detailAlreadyExists})
	case errors.Is(err, common.ErrorInvalidInput):
		observe(op, "invalid")
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Detail: detailInvalidInput})
	case errors.Is(err, common.ErrorUnavailable):
		observe(op, "unavailable")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, errorResponse{Detail: detailUnavailable})
	default:
		observe(op, "error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Detail: detailInternal})
	}
}

func writeBindError(c *gin.Context, op string) {
	observe(op, "invalid")
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, errorResponse{Detail: detailInvalidBody})
}

func observe(op, outcome string) {
	metrics.AuthOperations.WithLabelValues(op, outcome).Inc()
}
