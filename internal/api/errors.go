package api

import (
	"net/http"
	"strconv"

	"fitstudio/server/internal/domain"

	"github.com/gin-gonic/gin"
)

// statusFor maps a domain error kind to its HTTP status.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes err as a JSON error body. Errors without a domain kind
// are hidden behind a generic message and attached to the context for the
// request log.
func respondError(c *gin.Context, err error) {
	status := statusFor(domain.KindOf(err))
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		abortWithError(c, status, "An unexpected error occurred")
		return
	}
	abortWithError(c, status, err.Error())
}

// bindError reports a malformed request body.
func bindError(c *gin.Context, err error) {
	abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
}

// pathID parses the named path parameter as a positive id. Malformed ids
// cannot name an existing row, so they answer 404.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, http.StatusNotFound, name+" not found")
		return 0, false
	}
	return id, true
}

// mustActor returns the authenticated actor, answering 401 when absent.
func mustActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := actorFromContext(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "authentication required")
	}
	return actor, ok
}
