package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/auth"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/fleetreset"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/provisioning/domain"
	"github.com/marcusskogh92-prog/digitalkontroll/internal/teardown"
)

type errorPayload struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrPermissionDenied = errors.New("permission_denied")
	ErrInvalidRequest   = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, errorPayload{
			Status:  "unauthenticated",
			Message: "unauthenticated",
		}
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden, errorPayload{
			Status:  "permission-denied",
			Message: "permission denied",
		}
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidCompany):
		return http.StatusBadRequest, errorPayload{
			Status:  "invalid-argument",
			Message: "invalid request",
		}
	case errors.Is(err, domain.ErrEmptySlug),
		errors.Is(err, domain.ErrMissingProviderConfig),
		errors.Is(err, domain.ErrNotProvisioned),
		errors.Is(err, teardown.ErrProtectedCompany),
		errors.Is(err, fleetreset.ErrEnvironmentNotAllowed):
		return http.StatusPreconditionFailed, errorPayload{
			Status:  "failed-precondition",
			Message: err.Error(),
		}
	case errors.Is(err, domain.ErrAlreadyInProgress),
		errors.Is(err, domain.ErrLockLost):
		return http.StatusConflict, errorPayload{
			Status:  "aborted",
			Message: err.Error(),
		}
	default:
		// Provider failures carry the raw upstream body; surfacing it here is
		// what makes the orchestrator debuggable from the caller's side.
		return http.StatusInternalServerError, errorPayload{
			Status:  "internal",
			Message: err.Error(),
		}
	}
}
