package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/collabsphere/internal/apperr"
	"github.com/lalith-99/collabsphere/internal/session"
	"go.uber.org/zap"
)

// errorResponse carries the toast the client shows next to the raw error.
type errorResponse struct {
	Error        string              `json:"error"`
	Notification apperr.Notification `json:"notification"`
	Redirect     string              `json:"redirect,omitempty"`
}

// statusFor maps domain errors to HTTP statuses. Anything unrecognised is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidCredentials),
		errors.Is(err, apperr.ErrInvalidUserData),
		errors.Is(err, apperr.ErrMissingRequiredField),
		errors.Is(err, apperr.ErrPasswordMismatch),
		errors.Is(err, apperr.ErrInvalidField):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNoIdentity):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSuperseded), errors.Is(err, apperr.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// The client went away; nobody reads this.
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error(), Notification: apperr.Notify(err)}
	if status == http.StatusUnauthorized {
		resp.Redirect = session.PathLogin
	}
	if status >= http.StatusInternalServerError {
		logger.Error(msg, zap.Error(err))
		resp.Error = msg
	}
	c.JSON(status, resp)
}

// bindJSON binds the body or answers 400. Validation is left to the
// dashboard forms so every failure maps to the same notifications.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{
			Error:        err.Error(),
			Notification: apperr.Notify(apperr.ErrInvalidField),
		})
		return false
	}
	return true
}
