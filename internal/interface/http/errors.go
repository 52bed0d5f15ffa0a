package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/protocol-blackout/internal/application"
	"github.com/oksasatya/protocol-blackout/internal/interface/middleware"
	"github.com/oksasatya/protocol-blackout/pkg/helpers"
	"github.com/oksasatya/protocol-blackout/pkg/response"
)

// writeError maps application errors to one stable client message per case.
// Anything unrecognised is logged with its oops context and answered with a
// generic 500.
func writeError(c *gin.Context, logger logrus.FieldLogger, err error) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", verr.Details)
	case errors.Is(err, application.ErrValidation):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", nil)
	case errors.Is(err, application.ErrDuplicateEmail):
		response.Error[any](c, http.StatusConflict, "email already registered", nil)
	case errors.Is(err, application.ErrInvalidCredentials), errors.Is(err, application.ErrUnverifiedAccount):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, application.ErrInvalidOrExpiredToken):
		response.Error[any](c, http.StatusBadRequest, "invalid or expired token", nil)
	case errors.Is(err, application.ErrGameNotFound):
		response.Error[any](c, http.StatusNotFound, "game not found", nil)
	case errors.Is(err, application.ErrNotAuthorized), errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusUnauthorized, "not authorized", nil)
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		})
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

// userID returns the id set by the auth middleware.
func userID(c *gin.Context) (string, bool) {
	id := c.GetString(middleware.ContextUserID)
	return id, id != ""
}
