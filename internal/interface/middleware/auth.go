package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/protocol-blackout/pkg/response"
)

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "userID"

// SessionVerifier resolves a signed session token to a user id.
type SessionVerifier interface {
	Verify(token string) (string, error)
}

// Auth requires an "Authorization: Bearer <token>" header carrying a valid
// session token and sets ContextUserID on success. Every failure is the same 401.
func Auth(sessions SessionVerifier, logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error[any](c, http.StatusUnauthorized, "not authorized", nil)
			return
		}
		userID, err := sessions.Verify(token)
		if err != nil || userID == "" {
			if logger != nil {
				logger.WithField("request_id", c.GetString("request_id")).WithError(err).Debug("session rejected")
			}
			response.Error[any](c, http.StatusUnauthorized, "not authorized", nil)
			return
		}
		c.Set(ContextUserID, userID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
