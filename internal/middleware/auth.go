package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/collabsphere/internal/apperr"
	"github.com/lalith-99/collabsphere/internal/auth"
	"github.com/lalith-99/collabsphere/internal/models"
	"github.com/lalith-99/collabsphere/internal/session"
	"go.uber.org/zap"
)

const (
	ContextKeySession  = "session"
	ContextKeyIdentity = "identity"
)

// Sessions is what the middleware needs from the session registry.
type Sessions interface {
	Get(ctx context.Context, sid string) (*session.Session, error)
}

// SessionMiddleware resolves the session token to a live session and stores
// it on the gin context. The token comes from "Authorization: Bearer <token>",
// or from ?token= for websocket upgrades, which cannot set headers from a
// browser.
func SessionMiddleware(secret string, sessions Sessions, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing session token",
			})
			return
		}

		claims, err := auth.ParseToken(tokenString, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid or expired session token",
			})
			return
		}

		s, err := sessions.Get(c.Request.Context(), claims.SessionID)
		if err != nil {
			logger.Error("failed to load session", zap.String("session_id", claims.SessionID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "failed to load session",
			})
			return
		}

		c.Set(ContextKeySession, s)
		if u := s.Guard.Current(); u != nil {
			c.Set(ContextKeyIdentity, u)
		}
		c.Next()
	}
}

// RequireIdentity answers 401 with the login redirect when nobody is logged in.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetIdentity(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":        apperr.ErrNoIdentity.Error(),
				"redirect":     session.PathLogin,
				"notification": apperr.Notify(apperr.ErrNoIdentity),
			})
			return
		}
		c.Next()
	}
}

// RequireManager answers 403 for team members. Run it after RequireIdentity.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetIdentity(c).IsManager() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":        apperr.ErrForbidden.Error(),
				"notification": apperr.Notify(apperr.ErrForbidden),
			})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	if t := c.Query("token"); t != "" {
		return t, true
	}
	return "", false
}

func GetSession(c *gin.Context) *session.Session {
	val, exists := c.Get(ContextKeySession)
	if !exists {
		return nil
	}
	s, ok := val.(*session.Session)
	if !ok {
		return nil
	}
	return s
}

// GetIdentity returns who was logged in when the request started, or nil.
func GetIdentity(c *gin.Context) *models.Identity {
	val, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return nil
	}
	u, ok := val.(*models.Identity)
	if !ok {
		return nil
	}
	return u
}
