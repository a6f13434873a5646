package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/collabsphere/internal/middleware"
	"github.com/lalith-99/collabsphere/internal/observ"
	"github.com/lalith-99/collabsphere/internal/session"
	"go.uber.org/zap"
)

// Sessions is the registry surface the HTTP layer uses.
type Sessions interface {
	SessionRegistry
	middleware.Sessions
}

var _ Sessions = (*session.Registry)(nil)

type RouterConfig struct {
	Sessions   Sessions
	JWTSecret  string
	SessionTTL time.Duration
	Logger     *zap.Logger
	// Health reports whether the identity slot backend is reachable. Nil
	// means always healthy.
	Health func(ctx context.Context) error
}

// NewRouter wires every route. /v1/health and /v1/sessions are public; the
// rest needs a session token, and everything past auth and navigation also
// needs a logged-in identity.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger

	r := gin.New()
	r.Use(observ.RequestLogger(logger), gin.Recovery())

	authH := NewAuthHandler(cfg.Sessions, cfg.JWTSecret, cfg.SessionTTL, logger)
	chatH := NewChatHandler(logger)
	projectH := NewProjectHandler(logger)
	teamH := NewTeamHandler(logger)
	settingsH := NewSettingsHandler(logger)

	r.GET("/v1/health", func(c *gin.Context) {
		if cfg.Health != nil {
			if err := cfg.Health(c.Request.Context()); err != nil {
				logger.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/v1/sessions", authH.CreateSession)

	v1 := r.Group("/v1")
	v1.Use(middleware.SessionMiddleware(cfg.JWTSecret, cfg.Sessions, logger))

	v1.POST("/auth/login", authH.Login)
	v1.POST("/auth/signup", authH.Signup)
	v1.POST("/auth/logout", authH.Logout)
	v1.GET("/auth/me", authH.Me)
	v1.GET("/navigate", authH.Navigate)

	app := v1.Group("")
	app.Use(middleware.RequireIdentity())

	app.GET("/chat/channels", chatH.Channels)
	app.PUT("/chat/active", chatH.SelectChannel)
	app.GET("/chat/channels/:id/messages", chatH.Messages)
	app.POST("/chat/channels/:id/messages", chatH.Send)
	app.GET("/chat/ws", chatH.Stream)

	app.GET("/projects", projectH.List)
	app.POST("/projects", projectH.Create)
	app.GET("/projects/:id", projectH.Get)
	app.POST("/projects/:id/tasks", projectH.AddTask)
	app.GET("/projects/:id/chat", projectH.Chat)
	app.POST("/projects/:id/chat", projectH.SendChat)
	app.GET("/dashboard/summary", projectH.Summary)

	app.GET("/settings/profile", settingsH.Profile)
	app.PUT("/settings/profile", settingsH.UpdateProfile)
	app.GET("/settings/notifications", settingsH.Notifications)
	app.PUT("/settings/notifications", settingsH.UpdateNotifications)
	app.PUT("/settings/password", settingsH.ChangePassword)

	manager := app.Group("")
	manager.Use(middleware.RequireManager())

	manager.GET("/team", teamH.List)
	manager.POST("/team", teamH.Add)
	manager.GET("/reviews", teamH.Reviews)
	manager.POST("/reviews", teamH.SubmitReview)

	return r
}
