package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/collabsphere/internal/dashboard"
	"github.com/lalith-99/collabsphere/internal/middleware"
	"github.com/lalith-99/collabsphere/internal/models"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	logger *zap.Logger
}

func NewSettingsHandler(logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{logger: logger}
}

// Profile handles GET /v1/settings/profile
func (h *SettingsHandler) Profile(c *gin.Context) {
	p, err := middleware.GetSession(c).Workspace.Profile()
	if err != nil {
		respondError(c, h.logger, "failed to get profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateProfile handles PUT /v1/settings/profile
func (h *SettingsHandler) UpdateProfile(c *gin.Context) {
	var form dashboard.ProfileForm
	if !bindJSON(c, &form) {
		return
	}
	ws := middleware.GetSession(c).Workspace

	p, err := ws.UpdateProfile(c.Request.Context(), form)
	if err != nil {
		respondError(c, h.logger, "failed to update profile", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Notifications handles GET /v1/settings/notifications
func (h *SettingsHandler) Notifications(c *gin.Context) {
	n, err := middleware.GetSession(c).Workspace.Notifications()
	if err != nil {
		respondError(c, h.logger, "failed to get notification settings", err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// UpdateNotifications handles PUT /v1/settings/notifications
func (h *SettingsHandler) UpdateNotifications(c *gin.Context) {
	var req models.NotificationSettings
	if !bindJSON(c, &req) {
		return
	}
	n, err := middleware.GetSession(c).Workspace.UpdateNotifications(req)
	if err != nil {
		respondError(c, h.logger, "failed to update notification settings", err)
		return
	}
	c.JSON(http.StatusOK, n)
}

// ChangePassword handles PUT /v1/settings/password
func (h *SettingsHandler) ChangePassword(c *gin.Context) {
	var form dashboard.PasswordForm
	if !bindJSON(c, &form) {
		return
	}
	if err := middleware.GetSession(c).Workspace.ChangePassword(form); err != nil {
		respondError(c, h.logger, "failed to change password", err)
		return
	}
	c.Status(http.StatusNoContent)
}
