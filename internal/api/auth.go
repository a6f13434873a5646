package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/collabsphere/internal/auth"
	"github.com/lalith-99/collabsphere/internal/middleware"
	"github.com/lalith-99/collabsphere/internal/models"
	"github.com/lalith-99/collabsphere/internal/session"
	"go.uber.org/zap"
)

// SessionRegistry creates sessions and forgets them on logout.
type SessionRegistry interface {
	Create(ctx context.Context) (*session.Session, error)
	Dispose(sid string)
}

// AuthHandler issues session tokens and runs login, signup and logout against
// the caller's session guard.
type AuthHandler struct {
	sessions   SessionRegistry
	jwtSecret  string
	sessionTTL time.Duration
	logger     *zap.Logger
}

func NewAuthHandler(sessions SessionRegistry, jwtSecret string, sessionTTL time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		sessions:   sessions,
		jwtSecret:  jwtSecret,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Field checks happen in the guard, so every field is optional here.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// identityResponse tells the client who is logged in and where to go next.
type identityResponse struct {
	User     *models.Identity `json:"user"`
	Redirect string           `json:"redirect,omitempty"`
}

// CreateSession handles POST /v1/sessions
//
// The client calls this once and keeps the token for every later request.
// The new session has no identity.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	s, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to create session", err)
		return
	}

	token, err := auth.GenerateToken(s.ID, h.jwtSecret, h.sessionTTL)
	if err != nil {
		h.sessions.Dispose(s.ID)
		respondError(c, h.logger, "failed to create session", err)
		return
	}

	c.JSON(http.StatusCreated, sessionResponse{
		Token:     token,
		SessionID: s.ID,
		ExpiresAt: time.Now().Add(h.sessionTTL).UTC(),
	})
}

// Login handles POST /v1/auth/login
//
// Blocks for the configured auth delay. A client that disconnects during the
// wait cancels the login and nothing is saved.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	s := middleware.GetSession(c)

	u, err := s.Guard.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, "login failed", err)
		return
	}

	c.JSON(http.StatusOK, identityResponse{User: u, Redirect: session.PathHome})
}

// Signup handles POST /v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if !bindJSON(c, &req) {
		return
	}
	s := middleware.GetSession(c)

	u, err := s.Guard.Signup(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		respondError(c, h.logger, "signup failed", err)
		return
	}

	c.JSON(http.StatusCreated, identityResponse{User: u, Redirect: session.PathHome})
}

// Logout handles POST /v1/auth/logout
//
// Clears the identity slot and drops the session's chat and dashboard state.
// The token stays usable and resolves to a fresh anonymous session.
func (h *AuthHandler) Logout(c *gin.Context) {
	s := middleware.GetSession(c)

	next, err := s.Guard.Logout(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "logout failed", err)
		return
	}
	h.sessions.Dispose(s.ID)

	c.JSON(http.StatusOK, identityResponse{Redirect: next})
}

// Me handles GET /v1/auth/me. User is null when nobody is logged in.
func (h *AuthHandler) Me(c *gin.Context) {
	s := middleware.GetSession(c)
	c.JSON(http.StatusOK, identityResponse{User: s.Guard.Current()})
}

// Navigate handles GET /v1/navigate?path=/dashboard/team
func (h *AuthHandler) Navigate(c *gin.Context) {
	s := middleware.GetSession(c)
	c.JSON(http.StatusOK, s.Guard.Navigate(c.Query("path")))
}
