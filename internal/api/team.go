package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/collabsphere/internal/dashboard"
	"github.com/lalith-99/collabsphere/internal/middleware"
	"go.uber.org/zap"
)

// TeamHandler serves the manager-only roster and performance review pages.
// The router puts middleware.RequireManager in front of every route; the
// workspace checks the role again.
type TeamHandler struct {
	logger *zap.Logger
}

func NewTeamHandler(logger *zap.Logger) *TeamHandler {
	return &TeamHandler{logger: logger}
}

// List handles GET /v1/team?q=engineering
func (h *TeamHandler) List(c *gin.Context) {
	ws := middleware.GetSession(c).Workspace
	members, err := ws.Team(c.Query("q"))
	if err != nil {
		respondError(c, h.logger, "failed to list team", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// Add handles POST /v1/team
func (h *TeamHandler) Add(c *gin.Context) {
	var form dashboard.MemberForm
	if !bindJSON(c, &form) {
		return
	}
	ws := middleware.GetSession(c).Workspace

	m, err := ws.AddMember(form)
	if err != nil {
		respondError(c, h.logger, "failed to add team member", err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// Reviews handles GET /v1/reviews
func (h *TeamHandler) Reviews(c *gin.Context) {
	ws := middleware.GetSession(c).Workspace
	reviews, err := ws.Reviews()
	if err != nil {
		respondError(c, h.logger, "failed to list reviews", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// SubmitReview handles POST /v1/reviews
func (h *TeamHandler) SubmitReview(c *gin.Context) {
	var form dashboard.ReviewForm
	if !bindJSON(c, &form) {
		return
	}
	ws := middleware.GetSession(c).Workspace

	r, err := ws.SubmitReview(form)
	if err != nil {
		respondError(c, h.logger, "failed to submit review", err)
		return
	}
	c.JSON(http.StatusCreated, r)
}
