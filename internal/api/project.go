package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/collabsphere/internal/dashboard"
	"github.com/lalith-99/collabsphere/internal/middleware"
	"github.com/lalith-99/collabsphere/internal/models"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	logger *zap.Logger
}

func NewProjectHandler(logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{logger: logger}
}

// projectView adds the computed progress bar value to a project.
type projectView struct {
	models.Project
	Progress int `json:"progress"`
}

func viewOf(p models.Project) projectView {
	return projectView{Project: p, Progress: dashboard.Progress(p)}
}

// List handles GET /v1/projects?q=website
func (h *ProjectHandler) List(c *gin.Context) {
	ws := middleware.GetSession(c).Workspace
	projects := ws.Projects(c.Query("q"))

	views := make([]projectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, viewOf(p))
	}
	c.JSON(http.StatusOK, gin.H{"projects": views})
}

// Get handles GET /v1/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	ws := middleware.GetSession(c).Workspace
	p, err := ws.Project(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "failed to get project", err)
		return
	}
	c.JSON(http.StatusOK, viewOf(*p))
}

// Create handles POST /v1/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var form dashboard.ProjectForm
	if !bindJSON(c, &form) {
		return
	}
	ws := middleware.GetSession(c).Workspace

	p, err := ws.CreateProject(form)
	if err != nil {
		respondError(c, h.logger, "failed to create project", err)
		return
	}
	c.JSON(http.StatusCreated, viewOf(*p))
}

// AddTask handles POST /v1/projects/:id/tasks
func (h *ProjectHandler) AddTask(c *gin.Context) {
	var form dashboard.TaskForm
	if !bindJSON(c, &form) {
		return
	}
	ws := middleware.GetSession(c).Workspace

	t, err := ws.AddTask(c.Param("id"), form)
	if err != nil {
		respondError(c, h.logger, "failed to add task", err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// Chat handles GET /v1/projects/:id/chat
func (h *ProjectHandler) Chat(c *gin.Context) {
	ws := middleware.GetSession(c).Workspace
	msgs, err := ws.ProjectChat(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "failed to get project chat", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// SendChat handles POST /v1/projects/:id/chat, JSON or multipart like the
// chat panel.
func (h *ProjectHandler) SendChat(c *gin.Context) {
	text, file, err := readSend(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ws := middleware.GetSession(c).Workspace

	msg, ok, err := ws.SendProjectChat(c.Param("id"), text, file)
	if err != nil {
		respondError(c, h.logger, "failed to send project chat", err)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, sendResponse{Sent: false})
		return
	}
	c.JSON(http.StatusCreated, sendResponse{Sent: true, Message: msg})
}

// Summary handles GET /v1/dashboard/summary
func (h *ProjectHandler) Summary(c *gin.Context) {
	s, err := middleware.GetSession(c).Workspace.Summary()
	if err != nil {
		respondError(c, h.logger, "failed to build summary", err)
		return
	}
	c.JSON(http.StatusOK, s)
}
