package dashboard

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lalith-99/collabsphere/internal/apperr"
	"github.com/lalith-99/collabsphere/internal/chat"
	"github.com/lalith-99/collabsphere/internal/models"
	"github.com/lalith-99/collabsphere/internal/repository"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Identity is the part of the session guard the dashboard needs: who is acting,
// and a way to rename them from the settings page.
type Identity interface {
	Current() *models.Identity
	UpdateProfile(ctx context.Context, name, email string) (*models.Identity, error)
}

// Workspace is one session's dashboard: seeded projects, roster and reviews,
// plus the settings page state. Nothing here is persisted.
type Workspace struct {
	projects repository.ProjectRepository
	team     repository.TeamRepository
	reviews  repository.ReviewRepository
	chat     *chat.Store
	identity Identity
	logger   *zap.Logger
	now      func() time.Time

	mu            sync.Mutex
	profile       models.Profile
	notifications models.NotificationSettings
	passwordHash  []byte
	// lastProjectMilli keeps project ids unique when the clock stalls.
	lastProjectMilli int64
}

type Deps struct {
	Projects repository.ProjectRepository
	Team     repository.TeamRepository
	Reviews  repository.ReviewRepository
	Chat     *chat.Store
	Identity Identity
	Logger   *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewWorkspace(d Deps) *Workspace {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Workspace{
		projects: d.Projects,
		team:     d.Team,
		reviews:  d.Reviews,
		chat:     d.Chat,
		identity: d.Identity,
		logger:   d.Logger,
		now:      d.Now,
		profile: models.Profile{
			Phone: "+1 (555) 123-4567",
			Bio:   "Team member focused on delivering high-quality work.",
		},
		notifications: models.NotificationSettings{
			EmailNotifications: true,
			TaskAssignments:    true,
			TaskUpdates:        true,
			ProjectUpdates:     true,
			DirectMessages:     true,
			Mentions:           true,
			PerformanceReviews: true,
		},
	}
}

// actor returns the logged-in identity or ErrNoIdentity.
func (w *Workspace) actor() (*models.Identity, error) {
	u := w.identity.Current()
	if u == nil {
		return nil, apperr.ErrNoIdentity
	}
	return u, nil
}

func (w *Workspace) manager() (*models.Identity, error) {
	u, err := w.actor()
	if err != nil {
		return nil, err
	}
	if !u.IsManager() {
		return nil, apperr.ErrForbidden
	}
	return u, nil
}

// Projects lists projects whose name or description contains query, ignoring
// case. An empty query returns everything.
func (w *Workspace) Projects(query string) []models.Project {
	all := w.projects.List()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all
	}
	return lo.Filter(all, func(p models.Project, _ int) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q)
	})
}

func (w *Workspace) Project(id string) (*models.Project, error) {
	p := w.projects.Get(id)
	if p == nil {
		return nil, fmt.Errorf("project %q: %w", id, apperr.ErrNotFound)
	}
	return p, nil
}

// CreateProject adds a project with no members or tasks and opens a chat
// channel keyed by the new project id.
func (w *Workspace) CreateProject(form ProjectForm) (*models.Project, error) {
	u, err := w.manager()
	if err != nil {
		return nil, err
	}
	if err := check(form); err != nil {
		return nil, err
	}

	status := form.Status
	if status == "" {
		status = models.ProjectPlanning
	}
	now := w.now()
	p, err := w.projects.Create(models.Project{
		ID:          "project-" + strconv.FormatInt(w.projectStamp(now), 10),
		Name:        form.Name,
		Description: form.Description,
		Status:      status,
		StartDate:   form.StartDate,
		DueDate:     form.DueDate,
		Members:     []models.ProjectMember{},
		Tasks:       []models.Task{},
		CreatedBy:   u.Name,
		CreatedAt:   now.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	if w.chat != nil {
		w.chat.AddChannel(models.Channel{ID: p.ID, Name: p.Name, Category: models.CategoryProject})
	}

	w.logger.Info("project created", zap.String("project_id", p.ID), zap.String("created_by", u.Name))
	return &p, nil
}

// projectStamp returns now in milliseconds, bumped past the last project id
// handed out.
func (w *Workspace) projectStamp(now time.Time) int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	ms := now.UnixMilli()
	if ms <= w.lastProjectMilli {
		ms = w.lastProjectMilli + 1
	}
	w.lastProjectMilli = ms
	return ms
}

// AddTask puts a new To Do task on a project's board.
func (w *Workspace) AddTask(projectID string, form TaskForm) (*models.Task, error) {
	if _, err := w.manager(); err != nil {
		return nil, err
	}
	if err := check(form); err != nil {
		return nil, err
	}

	priority := form.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	t, err := w.projects.AddTask(projectID, models.Task{
		Title:       form.Title,
		Description: form.Description,
		Status:      models.TaskToDo,
		Assignee:    form.Assignee,
		DueDate:     form.DueDate,
		Priority:    priority,
	})
	if err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}

	w.logger.Info("task added", zap.String("project_id", projectID), zap.String("task_id", t.ID))
	return t, nil
}

// Progress is the rounded percentage of completed tasks; 0 for an empty board.
func Progress(p models.Project) int {
	if len(p.Tasks) == 0 {
		return 0
	}
	return int(math.Round(float64(p.CompletedTasks()) / float64(len(p.Tasks)) * 100))
}

// ProjectChat returns the project's chat history. The project must exist.
func (w *Workspace) ProjectChat(projectID string) ([]models.Message, error) {
	if _, err := w.Project(projectID); err != nil {
		return nil, err
	}
	return w.chat.Messages(projectID), nil
}

// SendProjectChat posts to a project's chat, which is the message store channel
// with the project's id.
func (w *Workspace) SendProjectChat(projectID, text string, file *models.Attachment) (*models.Message, bool, error) {
	if _, err := w.Project(projectID); err != nil {
		return nil, false, err
	}
	msg, ok := w.chat.Send(projectID, text, file)
	return msg, ok, nil
}
