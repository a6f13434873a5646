package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/lalith-99/collabsphere/internal/apperr"
	"github.com/lalith-99/collabsphere/internal/chat"
	"github.com/lalith-99/collabsphere/internal/mocks"
	"github.com/lalith-99/collabsphere/internal/models"
	"github.com/lalith-99/collabsphere/internal/repository/memory"
	"github.com/lalith-99/collabsphere/internal/seed"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// stubIdentity stands in for the session guard.
type stubIdentity struct {
	current *models.Identity
	err     error
}

func (s *stubIdentity) Current() *models.Identity { return s.current }

func (s *stubIdentity) UpdateProfile(_ context.Context, name, email string) (*models.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	u := *s.current
	u.Name, u.Email = name, email
	s.current = &u
	return &u, nil
}

var (
	managerID = &models.Identity{ID: "user-1", Name: "alex", Email: "alex@manager.com", Role: models.RoleManager}
	memberID  = &models.Identity{ID: "user-2", Name: "sam", Email: "sam@example.com", Role: models.RoleTeamMember}
	testNow   = time.Date(2025, 4, 20, 10, 0, 0, 0, time.UTC)
)

func newWorkspace(t *testing.T, who *models.Identity) (*Workspace, *chat.Store) {
	t.Helper()
	data, err := seed.Load()
	require.NoError(t, err)
	store := chat.NewStore(data.Channels, data.Messages)
	ws := NewWorkspace(Deps{
		Projects: memory.NewProjectStore(data.Projects),
		Team:     memory.NewTeamStore(data.Team),
		Reviews:  memory.NewReviewStore(data.Reviews),
		Chat:     store,
		Identity: &stubIdentity{current: who},
		Now:      func() time.Time { return testNow },
	})
	return ws, store
}

func validProject() ProjectForm {
	return ProjectForm{
		Name:        "Data Platform",
		Description: "Unify reporting pipelines",
		StartDate:   "2025-05-01",
		DueDate:     "2025-09-30",
	}
}

func TestWorkspace_Projects(t *testing.T) {
	ws, _ := newWorkspace(t, memberID)

	require.Len(t, ws.Projects(""), 4)
	require.Len(t, ws.Projects("website"), 1)
	require.Len(t, ws.Projects("MIGRAT"), 1)
	require.Empty(t, ws.Projects("no such project"))
}

func TestWorkspace_Project_NotFound(t *testing.T) {
	ws, _ := newWorkspace(t, memberID)

	_, err := ws.Project("404")

	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestWorkspace_CreateProject(t *testing.T) {
	t.Run("should create a planning project with a chat channel", func(t *testing.T) {
		req := require.New(t)
		ws, store := newWorkspace(t, managerID)

		p, err := ws.CreateProject(validProject())

		req.NoError(err)
		req.Equal("project-1745143200000", p.ID)
		req.Equal(models.ProjectPlanning, p.Status)
		req.Equal("alex", p.CreatedBy)
		req.Empty(p.Tasks)
		req.Len(ws.Projects(""), 5)

		ch, ok := store.Channel(p.ID)
		req.True(ok)
		req.Equal(models.CategoryProject, ch.Category)
		req.Empty(store.Messages(p.ID))
	})

	t.Run("should abort on a missing field", func(t *testing.T) {
		ws, store := newWorkspace(t, managerID)
		form := validProject()
		form.DueDate = ""

		_, err := ws.CreateProject(form)

		require.ErrorIs(t, err, apperr.ErrMissingRequiredField)
		require.Len(t, ws.Projects(""), 4)
		require.Len(t, store.Channels(), 9)
	})

	t.Run("should reject a malformed date", func(t *testing.T) {
		ws, _ := newWorkspace(t, managerID)
		form := validProject()
		form.StartDate = "May 1st"

		_, err := ws.CreateProject(form)

		require.ErrorIs(t, err, apperr.ErrInvalidField)
	})

	t.Run("should reject an unknown status", func(t *testing.T) {
		ws, _ := newWorkspace(t, managerID)
		form := validProject()
		form.Status = "Abandoned"

		_, err := ws.CreateProject(form)

		require.ErrorIs(t, err, apperr.ErrInvalidField)
	})

	t.Run("should keep a valid status with spaces", func(t *testing.T) {
		ws, _ := newWorkspace(t, managerID)
		form := validProject()
		form.Status = models.ProjectOnHold

		p, err := ws.CreateProject(form)

		require.NoError(t, err)
		require.Equal(t, models.ProjectOnHold, p.Status)
	})

	t.Run("should give distinct ids and chats to projects created on the same tick", func(t *testing.T) {
		req := require.New(t)
		ws, _ := newWorkspace(t, managerID)
		second := validProject()
		second.Name = "Billing Revamp"

		a, err := ws.CreateProject(validProject())
		req.NoError(err)
		b, err := ws.CreateProject(second)
		req.NoError(err)

		req.Equal("project-1745143200000", a.ID)
		req.Equal("project-1745143200001", b.ID)
		got, err := ws.Project(b.ID)
		req.NoError(err)
		req.Equal("Billing Revamp", got.Name)

		_, sent, err := ws.SendProjectChat(b.ID, "kickoff at 10", nil)
		req.NoError(err)
		req.True(sent)
		aChat, err := ws.ProjectChat(a.ID)
		req.NoError(err)
		req.Empty(aChat)
		bChat, err := ws.ProjectChat(b.ID)
		req.NoError(err)
		req.Len(bChat, 1)
	})

	t.Run("should surface a duplicate id from the repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockProjectRepository(ctrl)
		repo.EXPECT().Create(gomock.Any()).Return(models.Project{}, apperr.ErrDuplicate)
		store := chat.NewStore(nil, nil)
		ws := NewWorkspace(Deps{
			Projects: repo,
			Chat:     store,
			Identity: &stubIdentity{current: managerID},
			Now:      func() time.Time { return testNow },
		})

		_, err := ws.CreateProject(validProject())

		require.ErrorIs(t, err, apperr.ErrDuplicate)
		require.Empty(t, store.Channels())
	})

	t.Run("should be forbidden for team members", func(t *testing.T) {
		ws, _ := newWorkspace(t, memberID)

		_, err := ws.CreateProject(validProject())

		require.ErrorIs(t, err, apperr.ErrForbidden)
	})

	t.Run("should need an identity", func(t *testing.T) {
		ws, _ := newWorkspace(t, nil)

		_, err := ws.CreateProject(validProject())

		require.ErrorIs(t, err, apperr.ErrNoIdentity)
	})
}

func TestWorkspace_AddTask(t *testing.T) {
	t.Run("should add a To Do task with medium priority", func(t *testing.T) {
		req := require.New(t)
		ws, _ := newWorkspace(t, managerID)

		task, err := ws.AddTask("1", TaskForm{Title: "QA pass", Assignee: "David Wilson"})

		req.NoError(err)
		req.Equal(models.TaskToDo, task.Status)
		req.Equal(models.PriorityMedium, task.Priority)
		p, err := ws.Project("1")
		req.NoError(err)
		req.Equal(task.ID, p.Tasks[len(p.Tasks)-1].ID)
	})

	t.Run("should require an assignee", func(t *testing.T) {
		ws, _ := newWorkspace(t, managerID)
		before, _ := ws.Project("1")

		_, err := ws.AddTask("1", TaskForm{Title: "QA pass"})

		require.ErrorIs(t, err, apperr.ErrMissingRequiredField)
		after, _ := ws.Project("1")
		require.Len(t, after.Tasks, len(before.Tasks))
	})

	t.Run("should fail for an unknown project", func(t *testing.T) {
		ws, _ := newWorkspace(t, managerID)

		_, err := ws.AddTask("404", TaskForm{Title: "QA pass", Assignee: "x"})

		require.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("should pass the task to the repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockProjectRepository(ctrl)
		repo.EXPECT().
			AddTask("p", models.Task{
				Title:    "Ship",
				Status:   models.TaskToDo,
				Assignee: "sam",
				Priority: models.PriorityHigh,
			}).
			Return(&models.Task{ID: "9", Title: "Ship"}, nil)
		ws := NewWorkspace(Deps{Projects: repo, Identity: &stubIdentity{current: managerID}})

		task, err := ws.AddTask("p", TaskForm{Title: "Ship", Assignee: "sam", Priority: models.PriorityHigh})

		require.NoError(t, err)
		require.Equal(t, "9", task.ID)
	})
}

func TestProgress(t *testing.T) {
	require.Equal(t, 0, Progress(models.Project{}))
	require.Equal(t, 33, Progress(models.Project{Tasks: []models.Task{
		{Status: models.TaskCompleted}, {Status: models.TaskToDo}, {Status: models.TaskInProgress},
	}}))
}

func TestWorkspace_ProjectChat(t *testing.T) {
	req := require.New(t)
	ws, store := newWorkspace(t, memberID)

	_, ok, err := ws.SendProjectChat("2", "designs attached", &models.Attachment{Name: "wire.fig", Size: 4096})
	req.NoError(err)
	req.True(ok)

	msgs, err := ws.ProjectChat("2")
	req.NoError(err)
	req.Equal(store.Messages("2"), msgs)
	req.Equal("designs attached", msgs[len(msgs)-1].Content)

	_, _, err = ws.SendProjectChat("404", "hello", nil)
	req.ErrorIs(err, apperr.ErrNotFound)
}
